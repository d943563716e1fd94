/*
Package character contains core data structures related to chat personas.

A character is the identity an account presents inside chat. The connection
engine treats its presentation fields as an opaque snapshot: it reads them for
broadcast payloads and never mutates them.
*/
package character

// Character represents a chat persona owned by exactly one account.
// Fields use JSON tags for serialization in WebSocket messages.
type Character struct {

	// ID is the unique identifier for the character (UUID).
	ID string `json:"id"`

	// Owner is the username of the account that owns this character.
	// It is omitted from broadcast payloads; presence events carry the
	// username separately.
	Owner string `json:"-"`

	// Name is the display name shown in chat.
	Name string `json:"name"`

	// Color is the display color for the character's messages.
	Color string `json:"color,omitempty"`

	// Species is free-form presentation metadata.
	Species string `json:"species,omitempty"`

	// Status is a free-form status line.
	Status string `json:"status,omitempty"`

	// PortraitKey is the storage object key of the character's portrait, if any.
	PortraitKey string `json:"portraitKey,omitempty"`
}
