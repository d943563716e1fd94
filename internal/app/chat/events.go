/*
Package chat contains the connection, presence, and broadcast engine for the
Hellverse chat server.

This file defines the wire-level event shapes: the envelope every WebSocket
frame uses, the inbound payloads clients send, and the outbound payloads the
server fans out.
*/
package chat

import (
	"encoding/json"
	"time"

	"hvchat/internal/app/character"
)

// EventType identifies the kind of event carried by an Envelope.
type EventType string

// Inbound event types.
const (
	EventMessage            EventType = "message"
	EventTyping             EventType = "typing"
	EventJoinChannel        EventType = "join_channel"
	EventAdminBan           EventType = "admin_ban"
	EventAdminCreateChannel EventType = "admin_create_channel"
	EventAdminDeleteChannel EventType = "admin_delete_channel"
)

// Outbound event types. EventMessage and EventTyping are used in both directions.
const (
	EventPresence       EventType = "presence"
	EventChannelsList   EventType = "channels_list"
	EventChannelCreated EventType = "channel_created"
	EventChannelDeleted EventType = "channel_deleted"
	EventUserBanned     EventType = "user_banned"
	EventBanned         EventType = "banned"
	EventError          EventType = "error"
)

// MessageKind distinguishes the presentation of a chat message.
type MessageKind string

const (
	KindNormal MessageKind = "normal"
	KindEmote  MessageKind = "emote"
	KindOOC    MessageKind = "ooc"
)

// Valid reports whether k is one of the known message kinds.
func (k MessageKind) Valid() bool {
	switch k {
	case KindNormal, KindEmote, KindOOC:
		return true
	}
	return false
}

// Envelope is the frame every WebSocket message uses in both directions.
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is an outbound envelope before marshaling.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// NewEvent builds an outbound Event.
func NewEvent(eventType EventType, payload any) Event {
	return Event{Type: eventType, Payload: payload}
}

// --- Inbound payloads ---

// MessagePayload is the client request to post a chat message.
// Channel optionally targets another channel without switching the binding.
type MessagePayload struct {
	Text    string      `json:"text"`
	Channel string      `json:"channel,omitempty"`
	Kind    MessageKind `json:"kind,omitempty"`
}

// TypingPayload is the client's typing state update. Repeated identical states
// are expected; receivers treat them as idempotent.
type TypingPayload struct {
	Channel string `json:"channel,omitempty"`
	Typing  bool   `json:"typing"`
}

// JoinChannelPayload switches the connection's current channel.
type JoinChannelPayload struct {
	Channel string `json:"channel"`
}

// AdminBanPayload names the account a moderator wants banned.
type AdminBanPayload struct {
	TargetUser string `json:"targetUser"`
}

// AdminChannelPayload names the channel a moderator wants created or deleted.
type AdminChannelPayload struct {
	Name string `json:"name"`
}

// --- Outbound payloads ---

// PresencePayload announces a connection coming online or going offline.
type PresencePayload struct {
	CharacterID string              `json:"characterId"`
	Character   character.Character `json:"character"`
	Username    string              `json:"username"`
	Status      string              `json:"status"`
	Admin       bool                `json:"admin"`
}

// MessageRecord is the authoritative broadcast form of a chat message.
type MessageRecord struct {
	ID          int64               `json:"id"`
	CharacterID string              `json:"characterId"`
	Character   character.Character `json:"character"`
	Username    string              `json:"username"`
	Admin       bool                `json:"admin"`
	Text        string              `json:"text"`
	Kind        MessageKind         `json:"kind"`
	Timestamp   time.Time           `json:"ts"`
}

// TypingBroadcast relays a typing state to the other connections in a channel.
type TypingBroadcast struct {
	CharacterID string              `json:"characterId"`
	Character   character.Character `json:"character"`
	Typing      bool                `json:"typing"`
}

// ChannelsListPayload is the directory snapshot unicast to a newly bound connection.
type ChannelsListPayload struct {
	Channels []string `json:"channels"`
}

// ChannelLifecyclePayload announces a channel create or delete, naming the acting persona.
type ChannelLifecyclePayload struct {
	Name  string `json:"name"`
	Actor string `json:"actor"`
}

// UserBannedPayload announces a ban to every connection.
type UserBannedPayload struct {
	Username string `json:"username"`
	BannedBy string `json:"bannedBy"`
}

// BannedPayload is the unicast notice sent to a connection immediately before
// it is forcibly closed.
type BannedPayload struct {
	Reason string `json:"reason"`
}

// ErrorPayload reports a rejected inbound event back to the sender.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
