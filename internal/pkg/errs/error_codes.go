/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Channel and Message Business Logic Errors
const (
	// ErrChannelNameInvalid indicates that a channel name failed validation on create.
	ErrChannelNameInvalid = 2101

	// ErrChannelProtected indicates an attempt to delete the protected home channel.
	ErrChannelProtected = 2102

	// ErrChannelNotFound indicates that the named channel does not exist in the directory.
	ErrChannelNotFound = 2103

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201
)

// 3xxx: Identity, Session, and Security Errors
const (
	// ErrAuthRequired indicates a connection handshake arrived without a credential.
	ErrAuthRequired = 3001

	// ErrCharacterRequired indicates a connection handshake arrived without a character id.
	ErrCharacterRequired = 3002

	// ErrInvalidToken indicates the supplied credential failed validation or has expired.
	ErrInvalidToken = 3003

	// ErrInvalidCharacter indicates the character id does not resolve to a character owned by the credential's account.
	ErrInvalidCharacter = 3004

	// ErrInvalidUsername indicates the username failed validation on signup.
	ErrInvalidUsername = 3005

	// ErrInvalidPassword indicates the password failed validation on signup.
	ErrInvalidPassword = 3006

	// ErrUserAlreadyExists indicates the signup username is already taken.
	ErrUserAlreadyExists = 3007

	// ErrInvalidCredentials indicates a login attempt with a wrong username or password.
	ErrInvalidCredentials = 3008

	// ErrUnauthorized indicates a request to a protected endpoint without a valid identity.
	ErrUnauthorized = 3009

	// ErrAlreadyLoggedIn indicates a signup/login attempt while already holding a valid identity.
	ErrAlreadyLoggedIn = 3010

	// ErrCharacterNotFound indicates the requested character does not exist.
	ErrCharacterNotFound = 3011
)

// 4xxx: Moderation Errors
const (
	// ErrBanned indicates the account is banned from the server.
	ErrBanned = 4001

	// ErrAdminRequired indicates a moderator-only HTTP action attempted without moderator privilege.
	ErrAdminRequired = 4002

	// ErrCannotBanAdmin indicates an attempt to ban an account holding moderator privilege.
	ErrCannotBanAdmin = 4003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates a failure talking to the portrait storage backend.
	ErrFileStorageFailed = 5001
)
