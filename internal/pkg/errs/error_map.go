/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Channel and Message Business Logic Errors
	ErrChannelNameInvalid:    {Code: ErrChannelNameInvalid, Message: "Invalid channel name."},
	ErrChannelProtected:      {Code: ErrChannelProtected, Message: "The home channel cannot be deleted."},
	ErrChannelNotFound:       {Code: ErrChannelNotFound, Message: "Channel not found."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},

	// 3xxx: Identity, Session, and Security Errors
	ErrAuthRequired:       {Code: ErrAuthRequired, Message: "auth required", Status: http.StatusUnauthorized},
	ErrCharacterRequired:  {Code: ErrCharacterRequired, Message: "character selection required", Status: http.StatusUnauthorized},
	ErrInvalidToken:       {Code: ErrInvalidToken, Message: "invalid token", Status: http.StatusUnauthorized},
	ErrInvalidCharacter:   {Code: ErrInvalidCharacter, Message: "invalid character", Status: http.StatusUnauthorized},
	ErrInvalidUsername:    {Code: ErrInvalidUsername, Message: "Invalid username."},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Invalid password."},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "Username is already taken."},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect username or password."},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrAlreadyLoggedIn:    {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},
	ErrCharacterNotFound:  {Code: ErrCharacterNotFound, Message: "Character not found."},

	// 4xxx: Moderation Errors
	ErrBanned:         {Code: ErrBanned, Message: "banned", Status: http.StatusForbidden},
	ErrAdminRequired:  {Code: ErrAdminRequired, Message: "Administrator privilege required.", Status: http.StatusForbidden},
	ErrCannotBanAdmin: {Code: ErrCannotBanAdmin, Message: "Administrators cannot be banned."},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again."},
}
