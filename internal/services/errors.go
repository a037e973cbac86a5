package services

import "errors"

// Domain errors surfaced to handlers. Handlers match with errors.Is and map
// them to HTTP responses.
var (
	// ErrDuplicateUsername is returned when registering an existing username.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInvalidCredentials is returned on login failure. Unknown user and
	// wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrEmptyContent is returned when an upload carries no file content.
	ErrEmptyContent = errors.New("empty content")
	// ErrAuthenticationFailure is returned when a pairing token is unknown or
	// bound to a different user than the upload target.
	ErrAuthenticationFailure = errors.New("authentication failure")
	// ErrNotFound is returned when a resource does not exist or is not owned
	// by the requesting user.
	ErrNotFound = errors.New("not found")
)
