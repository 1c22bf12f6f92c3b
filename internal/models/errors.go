// internal/models/errors.go
package models

import "errors"

// Error taxonomy shared by every component. Components wrap these with
// fmt.Errorf("...: %w", ErrX) and the HTTP layer maps them with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyQueued      = errors.New("player already queued")
	ErrNotQueued          = errors.New("player not queued")
	ErrValidation         = errors.New("validation error")
)
