package model

import "errors"

// Service-level outcomes. Handlers map these to HTTP status codes;
// anything else surfaces as a generic 500.
var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access denied")
	ErrSessionNotFound    = errors.New("session not found")
)
