package service

import "errors"

// Validation errors shared across services. The messages are the exact
// strings returned to clients, so handlers map them with err.Error().
var (
	ErrMissingParameters = errors.New("Missing parameters")
	ErrEmptyParameters   = errors.New("Empty string in parameters")
	ErrMailFormat        = errors.New("Mail not correct formatted")
	ErrUserNotFound      = errors.New("User not found")
)
