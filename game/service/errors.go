package service

import "errors"

// Errors shared by the storage packages and transports. The session and
// config packages re-export them under their own names.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
)
