package models

import "errors"

// Typed errors for the engine. Controllers map these onto HTTP statuses;
// repository failures are wrapped with %w and pass through unchanged.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidLocation   = errors.New("invalid location id")
	ErrInvalidCoordinate = errors.New("invalid coordinate or span")
	ErrNotFound          = errors.New("not found")
	ErrStateConflict     = errors.New("state conflict")
	ErrBlocked           = errors.New("pair is blocked")
	ErrNotParticipant    = errors.New("sender is not a participant")
)
