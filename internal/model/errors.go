package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Session errors
	ErrNoSession     = errors.New("no active session")
	ErrNotHost       = errors.New("only the host may do this")
	ErrPeerNotFound  = errors.New("no advertised session matched the room code")
	ErrInvalidEvent  = errors.New("invalid session event")
	ErrAlreadyJoined = errors.New("already connected to a session")

	// Backup errors
	ErrBackupDecode = errors.New("backup file could not be decoded")
)
