package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrInvalidUnit         = errors.New("invalid distance unit")
	ErrInvalidGrade        = errors.New("invalid grade")
	ErrUnitChangeWithTimes = errors.New("cannot change unit once times are recorded")
	ErrPersistFailed       = errors.New("failed to persist session")

	// Time entry errors
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrInvalidCheckpoint = errors.New("invalid checkpoint for session unit")
	ErrRunnerNotFound    = errors.New("runner not found")

	// Navigation errors
	ErrInvalidScreen = errors.New("invalid screen")

	// Storage errors
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidDocument  = errors.New("invalid session document")

	// Sharing errors
	ErrQRCode = errors.New("qr code generation failed")
)
