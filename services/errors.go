package services

import "errors"

var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentCompleted    = errors.New("tournament is already completed")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrInvalidFormat          = errors.New("invalid tournament format")
	ErrDuplicateParticipant   = errors.New("participant ids must be unique and non-empty")
	ErrTournamentConflict     = errors.New("tournament id already exists")
	ErrConcurrentModification = errors.New("tournament was modified by another request, retry")

	ErrReconciliationNotFound = errors.New("no score submissions for this match")

	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
)
