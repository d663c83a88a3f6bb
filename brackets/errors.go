package brackets

import "errors"

var (
	ErrUnsupportedFormat        = errors.New("unsupported tournament format")
	ErrInsufficientParticipants = errors.New("at least two participants are required")
)

var (
	ErrMatchNotFound             = errors.New("match not found in bracket")
	ErrMatchAlreadyCompleted     = errors.New("match already completed")
	ErrIncompleteMatch           = errors.New("match does not have two participants yet")
	ErrInvalidWinner             = errors.New("winner is not a participant of the match")
	ErrInvalidDisqualification   = errors.New("disqualified participant is not in the match")
	ErrDrawNotAllowed            = errors.New("draws are not allowed in this match")
	ErrInvalidScore              = errors.New("scores must not be negative")
	ErrInvalidPlacementSet       = errors.New("placements must list every heat participant exactly once")
	ErrUnsupportedSubmissionKind = errors.New("submission kind does not fit this match")
)

var (
	ErrSubmitterNotInMatch  = errors.New("submitter is not a participant of the match")
	ErrReconciliationClosed = errors.New("score reconciliation is already closed")
	ErrNothingToApprove     = errors.New("no agreed submission awaiting approval")
)

var ErrUnknownTiebreaker = errors.New("unknown tiebreaker")

var ErrGroupStageIncomplete = errors.New("group stage still has undecided matches")
