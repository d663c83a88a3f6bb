package brackets

import (
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// Submission is one participant's claim, reported in match orientation.
type Submission struct {
	MatchID       string
	ParticipantID string
	SubmittedBy   string
	Score1        int
	Score2        int
	At            time.Time
}

// SubmitScore records a submission and re-evaluates the reconciliation.
// The returned *Result is non-nil only when both sides agree and no admin
// approval is required; the caller then applies it.
func SubmitScore(b *models.Bracket, rec *models.MatchReconciliation, sub Submission, requireApproval bool) (*models.MatchReconciliation, *Result, []models.Event, error) {
	m, err := reconcilableMatch(b, sub.MatchID)
	if err != nil {
		return nil, nil, nil, err
	}
	if rec != nil && rec.Status.IsTerminal() {
		return nil, nil, nil, ErrReconciliationClosed
	}
	side := m.SideOf(sub.ParticipantID)
	if side == 0 {
		return nil, nil, nil, ErrSubmitterNotInMatch
	}
	if sub.Score1 < 0 || sub.Score2 < 0 {
		return nil, nil, nil, ErrInvalidScore
	}

	next := &models.MatchReconciliation{MatchID: m.ID, Status: models.ReconciliationAwaitingBoth}
	if rec != nil {
		next = rec.Clone()
	}
	entry := &models.ScoreSubmission{
		MatchID:       m.ID,
		Side:          side,
		ParticipantID: sub.ParticipantID,
		Score1:        sub.Score1,
		Score2:        sub.Score2,
		SubmittedBy:   sub.SubmittedBy,
		SubmittedAt:   sub.At,
		Status:        models.SubmissionSubmitted,
	}
	if side == 1 {
		next.Side1 = entry
	} else {
		next.Side2 = entry
	}
	next.UpdatedAt = sub.At

	if next.Side1 == nil || next.Side2 == nil {
		next.Status = models.ReconciliationAwaitingBoth
		return next, nil, nil, nil
	}

	agreed := next.Side1.Score1 == next.Side2.Score1 && next.Side1.Score2 == next.Side2.Score2
	switch {
	case agreed && requireApproval:
		setReconciliationStatus(next, models.ReconciliationPendingAdminApproval, models.SubmissionPendingAdminApproval)
		return next, nil, []models.Event{reconciliationEvent(models.EventAdminApprovalRequired, m, next)}, nil
	case agreed:
		setReconciliationStatus(next, models.ReconciliationAutoConfirmed, models.SubmissionConfirmed)
		return next, &Result{MatchID: m.ID, Score1: next.Side1.Score1, Score2: next.Side1.Score2}, nil, nil
	default:
		setReconciliationStatus(next, models.ReconciliationDisputed, models.SubmissionDisputed)
		return next, nil, []models.Event{reconciliationEvent(models.EventDisputeRaised, m, next)}, nil
	}
}

// ResolveScore lets an administrator impose a result from any state that
// is not already confirmed. The resolution is terminal.
func ResolveScore(b *models.Bracket, rec *models.MatchReconciliation, res Result, adminID string, at time.Time) (*models.MatchReconciliation, error) {
	m, err := reconcilableMatch(b, res.MatchID)
	if err != nil {
		return nil, err
	}
	if rec != nil && rec.Status.IsTerminal() {
		return nil, ErrReconciliationClosed
	}
	next := &models.MatchReconciliation{MatchID: m.ID}
	if rec != nil {
		next = rec.Clone()
	}
	setReconciliationStatus(next, models.ReconciliationResolvedByAdmin, models.SubmissionResolvedByAdmin)
	next.Resolution = &models.Resolution{
		Score1:         res.Score1,
		Score2:         res.Score2,
		WinnerID:       res.WinnerID,
		DisqualifiedID: res.DisqualifyID,
		ResolvedBy:     adminID,
		ResolvedAt:     at,
	}
	next.UpdatedAt = at
	return next, nil
}

// ApproveScore accepts the agreed pair of a reconciliation waiting for
// admin approval and returns the result to apply.
func ApproveScore(b *models.Bracket, rec *models.MatchReconciliation, adminID string, at time.Time) (*models.MatchReconciliation, *Result, error) {
	if rec == nil {
		return nil, nil, ErrNothingToApprove
	}
	m, err := reconcilableMatch(b, rec.MatchID)
	if err != nil {
		return nil, nil, err
	}
	if rec.Status != models.ReconciliationPendingAdminApproval {
		return nil, nil, ErrNothingToApprove
	}
	next := rec.Clone()
	setReconciliationStatus(next, models.ReconciliationResolvedByAdmin, models.SubmissionResolvedByAdmin)
	next.Resolution = &models.Resolution{
		Score1:     rec.Side1.Score1,
		Score2:     rec.Side1.Score2,
		ResolvedBy: adminID,
		ResolvedAt: at,
	}
	next.UpdatedAt = at
	return next, &Result{MatchID: m.ID, Score1: rec.Side1.Score1, Score2: rec.Side1.Score2}, nil
}

func reconcilableMatch(b *models.Bracket, matchID string) (*models.Match, error) {
	if _, ok := b.FindHeat(matchID); ok {
		return nil, ErrUnsupportedSubmissionKind
	}
	m, ok := b.FindMatch(matchID)
	if !ok {
		return nil, ErrMatchNotFound
	}
	if m.IsCompleted() {
		return nil, ErrMatchAlreadyCompleted
	}
	return m, nil
}

func setReconciliationStatus(rec *models.MatchReconciliation, status models.ReconciliationStatus, subStatus models.SubmissionStatus) {
	rec.Status = status
	if rec.Side1 != nil {
		rec.Side1.Status = subStatus
	}
	if rec.Side2 != nil {
		rec.Side2.Status = subStatus
	}
}

func reconciliationEvent(t models.EventType, m *models.Match, rec *models.MatchReconciliation) models.Event {
	return models.Event{
		Type:    t,
		MatchID: m.ID,
		Round:   m.Round,
		Payload: map[string]any{
			"side1": []int{rec.Side1.Score1, rec.Side1.Score2},
			"side2": []int{rec.Side2.Score1, rec.Side2.Score2},
		},
	}
}
