package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

type ReconciliationRepository interface {
	Get(ctx context.Context, tournamentID, matchID string) (*models.MatchReconciliation, error)
	// Save inserts or replaces the reconciliation of (tournament, match).
	Save(ctx context.Context, exec SQLExecutor, rec *models.MatchReconciliation) error
	ListByTournament(ctx context.Context, tournamentID string) ([]*models.MatchReconciliation, error)
}

type postgresReconciliationRepository struct {
	db *sql.DB
}

func NewPostgresReconciliationRepository(db *sql.DB) ReconciliationRepository {
	return &postgresReconciliationRepository{db: db}
}

func (r *postgresReconciliationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const selectReconciliation = `
	SELECT tournament_id, match_id, status, side1, side2, resolution, updated_at
	FROM match_reconciliations`

func (r *postgresReconciliationRepository) Get(ctx context.Context, tournamentID, matchID string) (*models.MatchReconciliation, error) {
	row := r.db.QueryRowContext(ctx, selectReconciliation+` WHERE tournament_id = $1 AND match_id = $2`, tournamentID, matchID)
	rec, err := scanReconciliation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReconciliationNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *postgresReconciliationRepository) Save(ctx context.Context, exec SQLExecutor, rec *models.MatchReconciliation) error {
	side1, err := nullableJSON(rec.Side1)
	if err != nil {
		return err
	}
	side2, err := nullableJSON(rec.Side2)
	if err != nil {
		return err
	}
	resolution, err := nullableJSON(rec.Resolution)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO match_reconciliations (tournament_id, match_id, status, side1, side2, resolution, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tournament_id, match_id) DO UPDATE
		SET status = EXCLUDED.status, side1 = EXCLUDED.side1, side2 = EXCLUDED.side2,
			resolution = EXCLUDED.resolution, updated_at = EXCLUDED.updated_at`

	_, err = r.getExecutor(exec).ExecContext(ctx, query,
		rec.TournamentID, rec.MatchID, rec.Status, side1, side2, resolution, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save reconciliation for match %s: %w", rec.MatchID, err)
	}
	return nil
}

func (r *postgresReconciliationRepository) ListByTournament(ctx context.Context, tournamentID string) ([]*models.MatchReconciliation, error) {
	rows, err := r.db.QueryContext(ctx, selectReconciliation+` WHERE tournament_id = $1 ORDER BY updated_at`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations: %w", err)
	}
	defer rows.Close()

	out := []*models.MatchReconciliation{}
	for rows.Next() {
		rec, err := scanReconciliation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliations: %w", err)
	}
	return out, nil
}

func scanReconciliation(row rowScanner) (*models.MatchReconciliation, error) {
	var (
		rec                      models.MatchReconciliation
		side1, side2, resolution []byte
	)
	if err := row.Scan(&rec.TournamentID, &rec.MatchID, &rec.Status, &side1, &side2, &resolution, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if len(side1) > 0 {
		rec.Side1 = &models.ScoreSubmission{}
		if err := json.Unmarshal(side1, rec.Side1); err != nil {
			return nil, fmt.Errorf("failed to decode side1 submission: %w", err)
		}
	}
	if len(side2) > 0 {
		rec.Side2 = &models.ScoreSubmission{}
		if err := json.Unmarshal(side2, rec.Side2); err != nil {
			return nil, fmt.Errorf("failed to decode side2 submission: %w", err)
		}
	}
	if len(resolution) > 0 {
		rec.Resolution = &models.Resolution{}
		if err := json.Unmarshal(resolution, rec.Resolution); err != nil {
			return nil, fmt.Errorf("failed to decode resolution: %w", err)
		}
	}
	return &rec, nil
}

// nullableJSON encodes v, mapping a nil pointer to SQL NULL.
func nullableJSON[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return data, nil
}
