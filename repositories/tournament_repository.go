package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	// Update stores the bracket and status if the stored version still
	// equals t.Version, then bumps t.Version.
	Update(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	ListByStatus(ctx context.Context, status models.TournamentStatus) ([]*models.Tournament, error)
	UpdateArchiveKey(ctx context.Context, id string, key string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	configJSON, bracketJSON, err := encodeTournament(t)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO tournaments (id, name, config, bracket, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.getExecutor(exec).ExecContext(ctx, query,
		t.ID, t.Name, configJSON, bracketJSON, t.Status, t.Version, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTournamentConflict
		}
		return fmt.Errorf("failed to insert tournament %s: %w", t.ID, err)
	}
	return nil
}

const selectTournament = `
	SELECT id, name, config, bracket, status, version, archive_key, created_at, updated_at
	FROM tournaments`

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	row := r.db.QueryRowContext(ctx, selectTournament+` WHERE id = $1`, id)
	t, err := scanTournament(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	_, bracketJSON, err := encodeTournament(t)
	if err != nil {
		return err
	}
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournaments
		SET bracket = $1, status = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5`

	now := time.Now().UTC()
	result, err := executor.ExecContext(ctx, query, bracketJSON, t.Status, now, t.ID, t.Version)
	if err != nil {
		return fmt.Errorf("failed to update tournament %s: %w", t.ID, err)
	}
	if err := checkAffectedRows(result, ErrVersionConflict); err != nil {
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
		var exists bool
		if qErr := executor.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tournaments WHERE id = $1)`, t.ID).Scan(&exists); qErr != nil {
			return fmt.Errorf("failed to check tournament %s: %w", t.ID, qErr)
		}
		if !exists {
			return ErrTournamentNotFound
		}
		return ErrVersionConflict
	}
	t.Version++
	t.UpdatedAt = now
	return nil
}

func (r *postgresTournamentRepository) ListByStatus(ctx context.Context, status models.TournamentStatus) ([]*models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, selectTournament+` WHERE status = $1 ORDER BY created_at`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	var out []*models.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournaments: %w", err)
	}
	return out, nil
}

func (r *postgresTournamentRepository) UpdateArchiveKey(ctx context.Context, id string, key string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET archive_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to update archive key for tournament %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	var (
		t                       models.Tournament
		configJSON, bracketJSON []byte
		archiveKey              sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Name, &configJSON, &bracketJSON, &t.Status, &t.Version, &archiveKey, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(configJSON, &t.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config of tournament %s: %w", t.ID, err)
	}
	t.Bracket = &models.Bracket{}
	if err := json.Unmarshal(bracketJSON, t.Bracket); err != nil {
		return nil, fmt.Errorf("failed to decode bracket of tournament %s: %w", t.ID, err)
	}
	t.Bracket.Reindex()
	if archiveKey.Valid {
		t.ArchiveKey = &archiveKey.String
	}
	return &t, nil
}

func encodeTournament(t *models.Tournament) ([]byte, []byte, error) {
	configJSON, err := json.Marshal(t.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode config: %w", err)
	}
	bracketJSON, err := json.Marshal(t.Bracket)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode bracket: %w", err)
	}
	return configJSON, bracketJSON, nil
}
