package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/Dosada05/tournament-engine/models"
)

const archivePrefix = "brackets"

// Archiver writes final bracket snapshots of completed tournaments.
type Archiver struct {
	store ObjectStore
}

func NewArchiver(store ObjectStore) *Archiver {
	return &Archiver{store: store}
}

// ArchiveKey is the object key of a tournament's snapshot, for example
// "brackets/spring-cup-2024/<id>.json".
func ArchiveKey(t *models.Tournament) string {
	name := slug.Make(t.Name)
	if name == "" {
		name = "tournament"
	}
	return fmt.Sprintf("%s/%s/%s.json", archivePrefix, name, t.ID)
}

func (a *Archiver) Archive(ctx context.Context, t *models.Tournament) (*UploadResult, error) {
	body, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tournament %s: %w", t.ID, err)
	}
	res, err := a.store.Upload(ctx, ArchiveKey(t), "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (a *Archiver) URL(key string) string {
	return a.store.GetPublicURL(key)
}
