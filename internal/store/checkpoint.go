package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/steamvault/steamvault/internal/domain"
)

// Checkpoints persist the app ids still pending in an interrupted
// metadata run, one row per (user, category) scope. The fetcher writes a
// shrunk checkpoint before persisting a batch's rows, so a crash during
// writing re-fetches at most one batch.

// ReadCheckpoint returns the pending ids for an in-progress run, or nil
// when no resumable run exists.
func (db *DB) ReadCheckpoint(steamID string, category domain.Category) ([]int64, error) {
	var raw string
	err := db.Get(&raw, `SELECT pending_ids FROM sync_checkpoints WHERE steam_id = ? AND category = ?`, steamID, category)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	return ids, nil
}

func (db *DB) WriteCheckpoint(steamID string, category domain.Category, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	_, err = db.Exec(`INSERT INTO sync_checkpoints (steam_id, category, pending_ids, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(steam_id, category) DO UPDATE SET
			pending_ids = excluded.pending_ids,
			updated_at = excluded.updated_at`,
		steamID, category, string(raw), time.Now())
	return err
}

func (db *DB) ClearCheckpoint(steamID string, category domain.Category) error {
	_, err := db.Exec(`DELETE FROM sync_checkpoints WHERE steam_id = ? AND category = ?`, steamID, category)
	return err
}
