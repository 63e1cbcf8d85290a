package store

import (
	"database/sql"
	"time"

	"github.com/steamvault/steamvault/internal/domain"
)

func (db *DB) CreateRun(run *domain.SyncRun) error {
	_, err := db.NamedExec(`INSERT INTO sync_runs (
		id, steam_id, status, wishlist, library, metadata, remaining, error, created_at, updated_at
	) VALUES (
		:id, :steam_id, :status, :wishlist, :library, :metadata, :remaining, :error, :created_at, :updated_at
	)`, run)
	return err
}

func (db *DB) GetRun(id string) (*domain.SyncRun, error) {
	var run domain.SyncRun
	err := db.Get(&run, `SELECT * FROM sync_runs WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetActiveRun returns the queued or running run for a user, if any.
// Used to dedup enqueue requests; one run per user at a time.
func (db *DB) GetActiveRun(steamID string) (*domain.SyncRun, error) {
	var run domain.SyncRun
	err := db.Get(&run, `SELECT * FROM sync_runs
		WHERE steam_id = ? AND status IN ('queued', 'running')
		ORDER BY created_at ASC LIMIT 1`, steamID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// NextQueuedRun returns the oldest queued run, or nil when the queue is
// empty.
func (db *DB) NextQueuedRun() (*domain.SyncRun, error) {
	var run domain.SyncRun
	err := db.Get(&run, `SELECT * FROM sync_runs WHERE status = 'queued' ORDER BY created_at ASC LIMIT 1`)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (db *DB) UpdateRun(run *domain.SyncRun) error {
	run.UpdatedAt = time.Now()
	_, err := db.NamedExec(`UPDATE sync_runs SET
		status = :status,
		wishlist = :wishlist,
		library = :library,
		metadata = :metadata,
		remaining = :remaining,
		error = :error,
		updated_at = :updated_at
	WHERE id = :id`, run)
	return err
}

func (db *DB) ListRuns(limit int) ([]*domain.SyncRun, error) {
	var runs []*domain.SyncRun
	err := db.Select(&runs, `SELECT * FROM sync_runs ORDER BY created_at DESC LIMIT ?`, limit)
	return runs, err
}

// ResetStuckRuns requeues runs left in running state by an interrupted
// process, so the worker picks them up again and the metadata checkpoint
// resume path takes over.
func (db *DB) ResetStuckRuns() error {
	_, err := db.Exec(`UPDATE sync_runs SET status = ?, updated_at = ? WHERE status = ?`,
		domain.RunStatusQueued, time.Now(), domain.RunStatusRunning)
	return err
}
