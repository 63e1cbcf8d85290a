package store

import (
	"database/sql"
	"time"

	"github.com/steamvault/steamvault/internal/domain"
)

// NeedsRefresh reports whether the category's last refresh for this user
// is older than maxAge. True always means "refresh required"; a user with
// no schedule row has never synced and needs one.
func (db *DB) NeedsRefresh(steamID string, category domain.Category, maxAge time.Duration) (bool, error) {
	var refreshedAt time.Time
	err := db.Get(&refreshedAt, `SELECT refreshed_at FROM sync_schedule WHERE steam_id = ? AND category = ?`, steamID, category)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return time.Since(refreshedAt) > maxAge, nil
}

// MarkRefreshed records a successful fetch for the category at the
// current time.
func (db *DB) MarkRefreshed(steamID string, category domain.Category) error {
	_, err := db.Exec(`INSERT INTO sync_schedule (steam_id, category, refreshed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(steam_id, category) DO UPDATE SET refreshed_at = excluded.refreshed_at`,
		steamID, category, time.Now())
	return err
}

// LastRefreshed returns when the category was last refreshed, or the zero
// time if it never was.
func (db *DB) LastRefreshed(steamID string, category domain.Category) (time.Time, error) {
	var refreshedAt time.Time
	err := db.Get(&refreshedAt, `SELECT refreshed_at FROM sync_schedule WHERE steam_id = ? AND category = ?`, steamID, category)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	return refreshedAt, err
}
