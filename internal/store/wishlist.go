package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/steamvault/steamvault/internal/domain"
)

// UpsertWishlist writes the given wishlist entries in one transaction.
// Conflict on (steam_id, app_id) updates the priority. Returns the number
// of rows submitted; 0 with no error when the user row is absent (caller
// guard, not an error), 0 with an error when validation or the write
// fails. A malformed row fails the whole batch before anything is
// written.
func (db *DB) UpsertWishlist(steamID string, entries []domain.WishlistEntry) (int, error) {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, err
		}
	}

	exists, err := db.UserExists(steamID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO wishlist (steam_id, app_id, priority)
		VALUES (:steam_id, :app_id, :priority)
		ON CONFLICT(steam_id, app_id) DO UPDATE SET priority = excluded.priority`
	for _, e := range entries {
		if _, err := tx.NamedExec(query, e); err != nil {
			return 0, fmt.Errorf("failed to upsert wishlist: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (db *DB) GetWishlist(steamID string) ([]domain.WishlistEntry, error) {
	var entries []domain.WishlistEntry
	err := db.Select(&entries, `SELECT steam_id, app_id, priority FROM wishlist WHERE steam_id = ? ORDER BY priority ASC`, steamID)
	return entries, err
}

// DeleteWishlistItems removes the given app ids from the user's wishlist
// mirror. Used after reconciliation against a freshly fetched set.
func (db *DB) DeleteWishlistItems(steamID string, appIDs []int64) error {
	if len(appIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM wishlist WHERE steam_id = ? AND app_id IN (?)`, steamID, appIDs)
	if err != nil {
		return err
	}
	_, err = db.Exec(db.Rebind(query), args...)
	return err
}
