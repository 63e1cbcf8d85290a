package store

import (
	"fmt"
	"strings"

	"github.com/steamvault/steamvault/internal/domain"
)

// UpsertLibrary writes owned-game rows in one transaction. Conflict on
// (steam_id, app_id) updates playtime_minutes only; paid_price_cents is
// owned by the purchase importer and never touched here. Same return
// semantics as UpsertWishlist.
func (db *DB) UpsertLibrary(steamID string, entries []domain.LibraryEntry) (int, error) {
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

	query := `INSERT INTO library (steam_id, app_id, playtime_minutes)
		VALUES (:steam_id, :app_id, :playtime_minutes)
		ON CONFLICT(steam_id, app_id) DO UPDATE SET playtime_minutes = excluded.playtime_minutes`
	for _, e := range entries {
		if _, err := tx.NamedExec(query, e); err != nil {
			return 0, fmt.Errorf("failed to upsert library: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (db *DB) GetLibrary(steamID string) ([]domain.LibraryEntry, error) {
	var entries []domain.LibraryEntry
	err := db.Select(&entries, `SELECT steam_id, app_id, playtime_minutes, paid_price_cents FROM library WHERE steam_id = ? ORDER BY playtime_minutes DESC`, steamID)
	return entries, err
}

// ApplyPaidPrices fills library.paid_price_cents from imported purchase
// records, matched against game names case-insensitively. Returns how
// many library rows were updated; names with no matching owned game are
// skipped.
func (db *DB) ApplyPaidPrices(steamID string, purchases []domain.Purchase) (int, error) {
	exists, err := db.UserExists(steamID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}

	updated := 0
	for _, p := range purchases {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		res, err := db.Exec(`UPDATE library SET paid_price_cents = ?
			WHERE steam_id = ?
			AND app_id IN (SELECT app_id FROM games WHERE name = ? COLLATE NOCASE)`,
			p.PriceCents, steamID, name)
		if err != nil {
			return updated, fmt.Errorf("failed to apply paid price for %q: %w", name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return updated, err
		}
		updated += int(n)
	}
	return updated, nil
}
