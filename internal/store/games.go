package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/steamvault/steamvault/internal/constants"
	"github.com/steamvault/steamvault/internal/domain"
)

// Game writes share one shape: validate every row up front, guard on the
// user existing, then one transaction for the whole batch. The conflict
// policy differs per table and is declared in its INSERT.

// UpsertGames writes the game rows for a batch of fetched details.
// Conflict on app_id refreshes only the volatile fields (is_free,
// recommendations); descriptive text is write-once.
func (db *DB) UpsertGames(steamID string, details []domain.GameDetails) (int, error) {
	query := `INSERT INTO games (
		app_id, game_type, name, is_free, detailed_description, about_the_game,
		header_image, website, recommendations, release_date, esrb_rating
	) VALUES (
		:app_id, :game_type, :name, :is_free, :detailed_description, :about_the_game,
		:header_image, :website, :recommendations, :release_date, :esrb_rating
	)
	ON CONFLICT(app_id) DO UPDATE SET
		is_free = excluded.is_free,
		recommendations = excluded.recommendations`

	rows := make([]any, 0, len(details))
	for _, d := range details {
		rows = append(rows, d.Game)
	}
	return db.writeGameBatch(steamID, details, constants.GamesTable, query, rows)
}

// UpsertDevelopers writes (app_id, label) developer rows. Conflict is a
// no-op: the association tables are append-only and duplicate-safe.
func (db *DB) UpsertDevelopers(steamID string, details []domain.GameDetails) (int, error) {
	return db.upsertLabels(steamID, details, constants.DevelopersTable, func(d domain.GameDetails) []string { return d.Developers })
}

// UpsertPublishers writes (app_id, label) publisher rows.
func (db *DB) UpsertPublishers(steamID string, details []domain.GameDetails) (int, error) {
	return db.upsertLabels(steamID, details, constants.PublishersTable, func(d domain.GameDetails) []string { return d.Publishers })
}

// UpsertCategories writes (app_id, label) category rows.
func (db *DB) UpsertCategories(steamID string, details []domain.GameDetails) (int, error) {
	return db.upsertLabels(steamID, details, constants.CategoriesTable, func(d domain.GameDetails) []string { return d.Categories })
}

// UpsertGenres writes (app_id, label) genre rows.
func (db *DB) UpsertGenres(steamID string, details []domain.GameDetails) (int, error) {
	return db.upsertLabels(steamID, details, constants.GenresTable, func(d domain.GameDetails) []string { return d.Genres })
}

// UpsertPrices writes price rows. Conflict on app_id replaces every
// mutable field; prices move wholesale.
func (db *DB) UpsertPrices(steamID string, details []domain.GameDetails) (int, error) {
	query := `INSERT INTO game_prices (app_id, currency, price_cents, final_formatted, discount_percent)
	VALUES (:app_id, :currency, :price_cents, :final_formatted, :discount_percent)
	ON CONFLICT(app_id) DO UPDATE SET
		currency = excluded.currency,
		price_cents = excluded.price_cents,
		final_formatted = excluded.final_formatted,
		discount_percent = excluded.discount_percent`

	rows := make([]any, 0, len(details))
	for _, d := range details {
		rows = append(rows, d.Price)
	}
	return db.writeGameBatch(steamID, details, constants.PricesTable, query, rows)
}

// UpsertMetacritic writes metacritic rows, replaced wholesale on conflict.
func (db *DB) UpsertMetacritic(steamID string, details []domain.GameDetails) (int, error) {
	query := `INSERT INTO game_metacritic (app_id, score, url)
	VALUES (:app_id, :score, :url)
	ON CONFLICT(app_id) DO UPDATE SET
		score = excluded.score,
		url = excluded.url`

	rows := make([]any, 0, len(details))
	for _, d := range details {
		rows = append(rows, d.Metacritic)
	}
	return db.writeGameBatch(steamID, details, constants.MetacriticTable, query, rows)
}

func (db *DB) upsertLabels(steamID string, details []domain.GameDetails, table string, pick func(domain.GameDetails) []string) (int, error) {
	query := `INSERT INTO ` + table + ` (app_id, label)
	VALUES (:app_id, :label)
	ON CONFLICT(app_id, label) DO NOTHING`

	var rows []any
	for _, d := range details {
		for _, label := range pick(d) {
			rows = append(rows, domain.GameLabel{AppID: d.Game.AppID, Label: label})
		}
	}
	return db.writeGameBatch(steamID, details, table, query, rows)
}

// writeGameBatch enforces the shared batch contract: whole-batch
// validation before any I/O, the user guard, one transaction per call,
// and a rows-submitted return value.
func (db *DB) writeGameBatch(steamID string, details []domain.GameDetails, table, query string, rows []any) (int, error) {
	for _, d := range details {
		if err := d.Validate(); err != nil {
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
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, row := range rows {
		if _, err := tx.NamedExec(query, row); err != nil {
			return 0, fmt.Errorf("failed to upsert %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (db *DB) GetGame(appID int64) (*domain.Game, error) {
	var game domain.Game
	err := db.Get(&game, `SELECT * FROM games WHERE app_id = ?`, appID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// GetGamesByAppIDs returns whichever of the given apps exist in the
// catalog mirror.
func (db *DB) GetGamesByAppIDs(appIDs []int64) ([]domain.Game, error) {
	if len(appIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM games WHERE app_id IN (?) ORDER BY app_id`, appIDs)
	if err != nil {
		return nil, err
	}
	var games []domain.Game
	err = db.Select(&games, db.Rebind(query), args...)
	return games, err
}

// GetLibraryGames returns the mirrored catalog rows for every game in the
// user's library.
func (db *DB) GetLibraryGames(steamID string) ([]domain.Game, error) {
	var games []domain.Game
	err := db.Select(&games, `SELECT g.* FROM games g
		JOIN library l ON l.app_id = g.app_id
		WHERE l.steam_id = ? ORDER BY g.app_id`, steamID)
	return games, err
}

func (db *DB) GetGameLabels(table string, appID int64) ([]string, error) {
	var labels []string
	err := db.Select(&labels, `SELECT label FROM `+table+` WHERE app_id = ? ORDER BY label`, appID)
	return labels, err
}
