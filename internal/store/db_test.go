package store

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/steamvault/steamvault/internal/domain"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	tmpFile := "test.db"
	db, err := NewSQLiteDB(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	cleanup := func() {
		if cErr := db.Close(); cErr != nil {
			t.Logf("db.Close error: %v", cErr)
		}
		if rErr := os.Remove(tmpFile); rErr != nil {
			t.Logf("os.Remove error: %v", rErr)
		}
	}
	return db, cleanup
}

func mustUpsertUser(t *testing.T, db *DB, steamID string) {
	t.Helper()
	_, err := db.UpsertUser(&domain.User{SteamID: steamID, PersonaName: "tester"})
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
}

func TestDB_Users(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := &domain.User{
		SteamID:     "76561198000000100",
		PersonaName: "gamer",
		ProfileURL:  "https://steamcommunity.com/id/gamer",
		CountryCode: "US",
	}
	created, err := db.UpsertUser(user)
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	if !created {
		t.Error("Expected first upsert to create the user")
	}

	// second sighting must not overwrite the captured profile
	created, err = db.UpsertUser(&domain.User{SteamID: user.SteamID, PersonaName: "renamed"})
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	if created {
		t.Error("Expected second upsert to be a no-op")
	}

	fetched, err := db.GetUser(user.SteamID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if fetched == nil || fetched.PersonaName != "gamer" {
		t.Errorf("Expected original persona preserved, got %+v", fetched)
	}

	exists, err := db.UserExists(user.SteamID)
	if err != nil || !exists {
		t.Errorf("Expected user to exist, got %v/%v", exists, err)
	}

	missing, err := db.GetUser("76561198000000999")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for an unknown user, got %+v", missing)
	}
}

func TestDB_Wishlist(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	steamID := "76561198000000101"
	mustUpsertUser(t, db, steamID)

	entries := []domain.WishlistEntry{
		{SteamID: steamID, AppID: 100, Priority: 2},
		{SteamID: steamID, AppID: 200, Priority: 1},
	}
	count, err := db.UpsertWishlist(steamID, entries)
	if err != nil {
		t.Fatalf("UpsertWishlist failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 rows submitted, got %d", count)
	}

	// idempotent: same batch again, same answer, no duplicates
	count, err = db.UpsertWishlist(steamID, entries)
	if err != nil {
		t.Fatalf("UpsertWishlist failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 rows submitted on replay, got %d", count)
	}

	fetched, err := db.GetWishlist(steamID)
	if err != nil {
		t.Fatalf("GetWishlist failed: %v", err)
	}
	if len(fetched) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(fetched))
	}
	if fetched[0].AppID != 200 {
		t.Errorf("Expected priority ordering, got %+v", fetched)
	}

	// conflict policy: priority moves
	if _, err := db.UpsertWishlist(steamID, []domain.WishlistEntry{{SteamID: steamID, AppID: 100, Priority: 7}}); err != nil {
		t.Fatalf("UpsertWishlist failed: %v", err)
	}
	fetched, _ = db.GetWishlist(steamID)
	for _, e := range fetched {
		if e.AppID == 100 && e.Priority != 7 {
			t.Errorf("Expected priority updated to 7, got %d", e.Priority)
		}
	}

	if err := db.DeleteWishlistItems(steamID, []int64{100}); err != nil {
		t.Fatalf("DeleteWishlistItems failed: %v", err)
	}
	fetched, _ = db.GetWishlist(steamID)
	if len(fetched) != 1 || fetched[0].AppID != 200 {
		t.Errorf("Expected only app 200 to remain, got %+v", fetched)
	}
}

func TestDB_Wishlist_UnknownUserWritesNothing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	steamID := "76561198000000102"
	count, err := db.UpsertWishlist(steamID, []domain.WishlistEntry{{SteamID: steamID, AppID: 100, Priority: 1}})
	if err != nil {
		t.Fatalf("Expected no error for an unknown user, got %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 rows for an unknown user, got %d", count)
	}

	fetched, err := db.GetWishlist(steamID)
	if err != nil {
		t.Fatalf("GetWishlist failed: %v", err)
	}
	if len(fetched) != 0 {
		t.Errorf("Expected nothing written, got %+v", fetched)
	}
}

func TestDB_Wishlist_InvalidRowFailsWholeBatch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	steamID := "76561198000000103"
	mustUpsertUser(t, db, steamID)

	batch := []domain.WishlistEntry{
		{SteamID: steamID, AppID: 100, Priority: 1},
		{SteamID: steamID, AppID: 0, Priority: 2}, // missing app_id
	}
	count, err := db.UpsertWishlist(steamID, batch)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	var missing *domain.MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "app_id" {
		t.Errorf("Expected MissingFieldError for app_id, got %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 rows on validation failure, got %d", count)
	}

	fetched, _ := db.GetWishlist(steamID)
	if len(fetched) != 0 {
		t.Errorf("Expected the valid row to be rejected with the batch, got %+v", fetched)
	}
}

func TestDB_Library(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	steamID := "76561198000000104"
	mustUpsertUser(t, db, steamID)

	count, err := db.UpsertLibrary(steamID, []domain.LibraryEntry{
		{SteamID: steamID, AppID: 300, PlaytimeMinutes: 60},
	})
	if err != nil {
		t.Fatalf("UpsertLibrary failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 row submitted, got %d", count)
	}

	// conflict policy: playtime moves
	if _, err := db.UpsertLibrary(steamID, []domain.LibraryEntry{
		{SteamID: steamID, AppID: 300, PlaytimeMinutes: 90},
	}); err != nil {
		t.Fatalf("UpsertLibrary failed: %v", err)
	}
	entries, err := db.GetLibrary(steamID)
	if err != nil {
		t.Fatalf("GetLibrary failed: %v", err)
	}
	if len(entries) != 1 || entries[0].PlaytimeMinutes != 90 {
		t.Errorf("Expected playtime updated to 90, got %+v", entries)
	}

	// unknown user writes nothing
	count, err = db.UpsertLibrary("76561198000000105", []domain.LibraryEntry{
		{SteamID: "76561198000000105", AppID: 300, PlaytimeMinutes: 1},
	})
	if err != nil || count != 0 {
		t.Errorf("Expected 0 rows for an unknown user, got %d/%v", count, err)
	}
}

func testGameDetails(appID int64, name string) domain.GameDetails {
	return domain.GameDetails{
		Game: domain.Game{
			AppID:           appID,
			GameType:        "game",
			Name:            name,
			IsFree:          false,
			Recommendations: 10,
			ReleaseDate:     "1 Jan, 2020",
			ESRBRating:      "m",
		},
		Developers: []string{"Dev Studio"},
		Publishers: []string{"Pub Corp"},
		Categories: []string{"Single-player"},
		Genres:     []string{"Action", "RPG"},
		Price:      domain.GamePrice{AppID: appID, Currency: "USD", PriceCents: 1999, FinalFormatted: "$19.99"},
		Metacritic: domain.GameMetacritic{AppID: appID, Score: 80, URL: "https://www.metacritic.com/game/x"},
	}
}

func TestDB_Games_ConflictPolicies(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	steamID := "76561198000000106"
	mustUpsertUser(t, db, steamID)

	details := []domain.GameDetails{testGameDetails(500, "Original Name")}
	if _, err := db.UpsertGames(steamID, details); err != nil {
		t.Fatalf("UpsertGames failed: %v", err)
	}

	// re-fetch with changed fields: only the volatile ones move
	changed := testGameDetails(500, "Renamed")
	changed.Game.IsFree = true
	changed.Game.Recommendations = 99
	if _, err := db.UpsertGames(steamID, []domain.GameDetails{changed}); err != nil {
		t.Fatalf("UpsertGames failed: %v", err)
	}

	game, err := db.GetGame(500)
	if err != nil {
		t.Fatalf("GetGame failed: %v", err)
	}
	if game.Name != "Original Name" {
		t.Errorf("Expected descriptive text write-once, got name %q", game.Name)
	}
	if !game.IsFree || game.Recommendations != 99 {
		t.Errorf("Expected volatile fields refreshed, got is_free=%v recommendations=%d", game.IsFree, game.Recommendations)
	}
}

func TestDB_Games_LabelsAndReplacedEntities(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	steamID := "76561198000000107"
	mustUpsertUser(t, db, steamID)

	details := []domain.GameDetails{testGameDetails(501, "Labelled")}
	if _, err := db.UpsertGenres(steamID, details); err != nil {
		t.Fatalf("UpsertGenres failed: %v", err)
	}
	// duplicate labels are a no-op
	if _, err := db.UpsertGenres(steamID, details); err != nil {
		t.Fatalf("UpsertGenres failed: %v", err)
	}
	labels, err := db.GetGameLabels("game_genres", 501)
	if err != nil {
		t.Fatalf("GetGameLabels failed: %v", err)
	}
	if len(labels) != 2 {
		t.Errorf("Expected 2 genre labels, got %v", labels)
	}

	if _, err := db.UpsertPrices(steamID, details); err != nil {
		t.Fatalf("UpsertPrices failed: %v", err)
	}
	repriced := testGameDetails(501, "Labelled")
	repriced.Price.PriceCents = 999
	repriced.Price.DiscountPercent = 50
	if _, err := db.UpsertPrices(steamID, []domain.GameDetails{repriced}); err != nil {
		t.Fatalf("UpsertPrices failed: %v", err)
	}
	var price domain.GamePrice
	if err := db.Get(&price, `SELECT app_id, currency, price_cents, final_formatted, discount_percent FROM game_prices WHERE app_id = ?`, 501); err != nil {
		t.Fatalf("Failed to read price: %v", err)
	}
	if price.PriceCents != 999 || price.DiscountPercent != 50 {
		t.Errorf("Expected price replaced wholesale, got %+v", price)
	}
}

func TestDB_Games_UnknownUserAndValidation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	details := []domain.GameDetails{testGameDetails(502, "Guarded")}
	count, err := db.UpsertGames("76561198000000108", details)
	if err != nil || count != 0 {
		t.Errorf("Expected 0 rows for an unknown user, got %d/%v", count, err)
	}
	game, err := db.GetGame(502)
	if err != nil {
		t.Fatalf("GetGame failed: %v", err)
	}
	if game != nil {
		t.Errorf("Expected nothing written, got %+v", game)
	}

	steamID := "76561198000000109"
	mustUpsertUser(t, db, steamID)

	bad := testGameDetails(0, "No App ID")
	if _, err := db.UpsertGames(steamID, []domain.GameDetails{bad}); err == nil {
		t.Error("Expected validation error for missing app_id")
	}
	withEmptyLabel := testGameDetails(503, "Bad Label")
	withEmptyLabel.Genres = []string{"Action", ""}
	if _, err := db.UpsertGenres(steamID, []domain.GameDetails{withEmptyLabel}); err == nil {
		t.Error("Expected validation error for empty label")
	}
	labels, _ := db.GetGameLabels("game_genres", 503)
	if len(labels) != 0 {
		t.Errorf("Expected whole batch rejected, got %v", labels)
	}
}

func TestDB_ApplyPaidPrices(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	steamID := "76561198000000110"
	mustUpsertUser(t, db, steamID)

	if _, err := db.UpsertLibrary(steamID, []domain.LibraryEntry{
		{SteamID: steamID, AppID: 600, PlaytimeMinutes: 10},
	}); err != nil {
		t.Fatalf("UpsertLibrary failed: %v", err)
	}
	if _, err := db.UpsertGames(steamID, []domain.GameDetails{testGameDetails(600, "Half-Life 3")}); err != nil {
		t.Fatalf("UpsertGames failed: %v", err)
	}

	purchases := []domain.Purchase{
		{Name: "half-life 3", PriceCents: 5999}, // case-insensitive match
		{Name: "Unknown Game", PriceCents: 100},
		{Name: "", PriceCents: 100},
	}
	updated, err := db.ApplyPaidPrices(steamID, purchases)
	if err != nil {
		t.Fatalf("ApplyPaidPrices failed: %v", err)
	}
	if updated != 1 {
		t.Errorf("Expected 1 library row updated, got %d", updated)
	}

	entries, _ := db.GetLibrary(steamID)
	if len(entries) != 1 || entries[0].PaidPriceCents == nil || *entries[0].PaidPriceCents != 5999 {
		t.Errorf("Expected paid price 5999, got %+v", entries)
	}

	// a library re-sync must not clobber the imported price
	if _, err := db.UpsertLibrary(steamID, []domain.LibraryEntry{
		{SteamID: steamID, AppID: 600, PlaytimeMinutes: 25},
	}); err != nil {
		t.Fatalf("UpsertLibrary failed: %v", err)
	}
	entries, _ = db.GetLibrary(steamID)
	if entries[0].PaidPriceCents == nil || *entries[0].PaidPriceCents != 5999 {
		t.Errorf("Expected paid price preserved across re-sync, got %+v", entries[0])
	}
	if entries[0].PlaytimeMinutes != 25 {
		t.Errorf("Expected playtime refreshed, got %d", entries[0].PlaytimeMinutes)
	}
}

func TestDB_Schedule(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	steamID := "76561198000000111"

	stale, err := db.NeedsRefresh(steamID, domain.CategoryWishlist, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NeedsRefresh failed: %v", err)
	}
	if !stale {
		t.Error("Expected a never-synced category to need a refresh")
	}

	if err := db.MarkRefreshed(steamID, domain.CategoryWishlist); err != nil {
		t.Fatalf("MarkRefreshed failed: %v", err)
	}
	stale, err = db.NeedsRefresh(steamID, domain.CategoryWishlist, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NeedsRefresh failed: %v", err)
	}
	if stale {
		t.Error("Expected a just-refreshed category to be fresh")
	}

	time.Sleep(time.Millisecond)
	stale, err = db.NeedsRefresh(steamID, domain.CategoryWishlist, time.Nanosecond)
	if err != nil {
		t.Fatalf("NeedsRefresh failed: %v", err)
	}
	if !stale {
		t.Error("Expected an expired record to need a refresh")
	}

	last, err := db.LastRefreshed(steamID, domain.CategoryWishlist)
	if err != nil {
		t.Fatalf("LastRefreshed failed: %v", err)
	}
	if last.IsZero() {
		t.Error("Expected a refresh timestamp")
	}
	never, err := db.LastRefreshed(steamID, domain.CategoryGames)
	if err != nil {
		t.Fatalf("LastRefreshed failed: %v", err)
	}
	if !never.IsZero() {
		t.Errorf("Expected zero time for a never-refreshed category, got %v", never)
	}
}

func TestDB_Checkpoints(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	steamID := "76561198000000112"

	// no resumable run
	pending, err := db.ReadCheckpoint(steamID, domain.CategoryGames)
	if err != nil {
		t.Fatalf("ReadCheckpoint failed: %v", err)
	}
	if pending != nil {
		t.Errorf("Expected nil for a missing checkpoint, got %v", pending)
	}

	ids := []int64{100, 200, 300}
	if err := db.WriteCheckpoint(steamID, domain.CategoryGames, ids); err != nil {
		t.Fatalf("WriteCheckpoint failed: %v", err)
	}
	pending, err = db.ReadCheckpoint(steamID, domain.CategoryGames)
	if err != nil {
		t.Fatalf("ReadCheckpoint failed: %v", err)
	}
	if len(pending) != 3 || pending[0] != 100 {
		t.Errorf("Expected %v, got %v", ids, pending)
	}

	// shrink on overwrite
	if err := db.WriteCheckpoint(steamID, domain.CategoryGames, []int64{300}); err != nil {
		t.Fatalf("WriteCheckpoint failed: %v", err)
	}
	pending, _ = db.ReadCheckpoint(steamID, domain.CategoryGames)
	if len(pending) != 1 || pending[0] != 300 {
		t.Errorf("Expected shrunk checkpoint [300], got %v", pending)
	}

	// an empty checkpoint is a present run with nothing left, not a missing one
	if err := db.WriteCheckpoint(steamID, domain.CategoryGames, nil); err != nil {
		t.Fatalf("WriteCheckpoint failed: %v", err)
	}
	pending, err = db.ReadCheckpoint(steamID, domain.CategoryGames)
	if err != nil {
		t.Fatalf("ReadCheckpoint failed: %v", err)
	}
	if pending == nil || len(pending) != 0 {
		t.Errorf("Expected empty non-nil pending set, got %v", pending)
	}

	if err := db.ClearCheckpoint(steamID, domain.CategoryGames); err != nil {
		t.Fatalf("ClearCheckpoint failed: %v", err)
	}
	pending, _ = db.ReadCheckpoint(steamID, domain.CategoryGames)
	if pending != nil {
		t.Errorf("Expected checkpoint cleared, got %v", pending)
	}
}

func TestDB_Runs(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	run := &domain.SyncRun{
		ID:        "run-1",
		SteamID:   "76561198000000113",
		Status:    domain.RunStatusQueued,
		Wishlist:  domain.StageOutcomePending,
		Library:   domain.StageOutcomePending,
		Metadata:  domain.StageOutcomePending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.CreateRun(run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	fetched, err := db.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if fetched == nil || fetched.Status != domain.RunStatusQueued {
		t.Errorf("Expected queued run, got %+v", fetched)
	}

	active, err := db.GetActiveRun(run.SteamID)
	if err != nil {
		t.Fatalf("GetActiveRun failed: %v", err)
	}
	if active == nil || active.ID != "run-1" {
		t.Errorf("Expected run-1 active, got %+v", active)
	}

	next, err := db.NextQueuedRun()
	if err != nil {
		t.Fatalf("NextQueuedRun failed: %v", err)
	}
	if next == nil || next.ID != "run-1" {
		t.Errorf("Expected run-1 next in queue, got %+v", next)
	}

	run.Status = domain.RunStatusRunning
	if err := db.UpdateRun(run); err != nil {
		t.Fatalf("UpdateRun failed: %v", err)
	}
	if err := db.ResetStuckRuns(); err != nil {
		t.Fatalf("ResetStuckRuns failed: %v", err)
	}
	fetched, _ = db.GetRun("run-1")
	if fetched.Status != domain.RunStatusQueued {
		t.Errorf("Expected stuck run requeued, got %s", fetched.Status)
	}

	run.Status = domain.RunStatusCompleted
	run.Wishlist = domain.StageOutcomeSuccess
	run.Library = domain.StageOutcomeCacheHit
	run.Metadata = domain.StageOutcomeSuccess
	if err := db.UpdateRun(run); err != nil {
		t.Fatalf("UpdateRun failed: %v", err)
	}
	active, _ = db.GetActiveRun(run.SteamID)
	if active != nil {
		t.Errorf("Expected no active run after completion, got %+v", active)
	}
	next, _ = db.NextQueuedRun()
	if next != nil {
		t.Errorf("Expected empty queue, got %+v", next)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("Expected 1 run listed, got %d", len(runs))
	}
}
