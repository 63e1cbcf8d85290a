// Package syncer is the synchronization and reconciliation engine: it
// decides whether a category of mirrored data needs refreshing, what
// changed since the last sync, and drives rate-limited, checkpointed
// retrieval of per-game metadata with idempotent writes.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/steamvault/steamvault/internal/constants"
	"github.com/steamvault/steamvault/internal/domain"
	"github.com/steamvault/steamvault/internal/logger"
)

// SteamClient is the remote-fetch collaborator. Absent accounts and apps
// come back as nil records with a nil error; transport failures as errors.
type SteamClient interface {
	FetchProfile(ctx context.Context, steamID string) (*domain.User, error)
	FetchWishlist(ctx context.Context, steamID string) ([]domain.WishlistEntry, error)
	FetchLibrary(ctx context.Context, steamID string) ([]domain.LibraryEntry, error)
	FetchGameDetails(ctx context.Context, appID int64) (*domain.GameDetails, error)
}

// Store is the persistence collaborator, satisfied by *store.DB.
type Store interface {
	UserExists(steamID string) (bool, error)
	UpsertUser(user *domain.User) (bool, error)

	NeedsRefresh(steamID string, category domain.Category, maxAge time.Duration) (bool, error)
	MarkRefreshed(steamID string, category domain.Category) error

	UpsertWishlist(steamID string, entries []domain.WishlistEntry) (int, error)
	GetWishlist(steamID string) ([]domain.WishlistEntry, error)
	DeleteWishlistItems(steamID string, appIDs []int64) error

	UpsertLibrary(steamID string, entries []domain.LibraryEntry) (int, error)
	GetLibrary(steamID string) ([]domain.LibraryEntry, error)

	UpsertGames(steamID string, details []domain.GameDetails) (int, error)
	UpsertDevelopers(steamID string, details []domain.GameDetails) (int, error)
	UpsertPublishers(steamID string, details []domain.GameDetails) (int, error)
	UpsertCategories(steamID string, details []domain.GameDetails) (int, error)
	UpsertGenres(steamID string, details []domain.GameDetails) (int, error)
	UpsertPrices(steamID string, details []domain.GameDetails) (int, error)
	UpsertMetacritic(steamID string, details []domain.GameDetails) (int, error)

	ReadCheckpoint(steamID string, category domain.Category) ([]int64, error)
	WriteCheckpoint(steamID string, category domain.Category, ids []int64) error
	ClearCheckpoint(steamID string, category domain.Category) error
}

// Options carries the tunables derived from the remote service's rate
// limit policy, passed in explicitly rather than read from the process
// environment at use sites.
type Options struct {
	BatchSize       int
	InterBatchDelay time.Duration
	RefreshInterval time.Duration
	MetadataSource  string
}

// StageResult reports how one category fared within a run.
type StageResult struct {
	Outcome domain.StageOutcome
	Count   int
	Err     error
}

// Report is the per-run summary: success / cache-hit / failed per
// category, plus the remaining-unfetched metadata count so an operator
// can judge progress across restarts.
type Report struct {
	SteamID   string
	Wishlist  StageResult
	Library   StageResult
	Metadata  StageResult
	Remaining int
}

type Syncer struct {
	store   Store
	client  SteamClient
	gate    *Gate
	fetcher *BatchFetcher
	opts    Options
	log     *logger.Logger
}

func New(store Store, client SteamClient, opts Options, log *logger.Logger) *Syncer {
	if opts.BatchSize < 1 {
		opts.BatchSize = constants.DefaultBatchSize
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = constants.DefaultRefreshInterval
	}
	if opts.MetadataSource == "" {
		opts.MetadataSource = constants.DefaultMetadataSource
	}
	if log == nil {
		log = logger.Default()
	}
	return &Syncer{
		store:   store,
		client:  client,
		gate:    NewGate(store, opts.RefreshInterval, log),
		fetcher: NewBatchFetcher(store, client, opts.BatchSize, opts.InterBatchDelay, log),
		opts:    opts,
		log:     log.WithComponent("syncer"),
	}
}

// SyncUser runs the full refresh pipeline for one user. The returned
// error is non-nil only when the account cannot be resolved or stored at
// all; stage failures are soft-isolated and reported in the Report so
// later independent stages still run.
func (s *Syncer) SyncUser(ctx context.Context, steamID string) (*Report, error) {
	log := s.log.WithUser(steamID)
	report := &Report{SteamID: steamID}

	profile, err := s.client.FetchProfile(ctx, steamID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account %s: %w", steamID, err)
	}
	if profile == nil {
		log.Warn("steam account does not exist, nothing to sync")
		report.Wishlist = StageResult{Outcome: domain.StageOutcomeSkipped}
		report.Library = StageResult{Outcome: domain.StageOutcomeSkipped}
		report.Metadata = StageResult{Outcome: domain.StageOutcomeSkipped}
		return report, nil
	}
	created, err := s.store.UpsertUser(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to store account %s: %w", steamID, err)
	}
	if created {
		log.Info("new steam account stored", "persona", profile.PersonaName)
	}

	wishlist, wlResult := s.syncWishlist(ctx, steamID, log)
	report.Wishlist = wlResult

	library, libResult := s.syncLibrary(ctx, steamID, log)
	report.Library = libResult

	report.Metadata, report.Remaining = s.syncMetadata(ctx, steamID, wishlist, library, log)

	return report, nil
}

// syncWishlist refreshes the wishlist mirror when stale: fetch the full
// remote set, delete entries that disappeared remotely, upsert the rest.
// On a cache hit the local mirror is the authoritative in-memory view and
// the schedule timestamp is left alone.
func (s *Syncer) syncWishlist(ctx context.Context, steamID string, log *logger.Logger) ([]domain.WishlistEntry, StageResult) {
	if !s.gate.ShouldRefresh(steamID, domain.CategoryWishlist) {
		entries, err := s.store.GetWishlist(steamID)
		if err != nil {
			return nil, StageResult{Outcome: domain.StageOutcomeFailed, Err: err}
		}
		log.Info("wishlist mirror is fresh, serving local copy", "items", len(entries))
		return entries, StageResult{Outcome: domain.StageOutcomeCacheHit, Count: len(entries)}
	}

	fresh, err := s.client.FetchWishlist(ctx, steamID)
	if err != nil {
		// transport failure: fall back to the mirror if one exists
		entries, storeErr := s.store.GetWishlist(steamID)
		if storeErr == nil && len(entries) > 0 {
			log.Warn("wishlist fetch failed, falling back to local mirror", "error", err)
			return entries, StageResult{Outcome: domain.StageOutcomeFailed, Count: len(entries), Err: err}
		}
		return nil, StageResult{Outcome: domain.StageOutcomeFailed, Err: err}
	}

	stored, err := s.store.GetWishlist(steamID)
	if err != nil {
		return nil, StageResult{Outcome: domain.StageOutcomeFailed, Err: err}
	}
	deleted := Reconcile(appIDsOfWishlist(stored), appIDsOfWishlist(fresh))
	if len(deleted) > 0 {
		if err := s.store.DeleteWishlistItems(steamID, deleted); err != nil {
			return nil, StageResult{Outcome: domain.StageOutcomeFailed, Err: err}
		}
		log.Info("wishlist entries removed remotely, deleted locally", "count", len(deleted))
	}

	count, err := s.store.UpsertWishlist(steamID, fresh)
	if err != nil {
		return nil, StageResult{Outcome: domain.StageOutcomeFailed, Err: err}
	}
	if err := s.store.MarkRefreshed(steamID, domain.CategoryWishlist); err != nil {
		log.Error("failed to record wishlist refresh time", "error", err)
	}
	log.Info("wishlist refreshed from steam", "items", count, "deleted", len(deleted))
	return fresh, StageResult{Outcome: domain.StageOutcomeSuccess, Count: count}
}

// syncLibrary refreshes the owned-games mirror. Owned games are not
// expected to disappear, so no deletion reconciliation happens here; the
// asymmetry with the wishlist is intentional.
func (s *Syncer) syncLibrary(ctx context.Context, steamID string, log *logger.Logger) ([]domain.LibraryEntry, StageResult) {
	if !s.gate.ShouldRefresh(steamID, domain.CategoryLibrary) {
		entries, err := s.store.GetLibrary(steamID)
		if err != nil {
			return nil, StageResult{Outcome: domain.StageOutcomeFailed, Err: err}
		}
		log.Info("library mirror is fresh, serving local copy", "items", len(entries))
		return entries, StageResult{Outcome: domain.StageOutcomeCacheHit, Count: len(entries)}
	}

	fresh, err := s.client.FetchLibrary(ctx, steamID)
	if err != nil {
		entries, storeErr := s.store.GetLibrary(steamID)
		if storeErr == nil && len(entries) > 0 {
			log.Warn("library fetch failed, falling back to local mirror", "error", err)
			return entries, StageResult{Outcome: domain.StageOutcomeFailed, Count: len(entries), Err: err}
		}
		return nil, StageResult{Outcome: domain.StageOutcomeFailed, Err: err}
	}

	count, err := s.store.UpsertLibrary(steamID, fresh)
	if err != nil {
		return nil, StageResult{Outcome: domain.StageOutcomeFailed, Err: err}
	}
	if err := s.store.MarkRefreshed(steamID, domain.CategoryLibrary); err != nil {
		log.Error("failed to record library refresh time", "error", err)
	}
	log.Info("library refreshed from steam", "items", count)
	return fresh, StageResult{Outcome: domain.StageOutcomeSuccess, Count: count}
}

func (s *Syncer) syncMetadata(ctx context.Context, steamID string, wishlist []domain.WishlistEntry, library []domain.LibraryEntry, log *logger.Logger) (StageResult, int) {
	ids := s.metadataTargetIDs(wishlist, library)
	if len(ids) == 0 {
		log.Info("no metadata targets, skipping game details stage")
		return StageResult{Outcome: domain.StageOutcomeSkipped}, 0
	}

	// An outstanding checkpoint means an interrupted run; resume it even
	// when the schedule says the category is fresh.
	pending, err := s.store.ReadCheckpoint(steamID, domain.CategoryGames)
	if err == nil && pending == nil && !s.gate.ShouldRefresh(steamID, domain.CategoryGames) {
		log.Info("game metadata is fresh, skipping details stage", "targets", len(ids))
		return StageResult{Outcome: domain.StageOutcomeCacheHit, Count: len(ids)}, 0
	}

	remaining, err := s.fetcher.Run(ctx, steamID, ids)
	if err != nil {
		log.Error("metadata run aborted", "remaining", remaining, "error", err)
		return StageResult{Outcome: domain.StageOutcomeFailed, Count: len(ids) - remaining, Err: err}, remaining
	}
	return StageResult{Outcome: domain.StageOutcomeSuccess, Count: len(ids)}, 0
}

// metadataTargetIDs picks the id set metadata downloads are driven from,
// per the configured source. Union de-duplicates with library ids first.
func (s *Syncer) metadataTargetIDs(wishlist []domain.WishlistEntry, library []domain.LibraryEntry) []int64 {
	switch s.opts.MetadataSource {
	case constants.MetadataSourceWishlist:
		return appIDsOfWishlist(wishlist)
	case constants.MetadataSourceUnion:
		seen := make(map[int64]struct{})
		var ids []int64
		for _, id := range appIDsOfLibrary(library) {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
		for _, id := range appIDsOfWishlist(wishlist) {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
		return ids
	default:
		return appIDsOfLibrary(library)
	}
}

func appIDsOfWishlist(entries []domain.WishlistEntry) []int64 {
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.AppID
	}
	return ids
}

func appIDsOfLibrary(entries []domain.LibraryEntry) []int64 {
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.AppID
	}
	return ids
}
