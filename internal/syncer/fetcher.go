package syncer

import (
	"context"
	"time"

	"github.com/steamvault/steamvault/internal/domain"
	"github.com/steamvault/steamvault/internal/logger"
)

// BatchFetcher drives rate-limited, resumable retrieval of per-game
// metadata for a large id set. The store API answers one app per call, so
// a full refresh of several hundred games takes many minutes; the durable
// checkpoint lets an interrupted run resume instead of starting over.
type BatchFetcher struct {
	store     Store
	client    SteamClient
	batchSize int
	delay     time.Duration
	log       *logger.Logger
}

func NewBatchFetcher(store Store, client SteamClient, batchSize int, delay time.Duration, log *logger.Logger) *BatchFetcher {
	if log == nil {
		log = logger.Default()
	}
	return &BatchFetcher{
		store:     store,
		client:    client,
		batchSize: batchSize,
		delay:     delay,
		log:       log.WithComponent("fetcher"),
	}
}

// Run fetches metadata for the target set, resuming from an existing
// checkpoint when one is present. It returns the count of ids still
// unfetched; non-zero only alongside an error. A transport failure inside
// a batch aborts the run without advancing the checkpoint past that
// batch, so a restart re-attempts the failing batch (at-least-once, never
// silent loss).
func (f *BatchFetcher) Run(ctx context.Context, steamID string, targetIDs []int64) (int, error) {
	log := f.log.WithUser(steamID)

	pending, err := f.store.ReadCheckpoint(steamID, domain.CategoryGames)
	if err != nil {
		return len(targetIDs), err
	}
	if pending == nil {
		// no resumable run: the full target set becomes the initial
		// checkpoint, persisted before any fetch begins
		pending = targetIDs
		if err := f.store.WriteCheckpoint(steamID, domain.CategoryGames, pending); err != nil {
			return len(pending), err
		}
		log.Info("starting metadata run", "targets", len(pending))
	} else {
		log.Info("resuming metadata run from checkpoint", "remaining", len(pending))
	}

	for len(pending) > 0 {
		n := f.batchSize
		if n > len(pending) {
			n = len(pending)
		}
		batch := pending[:n]

		fetched := make([]domain.GameDetails, 0, n)
		for _, appID := range batch {
			details, err := f.client.FetchGameDetails(ctx, appID)
			if err != nil {
				return len(pending), err
			}
			if details == nil {
				// app withdrawn or region-locked; counts as attempted
				log.Warn("steam has no details for app", "app_id", appID)
				continue
			}
			fetched = append(fetched, *details)
		}

		// Shrink the checkpoint before the write step, matching the
		// rate-limit accounting: these ids have been attempted and must
		// not be re-fetched by a later resume.
		pending = pending[n:]
		if err := f.store.WriteCheckpoint(steamID, domain.CategoryGames, pending); err != nil {
			return len(pending), err
		}

		if err := f.persistBatch(steamID, fetched); err != nil {
			return len(pending), err
		}
		log.Info("metadata batch stored", "batch", len(batch), "remaining", len(pending))

		// the final batch is not followed by a sleep
		if len(pending) > 0 && f.delay > 0 {
			timer := time.NewTimer(f.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return len(pending), ctx.Err()
			case <-timer.C:
			}
		}
	}

	if err := f.store.ClearCheckpoint(steamID, domain.CategoryGames); err != nil {
		return 0, err
	}
	if err := f.store.MarkRefreshed(steamID, domain.CategoryGames); err != nil {
		return 0, err
	}
	log.Info("metadata run complete")
	return 0, nil
}

// persistBatch writes a batch's records through every entity table. Each
// upsert is one transaction with its own conflict policy; a failure
// aborts the run with the write rolled back.
func (f *BatchFetcher) persistBatch(steamID string, details []domain.GameDetails) error {
	if len(details) == 0 {
		return nil
	}
	writes := []func(string, []domain.GameDetails) (int, error){
		f.store.UpsertGames,
		f.store.UpsertDevelopers,
		f.store.UpsertPublishers,
		f.store.UpsertCategories,
		f.store.UpsertGenres,
		f.store.UpsertPrices,
		f.store.UpsertMetacritic,
	}
	for _, write := range writes {
		if _, err := write(steamID, details); err != nil {
			return err
		}
	}
	return nil
}
