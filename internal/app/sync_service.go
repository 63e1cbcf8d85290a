// Package app holds the service layer between the HTTP surface and the
// engine: the sync run queue and mirror reads.
package app

import (
	"time"

	"github.com/google/uuid"

	"github.com/steamvault/steamvault/internal/domain"
	"github.com/steamvault/steamvault/internal/logger"
	"github.com/steamvault/steamvault/internal/store"
)

type SyncService struct {
	db  *store.DB
	log *logger.Logger
}

func NewSyncService(db *store.DB, log *logger.Logger) *SyncService {
	if log == nil {
		log = logger.Default()
	}
	return &SyncService{
		db:  db,
		log: log.WithComponent("sync_service"),
	}
}

// EnqueueRun queues a sync run for the user. If a queued or running run
// already exists for the same user it is returned instead; no two runs
// for one user may overlap.
func (s *SyncService) EnqueueRun(steamID string) (*domain.SyncRun, error) {
	existing, err := s.db.GetActiveRun(steamID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.log.Info("sync already pending for user", "steam_id", steamID, "run_id", existing.ID)
		return existing, nil
	}

	now := time.Now()
	run := &domain.SyncRun{
		ID:        uuid.New().String(),
		SteamID:   steamID,
		Status:    domain.RunStatusQueued,
		Wishlist:  domain.StageOutcomePending,
		Library:   domain.StageOutcomePending,
		Metadata:  domain.StageOutcomePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.CreateRun(run); err != nil {
		return nil, err
	}
	s.log.Info("sync run queued", "steam_id", steamID, "run_id", run.ID)
	return run, nil
}

func (s *SyncService) GetRun(id string) (*domain.SyncRun, error) {
	return s.db.GetRun(id)
}

func (s *SyncService) ListRuns(limit int) ([]*domain.SyncRun, error) {
	return s.db.ListRuns(limit)
}
