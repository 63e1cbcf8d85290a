// Package worker executes queued sync runs in the background, one at a
// time. A run blocks for its full duration (a large metadata refresh can
// take many minutes); interruption recovery comes from requeueing stuck
// runs on boot and from the fetcher's checkpoint, not from mid-run
// cancellation.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/steamvault/steamvault/internal/constants"
	"github.com/steamvault/steamvault/internal/domain"
	"github.com/steamvault/steamvault/internal/logger"
	"github.com/steamvault/steamvault/internal/store"
	"github.com/steamvault/steamvault/internal/syncer"
)

type Worker struct {
	db     *store.DB
	syncer *syncer.Syncer
	log    *logger.Logger

	pollInterval time.Duration
	wg           sync.WaitGroup
	ctx          context.Context
	cancel       context.CancelFunc
}

func NewWorker(db *store.DB, s *syncer.Syncer, log *logger.Logger) *Worker {
	if log == nil {
		log = logger.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		db:           db,
		syncer:       s,
		log:          log.WithComponent("worker"),
		pollInterval: constants.DefaultPollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (w *Worker) Start() {
	w.log.Info("starting worker")

	// runs interrupted by a previous shutdown resume via their checkpoint
	if err := w.db.ResetStuckRuns(); err != nil {
		w.log.Error("failed to reset stuck runs", "error", err)
	}

	w.wg.Add(1)
	go w.processRuns()
}

func (w *Worker) Stop() {
	w.log.Info("stopping worker")
	w.cancel()
	w.wg.Wait()
}

func (w *Worker) processRuns() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			run, err := w.db.NextQueuedRun()
			if err != nil {
				w.log.Error("failed to poll run queue", "error", err)
				continue
			}
			if run == nil {
				continue
			}
			w.executeRun(run)
		}
	}
}

func (w *Worker) executeRun(run *domain.SyncRun) {
	log := w.log.WithRun(run.ID, run.SteamID)

	run.Status = domain.RunStatusRunning
	if err := w.db.UpdateRun(run); err != nil {
		log.Error("failed to mark run running", "error", err)
		return
	}

	report, err := w.syncer.SyncUser(w.ctx, run.SteamID)
	if err != nil {
		// account resolution failed: fatal for the whole run
		msg := err.Error()
		run.Status = domain.RunStatusFailed
		run.Error = &msg
		if updateErr := w.db.UpdateRun(run); updateErr != nil {
			log.Error("failed to record run failure", "error", updateErr)
		}
		log.Error("sync run failed", "error", err)
		return
	}

	run.Wishlist = report.Wishlist.Outcome
	run.Library = report.Library.Outcome
	run.Metadata = report.Metadata.Outcome
	run.Remaining = report.Remaining
	run.Status = domain.RunStatusCompleted
	if stageErr := firstStageError(report); stageErr != nil {
		msg := stageErr.Error()
		run.Error = &msg
	}
	if err := w.db.UpdateRun(run); err != nil {
		log.Error("failed to record run completion", "error", err)
		return
	}
	log.Info("sync run finished",
		"wishlist", run.Wishlist,
		"library", run.Library,
		"metadata", run.Metadata,
		"remaining", run.Remaining)
}

func firstStageError(report *syncer.Report) error {
	for _, stage := range []syncer.StageResult{report.Wishlist, report.Library, report.Metadata} {
		if stage.Err != nil {
			return stage.Err
		}
	}
	return nil
}
