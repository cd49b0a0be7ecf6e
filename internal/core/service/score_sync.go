package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/realtyflow/crm-system/internal/api/metrics"
	"github.com/realtyflow/crm-system/internal/core/domain"
	"github.com/realtyflow/crm-system/internal/core/ports"
	"github.com/realtyflow/crm-system/internal/core/scoring"
)

// releaseTimeout bounds the detached lock-release call after a sync pass.
const releaseTimeout = 5 * time.Second

// SyncLocker abstracts the single-writer lock (Redis). Only one sync pass may
// run against the same storage at a time.
type SyncLocker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// ScoreSyncService reconciles cached prospect scores with freshly computed
// ones. It performs no authorization itself; its callers are privileged.
type ScoreSyncService struct {
	repo   ports.ProspectRepository
	engine scoring.Engine
	lock   SyncLocker
	logger zerolog.Logger
}

func NewScoreSyncService(repo ports.ProspectRepository, engine scoring.Engine, lock SyncLocker, logger zerolog.Logger) *ScoreSyncService {
	return &ScoreSyncService{repo: repo, engine: engine, lock: lock, logger: logger}
}

// Run scans every prospect, recomputes its score, and persists only the
// records whose score changed. A write failure on one record is counted and
// logged but never aborts the rest of the pass. Once scores have converged a
// subsequent run updates zero records.
func (s *ScoreSyncService) Run(ctx context.Context) (*ports.SyncReport, error) {
	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("score sync: acquire lock: %w", err)
		}
		if !acquired {
			return nil, domain.ErrSyncRunning
		}
		defer func() {
			// Release on a detached context: the caller may already be gone
			// (client disconnect, shutdown) and the lock must not outlive the
			// pass by its full TTL.
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
			defer cancel()
			if err := s.lock.Release(releaseCtx); err != nil {
				s.logger.Warn().Err(err).Msg("failed to release score sync lock")
			}
		}()
	}

	timer := prometheus.NewTimer(metrics.ScoreSyncDuration)
	defer timer.ObserveDuration()

	prospects, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("score sync: list prospects: %w", err)
	}

	report := &ports.SyncReport{}
	for _, p := range prospects {
		report.Scanned++

		fresh := s.engine.Score(*p)
		if fresh == p.Score {
			continue
		}

		if err := s.repo.UpdateScore(ctx, p.ID, fresh); err != nil {
			report.Failed++
			s.logger.Error().Err(err).
				Str("prospect_id", p.ID).
				Int("score", fresh).
				Msg("score sync: failed to persist score")
			continue
		}
		report.Updated++
	}

	metrics.ScoreSyncScannedTotal.Add(float64(report.Scanned))
	metrics.ScoreSyncUpdatedTotal.Add(float64(report.Updated))
	metrics.ScoreSyncFailuresTotal.Add(float64(report.Failed))

	s.logger.Info().
		Int("scanned", report.Scanned).
		Int("updated", report.Updated).
		Int("failed", report.Failed).
		Msg("score sync completed")

	return report, nil
}
