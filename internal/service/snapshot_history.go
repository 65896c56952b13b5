package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gtmdash/internal/config"
	"gtmdash/internal/repository"
)

// SnapshotHistoryService periodically re-evaluates every saved scenario and
// appends a history snapshot, so metric drift across config edits can be
// charted over time. A scenario whose config hash is unchanged since its
// latest snapshot is skipped.
type SnapshotHistoryService struct {
	Repo      repository.Repository
	Logger    *zap.Logger
	Flags     *SystemSettingsService
	Evaluator *EvaluationService
	Config    config.HistoryConfig
}

func (s *SnapshotHistoryService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil || s.Evaluator == nil {
		return nil
	}
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureSnapshotHistory, true) {
		return nil
	}
	limit := s.Config.MaxScenarios
	if limit <= 0 {
		limit = 500
	}
	scenarios, err := s.Repo.ListScenarios(ctx, repository.ListScenariosParams{Limit: limit})
	if err != nil {
		return err
	}
	var written, skipped int
	for _, sc := range scenarios {
		cfg, err := DecodeConfig(sc.Config)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("skip scenario with undecodable config",
					zap.Uint64("scenario_id", sc.ID), zap.Error(err))
			}
			continue
		}
		latest, err := s.Repo.GetLatestSnapshot(ctx, sc.ID)
		if err != nil {
			return err
		}
		if latest != nil && latest.ConfigHash == cfg.Hash() {
			skipped++
			continue
		}
		if _, _, err := s.Evaluator.EvaluateScenario(ctx, sc.ID, true, SnapshotSourceCron); err != nil {
			if s.Logger != nil {
				s.Logger.Warn("history evaluation failed",
					zap.Uint64("scenario_id", sc.ID), zap.Error(err))
			}
			continue
		}
		written++
	}
	if s.Logger != nil {
		s.Logger.Info("snapshot history pass complete",
			zap.Int("scenarios", len(scenarios)),
			zap.Int("written", written),
			zap.Int("skipped", skipped),
		)
	}
	return nil
}

// CleanupOnce prunes snapshots older than the retention window.
func (s *SnapshotHistoryService) CleanupOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureSnapshotCleanup, true) {
		return nil
	}
	days := s.Config.RetentionDays
	if days <= 0 {
		return nil
	}
	before := time.Now().UTC().AddDate(0, 0, -days)
	n, err := s.Repo.DeleteSnapshotsBefore(ctx, before)
	if err != nil {
		return err
	}
	if n > 0 && s.Logger != nil {
		s.Logger.Info("pruned old snapshots", zap.Int64("count", n), zap.Time("before", before))
	}
	return nil
}
