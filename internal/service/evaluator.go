package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"gtmdash/internal/alert"
	"gtmdash/internal/engine"
	"gtmdash/internal/models"
	"gtmdash/internal/repository"
	"gtmdash/internal/stream"
)

// SnapshotSourceAPI and SnapshotSourceCron tag where a persisted snapshot
// came from.
const (
	SnapshotSourceAPI  = "api"
	SnapshotSourceCron = "cron"
)

// ErrScenarioNotFound is returned when an evaluation targets a scenario id
// that does not exist.
var ErrScenarioNotFound = fmt.Errorf("scenario not found")

// EvaluationService is the single place scenario configs get turned into
// snapshots: handlers, the cron history job, and the live stream all go
// through it so every consumer sees identical numbers for identical inputs.
type EvaluationService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Memo   *engine.Memoizer
	Hub    *stream.Hub
	Alerts *alert.Manager
	Flags  *SystemSettingsService
}

// DecodeConfig parses a stored or submitted config document. Unknown keys
// are ignored and missing sections fall back to engine defaults, so partial
// documents from older exports stay loadable.
func DecodeConfig(raw []byte) (engine.ScenarioConfig, error) {
	if len(raw) == 0 {
		return engine.DefaultConfig(), nil
	}
	var cfg engine.ScenarioConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return engine.ScenarioConfig{}, fmt.Errorf("decode scenario config: %w", err)
	}
	return cfg.Normalize(), nil
}

// EncodeConfig renders a config in the export JSON shape.
func EncodeConfig(cfg engine.ScenarioConfig) (datatypes.JSON, error) {
	raw, err := json.Marshal(cfg.Normalize())
	if err != nil {
		return nil, fmt.Errorf("encode scenario config: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// EvaluateConfig evaluates a standalone config (no scenario identity) and
// derives its alerts.
func (s *EvaluationService) EvaluateConfig(cfg engine.ScenarioConfig) (*engine.Snapshot, []alert.Alert, error) {
	var (
		snap *engine.Snapshot
		err  error
	)
	if s != nil && s.Memo != nil {
		snap, err = s.Memo.Evaluate(cfg)
	} else {
		snap, err = engine.Evaluate(cfg)
	}
	if err != nil {
		return nil, nil, err
	}
	var alerts []alert.Alert
	if s != nil && s.Alerts != nil {
		alerts = s.Alerts.Check(snap)
	}
	return snap, alerts, nil
}

// EvaluateScenario loads a saved scenario, evaluates it, optionally persists
// a history snapshot, and publishes the result to live subscribers.
func (s *EvaluationService) EvaluateScenario(ctx context.Context, scenarioID uint64, persist bool, source string) (*engine.Snapshot, []alert.Alert, error) {
	if s == nil || s.Repo == nil {
		return nil, nil, fmt.Errorf("evaluation service not configured")
	}
	item, err := s.Repo.GetScenarioByID(ctx, scenarioID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, ErrScenarioNotFound
	}
	cfg, err := DecodeConfig(item.Config)
	if err != nil {
		return nil, nil, err
	}
	snap, alerts, err := s.EvaluateConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	if persist {
		if err := s.persistSnapshot(ctx, scenarioID, snap, source); err != nil {
			// History is best effort; the evaluation result is still good.
			if s.Logger != nil {
				s.Logger.Warn("persist snapshot failed",
					zap.Uint64("scenario_id", scenarioID), zap.Error(err))
			}
		}
	}
	s.publish(ctx, scenarioID, snap, alerts)
	return snap, alerts, nil
}

func (s *EvaluationService) persistSnapshot(ctx context.Context, scenarioID uint64, snap *engine.Snapshot, source string) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if source == "" {
		source = SnapshotSourceAPI
	}
	return s.Repo.InsertSnapshot(ctx, &models.ScenarioSnapshot{
		ScenarioID: scenarioID,
		ConfigHash: snap.ConfigHash,
		Source:     source,
		Result:     datatypes.JSON(raw),
	})
}

func (s *EvaluationService) publish(ctx context.Context, scenarioID uint64, snap *engine.Snapshot, alerts []alert.Alert) {
	if s.Hub == nil {
		return
	}
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureLiveStream, true) {
		return
	}
	s.Hub.Publish(stream.Update{
		ScenarioID: scenarioID,
		Snapshot:   snap,
		Alerts:     alerts,
	})
}
