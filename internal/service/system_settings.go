package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"gtmdash/internal/models"
	"gtmdash/internal/repository"
)

// Feature switches toggle background and push behavior at runtime without a
// restart. Values live in system_settings as jsonb booleans.
const (
	FeatureSnapshotHistory = "feature.snapshot_history"
	FeatureSnapshotCleanup = "feature.snapshot_cleanup"
	FeatureLiveStream      = "feature.live_stream"
)

type featureSwitch struct {
	key         string
	enabled     bool
	description string
}

var seededSwitches = []featureSwitch{
	{FeatureSnapshotHistory, true, "periodic re-evaluation of saved scenarios into history snapshots"},
	{FeatureSnapshotCleanup, true, "pruning of history snapshots past the retention window"},
	{FeatureLiveStream, true, "websocket fan-out of evaluation results"},
}

// DefaultFeatureSwitches lists the seeded switches and their default state.
func DefaultFeatureSwitches() map[string]bool {
	out := make(map[string]bool, len(seededSwitches))
	for _, sw := range seededSwitches {
		out[sw.key] = sw.enabled
	}
	return out
}

// KnownSwitch reports whether a key is one of the seeded switches.
func KnownSwitch(key string) bool {
	for _, sw := range seededSwitches {
		if sw.key == key {
			return true
		}
	}
	return false
}

type SystemSettingsService struct {
	Repo repository.Repository
}

// EnsureDefaultSwitches seeds any switch missing from the settings table.
// Existing rows are left alone so operator overrides survive restarts.
func (s *SystemSettingsService) EnsureDefaultSwitches(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	now := time.Now().UTC()
	for _, sw := range seededSwitches {
		existing, err := s.Repo.GetSystemSettingByKey(ctx, sw.key)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		raw, _ := json.Marshal(sw.enabled)
		item := &models.SystemSetting{
			Key:         sw.key,
			Value:       datatypes.JSON(raw),
			Description: sw.description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Repo.UpsertSystemSetting(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// IsEnabled reads a switch, returning the fallback on any miss or decode
// failure so a broken row never takes a feature down harder than its default.
func (s *SystemSettingsService) IsEnabled(ctx context.Context, key string, fallback bool) bool {
	if s == nil || s.Repo == nil {
		return fallback
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	item, err := s.Repo.GetSystemSettingByKey(ctx, key)
	if err != nil || item == nil || len(item.Value) == 0 {
		return fallback
	}
	var enabled bool
	if err := json.Unmarshal(item.Value, &enabled); err != nil {
		return fallback
	}
	return enabled
}

func (s *SystemSettingsService) SetEnabled(ctx context.Context, key string, enabled bool) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	description := "feature switch"
	for _, sw := range seededSwitches {
		if sw.key == key {
			description = sw.description
		}
	}
	raw, _ := json.Marshal(enabled)
	item := &models.SystemSetting{
		Key:         key,
		Value:       datatypes.JSON(raw),
		Description: description,
		UpdatedAt:   time.Now().UTC(),
	}
	return s.Repo.UpsertSystemSetting(ctx, item)
}
