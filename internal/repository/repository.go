package repository

import (
	"context"
	"time"

	"gtmdash/internal/models"
)

type ListScenariosParams struct {
	Query   *string
	OrderBy string
	Asc     bool
	Limit   int
	Offset  int
}

type ListSnapshotsParams struct {
	ScenarioID uint64
	Source     *string
	Since      *time.Time
	Limit      int
	Offset     int
}

// Repository is the persistence surface for the scenario library and the
// runtime feature switches.
type Repository interface {
	// Scenarios
	InsertScenario(ctx context.Context, item *models.Scenario) error
	GetScenarioByID(ctx context.Context, id uint64) (*models.Scenario, error)
	ListScenarios(ctx context.Context, params ListScenariosParams) ([]models.Scenario, error)
	CountScenarios(ctx context.Context, params ListScenariosParams) (int64, error)
	UpdateScenario(ctx context.Context, item *models.Scenario) error
	DeleteScenario(ctx context.Context, id uint64) error

	// Snapshot history
	InsertSnapshot(ctx context.Context, item *models.ScenarioSnapshot) error
	GetLatestSnapshot(ctx context.Context, scenarioID uint64) (*models.ScenarioSnapshot, error)
	ListSnapshots(ctx context.Context, params ListSnapshotsParams) ([]models.ScenarioSnapshot, error)
	DeleteSnapshotsBefore(ctx context.Context, before time.Time) (int64, error)
	DeleteSnapshotsByScenario(ctx context.Context, scenarioID uint64) error

	// System settings
	GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error
	ListSystemSettings(ctx context.Context) ([]models.SystemSetting, error)
}
