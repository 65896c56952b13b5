package models

import (
	"time"

	"gorm.io/datatypes"
)

// ScenarioSnapshot is one evaluated result for a scenario, kept as history
// so metric drift across config edits can be charted. ConfigHash identifies
// the exact input the snapshot was computed from; the history service skips
// writing when the hash is unchanged since the previous snapshot.
type ScenarioSnapshot struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	ScenarioID uint64 `gorm:"not null;index:idx_snapshot_scenario_created"`
	ConfigHash string `gorm:"type:varchar(64);not null;index"`

	// Source records what produced the snapshot: "api" or "cron".
	Source string `gorm:"type:varchar(20);not null;default:'api'"`

	Result datatypes.JSON `gorm:"type:jsonb;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index:idx_snapshot_scenario_created"`
}

func (ScenarioSnapshot) TableName() string {
	return "scenario_snapshots"
}
