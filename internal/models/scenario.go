package models

import (
	"time"

	"gorm.io/datatypes"
)

// Scenario is one saved what-if model: a named, user-owned configuration
// document. Config holds the full engine ScenarioConfig JSON; evaluation
// results are never stored here because they are pure functions of Config.
type Scenario struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(120);not null;index"`
	Description string `gorm:"type:text"`

	Config datatypes.JSON `gorm:"type:jsonb;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime;index"`
}

func (Scenario) TableName() string {
	return "scenarios"
}
