package models

import (
	"time"

	"gorm.io/datatypes"
)

// SystemSetting is one runtime-toggleable setting row. The seeded feature
// switches live here; richer settings can share the table since Value is an
// arbitrary JSON document.
type SystemSetting struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	Key string `gorm:"type:varchar(120);not null;uniqueIndex"`

	// true/false for feature switches, an object for structured settings.
	Value datatypes.JSON `gorm:"type:jsonb;not null"`

	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"type:timestamptz;autoUpdateTime;index"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
