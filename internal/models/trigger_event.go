package models

import (
	"time"

	"gorm.io/gorm"
)

// TriggerEvent records a procedural milestone for a matter. A matter holds at
// most one live trigger per trigger name, backed by the unique index on the
// pair; re-setting the date updates the same row and regenerates its
// deadlines. Triggers are hard-deleted, so the index never collides with a
// soft-deleted row.
type TriggerEvent struct {
	gorm.Model

	MatterID    uint      `gorm:"not null;uniqueIndex:idx_trigger_events_matter_name"`
	TriggerName string    `gorm:"not null;uniqueIndex:idx_trigger_events_matter_name"`
	TriggerDate time.Time `gorm:"not null;type:date"`
	Notes       string
	CreatedByID uint `gorm:"not null"`

	// Relationships
	Matter             Matter              `gorm:"foreignKey:MatterID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedBy          User                `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	GeneratedDeadlines []GeneratedDeadline `gorm:"foreignKey:TriggerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
