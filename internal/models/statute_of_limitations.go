package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StatuteOfLimitations is an independent expiration deadline with
// multi-threshold reminders. Days remaining is derived against "today" at
// query time, never stored.
type StatuteOfLimitations struct {
	gorm.Model

	MatterID         uint      `gorm:"not null;index"`
	Description      string    `gorm:"not null"`
	ExpirationDate   time.Time `gorm:"not null;type:date"`
	StatuteReference string
	ReminderDays     datatypes.JSON `gorm:"type:jsonb"` // descending list of day offsets, e.g. [90,60,30,7,1]
	IsActive         bool           `gorm:"not null;default:true"`

	// Relationships
	Matter Matter `gorm:"foreignKey:MatterID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (StatuteOfLimitations) TableName() string {
	return "statute_of_limitations"
}
