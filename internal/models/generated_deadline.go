package models

import (
	"time"

	"gorm.io/gorm"
)

// GeneratedDeadline is the materialized output of evaluating one rule against
// one trigger. At most one live row exists per (trigger, rule) pair;
// regeneration replaces prior output instead of appending to it.
type GeneratedDeadline struct {
	gorm.Model

	MatterID     uint      `gorm:"not null;index"`
	TriggerID    uint      `gorm:"not null;index"`
	RuleID       uint      `gorm:"not null"`
	ComputedDate time.Time `gorm:"not null;type:date"`

	// Denormalized for display, frozen at generation time.
	RuleName      string `gorm:"not null"`
	EventTitle    string `gorm:"not null"`
	EventType     string `gorm:"not null;default:deadline"`
	RuleSortOrder int    `gorm:"not null;default:0"`

	// Relationships
	Matter  Matter       `gorm:"foreignKey:MatterID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Trigger TriggerEvent `gorm:"foreignKey:TriggerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Rule    DeadlineRule `gorm:"foreignKey:RuleID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
