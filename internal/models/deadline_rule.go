package models

import "gorm.io/gorm"

// DeadlineRule maps a trigger event to a derived deadline. OffsetDays is
// signed: positive falls after the trigger date, negative before it, zero is
// a same-day deadline.
type DeadlineRule struct {
	gorm.Model

	RuleSetID        uint   `gorm:"not null;index"`
	Name             string `gorm:"not null"`
	TriggerEvent     string `gorm:"not null;index"` // symbolic key, e.g. "complaint_served"
	OffsetDays       int    `gorm:"not null"`
	OffsetType       string `gorm:"not null"` // "calendar_days" or "business_days"
	CreatesEventType string `gorm:"not null;default:deadline"`
	Description      string
	SortOrder        int `gorm:"not null;default:0"`

	// Relationships
	RuleSet CourtRuleSet `gorm:"foreignKey:RuleSetID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
