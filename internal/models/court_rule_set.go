package models

import "gorm.io/gorm"

// CourtRuleSet is tenant-global reference data: a jurisdiction-scoped bundle
// of deadline rules. Deactivating a set hides it from future application
// without deleting history.
type CourtRuleSet struct {
	gorm.Model

	Name         string `gorm:"not null;uniqueIndex:idx_rule_sets_name_jurisdiction"`
	Jurisdiction string `gorm:"not null;uniqueIndex:idx_rule_sets_name_jurisdiction"`
	CourtType    string
	IsActive     bool `gorm:"not null;default:true"`

	// Relationships
	Rules          []DeadlineRule  `gorm:"foreignKey:RuleSetID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	MatterRuleSets []MatterRuleSet `gorm:"foreignKey:RuleSetID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
