package models

import "gorm.io/gorm"

// MatterRuleSet marks a rule set as applicable to a matter. Applying twice is
// a no-op, enforced by the unique index on the pair.
type MatterRuleSet struct {
	gorm.Model

	MatterID  uint `gorm:"not null;uniqueIndex:idx_matter_rule_sets_pair"`
	RuleSetID uint `gorm:"not null;uniqueIndex:idx_matter_rule_sets_pair"`

	// Relationships
	Matter  Matter       `gorm:"foreignKey:MatterID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	RuleSet CourtRuleSet `gorm:"foreignKey:RuleSetID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
