package models

import "gorm.io/gorm"

type Matter struct {
	gorm.Model

	Name       string `gorm:"not null"`
	ClientName string
	CaseNumber string
	Status     string `gorm:"not null;default:open"` // "open", "closed"
	OwnerID    uint   `gorm:"not null;index"`

	// Relationships
	Owner                 User                   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	MatterRuleSets        []MatterRuleSet        `gorm:"foreignKey:MatterID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	TriggerEvents         []TriggerEvent         `gorm:"foreignKey:MatterID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	GeneratedDeadlines    []GeneratedDeadline    `gorm:"foreignKey:MatterID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	StatutesOfLimitations []StatuteOfLimitations `gorm:"foreignKey:MatterID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
