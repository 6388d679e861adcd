// Package rules manages court rule sets: named, jurisdiction-scoped bundles
// of deadline rules. Editing or deleting a rule never touches deadlines that
// were already generated from it; deadlines communicated to attorneys must
// not silently move. Regeneration only happens through the deadlines package
// when a trigger is re-set.
package rules

import (
	"errors"
	"strings"

	"github.com/lexcal-dev/lexcal/db"
	"github.com/lexcal-dev/lexcal/internal/apperrors"
	"github.com/lexcal-dev/lexcal/internal/models"
	"github.com/lexcal-dev/lexcal/internal/types"
	"gorm.io/gorm"
)

type RuleSpec struct {
	Name             string
	TriggerEvent     string
	OffsetDays       int
	OffsetType       string
	CreatesEventType string
	Description      string
	SortOrder        int
}

type RulePatch struct {
	Name             *string
	TriggerEvent     *string
	OffsetDays       *int
	OffsetType       *string
	CreatesEventType *string
	Description      *string
	SortOrder        *int
}

func validOffsetType(offsetType string) bool {
	return offsetType == types.OffsetCalendarDays || offsetType == types.OffsetBusinessDays
}

func CreateRuleSet(name, jurisdiction, courtType string) (*models.CourtRuleSet, error) {
	name = strings.TrimSpace(name)
	jurisdiction = strings.TrimSpace(jurisdiction)

	if name == "" {
		return nil, apperrors.Validation("rule set name is required")
	}

	if jurisdiction == "" {
		return nil, apperrors.Validation("rule set jurisdiction is required")
	}

	ruleSet := models.CourtRuleSet{
		Name:         name,
		Jurisdiction: jurisdiction,
		CourtType:    courtType,
		IsActive:     true,
	}

	if err := db.DB.Create(&ruleSet).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("rule set %q already exists in jurisdiction %q", name, jurisdiction)
		}
		return nil, err
	}

	return &ruleSet, nil
}

func GetRuleSet(ruleSetID uint) (*models.CourtRuleSet, error) {
	var ruleSet models.CourtRuleSet

	err := db.DB.Preload("Rules", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC, id ASC")
	}).First(&ruleSet, ruleSetID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("rule set", ruleSetID)
		}
		return nil, err
	}

	return &ruleSet, nil
}

func ListRuleSets() ([]models.CourtRuleSet, error) {
	var ruleSets []models.CourtRuleSet

	err := db.DB.Preload("Rules", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC, id ASC")
	}).Order("jurisdiction ASC, name ASC").Find(&ruleSets).Error

	if err != nil {
		return nil, err
	}

	return ruleSets, nil
}

// DeactivateRuleSet hides a rule set from future application. Matters it was
// already applied to keep their generated deadlines; only new SetTrigger
// fan-outs stop consulting it.
func DeactivateRuleSet(ruleSetID uint) (*models.CourtRuleSet, error) {
	ruleSet, err := GetRuleSet(ruleSetID)

	if err != nil {
		return nil, err
	}

	ruleSet.IsActive = false

	if err := db.DB.Save(ruleSet).Error; err != nil {
		return nil, err
	}

	return ruleSet, nil
}

func AddRule(ruleSetID uint, spec RuleSpec) (*models.DeadlineRule, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	spec.TriggerEvent = strings.TrimSpace(spec.TriggerEvent)

	if spec.Name == "" {
		return nil, apperrors.Validation("rule name is required")
	}

	if spec.TriggerEvent == "" {
		return nil, apperrors.Validation("rule trigger event is required")
	}

	if !validOffsetType(spec.OffsetType) {
		return nil, apperrors.Validation("unknown offset type %q", spec.OffsetType)
	}

	if spec.CreatesEventType == "" {
		spec.CreatesEventType = types.DefaultEventType
	}

	var ruleSet models.CourtRuleSet

	if err := db.DB.First(&ruleSet, ruleSetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("rule set", ruleSetID)
		}
		return nil, err
	}

	rule := models.DeadlineRule{
		RuleSetID:        ruleSet.ID,
		Name:             spec.Name,
		TriggerEvent:     spec.TriggerEvent,
		OffsetDays:       spec.OffsetDays,
		OffsetType:       spec.OffsetType,
		CreatesEventType: spec.CreatesEventType,
		Description:      spec.Description,
		SortOrder:        spec.SortOrder,
	}

	if err := db.DB.Create(&rule).Error; err != nil {
		return nil, err
	}

	return &rule, nil
}

// UpdateRule applies a partial patch to a rule. Existing generated deadlines
// are left alone; the edit takes effect the next time a trigger regenerates.
func UpdateRule(ruleID uint, patch RulePatch) (*models.DeadlineRule, error) {
	var rule models.DeadlineRule

	if err := db.DB.First(&rule, ruleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("rule", ruleID)
		}
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.Validation("rule name is required")
		}
		rule.Name = name
	}

	if patch.TriggerEvent != nil {
		triggerEvent := strings.TrimSpace(*patch.TriggerEvent)
		if triggerEvent == "" {
			return nil, apperrors.Validation("rule trigger event is required")
		}
		rule.TriggerEvent = triggerEvent
	}

	if patch.OffsetDays != nil {
		rule.OffsetDays = *patch.OffsetDays
	}

	if patch.OffsetType != nil {
		if !validOffsetType(*patch.OffsetType) {
			return nil, apperrors.Validation("unknown offset type %q", *patch.OffsetType)
		}
		rule.OffsetType = *patch.OffsetType
	}

	if patch.CreatesEventType != nil && *patch.CreatesEventType != "" {
		rule.CreatesEventType = *patch.CreatesEventType
	}

	if patch.Description != nil {
		rule.Description = *patch.Description
	}

	if patch.SortOrder != nil {
		rule.SortOrder = *patch.SortOrder
	}

	if err := db.DB.Save(&rule).Error; err != nil {
		return nil, err
	}

	return &rule, nil
}

func DeleteRule(ruleID uint) error {
	var rule models.DeadlineRule

	if err := db.DB.First(&rule, ruleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("rule", ruleID)
		}
		return err
	}

	return db.DB.Delete(&rule).Error
}
