package rules

import (
	"errors"

	"github.com/lexcal-dev/lexcal/db"
	"github.com/lexcal-dev/lexcal/internal/models"
	"github.com/lexcal-dev/lexcal/internal/types"
	"gorm.io/gorm"
)

const (
	defaultRuleSetName         = "Federal Rules of Civil Procedure"
	defaultRuleSetJurisdiction = "Federal"
	defaultRuleSetCourtType    = "District Court"
)

// Baseline procedural rules installed by SeedDefaultRuleSet. Offsets are
// operator-editable data after seeding; this is a starting point, not a
// source of legal truth.
var defaultRules = []RuleSpec{
	{Name: "Answer Due", TriggerEvent: "complaint_served", OffsetDays: 21, OffsetType: types.OffsetCalendarDays, Description: "Answer or responsive pleading due after service of complaint", SortOrder: 10},
	{Name: "Removal Deadline", TriggerEvent: "complaint_served", OffsetDays: 30, OffsetType: types.OffsetCalendarDays, Description: "Deadline to remove action to federal court", SortOrder: 20},
	{Name: "Initial Disclosures", TriggerEvent: "scheduling_conference", OffsetDays: 14, OffsetType: types.OffsetCalendarDays, Description: "Initial disclosures due after the scheduling conference", SortOrder: 30},
	{Name: "Opposition Brief Due", TriggerEvent: "motion_filed", OffsetDays: 14, OffsetType: types.OffsetCalendarDays, Description: "Opposition to motion due", SortOrder: 40},
	{Name: "Reply Brief Due", TriggerEvent: "motion_filed", OffsetDays: 21, OffsetType: types.OffsetCalendarDays, Description: "Reply in support of motion due", SortOrder: 50},
	{Name: "Expert Disclosures", TriggerEvent: "trial_date", OffsetDays: -90, OffsetType: types.OffsetCalendarDays, Description: "Expert witness disclosures due before trial", SortOrder: 60},
	{Name: "Pretrial Statement", TriggerEvent: "trial_date", OffsetDays: -30, OffsetType: types.OffsetCalendarDays, Description: "Joint pretrial statement due before trial", SortOrder: 70},
	{Name: "Meet and Confer", TriggerEvent: "trial_date", OffsetDays: -14, OffsetType: types.OffsetCalendarDays, Description: "Final meet and confer before trial", SortOrder: 80},
	{Name: "Exhibit Exchange", TriggerEvent: "trial_date", OffsetDays: -5, OffsetType: types.OffsetBusinessDays, Description: "Exchange of trial exhibits", SortOrder: 90},
	{Name: "Notice of Appeal", TriggerEvent: "judgment_entered", OffsetDays: 30, OffsetType: types.OffsetCalendarDays, Description: "Notice of appeal due after entry of judgment", SortOrder: 100},
}

// SeedDefaultRuleSet idempotently installs the baseline federal rule set,
// keyed by name and jurisdiction. The second return reports whether this
// call created it; a repeat call finds the existing set and adds nothing.
func SeedDefaultRuleSet() (*models.CourtRuleSet, bool, error) {
	var existing models.CourtRuleSet

	err := db.DB.Where("name = ? AND jurisdiction = ?", defaultRuleSetName, defaultRuleSetJurisdiction).
		First(&existing).Error

	if err == nil {
		seeded, err := GetRuleSet(existing.ID)
		return seeded, false, err
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	ruleSet := models.CourtRuleSet{
		Name:         defaultRuleSetName,
		Jurisdiction: defaultRuleSetJurisdiction,
		CourtType:    defaultRuleSetCourtType,
		IsActive:     true,
	}

	txErr := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ruleSet).Error; err != nil {
			return err
		}

		for _, spec := range defaultRules {
			rule := models.DeadlineRule{
				RuleSetID:        ruleSet.ID,
				Name:             spec.Name,
				TriggerEvent:     spec.TriggerEvent,
				OffsetDays:       spec.OffsetDays,
				OffsetType:       spec.OffsetType,
				CreatesEventType: types.DefaultEventType,
				Description:      spec.Description,
				SortOrder:        spec.SortOrder,
			}

			if err := tx.Create(&rule).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if txErr != nil {
		// A concurrent seed won the insert on the unique (name, jurisdiction)
		// index; its committed set is the one to return.
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			if err := db.DB.Where("name = ? AND jurisdiction = ?", defaultRuleSetName, defaultRuleSetJurisdiction).
				First(&existing).Error; err != nil {
				return nil, false, err
			}
			seeded, err := GetRuleSet(existing.ID)
			return seeded, false, err
		}
		return nil, false, txErr
	}

	seeded, err := GetRuleSet(ruleSet.ID)
	return seeded, true, err
}
