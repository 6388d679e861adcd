// Package deadlines owns the trigger lifecycle and the deadline fan-out: one
// trigger date expands into a generated deadline per matching rule across
// every rule set applied to the matter. Regeneration is all-or-nothing: a
// trigger's prior deadlines are deleted and the fresh set inserted inside a
// single transaction, so readers never see a half-updated docket.
package deadlines

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/lexcal-dev/lexcal/db"
	"github.com/lexcal-dev/lexcal/internal/apperrors"
	"github.com/lexcal-dev/lexcal/internal/calendar"
	"github.com/lexcal-dev/lexcal/internal/models"
	"gorm.io/gorm"
)

// ApplyRuleSet marks a rule set as applicable to a matter. Applying the same
// set twice is a no-op. Inactive rule sets cannot be newly applied.
func ApplyRuleSet(matterID, ruleSetID uint) error {
	var matter models.Matter

	if err := db.DB.First(&matter, matterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("matter", matterID)
		}
		return err
	}

	var ruleSet models.CourtRuleSet

	if err := db.DB.First(&ruleSet, ruleSetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("rule set", ruleSetID)
		}
		return err
	}

	if !ruleSet.IsActive {
		return apperrors.Validation("rule set %q is inactive", ruleSet.Name)
	}

	link := models.MatterRuleSet{MatterID: matter.ID, RuleSetID: ruleSet.ID}

	return db.DB.Where(models.MatterRuleSet{MatterID: matter.ID, RuleSetID: ruleSet.ID}).
		FirstOrCreate(&link).Error
}

// SetTrigger upserts the trigger for (matter, triggerName) and regenerates
// every deadline derived from it. A matter holds one trigger per name;
// re-setting the date updates that row and replaces its fan-out, never
// accumulating stale deadlines from the old date. The second return reports
// whether this call created the trigger.
func SetTrigger(matterID uint, triggerName string, triggerDate time.Time, notes string, userID uint) (*models.TriggerEvent, bool, error) {
	triggerName = strings.TrimSpace(triggerName)

	if triggerName == "" {
		return nil, false, apperrors.Validation("trigger name is required")
	}

	if triggerDate.IsZero() {
		return nil, false, apperrors.Validation("trigger date is required")
	}

	triggerDate = calendar.Normalize(triggerDate)

	var matter models.Matter

	if err := db.DB.First(&matter, matterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.NotFound("matter", matterID)
		}
		return nil, false, err
	}

	matchingRules, err := rulesForTrigger(matter.ID, triggerName)

	if err != nil {
		return nil, false, err
	}

	var trigger models.TriggerEvent
	var created bool

	// Two attempts: a concurrent call can win the insert between the
	// not-found check and our create, rolling the transaction back with a
	// unique violation on (matter_id, trigger_name). The retry then finds
	// the committed row and takes the update path, so last-committed-wins.
	for attempt := 0; attempt < 2; attempt++ {
		trigger = models.TriggerEvent{}
		created = false

		txErr := db.DB.Transaction(func(tx *gorm.DB) error {
			err := tx.Where("matter_id = ? AND trigger_name = ?", matter.ID, triggerName).
				First(&trigger).Error

			switch {
			case err == nil:
				trigger.TriggerDate = triggerDate
				trigger.Notes = notes
				if err := tx.Save(&trigger).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				trigger = models.TriggerEvent{
					MatterID:    matter.ID,
					TriggerName: triggerName,
					TriggerDate: triggerDate,
					Notes:       notes,
					CreatedByID: userID,
				}
				if err := tx.Create(&trigger).Error; err != nil {
					return err
				}
				created = true
			default:
				return err
			}

			return regenerate(tx, &trigger, matchingRules)
		})

		if txErr == nil {
			return &trigger, created, nil
		}

		if !errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, false, txErr
		}
	}

	return nil, false, apperrors.Conflict("trigger %q already exists for matter %d", triggerName, matter.ID)
}

// regenerate replaces a trigger's entire fan-out: compute every date first so
// a bad rule aborts before any row changes, then delete-and-insert.
func regenerate(tx *gorm.DB, trigger *models.TriggerEvent, rules []models.DeadlineRule) error {
	fresh := make([]models.GeneratedDeadline, 0, len(rules))

	for _, rule := range rules {
		computed, err := calendar.AddOffset(trigger.TriggerDate, rule.OffsetDays, rule.OffsetType)
		if err != nil {
			return err
		}

		fresh = append(fresh, models.GeneratedDeadline{
			MatterID:      trigger.MatterID,
			TriggerID:     trigger.ID,
			RuleID:        rule.ID,
			ComputedDate:  computed,
			RuleName:      rule.Name,
			EventTitle:    rule.Name,
			EventType:     rule.CreatesEventType,
			RuleSortOrder: rule.SortOrder,
		})
	}

	if err := tx.Unscoped().
		Where("trigger_id = ?", trigger.ID).
		Delete(&models.GeneratedDeadline{}).Error; err != nil {
		return err
	}

	if len(fresh) == 0 {
		return nil
	}

	return tx.Create(&fresh).Error
}

// rulesForTrigger collects every rule matching the trigger name across the
// matter's applied, active rule sets.
func rulesForTrigger(matterID uint, triggerName string) ([]models.DeadlineRule, error) {
	var rules []models.DeadlineRule

	err := db.DB.
		Joins("JOIN court_rule_sets ON court_rule_sets.id = deadline_rules.rule_set_id").
		Joins("JOIN matter_rule_sets ON matter_rule_sets.rule_set_id = court_rule_sets.id").
		Where("matter_rule_sets.matter_id = ?", matterID).
		Where("matter_rule_sets.deleted_at IS NULL").
		Where("court_rule_sets.is_active = ?", true).
		Where("deadline_rules.trigger_event = ?", triggerName).
		Find(&rules).Error

	if err != nil {
		return nil, err
	}

	return rules, nil
}

// DeleteTrigger removes a trigger and cascades to every deadline it produced,
// atomically. Orphaned deadlines referencing a deleted trigger are never left
// behind.
func DeleteTrigger(triggerID uint) error {
	var trigger models.TriggerEvent

	if err := db.DB.First(&trigger, triggerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("trigger", triggerID)
		}
		return err
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("trigger_id = ?", trigger.ID).
			Delete(&models.GeneratedDeadline{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&trigger).Error
	})
}

// GetTrigger loads a trigger by id.
func GetTrigger(triggerID uint) (*models.TriggerEvent, error) {
	var trigger models.TriggerEvent

	if err := db.DB.First(&trigger, triggerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("trigger", triggerID)
		}
		return nil, err
	}

	return &trigger, nil
}

// ListTriggers returns a matter's triggers, most recent date first.
func ListTriggers(matterID uint) ([]models.TriggerEvent, error) {
	var triggers []models.TriggerEvent

	err := db.DB.Where("matter_id = ?", matterID).
		Order("trigger_date DESC, id ASC").
		Find(&triggers).Error

	if err != nil {
		return nil, err
	}

	return triggers, nil
}

// DeadlineView is a generated deadline annotated for display.
type DeadlineView struct {
	Deadline      models.GeneratedDeadline
	DueStatus     string
	DaysRemaining int
	Urgency       string
}

// ListDeadlines returns a matter's deadlines sorted ascending by computed
// date, ties broken by rule sort order, each classified against today.
func ListDeadlines(matterID uint, today time.Time) ([]DeadlineView, error) {
	var deadlines []models.GeneratedDeadline

	err := db.DB.Where("matter_id = ?", matterID).
		Order("computed_date ASC").
		Find(&deadlines).Error

	if err != nil {
		return nil, err
	}

	sort.SliceStable(deadlines, func(i, j int) bool {
		if !deadlines[i].ComputedDate.Equal(deadlines[j].ComputedDate) {
			return deadlines[i].ComputedDate.Before(deadlines[j].ComputedDate)
		}
		return deadlines[i].RuleSortOrder < deadlines[j].RuleSortOrder
	})

	views := make([]DeadlineView, 0, len(deadlines))

	for _, deadline := range deadlines {
		days := calendar.DaysUntil(deadline.ComputedDate, today)
		views = append(views, DeadlineView{
			Deadline:      deadline,
			DueStatus:     calendar.DueStatus(deadline.ComputedDate, today),
			DaysRemaining: days,
			Urgency:       calendar.Urgency(days),
		})
	}

	return views, nil
}
