// Package sol tracks statute-of-limitations entries: independent expiration
// dates with multi-threshold reminders. Entries are not derived from triggers
// or rules; days remaining is always computed against today at query time.
package sol

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/lexcal-dev/lexcal/db"
	"github.com/lexcal-dev/lexcal/internal/apperrors"
	"github.com/lexcal-dev/lexcal/internal/calendar"
	"github.com/lexcal-dev/lexcal/internal/models"
	"github.com/lexcal-dev/lexcal/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Patch struct {
	Description      *string
	ExpirationDate   *time.Time
	StatuteReference *string
	ReminderDays     []int
	IsActive         *bool
}

// Warning is an SOL entry that crossed a reminder horizon, annotated with
// days remaining and urgency.
type Warning struct {
	Entry         models.StatuteOfLimitations
	DaysRemaining int
	Urgency       string
}

func encodeReminderDays(reminderDays []int) (datatypes.JSON, error) {
	if len(reminderDays) == 0 {
		reminderDays = types.DefaultReminderDays
	}

	seen := make(map[int]bool, len(reminderDays))
	cleaned := make([]int, 0, len(reminderDays))

	for _, days := range reminderDays {
		if days <= 0 {
			return nil, apperrors.Validation("reminder days must be positive, got %d", days)
		}
		if !seen[days] {
			seen[days] = true
			cleaned = append(cleaned, days)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(cleaned)))

	encoded, err := json.Marshal(cleaned)

	if err != nil {
		return nil, err
	}

	return datatypes.JSON(encoded), nil
}

// ReminderDays decodes an entry's stored reminder schedule.
func ReminderDays(entry *models.StatuteOfLimitations) []int {
	var days []int

	if err := json.Unmarshal(entry.ReminderDays, &days); err != nil {
		return nil
	}

	return days
}

func Create(matterID uint, description string, expirationDate time.Time, statuteReference string, reminderDays []int) (*models.StatuteOfLimitations, error) {
	description = strings.TrimSpace(description)

	if description == "" {
		return nil, apperrors.Validation("SOL description is required")
	}

	if expirationDate.IsZero() {
		return nil, apperrors.Validation("SOL expiration date is required")
	}

	var matter models.Matter

	if err := db.DB.First(&matter, matterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("matter", matterID)
		}
		return nil, err
	}

	encoded, err := encodeReminderDays(reminderDays)

	if err != nil {
		return nil, err
	}

	entry := models.StatuteOfLimitations{
		MatterID:         matter.ID,
		Description:      description,
		ExpirationDate:   calendar.Normalize(expirationDate),
		StatuteReference: statuteReference,
		ReminderDays:     encoded,
		IsActive:         true,
	}

	if err := db.DB.Create(&entry).Error; err != nil {
		return nil, err
	}

	return &entry, nil
}

func Update(solID uint, patch Patch) (*models.StatuteOfLimitations, error) {
	var entry models.StatuteOfLimitations

	if err := db.DB.First(&entry, solID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("SOL entry", solID)
		}
		return nil, err
	}

	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, apperrors.Validation("SOL description is required")
		}
		entry.Description = description
	}

	if patch.ExpirationDate != nil {
		if patch.ExpirationDate.IsZero() {
			return nil, apperrors.Validation("SOL expiration date is required")
		}
		entry.ExpirationDate = calendar.Normalize(*patch.ExpirationDate)
	}

	if patch.StatuteReference != nil {
		entry.StatuteReference = *patch.StatuteReference
	}

	if patch.ReminderDays != nil {
		encoded, err := encodeReminderDays(patch.ReminderDays)
		if err != nil {
			return nil, err
		}
		entry.ReminderDays = encoded
	}

	if patch.IsActive != nil {
		entry.IsActive = *patch.IsActive
	}

	if err := db.DB.Save(&entry).Error; err != nil {
		return nil, err
	}

	return &entry, nil
}

func Delete(solID uint) error {
	var entry models.StatuteOfLimitations

	if err := db.DB.First(&entry, solID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("SOL entry", solID)
		}
		return err
	}

	return db.DB.Delete(&entry).Error
}

// ListForMatter returns a matter's SOL entries, soonest expiration first.
func ListForMatter(matterID uint) ([]models.StatuteOfLimitations, error) {
	var entries []models.StatuteOfLimitations

	err := db.DB.Where("matter_id = ?", matterID).
		Order("expiration_date ASC, id ASC").
		Find(&entries).Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Warnings returns every active SOL entry across the owner's matters whose
// days remaining is within daysAhead, soonest first. Pure query; nothing is
// persisted.
func Warnings(ownerID uint, daysAhead int, today time.Time) ([]Warning, error) {
	var entries []models.StatuteOfLimitations

	err := db.DB.
		Joins("JOIN matters ON matters.id = statute_of_limitations.matter_id").
		Where("matters.owner_id = ?", ownerID).
		Where("matters.deleted_at IS NULL").
		Where("statute_of_limitations.is_active = ?", true).
		Order("statute_of_limitations.expiration_date ASC").
		Find(&entries).Error

	if err != nil {
		return nil, err
	}

	warnings := make([]Warning, 0, len(entries))

	for _, entry := range entries {
		days := calendar.DaysUntil(entry.ExpirationDate, today)
		if days > daysAhead {
			continue
		}

		warnings = append(warnings, Warning{
			Entry:         entry,
			DaysRemaining: days,
			Urgency:       calendar.Urgency(days),
		})
	}

	return warnings, nil
}
