package sol

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lexcal-dev/lexcal/db"
	"github.com/lexcal-dev/lexcal/internal/apperrors"
	"github.com/lexcal-dev/lexcal/internal/models"
	"github.com/lexcal-dev/lexcal/internal/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})

	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	db.DB = gdb

	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
}

func newMatter(t *testing.T) (models.User, models.Matter) {
	t.Helper()

	user := models.User{Name: "Test Attorney", Email: "attorney@example.com", PasswordHash: "x"}

	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	matter := models.Matter{Name: "Smith v. Jones", Status: "open", OwnerID: user.ID}

	if err := db.DB.Create(&matter).Error; err != nil {
		t.Fatalf("Failed to create matter: %v", err)
	}

	return user, matter
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	setupTestDB(t)

	_, matter := newMatter(t)

	if _, err := Create(matter.ID, "  ", date(2026, time.January, 1), "", nil); !apperrors.IsValidation(err) {
		t.Errorf("Create with empty description: error = %v, want ValidationError", err)
	}

	if _, err := Create(matter.ID, "Personal injury SOL", time.Time{}, "", nil); !apperrors.IsValidation(err) {
		t.Errorf("Create with zero expiration: error = %v, want ValidationError", err)
	}

	if _, err := Create(999, "Personal injury SOL", date(2026, time.January, 1), "", nil); !apperrors.IsNotFound(err) {
		t.Errorf("Create on missing matter: error = %v, want NotFoundError", err)
	}

	if _, err := Create(matter.ID, "Personal injury SOL", date(2026, time.January, 1), "", []int{30, -1}); !apperrors.IsValidation(err) {
		t.Errorf("Create with non-positive reminder: error = %v, want ValidationError", err)
	}

	entry, err := Create(matter.ID, "Personal injury SOL", date(2026, time.January, 1), "CCP 335.1", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got := ReminderDays(entry); !reflect.DeepEqual(got, types.DefaultReminderDays) {
		t.Errorf("ReminderDays = %v, want %v", got, types.DefaultReminderDays)
	}

	if !entry.IsActive {
		t.Error("Create() should produce an active entry")
	}
}

func TestReminderDaysSortedAndDeduplicated(t *testing.T) {
	setupTestDB(t)

	_, matter := newMatter(t)

	entry, err := Create(matter.ID, "Contract SOL", date(2027, time.June, 1), "", []int{7, 90, 7, 30})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got, want := ReminderDays(entry), []int{90, 30, 7}; !reflect.DeepEqual(got, want) {
		t.Errorf("ReminderDays = %v, want %v", got, want)
	}
}

func TestUpdatePartial(t *testing.T) {
	setupTestDB(t)

	_, matter := newMatter(t)

	entry, err := Create(matter.ID, "Contract SOL", date(2027, time.June, 1), "", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newDate := date(2027, time.September, 1)
	inactive := false

	updated, err := Update(entry.ID, Patch{ExpirationDate: &newDate, IsActive: &inactive})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if !updated.ExpirationDate.Equal(newDate) {
		t.Errorf("Update() ExpirationDate = %v, want %v", updated.ExpirationDate, newDate)
	}

	if updated.IsActive {
		t.Error("Update() did not deactivate entry")
	}

	if updated.Description != "Contract SOL" {
		t.Errorf("Update() mutated untouched description: %q", updated.Description)
	}

	if _, err := Update(999, Patch{}); !apperrors.IsNotFound(err) {
		t.Errorf("Update on missing entry: error = %v, want NotFoundError", err)
	}
}

func TestDelete(t *testing.T) {
	setupTestDB(t)

	_, matter := newMatter(t)

	entry, err := Create(matter.ID, "Contract SOL", date(2027, time.June, 1), "", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := Delete(entry.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if err := Delete(entry.ID); !apperrors.IsNotFound(err) {
		t.Errorf("Delete on deleted entry: error = %v, want NotFoundError", err)
	}
}

func TestWarningsFilterAndAnnotation(t *testing.T) {
	setupTestDB(t)

	user, matter := newMatter(t)
	today := date(2024, time.June, 1)

	// 29, 30, and 120 days out, plus one inactive at 5 days out.
	critical, err := Create(matter.ID, "Critical SOL", date(2024, time.June, 30), "", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	boundary, err := Create(matter.ID, "Boundary SOL", date(2024, time.July, 1), "", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := Create(matter.ID, "Distant SOL", date(2024, time.September, 29), "", nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	inactiveEntry, err := Create(matter.ID, "Inactive SOL", date(2024, time.June, 6), "", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	off := false
	if _, err := Update(inactiveEntry.ID, Patch{IsActive: &off}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	warnings, err := Warnings(user.ID, 90, today)
	if err != nil {
		t.Fatalf("Warnings() error = %v", err)
	}

	if len(warnings) != 2 {
		t.Fatalf("Warnings() returned %d entries, want 2", len(warnings))
	}

	// Soonest expiration first.
	if warnings[0].Entry.ID != critical.ID || warnings[1].Entry.ID != boundary.ID {
		t.Errorf("Warnings() order = [%d %d], want [%d %d]",
			warnings[0].Entry.ID, warnings[1].Entry.ID, critical.ID, boundary.ID)
	}

	if warnings[0].DaysRemaining != 29 {
		t.Errorf("DaysRemaining = %d, want 29", warnings[0].DaysRemaining)
	}

	if warnings[0].Urgency != types.UrgencyCritical {
		t.Errorf("Urgency at 29 days = %q, want %q", warnings[0].Urgency, types.UrgencyCritical)
	}

	if warnings[1].DaysRemaining != 30 {
		t.Errorf("DaysRemaining = %d, want 30", warnings[1].DaysRemaining)
	}

	// 30 days out is warning, not critical: the boundary is exclusive.
	if warnings[1].Urgency != types.UrgencyWarning {
		t.Errorf("Urgency at 30 days = %q, want %q", warnings[1].Urgency, types.UrgencyWarning)
	}
}

func TestWarningsScopedToOwner(t *testing.T) {
	setupTestDB(t)

	user, matter := newMatter(t)

	other := models.User{Name: "Other Attorney", Email: "other@example.com", PasswordHash: "x"}

	if err := db.DB.Create(&other).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	otherMatter := models.Matter{Name: "Doe v. Roe", Status: "open", OwnerID: other.ID}

	if err := db.DB.Create(&otherMatter).Error; err != nil {
		t.Fatalf("Failed to create matter: %v", err)
	}

	today := date(2024, time.June, 1)

	if _, err := Create(matter.ID, "Mine", date(2024, time.June, 15), "", nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := Create(otherMatter.ID, "Theirs", date(2024, time.June, 15), "", nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	warnings, err := Warnings(user.ID, 90, today)
	if err != nil {
		t.Fatalf("Warnings() error = %v", err)
	}

	if len(warnings) != 1 || warnings[0].Entry.Description != "Mine" {
		t.Errorf("Warnings() leaked entries across owners: %+v", warnings)
	}
}
