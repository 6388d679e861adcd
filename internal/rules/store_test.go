package rules

import (
	"fmt"
	"strings"
	"testing"

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

func TestCreateRuleSetValidation(t *testing.T) {
	setupTestDB(t)

	if _, err := CreateRuleSet("", "California", ""); !apperrors.IsValidation(err) {
		t.Errorf("CreateRuleSet with empty name: error = %v, want ValidationError", err)
	}

	if _, err := CreateRuleSet("Superior Court Rules", "   ", ""); !apperrors.IsValidation(err) {
		t.Errorf("CreateRuleSet with empty jurisdiction: error = %v, want ValidationError", err)
	}

	ruleSet, err := CreateRuleSet("Superior Court Rules", "California", "Superior Court")
	if err != nil {
		t.Fatalf("CreateRuleSet() error = %v", err)
	}

	if !ruleSet.IsActive {
		t.Error("CreateRuleSet() should create active rule sets")
	}
}

func TestCreateRuleSetDuplicateNameAndJurisdiction(t *testing.T) {
	setupTestDB(t)

	if _, err := CreateRuleSet("Superior Court Rules", "California", "Superior Court"); err != nil {
		t.Fatalf("CreateRuleSet() error = %v", err)
	}

	if _, err := CreateRuleSet("Superior Court Rules", "California", "Superior Court"); !apperrors.IsConflict(err) {
		t.Errorf("Duplicate CreateRuleSet: error = %v, want ConflictError", err)
	}

	// Same name in another jurisdiction is a different rule set.
	if _, err := CreateRuleSet("Superior Court Rules", "Nevada", "District Court"); err != nil {
		t.Errorf("CreateRuleSet in another jurisdiction: error = %v", err)
	}
}

func TestAddRuleDefaultsAndValidation(t *testing.T) {
	setupTestDB(t)

	ruleSet, err := CreateRuleSet("Local Rules", "Nevada", "")
	if err != nil {
		t.Fatalf("CreateRuleSet() error = %v", err)
	}

	if _, err := AddRule(ruleSet.ID, RuleSpec{Name: "X", TriggerEvent: "t", OffsetType: "court_days"}); !apperrors.IsValidation(err) {
		t.Errorf("AddRule with bad offset type: error = %v, want ValidationError", err)
	}

	if _, err := AddRule(ruleSet.ID, RuleSpec{TriggerEvent: "t", OffsetType: types.OffsetCalendarDays}); !apperrors.IsValidation(err) {
		t.Errorf("AddRule with empty name: error = %v, want ValidationError", err)
	}

	if _, err := AddRule(999, RuleSpec{Name: "X", TriggerEvent: "t", OffsetType: types.OffsetCalendarDays}); !apperrors.IsNotFound(err) {
		t.Errorf("AddRule on missing rule set: error = %v, want NotFoundError", err)
	}

	rule, err := AddRule(ruleSet.ID, RuleSpec{
		Name:         "Answer Due",
		TriggerEvent: "complaint_served",
		OffsetDays:   21,
		OffsetType:   types.OffsetCalendarDays,
	})

	if err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}

	if rule.CreatesEventType != types.DefaultEventType {
		t.Errorf("AddRule() CreatesEventType = %q, want %q", rule.CreatesEventType, types.DefaultEventType)
	}
}

func TestUpdateRulePartial(t *testing.T) {
	setupTestDB(t)

	ruleSet, err := CreateRuleSet("Local Rules", "Nevada", "")
	if err != nil {
		t.Fatalf("CreateRuleSet() error = %v", err)
	}

	rule, err := AddRule(ruleSet.ID, RuleSpec{
		Name:         "Answer Due",
		TriggerEvent: "complaint_served",
		OffsetDays:   21,
		OffsetType:   types.OffsetCalendarDays,
		SortOrder:    10,
	})

	if err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}

	offset := 30
	updated, err := UpdateRule(rule.ID, RulePatch{OffsetDays: &offset})

	if err != nil {
		t.Fatalf("UpdateRule() error = %v", err)
	}

	if updated.OffsetDays != 30 {
		t.Errorf("UpdateRule() OffsetDays = %d, want 30", updated.OffsetDays)
	}

	// Untouched fields survive a partial patch.
	if updated.Name != "Answer Due" || updated.TriggerEvent != "complaint_served" || updated.SortOrder != 10 {
		t.Errorf("UpdateRule() mutated untouched fields: %+v", updated)
	}

	badType := "court_days"
	if _, err := UpdateRule(rule.ID, RulePatch{OffsetType: &badType}); !apperrors.IsValidation(err) {
		t.Errorf("UpdateRule with bad offset type: error = %v, want ValidationError", err)
	}

	if _, err := UpdateRule(999, RulePatch{}); !apperrors.IsNotFound(err) {
		t.Errorf("UpdateRule on missing rule: error = %v, want NotFoundError", err)
	}
}

func TestDeleteRule(t *testing.T) {
	setupTestDB(t)

	ruleSet, err := CreateRuleSet("Local Rules", "Nevada", "")
	if err != nil {
		t.Fatalf("CreateRuleSet() error = %v", err)
	}

	rule, err := AddRule(ruleSet.ID, RuleSpec{
		Name:         "Answer Due",
		TriggerEvent: "complaint_served",
		OffsetDays:   21,
		OffsetType:   types.OffsetCalendarDays,
	})

	if err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}

	if err := DeleteRule(rule.ID); err != nil {
		t.Fatalf("DeleteRule() error = %v", err)
	}

	if err := DeleteRule(rule.ID); !apperrors.IsNotFound(err) {
		t.Errorf("DeleteRule on deleted rule: error = %v, want NotFoundError", err)
	}
}

func TestSeedDefaultRuleSetIdempotent(t *testing.T) {
	setupTestDB(t)

	first, created, err := SeedDefaultRuleSet()
	if err != nil {
		t.Fatalf("SeedDefaultRuleSet() error = %v", err)
	}

	if !created {
		t.Error("First seed call should report created")
	}

	if len(first.Rules) != len(defaultRules) {
		t.Fatalf("Seed installed %d rules, want %d", len(first.Rules), len(defaultRules))
	}

	second, created, err := SeedDefaultRuleSet()
	if err != nil {
		t.Fatalf("Second SeedDefaultRuleSet() error = %v", err)
	}

	if created {
		t.Error("Second seed call should not report created")
	}

	if second.ID != first.ID {
		t.Errorf("Second seed returned rule set %d, want %d", second.ID, first.ID)
	}

	var ruleCount int64
	if err := db.DB.Model(&models.DeadlineRule{}).Where("rule_set_id = ?", first.ID).Count(&ruleCount).Error; err != nil {
		t.Fatalf("Count error = %v", err)
	}

	if int(ruleCount) != len(defaultRules) {
		t.Errorf("Rule count after double seed = %d, want %d", ruleCount, len(defaultRules))
	}
}

func TestDeactivateRuleSet(t *testing.T) {
	setupTestDB(t)

	ruleSet, err := CreateRuleSet("Local Rules", "Nevada", "")
	if err != nil {
		t.Fatalf("CreateRuleSet() error = %v", err)
	}

	deactivated, err := DeactivateRuleSet(ruleSet.ID)
	if err != nil {
		t.Fatalf("DeactivateRuleSet() error = %v", err)
	}

	if deactivated.IsActive {
		t.Error("DeactivateRuleSet() left rule set active")
	}

	if _, err := DeactivateRuleSet(999); !apperrors.IsNotFound(err) {
		t.Errorf("DeactivateRuleSet on missing set: error = %v, want NotFoundError", err)
	}
}
