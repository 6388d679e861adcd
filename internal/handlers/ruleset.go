package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lexcal-dev/lexcal/internal/apperrors"
	"github.com/lexcal-dev/lexcal/internal/models"
	"github.com/lexcal-dev/lexcal/internal/rules"
	"github.com/lexcal-dev/lexcal/internal/utils"
)

type CreateRuleSetRequest struct {
	Name         string `json:"name" binding:"required"`
	Jurisdiction string `json:"jurisdiction" binding:"required"`
	CourtType    string `json:"court_type"`
}

type CreateRuleRequest struct {
	Name             string `json:"name" binding:"required"`
	TriggerEvent     string `json:"trigger_event" binding:"required"`
	OffsetDays       int    `json:"offset_days"`
	OffsetType       string `json:"offset_type" binding:"required"`
	CreatesEventType string `json:"creates_event_type"`
	Description      string `json:"description"`
	SortOrder        int    `json:"sort_order"`
}

type UpdateRuleRequest struct {
	Name             *string `json:"name"`
	TriggerEvent     *string `json:"trigger_event"`
	OffsetDays       *int    `json:"offset_days"`
	OffsetType       *string `json:"offset_type"`
	CreatesEventType *string `json:"creates_event_type"`
	Description      *string `json:"description"`
	SortOrder        *int    `json:"sort_order"`
}

type RuleSetResponse struct {
	ID           uint           `json:"id"`
	Name         string         `json:"name"`
	Jurisdiction string         `json:"jurisdiction"`
	CourtType    string         `json:"court_type"`
	IsActive     bool           `json:"is_active"`
	Rules        []RuleResponse `json:"rules"`
}

type RuleResponse struct {
	ID               uint   `json:"id"`
	RuleSetID        uint   `json:"rule_set_id"`
	Name             string `json:"name"`
	TriggerEvent     string `json:"trigger_event"`
	OffsetDays       int    `json:"offset_days"`
	OffsetType       string `json:"offset_type"`
	CreatesEventType string `json:"creates_event_type"`
	Description      string `json:"description"`
	SortOrder        int    `json:"sort_order"`
}

func ruleResponse(rule models.DeadlineRule) RuleResponse {
	return RuleResponse{
		ID:               rule.ID,
		RuleSetID:        rule.RuleSetID,
		Name:             rule.Name,
		TriggerEvent:     rule.TriggerEvent,
		OffsetDays:       rule.OffsetDays,
		OffsetType:       rule.OffsetType,
		CreatesEventType: rule.CreatesEventType,
		Description:      rule.Description,
		SortOrder:        rule.SortOrder,
	}
}

func ruleSetResponse(ruleSet models.CourtRuleSet) RuleSetResponse {
	ruleResponses := make([]RuleResponse, 0, len(ruleSet.Rules))

	for _, rule := range ruleSet.Rules {
		ruleResponses = append(ruleResponses, ruleResponse(rule))
	}

	return RuleSetResponse{
		ID:           ruleSet.ID,
		Name:         ruleSet.Name,
		Jurisdiction: ruleSet.Jurisdiction,
		CourtType:    ruleSet.CourtType,
		IsActive:     ruleSet.IsActive,
		Rules:        ruleResponses,
	}
}

// respondError maps the engine's error taxonomy to an HTTP response.
func respondError(ctx *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)

	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		ctx.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(status, gin.H{"error": err.Error()})
}

func CreateRuleSet(ctx *gin.Context) {
	var body CreateRuleSetRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ruleSet, err := rules.CreateRuleSet(body.Name, body.Jurisdiction, body.CourtType)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, ruleSetResponse(*ruleSet))
}

func ListRuleSets(ctx *gin.Context) {
	ruleSets, err := rules.ListRuleSets()

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]RuleSetResponse, 0, len(ruleSets))

	for _, ruleSet := range ruleSets {
		response = append(response, ruleSetResponse(ruleSet))
	}

	ctx.JSON(http.StatusOK, response)
}

func SeedDefaultRuleSet(ctx *gin.Context) {
	ruleSet, created, err := rules.SeedDefaultRuleSet()

	if err != nil {
		respondError(ctx, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	ctx.JSON(status, gin.H{
		"created":  created,
		"rule_set": ruleSetResponse(*ruleSet),
	})
}

func DeactivateRuleSet(ctx *gin.Context) {
	ruleSetID, err := utils.GetParamID(ctx, "ruleset_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ruleSet, err := rules.DeactivateRuleSet(ruleSetID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, ruleSetResponse(*ruleSet))
}

func CreateRule(ctx *gin.Context) {
	ruleSetID, err := utils.GetParamID(ctx, "ruleset_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body CreateRuleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	rule, err := rules.AddRule(ruleSetID, rules.RuleSpec{
		Name:             body.Name,
		TriggerEvent:     body.TriggerEvent,
		OffsetDays:       body.OffsetDays,
		OffsetType:       body.OffsetType,
		CreatesEventType: body.CreatesEventType,
		Description:      body.Description,
		SortOrder:        body.SortOrder,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, ruleResponse(*rule))
}

func UpdateRule(ctx *gin.Context) {
	ruleID, err := utils.GetParamID(ctx, "rule_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateRuleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	rule, err := rules.UpdateRule(ruleID, rules.RulePatch{
		Name:             body.Name,
		TriggerEvent:     body.TriggerEvent,
		OffsetDays:       body.OffsetDays,
		OffsetType:       body.OffsetType,
		CreatesEventType: body.CreatesEventType,
		Description:      body.Description,
		SortOrder:        body.SortOrder,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, ruleResponse(*rule))
}

func DeleteRule(ctx *gin.Context) {
	ruleID, err := utils.GetParamID(ctx, "rule_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := rules.DeleteRule(ruleID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
