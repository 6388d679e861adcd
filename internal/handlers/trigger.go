package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lexcal-dev/lexcal/db"
	"github.com/lexcal-dev/lexcal/internal/calendar"
	"github.com/lexcal-dev/lexcal/internal/deadlines"
	"github.com/lexcal-dev/lexcal/internal/models"
	"github.com/lexcal-dev/lexcal/internal/utils"
	"gorm.io/gorm"
)

type ApplyRuleSetRequest struct {
	RuleSetID uint `json:"rule_set_id" binding:"required"`
}

type SetTriggerRequest struct {
	TriggerName string `json:"trigger_name" binding:"required"`
	TriggerDate string `json:"trigger_date" binding:"required"` // YYYY-MM-DD
	Notes       string `json:"notes"`
}

type TriggerResponse struct {
	ID          uint   `json:"id"`
	MatterID    uint   `json:"matter_id"`
	TriggerName string `json:"trigger_name"`
	TriggerDate string `json:"trigger_date"`
	Notes       string `json:"notes"`
	CreatedByID uint   `json:"created_by_id"`
}

func triggerResponse(trigger models.TriggerEvent) TriggerResponse {
	return TriggerResponse{
		ID:          trigger.ID,
		MatterID:    trigger.MatterID,
		TriggerName: trigger.TriggerName,
		TriggerDate: calendar.FormatDate(trigger.TriggerDate),
		Notes:       trigger.Notes,
		CreatedByID: trigger.CreatedByID,
	}
}

func ApplyRuleSet(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	matterID, err := utils.GetMatterID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body ApplyRuleSetRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	matter, ok := findOwnedMatter(ctx, matterID, userID)

	if !ok {
		return
	}

	if err := deadlines.ApplyRuleSet(matter.ID, body.RuleSetID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Rule set applied", "matter_id": matter.ID, "rule_set_id": body.RuleSetID})
}

func SetTrigger(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	matterID, err := utils.GetMatterID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body SetTriggerRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	matter, ok := findOwnedMatter(ctx, matterID, userID)

	if !ok {
		return
	}

	triggerDate, err := calendar.ParseDate(body.TriggerDate)

	if err != nil {
		respondError(ctx, err)
		return
	}

	trigger, created, err := deadlines.SetTrigger(matter.ID, body.TriggerName, triggerDate, body.Notes, userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastDocketRefresh(strconv.FormatUint(uint64(matter.ID), 10))

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	ctx.JSON(status, triggerResponse(*trigger))
}

func ListTriggers(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	matterID, err := utils.GetMatterID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matter, ok := findOwnedMatter(ctx, matterID, userID)

	if !ok {
		return
	}

	triggers, err := deadlines.ListTriggers(matter.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]TriggerResponse, 0, len(triggers))

	for _, trigger := range triggers {
		response = append(response, triggerResponse(trigger))
	}

	ctx.JSON(http.StatusOK, response)
}

func DeleteTrigger(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	triggerID, err := utils.GetParamID(ctx, "trigger_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Verify ownership through the matter before cascading.
	var trigger models.TriggerEvent

	if err := db.DB.Joins("JOIN matters ON matters.id = trigger_events.matter_id").
		Where("trigger_events.id = ? AND matters.owner_id = ?", triggerID, userID).
		First(&trigger).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Trigger not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve trigger"})
		}
		return
	}

	if err := deadlines.DeleteTrigger(trigger.ID); err != nil {
		respondError(ctx, err)
		return
	}

	BroadcastDocketRefresh(strconv.FormatUint(uint64(trigger.MatterID), 10))

	ctx.Status(http.StatusNoContent)
}
