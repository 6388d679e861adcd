package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lexcal-dev/lexcal/db"
	"github.com/lexcal-dev/lexcal/internal/calendar"
	"github.com/lexcal-dev/lexcal/internal/models"
	"github.com/lexcal-dev/lexcal/internal/sol"
	"github.com/lexcal-dev/lexcal/internal/utils"
	"gorm.io/gorm"
)

type CreateSOLRequest struct {
	Description      string `json:"description" binding:"required"`
	ExpirationDate   string `json:"expiration_date" binding:"required"` // YYYY-MM-DD
	StatuteReference string `json:"statute_reference"`
	ReminderDays     []int  `json:"reminder_days"`
}

type UpdateSOLRequest struct {
	Description      *string `json:"description"`
	ExpirationDate   *string `json:"expiration_date"`
	StatuteReference *string `json:"statute_reference"`
	ReminderDays     []int   `json:"reminder_days"`
	IsActive         *bool   `json:"is_active"`
}

type SOLResponse struct {
	ID               uint   `json:"id"`
	MatterID         uint   `json:"matter_id"`
	Description      string `json:"description"`
	ExpirationDate   string `json:"expiration_date"`
	StatuteReference string `json:"statute_reference"`
	ReminderDays     []int  `json:"reminder_days"`
	IsActive         bool   `json:"is_active"`
	DaysRemaining    int    `json:"days_remaining"`
	Urgency          string `json:"urgency"`
}

func solResponse(entry models.StatuteOfLimitations, today time.Time) SOLResponse {
	days := calendar.DaysUntil(entry.ExpirationDate, today)

	return SOLResponse{
		ID:               entry.ID,
		MatterID:         entry.MatterID,
		Description:      entry.Description,
		ExpirationDate:   calendar.FormatDate(entry.ExpirationDate),
		StatuteReference: entry.StatuteReference,
		ReminderDays:     sol.ReminderDays(&entry),
		IsActive:         entry.IsActive,
		DaysRemaining:    days,
		Urgency:          calendar.Urgency(days),
	}
}

// findOwnedSOL loads an SOL entry scoped to the owner of its matter.
func findOwnedSOL(ctx *gin.Context, solID, userID uint) (models.StatuteOfLimitations, bool) {
	var entry models.StatuteOfLimitations

	if err := db.DB.Joins("JOIN matters ON matters.id = statute_of_limitations.matter_id").
		Where("statute_of_limitations.id = ? AND matters.owner_id = ?", solID, userID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "SOL entry not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve SOL entry"})
		}
		return models.StatuteOfLimitations{}, false
	}

	return entry, true
}

func CreateSOL(ctx *gin.Context) {
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

	var body CreateSOLRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	matter, ok := findOwnedMatter(ctx, matterID, userID)

	if !ok {
		return
	}

	expirationDate, err := calendar.ParseDate(body.ExpirationDate)

	if err != nil {
		respondError(ctx, err)
		return
	}

	entry, err := sol.Create(matter.ID, body.Description, expirationDate, body.StatuteReference, body.ReminderDays)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, solResponse(*entry, calendar.Normalize(time.Now())))
}

func ListSOL(ctx *gin.Context) {
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

	entries, err := sol.ListForMatter(matter.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	today := calendar.Normalize(time.Now())
	response := make([]SOLResponse, 0, len(entries))

	for _, entry := range entries {
		response = append(response, solResponse(entry, today))
	}

	ctx.JSON(http.StatusOK, response)
}

func UpdateSOL(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	solID, err := utils.GetParamID(ctx, "sol_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateSOLRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	entry, ok := findOwnedSOL(ctx, solID, userID)

	if !ok {
		return
	}

	patch := sol.Patch{
		Description:      body.Description,
		StatuteReference: body.StatuteReference,
		ReminderDays:     body.ReminderDays,
		IsActive:         body.IsActive,
	}

	if body.ExpirationDate != nil {
		expirationDate, err := calendar.ParseDate(*body.ExpirationDate)
		if err != nil {
			respondError(ctx, err)
			return
		}
		patch.ExpirationDate = &expirationDate
	}

	updated, err := sol.Update(entry.ID, patch)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, solResponse(*updated, calendar.Normalize(time.Now())))
}

func DeleteSOL(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	solID, err := utils.GetParamID(ctx, "sol_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, ok := findOwnedSOL(ctx, solID, userID)

	if !ok {
		return
	}

	if err := sol.Delete(entry.ID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func GetSOLWarnings(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	daysAhead := 90

	if raw := ctx.Query("days_ahead"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days_ahead"})
			return
		}
		daysAhead = parsed
	}

	today := calendar.Normalize(time.Now())

	warnings, err := sol.Warnings(userID, daysAhead, today)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]SOLResponse, 0, len(warnings))

	for _, warning := range warnings {
		response = append(response, solResponse(warning.Entry, today))
	}

	ctx.JSON(http.StatusOK, response)
}
