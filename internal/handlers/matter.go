package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lexcal-dev/lexcal/db"
	"github.com/lexcal-dev/lexcal/internal/calendar"
	"github.com/lexcal-dev/lexcal/internal/deadlines"
	"github.com/lexcal-dev/lexcal/internal/models"
	"github.com/lexcal-dev/lexcal/internal/sol"
	"github.com/lexcal-dev/lexcal/internal/types"
	"github.com/lexcal-dev/lexcal/internal/utils"
	"gorm.io/gorm"
)

type CreateMatterRequest struct {
	Name       string `json:"name" binding:"required"`
	ClientName string `json:"client_name"`
	CaseNumber string `json:"case_number"`
}

type UpdateMatterRequest struct {
	Name       string `json:"name" binding:"required"`
	ClientName string `json:"client_name"`
	CaseNumber string `json:"case_number"`
	Status     string `json:"status"`
}

type MatterResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	ClientName string `json:"client_name"`
	CaseNumber string `json:"case_number"`
	Status     string `json:"status"`
	OwnerID    uint   `json:"owner_id"`
}

type DashboardResponse struct {
	Matter            MatterResponse     `json:"matter"`
	DeadlinesSummary  DeadlinesSummary   `json:"deadlines_summary"`
	UpcomingDeadlines []DeadlineResponse `json:"upcoming_deadlines"`
	SOLEntries        []SOLResponse      `json:"sol_entries"`
}

type DeadlinesSummary struct {
	Total    int `json:"total"`
	PastDue  int `json:"past_due"`
	DueToday int `json:"due_today"`
	Upcoming int `json:"upcoming"`
}

func matterResponse(matter models.Matter) MatterResponse {
	return MatterResponse{
		ID:         matter.ID,
		Name:       matter.Name,
		ClientName: matter.ClientName,
		CaseNumber: matter.CaseNumber,
		Status:     matter.Status,
		OwnerID:    matter.OwnerID,
	}
}

// findOwnedMatter loads a matter scoped to its owner, writing the error
// response itself when the lookup fails.
func findOwnedMatter(ctx *gin.Context, matterID, userID uint) (models.Matter, bool) {
	var matter models.Matter

	if err := db.DB.Where("id = ? AND owner_id = ?", matterID, userID).First(&matter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Matter not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve matter"})
		}
		return models.Matter{}, false
	}

	return matter, true
}

func CreateMatter(ctx *gin.Context) {
	var body CreateMatterRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	matter := models.Matter{
		Name:       body.Name,
		ClientName: body.ClientName,
		CaseNumber: body.CaseNumber,
		Status:     "open",
		OwnerID:    userID,
	}

	if err := db.DB.Create(&matter).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create matter"})
		return
	}

	ctx.JSON(http.StatusCreated, matterResponse(matter))
}

func ListMatters(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var matters []models.Matter

	if err := db.DB.Where("owner_id = ?", userID).Find(&matters).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve matters"})
		return
	}

	response := make([]MatterResponse, 0, len(matters))

	for _, matter := range matters {
		response = append(response, matterResponse(matter))
	}

	ctx.JSON(http.StatusOK, response)
}

func UpdateMatter(ctx *gin.Context) {
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

	var body UpdateMatterRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	matter, ok := findOwnedMatter(ctx, matterID, userID)

	if !ok {
		return
	}

	matter.Name = body.Name
	matter.ClientName = body.ClientName
	matter.CaseNumber = body.CaseNumber

	if body.Status != "" {
		matter.Status = body.Status
	}

	if err := db.DB.Save(&matter).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update matter"})
		return
	}

	ctx.JSON(http.StatusOK, matterResponse(matter))
}

func DeleteMatter(ctx *gin.Context) {
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

	if err := db.DB.Delete(&matter).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete matter"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func GetDashboard(ctx *gin.Context) {
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

	today := calendar.Normalize(time.Now())

	views, err := deadlines.ListDeadlines(matter.ID, today)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deadlines"})
		return
	}

	var summary DeadlinesSummary
	upcoming := make([]DeadlineResponse, 0, len(views))

	for _, view := range views {
		summary.Total++

		switch view.DueStatus {
		case types.DueStatusPastDue:
			summary.PastDue++
		case types.DueStatusDueToday:
			summary.DueToday++
		default:
			summary.Upcoming++
		}

		if view.DaysRemaining >= 0 {
			upcoming = append(upcoming, deadlineResponse(view))
		}
	}

	entries, err := sol.ListForMatter(matter.ID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve SOL entries"})
		return
	}

	solResponses := make([]SOLResponse, 0, len(entries))

	for _, entry := range entries {
		solResponses = append(solResponses, solResponse(entry, today))
	}

	ctx.JSON(http.StatusOK, DashboardResponse{
		Matter:            matterResponse(matter),
		DeadlinesSummary:  summary,
		UpcomingDeadlines: upcoming,
		SOLEntries:        solResponses,
	})
}
