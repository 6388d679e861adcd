package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lexcal-dev/lexcal/internal/calendar"
	"github.com/lexcal-dev/lexcal/internal/deadlines"
	"github.com/lexcal-dev/lexcal/internal/utils"
)

type DeadlineResponse struct {
	ID            uint   `json:"id"`
	MatterID      uint   `json:"matter_id"`
	TriggerID     uint   `json:"trigger_id"`
	RuleID        uint   `json:"rule_id"`
	ComputedDate  string `json:"computed_date"`
	RuleName      string `json:"rule_name"`
	EventTitle    string `json:"event_title"`
	EventType     string `json:"event_type"`
	DueStatus     string `json:"due_status"`
	DaysRemaining int    `json:"days_remaining"`
	Urgency       string `json:"urgency"`
}

func deadlineResponse(view deadlines.DeadlineView) DeadlineResponse {
	return DeadlineResponse{
		ID:            view.Deadline.ID,
		MatterID:      view.Deadline.MatterID,
		TriggerID:     view.Deadline.TriggerID,
		RuleID:        view.Deadline.RuleID,
		ComputedDate:  calendar.FormatDate(view.Deadline.ComputedDate),
		RuleName:      view.Deadline.RuleName,
		EventTitle:    view.Deadline.EventTitle,
		EventType:     view.Deadline.EventType,
		DueStatus:     view.DueStatus,
		DaysRemaining: view.DaysRemaining,
		Urgency:       view.Urgency,
	}
}

func ListDeadlines(ctx *gin.Context) {
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
		respondError(ctx, err)
		return
	}

	response := make([]DeadlineResponse, 0, len(views))

	for _, view := range views {
		response = append(response, deadlineResponse(view))
	}

	ctx.JSON(http.StatusOK, response)
}
