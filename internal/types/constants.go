package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Offset types for deadline rules.
const (
	OffsetCalendarDays = "calendar_days"
	OffsetBusinessDays = "business_days"
)

// Due statuses for generated deadlines, relative to "today".
const (
	DueStatusPastDue  = "past_due"
	DueStatusDueToday = "due_today"
	DueStatusUpcoming = "upcoming"
)

// Urgency tiers shared by SOL and deadline views.
const (
	UrgencyCritical = "critical"
	UrgencyWarning  = "warning"
	UrgencyCaution  = "caution"
	UrgencyNormal   = "normal"
)

// DefaultEventType labels generated deadlines when a rule does not override it.
const DefaultEventType = "deadline"

// DefaultReminderDays is the reminder schedule applied to SOL entries created
// without one.
var DefaultReminderDays = []int{90, 60, 30, 7, 1}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
