package calendar

import "github.com/lexcal-dev/lexcal/internal/types"

// Urgency buckets days-remaining into the severity tiers the UI colors by.
// Boundaries are exclusive: 30 days out is warning, not critical.
func Urgency(daysRemaining int) string {
	switch {
	case daysRemaining < 30:
		return types.UrgencyCritical
	case daysRemaining < 90:
		return types.UrgencyWarning
	case daysRemaining < 180:
		return types.UrgencyCaution
	default:
		return types.UrgencyNormal
	}
}
