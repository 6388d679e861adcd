package calendar

import (
	"testing"

	"github.com/lexcal-dev/lexcal/internal/types"
)

func TestUrgencyBoundaries(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{29, types.UrgencyCritical},
		{30, types.UrgencyWarning},
		{31, types.UrgencyWarning},
		{89, types.UrgencyWarning},
		{90, types.UrgencyCaution},
		{91, types.UrgencyCaution},
		{179, types.UrgencyCaution},
		{180, types.UrgencyNormal},
		{181, types.UrgencyNormal},
		{0, types.UrgencyCritical},
		{-10, types.UrgencyCritical},
	}

	for _, tt := range tests {
		if got := Urgency(tt.days); got != tt.want {
			t.Errorf("Urgency(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}
