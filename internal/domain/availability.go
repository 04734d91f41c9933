package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/pkg/types"
)

// AvailabilityRule is a recurring weekly window in tenant-local wall-clock time.
// DayOfWeek uses Sunday = 0.
type AvailabilityRule struct {
	ID        int64
	TenantID  uuid.UUID
	DayOfWeek int
	StartTime types.TimeString
	EndTime   types.TimeString
	CreatedAt time.Time
}

// Overlaps reports whether two rules on the same weekday share any time.
// Intervals are half-open, so back-to-back windows do not overlap.
func (r *AvailabilityRule) Overlaps(other *AvailabilityRule) bool {
	if r.DayOfWeek != other.DayOfWeek {
		return false
	}
	return r.StartTime.IsBefore(other.EndTime) && other.StartTime.IsBefore(r.EndTime)
}

// HasValidWindow checks formats and start < end
func (r *AvailabilityRule) HasValidWindow() bool {
	return r.StartTime.Validate() == nil &&
		r.EndTime.Validate() == nil &&
		r.StartTime.IsBefore(r.EndTime)
}

// IsValidDayOfWeek checks the 0..6 range
func IsValidDayOfWeek(d int) bool {
	return d >= 0 && d <= 6
}
