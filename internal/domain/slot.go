package domain

import (
	"time"

	"github.com/m04kA/SMC-EmbedBooking/pkg/types"
)

// TimeSlot is a bookable window derived from an availability rule for one date.
// It is never persisted.
type TimeSlot struct {
	Start    types.TimeString
	End      types.TimeString
	StartsAt time.Time // абсолютное время начала
	EndsAt   time.Time
	IsBooked bool
}

// IsAvailable returns true if the slot can still be booked
func (s *TimeSlot) IsAvailable() bool {
	return !s.IsBooked
}
