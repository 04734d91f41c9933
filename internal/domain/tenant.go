package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is a business account owning availability rules and an embeddable widget
type Tenant struct {
	ID        uuid.UUID
	Name      string
	Settings  TenantSettings
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TenantSettings booking policy of a tenant
type TenantSettings struct {
	Timezone              string   // IANA, пусто = UTC
	MinBookingNoticeHours int      // минимальное время до начала слота
	AllowedBookingTypes   []string // пусто = любой тип
	MaxAttendees          int
}

// AllowsBookingType checks the allow-list. An empty list allows anything,
// including a booking without a type.
func (s *TenantSettings) AllowsBookingType(bookingType *string) bool {
	if len(s.AllowedBookingTypes) == 0 {
		return true
	}
	if bookingType == nil {
		return false
	}
	for _, t := range s.AllowedBookingTypes {
		if t == *bookingType {
			return true
		}
	}
	return false
}

// DefaultTenantSettings settings applied to a freshly created tenant
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		Timezone:              DefaultTimezone,
		MinBookingNoticeHours: DefaultMinBookingNoticeHours,
		MaxAttendees:          DefaultMaxAttendees,
	}
}
