package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Booking is a client's reservation of a single slot.
// Date and time are never changed after creation: a move is a cancel plus a new booking.
type Booking struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	BookingDate time.Time // календарная дата в часовом поясе тенанта
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      BookingStatus

	BookingType *string
	Attendees   int

	ClientName  string
	ClientEmail *string
	ClientPhone *string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking holds its slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanTransitionTo checks the status lifecycle:
// pending -> confirmed, pending -> cancelled, confirmed -> cancelled.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	default:
		return false
	}
}

// BookingsFilter фильтр для получения бронирований тенанта
type BookingsFilter struct {
	TenantID        uuid.UUID      // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые бронирования
	Limit           int
	Offset          int
}

// ActiveStatuses статусы, которые занимают слот
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
