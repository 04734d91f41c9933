package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPeriod возвращается при некорректном периоде выборки
	ErrInvalidPeriod = errors.New("invalid period")
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Request модели

// GetTenantBookingsRequest запрос на получение бронирований тенанта
type GetTenantBookingsRequest struct {
	AdminID          string
	TenantID         uuid.UUID
	From             *string // YYYY-MM-DD, включительно
	To               *string // YYYY-MM-DD, включительно
	Status           *string
	IncludeCancelled bool
	Limit            int
	Offset           int
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTenantBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		TenantID:        r.TenantID,
		IncludeInactive: r.IncludeCancelled,
		Limit:           r.Limit,
		Offset:          r.Offset,
	}

	if r.From != nil {
		from, err := timeutil.ParseDate(*r.From)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &from
	}
	if r.To != nil {
		to, err := timeutil.ParseDate(*r.To)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &to
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, fmt.Errorf("%w: to is before from", ErrInvalidPeriod)
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
		// явный фильтр по отменённым включает неактивные
		if status == domain.StatusCancelled {
			filter.IncludeInactive = true
		}
	}

	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return filter, nil
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	AdminID string `json:"-"`
	Status  string `json:"status" validate:"required,oneof=confirmed cancelled"`
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	AdminID            string  `json:"-"`
	CancellationReason *string `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenantId"`
	BookingDate string    `json:"bookingDate"` // "2026-10-19"
	StartTime   string    `json:"startTime"`   // "09:00:00"
	EndTime     string    `json:"endTime"`
	Status      string    `json:"status"`
	BookingType *string   `json:"bookingType,omitempty"`
	Attendees   int       `json:"attendees"`

	ClientName  string  `json:"clientName"`
	ClientEmail *string `json:"clientEmail,omitempty"`
	ClientPhone *string `json:"clientPhone,omitempty"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // RFC 3339

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		TenantID:           b.TenantID,
		BookingDate:        timeutil.FormatDate(b.BookingDate),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		Status:             string(b.Status),
		BookingType:        b.BookingType,
		Attendees:          b.Attendees,
		ClientName:         b.ClientName,
		ClientEmail:        b.ClientEmail,
		ClientPhone:        b.ClientPhone,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		formatted := b.CancelledAt.UTC().Format(time.RFC3339)
		resp.CancelledAt = &formatted
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, *FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: result}
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s, nil
}
