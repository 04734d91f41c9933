package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
	createBooking "github.com/m04kA/SMC-EmbedBooking/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Date        string  `json:"date" validate:"required"`      // "2026-10-19"
	StartTime   string  `json:"startTime" validate:"required"` // "09:00"
	BookingType *string `json:"bookingType,omitempty" validate:"omitempty,max=64"`
	Attendees   int     `json:"attendees,omitempty" validate:"min=0,max=100"`
	ClientName  string  `json:"clientName" validate:"required,max=200"`
	ClientEmail *string `json:"clientEmail,omitempty" validate:"omitempty,email"`
	ClientPhone *string `json:"clientPhone,omitempty" validate:"omitempty,max=32"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenantId"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Status      string    `json:"status"`
	BookingType *string   `json:"bookingType,omitempty"`
	Attendees   int       `json:"attendees"`
	ClientName  string    `json:"clientName"`
	CreatedAt   string    `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(tenantID uuid.UUID) *createBooking.Request {
	return &createBooking.Request{
		TenantID:    tenantID,
		Date:        r.Date,
		StartTime:   r.StartTime,
		BookingType: r.BookingType,
		Attendees:   r.Attendees,
		ClientName:  r.ClientName,
		ClientEmail: r.ClientEmail,
		ClientPhone: r.ClientPhone,
		Notes:       r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response.
// Контакты клиента обратно в публичный виджет не отдаются.
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	b := resp.Booking
	return &BookingResponse{
		ID:          b.ID,
		TenantID:    b.TenantID,
		Date:        timeutil.FormatDate(b.BookingDate),
		StartTime:   b.StartTime.String(),
		EndTime:     b.EndTime.String(),
		Status:      string(b.Status),
		BookingType: b.BookingType,
		Attendees:   b.Attendees,
		ClientName:  b.ClientName,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
