package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	getAvailableSlots "github.com/m04kA/SMC-EmbedBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	TenantID uuid.UUID       `json:"tenantId"`
	Date     string          `json:"date"`
	Timezone string          `json:"timezone"`
	Slots    []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота. startTime/endTime в часовом поясе тенанта,
// startsAt/endsAt - абсолютные моменты в UTC.
type AvailableSlot struct {
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	IsBooked  bool      `json:"isBooked"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.Start.String(),
			EndTime:   slot.End.String(),
			StartsAt:  slot.StartsAt,
			EndsAt:    slot.EndsAt,
			IsBooked:  slot.IsBooked,
		}
	}

	return &AvailableSlotsResponse{
		TenantID: resp.TenantID,
		Date:     resp.Date,
		Timezone: resp.Timezone,
		Slots:    slots,
	}
}
