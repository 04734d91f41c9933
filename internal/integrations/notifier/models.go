package notifier

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
)

// Channel канал доставки уведомления клиенту
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Event тип события по бронированию
type Event string

const (
	EventBookingCreated   Event = "booking.created"
	EventBookingConfirmed Event = "booking.confirmed"
	EventBookingCancelled Event = "booking.cancelled"
)

// Notification сообщение для внешнего сервиса доставки email/SMS
type Notification struct {
	EventID   uuid.UUID `json:"eventId"`
	Event     Event     `json:"event"`
	BookingID uuid.UUID `json:"bookingId"`
	Channel   Channel   `json:"channel"`
	Recipient string    `json:"recipient"`
	Payload   Payload   `json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
}

// Payload данные бронирования для шаблона уведомления
type Payload struct {
	TenantID           uuid.UUID `json:"tenantId"`
	Date               string    `json:"date"`
	StartTime          string    `json:"startTime"`
	EndTime            string    `json:"endTime"`
	Status             string    `json:"status"`
	ClientName         string    `json:"clientName"`
	BookingType        *string   `json:"bookingType,omitempty"`
	Attendees          int       `json:"attendees"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
}

// Publisher транспорт уведомлений (Kafka, RabbitMQ или лог)
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счётчики доставки
type Metrics interface {
	IncNotification(channel, result string)
}

// Build одно уведомление на каждый указанный контакт клиента
func Build(event Event, b *domain.Booking, now time.Time) []Notification {
	payload := Payload{
		TenantID:           b.TenantID,
		Date:               timeutil.FormatDate(b.BookingDate),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		Status:             string(b.Status),
		ClientName:         b.ClientName,
		BookingType:        b.BookingType,
		Attendees:          b.Attendees,
		CancellationReason: b.CancellationReason,
	}

	result := make([]Notification, 0, 2)
	add := func(channel Channel, recipient *string) {
		if recipient == nil || *recipient == "" {
			return
		}
		result = append(result, Notification{
			EventID:   uuid.New(),
			Event:     event,
			BookingID: b.ID,
			Channel:   channel,
			Recipient: *recipient,
			Payload:   payload,
			CreatedAt: now.UTC(),
		})
	}

	add(ChannelEmail, b.ClientEmail)
	add(ChannelSMS, b.ClientPhone)

	return result
}
