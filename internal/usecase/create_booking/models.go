package create_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/pkg/types"
)

// State состояние отправки бронирования
type State string

const (
	StateRequested State = "requested"
	StateValidated State = "validated"
	StateCommitted State = "committed"
	StateRejected  State = "rejected"
)

// Request модель запроса на создание бронирования из виджета
type Request struct {
	TenantID    uuid.UUID
	Date        string // YYYY-MM-DD в часовом поясе тенанта
	StartTime   string // HH:MM или HH:MM:SS
	BookingType *string
	Attendees   int // 0 = 1 участник
	ClientName  string
	ClientEmail *string
	ClientPhone *string
	Notes       *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
	State   State
}

// submission разобранный и проверенный запрос
type submission struct {
	state     State
	date      string
	startTime types.TimeString
	attendees int
}
