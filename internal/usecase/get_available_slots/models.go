package get_available_slots

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	TenantID uuid.UUID // ID тенанта (виджета)
	Date     string    // Дата в формате YYYY-MM-DD, в часовом поясе тенанта
}

// Response модель ответа со списком слотов
type Response struct {
	TenantID uuid.UUID
	Date     string
	Timezone string
	Slots    []domain.TimeSlot // упорядочены по времени начала
	Cached   bool
}
