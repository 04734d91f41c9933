package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
)

// TenantRepository интерфейс репозитория тенантов
type TenantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
}

// AvailabilityRepository интерфейс репозитория правил доступности
type AvailabilityRepository interface {
	GetByTenantForDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*domain.AvailabilityRule, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByTenantAndDate активные бронирования тенанта на дату
	GetByTenantAndDate(ctx context.Context, tenantID uuid.UUID, date string) ([]*domain.Booking, error)
}

// SlotCache кэш рассчитанных слотов
type SlotCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, date string) ([]domain.TimeSlot, bool, error)
	Generation(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Set(ctx context.Context, tenantID uuid.UUID, date string, generation int64, slots []domain.TimeSlot) (bool, error)
}

// Metrics счётчики попаданий в кэш
type Metrics interface {
	IncSlotCache(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider = timeutil.Clock

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
