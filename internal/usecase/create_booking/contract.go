package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/internal/integrations/notifier"
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
	// GetByTenantAndDate активные бронирования на дату (FOR UPDATE внутри транзакции)
	GetByTenantAndDate(ctx context.Context, tenantID uuid.UUID, date string) ([]*domain.Booking, error)
	// Insert возвращает booking.ErrDuplicateSlot при нарушении уникальности слота
	Insert(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotCache сбрасывается после коммита
type SlotCache interface {
	Invalidate(ctx context.Context, tenantID uuid.UUID, date string) error
}

// Notifier fire-and-forget отправка уведомлений клиенту
type Notifier interface {
	Notify(ctx context.Context, event notifier.Event, booking *domain.Booking)
}

// Metrics счётчики результатов отправки
type Metrics interface {
	IncBooking(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider = timeutil.Clock

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
