package bookings

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Booking, error)
	ListByTenant(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.BookingStatus) error
	Cancel(ctx context.Context, tenantID, id uuid.UUID, reason *string) error
}

// AccessChecker проверяет, что администратор управляет тенантом
type AccessChecker interface {
	IsAdmin(ctx context.Context, tenantID uuid.UUID, adminID string) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotCache сбрасывается при отмене: слот снова свободен
type SlotCache interface {
	Invalidate(ctx context.Context, tenantID uuid.UUID, date string) error
}

// Notifier уведомляет клиента о смене статуса
type Notifier interface {
	Notify(ctx context.Context, event notifier.Event, booking *domain.Booking)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
