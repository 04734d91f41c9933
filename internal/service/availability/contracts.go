package availability

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
)

// AvailabilityRepository интерфейс репозитория правил доступности
type AvailabilityRepository interface {
	GetByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.AvailabilityRule, error)
	GetByTenantAndDay(ctx context.Context, tenantID uuid.UUID, dayOfWeek int) ([]*domain.AvailabilityRule, error)
	Create(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
	Delete(ctx context.Context, tenantID uuid.UUID, id int64) error
}

// AccessChecker проверяет, что администратор управляет тенантом
type AccessChecker interface {
	IsAdmin(ctx context.Context, tenantID uuid.UUID, adminID string) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotCache любое изменение правил меняет слоты на все даты тенанта
type SlotCache interface {
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
