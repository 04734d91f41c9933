package tenant

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
)

// TenantRepository интерфейс репозитория тенантов
type TenantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	GetSettings(ctx context.Context, id uuid.UUID) (*domain.TenantSettings, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, settings domain.TenantSettings) error
	IsAdmin(ctx context.Context, tenantID uuid.UUID, adminID string) (bool, error)
}

// SlotCache часовой пояс и срок уведомления меняют слоты на все даты
type SlotCache interface {
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
