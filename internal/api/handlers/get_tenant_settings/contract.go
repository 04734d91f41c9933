package get_tenant_settings

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/service/tenant/models"
)

type TenantService interface {
	GetSettings(ctx context.Context, tenantID uuid.UUID, adminID string) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
