package get_widget

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/service/tenant/models"
)

type TenantService interface {
	GetWidget(ctx context.Context, tenantID uuid.UUID) (*models.WidgetResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
