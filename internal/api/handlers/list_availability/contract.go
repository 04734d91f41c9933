package list_availability

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/service/availability/models"
)

type AvailabilityService interface {
	List(ctx context.Context, tenantID uuid.UUID, adminID string) (*models.RuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
