package delete_availability_rule

import (
	"context"

	"github.com/google/uuid"
)

type AvailabilityService interface {
	Delete(ctx context.Context, tenantID uuid.UUID, ruleID int64, adminID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
