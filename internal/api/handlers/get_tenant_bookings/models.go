package get_tenant_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// from, to, status, includeCancelled, limit, offset - опциональны
func ToServiceRequest(tenantID uuid.UUID, adminID string, query url.Values) (*models.GetTenantBookingsRequest, error) {
	req := &models.GetTenantBookingsRequest{
		AdminID:  adminID,
		TenantID: tenantID,
	}

	if from := query.Get("from"); from != "" {
		req.From = &from
	}
	if to := query.Get("to"); to != "" {
		req.To = &to
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("includeCancelled"); raw != "" {
		includeCancelled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("invalid limit value %q", raw)
		}
		req.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return nil, fmt.Errorf("invalid offset value %q", raw)
		}
		req.Offset = offset
	}

	return req, nil
}
