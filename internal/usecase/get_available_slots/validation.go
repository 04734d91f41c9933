package get_available_slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
)

// validateRequest валидирует входные данные запроса и возвращает разобранную дату
func validateRequest(req *Request) (time.Time, error) {
	if req.TenantID == uuid.Nil {
		return time.Time{}, fmt.Errorf("%w: tenantID is required", ErrInvalidInput)
	}

	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		return time.Time{}, err
	}

	return date, nil
}
