package create_availability_rule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-EmbedBooking/internal/api/handlers"
	"github.com/m04kA/SMC-EmbedBooking/internal/api/middleware"
	"github.com/m04kA/SMC-EmbedBooking/internal/service/availability"
	"github.com/m04kA/SMC-EmbedBooking/internal/service/availability/models"
)

const (
	msgInvalidTenantID    = "некорректный ID тенанта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRule        = "некорректное правило: день недели 0-6, время HH:MM, начало раньше конца"
	msgRuleOverlap        = "окно пересекается с существующим правилом в этот день"
	msgUnauthorized       = "требуется авторизация"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/tenants/{tenantId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	tenantID, err := handlers.PathUUID(r, "tenantId")
	if err != nil {
		h.logger.Warn("POST /admin/tenants/{id}/availability - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req models.CreateRuleRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /admin/tenants/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.AdminID = adminID
	req.TenantID = tenantID

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRule)
		case errors.Is(err, availability.ErrRuleOverlap):
			handlers.RespondConflict(w, msgRuleOverlap)
		case errors.Is(err, availability.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("POST /admin/tenants/{id}/availability - Failed to create rule: tenant_id=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/tenants/{id}/availability - Rule created: rule_id=%d, tenant_id=%s", result.ID, tenantID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
