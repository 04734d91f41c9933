package get_tenant_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-EmbedBooking/internal/api/handlers"
	"github.com/m04kA/SMC-EmbedBooking/internal/api/middleware"
	"github.com/m04kA/SMC-EmbedBooking/internal/service/tenant"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgUnauthorized    = "требуется авторизация"
	msgForbidden       = "доступ запрещен"
	msgTenantNotFound  = "тенант не найден"
)

type Handler struct {
	service TenantService
	logger  Logger
}

func NewHandler(service TenantService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/tenants/{tenantId}/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	tenantID, err := handlers.PathUUID(r, "tenantId")
	if err != nil {
		h.logger.Warn("GET /admin/tenants/{id}/settings - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	result, err := h.service.GetSettings(r.Context(), tenantID, adminID)
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, tenant.ErrTenantNotFound):
			handlers.RespondNotFound(w, msgTenantNotFound)
		default:
			h.logger.Error("GET /admin/tenants/{id}/settings - Failed to get settings: tenant_id=%s, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
