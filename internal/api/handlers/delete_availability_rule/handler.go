package delete_availability_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-EmbedBooking/internal/api/handlers"
	"github.com/m04kA/SMC-EmbedBooking/internal/api/middleware"
	"github.com/m04kA/SMC-EmbedBooking/internal/service/availability"
)

const (
	msgInvalidTenantID = "некорректный ID тенанта"
	msgInvalidRuleID   = "некорректный ID правила"
	msgRuleNotFound    = "правило не найдено"
	msgUnauthorized    = "требуется авторизация"
	msgForbidden       = "доступ запрещен"
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

// Handle DELETE /api/v1/admin/tenants/{tenantId}/availability/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	tenantID, err := handlers.PathUUID(r, "tenantId")
	if err != nil {
		h.logger.Warn("DELETE /admin/tenants/{id}/availability/{id} - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	ruleID, err := strconv.ParseInt(mux.Vars(r)["ruleId"], 10, 64)
	if err != nil || ruleID <= 0 {
		h.logger.Warn("DELETE /admin/tenants/{id}/availability/{id} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	if err := h.service.Delete(r.Context(), tenantID, ruleID, adminID); err != nil {
		switch {
		case errors.Is(err, availability.ErrRuleNotFound):
			handlers.RespondNotFound(w, msgRuleNotFound)
		case errors.Is(err, availability.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("DELETE /admin/tenants/{id}/availability/{id} - Failed to delete rule: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/tenants/{id}/availability/{id} - Rule deleted: rule_id=%d, tenant_id=%s", ruleID, tenantID)
	w.WriteHeader(http.StatusNoContent)
}
