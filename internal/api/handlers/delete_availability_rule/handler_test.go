package delete_availability_rule

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EmbedBooking/internal/api/middleware"
	"github.com/m04kA/SMC-EmbedBooking/internal/service/availability"
	"github.com/m04kA/SMC-EmbedBooking/pkg/logger"
)

type stubService struct {
	ruleID  int64
	adminID string
	err     error
}

func (s *stubService) Delete(_ context.Context, _ uuid.UUID, ruleID int64, adminID string) error {
	s.ruleID, s.adminID = ruleID, adminID
	return s.err
}

func serve(svc AvailabilityService, tenant, rule, adminID string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/admin/tenants/{tenantId}/availability/{ruleId}", NewHandler(svc, logger.NewNop()).Handle).
		Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, "/admin/tenants/"+tenant+"/availability/"+rule, nil)
	if adminID != "" {
		req = req.WithContext(middleware.WithAdminID(req.Context(), adminID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Deleted(t *testing.T) {
	svc := &stubService{}

	rec := serve(svc, uuid.NewString(), "42", "admin-1")

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(42), svc.ruleID)
	assert.Equal(t, "admin-1", svc.adminID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		tenant  string
		rule    string
		adminID string
		err     error
		status  int
	}{
		{"no admin", uuid.NewString(), "1", "", nil, http.StatusUnauthorized},
		{"bad tenant id", "nope", "1", "admin-1", nil, http.StatusBadRequest},
		{"bad rule id", uuid.NewString(), "abc", "admin-1", nil, http.StatusBadRequest},
		{"zero rule id", uuid.NewString(), "0", "admin-1", nil, http.StatusBadRequest},
		{"not found", uuid.NewString(), "1", "admin-1", availability.ErrRuleNotFound, http.StatusNotFound},
		{"foreign tenant", uuid.NewString(), "1", "admin-1", availability.ErrAccessDenied, http.StatusForbidden},
		{"internal", uuid.NewString(), "1", "admin-1", fmt.Errorf("%w: boom", availability.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, tt.tenant, tt.rule, tt.adminID)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
