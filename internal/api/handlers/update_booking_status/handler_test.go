package update_booking_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-EmbedBooking/internal/api/middleware"
	"github.com/m04kA/SMC-EmbedBooking/internal/service/bookings"
	"github.com/m04kA/SMC-EmbedBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-EmbedBooking/pkg/logger"
)

type stubService struct {
	calls int
	err   error
}

func (s *stubService) UpdateStatus(_ context.Context, _, bookingID uuid.UUID, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{ID: bookingID, Status: req.Status}, nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		calls  int
	}{
		{"confirm", `{"status":"confirmed"}`, nil, http.StatusOK, 1},
		{"cancel", `{"status":"cancelled"}`, nil, http.StatusOK, 1},
		{"back to pending", `{"status":"pending"}`, nil, http.StatusBadRequest, 0},
		{"missing status", `{}`, nil, http.StatusBadRequest, 0},
		{"transition refused", `{"status":"confirmed"}`, bookings.ErrInvalidTransition, http.StatusConflict, 1},
		{"not found", `{"status":"confirmed"}`, bookings.ErrBookingNotFound, http.StatusNotFound, 1},
		{"access denied", `{"status":"confirmed"}`, bookings.ErrAccessDenied, http.StatusForbidden, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: tt.err}
			router := mux.NewRouter()
			router.HandleFunc("/admin/tenants/{tenantId}/bookings/{bookingId}/status",
				NewHandler(svc, logger.NewNop()).Handle)

			url := "/admin/tenants/" + uuid.NewString() + "/bookings/" + uuid.NewString() + "/status"
			req := httptest.NewRequest(http.MethodPatch, url, strings.NewReader(tt.body))
			req = req.WithContext(middleware.WithAdminID(req.Context(), "admin-1"))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.calls, svc.calls)
		})
	}
}
