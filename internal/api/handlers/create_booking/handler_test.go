package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-EmbedBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-EmbedBooking/pkg/logger"
)

type stubUseCase struct {
	got *createBooking.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &createBooking.Response{
		State: createBooking.StateCommitted,
		Booking: &domain.Booking{
			ID:          uuid.New(),
			TenantID:    req.TenantID,
			BookingDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
			StartTime:   "09:00:00",
			EndTime:     "09:30:00",
			Status:      domain.StatusPending,
			Attendees:   1,
			ClientName:  req.ClientName,
			ClientEmail: req.ClientEmail,
			CreatedAt:   time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
		},
	}, nil
}

func serve(uc CreateBookingUseCase, tenant, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/embeds/{tenantId}/bookings", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/embeds/"+tenant+"/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"date":"2026-10-19","startTime":"09:00","clientName":"Ann","clientEmail":"ann@example.com"}`

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{}
	tenantID := uuid.New()

	rec := serve(uc, tenantID.String(), validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, tenantID, uc.got.TenantID)
	assert.Equal(t, "09:00", uc.got.StartTime)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-10-19", resp.Date)
	assert.Equal(t, "09:00:00", resp.StartTime)
	assert.Equal(t, "pending", resp.Status)
	assert.NotContains(t, rec.Body.String(), "ann@example.com")
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		tenant string
		body   string
		err    error
		status int
	}{
		{"bad tenant id", "not-a-uuid", validBody, nil, http.StatusBadRequest},
		{"empty body", uuid.NewString(), "", nil, http.StatusBadRequest},
		{"unknown field", uuid.NewString(), `{"date":"2026-10-19","startTime":"09:00","clientName":"Ann","x":1}`, nil, http.StatusBadRequest},
		{"missing name", uuid.NewString(), `{"date":"2026-10-19","startTime":"09:00"}`, nil, http.StatusBadRequest},
		{"bad email", uuid.NewString(), `{"date":"2026-10-19","startTime":"09:00","clientName":"Ann","clientEmail":"nope"}`, nil, http.StatusBadRequest},
		{"slot taken", uuid.NewString(), validBody, createBooking.ErrSlotUnavailable, http.StatusConflict},
		{"invalid date", uuid.NewString(), validBody, createBooking.ErrInvalidDate, http.StatusBadRequest},
		{"invalid time", uuid.NewString(), validBody, createBooking.ErrInvalidTimeFormat, http.StatusBadRequest},
		{"invalid input", uuid.NewString(), validBody, createBooking.ErrInvalidInput, http.StatusBadRequest},
		{"unknown tenant", uuid.NewString(), validBody, createBooking.ErrTenantNotFound, http.StatusNotFound},
		{"store down", uuid.NewString(), validBody, fmt.Errorf("%w: boom", createBooking.ErrStoreUnavailable), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, tt.tenant, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"message"`)
		})
	}
}
