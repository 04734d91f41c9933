package get_widget

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EmbedBooking/internal/service/tenant"
	"github.com/m04kA/SMC-EmbedBooking/internal/service/tenant/models"
	"github.com/m04kA/SMC-EmbedBooking/pkg/logger"
)

type stubService struct {
	err error
}

func (s *stubService) GetWidget(_ context.Context, tenantID uuid.UUID) (*models.WidgetResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.WidgetResponse{
		TenantID:              tenantID,
		Name:                  "Clinic",
		Timezone:              "Europe/Berlin",
		MinBookingNoticeHours: 2,
		AllowedBookingTypes:   []string{},
		MaxAttendees:          1,
	}, nil
}

func serve(svc TenantService, tenant string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/embeds/{tenantId}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/embeds/"+tenant, nil))
	return rec
}

func TestHandle(t *testing.T) {
	tenantID := uuid.New()

	rec := serve(&stubService{}, tenantID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.WidgetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, tenantID, resp.TenantID)
	assert.Equal(t, "Europe/Berlin", resp.Timezone)

	assert.Equal(t, http.StatusBadRequest, serve(&stubService{}, "nope").Code)
	assert.Equal(t, http.StatusNotFound, serve(&stubService{err: tenant.ErrTenantNotFound}, tenantID.String()).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&stubService{err: errors.New("db down")}, tenantID.String()).Code)
}
