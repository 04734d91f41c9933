package tenant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	tenantRepo "github.com/m04kA/SMC-EmbedBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-EmbedBooking/internal/service/tenant/models"
	"github.com/m04kA/SMC-EmbedBooking/pkg/logger"
	"github.com/m04kA/SMC-EmbedBooking/pkg/ptr"
)

const adminID = "admin-1"

type memoryTenants struct {
	tenant  *domain.Tenant
	updates int
}

func (m *memoryTenants) GetByID(_ context.Context, id uuid.UUID) (*domain.Tenant, error) {
	if m.tenant.ID != id {
		return nil, tenantRepo.ErrTenantNotFound
	}
	return m.tenant, nil
}

func (m *memoryTenants) GetSettings(ctx context.Context, id uuid.UUID) (*domain.TenantSettings, error) {
	t, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s := t.Settings
	return &s, nil
}

func (m *memoryTenants) UpdateSettings(_ context.Context, id uuid.UUID, settings domain.TenantSettings) error {
	if m.tenant.ID != id {
		return tenantRepo.ErrTenantNotFound
	}
	m.updates++
	m.tenant.Settings = settings
	return nil
}

func (m *memoryTenants) IsAdmin(_ context.Context, tenantID uuid.UUID, id string) (bool, error) {
	return tenantID == m.tenant.ID && id == adminID, nil
}

type countingCache struct {
	invalidations int
}

func (c *countingCache) InvalidateTenant(context.Context, uuid.UUID) error {
	c.invalidations++
	return nil
}

func newService() (*Service, *memoryTenants, *countingCache) {
	repo := &memoryTenants{tenant: &domain.Tenant{
		ID:       uuid.New(),
		Name:     "Studio",
		Settings: domain.DefaultTenantSettings(),
	}}
	cache := &countingCache{}
	return NewService(repo, cache, logger.NewNop()), repo, cache
}

func TestGetWidget(t *testing.T) {
	svc, repo, _ := newService()

	resp, err := svc.GetWidget(context.Background(), repo.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Studio", resp.Name)
	assert.Equal(t, "UTC", resp.Timezone)
	assert.Equal(t, 24, resp.MinBookingNoticeHours)
	assert.NotNil(t, resp.AllowedBookingTypes)

	_, err = svc.GetWidget(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestUpdateSettings_PartialUpdate(t *testing.T) {
	svc, repo, cache := newService()

	resp, err := svc.UpdateSettings(context.Background(), repo.tenant.ID, &models.UpdateSettingsRequest{
		AdminID:             adminID,
		Timezone:            ptr.Ptr("Europe/Berlin"),
		AllowedBookingTypes: &[]string{"intro", "session"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Europe/Berlin", resp.Timezone)
	assert.Equal(t, 24, resp.MinBookingNoticeHours)
	assert.Equal(t, []string{"intro", "session"}, repo.tenant.Settings.AllowedBookingTypes)
	assert.Equal(t, 1, cache.invalidations)
}

func TestUpdateSettings_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.UpdateSettingsRequest
	}{
		{"unknown timezone", models.UpdateSettingsRequest{Timezone: ptr.Ptr("Mars/Olympus")}},
		{"negative notice", models.UpdateSettingsRequest{MinBookingNoticeHours: ptr.Ptr(-1)}},
		{"notice too long", models.UpdateSettingsRequest{MinBookingNoticeHours: ptr.Ptr(721)}},
		{"zero attendees", models.UpdateSettingsRequest{MaxAttendees: ptr.Ptr(0)}},
		{"blank type", models.UpdateSettingsRequest{AllowedBookingTypes: &[]string{" "}}},
		{"duplicate type", models.UpdateSettingsRequest{AllowedBookingTypes: &[]string{"a", "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, cache := newService()
			req := tt.req
			req.AdminID = adminID

			_, err := svc.UpdateSettings(context.Background(), repo.tenant.ID, &req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, repo.updates)
			assert.Zero(t, cache.invalidations)
		})
	}
}

func TestSettings_AccessDenied(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.GetSettings(context.Background(), repo.tenant.ID, "intruder")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.UpdateSettings(context.Background(), repo.tenant.ID, &models.UpdateSettingsRequest{})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.GetSettings(context.Background(), repo.tenant.ID, adminID)
	require.NoError(t, err)
	assert.Equal(t, repo.tenant.ID, resp.TenantID)
}
