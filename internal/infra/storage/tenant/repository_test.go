package tenant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/pkg/dbmetrics"
)

var tenantColumns = []string{
	"id", "name", "timezone", "min_booking_notice_hours",
	"allowed_booking_types", "max_attendees", "created_at", "updated_at",
}

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM tenants WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(tenantColumns).
			AddRow(id.String(), "Clinic", "America/Los_Angeles", 24, []byte(`{consultation,"follow up"}`), 2, now, now))

	tenant, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Clinic", tenant.Name)
	assert.Equal(t, domain.TenantSettings{
		Timezone:              "America/Los_Angeles",
		MinBookingNoticeHours: 24,
		AllowedBookingTypes:   []string{"consultation", "follow up"},
		MaxAttendees:          2,
	}, tenant.Settings)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetSettings_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM tenants`).WillReturnRows(sqlmock.NewRows(tenantColumns))

	_, err := repo.GetSettings(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestRepository_UpdateSettings(t *testing.T) {
	repo, mock := newMock(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE tenants SET timezone = \$1, min_booking_notice_hours = \$2, allowed_booking_types = \$3, max_attendees = \$4, updated_at = NOW\(\) WHERE id = \$5`).
		WithArgs("Europe/Berlin", 12, "{}", 1, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateSettings(context.Background(), id, domain.TenantSettings{
		Timezone:              "Europe/Berlin",
		MinBookingNoticeHours: 12,
		MaxAttendees:          1,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_IsAdmin(t *testing.T) {
	repo, mock := newMock(t)
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT 1 FROM tenant_admins WHERE admin_id = \$1 AND tenant_id = \$2 LIMIT 1`).
		WithArgs("admin-1", tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	ok, err := repo.IsAdmin(context.Background(), tenantID, "admin-1")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(`FROM tenant_admins`).WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	ok, err = repo.IsAdmin(context.Background(), tenantID, "stranger")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectQuery(`FROM tenant_admins`).WillReturnError(errors.New("connection reset"))
	_, err = repo.IsAdmin(context.Background(), tenantID, "admin-1")
	assert.ErrorIs(t, err, ErrExecQuery)
}
