package availability

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-EmbedBooking/pkg/txmanager"
	"github.com/m04kA/SMC-EmbedBooking/pkg/types"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func TestRepository_GetByTenant(t *testing.T) {
	repo, mock := newMock(t)
	tenantID := uuid.New()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, tenant_id, day_of_week, start_time, end_time, created_at FROM availability_rules WHERE tenant_id = \$1 ORDER BY day_of_week ASC, start_time ASC`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), tenantID.String(), 1, "09:00:00", "09:30:00", created).
			AddRow(int64(2), tenantID.String(), 3, []byte("14:00:00.000000"), "15:00:00", created))

	rules, err := repo.GetByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, types.TimeString("14:00:00"), rules[1].StartTime)
	assert.Equal(t, 3, rules[1].DayOfWeek)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByTenantForDate_UsesSundayZero(t *testing.T) {
	repo, mock := newMock(t)
	tenantID := uuid.New()

	// 2026-10-18 - воскресенье
	mock.ExpectQuery(`FROM availability_rules WHERE day_of_week = \$1 AND tenant_id = \$2`).
		WithArgs(0, tenantID).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByTenantForDate(context.Background(), tenantID, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMock(t)
	tenantID := uuid.New()

	mock.ExpectQuery(`INSERT INTO availability_rules \(tenant_id,day_of_week,start_time,end_time\) VALUES \(\$1,\$2,\$3,\$4\) RETURNING id, created_at`).
		WithArgs(tenantID, 1, "09:00:00", "09:30:00").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	rule, err := repo.Create(context.Background(), &domain.AvailabilityRule{
		TenantID:  tenantID,
		DayOfWeek: 1,
		StartTime: "09:00:00",
		EndTime:   "09:30:00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), rule.ID)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`FROM availability_rules WHERE id = \$1 AND tenant_id = \$2`).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), uuid.New(), 99)
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newMock(t)
	tenantID := uuid.New()

	mock.ExpectExec(`DELETE FROM availability_rules WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(int64(7), tenantID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), tenantID, 7))

	mock.ExpectExec(`DELETE FROM availability_rules`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), tenantID, 8), ErrRuleNotFound)
}

func TestRepository_Create_SerializationFailure(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO availability_rules`).
		WillReturnError(&pq.Error{Code: "40001"})

	_, err := repo.Create(context.Background(), &domain.AvailabilityRule{
		TenantID:  uuid.New(),
		DayOfWeek: 1,
		StartTime: "09:00:00",
		EndTime:   "09:30:00",
	})
	assert.ErrorIs(t, err, txmanager.ErrSerializationFailure)
	assert.NotErrorIs(t, err, ErrExecQuery)
}
