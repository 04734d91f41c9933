package booking

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-EmbedBooking/pkg/ptr"
	"github.com/m04kA/SMC-EmbedBooking/pkg/txmanager"
	"github.com/m04kA/SMC-EmbedBooking/pkg/types"
)

func newMock(t *testing.T) (*dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return dbmetrics.Wrap(db, nil), mock
}

func bookingRow(id, tenantID uuid.UUID, start string, status domain.BookingStatus) []driver.Value {
	now := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	return []driver.Value{
		id.String(),
		tenantID.String(),
		time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		start,
		"09:30:00",
		string(status),
		nil,
		1,
		"Ada Lovelace",
		"ada@example.com",
		nil,
		nil,
		nil,
		nil,
		now,
		now,
	}
}

func newBooking(tenantID uuid.UUID) *domain.Booking {
	return &domain.Booking{
		TenantID:    tenantID,
		BookingDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("09:00:00"),
		EndTime:     types.TimeString("09:30:00"),
		Status:      domain.StatusPending,
		Attendees:   1,
		ClientName:  "Ada Lovelace",
		ClientEmail: ptr.Ptr("ada@example.com"),
	}
}

func TestRepository_Insert(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	tenantID := uuid.New()
	created := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO bookings \(id,tenant_id,booking_date,start_time,end_time,status,`).
		WithArgs(sqlmock.AnyArg(), tenantID, "2026-10-19", "09:00:00", "09:30:00", "pending",
			nil, 1, "Ada Lovelace", "ada@example.com", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))

	got, err := repo.Insert(context.Background(), newBooking(tenantID))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, created, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Insert_UniqueViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: activeSlotIndex})

	_, err := repo.Insert(context.Background(), newBooking(uuid.New()))
	assert.ErrorIs(t, err, ErrDuplicateSlot)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Insert_SerializationFailure(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnError(&pq.Error{Code: "40001"})

	_, err := repo.Insert(context.Background(), newBooking(uuid.New()))
	assert.ErrorIs(t, err, txmanager.ErrSerializationFailure)
	assert.NotErrorIs(t, err, ErrDuplicateSlot)
}

func TestRepository_Insert_OtherError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO bookings`).WillReturnError(sql.ErrConnDone)

	_, err := repo.Insert(context.Background(), newBooking(uuid.New()))
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestRepository_GetByTenantAndDate_LocksInsideTransaction(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	tenantID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE .+ ORDER BY start_time ASC FOR UPDATE`).
		WithArgs("2026-10-19", "pending", "confirmed", tenantID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(bookingRow(uuid.New(), tenantID, "09:00:00", domain.StatusConfirmed)...))
	mock.ExpectCommit()

	tm := txmanager.NewTransactionManager(db)
	var bookings []*domain.Booking
	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		var err error
		bookings, err = repo.GetByTenantAndDate(ctx, tenantID, "2026-10-19")
		return err
	})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, types.TimeString("09:00:00"), bookings[0].StartTime)
	assert.Equal(t, domain.StatusConfirmed, bookings[0].Status)
	assert.Equal(t, "ada@example.com", ptr.Value(bookings[0].ClientEmail))
	assert.Nil(t, bookings[0].ClientPhone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByTenantAndDate_NoLockOutsideTransaction(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE .+ ORDER BY start_time ASC$`).
		WillReturnRows(sqlmock.NewRows(columns))

	bookings, err := repo.GetByTenantAndDate(context.Background(), uuid.New(), "2026-10-19")
	require.NoError(t, err)
	assert.Empty(t, bookings)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	tenantID, id := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs(id, tenantID).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(bookingRow(id, tenantID, "09:00:00", domain.StatusPending)...))

	got, err := repo.GetByID(context.Background(), tenantID, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, tenantID, got.TenantID)

	mock.ExpectQuery(`SELECT .+ FROM bookings`).WillReturnRows(sqlmock.NewRows(columns))
	_, err = repo.GetByID(context.Background(), tenantID, uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_ListByTenant(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	tenantID := uuid.New()
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE tenant_id = \$1 AND booking_date >= \$2 AND booking_date <= \$3 AND status IN \(\$4,\$5\) ORDER BY booking_date ASC, start_time ASC LIMIT 50`).
		WithArgs(tenantID, "2026-10-01", "2026-10-31", "pending", "confirmed").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(bookingRow(uuid.New(), tenantID, "09:00:00", domain.StatusPending)...).
			AddRow(bookingRow(uuid.New(), tenantID, "10:00:00", domain.StatusConfirmed)...))

	got, err := repo.ListByTenant(context.Background(), domain.BookingsFilter{
		TenantID:  tenantID,
		StartDate: &from,
		EndDate:   &to,
		Limit:     50,
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByTenant_ExplicitStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	tenantID := uuid.New()
	status := domain.StatusCancelled

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE tenant_id = \$1 AND status = \$2`).
		WithArgs(tenantID, "cancelled").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.ListByTenant(context.Background(), domain.BookingsFilter{TenantID: tenantID, Status: &status})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	tenantID, id := uuid.New(), uuid.New()

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND tenant_id = \$3`).
		WithArgs("confirmed", id, tenantID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), tenantID, id, domain.StatusConfirmed))

	mock.ExpectExec(`UPDATE bookings`).WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdateStatus(context.Background(), tenantID, id, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_Cancel(t *testing.T) {
	db, mock := newMock(t)
	repo := NewRepository(db)
	tenantID, id := uuid.New(), uuid.New()

	mock.ExpectExec(`UPDATE bookings SET status = \$1, cancellation_reason = \$2, cancelled_at = NOW\(\), updated_at = NOW\(\) WHERE id = \$3 AND tenant_id = \$4`).
		WithArgs("cancelled", "client asked", id, tenantID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Cancel(context.Background(), tenantID, id, ptr.Ptr("client asked")))
	require.NoError(t, mock.ExpectationsWereMet())
}
