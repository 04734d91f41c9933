package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-EmbedBooking/pkg/psqlbuilder"
)

const (
	table       = "tenants"
	adminsTable = "tenant_admins"
)

// Repository репозиторий тенантов и их настроек
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID тенант вместе с настройками бронирования
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"timezone",
		"min_booking_notice_hours",
		"allowed_booking_types",
		"max_attendees",
		"created_at",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		tenant               domain.Tenant
		allowed              pq.StringArray
		createdAt, updatedAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Settings.Timezone,
		&tenant.Settings.MinBookingNoticeHours,
		&allowed,
		&tenant.Settings.MaxAttendees,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan tenant: %v", ErrScanRow, err)
	}

	tenant.Settings.AllowedBookingTypes = []string(allowed)
	tenant.CreatedAt = createdAt.Time
	tenant.UpdatedAt = updatedAt.Time

	return &tenant, nil
}

// GetSettings только настройки бронирования тенанта
func (r *Repository) GetSettings(ctx context.Context, id uuid.UUID) (*domain.TenantSettings, error) {
	tenant, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &tenant.Settings, nil
}

// UpdateSettings полностью заменяет настройки бронирования
func (r *Repository) UpdateSettings(ctx context.Context, id uuid.UUID, settings domain.TenantSettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	allowed := settings.AllowedBookingTypes
	if allowed == nil {
		allowed = []string{}
	}

	query, args, err := psqlbuilder.Update(table).
		Set("timezone", settings.Timezone).
		Set("min_booking_notice_hours", settings.MinBookingNoticeHours).
		Set("allowed_booking_types", pq.Array(allowed)).
		Set("max_attendees", settings.MaxAttendees).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrTenantNotFound
	}

	return nil
}

// IsAdmin проверяет, что администратор (sub из JWT) владеет тенантом
func (r *Repository) IsAdmin(ctx context.Context, tenantID uuid.UUID, adminID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(adminsTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "admin_id": adminID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: IsAdmin - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: IsAdmin - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}
