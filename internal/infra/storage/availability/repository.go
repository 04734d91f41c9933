package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
	"github.com/m04kA/SMC-EmbedBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-EmbedBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-EmbedBooking/pkg/txmanager"
)

const table = "availability_rules"

var columns = []string{
	"id",
	"tenant_id",
	"day_of_week",
	"start_time",
	"end_time",
	"created_at",
}

// Repository репозиторий правил доступности
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTenant все правила тенанта, упорядоченные по дню недели и времени начала
func (r *Repository) GetByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.AvailabilityRule, error) {
	return r.list(ctx, "GetByTenant", squirrel.Eq{"tenant_id": tenantID})
}

// GetByTenantAndDay правила тенанта на день недели (Sunday = 0)
func (r *Repository) GetByTenantAndDay(ctx context.Context, tenantID uuid.UUID, dayOfWeek int) ([]*domain.AvailabilityRule, error) {
	return r.list(ctx, "GetByTenantAndDay", squirrel.Eq{"tenant_id": tenantID, "day_of_week": dayOfWeek})
}

// GetByTenantForDate правила на день недели календарной даты.
// День недели считается только через timeutil.DayOfWeek.
func (r *Repository) GetByTenantForDate(ctx context.Context, tenantID uuid.UUID, date time.Time) ([]*domain.AvailabilityRule, error) {
	return r.GetByTenantAndDay(ctx, tenantID, timeutil.DayOfWeek(date))
}

// GetByID правило тенанта по ID
func (r *Repository) GetByID(ctx context.Context, tenantID uuid.UUID, id int64) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// Create сохраняет правило. Проверка пересечений выполняется сервисом в той же транзакции.
func (r *Repository) Create(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("tenant_id", "day_of_week", "start_time", "end_time").
		Values(rule.TenantID, rule.DayOfWeek, rule.StartTime, rule.EndTime).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt); err != nil {
		if txmanager.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: Create: %v", txmanager.ErrSerializationFailure, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	rule.CreatedAt = createdAt.Time

	return rule, nil
}

// Delete удаляет правило тенанта
func (r *Repository) Delete(ctx context.Context, tenantID uuid.UUID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Eq) ([]*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(where).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if txmanager.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: %s: %v", txmanager.ErrSerializationFailure, op, err)
		}
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	rules := make([]*domain.AvailabilityRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return rules, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.AvailabilityRule, error) {
	var rule domain.AvailabilityRule
	var createdAt sql.NullTime

	if err := row.Scan(
		&rule.ID,
		&rule.TenantID,
		&rule.DayOfWeek,
		&rule.StartTime,
		&rule.EndTime,
		&createdAt,
	); err != nil {
		return nil, err
	}
	rule.CreatedAt = createdAt.Time

	return &rule, nil
}
