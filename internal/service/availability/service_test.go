package availability

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-EmbedBooking/internal/infra/storage/availability"
	"github.com/m04kA/SMC-EmbedBooking/internal/service/availability/models"
	"github.com/m04kA/SMC-EmbedBooking/pkg/logger"
	"github.com/m04kA/SMC-EmbedBooking/pkg/ptr"
	"github.com/m04kA/SMC-EmbedBooking/pkg/txmanager"
)

const adminID = "admin-1"

type memoryRules struct {
	nextID int64
	rules  []*domain.AvailabilityRule
}

func (m *memoryRules) GetByTenant(_ context.Context, tenantID uuid.UUID) ([]*domain.AvailabilityRule, error) {
	result := make([]*domain.AvailabilityRule, 0)
	for _, r := range m.rules {
		if r.TenantID == tenantID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *memoryRules) GetByTenantAndDay(ctx context.Context, tenantID uuid.UUID, day int) ([]*domain.AvailabilityRule, error) {
	all, _ := m.GetByTenant(ctx, tenantID)
	result := make([]*domain.AvailabilityRule, 0)
	for _, r := range all {
		if r.DayOfWeek == day {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *memoryRules) Create(_ context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	m.nextID++
	saved := *rule
	saved.ID = m.nextID
	m.rules = append(m.rules, &saved)
	return &saved, nil
}

func (m *memoryRules) Delete(_ context.Context, tenantID uuid.UUID, id int64) error {
	for i, r := range m.rules {
		if r.ID == id && r.TenantID == tenantID {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return availabilityRepo.ErrRuleNotFound
}

type fakeAccess struct {
	tenantID uuid.UUID
}

func (f *fakeAccess) IsAdmin(_ context.Context, tenantID uuid.UUID, id string) (bool, error) {
	return tenantID == f.tenantID && id == adminID, nil
}

type inlineTx struct{}

func (inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type countingCache struct {
	invalidations int
}

func (c *countingCache) InvalidateTenant(context.Context, uuid.UUID) error {
	c.invalidations++
	return nil
}

func newService() (*Service, uuid.UUID, *memoryRules, *countingCache) {
	tenantID := uuid.New()
	repo := &memoryRules{}
	cache := &countingCache{}
	svc := NewService(repo, &fakeAccess{tenantID: tenantID}, inlineTx{}, cache, logger.NewNop())
	return svc, tenantID, repo, cache
}

func createReq(tenantID uuid.UUID, day int, start, end string) *models.CreateRuleRequest {
	return &models.CreateRuleRequest{
		AdminID:   adminID,
		TenantID:  tenantID,
		DayOfWeek: ptr.Ptr(day),
		StartTime: start,
		EndTime:   end,
	}
}

func TestCreate_RejectsOverlapOnSameDay(t *testing.T) {
	svc, tenantID, repo, cache := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, createReq(tenantID, 1, "09:00", "12:00"))
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", created.StartTime)
	assert.Equal(t, 1, cache.invalidations)

	_, err = svc.Create(ctx, createReq(tenantID, 1, "11:30", "13:00"))
	assert.ErrorIs(t, err, ErrRuleOverlap)

	_, err = svc.Create(ctx, createReq(tenantID, 1, "08:00", "18:00"))
	assert.ErrorIs(t, err, ErrRuleOverlap)

	// смежные окна не пересекаются
	_, err = svc.Create(ctx, createReq(tenantID, 1, "12:00", "13:00"))
	require.NoError(t, err)

	// другой день
	_, err = svc.Create(ctx, createReq(tenantID, 0, "09:00", "12:00"))
	require.NoError(t, err)

	assert.Len(t, repo.rules, 3)
	assert.Equal(t, 3, cache.invalidations)
}

func TestCreate_Validation(t *testing.T) {
	svc, tenantID, _, _ := newService()

	tests := []struct {
		name string
		req  *models.CreateRuleRequest
		err  error
	}{
		{"day out of range", createReq(tenantID, 7, "09:00", "10:00"), ErrInvalidInput},
		{"missing day", &models.CreateRuleRequest{AdminID: adminID, TenantID: tenantID, StartTime: "09:00", EndTime: "10:00"}, ErrInvalidInput},
		{"bad start", createReq(tenantID, 1, "9", "10:00"), ErrInvalidInput},
		{"end before start", createReq(tenantID, 1, "10:00", "09:00"), ErrInvalidInput},
		{"empty window", createReq(tenantID, 1, "10:00", "10:00"), ErrInvalidInput},
		{"foreign tenant", createReq(uuid.New(), 1, "09:00", "10:00"), ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestListAndDelete(t *testing.T) {
	svc, tenantID, _, cache := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, createReq(tenantID, 3, "09:00", "10:00"))
	require.NoError(t, err)

	list, err := svc.List(ctx, tenantID, adminID)
	require.NoError(t, err)
	require.Len(t, list.Rules, 1)
	assert.Equal(t, 3, list.Rules[0].DayOfWeek)

	_, err = svc.List(ctx, tenantID, "")
	assert.ErrorIs(t, err, ErrAccessDenied)

	require.NoError(t, svc.Delete(ctx, tenantID, created.ID, adminID))
	assert.Equal(t, 2, cache.invalidations)

	assert.ErrorIs(t, svc.Delete(ctx, tenantID, created.ID, adminID), ErrRuleNotFound)
}

// commitConflictTx выполняет fn, но коммит падает как у Postgres при 40001
type commitConflictTx struct{}

func (commitConflictTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return fmt.Errorf("%w: commit: pq: could not serialize access", txmanager.ErrSerializationFailure)
}

type conflictingRules struct {
	memoryRules
}

func (c *conflictingRules) GetByTenantAndDay(context.Context, uuid.UUID, int) ([]*domain.AvailabilityRule, error) {
	return nil, fmt.Errorf("%w: GetByTenantAndDay: pq: 40001", txmanager.ErrSerializationFailure)
}

func TestCreate_ConcurrentChangeIsConflict(t *testing.T) {
	tenantID := uuid.New()
	cache := &countingCache{}

	t.Run("on commit", func(t *testing.T) {
		svc := NewService(&memoryRules{}, &fakeAccess{tenantID: tenantID}, commitConflictTx{}, cache, logger.NewNop())

		_, err := svc.Create(context.Background(), createReq(tenantID, 2, "09:00", "10:00"))
		assert.ErrorIs(t, err, ErrRuleOverlap)
		assert.NotErrorIs(t, err, ErrInternal)
	})

	t.Run("inside transaction", func(t *testing.T) {
		svc := NewService(&conflictingRules{}, &fakeAccess{tenantID: tenantID}, inlineTx{}, cache, logger.NewNop())

		_, err := svc.Create(context.Background(), createReq(tenantID, 2, "09:00", "10:00"))
		assert.ErrorIs(t, err, ErrRuleOverlap)
	})

	assert.Zero(t, cache.invalidations)
}
