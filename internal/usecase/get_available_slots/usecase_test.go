package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	tenantRepo "github.com/m04kA/SMC-EmbedBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
	"github.com/m04kA/SMC-EmbedBooking/pkg/logger"
)

type fakeTenants struct {
	tenant *domain.Tenant
	err    error
}

func (f *fakeTenants) GetByID(_ context.Context, id uuid.UUID) (*domain.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.tenant == nil || f.tenant.ID != id {
		return nil, tenantRepo.ErrTenantNotFound
	}
	return f.tenant, nil
}

type fakeRules struct {
	rules []*domain.AvailabilityRule
	calls int
}

func (f *fakeRules) GetByTenantForDate(_ context.Context, _ uuid.UUID, date time.Time) ([]*domain.AvailabilityRule, error) {
	f.calls++
	day := timeutil.DayOfWeek(date)
	result := make([]*domain.AvailabilityRule, 0)
	for _, r := range f.rules {
		if r.DayOfWeek == day {
			result = append(result, r)
		}
	}
	return result, nil
}

type fakeBookings struct {
	bookings []*domain.Booking
	err      error
	onRead   func()
}

func (f *fakeBookings) GetByTenantAndDate(context.Context, uuid.UUID, string) ([]*domain.Booking, error) {
	if f.onRead != nil {
		f.onRead()
	}
	return f.bookings, f.err
}

type memoryCache struct {
	data       map[string][]domain.TimeSlot
	generation int64
	getErr     error
}

func (c *memoryCache) Generation(context.Context, uuid.UUID) (int64, error) {
	return c.generation, nil
}

func (c *memoryCache) invalidate(tenantID uuid.UUID, date string) {
	c.generation++
	delete(c.data, tenantID.String()+date)
}

func (c *memoryCache) Get(_ context.Context, tenantID uuid.UUID, date string) ([]domain.TimeSlot, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	s, ok := c.data[tenantID.String()+date]
	return s, ok, nil
}

func (c *memoryCache) Set(_ context.Context, tenantID uuid.UUID, date string, generation int64, slots []domain.TimeSlot) (bool, error) {
	if generation != c.generation {
		return false, nil
	}
	if c.data == nil {
		c.data = map[string][]domain.TimeSlot{}
	}
	c.data[tenantID.String()+date] = slots
	return true, nil
}

type countingMetrics struct {
	results []string
}

func (m *countingMetrics) IncSlotCache(result string) {
	m.results = append(m.results, result)
}

type fixture struct {
	uc       *UseCase
	tenant   *domain.Tenant
	rules    *fakeRules
	bookings *fakeBookings
	cache    *memoryCache
	metrics  *countingMetrics
}

func newFixture(now time.Time) *fixture {
	tenant := &domain.Tenant{
		ID:   uuid.New(),
		Name: "Clinic",
		Settings: domain.TenantSettings{
			Timezone:              "America/Los_Angeles",
			MinBookingNoticeHours: 24,
			MaxAttendees:          1,
		},
	}
	f := &fixture{
		tenant: tenant,
		rules: &fakeRules{rules: []*domain.AvailabilityRule{
			{ID: 1, TenantID: tenant.ID, DayOfWeek: 1, StartTime: "09:00:00", EndTime: "09:30:00"},
			{ID: 2, TenantID: tenant.ID, DayOfWeek: 1, StartTime: "10:00:00", EndTime: "10:30:00"},
		}},
		bookings: &fakeBookings{},
		cache:    &memoryCache{},
		metrics:  &countingMetrics{},
	}
	f.uc = NewUseCase(&fakeTenants{tenant: tenant}, f.rules, f.bookings, f.cache, f.metrics, logger.NewNop())
	f.uc.timeProvider = timeutil.FixedClock(now)
	return f
}

func TestExecute_ResolvesSlotsAndCaches(t *testing.T) {
	f := newFixture(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC))
	f.bookings.bookings = []*domain.Booking{
		{StartTime: "10:00:00", Status: domain.StatusConfirmed},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{TenantID: f.tenant.ID, Date: "2026-10-19"})
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, "America/Los_Angeles", resp.Timezone)
	require.Len(t, resp.Slots, 2)
	assert.False(t, resp.Slots[0].IsBooked)
	assert.True(t, resp.Slots[1].IsBooked)

	again, err := f.uc.Execute(context.Background(), &Request{TenantID: f.tenant.ID, Date: "2026-10-19"})
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, resp.Slots, again.Slots)
	assert.Equal(t, 1, f.rules.calls)
	assert.Equal(t, []string{"miss", "hit"}, f.metrics.results)
}

func TestExecute_CachedSlotsRespectNoticeWindow(t *testing.T) {
	// воскресенье 08:59:55 PDT, слот понедельника 09:00 PDT ещё за пределами 24 часов
	f := newFixture(time.Date(2026, 10, 18, 15, 59, 55, 0, time.UTC))
	req := &Request{TenantID: f.tenant.ID, Date: "2026-10-19"}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	require.Len(t, resp.Slots, 2)

	// через 15 секунд слот 09:00 уже внутри окна, хотя кэш ещё живой
	f.uc.timeProvider = timeutil.FixedClock(time.Date(2026, 10, 18, 16, 0, 10, 0, time.UTC))

	again, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	require.Len(t, again.Slots, 1)
	assert.Equal(t, "10:00:00", again.Slots[0].Start.String())
	assert.Equal(t, 1, f.rules.calls)
}

func TestExecute_InvalidateDuringResolveSkipsCache(t *testing.T) {
	f := newFixture(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC))
	req := &Request{TenantID: f.tenant.ID, Date: "2026-10-19"}

	// бронирование коммитится и сбрасывает кэш, пока идёт расчёт
	f.bookings.onRead = func() {
		f.cache.invalidate(f.tenant.ID, req.Date)
	}

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, f.cache.data)

	f.bookings.onRead = nil
	_, err = f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, f.cache.data, 1)
	assert.Equal(t, []string{"miss", "miss"}, f.metrics.results)
}

func TestExecute_CacheErrorFallsBackToStore(t *testing.T) {
	f := newFixture(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC))
	f.cache.getErr = errors.New("redis down")

	resp, err := f.uc.Execute(context.Background(), &Request{TenantID: f.tenant.ID, Date: "2026-10-19"})
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 2)
	assert.Equal(t, []string{"error"}, f.metrics.results)
}

func TestExecute_EmptyForDayWithoutRules(t *testing.T) {
	f := newFixture(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC))

	resp, err := f.uc.Execute(context.Background(), &Request{TenantID: f.tenant.ID, Date: "2026-10-20"})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC))

	_, err := f.uc.Execute(context.Background(), &Request{TenantID: f.tenant.ID, Date: "tomorrow"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = f.uc.Execute(context.Background(), &Request{Date: "2026-10-19"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{TenantID: uuid.New(), Date: "2026-10-19"})
	assert.ErrorIs(t, err, ErrTenantNotFound)

	f.bookings.err = errors.New("connection refused")
	_, err = f.uc.Execute(context.Background(), &Request{TenantID: f.tenant.ID, Date: "2026-10-19"})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
