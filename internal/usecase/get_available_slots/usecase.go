package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	tenantRepo "github.com/m04kA/SMC-EmbedBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-EmbedBooking/internal/slotengine"
	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
)

// UseCase use case для получения слотов на дату
type UseCase struct {
	tenantRepo       TenantRepository
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	cache            SlotCache
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepo TenantRepository,
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	cache SlotCache,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		tenantRepo:       tenantRepo,
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		cache:            cache,
		metrics:          metrics,
		timeProvider:     timeutil.SystemClock{},
		logger:           logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%s, date=%s", req.TenantID, req.Date)

	// 1. Валидация входных данных
	date, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем тенанта и его настройки
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("GetAvailableSlots: tenant id=%s not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get tenant id=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrStoreUnavailable, err)
	}

	response := &Response{
		TenantID: req.TenantID,
		Date:     timeutil.FormatDate(date),
		Timezone: tenant.Settings.Timezone,
	}

	// 3. Кэш. Ошибка Redis не должна ломать чтение слотов
	cached, hit, err := uc.cache.Get(ctx, req.TenantID, response.Date)
	switch {
	case err != nil:
		uc.logger.Warn("GetAvailableSlots: cache get failed: %v", err)
		uc.metrics.IncSlotCache("error")
	case hit:
		// окно notice сдвигается со временем, кэш его не учитывает
		uc.metrics.IncSlotCache("hit")
		response.Slots = slotengine.ApplyNotice(cached, tenant.Settings.MinBookingNoticeHours, uc.timeProvider.Now())
		response.Cached = true
		return response, nil
	default:
		uc.metrics.IncSlotCache("miss")
	}

	// поколение читается до БД, иначе сброс во время расчёта потеряется
	generation, err := uc.cache.Generation(ctx, req.TenantID)
	cacheable := err == nil
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cache generation failed: %v", err)
	}

	loc, err := timeutil.LoadLocation(tenant.Settings.Timezone)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: tenant id=%s has invalid timezone: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 4. Правила на день недели
	rules, err := uc.availabilityRepo.GetByTenantForDate(ctx, req.TenantID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get availability: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrStoreUnavailable, err)
	}

	// 5. Активные бронирования на дату
	bookings, err := uc.bookingRepo.GetByTenantAndDate(ctx, req.TenantID, response.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrStoreUnavailable, err)
	}

	// 6. Расчёт слотов
	slots, err := slotengine.Resolve(slotengine.Input{
		TenantID:    req.TenantID,
		Date:        response.Date,
		Rules:       rules,
		Bookings:    bookings,
		NoticeHours: tenant.Settings.MinBookingNoticeHours,
		Location:    loc,
		Now:         uc.timeProvider.Now(),
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve slots: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve slots: %v", ErrInternal, err)
	}
	response.Slots = slots

	if cacheable {
		stored, err := uc.cache.Set(ctx, req.TenantID, response.Date, generation, slots)
		switch {
		case err != nil:
			uc.logger.Warn("GetAvailableSlots: cache set failed: %v", err)
		case !stored:
			uc.logger.Info("GetAvailableSlots: cache invalidated during resolve for tenant=%s, date=%s",
				req.TenantID, response.Date)
		}
	}

	uc.logger.Info("GetAvailableSlots: resolved %d slots for tenant=%s, date=%s",
		len(slots), req.TenantID, response.Date)

	return response, nil
}
