package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-EmbedBooking/internal/infra/storage/booking"
	tenantRepo "github.com/m04kA/SMC-EmbedBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-EmbedBooking/internal/integrations/notifier"
	"github.com/m04kA/SMC-EmbedBooking/internal/slotengine"
	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
	"github.com/m04kA/SMC-EmbedBooking/pkg/txmanager"
)

// Исходы отправки для метрик
const (
	outcomeCommitted = "committed"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

// UseCase use case для создания бронирования из виджета
type UseCase struct {
	tenantRepo       TenantRepository
	availabilityRepo AvailabilityRepository
	bookingRepo      BookingRepository
	txManager        TransactionManager
	cache            SlotCache
	notifier         Notifier
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tenantRepo TenantRepository,
	availabilityRepo AvailabilityRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	cache SlotCache,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		tenantRepo:       tenantRepo,
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		txManager:        txManager,
		cache:            cache,
		notifier:         notifier,
		metrics:          metrics,
		timeProvider:     timeutil.SystemClock{},
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка слота и вставка идут в одной сериализуемой транзакции,
// поэтому из двух параллельных запросов на один слот закоммитится только один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: tenant=%s, date=%s, start=%s", req.TenantID, req.Date, req.StartTime)

	// 1. Валидация входных данных
	sub, err := parseRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.IncBooking(outcomeRejected)
		return nil, err
	}

	// 2. Проверка слота и вставка в транзакции
	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = uc.submit(txCtx, req, sub)
		return txErr
	})
	if err != nil {
		return nil, uc.reject(req, err)
	}
	sub.state = StateCommitted

	// 3. Сбрасываем кэш слотов на дату
	if err := uc.cache.Invalidate(ctx, req.TenantID, sub.date); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate slot cache tenant=%s, date=%s: %v",
			req.TenantID, sub.date, err)
	}

	// 4. Уведомление клиенту. Ошибка доставки не откатывает бронирование
	uc.notifier.Notify(ctx, notifier.EventBookingCreated, created)

	uc.metrics.IncBooking(outcomeCommitted)
	uc.logger.Info("CreateBooking: successfully created booking id=%s, tenant=%s, date=%s, start=%s",
		created.ID, created.TenantID, sub.date, created.StartTime)

	return &Response{Booking: created, State: sub.state}, nil
}

// submit выполняется внутри транзакции
func (uc *UseCase) submit(ctx context.Context, req *Request, sub *submission) (*domain.Booking, error) {
	tenant, err := uc.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrStoreUnavailable, err)
	}

	if err := validateAgainstSettings(req, sub, tenant.Settings); err != nil {
		return nil, err
	}
	sub.state = StateValidated

	loc, err := timeutil.LoadLocation(tenant.Settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	date, err := timeutil.ParseDate(sub.date)
	if err != nil {
		return nil, err
	}

	rules, err := uc.availabilityRepo.GetByTenantForDate(ctx, req.TenantID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrStoreUnavailable, err)
	}

	bookings, err := uc.bookingRepo.GetByTenantAndDate(ctx, req.TenantID, sub.date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrStoreUnavailable, err)
	}

	// Пересчитываем слоты без кэша: решение принимается по актуальным данным
	slots, err := slotengine.Resolve(slotengine.Input{
		TenantID:    req.TenantID,
		Date:        sub.date,
		Rules:       rules,
		Bookings:    bookings,
		NoticeHours: tenant.Settings.MinBookingNoticeHours,
		Location:    loc,
		Now:         uc.timeProvider.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve slots: %v", ErrInternal, err)
	}

	slot, ok := slotengine.Find(slots, sub.startTime)
	if !ok {
		return nil, fmt.Errorf("%w: no slot starts at %s", ErrSlotUnavailable, sub.startTime)
	}
	if !slot.IsAvailable() {
		return nil, fmt.Errorf("%w: slot %s is already booked", ErrSlotUnavailable, sub.startTime)
	}

	booking := &domain.Booking{
		ID:          uuid.New(),
		TenantID:    req.TenantID,
		BookingDate: date,
		StartTime:   slot.Start,
		EndTime:     slot.End,
		Status:      domain.StatusPending,
		BookingType: trimmed(req.BookingType),
		Attendees:   sub.attendees,
		ClientName:  strings.TrimSpace(req.ClientName),
		ClientEmail: trimmed(req.ClientEmail),
		ClientPhone: trimmed(req.ClientPhone),
		Notes:       trimmed(req.Notes),
	}

	inserted, err := uc.bookingRepo.Insert(ctx, booking)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrDuplicateSlot) || errors.Is(err, txmanager.ErrSerializationFailure) {
			return nil, fmt.Errorf("%w: %w", ErrSlotUnavailable, err)
		}
		return nil, fmt.Errorf("%w: failed to insert booking: %v", ErrStoreUnavailable, err)
	}

	return inserted, nil
}

// reject переводит ошибку транзакции в ошибку use case и считает исход
func (uc *UseCase) reject(req *Request, err error) error {
	switch {
	case errors.Is(err, ErrSlotUnavailable):
		uc.logger.Warn("CreateBooking: slot unavailable tenant=%s, date=%s, start=%s: %v",
			req.TenantID, req.Date, req.StartTime, err)
		uc.metrics.IncBooking(outcomeRejected)
		return err
	case errors.Is(err, txmanager.ErrSerializationFailure):
		// конфликт обнаружен на коммите
		uc.logger.Warn("CreateBooking: concurrent booking for tenant=%s, date=%s, start=%s",
			req.TenantID, req.Date, req.StartTime)
		uc.metrics.IncBooking(outcomeRejected)
		return fmt.Errorf("%w: %w", ErrSlotUnavailable, err)
	case errors.Is(err, ErrTenantNotFound), errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidTimeFormat):
		uc.logger.Warn("CreateBooking: rejected tenant=%s: %v", req.TenantID, err)
		uc.metrics.IncBooking(outcomeRejected)
		return err
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrInternal):
		uc.logger.Error("CreateBooking: failed tenant=%s: %v", req.TenantID, err)
		uc.metrics.IncBooking(outcomeFailed)
		return err
	default:
		uc.logger.Error("CreateBooking: transaction failed tenant=%s: %v", req.TenantID, err)
		uc.metrics.IncBooking(outcomeFailed)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
