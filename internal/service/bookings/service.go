package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-EmbedBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-EmbedBooking/internal/integrations/notifier"
	"github.com/m04kA/SMC-EmbedBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
)

// Service сервис управления бронированиями для администраторов тенанта
type Service struct {
	bookingRepo BookingRepository
	access      AccessChecker
	txManager   TransactionManager
	cache       SlotCache
	notifier    Notifier
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	access AccessChecker,
	txManager TransactionManager,
	cache SlotCache,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		access:      access,
		txManager:   txManager,
		cache:       cache,
		notifier:    notifier,
		logger:      logger,
	}
}

// GetTenantBookings получает бронирования тенанта с фильтрацией по периоду и статусу
func (s *Service) GetTenantBookings(ctx context.Context, req *models.GetTenantBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTenantBookings: fetching bookings for tenant=%s by admin=%s", req.TenantID, req.AdminID)

	if err := s.checkAdminAccess(ctx, req.TenantID, req.AdminID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTenantBookings: invalid filter for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.ListByTenant(ctx, filter)
	if err != nil {
		s.logger.Error("GetTenantBookings: repository error for tenant=%s: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: GetTenantBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTenantBookings: successfully fetched %d bookings for tenant=%s", len(bookings), req.TenantID)
	return models.FromDomainBookingList(bookings), nil
}

// GetByID получает бронирование тенанта по ID
func (s *Service) GetByID(ctx context.Context, tenantID, bookingID uuid.UUID, adminID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for tenant=%s by admin=%s", bookingID, tenantID, adminID)

	if err := s.checkAdminAccess(ctx, tenantID, adminID); err != nil {
		return nil, err
	}

	booking, err := s.getBooking(ctx, "GetByID", tenantID, bookingID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// UpdateStatus меняет статус бронирования по жизненному циклу
// pending -> confirmed, pending|confirmed -> cancelled
func (s *Service) UpdateStatus(ctx context.Context, tenantID, bookingID uuid.UUID, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%s to status=%s by admin=%s", bookingID, req.Status, req.AdminID)

	next, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.checkAdminAccess(ctx, tenantID, req.AdminID); err != nil {
		return nil, err
	}

	return s.transition(ctx, "UpdateStatus", tenantID, bookingID, next, nil)
}

// Cancel отменяет бронирование с необязательной причиной.
// Слот сразу становится доступен для нового бронирования.
func (s *Service) Cancel(ctx context.Context, tenantID, bookingID uuid.UUID, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s by admin=%s", bookingID, req.AdminID)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	if err := s.checkAdminAccess(ctx, tenantID, req.AdminID); err != nil {
		return nil, err
	}

	return s.transition(ctx, "Cancel", tenantID, bookingID, domain.StatusCancelled, req.CancellationReason)
}

// transition читает бронирование под блокировкой, проверяет переход и сохраняет
func (s *Service) transition(
	ctx context.Context,
	op string,
	tenantID, bookingID uuid.UUID,
	next domain.BookingStatus,
	reason *string,
) (*models.BookingResponse, error) {
	var updated *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, op, tenantID, bookingID)
		if err != nil {
			return err
		}

		if !booking.CanTransitionTo(next) {
			s.logger.Warn("%s: booking id=%s cannot move from %s to %s", op, bookingID, booking.Status, next)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
		}

		if next == domain.StatusCancelled {
			err = s.bookingRepo.Cancel(txCtx, tenantID, bookingID, reason)
		} else {
			err = s.bookingRepo.UpdateStatus(txCtx, tenantID, bookingID, next)
		}
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("%s: repository error for booking id=%s: %v", op, bookingID, err)
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}

		updated, err = s.getBooking(txCtx, op, tenantID, bookingID)
		return err
	})
	if err != nil {
		return nil, s.mapTxError(op, err)
	}

	// После коммита: кэш и уведомление
	switch next {
	case domain.StatusCancelled:
		date := timeutil.FormatDate(updated.BookingDate)
		if err := s.cache.Invalidate(ctx, tenantID, date); err != nil {
			s.logger.Warn("%s: failed to invalidate slot cache tenant=%s, date=%s: %v", op, tenantID, date, err)
		}
		s.notifier.Notify(ctx, notifier.EventBookingCancelled, updated)
	case domain.StatusConfirmed:
		s.notifier.Notify(ctx, notifier.EventBookingConfirmed, updated)
	}

	s.logger.Info("%s: booking id=%s is now %s", op, bookingID, updated.Status)
	return models.FromDomainBooking(updated), nil
}

func (s *Service) getBooking(ctx context.Context, op string, tenantID, bookingID uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, tenantID, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found in tenant=%s", op, bookingID, tenantID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) mapTxError(op string, err error) error {
	switch {
	case errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInternal):
		return err
	default:
		s.logger.Error("%s: transaction failed: %v", op, err)
		return fmt.Errorf("%w: %s - transaction failed: %v", ErrInternal, op, err)
	}
}

// checkAdminAccess проверяет, что администратор управляет тенантом
func (s *Service) checkAdminAccess(ctx context.Context, tenantID uuid.UUID, adminID string) error {
	if adminID == "" {
		return ErrAccessDenied
	}

	ok, err := s.access.IsAdmin(ctx, tenantID, adminID)
	if err != nil {
		s.logger.Error("checkAdminAccess: failed to check admin=%s for tenant=%s: %v", adminID, tenantID, err)
		return fmt.Errorf("%w: failed to check access: %v", ErrInternal, err)
	}
	if !ok {
		s.logger.Warn("checkAdminAccess: admin=%s is not an admin of tenant=%s", adminID, tenantID)
		return ErrAccessDenied
	}

	return nil
}
