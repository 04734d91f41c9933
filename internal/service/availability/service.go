package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-EmbedBooking/internal/infra/storage/availability"
	"github.com/m04kA/SMC-EmbedBooking/internal/service/availability/models"
	"github.com/m04kA/SMC-EmbedBooking/pkg/txmanager"
	"github.com/m04kA/SMC-EmbedBooking/pkg/types"
)

// Service сервис для управления еженедельным расписанием тенанта
type Service struct {
	availabilityRepo AvailabilityRepository
	access           AccessChecker
	txManager        TransactionManager
	cache            SlotCache
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	availabilityRepo AvailabilityRepository,
	access AccessChecker,
	txManager TransactionManager,
	cache SlotCache,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		access:           access,
		txManager:        txManager,
		cache:            cache,
		logger:           logger,
	}
}

// List возвращает все правила тенанта по дням недели и времени начала
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, adminID string) (*models.RuleListResponse, error) {
	s.logger.Info("List: fetching availability for tenant=%s by admin=%s", tenantID, adminID)

	if err := s.checkAdminAccess(ctx, tenantID, adminID); err != nil {
		return nil, err
	}

	rules, err := s.availabilityRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRuleList(rules), nil
}

// Create добавляет окно доступности.
// Окна одного дня не должны пересекаться, проверка и вставка идут в одной транзакции.
func (s *Service) Create(ctx context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Create: creating rule for tenant=%s, day=%v, %s-%s by admin=%s",
		req.TenantID, req.DayOfWeek, req.StartTime, req.EndTime, req.AdminID)

	// 1. Валидируем входные данные
	rule, err := toDomainRule(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа
	if err := s.checkAdminAccess(ctx, req.TenantID, req.AdminID); err != nil {
		return nil, err
	}

	// 3. Проверка пересечений и вставка
	var created *domain.AvailabilityRule
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.availabilityRepo.GetByTenantAndDay(txCtx, rule.TenantID, rule.DayOfWeek)
		if err != nil {
			return repositoryError(err)
		}

		if len(existing) >= domain.MaxRulesPerDay {
			return fmt.Errorf("%w: at most %d rules per day", ErrInvalidInput, domain.MaxRulesPerDay)
		}

		for _, other := range existing {
			if rule.Overlaps(other) {
				return fmt.Errorf("%w: %s-%s overlaps rule id=%d (%s-%s)", ErrRuleOverlap,
					rule.StartTime, rule.EndTime, other.ID, other.StartTime, other.EndTime)
			}
		}

		created, err = s.availabilityRepo.Create(txCtx, rule)
		if err != nil {
			return repositoryError(err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrRuleOverlap), errors.Is(err, ErrInvalidInput):
			s.logger.Warn("Create: rejected for tenant=%s: %v", req.TenantID, err)
			return nil, err
		case errors.Is(err, txmanager.ErrSerializationFailure):
			// параллельное изменение расписания того же дня, клиент повторяет запрос
			s.logger.Warn("Create: concurrent rule change for tenant=%s: %v", req.TenantID, err)
			return nil, fmt.Errorf("%w: concurrent change of the same day, retry: %w", ErrRuleOverlap, err)
		case errors.Is(err, ErrInternal):
			s.logger.Error("Create: failed for tenant=%s: %v", req.TenantID, err)
			return nil, err
		default:
			s.logger.Error("Create: transaction failed for tenant=%s: %v", req.TenantID, err)
			return nil, fmt.Errorf("%w: Create - transaction failed: %v", ErrInternal, err)
		}
	}

	s.invalidate(ctx, "Create", req.TenantID)

	s.logger.Info("Create: successfully created rule id=%d for tenant=%s", created.ID, created.TenantID)
	return models.FromDomainRule(created), nil
}

// Delete удаляет правило. Существующие бронирования не затрагиваются.
func (s *Service) Delete(ctx context.Context, tenantID uuid.UUID, ruleID int64, adminID string) error {
	s.logger.Info("Delete: deleting rule id=%d for tenant=%s by admin=%s", ruleID, tenantID, adminID)

	if err := s.checkAdminAccess(ctx, tenantID, adminID); err != nil {
		return err
	}

	if err := s.availabilityRepo.Delete(ctx, tenantID, ruleID); err != nil {
		if errors.Is(err, availabilityRepo.ErrRuleNotFound) {
			s.logger.Warn("Delete: rule id=%d not found in tenant=%s", ruleID, tenantID)
			return ErrRuleNotFound
		}
		s.logger.Error("Delete: repository error for rule id=%d: %v", ruleID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "Delete", tenantID)

	s.logger.Info("Delete: successfully deleted rule id=%d", ruleID)
	return nil
}

// repositoryError сохраняет конфликт сериализации, остальное - внутренняя ошибка
func repositoryError(err error) error {
	if errors.Is(err, txmanager.ErrSerializationFailure) {
		return err
	}
	return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
}

func (s *Service) invalidate(ctx context.Context, op string, tenantID uuid.UUID) {
	if err := s.cache.InvalidateTenant(ctx, tenantID); err != nil {
		s.logger.Warn("%s: failed to invalidate slot cache for tenant=%s: %v", op, tenantID, err)
	}
}

func toDomainRule(req *models.CreateRuleRequest) (*domain.AvailabilityRule, error) {
	if req.DayOfWeek == nil || !domain.IsValidDayOfWeek(*req.DayOfWeek) {
		return nil, fmt.Errorf("%w: dayOfWeek must be 0..6", ErrInvalidInput)
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}

	rule := &domain.AvailabilityRule{
		TenantID:  req.TenantID,
		DayOfWeek: *req.DayOfWeek,
		StartTime: start,
		EndTime:   end,
	}
	if !rule.HasValidWindow() {
		return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	return rule, nil
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
