package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
	tenantRepo "github.com/m04kA/SMC-EmbedBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-EmbedBooking/internal/service/tenant/models"
	"github.com/m04kA/SMC-EmbedBooking/internal/timeutil"
)

// Service сервис настроек тенанта
type Service struct {
	tenantRepo TenantRepository
	cache      SlotCache
	logger     Logger
}

// NewService создает новый экземпляр сервиса тенантов
func NewService(tenantRepo TenantRepository, cache SlotCache, logger Logger) *Service {
	return &Service{
		tenantRepo: tenantRepo,
		cache:      cache,
		logger:     logger,
	}
}

// GetWidget публичные настройки для виджета, без авторизации
func (s *Service) GetWidget(ctx context.Context, tenantID uuid.UUID) (*models.WidgetResponse, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("GetWidget: tenant id=%s not found", tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("GetWidget: repository error for tenant id=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetWidget - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTenant(tenant), nil
}

// GetSettings настройки тенанта для администратора
func (s *Service) GetSettings(ctx context.Context, tenantID uuid.UUID, adminID string) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: fetching settings for tenant=%s by admin=%s", tenantID, adminID)

	if err := s.checkAdminAccess(ctx, tenantID, adminID); err != nil {
		return nil, err
	}

	settings, err := s.getSettings(ctx, "GetSettings", tenantID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainSettings(tenantID, settings), nil
}

// UpdateSettings частично обновляет настройки тенанта
func (s *Service) UpdateSettings(ctx context.Context, tenantID uuid.UUID, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating settings for tenant=%s by admin=%s", tenantID, req.AdminID)

	// 1. Проверяем права доступа
	if err := s.checkAdminAccess(ctx, tenantID, req.AdminID); err != nil {
		return nil, err
	}

	// 2. Получаем текущие настройки
	settings, err := s.getSettings(ctx, "UpdateSettings", tenantID)
	if err != nil {
		return nil, err
	}

	// 3. Применяем обновления к копии и валидируем
	updated := *settings
	req.ApplyToSettings(&updated)
	if err := validateSettings(&updated); err != nil {
		s.logger.Warn("UpdateSettings: validation failed for tenant=%s: %v", tenantID, err)
		return nil, err
	}

	// 4. Сохраняем
	if err := s.tenantRepo.UpdateSettings(ctx, tenantID, updated); err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			return nil, ErrTenantNotFound
		}
		s.logger.Error("UpdateSettings: repository error for tenant=%s: %v", tenantID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	// 5. Часовой пояс и срок уведомления меняют слоты на все даты
	if err := s.cache.InvalidateTenant(ctx, tenantID); err != nil {
		s.logger.Warn("UpdateSettings: failed to invalidate slot cache for tenant=%s: %v", tenantID, err)
	}

	s.logger.Info("UpdateSettings: successfully updated settings for tenant=%s", tenantID)
	return models.FromDomainSettings(tenantID, &updated), nil
}

func (s *Service) getSettings(ctx context.Context, op string, tenantID uuid.UUID) (*domain.TenantSettings, error) {
	settings, err := s.tenantRepo.GetSettings(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			s.logger.Warn("%s: tenant id=%s not found", op, tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("%s: repository error for tenant id=%s: %v", op, tenantID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return settings, nil
}

func validateSettings(settings *domain.TenantSettings) error {
	if _, err := timeutil.LoadLocation(settings.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, settings.Timezone)
	}

	if settings.MinBookingNoticeHours < domain.MinBookingNoticeHours ||
		settings.MinBookingNoticeHours > domain.MaxBookingNoticeHours {
		return fmt.Errorf("%w: minBookingNoticeHours must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeHours, domain.MaxBookingNoticeHours)
	}

	if settings.MaxAttendees < domain.MinAttendees || settings.MaxAttendees > domain.MaxAttendeesLimit {
		return fmt.Errorf("%w: maxAttendees must be between %d and %d",
			ErrInvalidInput, domain.MinAttendees, domain.MaxAttendeesLimit)
	}

	if len(settings.AllowedBookingTypes) > domain.MaxAllowedBookingTypes {
		return fmt.Errorf("%w: at most %d booking types allowed", ErrInvalidInput, domain.MaxAllowedBookingTypes)
	}
	seen := make(map[string]struct{}, len(settings.AllowedBookingTypes))
	for _, t := range settings.AllowedBookingTypes {
		if strings.TrimSpace(t) == "" || len(t) > domain.MaxBookingTypeLength {
			return fmt.Errorf("%w: invalid booking type %q", ErrInvalidInput, t)
		}
		if _, dup := seen[t]; dup {
			return fmt.Errorf("%w: duplicate booking type %q", ErrInvalidInput, t)
		}
		seen[t] = struct{}{}
	}

	return nil
}

// checkAdminAccess проверяет, что администратор управляет тенантом
func (s *Service) checkAdminAccess(ctx context.Context, tenantID uuid.UUID, adminID string) error {
	if adminID == "" {
		return ErrAccessDenied
	}

	ok, err := s.tenantRepo.IsAdmin(ctx, tenantID, adminID)
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
