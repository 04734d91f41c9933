package models

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
)

// UpdateSettingsRequest запрос на обновление настроек тенанта
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	AdminID               string    `json:"-"`
	Timezone              *string   `json:"timezone,omitempty"`
	MinBookingNoticeHours *int      `json:"minBookingNoticeHours,omitempty" validate:"omitempty,min=0,max=720"`
	AllowedBookingTypes   *[]string `json:"allowedBookingTypes,omitempty" validate:"omitempty,max=20,dive,required,max=64"`
	MaxAttendees          *int      `json:"maxAttendees,omitempty" validate:"omitempty,min=1,max=100"`
}

// ApplyToSettings применяет обновления к настройкам
func (r *UpdateSettingsRequest) ApplyToSettings(s *domain.TenantSettings) {
	if r.Timezone != nil {
		s.Timezone = *r.Timezone
	}
	if r.MinBookingNoticeHours != nil {
		s.MinBookingNoticeHours = *r.MinBookingNoticeHours
	}
	if r.AllowedBookingTypes != nil {
		s.AllowedBookingTypes = append([]string(nil), (*r.AllowedBookingTypes)...)
	}
	if r.MaxAttendees != nil {
		s.MaxAttendees = *r.MaxAttendees
	}
}

// SettingsResponse настройки тенанта для администратора
type SettingsResponse struct {
	TenantID              uuid.UUID `json:"tenantId"`
	Timezone              string    `json:"timezone"`
	MinBookingNoticeHours int       `json:"minBookingNoticeHours"`
	AllowedBookingTypes   []string  `json:"allowedBookingTypes"`
	MaxAttendees          int       `json:"maxAttendees"`
}

// WidgetResponse публичные данные для встраиваемого виджета
type WidgetResponse struct {
	TenantID              uuid.UUID `json:"tenantId"`
	Name                  string    `json:"name"`
	Timezone              string    `json:"timezone"`
	MinBookingNoticeHours int       `json:"minBookingNoticeHours"`
	AllowedBookingTypes   []string  `json:"allowedBookingTypes"`
	MaxAttendees          int       `json:"maxAttendees"`
}

// FromDomainSettings конвертирует настройки в DTO
func FromDomainSettings(tenantID uuid.UUID, s *domain.TenantSettings) *SettingsResponse {
	return &SettingsResponse{
		TenantID:              tenantID,
		Timezone:              s.Timezone,
		MinBookingNoticeHours: s.MinBookingNoticeHours,
		AllowedBookingTypes:   nonNil(s.AllowedBookingTypes),
		MaxAttendees:          s.MaxAttendees,
	}
}

// FromDomainTenant конвертирует тенанта в публичный DTO виджета
func FromDomainTenant(t *domain.Tenant) *WidgetResponse {
	return &WidgetResponse{
		TenantID:              t.ID,
		Name:                  t.Name,
		Timezone:              t.Settings.Timezone,
		MinBookingNoticeHours: t.Settings.MinBookingNoticeHours,
		AllowedBookingTypes:   nonNil(t.Settings.AllowedBookingTypes),
		MaxAttendees:          t.Settings.MaxAttendees,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
