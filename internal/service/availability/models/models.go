package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EmbedBooking/internal/domain"
)

// CreateRuleRequest запрос на создание правила доступности
type CreateRuleRequest struct {
	AdminID   string    `json:"-"`
	TenantID  uuid.UUID `json:"-"`
	DayOfWeek *int      `json:"dayOfWeek" validate:"required,min=0,max=6"` // 0 = воскресенье
	StartTime string    `json:"startTime" validate:"required"`             // "09:00"
	EndTime   string    `json:"endTime" validate:"required"`               // "17:00"
}

// RuleResponse ответ с данными правила
type RuleResponse struct {
	ID        int64     `json:"id"`
	TenantID  uuid.UUID `json:"tenantId"`
	DayOfWeek int       `json:"dayOfWeek"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	CreatedAt time.Time `json:"createdAt"`
}

// RuleListResponse ответ со списком правил
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.AvailabilityRule) *RuleResponse {
	if r == nil {
		return nil
	}
	return &RuleResponse{
		ID:        r.ID,
		TenantID:  r.TenantID,
		DayOfWeek: r.DayOfWeek,
		StartTime: r.StartTime.String(),
		EndTime:   r.EndTime.String(),
		CreatedAt: r.CreatedAt,
	}
}

// FromDomainRuleList конвертирует список правил в DTO
func FromDomainRuleList(rules []*domain.AvailabilityRule) *RuleListResponse {
	result := make([]RuleResponse, 0, len(rules))
	for _, r := range rules {
		result = append(result, *FromDomainRule(r))
	}
	return &RuleListResponse{Rules: result}
}
