package models

import (
	"errors"
	"time"

	"github.com/barrio-app/Barrio-PricingService/internal/domain"
	"github.com/barrio-app/Barrio-PricingService/pkg/types"
)

var (
	// ErrInvalidDiscountType возвращается при некорректном типе скидки
	ErrInvalidDiscountType = errors.New("invalid discount type")
)

// Request модели

// RuleData общие поля правила для создания и обновления
type RuleData struct {
	Name            string           `json:"name"`
	ServiceIDs      []int64          `json:"serviceIds,omitempty"` // Пустой список = все услуги бизнеса
	DaysOfWeek      []int            `json:"daysOfWeek"`           // 0=воскресенье .. 6=суббота
	TimeStart       types.TimeString `json:"timeStart"`            // "10:00"
	TimeEnd         types.TimeString `json:"timeEnd"`              // "14:00"
	ValidFrom       *time.Time       `json:"validFrom,omitempty"`
	ValidUntil      *time.Time       `json:"validUntil,omitempty"`
	DiscountType    string           `json:"discountType"` // "percentage" | "fixed"
	DiscountPercent float64          `json:"discountPercent,omitempty"`
	DiscountAmount  float64          `json:"discountAmount,omitempty"`
	Priority        int              `json:"priority"`
	IsActive        bool             `json:"isActive"`
}

// CreateRuleRequest запрос на создание правила ценообразования
type CreateRuleRequest struct {
	UserID     int64 `json:"userId"`
	BusinessID int64 `json:"businessId"`
	RuleData
}

// UpdateRuleRequest запрос на обновление правила ценообразования
type UpdateRuleRequest struct {
	UserID int64 `json:"userId"`
	RuleData
}

// ToDomainRule конвертирует данные запроса в domain модель
func (d *RuleData) ToDomainRule(businessID int64) (*domain.PricingRule, error) {
	discountType, err := ToDomainDiscountType(d.DiscountType)
	if err != nil {
		return nil, err
	}

	serviceIDs := d.ServiceIDs
	if serviceIDs == nil {
		serviceIDs = []int64{}
	}

	return &domain.PricingRule{
		BusinessID:      businessID,
		Name:            d.Name,
		ServiceIDs:      serviceIDs,
		DaysOfWeek:      d.DaysOfWeek,
		TimeStart:       d.TimeStart,
		TimeEnd:         d.TimeEnd,
		ValidFrom:       d.ValidFrom,
		ValidUntil:      d.ValidUntil,
		DiscountType:    discountType,
		DiscountPercent: d.DiscountPercent,
		DiscountAmount:  d.DiscountAmount,
		Priority:        d.Priority,
		IsActive:        d.IsActive,
	}, nil
}

// Response модели

// RuleResponse ответ с данными правила
type RuleResponse struct {
	ID              int64   `json:"id"`
	BusinessID      int64   `json:"businessId"`
	Name            string  `json:"name"`
	ServiceIDs      []int64 `json:"serviceIds"`
	DaysOfWeek      []int   `json:"daysOfWeek"`
	TimeStart       string  `json:"timeStart"`
	TimeEnd         string  `json:"timeEnd"`
	ValidFrom       *string `json:"validFrom,omitempty"`  // "2025-10-01"
	ValidUntil      *string `json:"validUntil,omitempty"` // "2025-10-31"
	DiscountType    string  `json:"discountType"`
	DiscountPercent float64 `json:"discountPercent"`
	DiscountAmount  float64 `json:"discountAmount"`
	Priority        int     `json:"priority"`
	IsActive        bool    `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RuleListResponse ответ со списком правил
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// Методы конвертации

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.PricingRule) *RuleResponse {
	if r == nil {
		return nil
	}

	resp := &RuleResponse{
		ID:              r.ID,
		BusinessID:      r.BusinessID,
		Name:            r.Name,
		ServiceIDs:      r.ServiceIDs,
		DaysOfWeek:      r.DaysOfWeek,
		TimeStart:       r.TimeStart.String(),
		TimeEnd:         r.TimeEnd.String(),
		DiscountType:    string(r.DiscountType),
		DiscountPercent: r.DiscountPercent,
		DiscountAmount:  r.DiscountAmount,
		Priority:        r.Priority,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}

	if resp.ServiceIDs == nil {
		resp.ServiceIDs = []int64{}
	}

	if r.ValidFrom != nil {
		from := r.ValidFrom.Format(domain.DateFormat)
		resp.ValidFrom = &from
	}
	if r.ValidUntil != nil {
		until := r.ValidUntil.Format(domain.DateFormat)
		resp.ValidUntil = &until
	}

	return resp
}

// FromDomainRuleList конвертирует список domain моделей в DTO
func FromDomainRuleList(rules []*domain.PricingRule) *RuleListResponse {
	resp := &RuleListResponse{
		Rules: make([]RuleResponse, 0, len(rules)),
	}

	for _, rule := range rules {
		if ruleResp := FromDomainRule(rule); ruleResp != nil {
			resp.Rules = append(resp.Rules, *ruleResp)
		}
	}

	return resp
}

// ToDomainDiscountType конвертирует строку в domain.DiscountType с валидацией
func ToDomainDiscountType(discountType string) (domain.DiscountType, error) {
	t := domain.DiscountType(discountType)

	for _, valid := range domain.ValidDiscountTypes {
		if t == valid {
			return t, nil
		}
	}

	return "", ErrInvalidDiscountType
}
