package get_price_quote

import (
	"time"

	"github.com/barrio-app/Barrio-PricingService/internal/domain"
	getPriceQuote "github.com/barrio-app/Barrio-PricingService/internal/usecase/get_price_quote"
	"github.com/barrio-app/Barrio-PricingService/pkg/types"
)

// PriceQuoteResponse HTTP response model
type PriceQuoteResponse struct {
	BusinessID      int64   `json:"businessId"`
	ServiceID       int64   `json:"serviceId"`
	ServiceName     string  `json:"serviceName"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	OriginalPrice   float64 `json:"originalPrice"`
	DiscountedPrice float64 `json:"discountedPrice"`
	DiscountPercent float64 `json:"discountPercent"`
	AppliedRuleID   *int64  `json:"appliedRuleId,omitempty"`
	AppliedRuleName *string `json:"appliedRuleName,omitempty"`
}

// ToUseCaseRequest создает запрос use case из параметров запроса
// Дата и время валидируются здесь один раз - дальше по слоям идут типизированные значения
func ToUseCaseRequest(businessID, serviceID int64, dateStr, timeStr string) (*getPriceQuote.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	timeOfDay, err := types.NewTimeStringFromString(timeStr)
	if err != nil {
		return nil, err
	}

	return &getPriceQuote.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		Date:       date,
		TimeOfDay:  timeOfDay,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getPriceQuote.Response) *PriceQuoteResponse {
	return &PriceQuoteResponse{
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		ServiceName:     resp.ServiceName,
		Date:            resp.Date.Format(domain.DateFormat),
		Time:            resp.TimeOfDay.String(),
		OriginalPrice:   resp.OriginalPrice,
		DiscountedPrice: resp.DiscountedPrice,
		DiscountPercent: resp.DiscountPercent,
		AppliedRuleID:   resp.AppliedRuleID,
		AppliedRuleName: resp.AppliedRuleName,
	}
}
