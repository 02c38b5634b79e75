package get_price_quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/barrio-app/Barrio-PricingService/internal/domain"
	businessClient "github.com/barrio-app/Barrio-PricingService/internal/integrations/businessservice"
)

// UseCase use case расчёта динамической цены услуги
type UseCase struct {
	ruleRepo       RuleRepository
	businessClient BusinessServiceClient
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ruleRepo RuleRepository,
	businessClient BusinessServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		ruleRepo:       ruleRepo,
		businessClient: businessClient,
		logger:         logger,
	}
}

// Execute выполняет расчёт цены услуги на указанные дату и время
// Применяется не более одного правила - с наибольшим приоритетом среди подходящих
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetPriceQuote: business=%d, service=%d, date=%s, time=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.TimeOfDay)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetPriceQuote: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу с базовой ценой
	service, err := uc.businessClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, businessClient.ErrServiceNotFound) {
			uc.logger.Warn("GetPriceQuote: service id=%d not found in business id=%d", req.ServiceID, req.BusinessID)
			return nil, ErrServiceNotFound
		}
		if errors.Is(err, businessClient.ErrBusinessNotFound) {
			uc.logger.Warn("GetPriceQuote: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetPriceQuote: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("GetPriceQuote: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 3. Получаем активные правила бизнеса
	rules, err := uc.ruleRepo.GetActiveByBusinessID(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetPriceQuote: failed to get rules for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}

	// 4. Оставляем только правила, применимые к запрошенной услуге
	applicable := make([]*domain.PricingRule, 0, len(rules))
	for _, rule := range rules {
		if rule.AppliesToService(req.ServiceID) {
			applicable = append(applicable, rule)
		}
	}

	// 5. Запускаем движок расчёта цены
	computed := domain.ComputePrice(service.BasePrice, applicable, req.Date, req.TimeOfDay)

	if computed.HasDiscount() {
		uc.logger.Info("GetPriceQuote: applied rule id=%d, price %.2f -> %.2f",
			*computed.AppliedRuleID, computed.OriginalPrice, computed.DiscountedPrice)
	} else {
		uc.logger.Info("GetPriceQuote: no applicable rule, price %.2f", computed.OriginalPrice)
	}

	return &Response{
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		ServiceName:     service.Name,
		Date:            req.Date,
		TimeOfDay:       req.TimeOfDay,
		OriginalPrice:   computed.OriginalPrice,
		DiscountedPrice: computed.DiscountedPrice,
		DiscountPercent: computed.DiscountPercent,
		AppliedRuleID:   computed.AppliedRuleID,
		AppliedRuleName: computed.RuleName,
	}, nil
}
