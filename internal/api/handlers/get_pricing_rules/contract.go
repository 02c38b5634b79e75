package get_pricing_rules

import (
	"context"

	"github.com/barrio-app/Barrio-PricingService/internal/service/rules/models"
)

type RulesService interface {
	GetBusinessRules(ctx context.Context, businessID int64) (*models.RuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
