package update_pricing_rule

import (
	"context"

	"github.com/barrio-app/Barrio-PricingService/internal/service/rules/models"
)

type RulesService interface {
	Update(ctx context.Context, ruleID int64, req *models.UpdateRuleRequest) (*models.RuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
