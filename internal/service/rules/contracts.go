package rules

import (
	"context"

	"github.com/barrio-app/Barrio-PricingService/internal/domain"
	"github.com/barrio-app/Barrio-PricingService/internal/integrations/businessservice"
)

// RuleRepository интерфейс репозитория правил ценообразования
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.PricingRule) (*domain.PricingRule, error)
	GetByID(ctx context.Context, id int64) (*domain.PricingRule, error)
	GetByBusinessID(ctx context.Context, businessID int64) ([]*domain.PricingRule, error)
	Update(ctx context.Context, id int64, rule *domain.PricingRule) (*domain.PricingRule, error)
	Delete(ctx context.Context, id int64) error
}

// BusinessServiceClient интерфейс клиента для BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
