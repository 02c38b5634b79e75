package get_price_quote

import (
	"context"

	"github.com/barrio-app/Barrio-PricingService/internal/domain"
	"github.com/barrio-app/Barrio-PricingService/internal/integrations/businessservice"
)

// RuleRepository интерфейс репозитория правил ценообразования
type RuleRepository interface {
	GetActiveByBusinessID(ctx context.Context, businessID int64) ([]*domain.PricingRule, error)
}

// BusinessServiceClient интерфейс клиента для BusinessService
type BusinessServiceClient interface {
	GetService(ctx context.Context, businessID, serviceID int64) (*businessservice.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
