package create_pricing_rule

import (
	"errors"
	"net/http"

	"github.com/barrio-app/Barrio-PricingService/internal/api/handlers"
	"github.com/barrio-app/Barrio-PricingService/internal/service/rules"
	"github.com/barrio-app/Barrio-PricingService/internal/service/rules/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBusinessNotFound   = "бизнес не найден"
	msgAccessDenied       = "доступ запрещён: требуются права менеджера"
	msgInvalidRule        = "некорректные данные правила"
)

type Handler struct {
	service RulesService
	logger  Logger
}

func NewHandler(service RulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/pricing-rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /pricing-rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrBusinessNotFound):
			h.logger.Warn("POST /pricing-rules - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("POST /pricing-rules - Access denied: user_id=%d, business_id=%d",
				req.UserID, req.BusinessID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, rules.ErrInvalidInput):
			h.logger.Warn("POST /pricing-rules - Invalid rule data: business_id=%d, error=%v",
				req.BusinessID, err)
			handlers.RespondBadRequest(w, msgInvalidRule)

		default:
			h.logger.Error("POST /pricing-rules - Failed to create rule: business_id=%d, error=%v",
				req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /pricing-rules - Rule created successfully: rule_id=%d, business_id=%d",
		result.ID, req.BusinessID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
