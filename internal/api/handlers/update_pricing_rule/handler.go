package update_pricing_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/barrio-app/Barrio-PricingService/internal/api/handlers"
	"github.com/barrio-app/Barrio-PricingService/internal/service/rules"
	"github.com/barrio-app/Barrio-PricingService/internal/service/rules/models"
)

const (
	msgInvalidRuleID      = "некорректный ID правила"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgRuleNotFound       = "правило не найдено"
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

// Handle PUT /api/v1/pricing-rules/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ruleIDStr := vars["ruleId"]
	ruleID, err := strconv.ParseInt(ruleIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /pricing-rules/{id} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	var req models.UpdateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /pricing-rules/{id} - Invalid request body: rule_id=%d, error=%v", ruleID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), ruleID, &req)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrRuleNotFound):
			h.logger.Warn("PUT /pricing-rules/{id} - Rule not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgRuleNotFound)

		case errors.Is(err, rules.ErrBusinessNotFound):
			h.logger.Warn("PUT /pricing-rules/{id} - Business not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("PUT /pricing-rules/{id} - Access denied: rule_id=%d, user_id=%d", ruleID, req.UserID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, rules.ErrInvalidInput):
			h.logger.Warn("PUT /pricing-rules/{id} - Invalid rule data: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondBadRequest(w, msgInvalidRule)

		default:
			h.logger.Error("PUT /pricing-rules/{id} - Failed to update rule: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /pricing-rules/{id} - Rule updated successfully: rule_id=%d", ruleID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
