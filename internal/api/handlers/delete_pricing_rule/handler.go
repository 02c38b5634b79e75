package delete_pricing_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/barrio-app/Barrio-PricingService/internal/api/handlers"
	"github.com/barrio-app/Barrio-PricingService/internal/api/middleware"
	"github.com/barrio-app/Barrio-PricingService/internal/service/rules"
)

const (
	msgInvalidRuleID    = "некорректный ID правила"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgRuleNotFound     = "правило не найдено"
	msgBusinessNotFound = "бизнес не найден"
	msgAccessDenied     = "доступ запрещён: требуются права менеджера"
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

// Handle DELETE /api/v1/pricing-rules/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ruleIDStr := vars["ruleId"]
	ruleID, err := strconv.ParseInt(ruleIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /pricing-rules/{id} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	// Извлекаем userID из контекста (установлен middleware)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /pricing-rules/{id} - Missing user ID in context: rule_id=%d", ruleID)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Delete(r.Context(), ruleID, userID); err != nil {
		switch {
		case errors.Is(err, rules.ErrRuleNotFound):
			h.logger.Warn("DELETE /pricing-rules/{id} - Rule not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgRuleNotFound)

		case errors.Is(err, rules.ErrBusinessNotFound):
			h.logger.Warn("DELETE /pricing-rules/{id} - Business not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("DELETE /pricing-rules/{id} - Access denied: rule_id=%d, user_id=%d", ruleID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("DELETE /pricing-rules/{id} - Failed to delete rule: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /pricing-rules/{id} - Rule deleted successfully: rule_id=%d, user_id=%d", ruleID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
