package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/barrio-app/Barrio-PricingService/internal/domain"
	ruleRepo "github.com/barrio-app/Barrio-PricingService/internal/infra/storage/pricingrule"
	businessClient "github.com/barrio-app/Barrio-PricingService/internal/integrations/businessservice"
	"github.com/barrio-app/Barrio-PricingService/internal/service/rules/models"
)

// Service сервис для управления правилами динамического ценообразования
type Service struct {
	ruleRepo       RuleRepository
	businessClient BusinessServiceClient
	logger         Logger
}

// NewService создает новый экземпляр сервиса правил
func NewService(
	ruleRepo RuleRepository,
	businessClient BusinessServiceClient,
	logger Logger,
) *Service {
	return &Service{
		ruleRepo:       ruleRepo,
		businessClient: businessClient,
		logger:         logger,
	}
}

// Create создает новое правило ценообразования
// Доступно только менеджерам бизнеса
func (s *Service) Create(ctx context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Create: creating rule %q for business=%d by user=%d", req.Name, req.BusinessID, req.UserID)

	if err := s.checkManagerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	rule, err := req.ToDomainRule(req.BusinessID)
	if err != nil {
		s.logger.Warn("Create: invalid discount type=%s for business=%d", req.DiscountType, req.BusinessID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := validateRule(rule); err != nil {
		s.logger.Warn("Create: invalid rule for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.ruleRepo.Create(ctx, rule)
	if err != nil {
		s.logger.Error("Create: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created rule id=%d for business=%d", created.ID, req.BusinessID)
	return models.FromDomainRule(created), nil
}

// GetByID получает правило по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.RuleResponse, error) {
	s.logger.Info("GetByID: fetching rule id=%d", id)

	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("GetByID: rule id=%d not found", id)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("GetByID: repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRule(rule), nil
}

// GetBusinessRules получает все правила бизнеса (включая неактивные)
// Список публичный - клиенты могут видеть действующие акции заранее
func (s *Service) GetBusinessRules(ctx context.Context, businessID int64) (*models.RuleListResponse, error) {
	s.logger.Info("GetBusinessRules: fetching rules for business=%d", businessID)

	rules, err := s.ruleRepo.GetByBusinessID(ctx, businessID)
	if err != nil {
		s.logger.Error("GetBusinessRules: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetBusinessRules - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessRules: successfully fetched %d rules for business=%d", len(rules), businessID)
	return models.FromDomainRuleList(rules), nil
}

// Update обновляет правило ценообразования
// Доступно только менеджерам бизнеса-владельца правила
func (s *Service) Update(ctx context.Context, ruleID int64, req *models.UpdateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Update: updating rule id=%d by user=%d", ruleID, req.UserID)

	existing, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Update: rule id=%d not found", ruleID)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("Update: repository error for rule id=%d: %v", ruleID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, existing.BusinessID, req.UserID); err != nil {
		s.logger.Warn("Update: access denied for user=%d to rule id=%d", req.UserID, ruleID)
		return nil, err
	}

	rule, err := req.ToDomainRule(existing.BusinessID)
	if err != nil {
		s.logger.Warn("Update: invalid discount type=%s for rule id=%d", req.DiscountType, ruleID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := validateRule(rule); err != nil {
		s.logger.Warn("Update: invalid rule id=%d: %v", ruleID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updated, err := s.ruleRepo.Update(ctx, ruleID, rule)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Update: rule id=%d not found during update", ruleID)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("Update: repository error for rule id=%d: %v", ruleID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated rule id=%d", ruleID)
	return models.FromDomainRule(updated), nil
}

// Delete удаляет правило ценообразования
// Доступно только менеджерам бизнеса-владельца правила
func (s *Service) Delete(ctx context.Context, ruleID int64, userID int64) error {
	s.logger.Info("Delete: deleting rule id=%d by user=%d", ruleID, userID)

	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Delete: rule id=%d not found", ruleID)
			return ErrRuleNotFound
		}
		s.logger.Error("Delete: repository error for rule id=%d: %v", ruleID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, rule.BusinessID, userID); err != nil {
		s.logger.Warn("Delete: access denied for user=%d to rule id=%d", userID, ruleID)
		return err
	}

	if err := s.ruleRepo.Delete(ctx, ruleID); err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			return ErrRuleNotFound
		}
		s.logger.Error("Delete: repository error for rule id=%d: %v", ruleID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted rule id=%d", ruleID)
	return nil
}

// Вспомогательные методы

// checkManagerAccess проверяет, что пользователь является менеджером бизнеса
func (s *Service) checkManagerAccess(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.businessClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessClient.ErrBusinessNotFound) {
			s.logger.Warn("checkManagerAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get business: %v", ErrInternal, err)
	}

	if !business.IsManager(userID) {
		s.logger.Warn("checkManagerAccess: user=%d is not a manager of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	return nil
}

// validateRule проверяет бизнес-инварианты правила
func validateRule(rule *domain.PricingRule) error {
	if len(rule.Name) < domain.MinRuleNameLength || len(rule.Name) > domain.MaxRuleNameLength {
		return fmt.Errorf("rule name length must be in [%d, %d]", domain.MinRuleNameLength, domain.MaxRuleNameLength)
	}

	if len(rule.DaysOfWeek) == 0 {
		return errors.New("daysOfWeek must not be empty")
	}
	for _, day := range rule.DaysOfWeek {
		if day < domain.MinWeekday || day > domain.MaxWeekday {
			return fmt.Errorf("weekday must be in [%d, %d], got %d", domain.MinWeekday, domain.MaxWeekday, day)
		}
	}

	if err := rule.TimeStart.Validate(); err != nil {
		return fmt.Errorf("invalid timeStart: %v", err)
	}
	if err := rule.TimeEnd.Validate(); err != nil {
		return fmt.Errorf("invalid timeEnd: %v", err)
	}
	if !rule.TimeStart.IsBefore(rule.TimeEnd) {
		return errors.New("timeStart must be before timeEnd")
	}

	if rule.ValidFrom != nil && rule.ValidUntil != nil && rule.ValidFrom.After(*rule.ValidUntil) {
		return errors.New("validFrom must not be after validUntil")
	}

	switch rule.DiscountType {
	case domain.DiscountPercentage:
		if rule.DiscountPercent < domain.MinDiscountPercent || rule.DiscountPercent > domain.MaxDiscountPercent {
			return fmt.Errorf("discountPercent must be in [%d, %d]", domain.MinDiscountPercent, domain.MaxDiscountPercent)
		}
	case domain.DiscountFixed:
		if rule.DiscountAmount < 0 {
			return errors.New("discountAmount must not be negative")
		}
	}

	return nil
}
