package rules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barrio-app/Barrio-PricingService/internal/domain"
	ruleRepo "github.com/barrio-app/Barrio-PricingService/internal/infra/storage/pricingrule"
	"github.com/barrio-app/Barrio-PricingService/internal/integrations/businessservice"
	"github.com/barrio-app/Barrio-PricingService/internal/service/rules/models"
)

// Тестовые дублёры

type fakeRuleRepo struct {
	rules   map[int64]*domain.PricingRule
	nextID  int64
	deleted []int64
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[int64]*domain.PricingRule), nextID: 1}
}

func (f *fakeRuleRepo) Create(ctx context.Context, rule *domain.PricingRule) (*domain.PricingRule, error) {
	created := *rule
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.rules[created.ID] = &created
	f.nextID++
	return &created, nil
}

func (f *fakeRuleRepo) GetByID(ctx context.Context, id int64) (*domain.PricingRule, error) {
	rule, ok := f.rules[id]
	if !ok {
		return nil, ruleRepo.ErrRuleNotFound
	}
	return rule, nil
}

func (f *fakeRuleRepo) GetByBusinessID(ctx context.Context, businessID int64) ([]*domain.PricingRule, error) {
	var result []*domain.PricingRule
	for _, rule := range f.rules {
		if rule.BusinessID == businessID {
			result = append(result, rule)
		}
	}
	return result, nil
}

func (f *fakeRuleRepo) Update(ctx context.Context, id int64, rule *domain.PricingRule) (*domain.PricingRule, error) {
	existing, ok := f.rules[id]
	if !ok {
		return nil, ruleRepo.ErrRuleNotFound
	}
	updated := *rule
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	f.rules[id] = &updated
	return &updated, nil
}

func (f *fakeRuleRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.rules[id]; !ok {
		return ruleRepo.ErrRuleNotFound
	}
	delete(f.rules, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBusinessClient struct {
	business *businessservice.Business
	err      error
}

func (f *fakeBusinessClient) GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.business, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// Фикстуры

const managerID = int64(100)

func barbershop() *businessservice.Business {
	return &businessservice.Business{
		ID:           1,
		Name:         "Barbería El Vecino",
		Neighborhood: "Palermo",
		ManagerIDs:   []int64{managerID},
	}
}

func happyHourRule() models.RuleData {
	return models.RuleData{
		Name:            "Happy hour entre semana",
		DaysOfWeek:      []int{1, 2, 3, 4, 5},
		TimeStart:       "10:00",
		TimeEnd:         "14:00",
		DiscountType:    "percentage",
		DiscountPercent: 20,
		Priority:        10,
		IsActive:        true,
	}
}

func newService(repo *fakeRuleRepo, client *fakeBusinessClient) *Service {
	return NewService(repo, client, nopLogger{})
}

// Create

func TestCreate_ByManager_Succeeds(t *testing.T) {
	repo := newFakeRuleRepo()
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	resp, err := svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID:     managerID,
		BusinessID: 1,
		RuleData:   happyHourRule(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, int64(1), resp.BusinessID)
	assert.Equal(t, "Happy hour entre semana", resp.Name)
	assert.Equal(t, "percentage", resp.DiscountType)
	assert.Equal(t, 20.0, resp.DiscountPercent)
	// Пустой список услуг означает "все услуги" и не превращается в null
	assert.NotNil(t, resp.ServiceIDs)
}

func TestCreate_NotManager_AccessDenied(t *testing.T) {
	svc := newService(newFakeRuleRepo(), &fakeBusinessClient{business: barbershop()})

	_, err := svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID:     999,
		BusinessID: 1,
		RuleData:   happyHourRule(),
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreate_BusinessNotFound(t *testing.T) {
	svc := newService(newFakeRuleRepo(), &fakeBusinessClient{err: businessservice.ErrBusinessNotFound})

	_, err := svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID:     managerID,
		BusinessID: 42,
		RuleData:   happyHourRule(),
	})

	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestCreate_InvalidRule(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.RuleData)
	}{
		{
			name:   "empty name",
			mutate: func(d *models.RuleData) { d.Name = "" },
		},
		{
			name:   "empty daysOfWeek",
			mutate: func(d *models.RuleData) { d.DaysOfWeek = nil },
		},
		{
			name:   "weekday out of range",
			mutate: func(d *models.RuleData) { d.DaysOfWeek = []int{7} },
		},
		{
			name:   "timeStart after timeEnd",
			mutate: func(d *models.RuleData) { d.TimeStart = "15:00"; d.TimeEnd = "14:00" },
		},
		{
			name:   "timeStart equals timeEnd",
			mutate: func(d *models.RuleData) { d.TimeStart = "14:00"; d.TimeEnd = "14:00" },
		},
		{
			name:   "percent above 100",
			mutate: func(d *models.RuleData) { d.DiscountPercent = 150 },
		},
		{
			name:   "unknown discount type",
			mutate: func(d *models.RuleData) { d.DiscountType = "bogus" },
		},
		{
			name: "negative fixed amount",
			mutate: func(d *models.RuleData) {
				d.DiscountType = "fixed"
				d.DiscountAmount = -50
			},
		},
		{
			name: "validFrom after validUntil",
			mutate: func(d *models.RuleData) {
				from := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
				until := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
				d.ValidFrom = &from
				d.ValidUntil = &until
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(newFakeRuleRepo(), &fakeBusinessClient{business: barbershop()})

			data := happyHourRule()
			tt.mutate(&data)

			_, err := svc.Create(context.Background(), &models.CreateRuleRequest{
				UserID:     managerID,
				BusinessID: 1,
				RuleData:   data,
			})

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

// Update

func TestUpdate_ByManager_Succeeds(t *testing.T) {
	repo := newFakeRuleRepo()
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	created, err := svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID:     managerID,
		BusinessID: 1,
		RuleData:   happyHourRule(),
	})
	require.NoError(t, err)

	data := happyHourRule()
	data.DiscountPercent = 30
	data.Priority = 20

	updated, err := svc.Update(context.Background(), created.ID, &models.UpdateRuleRequest{
		UserID:   managerID,
		RuleData: data,
	})

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 30.0, updated.DiscountPercent)
	assert.Equal(t, 20, updated.Priority)
	// BusinessID правила не меняется при обновлении
	assert.Equal(t, created.BusinessID, updated.BusinessID)
}

func TestUpdate_RuleNotFound(t *testing.T) {
	svc := newService(newFakeRuleRepo(), &fakeBusinessClient{business: barbershop()})

	_, err := svc.Update(context.Background(), 999, &models.UpdateRuleRequest{
		UserID:   managerID,
		RuleData: happyHourRule(),
	})

	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestUpdate_NotManager_AccessDenied(t *testing.T) {
	repo := newFakeRuleRepo()
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	created, err := svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID:     managerID,
		BusinessID: 1,
		RuleData:   happyHourRule(),
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, &models.UpdateRuleRequest{
		UserID:   999,
		RuleData: happyHourRule(),
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

// Delete

func TestDelete_ByManager_Succeeds(t *testing.T) {
	repo := newFakeRuleRepo()
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	created, err := svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID:     managerID,
		BusinessID: 1,
		RuleData:   happyHourRule(),
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), created.ID, managerID)

	require.NoError(t, err)
	assert.Contains(t, repo.deleted, created.ID)
}

func TestDelete_NotManager_AccessDenied(t *testing.T) {
	repo := newFakeRuleRepo()
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	created, err := svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID:     managerID,
		BusinessID: 1,
		RuleData:   happyHourRule(),
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), created.ID, 999)

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.deleted)
}

func TestDelete_RuleNotFound(t *testing.T) {
	svc := newService(newFakeRuleRepo(), &fakeBusinessClient{business: barbershop()})

	err := svc.Delete(context.Background(), 999, managerID)

	assert.ErrorIs(t, err, ErrRuleNotFound)
}

// GetBusinessRules

func TestGetBusinessRules_ReturnsOnlyBusinessRules(t *testing.T) {
	repo := newFakeRuleRepo()
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	_, err := svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID:     managerID,
		BusinessID: 1,
		RuleData:   happyHourRule(),
	})
	require.NoError(t, err)

	// Правило другого бизнеса напрямую в репозитории
	other := happyHourRule()
	otherRule, err := other.ToDomainRule(2)
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), otherRule)
	require.NoError(t, err)

	resp, err := svc.GetBusinessRules(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, resp.Rules, 1)
	assert.Equal(t, int64(1), resp.Rules[0].BusinessID)
}
