package get_price_quote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barrio-app/Barrio-PricingService/internal/domain"
	"github.com/barrio-app/Barrio-PricingService/internal/integrations/businessservice"
	"github.com/barrio-app/Barrio-PricingService/pkg/ptr"
	"github.com/barrio-app/Barrio-PricingService/pkg/types"
)

// Тестовые дублёры

type fakeRuleRepo struct {
	rules []*domain.PricingRule
	err   error
}

func (f *fakeRuleRepo) GetActiveByBusinessID(ctx context.Context, businessID int64) ([]*domain.PricingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rules, nil
}

type fakeBusinessClient struct {
	service *businessservice.Service
	err     error
}

func (f *fakeBusinessClient) GetService(ctx context.Context, businessID, serviceID int64) (*businessservice.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// 15 октября 2025 - среда (weekday = 3)
var wednesday = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

func newUseCase(repo RuleRepository, client BusinessServiceClient) *UseCase {
	return NewUseCase(repo, client, nopLogger{})
}

func haircut(price float64) *businessservice.Service {
	return &businessservice.Service{
		ID:              10,
		BusinessID:      1,
		Name:            "Corte de pelo",
		BasePrice:       price,
		DurationMinutes: 30,
		IsActive:        true,
	}
}

func TestExecute_NoRules_ReturnsBasePrice(t *testing.T) {
	uc := newUseCase(&fakeRuleRepo{}, &fakeBusinessClient{service: haircut(500)})

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       wednesday,
		TimeOfDay:  "12:00",
	})

	require.NoError(t, err)
	assert.Equal(t, 500.0, resp.OriginalPrice)
	assert.Equal(t, 500.0, resp.DiscountedPrice)
	assert.Zero(t, resp.DiscountPercent)
	assert.Nil(t, resp.AppliedRuleID)
	assert.Nil(t, resp.AppliedRuleName)
	assert.Equal(t, "Corte de pelo", resp.ServiceName)
}

func TestExecute_MatchingRule_AppliesDiscount(t *testing.T) {
	repo := &fakeRuleRepo{rules: []*domain.PricingRule{
		{
			ID:              7,
			BusinessID:      1,
			Name:            "Happy hour",
			DaysOfWeek:      []int{3},
			TimeStart:       "10:00",
			TimeEnd:         "14:00",
			DiscountType:    domain.DiscountPercentage,
			DiscountPercent: 20,
			Priority:        1,
			IsActive:        true,
		},
	}}
	uc := newUseCase(repo, &fakeBusinessClient{service: haircut(500)})

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       wednesday,
		TimeOfDay:  "12:00",
	})

	require.NoError(t, err)
	assert.Equal(t, 500.0, resp.OriginalPrice)
	assert.Equal(t, 400.0, resp.DiscountedPrice)
	assert.Equal(t, 20.0, resp.DiscountPercent)
	require.NotNil(t, resp.AppliedRuleID)
	assert.Equal(t, int64(7), *resp.AppliedRuleID)
	require.NotNil(t, resp.AppliedRuleName)
	assert.Equal(t, "Happy hour", *resp.AppliedRuleName)
}

func TestExecute_RuleForOtherService_Skipped(t *testing.T) {
	repo := &fakeRuleRepo{rules: []*domain.PricingRule{
		{
			ID:              8,
			BusinessID:      1,
			Name:            "Solo barba",
			ServiceIDs:      []int64{99},
			DaysOfWeek:      []int{3},
			TimeStart:       "00:00",
			TimeEnd:         "23:59",
			DiscountType:    domain.DiscountPercentage,
			DiscountPercent: 50,
			Priority:        10,
			IsActive:        true,
		},
	}}
	uc := newUseCase(repo, &fakeBusinessClient{service: haircut(500)})

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       wednesday,
		TimeOfDay:  "12:00",
	})

	require.NoError(t, err)
	assert.Equal(t, 500.0, resp.DiscountedPrice)
	assert.Nil(t, resp.AppliedRuleID)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newUseCase(&fakeRuleRepo{}, &fakeBusinessClient{err: businessservice.ErrServiceNotFound})

	_, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       wednesday,
		TimeOfDay:  "12:00",
	})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_BusinessNotFound(t *testing.T) {
	uc := newUseCase(&fakeRuleRepo{}, &fakeBusinessClient{err: businessservice.ErrBusinessNotFound})

	_, err := uc.Execute(context.Background(), &Request{
		BusinessID: 42,
		ServiceID:  10,
		Date:       wednesday,
		TimeOfDay:  "12:00",
	})

	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_InactiveService(t *testing.T) {
	service := haircut(500)
	service.IsActive = false
	uc := newUseCase(&fakeRuleRepo{}, &fakeBusinessClient{service: service})

	_, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       wednesday,
		TimeOfDay:  "12:00",
	})

	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_Validation(t *testing.T) {
	uc := newUseCase(&fakeRuleRepo{}, &fakeBusinessClient{service: haircut(500)})

	tests := []struct {
		name string
		req  *Request
	}{
		{"zero business id", &Request{ServiceID: 10, Date: wednesday, TimeOfDay: "12:00"}},
		{"zero service id", &Request{BusinessID: 1, Date: wednesday, TimeOfDay: "12:00"}},
		{"missing date", &Request{BusinessID: 1, ServiceID: 10, TimeOfDay: "12:00"}},
		{"missing time", &Request{BusinessID: 1, ServiceID: 10, Date: wednesday}},
		{"malformed time", &Request{BusinessID: 1, ServiceID: 10, Date: wednesday, TimeOfDay: "25:00"}},
		{"unpadded time", &Request{BusinessID: 1, ServiceID: 10, Date: wednesday, TimeOfDay: types.TimeString("9:5:0")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_FixedDiscount_ClampsToZero(t *testing.T) {
	repo := &fakeRuleRepo{rules: []*domain.PricingRule{
		{
			ID:             9,
			BusinessID:     1,
			Name:           "Promo fija",
			DaysOfWeek:     []int{3},
			TimeStart:      "00:00",
			TimeEnd:        "23:59",
			ValidFrom:      ptr.Ptr(wednesday),
			ValidUntil:     ptr.Ptr(wednesday),
			DiscountType:   domain.DiscountFixed,
			DiscountAmount: 800,
			Priority:       1,
			IsActive:       true,
		},
	}}
	uc := newUseCase(repo, &fakeBusinessClient{service: haircut(500)})

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		Date:       wednesday,
		TimeOfDay:  "12:00",
	})

	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.DiscountedPrice)
	assert.Equal(t, 160.0, resp.DiscountPercent)
}
