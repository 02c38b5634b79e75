package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barrio-app/Barrio-PricingService/pkg/ptr"
	"github.com/barrio-app/Barrio-PricingService/pkg/types"
)

// 2025-10-15 - среда (weekday=3)
var wednesday = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

func percentRule(id int64, priority int, percent float64) *PricingRule {
	return &PricingRule{
		ID:              id,
		BusinessID:      1,
		Name:            "happy hour",
		DaysOfWeek:      []int{3},
		TimeStart:       "12:00",
		TimeEnd:         "14:00",
		DiscountType:    DiscountPercentage,
		DiscountPercent: percent,
		Priority:        priority,
		IsActive:        true,
	}
}

func TestComputePrice_EmptyRules(t *testing.T) {
	result := ComputePrice(100_000, nil, wednesday, "13:00")

	assert.Equal(t, float64(100_000), result.OriginalPrice)
	assert.Equal(t, float64(100_000), result.DiscountedPrice)
	assert.Equal(t, float64(0), result.DiscountPercent)
	assert.Nil(t, result.AppliedRuleID)
	assert.Nil(t, result.RuleName)
	assert.False(t, result.HasDiscount())
}

func TestComputePrice_PercentageRule(t *testing.T) {
	rule := percentRule(42, 1, 20)

	result := ComputePrice(100_000, []*PricingRule{rule}, wednesday, "13:00")

	assert.Equal(t, float64(80_000), result.DiscountedPrice)
	assert.Equal(t, float64(20), result.DiscountPercent)
	require.NotNil(t, result.AppliedRuleID)
	assert.Equal(t, int64(42), *result.AppliedRuleID)
	require.NotNil(t, result.RuleName)
	assert.Equal(t, "happy hour", *result.RuleName)
}

func TestComputePrice_TimeWindow(t *testing.T) {
	rule := percentRule(1, 1, 20)

	tests := []struct {
		name       string
		time       types.TimeString
		discounted bool
	}{
		{name: "window start is included", time: "12:00", discounted: true},
		{name: "inside window", time: "13:00", discounted: true},
		{name: "window end is excluded", time: "14:00", discounted: false},
		{name: "before window", time: "11:59", discounted: false},
		{name: "after window", time: "15:00", discounted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputePrice(100_000, []*PricingRule{rule}, wednesday, tt.time)
			assert.Equal(t, tt.discounted, result.HasDiscount())
			if !tt.discounted {
				assert.Equal(t, float64(100_000), result.DiscountedPrice)
			}
		})
	}
}

func TestComputePrice_WrongWeekday(t *testing.T) {
	rule := percentRule(1, 1, 20)
	thursday := wednesday.AddDate(0, 0, 1)

	result := ComputePrice(100_000, []*PricingRule{rule}, thursday, "13:00")

	assert.False(t, result.HasDiscount())
	assert.Equal(t, float64(100_000), result.DiscountedPrice)
}

func TestComputePrice_ValidityRange(t *testing.T) {
	t.Run("expired rule is skipped", func(t *testing.T) {
		rule := percentRule(1, 1, 20)
		rule.ValidUntil = ptr.Ptr(wednesday.AddDate(0, 0, -7))

		result := ComputePrice(100_000, []*PricingRule{rule}, wednesday, "13:00")
		assert.False(t, result.HasDiscount())
	})

	t.Run("not yet valid rule is skipped", func(t *testing.T) {
		rule := percentRule(1, 1, 20)
		rule.ValidFrom = ptr.Ptr(wednesday.AddDate(0, 0, 7))

		result := ComputePrice(100_000, []*PricingRule{rule}, wednesday, "13:00")
		assert.False(t, result.HasDiscount())
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		rule := percentRule(1, 1, 20)
		rule.ValidFrom = ptr.Ptr(wednesday)
		rule.ValidUntil = ptr.Ptr(wednesday)

		result := ComputePrice(100_000, []*PricingRule{rule}, wednesday, "13:00")
		assert.True(t, result.HasDiscount())
	})
}

func TestComputePrice_InactiveRule(t *testing.T) {
	rule := percentRule(1, 1, 20)
	rule.IsActive = false

	result := ComputePrice(100_000, []*PricingRule{rule}, wednesday, "13:00")

	assert.False(t, result.HasDiscount())
}

func TestComputePrice_HighestPriorityWins(t *testing.T) {
	// Оба правила подходят, но применяется только правило с большим приоритетом -
	// скидки не суммируются
	low := percentRule(1, 1, 10)
	high := percentRule(2, 5, 20)

	result := ComputePrice(100_000, []*PricingRule{low, high}, wednesday, "13:00")

	require.NotNil(t, result.AppliedRuleID)
	assert.Equal(t, int64(2), *result.AppliedRuleID)
	assert.Equal(t, float64(80_000), result.DiscountedPrice)
}

func TestComputePrice_EqualPriorityKeepsInputOrder(t *testing.T) {
	first := percentRule(1, 3, 10)
	second := percentRule(2, 3, 20)

	result := ComputePrice(100_000, []*PricingRule{first, second}, wednesday, "13:00")

	require.NotNil(t, result.AppliedRuleID)
	assert.Equal(t, int64(1), *result.AppliedRuleID)
}

func TestComputePrice_FixedDiscount(t *testing.T) {
	rule := percentRule(7, 1, 0)
	rule.DiscountType = DiscountFixed
	rule.DiscountAmount = 15_000

	result := ComputePrice(100_000, []*PricingRule{rule}, wednesday, "13:00")

	assert.Equal(t, float64(85_000), result.DiscountedPrice)
	// Процент пересчитывается от исходной цены только для отображения
	assert.Equal(t, float64(15), result.DiscountPercent)
}

func TestComputePrice_FixedDiscountNeverNegative(t *testing.T) {
	rule := percentRule(7, 1, 0)
	rule.DiscountType = DiscountFixed
	rule.DiscountAmount = 20_000

	result := ComputePrice(10_000, []*PricingRule{rule}, wednesday, "13:00")

	assert.Equal(t, float64(0), result.DiscountedPrice)
}

func TestComputePrice_FixedDiscountZeroPrice(t *testing.T) {
	rule := percentRule(7, 1, 0)
	rule.DiscountType = DiscountFixed
	rule.DiscountAmount = 5_000

	result := ComputePrice(0, []*PricingRule{rule}, wednesday, "13:00")

	assert.Equal(t, float64(0), result.DiscountedPrice)
	assert.Equal(t, float64(0), result.DiscountPercent)
}

func TestComputePrice_PercentageRounding(t *testing.T) {
	rule := percentRule(3, 1, 15)

	// 15% от 333 = 49.95, округляется до 50
	result := ComputePrice(333, []*PricingRule{rule}, wednesday, "13:00")

	assert.Equal(t, float64(283), result.DiscountedPrice)
}

func TestComputePrice_DoesNotMutateRules(t *testing.T) {
	// Сортировка по приоритету не должна менять порядок входного слайса
	low := percentRule(1, 1, 10)
	high := percentRule(2, 5, 20)
	rules := []*PricingRule{low, high}

	ComputePrice(100_000, rules, wednesday, "13:00")

	assert.Equal(t, int64(1), rules[0].ID)
	assert.Equal(t, int64(2), rules[1].ID)
}

func TestPricingRule_AppliesToService(t *testing.T) {
	rule := percentRule(1, 1, 20)

	// Пустой список услуг = правило действует для всех
	assert.True(t, rule.AppliesToService(99))

	rule.ServiceIDs = []int64{10, 20}
	assert.True(t, rule.AppliesToService(10))
	assert.True(t, rule.AppliesToService(20))
	assert.False(t, rule.AppliesToService(30))
}
