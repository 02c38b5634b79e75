package domain

import (
	"math"
	"sort"
	"time"

	"github.com/barrio-app/Barrio-PricingService/pkg/types"
)

// ComputedPrice is the result of a single pricing decision.
// It is ephemeral - a pure computation result, never persisted by the engine
// itself (callers may denormalize it into their own records).
type ComputedPrice struct {
	OriginalPrice   float64
	DiscountedPrice float64

	// DiscountPercent эффективный процент скидки
	// Для fixed-правил пересчитывается как доля от исходной цены - значение
	// используется только для отображения и не участвует в расчёте суммы
	DiscountPercent float64

	AppliedRuleID *int64
	RuleName      *string
}

// HasDiscount returns true if a rule was applied to this price.
func (p ComputedPrice) HasDiscount() bool {
	return p.AppliedRuleID != nil
}

// IdentityPrice returns the no-discount result for the given price.
func IdentityPrice(originalPrice float64) ComputedPrice {
	return ComputedPrice{
		OriginalPrice:   originalPrice,
		DiscountedPrice: originalPrice,
	}
}

// ComputePrice selects the single highest-priority applicable pricing rule for
// the given date and time of day and computes the resulting price.
//
// Алгоритм детерминирован, порядок шагов фиксирован:
//  1. Пустой список правил - исходная цена без скидки.
//  2. Отбрасываются неактивные правила, остальные сортируются по убыванию
//     приоритета (стабильно - при равном приоритете сохраняется исходный
//     относительный порядок).
//  3. Применяется ПЕРВОЕ подходящее правило, остальные не рассматриваются -
//     скидки никогда не суммируются.
//  4. Правило подходит, если день недели даты входит в DaysOfWeek, время
//     попадает в полуинтервал [TimeStart, TimeEnd) и дата входит в период
//     действия ValidFrom/ValidUntil.
//
// Функция чистая: без побочных эффектов, без I/O, входные правила не мутируются.
func ComputePrice(originalPrice float64, rules []*PricingRule, date time.Time, timeOfDay types.TimeString) ComputedPrice {
	if len(rules) == 0 {
		return IdentityPrice(originalPrice)
	}

	weekday := int(date.Weekday())

	active := make([]*PricingRule, 0, len(rules))
	for _, rule := range rules {
		if rule.IsActive {
			active = append(active, rule)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority > active[j].Priority
	})

	for _, rule := range active {
		if !rule.MatchesWeekday(weekday) {
			continue
		}
		if !rule.TimeWindow().Contains(timeOfDay) {
			continue
		}
		if !rule.InValidityRange(date) {
			continue
		}
		return applyRule(originalPrice, rule)
	}

	return IdentityPrice(originalPrice)
}

// applyRule вычисляет итоговую цену по выбранному правилу
func applyRule(originalPrice float64, rule *PricingRule) ComputedPrice {
	var discountAmount, discountPercent float64

	switch rule.DiscountType {
	case DiscountPercentage:
		discountAmount = math.Round(originalPrice * rule.DiscountPercent / 100)
		discountPercent = rule.DiscountPercent
	case DiscountFixed:
		discountAmount = rule.DiscountAmount
		if originalPrice > 0 {
			discountPercent = math.Round(discountAmount / originalPrice * 100)
		}
	}

	discountedPrice := originalPrice - discountAmount
	if discountedPrice < 0 {
		discountedPrice = 0
	}

	ruleID := rule.ID
	ruleName := rule.Name

	return ComputedPrice{
		OriginalPrice:   originalPrice,
		DiscountedPrice: discountedPrice,
		DiscountPercent: discountPercent,
		AppliedRuleID:   &ruleID,
		RuleName:        &ruleName,
	}
}
