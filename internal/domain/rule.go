package domain

import (
	"time"

	"github.com/barrio-app/Barrio-PricingService/pkg/types"
)

// DiscountType represents the kind of discount a pricing rule grants
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PricingRule represents a business-scoped dynamic pricing policy.
// A rule narrows its applicability by services, weekdays, a daily time window
// and an optional validity date range, and grants either a percentage or a
// fixed-amount discount. Rules are created by business owners and are
// read-only for the pricing engine.
type PricingRule struct {
	ID         int64
	BusinessID int64
	Name       string

	// ServiceIDs список услуг, к которым применимо правило
	// Пустой список = правило действует для всех услуг бизнеса
	ServiceIDs []int64

	// DaysOfWeek дни недели действия правила (0=воскресенье .. 6=суббота)
	DaysOfWeek []int

	// TimeStart/TimeEnd дневное окно действия правила, полуинтервал [TimeStart, TimeEnd)
	TimeStart types.TimeString
	TimeEnd   types.TimeString

	// ValidFrom/ValidUntil период действия правила по датам (включительно)
	// nil = без ограничения с соответствующей стороны
	ValidFrom  *time.Time
	ValidUntil *time.Time

	DiscountType    DiscountType
	DiscountPercent float64 // для percentage: 0-100
	DiscountAmount  float64 // для fixed: сумма скидки в денежных единицах

	// Priority приоритет правила - при пересечении применяется правило с большим значением
	Priority int
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppliesToService returns true if the rule covers the given service.
// An empty ServiceIDs list means the rule covers every service of the business.
func (r *PricingRule) AppliesToService(serviceID int64) bool {
	if len(r.ServiceIDs) == 0 {
		return true
	}
	for _, id := range r.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// MatchesWeekday returns true if the rule is in effect on the given weekday
// (0=Sunday .. 6=Saturday).
func (r *PricingRule) MatchesWeekday(weekday int) bool {
	for _, d := range r.DaysOfWeek {
		if d == weekday {
			return true
		}
	}
	return false
}

// TimeWindow returns the daily half-open window the rule is active in.
func (r *PricingRule) TimeWindow() types.TimeSlot {
	return types.TimeSlot{Start: r.TimeStart, End: r.TimeEnd}
}

// InValidityRange returns true if the given date falls inside the optional
// ValidFrom/ValidUntil range (both bounds inclusive, date-only comparison).
func (r *PricingRule) InValidityRange(date time.Time) bool {
	day := truncateToDay(date)
	if r.ValidFrom != nil && day.Before(truncateToDay(*r.ValidFrom)) {
		return false
	}
	if r.ValidUntil != nil && day.After(truncateToDay(*r.ValidUntil)) {
		return false
	}
	return true
}

// truncateToDay обнуляет компонент времени, оставляя только дату
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
