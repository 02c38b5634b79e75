package domain

// Default slot configuration values
const (
	DefaultSlotDurationMinutes     = 30
	DefaultMaxConcurrentBookings   = 1
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
)

// Business validation constants
const (
	MinRuleNameLength           = 1
	MaxRuleNameLength           = 120
	MinWeekday                  = 0 // воскресенье
	MaxWeekday                  = 6 // суббота
	MinDiscountPercent          = 0
	MaxDiscountPercent          = 100
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:mm
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов неактивных записей
// Используется для фильтрации при подсчёте занятости слотов
var InactiveStatuses = []AppointmentStatus{
	StatusCancelledByClient,
	StatusCancelledByBusiness,
	StatusNoShow,
}

// ValidDiscountTypes допустимые типы скидок
var ValidDiscountTypes = []DiscountType{
	DiscountPercentage,
	DiscountFixed,
}
