package get_price_quote

import (
	"time"

	"github.com/barrio-app/Barrio-PricingService/pkg/types"
)

// Request модель запроса на расчёт цены
type Request struct {
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата оказания услуги (без времени)
	TimeOfDay  types.TimeString // Время начала (например, "10:00")
}

// Response модель ответа с рассчитанной ценой
type Response struct {
	BusinessID int64
	ServiceID  int64

	ServiceName string
	Date        time.Time
	TimeOfDay   types.TimeString

	OriginalPrice   float64 // Базовая цена услуги
	DiscountedPrice float64 // Итоговая цена после применения правила
	DiscountPercent float64 // Эффективный процент скидки (для отображения)

	AppliedRuleID   *int64  // ID применённого правила (nil - скидки нет)
	AppliedRuleName *string // Название применённого правила
}
