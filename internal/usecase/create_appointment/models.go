package create_appointment

import (
	"time"

	"github.com/barrio-app/Barrio-PricingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID     int64            // ID клиента
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            // ID созданной записи
	UserID          int64            // ID клиента
	BusinessID      int64            // ID бизнеса
	ServiceID       int64            // ID услуги
	AppointmentDate time.Time        // Дата записи
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус записи

	// Денормализованные данные: зафиксированное ценовое решение
	ServiceName     string  // Название услуги
	OriginalPrice   float64 // Базовая цена на момент записи
	FinalPrice      float64 // Итоговая цена после применения правила
	AppliedRuleID   *int64  // ID применённого правила (nil - без скидки)
	AppliedRuleName *string // Название применённого правила
	Notes           *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
