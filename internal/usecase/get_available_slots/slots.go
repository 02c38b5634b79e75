package get_available_slots

import (
	"time"

	"github.com/barrio-app/Barrio-PricingService/internal/domain"
	"github.com/barrio-app/Barrio-PricingService/internal/integrations/businessservice"
	"github.com/barrio-app/Barrio-PricingService/pkg/types"
)

// generateTimeSlots генерирует список всех возможных временных слотов на день
// Слоты генерируются с начала работы бизнеса с фиксированным шагом slotDuration
// Затем фильтруются с учетом текущего времени и минимального времени до записи
func generateTimeSlots(
	schedule businessservice.DaySchedule,
	slotDuration int,
	requestDate time.Time,
	now time.Time,
	minNoticeMinutes int,
) ([]types.TimeString, error) {
	// Прошедшие даты слотов не имеют
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}, nil
	}

	// Если бизнес закрыт в этот день
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return []types.TimeString{}, nil
	}

	// Парсим время открытия и закрытия
	openTime, err := types.NewTimeStringFromString(*schedule.OpenTime)
	if err != nil {
		return nil, err
	}

	closeTime, err := types.NewTimeStringFromString(*schedule.CloseTime)
	if err != nil {
		return nil, err
	}

	// Шаг 1: Генерируем ВСЕ слоты от открытия до закрытия с фиксированным шагом
	allSlots := make([]types.TimeString, 0)
	currentSlot := openTime

	for currentSlot.IsBefore(closeTime) {
		// Слот должен целиком помещаться в рабочие часы
		slotEnd, err := currentSlot.AddMinutes(slotDuration)
		if err != nil {
			break
		}
		if slotEnd.IsAfter(closeTime) {
			break
		}

		allSlots = append(allSlots, currentSlot)
		currentSlot = slotEnd
	}

	// Шаг 2: Если запрошенная дата НЕ сегодня - возвращаем все слоты
	if !isSameDay(requestDate, now) {
		return allSlots, nil
	}

	// Шаг 3: Для сегодняшней даты фильтруем слоты по минимальному времени до записи
	currentTime := types.NewTimeString(now)
	minAllowedTime, err := currentTime.AddMinutes(minNoticeMinutes)
	if err != nil {
		// Минимальное время вышло за пределы суток - сегодня записаться уже нельзя
		return []types.TimeString{}, nil
	}

	availableSlots := make([]types.TimeString, 0)
	for _, slot := range allSlots {
		if !slot.IsBefore(minAllowedTime) {
			availableSlots = append(availableSlots, slot)
		}
	}

	return availableSlots, nil
}

// calculateAvailableSpots вычисляет количество свободных мест для каждого слота
func calculateAvailableSpots(
	slots []types.TimeString,
	slotDuration int,
	appointments []*domain.Appointment,
	maxConcurrent int,
) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, len(slots))

	for i, slotStart := range slots {
		overlappingCount := countOverlappingAppointments(slotStart, slotDuration, appointments)

		availableSpots := maxConcurrent - overlappingCount
		if availableSpots < 0 {
			availableSpots = 0
		}

		result[i] = domain.AvailableSlot{
			StartTime:       slotStart,
			DurationMinutes: slotDuration,
			AvailableSpots:  availableSpots,
			TotalSpots:      maxConcurrent,
		}
	}

	return result
}

// countOverlappingAppointments подсчитывает количество записей, пересекающихся с указанным слотом
// Интервалы полуоткрытые [start, end): если запись заканчивается ровно там, где
// начинается слот (или наоборот) - это НЕ пересечение
//
// Примеры:
// - Слот 11:30-12:00, запись 11:20-11:40 → ЕСТЬ пересечение (11:30-11:40)
// - Слот 11:30-12:00, запись 11:00-11:30 → НЕТ пересечения (граничат)
// - Слот 11:30-12:00, запись 12:00-12:30 → НЕТ пересечения (граничат)
func countOverlappingAppointments(slotStart types.TimeString, slotDuration int, appointments []*domain.Appointment) int {
	slotEnd, err := slotStart.AddMinutes(slotDuration)
	if err != nil {
		// Конец слота вне суток - пересечений нет
		return 0
	}
	slot := types.TimeSlot{Start: slotStart, End: slotEnd}

	count := 0

	for _, appointment := range appointments {
		// Пропускаем отменённые записи и no-show
		if !appointment.IsActive() {
			continue
		}

		occupied, err := appointment.TimeSlot()
		if err != nil {
			// Если не можем вычислить конец записи, пропускаем
			continue
		}

		if slot.Overlaps(occupied) {
			count++
		}
	}

	return count
}
