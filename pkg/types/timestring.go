package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay количество минут в сутках, допустимый диапазон значений [0, 1439]
const MinutesPerDay = 24 * 60

// TimeString represents a wall-clock time in "HH:mm" format (24-hour, zero-padded).
// The value is day-relative and carries no date or timezone information.
type TimeString string

// NewTimeString создает TimeString из time.Time (отбрасывая секунды)
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
// Допустимый формат: ровно два числовых поля через двоеточие, часы 0-23, минуты 0-59
func NewTimeStringFromString(s string) (TimeString, error) {
	minutes, err := parseMinutes(s)
	if err != nil {
		return "", err
	}
	return MinutesToTime(minutes), nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут с начала суток
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", fmt.Errorf("%w: minutes must be in [0, %d), got %d", ErrInvalidTime, MinutesPerDay, minutes)
	}
	return MinutesToTime(minutes), nil
}

// String возвращает строковое представление "HH:mm"
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true для незаполненного значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет, что значение является корректным временем "HH:mm"
func (t TimeString) Validate() error {
	_, err := parseMinutes(string(t))
	return err
}

// Minutes возвращает количество минут с начала суток (hours*60 + minutes).
// Для некорректного значения возвращает 0 - валидация выполняется на границе
// через NewTimeStringFromString / Validate.
func (t TimeString) Minutes() int {
	minutes, err := parseMinutes(string(t))
	if err != nil {
		return 0
	}
	return minutes
}

// IsBefore returns true if t is strictly earlier than other.
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter returns true if t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// Equal returns true if t and other denote the same minute of day.
func (t TimeString) Equal(other TimeString) bool {
	return t.Minutes() == other.Minutes()
}

// AddMinutes возвращает время через minutes минут
// Возвращает ошибку при выходе за пределы суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	return NewTimeStringFromMinutes(t.Minutes() + minutes)
}

// TimeToMinutes converts a valid "HH:mm" time to its minute-of-day value [0, 1439].
func TimeToMinutes(t TimeString) int {
	return t.Minutes()
}

// MinutesToTime converts a minute-of-day value to "HH:mm", zero-padding both
// components. Inverse of TimeToMinutes for every valid input:
// MinutesToTime(TimeToMinutes(t)) == t.
func MinutesToTime(minutes int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
}

// parseMinutes парсит строку "HH:mm" в минуты с начала суток
func parseMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: expected HH:mm, got %q", ErrInvalidTime, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid hours in %q", ErrInvalidTime, s)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid minutes in %q", ErrInvalidTime, s)
	}

	if hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: hours must be in [0, 23], got %d", ErrInvalidTime, hours)
	}
	if minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: minutes must be in [0, 59], got %d", ErrInvalidTime, minutes)
	}

	return hours*60 + minutes, nil
}
