package types

// TimeSlot represents a day-relative time range [Start, End).
// The module does not enforce Start < End - callers are responsible for
// supplying ordered ranges within one calendar day.
type TimeSlot struct {
	Start TimeString
	End   TimeString
}

// NewTimeSlot создает TimeSlot из строк "HH:mm" с валидацией обеих границ
func NewTimeSlot(start, end string) (TimeSlot, error) {
	s, err := NewTimeStringFromString(start)
	if err != nil {
		return TimeSlot{}, err
	}

	e, err := NewTimeStringFromString(end)
	if err != nil {
		return TimeSlot{}, err
	}

	return TimeSlot{Start: s, End: e}, nil
}

// DurationMinutes возвращает длительность слота в минутах
func (s TimeSlot) DurationMinutes() int {
	return s.End.Minutes() - s.Start.Minutes()
}

// Contains returns true if the minute-of-day value of t falls within [Start, End).
func (s TimeSlot) Contains(t TimeString) bool {
	m := t.Minutes()
	return m >= s.Start.Minutes() && m < s.End.Minutes()
}

// Overlaps returns true if the two half-open ranges intersect.
// Ranges that merely touch at a boundary (s.End == other.Start) do NOT overlap:
//
//   - 11:30-12:00 vs 11:20-11:40 → true  (общий отрезок 11:30-11:40)
//   - 11:30-12:00 vs 11:00-11:30 → false (граничат)
//   - 11:30-12:00 vs 12:00-12:30 → false (граничат)
//
// The predicate is symmetric: s.Overlaps(other) == other.Overlaps(s).
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.Minutes() < other.End.Minutes() && other.Start.Minutes() < s.End.Minutes()
}
