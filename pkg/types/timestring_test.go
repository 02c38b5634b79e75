package types

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeToMinutes(t *testing.T) {
	tests := []struct {
		time     TimeString
		expected int
	}{
		{"00:00", 0},
		{"00:01", 1},
		{"01:05", 65},
		{"12:00", 720},
		{"23:59", 1439},
	}

	for _, tt := range tests {
		t.Run(string(tt.time), func(t *testing.T) {
			assert.Equal(t, tt.expected, TimeToMinutes(tt.time))
		})
	}
}

func TestMinutesToTime_ZeroPadding(t *testing.T) {
	assert.Equal(t, TimeString("01:05"), MinutesToTime(65))
	assert.Equal(t, TimeString("00:00"), MinutesToTime(0))
	assert.Equal(t, TimeString("09:09"), MinutesToTime(549))
	assert.Equal(t, TimeString("23:59"), MinutesToTime(1439))
}

func TestMinutesToTime_RoundTrip(t *testing.T) {
	// Конвертация обратима для всех корректных значений суток
	for m := 0; m < MinutesPerDay; m++ {
		ts := MinutesToTime(m)
		require.Equal(t, m, TimeToMinutes(ts), "round trip failed for %d minutes", m)
		require.NoError(t, ts.Validate())
	}
}

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid morning", input: "09:30", want: "09:30"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "last minute", input: "23:59", want: "23:59"},
		{name: "hours out of range", input: "24:00", wantErr: true},
		{name: "minutes out of range", input: "12:60", wantErr: true},
		{name: "garbage", input: "25:99", wantErr: true},
		{name: "missing colon", input: "1230", wantErr: true},
		{name: "too many fields", input: "12:30:00", wantErr: true},
		{name: "non-numeric", input: "ab:cd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTimeString(t *testing.T) {
	moment := time.Date(2025, 10, 15, 7, 5, 59, 0, time.UTC)
	assert.Equal(t, TimeString("07:05"), NewTimeString(moment))
}

func TestTimeString_Comparisons(t *testing.T) {
	a := TimeString("10:00")
	b := TimeString("10:30")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
	assert.True(t, a.Equal("10:00"))
}

func TestTimeString_AddMinutes(t *testing.T) {
	slot, err := TimeString("10:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:30"), slot)

	// Выход за пределы суток - ошибка
	_, err = TimeString("23:30").AddMinutes(60)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = TimeString("00:30").AddMinutes(-60)
	require.Error(t, err)
}

func TestTimeSlot_Overlaps2(t *testing.T) {
	mustSlot := func(start, end string) TimeSlot {
		s, err := NewTimeSlot(start, end)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name     string
		a        TimeSlot
		b        TimeSlot
		expected bool
	}{
		{
			name:     "identical ranges overlap",
			a:        mustSlot("10:00", "11:00"),
			b:        mustSlot("10:00", "11:00"),
			expected: true,
		},
		{
			name:     "partial overlap",
			a:        mustSlot("11:30", "12:00"),
			b:        mustSlot("11:20", "11:40"),
			expected: true,
		},
		{
			name:     "fully nested range overlaps",
			a:        mustSlot("09:00", "18:00"),
			b:        mustSlot("12:00", "12:30"),
			expected: true,
		},
		{
			name:     "touching at boundary does not overlap",
			a:        mustSlot("11:00", "11:30"),
			b:        mustSlot("11:30", "12:00"),
			expected: false,
		},
		{
			name:     "disjoint ranges",
			a:        mustSlot("08:00", "09:00"),
			b:        mustSlot("15:00", "16:00"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Overlaps(tt.b))
			// Предикат симметричен
			assert.Equal(t, tt.a.Overlaps(tt.b), tt.b.Overlaps(tt.a))
		})
	}
}

func TestTimeSlot_Contains2(t *testing.T) {
	slot, err := NewTimeSlot("12:00", "14:00")
	require.NoError(t, err)

	assert.True(t, slot.Contains("12:00"), "start boundary is included")
	assert.True(t, slot.Contains("13:00"))
	assert.False(t, slot.Contains("14:00"), "end boundary is excluded")
	assert.False(t, slot.Contains("15:00"))
}

func TestTimeSlot_DurationMinutes2(t *testing.T) {
	for _, tc := range []struct {
		start, end string
		want       int
	}{
		{"10:00", "10:30", 30},
		{"09:00", "18:00", 540},
		{"00:00", "23:59", 1439},
	} {
		t.Run(fmt.Sprintf("%s-%s", tc.start, tc.end), func(t *testing.T) {
			slot, err := NewTimeSlot(tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, slot.DurationMinutes())
		})
	}
}
