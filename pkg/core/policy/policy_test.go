package policy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

func TestCalculateWorkHours(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected float64
	}{
		{"same day", "09:00", "17:00", 8},
		{"half hours", "09:30", "14:00", 4.5},
		{"quarter hours", "10:15", "16:45", 6.5},
		{"overnight", "22:00", "06:00", 8},
		{"to midnight", "18:00", "00:00", 6},
		{"zero length", "12:00", "12:00", 0},
		{"missing start", "", "12:00", 0},
		{"missing end", "12:00", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateWorkHours(tt.start, tt.end), 1e-9)
		})
	}
}

func TestCalculateWorkHours_MalformedPropagatesNaN(t *testing.T) {
	assert.True(t, math.IsNaN(CalculateWorkHours("nine", "17:00")))
	assert.True(t, math.IsNaN(CalculateWorkHours("09:00", "1700")))
}

func TestCalculateWorkHours_EndMinusStartProperty(t *testing.T) {
	clocks := []string{"00:00", "05:45", "09:00", "12:30", "18:15", "23:59"}

	for _, start := range clocks {
		for _, end := range clocks {
			s, err := ParseClock(start)
			require.NoError(t, err)
			e, err := ParseClock(end)
			require.NoError(t, err)

			want := e - s
			if e < s {
				want = e + 24 - s
			}
			assert.InDelta(t, want, CalculateWorkHours(start, end), 1e-9, "%s -> %s", start, end)
		}
	}
}

func TestWorkHours_Validates(t *testing.T) {
	hours, err := WorkHours("22:00", "06:00")
	require.NoError(t, err)
	assert.InDelta(t, 8.0, hours, 1e-9)

	_, err = WorkHours("25:00", "06:00")
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = WorkHours("22:00", "6")
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestCalculateBreakTime_VariantA(t *testing.T) {
	adult := &db.Staff{Name: "Bob", IsUnder18: false}
	minor := &db.Staff{Name: "Evan", IsUnder18: true}

	tests := []struct {
		name     string
		staff    *db.Staff
		hours    float64
		expected int
	}{
		{"adult 6.5h", adult, 6.5, 30},
		{"adult exactly 6h", adult, 6, 30},
		{"adult 5h uses the assumed 4.5h rule", adult, 5, 15},
		{"adult 4.5h", adult, 4.5, 15},
		{"adult exactly 4.5h", adult, 4.5, 15},
		{"adult 3h", adult, 3, 0},
		{"minor 2h", minor, 2, 30},
		{"minor 8h", minor, 8, 30},
		{"nil staff", nil, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateBreakTime(VariantA, tt.staff, tt.hours))
		})
	}
}

func TestCalculateBreakTime_VariantB(t *testing.T) {
	adult := &db.Staff{Name: "Bob", IsUnder18: false}
	minor := &db.Staff{Name: "Evan", IsUnder18: true}

	tests := []struct {
		name     string
		staff    *db.Staff
		hours    float64
		expected int
	}{
		{"minor 4.5h", minor, 4.5, 30},
		{"minor 7h", minor, 7, 30},
		{"minor 4h", minor, 4, 0},
		{"adult 6.5h takes the first >=6 branch", adult, 6.5, 0},
		{"adult 5h", adult, 5, 15},
		{"adult 3h", adult, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateBreakTime(VariantB, tt.staff, tt.hours))
		})
	}
}

func TestParseBreakPolicy(t *testing.T) {
	p, err := ParseBreakPolicy("")
	require.NoError(t, err)
	assert.Equal(t, VariantA, p)

	p, err = ParseBreakPolicy("b")
	require.NoError(t, err)
	assert.Equal(t, VariantB, p)

	_, err = ParseBreakPolicy("C")
	assert.Error(t, err)
}
