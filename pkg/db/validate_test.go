package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsClock(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"00:00", true},
		{"09:30", true},
		{"23:59", true},
		{"24:00", false},
		{"9:30", false},
		{"09:60", false},
		{"0930", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClock(tt.in))
		})
	}
}

func TestNewValidator_NewDeployment(t *testing.T) {
	v := NewValidator("")

	valid := NewDeployment{
		Date:      "08/09/2025",
		StaffID:   "staff-1",
		StartTime: "09:00",
		EndTime:   "17:30",
	}
	assert.NoError(t, v.Struct(valid))

	badTime := valid
	badTime.EndTime = "5pm"
	assert.Error(t, v.Struct(badTime))

	badDate := valid
	badDate.Date = "2025-09-08"
	assert.Error(t, v.Struct(badDate))
}

func TestNewValidator_CustomLayout(t *testing.T) {
	v := NewValidator("2006-01-02")

	d := NewDeployment{Date: "2025-09-08", StaffID: "s", StartTime: "09:00", EndTime: "10:00"}
	assert.NoError(t, v.Struct(d))
}

func TestNewValidator_NewPosition(t *testing.T) {
	v := NewValidator("")

	assert.NoError(t, v.Struct(NewPosition{Name: "Till", Type: KindPosition}))
	assert.Error(t, v.Struct(NewPosition{Name: "Till", Type: "manager"}))
	assert.Error(t, v.Struct(NewPosition{Type: KindArea}))

	notUUID := "area-1"
	assert.Error(t, v.Struct(NewPosition{Name: "Till", Type: KindPosition, AreaID: &notUUID}))
}

func TestPositionKind(t *testing.T) {
	assert.True(t, KindPosition.AcceptsArea())
	assert.True(t, KindSecondary.AcceptsArea())
	assert.False(t, KindArea.AcceptsArea())
	assert.False(t, KindCleaningArea.AcceptsArea())

	assert.True(t, KindCleaningArea.Valid())
	assert.False(t, PositionKind("kitchen").Valid())
}
