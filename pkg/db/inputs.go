package db

import "github.com/shopspring/decimal"

// NewStaff holds the caller-supplied fields of a staff row
type NewStaff struct {
	Name      string `json:"name" validate:"required,max=120"`
	IsUnder18 bool   `json:"is_under_18"`
}

// NewPosition holds the caller-supplied fields of a position row
type NewPosition struct {
	Name   string       `json:"name" validate:"required,max=120"`
	Type   PositionKind `json:"type" validate:"required,oneof=position secondary area cleaning_area"`
	AreaID *string      `json:"area_id" validate:"omitempty,uuid"`
}

// PositionUpdate is a partial position update; nil fields are left untouched.
// ClearArea removes the parent area reference.
type PositionUpdate struct {
	Name      *string       `json:"name" validate:"omitempty,min=1,max=120"`
	Type      *PositionKind `json:"type" validate:"omitempty,oneof=position secondary area cleaning_area"`
	AreaID    *string       `json:"area_id" validate:"omitempty,uuid"`
	ClearArea bool          `json:"clear_area"`
}

// NewDeployment holds the fields of a deployment row. BreakMinutes is always
// derived by the planner and never taken from callers.
type NewDeployment struct {
	Date         string `json:"date" validate:"required,shiftdate"`
	StaffID      string `json:"staff_id" validate:"required"`
	StartTime    string `json:"start_time" validate:"required,hhmm"`
	EndTime      string `json:"end_time" validate:"required,hhmm"`
	Position     string `json:"position"`
	Secondary    string `json:"secondary"`
	Area         string `json:"area"`
	Cleaning     string `json:"cleaning"`
	BreakMinutes int    `json:"-"`
}

// DeploymentUpdate is a partial deployment update; nil fields are left untouched
type DeploymentUpdate struct {
	StartTime    *string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime      *string `json:"end_time" validate:"omitempty,hhmm"`
	Position     *string `json:"position"`
	Secondary    *string `json:"secondary"`
	Area         *string `json:"area"`
	Cleaning     *string `json:"cleaning"`
	BreakMinutes *int    `json:"-"`
}

// TouchesTimes reports whether the update changes the shift's start or end
func (u DeploymentUpdate) TouchesTimes() bool {
	return u.StartTime != nil || u.EndTime != nil
}

// ShiftInfoFields are the writable shift_info columns. Every upsert writes
// all of them.
type ShiftInfoFields struct {
	Forecast           string `json:"forecast"`
	DayShiftForecast   string `json:"day_shift_forecast"`
	NightShiftForecast string `json:"night_shift_forecast"`
	Weather            string `json:"weather"`
	Notes              string `json:"notes"`
}

// DefaultForecast is written into every forecast field of a new date
const DefaultForecast = "£0.00"

// DefaultShiftInfo returns the shift info a new date starts with
func DefaultShiftInfo() ShiftInfoFields {
	return ShiftInfoFields{
		Forecast:           DefaultForecast,
		DayShiftForecast:   DefaultForecast,
		NightShiftForecast: DefaultForecast,
	}
}

// SalesRecordInput is one (time, forecast) tuple of a date's sales records
type SalesRecordInput struct {
	Time     string          `json:"time" validate:"required,hhmm"`
	Forecast decimal.Decimal `json:"forecast"`
}

// NewTarget holds the caller-supplied fields of a target row
type NewTarget struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	Priority    int    `json:"priority" validate:"min=0"`
	IsActive    bool   `json:"is_active"`
}

// TargetUpdate is a partial target update; nil fields are left untouched
type TargetUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Priority    *int    `json:"priority" validate:"omitempty,min=0"`
	IsActive    *bool   `json:"is_active"`
}
