package db

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionKind tags a position row. It is a flat tag, not a hierarchy.
type PositionKind string

const (
	KindPosition     PositionKind = "position"
	KindSecondary    PositionKind = "secondary"
	KindArea         PositionKind = "area"
	KindCleaningArea PositionKind = "cleaning_area"
)

// Valid reports whether k is one of the known position kinds
func (k PositionKind) Valid() bool {
	switch k {
	case KindPosition, KindSecondary, KindArea, KindCleaningArea:
		return true
	}
	return false
}

// AcceptsArea reports whether positions of this kind may reference a parent area
func (k PositionKind) AcceptsArea() bool {
	return k == KindPosition || k == KindSecondary
}

// Staff represents a staff table record
type Staff struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsUnder18 bool      `json:"is_under_18"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Position represents a positions table record
type Position struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      PositionKind `json:"type"`
	AreaID    *string      `json:"area_id"`
	CreatedAt time.Time    `json:"created_at,omitempty"`
}

// DeploymentStaff is the staff sub-record join-fetched with a deployment
type DeploymentStaff struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsUnder18 bool   `json:"is_under_18"`
}

// Deployment represents a deployments table record
type Deployment struct {
	ID           string           `json:"id"`
	Date         string           `json:"date"`
	StaffID      string           `json:"staff_id"`
	StartTime    string           `json:"start_time"`
	EndTime      string           `json:"end_time"`
	Position     string           `json:"position"`
	Secondary    string           `json:"secondary"`
	Area         string           `json:"area"`
	Cleaning     string           `json:"cleaning"`
	BreakMinutes int              `json:"break_minutes"`
	Staff        *DeploymentStaff `json:"staff,omitempty"`
	CreatedAt    time.Time        `json:"created_at,omitempty"`
}

// ShiftInfo represents a shift_info table record, one per date
type ShiftInfo struct {
	ID                 string `json:"id,omitempty"`
	Date               string `json:"date"`
	Forecast           string `json:"forecast"`
	DayShiftForecast   string `json:"day_shift_forecast"`
	NightShiftForecast string `json:"night_shift_forecast"`
	Weather            string `json:"weather"`
	Notes              string `json:"notes"`
}

// SalesRecord represents a sales_records table record
type SalesRecord struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	Time     string          `json:"time"`
	Forecast decimal.Decimal `json:"forecast"`
}

// SalesData represents the single sales_data row holding pasted sales text
type SalesData struct {
	ID           string `json:"id,omitempty"`
	TodayData    string `json:"today_data"`
	LastWeekData string `json:"last_week_data"`
	LastYearData string `json:"last_year_data"`
}

// Target represents a targets table record
type Target struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	IsActive    bool   `json:"is_active"`
}
