package api

import (
	"github.com/jakechorley/deployment-planner/pkg/db"
)

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StatusResponse reports whether the planner has loaded
type StatusResponse struct {
	State       string   `json:"state"`
	Error       string   `json:"error,omitempty"`
	BreakPolicy string   `json:"break_policy"`
	DateLayout  string   `json:"date_layout"`
	Dates       []string `json:"dates"`
}

// DateRequest names a date to create
type DateRequest struct {
	Date string `json:"date"`
}

// DuplicateRequest copies one date's deployments onto another
type DuplicateRequest struct {
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

// RepeatRequest copies one date's deployments onto every occurrence of an
// RRULE
type RepeatRequest struct {
	FromDate string `json:"from_date"`
	RRule    string `json:"rrule"`
}

// SalesRecordsRequest replaces a date's sales records
type SalesRecordsRequest struct {
	Records []db.SalesRecordInput `json:"records"`
}

// BreakResponse is the result of a break calculation
type BreakResponse struct {
	Policy       string  `json:"policy"`
	WorkHours    float64 `json:"work_hours"`
	BreakMinutes int     `json:"break_minutes"`
}

// DeploymentsResponse is a date's deployments plus its shift info
type DeploymentsResponse struct {
	Date        string          `json:"date"`
	ShiftInfo   *db.ShiftInfo   `json:"shift_info,omitempty"`
	Deployments []db.Deployment `json:"deployments"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
