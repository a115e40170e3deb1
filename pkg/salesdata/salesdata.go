// Package salesdata parses sales figures pasted from the till reports.
//
// Reports are newline-separated rows of tab-separated columns. Three layouts
// are understood:
//
//	legacy:  time, sales, transactions, average
//	hourly:  minute, todayForecast, todayActual, lastYearForecast, lastYearActual, lastYearVariance
//	weekly:  day, sales, target, variance
package salesdata

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// Missing is shown in a comparison cell with no figure
const Missing = "-"

// ErrInvalidAmount is returned for a cell that is not a money or percentage figure
var ErrInvalidAmount = errors.New("invalid amount")

// LegacyRow is one row of the legacy report. Values are kept as pasted.
type LegacyRow struct {
	Time         string `json:"time"`
	Sales        string `json:"sales"`
	Transactions string `json:"transactions"`
	Average      string `json:"average"`
}

// HourlyRow is one row of the hourly forecast/actual report
type HourlyRow struct {
	Minute           string          `json:"minute"`
	TodayForecast    decimal.Decimal `json:"today_forecast"`
	TodayActual      decimal.Decimal `json:"today_actual"`
	LastYearForecast decimal.Decimal `json:"last_year_forecast"`
	LastYearActual   decimal.Decimal `json:"last_year_actual"`
	LastYearVariance decimal.Decimal `json:"last_year_variance"`
}

// WeeklyRow is one row of the weekly summary report
type WeeklyRow struct {
	Day      string          `json:"day"`
	Sales    decimal.Decimal `json:"sales"`
	Target   decimal.Decimal `json:"target"`
	Variance decimal.Decimal `json:"variance"`
}

// ComparisonRow lines up the same time slot across three legacy reports
type ComparisonRow struct {
	Time     string `json:"time"`
	Today    string `json:"today"`
	LastWeek string `json:"last_week"`
	LastYear string `json:"last_year"`
}

// Comparison is the three-way view of the saved sales paste
type Comparison struct {
	Today    []LegacyRow     `json:"today"`
	LastWeek []LegacyRow     `json:"last_week"`
	LastYear []LegacyRow     `json:"last_year"`
	Rows     []ComparisonRow `json:"rows"`
}

// lines splits text into non-blank lines, each split on tabs
func lines(text string) [][]string {
	var out [][]string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, strings.Split(line, "\t"))
	}
	return out
}

func column(parts []string, i int) string {
	if i < len(parts) {
		return strings.TrimSpace(parts[i])
	}
	return ""
}

// ParseLegacy parses the legacy report. Rows with fewer than two columns are dropped.
func ParseLegacy(text string) []LegacyRow {
	var rows []LegacyRow
	for _, parts := range lines(text) {
		if len(parts) < 2 {
			continue
		}
		rows = append(rows, LegacyRow{
			Time:         column(parts, 0),
			Sales:        column(parts, 1),
			Transactions: column(parts, 2),
			Average:      column(parts, 3),
		})
	}
	return rows
}

// ParseHourly parses the hourly report. A first line whose figures do not
// parse is taken as a header.
func ParseHourly(text string) ([]HourlyRow, error) {
	var rows []HourlyRow
	for i, parts := range lines(text) {
		if len(parts) < 2 {
			continue
		}
		amounts, err := parseAmounts(parts[1:], 5)
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("hourly row %d: %w", i+1, err)
		}
		rows = append(rows, HourlyRow{
			Minute:           column(parts, 0),
			TodayForecast:    amounts[0],
			TodayActual:      amounts[1],
			LastYearForecast: amounts[2],
			LastYearActual:   amounts[3],
			LastYearVariance: amounts[4],
		})
	}
	return rows, nil
}

// ParseWeekly parses the weekly summary. A first line whose figures do not
// parse is taken as a header.
func ParseWeekly(text string) ([]WeeklyRow, error) {
	var rows []WeeklyRow
	for i, parts := range lines(text) {
		if len(parts) < 2 {
			continue
		}
		amounts, err := parseAmounts(parts[1:], 3)
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("weekly row %d: %w", i+1, err)
		}
		rows = append(rows, WeeklyRow{
			Day:      column(parts, 0),
			Sales:    amounts[0],
			Target:   amounts[1],
			Variance: amounts[2],
		})
	}
	return rows, nil
}

func parseAmounts(parts []string, n int) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, n)
	for i := 0; i < n; i++ {
		d, err := ParseAmount(column(parts, i))
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// ParseAmount parses a pasted figure such as "£1,234.50", "-12%" or "(3.20)".
// An empty cell is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("£", "", "$", "", "€", "", ",", "", "%", "", " ", "").Replace(s)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q: %v", ErrInvalidAmount, s, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// Compare lines up three legacy reports by time. Times are the union of all
// three, sorted; a report without the slot shows Missing.
func Compare(today, lastWeek, lastYear []LegacyRow) []ComparisonRow {
	index := func(rows []LegacyRow) map[string]string {
		m := make(map[string]string, len(rows))
		for _, r := range rows {
			if _, ok := m[r.Time]; !ok {
				m[r.Time] = r.Sales
			}
		}
		return m
	}
	t, w, y := index(today), index(lastWeek), index(lastYear)

	seen := make(map[string]bool)
	var times []string
	for _, m := range []map[string]string{t, w, y} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				times = append(times, k)
			}
		}
	}
	sort.Strings(times)

	cell := func(m map[string]string, k string) string {
		if v, ok := m[k]; ok {
			return v
		}
		return Missing
	}

	rows := make([]ComparisonRow, 0, len(times))
	for _, k := range times {
		rows = append(rows, ComparisonRow{
			Time:     k,
			Today:    cell(t, k),
			LastWeek: cell(w, k),
			LastYear: cell(y, k),
		})
	}
	return rows
}

// CompareData parses the saved paste blob and lines the three reports up
func CompareData(data db.SalesData) Comparison {
	c := Comparison{
		Today:    ParseLegacy(data.TodayData),
		LastWeek: ParseLegacy(data.LastWeekData),
		LastYear: ParseLegacy(data.LastYearData),
	}
	c.Rows = Compare(c.Today, c.LastWeek, c.LastYear)
	return c
}

// ForecastRecords turns an hourly report into sales records keyed by time
func ForecastRecords(rows []HourlyRow) []db.SalesRecordInput {
	out := make([]db.SalesRecordInput, 0, len(rows))
	for _, r := range rows {
		out = append(out, db.SalesRecordInput{
			Time:     r.Minute,
			Forecast: r.TodayForecast,
		})
	}
	return out
}
