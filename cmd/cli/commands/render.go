package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jakechorley/deployment-planner/pkg/clients/sheetsclient"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorYellow = "\033[33m"
)

// renderTable writes rows under headers with each column padded to its
// widest cell
func renderTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(cell)
			if i < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)+2))
			}
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}

	writeRow(headers)
	separators := make([]string, len(widths))
	for i, width := range widths {
		separators[i] = strings.Repeat("-", width)
	}
	writeRow(separators)
	for _, row := range rows {
		writeRow(row)
	}
}

// renderDeploymentSheet prints a day's sheet: shift info block, then the
// deployment table
func renderDeploymentSheet(w io.Writer, sheet *sheetsclient.DeploymentSheet) {
	fmt.Fprintf(w, "\n%sDeployments for %s%s\n\n", colorBold, sheet.Date, colorReset)
	fmt.Fprintf(w, "Forecast: %s  (day %s, night %s)\n", orDash(sheet.Forecast), orDash(sheet.DayShiftForecast), orDash(sheet.NightShiftForecast))
	fmt.Fprintf(w, "Weather:  %s\n", orDash(sheet.Weather))
	if sheet.Notes != "" {
		fmt.Fprintf(w, "Notes:    %s%s%s\n", colorYellow, sheet.Notes, colorReset)
	}
	fmt.Fprintln(w)

	if len(sheet.Rows) == 0 {
		fmt.Fprintf(w, "%sNo deployments%s\n", colorDim, colorReset)
		return
	}

	rows := make([][]string, len(sheet.Rows))
	for i, r := range sheet.Rows {
		rows[i] = r.Cells()
	}
	renderTable(w, sheetsclient.ColumnHeaders, rows)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
