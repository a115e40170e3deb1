package salesdata

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

func TestParseLegacy(t *testing.T) {
	text := "11:00\t£120.50\t14\t£8.61\n\n12:00\t£310.00\n13:00\n"

	rows := ParseLegacy(text)

	require.Len(t, rows, 2)
	assert.Equal(t, LegacyRow{Time: "11:00", Sales: "£120.50", Transactions: "14", Average: "£8.61"}, rows[0])
	assert.Equal(t, LegacyRow{Time: "12:00", Sales: "£310.00"}, rows[1])
}

func TestParseLegacy_Empty(t *testing.T) {
	assert.Empty(t, ParseLegacy(""))
	assert.Empty(t, ParseLegacy("\n \n"))
}

func TestParseHourly(t *testing.T) {
	text := "Minute\tToday Forecast\tToday Actual\tLY Forecast\tLY Actual\tLY Var\n" +
		"11:00\t£150.00\t£162.40\t£140.00\t£138.20\t17.5%\n" +
		"11:15\t£1,050.25\t\t£990\t£1,001.10\t(4.9)\r\n"

	rows, err := ParseHourly(text)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "11:00", rows[0].Minute)
	assert.True(t, rows[0].TodayForecast.Equal(decimal.RequireFromString("150")))
	assert.True(t, rows[0].TodayActual.Equal(decimal.RequireFromString("162.40")))
	assert.True(t, rows[0].LastYearVariance.Equal(decimal.RequireFromString("17.5")))

	assert.True(t, rows[1].TodayForecast.Equal(decimal.RequireFromString("1050.25")))
	assert.True(t, rows[1].TodayActual.IsZero())
	assert.True(t, rows[1].LastYearVariance.Equal(decimal.RequireFromString("-4.9")))
}

func TestParseHourly_BadFigureAfterHeader(t *testing.T) {
	text := "11:00\t£150.00\t£1\t£1\t£1\t1\n11:15\tlots\t£1\t£1\t£1\t1\n"

	_, err := ParseHourly(text)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hourly row 2")
}

func TestParseWeekly(t *testing.T) {
	text := "Day\tSales\tTarget\tVariance\nMon\t£4,210.00\t£4,000.00\t£210.00\nTue\t£3,900\t£4,000\t(£100)\n"

	rows, err := ParseWeekly(text)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Mon", rows[0].Day)
	assert.True(t, rows[0].Sales.Equal(decimal.RequireFromString("4210")))
	assert.True(t, rows[1].Variance.Equal(decimal.RequireFromString("-100")))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"£1,234.50", "1234.5"},
		{"  42 ", "42"},
		{"", "0"},
		{"-", "0"},
		{"(12.00)", "-12"},
		{"-3.5%", "-3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}

	_, err := ParseAmount("twelve")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	today := []LegacyRow{{Time: "12:00", Sales: "£300"}, {Time: "11:00", Sales: "£100"}}
	lastWeek := []LegacyRow{{Time: "11:00", Sales: "£90"}}
	lastYear := []LegacyRow{{Time: "13:00", Sales: "£250"}}

	rows := Compare(today, lastWeek, lastYear)

	assert.Equal(t, []ComparisonRow{
		{Time: "11:00", Today: "£100", LastWeek: "£90", LastYear: Missing},
		{Time: "12:00", Today: "£300", LastWeek: Missing, LastYear: Missing},
		{Time: "13:00", Today: Missing, LastWeek: Missing, LastYear: "£250"},
	}, rows)
}

func TestCompareData(t *testing.T) {
	c := CompareData(db.SalesData{
		TodayData:    "11:00\t£100",
		LastYearData: "11:00\t£80",
	})

	assert.Len(t, c.Today, 1)
	assert.Empty(t, c.LastWeek)
	require.Len(t, c.Rows, 1)
	assert.Equal(t, ComparisonRow{Time: "11:00", Today: "£100", LastWeek: Missing, LastYear: "£80"}, c.Rows[0])
}

func TestForecastRecords(t *testing.T) {
	rows := []HourlyRow{
		{Minute: "11:00", TodayForecast: decimal.NewFromInt(150)},
		{Minute: "11:15", TodayForecast: decimal.RequireFromString("99.95")},
	}

	records := ForecastRecords(rows)

	require.Len(t, records, 2)
	assert.Equal(t, "11:15", records[1].Time)
	assert.True(t, records[1].Forecast.Equal(decimal.RequireFromString("99.95")))
}
