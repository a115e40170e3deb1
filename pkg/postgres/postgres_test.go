package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

func TestUpdateBuilder(t *testing.T) {
	var b updateBuilder
	assert.True(t, b.empty())

	b.set("name", "Till")
	b.set("area_id", nil)

	query, args := b.build("positions", "abc")
	assert.Equal(t, "UPDATE positions SET name = $1, area_id = $2 WHERE id = $3", query)
	assert.Equal(t, []any{"Till", nil, "abc"}, args)
}

// testDB connects to TEST_DATABASE_URL, migrates and empties every table.
// Tests are skipped when it is unset.
func testDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := NewDB(ctx, url)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	require.NoError(t, database.RunMigrations(ctx))
	_, err = database.pool.Exec(ctx, `TRUNCATE staff, positions, deployments, shift_info, sales_records, sales_data, targets CASCADE`)
	require.NoError(t, err)
	return database
}

func TestDB_StaffAndDeployments(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	staff, err := database.InsertStaff(ctx, []db.NewStaff{{Name: "Alice", IsUnder18: true}, {Name: "Bob"}})
	require.NoError(t, err)
	require.Len(t, staff, 2)

	inserted, err := database.InsertDeployments(ctx, []db.NewDeployment{
		{Date: "01/03/2025", StaffID: staff[0].ID, StartTime: "10:00", EndTime: "14:00", Position: "Till", BreakMinutes: 30},
		{Date: "01/03/2025", StaffID: staff[1].ID, StartTime: "09:00", EndTime: "17:00", BreakMinutes: 30},
	})
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	require.NotNil(t, inserted[0].Staff)
	assert.Equal(t, "Alice", inserted[0].Staff.Name)
	assert.True(t, inserted[0].Staff.IsUnder18)

	end := "13:00"
	brk := 0
	updated, err := database.UpdateDeployment(ctx, inserted[1].ID, db.DeploymentUpdate{EndTime: &end, BreakMinutes: &brk})
	require.NoError(t, err)
	assert.Equal(t, "13:00", updated.EndTime)
	assert.Equal(t, 0, updated.BreakMinutes)
	assert.Equal(t, "Till", inserted[0].Position)

	require.NoError(t, database.DeleteStaff(ctx, staff[0].ID))
	deployments, err := database.ListDeployments(ctx)
	require.NoError(t, err)
	require.Len(t, deployments, 1, "deleting staff cascades to deployments")
	assert.Equal(t, staff[1].ID, deployments[0].StaffID)

	assert.ErrorIs(t, database.DeleteStaff(ctx, staff[0].ID), db.ErrNotFound)
}

func TestDB_PositionsAreaSetNull(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	area, err := database.InsertPosition(ctx, db.NewPosition{Name: "Front", Type: db.KindArea})
	require.NoError(t, err)
	till, err := database.InsertPosition(ctx, db.NewPosition{Name: "Till", Type: db.KindPosition, AreaID: &area.ID})
	require.NoError(t, err)
	require.NotNil(t, till.AreaID)

	require.NoError(t, database.DeletePosition(ctx, area.ID))

	positions, err := database.ListPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Nil(t, positions[0].AreaID)
}

func TestDB_ShiftInfoUpsert(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	first, err := database.UpsertShiftInfo(ctx, "01/03/2025", db.ShiftInfoFields{Forecast: "£1", Notes: "first"})
	require.NoError(t, err)
	second, err := database.UpsertShiftInfo(ctx, "01/03/2025", db.ShiftInfoFields{Forecast: "£2"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, second.Notes)

	infos, err := database.ListShiftInfo(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestDB_Sales(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	_, err := database.GetSalesData(ctx)
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = database.InsertSalesRecords(ctx, "01/03/2025", []db.SalesRecordInput{
		{Time: "11:00", Forecast: decimal.RequireFromString("150.25")},
	})
	require.NoError(t, err)

	records, err := database.ListSalesRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Forecast.Equal(decimal.RequireFromString("150.25")))

	_, err = database.ReplaceSalesData(ctx, db.SalesData{TodayData: "a"})
	require.NoError(t, err)
	saved, err := database.ReplaceSalesData(ctx, db.SalesData{TodayData: "b"})
	require.NoError(t, err)

	got, err := database.GetSalesData(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "b", got.TodayData)
}
