package localstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(context.Background(), path, zap.NewNop(), Options{Now: fixedNow})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_SeedsEmptyStore(t *testing.T) {
	store := openTestStore(t, ":memory:")
	ctx := context.Background()

	positions, err := store.ListPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 4)
	for _, p := range positions {
		assert.Equal(t, db.KindCleaningArea, p.Type)
	}

	infos, err := store.ListShiftInfo(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "01/03/2025", infos[0].Date)
	assert.Equal(t, db.DefaultForecast, infos[0].Forecast)

	_, err = store.GetSalesData(ctx)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestOpen_ReadsSavedState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallback.db")
	ctx := context.Background()

	first, err := Open(ctx, path, zap.NewNop(), Options{Now: fixedNow})
	require.NoError(t, err)
	staff, err := first.InsertStaff(ctx, []db.NewStaff{{Name: "Alice", IsUnder18: true}})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := openTestStore(t, path)
	got, err := second.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, staff[0].ID, got[0].ID)
	assert.True(t, got[0].IsUnder18)

	positions, err := second.ListPositions(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 4, "seed is not re-applied")
}

func TestDeleteStaff_CascadesToDeployments(t *testing.T) {
	store := openTestStore(t, ":memory:")
	ctx := context.Background()

	staff, err := store.InsertStaff(ctx, []db.NewStaff{{Name: "Alice"}, {Name: "Bob"}})
	require.NoError(t, err)

	_, err = store.InsertDeployments(ctx, []db.NewDeployment{
		{Date: "01/03/2025", StaffID: staff[0].ID, StartTime: "10:00", EndTime: "16:00", BreakMinutes: 30},
		{Date: "02/03/2025", StaffID: staff[0].ID, StartTime: "10:00", EndTime: "12:00"},
		{Date: "02/03/2025", StaffID: staff[1].ID, StartTime: "11:00", EndTime: "15:00"},
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteStaff(ctx, staff[0].ID))

	deployments, err := store.ListDeployments(ctx)
	require.NoError(t, err)
	require.Len(t, deployments, 1)
	assert.Equal(t, staff[1].ID, deployments[0].StaffID)
	require.NotNil(t, deployments[0].Staff)
	assert.Equal(t, "Bob", deployments[0].Staff.Name)

	assert.ErrorIs(t, store.DeleteStaff(ctx, staff[0].ID), db.ErrNotFound)
}

func TestInsertDeployments_UnknownStaffRollsBack(t *testing.T) {
	store := openTestStore(t, ":memory:")
	ctx := context.Background()

	staff, err := store.InsertStaff(ctx, []db.NewStaff{{Name: "Alice"}})
	require.NoError(t, err)

	_, err = store.InsertDeployments(ctx, []db.NewDeployment{
		{Date: "01/03/2025", StaffID: staff[0].ID, StartTime: "10:00", EndTime: "16:00"},
		{Date: "01/03/2025", StaffID: "ghost", StartTime: "10:00", EndTime: "16:00"},
	})
	assert.ErrorIs(t, err, db.ErrNotFound)

	deployments, err := store.ListDeployments(ctx)
	require.NoError(t, err)
	assert.Empty(t, deployments, "batch is all or nothing")
}

func TestListDeployments_LatestDateFirst(t *testing.T) {
	store := openTestStore(t, ":memory:")
	ctx := context.Background()

	staff, err := store.InsertStaff(ctx, []db.NewStaff{{Name: "Alice"}})
	require.NoError(t, err)
	_, err = store.InsertDeployments(ctx, []db.NewDeployment{
		{Date: "28/02/2025", StaffID: staff[0].ID, StartTime: "10:00", EndTime: "12:00"},
		{Date: "01/03/2025", StaffID: staff[0].ID, StartTime: "14:00", EndTime: "16:00"},
		{Date: "01/03/2025", StaffID: staff[0].ID, StartTime: "08:00", EndTime: "12:00"},
	})
	require.NoError(t, err)

	deployments, err := store.ListDeployments(ctx)
	require.NoError(t, err)
	require.Len(t, deployments, 3)
	assert.Equal(t, "01/03/2025", deployments[0].Date)
	assert.Equal(t, "08:00", deployments[0].StartTime)
	assert.Equal(t, "28/02/2025", deployments[2].Date)
}

func TestDeletePosition_ClearsChildAreas(t *testing.T) {
	store := openTestStore(t, ":memory:")
	ctx := context.Background()

	area, err := store.InsertPosition(ctx, db.NewPosition{Name: "Front", Type: db.KindArea})
	require.NoError(t, err)
	till, err := store.InsertPosition(ctx, db.NewPosition{Name: "Till", Type: db.KindPosition, AreaID: &area.ID})
	require.NoError(t, err)

	require.NoError(t, store.DeletePosition(ctx, area.ID))

	positions, err := store.ListPositions(ctx)
	require.NoError(t, err)
	for _, p := range positions {
		if p.ID == till.ID {
			assert.Nil(t, p.AreaID)
		}
		assert.NotEqual(t, area.ID, p.ID)
	}
}

func TestInsertPosition_DetachesAreaID(t *testing.T) {
	store := openTestStore(t, ":memory:")
	ctx := context.Background()

	area, err := store.InsertPosition(ctx, db.NewPosition{Name: "Front", Type: db.KindArea})
	require.NoError(t, err)
	areaID := area.ID
	till, err := store.InsertPosition(ctx, db.NewPosition{Name: "Till", Type: db.KindPosition, AreaID: &areaID})
	require.NoError(t, err)

	areaID = "changed-by-caller"
	*till.AreaID = "changed-by-result"

	positions, err := store.ListPositions(ctx)
	require.NoError(t, err)
	for _, p := range positions {
		if p.ID == till.ID {
			require.NotNil(t, p.AreaID)
			assert.Equal(t, area.ID, *p.AreaID)
		}
	}
}

func TestUpsertShiftInfo_KeyedByDate(t *testing.T) {
	store := openTestStore(t, ":memory:")
	ctx := context.Background()

	first, err := store.UpsertShiftInfo(ctx, "05/03/2025", db.ShiftInfoFields{Notes: "one"})
	require.NoError(t, err)
	second, err := store.UpsertShiftInfo(ctx, "05/03/2025", db.ShiftInfoFields{Weather: "Rain"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, second.Notes)

	infos, err := store.ListShiftInfo(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 2, "seeded date plus 05/03")
}

func TestSalesAndTargets(t *testing.T) {
	store := openTestStore(t, ":memory:")
	ctx := context.Background()

	_, err := store.InsertSalesRecords(ctx, "01/03/2025", []db.SalesRecordInput{
		{Time: "11:00", Forecast: decimal.RequireFromString("10.555")},
	})
	require.NoError(t, err)
	require.NoError(t, store.DeleteSalesRecords(ctx, "02/03/2025"))

	records, err := store.ListSalesRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "10.56", records[0].Forecast.StringFixed(2))

	_, err = store.ReplaceSalesData(ctx, db.SalesData{TodayData: "11:00\t£5"})
	require.NoError(t, err)
	data, err := store.GetSalesData(ctx)
	require.NoError(t, err)
	assert.Equal(t, "11:00\t£5", data.TodayData)

	low, err := store.InsertTarget(ctx, db.NewTarget{Name: "B", Priority: 5})
	require.NoError(t, err)
	_, err = store.InsertTarget(ctx, db.NewTarget{Name: "A", Priority: 1})
	require.NoError(t, err)

	priority := 0
	_, err = store.UpdateTarget(ctx, low.ID, db.TargetUpdate{Priority: &priority})
	require.NoError(t, err)

	targets, err := store.ListTargets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "B", targets[0].Name)

	assert.ErrorIs(t, store.DeleteTarget(ctx, "missing"), db.ErrNotFound)
}
