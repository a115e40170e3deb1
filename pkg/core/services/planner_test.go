package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/pkg/core/policy"
	"github.com/jakechorley/deployment-planner/pkg/db"
)

// mockDB implements a test double for db.Database
type mockDB struct {
	mu sync.Mutex

	staff        []db.Staff
	positions    []db.Position
	deployments  []db.Deployment
	shiftInfo    []db.ShiftInfo
	salesRecords []db.SalesRecord
	salesData    *db.SalesData
	targets      []db.Target

	nextID int

	insertStaffCalls       int
	insertDeploymentCalls  int
	insertedDeployments    [][]db.NewDeployment
	upsertShiftInfoCalls   int
	lastDeploymentUpdate   db.DeploymentUpdate
	lastPositionUpdate     db.PositionUpdate
	deletedDeploymentDates []string

	listDeploymentsErr error
	insertErr          error
	insertSalesErr     error
	deleteErr          error
}

func (m *mockDB) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *mockDB) ListStaff(ctx context.Context) ([]db.Staff, error) {
	return m.staff, nil
}

func (m *mockDB) InsertStaff(ctx context.Context, staff []db.NewStaff) ([]db.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertStaffCalls++
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	var out []db.Staff
	for _, s := range staff {
		row := db.Staff{ID: m.id("staff"), Name: s.Name, IsUnder18: s.IsUnder18}
		m.staff = append(m.staff, row)
		out = append(out, row)
	}
	return out, nil
}

func (m *mockDB) DeleteStaff(ctx context.Context, id string) error {
	return m.deleteErr
}

func (m *mockDB) ListPositions(ctx context.Context) ([]db.Position, error) {
	return m.positions, nil
}

func (m *mockDB) InsertPosition(ctx context.Context, position db.NewPosition) (*db.Position, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	row := db.Position{ID: m.id("position"), Name: position.Name, Type: position.Type, AreaID: position.AreaID}
	return &row, nil
}

func (m *mockDB) UpdatePosition(ctx context.Context, id string, update db.PositionUpdate) (*db.Position, error) {
	m.lastPositionUpdate = update
	for _, p := range m.positions {
		if p.ID != id {
			continue
		}
		if update.Name != nil {
			p.Name = *update.Name
		}
		if update.Type != nil {
			p.Type = *update.Type
		}
		if update.ClearArea {
			p.AreaID = nil
		}
		if update.AreaID != nil {
			p.AreaID = update.AreaID
		}
		return &p, nil
	}
	return nil, db.ErrNotFound
}

func (m *mockDB) DeletePosition(ctx context.Context, id string) error {
	return m.deleteErr
}

func (m *mockDB) ListDeployments(ctx context.Context) ([]db.Deployment, error) {
	if m.listDeploymentsErr != nil {
		return nil, m.listDeploymentsErr
	}
	return m.deployments, nil
}

func (m *mockDB) InsertDeployments(ctx context.Context, deployments []db.NewDeployment) ([]db.Deployment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertDeploymentCalls++
	m.insertedDeployments = append(m.insertedDeployments, deployments)
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	var out []db.Deployment
	for _, d := range deployments {
		out = append(out, db.Deployment{
			ID:           m.id("deployment"),
			Date:         d.Date,
			StaffID:      d.StaffID,
			StartTime:    d.StartTime,
			EndTime:      d.EndTime,
			Position:     d.Position,
			Secondary:    d.Secondary,
			Area:         d.Area,
			Cleaning:     d.Cleaning,
			BreakMinutes: d.BreakMinutes,
		})
	}
	return out, nil
}

func (m *mockDB) UpdateDeployment(ctx context.Context, id string, update db.DeploymentUpdate) (*db.Deployment, error) {
	m.lastDeploymentUpdate = update
	for _, d := range m.deployments {
		if d.ID != id {
			continue
		}
		if update.StartTime != nil {
			d.StartTime = *update.StartTime
		}
		if update.EndTime != nil {
			d.EndTime = *update.EndTime
		}
		if update.Position != nil {
			d.Position = *update.Position
		}
		if update.BreakMinutes != nil {
			d.BreakMinutes = *update.BreakMinutes
		}
		return &d, nil
	}
	return nil, db.ErrNotFound
}

func (m *mockDB) DeleteDeployment(ctx context.Context, id string) error {
	return m.deleteErr
}

func (m *mockDB) DeleteDeploymentsByDate(ctx context.Context, date string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedDeploymentDates = append(m.deletedDeploymentDates, date)
	return nil
}

func (m *mockDB) ListShiftInfo(ctx context.Context) ([]db.ShiftInfo, error) {
	return m.shiftInfo, nil
}

func (m *mockDB) UpsertShiftInfo(ctx context.Context, date string, fields db.ShiftInfoFields) (*db.ShiftInfo, error) {
	m.upsertShiftInfoCalls++
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	return &db.ShiftInfo{
		ID:                 m.id("shift"),
		Date:               date,
		Forecast:           fields.Forecast,
		DayShiftForecast:   fields.DayShiftForecast,
		NightShiftForecast: fields.NightShiftForecast,
		Weather:            fields.Weather,
		Notes:              fields.Notes,
	}, nil
}

func (m *mockDB) DeleteShiftInfo(ctx context.Context, date string) error {
	return m.deleteErr
}

func (m *mockDB) ListSalesRecords(ctx context.Context) ([]db.SalesRecord, error) {
	return m.salesRecords, nil
}

func (m *mockDB) DeleteSalesRecords(ctx context.Context, date string) error {
	return m.deleteErr
}

func (m *mockDB) InsertSalesRecords(ctx context.Context, date string, records []db.SalesRecordInput) ([]db.SalesRecord, error) {
	if m.insertSalesErr != nil {
		return nil, m.insertSalesErr
	}
	var out []db.SalesRecord
	for _, r := range records {
		out = append(out, db.SalesRecord{ID: m.id("sales"), Date: date, Time: r.Time, Forecast: r.Forecast})
	}
	return out, nil
}

func (m *mockDB) GetSalesData(ctx context.Context) (*db.SalesData, error) {
	if m.salesData == nil {
		return nil, db.ErrNotFound
	}
	return m.salesData, nil
}

func (m *mockDB) ReplaceSalesData(ctx context.Context, data db.SalesData) (*db.SalesData, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	data.ID = m.id("salesdata")
	return &data, nil
}

func (m *mockDB) ListTargets(ctx context.Context) ([]db.Target, error) {
	return m.targets, nil
}

func (m *mockDB) InsertTarget(ctx context.Context, target db.NewTarget) (*db.Target, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	return &db.Target{
		ID:          m.id("target"),
		Name:        target.Name,
		Description: target.Description,
		Priority:    target.Priority,
		IsActive:    target.IsActive,
	}, nil
}

func (m *mockDB) UpdateTarget(ctx context.Context, id string, update db.TargetUpdate) (*db.Target, error) {
	for _, t := range m.targets {
		if t.ID != id {
			continue
		}
		if update.Priority != nil {
			t.Priority = *update.Priority
		}
		if update.IsActive != nil {
			t.IsActive = *update.IsActive
		}
		return &t, nil
	}
	return nil, db.ErrNotFound
}

func (m *mockDB) DeleteTarget(ctx context.Context, id string) error {
	return m.deleteErr
}

const (
	areaFrontID = "6f1c2d3e-0000-4000-8000-000000000001"
	tillID      = "6f1c2d3e-0000-4000-8000-000000000002"
	lobbyID     = "6f1c2d3e-0000-4000-8000-000000000003"
	missingID   = "6f1c2d3e-0000-4000-8000-000000000099"
)

// seededDB returns a store with two staff, two dates and an area
func seededDB() *mockDB {
	return &mockDB{
		staff: []db.Staff{
			{ID: "adult", Name: "Alice Adult", IsUnder18: false},
			{ID: "minor", Name: "Mia Minor", IsUnder18: true},
		},
		positions: []db.Position{
			{ID: areaFrontID, Name: "Front", Type: db.KindArea},
			{ID: tillID, Name: "Till", Type: db.KindPosition, AreaID: strPtr(areaFrontID)},
			{ID: lobbyID, Name: "Lobby / Toilets", Type: db.KindCleaningArea},
		},
		deployments: []db.Deployment{
			{ID: "dep-1", Date: "01/03/2025", StaffID: "adult", StartTime: "10:00", EndTime: "16:30", Position: "Till", BreakMinutes: 30},
			{ID: "dep-2", Date: "01/03/2025", StaffID: "minor", StartTime: "17:00", EndTime: "21:00", Position: "Drinks", BreakMinutes: 30},
			{ID: "dep-3", Date: "02/03/2025", StaffID: "adult", StartTime: "09:00", EndTime: "12:00", BreakMinutes: 0},
		},
		shiftInfo: []db.ShiftInfo{
			{ID: "si-1", Date: "01/03/2025", Forecast: "£4,000", Weather: "Sunny", Notes: "Delivery at 9"},
		},
		targets: []db.Target{
			{ID: "t-1", Name: "Upsell desserts", Priority: 1, IsActive: true},
			{ID: "t-2", Name: "Drive-thru time", Priority: 2, IsActive: false},
		},
	}
}

func strPtr(s string) *string { return &s }

func newLoadedPlanner(t *testing.T, store *mockDB) *Planner {
	t.Helper()
	planner := NewPlanner(store, zap.NewNop(), Options{})
	require.NoError(t, planner.Load(context.Background()))
	return planner
}

func TestNewPlanner_Defaults(t *testing.T) {
	planner := NewPlanner(&mockDB{}, zap.NewNop(), Options{})

	assert.Equal(t, StateLoading, planner.State())
	assert.Equal(t, policy.VariantA, planner.BreakPolicy())
	assert.Equal(t, db.DefaultDateLayout, planner.DateLayout())
	assert.Equal(t, DefaultRepeatLimit, planner.repeatLimit)
}

func TestLoad_GroupsByDate(t *testing.T) {
	planner := newLoadedPlanner(t, seededDB())

	assert.Equal(t, StateReady, planner.State())
	assert.NoError(t, planner.Err())
	assert.Equal(t, []string{"01/03/2025", "02/03/2025"}, planner.Dates())
	assert.Len(t, planner.Deployments("01/03/2025"), 2)
	assert.Len(t, planner.Deployments("02/03/2025"), 1)

	info, ok := planner.ShiftInfo("01/03/2025")
	require.True(t, ok)
	assert.Equal(t, "Sunny", info.Weather)

	assert.Equal(t, "Alice Adult", planner.StaffName("adult"))
	assert.Equal(t, "Unknown", planner.StaffName("gone"))
	assert.Empty(t, planner.SalesData().TodayData, "missing sales data row loads as empty")
}

func TestLoad_AnyFailureIsTerminal(t *testing.T) {
	store := seededDB()
	store.listDeploymentsErr = errors.New("connection reset")

	planner := NewPlanner(store, zap.NewNop(), Options{})
	err := planner.Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load deployments")
	assert.Equal(t, StateError, planner.State())
	assert.ErrorIs(t, planner.Err(), store.listDeploymentsErr)
	assert.Empty(t, planner.Staff(), "mirror is not partially filled")

	_, err = planner.AddStaff(context.Background(), db.NewStaff{Name: "Bob"})
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Zero(t, store.insertStaffCalls)

	store.listDeploymentsErr = nil
	require.NoError(t, planner.Reload(context.Background()))
	assert.Equal(t, StateReady, planner.State())
	assert.Len(t, planner.Staff(), 2)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "error", StateError.String())
}

func TestDates_ChronologicalOrder(t *testing.T) {
	store := &mockDB{
		shiftInfo: []db.ShiftInfo{
			{Date: "02/04/2025"},
			{Date: "15/03/2025"},
			{Date: "01/12/2024"},
		},
	}
	planner := newLoadedPlanner(t, store)

	assert.Equal(t, []string{"01/12/2024", "15/03/2025", "02/04/2025"}, planner.Dates())
}
