package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/deployment-planner/pkg/db"
	"github.com/jakechorley/deployment-planner/pkg/staffimport"
)

func TestAddStaff(t *testing.T) {
	store := seededDB()
	planner := newLoadedPlanner(t, store)

	s, err := planner.AddStaff(context.Background(), db.NewStaff{Name: "Bob Builder"})
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Len(t, planner.Staff(), 3)

	_, err = planner.AddStaff(context.Background(), db.NewStaff{Name: ""})
	assert.Error(t, err)
	assert.Equal(t, 1, store.insertStaffCalls)
}

func TestAddStaff_KeepsNameOrder(t *testing.T) {
	planner := newLoadedPlanner(t, seededDB())

	_, err := planner.AddStaff(context.Background(), db.NewStaff{Name: "Aaron Early"})
	require.NoError(t, err)
	_, err = planner.AddStaff(context.Background(), db.NewStaff{Name: "Zoe Late"})
	require.NoError(t, err)

	var names []string
	for _, s := range planner.Staff() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Aaron Early", "Alice Adult", "Mia Minor", "Zoe Late"}, names)
}

func TestImportStaff_CSV(t *testing.T) {
	store := &mockDB{}
	planner := newLoadedPlanner(t, store)

	result, err := planner.ImportStaff(context.Background(), "staff.csv", []byte("Alice,true\nBob,false"))
	require.NoError(t, err)

	require.Len(t, result.Added, 2)
	assert.Equal(t, 1, store.insertStaffCalls, "rows are inserted in one batch")

	staff := planner.Staff()
	require.Len(t, staff, 2)
	assert.Equal(t, "Alice", staff[0].Name)
	assert.True(t, staff[0].IsUnder18)
	assert.Equal(t, "Bob", staff[1].Name)
	assert.False(t, staff[1].IsUnder18)
}

func TestImportStaff_RejectsOtherFileTypes(t *testing.T) {
	store := &mockDB{}
	planner := newLoadedPlanner(t, store)

	result, err := planner.ImportStaff(context.Background(), "staff.pdf", []byte("%PDF-1.7"))

	assert.ErrorIs(t, err, staffimport.ErrUnsupportedFileType)
	assert.Nil(t, result)
	assert.Zero(t, store.insertStaffCalls)
	assert.Empty(t, planner.Staff())
}

func TestImportStaff_NothingToInsert(t *testing.T) {
	store := &mockDB{}
	planner := newLoadedPlanner(t, store)

	result, err := planner.ImportStaff(context.Background(), "staff.csv", []byte("Name,IsUnder18\n,true\n"))
	require.NoError(t, err)

	assert.Empty(t, result.Added)
	assert.Len(t, result.Skipped, 1)
	assert.Zero(t, store.insertStaffCalls)
}
