package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

func TestAddPosition_AreaInvariant(t *testing.T) {
	ctx := context.Background()
	planner := newLoadedPlanner(t, seededDB())

	tests := []struct {
		name    string
		input   db.NewPosition
		wantErr bool
	}{
		{"position under area", db.NewPosition{Name: "Drinks", Type: db.KindPosition, AreaID: strPtr(areaFrontID)}, false},
		{"secondary without area", db.NewPosition{Name: "Pack", Type: db.KindSecondary}, false},
		{"parent is not an area", db.NewPosition{Name: "Bad", Type: db.KindPosition, AreaID: strPtr(tillID)}, true},
		{"parent missing", db.NewPosition{Name: "Bad", Type: db.KindPosition, AreaID: strPtr(missingID)}, true},
		{"area cannot have area", db.NewPosition{Name: "Bad", Type: db.KindArea, AreaID: strPtr(areaFrontID)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := planner.AddPosition(ctx, tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArea)
				return
			}
			require.NoError(t, err)
		})
	}

	assert.Equal(t, []string{"Drinks", "Till"}, planner.PositionsByKind(db.KindPosition))
}

func TestUpdatePosition_KindChangeDropsArea(t *testing.T) {
	store := seededDB()
	planner := newLoadedPlanner(t, store)

	kind := db.KindCleaningArea
	updated, err := planner.UpdatePosition(context.Background(), tillID, db.PositionUpdate{Type: &kind})
	require.NoError(t, err)

	assert.True(t, store.lastPositionUpdate.ClearArea)
	assert.Nil(t, updated.AreaID)
	assert.Empty(t, planner.AreaPositions(areaFrontID))
}

func TestUpdatePosition_AreaWithChildrenKeepsKind(t *testing.T) {
	planner := newLoadedPlanner(t, seededDB())

	kind := db.KindPosition
	_, err := planner.UpdatePosition(context.Background(), areaFrontID, db.PositionUpdate{Type: &kind})
	assert.ErrorIs(t, err, ErrInvalidArea)
}

func TestRemovePosition_ClearsChildAreas(t *testing.T) {
	planner := newLoadedPlanner(t, seededDB())

	require.NoError(t, planner.RemovePosition(context.Background(), areaFrontID))

	for _, p := range planner.PositionsWithAreas() {
		assert.Nil(t, p.AreaID, p.Name)
		assert.Nil(t, p.AreaName, p.Name)
	}
}

func TestPositionsWithAreas(t *testing.T) {
	planner := newLoadedPlanner(t, seededDB())

	for _, p := range planner.PositionsWithAreas() {
		if p.ID == tillID {
			require.NotNil(t, p.AreaName)
			assert.Equal(t, "Front", *p.AreaName)
		}
	}
}

func TestPositionAccessorsReturnCopies(t *testing.T) {
	planner := newLoadedPlanner(t, seededDB())

	for _, p := range planner.Positions() {
		if p.AreaID != nil {
			*p.AreaID = missingID
		}
	}
	for _, p := range planner.PositionsWithAreas() {
		if p.AreaID != nil {
			*p.AreaID = missingID
		}
	}
	for _, p := range planner.AreaPositions(areaFrontID) {
		*p.AreaID = missingID
	}

	till, ok := planner.mirror.PositionByID(tillID)
	require.True(t, ok)
	require.NotNil(t, till.AreaID)
	assert.Equal(t, areaFrontID, *till.AreaID)
	assert.Len(t, planner.AreaPositions(areaFrontID), 1)
}

func TestAddPosition_KeepsNameOrder(t *testing.T) {
	planner := newLoadedPlanner(t, seededDB())

	_, err := planner.AddPosition(context.Background(), db.NewPosition{Name: "Bins", Type: db.KindCleaningArea})
	require.NoError(t, err)

	var names []string
	for _, p := range planner.Positions() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Bins", "Front", "Lobby / Toilets", "Till"}, names)
}
