package localstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

func (st *state) staffByID(id string) (db.Staff, bool) {
	for _, s := range st.Staff {
		if s.ID == id {
			return s, true
		}
	}
	return db.Staff{}, false
}

func (st *state) positionByID(id string) (db.Position, bool) {
	for _, p := range st.Positions {
		if p.ID == id {
			return p, true
		}
	}
	return db.Position{}, false
}

// withStaff fills the joined staff sub-record
func (st *state) withStaff(d db.Deployment) db.Deployment {
	if s, ok := st.staffByID(d.StaffID); ok {
		d.Staff = &db.DeploymentStaff{ID: s.ID, Name: s.Name, IsUnder18: s.IsUnder18}
	}
	return d
}

// Staff

func (s *Store) ListStaff(ctx context.Context) ([]db.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	staff := slices.Clone(s.state.Staff)
	sort.SliceStable(staff, func(i, j int) bool { return staff[i].Name < staff[j].Name })
	return staff, nil
}

func (s *Store) InsertStaff(ctx context.Context, staff []db.NewStaff) ([]db.Staff, error) {
	var inserted []db.Staff
	err := s.mutate(ctx, func(st *state) error {
		for _, n := range staff {
			row := db.Staff{ID: uuid.NewString(), Name: n.Name, IsUnder18: n.IsUnder18, CreatedAt: s.now().UTC()}
			st.Staff = append(st.Staff, row)
			inserted = append(inserted, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

// DeleteStaff removes the member and cascades to their deployments
func (s *Store) DeleteStaff(ctx context.Context, id string) error {
	return s.mutate(ctx, func(st *state) error {
		if _, ok := st.staffByID(id); !ok {
			return fmt.Errorf("staff %s: %w", id, db.ErrNotFound)
		}
		st.Staff = slices.DeleteFunc(st.Staff, func(m db.Staff) bool { return m.ID == id })
		st.Deployments = slices.DeleteFunc(st.Deployments, func(d db.Deployment) bool { return d.StaffID == id })
		return nil
	})
}

// Positions

func (s *Store) ListPositions(ctx context.Context) ([]db.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	positions := make([]db.Position, len(s.state.Positions))
	for i, p := range s.state.Positions {
		positions[i] = copyPosition(p)
	}
	sort.SliceStable(positions, func(i, j int) bool { return positions[i].Name < positions[j].Name })
	return positions, nil
}

// copyPosition detaches AreaID from the caller's or the state's memory
func copyPosition(p db.Position) db.Position {
	if p.AreaID != nil {
		areaID := *p.AreaID
		p.AreaID = &areaID
	}
	return p
}

func (s *Store) checkAreaRef(st *state, areaID *string) error {
	if areaID == nil {
		return nil
	}
	if _, ok := st.positionByID(*areaID); !ok {
		return fmt.Errorf("area %s: %w", *areaID, db.ErrNotFound)
	}
	return nil
}

func (s *Store) InsertPosition(ctx context.Context, position db.NewPosition) (*db.Position, error) {
	var inserted db.Position
	err := s.mutate(ctx, func(st *state) error {
		if err := s.checkAreaRef(st, position.AreaID); err != nil {
			return err
		}
		inserted = db.Position{
			ID:        uuid.NewString(),
			Name:      position.Name,
			Type:      position.Type,
			AreaID:    position.AreaID,
			CreatedAt: s.now().UTC(),
		}
		inserted = copyPosition(inserted)
		st.Positions = append(st.Positions, inserted)
		return nil
	})
	if err != nil {
		return nil, err
	}
	inserted = copyPosition(inserted)
	return &inserted, nil
}

func (s *Store) UpdatePosition(ctx context.Context, id string, update db.PositionUpdate) (*db.Position, error) {
	var updated db.Position
	err := s.mutate(ctx, func(st *state) error {
		if err := s.checkAreaRef(st, update.AreaID); err != nil {
			return err
		}
		for i := range st.Positions {
			p := &st.Positions[i]
			if p.ID != id {
				continue
			}
			if update.Name != nil {
				p.Name = *update.Name
			}
			if update.Type != nil {
				p.Type = *update.Type
			}
			if update.AreaID != nil {
				areaID := *update.AreaID
				p.AreaID = &areaID
			} else if update.ClearArea {
				p.AreaID = nil
			}
			updated = copyPosition(*p)
			return nil
		}
		return fmt.Errorf("position %s: %w", id, db.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePosition removes the position and clears child area references
func (s *Store) DeletePosition(ctx context.Context, id string) error {
	return s.mutate(ctx, func(st *state) error {
		if _, ok := st.positionByID(id); !ok {
			return fmt.Errorf("position %s: %w", id, db.ErrNotFound)
		}
		st.Positions = slices.DeleteFunc(st.Positions, func(p db.Position) bool { return p.ID == id })
		for i := range st.Positions {
			if st.Positions[i].AreaID != nil && *st.Positions[i].AreaID == id {
				st.Positions[i].AreaID = nil
			}
		}
		return nil
	})
}

// Deployments

// ListDeployments returns every deployment with its staff, latest date first
func (s *Store) ListDeployments(ctx context.Context) ([]db.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]db.Deployment, 0, len(s.state.Deployments))
	for _, d := range s.state.Deployments {
		out = append(out, s.state.withStaff(d))
	}

	day := func(date string) time.Time {
		t, _ := time.Parse(s.layout, date)
		return t
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := day(out[i].Date), day(out[j].Date)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return strings.Compare(out[i].StartTime, out[j].StartTime) < 0
	})
	return out, nil
}

func (s *Store) InsertDeployments(ctx context.Context, deployments []db.NewDeployment) ([]db.Deployment, error) {
	var inserted []db.Deployment
	err := s.mutate(ctx, func(st *state) error {
		for _, n := range deployments {
			if _, ok := st.staffByID(n.StaffID); !ok {
				return fmt.Errorf("staff %s: %w", n.StaffID, db.ErrNotFound)
			}
			row := db.Deployment{
				ID:           uuid.NewString(),
				Date:         n.Date,
				StaffID:      n.StaffID,
				StartTime:    n.StartTime,
				EndTime:      n.EndTime,
				Position:     n.Position,
				Secondary:    n.Secondary,
				Area:         n.Area,
				Cleaning:     n.Cleaning,
				BreakMinutes: n.BreakMinutes,
				CreatedAt:    s.now().UTC(),
			}
			st.Deployments = append(st.Deployments, row)
			inserted = append(inserted, st.withStaff(row))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

func (s *Store) UpdateDeployment(ctx context.Context, id string, update db.DeploymentUpdate) (*db.Deployment, error) {
	var updated db.Deployment
	err := s.mutate(ctx, func(st *state) error {
		for i := range st.Deployments {
			d := &st.Deployments[i]
			if d.ID != id {
				continue
			}
			apply := func(dst *string, src *string) {
				if src != nil {
					*dst = *src
				}
			}
			apply(&d.StartTime, update.StartTime)
			apply(&d.EndTime, update.EndTime)
			apply(&d.Position, update.Position)
			apply(&d.Secondary, update.Secondary)
			apply(&d.Area, update.Area)
			apply(&d.Cleaning, update.Cleaning)
			if update.BreakMinutes != nil {
				d.BreakMinutes = *update.BreakMinutes
			}
			updated = st.withStaff(*d)
			return nil
		}
		return fmt.Errorf("deployment %s: %w", id, db.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeleteDeployment(ctx context.Context, id string) error {
	return s.mutate(ctx, func(st *state) error {
		before := len(st.Deployments)
		st.Deployments = slices.DeleteFunc(st.Deployments, func(d db.Deployment) bool { return d.ID == id })
		if len(st.Deployments) == before {
			return fmt.Errorf("deployment %s: %w", id, db.ErrNotFound)
		}
		return nil
	})
}

func (s *Store) DeleteDeploymentsByDate(ctx context.Context, date string) error {
	return s.mutate(ctx, func(st *state) error {
		st.Deployments = slices.DeleteFunc(st.Deployments, func(d db.Deployment) bool { return d.Date == date })
		return nil
	})
}

// Shift info

func (s *Store) ListShiftInfo(ctx context.Context) ([]db.ShiftInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.ShiftInfo), nil
}

func (s *Store) UpsertShiftInfo(ctx context.Context, date string, fields db.ShiftInfoFields) (*db.ShiftInfo, error) {
	var saved db.ShiftInfo
	err := s.mutate(ctx, func(st *state) error {
		saved = db.ShiftInfo{
			Date:               date,
			Forecast:           fields.Forecast,
			DayShiftForecast:   fields.DayShiftForecast,
			NightShiftForecast: fields.NightShiftForecast,
			Weather:            fields.Weather,
			Notes:              fields.Notes,
		}
		for i := range st.ShiftInfo {
			if st.ShiftInfo[i].Date == date {
				saved.ID = st.ShiftInfo[i].ID
				st.ShiftInfo[i] = saved
				return nil
			}
		}
		saved.ID = uuid.NewString()
		st.ShiftInfo = append(st.ShiftInfo, saved)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *Store) DeleteShiftInfo(ctx context.Context, date string) error {
	return s.mutate(ctx, func(st *state) error {
		st.ShiftInfo = slices.DeleteFunc(st.ShiftInfo, func(i db.ShiftInfo) bool { return i.Date == date })
		return nil
	})
}

// Sales

func (s *Store) ListSalesRecords(ctx context.Context) ([]db.SalesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.SalesRecords), nil
}

func (s *Store) DeleteSalesRecords(ctx context.Context, date string) error {
	return s.mutate(ctx, func(st *state) error {
		st.SalesRecords = slices.DeleteFunc(st.SalesRecords, func(r db.SalesRecord) bool { return r.Date == date })
		return nil
	})
}

func (s *Store) InsertSalesRecords(ctx context.Context, date string, records []db.SalesRecordInput) ([]db.SalesRecord, error) {
	var inserted []db.SalesRecord
	err := s.mutate(ctx, func(st *state) error {
		for _, r := range records {
			row := db.SalesRecord{ID: uuid.NewString(), Date: date, Time: r.Time, Forecast: r.Forecast.Round(2)}
			st.SalesRecords = append(st.SalesRecords, row)
			inserted = append(inserted, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

func (s *Store) GetSalesData(ctx context.Context) (*db.SalesData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.SalesData == nil {
		return nil, db.ErrNotFound
	}
	data := *s.state.SalesData
	return &data, nil
}

func (s *Store) ReplaceSalesData(ctx context.Context, data db.SalesData) (*db.SalesData, error) {
	data.ID = uuid.NewString()
	err := s.mutate(ctx, func(st *state) error {
		saved := data
		st.SalesData = &saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// Targets

func (s *Store) ListTargets(ctx context.Context) ([]db.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	targets := slices.Clone(s.state.Targets)
	sort.SliceStable(targets, func(i, j int) bool { return targets[i].Priority < targets[j].Priority })
	return targets, nil
}

func (s *Store) InsertTarget(ctx context.Context, target db.NewTarget) (*db.Target, error) {
	row := db.Target{
		ID:          uuid.NewString(),
		Name:        target.Name,
		Description: target.Description,
		Priority:    target.Priority,
		IsActive:    target.IsActive,
	}
	err := s.mutate(ctx, func(st *state) error {
		st.Targets = append(st.Targets, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Store) UpdateTarget(ctx context.Context, id string, update db.TargetUpdate) (*db.Target, error) {
	var updated db.Target
	err := s.mutate(ctx, func(st *state) error {
		for i := range st.Targets {
			t := &st.Targets[i]
			if t.ID != id {
				continue
			}
			if update.Name != nil {
				t.Name = *update.Name
			}
			if update.Description != nil {
				t.Description = *update.Description
			}
			if update.Priority != nil {
				t.Priority = *update.Priority
			}
			if update.IsActive != nil {
				t.IsActive = *update.IsActive
			}
			updated = *t
			return nil
		}
		return fmt.Errorf("target %s: %w", id, db.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeleteTarget(ctx context.Context, id string) error {
	return s.mutate(ctx, func(st *state) error {
		before := len(st.Targets)
		st.Targets = slices.DeleteFunc(st.Targets, func(t db.Target) bool { return t.ID == id })
		if len(st.Targets) == before {
			return fmt.Errorf("target %s: %w", id, db.ErrNotFound)
		}
		return nil
	})
}
