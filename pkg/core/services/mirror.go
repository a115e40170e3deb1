package services

import (
	"slices"
	"sort"
	"sync"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// mirror is the client-local copy of the store's collections. It is replaced
// wholesale on load and patched after each successful write. Readers get copies.
type mirror struct {
	mu sync.RWMutex

	staff        []db.Staff
	positions    []db.Position
	deployments  map[string][]db.Deployment
	shiftInfo    map[string]db.ShiftInfo
	salesRecords map[string][]db.SalesRecord
	salesData    db.SalesData
	targets      []db.Target
}

// mirrorState is the result of a full load
type mirrorState struct {
	staff        []db.Staff
	positions    []db.Position
	deployments  []db.Deployment
	shiftInfo    []db.ShiftInfo
	salesRecords []db.SalesRecord
	salesData    *db.SalesData
	targets      []db.Target
}

func newMirror() *mirror {
	return &mirror{
		deployments:  map[string][]db.Deployment{},
		shiftInfo:    map[string]db.ShiftInfo{},
		salesRecords: map[string][]db.SalesRecord{},
	}
}

// replace swaps in a freshly loaded state, grouping per-date collections
func (m *mirror) replace(s mirrorState) {
	deployments := make(map[string][]db.Deployment)
	for _, d := range s.deployments {
		deployments[d.Date] = append(deployments[d.Date], cloneDeployment(d))
	}
	shiftInfo := make(map[string]db.ShiftInfo, len(s.shiftInfo))
	for _, info := range s.shiftInfo {
		shiftInfo[info.Date] = info
	}
	salesRecords := make(map[string][]db.SalesRecord)
	for _, r := range s.salesRecords {
		salesRecords[r.Date] = append(salesRecords[r.Date], r)
	}
	var salesData db.SalesData
	if s.salesData != nil {
		salesData = *s.salesData
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.staff = slices.Clone(s.staff)
	m.positions = clonePositions(s.positions)
	m.deployments = deployments
	m.shiftInfo = shiftInfo
	m.salesRecords = salesRecords
	m.salesData = salesData
	m.targets = slices.Clone(s.targets)
}

// Staff

func (m *mirror) Staff() []db.Staff {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.staff)
}

func (m *mirror) StaffByID(id string) (db.Staff, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.staff {
		if s.ID == id {
			return s, true
		}
	}
	return db.Staff{}, false
}

func (m *mirror) StaffName(id string) string {
	if s, ok := m.StaffByID(id); ok {
		return s.Name
	}
	return "Unknown"
}

func (m *mirror) addStaff(staff ...db.Staff) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staff = append(m.staff, staff...)
	sortByName(m.staff, func(s db.Staff) string { return s.Name })
}

// removeStaff drops the member and every deployment referencing them on any date
func (m *mirror) removeStaff(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staff = slices.DeleteFunc(m.staff, func(s db.Staff) bool { return s.ID == id })
	for date, list := range m.deployments {
		m.deployments[date] = slices.DeleteFunc(slices.Clone(list), func(d db.Deployment) bool {
			return d.StaffID == id
		})
	}
}

// Positions

func (m *mirror) Positions() []db.Position {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clonePositions(m.positions)
}

func (m *mirror) PositionByID(id string) (db.Position, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.positions {
		if p.ID == id {
			return clonePosition(p), true
		}
	}
	return db.Position{}, false
}

// PositionsByKind returns the names of positions of the given kind
func (m *mirror) PositionsByKind(kind db.PositionKind) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var names []string
	for _, p := range m.positions {
		if p.Type == kind {
			names = append(names, p.Name)
		}
	}
	return names
}

// PositionWithArea is a position annotated with its parent area's name
type PositionWithArea struct {
	db.Position
	AreaName *string `json:"area_name"`
}

func (m *mirror) PositionsWithAreas() []PositionWithArea {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make(map[string]string, len(m.positions))
	for _, p := range m.positions {
		names[p.ID] = p.Name
	}
	out := make([]PositionWithArea, 0, len(m.positions))
	for _, p := range m.positions {
		pw := PositionWithArea{Position: clonePosition(p)}
		if p.AreaID != nil {
			if name, ok := names[*p.AreaID]; ok {
				pw.AreaName = &name
			}
		}
		out = append(out, pw)
	}
	return out
}

func (m *mirror) AreaPositions(areaID string) []db.Position {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []db.Position
	for _, p := range m.positions {
		if p.AreaID != nil && *p.AreaID == areaID {
			out = append(out, clonePosition(p))
		}
	}
	return out
}

func (m *mirror) addPosition(p db.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions = append(m.positions, clonePosition(p))
	sortByName(m.positions, func(p db.Position) string { return p.Name })
}

func (m *mirror) replacePosition(p db.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.positions {
		if m.positions[i].ID == p.ID {
			m.positions[i] = clonePosition(p)
			sortByName(m.positions, func(p db.Position) string { return p.Name })
			return
		}
	}
}

// removePosition drops the row and clears child references, as the store's
// ON DELETE SET NULL does
func (m *mirror) removePosition(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions = slices.DeleteFunc(m.positions, func(p db.Position) bool { return p.ID == id })
	for i := range m.positions {
		if m.positions[i].AreaID != nil && *m.positions[i].AreaID == id {
			m.positions[i].AreaID = nil
		}
	}
}

// Deployments

func (m *mirror) Deployments(date string) []db.Deployment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneDeployments(m.deployments[date])
}

func (m *mirror) DeploymentByID(id string) (db.Deployment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, list := range m.deployments {
		for _, d := range list {
			if d.ID == id {
				return cloneDeployment(d), true
			}
		}
	}
	return db.Deployment{}, false
}

// Dates returns every date that has deployments or shift info, sorted
func (m *mirror) Dates() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	for date := range m.deployments {
		seen[date] = true
	}
	for date := range m.shiftInfo {
		seen[date] = true
	}
	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

func (m *mirror) HasDate(date string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, hasDeployments := m.deployments[date]
	_, hasInfo := m.shiftInfo[date]
	return hasDeployments || hasInfo
}

func (m *mirror) ensureDate(date string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.deployments[date]; !ok {
		m.deployments[date] = []db.Deployment{}
	}
}

func (m *mirror) addDeployments(deployments ...db.Deployment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range deployments {
		m.deployments[d.Date] = append(m.deployments[d.Date], cloneDeployment(d))
	}
}

// replaceDeployment merges the canonical row over the matching record only
func (m *mirror) replaceDeployment(d db.Deployment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for date, list := range m.deployments {
		for i := range list {
			if list[i].ID != d.ID {
				continue
			}
			updated := slices.Clone(list)
			if d.Staff == nil {
				d.Staff = list[i].Staff
			}
			updated[i] = cloneDeployment(d)
			m.deployments[date] = updated
			return
		}
	}
}

func (m *mirror) removeDeployment(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for date, list := range m.deployments {
		m.deployments[date] = slices.DeleteFunc(slices.Clone(list), func(d db.Deployment) bool {
			return d.ID == id
		})
	}
}

// dropDeployments forgets every deployment on the date
func (m *mirror) dropDeployments(date string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.deployments, date)
}

// Shift info

func (m *mirror) ShiftInfo(date string) (db.ShiftInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.shiftInfo[date]
	return info, ok
}

func (m *mirror) setShiftInfo(info db.ShiftInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shiftInfo[info.Date] = info
}

func (m *mirror) removeShiftInfo(date string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.shiftInfo, date)
}

// Sales

func (m *mirror) SalesRecords(date string) []db.SalesRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.salesRecords[date])
}

func (m *mirror) setSalesRecords(date string, records []db.SalesRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.salesRecords[date] = slices.Clone(records)
}

func (m *mirror) SalesData() db.SalesData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.salesData
}

func (m *mirror) setSalesData(data db.SalesData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.salesData = data
}

// Targets

// Targets returns all targets in priority order
func (m *mirror) Targets() []db.Target {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.targets)
}

// ActiveTargets returns the active targets in priority order
func (m *mirror) ActiveTargets() []db.Target {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []db.Target
	for _, t := range m.targets {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out
}

func (m *mirror) putTarget(t db.Target) {
	m.mu.Lock()
	defer m.mu.Unlock()
	replaced := false
	for i := range m.targets {
		if m.targets[i].ID == t.ID {
			m.targets[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		m.targets = append(m.targets, t)
	}
	sort.SliceStable(m.targets, func(i, j int) bool {
		return m.targets[i].Priority < m.targets[j].Priority
	})
}

func (m *mirror) removeTarget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets = slices.DeleteFunc(m.targets, func(t db.Target) bool { return t.ID == id })
}

// Copies. Pointer fields are duplicated so callers never share mirror memory.

func clonePosition(p db.Position) db.Position {
	if p.AreaID != nil {
		area := *p.AreaID
		p.AreaID = &area
	}
	return p
}

func clonePositions(list []db.Position) []db.Position {
	if list == nil {
		return nil
	}
	out := make([]db.Position, len(list))
	for i, p := range list {
		out[i] = clonePosition(p)
	}
	return out
}

func cloneDeployment(d db.Deployment) db.Deployment {
	if d.Staff != nil {
		staff := *d.Staff
		d.Staff = &staff
	}
	return d
}

func cloneDeployments(list []db.Deployment) []db.Deployment {
	if list == nil {
		return nil
	}
	out := make([]db.Deployment, len(list))
	for i, d := range list {
		out[i] = cloneDeployment(d)
	}
	return out
}

// sortByName keeps list in the order a full load returns it
func sortByName[T any](list []T, name func(T) string) {
	sort.SliceStable(list, func(i, j int) bool { return name(list[i]) < name(list[j]) })
}
