package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/deployment-planner/pkg/core/policy"
	"github.com/jakechorley/deployment-planner/pkg/db"
	"github.com/jakechorley/deployment-planner/pkg/salesdata"
)

// DefaultRepeatLimit caps the occurrences a recurrence rule may expand to
const DefaultRepeatLimit = 60

// State is the planner's load state
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Options configures a Planner
type Options struct {
	BreakPolicy policy.BreakPolicy
	DateLayout  string
	RepeatLimit int
}

// Planner translates planning intents into store calls and keeps a mirror of
// the store's collections in step with every successful write.
type Planner struct {
	store       db.Database
	mirror      *mirror
	logger      *zap.Logger
	validate    *validator.Validate
	breakPolicy policy.BreakPolicy
	dateLayout  string
	repeatLimit int

	mu      sync.RWMutex
	state   State
	loadErr error
}

// NewPlanner creates a planner over the given store. It starts in StateLoading;
// call Load before mutating.
func NewPlanner(store db.Database, logger *zap.Logger, opts Options) *Planner {
	if opts.BreakPolicy == "" {
		opts.BreakPolicy = policy.VariantA
	}
	if opts.DateLayout == "" {
		opts.DateLayout = db.DefaultDateLayout
	}
	if opts.RepeatLimit <= 0 {
		opts.RepeatLimit = DefaultRepeatLimit
	}

	return &Planner{
		store:       store,
		mirror:      newMirror(),
		logger:      logger,
		validate:    db.NewValidator(opts.DateLayout),
		breakPolicy: opts.BreakPolicy,
		dateLayout:  opts.DateLayout,
		repeatLimit: opts.RepeatLimit,
		state:       StateLoading,
	}
}

// Load fetches every collection concurrently and replaces the mirror once all
// have arrived. A single failed load puts the planner in StateError.
func (p *Planner) Load(ctx context.Context) error {
	p.setState(StateLoading, nil)
	p.logger.Debug("Loading planner data")

	var (
		g     errgroup.Group
		state mirrorState
	)

	g.Go(func() error {
		staff, err := p.store.ListStaff(ctx)
		if err != nil {
			return fmt.Errorf("failed to load staff: %w", err)
		}
		state.staff = staff
		return nil
	})
	g.Go(func() error {
		positions, err := p.store.ListPositions(ctx)
		if err != nil {
			return fmt.Errorf("failed to load positions: %w", err)
		}
		state.positions = positions
		return nil
	})
	g.Go(func() error {
		deployments, err := p.store.ListDeployments(ctx)
		if err != nil {
			return fmt.Errorf("failed to load deployments: %w", err)
		}
		state.deployments = deployments
		return nil
	})
	g.Go(func() error {
		info, err := p.store.ListShiftInfo(ctx)
		if err != nil {
			return fmt.Errorf("failed to load shift info: %w", err)
		}
		state.shiftInfo = info
		return nil
	})
	g.Go(func() error {
		records, err := p.store.ListSalesRecords(ctx)
		if err != nil {
			return fmt.Errorf("failed to load sales records: %w", err)
		}
		state.salesRecords = records
		return nil
	})
	g.Go(func() error {
		data, err := p.store.GetSalesData(ctx)
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("failed to load sales data: %w", err)
		}
		state.salesData = data
		return nil
	})
	g.Go(func() error {
		targets, err := p.store.ListTargets(ctx)
		if err != nil {
			return fmt.Errorf("failed to load targets: %w", err)
		}
		state.targets = targets
		return nil
	})

	if err := g.Wait(); err != nil {
		p.setState(StateError, err)
		return err
	}

	p.mirror.replace(state)
	p.setState(StateReady, nil)

	p.logger.Info("Planner data loaded",
		zap.Int("staff", len(state.staff)),
		zap.Int("positions", len(state.positions)),
		zap.Int("deployments", len(state.deployments)),
		zap.Int("dates", len(p.mirror.Dates())),
		zap.Int("targets", len(state.targets)))

	return nil
}

// Reload is the manual full reload offered from the error state
func (p *Planner) Reload(ctx context.Context) error {
	return p.Load(ctx)
}

func (p *Planner) setState(s State, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
	p.loadErr = err
}

// State returns the current load state
func (p *Planner) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Err returns the error that put the planner in StateError, if any
func (p *Planner) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loadErr
}

func (p *Planner) ready() error {
	if s := p.State(); s != StateReady {
		return fmt.Errorf("%w: state is %s", ErrNotReady, s)
	}
	return nil
}

// BreakPolicy returns the break policy applied to deployments
func (p *Planner) BreakPolicy() policy.BreakPolicy {
	return p.breakPolicy
}

// DateLayout returns the text layout of deployment dates
func (p *Planner) DateLayout() string {
	return p.dateLayout
}

func (p *Planner) validDate(date string) error {
	if err := p.validate.Var(date, "required,shiftdate"); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	return nil
}

// Read accessors. All return copies of the mirror.

func (p *Planner) Staff() []db.Staff { return p.mirror.Staff() }
func (p *Planner) StaffByID(id string) (db.Staff, bool) { return p.mirror.StaffByID(id) }
func (p *Planner) StaffName(id string) string { return p.mirror.StaffName(id) }
func (p *Planner) Positions() []db.Position { return p.mirror.Positions() }
func (p *Planner) PositionsWithAreas() []PositionWithArea { return p.mirror.PositionsWithAreas() }
func (p *Planner) AreaPositions(areaID string) []db.Position { return p.mirror.AreaPositions(areaID) }
func (p *Planner) Deployments(date string) []db.Deployment { return p.mirror.Deployments(date) }
func (p *Planner) SalesRecords(date string) []db.SalesRecord { return p.mirror.SalesRecords(date) }
func (p *Planner) SalesData() db.SalesData { return p.mirror.SalesData() }
func (p *Planner) Targets() []db.Target { return p.mirror.Targets() }
func (p *Planner) ActiveTargets() []db.Target { return p.mirror.ActiveTargets() }

// PositionsByKind returns the names of positions of one kind, for pickers
func (p *Planner) PositionsByKind(kind db.PositionKind) []string {
	return p.mirror.PositionsByKind(kind)
}

// Dates returns every known date in calendar order. Dates that do not parse
// in the configured layout sort last.
func (p *Planner) Dates() []string {
	dates := p.mirror.Dates()
	sort.SliceStable(dates, func(i, j int) bool {
		a, errA := time.Parse(p.dateLayout, dates[i])
		b, errB := time.Parse(p.dateLayout, dates[j])
		switch {
		case errA != nil || errB != nil:
			return errA == nil && errB != nil
		default:
			return a.Before(b)
		}
	})
	return dates
}

// ShiftInfo returns the date's shift info, if any
func (p *Planner) ShiftInfo(date string) (db.ShiftInfo, bool) {
	return p.mirror.ShiftInfo(date)
}

// SalesComparison lines up the saved today/last-week/last-year sales paste
func (p *Planner) SalesComparison() salesdata.Comparison {
	return salesdata.CompareData(p.mirror.SalesData())
}
