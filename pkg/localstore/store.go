// Package localstore is the offline fallback for the planner. It keeps the
// whole planner state in memory and writes it, as one JSON document, into a
// SQLite key/value table after every successful change.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// StateKey is the kv key holding the serialised state
const StateKey = "deploymentData"

// DefaultCleaningAreas are seeded into an empty store
var DefaultCleaningAreas = []string{"Lobby / Toilets", "Front", "Staff Room / Toilet", "Kitchen"}

// state is the document persisted under StateKey
type state struct {
	Staff        []db.Staff       `json:"staff"`
	Positions    []db.Position    `json:"positions"`
	Deployments  []db.Deployment  `json:"deployments"`
	ShiftInfo    []db.ShiftInfo   `json:"shiftInfo"`
	SalesRecords []db.SalesRecord `json:"salesRecords"`
	SalesData    *db.SalesData    `json:"salesData,omitempty"`
	Targets      []db.Target      `json:"targets"`
}

// Options configures a Store
type Options struct {
	DateLayout string
	Now        func() time.Time
}

// Store implements db.Database over an in-memory state tree
type Store struct {
	conn   *sql.DB
	logger *zap.Logger
	layout string
	now    func() time.Time

	mu    sync.RWMutex
	state state
}

var _ db.Database = (*Store)(nil)

// Open opens (creating if needed) the SQLite file at path and reads the saved
// state. An empty store is seeded with the default cleaning areas and one
// empty date.
func Open(ctx context.Context, path string, logger *zap.Logger, opts Options) (*Store, error) {
	if opts.DateLayout == "" {
		opts.DateLayout = db.DefaultDateLayout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	// one connection, so ":memory:" databases are shared
	conn.SetMaxOpenConns(1)

	s := &Store{
		conn:   conn,
		logger: logger,
		layout: opts.DateLayout,
		now:    opts.Now,
	}

	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	if err := s.load(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the SQLite connection
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) error {
	var raw string
	err := s.conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, StateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		s.state = s.seed()
		s.logger.Info("Seeded local store",
			zap.Int("cleaning_areas", len(DefaultCleaningAreas)),
			zap.String("date", s.state.ShiftInfo[0].Date))
		return s.persist(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to read local state: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &s.state); err != nil {
		return fmt.Errorf("failed to decode local state: %w", err)
	}
	s.logger.Debug("Loaded local state", zap.Int("bytes", len(raw)))
	return nil
}

func (s *Store) seed() state {
	var st state
	created := s.now().UTC()
	for _, name := range DefaultCleaningAreas {
		st.Positions = append(st.Positions, db.Position{
			ID:        uuid.NewString(),
			Name:      name,
			Type:      db.KindCleaningArea,
			CreatedAt: created,
		})
	}

	fields := db.DefaultShiftInfo()
	st.ShiftInfo = []db.ShiftInfo{{
		ID:                 uuid.NewString(),
		Date:               s.now().Format(s.layout),
		Forecast:           fields.Forecast,
		DayShiftForecast:   fields.DayShiftForecast,
		NightShiftForecast: fields.NightShiftForecast,
	}}
	return st
}

// persist writes the whole state under StateKey. Callers hold mu.
func (s *Store) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("failed to encode local state: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, StateKey, string(raw))
	if err != nil {
		return fmt.Errorf("failed to write local state: %w", err)
	}
	return nil
}

// mutate applies fn to the state and persists it. If fn or the write fails
// the in-memory state is rolled back.
func (s *Store) mutate(ctx context.Context, fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("failed to snapshot local state: %w", err)
	}
	rollback := func() {
		var restored state
		if err := json.Unmarshal(snapshot, &restored); err == nil {
			s.state = restored
		}
	}

	if err := fn(&s.state); err != nil {
		rollback()
		return err
	}
	if err := s.persist(ctx); err != nil {
		rollback()
		return err
	}
	return nil
}
