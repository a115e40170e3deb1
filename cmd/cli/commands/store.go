package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/internal/config"
	"github.com/jakechorley/deployment-planner/pkg/db"
	"github.com/jakechorley/deployment-planner/pkg/localstore"
	"github.com/jakechorley/deployment-planner/pkg/postgres"
)

const connectTimeout = 10 * time.Second

// Store is the opened backing store with its close hook
type Store struct {
	DB      db.Database
	Remote  *postgres.DB // nil on the local fallback
	Offline bool
	close   func() error
}

// Close releases the store's connections
func (s *Store) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStore connects to the configured PostgreSQL database. With no database
// URL, or when the database cannot be reached, it falls back to the SQLite
// file at cfg.FallbackPath.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if !cfg.Offline() {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		remote, err := postgres.NewDB(connectCtx, cfg.DatabaseURL)
		cancel()
		if err == nil {
			logger.Debug("Connected to database")
			return &Store{
				DB:     remote,
				Remote: remote,
				close: func() error {
					remote.Close()
					return nil
				},
			}, nil
		}
		logger.Warn("Database unavailable, using local store", zap.Error(err))
	}

	local, err := localstore.Open(ctx, cfg.FallbackPath, logger, localstore.Options{DateLayout: cfg.DateLayout})
	if err != nil {
		return nil, err
	}
	logger.Info("Running offline", zap.String("path", cfg.FallbackPath))
	return &Store{DB: local, Offline: true, close: local.Close}, nil
}
