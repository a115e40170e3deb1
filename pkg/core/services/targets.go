package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// AddTarget inserts one target
func (p *Planner) AddTarget(ctx context.Context, target db.NewTarget) (*db.Target, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if err := p.validate.Struct(target); err != nil {
		return nil, fmt.Errorf("invalid target: %w", err)
	}

	inserted, err := p.store.InsertTarget(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to insert target: %w", err)
	}

	p.mirror.putTarget(*inserted)
	p.logger.Info("Added target", zap.String("id", inserted.ID), zap.Int("priority", inserted.Priority))
	return inserted, nil
}

// UpdateTarget applies a partial update
func (p *Planner) UpdateTarget(ctx context.Context, id string, update db.TargetUpdate) (*db.Target, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if err := p.validate.Struct(update); err != nil {
		return nil, fmt.Errorf("invalid target update: %w", err)
	}

	updated, err := p.store.UpdateTarget(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update target: %w", err)
	}

	p.mirror.putTarget(*updated)
	p.logger.Info("Updated target", zap.String("id", id))
	return updated, nil
}

// RemoveTarget deletes one target
func (p *Planner) RemoveTarget(ctx context.Context, id string) error {
	if err := p.ready(); err != nil {
		return err
	}

	if err := p.store.DeleteTarget(ctx, id); err != nil {
		return fmt.Errorf("failed to delete target: %w", err)
	}

	p.mirror.removeTarget(id)
	p.logger.Info("Removed target", zap.String("id", id))
	return nil
}
