package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// checkArea enforces the parent-area invariant against the mirror
func (p *Planner) checkArea(kind db.PositionKind, areaID *string) error {
	if areaID == nil {
		return nil
	}
	if !kind.AcceptsArea() {
		return fmt.Errorf("%w: %s positions cannot have a parent area", ErrInvalidArea, kind)
	}
	parent, ok := p.mirror.PositionByID(*areaID)
	if !ok || parent.Type != db.KindArea {
		return fmt.Errorf("%w: %s", ErrInvalidArea, *areaID)
	}
	return nil
}

// AddPosition inserts one position
func (p *Planner) AddPosition(ctx context.Context, position db.NewPosition) (*db.Position, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if err := p.validate.Struct(position); err != nil {
		return nil, fmt.Errorf("invalid position: %w", err)
	}
	if err := p.checkArea(position.Type, position.AreaID); err != nil {
		return nil, err
	}

	inserted, err := p.store.InsertPosition(ctx, position)
	if err != nil {
		return nil, fmt.Errorf("failed to insert position: %w", err)
	}

	p.mirror.addPosition(*inserted)
	p.logger.Info("Added position",
		zap.String("id", inserted.ID),
		zap.String("name", inserted.Name),
		zap.String("type", string(inserted.Type)))
	return inserted, nil
}

// UpdatePosition applies a partial update. Moving a position to a kind that
// cannot carry an area drops its area reference.
func (p *Planner) UpdatePosition(ctx context.Context, id string, update db.PositionUpdate) (*db.Position, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if err := p.validate.Struct(update); err != nil {
		return nil, fmt.Errorf("invalid position update: %w", err)
	}

	existing, ok := p.mirror.PositionByID(id)
	if !ok {
		return nil, fmt.Errorf("position %s: %w", id, db.ErrNotFound)
	}

	kind := existing.Type
	if update.Type != nil {
		kind = *update.Type
	}
	areaID := existing.AreaID
	if update.ClearArea {
		areaID = nil
	}
	if update.AreaID != nil {
		if *update.AreaID == id {
			return nil, fmt.Errorf("%w: a position cannot be its own area", ErrInvalidArea)
		}
		areaID = update.AreaID
	}

	if !kind.AcceptsArea() && areaID != nil {
		if update.AreaID != nil {
			return nil, fmt.Errorf("%w: %s positions cannot have a parent area", ErrInvalidArea, kind)
		}
		update.ClearArea = true
		areaID = nil
	}
	if err := p.checkArea(kind, areaID); err != nil {
		return nil, err
	}
	if existing.Type == db.KindArea && kind != db.KindArea && len(p.mirror.AreaPositions(id)) > 0 {
		return nil, fmt.Errorf("%w: %s still has positions assigned", ErrInvalidArea, existing.Name)
	}

	updated, err := p.store.UpdatePosition(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}

	p.mirror.replacePosition(*updated)
	p.logger.Info("Updated position", zap.String("id", id), zap.String("name", updated.Name))
	return updated, nil
}

// RemovePosition deletes a position. Positions that named it as their area
// lose the reference.
func (p *Planner) RemovePosition(ctx context.Context, id string) error {
	if err := p.ready(); err != nil {
		return err
	}

	if err := p.store.DeletePosition(ctx, id); err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	p.mirror.removePosition(id)
	p.logger.Info("Removed position", zap.String("id", id))
	return nil
}
