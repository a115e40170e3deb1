package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// CreateDate adds an empty date by writing its default shift info
func (p *Planner) CreateDate(ctx context.Context, date string) (*db.ShiftInfo, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if err := p.validDate(date); err != nil {
		return nil, err
	}
	if p.mirror.HasDate(date) {
		return nil, fmt.Errorf("%w: %s", ErrDateExists, date)
	}

	info, err := p.store.UpsertShiftInfo(ctx, date, db.DefaultShiftInfo())
	if err != nil {
		return nil, fmt.Errorf("failed to create date: %w", err)
	}

	p.mirror.ensureDate(date)
	p.mirror.setShiftInfo(*info)
	p.logger.Info("Created date", zap.String("date", date))
	return info, nil
}

// DeleteDate removes a date's deployments and shift info. The last remaining
// date cannot be deleted.
func (p *Planner) DeleteDate(ctx context.Context, date string) error {
	if err := p.ready(); err != nil {
		return err
	}
	if !p.mirror.HasDate(date) {
		return fmt.Errorf("date %s: %w", date, db.ErrNotFound)
	}
	if len(p.mirror.Dates()) <= 1 {
		return ErrLastDate
	}

	if err := p.store.DeleteDeploymentsByDate(ctx, date); err != nil {
		return fmt.Errorf("failed to delete deployments for %s: %w", date, err)
	}
	p.mirror.dropDeployments(date)

	if err := p.store.DeleteShiftInfo(ctx, date); err != nil {
		return fmt.Errorf("failed to delete shift info for %s: %w", date, err)
	}
	p.mirror.removeShiftInfo(date)

	p.logger.Info("Deleted date", zap.String("date", date))
	return nil
}
