package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/pkg/db"
	"github.com/jakechorley/deployment-planner/pkg/staffimport"
)

// ImportResult is the outcome of a roster import
type ImportResult struct {
	Added   []db.Staff               `json:"added"`
	Skipped []staffimport.SkippedRow `json:"skipped"`
}

// AddStaff inserts one staff member
func (p *Planner) AddStaff(ctx context.Context, staff db.NewStaff) (*db.Staff, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if err := p.validate.Struct(staff); err != nil {
		return nil, fmt.Errorf("invalid staff member: %w", err)
	}

	inserted, err := p.store.InsertStaff(ctx, []db.NewStaff{staff})
	if err != nil {
		return nil, fmt.Errorf("failed to insert staff member: %w", err)
	}
	if len(inserted) != 1 {
		return nil, fmt.Errorf("failed to insert staff member: store returned %d rows", len(inserted))
	}

	p.mirror.addStaff(inserted[0])
	p.logger.Info("Added staff member", zap.String("id", inserted[0].ID), zap.String("name", inserted[0].Name))
	return &inserted[0], nil
}

// RemoveStaff deletes a staff member. The store cascades to their deployments
// and the mirror drops them on every date.
func (p *Planner) RemoveStaff(ctx context.Context, id string) error {
	if err := p.ready(); err != nil {
		return err
	}

	if err := p.store.DeleteStaff(ctx, id); err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}

	p.mirror.removeStaff(id)
	p.logger.Info("Removed staff member", zap.String("id", id))
	return nil
}

// ImportStaff parses an uploaded roster and inserts every valid row in one
// batch. Files that are neither CSV nor XLSX are rejected before any store call.
func (p *Planner) ImportStaff(ctx context.Context, filename string, content []byte) (*ImportResult, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	parsed, err := staffimport.Parse(filename, content)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Skipped: parsed.Skipped}
	var batch []db.NewStaff
	for _, s := range parsed.Staff {
		if err := p.validate.Struct(s); err != nil {
			result.Skipped = append(result.Skipped, staffimport.SkippedRow{Reason: fmt.Sprintf("%s: %v", s.Name, err)})
			continue
		}
		batch = append(batch, s)
	}
	for _, skipped := range result.Skipped {
		p.logger.Warn("Skipped roster row", zap.Int("line", skipped.Line), zap.String("reason", skipped.Reason))
	}

	if len(batch) == 0 {
		p.logger.Info("Roster import found no staff", zap.String("file", filename))
		return result, nil
	}

	inserted, err := p.store.InsertStaff(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to insert imported staff: %w", err)
	}

	p.mirror.addStaff(inserted...)
	result.Added = inserted
	p.logger.Info("Imported staff",
		zap.String("file", filename),
		zap.String("format", string(parsed.Format)),
		zap.Int("added", len(inserted)),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}
