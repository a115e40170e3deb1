package services

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/pkg/core/policy"
	"github.com/jakechorley/deployment-planner/pkg/db"
)

// RepeatResult reports the dates a template day was copied onto
type RepeatResult struct {
	Dates       []string `json:"dates"`
	Deployments int      `json:"deployments"`
}

func (p *Planner) breakFor(staff db.Staff, start, end string) (int, error) {
	hours, err := policy.WorkHours(start, end)
	if err != nil {
		return 0, err
	}
	return policy.CalculateBreakTime(p.breakPolicy, &staff, hours), nil
}

// AddDeployment inserts one deployment. The break is derived from the staff
// member and the shift times.
func (p *Planner) AddDeployment(ctx context.Context, deployment db.NewDeployment) (*db.Deployment, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if err := p.validate.Struct(deployment); err != nil {
		return nil, fmt.Errorf("invalid deployment: %w", err)
	}

	staff, ok := p.mirror.StaffByID(deployment.StaffID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStaffNotFound, deployment.StaffID)
	}
	breakMinutes, err := p.breakFor(staff, deployment.StartTime, deployment.EndTime)
	if err != nil {
		return nil, err
	}
	deployment.BreakMinutes = breakMinutes

	inserted, err := p.store.InsertDeployments(ctx, []db.NewDeployment{deployment})
	if err != nil {
		return nil, fmt.Errorf("failed to insert deployment: %w", err)
	}
	if len(inserted) != 1 {
		return nil, fmt.Errorf("failed to insert deployment: store returned %d rows", len(inserted))
	}

	p.mirror.addDeployments(inserted[0])
	p.logger.Info("Added deployment",
		zap.String("id", inserted[0].ID),
		zap.String("date", inserted[0].Date),
		zap.String("staff", staff.Name),
		zap.Int("break_minutes", breakMinutes))
	return &inserted[0], nil
}

// UpdateDeployment applies a partial update. Whenever a time changes the break
// is recomputed; it is never taken from the caller.
func (p *Planner) UpdateDeployment(ctx context.Context, id string, update db.DeploymentUpdate) (*db.Deployment, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if err := p.validate.Struct(update); err != nil {
		return nil, fmt.Errorf("invalid deployment update: %w", err)
	}

	existing, ok := p.mirror.DeploymentByID(id)
	if !ok {
		return nil, fmt.Errorf("deployment %s: %w", id, db.ErrNotFound)
	}

	update.BreakMinutes = nil
	if update.TouchesTimes() {
		start, end := existing.StartTime, existing.EndTime
		if update.StartTime != nil {
			start = *update.StartTime
		}
		if update.EndTime != nil {
			end = *update.EndTime
		}

		staff, ok := p.mirror.StaffByID(existing.StaffID)
		if !ok {
			if existing.Staff == nil {
				return nil, fmt.Errorf("%w: %s", ErrStaffNotFound, existing.StaffID)
			}
			staff = db.Staff{ID: existing.Staff.ID, Name: existing.Staff.Name, IsUnder18: existing.Staff.IsUnder18}
		}

		breakMinutes, err := p.breakFor(staff, start, end)
		if err != nil {
			return nil, err
		}
		update.BreakMinutes = &breakMinutes
	}

	updated, err := p.store.UpdateDeployment(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update deployment: %w", err)
	}

	p.mirror.replaceDeployment(*updated)
	p.logger.Info("Updated deployment", zap.String("id", id), zap.Int("break_minutes", updated.BreakMinutes))
	return updated, nil
}

// RemoveDeployment deletes one deployment
func (p *Planner) RemoveDeployment(ctx context.Context, id string) error {
	if err := p.ready(); err != nil {
		return err
	}

	if err := p.store.DeleteDeployment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete deployment: %w", err)
	}

	p.mirror.removeDeployment(id)
	p.logger.Info("Removed deployment", zap.String("id", id))
	return nil
}

// DuplicateDeployments copies every deployment on fromDate onto toDate in one
// batch insert, then copies fromDate's shift info if it has any. Nothing is
// written when fromDate has no deployments.
func (p *Planner) DuplicateDeployments(ctx context.Context, fromDate, toDate string) ([]db.Deployment, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	if err := p.validDate(toDate); err != nil {
		return nil, err
	}

	source := p.mirror.Deployments(fromDate)
	if len(source) == 0 {
		p.logger.Debug("No deployments to duplicate", zap.String("from", fromDate))
		return nil, nil
	}

	batch := make([]db.NewDeployment, 0, len(source))
	for _, d := range source {
		batch = append(batch, db.NewDeployment{
			Date:         toDate,
			StaffID:      d.StaffID,
			StartTime:    d.StartTime,
			EndTime:      d.EndTime,
			Position:     d.Position,
			Secondary:    d.Secondary,
			Area:         d.Area,
			Cleaning:     d.Cleaning,
			BreakMinutes: d.BreakMinutes,
		})
	}

	inserted, err := p.store.InsertDeployments(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to insert duplicated deployments: %w", err)
	}
	p.mirror.addDeployments(inserted...)

	if info, ok := p.mirror.ShiftInfo(fromDate); ok {
		copied, err := p.store.UpsertShiftInfo(ctx, toDate, shiftInfoFields(info))
		if err != nil {
			return inserted, fmt.Errorf("failed to copy shift info: %w", err)
		}
		p.mirror.setShiftInfo(*copied)
	}

	p.logger.Info("Duplicated deployments",
		zap.String("from", fromDate),
		zap.String("to", toDate),
		zap.Int("count", len(inserted)))
	return inserted, nil
}

// RepeatDeployments duplicates fromDate onto every later occurrence of an
// RFC 5545 recurrence rule anchored at fromDate, e.g. "FREQ=WEEKLY;COUNT=4".
// The rule must be bounded by COUNT or UNTIL and expand to at most the
// planner's repeat limit.
func (p *Planner) RepeatDeployments(ctx context.Context, fromDate, rule string) (*RepeatResult, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	dates, err := p.occurrences(fromDate, rule)
	if err != nil {
		return nil, err
	}

	result := &RepeatResult{}
	if len(p.mirror.Deployments(fromDate)) == 0 {
		p.logger.Debug("No deployments to repeat", zap.String("from", fromDate))
		return result, nil
	}

	for _, date := range dates {
		inserted, err := p.DuplicateDeployments(ctx, fromDate, date)
		if err != nil {
			return result, fmt.Errorf("failed to repeat onto %s: %w", date, err)
		}
		result.Dates = append(result.Dates, date)
		result.Deployments += len(inserted)
	}

	p.logger.Info("Repeated deployments",
		zap.String("from", fromDate),
		zap.String("rule", rule),
		zap.Int("dates", len(result.Dates)),
		zap.Int("deployments", result.Deployments))
	return result, nil
}

// occurrences expands rule from fromDate, excluding fromDate itself
func (p *Planner) occurrences(fromDate, rule string) ([]string, error) {
	start, err := time.Parse(p.dateLayout, fromDate)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", fromDate, err)
	}

	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	if opt.Count == 0 && opt.Until.IsZero() {
		return nil, fmt.Errorf("%w: COUNT or UNTIL is required", ErrInvalidRule)
	}
	if opt.Count > p.repeatLimit+1 {
		return nil, fmt.Errorf("%w: at most %d repeats", ErrInvalidRule, p.repeatLimit)
	}
	if opt.Count == 0 {
		// UNTIL only; stop one past the limit so an oversized rule is detected
		opt.Count = p.repeatLimit + 2
	}
	opt.Dtstart = start

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	var dates []string
	for _, t := range r.All() {
		date := t.Format(p.dateLayout)
		if date == fromDate {
			continue
		}
		dates = append(dates, date)
	}
	if len(dates) > p.repeatLimit {
		return nil, fmt.Errorf("%w: at most %d repeats", ErrInvalidRule, p.repeatLimit)
	}
	return dates, nil
}
