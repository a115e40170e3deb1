package services

import "errors"

var (
	// ErrNotReady is returned by mutations before a load has succeeded
	ErrNotReady = errors.New("planner is not ready")

	// ErrStaffNotFound is returned when a deployment names a staff member the planner does not know
	ErrStaffNotFound = errors.New("staff member not found")

	// ErrInvalidArea is returned when a position's parent reference is not an area,
	// or the position's kind cannot carry one
	ErrInvalidArea = errors.New("parent area must be an existing area, on a position or secondary position")

	// ErrDateExists is returned when creating a date that already has deployments or shift info
	ErrDateExists = errors.New("date already exists")

	// ErrLastDate is returned when deleting the only remaining date
	ErrLastDate = errors.New("cannot delete the last remaining date")

	// ErrInvalidRule is returned for a recurrence rule that cannot be expanded
	ErrInvalidRule = errors.New("invalid recurrence rule")
)
