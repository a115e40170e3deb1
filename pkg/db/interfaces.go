package db

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a row addressed by id or date does not exist
var ErrNotFound = errors.New("record not found")

// StaffStore defines the interface for staff table operations
type StaffStore interface {
	ListStaff(ctx context.Context) ([]Staff, error)
	InsertStaff(ctx context.Context, staff []NewStaff) ([]Staff, error)
	DeleteStaff(ctx context.Context, id string) error
}

// PositionStore defines the interface for positions table operations
type PositionStore interface {
	ListPositions(ctx context.Context) ([]Position, error)
	InsertPosition(ctx context.Context, position NewPosition) (*Position, error)
	UpdatePosition(ctx context.Context, id string, update PositionUpdate) (*Position, error)
	DeletePosition(ctx context.Context, id string) error
}

// DeploymentStore defines the interface for deployments table operations.
// Rows returned carry the joined staff sub-record.
type DeploymentStore interface {
	ListDeployments(ctx context.Context) ([]Deployment, error)
	InsertDeployments(ctx context.Context, deployments []NewDeployment) ([]Deployment, error)
	UpdateDeployment(ctx context.Context, id string, update DeploymentUpdate) (*Deployment, error)
	DeleteDeployment(ctx context.Context, id string) error
	DeleteDeploymentsByDate(ctx context.Context, date string) error
}

// ShiftInfoStore defines the interface for shift_info table operations
type ShiftInfoStore interface {
	ListShiftInfo(ctx context.Context) ([]ShiftInfo, error)
	UpsertShiftInfo(ctx context.Context, date string, fields ShiftInfoFields) (*ShiftInfo, error)
	DeleteShiftInfo(ctx context.Context, date string) error
}

// SalesStore defines the interface for sales_records and sales_data operations
type SalesStore interface {
	ListSalesRecords(ctx context.Context) ([]SalesRecord, error)
	DeleteSalesRecords(ctx context.Context, date string) error
	InsertSalesRecords(ctx context.Context, date string, records []SalesRecordInput) ([]SalesRecord, error)
	GetSalesData(ctx context.Context) (*SalesData, error)
	ReplaceSalesData(ctx context.Context, data SalesData) (*SalesData, error)
}

// TargetStore defines the interface for targets table operations
type TargetStore interface {
	ListTargets(ctx context.Context) ([]Target, error)
	InsertTarget(ctx context.Context, target NewTarget) (*Target, error)
	UpdateTarget(ctx context.Context, id string, update TargetUpdate) (*Target, error)
	DeleteTarget(ctx context.Context, id string) error
}

// Database defines the interface for all database operations.
// Both postgres.DB and the local fallback localstore.Store implement it.
type Database interface {
	StaffStore
	PositionStore
	DeploymentStore
	ShiftInfoStore
	SalesStore
	TargetStore
}
