package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/internal/config"
	"github.com/jakechorley/deployment-planner/pkg/core/services"
	"github.com/jakechorley/deployment-planner/pkg/db"
	"github.com/jakechorley/deployment-planner/pkg/postgres"
)

const (
	// SkipLoadAnnotation marks commands that run without loading the planner
	SkipLoadAnnotation = "skipLoad"
	// AllowLoadErrorAnnotation marks commands that start with a planner in the
	// error state and offer a reload
	AllowLoadErrorAnnotation = "allowLoadError"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg     *config.Config
	Env     string
	Planner *services.Planner
	Remote  *postgres.DB // nil when running on the local fallback
	Offline bool
	Logger  *zap.Logger
	Ctx     context.Context
	Out     io.Writer
}

func (app *AppContext) printf(format string, a ...any) {
	fmt.Fprintf(app.Out, format, a...)
}

// resolveStaff accepts a staff id or an exact (case-insensitive) name
func (app *AppContext) resolveStaff(ref string) (db.Staff, error) {
	if staff, ok := app.Planner.StaffByID(ref); ok {
		return staff, nil
	}

	var matches []db.Staff
	for _, s := range app.Planner.Staff() {
		if strings.EqualFold(s.Name, ref) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return db.Staff{}, fmt.Errorf("%w: %s", services.ErrStaffNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return db.Staff{}, fmt.Errorf("%d staff members are called %q, use an id", len(matches), ref)
	}
}

// skipLoad marks cmd as not needing a loaded planner
func skipLoad(annotations map[string]string) map[string]string {
	if annotations == nil {
		annotations = map[string]string{}
	}
	annotations[SkipLoadAnnotation] = "true"
	return annotations
}
