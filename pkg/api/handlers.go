package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/deployment-planner/pkg/core/policy"
	"github.com/jakechorley/deployment-planner/pkg/core/services"
	"github.com/jakechorley/deployment-planner/pkg/db"
	"github.com/jakechorley/deployment-planner/pkg/salesdata"
	"github.com/jakechorley/deployment-planner/pkg/staffimport"
)

const maxBodyBytes = 10 << 20

// errBadRequest marks request decoding failures
var errBadRequest = errors.New("bad request")

// Handler holds the planner behind the HTTP endpoints
type Handler struct {
	planner *services.Planner
	logger  *zap.Logger
}

// NewHandler creates a handler over a loaded (or loading) planner
func NewHandler(planner *services.Planner, logger *zap.Logger) *Handler {
	return &Handler{planner: planner, logger: logger}
}

// Status reports the load state
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		State:       h.planner.State().String(),
		BreakPolicy: string(h.planner.BreakPolicy()),
		DateLayout:  h.planner.DateLayout(),
		Dates:       nonNil(h.planner.Dates()),
	}
	if err := h.planner.Err(); err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Reload re-reads every collection from the store
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.Reload(r.Context()); err != nil {
		h.fail(w, r, "reload failed", err)
		return
	}
	h.Status(w, r)
}

// BreakTime calculates the break for a shift without saving anything
func (h *Handler) BreakTime(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	hours, err := policy.WorkHours(q.Get("start"), q.Get("end"))
	if err != nil {
		h.fail(w, r, "invalid shift times", err)
		return
	}

	minor := false
	if raw := q.Get("minor"); raw != "" {
		minor, err = strconv.ParseBool(raw)
		if err != nil {
			h.fail(w, r, "invalid minor flag", fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}

	p := h.planner.BreakPolicy()
	if raw := q.Get("policy"); raw != "" {
		p, err = policy.ParseBreakPolicy(raw)
		if err != nil {
			h.fail(w, r, "invalid policy", fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}

	writeJSON(w, http.StatusOK, BreakResponse{
		Policy:       string(p),
		WorkHours:    hours,
		BreakMinutes: policy.BreakMinutes(p, minor, hours),
	})
}

// decode reads a JSON body into dst
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// pathID returns the {id} URL parameter, which must be a UUID
func pathID(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id.String(), nil
}

// requireQuery returns a required query parameter
func requireQuery(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", fmt.Errorf("%w: query parameter %q is required", errBadRequest, name)
	}
	return v, nil
}

// errorStatus maps planner errors onto HTTP status codes
func errorStatus(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, errBadRequest),
		errors.As(err, &validationErrs),
		errors.Is(err, policy.ErrInvalidTime),
		errors.Is(err, services.ErrInvalidRule),
		errors.Is(err, staffimport.ErrUnsupportedFileType),
		errors.Is(err, salesdata.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrNotFound), errors.Is(err, services.ErrStaffNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDateExists),
		errors.Is(err, services.ErrLastDate),
		errors.Is(err, services.ErrInvalidArea):
		return http.StatusConflict
	case errors.Is(err, services.ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status, logging server errors
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(message, zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeError(w, status, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
