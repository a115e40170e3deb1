package api

import (
	"net/http"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// ListDates returns every known date in calendar order
func (h *Handler) ListDates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(h.planner.Dates()))
}

// CreateDate adds an empty date with default shift info
func (h *Handler) CreateDate(w http.ResponseWriter, r *http.Request) {
	var req DateRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "invalid request body", err)
		return
	}

	info, err := h.planner.CreateDate(r.Context(), req.Date)
	if err != nil {
		h.fail(w, r, "failed to create date", err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// DeleteDate removes a date (?date=) with its deployments and shift info
func (h *Handler) DeleteDate(w http.ResponseWriter, r *http.Request) {
	date, err := requireQuery(r, "date")
	if err != nil {
		h.fail(w, r, "missing date", err)
		return
	}

	if err := h.planner.DeleteDate(r.Context(), date); err != nil {
		h.fail(w, r, "failed to delete date", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDeployments returns a date's (?date=) deployments with its shift info
func (h *Handler) ListDeployments(w http.ResponseWriter, r *http.Request) {
	date, err := requireQuery(r, "date")
	if err != nil {
		h.fail(w, r, "missing date", err)
		return
	}

	resp := DeploymentsResponse{
		Date:        date,
		Deployments: nonNil(h.planner.Deployments(date)),
	}
	if info, ok := h.planner.ShiftInfo(date); ok {
		resp.ShiftInfo = &info
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateDeployment adds a deployment; the break is calculated by the planner
func (h *Handler) CreateDeployment(w http.ResponseWriter, r *http.Request) {
	var req db.NewDeployment
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "invalid request body", err)
		return
	}

	deployment, err := h.planner.AddDeployment(r.Context(), req)
	if err != nil {
		h.fail(w, r, "failed to add deployment", err)
		return
	}
	writeJSON(w, http.StatusCreated, deployment)
}

// UpdateDeployment applies a partial update to a deployment
func (h *Handler) UpdateDeployment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "invalid id", err)
		return
	}

	var req db.DeploymentUpdate
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "invalid request body", err)
		return
	}

	deployment, err := h.planner.UpdateDeployment(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, "failed to update deployment", err)
		return
	}
	writeJSON(w, http.StatusOK, deployment)
}

// DeleteDeployment removes a deployment
func (h *Handler) DeleteDeployment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "invalid id", err)
		return
	}
	if err := h.planner.RemoveDeployment(r.Context(), id); err != nil {
		h.fail(w, r, "failed to remove deployment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateDeployments copies one date's deployments onto another
func (h *Handler) DuplicateDeployments(w http.ResponseWriter, r *http.Request) {
	var req DuplicateRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "invalid request body", err)
		return
	}

	inserted, err := h.planner.DuplicateDeployments(r.Context(), req.FromDate, req.ToDate)
	if err != nil {
		h.fail(w, r, "failed to duplicate deployments", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(inserted))
}

// RepeatDeployments copies one date's deployments across a recurrence rule
func (h *Handler) RepeatDeployments(w http.ResponseWriter, r *http.Request) {
	var req RepeatRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "invalid request body", err)
		return
	}

	result, err := h.planner.RepeatDeployments(r.Context(), req.FromDate, req.RRule)
	if err != nil {
		h.fail(w, r, "failed to repeat deployments", err)
		return
	}
	result.Dates = nonNil(result.Dates)
	writeJSON(w, http.StatusOK, result)
}

// GetShiftInfo returns a date's (?date=) shift info
func (h *Handler) GetShiftInfo(w http.ResponseWriter, r *http.Request) {
	date, err := requireQuery(r, "date")
	if err != nil {
		h.fail(w, r, "missing date", err)
		return
	}

	info, ok := h.planner.ShiftInfo(date)
	if !ok {
		writeError(w, http.StatusNotFound, "no shift info for "+date, nil)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// PutShiftInfo writes every shift info field for a date (?date=)
func (h *Handler) PutShiftInfo(w http.ResponseWriter, r *http.Request) {
	date, err := requireQuery(r, "date")
	if err != nil {
		h.fail(w, r, "missing date", err)
		return
	}

	var req db.ShiftInfoFields
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "invalid request body", err)
		return
	}

	info, err := h.planner.UpsertShiftInfo(r.Context(), date, req)
	if err != nil {
		h.fail(w, r, "failed to save shift info", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// DeleteShiftInfo removes a date's (?date=) shift info
func (h *Handler) DeleteShiftInfo(w http.ResponseWriter, r *http.Request) {
	date, err := requireQuery(r, "date")
	if err != nil {
		h.fail(w, r, "missing date", err)
		return
	}

	if err := h.planner.DeleteShiftInfo(r.Context(), date); err != nil {
		h.fail(w, r, "failed to delete shift info", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
