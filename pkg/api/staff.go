package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/jakechorley/deployment-planner/pkg/db"
)

// ListStaff returns every staff member
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nonNil(h.planner.Staff()))
}

// CreateStaff adds one staff member
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req db.NewStaff
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "invalid request body", err)
		return
	}

	staff, err := h.planner.AddStaff(r.Context(), req)
	if err != nil {
		h.fail(w, r, "failed to add staff member", err)
		return
	}
	writeJSON(w, http.StatusCreated, staff)
}

// ImportStaff adds staff from an uploaded CSV or XLSX file in the "file"
// form field
func (h *Handler) ImportStaff(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		h.fail(w, r, "invalid upload", fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, "invalid upload", fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxBodyBytes))
	if err != nil {
		h.fail(w, r, "failed to read upload", err)
		return
	}

	result, err := h.planner.ImportStaff(r.Context(), header.Filename, content)
	if err != nil {
		h.fail(w, r, "failed to import staff", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DeleteStaff removes a staff member and, through the store, their deployments
func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "invalid id", err)
		return
	}
	if err := h.planner.RemoveStaff(r.Context(), id); err != nil {
		h.fail(w, r, "failed to remove staff member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPositions returns every position, or the names of one kind with ?kind=
func (h *Handler) ListPositions(w http.ResponseWriter, r *http.Request) {
	if kind := r.URL.Query().Get("kind"); kind != "" {
		k := db.PositionKind(kind)
		if !k.Valid() {
			h.fail(w, r, "invalid kind", fmt.Errorf("%w: unknown position kind %q", errBadRequest, kind))
			return
		}
		writeJSON(w, http.StatusOK, nonNil(h.planner.PositionsByKind(k)))
		return
	}
	if areaID := r.URL.Query().Get("area"); areaID != "" {
		writeJSON(w, http.StatusOK, nonNil(h.planner.AreaPositions(areaID)))
		return
	}
	writeJSON(w, http.StatusOK, nonNil(h.planner.PositionsWithAreas()))
}

// CreatePosition adds a position
func (h *Handler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req db.NewPosition
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "invalid request body", err)
		return
	}

	position, err := h.planner.AddPosition(r.Context(), req)
	if err != nil {
		h.fail(w, r, "failed to add position", err)
		return
	}
	writeJSON(w, http.StatusCreated, position)
}

// UpdatePosition applies a partial update to a position
func (h *Handler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "invalid id", err)
		return
	}

	var req db.PositionUpdate
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "invalid request body", err)
		return
	}

	position, err := h.planner.UpdatePosition(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, "failed to update position", err)
		return
	}
	writeJSON(w, http.StatusOK, position)
}

// DeletePosition removes a position
func (h *Handler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "invalid id", err)
		return
	}
	if err := h.planner.RemovePosition(r.Context(), id); err != nil {
		h.fail(w, r, "failed to remove position", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
