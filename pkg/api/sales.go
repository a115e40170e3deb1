package api

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/jakechorley/deployment-planner/pkg/db"
	"github.com/jakechorley/deployment-planner/pkg/salesdata"
)

// ListSalesRecords returns a date's (?date=) sales records
func (h *Handler) ListSalesRecords(w http.ResponseWriter, r *http.Request) {
	date, err := requireQuery(r, "date")
	if err != nil {
		h.fail(w, r, "missing date", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(h.planner.SalesRecords(date)))
}

// PutSalesRecords replaces a date's (?date=) sales records. A text/plain
// body is read as a pasted hourly report; otherwise a SalesRecordsRequest is
// expected.
func (h *Handler) PutSalesRecords(w http.ResponseWriter, r *http.Request) {
	date, err := requireQuery(r, "date")
	if err != nil {
		h.fail(w, r, "missing date", err)
		return
	}

	var records []db.SalesRecord
	if isPlainText(r) {
		text, err := readText(r)
		if err != nil {
			h.fail(w, r, "invalid request body", err)
			return
		}
		records, err = h.planner.ImportHourlySales(r.Context(), date, text)
		if err != nil {
			h.fail(w, r, "failed to import sales", err)
			return
		}
	} else {
		var req SalesRecordsRequest
		if err := decode(r, &req); err != nil {
			h.fail(w, r, "invalid request body", err)
			return
		}
		records, err = h.planner.ReplaceSalesRecords(r.Context(), date, req.Records)
		if err != nil {
			h.fail(w, r, "failed to save sales records", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, nonNil(records))
}

// GetSalesData returns the saved legacy sales paste
func (h *Handler) GetSalesData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.planner.SalesData())
}

// PutSalesData replaces the saved legacy sales paste
func (h *Handler) PutSalesData(w http.ResponseWriter, r *http.Request) {
	var req db.SalesData
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "invalid request body", err)
		return
	}

	data, err := h.planner.SaveSalesData(r.Context(), req)
	if err != nil {
		h.fail(w, r, "failed to save sales data", err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// GetSalesComparison lines up today, last week and last year by time
func (h *Handler) GetSalesComparison(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.planner.SalesComparison())
}

// ParseSales parses a pasted report (?schema=legacy|hourly|weekly) without
// saving it
func (h *Handler) ParseSales(w http.ResponseWriter, r *http.Request) {
	text, err := readText(r)
	if err != nil {
		h.fail(w, r, "invalid request body", err)
		return
	}

	switch schema := r.URL.Query().Get("schema"); schema {
	case "legacy", "":
		writeJSON(w, http.StatusOK, nonNil(salesdata.ParseLegacy(text)))
	case "hourly":
		rows, err := salesdata.ParseHourly(text)
		if err != nil {
			h.fail(w, r, "failed to parse hourly report", err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(rows))
	case "weekly":
		rows, err := salesdata.ParseWeekly(text)
		if err != nil {
			h.fail(w, r, "failed to parse weekly report", err)
			return
		}
		writeJSON(w, http.StatusOK, nonNil(rows))
	default:
		h.fail(w, r, "invalid schema", fmt.Errorf("%w: unknown schema %q", errBadRequest, schema))
	}
}

// ListTargets returns every target, or only active ones with ?active=true
func (h *Handler) ListTargets(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("active") == "true" {
		writeJSON(w, http.StatusOK, nonNil(h.planner.ActiveTargets()))
		return
	}
	writeJSON(w, http.StatusOK, nonNil(h.planner.Targets()))
}

// CreateTarget adds a target
func (h *Handler) CreateTarget(w http.ResponseWriter, r *http.Request) {
	var req db.NewTarget
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "invalid request body", err)
		return
	}

	target, err := h.planner.AddTarget(r.Context(), req)
	if err != nil {
		h.fail(w, r, "failed to add target", err)
		return
	}
	writeJSON(w, http.StatusCreated, target)
}

// UpdateTarget applies a partial update to a target
func (h *Handler) UpdateTarget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "invalid id", err)
		return
	}

	var req db.TargetUpdate
	if err := decode(r, &req); err != nil {
		h.fail(w, r, "invalid request body", err)
		return
	}

	target, err := h.planner.UpdateTarget(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, "failed to update target", err)
		return
	}
	writeJSON(w, http.StatusOK, target)
}

// DeleteTarget removes a target
func (h *Handler) DeleteTarget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, "invalid id", err)
		return
	}
	if err := h.planner.RemoveTarget(r.Context(), id); err != nil {
		h.fail(w, r, "failed to remove target", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isPlainText(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "text/plain"
}

func readText(r *http.Request) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return string(raw), nil
}
