// Package valuation exposes the DCF engine over HTTP. Handlers only decode
// requests, call the core and encode the result bundle; all math lives in
// pkg/core/valuation.
package valuation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"dcf_valuation/pkg/core/assumption"
	"dcf_valuation/pkg/core/store"
	coreval "dcf_valuation/pkg/core/valuation"
	"dcf_valuation/pkg/report"
)

// Handler holds dependencies for the valuation endpoints.
type Handler struct {
	Log  *logrus.Logger
	Runs *store.RunRepo // nil when persistence is disabled
}

// NewHandler creates a new valuation handler.
func NewHandler(log *logrus.Logger, runs *store.RunRepo) *Handler {
	return &Handler{Log: log, Runs: runs}
}

// RunResponse is the result bundle returned by HandleRun.
type RunResponse struct {
	RunID     string            `json:"run_id,omitempty"`
	Result    *coreval.Result   `json:"result"`
	Multiples coreval.Multiples `json:"implied_multiples"`
	Warnings  []string          `json:"warnings,omitempty"`
}

// SensitivityRequest drives HandleSensitivity, HandleReport and HandleExport.
// Assumptions is the raw scenario document (parsed leniently); empty rate
// lists are bracketed around the scenario's own discount and growth rates.
type SensitivityRequest struct {
	Assumptions   json.RawMessage `json:"assumptions"`
	DiscountRates []float64       `json:"discount_rates"`
	GrowthRates   []float64       `json:"growth_rates"`
}

// WACCRequest updates WACC components and recomputes the discount rate.
type WACCRequest struct {
	Assumptions json.RawMessage    `json:"assumptions"`
	Components  map[string]float64 `json:"wacc_components"`
}

// WACCResponse carries the computed WACC and the assumption set with its
// discount rate overwritten.
type WACCResponse struct {
	WACC        float64        `json:"wacc"`
	Assumptions assumption.Set `json:"assumptions"`
	Warnings    []string       `json:"warnings,omitempty"`
}

func cors(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func (h *Handler) decodeAssumptions(raw []byte) (assumption.Set, error) {
	if len(raw) == 0 {
		return assumption.NewDefault(), nil
	}
	return assumption.Parse(raw)
}

func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	// Degenerate-perpetuity runs are a user input problem, not a server one.
	if errors.Is(err, coreval.ErrTerminalValueUndefined) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// HandleRun runs the engine on the posted assumption document and returns
// the result bundle.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	set, err := h.decodeAssumptions(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := coreval.Run(set)
	if err != nil {
		h.Log.WithField("error", err).Warn("valuation run rejected")
		h.writeEngineError(w, err)
		return
	}
	h.Log.WithFields(logrus.Fields{
		"equity_value": res.EquityValue,
		"elapsed":      time.Since(start).String(),
	}).Info("valuation run completed")

	resp := RunResponse{
		Result:    res,
		Multiples: coreval.ImpliedMultiples(set, res),
	}
	if h.Runs != nil {
		id, saveErr := h.Runs.Save(r.Context(), "", set, res)
		if saveErr != nil {
			h.Log.WithField("error", saveErr).Warn("failed to persist run")
		} else {
			resp.RunID = id
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleSensitivity runs the two-dimensional sweep and returns the grid.
func (h *Handler) HandleSensitivity(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}

	_, grid, err := h.runSweep(r)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(grid)
}

// HandleWACC applies component updates and returns the recomputed WACC with
// the discount rate overwritten on the assumption set.
func (h *Handler) HandleWACC(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}

	var req WACCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	set, err := h.decodeAssumptions(req.Assumptions)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	warnings := set.SetWACCComponents(req.Components)
	wacc := coreval.ApplyWACC(&set)
	for _, warning := range warnings {
		h.Log.Warn(warning)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(WACCResponse{
		WACC:        wacc,
		Assumptions: set,
		Warnings:    warnings,
	})
}

// HandleReport renders the run plus sweep as an HTML report.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}

	set, grid, err := h.runSweep(r)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	res, err := coreval.Run(set)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	html, err := report.RenderHTML(report.BuildMarkdown(set, res, grid))
	if err != nil {
		http.Error(w, fmt.Sprintf("report rendering failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

// HandleExport streams the run plus sweep as an XLSX workbook.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}

	set, grid, err := h.runSweep(r)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	res, err := coreval.Run(set)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="dcf_valuation.xlsx"`)
	if err := report.WriteExcel(w, set, res, grid); err != nil {
		h.Log.WithField("error", err).Error("excel export failed")
	}
}

// runSweep decodes a SensitivityRequest and executes the sweep, bracketing
// the scenario's own rates when no candidate lists are supplied.
func (h *Handler) runSweep(r *http.Request) (assumption.Set, *coreval.Grid, error) {
	var req SensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return assumption.Set{}, nil, fmt.Errorf("invalid request body: %w", err)
	}

	set, err := h.decodeAssumptions(req.Assumptions)
	if err != nil {
		return assumption.Set{}, nil, err
	}

	discountRates := req.DiscountRates
	if len(discountRates) == 0 {
		discountRates = coreval.BracketRange(set.DiscountRate, 0.01, 5)
	}
	growthRates := req.GrowthRates
	if len(growthRates) == 0 {
		growthRates = coreval.BracketRange(set.TerminalGrowthRate, 0.005, 5)
	}

	grid, err := coreval.RunSensitivity(set, discountRates, growthRates)
	if err != nil {
		return assumption.Set{}, nil, err
	}
	return set, grid, nil
}
