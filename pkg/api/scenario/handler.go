// Package scenario exposes the named-scenario store over HTTP.
package scenario

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"dcf_valuation/pkg/core/assumption"
	"dcf_valuation/pkg/core/store"
)

// Handler holds dependencies for scenario endpoints.
type Handler struct {
	Log       *logrus.Logger
	Scenarios *store.ScenarioRepo
}

// NewHandler creates a new scenario handler.
func NewHandler(log *logrus.Logger, scenarios *store.ScenarioRepo) *Handler {
	return &Handler{Log: log, Scenarios: scenarios}
}

// SaveRequest is the body of a scenario save.
type SaveRequest struct {
	Name        string          `json:"name"`
	Assumptions json.RawMessage `json:"assumptions"`
}

func cors(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// HandleScenarios lists scenarios on GET and saves one on POST.
func (h *Handler) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		infos, err := h.Scenarios.List(r.Context())
		if err != nil {
			h.Log.WithField("error", err).Error("scenario listing failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(infos)

	case http.MethodPost:
		var req SaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		set, err := assumption.Parse(req.Assumptions)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.Scenarios.Save(r.Context(), req.Name, set); err != nil {
			h.Log.WithField("error", err).Error("scenario save failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.Log.WithField("scenario", req.Name).Info("scenario saved")
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleGet loads a single scenario by ?name=.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name query parameter required", http.StatusBadRequest)
		return
	}

	set, err := h.Scenarios.Load(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(set)
}
