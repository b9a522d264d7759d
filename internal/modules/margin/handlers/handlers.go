// Package handlers provides HTTP handlers for margin intelligence operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/incomeclarity/marginsight/internal/domain"
	"github.com/incomeclarity/marginsight/internal/modules/margin"
	"github.com/incomeclarity/marginsight/internal/modules/portfolio"
	"github.com/incomeclarity/marginsight/internal/modules/profile"
	"github.com/incomeclarity/marginsight/internal/modules/stress"
)

// Handler handles margin intelligence HTTP requests.
type Handler struct {
	analyzer     margin.Analyzer
	profiler     *profile.Profiler
	stressRunner *stress.Runner
	snapshots    *portfolio.SnapshotRepository
	devMode      bool
	log          zerolog.Logger
}

// NewHandler creates a new margin handler.
func NewHandler(
	analyzer margin.Analyzer,
	profiler *profile.Profiler,
	stressRunner *stress.Runner,
	snapshots *portfolio.SnapshotRepository,
	devMode bool,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		analyzer:     analyzer,
		profiler:     profiler,
		stressRunner: stressRunner,
		snapshots:    snapshots,
		devMode:      devMode,
		log:          log.With().Str("handler", "margin").Logger(),
	}
}

// HandleSimulate handles POST /api/margin/simulate
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req.ToDomain())
	if err != nil {
		h.writeAnalyzeError(w, err)
		return
	}

	response := map[string]interface{}{
		"data": FromDomain(result),
		"metadata": map[string]interface{}{
			"runId":     uuid.New().String(),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleScenarios handles GET /api/margin/scenarios
func (h *Handler) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios := stress.Catalog()

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"scenarios": scenarios,
			"count":     len(scenarios),
			"version":   stress.CatalogVersion,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// StressTestRequest represents a request to stress a portfolio without
// running the full simulation pipeline.
type StressTestRequest struct {
	PortfolioValue        float64 `json:"portfolioValue"`
	MarginUsed            float64 `json:"marginUsed"`
	MonthlyDividendIncome float64 `json:"monthlyDividendIncome,omitempty"`
}

// HandleStressTest handles POST /api/margin/stress-test
func (h *Handler) HandleStressTest(w http.ResponseWriter, r *http.Request) {
	var req StressTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.PortfolioValue <= 0 {
		http.Error(w, "portfolioValue must be greater than 0", http.StatusBadRequest)
		return
	}
	if req.MarginUsed < 0 || req.MarginUsed >= req.PortfolioValue {
		http.Error(w, "marginUsed must be between 0 and portfolioValue", http.StatusBadRequest)
		return
	}

	results := h.stressRunner.Run(domain.PortfolioSnapshot{
		TotalValue:            req.PortfolioValue,
		MarginUsed:            req.MarginUsed,
		MonthlyDividendIncome: req.MonthlyDividendIncome,
	})

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"results": results,
			"version": stress.CatalogVersion,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleRiskProfile handles GET /api/margin/portfolios/{id}/risk-profile
func (h *Handler) HandleRiskProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	stored, err := h.snapshots.Get(id)
	if err != nil {
		h.log.Error().Err(err).Str("snapshot_id", id).Msg("Failed to load snapshot")
		h.writeInternalError(w, err)
		return
	}
	if stored == nil {
		http.Error(w, "Portfolio snapshot not found", http.StatusNotFound)
		return
	}

	riskProfile := h.profiler.Profile(stored.Snapshot, stored.MarginInterestRate)

	response := map[string]interface{}{
		"data": riskProfile,
		"metadata": map[string]interface{}{
			"portfolioId": stored.ID,
			"asOf":        time.Unix(stored.UpdatedAt, 0).UTC().Format(time.RFC3339),
			"timestamp":   time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// StoredSimulateRequest carries the request-level overrides for a simulation
// against a stored snapshot. Portfolio fields come from the store and cannot
// be overridden here.
type StoredSimulateRequest struct {
	MaintenanceRequirement float64 `json:"maintenanceRequirement,omitempty"`
	AnnualVolatility       float64 `json:"annualVolatility,omitempty"`
	AnnualReturn           float64 `json:"annualReturn,omitempty"`
	DaysToLookAhead        []int   `json:"daysToLookAhead,omitempty"`
	Iterations             int     `json:"iterations,omitempty"`
	Seed                   uint64  `json:"seed,omitempty"`
	TaxRate                float64 `json:"taxRate,omitempty"`
}

// HandleSimulateStored handles POST /api/margin/portfolios/{id}/simulate
func (h *Handler) HandleSimulateStored(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req StoredSimulateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.log.Error().Err(err).Msg("Failed to decode request body")
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	stored, err := h.snapshots.Get(id)
	if err != nil {
		h.log.Error().Err(err).Str("snapshot_id", id).Msg("Failed to load snapshot")
		h.writeInternalError(w, err)
		return
	}
	if stored == nil {
		http.Error(w, "Portfolio snapshot not found", http.StatusNotFound)
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), domain.SimulationRequest{
		Snapshot: stored.Snapshot,
		Assumptions: domain.MarketAssumptions{
			AnnualVolatility:       req.AnnualVolatility,
			AnnualReturn:           req.AnnualReturn,
			MaintenanceRequirement: req.MaintenanceRequirement,
			MarginInterestRate:     stored.MarginInterestRate,
		},
		HorizonDays: req.DaysToLookAhead,
		Iterations:  req.Iterations,
		Seed:        req.Seed,
		TaxRate:     req.TaxRate,
	})
	if err != nil {
		h.writeAnalyzeError(w, err)
		return
	}

	response := map[string]interface{}{
		"data": FromDomain(result),
		"metadata": map[string]interface{}{
			"runId":       uuid.New().String(),
			"portfolioId": stored.ID,
			"timestamp":   time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeAnalyzeError maps engine errors onto HTTP statuses. Validation
// failures carry their message to the client; everything else stays generic
// outside dev mode.
func (h *Handler) writeAnalyzeError(w http.ResponseWriter, err error) {
	if domain.IsInvalidInput(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.log.Error().Err(err).Msg("Margin analysis failed")
	h.writeInternalError(w, err)
}

func (h *Handler) writeInternalError(w http.ResponseWriter, err error) {
	if h.devMode {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
