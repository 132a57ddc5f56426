package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/wellrun/internal/config"
	"github.com/sawpanic/wellrun/internal/model"
	"github.com/sawpanic/wellrun/internal/risk"
	"github.com/sawpanic/wellrun/internal/sim"
)

// Handlers evaluates engine operations for HTTP clients. The engine stays
// stateless; the handlers own nothing but configuration defaults.
type Handlers struct {
	econ     model.Economics
	defaults config.Simulation
	runner   *sim.Runner
	metrics  *MetricsRegistry
}

// NewHandlers wires the engine with simulation defaults and metrics.
func NewHandlers(econ model.Economics, defaults config.Simulation, metrics *MetricsRegistry) *Handlers {
	return &Handlers{
		econ:     econ,
		defaults: defaults,
		runner:   sim.NewRunner(econ),
		metrics:  metrics,
	}
}

// ProjectionRequest is the body of POST /v1/projection.
type ProjectionRequest struct {
	Params  model.Parameters `json:"params"`
	Horizon int              `json:"horizon,omitempty"`
}

// SimulationRequest is the body of POST /v1/simulation and the first frame
// of the websocket stream. Omitted fields fall back to server defaults; a
// nil Seed means a fresh random seed per request.
type SimulationRequest struct {
	Params      model.Parameters `json:"params"`
	Volatility  *sim.Volatility  `json:"volatility,omitempty"`
	Trials      int              `json:"trials,omitempty"`
	Seed        *int64           `json:"seed,omitempty"`
	Horizon     int              `json:"horizon,omitempty"`
	IncludeRuns bool             `json:"include_runs,omitempty"`
}

// SimulationResponse pairs batch metadata with the derived risk report.
// Individual runs are included only on request; they can be large.
type SimulationResponse struct {
	BatchID   string       `json:"batch_id"`
	Seed      int64        `json:"seed"`
	Requested int          `json:"requested"`
	Completed int          `json:"completed"`
	Skipped   int          `json:"skipped"`
	Cancelled bool         `json:"cancelled"`
	ElapsedMS int64        `json:"elapsed_ms"`
	Report    *risk.Report `json:"report"`
	Runs      []sim.Run    `json:"runs,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "wellrun",
	})
}

// Projection handles POST /v1/projection: one deterministic evaluation.
func (h *Handlers) Projection(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Horizon == 0 {
		req.Horizon = model.DefaultHorizon
	}

	start := time.Now()
	proj, err := model.Project(req.Params, h.econ, req.Horizon)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.metrics.ProjectionsTotal.Inc()
	h.metrics.ProjectionDuration.Observe(time.Since(start).Seconds())

	h.writeJSON(w, http.StatusOK, proj)
}

// Simulation handles POST /v1/simulation: a full Monte Carlo run plus risk
// report, evaluated synchronously.
func (h *Handlers) Simulation(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	cfg := h.simConfig(req)
	h.metrics.ActiveSimulations.Inc()
	batch, err := h.runner.Run(r.Context(), req.Params, cfg)
	h.metrics.ActiveSimulations.Dec()
	if err != nil {
		h.metrics.SimulationsTotal.WithLabelValues("error").Inc()
		h.writeError(w, err)
		return
	}
	h.metrics.SimulationTrials.Add(float64(batch.Completed))
	if batch.Cancelled {
		h.metrics.SimulationsTotal.WithLabelValues("cancelled").Inc()
	} else {
		h.metrics.SimulationsTotal.WithLabelValues("ok").Inc()
	}

	report, err := risk.Assess(batch)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := h.simulationResponse(batch, report)
	if req.IncludeRuns {
		resp.Runs = batch.Runs
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// simConfig merges a request with the server's simulation defaults.
func (h *Handlers) simConfig(req SimulationRequest) sim.Config {
	cfg := sim.Config{
		Trials:     h.defaults.Trials,
		Workers:    h.defaults.Workers,
		Volatility: h.defaults.Volatility,
		Horizon:    req.Horizon,
		Seed:       time.Now().UnixNano(),
	}
	if req.Trials > 0 {
		cfg.Trials = req.Trials
	}
	if req.Volatility != nil {
		cfg.Volatility = *req.Volatility
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	return cfg
}

func (h *Handlers) simulationResponse(batch *sim.Batch, report *risk.Report) *SimulationResponse {
	return &SimulationResponse{
		BatchID:   batch.ID,
		Seed:      batch.Seed,
		Requested: batch.Requested,
		Completed: batch.Completed,
		Skipped:   batch.Skipped,
		Cancelled: batch.Cancelled,
		ElapsedMS: batch.Elapsed.Milliseconds(),
		Report:    report,
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, model.ErrInvalidParameter) || errors.Is(err, risk.ErrEmptyBatch) {
		status = http.StatusBadRequest
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
