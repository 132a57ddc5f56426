package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/wellrun/internal/config"
	"github.com/sawpanic/wellrun/internal/model"
	"github.com/sawpanic/wellrun/internal/sim"
)

func newTestHandlers() *Handlers {
	return NewHandlers(model.DefaultEconomics(), config.Simulation{
		Trials:     50,
		Volatility: sim.DefaultVolatility(),
	}, NewMetricsRegistry())
}

func validParams() model.Parameters {
	return model.Parameters{
		OilPrice:          65,
		GasPrice:          3.25,
		InitialProduction: 1000,
		DeclineRate:       1.5,
		DiscountRate:      10,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newTestHandlers()

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "wellrun", body["service"])
}

func TestProjection_OK(t *testing.T) {
	h := newTestHandlers()

	w := postJSON(t, h.Projection, "/v1/projection", ProjectionRequest{Params: validParams()})
	require.Equal(t, http.StatusOK, w.Code)

	var proj model.Projection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &proj))
	require.Len(t, proj.Months, model.DefaultHorizon)
	assert.InDelta(t, 1000.0, proj.Months[0].OilProduction, 1e-9)
	assert.InDelta(t, 985.0, proj.Months[1].OilProduction, 1e-9)
	assert.InDelta(t, 1560.0, proj.Summary.TotalInvestment, 1e-9)
}

func TestProjection_CustomHorizonRejectedWithoutSchedule(t *testing.T) {
	h := newTestHandlers()

	// The capex schedule is sized for the default horizon; other horizons
	// are an input error, not a crash.
	w := postJSON(t, h.Projection, "/v1/projection", ProjectionRequest{Params: validParams(), Horizon: 12})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjection_InvalidParams(t *testing.T) {
	h := newTestHandlers()

	params := validParams()
	params.InitialProduction = -500
	w := postJSON(t, h.Projection, "/v1/projection", ProjectionRequest{Params: params})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var er errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &er))
	assert.Contains(t, er.Error, "invalid parameter")
}

func TestProjection_MalformedBody(t *testing.T) {
	h := newTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/v1/projection", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	h.Projection(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSimulation_FixedSeedIsReproducible(t *testing.T) {
	h := newTestHandlers()
	seed := int64(42)
	req := SimulationRequest{Params: validParams(), Trials: 100, Seed: &seed}

	run := func() *SimulationResponse {
		w := postJSON(t, h.Simulation, "/v1/simulation", req)
		require.Equal(t, http.StatusOK, w.Code)
		var resp SimulationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return &resp
	}

	a := run()
	b := run()

	assert.Equal(t, 100, a.Completed)
	assert.Equal(t, seed, a.Seed)
	require.NotNil(t, a.Report)
	assert.Equal(t, a.Report, b.Report, "same seed must reproduce the same risk report")
	assert.NotEqual(t, a.BatchID, b.BatchID)
}

func TestSimulation_IncludeRuns(t *testing.T) {
	h := newTestHandlers()
	seed := int64(7)

	w := postJSON(t, h.Simulation, "/v1/simulation", SimulationRequest{
		Params: validParams(), Trials: 20, Seed: &seed, IncludeRuns: true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SimulationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Runs, resp.Completed)
}

func TestSimulation_DefaultsApplied(t *testing.T) {
	h := newTestHandlers()

	// No trials in the request: server default of 50 applies.
	w := postJSON(t, h.Simulation, "/v1/simulation", SimulationRequest{Params: validParams()})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SimulationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 50, resp.Requested)
}

func TestSimulation_InvalidParams(t *testing.T) {
	h := newTestHandlers()

	params := validParams()
	params.DeclineRate = 150
	w := postJSON(t, h.Simulation, "/v1/simulation", SimulationRequest{Params: params, Trials: 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetrics_CountProjectionsAndSimulations(t *testing.T) {
	h := newTestHandlers()
	seed := int64(1)

	postJSON(t, h.Projection, "/v1/projection", ProjectionRequest{Params: validParams()})
	postJSON(t, h.Simulation, "/v1/simulation", SimulationRequest{Params: validParams(), Trials: 10, Seed: &seed})

	families, err := h.metrics.Gatherer().Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	proj := byName["wellrun_projections_total"]
	require.NotNil(t, proj)
	assert.Equal(t, 1.0, proj.GetMetric()[0].GetCounter().GetValue())

	trials := byName["wellrun_simulation_trials_total"]
	require.NotNil(t, trials)
	assert.Equal(t, 10.0, trials.GetMetric()[0].GetCounter().GetValue())

	sims := byName["wellrun_simulations_total"]
	require.NotNil(t, sims)
	var okCount float64
	for _, m := range sims.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "result" && l.GetValue() == "ok" {
				okCount = m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, okCount)
}
