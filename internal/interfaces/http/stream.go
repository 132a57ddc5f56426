package http

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/wellrun/internal/risk"
	"github.com/sawpanic/wellrun/internal/sim"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// streamFrame is one websocket message: periodic progress frames followed
// by a single result or error frame.
type streamFrame struct {
	Type   string              `json:"type"` // progress | result | error
	Done   int                 `json:"done,omitempty"`
	Total  int                 `json:"total,omitempty"`
	Error  string              `json:"error,omitempty"`
	Result *SimulationResponse `json:"result,omitempty"`
}

// SimulationStream handles GET /v1/simulation/stream. The client upgrades
// to websocket, sends one SimulationRequest frame, and receives progress
// frames while the simulation runs. Closing the connection cancels the
// simulation cooperatively; completed trials are simply discarded.
func (h *Handlers) SimulationStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req SimulationRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(streamFrame{Type: "error", Error: "invalid request frame: " + err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Cancel the run when the client goes away. All subsequent reads fail
	// once the connection closes, so this goroutine always exits.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	progress := make(chan [2]int, 1)
	cfg := h.simConfig(req)
	cfg.OnProgress = func(done, total int) {
		// Drop stale frames rather than blocking the reporter.
		select {
		case progress <- [2]int{done, total}:
		default:
		}
	}

	type outcome struct {
		batch *sim.Batch
		err   error
	}
	result := make(chan outcome, 1)
	h.metrics.ActiveSimulations.Inc()
	go func() {
		batch, err := h.runner.Run(ctx, req.Params, cfg)
		result <- outcome{batch: batch, err: err}
	}()

	for {
		select {
		case p := <-progress:
			if err := conn.WriteJSON(streamFrame{Type: "progress", Done: p[0], Total: p[1]}); err != nil {
				cancel()
				// Still need the run to finish before returning.
				<-result
				h.metrics.ActiveSimulations.Dec()
				return
			}
		case out := <-result:
			h.metrics.ActiveSimulations.Dec()
			if out.err != nil {
				h.metrics.SimulationsTotal.WithLabelValues("error").Inc()
				conn.WriteJSON(streamFrame{Type: "error", Error: out.err.Error()})
				return
			}
			h.metrics.SimulationTrials.Add(float64(out.batch.Completed))
			if out.batch.Cancelled {
				h.metrics.SimulationsTotal.WithLabelValues("cancelled").Inc()
				conn.WriteJSON(streamFrame{Type: "error", Error: "simulation cancelled"})
				return
			}
			h.metrics.SimulationsTotal.WithLabelValues("ok").Inc()

			report, err := risk.Assess(out.batch)
			if err != nil {
				conn.WriteJSON(streamFrame{Type: "error", Error: err.Error()})
				return
			}
			resp := h.simulationResponse(out.batch, report)
			if req.IncludeRuns {
				resp.Runs = out.batch.Runs
			}
			conn.WriteJSON(streamFrame{Type: "result", Result: resp})
			return
		}
	}
}
