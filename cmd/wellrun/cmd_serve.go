package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpiface "github.com/sawpanic/wellrun/internal/interfaces/http"
)

// serveCmd exposes the engine over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve projections and simulations over HTTP",
	Long: `Start the read-only HTTP interface: POST /v1/projection and
POST /v1/simulation evaluate the engine, GET /v1/simulation/stream streams
Monte Carlo progress over websocket, GET /healthz and GET /metrics expose
health and Prometheus metrics.

Examples:
  wellrun serve
  wellrun serve --host 0.0.0.0 --port 9090`,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Bind address (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	serverCfg := httpiface.FromConfig(cfg.Server)
	if serveHost != "" {
		serverCfg.Host = serveHost
	}
	if servePort != 0 {
		serverCfg.Port = servePort
	}

	metrics := httpiface.NewMetricsRegistry()
	handlers := httpiface.NewHandlers(cfg.Economics, cfg.Simulation, metrics)
	server, err := httpiface.NewServer(serverCfg, handlers)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
