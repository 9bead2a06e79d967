package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/autotutor"
	"github.com/aretw0/autotutor/internal/cli"
	"github.com/aretw0/autotutor/internal/config"
	"github.com/aretw0/autotutor/internal/logging"
	httpAdapter "github.com/aretw0/autotutor/pkg/adapters/http"
	"github.com/aretw0/autotutor/pkg/observability"
	"github.com/aretw0/autotutor/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves lessons over a JSON API with SSE and WebSocket streams, plus Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := logging.NewJSON(os.Stderr, logging.Level(cfg.Debug))

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		tutor, err := cli.NewTutor(cfg, logger, autotutor.WithMetrics(metrics))
		if err != nil {
			fmt.Printf("Error initializing autotutor: %v\n", err)
			os.Exit(1)
		}

		handler := httpAdapter.NewHandler(
			session.NewManager(tutor, session.WithLogger(logger), session.WithMetrics(metrics)),
			httpAdapter.WithScript(tutor.Script()),
			httpAdapter.WithAssets(tutor.Assets()),
			httpAdapter.WithGatherer(reg),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting AutoTutor server", "addr", srv.Addr, "version", autotutor.Version)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			logger.Error("server error", "err", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("start shutdown", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
			logger.Info("AutoTutor server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	_ = v.BindPFlag(config.KeyAddr, serveCmd.Flags().Lookup("addr"))
}
