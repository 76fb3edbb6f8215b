package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/planfsa"
	"github.com/aretw0/planfsa/internal/cli"
	"github.com/aretw0/planfsa/internal/logging"
	httpAdapter "github.com/aretw0/planfsa/pkg/adapters/http"
	"github.com/aretw0/planfsa/pkg/adapters/memory"
	"github.com/aretw0/planfsa/pkg/induction"
	"github.com/aretw0/planfsa/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP learn API",
	Long:  `Starts a stateless HTTP server exposing POST /learn, GET /healthz, GET /info and GET /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logger := logging.New(level)
		if cfg.Log.Format == "json" {
			logger = logging.NewJSON(level)
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}

		var selOpts []induction.SelectorOption
		if cfg.Selector.ObjectFocus {
			selOpts = append(selOpts, induction.WithObjectFocus())
		}
		learnerOpts := []planfsa.Option{planfsa.WithSelector(induction.NewSelector(selOpts...))}

		store, locker, closer := cli.OpenStore(cfg.Store)
		defer closer.Close()
		if store != nil {
			// Concurrent requests for one corpus learn it once.
			if locker == nil {
				locker = memory.NewLocker()
			}
			learnerOpts = append(learnerOpts,
				planfsa.WithStore(store),
				planfsa.WithLocker(locker, cli.DefaultLockTTL),
			)
		}

		handler := httpAdapter.NewHandler(
			httpAdapter.WithLearnerOptions(learnerOpts...),
			httpAdapter.WithMetrics(metrics, reg),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:              cfg.Serve.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting planfsa server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("planfsa server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
