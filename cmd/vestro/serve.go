package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anthony-okoye/vestro/api"
	"github.com/anthony-okoye/vestro/marketdata"
	"github.com/anthony-okoye/vestro/research"
	"github.com/anthony-okoye/vestro/step"
	"github.com/anthony-okoye/vestro/workflow"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the vestro HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides http.addr)")
	serveCmd.Flags().String("driver", "", "store driver (overrides store.driver)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTP.Addr = addr
	}
	if driver, _ := cmd.Flags().GetString("driver"); driver != "" {
		cfg.Store.Driver = driver
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	st, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate %s store: %w", cfg.Store.Driver, err)
	}

	reg := step.NewRegistry()
	research.MustRegister(reg, marketdata.NewStatic())

	orch, err := workflow.NewOrchestrator(st, st, reg,
		workflow.WithLogger(logger),
		workflow.WithStepTimeout(cfg.Step.Timeout),
	)
	if err != nil {
		return err
	}

	a := api.New(orch, api.WithHealthCheck(st), api.WithLogger(logger))

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      a.Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			slog.String("addr", cfg.HTTP.Addr),
			slog.String("driver", cfg.Store.Driver),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
			if err := server.Close(); err != nil {
				return fmt.Errorf("close server: %w", err)
			}
		}
		logger.Info("server stopped")
	}
	return nil
}
