package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/acquisition-forecast/internal/server"
	"github.com/iwvelando/acquisition-forecast/pkg/constants"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveOpts struct {
	serverConfig string
	address      string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.StringVar(&serveOpts.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	flags.StringVar(&serveOpts.address, "address", "", "listen address override")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := server.LoadConfig(serveOpts.serverConfig)
	if err != nil {
		return err
	}
	if serveOpts.address != "" {
		cfg.Address = serveOpts.address
	}

	logger, err := initializeLogger(cfg.Logging, logLevelOverride)
	if err != nil {
		return eris.Wrap(err, "failed to initialize logger")
	}
	defer func() {
		_ = logger.Sync()
	}()

	handler := server.NewHandler(logger, server.Options{
		MaxUploadSize:  cfg.UploadSizeBytes(),
		RequestTimeout: cfg.Timeout(),
		Version:        version,
	})
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting",
			zap.String("op", "main.runServe"),
			zap.String("address", cfg.Address),
			zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return eris.Wrap(err, "server failed")
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.String("op", "main.runServe"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
