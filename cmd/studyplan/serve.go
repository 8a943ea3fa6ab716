package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fentz26/studyplan/internal/controlplane"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"daemon"},
	Short:   "Start the studyplan HTTP API",
	Long:    `Starts the HTTP API for tasks, plan generation and export.`,
	RunE:    runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := application.Logger
	addr := loaded.Server.Addr
	if listenAddr != "" {
		addr = listenAddr
	}

	controlplane.Version = version
	server := controlplane.NewServer(application.Service, addr, loaded.Server.AllowedOrigins, logger)

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		err := server.Start()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), loaded.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
	return nil
}
