package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/barisgit/distributor/internal/api"
)

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve built assets and the script API",
		Long:  "Start an HTTP server with the built assets under /dist/, the script API under /api and a preview page at /",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().Int("port", 0, "Port to listen on (default: config port)")
	cmd.Flags().Bool("dev", false, "Disable asset caching")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, getConfigPath(cmd, nil))
	if err != nil {
		return err
	}
	logger := loggerFromContext(cmd.Context())

	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
	}
	devMode, _ := cmd.Flags().GetBool("dev")

	handler, _ := api.NewServer(cfg, logger, devMode)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	fmt.Printf("🚀 Serving %s %s on http://localhost:%d\n", cfg.Name, cfg.Version, cfg.Port)
	logger.Info("server started", "addr", server.Addr, "root", cfg.RootDir, "dev", devMode)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
