package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/foomo/docs-versionpanel/mcp"
	"github.com/foomo/docs-versionpanel/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site with live version panels",
	Long: `Serves the site root over HTTP. Pages of known builds get their version panels
rendered on the fly from the versions file, which is reloaded whenever it changes.
The MCP endpoint and the SSE update streams are mounted below the configured endpoint.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides http.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, store, svc, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	addr := cfg.HTTP.Addr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := store.Watch(ctx); err != nil {
			logger.Error("versions watcher stopped", zap.Error(err))
		}
	}()

	mcpServer := mcp.NewMcpHTTPSSEServer(logger, mcp.NewServer(logger, svc), svc, cfg.HTTP.Endpoint, &mcp.SSEServerConfig{
		KeepaliveInterval: cfg.HTTP.KeepaliveInterval,
		BufferSize:        cfg.HTTP.BufferSize,
	})
	handler := service.NewHandler(logger, svc, siteSettings(cfg), service.HandlerSettings{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Mounts:         map[string]http.Handler{cfg.HTTP.Endpoint: mcpServer},
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving site",
			zap.String("addr", addr),
			zap.String("root", cfg.SiteRoot),
			zap.String("mcp", cfg.HTTP.Endpoint),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
