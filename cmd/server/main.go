// WorkDeck Server
//
// Features:
// - Sandboxed workspace file tree with path confinement
// - Project folder cards with optional scaffolding
// - File read/write/create/delete with text/binary classification
// - SSE live refresh for the web client
// - Prometheus metrics & structured logging (zap)
// - Embedded single-page web client
package main

import (
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/workdeck/workdeck/internal/api"
	"github.com/workdeck/workdeck/internal/config"
	"github.com/workdeck/workdeck/internal/events"
	"github.com/workdeck/workdeck/internal/logging"
	"github.com/workdeck/workdeck/internal/metrics"
	"github.com/workdeck/workdeck/internal/project"
	"github.com/workdeck/workdeck/internal/workspace"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Can't use structured logging yet
		panic("configuration error: " + err.Error())
	}

	// Initialize structured logging
	if err := logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}); err != nil {
		panic("logging init error: " + err.Error())
	}
	defer logging.Sync()

	logging.Info("WorkDeck Server starting...",
		zap.String("listen", cfg.ListenAddr),
		zap.String("metrics", cfg.MetricsAddr))

	// Open the workspace, creating the root directory on first run
	ws, err := workspace.New(cfg.WorkspaceRoot, cfg.MaxFileSize)
	if err != nil {
		logging.Fatal("workspace init failed", zap.Error(err))
	}
	logging.Info("workspace ready",
		zap.String("root", ws.Root()),
		zap.Int64("max_file_size", ws.MaxFileSize()))

	projects := project.NewService(ws)

	// Initialize SSE broadcaster
	broadcaster := events.NewBroadcaster()
	logging.Info("SSE broadcaster initialized")

	// Create API server
	srv := api.NewServer(ws, projects, broadcaster, cfg)

	// Start metrics server
	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: metrics.Handler(),
	}
	go func() {
		logging.Info("metrics server listening", zap.String("addr", cfg.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logging.Error("metrics server error", zap.Error(err))
		}
	}()

	// Start HTTP(S) server
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Handler(),
	}

	useTLS := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""
	if useTLS {
		httpServer.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS13,
		}
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logging.Info("shutting down...")
		httpServer.Close()
		metricsServer.Close()
	}()

	if useTLS {
		logging.Info("server listening (TLS 1.3)",
			zap.String("addr", cfg.ListenAddr),
			zap.String("cert", cfg.TLSCertFile))
		if err := httpServer.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile); err != http.ErrServerClosed {
			logging.Fatal("server error", zap.Error(err))
		}
	} else {
		logging.Info("server listening (HTTP)", zap.String("addr", cfg.ListenAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logging.Fatal("server error", zap.Error(err))
		}
	}
}
