package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/repcycle/internal/catalog"
	"github.com/claude/repcycle/internal/config"
	"github.com/claude/repcycle/internal/mcp"
	"github.com/claude/repcycle/internal/server"
	"github.com/claude/repcycle/internal/store"
	"github.com/claude/repcycle/internal/tracker"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// The store satisfies the tracker's persistence interface.
var _ tracker.Store = (*store.Store)(nil)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("RepCycle starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open state database (runs schema migrations)
	st, err := store.Open(cfg.Storage.DataDir)
	if err != nil {
		log.Error("failed to open state db", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	log.Info("state db ready", "dir", cfg.Storage.DataDir)

	// Load the embedded catalog
	cat, err := catalog.Default()
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	// Create the tracker and restore persisted state
	notifier := tracker.NotifierFunc(func() {
		log.Info("rest timer expired")
	})
	tr := tracker.New(cat, st, notifier, tracker.FinishPolicy(cfg.Tracker.FinishPolicy), log)
	if err := tr.Load(); err != nil {
		log.Error("failed to load tracker state", "error", err)
		os.Exit(1)
	}
	defer tr.Close()

	// Create server and mount the MCP transport
	srv := server.New(tr, cat, log)
	mcpSrv := mcp.New(tr, cat, Version, log)
	srv.MountMCP(mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Start server — tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
