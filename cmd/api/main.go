package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"notes-workspace/internal/config"
	"notes-workspace/internal/contextutil"
	"notes-workspace/internal/http"
	"notes-workspace/internal/remote"
	"notes-workspace/internal/storage"
	"notes-workspace/internal/workspace"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize local database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	local := storage.NewLocalStore(db, cfg.StoragePrefix)

	// Optional remote sync backend. Without a DSN the workspace runs
	// local-only; with one, the store connects lazily on first use.
	var remoteStore remote.NoteStore
	if cfg.RemoteDSN != "" {
		pg, err := remote.NewPostgresStore(cfg.RemoteDSN)
		if err != nil {
			log.Fatalf("Failed to configure remote store: %v", err)
		}
		remoteStore = pg
		slog.Info("Remote sync configured")
	} else {
		slog.Info("Remote sync disabled, running local-only")
	}

	engine := workspace.NewEngine(local, remoteStore)

	ctx := contextutil.WithLogger(context.Background(), logger)
	session := workspace.NewSession(ctx, engine, local)

	status := session.Load(ctx)
	if status.Degraded() {
		slog.Warn("Initial load degraded to local notes", "error", status.RemoteErr)
	}
	if saveStatus := session.EnsureWelcomeNote(ctx); saveStatus.Degraded() {
		slog.Warn("Failed to persist welcome note", "local_error", saveStatus.LocalErr, "remote_error", saveStatus.RemoteErr)
	}
	slog.Info("Workspace loaded", "scope", session.Scope(), "notes", len(session.Notes()))

	deps := &http.Deps{
		Session:          session,
		Local:            local,
		RemoteConfigured: remoteStore != nil,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
