// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/lexicon/internal/api"
	"github.com/starford/lexicon/internal/gemini"
	"github.com/starford/lexicon/internal/generator"
	"github.com/starford/lexicon/internal/index"
	"github.com/starford/lexicon/internal/metrics"
	"github.com/starford/lexicon/internal/noteservice"
	"github.com/starford/lexicon/internal/notewriter"
	"github.com/starford/lexicon/internal/settings"
	"github.com/starford/lexicon/internal/sse"
	"github.com/starford/lexicon/internal/storage"
	"github.com/starford/lexicon/internal/vocab"
)

// runtime holds the services shared by every command.
type runtime struct {
	cfg      *Config
	logger   *slog.Logger
	store    *storage.FS
	db       *index.DB
	settings *settings.Store
	notes    *noteservice.Service
	lookups  *vocab.Service
	metrics  *metrics.Metrics
	broker   *sse.Broker
}

type runtimeOptions struct {
	live bool // metrics and SSE events
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// setup opens the vault and index and builds the lookup pipeline.
func setup(app *application, logger *slog.Logger, o runtimeOptions) (*runtime, error) {
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Ensure vault directory exists.
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	var save settings.SaveFunc
	if app.configPath != "" {
		save = SettingsSaver(app.configPath, cfg)
	}

	rt := &runtime{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		db:       db,
		settings: settings.NewStore(cfg.Settings, save),
		notes:    noteservice.NewService(store, db),
	}

	client := gemini.New(cfg.Gemini.BaseURL, cfg.Gemini.Timeout)
	var genOpts []generator.Option
	lookupOpts := []vocab.Option{vocab.WithHistory(db)}
	if o.live {
		rt.metrics = metrics.New()
		rt.broker = sse.NewBroker()
		genOpts = append(genOpts, generator.WithObserver(rt.metrics))
		lookupOpts = append(lookupOpts, vocab.WithObserver(rt.metrics), vocab.WithPublisher(rt.broker))
	}

	gen := generator.New(client, logger, genOpts...)
	rt.lookups = vocab.NewService(rt.settings, gen, notewriter.New(store), logger, lookupOpts...)

	return rt, nil
}

func (rt *runtime) Close() {
	if rt.broker != nil {
		rt.broker.Close()
	}
	if err := rt.db.Close(); err != nil {
		rt.logger.Warn("close index failed", slog.String("error", err.Error()))
	}
}

// Run starts the HTTP server and the vault watcher with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := newLogger(app.stdout, cfg.App.LogLevel)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("model", cfg.Settings.ActiveModel()),
		slog.Bool("api_key_set", cfg.Settings.ResolvedAPIKey() != ""),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt, err := setup(app, logger, runtimeOptions{live: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	apiRouter := api.NewRouter(api.Deps{
		Notes:    rt.notes,
		Lookups:  rt.lookups,
		History:  rt.db,
		Settings: rt.settings,
		Events:   rt.broker,
		Metrics:  rt.metrics,
	}, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := rt.db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", rt.metrics.Handler())

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher with SSE callback.
	g.Go(func() error {
		err := index.Watch(gCtx, rt.db, rt.store, rt.store.Root(), logger, func(kind, path string) {
			rt.broker.PublishNoteEvent(kind, path)
		})
		if err != nil {
			logger.Error("watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// SSE streams only end when the broker closes them.
		rt.broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the errgroup context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")
