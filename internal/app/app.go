// Package app wires configuration into the running backend service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"BeInformed/internal/config"
	"BeInformed/internal/infrastructure/analysis"
	"BeInformed/internal/infrastructure/newsapi"
	"BeInformed/internal/infrastructure/scheduler"
	"BeInformed/internal/infrastructure/scraper"
	"BeInformed/internal/infrastructure/storage"
	"BeInformed/internal/logging"
	"BeInformed/internal/newsprovider"
	"BeInformed/internal/server"
	"BeInformed/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application owns the backend's lifecycle: storage, HTTP server, and the
// periodic analysis job.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	analysis  *usecase.AnalysisService
	scheduler *scheduler.Scheduler
	server    *http.Server
}

// New connects to storage and wires every workflow component.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect storage: %w", err)
	}
	if err := storage.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("prepare schema: %w", err)
	}

	topics := storage.NewTopicRepository(db)
	articles := storage.NewArticleRepository(db)
	sources := storage.NewSourceRepository(db)
	statistics := storage.NewStatisticsRepository(db)

	registry := newsprovider.NewRegistry()
	registry.Register(newsapi.NewClient(cfg.NewsAPI, nil))

	collector := usecase.NewCollector(usecase.CollectorDeps{
		Topics:    topics,
		Articles:  articles,
		Sources:   sources,
		Providers: registry,
		Provider:  cfg.NewsAPI.Provider,
		Logger:    baseLogger.With("component", "collector"),
	})

	analysisService := usecase.NewAnalysisService(usecase.AnalysisDeps{
		Articles: articles,
		Analyzer: analysis.NewClient(cfg.Analysis, nil),
		Fetcher:  scraper.NewExtractor(nil),
		Logger:   baseLogger.With("component", "analysis"),
	})

	api := server.New(server.Deps{
		Topics:     topics,
		Articles:   articles,
		Sources:    sources,
		Statistics: statistics,
		Searcher:   collector,
		Analyzer:   analysisService,
		Logger:     baseLogger.With("component", "server"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		analysis: analysisService,
		scheduler: scheduler.New(cfg.Scheduler.CronExpression, cfg.Scheduler.Location(),
			baseLogger.With("component", "scheduler")),
		server: &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: api.Router(),
		},
	}, nil
}

// Run serves the API until the context is canceled, then shuts down
// gracefully.
func (a *Application) Run(ctx context.Context) error {
	err := a.scheduler.Start(ctx, func(jobCtx context.Context) {
		analyzed, err := a.analysis.AnalyzeRecent(jobCtx,
			a.cfg.Scheduler.RecentDays, a.cfg.Scheduler.RecentLimit)
		if err != nil {
			a.logger.Error("scheduled analysis failed", "error", err)
			return
		}
		a.logger.Info("scheduled analysis finished", "analyzed", analyzed)
	})
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", a.cfg.Server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler stop", "error", err)
	}
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}
