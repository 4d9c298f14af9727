package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"OutreachScanner/internal/config"
	"OutreachScanner/internal/infrastructure/feed"
	"OutreachScanner/internal/infrastructure/fetch"
	"OutreachScanner/internal/infrastructure/llm"
	"OutreachScanner/internal/infrastructure/storage"
	"OutreachScanner/internal/logging"
	"OutreachScanner/internal/ports"
	"OutreachScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	db       *sql.DB
}

// New builds a runnable application instance. A missing extraction
// credential is fatal here, before any feed is touched.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	cutoff, err := cfg.Cutoff()
	if err != nil {
		return nil, err
	}

	application := &Application{cfg: cfg}

	var store ports.ArticleStore
	switch cfg.Storage.Driver {
	case "", "file":
		store = storage.NewJSONStore(cfg.Storage.Path)
	case "postgres":
		db, err := sql.Open("postgres", cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		application.db = db
		store = storage.NewPostgresStore(db)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	application.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Feeds:     cfg.Feeds,
		Cutoff:    cutoff,
		Source:    feed.NewGofeedSource(baseLogger.With("component", "feeds")),
		Fetcher:   fetch.NewBodyFetcher(nil),
		Extractor: llm.NewOpenAIExtractor(cfg.OpenAI),
		Store:     store,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	return application, nil
}

// Run performs a single pipeline execution and reports new article count.
func (a *Application) Run(ctx context.Context) (int, error) {
	if a.pipeline == nil {
		return 0, nil
	}
	return a.pipeline.Run(ctx)
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
