// Package app wires the process-wide components: it provisions the dataset,
// opens the single engine handle and builds the services on top of it.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"chinook-demo/internal/config"
	"chinook-demo/internal/dataset"
	internaldb "chinook-demo/internal/db"
	"chinook-demo/internal/domain"
	"chinook-demo/internal/engine"
	"chinook-demo/internal/render"
	"chinook-demo/internal/service/agent"
	"chinook-demo/internal/service/query"
)

// datasetMaxOpen bounds the SQLite read pool.
const datasetMaxOpen = 4

// Engine is a SQL engine that can also describe its schema.
type Engine interface {
	domain.SQLEngine
	domain.SchemaInspector
}

// Deps holds what the caller must provide.
type Deps struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Out    io.Writer // interactive output; nil discards
	// Color forces styled interactive output on or off. Nil detects a terminal.
	Color *bool
}

// App is the explicit context object shared by every front end. It owns the
// one engine handle for the process.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	DatasetPath string
	Engine      Engine
	Executor    *query.Executor
	Presenter   *render.Presenter
	Agent       *agent.Bridge
}

// New provisions the dataset and wires every component. Only a
// *domain.ProvisioningError or an engine that cannot be created fails
// startup; a dataset that could not be fetched surfaces on the first query.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := deps.Out
	if out == nil {
		out = io.Discard
	}

	provisioner := dataset.NewProvisioner(logger.With("component", "dataset"), provisionerOptions(cfg)...)
	path, err := provisioner.Ensure(ctx, domain.DatasetResource{
		Name:     cfg.DatasetName,
		Location: cfg.DatasetURL,
	})
	if err != nil {
		return nil, err
	}

	eng, err := openEngine(cfg.Engine, path)
	if err != nil {
		return nil, err
	}

	executor := query.NewExecutor(eng, logger.With("component", "query"))

	var presenterOpts []render.Option
	if deps.Color != nil {
		presenterOpts = append(presenterOpts, render.WithColor(*deps.Color))
	}
	presenter := render.NewPresenter(out, logger.With("component", "render"), presenterOpts...)

	bridge := agent.New(ctx, agent.Config{
		Provider: cfg.Agent.Provider,
		Model:    cfg.Agent.Model,
		APIKey:   cfg.Agent.APIKey(),
		TopK:     cfg.Agent.TopK,
	}, agent.NewToolkit(eng, executor), logger.With("component", "agent"))

	logger.Info("dataset ready", "path", path, "engine", eng.Dialect())

	return &App{
		Config:      cfg,
		Logger:      logger,
		DatasetPath: path,
		Engine:      eng,
		Executor:    executor,
		Presenter:   presenter,
		Agent:       bridge,
	}, nil
}

// Close releases the engine handle.
func (a *App) Close() error {
	return a.Engine.Close()
}

func openEngine(kind, path string) (Engine, error) {
	switch kind {
	case config.EngineDuckDB:
		eng, err := engine.NewDuckDBEngine(path)
		if err != nil {
			return nil, fmt.Errorf("open duckdb engine: %w", err)
		}
		return eng, nil
	case config.EngineSQLite, "":
		db, err := internaldb.OpenDataset(path, datasetMaxOpen)
		if err != nil {
			return nil, err
		}
		return engine.NewSQLiteEngine(db), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", kind)
	}
}

// provisionerOptions registers the object-store fetchers with whatever
// credentials are configured; without credentials they read anonymously.
func provisionerOptions(cfg *config.Config) []dataset.Option {
	st := cfg.Storage
	return []dataset.Option{
		dataset.WithTimeout(cfg.FetchTimeout),
		dataset.WithFetcher("s3", &dataset.S3Fetcher{
			Region:   st.S3Region,
			KeyID:    st.S3KeyID,
			Secret:   st.S3Secret,
			Endpoint: st.S3Endpoint,
		}),
		dataset.WithFetcher("gs", &dataset.GCSFetcher{KeyFile: st.GCSKeyFile}),
		dataset.WithFetcher("azblob", &dataset.AzureFetcher{AccountKey: st.AzureAccountKey}),
	}
}
