package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/internship-allocation/internal/config"
	"github.com/jakechorley/internship-allocation/pkg/clients/sheetsclient"
	"github.com/jakechorley/internship-allocation/pkg/db"
	"github.com/jakechorley/internship-allocation/pkg/postgres"
	"github.com/jakechorley/internship-allocation/pkg/sqlite"
)

// postgresSource adapts postgres.DB to the migrate command
type postgresSource struct {
	*postgres.DB
}

func (p postgresSource) Migrate(ctx context.Context) (string, error) {
	ran, err := p.RunMigrations(ctx)
	if err != nil {
		return "", err
	}
	if len(ran) == 0 {
		return "Schema is up to date", nil
	}
	return "Applied migrations: " + strings.Join(ran, ", "), nil
}

// sqliteSource adapts sqlite.DB to the migrate command
type sqliteSource struct {
	*sqlite.DB
}

func (s sqliteSource) Migrate(ctx context.Context) (string, error) {
	ran, err := s.DB.Migrate(ctx)
	if err != nil {
		return "", err
	}
	if ran == 0 {
		return "Schema is up to date", nil
	}
	return fmt.Sprintf("Applied %d schema step(s)", ran), nil
}

// openSource opens the configured record source. The returned function
// releases any connection it holds.
func openSource(ctx context.Context, cfg *config.Config, env string, logger *zap.Logger) (db.Repository, func(), error) {
	noop := func() {}

	switch cfg.Source.Kind {
	case config.SourceCSV:
		logger.Debug("Opening CSV source",
			zap.String("students", cfg.Source.StudentsCSV),
			zap.String("postings", cfg.Source.PostingsCSV))
		repo, err := db.OpenCSV(cfg.Source.StudentsCSV, cfg.Source.PostingsCSV, logger)
		if err != nil {
			return nil, nil, err
		}
		return repo, noop, nil

	case config.SourceSample:
		return db.NewSampleSource(logger), noop, nil

	case config.SourcePostgres:
		logger.Debug("Connecting to postgres")
		pg, err := postgres.NewDB(ctx, cfg.Source.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return postgresSource{pg}, pg.Close, nil

	case config.SourceSQLite:
		logger.Debug("Opening sqlite database", zap.String("path", cfg.Source.SQLitePath))
		lite, err := sqlite.Open(ctx, cfg.Source.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if _, err := lite.Migrate(ctx); err != nil {
			lite.Close()
			return nil, nil, err
		}
		return sqliteSource{lite}, func() { lite.Close() }, nil

	case config.SourceSheets:
		logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load OAuth client config: %w", err)
		}
		client, err := sheetsclient.NewClient(ctx, oauthCfg, env, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
		source := sheetsclient.NewSource(client, cfg.Source.SpreadsheetID, cfg.Source.StudentsTab, cfg.Source.PostingsTab, logger)
		return source, noop, nil
	}

	return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
}
