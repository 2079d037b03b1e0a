package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/jakechorley/internship-allocation/internal/config"
	"github.com/jakechorley/internship-allocation/pkg/db"
	"github.com/jakechorley/internship-allocation/pkg/metrics"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Source   db.Repository    // the configured record source
	Session  *db.SessionStore // Source plus postings added in this session
	Recorder *metrics.Recorder
	Logger   *zap.Logger
	Ctx      context.Context
}

// writeMetrics writes the metrics textfile when one is configured
func (app *AppContext) writeMetrics() {
	if app.Cfg.MetricsFile == "" {
		return
	}
	if err := app.Recorder.WriteTextfile(app.Cfg.MetricsFile); err != nil {
		app.Logger.Warn("Failed to write metrics", zap.Error(err))
		return
	}
	app.Logger.Debug("Metrics written", zap.String("path", app.Cfg.MetricsFile))
}
