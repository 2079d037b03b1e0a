package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/internship-allocation/cmd/cli/commands"
	"github.com/jakechorley/internship-allocation/internal/config"
	"github.com/jakechorley/internship-allocation/pkg/db"
	"github.com/jakechorley/internship-allocation/pkg/metrics"
	"github.com/jakechorley/internship-allocation/pkg/utils/logging"
)

var (
	env        string
	configPath string
	verbose    bool
	closeApp   = func() {}
)

func main() {
	app := &commands.AppContext{}

	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Internship allocation CLI - match students to internships",
		Long: `A CLI tool that recommends internships to students and allocates students to
capacity-limited postings using skill similarity, academics, preferences and location.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects internship_config.<env>.yaml)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")

	rootCmd.AddCommand(commands.RecommendCmd(app))
	rootCmd.AddCommand(commands.AllocateCmd(app))
	rootCmd.AddCommand(commands.ListStudentsCmd(app))
	rootCmd.AddCommand(commands.ListPostingsCmd(app))
	rootCmd.AddCommand(commands.AddPostingCmd(app))
	rootCmd.AddCommand(commands.InsightsCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, metrics and the record source
func initApp(app *commands.AppContext) error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env, logging.WithVerbose(verbose))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Debug("Starting application", zap.String("environment", env))

	app.Cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded", zap.String("source", app.Cfg.Source.Kind))

	app.Recorder = metrics.NewRecorder()

	source, closeSource, err := openSource(app.Ctx, app.Cfg, env, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to open record source: %w", err)
	}
	closeApp = closeSource

	app.Source = source
	app.Session = db.NewSessionStore(source)
	app.Logger.Debug("Record source ready")

	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}

	cfg, err := config.LoadWithEnv(env)
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.Default(), nil
	}
	return cfg, err
}
