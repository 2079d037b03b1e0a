package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/internship-allocation/pkg/db"
)

// Migrator applies pending schema migrations and returns a description of what ran
type Migrator interface {
	Migrate(ctx context.Context) (string, error)
}

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	var (
		seed         bool
		studentsPath string
		postingsPath string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema (postgres and sqlite sources)",
		Long: `Create or update the database schema of the configured postgres or sqlite source.
With --seed, students and postings are then loaded from CSV files (or the bundled
sample data when the files do not exist).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, ok := app.Source.(Migrator)
			if !ok {
				return fmt.Errorf("source %q has no schema to migrate", app.Cfg.Source.Kind)
			}

			summary, err := migrator.Migrate(app.Ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ %s\n", summary)

			if !seed {
				return nil
			}

			seeder, ok := app.Source.(db.Seeder)
			if !ok {
				return fmt.Errorf("source %q cannot be seeded", app.Cfg.Source.Kind)
			}

			csvSource, err := db.OpenCSV(studentsPath, postingsPath, app.Logger)
			if err != nil {
				return fmt.Errorf("failed to open seed data: %w", err)
			}

			students, err := csvSource.GetStudents(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to read seed students: %w", err)
			}
			postings, err := csvSource.GetPostings(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to read seed postings: %w", err)
			}

			if err := seeder.InsertStudents(app.Ctx, students); err != nil {
				return err
			}
			if err := seeder.InsertPostings(app.Ctx, postings); err != nil {
				return err
			}

			app.Logger.Info("Seed data loaded",
				zap.Int("students", len(students)),
				zap.Int("postings", len(postings)))
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %d students and %d postings\n\n", len(students), len(postings))

			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Load students and postings after migrating")
	cmd.Flags().StringVar(&studentsPath, "students", "students.csv", "Students CSV used by --seed")
	cmd.Flags().StringVar(&postingsPath, "postings", "internships.csv", "Internships CSV used by --seed")

	return cmd
}
