package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/internship-allocation/pkg/core/services"
)

// AllocateCmd creates the allocate command
func AllocateCmd(app *AppContext) *cobra.Command {
	var (
		noFairness  bool
		targetRural float64
	)

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Run auto-allocation of all students to internships",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts services.AllocateOptions
			if noFairness {
				disabled := false
				opts.UseFairness = &disabled
			}
			if cmd.Flags().Changed("target-rural") {
				opts.TargetRuralPct = &targetRural
			}

			result, err := services.AllocateInternships(app.Ctx, app.Session, app.Cfg, app.Recorder, app.Logger, opts)
			if err != nil {
				return err
			}

			printAllocation(cmd.OutOrStdout(), result)
			app.writeMetrics()
			return nil
		},
	}

	cmd.Flags().BoolVar(&noFairness, "no-fairness", false, "Process students in input order")
	cmd.Flags().Float64Var(&targetRural, "target-rural", 0, "Target rural share in percent (overrides config)")

	return cmd
}

func printAllocation(w io.Writer, result *services.AllocationResult) {
	outcome := result.Outcome

	fmt.Fprintf(w, "\n✓ Auto-allocation complete (run %s)\n\n", result.RunID)

	tw := newTable(w)
	fmt.Fprintln(tw, "StudentID\tStudent\tCategory\tScore\tAllocated Internship\tSector\tLocation\tStipend\tMatchScore")
	for _, r := range outcome.Records {
		stipend, score := "", "0"
		if r.IsAssigned() {
			stipend = formatStipend(r.Stipend)
			score = formatScore(r.MatchScore)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\t%s\t%s\t%s\t%s\n",
			r.StudentID, r.StudentName, r.Category, r.AcademicScore,
			r.Title, r.Sector, r.Location, stipend, score)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nAssigned: %d  Unassigned: %d\n", outcome.AssignedCount(), outcome.UnassignedCount())

	if len(outcome.SectorCounts) > 0 {
		fmt.Fprintln(w, "\nSummary by sector:")
		tw = newTable(w)
		fmt.Fprintln(tw, "Sector\tAllocated Count")
		for _, sc := range outcome.SectorCounts {
			fmt.Fprintf(tw, "%s\t%d\n", sc.Sector, sc.Count)
		}
		tw.Flush()
	}

	if len(outcome.Rejected) > 0 {
		fmt.Fprintf(w, "\n%d record(s) skipped:\n", len(outcome.Rejected))
		for _, rej := range outcome.Rejected {
			fmt.Fprintf(w, "  - %s %q (row %d): %v\n", rej.Kind, rej.ID, rej.Index+1, rej.Err)
		}
	}

	fmt.Fprintln(w)
}
