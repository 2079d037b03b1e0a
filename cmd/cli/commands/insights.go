package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/internship-allocation/pkg/core/services"
)

// InsightsCmd creates the insights command
func InsightsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Summarize the current internship pool and applicants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			insights, err := services.Insights(app.Ctx, app.Session)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\nTotal students:         %d (%.0f%% rural)\n", insights.TotalStudents, insights.RuralShare()*100)
			fmt.Fprintf(w, "Total internships:      %d\n", insights.TotalPostings)
			fmt.Fprintf(w, "Total slots (capacity): %d\n\n", insights.TotalCapacity)

			fmt.Fprintln(w, "Internship capacity by sector:")
			tw := newTable(w)
			fmt.Fprintln(tw, "Sector\tCapacity")
			for _, sc := range insights.CapacityBySector {
				fmt.Fprintf(tw, "%s\t%d\n", sc.Sector, sc.Capacity)
			}
			tw.Flush()
			fmt.Fprintln(w)

			return nil
		},
	}
}
