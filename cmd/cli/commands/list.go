package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListStudentsCmd creates the listStudents command
func ListStudentsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listStudents",
		Short: "List all students from the record source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			students, err := app.Session.GetStudents(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list students: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\nFound %d students:\n\n", len(students))
			tw := newTable(w)
			fmt.Fprintln(tw, "StudentID\tName\tSkills\tLocation\tPreference\tScore\tCategory")
			for _, s := range students {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%g\t%s\n",
					s.ID, s.Name, s.Skills, s.Location, s.PreferredSector, s.AcademicScore, s.Category)
			}
			tw.Flush()
			fmt.Fprintln(w)

			return nil
		},
	}
}

// ListPostingsCmd creates the listPostings command
func ListPostingsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listPostings",
		Short: "List the internship pool, including postings added this session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			postings, err := app.Session.GetPostings(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list postings: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\nFound %d internships:\n\n", len(postings))
			tw := newTable(w)
			fmt.Fprintln(tw, "InternshipID\tTitle\tSector\tLocation\tDistrict\tRequirements\tStipend\tCapacity\tMinEligibility")
			for _, p := range postings {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
					p.ID, p.Title, p.Sector, p.Location, p.District, p.Requirements,
					formatStipend(p.Stipend), p.Capacity, formatMinEligibility(p.MinEligibilityPercent))
			}
			tw.Flush()

			if added := len(app.Session.SessionPostings()); added > 0 {
				fmt.Fprintf(w, "\n%d of these were added in this session.\n", added)
			}
			fmt.Fprintln(w)

			return nil
		},
	}
}
