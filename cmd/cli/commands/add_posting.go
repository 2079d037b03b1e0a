package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/internship-allocation/pkg/core/model"
	"github.com/jakechorley/internship-allocation/pkg/core/services"
	"github.com/jakechorley/internship-allocation/pkg/db"
)

// AddPostingCmd creates the addPosting command
func AddPostingCmd(app *AppContext) *cobra.Command {
	var (
		posting        model.Posting
		minEligibility float64
		persist        bool
	)

	cmd := &cobra.Command{
		Use:   "addPosting",
		Short: "Add an internship posting to the pool",
		Long: `Add an internship posting to the pool. By default the posting only lives for the
current session (use the interactive command to keep it across commands).
With --persist it is written to the configured record source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := posting
			if cmd.Flags().Changed("min-eligibility") {
				v := minEligibility
				p.MinEligibilityPercent = &v
			}

			var store db.PostingStore = app.Session
			if persist {
				store = app.Source
			}

			added, err := services.AddPosting(app.Ctx, store, app.Logger, p)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\n✓ Posting added\n\n")
			fmt.Fprintf(w, "ID:       %s\n", added.ID)
			fmt.Fprintf(w, "Title:    %s\n", added.Title)
			fmt.Fprintf(w, "Sector:   %s\n", added.Sector)
			fmt.Fprintf(w, "Capacity: %d\n", added.Capacity)
			if !persist {
				fmt.Fprintln(w, "\nThe posting is kept for this session only.")
			}
			fmt.Fprintln(w)

			return nil
		},
	}

	cmd.Flags().StringVar(&posting.ID, "id", "", "Posting ID (generated when empty)")
	cmd.Flags().StringVar(&posting.Title, "title", "", "Internship title")
	cmd.Flags().StringVar(&posting.Sector, "sector", "", "Sector")
	cmd.Flags().StringVar(&posting.Location, "location", "", "City")
	cmd.Flags().StringVar(&posting.District, "district", "", "District")
	cmd.Flags().StringVar(&posting.Requirements, "requirements", "", "Comma separated required skills")
	cmd.Flags().Float64Var(&posting.Stipend, "stipend", 0, "Monthly stipend")
	cmd.Flags().IntVar(&posting.Capacity, "capacity", 1, "Number of places")
	cmd.Flags().Float64Var(&minEligibility, "min-eligibility", 0, "Minimum academic percentage")
	cmd.Flags().BoolVar(&persist, "persist", false, "Write the posting to the record source")
	cmd.MarkFlagRequired("title")

	return cmd
}
