package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/internship-allocation/pkg/core/services"
)

// RecommendCmd creates the recommend command
func RecommendCmd(app *AppContext) *cobra.Command {
	var (
		studentID string
		profile   services.StudentProfile
		score     float64
		topN      int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Show the best matching internships for a student",
		Long: `Show the best matching internships for a stored student (--student) or for an
ad-hoc profile built from --skills, --location, --sector and --score.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *app.Cfg
			if cmd.Flags().Changed("top") {
				cfg.Matching.TopN = topN
			}

			var result *services.RecommendResult
			var err error
			if studentID != "" {
				result, err = services.RecommendForStudentID(app.Ctx, app.Session, &cfg, app.Recorder, app.Logger, studentID)
			} else {
				p := profile
				if cmd.Flags().Changed("score") {
					p.AcademicScore = &score
				}
				result, err = services.Recommend(app.Ctx, app.Session, &cfg, app.Recorder, app.Logger, p)
			}
			if err != nil {
				return err
			}

			printRecommendations(cmd.OutOrStdout(), result)
			app.writeMetrics()
			return nil
		},
	}

	cmd.Flags().StringVar(&studentID, "student", "", "ID of a stored student")
	cmd.Flags().StringVar(&profile.Name, "name", "", "Student name")
	cmd.Flags().StringVar(&profile.Skills, "skills", "", "Comma separated skills")
	cmd.Flags().StringVar(&profile.Location, "location", "", "Current city or district")
	cmd.Flags().StringVar(&profile.PreferredSector, "sector", "", "Preferred sector")
	cmd.Flags().Float64Var(&score, "score", 0, "Academic score on the configured scale (default 80% of the scale)")
	cmd.Flags().IntVar(&topN, "top", 0, "Number of recommendations to show (overrides config)")
	cmd.MarkFlagsMutuallyExclusive("student", "skills")

	return cmd
}

func printRecommendations(w io.Writer, result *services.RecommendResult) {
	name := result.Student.Name
	if name == "" {
		name = "Student"
	}

	fmt.Fprintf(w, "\nTop %d recommendations for %s:\n\n", len(result.Recommendations), name)
	if len(result.Recommendations) == 0 {
		fmt.Fprintln(w, "No eligible internships found.")
	} else {
		tw := newTable(w)
		fmt.Fprintln(tw, "#\tTitle\tSector\tLocation\tStipend\tCapacity\tMatchScore")
		for i, r := range result.Recommendations {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
				i+1,
				r.Posting.Title,
				r.Posting.Sector,
				r.Posting.Location,
				formatStipend(r.Posting.Stipend),
				r.Posting.Capacity,
				formatScore(r.MatchScore),
			)
		}
		tw.Flush()
	}

	if result.ExcludedCount > 0 {
		fmt.Fprintf(w, "\n%d internship(s) hidden: minimum eligibility not met.\n", result.ExcludedCount)
	}
	fmt.Fprintln(w)
}
