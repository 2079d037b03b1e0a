package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/internship-allocation/internal/config"
	"github.com/jakechorley/internship-allocation/pkg/db"
	"github.com/jakechorley/internship-allocation/pkg/metrics"
)

func newTestApp() *AppContext {
	source := db.NewSampleSource(zap.NewNop())
	return &AppContext{
		Cfg:      config.Default(),
		Source:   source,
		Session:  db.NewSessionStore(source),
		Recorder: metrics.NewRecorder(),
		Logger:   zap.NewNop(),
		Ctx:      context.Background(),
	}
}

func newTestRoot(app *AppContext, in string) (*cobra.Command, *bytes.Buffer) {
	root := &cobra.Command{Use: "cli", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(
		RecommendCmd(app),
		AllocateCmd(app),
		ListStudentsCmd(app),
		ListPostingsCmd(app),
		AddPostingCmd(app),
		InsightsCmd(app),
		MigrateCmd(app),
		InteractiveCmd(app),
	)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(in))
	return root, &out
}

func run(t *testing.T, app *AppContext, args ...string) string {
	t.Helper()
	root, out := newTestRoot(app, "")
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestRecommendCmd_AdHocProfile(t *testing.T) {
	out := run(t, newTestApp(), "recommend", "--skills", "Python, Deep Learning, Machine Learning", "--sector", "AI/ML", "--location", "Bengaluru", "--top", "2")

	assert.Contains(t, out, "Top 2 recommendations for Student")
	assert.Contains(t, out, "Machine Learning Intern")
}

func TestRecommendCmd_StoredStudent(t *testing.T) {
	out := run(t, newTestApp(), "recommend", "--student", "S002")

	assert.Contains(t, out, "recommendations for Rahul Oraon")
	assert.Contains(t, out, "Accounts Intern")
}

func TestRecommendCmd_MissingSkills(t *testing.T) {
	root, _ := newTestRoot(newTestApp(), "")
	root.SetArgs([]string{"recommend", "--location", "Ranchi"})
	assert.Error(t, root.Execute())
}

func TestAllocateCmd(t *testing.T) {
	out := run(t, newTestApp(), "allocate")

	assert.Contains(t, out, "Auto-allocation complete")
	assert.Contains(t, out, "Summary by sector:")
	assert.Contains(t, out, "S001")
}

func TestInsightsCmd(t *testing.T) {
	out := run(t, newTestApp(), "insights")

	assert.Contains(t, out, "Total students:         12 (50% rural)")
	assert.Contains(t, out, "Total internships:      9")
	assert.Contains(t, out, "Total slots (capacity): 12")
}

func TestMigrateCmd_RejectsFileSources(t *testing.T) {
	root, _ := newTestRoot(newTestApp(), "")
	root.SetArgs([]string{"migrate"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schema to migrate")
}

func TestInteractive_SessionPostingsPersistAcrossCommands(t *testing.T) {
	app := newTestApp()
	input := strings.Join([]string{
		`addPosting --id RT1 --title "Welding Apprentice" --requirements "welding, fabrication" --capacity 1`,
		`listPostings`,
		`recommend --skills welding --top 1`,
		`unknownCommand`,
		`exit`,
	}, "\n")

	root, out := newTestRoot(app, input)
	root.SetArgs([]string{"interactive"})
	require.NoError(t, root.Execute())

	output := out.String()
	assert.Contains(t, output, "✓ Posting added")
	assert.Contains(t, output, "1 of these were added in this session.")
	assert.Contains(t, output, "Welding Apprentice")
	assert.Contains(t, output, "Unknown command: unknownCommand")
	assert.Contains(t, output, "Goodbye!")

	// The sample source itself is untouched
	postings, err := app.Source.GetPostings(context.Background())
	require.NoError(t, err)
	for _, p := range postings {
		assert.NotEqual(t, "RT1", p.ID)
	}
}

func TestInteractive_FlagsResetBetweenRuns(t *testing.T) {
	app := newTestApp()
	input := strings.Join([]string{
		`addPosting --title First --capacity 3 --min-eligibility 90`,
		`addPosting --title Second`,
		`exit`,
	}, "\n")

	root, _ := newTestRoot(app, input)
	root.SetArgs([]string{"interactive"})
	require.NoError(t, root.Execute())

	added := app.Session.SessionPostings()
	require.Len(t, added, 2)
	assert.Equal(t, 3, added[0].Capacity)
	require.NotNil(t, added[0].MinEligibilityPercent)
	assert.Equal(t, "Second", added[1].Title)
	assert.Equal(t, 1, added[1].Capacity)
	assert.Nil(t, added[1].MinEligibilityPercent)
	assert.NotEqual(t, added[0].ID, added[1].ID)
}

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "listPostings", want: []string{"listPostings"}},
		{line: `recommend --skills "python, sql"  --top 2`, want: []string{"recommend", "--skills", "python, sql", "--top", "2"}},
		{line: `addPosting --title 'Data Intern'`, want: []string{"addPosting", "--title", "Data Intern"}},
		{line: `addPosting --district ""`, want: []string{"addPosting", "--district", ""}},
		{line: `recommend --skills "python`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommandLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
