package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}

func formatStipend(stipend float64) string {
	if stipend == 0 {
		return "-"
	}
	return fmt.Sprintf("₹%.0f", stipend)
}

func formatMinEligibility(minPct *float64) string {
	if minPct == nil {
		return "-"
	}
	return strconv.FormatFloat(*minPct, 'f', -1, 64) + "%"
}
