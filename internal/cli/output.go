package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/eshaffer321/homequest-decor/internal/adapters/tabular"
	"github.com/eshaffer321/homequest-decor/internal/domain/optimizer"
)

// PrintHeader prints the run configuration
func PrintHeader(w io.Writer, strategy optimizer.Strategy, towns []string, valhallaOnly bool) {
	fmt.Fprintf(w, "decor-optimizer: %s strategy | Towns: %s", strategy, strings.Join(towns, ", "))
	if valhallaOnly {
		fmt.Fprint(w, " | Valhalla only")
	}
	fmt.Fprint(w, "\n\n")
}

// PrintIssues lists input lines that were skipped
func PrintIssues(w io.Writer, source string, issues []tabular.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(w, "Skipped %d %s entries:\n", len(issues), source)
	for _, issue := range issues {
		fmt.Fprintf(w, "  - %d: %q %s\n", issue.Line, issue.Input, issue.Reason)
	}
	fmt.Fprintln(w)
}

// PrintResults prints each town's totals and decorations, then whatever
// could not be placed.
func PrintResults(w io.Writer, rep *optimizer.Report) {
	if len(rep.Towns) == 0 {
		fmt.Fprintln(w, "No decorations were placed.")
	}

	for _, town := range rep.Towns {
		fmt.Fprintf(w, "Results for %s\n", town.Name)
		fmt.Fprintf(w, "  Green: %d  Blue: %d  Red: %d\n", town.Green, town.Blue, town.Red)
		for _, d := range town.Decorations {
			fmt.Fprintf(w, "  %dx %s\n", d.Quantity, d.Name)
		}
		fmt.Fprintln(w)
	}

	printTotals(w, "Unused", rep.Unused)
	printTotals(w, "Could not be placed in any town", rep.Unassignable)
}

// PrintSummary prints a one-line run summary
func PrintSummary(w io.Writer, runID string, rep *optimizer.Report) {
	placed := 0
	for _, town := range rep.Towns {
		for _, d := range town.Decorations {
			placed += d.Quantity
		}
	}
	unused := 0
	for _, d := range rep.Unused {
		unused += d.Quantity
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Summary: Placed=%d Unused=%d Towns=%d", placed, unused, len(rep.Towns))
	if runID != "" {
		fmt.Fprintf(w, " Run=%s", runID)
	}
	fmt.Fprintln(w)
}

func printTotals(w io.Writer, title string, totals []optimizer.DecorationTotal) {
	if len(totals) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, d := range totals {
		fmt.Fprintf(w, "  %dx %s\n", d.Quantity, d.Name)
	}
	fmt.Fprintln(w)
}
