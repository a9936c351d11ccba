package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/Carmen-Shannon/oxy-trace/engine/profiler"
	"github.com/olekukonko/tablewriter"
)

// displaySummary renders the lifetime frame timings.
func displaySummary(w io.Writer, summary profiler.Summary) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Phase", "Total", "Avg per frame"})
	for _, phase := range profiler.Phases {
		table.Append([]string{
			phase.String(),
			summary.Total[phase].String(),
			summary.Average(phase).String(),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("%d frames", summary.Frames),
		summary.WallTime.String(),
		fmt.Sprintf("%.2f FPS", summary.FPS()),
	})

	table.Render()
}

// displayCounts renders recorded GPU command counts sorted by name.
func displayCounts(w io.Writer, counts map[string]int) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Command", "Count"})
	for _, name := range names {
		table.Append([]string{name, fmt.Sprintf("%d", counts[name])})
	}

	table.Render()
}
