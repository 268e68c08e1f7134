package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apex/log"
)

func logRunItem(w io.Writer, f log.Fields) error {
	colWidth := 24

	runUUID := f.Get("run_uuid").(string)
	name := f.Get("name").(string)
	status := f.Get("status").(string)
	startTime := f.Get("start_time").(time.Time)
	dryRun := f.Get("dry_run").(bool)
	cycles := f.Get("cycles").(int)
	targets := f.Get("targets").(int)
	index := f.Get("index").(int)
	totalCount := f.Get("total_count").(int)

	if index == 0 {
		fmt.Fprint(w, "┏"+strings.Repeat("━", colWidth*2+2)+"┓\n")
	} else {
		fmt.Fprint(w, "┢"+strings.Repeat("━", colWidth*2+2)+"┪\n")
	}
	firstRow := RightPad(fmt.Sprintf("%s - %s", runUUID, startTime.Format(time.RFC822)), colWidth*2)
	fmt.Fprint(w, "┃ "+firstRow+" ┃\n")
	fmt.Fprint(w, "┡"+strings.Repeat("━", colWidth*2+2)+"┩\n")

	mode := "live"
	if dryRun {
		mode = "dry run"
	}
	fmt.Fprintf(w, "│ %s %s│\n", RightPad(name, colWidth), RightPad(status, colWidth))
	fmt.Fprintf(w, "│ %s %s│\n",
		RightPad(mode, colWidth),
		RightPad(fmt.Sprintf("%d cycles, %d targets", cycles, targets), colWidth))

	if index == totalCount-1 {
		fmt.Fprint(w, "└"+strings.Repeat("─", colWidth*2+2)+"┘\n")
	}
	return nil
}

func logRunSummary(w io.Writer, f log.Fields) error {
	runs := f.Get("total_runs").(int)
	if runs == 0 {
		fmt.Fprint(w, "No runs\n")
		fmt.Fprint(w, "Try running:\n")
		fmt.Fprint(w, "  campaign run --dry-run campaign.jsonc\n")
		return nil
	}
	cycles := f.Get("total_cycles").(int)
	mean := f.Get("mean_targets").(float64)
	median := f.Get("median_targets").(float64)
	fmt.Fprintf(w, " │ %s │ %s │ %s │\n",
		RightPad(fmt.Sprintf("%d runs", runs), 12),
		RightPad(fmt.Sprintf("%d cycles", cycles), 12),
		RightPad(fmt.Sprintf("targets μ %.1f m %.1f", mean, median), 24))
	fmt.Fprint(w, " └"+strings.Repeat("─", 14)+"┴"+strings.Repeat("─", 14)+"┴"+strings.Repeat("─", 26)+"┘\n")
	return nil
}
