// Package output emits the typed log entries rendered by the CLI handler.
package output

import (
	"time"

	"github.com/apex/log"
	"github.com/montanaflynn/stats"
)

// SectionTitle logs a section title
func SectionTitle(title string) {
	log.WithFields(log.Fields{
		"type":  "section_title",
		"title": title,
	}).Info(title)
}

// Table logs the given fields as a table
func Table(title string, fields log.Fields) {
	f := log.Fields{"type": "table"}
	for key, value := range fields {
		f[key] = value
	}
	log.WithFields(f).Info(title)
}

// RunItemData is the metadata about a run
type RunItemData struct {
	RunUUID    string
	Name       string
	Status     string
	StartTime  time.Time
	DryRun     bool
	Cycles     int
	Targets    int
	Index      int
	TotalCount int
}

// RunItem logs a run item
func RunItem(run RunItemData) {
	log.WithFields(log.Fields{
		"type":        "run_item",
		"run_uuid":    run.RunUUID,
		"name":        run.Name,
		"status":      run.Status,
		"start_time":  run.StartTime,
		"dry_run":     run.DryRun,
		"cycles":      run.Cycles,
		"targets":     run.Targets,
		"index":       run.Index,
		"total_count": run.TotalCount,
	}).Info("run item")
}

// RunSummaryData summarizes all the runs
type RunSummaryData struct {
	TotalRuns     int
	TotalCycles   int
	MeanTargets   float64
	MedianTargets float64
}

// NewRunSummaryData computes the [RunSummaryData] given the number
// of runs and the number of targets of each cycle.
func NewRunSummaryData(runs int, targetsPerCycle []int) (RunSummaryData, error) {
	out := RunSummaryData{TotalRuns: runs, TotalCycles: len(targetsPerCycle)}
	if len(targetsPerCycle) <= 0 {
		return out, nil
	}
	data := stats.LoadRawData(targetsPerCycle)
	mean, err := stats.Mean(data)
	if err != nil {
		return out, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return out, err
	}
	out.MeanTargets, out.MedianTargets = mean, median
	return out, nil
}

// RunSummary logs the summary of all the runs
func RunSummary(summary RunSummaryData) {
	log.WithFields(log.Fields{
		"type":           "run_summary",
		"total_runs":     summary.TotalRuns,
		"total_cycles":   summary.TotalCycles,
		"mean_targets":   summary.MeanTargets,
		"median_targets": summary.MedianTargets,
	}).Info("run summary")
}
