package output

import (
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/google/go-cmp/cmp"
)

func withMemoryHandler(t *testing.T) *memory.Handler {
	handler := memory.New()
	log.SetHandler(handler)
	t.Cleanup(func() { log.SetHandler(memory.New()) })
	return handler
}

func TestNewRunSummaryData(t *testing.T) {
	t.Run("without cycles", func(t *testing.T) {
		got, err := NewRunSummaryData(2, nil)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(RunSummaryData{TotalRuns: 2}, got); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("with cycles", func(t *testing.T) {
		got, err := NewRunSummaryData(1, []int{4, 1, 10, 5})
		if err != nil {
			t.Fatal(err)
		}
		expect := RunSummaryData{TotalRuns: 1, TotalCycles: 4, MeanTargets: 5, MedianTargets: 4.5}
		if diff := cmp.Diff(expect, got); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestTypedLogs(t *testing.T) {
	handler := withMemoryHandler(t)
	SectionTitle("Runs")
	RunItem(RunItemData{RunUUID: "run-1", StartTime: time.Now(), Index: 0, TotalCount: 1})
	RunSummary(RunSummaryData{TotalRuns: 1})
	Table("job", log.Fields{"job": "job-0"})

	var types []string
	for _, entry := range handler.Entries {
		types = append(types, entry.Fields.Get("type").(string))
	}
	expect := []string{"section_title", "run_item", "run_summary", "table"}
	if diff := cmp.Diff(expect, types); diff != "" {
		t.Fatal(diff)
	}
	if handler.Entries[3].Fields.Get("job") != "job-0" {
		t.Fatal("missing table field")
	}
}
