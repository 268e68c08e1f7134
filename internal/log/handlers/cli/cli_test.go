package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/fatih/color"
)

func newEntry(level log.Level, message string, fields log.Fields) *log.Entry {
	return &log.Entry{
		Fields:  fields,
		Level:   level,
		Message: message,
	}
}

func TestHandler(t *testing.T) {
	color.NoColor = true

	t.Run("DefaultLog prints the message and the fields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		h := New(buf)
		entry := newEntry(log.InfoLevel, "submitted job", log.Fields{"arm": "adaptive", "source": "x"})
		if err := h.HandleLog(entry); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.Contains(out, "submitted job") || !strings.Contains(out, "arm=adaptive") {
			t.Fatal("unexpected output", out)
		}
		if strings.Contains(out, "source=") {
			t.Fatal("source should not be printed", out)
		}
	})

	t.Run("table", func(t *testing.T) {
		buf := &bytes.Buffer{}
		h := New(buf)
		entry := newEntry(log.InfoLevel, "", log.Fields{"type": "table", "job": "job-0", "targets": 12})
		if err := h.HandleLog(entry); err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 4 {
			t.Fatal("expected four lines, got", lines)
		}
		if !strings.Contains(lines[1], "job: job-0") || !strings.Contains(lines[2], "targets: 12") {
			t.Fatal("unexpected table", lines)
		}
	})

	t.Run("section_title", func(t *testing.T) {
		buf := &bytes.Buffer{}
		h := New(buf)
		entry := newEntry(log.InfoLevel, "", log.Fields{"type": "section_title", "title": "Campaign"})
		if err := h.HandleLog(entry); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "┃ Campaign") {
			t.Fatal("unexpected output", buf.String())
		}
	})

	t.Run("run_item and run_summary", func(t *testing.T) {
		buf := &bytes.Buffer{}
		h := New(buf)
		item := newEntry(log.InfoLevel, "", log.Fields{
			"type":        "run_item",
			"run_uuid":    "run-1",
			"name":        "campaign.jsonc",
			"status":      "done",
			"start_time":  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			"dry_run":     true,
			"cycles":      6,
			"targets":     42,
			"index":       0,
			"total_count": 1,
		})
		if err := h.HandleLog(item); err != nil {
			t.Fatal(err)
		}
		summary := newEntry(log.InfoLevel, "", log.Fields{
			"type":           "run_summary",
			"total_runs":     1,
			"total_cycles":   6,
			"mean_targets":   7.0,
			"median_targets": 6.5,
		})
		if err := h.HandleLog(summary); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, expect := range []string{"run-1", "dry run", "6 cycles, 42 targets", "1 runs", "μ 7.0 m 6.5"} {
			if !strings.Contains(out, expect) {
				t.Fatal("missing", expect, "in", out)
			}
		}
	})

	t.Run("run_summary without runs", func(t *testing.T) {
		buf := &bytes.Buffer{}
		h := New(buf)
		entry := newEntry(log.InfoLevel, "", log.Fields{"type": "run_summary", "total_runs": 0})
		if err := h.HandleLog(entry); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(buf.String(), "No runs") {
			t.Fatal("unexpected output", buf.String())
		}
	})
}

func TestRightPad(t *testing.T) {
	if got := RightPad("abc", 5); got != "abc  " {
		t.Fatalf("unexpected %q", got)
	}
	if got := RightPad("abcdef", 3); got != "abcdef" {
		t.Fatalf("unexpected %q", got)
	}
	if got := EscapeAwareRuneCountInString("\x1b[31mμx\x1b[0m"); got != 2 {
		t.Fatal("unexpected count", got)
	}
}
