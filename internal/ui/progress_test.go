package ui

import (
	"strings"
	"testing"

	"zephyr/internal/driver"
)

func testModel(t *testing.T, files ...string) *progressModel {
	t.Helper()
	m, ok := NewProgressModel("compiling demo", files, nil).(*progressModel)
	if !ok {
		t.Fatalf("unexpected model type")
	}
	return m
}

func TestApplyEventTracksStageAndState(t *testing.T) {
	m := testModel(t, "a.zp", "b.zp")
	m.applyEvent(driver.Event{File: "a.zp", Stage: driver.StageAnalyze, Status: driver.StatusWorking})

	view := m.View()
	if !strings.Contains(view, "inferring ownership") {
		t.Errorf("active stage label missing:\n%s", view)
	}
	if !strings.Contains(view, "queued") {
		t.Errorf("pending file lost its queued label:\n%s", view)
	}
}

func TestCompletionWeighsStages(t *testing.T) {
	m := testModel(t, "a.zp", "b.zp")
	m.applyEvent(driver.Event{File: "a.zp", Stage: driver.StageEmit, Status: driver.StatusDone})
	if got := m.completion(); got != 0.5 {
		t.Errorf("completion = %v, want 0.5 with one of two files done", got)
	}
	m.applyEvent(driver.Event{File: "b.zp", Stage: driver.StageAnalyze, Status: driver.StatusWorking})
	if got := m.completion(); got <= 0.5 || got >= 1.0 {
		t.Errorf("completion = %v, want between 0.5 and 1.0 mid-analysis", got)
	}
}

func TestSummaryCountsFailures(t *testing.T) {
	m := testModel(t, "a.zp", "b.zp", "c.zp")
	m.applyEvent(driver.Event{File: "a.zp", Stage: driver.StageEmit, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.zp", Stage: driver.StageParse, Status: driver.StatusError})

	view := m.View()
	if !strings.Contains(view, "2/3 files") {
		t.Errorf("summary missing finished count:\n%s", view)
	}
	if !strings.Contains(view, "1 failed") {
		t.Errorf("summary missing failure count:\n%s", view)
	}
}

func TestUnknownFileEventIsIgnored(t *testing.T) {
	m := testModel(t, "a.zp")
	m.applyEvent(driver.Event{File: "other.zp", Stage: driver.StageLex, Status: driver.StatusWorking})
	if m.items[0].state != statePending {
		t.Errorf("event for an untracked file mutated the list")
	}
}
