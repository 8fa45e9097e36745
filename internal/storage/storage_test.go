package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ps154-pta/cal-sync/internal/event"
)

func TestSaveAndLoadReport(t *testing.T) {
	dir := t.TempDir()

	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	report := &RunReport{
		RanAt:  time.Date(2024, 10, 1, 6, 0, 0, 0, time.UTC),
		Policy: "equality-diff",
		Events: []*event.Event{
			{
				Title:     "Fall Fair",
				Href:      "https://site.test/calendar/fall-fair",
				StartDate: "2024-10-05",
				StartTime: "10:00",
				EndDate:   "2024-10-05",
				EndTime:   "13:00",
			},
		},
		Created: 1,
		Deleted: 2,
	}

	if err := store.SaveReport(report); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	loaded, err := store.LoadReport()
	if err != nil {
		t.Fatalf("LoadReport() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadReport() returned nil report after save")
	}
	if !loaded.RanAt.Equal(report.RanAt) {
		t.Errorf("RanAt = %v, want %v", loaded.RanAt, report.RanAt)
	}
	if loaded.Policy != report.Policy {
		t.Errorf("Policy = %q, want %q", loaded.Policy, report.Policy)
	}
	if loaded.Created != 1 || loaded.Deleted != 2 || loaded.Failed != 0 {
		t.Errorf("counts = %d/%d/%d, want 1/2/0", loaded.Created, loaded.Deleted, loaded.Failed)
	}
	if len(loaded.Events) != 1 || loaded.Events[0].Title != "Fall Fair" {
		t.Errorf("Events = %+v, want the saved Fall Fair event", loaded.Events)
	}
}

func TestLoadReportMissing(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	report, err := store.LoadReport()
	if err != nil {
		t.Fatalf("LoadReport() error = %v", err)
	}
	if report != nil {
		t.Errorf("LoadReport() = %+v, want nil for missing report", report)
	}
}

func TestSaveReportReplacesPrevious(t *testing.T) {
	dir := t.TempDir()

	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	first := &RunReport{Policy: "replace-all", Created: 5}
	second := &RunReport{Policy: "equality-diff", Created: 1}

	if err := store.SaveReport(first); err != nil {
		t.Fatalf("SaveReport(first) error = %v", err)
	}
	if err := store.SaveReport(second); err != nil {
		t.Fatalf("SaveReport(second) error = %v", err)
	}

	loaded, err := store.LoadReport()
	if err != nil {
		t.Fatalf("LoadReport() error = %v", err)
	}
	if loaded.Policy != "equality-diff" || loaded.Created != 1 {
		t.Errorf("loaded = %+v, want the second report", loaded)
	}
}

func TestNewCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	if _, err := New(dir); err != nil {
		t.Fatalf("New() error = %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat(%q) error = %v", dir, err)
	}
	if !info.IsDir() {
		t.Errorf("%q is not a directory", dir)
	}
}
