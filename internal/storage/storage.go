// Package storage persists the last run's report to a local data directory
// for diagnostics. Sync state itself is never persisted: every run
// re-extracts and re-reconciles from scratch.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ps154-pta/cal-sync/internal/event"
)

const reportFile = "last_run.json"

// Storage handles persistence of run reports
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// RunReport captures what one sync run saw and did.
type RunReport struct {
	RanAt   time.Time      `json:"ran_at"`
	Policy  string         `json:"policy"`
	DryRun  bool           `json:"dry_run,omitempty"`
	Events  []*event.Event `json:"events"`
	Created int            `json:"created"`
	Deleted int            `json:"deleted"`
	Failed  int            `json:"failed"`
}

func (s *Storage) reportPath() string {
	return filepath.Join(s.dataDir, reportFile)
}

// SaveReport writes the run report to disk, replacing the previous one.
func (s *Storage) SaveReport(report *RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run report: %w", err)
	}
	if err := os.WriteFile(s.reportPath(), data, 0644); err != nil {
		return fmt.Errorf("writing run report: %w", err)
	}
	return nil
}

// LoadReport reads the previous run's report. It returns nil without error
// when no report exists yet.
func (s *Storage) LoadReport() (*RunReport, error) {
	data, err := os.ReadFile(s.reportPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading run report: %w", err)
	}

	var report RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing run report: %w", err)
	}
	return &report, nil
}
