package cli

import (
	"testing"

	"github.com/ps154-pta/cal-sync/internal/syncer"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name   string
		result *syncer.Result
		want   int
	}{
		{"clean run", &syncer.Result{Created: 2, Deleted: 1}, ExitSuccess},
		{"no actions", &syncer.Result{}, ExitSuccess},
		{"partial failure", &syncer.Result{Created: 1, Failed: 2}, ExitPartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.result); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
