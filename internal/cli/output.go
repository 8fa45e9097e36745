package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ps154-pta/cal-sync/internal/calendar"
	"github.com/ps154-pta/cal-sync/internal/syncer"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// WriteOutput writes the run result in the specified format
func WriteOutput(w io.Writer, result *syncer.Result, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatICS:
		return writeICS(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the full result as JSON
func writeJSON(w io.Writer, result *syncer.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeICS outputs the extracted source events as an iCalendar document
func writeICS(w io.Writer, result *syncer.Result) error {
	_, err := io.WriteString(w, calendar.GenerateICS(result.Events))
	return err
}

// writeText outputs a human-readable run summary
func writeText(w io.Writer, result *syncer.Result) error {
	if result.DryRun {
		fmt.Fprintln(w, "Dry run: no calendar changes were made.")
	}
	fmt.Fprintf(w, "Extracted %d events from the website.\n", len(result.Events))

	if result.Plan.Empty() {
		fmt.Fprintln(w, "Calendar already up to date.")
		return nil
	}

	if len(result.Plan.Creates) > 0 {
		fmt.Fprintf(w, "\nCreates (%d):\n", len(result.Plan.Creates))
		for _, evt := range result.Plan.Creates {
			fmt.Fprintf(w, "  + %s (%s %s)\n", evt.Title, evt.StartDate, evt.StartTime)
		}
	}
	if len(result.Plan.Deletes) > 0 {
		fmt.Fprintf(w, "\nDeletes (%d):\n", len(result.Plan.Deletes))
		for _, g := range result.Plan.Deletes {
			fmt.Fprintf(w, "  - %s\n", g.Summary)
		}
	}

	if result.DryRun {
		fmt.Fprintf(w, "\nPlanned: %d creates, %d deletes\n",
			len(result.Plan.Creates), len(result.Plan.Deletes))
	} else {
		fmt.Fprintf(w, "\nApplied: %d created, %d deleted, %d failed\n",
			result.Created, result.Deleted, result.Failed)
	}
	return nil
}
