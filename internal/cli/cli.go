package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ps154-pta/cal-sync/internal/browse"
	"github.com/ps154-pta/cal-sync/internal/calendar"
	"github.com/ps154-pta/cal-sync/internal/config"
	"github.com/ps154-pta/cal-sync/internal/filter"
	"github.com/ps154-pta/cal-sync/internal/logger"
	"github.com/ps154-pta/cal-sync/internal/scraper"
	"github.com/ps154-pta/cal-sync/internal/storage"
	"github.com/ps154-pta/cal-sync/internal/syncer"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitPartial = 2
)

// exitCode is set by runSync after the run completes and applied by Execute
// once the command has fully unwound.
var exitCode = ExitSuccess

var (
	flagConfig   string
	flagDataDir  string
	flagDryRun   bool
	flagFailFast bool
	flagFilter   string
	flagFormat   string
	flagPolicy   string
	flagVerbose  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cal-sync",
		Short: "Mirror the school website calendar into Google Calendar",
		Long: `A batch tool that scrapes the school website's event calendar and
reconciles a Google Calendar to match it. Every run re-extracts the full
event list and applies only the creates and deletes needed to bring the
calendar in line; running twice in a row against an unchanged site is a
no-op.`,
		RunE: runSync,
	}

	// Define flags
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to config file (optional)")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Data directory for run reports (overrides config)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Plan and report actions without changing the calendar")
	cmd.Flags().BoolVar(&flagFailFast, "fail-fast", false, "Abort on the first failed calendar action")
	cmd.Flags().StringVar(&flagFilter, "filter", "", "Filter expression, e.g. 'category:PTA from:2024-10-01'")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json or ics")
	cmd.Flags().StringVar(&flagPolicy, "policy", "", "Sync policy: equality-diff or replace-all (overrides config)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runSync is the main command logic
func runSync(cmd *cobra.Command, args []string) error {
	// Validate format
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON && format != FormatICS {
		return fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'ics')", flagFormat)
	}

	cfg, err := config.New(flagConfig)
	if err != nil {
		return err
	}

	level := logger.ParseLevel(cfg.Logger.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	policyName := cfg.Sync.Policy
	if flagPolicy != "" {
		policyName = flagPolicy
	}
	policy, err := syncer.ParsePolicy(policyName)
	if err != nil {
		return err
	}

	var f *filter.Filter
	if flagFilter != "" {
		f, err = filter.Parse(flagFilter)
		if err != nil {
			return fmt.Errorf("parsing filter: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()

	page := browse.NewHTTPPage()
	defer page.Close()

	sc, err := scraper.New(page, scraper.Config{
		Root:            cfg.Site.Root,
		CalendarPath:    cfg.Site.CalendarPath,
		WaitTimeout:     cfg.Site.WaitTimeout,
		MaxAttempts:     cfg.Site.MaxAttempts,
		EmptyMonthLimit: cfg.Site.EmptyMonthLimit,
		MaxMonths:       cfg.Site.MaxMonths,
	})
	if err != nil {
		return fmt.Errorf("initializing scraper: %w", err)
	}

	svc, err := calendar.NewService(ctx, cfg.Google.CredentialsFile)
	if err != nil {
		return fmt.Errorf("initializing calendar service: %w", err)
	}
	client := calendar.NewGoogleClient(svc, cfg.Google.CalendarID)

	s := syncer.New(sc, client, syncer.Config{
		Creator:  cfg.Google.Creator,
		Policy:   policy,
		FailFast: flagFailFast || cfg.Sync.FailFast,
		DryRun:   flagDryRun,
		Filter:   f,
	})

	result, err := s.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	dataDir := cfg.Storage.DataDir
	if flagDataDir != "" {
		dataDir = flagDataDir
	}
	saveReport(dataDir, result, policy)

	if err := WriteOutput(os.Stdout, result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	// Exiting here would skip the deferred page cleanup; Execute applies the
	// code after the command unwinds.
	exitCode = exitCodeFor(result)
	return nil
}

// exitCodeFor maps a completed run to the process exit code. A partial
// failure still synced what it could; the exit code signals it.
func exitCodeFor(result *syncer.Result) int {
	if result.Failed > 0 {
		return ExitPartial
	}
	return ExitSuccess
}

// saveReport persists the run report for diagnostics. A failure here is
// logged but never fails the run itself.
func saveReport(dataDir string, result *syncer.Result, policy syncer.Policy) {
	store, err := storage.New(dataDir)
	if err != nil {
		logger.Warn("skipping run report", logger.Fields{"error": err.Error()})
		return
	}
	report := &storage.RunReport{
		RanAt:   time.Now().UTC(),
		Policy:  string(policy),
		DryRun:  result.DryRun,
		Events:  result.Events,
		Created: result.Created,
		Deleted: result.Deleted,
		Failed:  result.Failed,
	}
	if err := store.SaveReport(report); err != nil {
		logger.Warn("failed to save run report", logger.Fields{"error": err.Error()})
	}
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	if exitCode != ExitSuccess {
		os.Exit(exitCode)
	}
}
