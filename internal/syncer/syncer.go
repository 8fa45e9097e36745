package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/ps154-pta/cal-sync/internal/calendar"
	"github.com/ps154-pta/cal-sync/internal/event"
	"github.com/ps154-pta/cal-sync/internal/filter"
	"github.com/ps154-pta/cal-sync/internal/logger"
	gcal "google.golang.org/api/calendar/v3"
)

// Policy selects the reconciliation strategy.
type Policy string

const (
	// PolicyReplaceAll recreates the whole calendar each run.
	PolicyReplaceAll Policy = "replace-all"
	// PolicyEqualityDiff creates/deletes only the events that differ.
	PolicyEqualityDiff Policy = "equality-diff"
)

// ParsePolicy validates a policy name from config or flags.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyReplaceAll, PolicyEqualityDiff:
		return Policy(s), nil
	case "":
		return PolicyEqualityDiff, nil
	default:
		return "", fmt.Errorf("unknown sync policy %q (must be %q or %q)", s, PolicyReplaceAll, PolicyEqualityDiff)
	}
}

// Source produces the ordered source-of-truth event list.
type Source interface {
	FetchEvents(ctx context.Context) ([]*event.Event, error)
}

// Plan is the ordered action list for one run: deletes are applied first,
// then creates.
type Plan struct {
	Creates []*event.Event `json:"creates"`
	Deletes []*gcal.Event  `json:"deletes"`
}

// Empty reports whether the plan contains no actions.
func (p *Plan) Empty() bool {
	return len(p.Creates) == 0 && len(p.Deletes) == 0
}

// OwnershipError reports an attempt to delete a calendar event that was not
// created by the configured service identity. It aborts the run: deleting
// someone else's events is always a misconfiguration.
type OwnershipError struct {
	EventID string
	Summary string
	Creator string
	// ServiceIdentity is the creator email this run is allowed to delete.
	ServiceIdentity string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("refusing to delete event %q (%s): created by %s, not %s",
		e.Summary, e.EventID, e.Creator, e.ServiceIdentity)
}

// Config holds reconciliation settings.
type Config struct {
	// Creator is the service-account email whose events may be deleted.
	Creator string
	Policy  Policy
	// FailFast aborts the apply phase on the first action failure instead
	// of logging and continuing.
	FailFast bool
	// DryRun plans and logs actions without mutating the calendar.
	DryRun bool
	// Filter optionally narrows the source events before reconciliation.
	Filter *filter.Filter
	// Now is a test seam for the future-only deletion check.
	Now func() time.Time
}

// Syncer orchestrates one sync run: extraction, planning, apply.
type Syncer struct {
	source Source
	client calendar.Client
	cfg    Config
}

// New creates a Syncer. The zero policy defaults to equality-diff.
func New(source Source, client calendar.Client, cfg Config) *Syncer {
	if cfg.Policy == "" {
		cfg.Policy = PolicyEqualityDiff
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Syncer{source: source, client: client, cfg: cfg}
}

// Result summarizes a completed run.
type Result struct {
	Events  []*event.Event `json:"events"`
	Plan    *Plan          `json:"plan"`
	Created int            `json:"created"`
	Deleted int            `json:"deleted"`
	Failed  int            `json:"failed"`
	DryRun  bool           `json:"dry_run,omitempty"`
}

// Run executes one full sync pass. Extraction and planning happen before any
// mutation; a fatal error in either aborts with the calendar untouched.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	events, err := s.source.FetchEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("extracting events: %w", err)
	}
	if s.cfg.Filter != nil && !s.cfg.Filter.IsEmpty() {
		before := len(events)
		events = s.cfg.Filter.Apply(events)
		logger.Info("source filter applied", logger.Fields{"before": before, "after": len(events)})
	}

	existing, err := s.client.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing calendar events: %w", err)
	}
	logger.Info("calendar state fetched", logger.Fields{"source_events": len(events), "calendar_events": len(existing)})

	plan := s.BuildPlan(events, existing)
	logger.Info("reconciliation planned", logger.Fields{
		"policy":  string(s.cfg.Policy),
		"creates": len(plan.Creates),
		"deletes": len(plan.Deletes),
	})

	res := &Result{Events: events, Plan: plan, DryRun: s.cfg.DryRun}
	if err := s.apply(ctx, plan, res); err != nil {
		return nil, err
	}
	return res, nil
}

// BuildPlan computes the action list for the configured policy.
func (s *Syncer) BuildPlan(source []*event.Event, existing []*gcal.Event) *Plan {
	plan := &Plan{}

	if s.cfg.Policy == PolicyReplaceAll {
		plan.Creates = source
		plan.Deletes = existing
		return plan
	}

	for _, evt := range source {
		if !hasEqualCalendarEvent(evt, existing) {
			plan.Creates = append(plan.Creates, evt)
		}
	}

	now := s.cfg.Now()
	for _, g := range existing {
		if hasEqualSourceEvent(g, source) {
			continue
		}
		// Never delete events that already started.
		start, ok := eventStart(g)
		if !ok {
			logger.Warn("calendar event has unparseable start, leaving it alone", logger.Fields{
				"id": g.Id, "summary": g.Summary,
			})
			continue
		}
		if !start.After(now) {
			continue
		}
		// Never plan deletion of events this system did not create.
		if creatorEmail(g) != s.cfg.Creator {
			logger.Debug("skipping foreign calendar event", logger.Fields{
				"summary": g.Summary, "creator": creatorEmail(g),
			})
			continue
		}
		plan.Deletes = append(plan.Deletes, g)
	}

	return plan
}

// apply executes deletes then creates in plan order.
func (s *Syncer) apply(ctx context.Context, plan *Plan, res *Result) error {
	for _, g := range plan.Deletes {
		if email := creatorEmail(g); email != s.cfg.Creator {
			return &OwnershipError{
				EventID:         g.Id,
				Summary:         g.Summary,
				Creator:         email,
				ServiceIdentity: s.cfg.Creator,
			}
		}
		logger.Info("Google Calendar delete event", logger.Fields{
			"summary": g.Summary, "id": g.Id, "dry_run": s.cfg.DryRun,
		})
		if s.cfg.DryRun {
			continue
		}
		if err := s.client.DeleteEvent(ctx, g.Id); err != nil {
			logger.Error("delete failed", logger.Fields{"summary": g.Summary, "id": g.Id}, err)
			res.Failed++
			if s.cfg.FailFast {
				return err
			}
			continue
		}
		res.Deleted++
	}

	for _, evt := range plan.Creates {
		logger.Info("Google Calendar create event", logger.Fields{
			"summary": evt.Title, "dry_run": s.cfg.DryRun,
		})
		if s.cfg.DryRun {
			continue
		}
		if _, err := s.client.CreateEvent(ctx, calendar.PayloadFromEvent(evt)); err != nil {
			logger.Error("create failed", logger.Fields{"summary": evt.Title}, err)
			res.Failed++
			if s.cfg.FailFast {
				return err
			}
			continue
		}
		res.Created++
	}

	return nil
}

func hasEqualCalendarEvent(evt *event.Event, existing []*gcal.Event) bool {
	for _, g := range existing {
		if calendar.Equal(evt, g) {
			return true
		}
	}
	return false
}

func hasEqualSourceEvent(g *gcal.Event, source []*event.Event) bool {
	for _, evt := range source {
		if calendar.Equal(evt, g) {
			return true
		}
	}
	return false
}

func creatorEmail(g *gcal.Event) string {
	if g.Creator == nil {
		return ""
	}
	return g.Creator.Email
}

// eventStart parses a calendar event's start. The API returns RFC 3339 for
// timed events; payloads this system created carry zone-less local
// date-times, interpreted in the default zone.
func eventStart(g *gcal.Event) (time.Time, bool) {
	if g.Start == nil {
		return time.Time{}, false
	}
	if g.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, g.Start.DateTime); err == nil {
			return t, true
		}
		if loc, err := time.LoadLocation(calendar.DefaultTimeZone); err == nil {
			if t, err := time.ParseInLocation("2006-01-02T15:04:05", g.Start.DateTime, loc); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	if g.Start.Date != "" {
		if t, err := time.Parse("2006-01-02", g.Start.Date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
