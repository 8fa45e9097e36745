package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ps154-pta/cal-sync/internal/browse"
	"github.com/ps154-pta/cal-sync/internal/event"
	"github.com/ps154-pta/cal-sync/internal/logger"
)

const (
	// DefaultRoot is the school website root used to resolve relative links.
	DefaultRoot = "https://www.ps154.org"
	// DefaultCalendarPath is the month-grid calendar page.
	DefaultCalendarPath = "/calendar"

	// DefaultWaitTimeout bounds each wait for an expected element.
	DefaultWaitTimeout = 5 * time.Second
	// DefaultMaxAttempts is the total number of navigation attempts per
	// detail page before giving up.
	DefaultMaxAttempts = 5
	// DefaultEmptyMonthLimit stops the backwards month walk after this many
	// consecutive months without events.
	DefaultEmptyMonthLimit = 4
	// DefaultRetryInterval seeds the backoff between navigation retries.
	DefaultRetryInterval = 500 * time.Millisecond
)

// Squarespace month-grid and event-detail selectors. Versioned, unstable
// external format.
const (
	SelMonthHeading = ".calendar-block .header-text"
	SelHasEventCell = `[role="gridcell"].has-event`
	SelEventLink    = ".item-link"
	// ClassOngoing flags a link that is a later day of a multi-day event.
	ClassOngoing = "ongoing"

	SelDetailTitle = ".eventitem-title"
	Sel24HrStart   = ".event-time-24hr > .event-time-24hr-start"
	Sel24HrEnd     = ".event-time-24hr > .event-time-24hr-end"
	// Sel12HrEnd is the fallback for a Squarespace rendering inconsistency
	// where the end time comes out as 12-hour markup.
	Sel12HrEnd     = ".event-time-24hr > .event-time-12hr-end"
	SelGenericTime = "time[datetime]"
	SelAddress     = ".eventitem-meta-address"
	SelDescription = ".eventitem-description"
	SelCategory    = ".eventitem-meta-cats"
	SelTags        = ".eventitem-meta-tags"
	SelBodyLink    = ".eventitem-column-content a"

	tagLabelPrefix = "Tagged "
)

// ZoomRoots is the allow-list of video-conferencing host prefixes recognized
// in event bodies.
var ZoomRoots = []string{
	"https://zoom.us",
	"https://nycdoe.zoom.us",
}

// Config holds scraper tunables. The zero value gets sensible defaults.
type Config struct {
	Root            string
	CalendarPath    string
	WaitTimeout     time.Duration
	MaxAttempts     int
	EmptyMonthLimit int
	// MaxMonths bounds the month walk; 0 means unbounded.
	MaxMonths     int
	RetryInterval time.Duration
	// StartMonth overrides the walk's starting month; the zero value means
	// the current month.
	StartMonth time.Time
}

func (c Config) withDefaults() Config {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.CalendarPath == "" {
		c.CalendarPath = DefaultCalendarPath
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = DefaultWaitTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.EmptyMonthLimit <= 0 {
		c.EmptyMonthLimit = DefaultEmptyMonthLimit
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = DefaultRetryInterval
	}
	return c
}

// Scraper extracts events from the school website through a single,
// exclusively-owned page. The caller owns the page and must close it.
type Scraper struct {
	page browse.Page
	cfg  Config
	base *url.URL
}

// New creates a scraper driving the given page.
func New(page browse.Page, cfg Config) (*Scraper, error) {
	cfg = cfg.withDefaults()
	base, err := url.Parse(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("parsing site root %q: %w", cfg.Root, err)
	}
	return &Scraper{page: page, cfg: cfg, base: base}, nil
}

// FetchEvents runs both extraction phases and returns the full ordered event
// list. Any page-load exhaustion or invalid record aborts the pass.
func (s *Scraper) FetchEvents(ctx context.Context) ([]*event.Event, error) {
	addrs, err := s.EnumerateAddresses(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("event pages enumerated", logger.Fields{"count": len(addrs)})

	events := make([]*event.Event, 0, len(addrs))
	for _, addr := range addrs {
		evt, err := s.ExtractEvent(ctx, addr)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, nil
}

// absoluteURL resolves a scraped href against the site root.
func (s *Scraper) absoluteURL(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parsing link %q: %w", href, err)
	}
	return s.base.ResolveReference(ref).String(), nil
}

func isZoomLink(href string) bool {
	for _, root := range ZoomRoots {
		if strings.HasPrefix(href, root) {
			return true
		}
	}
	return false
}
