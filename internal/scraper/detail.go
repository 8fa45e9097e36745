package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/ps154-pta/cal-sync/internal/browse"
	"github.com/ps154-pta/cal-sync/internal/event"
	"github.com/ps154-pta/cal-sync/internal/logger"
)

// PageLoadError reports a detail page that never reached a ready state within
// the attempt budget.
type PageLoadError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *PageLoadError) Error() string {
	return fmt.Sprintf("event page %s failed to load after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *PageLoadError) Unwrap() error {
	return e.Err
}

// InvalidEventError reports a detail page missing required event fields.
type InvalidEventError struct {
	URL     string
	Missing []string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("event page %s is missing required fields: %s", e.URL, strings.Join(e.Missing, ", "))
}

// ExtractEvent runs Phase B for one detail-page address: navigate with
// retries, extract every field, and validate the record. A partial record is
// never returned.
func (s *Scraper) ExtractEvent(ctx context.Context, addr string) (*event.Event, error) {
	attempts := 0
	load := func() error {
		attempts++
		if err := s.page.Goto(ctx, addr); err != nil {
			return err
		}
		return s.page.WaitFor(ctx, SelDetailTitle, s.cfg.WaitTimeout)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.RetryInterval
	b.MaxElapsedTime = 0
	err := backoff.Retry(load, backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.cfg.MaxAttempts-1)), ctx))
	if err != nil {
		return nil, &PageLoadError{URL: addr, Attempts: attempts, Err: err}
	}

	evt := &event.Event{
		// The loaded address supersedes the input address after redirects.
		Href: s.page.URL(),
	}

	if el, ok := s.page.First(SelDetailTitle); ok {
		evt.Title = strings.TrimSpace(el.Text())
	}

	s.extractTimes(evt)

	if el, ok := s.page.First(SelAddress); ok {
		evt.Address = strings.TrimSpace(el.Text())
	}
	if el, ok := s.page.First(SelDescription); ok {
		markup, err := el.InnerHTML()
		if err != nil {
			logger.Warn("unreadable event description", logger.Fields{"url": addr})
		} else {
			evt.Description = markup
		}
	}
	if el, ok := s.page.First(SelCategory); ok {
		evt.Category = strings.TrimSpace(el.Text())
	}
	if el, ok := s.page.First(SelTags); ok {
		if _, after, found := strings.Cut(strings.TrimSpace(el.Text()), tagLabelPrefix); found {
			evt.Tags = after
		}
	}

	evt.ZoomLinks = s.extractZoomLinks()

	if missing := evt.MissingFields(); len(missing) > 0 {
		return nil, &InvalidEventError{URL: addr, Missing: missing}
	}

	logger.Debug("event extracted", logger.Fields{"title": evt.Title, "url": evt.Href})
	return evt, nil
}

// extractTimes reads the start/end date-time pair in precedence order:
// labeled 24-hour pair, then the 12-hour end fallback, then the multi-day
// fallback reading the first and second generic time elements.
func (s *Scraper) extractTimes(evt *event.Event) {
	start, startOK := s.page.First(Sel24HrStart)
	end, endOK := s.page.First(Sel24HrEnd)

	if !startOK && !endOK {
		// Multi-day events render no labeled pair at all.
		times := s.page.Find(SelGenericTime)
		if len(times) >= 2 {
			evt.StartDate, evt.StartTime = dateTimeOf(times[0])
			evt.EndDate, evt.EndTime = dateTimeOf(times[1])
		}
		return
	}

	if startOK {
		evt.StartDate, evt.StartTime = dateTimeOf(start)
	}
	if !endOK {
		end, endOK = s.page.First(Sel12HrEnd)
	}
	if endOK {
		evt.EndDate, evt.EndTime = dateTimeOf(end)
	}
}

// dateTimeOf splits a Squarespace time element into its datetime attribute
// (the calendar date) and its text content (the wall-clock time).
func dateTimeOf(el browse.Element) (date, clock string) {
	date, _ = el.Attr("datetime")
	return date, strings.TrimSpace(el.Text())
}

// extractZoomLinks collects the ordered, distinct conferencing links from the
// event body.
func (s *Scraper) extractZoomLinks() []string {
	seen := make(map[string]bool)
	var links []string
	for _, link := range s.page.Find(SelBodyLink) {
		href, ok := link.Attr("href")
		if !ok || !isZoomLink(href) || seen[href] {
			continue
		}
		seen[href] = true
		links = append(links, href)
	}
	return links
}
