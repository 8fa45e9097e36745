package scraper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ps154-pta/cal-sync/internal/browse"
	"github.com/ps154-pta/cal-sync/internal/logger"
)

// AddressIter lazily yields event detail-page addresses while walking the
// month grid backwards. It is a pull-based producer: each Next call delivers
// one address, fetching further months only as needed. The iterator is not
// restartable mid-stream; create a fresh one to re-walk from the current
// month.
type AddressIter struct {
	s        *Scraper
	ctx      context.Context
	month    time.Time
	queue    []string
	emptyRun int
	months   int
	done     bool
	err      error
}

// Addresses starts a Phase A walk from the configured starting month.
func (s *Scraper) Addresses(ctx context.Context) *AddressIter {
	start := s.cfg.StartMonth
	if start.IsZero() {
		start = time.Now()
	}
	return &AddressIter{
		s:     s,
		ctx:   ctx,
		month: time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC),
	}
}

// Next yields the next address. It returns false once the walk has
// terminated; check Err afterwards.
func (it *AddressIter) Next() (string, bool) {
	for len(it.queue) == 0 && !it.done && it.err == nil {
		it.advance()
	}
	if len(it.queue) > 0 {
		addr := it.queue[0]
		it.queue = it.queue[1:]
		return addr, true
	}
	return "", false
}

// Err reports the first error encountered during the walk.
func (it *AddressIter) Err() error {
	return it.err
}

// advance scrapes one month and steps to the previous one.
func (it *AddressIter) advance() {
	links, err := it.s.scrapeMonth(it.ctx, it.month)
	if err != nil {
		it.err = err
		return
	}

	if len(links) == 0 {
		it.emptyRun++
	} else {
		it.emptyRun = 0
		it.queue = append(it.queue, links...)
	}

	it.months++
	it.month = it.month.AddDate(0, -1, 0)

	if it.emptyRun >= it.s.cfg.EmptyMonthLimit {
		it.done = true
	}
	if it.s.cfg.MaxMonths > 0 && it.months >= it.s.cfg.MaxMonths {
		it.done = true
	}
}

// EnumerateAddresses drains a full Phase A walk, deduplicates the collected
// addresses and sorts them lexicographically so Phase B runs in a stable
// order independent of traversal order.
func (s *Scraper) EnumerateAddresses(ctx context.Context) ([]string, error) {
	it := s.Addresses(ctx)

	seen := make(map[string]bool)
	var addrs []string
	for addr, ok := it.Next(); ok; addr, ok = it.Next() {
		if seen[addr] {
			continue
		}
		seen[addr] = true
		addrs = append(addrs, addr)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	sort.Strings(addrs)
	return addrs, nil
}

// monthURL addresses one month-grid view. Squarespace selects the visible
// month via a query parameter.
func (s *Scraper) monthURL(month time.Time) string {
	return fmt.Sprintf("%s%s?view=calendar&month=%s",
		s.cfg.Root, s.cfg.CalendarPath, month.Format("January-2006"))
}

// scrapeMonth loads one month grid and collects event links from has-event
// day cells. A month whose cells never appear within the wait budget is
// treated as empty.
func (s *Scraper) scrapeMonth(ctx context.Context, month time.Time) ([]string, error) {
	addr := s.monthURL(month)
	if err := s.page.Goto(ctx, addr); err != nil {
		return nil, fmt.Errorf("loading month grid: %w", err)
	}

	// Heading is read for diagnostics only.
	heading := month.Format("January 2006")
	if el, ok := s.page.First(SelMonthHeading); ok {
		heading = strings.TrimSpace(el.Text())
	}

	if err := s.page.WaitFor(ctx, SelHasEventCell, s.cfg.WaitTimeout); err != nil {
		if errors.Is(err, browse.ErrWaitTimeout) {
			logger.Debug("month has no events", logger.Fields{"month": heading, "url": addr})
			return nil, nil
		}
		return nil, fmt.Errorf("waiting for month grid: %w", err)
	}

	var links []string
	for _, cell := range s.page.Find(SelHasEventCell) {
		for _, link := range cell.Find(SelEventLink) {
			// A multi-day event only counts from its first day.
			if link.HasClass(ClassOngoing) {
				continue
			}
			href, ok := link.Attr("href")
			if !ok || strings.TrimSpace(href) == "" {
				continue
			}
			abs, err := s.absoluteURL(href)
			if err != nil {
				logger.Warn("skipping unparseable event link", logger.Fields{"href": href, "month": heading})
				continue
			}
			links = append(links, abs)
		}
	}

	logger.Info("month scraped", logger.Fields{"month": heading, "links": len(links)})
	return links, nil
}
