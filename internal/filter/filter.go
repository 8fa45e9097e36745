// Package filter narrows the set of scraped events before reconciliation.
//
// Filters match on event category, tags, title substrings, and start-date
// ranges. An empty filter matches everything. The CLI builds a filter from a
// compact expression, e.g.:
//
//	category:PTA tag:fundraiser from:2024-10-01 to:2024-10-31
package filter

import (
	"strings"

	"github.com/ps154-pta/cal-sync/internal/event"
)

// Filter represents event filtering criteria.
type Filter struct {
	// Categories match the event category case-insensitively (any of).
	Categories []string `json:"categories,omitempty"`

	// Tags are matched as case-insensitive substrings of the event's tag
	// list (any of).
	Tags []string `json:"tags,omitempty"`

	// Titles are matched as case-insensitive substrings of the event title
	// (any of).
	Titles []string `json:"titles,omitempty"`

	// DateFrom/DateTo bound the event start date, inclusive. Dates are
	// YYYY-MM-DD strings, which order lexicographically.
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
}

// New creates an empty filter that matches all events.
func New() *Filter {
	return &Filter{}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return len(f.Categories) == 0 &&
		len(f.Tags) == 0 &&
		len(f.Titles) == 0 &&
		f.DateFrom == "" &&
		f.DateTo == ""
}

// Matches checks if an event passes all active criteria. An empty filter
// matches all events.
func (f *Filter) Matches(evt *event.Event) bool {
	if f.IsEmpty() {
		return true
	}

	if len(f.Categories) > 0 && !anyFold(f.Categories, func(c string) bool {
		return strings.EqualFold(evt.Category, c)
	}) {
		return false
	}

	if len(f.Tags) > 0 {
		tags := strings.ToLower(evt.Tags)
		if !anyFold(f.Tags, func(tag string) bool {
			return strings.Contains(tags, strings.ToLower(tag))
		}) {
			return false
		}
	}

	if len(f.Titles) > 0 {
		title := strings.ToLower(evt.Title)
		if !anyFold(f.Titles, func(t string) bool {
			return strings.Contains(title, strings.ToLower(t))
		}) {
			return false
		}
	}

	if f.DateFrom != "" && evt.StartDate < f.DateFrom {
		return false
	}
	if f.DateTo != "" && evt.StartDate > f.DateTo {
		return false
	}

	return true
}

// Apply returns the events matching the filter, preserving order.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	if f.IsEmpty() {
		return events
	}
	filtered := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

func anyFold(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if pred(v) {
			return true
		}
	}
	return false
}
