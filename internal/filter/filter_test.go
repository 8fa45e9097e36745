package filter

import (
	"testing"

	"github.com/ps154-pta/cal-sync/internal/event"
)

func sampleEvents() []*event.Event {
	return []*event.Event{
		{Title: "Fall Fair", Category: "PTA", Tags: "fundraiser, outdoors", StartDate: "2024-10-05"},
		{Title: "PTA Meeting", Category: "PTA", StartDate: "2024-10-17"},
		{Title: "Winter Concert", Category: "School", Tags: "music", StartDate: "2024-12-19"},
	}
}

func TestEmptyFilterMatchesAll(t *testing.T) {
	f := New()
	if !f.IsEmpty() {
		t.Error("new filter should be empty")
	}
	events := sampleEvents()
	if got := f.Apply(events); len(got) != len(events) {
		t.Errorf("empty filter kept %d of %d events", len(got), len(events))
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   []string
	}{
		{
			"category case-insensitive",
			&Filter{Categories: []string{"pta"}},
			[]string{"Fall Fair", "PTA Meeting"},
		},
		{
			"tag substring",
			&Filter{Tags: []string{"fundraiser"}},
			[]string{"Fall Fair"},
		},
		{
			"title substring",
			&Filter{Titles: []string{"concert"}},
			[]string{"Winter Concert"},
		},
		{
			"date range",
			&Filter{DateFrom: "2024-10-01", DateTo: "2024-10-31"},
			[]string{"Fall Fair", "PTA Meeting"},
		},
		{
			"combined criteria",
			&Filter{Categories: []string{"PTA"}, DateFrom: "2024-10-10"},
			[]string{"PTA Meeting"},
		},
		{
			"no match",
			&Filter{Categories: []string{"Sports"}},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(sampleEvents())
			if len(got) != len(tt.want) {
				t.Fatalf("kept %d events, expected %d", len(got), len(tt.want))
			}
			for i, evt := range got {
				if evt.Title != tt.want[i] {
					t.Errorf("event %d = %q, expected %q", i, evt.Title, tt.want[i])
				}
			}
		})
	}
}

func TestParse(t *testing.T) {
	f, err := Parse("category:PTA tag:fundraiser from:2024-10-01 to:2024-10-31")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(f.Categories) != 1 || f.Categories[0] != "PTA" {
		t.Errorf("categories = %v", f.Categories)
	}
	if len(f.Tags) != 1 || f.Tags[0] != "fundraiser" {
		t.Errorf("tags = %v", f.Tags)
	}
	if f.DateFrom != "2024-10-01" || f.DateTo != "2024-10-31" {
		t.Errorf("dates = %s..%s", f.DateFrom, f.DateTo)
	}
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse("")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !f.IsEmpty() {
		t.Error("expected empty filter from empty expression")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"bogus",
		"category:",
		"state:NV",
		"from:October",
		"from:2024-12-01 to:2024-10-01",
	}
	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			if _, err := Parse(expr); err == nil {
				t.Errorf("Parse(%q) should fail", expr)
			}
		})
	}
}
