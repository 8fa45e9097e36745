package event

import (
	"strings"
	"testing"
)

func validEvent() *Event {
	return &Event{
		Title:     "Fall Fair",
		Href:      "https://site/events/fall-fair",
		StartDate: "2024-10-05",
		StartTime: "10:00",
		EndDate:   "2024-10-05",
		EndTime:   "13:00",
	}
}

func TestValidateComplete(t *testing.T) {
	if err := validEvent().Validate(); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}
}

func TestMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Event)
		missing string
	}{
		{"no title", func(e *Event) { e.Title = "" }, "title"},
		{"whitespace title", func(e *Event) { e.Title = "  " }, "title"},
		{"no href", func(e *Event) { e.Href = "" }, "href"},
		{"no start date", func(e *Event) { e.StartDate = "" }, "start_date"},
		{"no start time", func(e *Event) { e.StartTime = "" }, "start_time"},
		{"no end date", func(e *Event) { e.EndDate = "" }, "end_date"},
		{"no end time", func(e *Event) { e.EndTime = "" }, "end_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := validEvent()
			tt.mutate(evt)

			missing := evt.MissingFields()
			if len(missing) != 1 || missing[0] != tt.missing {
				t.Errorf("expected missing fields [%s], got %v", tt.missing, missing)
			}

			err := evt.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error %q should name field %q", err, tt.missing)
			}
		})
	}
}

func TestMissingFieldsMultiple(t *testing.T) {
	evt := &Event{}
	missing := evt.MissingFields()
	if len(missing) != 6 {
		t.Errorf("expected 6 missing fields for empty event, got %d: %v", len(missing), missing)
	}
}

func TestOptionalFieldsDoNotAffectValidation(t *testing.T) {
	evt := validEvent()
	evt.Category = ""
	evt.Address = ""
	evt.Description = ""
	evt.Tags = ""
	evt.ZoomLinks = nil
	if err := evt.Validate(); err != nil {
		t.Fatalf("optional fields should not be required: %v", err)
	}
}
