package event

import (
	"fmt"
	"strings"
)

// Event represents a single event scraped from the school website.
type Event struct {
	Title       string   `json:"title"`
	Href        string   `json:"href"`
	Category    string   `json:"category,omitempty"`
	StartDate   string   `json:"start_date"` // YYYY-MM-DD
	StartTime   string   `json:"start_time"` // HH:MM, local wall clock
	EndDate     string   `json:"end_date"`
	EndTime     string   `json:"end_time"`
	Address     string   `json:"address,omitempty"`
	Description string   `json:"description,omitempty"` // raw markup from the detail page
	Tags        string   `json:"tags,omitempty"`
	ZoomLinks   []string `json:"zoom_links,omitempty"`
}

// MissingFields returns the names of required fields that are absent.
func (e *Event) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(e.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(e.Href) == "" {
		missing = append(missing, "href")
	}
	if strings.TrimSpace(e.StartDate) == "" {
		missing = append(missing, "start_date")
	}
	if strings.TrimSpace(e.StartTime) == "" {
		missing = append(missing, "start_time")
	}
	if strings.TrimSpace(e.EndDate) == "" {
		missing = append(missing, "end_date")
	}
	if strings.TrimSpace(e.EndTime) == "" {
		missing = append(missing, "end_time")
	}
	return missing
}

// Validate returns an error naming every missing required field.
func (e *Event) Validate() error {
	if missing := e.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("event %q is missing required fields: %s", e.Href, strings.Join(missing, ", "))
	}
	return nil
}
