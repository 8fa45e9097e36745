package calendar

import (
	"fmt"

	"github.com/ps154-pta/cal-sync/internal/event"
	gcal "google.golang.org/api/calendar/v3"
)

// DefaultTimeZone is the zone all scraped wall-clock times belong to. The
// source site renders local times; no conversion happens.
const DefaultTimeZone = "America/New_York"

// FormatDateTime composes the calendar date-time string from the scraped
// date and wall-clock time.
func FormatDateTime(date, clock string) string {
	return fmt.Sprintf("%sT%s:00", date, clock)
}

// PayloadFromEvent projects a scraped event into the calendar payload used
// for creation and equality comparison. It is a pure function of the event.
func PayloadFromEvent(evt *event.Event) *gcal.Event {
	payload := &gcal.Event{
		Summary:  evt.Title,
		Location: evt.Address,
		Source: &gcal.EventSource{
			Url: evt.Href,
		},
		Start: &gcal.EventDateTime{
			DateTime: FormatDateTime(evt.StartDate, evt.StartTime),
			TimeZone: DefaultTimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: FormatDateTime(evt.EndDate, evt.EndTime),
			TimeZone: DefaultTimeZone,
		},
	}

	if evt.Description != "" {
		if sanitized := SanitizeDescription(evt.Description); sanitized != "" {
			payload.Description = fmt.Sprintf(`<p><a href="%s">Event page</a></p><div>%s</div>`, evt.Href, sanitized)
		}
	}

	if len(evt.ZoomLinks) > 0 {
		entryPoints := make([]*gcal.EntryPoint, 0, len(evt.ZoomLinks))
		for _, link := range evt.ZoomLinks {
			entryPoints = append(entryPoints, &gcal.EntryPoint{
				EntryPointType: "video",
				Uri:            link,
			})
		}
		payload.ConferenceData = &gcal.ConferenceData{
			ConferenceSolution: &gcal.ConferenceSolution{
				Key:  &gcal.ConferenceSolutionKey{Type: "addOn"},
				Name: "Zoom",
			},
			EntryPoints: entryPoints,
		}
	}

	return payload
}

// Equal reports whether a scraped event and a calendar event are the same
// under the normalized projection: summary, start, end, location, description
// and source URL must match exactly.
func Equal(evt *event.Event, existing *gcal.Event) bool {
	payload := PayloadFromEvent(evt)
	return payload.Summary == existing.Summary &&
		payload.Start.DateTime == dateTime(existing.Start) &&
		payload.End.DateTime == dateTime(existing.End) &&
		payload.Location == existing.Location &&
		payload.Description == existing.Description &&
		payload.Source.Url == sourceURL(existing)
}

func dateTime(dt *gcal.EventDateTime) string {
	if dt == nil {
		return ""
	}
	return dt.DateTime
}

func sourceURL(evt *gcal.Event) string {
	if evt.Source == nil {
		return ""
	}
	return evt.Source.Url
}
