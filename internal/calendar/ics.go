package calendar

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"

	"github.com/ps154-pta/cal-sync/internal/event"
)

// GenerateICS renders the extracted events as an iCalendar document, for the
// --format ics output path.
func GenerateICS(events []*event.Event) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//PS 154 PTA//cal-sync//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	now := time.Now().UTC()
	for _, evt := range events {
		writeVEvent(&ics, evt, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeVEvent(ics *strings.Builder, evt *event.Event, stamp time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	// Deterministic UID from the detail-page address, the event's natural key.
	ics.WriteString(fmt.Sprintf("UID:%x@ps154.org\r\n", sha1.Sum([]byte(evt.Href))))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp.Format("20060102T150405Z")))
	ics.WriteString(fmt.Sprintf("DTSTART;TZID=%s:%s\r\n", DefaultTimeZone, formatICSLocal(evt.StartDate, evt.StartTime)))
	ics.WriteString(fmt.Sprintf("DTEND;TZID=%s:%s\r\n", DefaultTimeZone, formatICSLocal(evt.EndDate, evt.EndTime)))
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(evt.Title)))
	ics.WriteString(fmt.Sprintf("URL:%s\r\n", evt.Href))
	if evt.Address != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(evt.Address)))
	}
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS("Event page: "+evt.Href)))
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// formatICSLocal composes an iCalendar local date-time from the scraped date
// and wall-clock time, tolerating the 12-hour end-time rendering.
func formatICSLocal(date, clock string) string {
	compact := strings.ReplaceAll(date, "-", "")
	for _, layout := range []string{"15:04", "3:04 PM", "15:04:05"} {
		if t, err := time.Parse(layout, clock); err == nil {
			return compact + "T" + t.Format("150405")
		}
	}
	return compact + "T000000"
}

// escapeICS escapes special characters per RFC 5545
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
