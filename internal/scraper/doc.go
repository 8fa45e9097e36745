// Package scraper drives the school website's Squarespace calendar and
// extracts canonical event records.
//
// Extraction runs in two phases. Phase A walks the month-grid calendar
// backwards from the current month, collecting event detail-page addresses
// from day cells flagged as having events; links flagged as multi-day
// continuations are skipped so an event is only counted from its first day.
// Traversal stops after a run of consecutive empty months. Phase B visits each
// collected address and extracts one Event, retrying navigation on load
// timeouts and failing loudly when a required field is absent.
//
// The selectors in this package describe a specific, versioned Squarespace
// page structure. They are an unstable external contract: when the site
// changes shape, extraction is expected to fail with an explicit error rather
// than mis-parse.
package scraper
