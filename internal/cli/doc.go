// Package cli implements the command-line interface for cal-sync.
//
// The cli package provides the Cobra-based CLI with support for running a
// sync pass, selecting the reconciliation policy, formatting output
// (text/JSON/ICS), and dry runs. It coordinates the scraper, calendar,
// syncer, and storage packages to mirror the school website's event
// calendar into a Google Calendar.
package cli
