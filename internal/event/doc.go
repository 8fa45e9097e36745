// Package event provides the source-of-truth event record scraped from the
// school website.
//
// An Event is created once per extraction pass and is immutable afterwards.
// The detail-page URL (Href) is the natural key joining a scraped event to the
// calendar entry created from it. Records missing a required field are never
// allowed downstream; MissingFields reports which ones are absent so extraction
// can fail loudly instead of silently mis-parsing.
package event
