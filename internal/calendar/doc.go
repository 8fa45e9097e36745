// Package calendar is the Google Calendar side of the sync.
//
// It holds the client contract the reconciler depends on (paginated list,
// create, delete, get, update) together with its real implementation over the
// Calendar v3 API, and the pure normalizer that projects a scraped event into
// the payload used both to create calendar entries and to compare them for
// equality.
package calendar
