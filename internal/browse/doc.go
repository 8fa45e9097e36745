// Package browse defines the page-automation surface the scraper drives.
//
// The scraper only needs a handful of capabilities: navigate to a URL, locate
// elements by CSS selector, read text/attributes/markup, and wait for a
// selector to appear within a timeout. Page captures exactly that contract so
// the traversal logic stays independent of how pages are actually loaded.
//
// HTTPPage is the production implementation: it fetches pages with a plain
// HTTP client and parses them with goquery. Its WaitFor re-fetches the current
// page on a backoff schedule until the selector matches, standing in for a
// real browser's wait-for-element primitive on a static DOM.
//
// A Page is an exclusively-owned resource: one run owns one page, and the
// owner must Close it on every exit path.
package browse
