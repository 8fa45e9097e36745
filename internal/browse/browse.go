package browse

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout is returned by Page.WaitFor when the selector does not appear
// within the timeout.
var ErrWaitTimeout = errors.New("timed out waiting for selector")

// Element is a located DOM element.
type Element interface {
	// Text returns the element's text content, untrimmed.
	Text() string
	// Attr returns the value of the named attribute and whether it exists.
	Attr(name string) (string, bool)
	// InnerHTML returns the element's inner markup.
	InnerHTML() (string, error)
	// Find locates descendant elements by CSS selector.
	Find(selector string) []Element
	// HasClass reports whether the element carries the given class.
	HasClass(name string) bool
}

// Page is a single navigable page. Implementations are not safe for
// concurrent use; the sync run drives one page sequentially.
type Page interface {
	// Goto navigates to the given URL, replacing the current document.
	Goto(ctx context.Context, url string) error
	// URL returns the address of the currently loaded document, after any
	// redirects.
	URL() string
	// Find locates elements in the current document by CSS selector.
	Find(selector string) []Element
	// First returns the first element matching the selector, if any.
	First(selector string) (Element, bool)
	// WaitFor blocks until the selector matches at least one element or the
	// timeout elapses, in which case it returns ErrWaitTimeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	// Close releases the page's resources.
	Close() error
}
