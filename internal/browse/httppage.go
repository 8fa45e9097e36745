package browse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
)

const (
	// UserAgent identifies the sync job to the school website.
	UserAgent = "cal-sync/1.0 (github.com/ps154-pta/cal-sync)"
	// FetchTimeout bounds a single page fetch.
	FetchTimeout = 30 * time.Second

	pollInterval = 250 * time.Millisecond
)

// errSelectorAbsent signals one unsuccessful poll inside WaitFor.
var errSelectorAbsent = errors.New("selector not present")

// HTTPPage implements Page over a plain HTTP client and goquery.
type HTTPPage struct {
	client *http.Client
	doc    *goquery.Document
	url    string
}

// NewHTTPPage creates a page backed by an HTTP client with a bounded fetch
// timeout.
func NewHTTPPage() *HTTPPage {
	return &HTTPPage{
		client: &http.Client{
			Timeout: FetchTimeout,
		},
	}
}

// Goto fetches the URL and parses the response body as the current document.
func (p *HTTPPage) Goto(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status code %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", url, err)
	}

	p.doc = doc
	// The loaded address may differ from the requested one after redirects.
	p.url = resp.Request.URL.String()
	return nil
}

// URL returns the address of the currently loaded document.
func (p *HTTPPage) URL() string {
	return p.url
}

// Find locates elements in the current document.
func (p *HTTPPage) Find(selector string) []Element {
	if p.doc == nil {
		return nil
	}
	var elements []Element
	p.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		elements = append(elements, &htmlElement{sel: sel})
	})
	return elements
}

// First returns the first element matching the selector.
func (p *HTTPPage) First(selector string) (Element, bool) {
	if p.doc == nil {
		return nil, false
	}
	sel := p.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &htmlElement{sel: sel}, true
}

// WaitFor re-fetches the current page on a backoff schedule until the selector
// matches or the timeout elapses.
func (p *HTTPPage) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = pollInterval
	b.MaxElapsedTime = timeout

	op := func() error {
		if p.doc != nil && p.doc.Find(selector).Length() > 0 {
			return nil
		}
		if p.url == "" {
			return backoff.Permanent(errors.New("no document loaded"))
		}
		if err := p.Goto(ctx, p.url); err != nil {
			return backoff.Permanent(err)
		}
		if p.doc.Find(selector).Length() > 0 {
			return nil
		}
		return errSelectorAbsent
	}

	err := backoff.Retry(op, backoff.WithContext(b, ctx))
	if errors.Is(err, errSelectorAbsent) {
		return fmt.Errorf("%q on %s: %w", selector, p.url, ErrWaitTimeout)
	}
	return err
}

// Close releases the page. The document is dropped and idle connections are
// closed.
func (p *HTTPPage) Close() error {
	p.doc = nil
	p.url = ""
	p.client.CloseIdleConnections()
	return nil
}

// htmlElement wraps a goquery selection as an Element.
type htmlElement struct {
	sel *goquery.Selection
}

func (e *htmlElement) Text() string {
	return e.sel.Text()
}

func (e *htmlElement) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *htmlElement) InnerHTML() (string, error) {
	return e.sel.Html()
}

func (e *htmlElement) Find(selector string) []Element {
	var elements []Element
	e.sel.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		elements = append(elements, &htmlElement{sel: sel})
	})
	return elements
}

func (e *htmlElement) HasClass(name string) bool {
	return e.sel.HasClass(name)
}
