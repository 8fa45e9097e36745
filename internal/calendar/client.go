package calendar

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// DefaultPageSize is the list page size requested from the API.
const DefaultPageSize = 250

// ErrPageTokenStuck reports a list page token that did not advance between
// pages, which would otherwise loop forever.
var ErrPageTokenStuck = errors.New("calendar page token did not advance")

// Client is the calendar operation contract the reconciler depends on.
type Client interface {
	// ListEvents returns the calendar's full event list, following
	// pagination to the end.
	ListEvents(ctx context.Context) ([]*gcal.Event, error)
	CreateEvent(ctx context.Context, payload *gcal.Event) (*gcal.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	GetEvent(ctx context.Context, id string) (*gcal.Event, error)
	UpdateEvent(ctx context.Context, id string, payload *gcal.Event) error
}

// NewService builds an authenticated Calendar API service from a service
// account key file. The bearer credential is fetched lazily and cached by the
// underlying token source for the process lifetime, which is acceptable for a
// short-lived batch run.
func NewService(ctx context.Context, credentialsFile string) (*gcal.Service, error) {
	key, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading service account key: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(key, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account key: %w", err)
	}
	svc, err := gcal.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return svc, nil
}

// GoogleClient implements Client against one fixed calendar.
type GoogleClient struct {
	svc        *gcal.Service
	calendarID string
	pageSize   int64
}

// NewGoogleClient wraps a Calendar API service for the given calendar.
func NewGoogleClient(svc *gcal.Service, calendarID string) *GoogleClient {
	return &GoogleClient{
		svc:        svc,
		calendarID: calendarID,
		pageSize:   DefaultPageSize,
	}
}

// ListEvents pages through the calendar until no next-page token remains. A
// repeated token aborts the listing instead of looping.
func (c *GoogleClient) ListEvents(ctx context.Context) ([]*gcal.Event, error) {
	var items []*gcal.Event
	token := ""
	for {
		call := c.svc.Events.List(c.calendarID).MaxResults(c.pageSize).Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}
		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("listing events: %w", err)
		}
		items = append(items, res.Items...)

		next := res.NextPageToken
		if next == "" {
			return items, nil
		}
		if next == token {
			return nil, fmt.Errorf("listing events: %w", ErrPageTokenStuck)
		}
		token = next
	}
}

// CreateEvent inserts a normalized payload into the calendar.
func (c *GoogleClient) CreateEvent(ctx context.Context, payload *gcal.Event) (*gcal.Event, error) {
	call := c.svc.Events.Insert(c.calendarID, payload).Context(ctx)
	if payload.ConferenceData != nil {
		// Conference entry points are silently dropped unless the
		// request opts in to conference data.
		call = call.ConferenceDataVersion(1)
	}
	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("creating event %q: %w", payload.Summary, err)
	}
	return created, nil
}

// DeleteEvent removes an event by ID.
func (c *GoogleClient) DeleteEvent(ctx context.Context, id string) error {
	if err := c.svc.Events.Delete(c.calendarID, id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	return nil
}

// GetEvent fetches a single event by ID.
func (c *GoogleClient) GetEvent(ctx context.Context, id string) (*gcal.Event, error) {
	evt, err := c.svc.Events.Get(c.calendarID, id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("getting event %s: %w", id, err)
	}
	return evt, nil
}

// UpdateEvent replaces an event's payload by ID.
func (c *GoogleClient) UpdateEvent(ctx context.Context, id string, payload *gcal.Event) error {
	if _, err := c.svc.Events.Update(c.calendarID, id, payload).Context(ctx).Do(); err != nil {
		return fmt.Errorf("updating event %s: %w", id, err)
	}
	return nil
}
