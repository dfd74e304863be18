package remoteapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Event is the client-side projection of a remote event record. It is never
// mutated locally except through the admin mutation flows.
type Event struct {
	ID          int64    `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Location    string   `json:"location"`
	Venue       string   `json:"venue"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Mode        string   `json:"mode"`
	Audience    string   `json:"audience"`
	Overview    string   `json:"overview"`
	Description string   `json:"description"`
	Organizer   string   `json:"organizer"`
	Tags        []string `json:"tags"`
	Agenda      []string `json:"agenda"`
	BookedSpots int      `json:"bookedSpots"`
}

func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	var out []Event
	if err := c.do(ctx, http.MethodGet, "/events", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEvent(ctx context.Context, slug string) (Event, error) {
	var out Event
	if strings.TrimSpace(slug) == "" {
		return out, ValidationError("slug")
	}
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(slug), nil, &out); err != nil {
		return Event{}, err
	}
	return out, nil
}

func (c *Client) CreateEvent(ctx context.Context, in Event) (Event, error) {
	var out Event
	if strings.TrimSpace(in.Title) == "" {
		return out, ValidationError("title")
	}
	if strings.TrimSpace(in.Slug) == "" {
		return out, ValidationError("slug")
	}
	if err := c.do(ctx, http.MethodPost, "/events", in, &out); err != nil {
		return Event{}, err
	}
	return out, nil
}

func (c *Client) UpdateEvent(ctx context.Context, slug string, in Event) (Event, error) {
	var out Event
	if strings.TrimSpace(slug) == "" {
		return out, ValidationError("slug")
	}
	if err := c.do(ctx, http.MethodPut, "/events/"+url.PathEscape(slug), in, &out); err != nil {
		return Event{}, err
	}
	return out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, slug string) error {
	if strings.TrimSpace(slug) == "" {
		return ValidationError("slug")
	}
	return c.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(slug), nil, nil)
}
