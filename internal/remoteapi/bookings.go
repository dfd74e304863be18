package remoteapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Booking is a persisted booking record. At most one booking exists per
// (UserID, EventSlug) pair; the remote unique constraint is authoritative and
// surfaces as a duplicate error on conflict.
type Booking struct {
	ID         int64  `json:"id"`
	UserID     string `json:"userId"`
	EventSlug  string `json:"eventId"`
	EventTitle string `json:"eventTitle"`
	EventDate  string `json:"eventDate"`
	UserName   string `json:"userName"`
	UserEmail  string `json:"userEmail"`
	CreatedAt  string `json:"createdAt"`
}

// BookingCheck is the response of the pre-write idempotency check.
type BookingCheck struct {
	Booked bool `json:"booked"`
}

func (c *Client) CreateBooking(ctx context.Context, in Booking) (Booking, error) {
	var out Booking
	if strings.TrimSpace(in.UserID) == "" {
		return out, ValidationError("userId")
	}
	if strings.TrimSpace(in.EventSlug) == "" {
		return out, ValidationError("eventId")
	}
	if err := c.do(ctx, http.MethodPost, "/bookings", in, &out); err != nil {
		return Booking{}, err
	}
	return out, nil
}

func (c *Client) ListBookings(ctx context.Context, userID string) ([]Booking, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ValidationError("userId")
	}
	var out []Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckBooking asks the remote service whether (userID, eventSlug) already
// holds a booking. Best effort only: the server constraint on the write is
// what actually prevents duplicates.
func (c *Client) CheckBooking(ctx context.Context, userID, eventSlug string) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, ValidationError("userId")
	}
	if strings.TrimSpace(eventSlug) == "" {
		return false, ValidationError("eventId")
	}
	var out BookingCheck
	path := "/bookings/check/" + url.PathEscape(userID) + "/" + url.PathEscape(eventSlug)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return false, err
	}
	return out.Booked, nil
}

func (c *Client) DeleteBooking(ctx context.Context, bookingID int64) error {
	if bookingID <= 0 {
		return ValidationError("bookingId")
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/bookings/%d", bookingID), nil, nil)
}
