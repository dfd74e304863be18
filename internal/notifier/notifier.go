// Package notifier sends templated booking confirmations through the
// external mail provider. The provider is a black box: one send endpoint,
// identified by a service id, a template id and a public key. Those are
// configuration, not secrets, and they are injected, never read from a
// global.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"devevent/cli/internal/remoteapi"
)

type Config struct {
	BaseURL    string
	ServiceID  string
	TemplateID string
	PublicKey  string
}

// Confirmation is the template payload for one booking confirmation.
type Confirmation struct {
	EventName   string
	EventDetail string
	Name        string
	Email       string
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) SetHTTPClient(h *http.Client) {
	if c == nil || h == nil {
		return
	}
	c.http = h
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// SendConfirmation dispatches one confirmation. Every failure comes back as
// the notification-delivery kind; the caller decides whether an already
// persisted booking should survive it (it should).
func (c *Client) SendConfirmation(ctx context.Context, in Confirmation) error {
	if c == nil {
		return remoteapi.NotificationError(errors.New("notifier is not initialized"))
	}
	if strings.TrimSpace(in.Name) == "" {
		return remoteapi.ValidationError("name")
	}

	body := sendRequest{
		ServiceID:  c.cfg.ServiceID,
		TemplateID: c.cfg.TemplateID,
		UserID:     c.cfg.PublicKey,
		TemplateParams: map[string]string{
			"event_name": in.EventName,
			"message":    in.EventDetail,
			"subject":    "Booking for " + in.EventName,
			"name":       in.Name,
			"user_email": in.Email,
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return remoteapi.NotificationError(err)
	}

	url := strings.TrimRight(strings.TrimSpace(c.cfg.BaseURL), "/") + "/api/v1.0/email/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return remoteapi.NotificationError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return remoteapi.NotificationError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return remoteapi.NotificationError(errors.New("provider rejected send: " + strings.TrimSpace(string(text))))
	}
	return nil
}
