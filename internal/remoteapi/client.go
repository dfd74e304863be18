package remoteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenSource supplies the bearer token for authenticated calls. An empty
// token means the caller is anonymous and no Authorization header is sent.
type TokenSource interface {
	Token() (string, error)
}

// TokenSourceFunc adapts a plain function to a TokenSource.
type TokenSourceFunc func() (string, error)

func (f TokenSourceFunc) Token() (string, error) { return f() }

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient builds a client for the remote booking service. tokens may be
// nil for a purely anonymous client.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
}

// SetHTTPClient overrides the underlying http client. Used by tests and by
// callers that need custom transport settings.
func (c *Client) SetHTTPClient(h *http.Client) {
	if c == nil || h == nil {
		return
	}
	c.http = h
}

// errorBody covers the message shapes the remote service is known to emit:
// {"message": ...} from the node-era endpoints and {"detail": ...} from the
// FastAPI ones. Both normalize into the single HTTP kind.
type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (b errorBody) text() string {
	if strings.TrimSpace(b.Message) != "" {
		return b.Message
	}
	return b.Detail
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c == nil {
		return NetworkError(errors.New("client is not initialized"))
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return NetworkError(err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return NetworkError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return NetworkError(fmt.Errorf("load token: %w", err))
		}
		if strings.TrimSpace(token) != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return NetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		if resp.StatusCode == http.StatusConflict {
			return DuplicateError(eb.text())
		}
		return HTTPError(resp.StatusCode, eb.text())
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NetworkError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
