package remoteapi

import (
	"context"
	"net/http"
	"strings"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthSession is the login response: a bearer token plus the identity the
// booking flows key idempotency on.
type AuthSession struct {
	Token  string `json:"access_token"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (c *Client) Login(ctx context.Context, in Credentials) (AuthSession, error) {
	var out AuthSession
	if strings.TrimSpace(in.Email) == "" {
		return out, ValidationError("email")
	}
	if in.Password == "" {
		return out, ValidationError("password")
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return AuthSession{}, err
	}
	return out, nil
}

func (c *Client) Signup(ctx context.Context, in SignupInput) (AuthSession, error) {
	var out AuthSession
	if strings.TrimSpace(in.Name) == "" {
		return out, ValidationError("name")
	}
	if strings.TrimSpace(in.Email) == "" {
		return out, ValidationError("email")
	}
	if in.Password == "" {
		return out, ValidationError("password")
	}
	if err := c.do(ctx, http.MethodPost, "/auth/", in, &out); err != nil {
		return AuthSession{}, err
	}
	return out, nil
}
