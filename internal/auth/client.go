// Package auth talks to the hosted auth service (Supabase GoTrue) and keeps
// the signed-in session.
package auth

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

	"github.com/google/uuid"
)

// ErrNotSignedIn is returned when no access token is available.
var ErrNotSignedIn = errors.New("not signed in")

// User is the authenticated account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Session is what a successful sign-in returns and what SessionStore keeps.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresIn    int       `json:"expires_in,omitempty"`
	ExpiresAt    int64     `json:"expires_at,omitempty"`
	User         User      `json:"user"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// APIError is a non-2xx reply from the auth service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth service returned %d: %s", e.Status, e.Message)
}

type tokenKey struct{}

// WithAccessToken attaches a bearer token to ctx. It takes precedence over
// any stored session.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// AccessTokenFromContext returns the token set by WithAccessToken.
func AccessTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client calls the GoTrue REST API.
type Client struct {
	baseURL     string
	anonKey     string
	http        *http.Client
	sessions    *SessionStore
	staticToken string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSessionStore lets CurrentUser fall back to a stored session.
func WithSessionStore(s *SessionStore) Option {
	return func(c *Client) { c.sessions = s }
}

// WithStaticToken sets a last-resort access token, e.g. from configuration.
func WithStaticToken(token string) Option {
	return func(c *Client) { c.staticToken = token }
}

// NewClient returns a client for the project at baseURL.
func NewClient(baseURL, anonKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CurrentUser resolves the access token (context, stored session, static
// token, in that order) and asks the auth service who it belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	return c.User(ctx, token)
}

func (c *Client) token(ctx context.Context) (string, error) {
	if token := AccessTokenFromContext(ctx); token != "" {
		return token, nil
	}
	if c.sessions != nil {
		sess, err := c.sessions.Load(ctx)
		if err == nil && sess.AccessToken != "" {
			return sess.AccessToken, nil
		}
		if err != nil && !errors.Is(err, ErrNotSignedIn) {
			return "", err
		}
	}
	if c.staticToken != "" {
		return c.staticToken, nil
	}
	return "", ErrNotSignedIn
}

// User returns the user that owns accessToken.
func (c *Client) User(ctx context.Context, accessToken string) (*User, error) {
	if accessToken == "" {
		return nil, ErrNotSignedIn
	}
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(user.ID); err != nil {
		return nil, fmt.Errorf("auth service returned invalid user id %q: %w", user.ID, err)
	}
	return &user, nil
}

// SignIn exchanges email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var sess Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &sess); err != nil {
		return nil, err
	}
	if sess.AccessToken == "" {
		return nil, errors.New("auth service returned no access token")
	}
	sess.CreatedAt = time.Now().UTC()
	return &sess, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling auth service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading auth response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw, resp.Status)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding auth response: %w", err)
	}
	return nil
}

// errorMessage picks the human-readable field out of the several error
// shapes GoTrue has used over time.
func errorMessage(raw []byte, fallback string) string {
	var e struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil {
		for _, m := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	return fallback
}
