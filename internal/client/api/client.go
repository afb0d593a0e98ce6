// Package api is the HTTP client for the session server. It carries the
// session cookie itself so the CLI can persist it between invocations.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fashionhub/internal/client/identity"
	"fashionhub/pkg/protocol"
)

// DefaultTimeout bounds every request; expiry counts as a request failure.
const DefaultTimeout = 10 * time.Second

// Error is a non-2xx answer from the server.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

// IsStatus reports whether err is an *Error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithSession seeds the client with a previously saved session cookie value.
func WithSession(value string) Option {
	return func(c *Client) { c.session = value }
}

// WithSessionHook calls fn whenever the server sets or clears the session
// cookie. fn receives "" when the session was cleared.
func WithSessionHook(fn func(value string)) Option {
	return func(c *Client) { c.onSession = fn }
}

// Client talks to the session API.
type Client struct {
	baseURL   string
	http      *http.Client
	onSession func(string)

	mu      sync.Mutex
	session string
}

var _ identity.SessionClient = (*Client)(nil)

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the current session cookie value, "" when there is none.
func (c *Client) Session() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// CheckSession asks GET /me who the session belongs to.
// It returns (nil, nil) when the server reports no session.
func (c *Client) CheckSession(ctx context.Context) (*identity.Identity, error) {
	var resp protocol.MeResponse
	if err := c.do(ctx, http.MethodGet, "/me", nil, "", &resp); err != nil {
		return nil, err
	}
	if !resp.Authenticated || resp.User == nil {
		return nil, nil
	}
	return toIdentity(resp.User), nil
}

// EndSession calls POST /logout.
func (c *Client) EndSession(ctx context.Context) error {
	var resp protocol.StatusResponse
	return c.do(ctx, http.MethodPost, "/logout", nil, "", &resp)
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*identity.Identity, error) {
	return c.authenticate(ctx, "/login", protocol.LoginRequest{Email: email, Password: password})
}

// Signup creates an account and signs it in.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*identity.Identity, error) {
	return c.authenticate(ctx, "/signup", protocol.SignupRequest{Name: name, Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, path string, payload any) (*identity.Identity, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var resp protocol.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json", &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.User == nil {
		return nil, &Error{Status: http.StatusOK, Message: resp.Message}
	}
	return toIdentity(resp.User), nil
}

// UploadAvatar sends the image in r as the signed-in user's avatar and
// returns its public URL.
func (c *Client) UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", filepath.Base(filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read avatar: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var resp protocol.AvatarResponse
	if err := c.do(ctx, http.MethodPost, "/upload_avatar", &buf, mw.FormDataContentType(), &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &Error{Status: http.StatusOK, Message: resp.Message}
	}
	return resp.AvatarURL, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "fashionhub-client")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s := c.Session(); s != "" {
		req.AddCookie(&http.Cookie{Name: protocol.SessionCookie, Value: s})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.captureSession(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var status protocol.StatusResponse
		_ = json.NewDecoder(resp.Body).Decode(&status)
		return &Error{Status: resp.StatusCode, Message: status.Message}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

func (c *Client) captureSession(resp *http.Response) {
	for _, ck := range resp.Cookies() {
		if ck.Name != protocol.SessionCookie {
			continue
		}
		value := ck.Value
		if ck.MaxAge < 0 {
			value = ""
		}

		c.mu.Lock()
		changed := value != c.session
		c.session = value
		c.mu.Unlock()

		if changed && c.onSession != nil {
			c.onSession(value)
		}
	}
}

func toIdentity(u *protocol.User) *identity.Identity {
	return &identity.Identity{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Role:   u.Role,
	}
}
