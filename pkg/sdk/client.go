package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the backend the console talks to when nothing else is
// configured.
const DefaultBaseURL = "http://goodsone-be.dev.com/api/v2"

// ErrPathOutsideBase is returned for request paths that resolve outside the
// base URL, through dot segments or an absolute reference.
var ErrPathOutsideBase = errors.New("request path escapes the API base URL")

// DefaultLoginPath is where a 401 sends the user.
const DefaultLoginPath = "/auth/login"

// Navigator moves the console to another location. The router implements it.
type Navigator interface {
	Push(ctx context.Context, path string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path string) error

func (f NavigatorFunc) Push(ctx context.Context, path string) error { return f(ctx, path) }

// APIError is a non-2xx, non-401 backend response.
type APIError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("backend returned %s", e.Status)
	}
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("backend returned %s: %s", e.Status, body)
}

// ValidationErrors decodes a {"errors": {field: [messages]}} body, the shape
// the backend uses for 422 responses. ok is false when the body has another
// shape.
func (e *APIError) ValidationErrors() (map[string][]string, bool) {
	var payload struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(e.Body, &payload); err != nil || len(payload.Errors) == 0 {
		return nil, false
	}
	return payload.Errors, true
}

// Client is the backend HTTP wrapper: it attaches the stored bearer token to
// every request and turns a 401 into a session clear plus a redirect to the
// login page.
type Client struct {
	baseURL   *url.URL
	store     SessionStore
	http      *http.Client
	navigator Navigator
	loginPath string
	onUnauth  func()
}

// ClientOptions configures Client construction.
type ClientOptions struct {
	HTTPClient     *http.Client
	Navigator      Navigator
	LoginPath      string
	OnUnauthorized func()
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the underlying HTTP client. Its transport is
// wrapped, not replaced.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithNavigator sets the navigator used to redirect after a 401.
func WithNavigator(nav Navigator) ClientOption {
	return func(opts *ClientOptions) {
		opts.Navigator = nav
	}
}

// WithLoginPath overrides DefaultLoginPath.
func WithLoginPath(path string) ClientOption {
	return func(opts *ClientOptions) {
		opts.LoginPath = path
	}
}

// WithUnauthorizedHook registers a callback run after a 401 cleared the
// session. Used for metrics.
func WithUnauthorizedHook(fn func()) ClientOption {
	return func(opts *ClientOptions) {
		opts.OnUnauthorized = fn
	}
}

// NewClient creates a client for the backend at baseURL. Request paths are
// resolved relative to it.
func NewClient(baseURL string, store SessionStore, optFns ...ClientOption) (*Client, error) {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	base := opts.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	httpClient := *base
	httpClient.Transport = &bearerTransport{store: store, base: base.Transport}

	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}

	return &Client{
		baseURL:   u,
		store:     store,
		http:      &httpClient,
		navigator: opts.Navigator,
		loginPath: loginPath,
		onUnauth:  opts.OnUnauthorized,
	}, nil
}

// BaseURL returns the resolved backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// NewRequest builds a request for a path relative to the base URL. A JSON
// body is encoded when body is non-nil.
func (c *Client) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// resolve maps path under the base URL. Dot segments are rejected before
// resolution, encoded ones included.
func (c *Client) resolve(path string) (*url.URL, error) {
	rel, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}
	if rel.IsAbs() || rel.Host != "" {
		return nil, fmt.Errorf("%w: %q", ErrPathOutsideBase, path)
	}
	for _, seg := range strings.Split(rel.Path, "/") {
		if seg == ".." || seg == "." {
			return nil, fmt.Errorf("%w: %q", ErrPathOutsideBase, path)
		}
	}

	u := c.baseURL.ResolveReference(rel)
	if u.Scheme != c.baseURL.Scheme || u.Host != c.baseURL.Host || !strings.HasPrefix(u.Path, c.baseURL.Path) {
		return nil, fmt.Errorf("%w: %q", ErrPathOutsideBase, path)
	}
	return u, nil
}

// Do sends req. On success the caller owns the response body. A 401 clears
// the session, redirects to the login path and returns (nil, nil). Other
// non-2xx responses come back as *APIError with the body already read.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(req.Context())
		return nil, nil
	}

	return nil, &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
	}
}

func (c *Client) handleUnauthorized(ctx context.Context) {
	// The original request context may already be done; clearing the session
	// must still happen.
	ctx = context.WithoutCancel(ctx)

	if err := ClearSession(ctx, c.store); err != nil {
		log.Printf("sdk: failed to clear session after 401: %v", err)
	}
	if c.onUnauth != nil {
		c.onUnauth()
	}
	if c.navigator == nil {
		return
	}
	if err := c.navigator.Push(ctx, c.loginPath); err != nil {
		log.Printf("sdk: redirect to %s failed: %v", c.loginPath, err)
	}
}

// Get decodes the JSON response of GET path into out (when out is non-nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post sends in as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

// Put sends in as JSON and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

// Delete issues DELETE path and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	req, err := c.NewRequest(ctx, method, path, in)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	if resp == nil {
		// 401 already handled
		return nil
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// bearerTransport reads the access token at send time so a token stored
// after the client was built is picked up.
type bearerTransport struct {
	store SessionStore
	base  http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := getOptional(req.Context(), t.store, KeyAccessToken)
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, err
	}

	if token != "" {
		req = req.Clone(req.Context())
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}
	return t.transport().RoundTrip(req)
}

func (t *bearerTransport) transport() http.RoundTripper {
	if t.base != nil {
		return t.base
	}
	return http.DefaultTransport
}
