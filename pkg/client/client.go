package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

// ErrSessionExpired is returned once a refresh has failed. The client stays
// logged out until the next Login or SetSession.
var ErrSessionExpired = errors.New("session expired, log in again")

// APIError is returned when the server sends a non-2xx status.
type APIError struct {
	Status  int
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api: %d: %s (%s)", e.Status, e.Message, e.Field)
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// Client talks to the marketplace API with cookie sessions. Requests that
// hit a 401 share one refresh call and are retried once.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	origin  *url.URL
	refresh singleflight.Group

	mu         sync.Mutex
	generation uint64
	expired    bool
}

// New creates a Client from a server URL such as http://localhost:8080.
func New(serverURL string) (*Client, error) {
	origin, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("server url %q needs a scheme and host", serverURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL: origin.String() + "/api",
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 2 * time.Minute,
		},
		origin: origin,
	}, nil
}

// Session returns the cookies the server has set so far.
func (c *Client) Session() Session {
	var s Session
	for _, cookie := range c.HTTPClient.Jar.Cookies(c.origin) {
		switch cookie.Name {
		case accessCookie:
			s.AccessToken = cookie.Value
		case refreshCookie:
			s.RefreshToken = cookie.Value
		}
	}
	return s
}

// SetSession installs previously saved cookies and clears the expired flag.
func (c *Client) SetSession(s Session) {
	var cookies []*http.Cookie
	if s.AccessToken != "" {
		cookies = append(cookies, &http.Cookie{Name: accessCookie, Value: s.AccessToken, Path: "/"})
	}
	if s.RefreshToken != "" {
		cookies = append(cookies, &http.Cookie{Name: refreshCookie, Value: s.RefreshToken, Path: "/"})
	}
	c.HTTPClient.Jar.SetCookies(c.origin, cookies)

	c.mu.Lock()
	c.expired = false
	c.generation++
	c.mu.Unlock()
}

func (c *Client) state() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, c.expired
}

// refreshSession runs at most one refresh at a time. A caller whose request
// was sent before the latest successful refresh just retries.
func (c *Client) refreshSession(ctx context.Context, seen uint64) error {
	_, err, _ := c.refresh.Do("refresh", func() (interface{}, error) {
		gen, expired := c.state()
		if expired {
			return nil, ErrSessionExpired
		}
		if gen != seen {
			return nil, nil
		}

		resp, err := c.send(ctx, http.MethodPost, "/auth/refresh", nil, "")
		if err != nil {
			return nil, err
		}
		resp.Body.Close()

		c.mu.Lock()
		defer c.mu.Unlock()
		if resp.StatusCode != http.StatusOK {
			c.expired = true
			return nil, ErrSessionExpired
		}
		c.generation++
		return nil, nil
	})
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.HTTPClient.Do(req)
}

// do sends the request, refreshing the session and retrying once on 401.
// Auth endpoints are never retried.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, out interface{}) error {
	gen, expired := c.state()
	authCall := strings.HasPrefix(path, "/auth/")
	if expired && !authCall {
		return ErrSessionExpired
	}

	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized && !authCall {
		resp.Body.Close()
		if err := c.refreshSession(ctx, gen); err != nil {
			return err
		}
		resp, err = c.send(ctx, method, path, body, contentType)
		if err != nil {
			return err
		}
	}
	return decode(resp, out)
}

func decode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: errResp.Error, Field: errResp.Field}
		}
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, data, "application/json", out)
}

func pageParams(p *Page, params url.Values) url.Values {
	if params == nil {
		params = url.Values{}
	}
	if p != nil {
		if p.Page > 0 {
			params.Set("page", strconv.Itoa(p.Page))
		}
		if p.Limit > 0 {
			params.Set("limit", strconv.Itoa(p.Limit))
		}
	}
	return params
}
