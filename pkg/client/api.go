package client

import (
	"context"
	"net/http"
	"net/url"
)

// Login signs in with email and password. The session cookies land in the
// client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp Response[struct {
		User User `json:"user"`
	}]
	body := map[string]string{"email": email, "password": password}
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.expired = false
	c.generation++
	c.mu.Unlock()
	return &resp.Data.User, nil
}

// Logout clears the server cookies and forgets the local session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, "", nil)
	c.HTTPClient.Jar.SetCookies(c.origin, []*http.Cookie{
		{Name: accessCookie, Path: "/", MaxAge: -1},
		{Name: refreshCookie, Path: "/", MaxAge: -1},
	})
	return err
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp Response[struct {
		User User `json:"user"`
	}]
	if err := c.getJSON(ctx, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.User, nil
}

// Properties lists approved listings.
func (c *Client) Properties(ctx context.Context, page *Page) ([]Property, *Pagination, error) {
	var resp Response[[]Property]
	if err := c.getJSON(ctx, "/property/all", pageParams(page, nil), &resp); err != nil {
		return nil, nil, err
	}
	return resp.Data, resp.Pagination, nil
}

func (c *Client) Property(ctx context.Context, id string) (*Property, error) {
	var resp Response[Property]
	if err := c.getJSON(ctx, "/property/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// MyProperties lists the caller's own listings with their interests.
func (c *Client) MyProperties(ctx context.Context, page *Page) ([]Property, *Pagination, error) {
	var resp Response[[]Property]
	if err := c.getJSON(ctx, "/property/user/properties", pageParams(page, nil), &resp); err != nil {
		return nil, nil, err
	}
	return resp.Data, resp.Pagination, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/property/"+url.PathEscape(id), nil, "", nil)
}

// SubmitInterest records an enquiry. No session is needed.
func (c *Client) SubmitInterest(ctx context.Context, req InterestRequest) (*Interest, error) {
	var resp Response[Interest]
	if err := c.sendJSON(ctx, http.MethodPost, "/property/interest", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// AdminProperties lists every listing for moderation, optionally filtered
// by status.
func (c *Client) AdminProperties(ctx context.Context, status string, page *Page) ([]Property, *Pagination, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	var resp Response[[]Property]
	if err := c.getJSON(ctx, "/property/admin/properties", pageParams(page, params), &resp); err != nil {
		return nil, nil, err
	}
	return resp.Data, resp.Pagination, nil
}

func (c *Client) SetStatus(ctx context.Context, id, status string) (*Property, error) {
	var resp Response[Property]
	body := map[string]string{"status": status}
	if err := c.sendJSON(ctx, http.MethodPut, "/property/admin/status/"+url.PathEscape(id), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) History(ctx context.Context, id string) ([]ModerationEvent, error) {
	var resp Response[[]ModerationEvent]
	if err := c.getJSON(ctx, "/property/admin/history/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
