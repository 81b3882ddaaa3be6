// Package client is a Go client for the CourseTrack API. It owns the session
// lifecycle: tokens are cached at login, attached to every call, and dropped
// the moment the server rejects one. The package defines its own wire types,
// so it can be imported without reaching into the server's internals.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client calls the CourseTrack API.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New creates a Client for the given server base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		session: NewSession(),
	}
}

// Session exposes the client's session store.
func (c *Client) Session() *Session {
	return c.session
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	req := registerRequest{Username: username, Email: email, Password: password}
	return c.do(ctx, http.MethodPost, "/register", req, nil)
}

// Login authenticates and caches the returned token in the session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	req := loginRequest{Email: email, Password: password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return err
	}

	c.session.Login(resp.Token, resp.UserID)
	return nil
}

// Logout clears the session locally. Tokens are stateless server-side.
func (c *Client) Logout() {
	c.session.Logout()
}

// GetProfile fetches the authenticated user's own profile.
func (c *Client) GetProfile(ctx context.Context) (Profile, error) {
	var resp Profile
	path := "/user/" + strconv.FormatInt(c.session.UserID(), 10)
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	return resp, err
}

// ForgotPassword requests a password reset link for the given email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/forgot-password", forgotPasswordRequest{Email: email}, nil)
}

// ResetPassword completes the reset flow with a token from the reset link.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.do(ctx, http.MethodPost, "/reset-password", resetPasswordRequest{Password: password, Token: token}, nil)
}

// CreateCourse creates a course owned by the authenticated user.
func (c *Client) CreateCourse(ctx context.Context, input CourseInput) (Course, error) {
	var course Course
	err := c.do(ctx, http.MethodPost, "/courses", input, &course)
	return course, err
}

// ListCourses fetches one page of the user's courses.
func (c *Client) ListCourses(ctx context.Context, params ListParams) (CourseList, error) {
	q := url.Values{}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.Rating != nil {
		q.Set("rating", strconv.Itoa(*params.Rating))
	}
	if params.Sort != "" {
		q.Set("sort", params.Sort)
	}
	if params.Order != "" {
		q.Set("order", params.Order)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}

	path := "/courses"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp CourseList
	err := c.do(ctx, http.MethodGet, path, nil, &resp)
	return resp, err
}

// UpdateCourse applies a partial update to one of the user's courses.
func (c *Client) UpdateCourse(ctx context.Context, id int64, patch CourseUpdate) (Course, error) {
	var course Course
	err := c.do(ctx, http.MethodPut, "/courses/"+strconv.FormatInt(id, 10), patch, &course)
	return course, err
}

// DeleteCourse soft-deletes one of the user's courses.
func (c *Client) DeleteCourse(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/courses/"+strconv.FormatInt(id, 10), nil, nil)
}

// CheckDuplicate asks whether an active course with the same fields exists.
func (c *Client) CheckDuplicate(ctx context.Context, title, platform, category string) (bool, error) {
	req := checkDuplicateRequest{Title: title, Platform: platform, Category: category}

	var resp checkDuplicateResponse
	err := c.do(ctx, http.MethodPost, "/courses/check-duplicate", req, &resp)
	return resp.IsDuplicate, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return err
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if token, ok := c.session.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Any rejection of the credential invalidates the cached session,
		// regardless of which call triggered it.
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			c.session.Logout()
		}

		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		msg := "request failed"
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil {
			if apiErr.Error != "" {
				msg = apiErr.Error
			} else if apiErr.Message != "" {
				msg = apiErr.Message
			}
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}

	return nil
}
