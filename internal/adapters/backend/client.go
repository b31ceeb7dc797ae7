package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnauthorized is returned for any 401 from the backend. Callers treat
// it as fatal for the session: clear local state and send the viewer to
// /login. It is never retried.
var ErrUnauthorized = errors.New("backend rejected the session")

// APIError carries a non-2xx backend response. Message is the backend's
// own `message` field when present, so pages can surface it verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed (%d)", e.Status)
}

// Client is the portal's single HTTP boundary to the gym backend. Every
// request goes through Do: bearer header attachment, status handling, and
// envelope decoding live here and nowhere else. There is no retry policy —
// failures surface directly to the calling page.
type Client struct {
	baseURL string
	httpc   *http.Client
	observe func(method, path string, status int, elapsed time.Duration)
}

// New creates a Client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// SetObserver installs a per-call timing hook. status is 0 when the request
// never reached the backend.
func (c *Client) SetObserver(fn func(method, path string, status int, elapsed time.Duration)) {
	c.observe = fn
}

func (c *Client) observed(method, path string, start time.Time, resp *http.Response) {
	if c.observe == nil {
		return
	}
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	// Strip the query string so paths aggregate cleanly.
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	c.observe(method, path, status, time.Since(start))
}

// Get issues an authenticated GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, token, path string, out any) error {
	return c.Do(ctx, token, http.MethodGet, path, nil, "", out)
}

// PostJSON issues an authenticated POST with a JSON body.
func (c *Client) PostJSON(ctx context.Context, token, path string, body, out any) error {
	return c.doJSON(ctx, token, http.MethodPost, path, body, out)
}

// PatchJSON issues an authenticated PATCH with a JSON body.
func (c *Client) PatchJSON(ctx context.Context, token, path string, body, out any) error {
	return c.doJSON(ctx, token, http.MethodPatch, path, body, out)
}

// PutJSON issues an authenticated PUT with a JSON body.
func (c *Client) PutJSON(ctx context.Context, token, path string, body, out any) error {
	return c.doJSON(ctx, token, http.MethodPut, path, body, out)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, token, path string) error {
	return c.Do(ctx, token, http.MethodDelete, path, nil, "", nil)
}

// PostForm issues an authenticated POST with urlencoded form data.
func (c *Client) PostForm(ctx context.Context, token, path string, form url.Values, out any) error {
	body := strings.NewReader(form.Encode())
	return c.Do(ctx, token, http.MethodPost, path, body, "application/x-www-form-urlencoded", out)
}

// PostMultipart issues an authenticated POST with a prepared multipart body
// (blog cover uploads). contentType must be the writer's FormDataContentType.
func (c *Client) PostMultipart(ctx context.Context, token, path string, body *bytes.Buffer, contentType string, out any) error {
	return c.Do(ctx, token, http.MethodPost, path, body, contentType, out)
}

func (c *Client) doJSON(ctx context.Context, token, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}
	return c.Do(ctx, token, method, path, rd, "application/json", out)
}

// Do performs one backend request. A non-empty token is attached as
// `Authorization: Bearer <token>`. 401 maps to ErrUnauthorized, other
// non-2xx statuses to *APIError, and 2xx bodies are envelope-decoded into
// out when out is non-nil.
func (c *Client) Do(ctx context.Context, token, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	c.observed(method, path, start, resp)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return DecodeEnvelope(raw, out)
}

// Download streams a blob response (dashboard exports). The caller owns the
// returned body. Filename is taken from Content-Disposition when present.
func (c *Client) Download(ctx context.Context, token, path string) (io.ReadCloser, string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", "", err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	start := time.Now()
	resp, err := c.httpc.Do(req)
	c.observed(http.MethodGet, path, start, resp)
	if err != nil {
		return nil, "", "", err
	}
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, "", "", err
	}

	filename := ""
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			filename = params["filename"]
		}
	}
	return resp.Body, filename, resp.Header.Get("Content-Type"), nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	return nil
}

// errorMessage extracts the backend's `message` field from an error body.
// Anything unreadable yields an empty message and the generic fallback.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
