// Package api implements the low-level HTTP client for the QuizDesk admin
// backend.
//
// The client is deliberately dumb: one attempt per call, no retries, no
// response interpretation. It returns the raw status and body for every
// completed request, including non-2xx ones, because error semantics differ
// per resource and belong to the callers. The only errors it returns itself
// are transport and encoding failures.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/carlmjohnson/versioninfo"
	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/quizdesk/quizdesk-go/pkg/logger"
)

// TokenSource yields the current bearer token, or "" when the caller is not
// authenticated. It is re-read on every request so that token rotation by
// the session layer is picked up without rebuilding the client.
type TokenSource func() string

// Client performs requests against the QuizDesk JSON API.
//
// Client instances are safe for concurrent use by multiple goroutines.
type Client struct {
	// BaseURL includes scheme, host and the API prefix, without a
	// trailing slash, e.g. "http://10.10.12.28:8000/api".
	BaseURL string

	// HTTPClient defaults to cleanhttp.DefaultPooledClient(). A single
	// attempt is made per call; retry policy is the caller's concern.
	HTTPClient *http.Client

	// Tokens supplies the Authorization bearer token. Nil means
	// unauthenticated.
	Tokens TokenSource

	// Logger logs one debug line per request. Defaults to the no-op
	// logger.
	Logger logger.Logger
}

// Response is the normalized result of a completed request. Callers must
// inspect StatusCode themselves; see AsError.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the response body into out.
func (r *Response) Decode(out any) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: cleanhttp.DefaultPooledClient(),
		Logger:     logger.Nop(),
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return cleanhttp.DefaultPooledClient()
	}
	return c.HTTPClient
}

func (c *Client) logger() logger.Logger {
	if c.Logger == nil {
		return logger.Nop()
	}
	return c.Logger
}

// Do performs one request and returns the raw response.
//
// Body handling follows the backend's content-type rules:
//   - nil body: no Content-Type header at all (bodiless DELETEs and GETs)
//   - *Multipart: multipart/form-data, boundary set by the multipart writer
//   - anything else: marshaled to JSON with Content-Type application/json
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case *Multipart:
		buf, ct, err := b.encode()
		if err != nil {
			return nil, fmt.Errorf("encoding multipart body: %w", err)
		}
		reader, contentType = buf, ct
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader, contentType = bytes.NewReader(raw), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "quizdesk-go/"+versioninfo.Short())
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.Tokens != nil {
		if tok := c.Tokens(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.logger().Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
	)

	return &Response{StatusCode: resp.StatusCode, Body: raw}, nil
}

// Get performs a GET with params encoded as a query string. params may be
// nil, a struct with `url` tags (encoded by go-querystring), or url.Values.
func (c *Client) Get(ctx context.Context, path string, params any) (*Response, error) {
	qs, err := encodeParams(params)
	if err != nil {
		return nil, err
	}
	if qs != "" {
		path += "?" + qs
	}
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST with a JSON body. body may be nil.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Patch performs a PATCH. body may be a *Multipart for form uploads.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body)
}

// Put performs a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Delete performs a bodiless DELETE.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

func encodeParams(params any) (string, error) {
	switch p := params.(type) {
	case nil:
		return "", nil
	case url.Values:
		return p.Encode(), nil
	default:
		v, err := query.Values(params)
		if err != nil {
			return "", fmt.Errorf("encoding query params: %w", err)
		}
		return v.Encode(), nil
	}
}
