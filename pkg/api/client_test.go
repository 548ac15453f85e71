package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// NewTestClient returns *http.Client with Transport replaced to avoid making real calls
func NewTestClient(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func testClient(fn RoundTripFunc) *Client {
	c := NewClient("http://test.quizdesk/api")
	c.HTTPClient = NewTestClient(fn)
	return c
}

func TestDoSetsNoContentTypeForNilBody(t *testing.T) {
	var captured *http.Request
	c := testClient(func(req *http.Request) *http.Response {
		captured = req
		return jsonResponse(204, "")
	})

	resp, err := c.Delete(context.Background(), "/dashboard/quizzes/7/")
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.Equal(t, "", captured.Header.Get("Content-Type"))
	assert.Nil(t, captured.Body)
}

func TestDoMarshalsJSONBody(t *testing.T) {
	var captured *http.Request
	var body []byte
	c := testClient(func(req *http.Request) *http.Response {
		captured = req
		body, _ = io.ReadAll(req.Body)
		return jsonResponse(200, `{}`)
	})

	_, err := c.Post(context.Background(), "/auth/login/", map[string]string{"email": "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"email":"a@b.c"}`, string(body))
}

func TestDoMultipartBoundary(t *testing.T) {
	var captured *http.Request
	var body []byte
	c := testClient(func(req *http.Request) *http.Response {
		captured = req
		body, _ = io.ReadAll(req.Body)
		return jsonResponse(200, `{}`)
	})

	form := &Multipart{}
	form.AddField("full_name", "Admin")
	form.AddFile("avatar", "me.png", bytes.NewReader([]byte{0x89, 0x50}))

	_, err := c.Patch(context.Background(), "/me/", form)
	require.NoError(t, err)

	ct := captured.Header.Get("Content-Type")
	assert.True(t, strings.HasPrefix(ct, "multipart/form-data; boundary="), ct)
	assert.Contains(t, string(body), `name="full_name"`)
	assert.Contains(t, string(body), `filename="me.png"`)
}

func TestDoBearerHeader(t *testing.T) {
	var captured *http.Request
	c := testClient(func(req *http.Request) *http.Response {
		captured = req
		return jsonResponse(200, `{}`)
	})

	// no token source: no header
	_, err := c.Get(context.Background(), "/dashboard/", nil)
	require.NoError(t, err)
	assert.Empty(t, captured.Header.Get("Authorization"))

	// empty token: still no header
	c.Tokens = func() string { return "" }
	_, err = c.Get(context.Background(), "/dashboard/", nil)
	require.NoError(t, err)
	assert.Empty(t, captured.Header.Get("Authorization"))

	c.Tokens = func() string { return "tok-123" }
	_, err = c.Get(context.Background(), "/dashboard/", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", captured.Header.Get("Authorization"))
}

func TestDoRequestMetadataHeaders(t *testing.T) {
	var captured *http.Request
	c := testClient(func(req *http.Request) *http.Response {
		captured = req
		return jsonResponse(200, `{}`)
	})

	_, err := c.Get(context.Background(), "/dashboard/", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(captured.Header.Get("User-Agent"), "quizdesk-go/"))
	assert.NotEmpty(t, captured.Header.Get("X-Request-ID"))
	assert.Equal(t, "application/json", captured.Header.Get("Accept"))
}

func TestGetEncodesQueryParams(t *testing.T) {
	var captured *http.Request
	c := testClient(func(req *http.Request) *http.Response {
		captured = req
		return jsonResponse(200, `{}`)
	})

	params := url.Values{}
	params.Set("page", "2")
	params.Set("status", "blocked")
	_, err := c.Get(context.Background(), "/dashboard/users/", params)
	require.NoError(t, err)
	assert.Equal(t, "2", captured.URL.Query().Get("page"))
	assert.Equal(t, "blocked", captured.URL.Query().Get("status"))

	type listParams struct {
		Page int `url:"page"`
	}
	_, err = c.Get(context.Background(), "/dashboard/users/", listParams{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, "3", captured.URL.Query().Get("page"))
}

func TestNonTwoHundredIsNotAnError(t *testing.T) {
	c := testClient(func(req *http.Request) *http.Response {
		return jsonResponse(500, `{"detail":"boom"}`)
	})

	resp, err := c.Get(context.Background(), "/dashboard/", nil)
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, 500, resp.StatusCode)

	apiErr := AsError(resp)
	require.Error(t, apiErr)
	var typed *Error
	require.ErrorAs(t, apiErr, &typed)
	assert.Equal(t, "boom", typed.Message)
	assert.Equal(t, 500, typed.StatusCode)
}

func TestDecodePage(t *testing.T) {
	next := "http://test.quizdesk/api/dashboard/users/?page=2"
	resp := &Response{
		StatusCode: 200,
		Body: []byte(`{"count":23,"next":"` + next + `","previous":null,` +
			`"results":[{"id":1},{"id":2}]}`),
	}

	page, err := DecodePage[struct {
		ID int64 `json:"id"`
	}](resp)
	require.NoError(t, err)
	assert.Equal(t, 23, page.Count)
	require.NotNil(t, page.Next)
	assert.Nil(t, page.Previous)
	assert.Len(t, page.Results, 2)
}

func TestDecodePageError(t *testing.T) {
	resp := &Response{StatusCode: 401, Body: []byte(`{"detail":"nope"}`)}
	_, err := DecodePage[struct{}](resp)
	var typed *Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, "nope", typed.Message)
}
