package session

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdesk/quizdesk-go/pkg/api"
	"github.com/quizdesk/quizdesk-go/pkg/logger"
	"github.com/quizdesk/quizdesk-go/pkg/models"
)

type roundTripFunc func(req *http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestSession(fn roundTripFunc) (*Session, *MemoryStorage) {
	client := api.NewClient("http://test.quizdesk/api")
	client.HTTPClient = &http.Client{Transport: fn}
	storage := NewMemoryStorage()
	sess := New(client, storage, logger.Nop())
	client.Tokens = sess.Token
	return sess, storage
}

const loginBody = `{
	"access": "acc-token",
	"refresh": "ref-token",
	"user": {"id": 1, "email": "admin@quizdesk.io", "full_name": "Admin", "is_staff": true}
}`

func TestLoginPersistsCredentialsAndIdentity(t *testing.T) {
	sess, storage := newTestSession(func(req *http.Request) *http.Response {
		return jsonResponse(200, loginBody)
	})

	res, err := sess.Login(context.Background(), "admin@quizdesk.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, "acc-token", res.Access)

	tok, ok := storage.Get(KeyAccessToken)
	require.True(t, ok)
	assert.Equal(t, "acc-token", tok)
	_, ok = storage.Get(KeyRefreshToken)
	assert.True(t, ok)
	_, ok = storage.Get(KeyUser)
	assert.True(t, ok)

	id := sess.Identity()
	require.NotNil(t, id)
	assert.Equal(t, "Admin", id.FullName)
	assert.Equal(t, "acc-token", sess.Token())
}

func TestLoginValidatesLocally(t *testing.T) {
	sess, _ := newTestSession(func(req *http.Request) *http.Response {
		t.Fatal("no request may be made on local validation failure")
		return nil
	})

	_, err := sess.Login(context.Background(), "", "pw")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = sess.Login(context.Background(), "a@b.c", "")
	require.ErrorAs(t, err, &verr)
}

func TestLoginServerError(t *testing.T) {
	sess, storage := newTestSession(func(req *http.Request) *http.Response {
		return jsonResponse(401, `{"detail":"Invalid email or password"}`)
	})

	_, err := sess.Login(context.Background(), "a@b.c", "wrong")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Message)

	_, ok := storage.Get(KeyAccessToken)
	assert.False(t, ok, "failed login must not persist anything")
}

func TestLogoutAlwaysClears(t *testing.T) {
	sess, storage := newTestSession(func(req *http.Request) *http.Response {
		return jsonResponse(500, `{"detail":"broken"}`)
	})
	require.NoError(t, storage.Set(KeyAccessToken, "acc"))
	require.NoError(t, storage.Set(KeyRefreshToken, "ref"))
	require.NoError(t, storage.Set(KeyUser, `{"id":1}`))

	sess.Logout(context.Background())

	_, ok := storage.Get(KeyAccessToken)
	assert.False(t, ok)
	_, ok = storage.Get(KeyRefreshToken)
	assert.False(t, ok)
	_, ok = storage.Get(KeyUser)
	assert.False(t, ok)
	assert.Nil(t, sess.Identity())
}

func TestVerifyOTPShape(t *testing.T) {
	var calls int
	sess, _ := newTestSession(func(req *http.Request) *http.Response {
		calls++
		return jsonResponse(200, `{"message":"ok"}`)
	})

	var verr *ValidationError
	require.ErrorAs(t, sess.VerifyOTP(context.Background(), "a@b.c", "12345"), &verr)
	require.ErrorAs(t, sess.VerifyOTP(context.Background(), "a@b.c", "12345a"), &verr)
	require.ErrorAs(t, sess.VerifyOTP(context.Background(), "a@b.c", ""), &verr)
	assert.Zero(t, calls, "malformed codes never reach the network")

	require.NoError(t, sess.VerifyOTP(context.Background(), "a@b.c", "123456"))
	assert.Equal(t, 1, calls)
}

func TestResetPasswordValidation(t *testing.T) {
	sess, _ := newTestSession(func(req *http.Request) *http.Response {
		return jsonResponse(200, `{"message":"ok"}`)
	})

	var verr *ValidationError
	require.ErrorAs(t, sess.ResetPassword(context.Background(), "a@b.c", "short", "short"), &verr)
	require.ErrorAs(t, sess.ResetPassword(context.Background(), "a@b.c", "longenough", "different"), &verr)
	require.NoError(t, sess.ResetPassword(context.Background(), "a@b.c", "longenough", "longenough"))
}

func TestUpdateIdentityWritesThrough(t *testing.T) {
	sess, storage := newTestSession(func(req *http.Request) *http.Response {
		return jsonResponse(200, loginBody)
	})
	_, err := sess.Login(context.Background(), "admin@quizdesk.io", "pw")
	require.NoError(t, err)

	sess.UpdateIdentity(func(u *models.Account) { u.FullName = "Renamed" })

	assert.Equal(t, "Renamed", sess.Identity().FullName)
	raw, ok := storage.Get(KeyUser)
	require.True(t, ok)
	assert.Contains(t, raw, "Renamed")
}

func TestValidOTP(t *testing.T) {
	assert.True(t, ValidOTP("000000"))
	assert.False(t, ValidOTP("00000"))
	assert.False(t, ValidOTP("0000000"))
	assert.False(t, ValidOTP("12345x"))
}
