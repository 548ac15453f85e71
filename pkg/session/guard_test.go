package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdesk/quizdesk-go/pkg/api"
	"github.com/quizdesk/quizdesk-go/pkg/logger"
)

func newGuardSession() (*Session, *MemoryStorage) {
	client := api.NewClient("http://test.quizdesk/api")
	storage := NewMemoryStorage()
	return New(client, storage, logger.Nop()), storage
}

func TestGuardNoTokenRedirects(t *testing.T) {
	sess, _ := newGuardSession()
	g := NewGuard(sess)

	assert.Equal(t, Checking, g.State())
	assert.Equal(t, Redirecting, g.Check())
	assert.Equal(t, LoginPath, g.RedirectTo())
}

func TestGuardTokenAuthenticatesAndHydrates(t *testing.T) {
	sess, storage := newGuardSession()
	require.NoError(t, storage.Set(KeyAccessToken, "tok"))
	require.NoError(t, storage.Set(KeyUser, `{"id":5,"full_name":"Admin","is_staff":true}`))

	g := NewGuard(sess)
	assert.Equal(t, Authenticated, g.Check())

	id := sess.Identity()
	require.NotNil(t, id)
	assert.Equal(t, "Admin", id.FullName)
}

func TestGuardMalformedIdentityIgnored(t *testing.T) {
	sess, storage := newGuardSession()
	require.NoError(t, storage.Set(KeyAccessToken, "tok"))
	require.NoError(t, storage.Set(KeyUser, `{not json`))

	g := NewGuard(sess)
	assert.Equal(t, Authenticated, g.Check())
	assert.Nil(t, sess.Identity())
}

func TestGuardAdminGate(t *testing.T) {
	sess, storage := newGuardSession()
	require.NoError(t, storage.Set(KeyAccessToken, "tok"))
	require.NoError(t, storage.Set(KeyUser, `{"id":5,"full_name":"Student","is_staff":false,"is_superuser":false}`))

	g := NewGuard(sess, RequireAdmin())
	assert.Equal(t, Redirecting, g.Check())
	assert.Equal(t, LoginAdminOnlyPath, g.RedirectTo())

	// rejection wipes the persisted session
	_, ok := storage.Get(KeyAccessToken)
	assert.False(t, ok)
	_, ok = storage.Get(KeyUser)
	assert.False(t, ok)
	assert.Nil(t, sess.Identity())
}

func TestGuardAdminGatePassesStaff(t *testing.T) {
	sess, storage := newGuardSession()
	require.NoError(t, storage.Set(KeyAccessToken, "tok"))
	require.NoError(t, storage.Set(KeyUser, `{"id":1,"is_staff":true}`))

	g := NewGuard(sess, RequireAdmin())
	assert.Equal(t, Authenticated, g.Check())
}

func TestGuardChecksOnlyOnce(t *testing.T) {
	sess, storage := newGuardSession()
	g := NewGuard(sess)
	require.Equal(t, Redirecting, g.Check())

	// a token appearing later does not change an already-checked guard
	require.NoError(t, storage.Set(KeyAccessToken, "tok"))
	assert.Equal(t, Redirecting, g.Check())
	assert.Equal(t, Redirecting, g.State())

	// a fresh guard sees the new state
	assert.Equal(t, Authenticated, NewGuard(sess).Check())
}
