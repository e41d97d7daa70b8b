package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicehut/storefront/internal/kvstore"
)

func testProfile() Profile {
	return Profile{Name: "Asha", Email: "asha@example.com", Phone: "9876543210"}
}

func TestSession_RegisterSetsCurrentUser(t *testing.T) {
	sessions := NewSessionStore(kvstore.NewMemoryStore())

	user, err := sessions.Register(testProfile(), "secret-1")
	require.NoError(t, err)
	assert.NotEqual(t, "", user.ID.String())
	assert.False(t, user.CreatedAt.IsZero())

	current, ok := sessions.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, user.ID, current.ID)
	assert.Equal(t, "asha@example.com", current.Email)
}

func TestSession_RegisterDuplicateEmail(t *testing.T) {
	sessions := NewSessionStore(kvstore.NewMemoryStore())

	_, err := sessions.Register(testProfile(), "secret-1")
	require.NoError(t, err)

	_, err = sessions.Register(testProfile(), "other-secret")
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestSession_RegisterValidation(t *testing.T) {
	sessions := NewSessionStore(kvstore.NewMemoryStore())

	_, err := sessions.Register(Profile{Email: "x@example.com"}, "secret-1")
	assert.Error(t, err, "blank name must be rejected")

	_, err = sessions.Register(testProfile(), "short")
	assert.Error(t, err, "short secret must be rejected")
}

func TestSession_Authenticate(t *testing.T) {
	sessions := NewSessionStore(kvstore.NewMemoryStore())
	_, err := sessions.Register(testProfile(), "secret-1")
	require.NoError(t, err)
	require.NoError(t, sessions.EndSession())

	_, err = sessions.Authenticate("asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = sessions.Authenticate("nobody@example.com", "secret-1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := sessions.Authenticate("asha@example.com", "secret-1")
	require.NoError(t, err)
	current, ok := sessions.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, user.ID, current.ID)
}

func TestSession_ResetSecret(t *testing.T) {
	sessions := NewSessionStore(kvstore.NewMemoryStore())
	_, err := sessions.Register(testProfile(), "old-secret")
	require.NoError(t, err)

	require.ErrorIs(t, sessions.ResetSecret("nobody@example.com", "new-secret"), ErrUserNotFound)
	require.NoError(t, sessions.ResetSecret("asha@example.com", "new-secret"))

	_, err = sessions.Authenticate("asha@example.com", "old-secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "old secret must stop working")

	_, err = sessions.Authenticate("asha@example.com", "new-secret")
	assert.NoError(t, err)
}

func TestSession_ResetSecretKeepsCurrentSession(t *testing.T) {
	sessions := NewSessionStore(kvstore.NewMemoryStore())
	user, err := sessions.Register(testProfile(), "old-secret")
	require.NoError(t, err)

	require.NoError(t, sessions.ResetSecret("asha@example.com", "new-secret"))

	current, ok := sessions.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, user.ID, current.ID)
}

func TestSession_EndSessionIdempotent(t *testing.T) {
	sessions := NewSessionStore(kvstore.NewMemoryStore())

	require.NoError(t, sessions.EndSession())
	_, err := sessions.Register(testProfile(), "secret-1")
	require.NoError(t, err)

	require.NoError(t, sessions.EndSession())
	require.NoError(t, sessions.EndSession())

	_, ok := sessions.CurrentUser()
	assert.False(t, ok)
}

func TestSession_PersistsAcrossReload(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	sessions := NewSessionStore(kv)
	user, err := sessions.Register(testProfile(), "secret-1")
	require.NoError(t, err)

	reloaded := NewSessionStore(kv)
	current, ok := reloaded.CurrentUser()
	require.True(t, ok, "session must survive a reload")
	assert.Equal(t, user.ID, current.ID)

	// Registry survives too: authentication works on the new store.
	_, err = reloaded.Authenticate("asha@example.com", "secret-1")
	assert.NoError(t, err)
}

func TestSession_PersistedCurrentUserExcludesSecret(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	sessions := NewSessionStore(kv)
	_, err := sessions.Register(testProfile(), "secret-1")
	require.NoError(t, err)

	raw, ok, err := kv.Get(kvstore.KeyCurrentUser)
	require.NoError(t, err)
	require.True(t, ok)

	var projected map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &projected))
	assert.NotContains(t, projected, "secret_hash")
}

func TestSession_CorruptedSnapshotsStartEmpty(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	require.NoError(t, kv.Put(kvstore.KeyRegistry, []byte("][")))
	require.NoError(t, kv.Put(kvstore.KeyCurrentUser, []byte("not json at all")))

	sessions := NewSessionStore(kv)
	_, ok := sessions.CurrentUser()
	assert.False(t, ok)

	// A fresh registry accepts the same email again.
	_, err := sessions.Register(testProfile(), "secret-1")
	assert.NoError(t, err)
}
