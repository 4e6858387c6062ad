package session

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/constants"
)

func TestNewStore_Cookie(t *testing.T) {
	store, err := NewStore(&config.Config{
		SessionStore:  constants.SessionStoreCookie,
		SessionSecret: "test-secret",
	})
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestNewStore_GeneratesSecretWhenUnset(t *testing.T) {
	store, err := NewStore(&config.Config{SessionStore: constants.SessionStoreCookie})
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestNewStore_UnknownBackend(t *testing.T) {
	_, err := NewStore(&config.Config{SessionStore: "memcached", SessionSecret: "x"})
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	opts := Options(true)

	assert.Equal(t, "/", opts.Path)
	assert.Equal(t, 7*24*60*60, opts.MaxAge)
	assert.True(t, opts.HttpOnly)
	assert.True(t, opts.Secure)
	assert.Equal(t, http.SameSiteLaxMode, opts.SameSite)

	assert.False(t, Options(false).Secure)
}
