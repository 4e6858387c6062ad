// Package session builds the gin-contrib/sessions store backing logins.
package session

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/redis"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// redisPoolSize is the number of idle connections kept to Redis.
const redisPoolSize = 10

// NewStore creates the session store selected by cfg.SessionStore. When no
// secret is configured a random one is generated, so sessions do not survive
// a restart.
func NewStore(cfg *config.Config) (sessions.Store, error) {
	secret := cfg.SessionSecret
	if secret == "" {
		generated, err := utils.GenerateSecret(32)
		if err != nil {
			return nil, err
		}
		slog.Warn("SESSION_SECRET is not set, using a random secret; sessions will not survive a restart")
		secret = generated
	}

	var store sessions.Store
	switch cfg.SessionStore {
	case constants.SessionStoreCookie, "":
		store = cookie.NewStore([]byte(secret))
	case constants.SessionStoreRedis:
		redisAddr := net.JoinHostPort(cfg.RedisHost, cfg.RedisPort)
		redisStore, err := redis.NewStore(
			redisPoolSize,
			"tcp",
			redisAddr,
			"", // username (empty for default user)
			cfg.RedisPassword,
			[]byte(secret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = redisStore
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
	}

	store.Options(Options(cfg.IsProduction()))
	return store, nil
}

// Options returns the cookie attributes for the session cookie
func Options(secure bool) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   int(constants.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure, // true in production (HTTPS)
		SameSite: http.SameSiteLaxMode,
	}
}
