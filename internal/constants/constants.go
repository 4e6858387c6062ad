package constants

import "time"

// Session
const (
	SessionCookieName = "task_session"
	SessionMaxAge     = 7 * 24 * time.Hour
)

// Context keys shared by the session and the gin context
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "user"
	ContextKeyTaskID = "task_id"
)

// Task limits
const (
	MaxTaskTitleLength = 200
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Session stores
const (
	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"
)
