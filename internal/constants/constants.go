package constants

import "time"

// Context and session keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "user"
	ContextKeyTask   = "task"
)

// SessionCookieName is the cookie that carries the signed session id.
const SessionCookieName = "game_event_session"

// Credential limits
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 6
)

// Task limits
const (
	MaxTitleLength    = 255
	MaxTaskTypeLength = 50
)

// DefaultSessionMaxAge is how long a session lives after its last write.
const DefaultSessionMaxAge = 24 * time.Hour

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 100000
)
