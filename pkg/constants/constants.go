package constants

//============== CACHE KEYS ==============

// Redis key formats used by the auth flow.
const (
	// Refresh token allowlist. Format: refresh_token:<userID> -> token
	CacheKeyRefreshToken = "refresh_token:%s"

	// Failed login counter. Format: login_attempts:<userID> -> count
	CacheKeyLoginAttempts = "login_attempts:%s"

	// Lockout marker after too many failed logins.
	// Format: lockout:<userID> -> "locked"
	CacheKeyLockout = "lockout:%s"
)
