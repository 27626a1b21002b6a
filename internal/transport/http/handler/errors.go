package handler

// Client-visible error strings. Code and token failures are deliberately
// collapsed: callers must not be able to tell a wrong code from an
// expired or never-issued one, nor which token check failed.
const (
	errInternalServer   = "Internal server error"
	errInvalidCode      = "invalid or expired code"
	errNotAuthenticated = "not authenticated"
	errUserNotFound     = "User not found"
)
