package constants

// Session / context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"
	HeaderRequestID     = "X-Request-ID"
)

// Authentication
const (
	MinPasswordLength = 8
	SessionMaxAge     = 86400 * 7 // 7 days
	SessionCookieName = "clearday_session"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Task priorities (1 = highest urgency, 4 = lowest)
const (
	PriorityMin     = 1
	PriorityMax     = 4
	PriorityDefault = 3
)

// DueSoonWindowDays is the inclusive upper bound (in days from now) for a
// task to be classified as due "soon".
const DueSoonWindowDays = 2

// MaxSuggestions caps assistant responses.
const MaxSuggestions = 3

// Display color defaults
const (
	DefaultProjectColor  = "#3B82F6"
	DefaultCategoryColor = "#6B7280"
)
