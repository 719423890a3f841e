package constants

// Session and context keys
const (
	SessionCookieName = "skillanthropy_session"
	ContextKeyUserID  = "user_id"
	ContextKeyRequest = "request_id"

	ContextKeyTask          = "task"
	ContextKeyCharity       = "charity"
	ContextKeyCharityMember = "charity_member"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// ExplorePageSize is the fixed page size of the task explore listing.
	ExplorePageSize = 12
)

// Validation
const (
	MinPasswordLength   = 8
	MaxAIGeneratedTasks = 20
)

// Dashboard
const (
	// NearingDeadlineDays counts whole days left, so 7 days and some hours still qualifies.
	NearingDeadlineDays = 7
	NoMatchingTasks       = "No matching tasks found"
	NoActiveTasks         = "No active tasks"
)
