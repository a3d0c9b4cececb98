package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
)

// User-facing messages for service errors
const (
	ErrMsgGenericServerError       = "Something went wrong"
	ErrMsgUnknownError             = "Unknown error"
	ErrMsgInvalidRequestError      = "Invalid request. Please check your inputs."
	ErrMsgTooManyRequestsError     = "Too many requests. Please try again later."
	ErrMsgUserNotFoundError        = "User not found"
	ErrMsgInsufficientBalanceError = "Insufficient balance"
	ErrMsgMaxLevelError            = "Max level reached"
	ErrMsgInvalidItemTypeError     = "Invalid item type"
	ErrMsgNegativeBalanceError     = "Balance cannot be negative"
	ErrMsgTotalEarnedDecreaseError = "Total earned cannot decrease"
	ErrMsgTaskNotFoundError        = "Task not found"
	ErrMsgTaskAlreadyClaimedError  = "Task already claimed"
)

// Query parameter names
const (
	QueryParamID    = "id"
	QueryParamLimit = "limit"
)
