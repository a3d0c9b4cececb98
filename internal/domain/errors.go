package domain

import "errors"

// Error message string constants - single source of truth for error messages
const (
	// User errors
	ErrMsgUserNotFound        = "user not found"
	ErrMsgTotalEarnedDecrease = "total earned cannot decrease"
	ErrMsgNegativeBalance     = "balance cannot be negative"

	// Shop errors
	ErrMsgInsufficientFunds = "insufficient balance"
	ErrMsgMaxLevel          = "max level reached"
	ErrMsgInvalidItemType   = "invalid item type"

	// Task errors
	ErrMsgTaskNotFound       = "task not found"
	ErrMsgTaskAlreadyClaimed = "task already claimed"

	// Rate limiting
	ErrMsgRateLimited = "too many requests"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
	ErrMsgTxClosed      = "tx is closed"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrUserNotFound        = errors.New(ErrMsgUserNotFound)
	ErrTotalEarnedDecrease = errors.New(ErrMsgTotalEarnedDecrease)
	ErrNegativeBalance     = errors.New(ErrMsgNegativeBalance)

	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrMaxLevel          = errors.New(ErrMsgMaxLevel)
	ErrInvalidItemType   = errors.New(ErrMsgInvalidItemType)

	ErrTaskNotFound       = errors.New(ErrMsgTaskNotFound)
	ErrTaskAlreadyClaimed = errors.New(ErrMsgTaskAlreadyClaimed)

	ErrRateLimited = errors.New(ErrMsgRateLimited)

	ErrDatabaseError = errors.New(ErrMsgDatabaseError)
	ErrTxClosed      = errors.New(ErrMsgTxClosed)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
