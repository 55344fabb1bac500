package core

// error_messages.go maps technical errors to user-facing messages.
//
// # Error Codes Reference
//
// Codes are grouped by category so users can quote them to support.
//
// # Data Load Errors (FETCH001)
//
//	FETCH001 - Startup data could not be loaded
//	           Action: Retry the load; nothing is shown until it succeeds
//	           Patterns: "fetch failed", "duplicate id"
//
// # CSV Import Errors (CSV001-CSV099)
//
//	CSV001 - File is not a CSV file
//	         Patterns: "invalid csv"
//
//	CSV002 - File has no header row or no data row
//	         Patterns: "too few lines"
//
//	CSV003 - Required columns could not be matched to any header
//	         Patterns: "missing required columns"
//
//	CSV004 - Every data row was skipped
//	         Patterns: "no valid rows"
//
//	CSV005 - File exceeds the configured import size
//	         Patterns: "file too large", "request body too large"
//
//	CSV006 - Too many imports in progress
//	         Patterns: "too many imports"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - One or more form fields are invalid
//	         Patterns: "validation failed"
//
//	VAL002 - Value is not one of the allowed statuses or types
//	         Patterns: "invalid enum"
//
// # Entity Errors (ENT001-ENT099)
//
//	ENT001 - Record does not exist (it may have been deleted)
//	         Patterns: "record not found"
//
//	ENT002 - Change could not be applied; state is unchanged
//	         Patterns: "mutation failed"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request was cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timed out
//	         Patterns: "context deadline exceeded", "timeout"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the logs for the technical error.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is matched case-insensitively with strings.Contains.
// The first match wins, so specific patterns come before general ones.
// "fetch failed" must precede "record not found": fetch errors often carry
// an HTTP "404 Not Found" status text.
var errorPatterns = []errorPattern{
	// Data load
	{
		pattern: "fetch failed",
		msg: UserMessage{
			Message: "Dashboard data could not be loaded",
			Action:  "Check the data source and retry",
			Code:    "FETCH001",
		},
	},
	{
		pattern: "duplicate id",
		msg: UserMessage{
			Message: "Dashboard data could not be loaded",
			Action:  "Check the data source and retry",
			Code:    "FETCH001",
		},
	},

	// CSV import
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "Please select a valid CSV file",
			Action:  "Choose a file with a .csv extension",
			Code:    "CSV001",
		},
	},
	{
		pattern: "too few lines",
		msg: UserMessage{
			Message: "CSV file must contain at least a header row and one data row",
			Action:  "Add a header row and at least one load",
			Code:    "CSV002",
		},
	},
	{
		pattern: "missing required columns",
		msg: UserMessage{
			Message: "CSV file is missing required columns",
			Action:  "Expected: ID, Status, Origin, Destination, Client, Carrier",
			Code:    "CSV003",
		},
	},
	{
		pattern: "no valid rows",
		msg: UserMessage{
			Message: "No valid load data found in the CSV file",
			Action:  "Make sure every row has origin, destination, client and carrier",
			Code:    "CSV004",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "CSV file exceeds the maximum import size",
			Action:  "Split the file into smaller files",
			Code:    "CSV005",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "CSV file exceeds the maximum import size",
			Action:  "Split the file into smaller files",
			Code:    "CSV005",
		},
	},
	{
		pattern: "too many imports",
		msg: UserMessage{
			Message: "Other imports are still being processed",
			Action:  "Please wait a moment and try again",
			Code:    "CSV006",
		},
	},

	// Validation
	{
		pattern: "validation failed",
		msg: UserMessage{
			Message: "Some fields are invalid",
			Action:  "Correct the highlighted fields and submit again",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid enum",
		msg: UserMessage{
			Message: "Value is not in the allowed list",
			Action:  "Pick one of the listed values",
			Code:    "VAL002",
		},
	},

	// Entities
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "Record not found",
			Action:  "It may have been deleted. Refresh the page",
			Code:    "ENT001",
		},
	},
	{
		pattern: "mutation failed",
		msg: UserMessage{
			Message: "The change could not be applied",
			Action:  "Nothing was changed. Please try again",
			Code:    "ENT002",
		},
	},

	// Requests
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
//
// Example:
//
//	msg := MapError(ErrTooFewLines)
//	// msg.Code == "CSV002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
