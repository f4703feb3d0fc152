// Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # Parse Errors (CSV001-CSV099)
//
// Errors raised while splitting the file into rows and columns:
//
//	CSV001 - The file could not be read as a table
//	         Action: Check the line and column in the details for stray quotes or extra separators
//	         Patterns: "parse error"
//
// # Export Errors (EXP001-EXP099)
//
// Errors raised while projecting a table for download:
//
//	EXP001 - A selected column does not exist in this file
//	         Action: Reload the file and choose the columns again
//	         Patterns: "unknown column"
//
//	EXP002 - The export request could not be read
//	         Action: Reload the page and try again
//	         Patterns: "invalid export request"
//
// # File Errors (FILE001-FILE099)
//
// Errors related to file handling and decoding:
//
//	FILE001 - File exceeds maximum size limit (16MB)
//	          Action: Split the file into smaller chunks
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - File is not a valid CSV
//	          Action: Ensure file is comma or semicolon separated
//	          Patterns: "invalid csv"
//
//	FILE003 - File contains invalid characters
//	          Action: Save file as UTF-8 encoding
//	          Patterns: "encoding error"
//
//	FILE004 - No file was selected
//	          Action: Please select a CSV file to upload
//	          Patterns: "no file provided"
//
//	FILE005 - The uploaded file is empty
//	          Action: Please upload a CSV file with a header row
//	          Patterns: "empty file"
//
//	FILE006 - Only .csv files are accepted
//	          Action: Export the spreadsheet as CSV and upload it again
//	          Patterns: "not a csv file"
//
// # Session Errors (SES001-SES099)
//
// Errors related to stored working tables:
//
//	SES001 - Upload session not found
//	         Action: The upload may have expired. Please upload the file again
//	         Patterns: "session not found"
//
//	SES002 - Session storage is unavailable
//	         Action: Please try again in a few moments
//	         Patterns: "connection refused", "session store unavailable"
//
// # Upload Errors (UPL001-UPL099)
//
// Errors related to request processing:
//
//	UPL001 - System is busy processing other uploads
//	         Action: Please wait a moment and try again
//	         Patterns: "too many uploads"
//
//	UPL002 - Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	UPL003 - Request timed out
//	         Action: Try uploading a smaller file or check your connection
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
// Errors related to request throttling:
//
//	RATE001 - Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Authentication (AUTH001-AUTH099)
//
// Errors related to API key checks:
//
//	AUTH001 - Authentication is required
//	          Action: Provide a valid API key in the X-API-Key header
//	          Patterns: "api key"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones. "empty file" is checked first because an
// empty upload also surfaces as a ParseError.
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated patterns to understand what triggered it
//  3. Review the suggested action to guide the user
//  4. If ERR000, check application logs for the original technical error

package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Empty Input (FILE005)
	// Checked first: an empty file also surfaces as a parse error.
	// =========================================================================
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a CSV file with a header row",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Parse Errors (CSV001)
	// These errors occur when the file structure cannot be read.
	// =========================================================================
	{
		pattern: "parse error",
		msg: UserMessage{
			Message: "The file could not be read as a table",
			Action:  "Check the line and column in the details for stray quotes or extra separators",
			Code:    "CSV001",
		},
	},

	// =========================================================================
	// Export Errors (EXP001)
	// These errors occur when an export requests something the table lacks.
	// =========================================================================
	{
		pattern: "unknown column",
		msg: UserMessage{
			Message: "A selected column does not exist in this file",
			Action:  "Reload the file and choose the columns again",
			Code:    "EXP001",
		},
	},
	{
		pattern: "invalid export request",
		msg: UserMessage{
			Message: "The export request could not be read",
			Action:  "Reload the page and try again",
			Code:    "EXP002",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE006)
	// These errors occur when processing uploaded files.
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit (16MB)",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit (16MB)",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma or semicolon separated",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save file as UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "not a csv file",
		msg: UserMessage{
			Message: "Only .csv files are accepted",
			Action:  "Export the spreadsheet as CSV and upload it again",
			Code:    "FILE006",
		},
	},

	// =========================================================================
	// Session Errors (SES001-SES002)
	// These errors occur when a stored working table cannot be reached.
	// =========================================================================
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Upload session not found",
			Action:  "The upload may have expired. Please upload the file again",
			Code:    "SES001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Session storage is unavailable",
			Action:  "Please try again in a few moments",
			Code:    "SES002",
		},
	},
	{
		pattern: "session store unavailable",
		msg: UserMessage{
			Message: "Session storage is unavailable",
			Action:  "Please try again in a few moments",
			Code:    "SES002",
		},
	},

	// =========================================================================
	// Upload Errors (UPL001-UPL003)
	// These errors occur while a request is being processed.
	// =========================================================================
	{
		pattern: "too many uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try uploading a smaller file or check your connection",
			Code:    "UPL003",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// These errors occur when request limits are exceeded.
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},

	// =========================================================================
	// Authentication (AUTH001)
	// These errors occur when an API key is missing or wrong.
	// =========================================================================
	{
		pattern: "api key",
		msg: UserMessage{
			Message: "Authentication is required",
			Action:  "Provide a valid API key in the X-API-Key header",
			Code:    "AUTH001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := &UnknownColumnError{Column: "cpf"}
//	msg := MapError(err)
//	// msg.Code == "EXP001"
//	// msg.Message == "A selected column does not exist in this file"
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
//
// Example output: "Upload session not found (Code: SES001). The upload may have expired. Please upload the file again"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
// Use this to decide whether to show the raw error or the mapped user message.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
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

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// The returned UserError preserves the original technical error for logging via Unwrap(),
// while providing a clean user message via Error().
//
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
