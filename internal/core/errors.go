// Package core provides the business logic for attendance import operations.
//
// # Error Codes Reference
//
// This file defines the stable error codes surfaced to callers. When users
// report a failed upload they can quote the error code to support staff for
// faster diagnosis.
//
// Codes are grouped by failure class:
//
// # Transport defects
//
//	EMPTY_FILE     - The uploaded file contains no bytes
//	ENCODING_ERROR - The file could not be decoded as text
//
// # Type-mismatch defects
//
//	TYPE_MISMATCH  - Content sniffed as JSON/XML/HTML despite a CSV-like name
//	BINARY_CONTENT - Content is binary (PDF, ZIP/Office, or non-text bytes)
//
// # Structural defects
//
//	INVALID_CSV_STRUCTURE        - No delimiter found in any line
//	MISSING_SUMMARY_SECTION      - Sectioned export lacks "1. Summary"
//	MISSING_PARTICIPANTS_SECTION - Sectioned export lacks "2. Participants"
//	MISSING_MEETING_TITLE        - Sectioned export lacks a meeting title
//	MISSING_START_TIME           - Sectioned export lacks a start time
//	MISSING_TITLE                - Simple export has an empty title
//	INVALID_HEADER               - Participants header lacks required columns
//	INSUFFICIENT_DATA            - Simple export has fewer than 3 lines
//
// # Semantic defects
//
//	INVALID_DATE_FORMAT  - A required date field could not be parsed
//	INVALID_EMAIL_FORMAT - A participant email is syntactically invalid
//	NO_ATTENDEES         - No attendee rows survived filtering
//
// All codes are non-retryable: they mean the given file is wrong, not that a
// transient fault occurred.
package core

import (
	"fmt"
	"path/filepath"
)

// Error codes surfaced by the classifier, parser, and batch orchestrator.
const (
	CodeEmptyFile                  = "EMPTY_FILE"
	CodeEncodingError              = "ENCODING_ERROR"
	CodeTypeMismatch               = "TYPE_MISMATCH"
	CodeBinaryContent              = "BINARY_CONTENT"
	CodeInvalidCSVStructure        = "INVALID_CSV_STRUCTURE"
	CodeMissingSummarySection      = "MISSING_SUMMARY_SECTION"
	CodeMissingParticipantsSection = "MISSING_PARTICIPANTS_SECTION"
	CodeMissingMeetingTitle        = "MISSING_MEETING_TITLE"
	CodeMissingStartTime           = "MISSING_START_TIME"
	CodeMissingTitle               = "MISSING_TITLE"
	CodeInvalidHeader              = "INVALID_HEADER"
	CodeInsufficientData           = "INSUFFICIENT_DATA"
	CodeInvalidDateFormat          = "INVALID_DATE_FORMAT"
	CodeInvalidEmailFormat         = "INVALID_EMAIL_FORMAT"
	CodeNoAttendees                = "NO_ATTENDEES"
)

// ImportError is the typed failure returned by every stage of the pipeline.
// Code is one of the constants above; the optional fields carry operator
// diagnostics (which file, what the content really was).
type ImportError struct {
	Code              string
	Message           string
	Filename          string
	DetectedType      string
	OriginalExtension string
}

func (e *ImportError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s: %s: %s", e.Filename, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// newError builds an ImportError with a formatted message.
func newError(code, format string, args ...any) *ImportError {
	return &ImportError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// typeMismatchError builds the mismatch error naming both the declared file
// extension and the detected true content type.
func typeMismatchError(code, detected, filename string) *ImportError {
	ext := filepath.Ext(filename)
	return &ImportError{
		Code:              code,
		Message:           fmt.Sprintf("file %q declared as %q but content is %s", filename, ext, detected),
		DetectedType:      detected,
		OriginalExtension: ext,
	}
}

// withFile returns a copy of the error annotated with the offending filename.
// Classifier and parser errors are file-agnostic; the batch orchestrator
// attaches the filename before surfacing them.
func (e *ImportError) withFile(name string) *ImportError {
	c := *e
	c.Filename = name
	return &c
}

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// userMessages maps error codes to user-facing guidance. Unknown codes fall
// back to defaultMessage.
var userMessages = map[string]UserMessage{
	CodeEmptyFile: {
		Message: "The uploaded file is empty",
		Action:  "Please upload an attendance export with data rows",
	},
	CodeEncodingError: {
		Message: "The file contains characters that could not be decoded",
		Action:  "Re-export the file as UTF-8 or UTF-16 text",
	},
	CodeTypeMismatch: {
		Message: "The file is not a CSV attendance export",
		Action:  "Check that you selected the exported attendance file, not another document",
	},
	CodeBinaryContent: {
		Message: "The file contains binary data, not text",
		Action:  "Export the attendance report as CSV, not PDF or Excel binary",
	},
	CodeInvalidCSVStructure: {
		Message: "The file does not look like delimited text",
		Action:  "Ensure the export uses comma, tab, or semicolon delimiters",
	},
	CodeMissingSummarySection: {
		Message: "The export is missing its \"1. Summary\" section",
		Action:  "Re-export the full attendance report",
	},
	CodeMissingParticipantsSection: {
		Message: "The export is missing its \"2. Participants\" section",
		Action:  "Re-export the full attendance report",
	},
	CodeMissingMeetingTitle: {
		Message: "The export has no meeting title",
		Action:  "Check the Meeting title row of the export",
	},
	CodeMissingStartTime: {
		Message: "The export has no start time",
		Action:  "Check the Start time row of the export",
	},
	CodeMissingTitle: {
		Message: "The first line has an empty meeting title",
		Action:  "Add the meeting title to the first line",
	},
	CodeInvalidHeader: {
		Message: "The participant table header is missing required columns",
		Action:  "Headers must include Name and Email columns",
	},
	CodeInsufficientData: {
		Message: "The file has too few lines to be an attendance export",
		Action:  "A valid export needs a title line, a header line, and data rows",
	},
	CodeInvalidDateFormat: {
		Message: "A date in the file could not be parsed",
		Action:  "Use a date like 2024-01-15 or 1/15/24, 2:00:00 PM",
	},
	CodeInvalidEmailFormat: {
		Message: "A participant email address is invalid",
		Action:  "Fix the email address and upload the file again",
	},
	CodeNoAttendees: {
		Message: "No participants with email addresses were found",
		Action:  "Check that participant rows carry email addresses",
	},
}

// defaultMessage is returned for unrecognized errors. Support staff should
// check application logs for the original technical error in this case.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a pipeline error to a user-friendly message.
//
// Example:
//
//	msg := MapError(err)
//	// msg.Code == "INVALID_EMAIL_FORMAT"
//	// msg.Message == "A participant email address is invalid"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	if ie, ok := err.(*ImportError); ok {
		if msg, ok := userMessages[ie.Code]; ok {
			msg.Code = ie.Code
			return msg
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
