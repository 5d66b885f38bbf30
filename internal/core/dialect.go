package core

// dialect.go detects which of the two attendance-export dialects a decoded
// file uses and dispatches to the matching parser. Each dialect keeps its
// invariants local: detection picks the variant, the variant parses.

import (
	"regexp"
	"strings"
	"time"
)

// Dialect identifies an attendance-export format.
type Dialect int

const (
	// DialectSimple is the minimal comma-delimited format: a title line, a
	// header line, and data rows.
	DialectSimple Dialect = iota
	// DialectSectioned is the tab-delimited multi-section export with
	// numbered "1.", "2.", "3." sections.
	DialectSectioned
)

func (d Dialect) String() string {
	if d == DialectSectioned {
		return "sectioned"
	}
	return "simple"
}

// Section markers and field labels of the sectioned dialect.
const (
	markerSummary      = "1. Summary"
	markerParticipants = "2. Participants"
	labelMeetingTitle  = "Meeting title"
	labelStartTime     = "Start time"
	labelParticipantID = "Participant ID (UPN)"
)

// DetectDialect classifies decoded text as sectioned or simple.
// Text is sectioned if it carries either numbered section marker, or both a
// meeting-title field and a Participant ID (UPN) column header.
func DetectDialect(text string) Dialect {
	if strings.Contains(text, markerSummary) || strings.Contains(text, markerParticipants) {
		return DialectSectioned
	}
	if strings.Contains(text, labelMeetingTitle) && strings.Contains(text, labelParticipantID) {
		return DialectSectioned
	}
	return DialectSimple
}

// Parse decodes attendance-export text that the classifier already accepted
// into a validated MeetingRecord. Errors are *ImportError values with the
// stable codes from errors.go.
func Parse(text string) (*MeetingRecord, error) {
	if DetectDialect(text) == DialectSectioned {
		return parseSectioned(text)
	}
	return parseSimple(text)
}

// emailRegex approximates RFC 5322: a local part of allowed symbol classes,
// then one or more DNS labels separated by dots, each label alphanumeric
// with internal hyphens only. Applied case-insensitively to the full string.
var emailRegex = regexp.MustCompile(
	`(?i)^[a-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-z0-9](?:[a-z0-9-]*[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9-]*[a-z0-9])?)*$`)

// validEmail reports whether s is a syntactically acceptable email address.
func validEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// newMeetingRecord builds a MeetingRecord, enforcing the invariant that a
// meeting always has at least one attendee.
func newMeetingRecord(title string, occurredAt time.Time, attendees []AttendeeRecord) (*MeetingRecord, error) {
	if len(attendees) == 0 {
		return nil, newError(CodeNoAttendees, "no attendees with email addresses found")
	}
	return &MeetingRecord{Title: title, OccurredAt: occurredAt, Attendees: attendees}, nil
}

// splitLines splits text into lines, dropping carriage returns. Line content
// is otherwise preserved so tab fields survive intact.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// stripQuotes removes surrounding double quotes and whitespace from a field.
func stripQuotes(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}
