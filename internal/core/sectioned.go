package core

// sectioned.go parses the tab-delimited, multi-section attendance export:
// a "1. Summary" section with labeled fields, a "2. Participants" table, and
// an optional "3." section that terminates the table.

import (
	"strings"
	"time"
)

// sectionedTimeLayouts are the accepted start-time formats, tried in order.
// Exports write locale-style timestamps like "4/28/23, 1:23:45 PM".
var sectionedTimeLayouts = []string{
	"1/2/06, 3:04:05 PM",
	"1/2/2006, 3:04:05 PM",
	"01/02/06, 3:04:05 PM",
	"01/02/2006, 3:04:05 PM",
	"1/2/06, 15:04:05",
	"1/2/2006, 15:04:05",
	"2006-01-02 15:04:05",
}

// participantMinFields is the minimum tab-field count for a data row to be
// considered; shorter rows are skipped, not failed.
const participantMinFields = 5

// Positions of the fields this parser consumes within a participant row.
const (
	colParticipantName     = 0
	colParticipantDuration = 3
	colParticipantEmail    = 4
)

// parseSectioned parses the sectioned dialect into a MeetingRecord.
//
// Both numbered section markers must be present; the participants header must
// name the Name, Email, and In-Meeting Duration columns. A non-empty email
// that fails the syntax check aborts the whole parse: the orchestrator caches
// exactly one parse per file and needs a complete, correct attendee set, so
// silently dropping a bad row would corrupt downstream aggregates. Rows
// without an email are skipped.
func parseSectioned(text string) (*MeetingRecord, error) {
	lines := splitLines(text)

	if findMarker(lines, markerSummary) < 0 {
		return nil, newError(CodeMissingSummarySection, "section %q not found", markerSummary)
	}
	participantsIdx := findMarker(lines, markerParticipants)
	if participantsIdx < 0 {
		return nil, newError(CodeMissingParticipantsSection, "section %q not found", markerParticipants)
	}

	title, err := summaryField(lines, labelMeetingTitle, CodeMissingMeetingTitle)
	if err != nil {
		return nil, err
	}

	startRaw, err := summaryField(lines, labelStartTime, CodeMissingStartTime)
	if err != nil {
		return nil, err
	}
	occurredAt, ok := parseSectionedTime(startRaw)
	if !ok {
		return nil, newError(CodeInvalidDateFormat, "unparseable start time %q", startRaw)
	}

	// The line immediately after the participants marker is the header row.
	if participantsIdx+1 >= len(lines) {
		return nil, newError(CodeInvalidHeader, "no header row after %q", markerParticipants)
	}
	header := lines[participantsIdx+1]
	if !strings.Contains(header, "Name") ||
		!strings.Contains(header, "Email") ||
		!strings.Contains(header, "In-Meeting Duration") {
		return nil, newError(CodeInvalidHeader,
			"participants header must contain Name, Email, and In-Meeting Duration")
	}

	var attendees []AttendeeRecord
	for _, line := range lines[participantsIdx+2:] {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "3.") {
			break
		}

		fields := strings.Split(line, "\t")
		if len(fields) < participantMinFields {
			continue
		}

		email := strings.TrimSpace(fields[colParticipantEmail])
		if email == "" {
			continue
		}
		if !validEmail(email) {
			return nil, newError(CodeInvalidEmailFormat, "invalid email %q", email)
		}

		attendees = append(attendees, AttendeeRecord{
			Name:     strings.TrimSpace(fields[colParticipantName]),
			Email:    email,
			Duration: ParseFlexibleDuration(fields[colParticipantDuration]),
		})
	}

	return newMeetingRecord(title, occurredAt, attendees)
}

// findMarker returns the index of the first line whose trimmed content starts
// with the given section marker, or -1.
func findMarker(lines []string, marker string) int {
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), marker) {
			return i
		}
	}
	return -1
}

// summaryField extracts the value of a labeled summary row: the first line
// starting with the label followed by a tab, second tab-field is the value.
// A missing line or empty value yields an error with the given code.
func summaryField(lines []string, label, missingCode string) (string, error) {
	for _, line := range lines {
		if !strings.HasPrefix(line, label+"\t") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			break
		}
		value := stripQuotes(fields[1])
		if value == "" {
			break
		}
		return value, nil
	}
	return "", newError(missingCode, "summary field %q missing or empty", label)
}

// parseSectionedTime parses a start-time value against the known layouts.
// Narrow and non-breaking spaces before AM/PM are normalized first; some
// exports use them.
func parseSectionedTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, " ", " ")
	for _, layout := range sectionedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
