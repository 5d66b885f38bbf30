package core

// simple.go parses the minimal comma-delimited attendance format:
//
//	<title>[,<date>]
//	Name,Email,Duration
//	<name>,<email>,<duration>
//	...
//
// Data rows honor standard CSV double-quote escaping. Malformed rows are
// skipped; a present-but-invalid email aborts the file, matching the
// sectioned dialect's policy.

import (
	"encoding/csv"
	"io"
	"strings"
	"time"
)

// simpleMinLines is the minimum number of non-empty lines a simple-dialect
// file must have: title, header, and at least one data row.
const simpleMinLines = 3

// simpleDateLayouts are the accepted first-line date formats, tried in order.
var simpleDateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
	"1/2/06",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Positions of the fields this parser consumes within a data row.
const (
	colSimpleName     = 0
	colSimpleEmail    = 1
	colSimpleDuration = 2
)

// parseSimple parses the simple dialect into a MeetingRecord.
// A missing first-line date defaults the meeting date to the current time;
// the dialect permits a title-only first line.
func parseSimple(text string) (*MeetingRecord, error) {
	var lines []string
	for _, l := range splitLines(text) {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < simpleMinLines {
		return nil, newError(CodeInsufficientData,
			"expected at least %d lines, got %d", simpleMinLines, len(lines))
	}

	titleFields := strings.Split(lines[0], ",")
	title := stripQuotes(titleFields[0])

	occurredAt := time.Now()
	if len(titleFields) > 1 && stripQuotes(titleFields[1]) != "" {
		raw := stripQuotes(titleFields[1])
		parsed, ok := parseSimpleDate(raw)
		if !ok {
			return nil, newError(CodeInvalidDateFormat, "unparseable date %q", raw)
		}
		occurredAt = parsed
	}
	if title == "" {
		return nil, newError(CodeMissingTitle, "first line has no meeting title")
	}

	header := strings.ToLower(lines[1])
	if !strings.Contains(header, "name") || !strings.Contains(header, "email") {
		return nil, newError(CodeInvalidHeader, "header must contain name and email columns")
	}

	attendees, err := parseSimpleRows(strings.Join(lines[2:], "\n"))
	if err != nil {
		return nil, err
	}

	return newMeetingRecord(title, occurredAt, attendees)
}

// parseSimpleRows reads the data rows as CSV records. Rows that fail to
// parse or lack an email column are skipped; an invalid non-empty email
// aborts the parse.
func parseSimpleRows(data string) ([]AttendeeRecord, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var attendees []AttendeeRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(row) <= colSimpleEmail {
			continue
		}

		email := strings.TrimSpace(row[colSimpleEmail])
		if email == "" {
			continue
		}
		if !validEmail(email) {
			return nil, newError(CodeInvalidEmailFormat, "invalid email %q", email)
		}

		var duration time.Duration
		if len(row) > colSimpleDuration {
			duration = ParseFlexibleDuration(row[colSimpleDuration])
		}

		attendees = append(attendees, AttendeeRecord{
			Name:     strings.TrimSpace(row[colSimpleName]),
			Email:    email,
			Duration: duration,
		})
	}
	return attendees, nil
}

// parseSimpleDate parses a first-line date against the known layouts.
func parseSimpleDate(s string) (time.Time, bool) {
	for _, layout := range simpleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
