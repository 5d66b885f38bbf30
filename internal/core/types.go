// Package core implements the attendance import pipeline: content
// classification, dialect parsing, and batch orchestration.
// This package has no HTTP dependencies and can be driven by any frontend.
package core

import (
	"time"

	"github.com/google/uuid"
)

// MaxFileSize is the maximum allowed upload file size (20MB).
var MaxFileSize int64 = 20 * 1024 * 1024

// Encoding identifies the detected text encoding of an upload.
type Encoding int

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
)

// String returns the IANA-style name of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingUTF8BOM:
		return "utf-8-bom"
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	default:
		return "utf-8"
	}
}

// bomLen returns the byte-order-mark length to skip during decoding.
func (e Encoding) bomLen() int {
	switch e {
	case EncodingUTF8BOM:
		return 3
	case EncodingUTF16LE, EncodingUTF16BE:
		return 2
	default:
		return 0
	}
}

// RawUpload is one file as received from the transport layer: raw bytes plus
// the client-declared filename and content-type label. It is consumed once
// by the classifier and never mutated.
type RawUpload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Detection is the classifier's result for a file that passed all
// content checks.
type Detection struct {
	Encoding Encoding
	// Text is the fully decoded file content, BOM stripped, ready for the
	// dialect parser.
	Text string
}

// AttendeeRecord is one participant row extracted from an attendance export.
// Records are owned by the MeetingRecord that parsed them.
type AttendeeRecord struct {
	Name     string
	Email    string
	Duration time.Duration
}

// MeetingRecord is a fully validated attendance export. It is never
// constructed with zero attendees; parsing fails instead.
type MeetingRecord struct {
	Title      string
	OccurredAt time.Time
	Attendees  []AttendeeRecord
}

// Key returns the aggregation key for this meeting: title plus calendar date.
// Files sharing the same key contribute to the same summary rows.
func (m *MeetingRecord) Key() string {
	return m.Title + "|" + m.OccurredAt.Format("2006-01-02")
}

// Attendant is the durable, deduplicated-by-email participant entity.
// Identity is exact-string email equality; callers must not normalize case
// or whitespace before lookup.
type Attendant struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Meeting is the durable meeting entity created during the commit phase.
type Meeting struct {
	ID         uuid.UUID
	Title      string
	OccurredAt time.Time
	SummaryID  uuid.UUID
}

// Attendance links an attendant to a meeting with the time they spent in it.
type Attendance struct {
	ID          uuid.UUID
	MeetingID   uuid.UUID
	AttendantID uuid.UUID
	Duration    time.Duration
}

// Summary is the durable batch artifact: a rendered attendance table plus a
// spreadsheet-serializable payload, referencing every meeting in the batch.
type Summary struct {
	ID          uuid.UUID
	Table       string
	Spreadsheet []byte
	MeetingIDs  []uuid.UUID
	CreatedAt   time.Time
}

// BatchResult is returned when an entire upload batch committed durably.
type BatchResult struct {
	SummaryID uuid.UUID
	Table     string
}
