package core

import (
	"strings"
	"testing"
	"time"
)

// sectionedExport builds a well-formed sectioned export with the given
// participant rows appended below the header.
func sectionedExport(rows ...string) string {
	var b strings.Builder
	b.WriteString("1. Summary\n")
	b.WriteString("Meeting title\tMeeting with Jan Nowak\n")
	b.WriteString("Attended participants\t1\n")
	b.WriteString("Start time\t4/28/23, 1:23:45 PM\n")
	b.WriteString("End time\t4/28/23, 2:25:00 PM\n")
	b.WriteString("\n")
	b.WriteString("2. Participants\n")
	b.WriteString("Name\tFirst Join\tLast Leave\tIn-Meeting Duration\tEmail\tParticipant ID (UPN)\tRole\n")
	for _, r := range rows {
		b.WriteString(r)
		b.WriteString("\n")
	}
	b.WriteString("3. In-Meeting Activities\n")
	b.WriteString("Name\tJoin Time\tLeave Time\n")
	return b.String()
}

func participantRow(name, duration, email string) string {
	return strings.Join([]string{name, "4/28/23, 1:23:45 PM", "4/28/23, 2:24:58 PM", duration, email, email, "Presenter"}, "\t")
}

func TestParseSectioned(t *testing.T) {
	text := sectionedExport(participantRow("Jan Nowak", "1m 13s", "j.nowak@gmail.com"))

	rec, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if rec.Title != "Meeting with Jan Nowak" {
		t.Errorf("title = %q, want %q", rec.Title, "Meeting with Jan Nowak")
	}
	wantTime := time.Date(2023, 4, 28, 13, 23, 45, 0, time.UTC)
	if !rec.OccurredAt.Equal(wantTime) {
		t.Errorf("occurredAt = %v, want %v", rec.OccurredAt, wantTime)
	}
	if len(rec.Attendees) != 1 {
		t.Fatalf("attendees = %d, want 1", len(rec.Attendees))
	}
	att := rec.Attendees[0]
	if att.Name != "Jan Nowak" || att.Email != "j.nowak@gmail.com" {
		t.Errorf("attendee = %+v", att)
	}
	if att.Duration != 73*time.Second {
		t.Errorf("duration = %v, want 73s", att.Duration)
	}
}

func TestParseSectionedRowOrder(t *testing.T) {
	text := sectionedExport(
		participantRow("Alpha", "10m", "alpha@example.com"),
		participantRow("Beta", "20m", "beta@example.com"),
		participantRow("Gamma", "30m", "gamma@example.com"),
	)

	rec, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []string{"alpha@example.com", "beta@example.com", "gamma@example.com"}
	if len(rec.Attendees) != len(want) {
		t.Fatalf("attendees = %d, want %d", len(rec.Attendees), len(want))
	}
	for i, email := range want {
		if rec.Attendees[i].Email != email {
			t.Errorf("attendee[%d] = %q, want %q", i, rec.Attendees[i].Email, email)
		}
	}
}

// Re-parsing the same text must yield attendee lists equal by value.
func TestParseSectionedDeterministic(t *testing.T) {
	text := sectionedExport(
		participantRow("Alpha", "10m", "alpha@example.com"),
		participantRow("Beta", "1m 13s", "beta@example.com"),
	)

	first, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	second, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() second error: %v", err)
	}
	if len(first.Attendees) != len(second.Attendees) {
		t.Fatalf("attendee counts differ: %d vs %d", len(first.Attendees), len(second.Attendees))
	}
	for i := range first.Attendees {
		if first.Attendees[i] != second.Attendees[i] {
			t.Errorf("attendee[%d] differs: %+v vs %+v", i, first.Attendees[i], second.Attendees[i])
		}
	}
}

func TestParseSectionedFailures(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCode string
	}{
		{
			name:     "missing participants section",
			text:     "1. Summary\nMeeting title\tStandup\nStart time\t4/28/23, 1:23:45 PM\n",
			wantCode: CodeMissingParticipantsSection,
		},
		{
			name:     "missing summary section",
			text:     "2. Participants\nName\tEmail\tIn-Meeting Duration\n",
			wantCode: CodeMissingSummarySection,
		},
		{
			name: "missing meeting title",
			text: "1. Summary\nStart time\t4/28/23, 1:23:45 PM\n2. Participants\n" +
				"Name\tFirst Join\tLast Leave\tIn-Meeting Duration\tEmail\n",
			wantCode: CodeMissingMeetingTitle,
		},
		{
			name: "empty meeting title",
			text: "1. Summary\nMeeting title\t\nStart time\t4/28/23, 1:23:45 PM\n2. Participants\n" +
				"Name\tFirst Join\tLast Leave\tIn-Meeting Duration\tEmail\n",
			wantCode: CodeMissingMeetingTitle,
		},
		{
			name: "missing start time",
			text: "1. Summary\nMeeting title\tStandup\n2. Participants\n" +
				"Name\tFirst Join\tLast Leave\tIn-Meeting Duration\tEmail\n",
			wantCode: CodeMissingStartTime,
		},
		{
			name: "unparseable start time",
			text: "1. Summary\nMeeting title\tStandup\nStart time\tyesterday afternoon\n2. Participants\n" +
				"Name\tFirst Join\tLast Leave\tIn-Meeting Duration\tEmail\n",
			wantCode: CodeInvalidDateFormat,
		},
		{
			name: "header missing duration column",
			text: "1. Summary\nMeeting title\tStandup\nStart time\t4/28/23, 1:23:45 PM\n2. Participants\n" +
				"Name\tEmail\tRole\n",
			wantCode: CodeInvalidHeader,
		},
		{
			name:     "invalid email aborts whole file",
			text:     sectionedExport(participantRow("Jan Nowak", "1m 13s", "not-an-email")),
			wantCode: CodeInvalidEmailFormat,
		},
		{
			name:     "no attendee rows",
			text:     sectionedExport(),
			wantCode: CodeNoAttendees,
		},
		{
			name: "rows without email do not count as attendees",
			text: sectionedExport(
				strings.Join([]string{"Ghost", "x", "y", "10m", ""}, "\t"),
			),
			wantCode: CodeNoAttendees,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatalf("Parse() succeeded, want code %s", tt.wantCode)
			}
			ie, ok := err.(*ImportError)
			if !ok {
				t.Fatalf("error type %T, want *ImportError", err)
			}
			if ie.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", ie.Code, tt.wantCode)
			}
		})
	}
}

func TestParseSectionedSkipsDefectiveRows(t *testing.T) {
	text := sectionedExport(
		"Short Row\tonly\tthree",
		participantRow("", "", "empty.duration@example.com"),
		participantRow("Jan Nowak", "1m 13s", "j.nowak@gmail.com"),
		strings.Join([]string{"No Email", "x", "y", "5m", ""}, "\t"),
	)

	rec, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(rec.Attendees) != 2 {
		t.Fatalf("attendees = %d, want 2", len(rec.Attendees))
	}
	// Unparseable duration is tolerated and degrades to zero.
	if rec.Attendees[0].Duration != 0 {
		t.Errorf("empty duration = %v, want 0", rec.Attendees[0].Duration)
	}
	if rec.Attendees[1].Email != "j.nowak@gmail.com" {
		t.Errorf("attendee[1] = %q", rec.Attendees[1].Email)
	}
}

// Rows after the "3." section marker belong to another table and must not
// leak into the attendee list.
func TestParseSectionedStopsAtNextSection(t *testing.T) {
	text := sectionedExport(participantRow("Jan Nowak", "1m 13s", "j.nowak@gmail.com"))
	rec, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(rec.Attendees) != 1 {
		t.Errorf("attendees = %d, want 1", len(rec.Attendees))
	}
}
