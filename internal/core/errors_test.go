package core

import (
	"errors"
	"testing"
)

func TestImportErrorString(t *testing.T) {
	e := newError(CodeInvalidHeader, "missing %s column", "Email")
	if got, want := e.Error(), "INVALID_HEADER: missing Email column"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	withFile := e.withFile("meeting.csv")
	if got, want := withFile.Error(), "meeting.csv: INVALID_HEADER: missing Email column"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	// The original stays file-agnostic; annotation copies.
	if e.Filename != "" {
		t.Errorf("withFile mutated the original: %q", e.Filename)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"known code", newError(CodeInvalidEmailFormat, "bad email"), CodeInvalidEmailFormat},
		{"unknown code", &ImportError{Code: "SOMETHING_NEW"}, "ERR000"},
		{"plain error", errors.New("boom"), "ERR000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := MapError(tt.err)
			if msg.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", msg.Code, tt.wantCode)
			}
			if msg.Message == "" || msg.Action == "" {
				t.Errorf("incomplete message: %+v", msg)
			}
		})
	}

	if msg := MapError(nil); msg != (UserMessage{}) {
		t.Errorf("MapError(nil) = %+v, want zero value", msg)
	}
}

func TestEveryCodeHasUserMessage(t *testing.T) {
	codes := []string{
		CodeEmptyFile, CodeEncodingError, CodeTypeMismatch, CodeBinaryContent,
		CodeInvalidCSVStructure, CodeMissingSummarySection, CodeMissingParticipantsSection,
		CodeMissingMeetingTitle, CodeMissingStartTime, CodeMissingTitle,
		CodeInvalidHeader, CodeInsufficientData, CodeInvalidDateFormat,
		CodeInvalidEmailFormat, CodeNoAttendees,
	}
	for _, code := range codes {
		if _, ok := userMessages[code]; !ok {
			t.Errorf("code %s has no user message", code)
		}
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(newError(CodeEmptyFile, "zero bytes"))
	want := "The uploaded file is empty (Code: EMPTY_FILE). Please upload an attendance export with data rows"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}
