package core

import "testing"

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Dialect
	}{
		{
			name: "summary marker",
			text: "1. Summary\nMeeting title\tStandup\n",
			want: DialectSectioned,
		},
		{
			name: "participants marker only",
			text: "2. Participants\nName\tEmail\n",
			want: DialectSectioned,
		},
		{
			name: "title plus upn header",
			text: "Meeting title\tStandup\nName\tParticipant ID (UPN)\n",
			want: DialectSectioned,
		},
		{
			name: "meeting title alone is simple",
			text: "Meeting title,2024-01-15\nName,Email\na,b@c.com\n",
			want: DialectSimple,
		},
		{
			name: "plain csv",
			text: "Team Meeting,2024-01-15\nName,Email,Duration\nJan,j@x.com,45\n",
			want: DialectSimple,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDialect(tt.text); got != tt.want {
				t.Errorf("DetectDialect() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"j.nowak@gmail.com", true},
		{"john@example.com", true},
		{"UPPER.case@Example.COM", true},
		{"with+tag@sub.domain.org", true},
		{"o'brien@irish.ie", true},
		{"x@y", true}, // single label hosts are syntactically fine

		{"not-an-email", false},
		{"", false},
		{"@nohost.com", false},
		{"nobody@", false},
		{"two@@ats.com", false},
		{"dot@.leading.com", false},
		{"hyphen@-leading.com", false},
		{"hyphen@trailing-.com", false},
		{"spaces in@local.com", false},
		{"trailing@dot.com.", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := validEmail(tt.email); got != tt.want {
				t.Errorf("validEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}
