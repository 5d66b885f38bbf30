package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/attendly/attendance/internal/core"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	found, err := s.FindAttendantByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("FindAttendantByEmail() error: %v", err)
	}
	if found != nil {
		t.Fatalf("found attendant in empty store: %+v", found)
	}

	jane := &core.Attendant{ID: uuid.New(), Name: "Jane", Email: "jane@example.com"}
	if err := s.CreateAttendant(ctx, jane); err != nil {
		t.Fatalf("CreateAttendant() error: %v", err)
	}

	found, err = s.FindAttendantByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("FindAttendantByEmail() error: %v", err)
	}
	if found == nil || found.ID != jane.ID || found.Name != "Jane" {
		t.Errorf("found = %+v, want %+v", found, jane)
	}

	// Lookup is by exact string; no case folding.
	found, err = s.FindAttendantByEmail(ctx, "JANE@example.com")
	if err != nil {
		t.Fatalf("FindAttendantByEmail() error: %v", err)
	}
	if found != nil {
		t.Errorf("case-variant lookup matched: %+v", found)
	}
}

func TestTxCommitPublishes(t *testing.T) {
	ctx := context.Background()
	s := New()

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if tx == nil {
		t.Fatal("Begin() returned nil tx, want transaction support")
	}

	meeting := &core.Meeting{ID: uuid.New(), Title: "Standup", OccurredAt: time.Now()}
	if err := tx.CreateMeeting(ctx, meeting); err != nil {
		t.Fatalf("CreateMeeting() error: %v", err)
	}

	// Uncommitted writes are invisible to the store.
	if _, meetings, _, _ := s.Counts(); meetings != 0 {
		t.Errorf("meetings visible before commit: %d", meetings)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if _, meetings, _, _ := s.Counts(); meetings != 1 {
		t.Errorf("meetings after commit = %d, want 1", meetings)
	}
}

func TestTxRollbackDiscards(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.CreateAttendant(ctx, &core.Attendant{ID: uuid.New(), Name: "Jane", Email: "jane@example.com"}); err != nil {
		t.Fatalf("CreateAttendant() error: %v", err)
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if err := tx.CreateAttendant(ctx, &core.Attendant{ID: uuid.New(), Name: "Bob", Email: "bob@example.com"}); err != nil {
		t.Fatalf("CreateAttendant() error: %v", err)
	}
	if err := tx.CreateSummary(ctx, &core.Summary{ID: uuid.New(), CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateSummary() error: %v", err)
	}

	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("Rollback() error: %v", err)
	}

	attendants, _, _, summaries := s.Counts()
	if attendants != 1 || summaries != 0 {
		t.Errorf("counts after rollback = (%d, %d), want (1, 0)", attendants, summaries)
	}
	if _, ok := s.AttendantByEmail("bob@example.com"); ok {
		t.Error("rolled-back attendant still visible")
	}
}

// A transaction reads its own writes plus the snapshot it started from.
func TestTxReadsOwnWrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.CreateAttendant(ctx, &core.Attendant{ID: uuid.New(), Name: "Jane", Email: "jane@example.com"}); err != nil {
		t.Fatalf("CreateAttendant() error: %v", err)
	}

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	bob := &core.Attendant{ID: uuid.New(), Name: "Bob", Email: "bob@example.com"}
	if err := tx.CreateAttendant(ctx, bob); err != nil {
		t.Fatalf("CreateAttendant() error: %v", err)
	}

	for _, email := range []string{"jane@example.com", "bob@example.com"} {
		found, err := tx.FindAttendantByEmail(ctx, email)
		if err != nil {
			t.Fatalf("FindAttendantByEmail(%q) error: %v", email, err)
		}
		if found == nil {
			t.Errorf("attendant %q not visible inside tx", email)
		}
	}
}

func TestUpdateMeetingAttachesSummary(t *testing.T) {
	ctx := context.Background()
	s := New()

	meeting := &core.Meeting{ID: uuid.New(), Title: "Standup", OccurredAt: time.Now()}
	if err := s.CreateMeeting(ctx, meeting); err != nil {
		t.Fatalf("CreateMeeting() error: %v", err)
	}

	meeting.SummaryID = uuid.New()
	if err := s.UpdateMeeting(ctx, meeting); err != nil {
		t.Fatalf("UpdateMeeting() error: %v", err)
	}

	all := s.Meetings()
	if len(all) != 1 {
		t.Fatalf("meetings = %d, want 1", len(all))
	}
	if all[0].SummaryID != meeting.SummaryID {
		t.Errorf("summary id = %s, want %s", all[0].SummaryID, meeting.SummaryID)
	}
}

func TestNestedBeginUnsupported(t *testing.T) {
	ctx := context.Background()
	s := New()

	tx, err := s.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	nested, err := tx.Begin(ctx)
	if err != nil {
		t.Fatalf("nested Begin() error: %v", err)
	}
	if nested != nil {
		t.Error("nested Begin() returned a transaction, want nil")
	}
}

func TestNewWithoutTransactions(t *testing.T) {
	s := NewWithoutTransactions()
	tx, err := s.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if tx != nil {
		t.Error("Begin() returned a transaction, want nil")
	}
}
