package core

// store.go declares the narrow persistence interfaces the batch orchestrator
// consumes. Implementations live under internal/store; the core never
// depends on a concrete storage engine.

import "context"

// AttendantStore persists deduplicated participant entities.
type AttendantStore interface {
	// FindAttendantByEmail looks up an attendant by exact-string email
	// equality. It returns (nil, nil) when no attendant matches.
	FindAttendantByEmail(ctx context.Context, email string) (*Attendant, error)
	CreateAttendant(ctx context.Context, a *Attendant) error
}

// MeetingStore persists meeting entities.
type MeetingStore interface {
	CreateMeeting(ctx context.Context, m *Meeting) error
	UpdateMeeting(ctx context.Context, m *Meeting) error
}

// AttendanceStore persists meeting-attendant links.
type AttendanceStore interface {
	CreateAttendance(ctx context.Context, l *Attendance) error
}

// SummaryStore persists batch summary artifacts.
type SummaryStore interface {
	CreateSummary(ctx context.Context, s *Summary) error
}

// Store is the full persistence surface the orchestrator needs.
type Store interface {
	AttendantStore
	MeetingStore
	AttendanceStore
	SummaryStore

	// Begin starts a transaction whose writes are invisible until Commit.
	// Stores without transaction support return (nil, nil); the batch then
	// proceeds without one, which is not an error.
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a transaction-scoped Store. Rollback after Commit is a no-op.
type Tx interface {
	Store
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
