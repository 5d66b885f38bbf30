// Package memory provides an in-memory implementation of the core store
// interfaces with snapshot-based transactions. It backs the test suite and
// serves as the storage engine when no database is configured.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/attendly/attendance/internal/core"
)

// state holds all durable entities. Transactions operate on a deep copy and
// swap it in on commit, so a rolled-back transaction leaves no partial row
// visible to subsequent reads.
type state struct {
	attendants map[string]core.Attendant // keyed by exact email
	meetings   map[uuid.UUID]core.Meeting
	attendance map[uuid.UUID]core.Attendance
	summaries  map[uuid.UUID]core.Summary
}

func newState() *state {
	return &state{
		attendants: make(map[string]core.Attendant),
		meetings:   make(map[uuid.UUID]core.Meeting),
		attendance: make(map[uuid.UUID]core.Attendance),
		summaries:  make(map[uuid.UUID]core.Summary),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.attendants {
		c.attendants[k] = v
	}
	for k, v := range st.meetings {
		c.meetings[k] = v
	}
	for k, v := range st.attendance {
		c.attendance[k] = v
	}
	for k, v := range st.summaries {
		c.summaries[k] = v
	}
	return c
}

// Store is the in-memory store. The zero value is not usable; call New.
type Store struct {
	mu    sync.RWMutex
	state *state

	// txUnsupported makes Begin report no transaction capability, for
	// exercising the orchestrator's degraded path.
	txUnsupported bool
}

// New creates an empty in-memory store with transaction support.
func New() *Store {
	return &Store{state: newState()}
}

// NewWithoutTransactions creates a store whose Begin returns (nil, nil),
// mimicking an engine with no transaction support.
func NewWithoutTransactions() *Store {
	return &Store{state: newState(), txUnsupported: true}
}

func (s *Store) FindAttendantByEmail(_ context.Context, email string) (*core.Attendant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findAttendant(s.state, email)
}

func (s *Store) CreateAttendant(_ context.Context, a *core.Attendant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.attendants[a.Email] = *a
	return nil
}

func (s *Store) CreateMeeting(_ context.Context, m *core.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.meetings[m.ID] = *m
	return nil
}

func (s *Store) UpdateMeeting(_ context.Context, m *core.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.meetings[m.ID] = *m
	return nil
}

func (s *Store) CreateAttendance(_ context.Context, l *core.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.attendance[l.ID] = *l
	return nil
}

func (s *Store) CreateSummary(_ context.Context, sum *core.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.summaries[sum.ID] = *sum
	return nil
}

// Begin snapshots the current state. The returned transaction accumulates
// writes on the snapshot; Commit swaps it in atomically.
func (s *Store) Begin(_ context.Context) (core.Tx, error) {
	if s.txUnsupported {
		return nil, nil
	}
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return &tx{store: s, state: snapshot}, nil
}

// Counts returns entity counts for test assertions.
func (s *Store) Counts() (attendants, meetings, attendance, summaries int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.attendants), len(s.state.meetings),
		len(s.state.attendance), len(s.state.summaries)
}

// AttendantByEmail returns a stored attendant by exact email, for tests.
func (s *Store) AttendantByEmail(email string) (core.Attendant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.state.attendants[email]
	return a, ok
}

// Summaries returns all stored summaries, for tests.
func (s *Store) Summaries() []core.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Summary, 0, len(s.state.summaries))
	for _, sum := range s.state.summaries {
		out = append(out, sum)
	}
	return out
}

// Meetings returns all stored meetings, for tests.
func (s *Store) Meetings() []core.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Meeting, 0, len(s.state.meetings))
	for _, m := range s.state.meetings {
		out = append(out, m)
	}
	return out
}

// tx is a snapshot-scoped transaction over Store.
type tx struct {
	store *Store
	state *state
	done  bool
}

func (t *tx) FindAttendantByEmail(_ context.Context, email string) (*core.Attendant, error) {
	return findAttendant(t.state, email)
}

func (t *tx) CreateAttendant(_ context.Context, a *core.Attendant) error {
	t.state.attendants[a.Email] = *a
	return nil
}

func (t *tx) CreateMeeting(_ context.Context, m *core.Meeting) error {
	t.state.meetings[m.ID] = *m
	return nil
}

func (t *tx) UpdateMeeting(_ context.Context, m *core.Meeting) error {
	t.state.meetings[m.ID] = *m
	return nil
}

func (t *tx) CreateAttendance(_ context.Context, l *core.Attendance) error {
	t.state.attendance[l.ID] = *l
	return nil
}

func (t *tx) CreateSummary(_ context.Context, sum *core.Summary) error {
	t.state.summaries[sum.ID] = *sum
	return nil
}

// Begin inside a transaction reports no nested-transaction support.
func (t *tx) Begin(_ context.Context) (core.Tx, error) {
	return nil, nil
}

func (t *tx) Commit(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Lock()
	t.store.state = t.state
	t.store.mu.Unlock()
	return nil
}

func (t *tx) Rollback(_ context.Context) error {
	t.done = true
	return nil
}

func findAttendant(st *state, email string) (*core.Attendant, error) {
	if a, ok := st.attendants[email]; ok {
		return &a, nil
	}
	return nil, nil
}
