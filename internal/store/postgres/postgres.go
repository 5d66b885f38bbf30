// Package postgres implements the core store interfaces on PostgreSQL via
// pgx. Attendant lookup uses exact-string email equality; no case folding or
// trimming happens in SQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/attendly/attendance/internal/core"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store is the pool-backed store.
type Store struct {
	queries
	pool *pgxpool.Pool
}

// New creates a Store on the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{queries: queries{db: pool}, pool: pool}
}

// Begin opens a database transaction and returns a transaction-scoped store.
func (s *Store) Begin(ctx context.Context) (core.Tx, error) {
	pgtx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &txStore{queries: queries{db: pgtx}, tx: pgtx}, nil
}

// txStore binds the queries to an open transaction.
type txStore struct {
	queries
	tx pgx.Tx
}

// Begin inside a transaction reports no nested-transaction support.
func (t *txStore) Begin(context.Context) (core.Tx, error) {
	return nil, nil
}

func (t *txStore) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *txStore) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// queries implements the four store interfaces over a DBTX.
type queries struct {
	db DBTX
}

func (q queries) FindAttendantByEmail(ctx context.Context, email string) (*core.Attendant, error) {
	const sql = `SELECT id, name, email FROM attendants WHERE email = $1`

	var id pgtype.UUID
	var a core.Attendant
	err := q.db.QueryRow(ctx, sql, email).Scan(&id, &a.Name, &a.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attendant: %w", err)
	}
	a.ID = uuid.UUID(id.Bytes)
	return &a, nil
}

func (q queries) CreateAttendant(ctx context.Context, a *core.Attendant) error {
	const sql = `INSERT INTO attendants (id, name, email) VALUES ($1, $2, $3)`

	if _, err := q.db.Exec(ctx, sql, toPgUUID(a.ID), a.Name, a.Email); err != nil {
		return fmt.Errorf("create attendant: %w", err)
	}
	return nil
}

func (q queries) CreateMeeting(ctx context.Context, m *core.Meeting) error {
	const sql = `INSERT INTO meetings (id, title, occurred_at, summary_id)
	             VALUES ($1, $2, $3, $4)`

	if _, err := q.db.Exec(ctx, sql,
		toPgUUID(m.ID), m.Title, m.OccurredAt, toNullableUUID(m.SummaryID)); err != nil {
		return fmt.Errorf("create meeting: %w", err)
	}
	return nil
}

func (q queries) UpdateMeeting(ctx context.Context, m *core.Meeting) error {
	const sql = `UPDATE meetings SET title = $2, occurred_at = $3, summary_id = $4
	             WHERE id = $1`

	tag, err := q.db.Exec(ctx, sql,
		toPgUUID(m.ID), m.Title, m.OccurredAt, toNullableUUID(m.SummaryID))
	if err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update meeting: no row with id %s", m.ID)
	}
	return nil
}

func (q queries) CreateAttendance(ctx context.Context, l *core.Attendance) error {
	const sql = `INSERT INTO attendance (id, meeting_id, attendant_id, duration_seconds)
	             VALUES ($1, $2, $3, $4)`

	if _, err := q.db.Exec(ctx, sql,
		toPgUUID(l.ID), toPgUUID(l.MeetingID), toPgUUID(l.AttendantID),
		int64(l.Duration/time.Second)); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

func (q queries) CreateSummary(ctx context.Context, s *core.Summary) error {
	const sql = `INSERT INTO summaries (id, table_html, spreadsheet, created_at)
	             VALUES ($1, $2, $3, $4)`

	if _, err := q.db.Exec(ctx, sql,
		toPgUUID(s.ID), s.Table, s.Spreadsheet, s.CreatedAt); err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	return nil
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// toNullableUUID maps the zero UUID to SQL NULL; meetings are created before
// their summary exists and attached to it afterwards.
func toNullableUUID(id uuid.UUID) pgtype.UUID {
	if id == uuid.Nil {
		return pgtype.UUID{}
	}
	return toPgUUID(id)
}
