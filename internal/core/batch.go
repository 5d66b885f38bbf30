package core

// batch.go is the batch orchestrator: it validates every file of an upload
// batch before touching storage, then drives a transactional commit phase.
// The batch either fully succeeds or leaves zero durable side effects.

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// allowedContentTypes is the MIME-label allow-list for uploads. Browsers
// label CSV exports inconsistently, so the common aliases are accepted; an
// empty label means the client declared nothing and is let through to
// content sniffing.
var allowedContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"text/plain":               true,
	"application/vnd.ms-excel": true,
}

// Service orchestrates attendance import batches against a Store.
type Service struct {
	store Store
}

// NewService creates a batch orchestrator backed by the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// parsedUpload is one validated file: the cached parse result of phase 1.
// Phase 2 must never re-parse.
type parsedUpload struct {
	filename string
	record   *MeetingRecord
}

// ProcessBatch runs the two-phase import over an upload batch.
//
// Phase 1 validates every file in input order: MIME label, content
// classification, then dialect parsing. The first failure aborts the batch
// with an *ImportError naming the offending file; nothing has been written.
//
// Phase 2 runs only when every file validated. It opens a transaction when
// the store supports one, creates meetings, deduplicated attendants, and
// attendance links in input order, renders the aggregated summary, and
// commits. Any error during the phase rolls everything back and is returned
// unchanged.
func (s *Service) ProcessBatch(ctx context.Context, files []RawUpload) (*BatchResult, error) {
	if len(files) == 0 {
		return nil, newError(CodeEmptyFile, "batch contains no files")
	}

	batchID := uuid.New().String()
	logger := slog.Default().With("batch_id", batchID)

	parsed := make([]parsedUpload, 0, len(files))
	for _, f := range files {
		if err := checkContentLabel(f); err != nil {
			logger.Warn("batch validation failed", "file", f.Filename, "error", err)
			return nil, err
		}

		det, err := Classify(f.Data, f.Filename)
		if err != nil {
			ie := asImportError(err).withFile(f.Filename)
			logger.Warn("batch validation failed", "file", f.Filename, "code", ie.Code)
			return nil, ie
		}

		rec, err := Parse(det.Text)
		if err != nil {
			ie := asImportError(err).withFile(f.Filename)
			logger.Warn("batch validation failed", "file", f.Filename, "code", ie.Code)
			return nil, ie
		}

		logger.Debug("file validated",
			"file", f.Filename,
			"encoding", det.Encoding.String(),
			"attendees", len(rec.Attendees),
		)
		parsed = append(parsed, parsedUpload{filename: f.Filename, record: rec})
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	st := s.store
	if tx != nil {
		st = tx
	}

	result, err := commitBatch(ctx, st, parsed)
	if err != nil {
		if tx != nil {
			_ = tx.Rollback(ctx)
		}
		logger.Error("batch commit failed", "error", err)
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit(ctx); err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("commit transaction: %w", err)
		}
	}

	logger.Info("batch committed",
		"files", len(parsed),
		"summary_id", result.SummaryID.String(),
	)
	return result, nil
}

// checkContentLabel validates the client-declared content type against the
// allow-list. Parameters like "; charset=utf-8" are ignored.
func checkContentLabel(f RawUpload) error {
	label := strings.TrimSpace(f.ContentType)
	if i := strings.Index(label, ";"); i >= 0 {
		label = strings.TrimSpace(label[:i])
	}
	if label == "" || allowedContentTypes[strings.ToLower(label)] {
		return nil
	}
	return &ImportError{
		Code:              CodeTypeMismatch,
		Message:           fmt.Sprintf("file %q declared disallowed content type %q", f.Filename, label),
		Filename:          f.Filename,
		DetectedType:      label,
		OriginalExtension: filepath.Ext(f.Filename),
	}
}

// commitBatch writes every cached meeting record through the store in input
// order and creates the batch summary. The caller owns transaction control.
func commitBatch(ctx context.Context, st Store, parsed []parsedUpload) (*BatchResult, error) {
	agg := newAggregate()
	meetings := make([]*Meeting, 0, len(parsed))

	for _, p := range parsed {
		rec := p.record
		meeting := &Meeting{
			ID:         uuid.New(),
			Title:      rec.Title,
			OccurredAt: rec.OccurredAt,
		}
		if err := st.CreateMeeting(ctx, meeting); err != nil {
			return nil, fmt.Errorf("create meeting for %q: %w", p.filename, err)
		}
		meetings = append(meetings, meeting)

		for _, att := range rec.Attendees {
			attendant, err := st.FindAttendantByEmail(ctx, att.Email)
			if err != nil {
				return nil, fmt.Errorf("lookup attendant %q: %w", att.Email, err)
			}
			if attendant == nil {
				attendant = &Attendant{ID: uuid.New(), Name: att.Name, Email: att.Email}
				if err := st.CreateAttendant(ctx, attendant); err != nil {
					return nil, fmt.Errorf("create attendant %q: %w", att.Email, err)
				}
			}

			link := &Attendance{
				ID:          uuid.New(),
				MeetingID:   meeting.ID,
				AttendantID: attendant.ID,
				Duration:    att.Duration,
			}
			if err := st.CreateAttendance(ctx, link); err != nil {
				return nil, fmt.Errorf("create attendance for %q: %w", att.Email, err)
			}

			// The durable attendant's name wins over the row's: dedup by
			// email keeps the name captured at first creation.
			agg.add(attendant, rec, att.Duration)
		}
	}

	table, sheet, err := renderSummary(agg)
	if err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}

	summary := &Summary{
		ID:          uuid.New(),
		Table:       table,
		Spreadsheet: sheet,
		MeetingIDs:  meetingIDs(meetings),
		CreatedAt:   time.Now(),
	}
	if err := st.CreateSummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("create summary: %w", err)
	}

	for _, m := range meetings {
		m.SummaryID = summary.ID
		if err := st.UpdateMeeting(ctx, m); err != nil {
			return nil, fmt.Errorf("attach meeting %q to summary: %w", m.Title, err)
		}
	}

	return &BatchResult{SummaryID: summary.ID, Table: table}, nil
}

func meetingIDs(meetings []*Meeting) []uuid.UUID {
	ids := make([]uuid.UUID, len(meetings))
	for i, m := range meetings {
		ids[i] = m.ID
	}
	return ids
}

// asImportError normalizes pipeline errors; anything unexpected is wrapped
// under the fallback code so callers always see the typed shape.
func asImportError(err error) *ImportError {
	if ie, ok := err.(*ImportError); ok {
		return ie
	}
	return &ImportError{Code: defaultMessage.Code, Message: err.Error()}
}
