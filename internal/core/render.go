package core

// render.go aggregates attendance per attendant and meeting, and renders the
// result into the two representations the summary store persists: an HTML
// table fragment and a CSV spreadsheet payload.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html"
	"strings"
	"time"
)

// aggKey identifies one summary row: attendant email crossed with the
// meeting key (title + date).
type aggKey struct {
	email      string
	meetingKey string
}

// aggRow accumulates the total duration for one summary row.
type aggRow struct {
	name       string
	email      string
	title      string
	occurredAt time.Time
	total      time.Duration
}

// aggregate is the per-batch attendance aggregation. It is owned exclusively
// by one ProcessBatch invocation and keeps first-appearance row order so the
// rendered table is deterministic.
type aggregate struct {
	order []aggKey
	rows  map[aggKey]*aggRow
}

func newAggregate() *aggregate {
	return &aggregate{rows: make(map[aggKey]*aggRow)}
}

// add accumulates one attendance into the aggregation, summing durations
// when the same attendant/meeting pairing recurs within or across files.
func (a *aggregate) add(attendant *Attendant, rec *MeetingRecord, d time.Duration) {
	key := aggKey{email: attendant.Email, meetingKey: rec.Key()}
	row, ok := a.rows[key]
	if !ok {
		row = &aggRow{
			name:       attendant.Name,
			email:      attendant.Email,
			title:      rec.Title,
			occurredAt: rec.OccurredAt,
		}
		a.rows[key] = row
		a.order = append(a.order, key)
	}
	row.total += d
}

var summaryColumns = []string{"Attendant", "Email", "Meeting", "Date", "Duration"}

// renderSummary renders the aggregation as an HTML table fragment and a CSV
// payload with identical rows.
func renderSummary(agg *aggregate) (string, []byte, error) {
	var b strings.Builder
	b.WriteString("<table>\n<thead>\n<tr>")
	for _, col := range summaryColumns {
		b.WriteString("<th>")
		b.WriteString(col)
		b.WriteString("</th>")
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(summaryColumns); err != nil {
		return "", nil, err
	}

	for _, key := range agg.order {
		row := agg.rows[key]
		fields := []string{
			row.name,
			row.email,
			row.title,
			row.occurredAt.Format("2006-01-02"),
			formatClock(row.total),
		}

		b.WriteString("<tr>")
		for _, f := range fields {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(f))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>\n")

		if err := w.Write(fields); err != nil {
			return "", nil, err
		}
	}

	b.WriteString("</tbody>\n</table>\n")
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, err
	}

	return b.String(), buf.Bytes(), nil
}

// formatClock formats a duration as H:MM:SS.
func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
