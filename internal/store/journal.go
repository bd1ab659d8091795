package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var journalColumns = []string{
	"sequence", "timestamp", "kind", "session_id", "username", "section_id",
	"problem_id", "stage", "input", "verdict", "attempts", "score",
	"hints_used", "detail",
}

// journalRepo implements Journal on the journal table.
type journalRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *journalRepo) Append(ctx context.Context, e *Entry) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	e.Sequence = seqNum

	query, args := builder().
		Insert("journal").
		Columns(journalColumns...).
		Values(
			e.Sequence, e.Timestamp.UnixNano(), e.Kind, e.SessionID, e.Username,
			e.SectionID, e.ProblemID, e.Stage, e.Input, e.Verdict, e.Attempts,
			e.Score, e.HintsUsed, e.Detail,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save journal entry: %w", err)
	}
	return nil
}

func (r *journalRepo) List(ctx context.Context, opts QueryOpts) ([]Entry, error) {
	sel := builder().
		Select(journalColumns...).
		From(builder().Table("journal")).
		OrderBy(entsql.Desc("sequence"))

	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.ProblemID != "" {
		sel.Where(entsql.EQ("problem_id", opts.ProblemID))
	}
	if opts.Kind != "" {
		sel.Where(entsql.EQ("kind", opts.Kind))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ts int64
		)
		if err := rows.Scan(
			&e.Sequence, &ts, &e.Kind, &e.SessionID, &e.Username, &e.SectionID,
			&e.ProblemID, &e.Stage, &e.Input, &e.Verdict, &e.Attempts,
			&e.Score, &e.HintsUsed, &e.Detail,
		); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Timestamp = time.Unix(0, ts).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
