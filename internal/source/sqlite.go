package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/2beens/ormchart/internal/records"
	"github.com/2beens/ormchart/internal/telemetry/tracing"
	"github.com/2beens/ormchart/pkg"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS exercise_record (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	date     TEXT    NOT NULL,
	exercise TEXT    NOT NULL,
	reps     TEXT    NOT NULL,
	weight   TEXT    NOT NULL
);`

// SQLiteSource reads records from a local SQLite export. Columns hold the
// same text as the raw line format and go through the same validation.
type SQLiteSource struct {
	path string
	loc  *time.Location
}

func NewSQLiteSource(path string, loc *time.Location) *SQLiteSource {
	if loc == nil {
		loc = time.Local
	}
	return &SQLiteSource{
		path: path,
		loc:  loc,
	}
}

func (s *SQLiteSource) FetchRecords(ctx context.Context) (_ []records.ExerciseRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "source.sqlite.fetch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exists, err := pkg.PathExists(s.path, false)
	if err != nil {
		return nil, fmt.Errorf("stat sqlite file %s: %w", s.path, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: couldn't load %s", ErrResourceMissing, s.path)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", s.path, err)
	}
	defer func() {
		_ = db.Close()
	}()

	rows, err := db.QueryContext(ctx, `SELECT date, exercise, reps, weight FROM exercise_record ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query exercise records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var fetched []records.ExerciseRecord
	for rows.Next() {
		var date, exercise, reps, weight string
		if err := rows.Scan(&date, &exercise, &reps, &weight); err != nil {
			return nil, fmt.Errorf("scan exercise record: %w", err)
		}
		if r, ok := parseFields(date, exercise, reps, weight, s.loc); ok {
			fetched = append(fetched, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise records: %w", err)
	}

	return fetched, nil
}

// ExportSQLite writes recs into a fresh exercise_record table at path.
func ExportSQLite(ctx context.Context, path string, recs []records.ExerciseRecord, loc *time.Location) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer func() {
		_ = db.Close()
	}()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO exercise_record (date, exercise, reps, weight) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	if loc == nil {
		loc = time.Local
	}
	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx,
			r.Date.In(loc).Format(DateLayout),
			r.Exercise,
			fmt.Sprintf("%d", r.Repetitions),
			fmt.Sprintf("%g", r.Weight),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert record: %w", err)
		}
	}

	return tx.Commit()
}
