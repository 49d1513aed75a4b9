package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/ormchart/internal/records"
	"github.com/2beens/ormchart/internal/telemetry/tracing"
)

// PostgresSource reads logged sets from the gymstats "exercise" table.
// The exercise_id column is used as the exercise name, kilos as weight.
type PostgresSource struct {
	db  *pgxpool.Pool
	loc *time.Location
}

func NewPostgresSource(db *pgxpool.Pool, loc *time.Location) *PostgresSource {
	if loc == nil {
		loc = time.Local
	}
	return &PostgresSource{
		db:  db,
		loc: loc,
	}
}

func (s *PostgresSource) FetchRecords(ctx context.Context) (_ []records.ExerciseRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "source.postgres.fetch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.Query(
		ctx,
		`
			SELECT created_at, exercise_id, reps, kilos::float8
			FROM exercise
			WHERE exercise_id <> ''
			ORDER BY created_at, id;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	var fetched []records.ExerciseRecord
	for rows.Next() {
		var (
			createdAt  time.Time
			exerciseID string
			reps       int
			kilos      float64
		)
		if err := rows.Scan(&createdAt, &exerciseID, &reps, &kilos); err != nil {
			return nil, fmt.Errorf("scan exercise row: %w", err)
		}
		fetched = append(fetched, records.NewExerciseRecord(createdAt.In(s.loc), exerciseID, reps, kilos))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise rows: %w", err)
	}

	return fetched, nil
}
