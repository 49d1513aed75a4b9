package records

import (
	"time"
)

// RecordID addresses a record inside a Store. Zero means the record has not been stored yet.
type RecordID int

type ExerciseRecord struct {
	ID          RecordID  `json:"id"`
	Date        time.Time `json:"date"`
	Exercise    string    `json:"exercise"`
	Repetitions int       `json:"repetitions"`
	Weight      float64   `json:"weight"`
	OneRepMax   float64   `json:"oneRepMax"`
	Deleted     bool      `json:"deleted"`
}

type ExerciseSummary struct {
	Exercise string `json:"exercise"`
	MaxOneRM int    `json:"maxOneRM"`
}

func NewExerciseRecord(date time.Time, exercise string, reps int, weight float64) ExerciseRecord {
	return ExerciseRecord{
		Date:        date,
		Exercise:    exercise,
		Repetitions: reps,
		Weight:      weight,
		OneRepMax:   OneRepMax(reps, weight),
	}
}

// OneRepMax estimates the one-repetition maximum with the Brzycki formula.
// Outside of 1..36 reps the formula is undefined and 0 is returned.
func OneRepMax(reps int, weight float64) float64 {
	if reps < 1 || reps > 36 {
		return 0
	}
	return weight * 36 / float64(37-reps)
}

// Midnight truncates t to the start of its calendar day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
