package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/ormchart/internal/records"
)

// DateLayout is the date format of the raw records text, e.g. "Jan 05 2024".
const DateLayout = "Jan 02 2006"

// maxLineBytes bounds a single raw line; longer lines are drained and skipped.
const maxLineBytes = 1024 * 1024

// ParseRecords reads lines of "date,exercise,reps,weight". Lines that do not
// parse or exceed maxLineBytes are skipped; an error is returned only when
// reading fails.
func ParseRecords(r io.Reader, loc *time.Location) ([]records.ExerciseRecord, error) {
	if loc == nil {
		loc = time.Local
	}

	var (
		parsed    []records.ExerciseRecord
		line      []byte
		oversized bool
	)
	reader := bufio.NewReaderSize(r, 64*1024)
	for {
		chunk, err := reader.ReadSlice('\n')
		if !oversized {
			if len(line)+len(chunk) > maxLineBytes {
				oversized = true
				line = line[:0]
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read records: %w", err)
		}

		if !oversized && len(line) > 0 {
			if record, ok := ParseLine(strings.TrimSuffix(string(line), "\n"), loc); ok {
				parsed = append(parsed, record)
			}
		}
		line = line[:0]
		oversized = false

		if err != nil {
			break
		}
	}

	return parsed, nil
}

// ParseLine parses a single raw line. Fields beyond the fourth are ignored.
func ParseLine(line string, loc *time.Location) (records.ExerciseRecord, bool) {
	fields := strings.Split(strings.TrimRight(line, "\r"), ",")
	if len(fields) < 4 || fields[1] == "" {
		return records.ExerciseRecord{}, false
	}
	return parseFields(fields[0], fields[1], fields[2], fields[3], loc)
}

func parseFields(dateStr, exercise, repsStr, weightStr string, loc *time.Location) (records.ExerciseRecord, bool) {
	if exercise == "" {
		return records.ExerciseRecord{}, false
	}

	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return records.ExerciseRecord{}, false
	}
	reps, err := strconv.Atoi(repsStr)
	if err != nil {
		return records.ExerciseRecord{}, false
	}
	weight, err := strconv.ParseFloat(weightStr, 64)
	if err != nil || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return records.ExerciseRecord{}, false
	}

	return records.NewExerciseRecord(date, exercise, reps, weight), true
}

// ParseDate parses "Jan 05 2024" in loc; a single digit day is accepted too.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(DateLayout, s, loc)
	if err == nil {
		return date, nil
	}
	if date, lenientErr := time.ParseInLocation("Jan 2 2006", s, loc); lenientErr == nil {
		return date, nil
	}
	return time.Time{}, err
}

// FormatLine renders a record back into the raw line format.
func FormatLine(r records.ExerciseRecord, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return fmt.Sprintf("%s,%s,%d,%s",
		r.Date.In(loc).Format(DateLayout),
		r.Exercise,
		r.Repetitions,
		strconv.FormatFloat(r.Weight, 'f', -1, 64),
	)
}
