package source

import (
	"context"
	"errors"

	"github.com/2beens/ormchart/internal/records"
)

var ErrResourceMissing = errors.New("records resource missing")

// Source supplies raw exercise records. Implementations do not assign ids;
// the store does on append.
type Source interface {
	FetchRecords(ctx context.Context) ([]records.ExerciseRecord, error)
}
