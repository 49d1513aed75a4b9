package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/2beens/ormchart/internal/records"
	"github.com/2beens/ormchart/internal/telemetry/tracing"
	"github.com/2beens/ormchart/pkg"
)

// FileSource reads records from a local text file.
type FileSource struct {
	path string
	loc  *time.Location
}

func NewFileSource(path string, loc *time.Location) *FileSource {
	return &FileSource{
		path: path,
		loc:  loc,
	}
}

func (s *FileSource) FetchRecords(ctx context.Context) (_ []records.ExerciseRecord, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "source.file.fetch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exists, err := pkg.PathExists(s.path, false)
	if err != nil {
		return nil, fmt.Errorf("stat records file %s: %w", s.path, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: couldn't load %s", ErrResourceMissing, s.path)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open records file %s: %w", s.path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	return ParseRecords(f, s.loc)
}
