package workout

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/ormchart/internal/records"
	"github.com/2beens/ormchart/internal/source"
	"github.com/2beens/ormchart/internal/telemetry/metrics"
	"github.com/2beens/ormchart/internal/telemetry/tracing"
)

// Manager owns the record store and loads it from a records source.
type Manager struct {
	store          *records.Store
	source         source.Source
	metricsManager *metrics.Manager
}

func NewManager(store *records.Store, src source.Source, metricsManager *metrics.Manager) *Manager {
	return &Manager{
		store:          store,
		source:         src,
		metricsManager: metricsManager,
	}
}

func (m *Manager) Store() *records.Store {
	return m.store
}

// cacheClearer is implemented by sources that cache fetched content.
type cacheClearer interface {
	ClearCache()
}

// Load fetches records from the source and appends the ones the store does
// not hold yet; sources return full snapshots, so loading twice adds nothing.
// The append happens only after a successful fetch; fetch errors are returned as is.
func (m *Manager) Load(ctx context.Context) (_ []records.RecordID, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workout.manager.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	start := time.Now()
	fetched, err := m.source.FetchRecords(ctx)
	if m.metricsManager != nil {
		m.metricsManager.HistFetchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if m.metricsManager != nil {
			m.metricsManager.CounterFetchFailures.Inc()
		}
		return nil, err
	}

	ids := m.store.AppendMissing(fetched)
	if m.metricsManager != nil {
		m.metricsManager.CounterRecordsFetched.Add(float64(len(fetched)))
		m.metricsManager.CounterRecordsAppended.Add(float64(len(ids)))
		m.metricsManager.GaugeRecords.Set(float64(m.store.Len()))
	}

	log.Debugf("loaded %d records, store holds %d", len(ids), m.store.Len())
	return ids, nil
}

// Reload is Load on fresh source content: a source cache is dropped first.
func (m *Manager) Reload(ctx context.Context) ([]records.RecordID, error) {
	if c, ok := m.source.(cacheClearer); ok {
		c.ClearCache()
	}
	return m.Load(ctx)
}

func (m *Manager) Exercises() []string {
	return m.store.ExerciseNames()
}

func (m *Manager) Summaries() []records.ExerciseSummary {
	return m.store.Summaries()
}

func (m *Manager) ExerciseRecords(exercise string) (map[time.Time][]records.ExerciseRecord, bool) {
	return m.store.LookupByExercise(exercise)
}

func (m *Manager) RecordsByDay(date time.Time) []records.ExerciseRecord {
	return m.store.LookupByDay(date)
}

func (m *Manager) RecordsInRange(exercise string, from, to time.Time) ([]records.ExerciseRecord, bool) {
	return m.store.LookupRange(exercise, from, to)
}

func (m *Manager) DailyMaxOneRM(exercise string) (map[time.Time]float64, bool) {
	return m.store.DailyMaxOneRM(exercise)
}

func (m *Manager) Delete(id records.RecordID) error {
	if err := m.store.SoftDelete(id); err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}
	if m.metricsManager != nil {
		m.metricsManager.CounterSoftDeletes.Inc()
	}
	return nil
}

// DeleteMatching soft deletes the first stored match of each candidate and
// returns how many candidates matched.
func (m *Manager) DeleteMatching(candidates []records.ExerciseRecord) int {
	matched := m.store.SoftDeleteMatching(candidates)
	if m.metricsManager != nil {
		m.metricsManager.CounterSoftDeletes.Add(float64(matched))
	}
	return matched
}
