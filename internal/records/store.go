package records

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrRecordNotFound = errors.New("record not found")

// Store keeps exercise records in an append-only arena and maintains a
// secondary index exercise -> day -> record ids.
// Soft deletion only flags records, the index is never rewritten.
type Store struct {
	mutex sync.RWMutex
	loc   *time.Location

	records []ExerciseRecord
	// number of records from the head of records already present in index
	indexed int
	index   map[string]map[time.Time][]RecordID
	// exercise names in the order they were first indexed
	exerciseOrder []string
}

func NewStore(loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		loc:   loc,
		index: make(map[string]map[time.Time][]RecordID),
	}
}

func (s *Store) Location() *time.Location {
	return s.loc
}

// Append adds the batch at the end of the store, in input order, and indexes
// the new records. Readers observe either none or all of the batch.
func (s *Store) Append(batch []ExerciseRecord) []RecordID {
	if len(batch) == 0 {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.appendLocked(batch)
}

// AppendMissing treats batch as a full snapshot of the source and appends
// only what the store does not hold yet. Records are compared by date,
// exercise, reps and weight as a multiset: a snapshot listing a set twice
// adds the second copy only if the store holds fewer than two. Soft-deleted
// records count as held, so a re-fetch never revives them.
func (s *Store) AppendMissing(batch []ExerciseRecord) []RecordID {
	if len(batch) == 0 {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	held := make(map[recordKey]int, len(s.records))
	for _, r := range s.records {
		held[keyOf(r)]++
	}

	missing := make([]ExerciseRecord, 0, len(batch))
	for _, r := range batch {
		k := keyOf(r)
		if held[k] > 0 {
			held[k]--
			continue
		}
		missing = append(missing, r)
	}
	if len(missing) == 0 {
		return nil
	}

	return s.appendLocked(missing)
}

type recordKey struct {
	date     int64
	exercise string
	reps     int
	weight   float64
}

func keyOf(r ExerciseRecord) recordKey {
	return recordKey{
		date:     r.Date.UnixNano(),
		exercise: r.Exercise,
		reps:     r.Repetitions,
		weight:   r.Weight,
	}
}

func (s *Store) appendLocked(batch []ExerciseRecord) []RecordID {
	ids := make([]RecordID, 0, len(batch))
	for _, r := range batch {
		r.ID = RecordID(len(s.records) + 1)
		s.records = append(s.records, r)
		ids = append(ids, r.ID)
	}

	s.updateIndex()

	return ids
}

// updateIndex indexes only records appended since the previous call.
func (s *Store) updateIndex() {
	for i := s.indexed; i < len(s.records); i++ {
		r := s.records[i]
		day := Midnight(r.Date, s.loc)

		days, ok := s.index[r.Exercise]
		if !ok {
			days = make(map[time.Time][]RecordID)
			s.index[r.Exercise] = days
			s.exerciseOrder = append(s.exerciseOrder, r.Exercise)
		}
		days[day] = append(days[day], r.ID)
	}
	s.indexed = len(s.records)
}

func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.records)
}

func (s *Store) Get(id RecordID) (ExerciseRecord, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.get(id)
}

func (s *Store) get(id RecordID) (ExerciseRecord, bool) {
	if id < 1 || int(id) > len(s.records) {
		return ExerciseRecord{}, false
	}
	return s.records[id-1], true
}

// LookupByExercise returns every indexed day of the exercise with its records,
// soft-deleted ones included. The bool is false for an unknown exercise.
func (s *Store) LookupByExercise(name string) (map[time.Time][]ExerciseRecord, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	days, ok := s.index[name]
	if !ok {
		return nil, false
	}

	res := make(map[time.Time][]ExerciseRecord, len(days))
	for day, ids := range days {
		res[day] = s.resolve(ids)
	}
	return res, true
}

// LookupByDay returns the records of all exercises on the calendar day of date,
// grouped by exercise in first-indexed order.
func (s *Store) LookupByDay(date time.Time) []ExerciseRecord {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	day := Midnight(date, s.loc)
	var res []ExerciseRecord
	for _, name := range s.exerciseOrder {
		if ids, ok := s.index[name][day]; ok {
			res = append(res, s.resolve(ids)...)
		}
	}
	return res
}

// LookupRange returns records of one exercise whose day falls into [from, to],
// ordered by day and then by append order.
func (s *Store) LookupRange(name string, from, to time.Time) ([]ExerciseRecord, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	days, ok := s.index[name]
	if !ok {
		return nil, false
	}

	fromDay, toDay := Midnight(from, s.loc), Midnight(to, s.loc)
	var inRange []time.Time
	for day := range days {
		if day.Before(fromDay) || day.After(toDay) {
			continue
		}
		inRange = append(inRange, day)
	}
	sort.Slice(inRange, func(i, j int) bool {
		return inRange[i].Before(inRange[j])
	})

	res := []ExerciseRecord{}
	for _, day := range inRange {
		res = append(res, s.resolve(days[day])...)
	}
	return res, true
}

func (s *Store) resolve(ids []RecordID) []ExerciseRecord {
	res := make([]ExerciseRecord, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.get(id); ok {
			res = append(res, r)
		}
	}
	return res
}

// SoftDelete flags the record with the given id as deleted.
func (s *Store) SoftDelete(id RecordID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if id < 1 || int(id) > len(s.records) {
		return ErrRecordNotFound
	}
	s.records[id-1].Deleted = true
	return nil
}

// SoftDeleteMatching flags, for each candidate, the first stored record with
// the same date and exercise. It returns the number of candidates that matched.
func (s *Store) SoftDeleteMatching(candidates []ExerciseRecord) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	matched := 0
	for _, c := range candidates {
		for i := range s.records {
			if s.records[i].Exercise == c.Exercise && s.records[i].Date.Equal(c.Date) {
				s.records[i].Deleted = true
				matched++
				break
			}
		}
	}
	return matched
}

// ExerciseNames returns every indexed exercise in first-indexed order.
func (s *Store) ExerciseNames() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	names := make([]string, len(s.exerciseOrder))
	copy(names, s.exerciseOrder)
	return names
}

// DailyMaxOneRM aggregates the exercise into day -> highest one-rep max of
// non-deleted records. Days holding only deleted records are left out.
func (s *Store) DailyMaxOneRM(name string) (map[time.Time]float64, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	days, ok := s.index[name]
	if !ok {
		return nil, false
	}

	res := make(map[time.Time]float64, len(days))
	for day, ids := range days {
		for _, r := range s.resolve(ids) {
			if r.Deleted {
				continue
			}
			if current, seen := res[day]; !seen || r.OneRepMax > current {
				res[day] = r.OneRepMax
			}
		}
	}
	return res, true
}

// Summaries returns the best one-rep max per exercise, sorted by exercise name.
// Exercises with all records deleted are skipped.
func (s *Store) Summaries() []ExerciseSummary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	summaries := make([]ExerciseSummary, 0, len(s.exerciseOrder))
	for _, name := range s.exerciseOrder {
		var (
			best  float64
			alive bool
		)
		for _, ids := range s.index[name] {
			for _, r := range s.resolve(ids) {
				if r.Deleted {
					continue
				}
				if !alive || r.OneRepMax > best {
					best = r.OneRepMax
				}
				alive = true
			}
		}
		if !alive {
			continue
		}
		summaries = append(summaries, ExerciseSummary{
			Exercise: name,
			MaxOneRM: int(best),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Exercise < summaries[j].Exercise
	})

	return summaries
}
