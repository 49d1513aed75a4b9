package window

import (
	"fmt"
	"time"
)

type Direction int

const (
	Backward Direction = iota
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "backward", "back":
		return Backward, nil
	case "forward":
		return Forward, nil
	default:
		return 0, fmt.Errorf("unknown direction: %q", s)
	}
}

// State is the position of a navigator. It can be stored outside of the
// process and handed back to Restore.
type State struct {
	Unit         TimeFrame `json:"unit"`
	DataLower    time.Time `json:"dataLower"`
	DataUpper    time.Time `json:"dataUpper"`
	CurrentLower time.Time `json:"currentLower"`
	CurrentUpper time.Time `json:"currentUpper"`
}

func (s State) CanGoBackward() bool {
	return s.CurrentLower.After(s.DataLower)
}

func (s State) CanGoForward() bool {
	return s.CurrentUpper.Before(s.DataUpper)
}

type DailyOneRM struct {
	Date      time.Time `json:"date"`
	OneRepMax float64   `json:"oneRepMax"`
}

// Window is the materialized view of the current navigator position.
type Window struct {
	Unit            TimeFrame    `json:"unit"`
	Lower           time.Time    `json:"lower"`
	Upper           time.Time    `json:"upper"`
	Days            []DailyOneRM `json:"days"`
	Max             float64      `json:"max"`
	StartOfWeekDays []time.Time  `json:"startOfWeekDays"`
	Label           string       `json:"label"`
	CanGoBackward   bool         `json:"canGoBackward"`
	CanGoForward    bool         `json:"canGoForward"`
}

// Navigator pages through per-day values of one exercise in windows of one
// time frame unit. Not safe for concurrent use.
type Navigator struct {
	loc          *time.Location
	firstWeekday time.Weekday

	data  map[time.Time]float64
	state *State
}

func NewNavigator(loc *time.Location, firstWeekday time.Weekday) *Navigator {
	if loc == nil {
		loc = time.Local
	}
	return &Navigator{
		loc:          loc,
		firstWeekday: firstWeekday,
	}
}

// Initialize positions the window at the latest data: [max day - 1 unit, max day].
// On error the navigator keeps its previous state.
func (n *Navigator) Initialize(data map[time.Time]float64, unit TimeFrame) (Window, error) {
	if !unit.Valid() {
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownTimeFrame, string(unit))
	}

	normalized := n.normalize(data)
	if len(normalized) == 0 {
		return Window{}, ErrEmptyDataSet
	}

	var dataLower, dataUpper time.Time
	for d := range normalized {
		if dataLower.IsZero() || d.Before(dataLower) {
			dataLower = d
		}
		if dataUpper.IsZero() || d.After(dataUpper) {
			dataUpper = d
		}
	}

	lower, err := unit.Shift(dataUpper, -1)
	if err != nil {
		return Window{}, err
	}

	n.data = normalized
	n.state = &State{
		Unit:         unit,
		DataLower:    dataLower,
		DataUpper:    dataUpper,
		CurrentLower: lower,
		CurrentUpper: dataUpper,
	}

	return n.materialize(), nil
}

// Advance moves the window by one unit. Moving in a direction that is not
// available keeps the position and only recomputes the window. Moving forward
// past the latest data snaps back to the latest window.
func (n *Navigator) Advance(direction Direction) (Window, error) {
	if n.state == nil {
		return Window{}, ErrNotInitialized
	}

	st := *n.state
	switch direction {
	case Backward:
		if !st.CanGoBackward() {
			break
		}
		upper, err := addDays(st.CurrentLower, -1)
		if err != nil {
			return Window{}, err
		}
		lower, err := st.Unit.Shift(upper, -1)
		if err != nil {
			return Window{}, err
		}
		st.CurrentLower, st.CurrentUpper = lower, upper
	case Forward:
		if !st.CanGoForward() {
			break
		}
		lower, err := addDays(st.CurrentUpper, 1)
		if err != nil {
			return Window{}, err
		}
		upper, err := st.Unit.Shift(lower, 1)
		if err != nil {
			return Window{}, err
		}
		if upper.After(st.DataUpper) {
			upper = st.DataUpper
			if lower, err = st.Unit.Shift(upper, -1); err != nil {
				return Window{}, err
			}
		}
		st.CurrentLower, st.CurrentUpper = lower, upper
	default:
		return Window{}, fmt.Errorf("unknown direction: %d", direction)
	}

	n.state = &st
	return n.materialize(), nil
}

func (n *Navigator) Window() (Window, error) {
	if n.state == nil {
		return Window{}, ErrNotInitialized
	}
	return n.materialize(), nil
}

func (n *Navigator) State() (State, bool) {
	if n.state == nil {
		return State{}, false
	}
	return *n.state, true
}

// Restore positions the navigator at a previously exported state, using the
// freshly supplied data for materialization. Data bounds are recomputed from
// data so records appended since the state was taken are reachable.
func (n *Navigator) Restore(state State, data map[time.Time]float64) (Window, error) {
	if !state.Unit.Valid() {
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownTimeFrame, string(state.Unit))
	}
	normalized := n.normalize(data)
	if len(normalized) == 0 {
		return Window{}, ErrEmptyDataSet
	}

	st := State{
		Unit:         state.Unit,
		CurrentLower: n.midnight(state.CurrentLower),
		CurrentUpper: n.midnight(state.CurrentUpper),
	}
	for d := range normalized {
		if st.DataLower.IsZero() || d.Before(st.DataLower) {
			st.DataLower = d
		}
		if st.DataUpper.IsZero() || d.After(st.DataUpper) {
			st.DataUpper = d
		}
	}
	if st.CurrentLower.After(st.CurrentUpper) {
		return Window{}, fmt.Errorf("invalid state: lower %s after upper %s",
			st.CurrentLower.Format(time.DateOnly), st.CurrentUpper.Format(time.DateOnly))
	}
	if st.CurrentUpper.After(st.DataUpper) {
		// data shrank, e.g. after deletions; fall back to the latest window
		lower, err := st.Unit.Shift(st.DataUpper, -1)
		if err != nil {
			return Window{}, err
		}
		st.CurrentLower, st.CurrentUpper = lower, st.DataUpper
	}

	n.data = normalized
	n.state = &st
	return n.materialize(), nil
}

func (n *Navigator) normalize(data map[time.Time]float64) map[time.Time]float64 {
	normalized := make(map[time.Time]float64, len(data))
	for d, v := range data {
		day := n.midnight(d)
		if current, ok := normalized[day]; !ok || v > current {
			normalized[day] = v
		}
	}
	return normalized
}

func (n *Navigator) midnight(t time.Time) time.Time {
	t = t.In(n.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, n.loc)
}

func (n *Navigator) materialize() Window {
	st := n.state
	w := Window{
		Unit:            st.Unit,
		Lower:           st.CurrentLower,
		Upper:           st.CurrentUpper,
		Days:            []DailyOneRM{},
		StartOfWeekDays: []time.Time{},
		Label:           DateRangeLabel(st.CurrentLower, st.CurrentUpper, st.Unit),
		CanGoBackward:   st.CanGoBackward(),
		CanGoForward:    st.CanGoForward(),
	}

	for d := st.CurrentLower; !d.After(st.CurrentUpper); d = time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, n.loc) {
		v := n.data[d]
		w.Days = append(w.Days, DailyOneRM{Date: d, OneRepMax: v})
		if v > w.Max {
			w.Max = v
		}
		if d.Weekday() == n.firstWeekday {
			w.StartOfWeekDays = append(w.StartOfWeekDays, d)
		}
	}

	return w
}
