package browse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/ormchart/internal/telemetry/metrics"
	"github.com/2beens/ormchart/internal/telemetry/tracing"
	"github.com/2beens/ormchart/internal/window"
)

var ErrExerciseNotFound = errors.New("exercise not found")

type dailyValuesProvider interface {
	DailyMaxOneRM(exercise string) (map[time.Time]float64, bool)
}

// View is what a client gets back after each browse operation.
type View struct {
	SessionID string        `json:"sessionId"`
	Exercise  string        `json:"exercise"`
	Window    window.Window `json:"window"`
}

// Service drives window navigators whose state lives in a SessionStore, so a
// session survives across requests and service instances.
type Service struct {
	provider       dailyValuesProvider
	sessions       SessionStore
	loc            *time.Location
	firstWeekday   time.Weekday
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(
	provider dailyValuesProvider,
	sessions SessionStore,
	loc *time.Location,
	firstWeekday time.Weekday,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		provider:       provider,
		sessions:       sessions,
		loc:            loc,
		firstWeekday:   firstWeekday,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

func (s *Service) dailyValues(exercise string) (map[time.Time]float64, error) {
	data, found := s.provider.DailyMaxOneRM(exercise)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrExerciseNotFound, exercise)
	}
	return data, nil
}

// Start opens a new session positioned at the latest window of the exercise.
func (s *Service) Start(ctx context.Context, exercise string, unit window.TimeFrame) (_ View, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "browse.service.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	data, err := s.dailyValues(exercise)
	if err != nil {
		return View{}, err
	}

	nav := window.NewNavigator(s.loc, s.firstWeekday)
	w, err := nav.Initialize(data, unit)
	if err != nil {
		return View{}, err
	}
	state, _ := nav.State()

	session := Session{
		ID:        uuid.NewString(),
		Exercise:  exercise,
		State:     state,
		UpdatedAt: s.now(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return View{}, err
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterSessions.WithLabelValues(string(unit)).Inc()
	}
	log.Tracef("browse session %s started for [%s] by %s", session.ID, exercise, unit)

	return View{
		SessionID: session.ID,
		Exercise:  exercise,
		Window:    w,
	}, nil
}

// Move advances the session window one unit in the given direction.
func (s *Service) Move(ctx context.Context, sessionID string, direction window.Direction) (_ View, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "browse.service.move")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, nav, err := s.restore(ctx, sessionID)
	if err != nil {
		return View{}, err
	}

	w, err := nav.Advance(direction)
	if err != nil {
		return View{}, err
	}
	session.State, _ = nav.State()
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return View{}, err
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterWindowMoves.WithLabelValues(direction.String()).Inc()
	}

	return View{
		SessionID: session.ID,
		Exercise:  session.Exercise,
		Window:    w,
	}, nil
}

// Get returns the current session window, rebuilt from the latest records.
func (s *Service) Get(ctx context.Context, sessionID string) (_ View, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "browse.service.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, nav, err := s.restore(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	w, err := nav.Window()
	if err != nil {
		return View{}, err
	}
	return View{
		SessionID: session.ID,
		Exercise:  session.Exercise,
		Window:    w,
	}, nil
}

func (s *Service) End(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// WindowAt returns the window reached by moving back the given number of
// units from the latest one, without opening a session.
func (s *Service) WindowAt(exercise string, unit window.TimeFrame, back int) (window.Window, error) {
	if back < 0 {
		return window.Window{}, fmt.Errorf("negative back steps: %d", back)
	}

	data, err := s.dailyValues(exercise)
	if err != nil {
		return window.Window{}, err
	}

	nav := window.NewNavigator(s.loc, s.firstWeekday)
	w, err := nav.Initialize(data, unit)
	if err != nil {
		return window.Window{}, err
	}
	for i := 0; i < back && w.CanGoBackward; i++ {
		if w, err = nav.Advance(window.Backward); err != nil {
			return window.Window{}, err
		}
	}
	return w, nil
}

func (s *Service) restore(ctx context.Context, sessionID string) (Session, *window.Navigator, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return Session{}, nil, err
	}

	data, err := s.dailyValues(session.Exercise)
	if err != nil {
		return Session{}, nil, err
	}

	nav := window.NewNavigator(s.loc, s.firstWeekday)
	if _, err := nav.Restore(session.State, data); err != nil {
		return Session{}, nil, err
	}
	return session, nav, nil
}
