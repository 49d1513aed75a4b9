package browse

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
)

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in process memory. A cron job evicts
// sessions not accessed within the ttl.
type MemorySessionStore struct {
	mutex    sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
	cron     *cron.Cron
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// StartEviction schedules expired sessions cleanup, e.g. "@every 1m".
func (s *MemorySessionStore) StartEviction(spec string) error {
	c := cron.New()
	if err := c.AddFunc(spec, func() {
		if evicted := s.EvictExpired(); evicted > 0 {
			log.Debugf("evicted %d expired browse sessions", evicted)
		}
	}); err != nil {
		return err
	}
	c.Start()

	s.mutex.Lock()
	s.cron = c
	s.mutex.Unlock()
	return nil
}

func (s *MemorySessionStore) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, ok := s.sessions[id]
	if !ok || !s.now().Before(entry.expiresAt) {
		delete(s.sessions, id)
		return Session{}, ErrSessionNotFound
	}
	entry.expiresAt = s.now().Add(s.ttl)
	s.sessions[id] = entry
	return entry.session, nil
}

func (s *MemorySessionStore) Save(_ context.Context, session Session) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.sessions[session.ID] = memoryEntry{
		session:   session,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) EvictExpired() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	evicted := 0
	for id, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (s *MemorySessionStore) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.sessions)
}
