package state

import (
	"context"
	"sync"
	"time"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

var _ contractx.HistoryStore = (*MemoryStore)(nil)

// MemoryStore keeps every session in process memory. Each session has its own
// lock so appends to one session never wait on another.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionLog
	now      func() time.Time
}

type sessionLog struct {
	mu    sync.Mutex
	turns []contractx.Turn
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*sessionLog),
		now:      time.Now,
	}
}

func (s *MemoryStore) History(_ context.Context, sessionID string, limit int) ([]contractx.Turn, error) {
	id, err := validSessionID(sessionID)
	if err != nil {
		return nil, err
	}

	l := s.session(id)
	l.mu.Lock()
	defer l.mu.Unlock()
	return tail(l.turns, ClampLimit(limit)), nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, turn contractx.Turn) error {
	id, err := validSessionID(sessionID)
	if err != nil {
		return err
	}
	turn, err = stampTurn(turn, s.now())
	if err != nil {
		return err
	}

	l := s.session(id)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, turn)
	if len(l.turns) > MaxTurns {
		l.turns = tail(l.turns, MaxTurns)
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	id, err := validSessionID(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports how many sessions have been referenced so far.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) session(id string) *sessionLog {
	s.mu.RLock()
	l, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok = s.sessions[id]; ok {
		return l
	}
	l = &sessionLog{}
	s.sessions[id] = l
	return l
}
