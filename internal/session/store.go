package session

import (
	"sync"
	"time"
)

// Store хранит сессии в памяти процесса.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.id] = s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *Store) Delete(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if ok {
		delete(st.sessions, id)
	}
	return s, ok
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Expired удаляет и возвращает сессии, не тронутые с cutoff.
func (st *Store) Expired(cutoff time.Time) []*Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	var out []*Session
	for id, s := range st.sessions {
		if s.lastSeen().Before(cutoff) {
			delete(st.sessions, id)
			out = append(out, s)
		}
	}
	return out
}
