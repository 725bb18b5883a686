// Package session хранит состояние одной формы поиска и запускает её поиски.
//
// Каждый поиск получает новый номер поколения и отменяет предыдущий.
// Результат применяется, только если его поколение всё ещё последнее,
// поэтому ответы перекрывающихся поисков не могут лечь не по порядку.
package session

import (
	"context"
	"sync"
	"time"

	"domainsearch/internal/domain"
	"domainsearch/internal/service/query"
)

// State — всё, что нужно слою отображения, чтобы нарисовать сессию.
type State struct {
	Criteria   domain.Criteria
	Results    []domain.DomainRecord
	Page       int
	TotalPages int
	Favorites  domain.FavoriteSet
	Loading    bool
	Error      string
	Generation uint64
}

func newState() State {
	return State{
		Criteria:   domain.DefaultCriteria(),
		Page:       1,
		TotalPages: 1,
	}
}

// SetCriteria сохраняет нормализованные критерии и сбрасывает страницу.
func (st *State) SetCriteria(c domain.Criteria) {
	st.Criteria = c.Normalize()
	st.Page = 1
}

// ApplyResults заменяет результаты и сбрасывает страницу.
func (st *State) ApplyResults(results []domain.DomainRecord) {
	st.Results = results
	st.TotalPages = query.TotalPages(len(results), domain.PageSize)
	st.Page = 1
	st.Loading = false
	st.Error = ""
}

func (st *State) Fail() {
	st.Loading = false
	st.Error = domain.SearchFailedMessage
}

func (st *State) SetPage(p int) {
	st.Page = query.ClampPage(p, st.TotalPages)
}

func (st *State) NextPage() { st.SetPage(st.Page + 1) }

func (st *State) PrevPage() { st.SetPage(st.Page - 1) }

// ToggleFavorite сообщает, в избранном ли домен после переключения.
func (st *State) ToggleFavorite(d string) bool {
	st.Favorites = query.ToggleFavorite(st.Favorites, d)
	return st.Favorites.Contains(d)
}

// Snapshot — согласованная копия состояния сессии с готовой текущей страницей.
type Snapshot struct {
	ID        string             `json:"id"`
	Criteria  domain.Criteria    `json:"criteria"`
	Results   domain.ResultPage  `json:"results"`
	Favorites domain.FavoriteSet `json:"favorites"`
	Loading   bool               `json:"loading"`
	Error     string             `json:"error,omitempty"`
}

type Session struct {
	id string

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	idle    chan struct{}
	touched time.Time
}

func newSession(id string, now time.Time) *Session {
	idle := make(chan struct{})
	close(idle)
	return &Session{id: id, state: newState(), idle: idle, touched: now}
}

func (s *Session) ID() string { return s.id }

func (s *Session) snapshotLocked() Snapshot {
	st := s.state
	return Snapshot{
		ID:        s.id,
		Criteria:  st.Criteria,
		Results:   query.Paginate(st.Results, st.Page, domain.PageSize),
		Favorites: st.Favorites,
		Loading:   st.Loading,
		Error:     st.Error,
	}
}

func (s *Session) lastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *Session) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}
