package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"domainsearch/internal/domain"
	"domainsearch/internal/metrics"
)

type Manager struct {
	svc    domain.SearchService
	store  *Store
	logger *slog.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager запускает поиски под ctx; его отмена или Close останавливает
// все незавершённые поиски.
func NewManager(ctx context.Context, svc domain.SearchService, store *Store, logger *slog.Logger) *Manager {
	ctx, cancel := context.WithCancel(ctx)
	return &Manager{
		svc:    svc,
		store:  store,
		logger: logger,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Create создаёт сессию с критериями по умолчанию и сразу запускает
// первый поиск.
func (m *Manager) Create() Snapshot {
	s := newSession(uuid.NewString(), m.now())
	m.store.Put(s)
	metrics.ActiveSessions.Inc()
	m.logger.Debug("session created", "session", s.id)

	s.mu.Lock()
	defer s.mu.Unlock()
	m.startLocked(s)
	return s.snapshotLocked()
}

func (m *Manager) Get(id string) (Snapshot, error) {
	return m.with(id, func(*Session) {})
}

func (m *Manager) Delete(id string) error {
	s, ok := m.store.Delete(id)
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.stop()
	metrics.ActiveSessions.Dec()
	m.logger.Debug("session deleted", "session", id)
	return nil
}

// SetCriteria заменяет критерии, сбрасывает страницу и ищет заново.
func (m *Manager) SetCriteria(id string, c domain.Criteria) (Snapshot, error) {
	return m.with(id, func(s *Session) {
		s.state.SetCriteria(c)
		m.startLocked(s)
	})
}

// Search повторяет поиск по текущим критериям. Так же повторяется
// упавший поиск.
func (m *Manager) Search(id string) (Snapshot, error) {
	return m.with(id, func(s *Session) {
		m.startLocked(s)
	})
}

func (m *Manager) NextPage(id string) (Snapshot, error) {
	return m.with(id, func(s *Session) { s.state.NextPage() })
}

func (m *Manager) PrevPage(id string) (Snapshot, error) {
	return m.with(id, func(s *Session) { s.state.PrevPage() })
}

func (m *Manager) SetPage(id string, page int) (Snapshot, error) {
	return m.with(id, func(s *Session) { s.state.SetPage(page) })
}

func (m *Manager) ToggleFavorite(id, d string) (Snapshot, error) {
	return m.with(id, func(s *Session) {
		metrics.RecordFavorite(s.state.ToggleFavorite(d))
	})
}

// Wait блокируется, пока у сессии есть незавершённый поиск.
func (m *Manager) Wait(ctx context.Context, id string) (Snapshot, error) {
	s, ok := m.store.Get(id)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}

	for {
		s.mu.Lock()
		idle := s.idle
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		case <-idle:
		}

		s.mu.Lock()
		// между пробуждением и блокировкой мог стартовать новый поиск
		if s.idle == idle {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, nil
		}
		s.mu.Unlock()
	}
}

// RunJanitor удаляет сессии, простаивающие дольше ttl, до отмены ctx.
func (m *Manager) RunJanitor(ctx context.Context, ttl time.Duration) error {
	interval := ttl / 2
	if interval <= 0 {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			m.Sweep(ttl)
		}
	}
}

// Sweep удаляет сессии, простаивающие дольше ttl, и возвращает их число.
func (m *Manager) Sweep(ttl time.Duration) int {
	expired := m.store.Expired(m.now().Add(-ttl))
	for _, s := range expired {
		s.stop()
		metrics.ActiveSessions.Dec()
	}
	if len(expired) > 0 {
		m.logger.Info("expired sessions dropped", "count", len(expired))
	}
	return len(expired)
}

// Close отменяет незавершённые поиски и ждёт их возврата.
func (m *Manager) Close() {
	m.cancel()
	m.wg.Wait()
}

func (m *Manager) with(id string, fn func(*Session)) (Snapshot, error) {
	s, ok := m.store.Get(id)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = m.now()
	fn(s)
	return s.snapshotLocked(), nil
}

// startLocked отменяет предыдущий поиск и запускает новый по текущим
// критериям. Вызывать под s.mu.
func (m *Manager) startLocked(s *Session) {
	if s.cancel != nil {
		s.cancel()
	}
	if !s.state.Loading {
		s.idle = make(chan struct{})
	}

	s.state.Generation++
	s.state.Loading = true
	s.state.Error = ""

	ctx, cancel := context.WithCancel(m.ctx)
	s.cancel = cancel

	gen := s.state.Generation
	c := s.state.Criteria

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		res, err := m.svc.Search(ctx, c)
		m.finish(s, gen, res, err)
	}()
}

func (m *Manager) finish(s *Session, gen uint64, res []domain.DomainRecord, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.state.Generation {
		metrics.StaleDiscarded.Inc()
		m.logger.Debug("stale search result discarded", "session", s.id, "generation", gen, "latest", s.state.Generation)
		return
	}

	switch {
	case err == nil:
		s.state.ApplyResults(res)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		// сессию или менеджер закрыли — оставляем прежние результаты
		s.state.Loading = false
	default:
		m.logger.Warn("search failed", "session", s.id, "err", err)
		s.state.Fail()
	}

	s.cancel = nil
	close(s.idle)
}
