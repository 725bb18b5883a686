package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"domainsearch/internal/domain"
	"domainsearch/internal/logger"
	"domainsearch/internal/repo/memory"
	"domainsearch/internal/service/query"
)

func newTestManager(t *testing.T, svc domain.SearchService) *Manager {
	t.Helper()
	m := NewManager(context.Background(), svc, NewStore(), logger.NewNoopLogger())
	t.Cleanup(m.Close)
	return m
}

func waitIdle(t *testing.T, m *Manager, id string) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := m.Wait(ctx, id)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	return snap
}

func TestManager_CreateRunsInitialSearch(t *testing.T) {
	m := newTestManager(t, query.NewSearchService(memory.New(), nil, 0, logger.NewNoopLogger()))

	created := m.Create()
	if !created.Loading {
		t.Fatalf("expected loading right after create")
	}
	if created.Criteria != domain.DefaultCriteria() {
		t.Fatalf("criteria = %+v, want defaults", created.Criteria)
	}

	snap := waitIdle(t, m, created.ID)
	if snap.Loading || snap.Error != "" {
		t.Fatalf("unexpected state %+v", snap)
	}
	if snap.Results.Total != 6 || len(snap.Results.Items) != 6 {
		t.Fatalf("results = %+v, want 6 records", snap.Results)
	}
}

func TestManager_PagingAndCriteriaReset(t *testing.T) {
	m := newTestManager(t, query.NewSearchService(memory.New(), nil, 0, logger.NewNoopLogger()))
	id := m.Create().ID
	waitIdle(t, m, id)

	all := domain.Criteria{MaxLength: 63, SortBy: domain.SortPrice}
	if _, err := m.SetCriteria(id, all); err != nil {
		t.Fatalf("set criteria: %v", err)
	}
	snap := waitIdle(t, m, id)
	if snap.Results.TotalPages != 2 || snap.Results.Page != 1 || len(snap.Results.Items) != 10 {
		t.Fatalf("page 1 = %+v", snap.Results)
	}
	if snap.Results.Items[0].Domain != "book.store" {
		t.Fatalf("first item = %s, want book.store", snap.Results.Items[0].Domain)
	}

	snap, _ = m.NextPage(id)
	if snap.Results.Page != 2 || len(snap.Results.Items) != 2 || snap.Results.Items[1].Domain != "travel.blog" {
		t.Fatalf("page 2 = %+v", snap.Results)
	}
	snap, _ = m.NextPage(id)
	if snap.Results.Page != 2 {
		t.Fatalf("next past the end moved to page %d", snap.Results.Page)
	}

	m.PrevPage(id)
	snap, _ = m.PrevPage(id)
	if snap.Results.Page != 1 {
		t.Fatalf("prev before the start moved to page %d", snap.Results.Page)
	}

	m.SetPage(id, 2)
	all.SortBy = domain.SortLength
	snap, _ = m.SetCriteria(id, all)
	if snap.Results.Page != 1 {
		t.Fatalf("criteria change left page at %d", snap.Results.Page)
	}
}

func TestManager_SetCriteriaClamps(t *testing.T) {
	m := newTestManager(t, query.NewSearchService(memory.New(), nil, 0, logger.NewNoopLogger()))
	id := m.Create().ID

	snap, err := m.SetCriteria(id, domain.Criteria{MaxLength: 500})
	if err != nil {
		t.Fatalf("set criteria: %v", err)
	}
	if snap.Criteria.MaxLength != domain.MaxMaxLength || snap.Criteria.SortBy != domain.SortRelevance {
		t.Fatalf("criteria not normalized: %+v", snap.Criteria)
	}
}

func TestManager_Favorites(t *testing.T) {
	m := newTestManager(t, query.NewSearchService(memory.New(), nil, 0, logger.NewNoopLogger()))
	id := m.Create().ID

	m.ToggleFavorite(id, "co.de")
	snap, _ := m.ToggleFavorite(id, "ho.me")
	if got := snap.Favorites.List(); len(got) != 2 || got[0] != "co.de" || got[1] != "ho.me" {
		t.Fatalf("favorites = %v", got)
	}
	snap, _ = m.ToggleFavorite(id, "co.de")
	if got := snap.Favorites.List(); len(got) != 1 || got[0] != "ho.me" {
		t.Fatalf("favorites = %v", got)
	}

	// избранное переживает новые поиски
	m.Search(id)
	snap = waitIdle(t, m, id)
	if !snap.Favorites.Contains("ho.me") {
		t.Fatalf("favorites lost after search")
	}
}

type flakyRepo struct {
	failing atomic.Bool
}

func (r *flakyRepo) Migrate(ctx context.Context) error { return nil }

func (r *flakyRepo) List(ctx context.Context) ([]domain.DomainRecord, error) {
	if r.failing.Load() {
		return nil, errors.New("backend unavailable")
	}
	return domain.SampleCatalog(), nil
}

func TestManager_SearchFailedAndRetry(t *testing.T) {
	repo := &flakyRepo{}
	m := newTestManager(t, query.NewSearchService(repo, nil, 0, logger.NewNoopLogger()))
	id := m.Create().ID
	before := waitIdle(t, m, id)

	repo.failing.Store(true)
	m.Search(id)
	snap := waitIdle(t, m, id)
	if snap.Error != domain.SearchFailedMessage {
		t.Fatalf("error = %q, want %q", snap.Error, domain.SearchFailedMessage)
	}
	if snap.Loading {
		t.Fatalf("still loading after failure")
	}
	if snap.Results.Total != before.Results.Total {
		t.Fatalf("failure discarded previous results")
	}

	repo.failing.Store(false)
	snap, _ = m.Search(id)
	if snap.Error != "" {
		t.Fatalf("retry did not clear the error")
	}
	snap = waitIdle(t, m, id)
	if snap.Error != "" || snap.Results.Total != 6 {
		t.Fatalf("retry state = %+v", snap)
	}
}

// gatedService отдаёт то, что тест пришлёт на каждый вызов, и, как мок на
// таймере, игнорирует отмену.
type gatedService struct {
	calls chan *gatedCall
}

type gatedCall struct {
	criteria domain.Criteria
	release  chan []domain.DomainRecord
}

func (g *gatedService) Search(ctx context.Context, c domain.Criteria) ([]domain.DomainRecord, error) {
	call := &gatedCall{criteria: c, release: make(chan []domain.DomainRecord, 1)}
	g.calls <- call
	return <-call.release, nil
}

func nextCall(t *testing.T, g *gatedService) *gatedCall {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(5 * time.Second):
		t.Fatalf("no search call")
		return nil
	}
}

func TestManager_LastRequestWins(t *testing.T) {
	g := &gatedService{calls: make(chan *gatedCall, 4)}
	m := NewManager(context.Background(), g, NewStore(), logger.NewNoopLogger())

	id := m.Create().ID
	first := nextCall(t, g)

	c := domain.DefaultCriteria()
	c.Prefix = "co"
	m.SetCriteria(id, c)
	second := nextCall(t, g)
	if second.criteria.Prefix != "co" {
		t.Fatalf("second search ran with %+v", second.criteria)
	}

	coDe := query.Search(domain.SampleCatalog(), c)
	second.release <- coDe
	snap := waitIdle(t, m, id)
	if snap.Results.Total != 1 || snap.Results.Items[0].Domain != "co.de" {
		t.Fatalf("latest result not applied: %+v", snap.Results)
	}

	// старый поиск завершается последним и должен быть проигнорирован
	first.release <- domain.SampleCatalog()
	m.Close()

	snap, err := m.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if snap.Results.Total != 1 || snap.Loading {
		t.Fatalf("stale result applied: %+v", snap)
	}
}

func TestManager_WaitFollowsNewerSearch(t *testing.T) {
	g := &gatedService{calls: make(chan *gatedCall, 4)}
	m := NewManager(context.Background(), g, NewStore(), logger.NewNoopLogger())
	defer m.Close()

	id := m.Create().ID
	first := nextCall(t, g)
	m.Search(id)
	second := nextCall(t, g)

	var wg sync.WaitGroup
	var snap Snapshot
	var waitErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		snap, waitErr = m.Wait(ctx, id)
	}()

	first.release <- nil
	second.release <- domain.SampleCatalog()
	wg.Wait()

	if waitErr != nil {
		t.Fatalf("wait: %v", waitErr)
	}
	if snap.Loading || snap.Results.Total != 12 {
		t.Fatalf("wait returned %+v", snap)
	}
}

func TestManager_NotFound(t *testing.T) {
	m := newTestManager(t, query.NewSearchService(memory.New(), nil, 0, logger.NewNoopLogger()))

	if _, err := m.Get("missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("Get err = %v", err)
	}
	if _, err := m.Wait(context.Background(), "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("Wait err = %v", err)
	}
	if err := m.Delete("missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("Delete err = %v", err)
	}
}

func TestManager_DeleteCancelsSearch(t *testing.T) {
	svc := query.NewSearchService(memory.New(), nil, time.Hour, logger.NewNoopLogger())
	m := newTestManager(t, svc)
	id := m.Create().ID

	if err := m.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	done := make(chan struct{})
	go func() {
		m.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("in-flight search not cancelled by delete")
	}
}

func TestManager_Sweep(t *testing.T) {
	m := newTestManager(t, query.NewSearchService(memory.New(), nil, 0, logger.NewNoopLogger()))
	base := time.Now()
	m.now = func() time.Time { return base }

	old := m.Create().ID
	waitIdle(t, m, old)

	m.now = func() time.Time { return base.Add(20 * time.Minute) }
	fresh := m.Create().ID

	m.now = func() time.Time { return base.Add(40 * time.Minute) }
	if n := m.Sweep(30 * time.Minute); n != 1 {
		t.Fatalf("swept %d sessions, want 1", n)
	}
	if _, err := m.Get(old); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("old session still present")
	}
	if _, err := m.Get(fresh); err != nil {
		t.Fatalf("fresh session dropped: %v", err)
	}
}
