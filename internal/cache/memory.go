package cache

import (
	"container/list"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"

	"domainsearch/internal/domain"
)

type entry struct {
	key   uint64
	value []domain.DomainRecord
}

// ResultCache — LRU результатов поиска по ключу критериев.
type ResultCache struct {
	mu    sync.Mutex
	ll    *list.List
	cache map[uint64]*list.Element
	max   int
}

func NewResultCache(max int) *ResultCache {
	if max <= 0 {
		max = 1
	}
	return &ResultCache{
		ll:    list.New(),
		cache: make(map[uint64]*list.Element, max),
		max:   max,
	}
}

// Key хэширует поля критериев, влияющие на результат. Передавать нужно
// нормализованные критерии, иначе одинаковые запросы разойдутся по ключам.
func Key(c domain.Criteria) uint64 {
	var sb strings.Builder
	sb.WriteString(c.Prefix)
	sb.WriteByte(0)
	sb.WriteString(c.Extension)
	sb.WriteByte(0)
	sb.WriteString(strconv.FormatBool(c.MeaningfulOnly))
	sb.WriteByte(0)
	sb.WriteString(strconv.FormatBool(c.AvailableOnly))
	sb.WriteByte(0)
	sb.WriteString(strconv.Itoa(c.MaxLength))
	sb.WriteByte(0)
	sb.WriteString(string(c.SortBy))
	return xxh3.HashString(sb.String())
}

func (c *ResultCache) Get(key uint64) ([]domain.DomainRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, ok := c.cache[key]; ok {
		c.ll.MoveToFront(ele)
		ent := ele.Value.(*entry)
		return slices.Clone(ent.value), true
	}
	return nil, false
}

func (c *ResultCache) Set(key uint64, results []domain.DomainRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	results = slices.Clone(results)
	if ele, ok := c.cache[key]; ok {
		c.ll.MoveToFront(ele)
		ent := ele.Value.(*entry)
		ent.value = results
		return
	}

	ele := c.ll.PushFront(&entry{key: key, value: results})
	c.cache[key] = ele

	if c.ll.Len() > c.max {
		c.removeOldest()
	}
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *ResultCache) removeOldest() {
	ele := c.ll.Back()
	if ele == nil {
		return
	}
	c.ll.Remove(ele)
	ent := ele.Value.(*entry)
	delete(c.cache, ent.key)
}
