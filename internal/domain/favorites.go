package domain

import (
	"encoding/json"
	"slices"
)

// FavoriteSet — упорядоченное множество доменов. Нулевое значение пусто.
// Toggle не меняет получателя.
type FavoriteSet struct {
	items []string
}

func NewFavoriteSet(domains ...string) FavoriteSet {
	var s FavoriteSet
	for _, d := range domains {
		if !s.Contains(d) {
			s.items = append(s.items, d)
		}
	}
	return s
}

func (s FavoriteSet) Contains(domain string) bool {
	return slices.Contains(s.items, domain)
}

// Toggle добавляет домен, если его нет, и убирает, если есть.
func (s FavoriteSet) Toggle(domain string) FavoriteSet {
	if i := slices.Index(s.items, domain); i >= 0 {
		out := make([]string, 0, len(s.items)-1)
		out = append(out, s.items[:i]...)
		out = append(out, s.items[i+1:]...)
		return FavoriteSet{items: out}
	}
	out := make([]string, 0, len(s.items)+1)
	out = append(out, s.items...)
	out = append(out, domain)
	return FavoriteSet{items: out}
}

func (s FavoriteSet) Len() int { return len(s.items) }

// List возвращает элементы в порядке добавления.
func (s FavoriteSet) List() []string {
	return slices.Clone(s.items)
}

func (s FavoriteSet) Equal(o FavoriteSet) bool {
	return slices.Equal(s.items, o.items)
}

func (s FavoriteSet) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}
