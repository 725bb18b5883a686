package query

import (
	"slices"
	"strings"
	"unicode/utf8"

	"domainsearch/internal/domain"
)

type predicate func(domain.DomainRecord) bool

// filters собирает активные предикаты в фиксированном порядке.
// Неактивные критерии ничего не добавляют.
func filters(c domain.Criteria) []predicate {
	var ps []predicate
	if c.Prefix != "" {
		ps = append(ps, func(r domain.DomainRecord) bool { return strings.HasPrefix(r.Domain, c.Prefix) })
	}
	if c.Extension != "" {
		ps = append(ps, func(r domain.DomainRecord) bool { return strings.HasSuffix(r.Domain, c.Extension) })
	}
	if c.MeaningfulOnly {
		ps = append(ps, func(r domain.DomainRecord) bool { return r.Meaningful })
	}
	if c.AvailableOnly {
		ps = append(ps, func(r domain.DomainRecord) bool { return r.Available })
	}
	ps = append(ps, func(r domain.DomainRecord) bool {
		return utf8.RuneCountInString(r.Domain) <= c.MaxLength
	})
	return ps
}

// Search фильтрует и сортирует каталог. Сам catalog не меняется.
func Search(catalog []domain.DomainRecord, c domain.Criteria) []domain.DomainRecord {
	ps := filters(c)

	out := make([]domain.DomainRecord, 0, len(catalog))
next:
	for _, r := range catalog {
		for _, p := range ps {
			if !p(r) {
				continue next
			}
		}
		out = append(out, r)
	}

	switch c.SortBy {
	case domain.SortLength:
		slices.SortStableFunc(out, func(a, b domain.DomainRecord) int { return a.Length - b.Length })
	case domain.SortPrice:
		slices.SortStableFunc(out, func(a, b domain.DomainRecord) int { return a.Price.Cmp(b.Price) })
	}
	return out
}

func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = domain.PageSize
	}
	pages := (n + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage держит page в пределах [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate возвращает запрошенную страницу. Страница вне диапазона
// прижимается к границе, а не отклоняется.
func Paginate(results []domain.DomainRecord, page, pageSize int) domain.ResultPage {
	if pageSize <= 0 {
		pageSize = domain.PageSize
	}
	total := TotalPages(len(results), pageSize)
	page = ClampPage(page, total)

	lo := min((page-1)*pageSize, len(results))
	hi := min(page*pageSize, len(results))

	items := make([]domain.DomainRecord, hi-lo)
	copy(items, results[lo:hi])

	return domain.ResultPage{
		Items:      items,
		Page:       page,
		TotalPages: total,
		Total:      len(results),
	}
}

func ToggleFavorite(set domain.FavoriteSet, d string) domain.FavoriteSet {
	return set.Toggle(d)
}
