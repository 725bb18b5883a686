package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	PageSize = 10

	MinMaxLength = 2
	MaxMaxLength = 63

	DefaultMaxLength = 10
)

// Extensions — доступные расширения в порядке показа.
var Extensions = []string{".com", ".net", ".org", ".io", ".ai", ".me", ".co", ".app", ".dev"}

type DomainRecord struct {
	Domain     string          `json:"domain"`
	Available  bool            `json:"available"`
	Meaningful bool            `json:"meaningful"`
	Length     int             `json:"length"`
	Price      decimal.Decimal `json:"price"`
}

type SortBy string

const (
	SortRelevance SortBy = "relevance"
	SortLength    SortBy = "length"
	SortPrice     SortBy = "price"
)

// ParseSortBy считает "" релевантностью.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(s) {
	case "", SortRelevance:
		return SortRelevance, nil
	case SortLength:
		return SortLength, nil
	case SortPrice:
		return SortPrice, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
}

func ValidExtension(ext string) bool {
	if ext == "" {
		return true
	}
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

type Criteria struct {
	Prefix         string `json:"prefix"`
	Extension      string `json:"extension"`
	MeaningfulOnly bool   `json:"meaningful_only"`
	AvailableOnly  bool   `json:"available_only"`
	MaxLength      int    `json:"max_length"`
	SortBy         SortBy `json:"sort_by"`
}

// DefaultCriteria — начальное состояние формы поиска.
func DefaultCriteria() Criteria {
	return Criteria{
		MeaningfulOnly: true,
		AvailableOnly:  true,
		MaxLength:      DefaultMaxLength,
		SortBy:         SortRelevance,
	}
}

// Normalize прижимает MaxLength к границам слайдера, а неизвестную
// сортировку заменяет релевантностью.
func (c Criteria) Normalize() Criteria {
	if c.MaxLength < MinMaxLength {
		c.MaxLength = MinMaxLength
	}
	if c.MaxLength > MaxMaxLength {
		c.MaxLength = MaxMaxLength
	}
	if _, err := ParseSortBy(string(c.SortBy)); err != nil || c.SortBy == "" {
		c.SortBy = SortRelevance
	}
	return c
}

// Validate отклоняет значения, которые форма выдать не может.
func (c Criteria) Validate() error {
	if !ValidExtension(c.Extension) {
		return fmt.Errorf("%w: %q", ErrInvalidExtension, c.Extension)
	}
	if _, err := ParseSortBy(string(c.SortBy)); err != nil {
		return err
	}
	return nil
}

type ResultPage struct {
	Items      []DomainRecord `json:"items"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Total      int            `json:"total"`
}

type CatalogRepository interface {
	Migrate(ctx context.Context) error
	List(ctx context.Context) ([]DomainRecord, error)
}

type SearchService interface {
	Search(ctx context.Context, c Criteria) ([]DomainRecord, error)
}

// SearchFailedMessage — единственный текст, который видит пользователь при ошибке поиска.
const SearchFailedMessage = "An error occurred while searching domains. Please try again."

var (
	ErrSearchFailed     = errors.New("search failed")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidExtension = errors.New("invalid extension")
	ErrInvalidSort      = errors.New("invalid sort")
	ErrInvalidDomain    = errors.New("invalid domain name")
)
