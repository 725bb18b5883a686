package domain

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"
)

// ValidateName проверяет, что d — имя хоста в канонической форме.
// Избранное сравнивается побайтно, поэтому "CO.DE" не совпадёт с "co.de":
// такие имена отклоняем, а не переписываем.
func ValidateName(d string) error {
	if strings.TrimSpace(d) != d || d == "" {
		return fmt.Errorf("%w: %q", ErrInvalidDomain, d)
	}
	ascii, err := idna.Lookup.ToASCII(d)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidDomain, d, err)
	}
	canonical, err := idna.Lookup.ToUnicode(ascii)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidDomain, d, err)
	}
	if canonical != d {
		return fmt.Errorf("%w: %q is not canonical, use %q", ErrInvalidDomain, d, canonical)
	}
	return nil
}
