package domain

import "github.com/shopspring/decimal"

// SampleCatalog возвращает встроенный каталог в порядке релевантности.
// Length — данные каталога, из Domain не пересчитывается.
func SampleCatalog() []DomainRecord {
	return []DomainRecord{
		{Domain: "ho.me", Available: true, Meaningful: true, Length: 4, Price: decimal.RequireFromString("29.99")},
		{Domain: "ca.fe", Available: false, Meaningful: true, Length: 4, Price: decimal.RequireFromString("49.99")},
		{Domain: "co.de", Available: true, Meaningful: true, Length: 4, Price: decimal.RequireFromString("39.99")},
		{Domain: "ap.ps", Available: true, Meaningful: false, Length: 4, Price: decimal.RequireFromString("19.99")},
		{Domain: "book.store", Available: true, Meaningful: true, Length: 9, Price: decimal.RequireFromString("14.99")},
		{Domain: "tech.hub", Available: true, Meaningful: true, Length: 8, Price: decimal.RequireFromString("24.99")},
		{Domain: "eco.life", Available: true, Meaningful: true, Length: 8, Price: decimal.RequireFromString("34.99")},
		{Domain: "fit.ness", Available: false, Meaningful: true, Length: 7, Price: decimal.RequireFromString("44.99")},
		{Domain: "art.gallery", Available: true, Meaningful: true, Length: 11, Price: decimal.RequireFromString("54.99")},
		{Domain: "smart.home", Available: true, Meaningful: true, Length: 9, Price: decimal.RequireFromString("64.99")},
		{Domain: "food.truck", Available: false, Meaningful: true, Length: 9, Price: decimal.RequireFromString("74.99")},
		{Domain: "travel.blog", Available: true, Meaningful: true, Length: 10, Price: decimal.RequireFromString("84.99")},
	}
}
