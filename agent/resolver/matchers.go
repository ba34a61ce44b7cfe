package resolver

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

var (
	skuPattern   = regexp.MustCompile(`(?i)(sku\d{7})(?:\D|$)`)
	pricePattern = regexp.MustCompile(`under\s+\$?(\d+)|less\s+than\s+\$?(\d+)|cheaper\s+than\s+\$?(\d+)`)
)

// SKUMatcher looks up an explicit SKU followed by exactly seven digits.
type SKUMatcher struct{}

func (SKUMatcher) Name() string { return "sku" }

func (SKUMatcher) Match(query string, catalog contractx.Catalog) *contractx.ItemContext {
	if !strings.Contains(strings.ToLower(query), "sku") {
		return nil
	}
	m := skuPattern.FindStringSubmatch(query)
	if m == nil {
		return nil
	}
	item, ok := catalog.GetByID(strings.ToUpper(m[1]))
	if !ok {
		return nil
	}
	return &contractx.ItemContext{CurrentItem: &item}
}

// PriceThresholdMatcher handles "under $N", "less than $N" and "cheaper than $N".
// Results follow the catalog's price sort, which is descending.
type PriceThresholdMatcher struct{}

func (PriceThresholdMatcher) Name() string { return "price_threshold" }

func (PriceThresholdMatcher) Match(query string, catalog contractx.Catalog) *contractx.ItemContext {
	m := pricePattern.FindStringSubmatch(strings.ToLower(query))
	if m == nil {
		return nil
	}

	var limit float64
	for _, group := range m[1:] {
		if group == "" {
			continue
		}
		// Overflow yields +Inf, so an oversized limit still means "any price".
		n, err := strconv.ParseFloat(group, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil
		}
		limit = n
		break
	}

	items := catalog.Search(contractx.SearchOptions{
		MaxPrice: &limit,
		SortBy:   contractx.SortByPrice,
	})
	if len(items) == 0 {
		return nil
	}
	return &contractx.ItemContext{ItemList: firstN(items, MaxListItems)}
}

type Category struct {
	Name     string
	Keywords []string
}

// DefaultCategories is ordered; earlier categories and keywords take precedence.
func DefaultCategories() []Category {
	return []Category{
		{Name: "electronics", Keywords: []string{"laptop", "tablet", "computer", "phone", "headphones", "earbuds", "speaker"}},
		{Name: "office supplies", Keywords: []string{"stapler", "paper", "pen", "pencil", "notebook", "binder"}},
		{Name: "clothing", Keywords: []string{"shirt", "pants", "jacket", "hoodie", "sweater", "yoga"}},
	}
}

// CategoryMatcher searches for the first keyword that appears in the query and
// has catalog hits.
type CategoryMatcher struct {
	Categories []Category
}

func (CategoryMatcher) Name() string { return "category" }

func (m CategoryMatcher) Match(query string, catalog contractx.Catalog) *contractx.ItemContext {
	lower := strings.ToLower(query)
	for _, category := range m.Categories {
		for _, keyword := range category.Keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			items := catalog.Search(contractx.SearchOptions{Query: keyword})
			if len(items) > 0 {
				return &contractx.ItemContext{ItemList: firstN(items, MaxListItems)}
			}
		}
	}
	return nil
}

// NameMatcher picks the first item whose full name appears in the query.
type NameMatcher struct{}

func (NameMatcher) Name() string { return "name" }

func (NameMatcher) Match(query string, catalog contractx.Catalog) *contractx.ItemContext {
	lower := strings.ToLower(query)
	for _, item := range catalog.All() {
		name := strings.ToLower(strings.TrimSpace(item.ItemName))
		if name == "" {
			continue
		}
		if strings.Contains(lower, name) {
			item := item
			return &contractx.ItemContext{CurrentItem: &item}
		}
	}
	return nil
}
