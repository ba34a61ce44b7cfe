package catalog

import (
	"sort"
	"strings"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

var _ contractx.Catalog = (*Catalog)(nil)

// Catalog is an immutable, ordered list of items. Catalog order is the load order
// and is significant for searches without a sort field.
type Catalog struct {
	items []contractx.Item
}

func New(items []contractx.Item) *Catalog {
	return &Catalog{items: append([]contractx.Item(nil), items...)}
}

// Empty is the catalog used when nothing could be loaded.
func Empty() *Catalog {
	return &Catalog{}
}

func (c *Catalog) All() []contractx.Item {
	if c == nil {
		return nil
	}
	return append([]contractx.Item(nil), c.items...)
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Search filters by a case-insensitive substring of name or description and by
// inclusive price bounds. Sorting by price is descending, by name or quantity
// ascending; ties keep catalog order.
func (c *Catalog) Search(opts contractx.SearchOptions) []contractx.Item {
	if c == nil || len(c.items) == 0 {
		return nil
	}

	needle := strings.ToLower(opts.Query)
	out := make([]contractx.Item, 0, len(c.items))
	for _, item := range c.items {
		if needle != "" &&
			!strings.Contains(strings.ToLower(item.ItemName), needle) &&
			!strings.Contains(strings.ToLower(item.ItemDescription), needle) {
			continue
		}
		if opts.MinPrice != nil && item.Price < *opts.MinPrice {
			continue
		}
		if opts.MaxPrice != nil && item.Price > *opts.MaxPrice {
			continue
		}
		out = append(out, item)
	}

	switch opts.SortBy {
	case contractx.SortByPrice:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case contractx.SortByName:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	case contractx.SortByQuantity:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ItemQuantity < out[j].ItemQuantity })
	}
	return out
}

func (c *Catalog) GetByID(id string) (contractx.Item, bool) {
	if c == nil {
		return contractx.Item{}, false
	}
	want := strings.TrimSpace(id)
	for _, item := range c.items {
		if strings.TrimSpace(item.ItemID) == want {
			return item, true
		}
	}
	return contractx.Item{}, false
}

// ParseSortField accepts both the short names and the record field names.
func ParseSortField(raw string) (contractx.SortField, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", true
	case "price":
		return contractx.SortByPrice, true
	case "name", "item_name":
		return contractx.SortByName, true
	case "quantity", "item_quantity":
		return contractx.SortByQuantity, true
	default:
		return "", false
	}
}
