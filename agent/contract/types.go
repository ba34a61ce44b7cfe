package contract

import "time"

const (
	DefaultSessionID = "default"
	FormatText       = "text"
)

type Item struct {
	ItemID          string  `json:"item_id" yaml:"item_id"`
	ItemName        string  `json:"item_name" yaml:"item_name"`
	Price           float64 `json:"price" yaml:"price"`
	ItemQuantity    int     `json:"item_quantity" yaml:"item_quantity"`
	ItemDescription string  `json:"item_description,omitempty" yaml:"item_description,omitempty"`
	MaximumDiscount float64 `json:"maximum_discount" yaml:"maximum_discount"`
}

// DiscountPercent is the discount fraction rendered as a whole percentage.
func (i Item) DiscountPercent() float64 {
	return i.MaximumDiscount * 100
}

type SortField string

const (
	SortByPrice    SortField = "price"
	SortByName     SortField = "name"
	SortByQuantity SortField = "quantity"
)

type SearchOptions struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
	SortBy   SortField
}

// ItemContext is the item context attached to a turn: a focused item, a short
// list of candidates, or both.
type ItemContext struct {
	CurrentItem *Item  `json:"current_item,omitempty" yaml:"current_item,omitempty"`
	ItemList    []Item `json:"item_list,omitempty" yaml:"item_list,omitempty"`
}

func (c *ItemContext) IsEmpty() bool {
	return c == nil || (c.CurrentItem == nil && len(c.ItemList) == 0)
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	ID        string       `json:"id" yaml:"id"`
	Role      Role         `json:"role" yaml:"role"`
	Content   string       `json:"content" yaml:"content"`
	Timestamp time.Time    `json:"timestamp" yaml:"timestamp"`
	Context   *ItemContext `json:"context,omitempty" yaml:"context,omitempty"`
}

type QueryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

type QueryResult struct {
	Response string `json:"response"`
	Query    string `json:"query"`
	Format   string `json:"format"`
	ItemData *Item  `json:"item_data,omitempty"`
	Items    []Item `json:"items,omitempty"`
}
