package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

const (
	columnID          = "item_id"
	columnName        = "item_name"
	columnPrice       = "price"
	columnQuantity    = "item_quantity"
	columnDescription = "item_description"
	columnDiscount    = "maximum_discount"
)

var requiredColumns = []string{columnID, columnName, columnPrice}

// itemsFromRows converts a header row plus data rows into items. Header names are
// matched after trimming and lower-casing. Invalid rows are skipped.
func itemsFromRows(rows [][]string) ([]contractx.Item, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	items := make([]contractx.Item, 0, len(rows)-1)
	for n, row := range rows[1:] {
		cell := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if cell(columnID) == "" && cell(columnName) == "" {
			continue
		}

		item, err := parseItem(cell)
		if err != nil {
			log.Warn().Err(err).Int("row", n+2).Msg("catalog: skipping row")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func parseItem(cell func(string) string) (contractx.Item, error) {
	price, err := parseFloat(cell(columnPrice))
	if err != nil {
		return contractx.Item{}, fmt.Errorf("price: %w", err)
	}
	quantity, err := parseFloat(cell(columnQuantity))
	if err != nil {
		return contractx.Item{}, fmt.Errorf("quantity: %w", err)
	}
	discount, err := parseFloat(cell(columnDiscount))
	if err != nil {
		return contractx.Item{}, fmt.Errorf("discount: %w", err)
	}

	item := contractx.Item{
		ItemID:          cell(columnID),
		ItemName:        cell(columnName),
		Price:           price,
		ItemQuantity:    int(quantity),
		ItemDescription: cell(columnDescription),
		MaximumDiscount: discount,
	}
	return item, validateItem(item)
}

func parseFloat(raw string) (float64, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "$")
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
}

func validateItem(item contractx.Item) error {
	switch {
	case strings.TrimSpace(item.ItemID) == "":
		return fmt.Errorf("%w: item_id is empty", contractx.ErrValidation)
	case item.Price < 0:
		return fmt.Errorf("%w: item %s has negative price", contractx.ErrValidation, item.ItemID)
	case item.ItemQuantity < 0:
		return fmt.Errorf("%w: item %s has negative quantity", contractx.ErrValidation, item.ItemID)
	case item.MaximumDiscount < 0 || item.MaximumDiscount > 1:
		return fmt.Errorf("%w: item %s discount %v outside [0,1]", contractx.ErrValidation, item.ItemID, item.MaximumDiscount)
	}
	return nil
}

func keepValid(items []contractx.Item) []contractx.Item {
	out := items[:0]
	for _, item := range items {
		item.ItemID = strings.TrimSpace(item.ItemID)
		if err := validateItem(item); err != nil {
			log.Warn().Err(err).Msg("catalog: skipping item")
			continue
		}
		out = append(out, item)
	}
	return out
}

var errUnsupportedFormat = errors.New("unsupported catalog format")
