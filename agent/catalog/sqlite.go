package catalog

import (
	"database/sql"
	"fmt"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	_ "modernc.org/sqlite"
)

const selectItemsSQL = `SELECT item_id, item_name, price, item_quantity,
	COALESCE(item_description, ''), COALESCE(maximum_discount, 0)
	FROM items ORDER BY rowid`

// loadSQLite reads the items table of a SQLite database in read-only mode.
func loadSQLite(path string) ([]contractx.Item, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(selectItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []contractx.Item
	for rows.Next() {
		var item contractx.Item
		if err := rows.Scan(
			&item.ItemID,
			&item.ItemName,
			&item.Price,
			&item.ItemQuantity,
			&item.ItemDescription,
			&item.MaximumDiscount,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return keepValid(items), nil
}
