package catalog

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "Items.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadFileXLSX(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, [][]any{
		{" item_id", "item_name ", "price", "item_quantity", "item_description", "maximum_discount"},
		{"SKU1234567", "Wireless Mouse", 25.5, 10, "2.4GHz mouse", 0.15},
		{"SKU7654321", "Desk Lamp", 40, 3, "", 0},
		{"", "", "", "", "", ""},
		{"SKU0000009", "Broken Row", "not-a-number", 1, "", 0},
	})

	c, err := LoadFile(path, "")
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	item, ok := c.GetByID("SKU1234567")
	require.True(t, ok)
	assert.Equal(t, "Wireless Mouse", item.ItemName)
	assert.InDelta(t, 25.5, item.Price, 1e-9)
	assert.Equal(t, 10, item.ItemQuantity)
	assert.InDelta(t, 0.15, item.MaximumDiscount, 1e-9)
}

func TestLoadFileXLSXFormattedNumbers(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	rows := [][]any{
		{"item_id", "item_name", "price", "item_quantity", "item_description", "maximum_discount"},
		{"SKU1234567", "Wireless Mouse", 25.5, 10, "2.4GHz mouse", 0.15},
		{"SKU7654321", "Desk Lamp", 1240, 3, "", 0.05},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	percent, err := f.NewStyle(&excelize.Style{NumFmt: 9})
	require.NoError(t, err)
	accounting, err := f.NewStyle(&excelize.Style{NumFmt: 7})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "F2", "F3", percent))
	require.NoError(t, f.SetCellStyle("Sheet1", "C2", "C3", accounting))

	path := filepath.Join(t.TempDir(), "Items.xlsx")
	require.NoError(t, f.SaveAs(path))

	c, err := LoadFile(path, "")
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	mouse, ok := c.GetByID("SKU1234567")
	require.True(t, ok)
	assert.InDelta(t, 25.5, mouse.Price, 1e-9)
	assert.InDelta(t, 0.15, mouse.MaximumDiscount, 1e-9)

	lamp, ok := c.GetByID("SKU7654321")
	require.True(t, ok)
	assert.InDelta(t, 1240, lamp.Price, 1e-9)
	assert.InDelta(t, 0.05, lamp.MaximumDiscount, 1e-9)
}

func TestLoadFileXLSXMissingColumn(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, [][]any{
		{"item_id", "item_name"},
		{"SKU1234567", "Wireless Mouse"},
	})

	_, err := LoadFile(path, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contractx.ErrCatalogLoad))
}

func TestLoadFileYAMLAndJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "items.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
items:
  - item_id: SKU1000001
    item_name: Notebook
    price: 3.5
    item_quantity: 100
    maximum_discount: 0.2
  - item_id: SKU1000002
    item_name: Bad Discount
    price: 1
    maximum_discount: 5
`), 0o600))

	c, err := LoadFile(yamlPath, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU1000001"}, ids(c.All()))

	jsonPath := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"item_id":"SKU2000001","item_name":"Pen","price":1.25,"item_quantity":7}]`), 0o600))

	c, err = LoadFile(jsonPath, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU2000001"}, ids(c.All()))
}

func TestLoadFileSQLite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "items.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE items (
		item_id TEXT PRIMARY KEY,
		item_name TEXT NOT NULL,
		price REAL NOT NULL,
		item_quantity INTEGER NOT NULL,
		item_description TEXT,
		maximum_discount REAL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO items VALUES
		('SKU3000001', 'Yoga Mat', 29.99, 5, NULL, 0.1),
		('SKU3000002', 'Pencil', 0.5, 500, 'HB pencil', NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	c, err := LoadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU3000001", "SKU3000002"}, ids(c.All()))

	item, ok := c.GetByID("SKU3000002")
	require.True(t, ok)
	assert.Equal(t, "HB pencil", item.ItemDescription)
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	t.Parallel()

	_, err := LoadFile("items.txt", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, contractx.ErrCatalogLoad)
}

func TestFileSourceCachesUnlessReloading(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "items.json")
	write := func(id string) {
		require.NoError(t, os.WriteFile(path, []byte(`[{"item_id":"`+id+`","item_name":"Pen","price":1}]`), 0o600))
	}

	write("SKU0000001")
	cached := NewFileSource(Config{Path: path})
	reloading := NewFileSource(Config{Path: path, ReloadEachRequest: true})

	first, err := cached.Load(context.Background())
	require.NoError(t, err)
	_, err = reloading.Load(context.Background())
	require.NoError(t, err)

	write("SKU0000002")

	again, err := cached.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, again)
	_, ok := again.GetByID("SKU0000001")
	assert.True(t, ok)

	fresh, err := reloading.Load(context.Background())
	require.NoError(t, err)
	_, ok = fresh.GetByID("SKU0000002")
	assert.True(t, ok)
}

func TestFileSourceMissingFileYieldsEmptyCatalog(t *testing.T) {
	t.Parallel()

	src := NewFileSource(Config{Path: filepath.Join(t.TempDir(), "missing.xlsx")})
	c, err := src.Load(context.Background())
	require.Error(t, err)
	require.NotNil(t, c)
	assert.Empty(t, c.All())
}
