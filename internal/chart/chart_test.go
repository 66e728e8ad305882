package chart

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocer/internal/core"
)

func TestBarWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "total.png")
	rows := []core.ProductTotal{
		{GroceryID: "2", Name: "Eggs", Totals: core.Totals{Value: decimal.NewFromInt(20), Count: 1}},
		{GroceryID: "1", Name: "Milk", Totals: core.Totals{Value: decimal.NewFromInt(15), Count: 2}},
	}

	require.NoError(t, Bar(rows, "Total Sales", path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestLinesWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monthly.png")
	agg := core.Aggregate{}
	agg.Add("2024-02", core.Transaction{Quantity: 2, Payment: decimal.RequireFromString("4.50")})
	agg.Add("2024-01", core.Transaction{Quantity: 1, Payment: decimal.RequireFromString("1.50")})

	require.NoError(t, Lines(agg, "Monthly Sales", path))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestEmptyInput(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, Bar(nil, "x", filepath.Join(dir, "a.png")), core.ErrNoData)
	assert.ErrorIs(t, Lines(core.Aggregate{}, "x", filepath.Join(dir, "b.png")), core.ErrNoData)
	_, err := os.Stat(filepath.Join(dir, "a.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileNames(t *testing.T) {
	r := core.Range{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "2024-01-01_to_2024-02-29_sales.png", MonthlyFile(r))
	assert.Equal(t, "total_sales_2024-01-01_to_2024-02-29.png", TotalFile(r))
	assert.Equal(t, "3_Brown_Rice_2024-01-01_to_2024-02-29_sales.png",
		ProductFile(core.GroceryItem{ID: "3", Name: " Brown Rice"}, r))
}
