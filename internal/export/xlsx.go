// Package export writes report aggregates to XLSX workbooks.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"

	"grocer/internal/core"
)

const sheet = "Sheet1"

// Path returns the workbook path that sits next to the chart at chartPath.
func Path(chartPath string) string {
	return strings.TrimSuffix(chartPath, filepath.Ext(chartPath)) + ".xlsx"
}

// Aggregate writes one row per group key, in key order.
func Aggregate(agg core.Aggregate, keyHeader, path string) error {
	if len(agg) == 0 {
		return core.ErrNoData
	}
	f := excelize.NewFile()
	header(f, keyHeader, "Value", "Quantity", "Count")
	for i, k := range agg.Keys() {
		t := agg[k]
		row := i + 2
		f.SetCellValue(sheet, cell("A", row), k)
		f.SetCellValue(sheet, cell("B", row), t.Value.InexactFloat64())
		f.SetCellValue(sheet, cell("C", row), t.Stock)
		f.SetCellValue(sheet, cell("D", row), t.Count)
	}
	return save(f, path)
}

// Ranking writes the total-by-product rows in ranking order.
func Ranking(rows []core.ProductTotal, path string) error {
	if len(rows) == 0 {
		return core.ErrNoData
	}
	f := excelize.NewFile()
	header(f, "ID", "Name", "Value", "Quantity", "Count")
	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheet, cell("A", row), r.GroceryID)
		f.SetCellValue(sheet, cell("B", row), r.Name)
		f.SetCellValue(sheet, cell("C", row), r.Value.InexactFloat64())
		f.SetCellValue(sheet, cell("D", row), r.Stock)
		f.SetCellValue(sheet, cell("E", row), r.Count)
	}
	return save(f, path)
}

func header(f *excelize.File, names ...string) {
	for i, name := range names {
		f.SetCellValue(sheet, cell(string(rune('A'+i)), 1), name)
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func save(f *excelize.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
