// Package chart renders report aggregates to image files with gonum/plot.
package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg"

	"grocer/internal/core"
)

const (
	width  = 10 * vg.Inch
	height = 6 * vg.Inch
)

// Bar draws the ranking as a horizontal bar chart with the highest value
// on top and saves it to path.
func Bar(rows []core.ProductTotal, title, path string) error {
	if len(rows) == 0 {
		return core.ErrNoData
	}

	// NominalY puts index 0 at the bottom, so the ranking is drawn reversed.
	n := len(rows)
	values := make(plotter.Values, n)
	names := make([]string, n)
	for i, r := range rows {
		values[n-1-i] = r.Value.InexactFloat64()
		names[n-1-i] = r.Name
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Total Sales Value"
	p.Y.Label.Text = "Grocery Items"

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.Horizontal = true
	bars.LineStyle.Width = 0
	bars.Color = plotutil.Color(0)
	p.Add(bars, plotter.NewGrid())
	p.NominalY(names...)

	return save(p, path)
}

// Lines draws value, transaction count and quantity per group key (sorted)
// as three series and saves the result to path.
func Lines(agg core.Aggregate, title, path string) error {
	if len(agg) == 0 {
		return core.ErrNoData
	}

	keys := agg.Keys()
	value := make(plotter.XYs, len(keys))
	count := make(plotter.XYs, len(keys))
	quantity := make(plotter.XYs, len(keys))
	for i, k := range keys {
		t := agg[k]
		x := float64(i)
		value[i] = plotter.XY{X: x, Y: t.Value.InexactFloat64()}
		count[i] = plotter.XY{X: x, Y: float64(t.Count)}
		quantity[i] = plotter.XY{X: x, Y: float64(t.Stock)}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Values"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	err := plotutil.AddLinePoints(p,
		"Monthly Sales Value", value,
		"Number of Sales", count,
		"Number of Items Sold", quantity,
	)
	if err != nil {
		return fmt.Errorf("line chart: %w", err)
	}
	p.NominalX(keys...)

	return save(p, path)
}

func save(p *plot.Plot, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}

// MonthlyFile names the monthly sales chart for r.
func MonthlyFile(r core.Range) string {
	return fmt.Sprintf("%s_to_%s_sales.png", fileDate(r), fileEnd(r))
}

// ProductFile names the per-product chart for r.
func ProductFile(item core.GroceryItem, r core.Range) string {
	return fmt.Sprintf("%s_%s_%s_to_%s_sales.png", item.ID, safeName(item.Name), fileDate(r), fileEnd(r))
}

// TotalFile names the total-by-product chart for r.
func TotalFile(r core.Range) string {
	return fmt.Sprintf("total_sales_%s_to_%s.png", fileDate(r), fileEnd(r))
}

func fileDate(r core.Range) string { return r.Start.Format(core.FileDateLayout) }
func fileEnd(r core.Range) string  { return r.End.Format(core.FileDateLayout) }

var unsafeChars = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")

func safeName(name string) string {
	return unsafeChars.Replace(strings.TrimSpace(name))
}
