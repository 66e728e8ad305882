package report

import (
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"grocer/internal/core"
)

// Summary describes the value column of an aggregate.
type Summary struct {
	Groups    int
	Total     decimal.Decimal
	Quantity  int
	Mean      float64
	Median    float64
	Best      string
	BestValue decimal.Decimal
}

// Summarize computes totals and central tendency over the groups of agg.
// The best group is the one with the highest value; ties go to the lowest
// key.
func Summarize(agg core.Aggregate) (Summary, error) {
	if len(agg) == 0 {
		return Summary{}, core.ErrNoData
	}

	var s Summary
	values := make(stats.Float64Data, 0, len(agg))
	for _, k := range agg.Keys() {
		t := agg[k]
		s.Groups++
		s.Total = s.Total.Add(t.Value)
		s.Quantity += t.Stock
		if s.Best == "" || t.Value.GreaterThan(s.BestValue) {
			s.Best, s.BestValue = k, t.Value
		}
		values = append(values, t.Value.InexactFloat64())
	}

	mean, err := values.Mean()
	if err != nil {
		return Summary{}, err
	}
	median, err := values.Median()
	if err != nil {
		return Summary{}, err
	}
	if s.Mean, err = stats.Round(mean, 2); err != nil {
		return Summary{}, err
	}
	if s.Median, err = stats.Round(median, 2); err != nil {
		return Summary{}, err
	}
	return s, nil
}
