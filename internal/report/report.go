// Package report aggregates the transaction log into monthly and
// per-product views.
package report

import (
	"fmt"
	"sort"

	"grocer/internal/core"
)

const source = "transactions"

// Monthly is a month-keyed aggregate over an inclusive month range.
type Monthly struct {
	Range     core.Range
	Aggregate core.Aggregate
	Skipped   []core.RowIssue
}

// Empty reports whether no transaction fell in the range.
func (m Monthly) Empty() bool { return len(m.Aggregate) == 0 }

// Ranking is the total-by-product view, highest value first.
type Ranking struct {
	Range   core.Range
	Rows    []core.ProductTotal
	Skipped []core.RowIssue
}

func (r Ranking) Empty() bool { return len(r.Rows) == 0 }

// MonthlySales groups the transactions between the MM/YYYY bounds by
// YYYY-MM. The end month is included in full.
func MonthlySales(txs []core.Transaction, startMonth, endMonth string) (Monthly, error) {
	r, err := core.MonthRange(startMonth, endMonth)
	if err != nil {
		return Monthly{}, err
	}
	return groupByMonth(txs, r, func(core.Transaction) bool { return true }), nil
}

// ProductSales is MonthlySales restricted to one grocery id.
func ProductSales(txs []core.Transaction, catalog *core.Catalog, groceryID, startMonth, endMonth string) (Monthly, error) {
	if _, ok := catalog.Get(groceryID); !ok {
		return Monthly{}, fmt.Errorf("%w: %q", core.ErrUnknownProduct, groceryID)
	}
	r, err := core.MonthRange(startMonth, endMonth)
	if err != nil {
		return Monthly{}, err
	}
	return groupByMonth(txs, r, func(tx core.Transaction) bool { return tx.GroceryID == groceryID }), nil
}

func groupByMonth(txs []core.Transaction, r core.Range, keep func(core.Transaction) bool) Monthly {
	m := Monthly{Range: r, Aggregate: core.Aggregate{}}
	for i, tx := range txs {
		if !keep(tx) {
			continue
		}
		day, err := tx.Day()
		if err != nil {
			m.Skipped = append(m.Skipped, core.RowIssue{Source: source, Row: i + 1, Err: core.ErrInvalidDate, Detail: tx.Date})
			continue
		}
		if r.Contains(day) {
			m.Aggregate.Add(core.MonthKey(day), tx)
		}
	}
	return m
}

// TotalByProduct sums payments per grocery id between the DD/MM/YYYY
// bounds. Rows are ordered by value descending; equal values keep the
// order in which the id was first seen. Ids missing from the catalog are
// skipped.
func TotalByProduct(txs []core.Transaction, catalog *core.Catalog, startDate, endDate string) (Ranking, error) {
	r, err := core.DayRange(startDate, endDate)
	if err != nil {
		return Ranking{}, err
	}

	res := Ranking{Range: r}
	agg := core.Aggregate{}
	var order []string
	orphans := map[string]bool{}
	for i, tx := range txs {
		day, err := tx.Day()
		if err != nil {
			res.Skipped = append(res.Skipped, core.RowIssue{Source: source, Row: i + 1, Err: core.ErrInvalidDate, Detail: tx.Date})
			continue
		}
		if !r.Contains(day) {
			continue
		}
		if _, ok := catalog.Get(tx.GroceryID); !ok {
			if !orphans[tx.GroceryID] {
				orphans[tx.GroceryID] = true
				res.Skipped = append(res.Skipped, core.RowIssue{
					Source: source,
					Row:    i + 1,
					Err:    core.ErrUnknownProduct,
					Detail: fmt.Sprintf("grocery id %q", tx.GroceryID),
				})
			}
			continue
		}
		if _, seen := agg[tx.GroceryID]; !seen {
			order = append(order, tx.GroceryID)
		}
		agg.Add(tx.GroceryID, tx)
	}

	res.Rows = make([]core.ProductTotal, 0, len(order))
	for _, id := range order {
		res.Rows = append(res.Rows, core.ProductTotal{GroceryID: id, Name: catalog.Name(id), Totals: agg[id]})
	}
	sort.SliceStable(res.Rows, func(a, b int) bool {
		return res.Rows[a].Value.GreaterThan(res.Rows[b].Value)
	})
	return res, nil
}
