package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Totals accumulates one aggregate bucket.
type Totals struct {
	Value decimal.Decimal // sum of payments
	Stock int             // sum of quantities
	Count int             // number of transactions
}

func (t *Totals) Add(tx Transaction) {
	t.Value = t.Value.Add(tx.Payment)
	t.Stock += tx.Quantity
	t.Count++
}

// Aggregate maps a group key (YYYY-MM month or grocery id) to its totals.
type Aggregate map[string]Totals

func (a Aggregate) Add(key string, tx Transaction) {
	t := a[key]
	t.Add(tx)
	a[key] = t
}

// Keys returns the group keys in ascending order.
func (a Aggregate) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ProductTotal is one row of the total-by-product ranking.
type ProductTotal struct {
	GroceryID string
	Name      string
	Totals
}
