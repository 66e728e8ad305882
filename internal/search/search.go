// Package search filters the transaction log. Every filter is a linear
// scan that keeps the original order; rows that cannot be evaluated are
// skipped and reported as issues.
package search

import (
	"fmt"
	"strings"

	"grocer/internal/core"
)

const source = "transactions"

// Result is a filtered list plus the rows that were skipped.
type Result struct {
	Transactions []core.Transaction
	Skipped      []core.RowIssue
}

// ByDate returns the transactions whose date equals date. The query must
// be a valid DD/MM/YYYY date; matching is on the literal text.
func ByDate(txs []core.Transaction, date string) (Result, error) {
	date = strings.TrimSpace(date)
	if _, err := core.ParseDay(date); err != nil {
		return Result{}, err
	}
	var res Result
	for _, tx := range txs {
		if tx.Date == date {
			res.Transactions = append(res.Transactions, tx)
		}
	}
	return res, nil
}

// ByName returns the transactions whose catalog name contains name,
// case-insensitively. Transactions for ids missing from the catalog are
// skipped.
func ByName(txs []core.Transaction, catalog *core.Catalog, name string) (Result, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Result{}, core.ErrEmptyName
	}
	var res Result
	for i, tx := range txs {
		ok, issue := nameMatches(catalog, tx, needle, i)
		if issue != nil {
			res.Skipped = append(res.Skipped, *issue)
			continue
		}
		if ok {
			res.Transactions = append(res.Transactions, tx)
		}
	}
	return res, nil
}

// ByNameInRange is ByName restricted to start <= date <= end (DD/MM/YYYY,
// inclusive).
func ByNameInRange(txs []core.Transaction, catalog *core.Catalog, name, start, end string) (Result, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Result{}, core.ErrEmptyName
	}
	r, err := core.DayRange(start, end)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for i, tx := range txs {
		ok, issue := nameMatches(catalog, tx, needle, i)
		if issue != nil {
			res.Skipped = append(res.Skipped, *issue)
			continue
		}
		if !ok {
			continue
		}
		day, err := tx.Day()
		if err != nil {
			res.Skipped = append(res.Skipped, core.RowIssue{Source: source, Row: i + 1, Err: core.ErrInvalidDate, Detail: tx.Date})
			continue
		}
		if r.Contains(day) {
			res.Transactions = append(res.Transactions, tx)
		}
	}
	return res, nil
}

func nameMatches(catalog *core.Catalog, tx core.Transaction, needle string, i int) (bool, *core.RowIssue) {
	item, ok := catalog.Get(tx.GroceryID)
	if !ok {
		return false, &core.RowIssue{
			Source: source,
			Row:    i + 1,
			Err:    core.ErrUnknownProduct,
			Detail: fmt.Sprintf("grocery id %q", tx.GroceryID),
		}
	}
	return strings.Contains(strings.ToLower(item.Name), needle), nil
}
