// Package core holds the grocery domain: catalog items, transactions,
// users, aggregates and the error kinds shared by every layer.
//
// This file contains price parsing and the payment rule.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice parses a non-negative decimal amount. Both "1.50" and "1,50"
// are accepted.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidPrice, s)
	}
	return d, nil
}

// Payment is qty times the unit price rounded to cents. The price is
// rounded, not the product.
func Payment(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Round(2).Mul(decimal.NewFromInt(int64(qty)))
}

// FormatMoney renders an amount with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
