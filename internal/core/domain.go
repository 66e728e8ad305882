package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Manager Role = "manager"
	Cashier Role = "cashier"
)

type (
	Role string

	GroceryItem struct {
		ID    string
		Name  string
		Price decimal.Decimal
		Stock int
	}

	// Transaction is one recorded sale. Date and Time keep their canonical
	// text so that exact-date search compares what was written to disk.
	Transaction struct {
		Date      string // DD/MM/YYYY
		Time      string // HH:MM:SS AM/PM
		GroceryID string
		Quantity  int
		Payment   decimal.Decimal
	}

	User struct {
		Username string
		Password string // plaintext or bcrypt hash
		Role     Role
	}
)

// ParseRole normalizes a role column value.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case Manager, Cashier:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrMalformedRow, s)
	}
}

func (r Role) String() string {
	return string(r)
}

func (it GroceryItem) Validate() error {
	if strings.TrimSpace(it.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrMalformedRow)
	}
	if strings.TrimSpace(it.Name) == "" {
		return ErrEmptyName
	}
	if it.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if it.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.GroceryID) == "" {
		return fmt.Errorf("%w: empty grocery id", ErrMalformedRow)
	}
	if t.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if t.Payment.IsNegative() {
		return fmt.Errorf("%w: negative payment", ErrMalformedRow)
	}
	return nil
}

// Day parses the transaction date.
func (t Transaction) Day() (time.Time, error) {
	return ParseDay(t.Date)
}

// NewTransaction stamps a sale of qty units of item at now.
func NewTransaction(item GroceryItem, qty int, now time.Time) Transaction {
	date, clock := Stamp(now)
	return Transaction{
		Date:      date,
		Time:      clock,
		GroceryID: item.ID,
		Quantity:  qty,
		Payment:   Payment(item.Price, qty),
	}
}
