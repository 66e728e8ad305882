package memory

import (
	"context"
	"sync"

	"grocer/internal/core"
)

// Store keeps the three datasets in memory. It implements every store port
// and is used by tests and dry runs.
type Store struct {
	mu      sync.Mutex
	catalog *core.Catalog
	txs     []core.Transaction
	users   []core.User

	// Injected failures, returned by every matching call while set.
	SaveErr   error
	AppendErr error
}

func New(items []core.GroceryItem, txs []core.Transaction, users []core.User) *Store {
	return &Store{
		catalog: core.NewCatalog(items...),
		txs:     append([]core.Transaction(nil), txs...),
		users:   append([]core.User(nil), users...),
	}
}

// LoadCatalog returns a copy so that callers own their state.
func (s *Store) LoadCatalog(_ context.Context) (*core.Catalog, []core.RowIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Clone(), nil, nil
}

func (s *Store) SaveCatalog(_ context.Context, c *core.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.catalog = c.Clone()
	return nil
}

func (s *Store) LoadTransactions(_ context.Context) ([]core.Transaction, []core.RowIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...), nil, nil
}

func (s *Store) AppendTransactions(_ context.Context, txs ...core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AppendErr != nil {
		return s.AppendErr
	}
	s.txs = append(s.txs, txs...)
	return nil
}

func (s *Store) CountTransactions(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs), nil
}

func (s *Store) LoadUsers(_ context.Context) ([]core.User, []core.RowIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.User(nil), s.users...), nil, nil
}
