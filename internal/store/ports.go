package store

import (
	"context"

	"grocer/internal/core"
)

// Ports for the flat-file stores. Loaders never fail on a bad row: the row
// is dropped and reported as a core.RowIssue. A missing file yields an empty
// dataset plus an issue wrapping core.ErrNoData.
type (
	CatalogStore interface {
		LoadCatalog(ctx context.Context) (*core.Catalog, []core.RowIssue, error)
		// SaveCatalog replaces the whole persisted catalog.
		SaveCatalog(ctx context.Context, c *core.Catalog) error
	}

	TransactionStore interface {
		LoadTransactions(ctx context.Context) ([]core.Transaction, []core.RowIssue, error)
		// AppendTransactions adds rows after the existing ones.
		AppendTransactions(ctx context.Context, txs ...core.Transaction) error
		// CountTransactions returns the number of persisted data rows.
		CountTransactions(ctx context.Context) (int, error)
	}

	UserStore interface {
		LoadUsers(ctx context.Context) ([]core.User, []core.RowIssue, error)
	}
)
