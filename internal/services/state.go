package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"grocer/internal/core"
	"grocer/internal/store"
)

// State is the in-memory working set of a session. Services mutate it only
// after the matching persistence step has succeeded.
type State struct {
	Catalog      *core.Catalog
	Transactions []core.Transaction
}

// Loaded is the result of reading every store at startup.
type Loaded struct {
	State  *State
	Users  []core.User
	Issues []core.RowIssue
}

// Load reads the three stores concurrently. Row issues are collected, not
// returned as errors.
func Load(ctx context.Context, catalogs store.CatalogStore, txs store.TransactionStore, users store.UserStore) (*Loaded, error) {
	var (
		catalog                             *core.Catalog
		transactions                        []core.Transaction
		userList                            []core.User
		catalogIssues, txIssues, userIssues []core.RowIssue
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, catalogIssues, err = catalogs.LoadCatalog(ctx)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transactions, txIssues, err = txs.LoadTransactions(ctx)
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		userList, userIssues, err = users.LoadUsers(ctx)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	issues := make([]core.RowIssue, 0, len(catalogIssues)+len(txIssues)+len(userIssues))
	issues = append(issues, catalogIssues...)
	issues = append(issues, txIssues...)
	issues = append(issues, userIssues...)

	return &Loaded{
		State:  &State{Catalog: catalog, Transactions: transactions},
		Users:  userList,
		Issues: issues,
	}, nil
}
