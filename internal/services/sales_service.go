package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"grocer/internal/core"
	"grocer/internal/journal"
	"grocer/internal/store"
)

type (
	// SaleJournal is the write-ahead log around the two-file sale write.
	SaleJournal interface {
		Begin(ctx context.Context, e journal.Entry) (int64, error)
		Commit(ctx context.Context, id int64) error
		Abort(ctx context.Context, id int64) error
		Pending(ctx context.Context) ([]journal.Entry, error)
	}

	SalePublisher interface {
		PublishSaleRecorded(ctx context.Context, tx core.Transaction) error
	}
)

// SalesService records sales: it appends to the transaction log and
// rewrites the catalog with the decremented stock. Journal and publisher
// are optional.
type SalesService struct {
	catalog   store.CatalogStore
	txs       store.TransactionStore
	journal   SaleJournal
	publisher SalePublisher
}

func NewSalesService(catalog store.CatalogStore, txs store.TransactionStore, j SaleJournal, publisher SalePublisher) *SalesService {
	return &SalesService{
		catalog:   catalog,
		txs:       txs,
		journal:   j,
		publisher: publisher,
	}
}

// Record sells qty units of groceryID at now. On a validation error nothing
// is written and st is untouched. Without a journal, a failure between the
// two writes leaves the log ahead of the catalog; the returned error then
// wraps core.ErrPartialWrite.
func (s *SalesService) Record(ctx context.Context, st *State, groceryID string, qty int, now time.Time) (core.Transaction, error) {
	if qty <= 0 {
		return core.Transaction{}, fmt.Errorf("%w: %d", core.ErrInvalidQuantity, qty)
	}
	item, ok := st.Catalog.Get(groceryID)
	if !ok {
		return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrUnknownProduct, groceryID)
	}
	if item.Stock < qty {
		return core.Transaction{}, fmt.Errorf("%w: %s has %d, requested %d", core.ErrInsufficientStock, item.Name, item.Stock, qty)
	}

	tx := core.NewTransaction(item, qty, now)
	updated := st.Catalog.Clone()
	item.Stock -= qty
	if err := updated.Update(item); err != nil {
		return core.Transaction{}, err
	}

	entryID, err := s.begin(ctx, tx, item.Stock)
	if err != nil {
		return core.Transaction{}, err
	}

	if err := s.txs.AppendTransactions(ctx, tx); err != nil {
		s.abort(ctx, entryID)
		return core.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	st.Transactions = append(st.Transactions, tx)
	st.Catalog = updated

	if err := s.catalog.SaveCatalog(ctx, updated); err != nil {
		slog.ErrorContext(ctx, "Catalog rewrite failed after transaction append",
			"grocery_id", groceryID, "journal_id", entryID, "error", err)
		return tx, fmt.Errorf("%w: transaction logged, catalog not saved: %v", core.ErrPartialWrite, err)
	}

	s.settle(ctx, entryID)

	slog.InfoContext(ctx, "Sale recorded",
		"grocery_id", tx.GroceryID,
		"quantity", tx.Quantity,
		"payment", core.FormatMoney(tx.Payment),
		"stock_left", item.Stock)

	s.publish(ctx, tx)
	return tx, nil
}

// Recover replays journal entries left pending by an interrupted sale and
// returns how many were applied.
func (s *SalesService) Recover(ctx context.Context, st *State) (int, error) {
	if s.journal == nil {
		return 0, nil
	}
	pending, err := s.journal.Pending(ctx)
	if err != nil {
		return 0, fmt.Errorf("read pending sales: %w", err)
	}

	for i, e := range pending {
		if err := s.replay(ctx, st, e); err != nil {
			return i, fmt.Errorf("replay journal entry %d: %w", e.ID, err)
		}
		if err := s.journal.Commit(ctx, e.ID); err != nil {
			return i, err
		}
		slog.WarnContext(ctx, "Recovered interrupted sale",
			"journal_id", e.ID, "grocery_id", e.GroceryID, "quantity", e.Quantity)
	}
	return len(pending), nil
}

func (s *SalesService) replay(ctx context.Context, st *State, e journal.Entry) error {
	rows, err := s.txs.CountTransactions(ctx)
	if err != nil {
		return err
	}
	if rows <= e.RowsBefore {
		payment, err := decimal.NewFromString(e.Payment)
		if err != nil {
			return fmt.Errorf("%w: payment %q", core.ErrMalformedRow, e.Payment)
		}
		tx := core.Transaction{Date: e.Date, Time: e.Time, GroceryID: e.GroceryID, Quantity: e.Quantity, Payment: payment}
		if err := s.txs.AppendTransactions(ctx, tx); err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
		st.Transactions = append(st.Transactions, tx)
	}

	item, ok := st.Catalog.Get(e.GroceryID)
	if !ok {
		slog.WarnContext(ctx, "Journal entry references unknown grocery id, stock not restored",
			"journal_id", e.ID, "grocery_id", e.GroceryID)
		return nil
	}
	if item.Stock == e.StockAfter {
		return nil
	}
	updated := st.Catalog.Clone()
	item.Stock = e.StockAfter
	if err := updated.Update(item); err != nil {
		return err
	}
	if err := s.catalog.SaveCatalog(ctx, updated); err != nil {
		return err
	}
	st.Catalog = updated
	return nil
}

func (s *SalesService) begin(ctx context.Context, tx core.Transaction, stockAfter int) (int64, error) {
	if s.journal == nil {
		return 0, nil
	}
	rows, err := s.txs.CountTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	id, err := s.journal.Begin(ctx, journal.Entry{
		GroceryID:  tx.GroceryID,
		Quantity:   tx.Quantity,
		Payment:    core.FormatMoney(tx.Payment),
		Date:       tx.Date,
		Time:       tx.Time,
		StockAfter: stockAfter,
		RowsBefore: rows,
	})
	if err != nil {
		return 0, fmt.Errorf("journal sale: %w", err)
	}
	return id, nil
}

// settle commits every pending entry up to and including upTo. The catalog
// just saved carries the stock of all of them, so a pending entry left
// behind would restore a stale snapshot on the next Recover.
func (s *SalesService) settle(ctx context.Context, upTo int64) {
	if s.journal == nil {
		return
	}
	pending, err := s.journal.Pending(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read pending journal entries", "error", err)
		return
	}
	for _, e := range pending {
		if e.ID > upTo {
			continue
		}
		if err := s.journal.Commit(ctx, e.ID); err != nil {
			slog.WarnContext(ctx, "Failed to commit journal entry", "journal_id", e.ID, "error", err)
		}
	}
}

func (s *SalesService) abort(ctx context.Context, id int64) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Abort(ctx, id); err != nil {
		slog.WarnContext(ctx, "Failed to abort journal entry", "journal_id", id, "error", err)
	}
}

func (s *SalesService) publish(ctx context.Context, tx core.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSaleRecorded(ctx, tx); err != nil {
		slog.WarnContext(ctx, "Failed to publish sale message", "grocery_id", tx.GroceryID, "error", err)
	}
}
