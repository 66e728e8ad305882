package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocer/internal/core"
	"grocer/internal/journal"
	"grocer/internal/store/memory"
)

type fakeJournal struct {
	next    int64
	pending map[int64]journal.Entry

	// commitFailures makes the next n Commit calls fail.
	commitFailures int
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{pending: map[int64]journal.Entry{}}
}

func (j *fakeJournal) Begin(_ context.Context, e journal.Entry) (int64, error) {
	j.next++
	e.ID = j.next
	j.pending[e.ID] = e
	return e.ID, nil
}

func (j *fakeJournal) Commit(_ context.Context, id int64) error {
	if j.commitFailures > 0 {
		j.commitFailures--
		return errors.New("journal busy")
	}
	if _, ok := j.pending[id]; !ok {
		return errors.New("no pending entry")
	}
	delete(j.pending, id)
	return nil
}

func (j *fakeJournal) Abort(_ context.Context, id int64) error {
	delete(j.pending, id)
	return nil
}

func (j *fakeJournal) Pending(_ context.Context) ([]journal.Entry, error) {
	out := make([]journal.Entry, 0, len(j.pending))
	for _, e := range j.pending {
		out = append(out, e)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

type recordingPublisher struct {
	sent []core.Transaction
	err  error
}

func (p *recordingPublisher) PublishSaleRecorded(_ context.Context, tx core.Transaction) error {
	p.sent = append(p.sent, tx)
	return p.err
}

var saleTime = time.Date(2024, time.March, 15, 16, 45, 0, 0, time.UTC)

func groceries() []core.GroceryItem {
	return []core.GroceryItem{
		{ID: "1", Name: "Apple", Price: decimal.RequireFromString("0.499"), Stock: 10},
		{ID: "2", Name: "Banana", Price: decimal.RequireFromString("0.30"), Stock: 2},
	}
}

func loadState(t *testing.T, m *memory.Store) *State {
	t.Helper()
	loaded, err := Load(context.Background(), m, m, m)
	require.NoError(t, err)
	return loaded.State
}

func TestRecordSaleDecrementsStockAndAppends(t *testing.T) {
	ctx := context.Background()
	m := memory.New(groceries(), nil, nil)
	j := newFakeJournal()
	pub := &recordingPublisher{}
	svc := NewSalesService(m, m, j, pub)
	st := loadState(t, m)

	tx, err := svc.Record(ctx, st, "1", 4, saleTime)
	require.NoError(t, err)

	assert.Equal(t, "15/03/2024", tx.Date)
	assert.Equal(t, "04:45:00 PM", tx.Time)
	assert.Equal(t, 4, tx.Quantity)
	// 4 × round(0.499, 2) = 4 × 0.50
	assert.True(t, tx.Payment.Equal(decimal.RequireFromString("2.00")), "payment %s", tx.Payment)

	apple, _ := st.Catalog.Get("1")
	assert.Equal(t, 6, apple.Stock)
	assert.Equal(t, []core.Transaction{tx}, st.Transactions)

	persisted, _, _ := m.LoadCatalog(ctx)
	saved, _ := persisted.Get("1")
	assert.Equal(t, 6, saved.Stock)
	logged, _, _ := m.LoadTransactions(ctx)
	assert.Len(t, logged, 1)

	assert.Empty(t, j.pending, "journal entry committed")
	assert.Len(t, pub.sent, 1)
}

func TestRecordSaleRejectsWithoutMutation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		id   string
		qty  int
		kind error
	}{
		{"insufficient stock", "2", 3, core.ErrInsufficientStock},
		{"unknown id", "42", 1, core.ErrUnknownProduct},
		{"zero quantity", "1", 0, core.ErrInvalidQuantity},
		{"negative quantity", "1", -2, core.ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := memory.New(groceries(), nil, nil)
			j := newFakeJournal()
			svc := NewSalesService(m, m, j, nil)
			st := loadState(t, m)
			before := st.Catalog

			_, err := svc.Record(ctx, st, tc.id, tc.qty, saleTime)
			require.ErrorIs(t, err, tc.kind)

			assert.Same(t, before, st.Catalog)
			assert.Empty(t, st.Transactions)
			banana, _ := st.Catalog.Get("2")
			assert.Equal(t, 2, banana.Stock)
			n, _ := m.CountTransactions(ctx)
			assert.Zero(t, n)
			assert.Empty(t, j.pending)
		})
	}
}

func TestRecordSaleExactStock(t *testing.T) {
	m := memory.New(groceries(), nil, nil)
	svc := NewSalesService(m, m, nil, nil)
	st := loadState(t, m)

	_, err := svc.Record(context.Background(), st, "2", 2, saleTime)
	require.NoError(t, err)
	banana, _ := st.Catalog.Get("2")
	assert.Equal(t, 0, banana.Stock)
}

func TestRecordSaleAppendFailureAbortsJournal(t *testing.T) {
	m := memory.New(groceries(), nil, nil)
	m.AppendErr = errors.New("disk full")
	j := newFakeJournal()
	svc := NewSalesService(m, m, j, nil)
	st := loadState(t, m)

	_, err := svc.Record(context.Background(), st, "1", 1, saleTime)
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrPartialWrite)
	assert.Empty(t, j.pending)
	apple, _ := st.Catalog.Get("1")
	assert.Equal(t, 10, apple.Stock)
}

func TestRecordSalePartialWriteIsRecovered(t *testing.T) {
	ctx := context.Background()
	m := memory.New(groceries(), nil, nil)
	m.SaveErr = errors.New("catalog locked")
	j := newFakeJournal()
	svc := NewSalesService(m, m, j, nil)
	st := loadState(t, m)

	_, err := svc.Record(ctx, st, "1", 3, saleTime)
	require.ErrorIs(t, err, core.ErrPartialWrite)
	require.Len(t, j.pending, 1)

	// restart: fresh state from disk, where the catalog still has 10
	m.SaveErr = nil
	st = loadState(t, m)
	apple, _ := st.Catalog.Get("1")
	require.Equal(t, 10, apple.Stock)

	n, err := svc.Recover(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, j.pending)

	apple, _ = st.Catalog.Get("1")
	assert.Equal(t, 7, apple.Stock)
	rows, _ := m.CountTransactions(ctx)
	assert.Equal(t, 1, rows, "transaction already logged, not appended twice")
}

func TestRecoverAppendsMissingTransaction(t *testing.T) {
	ctx := context.Background()
	m := memory.New(groceries(), nil, nil)
	j := newFakeJournal()
	_, err := j.Begin(ctx, journal.Entry{GroceryID: "2", Quantity: 1, Payment: "0.30", Date: "15/03/2024", Time: "04:45:00 PM", StockAfter: 1, RowsBefore: 0})
	require.NoError(t, err)

	svc := NewSalesService(m, m, j, nil)
	st := loadState(t, m)

	n, err := svc.Recover(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, st.Transactions, 1)
	assert.Equal(t, "2", st.Transactions[0].GroceryID)
	banana, _ := st.Catalog.Get("2")
	assert.Equal(t, 1, banana.Stock)
	rows, _ := m.CountTransactions(ctx)
	assert.Equal(t, 1, rows)
}

func TestPublishFailureDoesNotFailSale(t *testing.T) {
	m := memory.New(groceries(), nil, nil)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewSalesService(m, m, nil, pub)
	st := loadState(t, m)

	_, err := svc.Record(context.Background(), st, "1", 1, saleTime)
	require.NoError(t, err)
	assert.Len(t, pub.sent, 1)
}

func TestLaterSaveSettlesEarlierPartialWrite(t *testing.T) {
	ctx := context.Background()
	m := memory.New(groceries(), nil, nil)
	j := newFakeJournal()
	svc := NewSalesService(m, m, j, nil)
	st := loadState(t, m)

	m.SaveErr = errors.New("catalog locked")
	_, err := svc.Record(ctx, st, "1", 3, saleTime)
	require.ErrorIs(t, err, core.ErrPartialWrite)
	require.Len(t, j.pending, 1)

	m.SaveErr = nil
	_, err = svc.Record(ctx, st, "1", 5, saleTime)
	require.NoError(t, err)
	assert.Empty(t, j.pending, "saved catalog already reflects the first sale")

	st = loadState(t, m)
	n, err := svc.Recover(ctx, st)
	require.NoError(t, err)
	assert.Zero(t, n)

	persisted, _, _ := m.LoadCatalog(ctx)
	apple, _ := persisted.Get("1")
	assert.Equal(t, 2, apple.Stock)
	rows, _ := m.CountTransactions(ctx)
	assert.Equal(t, 2, rows)
}

func TestLaterSaveSettlesFailedCommit(t *testing.T) {
	ctx := context.Background()
	m := memory.New(groceries(), nil, nil)
	j := newFakeJournal()
	j.commitFailures = 1
	svc := NewSalesService(m, m, j, nil)
	st := loadState(t, m)

	_, err := svc.Record(ctx, st, "1", 3, saleTime)
	require.NoError(t, err)
	require.Len(t, j.pending, 1)

	_, err = svc.Record(ctx, st, "1", 5, saleTime)
	require.NoError(t, err)
	assert.Empty(t, j.pending)

	st = loadState(t, m)
	n, err := svc.Recover(ctx, st)
	require.NoError(t, err)
	assert.Zero(t, n)
	apple, _ := st.Catalog.Get("1")
	assert.Equal(t, 2, apple.Stock)
}
