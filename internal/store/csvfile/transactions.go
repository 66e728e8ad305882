package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"grocer/internal/core"
)

type transactionRow struct {
	Date     string `csv:"date"`
	Time     string `csv:"time"`
	ID       string `csv:"id"`
	Quantity string `csv:"quantity"`
	Payment  string `csv:"payment"`
}

// TransactionFile is the append-only sales log: date,time,id,quantity,payment.
type TransactionFile struct {
	Path string
}

func NewTransactionFile(path string) *TransactionFile {
	return &TransactionFile{Path: path}
}

// LoadTransactions implements store.TransactionStore. Dates are kept as
// text; search and report code validate them.
func (s *TransactionFile) LoadTransactions(_ context.Context) ([]core.Transaction, []core.RowIssue, error) {
	var rows []*transactionRow
	issues, err := readRows(s.Path, &rows)
	if err != nil {
		return nil, nil, err
	}

	txs := make([]core.Transaction, 0, len(rows))
	for i, r := range rows {
		tx, err := r.toTransaction()
		if err != nil {
			issues = append(issues, malformed(s.Path, i+1, err.Error()))
			continue
		}
		txs = append(txs, tx)
	}
	return txs, issues, nil
}

// AppendTransactions implements store.TransactionStore. The header is only
// written when the file is new or empty.
func (s *TransactionFile) AppendTransactions(ctx context.Context, txs ...core.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.Path, err)
	}

	rows := make([]*transactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, &transactionRow{
			Date:     tx.Date,
			Time:     tx.Time,
			ID:       tx.GroceryID,
			Quantity: strconv.Itoa(tx.Quantity),
			Payment:  core.FormatMoney(tx.Payment),
		})
	}

	if info.Size() == 0 {
		err = gocsv.Marshal(&rows, f)
	} else {
		if err := terminateLastLine(f, info.Size()); err != nil {
			return fmt.Errorf("append transactions: %w", err)
		}
		err = gocsv.MarshalWithoutHeaders(&rows, f)
	}
	if err != nil {
		return fmt.Errorf("append transactions: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", s.Path, err)
	}

	slog.DebugContext(ctx, "Transactions appended", "path", s.Path, "rows", len(rows))
	return nil
}

// terminateLastLine writes a newline when the file of the given size does
// not already end with one, so that appended rows start on their own line.
func terminateLastLine(f *os.File, size int64) error {
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err := f.Write([]byte("\n"))
	return err
}

// CountTransactions implements store.TransactionStore. Malformed rows are
// counted too: the result is the physical data row count.
func (s *TransactionFile) CountTransactions(_ context.Context) (int, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	r := newReader(f)
	n := 0
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", s.Path, err)
		}
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return n - 1, nil
}

func (r *transactionRow) toTransaction() (core.Transaction, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(r.Quantity))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrInvalidQuantity, r.Quantity)
	}
	payment, err := core.ParsePrice(r.Payment)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid payment %q", r.Payment)
	}
	tx := core.Transaction{
		Date:      strings.TrimSpace(r.Date),
		Time:      strings.TrimSpace(r.Time),
		GroceryID: strings.TrimSpace(r.ID),
		Quantity:  qty,
		Payment:   payment,
	}
	return tx, tx.Validate()
}
