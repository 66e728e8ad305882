package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"grocer/internal/amqp"
	"grocer/internal/core"
	"grocer/internal/journal"
	"grocer/internal/services"
	"grocer/internal/store/csvfile"
	"grocer/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var b Backend
	switch config.Type {
	case CSVBackend:
		b.Catalog = csvfile.NewCatalogFile(config.GroceryFile)
		b.Transactions = csvfile.NewTransactionFile(config.TransactionFile)
		b.Users = csvfile.NewUserFile(config.UserFile)
		f.logger.Info("Initialized CSV backend",
			"groceries", config.GroceryFile,
			"transactions", config.TransactionFile,
			"users", config.UserFile)
	case MemoryBackend:
		m, err := f.seedMemory(ctx, config)
		if err != nil {
			return nil, err
		}
		b.Catalog, b.Transactions, b.Users = m, m, m
		f.logger.Info("Initialized memory backend, files will not be modified")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	var cleanups []func() error

	// Interface fields stay untyped nil when a feature is off.
	var saleJournal services.SaleJournal
	if config.JournalPath != "" {
		j, err := journal.Open(config.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sale journal: %w", err)
		}
		saleJournal = j
		cleanups = append(cleanups, j.Close)
		f.logger.Info("Opened sale journal", "path", config.JournalPath)
	}

	var publisher services.SalePublisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sale events", "error", err)
		} else {
			publisher = client
			cleanups = append(cleanups, client.Close)
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	b.Sales = services.NewSalesService(b.Catalog, b.Transactions, saleJournal, publisher)
	b.Items = services.NewCatalogService(b.Catalog)

	return &BackendResult{
		Backend: &b,
		Cleanup: func() error {
			var errs []error
			for i := len(cleanups) - 1; i >= 0; i-- {
				errs = append(errs, cleanups[i]())
			}
			return errors.Join(errs...)
		},
	}, nil
}

// seedMemory copies whichever CSV files are configured into a memory store.
func (f *DefaultFactory) seedMemory(ctx context.Context, config Config) (*memory.Store, error) {
	var (
		items []core.GroceryItem
		txs   []core.Transaction
		users []core.User
	)

	if config.GroceryFile != "" {
		catalog, issues, err := csvfile.NewCatalogFile(config.GroceryFile).LoadCatalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		f.warnIssues(issues)
		items = catalog.Items()
	}
	if config.TransactionFile != "" {
		loaded, issues, err := csvfile.NewTransactionFile(config.TransactionFile).LoadTransactions(ctx)
		if err != nil {
			return nil, fmt.Errorf("seed transactions: %w", err)
		}
		f.warnIssues(issues)
		txs = loaded
	}
	if config.UserFile != "" {
		loaded, issues, err := csvfile.NewUserFile(config.UserFile).LoadUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("seed users: %w", err)
		}
		f.warnIssues(issues)
		users = loaded
	}

	return memory.New(items, txs, users), nil
}

func (f *DefaultFactory) warnIssues(issues []core.RowIssue) {
	for _, is := range issues {
		f.logger.Warn("Row skipped while seeding memory backend", "source", is.Source, "row", is.Row, "error", is.Error())
	}
}
