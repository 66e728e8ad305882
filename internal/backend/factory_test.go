package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocer/internal/config"
	"grocer/internal/services"
)

func TestFromAppConfig(t *testing.T) {
	app := &config.Config{Backend: "csv", JournalPath: "j.db", AMQPURL: "amqp://x", AMQPExchange: "e", AMQPQueue: "q"}

	cfg, err := FromAppConfig(app, "g.csv", "t.csv", "u.csv")
	require.NoError(t, err)
	assert.Equal(t, CSVBackend, cfg.Type)
	assert.Equal(t, "j.db", cfg.JournalPath)
	assert.Equal(t, "amqp://x", cfg.AMQPURL)

	_, err = FromAppConfig(app, "g.csv", "", "u.csv")
	assert.Error(t, err)
	_, err = FromAppConfig(nil, "g.csv", "t.csv", "u.csv")
	assert.Error(t, err)

	cfg, err = FromAppConfig(&config.Config{Backend: "memory"}, "g.csv", "t.csv", "u.csv")
	require.NoError(t, err)
	assert.Equal(t, MemoryBackend, cfg.Type)
}

func TestCreateBackendRejectsInvalidType(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: "sheets"})
	assert.Error(t, err)
}

func TestCreateCSVBackendWithJournal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	groceries := filepath.Join(dir, "groceries.csv")
	require.NoError(t, os.WriteFile(groceries, []byte("id,name,price,stock\n1,Apple,0.50,10\n"), 0o644))

	res, err := NewFactory(nil).CreateBackend(ctx, Config{
		Type:            CSVBackend,
		GroceryFile:     groceries,
		TransactionFile: filepath.Join(dir, "transactions.csv"),
		UserFile:        filepath.Join(dir, "users.csv"),
		JournalPath:     filepath.Join(dir, "data", "journal.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, res.Cleanup()) })

	loaded, err := services.Load(ctx, res.Backend.Catalog, res.Backend.Transactions, res.Backend.Users)
	require.NoError(t, err)
	assert.Len(t, loaded.Issues, 2, "missing transaction and user files are diagnostics")

	_, err = res.Backend.Sales.Record(ctx, loaded.State, "1", 3, time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	raw, err := os.ReadFile(groceries)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "1,Apple,0.5,7")

	n, err := res.Backend.Sales.Recover(ctx, loaded.State)
	require.NoError(t, err)
	assert.Zero(t, n, "committed sale leaves nothing to recover")
}

func TestCreateMemoryBackend(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend})
	require.NoError(t, err)
	require.NotNil(t, res.Backend.Sales)
	require.NotNil(t, res.Backend.Items)
	assert.NoError(t, res.Cleanup())
}

func TestMemoryBackendDryRunLeavesFilesUntouched(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	groceries := filepath.Join(dir, "groceries.csv")
	transactions := filepath.Join(dir, "transactions.csv")
	users := filepath.Join(dir, "users.csv")
	catalogCSV := "id,name,price,stock\n1,Apple,0.50,10\n"
	require.NoError(t, os.WriteFile(groceries, []byte(catalogCSV), 0o644))
	require.NoError(t, os.WriteFile(users, []byte("username,password,type\nbob,pw,cashier\n"), 0o644))

	res, err := NewFactory(nil).CreateBackend(ctx, Config{
		Type:            MemoryBackend,
		GroceryFile:     groceries,
		TransactionFile: transactions,
		UserFile:        users,
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, res.Cleanup()) })

	loaded, err := services.Load(ctx, res.Backend.Catalog, res.Backend.Transactions, res.Backend.Users)
	require.NoError(t, err)
	require.Len(t, loaded.Users, 1)

	_, err = res.Backend.Sales.Record(ctx, loaded.State, "1", 4, time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	apple, _ := loaded.State.Catalog.Get("1")
	assert.Equal(t, 6, apple.Stock)

	raw, err := os.ReadFile(groceries)
	require.NoError(t, err)
	assert.Equal(t, catalogCSV, string(raw))
	_, err = os.Stat(transactions)
	assert.True(t, os.IsNotExist(err), "transaction file not created")
}
