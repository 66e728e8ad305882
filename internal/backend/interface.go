package backend

import (
	"context"

	"grocer/internal/services"
	"grocer/internal/store"
)

// Backend bundles the stores and the services wired over them.
type Backend struct {
	Catalog      store.CatalogStore
	Transactions store.TransactionStore
	Users        store.UserStore

	Sales *services.SalesService
	Items *services.CatalogService
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend *Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// CSV files
	GroceryFile     string
	TransactionFile string
	UserFile        string

	// Optional sale journal and event publishing
	JournalPath  string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	CSVBackend BackendType = "csv"
	// MemoryBackend seeds from the CSV files when given and never writes
	// them back: a dry run.
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
