// Package database provides the SurrealDB abstraction used by the
// repositories.
//
// # Interface Design
//
// The Database interface provides three query methods:
//   - Query: Returns the raw statement results (for SELECT queries returning lists)
//   - QueryOne: Returns the first record of the first statement
//   - Execute: No return value (for CREATE/UPSERT/DELETE mutations)
//
// Multi-statement writes go through AtomicBatch (see transaction.go), which
// wraps its statements in BEGIN / COMMIT TRANSACTION and sends them in one
// round trip.
//
// # Error Handling
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing record
//	}
package database

import (
	"context"
	"errors"
	"time"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique index violation (e.g. a second swipe on the same pair).
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")
)

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string

	// QueryTimeout bounds every statement; zero disables the bound
	QueryTimeout time.Duration
}
