// Package driver defines the backend connection contract and adapts
// database/sql/driver implementations to it. The pool and engine layers
// only see these interfaces; the concrete pgx, mysql, and sqlite
// drivers are wired up in Open.
package driver

import (
	"context"
	"io"
)

// Connector establishes new backend connections. Implementations must
// be safe for concurrent use.
type Connector interface {
	// Connect opens a new connection. The context bounds the dial.
	Connect(ctx context.Context) (Handle, error)

	// Dialect returns the dialect name this connector serves.
	Dialect() string
}

// Handle is a single backend connection. Handles are not safe for
// concurrent use; the pool guarantees one owner at a time.
type Handle interface {
	// ExecContext runs a statement that returns no rows.
	ExecContext(ctx context.Context, sql string, args []any) (Result, error)

	// QueryContext runs a statement and returns its rows.
	QueryContext(ctx context.Context, sql string, args []any) (Rows, error)

	// Ping checks liveness. Used by the pool's pre-ping on checkout.
	Ping(ctx context.Context) error

	// Close tears the connection down.
	Close() error
}

// Rows is a forward-only row stream.
type Rows interface {
	// Columns returns the result column names.
	Columns() []string

	// Next returns the next row, or io.EOF when exhausted.
	Next() ([]any, error)

	// Close releases the stream. Safe to call more than once.
	Close() error
}

// Result reports the outcome of a statement that returns no rows.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

// Drain consumes and discards any remaining rows, then closes the
// stream. Some backends require the stream to be exhausted before the
// connection can run another statement.
func Drain(rows Rows) error {
	for {
		_, err := rows.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			rows.Close()
			return err
		}
	}
	return rows.Close()
}
