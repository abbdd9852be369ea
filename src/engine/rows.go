package engine

import (
	"errors"
	"io"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/tidesql/tidesql/src/driver"
)

// rowsCore holds the resources a Rows owns, separated out so the GC
// safety net can reference them without keeping the Rows itself alive.
type rowsCore struct {
	inner   driver.Rows // nil for statements without a row stream
	release func()      // returns the connection for engine-level execution
	logger  *slog.Logger
	done    atomic.Bool
}

func (c *rowsCore) close() error {
	if !c.done.CompareAndSwap(false, true) {
		return nil
	}
	var err error
	if c.inner != nil {
		err = c.inner.Close()
	}
	if c.release != nil {
		c.release()
	}
	return err
}

// Rows is a forward-only result stream. Rows fetched from an
// engine-level execute hold the pooled connection until closed;
// exhausting the stream closes it automatically, and explicit Close is
// the contract for early abandonment. A garbage-collected Rows that was
// never closed is reclaimed with a logged leak warning, never silently.
type Rows struct {
	core *rowsCore
	cols []string
	row  []any
	err  error

	result driver.Result
}

func newRows(inner driver.Rows, result driver.Result, release func(), logger *slog.Logger) *Rows {
	core := &rowsCore{inner: inner, release: release, logger: logger}
	r := &Rows{core: core, result: result}
	if inner != nil {
		r.cols = inner.Columns()
	}
	runtime.SetFinalizer(r, func(*Rows) {
		c := core
		if c.done.Load() {
			return
		}
		c.logger.Warn("rows: result set leaked without Close, reclaiming in GC")
		c.close()
	})
	return r
}

// Columns returns the result column names, or nil for statements that
// return no rows.
func (r *Rows) Columns() []string { return r.cols }

// Next advances to the next row, returning false at the end of the
// stream or on error. The stream closes itself when exhausted.
func (r *Rows) Next() bool {
	if r.core.done.Load() || r.core.inner == nil {
		return false
	}
	row, err := r.core.inner.Next()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = err
		}
		r.core.close()
		return false
	}
	r.row = row
	return true
}

// Row returns the row fetched by the last successful Next.
func (r *Rows) Row() []any { return r.row }

// Err returns the error that terminated iteration, if any.
func (r *Rows) Err() error { return r.err }

// Close releases the stream and, for engine-level execution, returns
// the connection to the pool. Safe to call more than once.
func (r *Rows) Close() error {
	return r.core.close()
}

// RowsAffected reports the row count of a statement that returned no
// row stream.
func (r *Rows) RowsAffected() (int64, error) {
	if r.result == nil {
		return 0, errors.New("rows: statement did not report an affected count")
	}
	return r.result.RowsAffected()
}

// LastInsertId reports the backend-assigned id of the last inserted
// row, where the driver supports it.
func (r *Rows) LastInsertId() (int64, error) {
	if r.result == nil {
		return 0, errors.New("rows: statement did not report an insert id")
	}
	return r.result.LastInsertId()
}

// All collects every remaining row and closes the stream.
func (r *Rows) All() ([][]any, error) {
	var out [][]any
	for r.Next() {
		row := make([]any, len(r.row))
		copy(row, r.row)
		out = append(out, row)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
