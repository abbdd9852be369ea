package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/tidesql/tidesql/logging"
	"github.com/tidesql/tidesql/src/compile"
	"github.com/tidesql/tidesql/src/driver"
	"github.com/tidesql/tidesql/src/pool"
	"github.com/tidesql/tidesql/src/stmt"
)

// DisconnectError reports that the backend connection died mid-use. The
// pooled record has already been invalidated; the statement that hit it
// is not retried.
type DisconnectError struct {
	Err error
}

func (e *DisconnectError) Error() string {
	return fmt.Sprintf("connection lost: %v", e.Err)
}

func (e *DisconnectError) Unwrap() error { return e.Err }

// connCore holds the resources the GC safety net needs without keeping
// the Connection itself alive.
type connCore struct {
	rec    *pool.Record
	pool   *pool.Pool
	logger *slog.Logger
	done   atomic.Bool
}

// Connection is a checked-out database connection bound to one engine.
// It is not safe for concurrent use from more than one goroutine;
// concurrent misuse is detected and rejected. Close returns the
// connection to the pool; a garbage-collected Connection that was never
// closed is reclaimed with a logged leak warning, never silently.
type Connection struct {
	engine *Engine
	handle driver.Handle
	rec    *pool.Record // nil when wrapping an external handle

	// Join bookkeeping for connections wrapped around an externally
	// managed transaction. baseDepth counts transaction levels already
	// open on the wire when the connection was created.
	mode      JoinMode
	external  bool
	baseDepth int

	stack []*Transaction
	busy  atomic.Bool
	core  *connCore
}

func newPooledConnection(e *Engine, rec *pool.Record) *Connection {
	c := &Connection{
		engine: e,
		handle: rec.Handle(),
		rec:    rec,
		mode:   e.joinMode,
	}
	core := &connCore{rec: rec, pool: e.pool, logger: e.logger}
	c.core = core
	runtime.SetFinalizer(c, func(*Connection) {
		cc := core
		if cc.done.CompareAndSwap(false, true) {
			cc.logger.Warn("connection leaked without Close, reclaiming in GC")
			cc.pool.Checkin(cc.rec)
		}
	})
	return c
}

// enter guards against concurrent use of one Connection. Transactions
// carry their own guard; this one covers statement execution and close.
func (c *Connection) enter(op string) error {
	if c.core != nil && c.core.done.Load() {
		return &InvalidStateError{Op: op, State: "connection is closed"}
	}
	if !c.busy.CompareAndSwap(false, true) {
		return &InvalidStateError{Op: op, State: "connection is in use on another goroutine"}
	}
	return nil
}

func (c *Connection) exit() { c.busy.Store(false) }

// --- transaction stack bookkeeping ---

func (c *Connection) top() *Transaction {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

func (c *Connection) bottom() *Transaction {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[0]
}

func (c *Connection) pop() {
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Connection) clearStack() {
	c.stack = nil
}

// closeNestedAbove marks every marker above tx rolled back without
// issuing savepoint SQL; the caller's physical rollback subsumes them.
func (c *Connection) closeNestedAbove(tx *Transaction) {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i] == tx {
			break
		}
		c.stack[i].state.Store(txRolledBack)
	}
}

func (c *Connection) markTxClosed() {
	if c.rec != nil {
		c.rec.MarkInTransaction(false)
	}
}

// execControl issues transaction-control SQL on the raw handle.
func (c *Connection) execControl(ctx context.Context, sql string) error {
	start := time.Now()
	_, err := c.handle.ExecContext(ctx, sql, nil)
	logging.Statement(c.engine.logger, sql, nil, time.Since(start))
	if err != nil {
		return c.classify(err)
	}
	return nil
}

// classify invalidates the pooled record on disconnect-class errors.
func (c *Connection) classify(err error) error {
	if driver.IsDisconnect(err) {
		if c.rec != nil {
			c.rec.Invalidate()
		}
		return &DisconnectError{Err: err}
	}
	return err
}

// --- transaction control ---

// Begin starts a transaction: the root when none is open, a savepoint
// nested under the innermost one otherwise.
func (c *Connection) Begin(ctx context.Context) (*Transaction, error) {
	if top := c.top(); top != nil {
		return top.Begin(ctx)
	}
	if err := c.enter("begin"); err != nil {
		return nil, err
	}
	defer c.exit()
	return c.beginRoot(ctx)
}

func (c *Connection) beginRoot(ctx context.Context) (*Transaction, error) {
	if c.external {
		return c.beginJoined(ctx)
	}

	if iso := c.engine.isolationSQL(); iso != "" {
		if err := c.execControl(ctx, iso); err != nil {
			return nil, err
		}
	}
	if err := c.execControl(ctx, "BEGIN"); err != nil {
		return nil, err
	}
	tx := &Transaction{conn: c, depth: 1, root: true}
	c.stack = append(c.stack, tx)
	if c.rec != nil {
		c.rec.MarkInTransaction(true)
	}
	return tx, nil
}

// beginJoined opens the first marker on a connection wrapped around an
// externally managed transaction, per the configured JoinMode.
func (c *Connection) beginJoined(ctx context.Context) (*Transaction, error) {
	depth := c.baseDepth + 1

	switch c.mode {
	case JoinTakeOver:
		// Adopt the external transaction: no BEGIN, but commit and
		// rollback drive it directly.
		tx := &Transaction{conn: c, depth: depth, root: true}
		c.stack = append(c.stack, tx)
		return tx, nil

	case JoinSavepoint:
		return c.pushSavepoint(ctx, depth)

	case JoinConditional:
		if c.baseDepth > 1 {
			// Already inside a savepoint: nest under it
			return c.pushSavepoint(ctx, depth)
		}
		// Only the external root is open: commit is the owner's, but
		// rollback reaches the wire
		tx := &Transaction{conn: c, depth: depth, ownerCommits: true}
		c.stack = append(c.stack, tx)
		return tx, nil

	default:
		return nil, fmt.Errorf("unknown join mode %v", c.mode)
	}
}

func (c *Connection) beginNested(ctx context.Context) (*Transaction, error) {
	depth := c.baseDepth + len(c.stack) + 1
	return c.pushSavepoint(ctx, depth)
}

func (c *Connection) pushSavepoint(ctx context.Context, depth int) (*Transaction, error) {
	if err := c.execControl(ctx, "SAVEPOINT "+savepointName(depth)); err != nil {
		return nil, err
	}
	tx := &Transaction{conn: c, depth: depth}
	c.stack = append(c.stack, tx)
	return tx, nil
}

// Commit finalizes the root transaction opened by Begin or autobegin.
// Nested transactions must be finished first.
func (c *Connection) Commit(ctx context.Context) error {
	tx := c.bottom()
	if tx == nil {
		return &InvalidStateError{Op: "commit", State: "no transaction is open"}
	}
	return tx.Commit(ctx)
}

// Rollback discards the root transaction and every savepoint above it.
func (c *Connection) Rollback(ctx context.Context) error {
	tx := c.bottom()
	if tx == nil {
		return &InvalidStateError{Op: "rollback", State: "no transaction is open"}
	}
	return tx.Rollback(ctx)
}

// InTransaction reports whether any transaction marker is open.
func (c *Connection) InTransaction() bool { return len(c.stack) > 0 }

// Ping checks that the underlying connection is alive. A failed ping
// invalidates the pooled record so it is not handed out again.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.enter("ping"); err != nil {
		return err
	}
	defer c.exit()
	return c.classify(c.handle.Ping(ctx))
}

// --- execution ---

// Execute compiles the statement tree (through the engine's statement
// cache), binds params, and runs it inside the connection's
// transactional context. A root transaction is begun automatically on
// the first execution if none is open.
func (c *Connection) Execute(ctx context.Context, tree *stmt.AST, params map[string]any) (*Rows, error) {
	cs, err := c.engine.compileTree(tree)
	if err != nil {
		return nil, err
	}
	return c.ExecuteCompiled(ctx, cs, params, stmt.LiteralValues(tree))
}

// ExecuteCompiled runs an already-compiled statement. literals must be
// the literal values of the source tree in walk order
// (stmt.LiteralValues); callers that keep the tree can pass a fresh
// collection from a tree that differs only in literal values.
func (c *Connection) ExecuteCompiled(ctx context.Context, cs *compile.CompiledStatement, params map[string]any, literals []any) (*Rows, error) {
	if err := c.enter("execute"); err != nil {
		return nil, err
	}
	defer c.exit()

	// Autobegin
	if len(c.stack) == 0 {
		if _, err := c.beginRoot(ctx); err != nil {
			return nil, err
		}
	}

	sql, args, err := compile.Bind(cs, c.engine.dialect, params, literals)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if cs.ReturnsRows() {
		rows, err := c.handle.QueryContext(ctx, sql, args)
		logging.Statement(c.engine.logger, sql, cs.ParamNames(), time.Since(start))
		if err != nil {
			return nil, c.classify(err)
		}
		return newRows(rows, nil, nil, c.engine.logger), nil
	}

	res, err := c.handle.ExecContext(ctx, sql, args)
	logging.Statement(c.engine.logger, sql, cs.ParamNames(), time.Since(start))
	if err != nil {
		return nil, c.classify(err)
	}
	return newRows(nil, res, nil, c.engine.logger), nil
}

// Close rolls back any open transaction and returns the connection to
// the pool. Safe to call more than once.
func (c *Connection) Close() error {
	if c.core != nil && !c.core.done.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	if tx := c.bottom(); tx != nil && tx.Active() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = tx.Rollback(ctx)
		cancel()
		if err != nil {
			c.engine.logger.Warn("rollback on connection close failed", "error", err)
		}
	}
	if c.rec != nil {
		c.engine.pool.Checkin(c.rec)
	}
	return err
}
