// Package engine composes the statement compiler, statement cache,
// and connection pool behind an execute facade.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/tidesql/tidesql/logging"
	"github.com/tidesql/tidesql/src/cache"
	"github.com/tidesql/tidesql/src/compile"
	"github.com/tidesql/tidesql/src/driver"
	"github.com/tidesql/tidesql/src/pool"
	"github.com/tidesql/tidesql/src/stmt"
)

// Config carries the engine's tunables. The zero value gets defaults
// applied.
type Config struct {
	PoolSize        int
	MaxOverflow     int
	CheckoutTimeout time.Duration
	PrePing         bool

	CacheSize int

	// Isolation is the default isolation level set before each root
	// BEGIN, e.g. "repeatable read". Empty leaves the backend default.
	Isolation string

	// JoinMode applies to connections wrapped around externally managed
	// transactions via Wrap.
	JoinMode JoinMode

	CompileOptions compile.Options

	Logger *slog.Logger
}

// Engine owns one pool, one statement cache, and one dialect, all
// scoped to its lifetime. Safe for concurrent use.
type Engine struct {
	connector driver.Connector
	dialect   compile.Dialect
	pool      *pool.Pool
	cache     *cache.StatementCache
	logger    *slog.Logger

	compileOpts compile.Options
	isolation   string
	joinMode    JoinMode
}

// New creates an engine for the database identified by dbURL. The
// dialect is inferred from the URL scheme. No connection is opened
// until first use.
func New(dbURL string, cfg Config) (*Engine, error) {
	connector, err := driver.Open(dbURL)
	if err != nil {
		return nil, err
	}
	return NewWithConnector(connector, cfg)
}

// NewWithConnector creates an engine over an explicit connector,
// mainly for tests and custom backends.
func NewWithConnector(connector driver.Connector, cfg Config) (*Engine, error) {
	dialect, err := compile.ByName(connector.Dialect())
	if err != nil {
		return nil, err
	}
	return newEngine(connector, dialect, cfg), nil
}

func newEngine(connector driver.Connector, dialect compile.Dialect, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard
	}
	e := &Engine{
		connector:   connector,
		dialect:     dialect,
		cache:       cache.New(cfg.CacheSize),
		logger:      logger,
		compileOpts: cfg.CompileOptions,
		isolation:   cfg.Isolation,
		joinMode:    cfg.JoinMode,
	}
	e.pool = pool.New(connector, pool.Config{
		Size:        cfg.PoolSize,
		MaxOverflow: cfg.MaxOverflow,
		Timeout:     cfg.CheckoutTimeout,
		PrePing:     cfg.PrePing,
		Logger:      logger,
	})
	return e
}

// Dialect returns the engine's dialect.
func (e *Engine) Dialect() compile.Dialect { return e.dialect }

func (e *Engine) isolationSQL() string {
	if e.isolation == "" {
		return ""
	}
	return e.dialect.IsolationSQL(e.isolation)
}

// Connect checks a connection out of the pool. The caller owns it until
// Close.
func (e *Engine) Connect(ctx context.Context) (*Connection, error) {
	rec, err := e.pool.Checkout(ctx)
	if err != nil {
		return nil, err
	}
	return newPooledConnection(e, rec), nil
}

// Wrap builds a Connection over an externally managed handle that is
// already inside a transaction. savepointDepth is how many savepoints
// the external owner has open (0 for a bare transaction). The engine's
// JoinMode decides whether the first begin takes the transaction over,
// nests a savepoint, or goes rollback-only. The caller keeps ownership
// of the handle; Close does not return it anywhere.
func (e *Engine) Wrap(handle driver.Handle, savepointDepth int) *Connection {
	return &Connection{
		engine:    e,
		handle:    handle,
		mode:      e.joinMode,
		external:  true,
		baseDepth: 1 + savepointDepth,
	}
}

// compileTree resolves the compiled form for a tree, through the cache
// for cacheable trees. Trees marked uncacheable (raw SQL fragments) and
// literal-bind compilation bypass the cache.
func (e *Engine) compileTree(tree *stmt.AST) (*compile.CompiledStatement, error) {
	if tree != nil && (tree.Uncacheable || e.compileOpts.LiteralBinds) {
		return compile.NewCompiler(e.dialect, e.compileOpts).Compile(tree)
	}
	key := stmt.NewKey(tree, e.dialect.Name(), e.compileOpts.Fingerprint())
	return e.cache.GetOrCompile(key, func() (*compile.CompiledStatement, error) {
		return compile.NewCompiler(e.dialect, e.compileOpts).Compile(tree)
	})
}

// Compile resolves a tree to its compiled form without executing it.
func (e *Engine) Compile(tree *stmt.AST) (*compile.CompiledStatement, error) {
	return e.compileTree(tree)
}

// Execute runs a statement on a transparently checked-out connection,
// outside any explicit transaction (the backend's statement-level
// autocommit applies). The connection returns to the pool when the
// returned Rows is exhausted or closed; that coupling is the contract,
// not a side effect.
func (e *Engine) Execute(ctx context.Context, tree *stmt.AST, params map[string]any) (*Rows, error) {
	cs, err := e.compileTree(tree)
	if err != nil {
		return nil, err
	}

	sql, args, err := compile.Bind(cs, e.dialect, params, stmt.LiteralValues(tree))
	if err != nil {
		return nil, err
	}

	rec, err := e.pool.Checkout(ctx)
	if err != nil {
		return nil, err
	}
	release := func() { e.pool.Checkin(rec) }

	start := time.Now()
	if cs.ReturnsRows() {
		rows, err := rec.Handle().QueryContext(ctx, sql, args)
		logging.Statement(e.logger, sql, cs.ParamNames(), time.Since(start))
		if err != nil {
			err = e.classifyRecord(rec, err)
			release()
			return nil, err
		}
		return newRows(rows, nil, release, e.logger), nil
	}

	res, err := rec.Handle().ExecContext(ctx, sql, args)
	logging.Statement(e.logger, sql, cs.ParamNames(), time.Since(start))
	if err != nil {
		err = e.classifyRecord(rec, err)
		release()
		return nil, err
	}
	return newRows(nil, res, release, e.logger), nil
}

func (e *Engine) classifyRecord(rec *pool.Record, err error) error {
	if driver.IsDisconnect(err) {
		rec.Invalidate()
		return &DisconnectError{Err: err}
	}
	return err
}

// CacheStats returns the statement cache counters.
func (e *Engine) CacheStats() cache.Stats { return e.cache.Stats() }

// PoolStats returns the connection pool occupancy.
func (e *Engine) PoolStats() pool.Stats { return e.pool.Stats() }

// InvalidateCache drops every cached compiled statement.
func (e *Engine) InvalidateCache() { e.cache.Invalidate() }

// Dispose tears the engine down: the pool closes its connections and
// fails pending waiters, and the statement cache empties. In-flight
// connections close as they are returned.
func (e *Engine) Dispose() {
	e.pool.Dispose()
	e.cache.Invalidate()
}
