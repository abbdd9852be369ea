package driver

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
)

// sqlConnector adapts a database/sql/driver.Driver to the Connector
// contract. It bypasses database/sql entirely: the pool layer manages
// connection lifetimes itself, and stacking two pools would defeat its
// checkout semantics.
type sqlConnector struct {
	drv     driver.Driver
	dsn     string
	dialect string
}

// NewSQLConnector wraps a database/sql/driver.Driver as a Connector.
func NewSQLConnector(drv driver.Driver, dsn, dialect string) Connector {
	return &sqlConnector{drv: drv, dsn: dsn, dialect: dialect}
}

func (c *sqlConnector) Dialect() string { return c.dialect }

func (c *sqlConnector) Connect(ctx context.Context) (Handle, error) {
	if dc, ok := c.drv.(driver.DriverContext); ok {
		connector, err := dc.OpenConnector(c.dsn)
		if err != nil {
			return nil, fmt.Errorf("open connector: %w", err)
		}
		conn, err := connector.Connect(ctx)
		if err != nil {
			return nil, err
		}
		return &sqlHandle{conn: conn}, nil
	}

	// Legacy drivers have no context-aware dial; honor cancellation
	// around the blocking call.
	type result struct {
		conn driver.Conn
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		conn, err := c.drv.Open(c.dsn)
		ch <- result{conn, err}
	}()
	select {
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.conn != nil {
				r.conn.Close()
			}
		}()
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		return &sqlHandle{conn: r.conn}, nil
	}
}

// sqlHandle adapts a driver.Conn.
type sqlHandle struct {
	conn driver.Conn
}

func (h *sqlHandle) namedValues(sql string, args []any) ([]driver.NamedValue, error) {
	nvs := make([]driver.NamedValue, len(args))
	checker, hasChecker := h.conn.(driver.NamedValueChecker)
	for i, arg := range args {
		nv := driver.NamedValue{Ordinal: i + 1, Value: arg}
		if hasChecker {
			err := checker.CheckNamedValue(&nv)
			if err == nil {
				nvs[i] = nv
				continue
			}
			if !errors.Is(err, driver.ErrSkip) {
				return nil, fmt.Errorf("argument %d of %q: %w", i+1, sql, err)
			}
		}
		v, err := driver.DefaultParameterConverter.ConvertValue(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %q: %w", i+1, sql, err)
		}
		nv.Value = v
		nvs[i] = nv
	}
	return nvs, nil
}

func (h *sqlHandle) ExecContext(ctx context.Context, sql string, args []any) (Result, error) {
	nvs, err := h.namedValues(sql, args)
	if err != nil {
		return nil, err
	}
	if ec, ok := h.conn.(driver.ExecerContext); ok {
		res, err := ec.ExecContext(ctx, sql, nvs)
		if err != nil {
			return nil, err
		}
		return res, nil
	}
	st, err := h.prepare(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	if sec, ok := st.(driver.StmtExecContext); ok {
		return sec.ExecContext(ctx, nvs)
	}
	return st.Exec(plainValues(nvs))
}

func (h *sqlHandle) QueryContext(ctx context.Context, sql string, args []any) (Rows, error) {
	nvs, err := h.namedValues(sql, args)
	if err != nil {
		return nil, err
	}
	if qc, ok := h.conn.(driver.QueryerContext); ok {
		rows, err := qc.QueryContext(ctx, sql, nvs)
		if err != nil {
			return nil, err
		}
		return &sqlRows{rows: rows}, nil
	}
	st, err := h.prepare(ctx, sql)
	if err != nil {
		return nil, err
	}
	var rows driver.Rows
	if sqc, ok := st.(driver.StmtQueryContext); ok {
		rows, err = sqc.QueryContext(ctx, nvs)
	} else {
		rows, err = st.Query(plainValues(nvs))
	}
	if err != nil {
		st.Close()
		return nil, err
	}
	return &sqlRows{rows: rows, stmt: st}, nil
}

func (h *sqlHandle) prepare(ctx context.Context, sql string) (driver.Stmt, error) {
	if cpc, ok := h.conn.(driver.ConnPrepareContext); ok {
		return cpc.PrepareContext(ctx, sql)
	}
	return h.conn.Prepare(sql)
}

func (h *sqlHandle) Ping(ctx context.Context) error {
	if p, ok := h.conn.(driver.Pinger); ok {
		return p.Ping(ctx)
	}
	res, err := h.QueryContext(ctx, "SELECT 1", nil)
	if err != nil {
		return err
	}
	return Drain(res)
}

func (h *sqlHandle) Close() error {
	return h.conn.Close()
}

func plainValues(nvs []driver.NamedValue) []driver.Value {
	vals := make([]driver.Value, len(nvs))
	for i, nv := range nvs {
		vals[i] = nv.Value
	}
	return vals
}

// sqlRows adapts driver.Rows. When the rows came from a prepared
// statement fallback, closing the rows also closes the statement.
type sqlRows struct {
	rows driver.Rows
	stmt driver.Stmt
	buf  []driver.Value

	closed bool
}

func (r *sqlRows) Columns() []string {
	return r.rows.Columns()
}

func (r *sqlRows) Next() ([]any, error) {
	if r.closed {
		return nil, io.EOF
	}
	if r.buf == nil {
		r.buf = make([]driver.Value, len(r.rows.Columns()))
	}
	if err := r.rows.Next(r.buf); err != nil {
		return nil, err
	}
	out := make([]any, len(r.buf))
	for i, v := range r.buf {
		out[i] = v
	}
	return out, nil
}

func (r *sqlRows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.rows.Close()
	if r.stmt != nil {
		if serr := r.stmt.Close(); err == nil {
			err = serr
		}
	}
	return err
}
