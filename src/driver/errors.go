package driver

import (
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsDisconnect reports whether err indicates the underlying connection
// is dead. The pool uses this to invalidate a single connection instead
// of surfacing the backend failure as a statement error, and callers
// can use it to decide whether a retry on a fresh connection makes
// sense.
func IsDisconnect(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	if errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	// Postgres class 08 is "connection exception"
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08")
	}
	if pgconn.Timeout(err) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
