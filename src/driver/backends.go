package driver

import (
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"

	"github.com/tidesql/tidesql/dburl"
)

// Open builds a Connector for the database identified by dbURL. The
// dialect is inferred from the URL scheme: postgres:// and mysql:// use
// the pgx and go-sql-driver backends, sqlite:// the modernc one.
func Open(dbURL string) (Connector, error) {
	dialect, err := dburl.InferDialectFromDBUrl(dbURL)
	if err != nil {
		return nil, err
	}
	dsn, err := dburl.DriverDSN(dbURL)
	if err != nil {
		return nil, err
	}
	switch dialect {
	case dburl.DialectPostgres:
		return NewSQLConnector(stdlib.GetDefaultDriver(), dsn, dialect), nil
	case dburl.DialectMySQL:
		return NewSQLConnector(&mysql.MySQLDriver{}, dsn, dialect), nil
	case dburl.DialectSQLite:
		return NewSQLConnector(&sqlite.Driver{}, dsn, dialect), nil
	default:
		return nil, fmt.Errorf("%w: %s", dburl.ErrUnknownDialect, dialect)
	}
}
