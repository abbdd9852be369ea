package compile

import (
	"fmt"
	"strings"

	"github.com/tidesql/tidesql/src/stmt"
)

// Dialect defines the SQL dialect-specific behavior for compilation.
// Each dialect (Postgres, MySQL, SQLite) implements this interface to
// customize identifier quoting, placeholders, literals, and special
// functions. The compiler itself never branches on a backend name.
type Dialect interface {
	// Name returns the dialect name for debugging/logging.
	Name() string

	// QuoteIdentifier quotes an identifier (table name, column name, alias).
	QuoteIdentifier(name string) string

	// Placeholder returns the parameter placeholder for the given index (1-based).
	// Postgres uses $1, $2, etc. MySQL and SQLite use ?.
	Placeholder(index int) string

	// BoolLiteral returns the SQL literal for a boolean value.
	// Postgres uses TRUE/FALSE, MySQL and SQLite use 1/0.
	BoolLiteral(val bool) string

	// NowFunc returns the SQL function for current timestamp.
	// Postgres/MySQL use NOW(), SQLite uses datetime('now').
	NowFunc() string

	// WrapSetOpQueries returns true if set operation queries should be wrapped in parentheses.
	// Postgres and MySQL require this, SQLite does not support it.
	WrapSetOpQueries() bool

	// SupportsReturning returns true if the dialect supports the RETURNING clause
	// in INSERT/UPDATE/DELETE statements.
	SupportsReturning() bool

	// BindsLimitOffset returns true if LIMIT/OFFSET values can be bound
	// as ordinary parameters. When false, limit and offset parameters
	// become post-compile slots rendered as literal text per execution.
	BindsLimitOffset() bool

	// EmptyInText returns the constant predicate substituted for an
	// IN (or NOT IN when negated) comparison whose runtime list is empty.
	EmptyInText(negated bool) string

	// IsolationSQL returns the statement that sets the given isolation
	// level for the next transaction, or "" if the dialect has no such
	// statement.
	IsolationSQL(level string) string

	// WriteILIKE writes a case-insensitive LIKE expression.
	// Postgres has native ILIKE, others need LOWER() LIKE LOWER().
	WriteILIKE(w Writer, args []stmt.Expr, writeExpr func(stmt.Expr) error) error

	// WriteOrderByExpr writes an expression for ORDER BY clause.
	// MySQL needs special COLLATE handling for string columns.
	WriteOrderByExpr(w Writer, expr stmt.Expr, writeExpr func(stmt.Expr) error, writeColumn func(stmt.Column)) error
}

// =============================================================================
// Shared Helpers
// =============================================================================

// writeILIKEWithLower is a shared helper for dialects that don't have native ILIKE.
// It emulates ILIKE using LOWER(x) LIKE LOWER(y).
func writeILIKEWithLower(w Writer, args []stmt.Expr, writeExpr func(stmt.Expr) error) error {
	if len(args) != 2 {
		return compileErrf("ILIKE", "requires exactly 2 arguments, got %d", len(args))
	}
	w.WriteString("LOWER(")
	if err := writeExpr(args[0]); err != nil {
		return err
	}
	w.WriteString(") LIKE LOWER(")
	if err := writeExpr(args[1]); err != nil {
		return err
	}
	w.WriteString(")")
	return nil
}

// isolationLevels is the set of levels accepted by IsolationSQL on
// dialects that support SET TRANSACTION.
var isolationLevels = map[string]string{
	"read uncommitted": "READ UNCOMMITTED",
	"read committed":   "READ COMMITTED",
	"repeatable read":  "REPEATABLE READ",
	"serializable":     "SERIALIZABLE",
}

func setTransactionSQL(level string) string {
	if canonical, ok := isolationLevels[strings.ToLower(level)]; ok {
		return "SET TRANSACTION ISOLATION LEVEL " + canonical
	}
	return ""
}

// =============================================================================
// Postgres Dialect
// =============================================================================

// PostgresDialect implements Dialect for PostgreSQL.
type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) QuoteIdentifier(name string) string {
	// Escape embedded double quotes by doubling them
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

func (d *PostgresDialect) BoolLiteral(val bool) string {
	if val {
		return "TRUE"
	}
	return "FALSE"
}

func (d *PostgresDialect) NowFunc() string {
	return "NOW()"
}

func (d *PostgresDialect) WrapSetOpQueries() bool {
	return true
}

func (d *PostgresDialect) SupportsReturning() bool {
	return true
}

func (d *PostgresDialect) BindsLimitOffset() bool {
	return true
}

func (d *PostgresDialect) EmptyInText(negated bool) string {
	if negated {
		return "1 = 1"
	}
	return "1 <> 1"
}

func (d *PostgresDialect) IsolationSQL(level string) string {
	return setTransactionSQL(level)
}

func (d *PostgresDialect) WriteILIKE(w Writer, args []stmt.Expr, writeExpr func(stmt.Expr) error) error {
	// Postgres has native ILIKE
	if len(args) != 2 {
		return compileErrf("ILIKE", "requires exactly 2 arguments, got %d", len(args))
	}
	if err := writeExpr(args[0]); err != nil {
		return err
	}
	w.WriteString(" ILIKE ")
	return writeExpr(args[1])
}

func (d *PostgresDialect) WriteOrderByExpr(w Writer, expr stmt.Expr, writeExpr func(stmt.Expr) error, writeColumn func(stmt.Column)) error {
	// Postgres: no special handling needed
	return writeExpr(expr)
}

// =============================================================================
// MySQL Dialect
// =============================================================================

// MySQLDialect implements Dialect for MySQL.
type MySQLDialect struct{}

func (d *MySQLDialect) Name() string { return "mysql" }

func (d *MySQLDialect) QuoteIdentifier(name string) string {
	// Escape embedded backticks by doubling them
	escaped := strings.ReplaceAll(name, "`", "``")
	return "`" + escaped + "`"
}

func (d *MySQLDialect) Placeholder(index int) string {
	return "?"
}

func (d *MySQLDialect) BoolLiteral(val bool) string {
	if val {
		return "1"
	}
	return "0"
}

func (d *MySQLDialect) NowFunc() string {
	return "NOW()"
}

func (d *MySQLDialect) WrapSetOpQueries() bool {
	return true
}

func (d *MySQLDialect) SupportsReturning() bool {
	return false // MySQL uses LAST_INSERT_ID() instead
}

func (d *MySQLDialect) BindsLimitOffset() bool {
	return true
}

func (d *MySQLDialect) EmptyInText(negated bool) string {
	if negated {
		return "1 = 1"
	}
	return "1 <> 1"
}

func (d *MySQLDialect) IsolationSQL(level string) string {
	return setTransactionSQL(level)
}

func (d *MySQLDialect) WriteILIKE(w Writer, args []stmt.Expr, writeExpr func(stmt.Expr) error) error {
	// MySQL doesn't have native ILIKE, use LOWER() LIKE LOWER()
	return writeILIKEWithLower(w, args, writeExpr)
}

func (d *MySQLDialect) WriteOrderByExpr(w Writer, expr stmt.Expr, writeExpr func(stmt.Expr) error, writeColumn func(stmt.Column)) error {
	// MySQL: Add COLLATE utf8mb4_bin to string columns for case-sensitive sorting
	if colExpr, ok := expr.(stmt.ColumnExpr); ok {
		goType := colExpr.Column.GoType()
		if goType == "string" || goType == "*string" {
			writeColumn(colExpr.Column)
			w.WriteString(" COLLATE utf8mb4_bin")
			return nil
		}
	}
	return writeExpr(expr)
}

// =============================================================================
// SQLite Dialect
// =============================================================================

// SQLiteDialect implements Dialect for SQLite.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) QuoteIdentifier(name string) string {
	// Escape embedded double quotes by doubling them
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

func (d *SQLiteDialect) Placeholder(index int) string {
	return "?"
}

func (d *SQLiteDialect) BoolLiteral(val bool) string {
	if val {
		return "1"
	}
	return "0"
}

func (d *SQLiteDialect) NowFunc() string {
	return "datetime('now')"
}

func (d *SQLiteDialect) WrapSetOpQueries() bool {
	return false
}

func (d *SQLiteDialect) SupportsReturning() bool {
	return true // SQLite 3.35+ supports RETURNING
}

func (d *SQLiteDialect) BindsLimitOffset() bool {
	return true
}

func (d *SQLiteDialect) EmptyInText(negated bool) string {
	if negated {
		return "1 = 1"
	}
	return "1 <> 1"
}

func (d *SQLiteDialect) IsolationSQL(level string) string {
	// SQLite has no SET TRANSACTION ISOLATION LEVEL
	return ""
}

func (d *SQLiteDialect) WriteILIKE(w Writer, args []stmt.Expr, writeExpr func(stmt.Expr) error) error {
	// SQLite doesn't have native ILIKE, use LOWER() LIKE LOWER()
	return writeILIKEWithLower(w, args, writeExpr)
}

func (d *SQLiteDialect) WriteOrderByExpr(w Writer, expr stmt.Expr, writeExpr func(stmt.Expr) error, writeColumn func(stmt.Column)) error {
	// SQLite: no special handling needed
	return writeExpr(expr)
}

// =============================================================================
// Dialect Singletons
// =============================================================================

var (
	// Postgres is the singleton PostgreSQL dialect.
	Postgres Dialect = &PostgresDialect{}

	// MySQL is the singleton MySQL dialect.
	MySQL Dialect = &MySQLDialect{}

	// SQLite is the singleton SQLite dialect.
	SQLite Dialect = &SQLiteDialect{}
)

// ByName returns the dialect registered under name.
func ByName(name string) (Dialect, error) {
	switch name {
	case "postgres":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite":
		return SQLite, nil
	default:
		return nil, fmt.Errorf("unknown dialect %q", name)
	}
}
