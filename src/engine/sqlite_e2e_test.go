package engine

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidesql/tidesql/src/stmt"
)

// End-to-end tests against a real SQLite database file. These exercise
// the full stack: tree building, compilation, statement cache, binding,
// pool, transactions, and the modernc driver.

type usersTable struct {
	ID   stmt.Int64Column
	Name stmt.StringColumn
}

var users = usersTable{
	ID:   stmt.Int64Column{Table: "users", Name: "id"},
	Name: stmt.StringColumn{Table: "users", Name: "name"},
}

func sqliteEngine(t *testing.T) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "e2e.db")
	e, err := New("sqlite://"+path, Config{PoolSize: 2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(e.Dispose)

	ctx := context.Background()
	conn, err := e.Connect(ctx)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()
	_, err = conn.handle.ExecContext(ctx,
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL)", nil)
	if err != nil {
		t.Fatalf("create table failed: %v", err)
	}
	return e
}

func insertUser(t *testing.T, conn *Connection, id int64, name string) {
	t.Helper()
	tree := stmt.InsertInto(stmt.TableName("users")).
		Set(users.ID, stmt.Param[int64]("id")).
		Set(users.Name, stmt.Param[string]("name")).
		Build()
	rows, err := conn.Execute(context.Background(), tree,
		map[string]any{"id": id, "name": name})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	rows.Close()
}

func countUsers(t *testing.T, e *Engine) int {
	t.Helper()
	tree := stmt.From(stmt.TableName("users")).
		SelectExprAs(stmt.AggregateExpr{Func: stmt.AggCount}, "n").
		Build()
	rows, err := e.Execute(context.Background(), tree, nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	defer rows.Close()
	if !rows.Next() {
		t.Fatalf("count returned no rows: %v", rows.Err())
	}
	return int(rows.Row()[0].(int64))
}

func TestSQLiteExpandingInEndToEnd(t *testing.T) {
	e := sqliteEngine(t)
	ctx := context.Background()

	conn, err := e.Connect(ctx)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	for i, name := range []string{"ada", "brian", "carol", "dana"} {
		insertUser(t, conn, int64(i+1), name)
	}
	if err := conn.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	conn.Close()

	tree := stmt.From(stmt.TableName("users")).
		Select(users.Name).
		Where(users.ID.InParam("ids")).
		OrderBy(users.ID.Asc()).
		Build()

	cs, err := e.Compile(tree)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !strings.Contains(cs.SQL, "IN (:ids)") {
		t.Fatalf("expected an expanding template, got %q", cs.SQL)
	}

	fetch := func(ids []int64) []string {
		rows, err := e.Execute(ctx, tree, map[string]any{"ids": ids})
		if err != nil {
			t.Fatalf("Execute with %v failed: %v", ids, err)
		}
		defer rows.Close()
		var names []string
		for rows.Next() {
			names = append(names, rows.Row()[0].(string))
		}
		if err := rows.Err(); err != nil {
			t.Fatalf("iteration failed: %v", err)
		}
		return names
	}

	if got := fetch([]int64{1, 2, 3}); len(got) != 3 || got[0] != "ada" || got[2] != "carol" {
		t.Errorf("ids [1 2 3]: got %v", got)
	}
	if got := fetch([]int64{4}); len(got) != 1 || got[0] != "dana" {
		t.Errorf("ids [4]: got %v", got)
	}
	// Empty list: statically false predicate, zero rows, no error
	if got := fetch(nil); len(got) != 0 {
		t.Errorf("empty ids: got %v", got)
	}

	// All three executions share one compiled form
	s := e.CacheStats()
	if s.Hits < 2 {
		t.Errorf("expected cache hits across list lengths, got %+v", s)
	}
}

func TestSQLiteTransactionNesting(t *testing.T) {
	e := sqliteEngine(t)
	ctx := context.Background()

	conn, err := e.Connect(ctx)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()

	root, err := conn.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	insertUser(t, conn, 1, "ada")

	nested, err := root.Begin(ctx)
	if err != nil {
		t.Fatalf("nested Begin failed: %v", err)
	}
	insertUser(t, conn, 2, "brian")
	if err := nested.Commit(ctx); err != nil {
		t.Fatalf("nested Commit failed: %v", err)
	}

	// Rolling the root back discards both scopes, nested commit included
	if err := root.Rollback(ctx); err != nil {
		t.Fatalf("root Rollback failed: %v", err)
	}

	if n := countUsers(t, e); n != 0 {
		t.Errorf("expected no rows after root rollback, got %d", n)
	}
}

func TestSQLiteSavepointIsolation(t *testing.T) {
	e := sqliteEngine(t)
	ctx := context.Background()

	conn, err := e.Connect(ctx)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()

	root, err := conn.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	insertUser(t, conn, 1, "before")

	nested, err := root.Begin(ctx)
	if err != nil {
		t.Fatalf("nested Begin failed: %v", err)
	}
	insertUser(t, conn, 2, "inside")
	if err := nested.Rollback(ctx); err != nil {
		t.Fatalf("nested Rollback failed: %v", err)
	}

	// Work before the savepoint survives and commits with the root
	if err := root.Commit(ctx); err != nil {
		t.Fatalf("root Commit failed: %v", err)
	}

	tree := stmt.From(stmt.TableName("users")).Select(users.Name).Build()
	rows, err := e.Execute(ctx, tree, nil)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		names = append(names, rows.Row()[0].(string))
	}
	if len(names) != 1 || names[0] != "before" {
		t.Errorf("expected only the pre-savepoint row, got %v", names)
	}
}

func TestSQLiteCheckinReset(t *testing.T) {
	e := sqliteEngine(t)
	ctx := context.Background()

	conn, err := e.Connect(ctx)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	// Abandon the connection with its autobegun transaction open;
	// Close rolls it back before the record returns to the pool
	insertUser(t, conn, 1, "abandoned")
	conn.Close()

	if n := countUsers(t, e); n != 0 {
		t.Errorf("expected checkin reset to roll back, got %d rows", n)
	}
}

func TestSQLiteReturning(t *testing.T) {
	e := sqliteEngine(t)
	ctx := context.Background()

	tree := stmt.InsertInto(stmt.TableName("users")).
		Set(users.ID, stmt.Param[int64]("id")).
		Set(users.Name, stmt.Param[string]("name")).
		Returning(users.ID).
		Build()

	rows, err := e.Execute(ctx, tree, map[string]any{"id": int64(9), "name": "zed"})
	if err != nil {
		t.Fatalf("insert returning failed: %v", err)
	}
	defer rows.Close()
	if !rows.Next() {
		t.Fatalf("expected a returned row: %v", rows.Err())
	}
	if id := rows.Row()[0].(int64); id != 9 {
		t.Errorf("returned id = %d, want 9", id)
	}
}

func TestSQLiteConditionalJoinRollbackDiscards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "join.db")
	e, err := New("sqlite://"+path, Config{PoolSize: 2, JoinMode: JoinConditional})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(e.Dispose)
	ctx := context.Background()

	conn, err := e.Connect(ctx)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()
	if _, err := conn.handle.ExecContext(ctx,
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL)", nil); err != nil {
		t.Fatalf("create table failed: %v", err)
	}

	// Externally managed transaction on the raw handle.
	if _, err := conn.handle.ExecContext(ctx, "BEGIN", nil); err != nil {
		t.Fatalf("external begin failed: %v", err)
	}

	wrapped := e.Wrap(conn.handle, 0)
	tx, err := wrapped.Begin(ctx)
	if err != nil {
		t.Fatalf("joined begin failed: %v", err)
	}
	insertUser(t, wrapped, 1, "ada")
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("joined rollback failed: %v", err)
	}

	// The joined rollback already ended the external transaction, so
	// the owner's commit has nothing left to persist.
	conn.handle.ExecContext(ctx, "COMMIT", nil)

	if n := countUsers(t, e); n != 0 {
		t.Errorf("%d rows survived the joined rollback, want 0", n)
	}
}
