package compile

import (
	"fmt"
	"time"

	"github.com/tidesql/tidesql/src/stmt"
)

// Options control compilation. The option fingerprint participates in
// the statement cache key, so two compilations with different options
// never share a cached form.
type Options struct {
	// LiteralBinds renders literal values as inline SQL text instead of
	// placeholders. Useful for logging and debugging; statements
	// compiled this way bypass the statement cache because the rendered
	// text embeds the values.
	LiteralBinds bool
}

// Fingerprint packs the options into the cache key.
func (o Options) Fingerprint() uint64 {
	var fp uint64
	if o.LiteralBinds {
		fp |= 1
	}
	return fp
}

// Compiler compiles statement trees to SQL for a specific dialect.
// A Compiler is single-use per Compile call internally but the type is
// cheap; callers normally go through the statement cache instead.
type Compiler struct {
	dialect Dialect
	opts    Options

	w        *sqlWriter
	slots    []ParamSlot
	litCount int
}

// NewCompiler creates a new compiler for the given dialect.
func NewCompiler(dialect Dialect, opts Options) *Compiler {
	return &Compiler{dialect: dialect, opts: opts}
}

// Compile compiles a statement tree. The resulting CompiledStatement is
// immutable and safe to share; compiling the same tree shape twice
// produces byte-identical SQL.
func (c *Compiler) Compile(ast *stmt.AST) (*CompiledStatement, error) {
	if err := validateAST(ast); err != nil {
		return nil, err
	}

	// Reset state once at the top level
	c.w = &sqlWriter{}
	c.slots = nil
	c.litCount = 0

	if err := c.compileInto(ast); err != nil {
		return nil, err
	}

	cs := &CompiledStatement{
		Slots:       c.slots,
		Dialect:     c.dialect.Name(),
		segments:    c.w.finish(),
		returnsRows: ast.Kind == stmt.SelectStatement || len(ast.Returning) > 0,
	}
	for _, s := range cs.Slots {
		if s.Kind == ParamExpanding || s.Kind == ParamPostCompile {
			cs.dynamic = true
			break
		}
	}
	cs.SQL = renderTemplate(cs, c.dialect)
	return cs, nil
}

// compileInto is the internal compilation method that does NOT reset
// state. Nested compilation (subqueries, CTEs, set operations) shares
// state with the parent so parameter ordering stays correct.
func (c *Compiler) compileInto(ast *stmt.AST) error {
	// Handle CTEs (WITH clause) first
	if len(ast.CTEs) > 0 {
		if err := c.writeCTEs(ast.CTEs); err != nil {
			return err
		}
	}

	// Handle set operations
	if ast.SetOp != nil {
		return c.compileSetOpInto(ast)
	}

	switch ast.Kind {
	case stmt.SelectStatement:
		return c.compileSelect(ast)
	case stmt.InsertStatement:
		return c.compileInsert(ast)
	case stmt.UpdateStatement:
		return c.compileUpdate(ast)
	case stmt.DeleteStatement:
		return c.compileDelete(ast)
	default:
		return compileErrf("statement", "unknown kind: %s", ast.Kind)
	}
}

// =============================================================================
// SELECT Compilation
// =============================================================================

func (c *Compiler) compileSelect(ast *stmt.AST) error {
	b := c.w

	// SELECT clause
	b.WriteString("SELECT ")
	if ast.Distinct {
		b.WriteString("DISTINCT ")
	}
	if len(ast.Columns) == 0 {
		b.WriteString("*")
	} else {
		for i, col := range ast.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := c.writeExpr(col.Expr); err != nil {
				return err
			}
			if col.Alias != "" {
				if err := ValidateIdentifier(col.Alias); err != nil {
					return compileErrf("select", "invalid column alias: %v", err)
				}
				b.WriteString(" AS ")
				c.writeIdentifier(col.Alias)
			}
		}
	}

	// FROM clause
	b.WriteString(" FROM ")
	c.writeIdentifier(ast.FromTable.Name)
	if ast.FromTable.Alias != "" {
		if err := ValidateIdentifier(ast.FromTable.Alias); err != nil {
			return compileErrf("from", "invalid table alias: %v", err)
		}
		b.WriteString(" AS ")
		c.writeIdentifier(ast.FromTable.Alias)
	}

	// JOIN clauses
	for _, join := range ast.Joins {
		b.WriteString(" ")
		b.WriteString(string(join.Type))
		b.WriteString(" JOIN ")
		c.writeIdentifier(join.Table.Name)
		if join.Table.Alias != "" {
			if err := ValidateIdentifier(join.Table.Alias); err != nil {
				return compileErrf("join", "invalid table alias: %v", err)
			}
			b.WriteString(" AS ")
			c.writeIdentifier(join.Table.Alias)
		}
		b.WriteString(" ON ")
		if err := c.writeExpr(join.Condition); err != nil {
			return err
		}
	}

	// WHERE clause
	if ast.Where != nil {
		b.WriteString(" WHERE ")
		if err := c.writeExpr(ast.Where); err != nil {
			return err
		}
	}

	// GROUP BY clause
	if len(ast.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		for i, col := range ast.GroupBy {
			if i > 0 {
				b.WriteString(", ")
			}
			c.writeColumn(col)
		}
	}

	// HAVING clause
	if ast.Having != nil {
		b.WriteString(" HAVING ")
		if err := c.writeExpr(ast.Having); err != nil {
			return err
		}
	}

	// ORDER BY clause
	if err := c.writeOrderBy(ast.OrderBy); err != nil {
		return err
	}

	// LIMIT / OFFSET clauses
	return c.writeLimitOffset(ast)
}

func (c *Compiler) writeOrderBy(exprs []stmt.OrderByExpr) error {
	if len(exprs) == 0 {
		return nil
	}
	c.w.WriteString(" ORDER BY ")
	for i, ob := range exprs {
		if i > 0 {
			c.w.WriteString(", ")
		}
		if err := c.writeOrderByExpr(ob.Expr); err != nil {
			return err
		}
		if ob.Desc {
			c.w.WriteString(" DESC")
		}
	}
	return nil
}

func (c *Compiler) writeLimitOffset(ast *stmt.AST) error {
	if ast.Limit != nil {
		c.w.WriteString(" LIMIT ")
		if err := c.writeLimitValue(ast.Limit); err != nil {
			return err
		}
	}
	if ast.Offset != nil {
		c.w.WriteString(" OFFSET ")
		if err := c.writeLimitValue(ast.Offset); err != nil {
			return err
		}
	}
	return nil
}

// writeLimitValue renders a LIMIT/OFFSET operand. On dialects that
// cannot bind these positions the slot becomes post-compile: the cached
// template keeps the slot and the concrete number is rendered as text
// per execution.
func (c *Compiler) writeLimitValue(expr stmt.Expr) error {
	if c.dialect.BindsLimitOffset() {
		return c.writeExpr(expr)
	}
	switch e := expr.(type) {
	case stmt.ParamExpr:
		c.addSlot(ParamSlot{Name: e.Name, Kind: ParamPostCompile, LitIndex: -1})
		return nil
	case stmt.LiteralExpr:
		idx := c.litCount
		c.litCount++
		c.addSlot(ParamSlot{Name: fmt.Sprintf("lit_%d", idx), Kind: ParamPostCompile, LitIndex: idx})
		return nil
	default:
		return c.writeExpr(expr)
	}
}

// =============================================================================
// INSERT Compilation
// =============================================================================

func (c *Compiler) compileInsert(ast *stmt.AST) error {
	b := c.w

	b.WriteString("INSERT INTO ")
	c.writeIdentifier(ast.FromTable.Name)

	// Column list
	b.WriteString(" (")
	for i, col := range ast.InsertCols {
		if i > 0 {
			b.WriteString(", ")
		}
		c.writeIdentifier(col.ColumnName())
	}
	b.WriteString(")")

	// VALUES clause
	b.WriteString(" VALUES (")
	for i, val := range ast.InsertVals {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := c.writeExpr(val); err != nil {
			return err
		}
	}
	b.WriteString(")")

	return c.writeReturning(ast)
}

func (c *Compiler) writeReturning(ast *stmt.AST) error {
	if len(ast.Returning) == 0 {
		return nil
	}
	if !c.dialect.SupportsReturning() {
		return &UnsupportedError{Dialect: c.dialect.Name(), Construct: "RETURNING"}
	}
	c.w.WriteString(" RETURNING ")
	for i, col := range ast.Returning {
		if i > 0 {
			c.w.WriteString(", ")
		}
		c.writeIdentifier(col.ColumnName())
	}
	return nil
}

// =============================================================================
// UPDATE Compilation
// =============================================================================

func (c *Compiler) compileUpdate(ast *stmt.AST) error {
	b := c.w

	b.WriteString("UPDATE ")
	c.writeIdentifier(ast.FromTable.Name)

	// SET clause
	b.WriteString(" SET ")
	for i, set := range ast.SetClauses {
		if i > 0 {
			b.WriteString(", ")
		}
		c.writeIdentifier(set.Column.ColumnName())
		b.WriteString(" = ")
		if err := c.writeExpr(set.Value); err != nil {
			return err
		}
	}

	// WHERE clause
	if ast.Where != nil {
		b.WriteString(" WHERE ")
		if err := c.writeExpr(ast.Where); err != nil {
			return err
		}
	}

	return nil
}

// =============================================================================
// DELETE Compilation
// =============================================================================

func (c *Compiler) compileDelete(ast *stmt.AST) error {
	c.w.WriteString("DELETE FROM ")
	c.writeIdentifier(ast.FromTable.Name)

	if ast.Where != nil {
		c.w.WriteString(" WHERE ")
		if err := c.writeExpr(ast.Where); err != nil {
			return err
		}
	}

	return nil
}

// =============================================================================
// Expression Writing
// =============================================================================

func (c *Compiler) addSlot(s ParamSlot) {
	c.slots = append(c.slots, s)
	c.w.slot(len(c.slots) - 1)
}

func (c *Compiler) writeExpr(expr stmt.Expr) error {
	b := c.w

	switch e := expr.(type) {
	case stmt.ColumnExpr:
		c.writeColumn(e.Column)

	case stmt.ParamExpr:
		c.addSlot(ParamSlot{Name: e.Name, Kind: ParamNamed, LitIndex: -1})

	case stmt.ExpandingExpr:
		// Only meaningful as the right side of IN / NOT IN, which is
		// handled in the BinaryExpr case below.
		return compileErrf("param "+e.Name, "expanding parameter outside IN comparison")

	case stmt.LiteralExpr:
		if c.opts.LiteralBinds {
			return writeLiteralText(b, c.dialect, e.Value)
		}
		idx := c.litCount
		c.litCount++
		c.addSlot(ParamSlot{Name: fmt.Sprintf("lit_%d", idx), Kind: ParamLiteral, LitIndex: idx})

	case stmt.RawExpr:
		b.WriteString(e.SQL)

	case stmt.BinaryExpr:
		if e.Op == stmt.OpIn || e.Op == stmt.OpNotIn {
			return c.writeIn(e)
		}
		b.WriteString("(")
		if err := c.writeExpr(e.Left); err != nil {
			return err
		}
		fmt.Fprintf(b, " %s ", e.Op)
		if err := c.writeExpr(e.Right); err != nil {
			return err
		}
		b.WriteString(")")

	case stmt.UnaryExpr:
		if e.Op == stmt.OpIsNull || e.Op == stmt.OpNotNull {
			if err := c.writeExpr(e.Expr); err != nil {
				return err
			}
			fmt.Fprintf(b, " %s", e.Op)
		} else {
			fmt.Fprintf(b, "%s ", e.Op)
			if err := c.writeExpr(e.Expr); err != nil {
				return err
			}
		}

	case stmt.FuncExpr:
		if err := c.writeFunc(e); err != nil {
			return err
		}

	case stmt.ListExpr:
		// ListExpr on its own (not inside IN)
		b.WriteString("(")
		for i, v := range e.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := c.writeExpr(v); err != nil {
				return err
			}
		}
		b.WriteString(")")

	case stmt.AggregateExpr:
		b.WriteString(string(e.Func))
		b.WriteString("(")
		if e.Distinct {
			b.WriteString("DISTINCT ")
		}
		if e.Arg == nil {
			// COUNT(*)
			b.WriteString("*")
		} else {
			if err := c.writeExpr(e.Arg); err != nil {
				return err
			}
		}
		b.WriteString(")")

	case stmt.SubqueryExpr:
		// Share state with the parent so parameter ordering stays correct
		b.WriteString("(")
		if err := c.compileInto(e.Query); err != nil {
			return err
		}
		b.WriteString(")")

	case stmt.ExistsExpr:
		if e.Negated {
			b.WriteString("NOT ")
		}
		b.WriteString("EXISTS (")
		if err := c.compileInto(e.Subquery); err != nil {
			return err
		}
		b.WriteString(")")

	default:
		return compileErrf("expression", "unknown type: %T", expr)
	}

	return nil
}

// writeIn renders IN / NOT IN comparisons. A fixed list or subquery
// renders inline; an expanding parameter becomes a single slot carrying
// the pre-rendered left side so the whole predicate can be rebuilt per
// execution (N placeholders, or a constant for the empty list).
func (c *Compiler) writeIn(e stmt.BinaryExpr) error {
	b := c.w
	negated := e.Op == stmt.OpNotIn

	if exp, ok := e.Right.(stmt.ExpandingExpr); ok {
		left, err := c.renderStatic(e.Left)
		if err != nil {
			return err
		}
		b.WriteString("(")
		c.addSlot(ParamSlot{
			Name:     exp.Name,
			Kind:     ParamExpanding,
			LitIndex: -1,
			LeftSQL:  left,
			Negated:  negated,
		})
		b.WriteString(")")
		return nil
	}

	b.WriteString("(")
	if err := c.writeExpr(e.Left); err != nil {
		return err
	}
	if negated {
		b.WriteString(" NOT IN ")
	} else {
		b.WriteString(" IN ")
	}
	switch right := e.Right.(type) {
	case stmt.ListExpr:
		// IN () is invalid SQL; a fixed list must be non-empty. Use an
		// expanding parameter for lists that may be empty at runtime.
		if len(right.Values) == 0 {
			return compileErrf("in", "fixed IN list requires at least one value")
		}
		b.WriteString("(")
		for i, v := range right.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := c.writeExpr(v); err != nil {
				return err
			}
		}
		b.WriteString(")")
	case stmt.SubqueryExpr:
		if err := c.writeExpr(right); err != nil {
			return err
		}
	default:
		return compileErrf("in", "IN requires a list, subquery, or expanding parameter, got %T", e.Right)
	}
	b.WriteString(")")
	return nil
}

// renderStatic renders an expression that must not introduce any
// parameter slots (the left side of an expanding IN).
func (c *Compiler) renderStatic(expr stmt.Expr) (string, error) {
	saved := c.w
	before := len(c.slots)
	c.w = &sqlWriter{}
	err := c.writeExpr(expr)
	sub := c.w
	c.w = saved
	if err != nil {
		return "", err
	}
	if len(c.slots) != before {
		return "", compileErrf("in", "left side of expanding IN cannot contain parameters")
	}
	sub.flush()
	var out string
	for _, seg := range sub.segs {
		out += seg.text
	}
	return out, nil
}

func (c *Compiler) writeIdentifier(name string) {
	c.w.WriteString(c.dialect.QuoteIdentifier(name))
}

func (c *Compiler) writeColumn(col stmt.Column) {
	c.writeIdentifier(col.TableName())
	c.w.WriteString(".")
	c.writeIdentifier(col.ColumnName())
}

func (c *Compiler) writeFunc(f stmt.FuncExpr) error {
	switch f.Name {
	case "NOW":
		c.w.WriteString(c.dialect.NowFunc())
	case "ILIKE":
		return c.dialect.WriteILIKE(c.w, f.Args, func(e stmt.Expr) error {
			return c.writeExpr(e)
		})
	default:
		c.w.WriteString(f.Name)
		c.w.WriteString("(")
		for i, arg := range f.Args {
			if i > 0 {
				c.w.WriteString(", ")
			}
			if err := c.writeExpr(arg); err != nil {
				return err
			}
		}
		c.w.WriteString(")")
	}
	return nil
}

func (c *Compiler) writeOrderByExpr(expr stmt.Expr) error {
	return c.dialect.WriteOrderByExpr(c.w, expr, func(e stmt.Expr) error {
		return c.writeExpr(e)
	}, func(col stmt.Column) {
		c.writeColumn(col)
	})
}

// =============================================================================
// CTE Compilation
// =============================================================================

func (c *Compiler) writeCTEs(ctes []stmt.CTE) error {
	b := c.w
	b.WriteString("WITH ")
	for i, cte := range ctes {
		if i > 0 {
			b.WriteString(", ")
		}
		c.writeIdentifier(cte.Name)
		if len(cte.Columns) > 0 {
			b.WriteString(" (")
			for j, col := range cte.Columns {
				if j > 0 {
					b.WriteString(", ")
				}
				c.writeIdentifier(col)
			}
			b.WriteString(")")
		}
		b.WriteString(" AS (")
		if err := c.compileInto(cte.Query); err != nil {
			return err
		}
		b.WriteString(")")
	}
	b.WriteString(" ")
	return nil
}

// =============================================================================
// Set Operation Compilation (UNION, INTERSECT, EXCEPT)
// =============================================================================

func (c *Compiler) compileSetOpInto(ast *stmt.AST) error {
	b := c.w

	if c.dialect.WrapSetOpQueries() {
		b.WriteString("(")
	}
	if err := c.compileInto(ast.SetOp.Left); err != nil {
		return err
	}
	if c.dialect.WrapSetOpQueries() {
		b.WriteString(")")
	}

	b.WriteString(" ")
	b.WriteString(string(ast.SetOp.Op))
	b.WriteString(" ")

	if c.dialect.WrapSetOpQueries() {
		b.WriteString("(")
	}
	if err := c.compileInto(ast.SetOp.Right); err != nil {
		return err
	}
	if c.dialect.WrapSetOpQueries() {
		b.WriteString(")")
	}

	// ORDER BY / LIMIT / OFFSET on the combined result
	if err := c.writeOrderBy(ast.OrderBy); err != nil {
		return err
	}
	return c.writeLimitOffset(ast)
}

// =============================================================================
// Literal text rendering
// =============================================================================

// writeLiteralText renders a value as SQL literal text. Used for
// post-compile slots and for LiteralBinds compilation.
func writeLiteralText(w Writer, d Dialect, val any) error {
	switch v := val.(type) {
	case string:
		// Escape single quotes by doubling them
		fmt.Fprintf(w, "'%s'", escapeString(v))
	case bool:
		w.WriteString(d.BoolLiteral(v))
	case nil:
		w.WriteString("NULL")
	case int:
		fmt.Fprintf(w, "%d", v)
	case int8:
		fmt.Fprintf(w, "%d", v)
	case int16:
		fmt.Fprintf(w, "%d", v)
	case int32:
		fmt.Fprintf(w, "%d", v)
	case int64:
		fmt.Fprintf(w, "%d", v)
	case uint:
		fmt.Fprintf(w, "%d", v)
	case uint8:
		fmt.Fprintf(w, "%d", v)
	case uint16:
		fmt.Fprintf(w, "%d", v)
	case uint32:
		fmt.Fprintf(w, "%d", v)
	case uint64:
		fmt.Fprintf(w, "%d", v)
	case float32:
		fmt.Fprintf(w, "%g", v)
	case float64:
		fmt.Fprintf(w, "%g", v)
	case time.Time:
		fmt.Fprintf(w, "'%s'", v.UTC().Format("2006-01-02 15:04:05"))
	default:
		return compileErrf("literal", "unsupported literal type %T", val)
	}
	return nil
}

func escapeString(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'', '\'')
		} else {
			out = append(out, s[i])
		}
	}
	return string(out)
}
