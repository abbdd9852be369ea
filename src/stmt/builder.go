package stmt

// Table is implemented by table descriptor structs.
type Table interface {
	TableName() string
}

// From starts building a SELECT statement from the given table.
func From(table Table) SelectBuilder {
	return SelectBuilder{
		ast: &AST{
			Kind: SelectStatement,
			FromTable: TableRef{
				Name: table.TableName(),
			},
		},
	}
}

// SelectBuilder builds SELECT statements. Builders are generative: each
// method returns a new builder over a copied root, leaving the previous
// tree intact, so a partially built statement can be shared and extended
// in several directions safely.
type SelectBuilder struct {
	ast *AST
}

// fork copies the root so the method chain never mutates a tree that an
// earlier Build call may have handed out.
func (b SelectBuilder) fork() *AST {
	if b.ast == nil {
		return &AST{Kind: SelectStatement}
	}
	return b.ast.clone()
}

// Distinct sets the DISTINCT flag for the SELECT.
func (b SelectBuilder) Distinct() SelectBuilder {
	a := b.fork()
	a.Distinct = true
	return SelectBuilder{a}
}

// Select adds columns to the SELECT clause.
func (b SelectBuilder) Select(cols ...Column) SelectBuilder {
	a := b.fork()
	for _, col := range cols {
		a.Columns = append(a.Columns, SelectExpr{
			Expr: ColumnExpr{Column: col},
		})
	}
	return SelectBuilder{a}
}

// SelectExpr adds an expression to the SELECT clause.
func (b SelectBuilder) SelectExpr(expr Expr) SelectBuilder {
	a := b.fork()
	a.Columns = append(a.Columns, SelectExpr{Expr: expr})
	return SelectBuilder{a}
}

// SelectAs adds a column with an alias to the SELECT clause.
func (b SelectBuilder) SelectAs(col Column, alias string) SelectBuilder {
	a := b.fork()
	a.Columns = append(a.Columns, SelectExpr{
		Expr:  ColumnExpr{Column: col},
		Alias: alias,
	})
	return SelectBuilder{a}
}

// SelectExprAs adds an expression with an alias to the SELECT clause.
func (b SelectBuilder) SelectExprAs(expr Expr, alias string) SelectBuilder {
	a := b.fork()
	a.Columns = append(a.Columns, SelectExpr{Expr: expr, Alias: alias})
	return SelectBuilder{a}
}

// Join adds an INNER JOIN to the statement.
func (b SelectBuilder) Join(table Table, on Expr) SelectBuilder {
	return b.join(InnerJoin, table, on)
}

// LeftJoin adds a LEFT JOIN to the statement.
func (b SelectBuilder) LeftJoin(table Table, on Expr) SelectBuilder {
	return b.join(LeftJoin, table, on)
}

// RightJoin adds a RIGHT JOIN to the statement.
func (b SelectBuilder) RightJoin(table Table, on Expr) SelectBuilder {
	return b.join(RightJoin, table, on)
}

// FullJoin adds a FULL OUTER JOIN to the statement.
func (b SelectBuilder) FullJoin(table Table, on Expr) SelectBuilder {
	return b.join(FullJoin, table, on)
}

func (b SelectBuilder) join(kind JoinType, table Table, on Expr) SelectBuilder {
	a := b.fork()
	a.Joins = append(a.Joins, JoinClause{
		Type:      kind,
		Table:     TableRef{Name: table.TableName()},
		Condition: on,
	})
	return SelectBuilder{a}
}

// Where sets the WHERE clause.
func (b SelectBuilder) Where(expr Expr) SelectBuilder {
	a := b.fork()
	a.Where = expr
	return SelectBuilder{a}
}

// GroupBy sets the GROUP BY clause.
func (b SelectBuilder) GroupBy(cols ...Column) SelectBuilder {
	a := b.fork()
	a.GroupBy = cols
	return SelectBuilder{a}
}

// Having sets the HAVING clause.
func (b SelectBuilder) Having(expr Expr) SelectBuilder {
	a := b.fork()
	a.Having = expr
	return SelectBuilder{a}
}

// OrderBy sets the ORDER BY clause.
func (b SelectBuilder) OrderBy(exprs ...OrderByExpr) SelectBuilder {
	a := b.fork()
	a.OrderBy = exprs
	return SelectBuilder{a}
}

// Limit sets the LIMIT clause. The value may be an int, a ParamExpr, or
// any other expression.
func (b SelectBuilder) Limit(v any) SelectBuilder {
	a := b.fork()
	a.Limit = toExpr(v)
	return SelectBuilder{a}
}

// Offset sets the OFFSET clause.
func (b SelectBuilder) Offset(v any) SelectBuilder {
	a := b.fork()
	a.Offset = toExpr(v)
	return SelectBuilder{a}
}

// Union combines this statement with another via UNION.
func (b SelectBuilder) Union(other *AST) SelectBuilder {
	return b.setOp(SetOpUnion, other)
}

// UnionAll combines this statement with another via UNION ALL.
func (b SelectBuilder) UnionAll(other *AST) SelectBuilder {
	return b.setOp(SetOpUnionAll, other)
}

// Intersect combines this statement with another via INTERSECT.
func (b SelectBuilder) Intersect(other *AST) SelectBuilder {
	return b.setOp(SetOpIntersect, other)
}

// Except combines this statement with another via EXCEPT.
func (b SelectBuilder) Except(other *AST) SelectBuilder {
	return b.setOp(SetOpExcept, other)
}

func (b SelectBuilder) setOp(op SetOpKind, other *AST) SelectBuilder {
	left := b.fork()
	wrapper := &AST{
		Kind: SelectStatement,
		SetOp: &SetOperation{
			Left:  left,
			Op:    op,
			Right: other,
		},
	}
	return SelectBuilder{wrapper}
}

// With prepends a CTE to the statement.
func (b SelectBuilder) With(name string, query *AST, columns ...string) SelectBuilder {
	a := b.fork()
	a.CTEs = append(a.CTEs, CTE{Name: name, Columns: columns, Query: query})
	return SelectBuilder{a}
}

// Build finalizes the tree. The returned tree is immutable; further
// builder calls on b fork a fresh copy and do not affect it.
func (b SelectBuilder) Build() *AST {
	a := b.fork()
	a.Uncacheable = containsRaw(a)
	return a
}

// Subquery wraps the built statement as an expression.
func (b SelectBuilder) Subquery() SubqueryExpr {
	return SubqueryExpr{Query: b.Build()}
}

// Exists wraps the built statement in EXISTS.
func (b SelectBuilder) Exists() ExistsExpr {
	return ExistsExpr{Subquery: b.Build()}
}

// NotExists wraps the built statement in NOT EXISTS.
func (b SelectBuilder) NotExists() ExistsExpr {
	return ExistsExpr{Subquery: b.Build(), Negated: true}
}
