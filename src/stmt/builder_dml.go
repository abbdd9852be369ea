package stmt

// InsertInto starts building an INSERT statement.
func InsertInto(table Table) InsertBuilder {
	return InsertBuilder{
		ast: &AST{
			Kind:      InsertStatement,
			FromTable: TableRef{Name: table.TableName()},
		},
	}
}

// InsertBuilder builds INSERT statements.
type InsertBuilder struct {
	ast *AST
}

func (b InsertBuilder) fork() *AST {
	if b.ast == nil {
		return &AST{Kind: InsertStatement}
	}
	return b.ast.clone()
}

// Set adds a column/value pair to the INSERT.
func (b InsertBuilder) Set(col Column, value any) InsertBuilder {
	a := b.fork()
	a.InsertCols = append(a.InsertCols, col)
	a.InsertVals = append(a.InsertVals, toExpr(value))
	return InsertBuilder{a}
}

// Returning adds a RETURNING clause. On dialects without RETURNING
// support the compiler rejects the statement.
func (b InsertBuilder) Returning(cols ...Column) InsertBuilder {
	a := b.fork()
	a.Returning = append(a.Returning, cols...)
	return InsertBuilder{a}
}

// Build finalizes the tree.
func (b InsertBuilder) Build() *AST {
	a := b.fork()
	a.Uncacheable = containsRaw(a)
	return a
}

// Update starts building an UPDATE statement.
func Update(table Table) UpdateBuilder {
	return UpdateBuilder{
		ast: &AST{
			Kind:      UpdateStatement,
			FromTable: TableRef{Name: table.TableName()},
		},
	}
}

// UpdateBuilder builds UPDATE statements.
type UpdateBuilder struct {
	ast *AST
}

func (b UpdateBuilder) fork() *AST {
	if b.ast == nil {
		return &AST{Kind: UpdateStatement}
	}
	return b.ast.clone()
}

// Set adds a SET clause.
func (b UpdateBuilder) Set(col Column, value any) UpdateBuilder {
	a := b.fork()
	a.SetClauses = append(a.SetClauses, SetClause{Column: col, Value: toExpr(value)})
	return UpdateBuilder{a}
}

// Where sets the WHERE clause.
func (b UpdateBuilder) Where(expr Expr) UpdateBuilder {
	a := b.fork()
	a.Where = expr
	return UpdateBuilder{a}
}

// Build finalizes the tree.
func (b UpdateBuilder) Build() *AST {
	a := b.fork()
	a.Uncacheable = containsRaw(a)
	return a
}

// DeleteFrom starts building a DELETE statement.
func DeleteFrom(table Table) DeleteBuilder {
	return DeleteBuilder{
		ast: &AST{
			Kind:      DeleteStatement,
			FromTable: TableRef{Name: table.TableName()},
		},
	}
}

// DeleteBuilder builds DELETE statements.
type DeleteBuilder struct {
	ast *AST
}

func (b DeleteBuilder) fork() *AST {
	if b.ast == nil {
		return &AST{Kind: DeleteStatement}
	}
	return b.ast.clone()
}

// Where sets the WHERE clause.
func (b DeleteBuilder) Where(expr Expr) DeleteBuilder {
	a := b.fork()
	a.Where = expr
	return DeleteBuilder{a}
}

// Build finalizes the tree.
func (b DeleteBuilder) Build() *AST {
	a := b.fork()
	a.Uncacheable = containsRaw(a)
	return a
}

// TableName is a convenience Table implementation for ad-hoc table refs.
type TableName string

func (t TableName) TableName() string { return string(t) }
