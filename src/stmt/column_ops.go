package stmt

// This file contains comparison and ordering methods for all column types.
// Each column type supports: Eq, Ne, Lt, Le, Gt, Ge, In, InParam, IsNull,
// IsNotNull, Asc, Desc. String columns additionally support Like and ILike.
//
// In takes a fixed list of values known at build time. InParam binds the
// list to an expanding parameter supplied at execution time, which keeps
// the compiled statement cacheable across list lengths.

// --- Int64Column operations ---

func (c Int64Column) Eq(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpEq, Right: toExpr(other)}
}

func (c Int64Column) Ne(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpNe, Right: toExpr(other)}
}

func (c Int64Column) Lt(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpLt, Right: toExpr(other)}
}

func (c Int64Column) Le(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpLe, Right: toExpr(other)}
}

func (c Int64Column) Gt(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpGt, Right: toExpr(other)}
}

func (c Int64Column) Ge(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpGe, Right: toExpr(other)}
}

func (c Int64Column) In(values ...any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpIn, Right: toList(values)}
}

func (c Int64Column) InParam(name string) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpIn, Right: ExpandingExpr{Name: name}}
}

func (c Int64Column) NotInParam(name string) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpNotIn, Right: ExpandingExpr{Name: name}}
}

func (c Int64Column) IsNull() Expr {
	return UnaryExpr{Op: OpIsNull, Expr: ColumnExpr{c}}
}

func (c Int64Column) IsNotNull() Expr {
	return UnaryExpr{Op: OpNotNull, Expr: ColumnExpr{c}}
}

func (c Int64Column) Asc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: false}
}

func (c Int64Column) Desc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: true}
}

// --- NullInt64Column operations ---

func (c NullInt64Column) Eq(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpEq, Right: toExpr(other)}
}

func (c NullInt64Column) Ne(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpNe, Right: toExpr(other)}
}

func (c NullInt64Column) Lt(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpLt, Right: toExpr(other)}
}

func (c NullInt64Column) Le(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpLe, Right: toExpr(other)}
}

func (c NullInt64Column) Gt(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpGt, Right: toExpr(other)}
}

func (c NullInt64Column) Ge(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpGe, Right: toExpr(other)}
}

func (c NullInt64Column) In(values ...any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpIn, Right: toList(values)}
}

func (c NullInt64Column) InParam(name string) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpIn, Right: ExpandingExpr{Name: name}}
}

func (c NullInt64Column) IsNull() Expr {
	return UnaryExpr{Op: OpIsNull, Expr: ColumnExpr{c}}
}

func (c NullInt64Column) IsNotNull() Expr {
	return UnaryExpr{Op: OpNotNull, Expr: ColumnExpr{c}}
}

func (c NullInt64Column) Asc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: false}
}

func (c NullInt64Column) Desc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: true}
}

// --- Float64Column operations ---

func (c Float64Column) Eq(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpEq, Right: toExpr(other)}
}

func (c Float64Column) Ne(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpNe, Right: toExpr(other)}
}

func (c Float64Column) Lt(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpLt, Right: toExpr(other)}
}

func (c Float64Column) Le(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpLe, Right: toExpr(other)}
}

func (c Float64Column) Gt(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpGt, Right: toExpr(other)}
}

func (c Float64Column) Ge(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpGe, Right: toExpr(other)}
}

func (c Float64Column) Asc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: false}
}

func (c Float64Column) Desc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: true}
}

// --- BoolColumn operations ---

func (c BoolColumn) Eq(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpEq, Right: toExpr(other)}
}

func (c BoolColumn) Ne(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpNe, Right: toExpr(other)}
}

func (c BoolColumn) IsNull() Expr {
	return UnaryExpr{Op: OpIsNull, Expr: ColumnExpr{c}}
}

func (c BoolColumn) IsNotNull() Expr {
	return UnaryExpr{Op: OpNotNull, Expr: ColumnExpr{c}}
}

func (c BoolColumn) Asc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: false}
}

func (c BoolColumn) Desc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: true}
}

// --- StringColumn operations ---

func (c StringColumn) Eq(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpEq, Right: toExpr(other)}
}

func (c StringColumn) Ne(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpNe, Right: toExpr(other)}
}

func (c StringColumn) Lt(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpLt, Right: toExpr(other)}
}

func (c StringColumn) Le(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpLe, Right: toExpr(other)}
}

func (c StringColumn) Gt(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpGt, Right: toExpr(other)}
}

func (c StringColumn) Ge(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpGe, Right: toExpr(other)}
}

func (c StringColumn) Like(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpLike, Right: toExpr(other)}
}

func (c StringColumn) ILike(other any) Expr {
	return FuncExpr{Name: "ILIKE", Args: []Expr{ColumnExpr{c}, toExpr(other)}}
}

func (c StringColumn) In(values ...any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpIn, Right: toList(values)}
}

func (c StringColumn) InParam(name string) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpIn, Right: ExpandingExpr{Name: name}}
}

func (c StringColumn) IsNull() Expr {
	return UnaryExpr{Op: OpIsNull, Expr: ColumnExpr{c}}
}

func (c StringColumn) IsNotNull() Expr {
	return UnaryExpr{Op: OpNotNull, Expr: ColumnExpr{c}}
}

func (c StringColumn) Asc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: false}
}

func (c StringColumn) Desc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: true}
}

// --- NullStringColumn operations ---

func (c NullStringColumn) Eq(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpEq, Right: toExpr(other)}
}

func (c NullStringColumn) Ne(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpNe, Right: toExpr(other)}
}

func (c NullStringColumn) Like(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpLike, Right: toExpr(other)}
}

func (c NullStringColumn) ILike(other any) Expr {
	return FuncExpr{Name: "ILIKE", Args: []Expr{ColumnExpr{c}, toExpr(other)}}
}

func (c NullStringColumn) In(values ...any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpIn, Right: toList(values)}
}

func (c NullStringColumn) InParam(name string) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpIn, Right: ExpandingExpr{Name: name}}
}

func (c NullStringColumn) IsNull() Expr {
	return UnaryExpr{Op: OpIsNull, Expr: ColumnExpr{c}}
}

func (c NullStringColumn) IsNotNull() Expr {
	return UnaryExpr{Op: OpNotNull, Expr: ColumnExpr{c}}
}

func (c NullStringColumn) Asc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: false}
}

func (c NullStringColumn) Desc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: true}
}

// --- TimeColumn operations ---

func (c TimeColumn) Eq(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpEq, Right: toExpr(other)}
}

func (c TimeColumn) Ne(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpNe, Right: toExpr(other)}
}

func (c TimeColumn) Lt(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpLt, Right: toExpr(other)}
}

func (c TimeColumn) Le(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpLe, Right: toExpr(other)}
}

func (c TimeColumn) Gt(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpGt, Right: toExpr(other)}
}

func (c TimeColumn) Ge(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpGe, Right: toExpr(other)}
}

func (c TimeColumn) IsNull() Expr {
	return UnaryExpr{Op: OpIsNull, Expr: ColumnExpr{c}}
}

func (c TimeColumn) IsNotNull() Expr {
	return UnaryExpr{Op: OpNotNull, Expr: ColumnExpr{c}}
}

func (c TimeColumn) Asc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: false}
}

func (c TimeColumn) Desc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: true}
}

// --- NullTimeColumn operations ---

func (c NullTimeColumn) Eq(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpEq, Right: toExpr(other)}
}

func (c NullTimeColumn) Lt(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpLt, Right: toExpr(other)}
}

func (c NullTimeColumn) Gt(other any) Expr {
	return BinaryExpr{Left: ColumnExpr{c}, Op: OpGt, Right: toExpr(other)}
}

func (c NullTimeColumn) IsNull() Expr {
	return UnaryExpr{Op: OpIsNull, Expr: ColumnExpr{c}}
}

func (c NullTimeColumn) IsNotNull() Expr {
	return UnaryExpr{Op: OpNotNull, Expr: ColumnExpr{c}}
}

func (c NullTimeColumn) Asc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: false}
}

func (c NullTimeColumn) Desc() OrderByExpr {
	return OrderByExpr{Expr: ColumnExpr{c}, Desc: true}
}
