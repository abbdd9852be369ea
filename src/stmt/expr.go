package stmt

// Expr is the interface for all expressions in a statement tree.
type Expr interface {
	exprNode() // marker method to identify expression types
}

// ColumnExpr wraps a Column as an expression.
type ColumnExpr struct {
	Column Column
}

func (ColumnExpr) exprNode() {}

// ParamExpr represents a named parameter whose value is supplied at
// execution time.
type ParamExpr struct {
	Name   string
	GoType string
}

func (ParamExpr) exprNode() {}

// ExpandingExpr represents a named parameter bound to a variable-length
// list. It compiles to a single slot; the slot is expanded to N
// placeholders when the statement is bound for execution.
type ExpandingExpr struct {
	Name string
}

func (ExpandingExpr) exprNode() {}

// LiteralExpr represents a literal value. Literals do not render as SQL
// text: the compiler emits a placeholder for each one and the value is
// collected from the tree at bind time, so trees differing only in
// literal values share one compiled form.
type LiteralExpr struct {
	Value any
}

func (LiteralExpr) exprNode() {}

// RawExpr is a user-supplied SQL fragment spliced into the statement
// verbatim. A tree containing one is uncacheable: the fragment's literal
// structure is opaque, so no structural key can stand for it.
type RawExpr struct {
	SQL string
}

func (RawExpr) exprNode() {}

// BinaryExpr represents a binary operation (left op right).
type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (BinaryExpr) exprNode() {}

// BinaryOp represents binary operators.
type BinaryOp string

const (
	OpEq    BinaryOp = "="
	OpNe    BinaryOp = "<>"
	OpLt    BinaryOp = "<"
	OpLe    BinaryOp = "<="
	OpGt    BinaryOp = ">"
	OpGe    BinaryOp = ">="
	OpAnd   BinaryOp = "AND"
	OpOr    BinaryOp = "OR"
	OpLike  BinaryOp = "LIKE"
	OpIn    BinaryOp = "IN"
	OpNotIn BinaryOp = "NOT IN"
)

// UnaryExpr represents a unary operation (op expr).
type UnaryExpr struct {
	Op   UnaryOp
	Expr Expr
}

func (UnaryExpr) exprNode() {}

// UnaryOp represents unary operators.
type UnaryOp string

const (
	OpNot     UnaryOp = "NOT"
	OpIsNull  UnaryOp = "IS NULL"
	OpNotNull UnaryOp = "IS NOT NULL"
)

// FuncExpr represents a function call.
type FuncExpr struct {
	Name string
	Args []Expr
}

func (FuncExpr) exprNode() {}

// ListExpr represents a fixed list of values (for IN with a known list).
type ListExpr struct {
	Values []Expr
}

func (ListExpr) exprNode() {}

// =============================================================================
// Aggregate Expressions (COUNT, SUM, AVG, MIN, MAX)
// =============================================================================

// AggregateFunc represents an aggregate function type.
type AggregateFunc string

const (
	AggCount AggregateFunc = "COUNT"
	AggSum   AggregateFunc = "SUM"
	AggAvg   AggregateFunc = "AVG"
	AggMin   AggregateFunc = "MIN"
	AggMax   AggregateFunc = "MAX"
)

// AggregateExpr represents an aggregate function call.
// Examples: COUNT(*), SUM(amount), COUNT(DISTINCT email)
type AggregateExpr struct {
	Func     AggregateFunc
	Arg      Expr // nil for COUNT(*)
	Distinct bool
}

func (AggregateExpr) exprNode() {}

// =============================================================================
// Subquery Expressions
// =============================================================================

// SubqueryExpr represents a subquery used as an expression.
// Can be used with IN, comparison operators, or as a scalar.
type SubqueryExpr struct {
	Query *AST
}

func (SubqueryExpr) exprNode() {}

// ExistsExpr represents EXISTS (subquery) or NOT EXISTS (subquery).
type ExistsExpr struct {
	Subquery *AST
	Negated  bool
}

func (ExistsExpr) exprNode() {}

// Compile-time verification that all expression types implement Expr
var (
	_ Expr = ColumnExpr{}
	_ Expr = ParamExpr{}
	_ Expr = ExpandingExpr{}
	_ Expr = LiteralExpr{}
	_ Expr = RawExpr{}
	_ Expr = BinaryExpr{}
	_ Expr = UnaryExpr{}
	_ Expr = FuncExpr{}
	_ Expr = ListExpr{}
	_ Expr = AggregateExpr{}
	_ Expr = SubqueryExpr{}
	_ Expr = ExistsExpr{}
)
