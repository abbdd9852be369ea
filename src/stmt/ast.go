package stmt

// Kind identifies the type of statement.
type Kind string

const (
	SelectStatement Kind = "select"
	InsertStatement Kind = "insert"
	UpdateStatement Kind = "update"
	DeleteStatement Kind = "delete"
)

// AST is the root of a statement tree. Trees are immutable after
// construction: builder operations copy the root and any slice they touch
// and share all other subtrees, so a finished tree is safe to hold
// concurrently and to use as a cache key source.
type AST struct {
	Kind      Kind
	Distinct  bool // SELECT DISTINCT
	FromTable TableRef
	Joins     []JoinClause
	Columns   []SelectExpr
	Where     Expr
	GroupBy   []Column
	Having    Expr
	OrderBy   []OrderByExpr
	Limit     Expr
	Offset    Expr

	// For INSERT
	InsertCols []Column
	InsertVals []Expr
	Returning  []Column

	// For UPDATE
	SetClauses []SetClause

	// For set operations (UNION, INTERSECT, EXCEPT)
	SetOp *SetOperation

	// For CTEs (WITH clause)
	CTEs []CTE

	// Uncacheable is set when the tree contains a RawExpr fragment.
	// Such trees bypass the statement cache and compile fresh every time.
	Uncacheable bool
}

// clone returns a shallow copy of the tree with its slices copied.
// Expression subtrees are shared with the original.
func (a *AST) clone() *AST {
	c := *a
	c.Joins = cloneSlice(a.Joins)
	c.Columns = cloneSlice(a.Columns)
	c.GroupBy = cloneSlice(a.GroupBy)
	c.OrderBy = cloneSlice(a.OrderBy)
	c.InsertCols = cloneSlice(a.InsertCols)
	c.InsertVals = cloneSlice(a.InsertVals)
	c.Returning = cloneSlice(a.Returning)
	c.SetClauses = cloneSlice(a.SetClauses)
	c.CTEs = cloneSlice(a.CTEs)
	return &c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// =============================================================================
// Set Operations (UNION, INTERSECT, EXCEPT)
// =============================================================================

// SetOpKind represents set operation types.
type SetOpKind string

const (
	SetOpUnion     SetOpKind = "UNION"
	SetOpUnionAll  SetOpKind = "UNION ALL"
	SetOpIntersect SetOpKind = "INTERSECT"
	SetOpExcept    SetOpKind = "EXCEPT"
)

// SetOperation represents a set operation between two queries.
type SetOperation struct {
	Left  *AST
	Op    SetOpKind
	Right *AST
}

// =============================================================================
// Common Table Expressions (CTEs)
// =============================================================================

// CTE represents a Common Table Expression (WITH clause).
type CTE struct {
	Name    string   // The CTE alias
	Columns []string // Optional column list
	Query   *AST     // The CTE query
}

// TableRef references a table, optionally with an alias.
type TableRef struct {
	Name  string
	Alias string
}

// JoinClause represents a JOIN.
type JoinClause struct {
	Type      JoinType
	Table     TableRef
	Condition Expr
}

// JoinType represents the type of join.
type JoinType string

const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
	FullJoin  JoinType = "FULL"
)

// SelectExpr is a column or expression in a SELECT clause.
type SelectExpr struct {
	Expr  Expr
	Alias string
}

// OrderByExpr represents ORDER BY column [ASC|DESC].
type OrderByExpr struct {
	Expr Expr
	Desc bool
}

// SetClause represents column = value in UPDATE.
type SetClause struct {
	Column Column
	Value  Expr
}
