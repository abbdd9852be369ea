package stmt

// Visitor is called for each expression during a walk.
// Return false to stop walking the current branch.
type Visitor func(expr Expr) bool

// WalkExpr traverses an expression tree in depth-first order, calling the
// visitor for each expression. If the visitor returns false, children of
// that expression are not visited.
func WalkExpr(expr Expr, visit Visitor) {
	if expr == nil {
		return
	}

	if !visit(expr) {
		return
	}

	switch e := expr.(type) {
	case BinaryExpr:
		WalkExpr(e.Left, visit)
		WalkExpr(e.Right, visit)

	case UnaryExpr:
		WalkExpr(e.Expr, visit)

	case FuncExpr:
		for _, arg := range e.Args {
			WalkExpr(arg, visit)
		}

	case ListExpr:
		for _, val := range e.Values {
			WalkExpr(val, visit)
		}

	case AggregateExpr:
		WalkExpr(e.Arg, visit)

	case SubqueryExpr:
		Walk(e.Query, visit)

	case ExistsExpr:
		Walk(e.Subquery, visit)

	// These expression types have no child expressions:
	// - ColumnExpr
	// - ParamExpr
	// - ExpandingExpr
	// - LiteralExpr
	// - RawExpr
	}
}

// Walk traverses all expressions in a tree in depth-first order.
//
// The traversal order is identical to the order in which the compiler
// renders the statement: CTEs, then set-operation branches or the main
// body (select list, joins, where, having, order by, limit, offset for
// SELECT; values for INSERT; set clauses then where for UPDATE; where
// for DELETE). Literal placeholder ordinals are assigned in this order
// at compile time and re-associated with values in the same order at
// bind time, so the two sides must never diverge.
func Walk(ast *AST, visit Visitor) {
	if ast == nil {
		return
	}

	for _, cte := range ast.CTEs {
		Walk(cte.Query, visit)
	}

	if ast.SetOp != nil {
		Walk(ast.SetOp.Left, visit)
		Walk(ast.SetOp.Right, visit)
		for _, ob := range ast.OrderBy {
			WalkExpr(ob.Expr, visit)
		}
		WalkExpr(ast.Limit, visit)
		WalkExpr(ast.Offset, visit)
		return
	}

	switch ast.Kind {
	case SelectStatement:
		for _, sel := range ast.Columns {
			WalkExpr(sel.Expr, visit)
		}
		for _, join := range ast.Joins {
			WalkExpr(join.Condition, visit)
		}
		WalkExpr(ast.Where, visit)
		// GroupBy holds Columns, not Exprs
		WalkExpr(ast.Having, visit)
		for _, ob := range ast.OrderBy {
			WalkExpr(ob.Expr, visit)
		}
		WalkExpr(ast.Limit, visit)
		WalkExpr(ast.Offset, visit)

	case InsertStatement:
		for _, val := range ast.InsertVals {
			WalkExpr(val, visit)
		}

	case UpdateStatement:
		for _, set := range ast.SetClauses {
			WalkExpr(set.Value, visit)
		}
		WalkExpr(ast.Where, visit)

	case DeleteStatement:
		WalkExpr(ast.Where, visit)
	}
}

// containsRaw reports whether any expression in the tree is a raw SQL
// fragment.
func containsRaw(ast *AST) bool {
	found := false
	Walk(ast, func(expr Expr) bool {
		if _, ok := expr.(RawExpr); ok {
			found = true
			return false
		}
		return !found
	})
	return found
}

// LiteralValues collects the values of all literal expressions in render
// order. The result lines up index-for-index with the literal parameter
// slots of the compiled statement.
func LiteralValues(ast *AST) []any {
	var vals []any
	Walk(ast, func(expr Expr) bool {
		if lit, ok := expr.(LiteralExpr); ok {
			vals = append(vals, lit.Value)
		}
		return true
	})
	return vals
}

// CollectParams extracts all unique named parameters from a tree.
type ParamInfo struct {
	Name   string
	GoType string
}

func CollectParams(ast *AST) []ParamInfo {
	var params []ParamInfo
	seen := make(map[string]bool)

	Walk(ast, func(expr Expr) bool {
		if p, ok := expr.(ParamExpr); ok {
			if !seen[p.Name] {
				params = append(params, ParamInfo{Name: p.Name, GoType: p.GoType})
				seen[p.Name] = true
			}
		}
		return true
	})

	return params
}
