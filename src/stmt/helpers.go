package stmt

import "time"

// Param creates a typed named parameter reference. The value is supplied
// at execution time under the same name.
func Param[T any](name string) ParamExpr {
	var zero T
	return ParamExpr{
		Name:   name,
		GoType: typeNameOf(zero),
	}
}

// Expanding creates an expanding parameter reference for variable-length
// IN lists. The list is supplied at execution time under the same name.
func Expanding(name string) ExpandingExpr {
	return ExpandingExpr{Name: name}
}

// Literal creates a literal value expression. Literals compile to
// placeholders, not inline text, so the compiled form is shared across
// trees that differ only in literal values.
func Literal[T any](value T) LiteralExpr {
	return LiteralExpr{Value: value}
}

// Raw creates a raw SQL fragment. Any tree containing a raw fragment is
// uncacheable and compiles fresh on every execution.
func Raw(sql string) RawExpr {
	return RawExpr{SQL: sql}
}

// Now represents the current timestamp (translated per-database).
func Now() FuncExpr {
	return FuncExpr{Name: "NOW", Args: nil}
}

// And combines expressions with AND.
// Returns nil if no expressions are provided.
// Returns the single expression if only one is provided.
func And(exprs ...Expr) Expr {
	if len(exprs) == 0 {
		return nil
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	result := exprs[0]
	for _, expr := range exprs[1:] {
		result = BinaryExpr{Left: result, Op: OpAnd, Right: expr}
	}
	return result
}

// Or combines expressions with OR.
// Returns nil if no expressions are provided.
// Returns the single expression if only one is provided.
func Or(exprs ...Expr) Expr {
	if len(exprs) == 0 {
		return nil
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	result := exprs[0]
	for _, expr := range exprs[1:] {
		result = BinaryExpr{Left: result, Op: OpOr, Right: expr}
	}
	return result
}

// Not negates an expression.
func Not(expr Expr) Expr {
	return UnaryExpr{Op: OpNot, Expr: expr}
}

// toExpr converts any value to an Expr.
// If the value is already an Expr, it's returned as-is.
// If it's a Column, it's wrapped in ColumnExpr.
// Otherwise, it's wrapped in LiteralExpr.
func toExpr(v any) Expr {
	switch val := v.(type) {
	case Expr:
		return val
	case Column:
		return ColumnExpr{Column: val}
	default:
		return LiteralExpr{Value: val}
	}
}

// toList converts a value list into a ListExpr.
func toList(values []any) ListExpr {
	exprs := make([]Expr, len(values))
	for i, v := range values {
		exprs[i] = toExpr(v)
	}
	return ListExpr{Values: exprs}
}

// typeNameOf returns the Go type name for a value.
// Used for parameter type tracking.
func typeNameOf(v any) string {
	switch v.(type) {
	case int:
		return "int"
	case int32:
		return "int32"
	case int64:
		return "int64"
	case float32:
		return "float32"
	case float64:
		return "float64"
	case string:
		return "string"
	case bool:
		return "bool"
	case []byte:
		return "[]byte"
	case time.Time:
		return "time.Time"
	case *int64:
		return "*int64"
	case *string:
		return "*string"
	case *bool:
		return "*bool"
	case *time.Time:
		return "*time.Time"
	default:
		return "any"
	}
}
