package stmt

import (
	"encoding/binary"
	"hash/fnv"
	"strconv"
)

// Key identifies a compiled statement in the statement cache. Two trees
// that differ only in literal parameter values produce the same Key;
// any difference in shape, column identity, operators, named parameters,
// target dialect, or compile options produces a different Key.
type Key struct {
	Dialect string
	Options uint64
	Hash    uint64
}

// NewKey derives the structural cache key for a tree compiled against
// the named dialect with the given option fingerprint.
func NewKey(ast *AST, dialect string, options uint64) Key {
	h := &keyHasher{h: fnv.New64a()}
	h.tree(ast)
	return Key{
		Dialect: dialect,
		Options: options,
		Hash:    h.h.Sum64(),
	}
}

type keyHasher struct {
	h interface {
		Write([]byte) (int, error)
		Sum64() uint64
	}
	buf [8]byte
}

func (k *keyHasher) str(s string) {
	// Length-prefix so "ab"+"c" and "a"+"bc" hash differently.
	k.num(uint64(len(s)))
	k.h.Write([]byte(s))
}

func (k *keyHasher) num(n uint64) {
	binary.LittleEndian.PutUint64(k.buf[:], n)
	k.h.Write(k.buf[:])
}

func (k *keyHasher) flag(b bool) {
	if b {
		k.num(1)
	} else {
		k.num(0)
	}
}

func (k *keyHasher) tree(ast *AST) {
	if ast == nil {
		k.str("<nil>")
		return
	}

	k.str(string(ast.Kind))
	k.flag(ast.Distinct)
	k.tableRef(ast.FromTable)

	k.num(uint64(len(ast.CTEs)))
	for _, cte := range ast.CTEs {
		k.str(cte.Name)
		k.num(uint64(len(cte.Columns)))
		for _, c := range cte.Columns {
			k.str(c)
		}
		k.tree(cte.Query)
	}

	if ast.SetOp != nil {
		k.str(string(ast.SetOp.Op))
		k.tree(ast.SetOp.Left)
		k.tree(ast.SetOp.Right)
	}

	k.num(uint64(len(ast.Columns)))
	for _, sel := range ast.Columns {
		k.expr(sel.Expr)
		k.str(sel.Alias)
	}

	k.num(uint64(len(ast.Joins)))
	for _, join := range ast.Joins {
		k.str(string(join.Type))
		k.tableRef(join.Table)
		k.expr(join.Condition)
	}

	k.expr(ast.Where)

	k.num(uint64(len(ast.GroupBy)))
	for _, col := range ast.GroupBy {
		k.column(col)
	}

	k.expr(ast.Having)

	k.num(uint64(len(ast.OrderBy)))
	for _, ob := range ast.OrderBy {
		k.expr(ob.Expr)
		k.flag(ob.Desc)
	}

	k.expr(ast.Limit)
	k.expr(ast.Offset)

	k.num(uint64(len(ast.InsertCols)))
	for _, col := range ast.InsertCols {
		k.column(col)
	}
	k.num(uint64(len(ast.InsertVals)))
	for _, val := range ast.InsertVals {
		k.expr(val)
	}
	k.num(uint64(len(ast.Returning)))
	for _, col := range ast.Returning {
		k.column(col)
	}

	k.num(uint64(len(ast.SetClauses)))
	for _, set := range ast.SetClauses {
		k.column(set.Column)
		k.expr(set.Value)
	}
}

func (k *keyHasher) tableRef(t TableRef) {
	k.str(t.Name)
	k.str(t.Alias)
}

func (k *keyHasher) column(c Column) {
	k.str(c.TableName())
	k.str(c.ColumnName())
	k.str(c.GoType())
}

func (k *keyHasher) expr(e Expr) {
	if e == nil {
		k.str("0")
		return
	}

	switch x := e.(type) {
	case ColumnExpr:
		k.str("col")
		k.column(x.Column)
	case ParamExpr:
		k.str("param")
		k.str(x.Name)
	case ExpandingExpr:
		k.str("expanding")
		k.str(x.Name)
	case LiteralExpr:
		// Structural identity only: the value is deliberately excluded,
		// but the rendered type class is included because NULL compiles
		// differently from a bindable value on some drivers.
		k.str("lit")
		k.flag(x.Value == nil)
	case RawExpr:
		// Uncacheable trees never reach the cache, but hash the text
		// anyway so a stray lookup cannot collide.
		k.str("raw")
		k.str(x.SQL)
	case BinaryExpr:
		k.str("bin")
		k.str(string(x.Op))
		k.expr(x.Left)
		k.expr(x.Right)
	case UnaryExpr:
		k.str("un")
		k.str(string(x.Op))
		k.expr(x.Expr)
	case FuncExpr:
		k.str("fn")
		k.str(x.Name)
		k.num(uint64(len(x.Args)))
		for _, arg := range x.Args {
			k.expr(arg)
		}
	case ListExpr:
		k.str("list")
		k.num(uint64(len(x.Values)))
		for _, v := range x.Values {
			k.expr(v)
		}
	case AggregateExpr:
		k.str("agg")
		k.str(string(x.Func))
		k.flag(x.Distinct)
		k.expr(x.Arg)
	case SubqueryExpr:
		k.str("sub")
		k.tree(x.Query)
	case ExistsExpr:
		k.str("exists")
		k.flag(x.Negated)
		k.tree(x.Subquery)
	default:
		k.str("unknown")
	}
}

// String renders the key for logging and for use as a singleflight key.
func (key Key) String() string {
	return key.Dialect + "/" + strconv.FormatUint(key.Options, 16) + "/" + strconv.FormatUint(key.Hash, 16)
}
