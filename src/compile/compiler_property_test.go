package compile

import (
	"testing"

	"github.com/tidesql/tidesql/proptest"
	"github.com/tidesql/tidesql/src/stmt"
)

// randomTree builds a random single-table SELECT whose WHERE chains
// random comparisons. Literal values come from lits, so two trees with
// identical shape but different values are easy to produce by reusing
// a generator seed with a different value set.
func randomTree(g *proptest.Generator, table string, cols []string, lits []int64) *stmt.AST {
	b := stmt.From(stmt.TableName(table))

	for _, c := range cols {
		b = b.Select(stmt.Int64Column{Table: table, Name: c})
	}

	var conds []stmt.Expr
	for _, v := range lits {
		col := stmt.Int64Column{Table: table, Name: proptest.Pick(g, cols)}
		switch g.Intn(3) {
		case 0:
			conds = append(conds, col.Eq(stmt.Literal(v)))
		case 1:
			conds = append(conds, col.Gt(stmt.Literal(v)))
		default:
			conds = append(conds, col.Le(stmt.Literal(v)))
		}
	}
	if len(conds) > 0 {
		b = b.Where(stmt.And(conds...))
	}
	if g.Bool() {
		b = b.OrderBy(stmt.Int64Column{Table: table, Name: cols[0]}.Asc())
	}
	return b.Build()
}

func TestCompileDeterministic(t *testing.T) {
	proptest.QuickCheck(t, "same tree compiles to identical SQL", func(g *proptest.Generator) bool {
		cols := g.UniqueIdentifiers(g.IntRange(1, 4), 8)
		table := "t_" + cols[0]
		lits := proptest.Slice(g, 4, func(g *proptest.Generator) int64 { return g.Int63n(1000) })

		tree := randomTree(g, table, cols, lits)
		dialect := proptest.OneOf(g, Postgres, MySQL, SQLite)

		a, err := NewCompiler(dialect, Options{}).Compile(tree)
		if err != nil {
			t.Logf("compile failed: %v", err)
			return false
		}
		b, err := NewCompiler(dialect, Options{}).Compile(tree)
		if err != nil {
			return false
		}
		return a.SQL == b.SQL && len(a.Slots) == len(b.Slots)
	})
}

func TestLiteralValuesInvisibleToCompiledForm(t *testing.T) {
	proptest.QuickCheck(t, "literal values change neither SQL nor cache key", func(g *proptest.Generator) bool {
		cols := g.UniqueIdentifiers(g.IntRange(1, 4), 8)
		table := "t_" + cols[0]
		n := g.IntRange(1, 4)

		litsA := make([]int64, n)
		litsB := make([]int64, n)
		for i := range litsA {
			litsA[i] = g.Int63n(1000)
			litsB[i] = 1000 + g.Int63n(1000)
		}

		// Same seed, different values: the two trees make identical
		// shape draws and differ only in literal values.
		shapeSeed := 1 + g.Int63n(1<<30)
		treeA := randomTree(proptest.New(shapeSeed), table, cols, litsA)
		treeB := randomTree(proptest.New(shapeSeed), table, cols, litsB)

		dialect := proptest.OneOf(g, Postgres, MySQL, SQLite)
		a, err := NewCompiler(dialect, Options{}).Compile(treeA)
		if err != nil {
			return false
		}
		b, err := NewCompiler(dialect, Options{}).Compile(treeB)
		if err != nil {
			return false
		}

		keyA := stmt.NewKey(treeA, dialect.Name(), 0)
		keyB := stmt.NewKey(treeB, dialect.Name(), 0)
		return a.SQL == b.SQL && keyA == keyB
	})
}

func TestLiteralSlotsMatchWalkOrder(t *testing.T) {
	proptest.QuickCheck(t, "literal slots line up with tree walk", func(g *proptest.Generator) bool {
		cols := g.UniqueIdentifiers(g.IntRange(1, 4), 8)
		table := "t_" + cols[0]
		lits := proptest.SliceN(g, 1, 5, func(g *proptest.Generator) int64 { return g.Int63n(1000) })

		tree := randomTree(g, table, cols, lits)
		cs, err := NewCompiler(SQLite, Options{}).Compile(tree)
		if err != nil {
			return false
		}

		var litSlots int
		for _, s := range cs.Slots {
			if s.Kind == ParamLiteral {
				if s.LitIndex != litSlots {
					t.Logf("slot %d has LitIndex %d", litSlots, s.LitIndex)
					return false
				}
				litSlots++
			}
		}
		return litSlots == len(stmt.LiteralValues(tree))
	})
}
