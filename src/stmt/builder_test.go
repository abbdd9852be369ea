package stmt

import (
	"testing"
)

var (
	usersTable = TableName("users")
	userID     = Int64Column{Table: "users", Name: "id"}
	userName   = StringColumn{Table: "users", Name: "name"}
	userAge    = Int64Column{Table: "users", Name: "age"}
	ordersTab  = TableName("orders")
	orderUser  = Int64Column{Table: "orders", Name: "user_id"}
)

func TestBuilderIsGenerative(t *testing.T) {
	base := From(usersTable).Select(userID).Where(userAge.Gt(Param[int64]("min_age")))

	withLimit := base.Limit(10)
	plain := base.Build()
	limited := withLimit.Build()

	if plain.Limit != nil {
		t.Error("base tree gained a LIMIT from a forked builder")
	}
	if limited.Limit == nil {
		t.Error("forked tree lost its LIMIT")
	}
	if plain.Where == nil || limited.Where == nil {
		t.Error("WHERE missing after fork")
	}
}

func TestBuildDoesNotShareSlices(t *testing.T) {
	base := From(usersTable).Select(userID)
	first := base.Build()
	second := base.Select(userName).Build()

	if len(first.Columns) != 1 {
		t.Errorf("first build has %d columns, want 1", len(first.Columns))
	}
	if len(second.Columns) != 2 {
		t.Errorf("second build has %d columns, want 2", len(second.Columns))
	}
}

func TestSelectShape(t *testing.T) {
	ast := From(usersTable).
		Select(userID, userName).
		Join(ordersTab, orderUser.Eq(userID)).
		Where(userAge.Ge(Literal(18))).
		GroupBy(userID).
		OrderBy(userName.Asc(), userID.Desc()).
		Limit(Param[int64]("n")).
		Offset(5).
		Build()

	if ast.Kind != SelectStatement {
		t.Fatalf("Kind = %v", ast.Kind)
	}
	if ast.FromTable.Name != "users" {
		t.Errorf("FromTable = %q", ast.FromTable.Name)
	}
	if len(ast.Joins) != 1 || ast.Joins[0].Type != InnerJoin || ast.Joins[0].Table.Name != "orders" {
		t.Errorf("joins = %+v", ast.Joins)
	}
	if len(ast.OrderBy) != 2 || ast.OrderBy[0].Desc || !ast.OrderBy[1].Desc {
		t.Errorf("order by = %+v", ast.OrderBy)
	}
	if _, ok := ast.Limit.(ParamExpr); !ok {
		t.Errorf("Limit = %T, want ParamExpr", ast.Limit)
	}
	if _, ok := ast.Offset.(LiteralExpr); !ok {
		t.Errorf("Offset = %T, want LiteralExpr", ast.Offset)
	}
}

func TestInsertShape(t *testing.T) {
	ast := InsertInto(usersTable).
		Set(userName, Param[string]("name")).
		Set(userAge, Literal(30)).
		Returning(userID).
		Build()

	if ast.Kind != InsertStatement {
		t.Fatalf("Kind = %v", ast.Kind)
	}
	if len(ast.InsertCols) != 2 || len(ast.InsertVals) != 2 {
		t.Fatalf("cols=%d vals=%d, want 2/2", len(ast.InsertCols), len(ast.InsertVals))
	}
	if ast.InsertCols[0].ColumnName() != "name" || ast.InsertCols[1].ColumnName() != "age" {
		t.Errorf("column order = %v, %v", ast.InsertCols[0].ColumnName(), ast.InsertCols[1].ColumnName())
	}
	if len(ast.Returning) != 1 || ast.Returning[0].ColumnName() != "id" {
		t.Errorf("returning = %+v", ast.Returning)
	}
}

func TestUpdateAndDeleteShape(t *testing.T) {
	up := Update(usersTable).
		Set(userName, Param[string]("name")).
		Where(userID.Eq(Param[int64]("id"))).
		Build()
	if up.Kind != UpdateStatement || len(up.SetClauses) != 1 || up.Where == nil {
		t.Errorf("update tree = %+v", up)
	}

	del := DeleteFrom(usersTable).Where(userID.Eq(Literal(int64(4)))).Build()
	if del.Kind != DeleteStatement || del.Where == nil {
		t.Errorf("delete tree = %+v", del)
	}
}

func TestSetOpWrapsOperands(t *testing.T) {
	left := From(usersTable).Select(userID)
	right := From(ordersTab).Select(orderUser).Build()
	ast := left.UnionAll(right).OrderBy(OrderByExpr{Expr: ColumnExpr{userID}}).Build()

	if ast.SetOp == nil {
		t.Fatal("SetOp is nil")
	}
	if ast.SetOp.Op != SetOpUnionAll {
		t.Errorf("Op = %v", ast.SetOp.Op)
	}
	if ast.SetOp.Left == nil || ast.SetOp.Right != right {
		t.Error("operands not wired")
	}
	if len(ast.OrderBy) != 1 {
		t.Error("ORDER BY on the wrapper lost")
	}
}

func TestRawMarksUncacheable(t *testing.T) {
	clean := From(usersTable).Select(userID).Where(userAge.Gt(Literal(1))).Build()
	if clean.Uncacheable {
		t.Error("tree without raw fragments marked uncacheable")
	}

	dirty := From(usersTable).Select(userID).Where(BinaryExpr{
		Left:  ColumnExpr{userAge},
		Op:    OpGt,
		Right: Raw("some_custom_fn()"),
	}).Build()
	if !dirty.Uncacheable {
		t.Error("tree with raw fragment not marked uncacheable")
	}

	nested := From(usersTable).Select(userID).Where(BinaryExpr{
		Left:  ColumnExpr{userID},
		Op:    OpIn,
		Right: SubqueryExpr{Query: dirty},
	}).Build()
	if !nested.Uncacheable {
		t.Error("raw fragment inside subquery not detected")
	}
}

func TestAndOrHelpers(t *testing.T) {
	if And() != nil {
		t.Error("And() with no args should be nil")
	}
	single := userID.Eq(Literal(int64(1)))
	if got := And(single); got == nil {
		t.Error("And(x) dropped x")
	}
	both := And(single, userAge.Gt(Literal(2)))
	bin, ok := both.(BinaryExpr)
	if !ok || bin.Op != OpAnd {
		t.Errorf("And(x, y) = %T %v", both, both)
	}
	neither := Or(single, userAge.Gt(Literal(2)))
	if bin, ok := neither.(BinaryExpr); !ok || bin.Op != OpOr {
		t.Errorf("Or(x, y) = %T", neither)
	}
}

func TestParamCarriesGoType(t *testing.T) {
	p := Param[int64]("id")
	if p.GoType != "int64" {
		t.Errorf("GoType = %q", p.GoType)
	}
	s := Param[string]("name")
	if s.GoType != "string" {
		t.Errorf("GoType = %q", s.GoType)
	}
}
