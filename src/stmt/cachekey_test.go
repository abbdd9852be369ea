package stmt

import "testing"

func selectByAge(min any) *AST {
	return From(usersTable).
		Select(userID, userName).
		Where(userAge.Gt(toExpr(min))).
		Build()
}

func TestKeyIgnoresLiteralValues(t *testing.T) {
	a := NewKey(selectByAge(Literal(18)), "postgres", 0)
	b := NewKey(selectByAge(Literal(65)), "postgres", 0)
	if a != b {
		t.Error("trees differing only in literal values produced distinct keys")
	}
}

func TestKeyDistinguishesNullLiterals(t *testing.T) {
	a := NewKey(selectByAge(LiteralExpr{Value: int64(1)}), "postgres", 0)
	b := NewKey(selectByAge(LiteralExpr{Value: nil}), "postgres", 0)
	if a == b {
		t.Error("NULL literal hashed the same as a bindable literal")
	}
}

func TestKeySensitivity(t *testing.T) {
	base := NewKey(selectByAge(Literal(18)), "postgres", 0)

	tests := []struct {
		name string
		key  Key
	}{
		{"Dialect", NewKey(selectByAge(Literal(18)), "mysql", 0)},
		{"Options", NewKey(selectByAge(Literal(18)), "postgres", 1)},
		{"Operator", NewKey(From(usersTable).Select(userID, userName).Where(userAge.Ge(Literal(18))).Build(), "postgres", 0)},
		{"Column", NewKey(From(usersTable).Select(userID, userName).Where(userID.Gt(Literal(18))).Build(), "postgres", 0)},
		{"ParamName", NewKey(From(usersTable).Select(userID, userName).Where(userAge.Gt(Param[int64]("cutoff"))).Build(), "postgres", 0)},
		{"ExtraClause", NewKey(From(usersTable).Select(userID, userName).Where(userAge.Gt(Literal(18))).Limit(1).Build(), "postgres", 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key == base {
				t.Error("structurally different statement collided with base key")
			}
		})
	}
}

func TestKeyStableAcrossBuilds(t *testing.T) {
	b := From(usersTable).Select(userID).Where(userName.Like(Param[string]("pat")))
	if NewKey(b.Build(), "sqlite", 0) != NewKey(b.Build(), "sqlite", 0) {
		t.Error("two builds of the same chain produced distinct keys")
	}
}

func TestKeyDistinguishesSetOpSides(t *testing.T) {
	users := From(usersTable).Select(userID)
	orders := From(ordersTab).Select(orderUser)

	a := NewKey(users.UnionAll(orders.Build()).Build(), "postgres", 0)
	b := NewKey(orders.UnionAll(users.Build()).Build(), "postgres", 0)
	if a == b {
		t.Error("mirrored set operation produced the same key")
	}
}

func TestKeyString(t *testing.T) {
	k := NewKey(selectByAge(Literal(1)), "postgres", 3)
	s := k.String()
	if s == "" {
		t.Fatal("empty key string")
	}
	other := NewKey(selectByAge(Literal(1)), "mysql", 3)
	if s == other.String() {
		t.Error("distinct keys rendered the same string")
	}
}
