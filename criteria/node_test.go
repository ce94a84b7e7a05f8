package criteria

import "testing"

// --- Table / Attribute creation ---

func TestTableCreatesAttributes(t *testing.T) {
	t.Parallel()
	users := NewTable("users")
	col := users.Col("id")

	if col.Name != "id" {
		t.Errorf("expected col name %q, got %q", "id", col.Name)
	}
	if col.Relation != Node(users) {
		t.Error("expected attribute relation to be the users table")
	}
}

func TestRootCreatesAttributes(t *testing.T) {
	t.Parallel()
	q := NewSelectQuery()
	users := q.From(NewTable("users"))
	col := users.Col("name")

	if col.Name != "name" {
		t.Errorf("expected col name %q, got %q", "name", col.Name)
	}
	if col.Relation != Node(users) {
		t.Error("expected attribute relation to be the query root")
	}
}

func TestRelationName(t *testing.T) {
	t.Parallel()
	users := NewTable("users")
	if got := RelationName(users); got != "users" {
		t.Errorf("RelationName(table) = %q", got)
	}
	root := NewSelectQuery().From(users)
	if got := RelationName(root); got != "users" {
		t.Errorf("RelationName(root) = %q", got)
	}
	if got := RelationName(Literal(1)); got != "" {
		t.Errorf("RelationName(literal) = %q, want empty", got)
	}
}

func TestTableStar(t *testing.T) {
	t.Parallel()
	users := NewTable("users")
	star := users.Star()
	if star.Table != users {
		t.Error("expected qualified star to reference the table")
	}
	if Star().Table != nil {
		t.Error("expected unqualified star to have nil table")
	}
}

// --- Literal wrapping ---

func TestLiteralWrapsRawValues(t *testing.T) {
	t.Parallel()
	n := Literal(42)
	lit, ok := n.(*LiteralNode)
	if !ok {
		t.Fatalf("expected *LiteralNode, got %T", n)
	}
	if lit.Value != 42 {
		t.Errorf("expected value 42, got %v", lit.Value)
	}
}

func TestLiteralPassesThroughNodes(t *testing.T) {
	t.Parallel()
	col := NewTable("users").Col("id")
	if Literal(col) != Node(col) {
		t.Error("expected Literal to pass node values through unchanged")
	}
}

func TestBindParam(t *testing.T) {
	t.Parallel()
	p := NewBindParam("x")
	if p.Value != "x" {
		t.Errorf("expected value x, got %v", p.Value)
	}
}

func TestRawSQLLiteral(t *testing.T) {
	t.Parallel()
	r := Raw("NOW()")
	if r.Raw != "NOW()" {
		t.Errorf("expected NOW(), got %q", r.Raw)
	}
}

// --- Predications ---

func TestPredicationsComparisons(t *testing.T) {
	t.Parallel()
	col := NewTable("users").Col("age")

	tests := []struct {
		name string
		node *ComparisonNode
		op   ComparisonOp
	}{
		{"Eq", col.Eq(1), OpEq},
		{"NotEq", col.NotEq(1), OpNotEq},
		{"Gt", col.Gt(1), OpGt},
		{"GtEq", col.GtEq(1), OpGtEq},
		{"Lt", col.Lt(1), OpLt},
		{"LtEq", col.LtEq(1), OpLtEq},
		{"Like", col.Like("x%"), OpLike},
		{"NotLike", col.NotLike("x%"), OpNotLike},
	}
	for _, tt := range tests {
		if tt.node.Op != tt.op {
			t.Errorf("%s: op = %v, want %v", tt.name, tt.node.Op, tt.op)
		}
		if tt.node.Left != Node(col) {
			t.Errorf("%s: left operand is not the column", tt.name)
		}
		if _, ok := tt.node.Right.(*LiteralNode); !ok {
			t.Errorf("%s: right operand = %T, want *LiteralNode", tt.name, tt.node.Right)
		}
	}
}

func TestPredicationsIn(t *testing.T) {
	t.Parallel()
	col := NewTable("users").Col("id")

	in := col.In(1, 2, 3)
	if in.Negate {
		t.Error("In should not negate")
	}
	if len(in.Vals) != 3 {
		t.Fatalf("expected 3 values, got %d", len(in.Vals))
	}
	if !col.NotIn(1).Negate {
		t.Error("NotIn should negate")
	}
}

func TestPredicationsInQuery(t *testing.T) {
	t.Parallel()
	outer := NewSelectQuery()
	users := outer.From(NewTable("users"))
	sub := outer.Subquery()
	sub.From(NewTable("admins"))

	in := users.Col("id").InQuery(sub)
	if len(in.Vals) != 1 || in.Vals[0] != Node(sub) {
		t.Error("expected the subquery as the single IN operand")
	}
}

func TestPredicationsBetween(t *testing.T) {
	t.Parallel()
	col := NewTable("users").Col("age")

	b := col.Between(18, 65)
	if b.Negate {
		t.Error("Between should not negate")
	}
	if !col.NotBetween(18, 65).Negate {
		t.Error("NotBetween should negate")
	}
}

func TestPredicationsNullChecks(t *testing.T) {
	t.Parallel()
	col := NewTable("users").Col("deleted_at")

	if col.IsNull().Op != OpIsNull {
		t.Error("IsNull op mismatch")
	}
	if col.IsNotNull().Op != OpIsNotNull {
		t.Error("IsNotNull op mismatch")
	}
}

func TestPredicationsAlias(t *testing.T) {
	t.Parallel()
	col := NewTable("users").Col("name")
	a := col.As("n")
	if a.Name != "n" || a.Expr != Node(col) {
		t.Errorf("alias = %+v", a)
	}
}

func TestPredicationsOrdering(t *testing.T) {
	t.Parallel()
	col := NewTable("users").Col("name")

	if col.Asc().Direction != Asc {
		t.Error("Asc direction mismatch")
	}
	if col.Desc().Direction != Desc {
		t.Error("Desc direction mismatch")
	}
	if Order(col, true).Direction != Asc || Order(col, false).Direction != Desc {
		t.Error("Order direction mismatch")
	}
}

// --- Combinable chaining ---

func TestCombinableChaining(t *testing.T) {
	t.Parallel()
	col := NewTable("users").Col("age")
	a := col.Gt(1)
	b := col.Lt(9)

	and := a.And(b)
	if and.Left != Node(a) || and.Right != Node(b) {
		t.Error("And operands mismatch")
	}

	// Or wraps in a grouping for precedence.
	group := a.Or(b)
	or, ok := group.Expr.(*OrNode)
	if !ok {
		t.Fatalf("expected grouped OrNode, got %T", group.Expr)
	}
	if or.Left != Node(a) || or.Right != Node(b) {
		t.Error("Or operands mismatch")
	}

	if a.Not().Expr != Node(a) {
		t.Error("Not operand mismatch")
	}

	// Chained nodes are themselves combinable.
	nested := a.And(b).Or(b)
	if _, ok := nested.Expr.(*OrNode); !ok {
		t.Errorf("expected OrNode, got %T", nested.Expr)
	}
}

func TestAndOrNilTolerance(t *testing.T) {
	t.Parallel()
	pred := NewTable("users").Col("x").Eq(1)

	if And(nil, pred) != Node(pred) || And(pred, nil) != Node(pred) {
		t.Error("And should return the non-nil side")
	}
	if Or(nil, pred) != Node(pred) || Or(pred, nil) != Node(pred) {
		t.Error("Or should return the non-nil side")
	}
	if n := And(pred, pred); n == Node(pred) {
		t.Errorf("And of two predicates should combine, got %T", n)
	}
}

// --- Aggregates ---

func TestAggregates(t *testing.T) {
	t.Parallel()
	col := NewTable("orders").Col("total")

	tests := []struct {
		node *AggregateNode
		fn   AggregateFunc
	}{
		{Count(col), AggCount},
		{Sum(col), AggSum},
		{Avg(col), AggAvg},
		{Min(col), AggMin},
		{Max(col), AggMax},
	}
	for _, tt := range tests {
		if tt.node.Func != tt.fn {
			t.Errorf("func = %v, want %v", tt.node.Func, tt.fn)
		}
		if tt.node.Expr != Node(col) {
			t.Error("aggregate expr mismatch")
		}
		if tt.node.Distinct {
			t.Error("plain aggregate should not be distinct")
		}
	}
}

func TestCountStarAndDistinct(t *testing.T) {
	t.Parallel()
	if Count(nil).Expr != nil {
		t.Error("Count(nil) should keep a nil expr for COUNT(*)")
	}
	cd := CountDistinct(NewTable("users").Col("email"))
	if cd.Func != AggCount || !cd.Distinct {
		t.Errorf("CountDistinct = %+v", cd)
	}
}

// --- Exists ---

func TestExists(t *testing.T) {
	t.Parallel()
	sub := NewSelectQuery().Subquery()
	sub.From(NewTable("orders"))

	if Exists(sub).Negated {
		t.Error("Exists should not negate")
	}
	if !NotExists(sub).Negated {
		t.Error("NotExists should negate")
	}
	if Exists(sub).Subquery != sub {
		t.Error("Exists subquery mismatch")
	}
}
