package dialect

import (
	"reflect"
	"strings"
	"testing"

	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/internal/testutil"
)

// --- Identifier quoting ---

func TestVisitTable(t *testing.T) {
	t.Parallel()
	users := criteria.NewTable("users")
	testutil.AssertSQL(t, NewPostgresVisitor(WithoutParams()), users, `"users"`)
	testutil.AssertSQL(t, NewMySQLVisitor(WithoutParams()), users, "`users`")
	testutil.AssertSQL(t, NewSQLiteVisitor(WithoutParams()), users, `"users"`)
}

func TestVisitAttribute(t *testing.T) {
	t.Parallel()
	col := criteria.NewTable("users").Col("name")
	testutil.AssertSQL(t, NewPostgresVisitor(WithoutParams()), col, `"users"."name"`)
	testutil.AssertSQL(t, NewMySQLVisitor(WithoutParams()), col, "`users`.`name`")
}

func TestVisitRoot(t *testing.T) {
	t.Parallel()
	root := criteria.NewSelectQuery().From(criteria.NewTable("users"))
	testutil.AssertSQL(t, NewPostgresVisitor(WithoutParams()), root, `"users"`)
}

func TestVisitStar(t *testing.T) {
	t.Parallel()
	v := NewPostgresVisitor(WithoutParams())
	testutil.AssertSQL(t, v, criteria.Star(), `*`)
	testutil.AssertSQL(t, v, criteria.NewTable("users").Star(), `"users".*`)
}

// --- Literals ---

func TestVisitLiteralInline(t *testing.T) {
	t.Parallel()
	v := NewPostgresVisitor(WithoutParams())
	testutil.AssertSQL(t, v, criteria.Literal("Alice"), `'Alice'`)
	testutil.AssertSQL(t, v, criteria.Literal("O'Brien"), `'O''Brien'`)
	testutil.AssertSQL(t, v, criteria.Literal(42), `42`)
	testutil.AssertSQL(t, v, criteria.Literal(1.5), `1.5`)
	testutil.AssertSQL(t, v, criteria.Literal(true), `TRUE`)
	testutil.AssertSQL(t, v, criteria.Literal(false), `FALSE`)
}

func TestVisitLiteralNil(t *testing.T) {
	t.Parallel()
	// NULL never becomes a bind parameter, even in parameterized mode.
	v := NewPostgresVisitor()
	testutil.AssertSQL(t, v, criteria.Literal(nil), `NULL`)
	if len(v.Params()) != 0 {
		t.Errorf("params = %v, want none", v.Params())
	}
}

func TestVisitLiteralUnsupportedTypePanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unsupported literal type")
		}
	}()
	criteria.Literal(struct{}{}).Accept(NewPostgresVisitor(WithoutParams()))
}

func TestVisitSQLLiteral(t *testing.T) {
	t.Parallel()
	testutil.AssertSQL(t, NewPostgresVisitor(WithoutParams()), criteria.Raw("NOW()"), `NOW()`)
}

// --- Parameterized mode ---

func TestParameterizedPlaceholders(t *testing.T) {
	t.Parallel()
	col := criteria.NewTable("users").Col("age")
	pred := criteria.And(col.Gt(18), col.Lt(65))

	pg := NewPostgresVisitor()
	testutil.AssertSQL(t, pg, pred, `"users"."age" > $1 AND "users"."age" < $2`)
	if !reflect.DeepEqual(pg.Params(), []any{18, 65}) {
		t.Errorf("params = %v", pg.Params())
	}

	my := NewMySQLVisitor()
	testutil.AssertSQL(t, my, pred, "`users`.`age` > ? AND `users`.`age` < ?")
	if !reflect.DeepEqual(my.Params(), []any{18, 65}) {
		t.Errorf("params = %v", my.Params())
	}

	lite := NewSQLiteVisitor()
	testutil.AssertSQL(t, lite, pred, `"users"."age" > ? AND "users"."age" < ?`)
}

func TestVisitorReset(t *testing.T) {
	t.Parallel()
	v := NewPostgresVisitor()
	col := criteria.NewTable("users").Col("id")

	_ = col.Eq(1).Accept(v)
	v.Reset()
	testutil.AssertSQL(t, v, col.Eq(2), `"users"."id" = $1`)
	if !reflect.DeepEqual(v.Params(), []any{2}) {
		t.Errorf("params after reset = %v", v.Params())
	}
}

func TestVisitBindParam(t *testing.T) {
	t.Parallel()
	// Explicit bind params are collected even in non-parameterized mode.
	v := NewPostgresVisitor(WithoutParams())
	testutil.AssertSQL(t, v, criteria.NewBindParam("x"), `$1`)
	if !reflect.DeepEqual(v.Params(), []any{"x"}) {
		t.Errorf("params = %v", v.Params())
	}
}

// --- Predicates ---

func TestVisitComparisons(t *testing.T) {
	t.Parallel()
	v := NewPostgresVisitor(WithoutParams())
	col := criteria.NewTable("users").Col("age")

	testutil.AssertSQL(t, v, col.Eq(1), `"users"."age" = 1`)
	testutil.AssertSQL(t, v, col.NotEq(1), `"users"."age" != 1`)
	testutil.AssertSQL(t, v, col.Gt(1), `"users"."age" > 1`)
	testutil.AssertSQL(t, v, col.GtEq(1), `"users"."age" >= 1`)
	testutil.AssertSQL(t, v, col.Lt(1), `"users"."age" < 1`)
	testutil.AssertSQL(t, v, col.LtEq(1), `"users"."age" <= 1`)
	testutil.AssertSQL(t, v, col.Like("a%"), `"users"."age" LIKE 'a%'`)
	testutil.AssertSQL(t, v, col.NotLike("a%"), `"users"."age" NOT LIKE 'a%'`)
}

func TestVisitNullChecks(t *testing.T) {
	t.Parallel()
	v := NewPostgresVisitor(WithoutParams())
	col := criteria.NewTable("users").Col("deleted_at")
	testutil.AssertSQL(t, v, col.IsNull(), `"users"."deleted_at" IS NULL`)
	testutil.AssertSQL(t, v, col.IsNotNull(), `"users"."deleted_at" IS NOT NULL`)
}

func TestVisitLogical(t *testing.T) {
	t.Parallel()
	v := NewPostgresVisitor(WithoutParams())
	col := criteria.NewTable("users").Col("age")
	a := col.Gt(1)
	b := col.Lt(9)

	testutil.AssertSQL(t, v, a.And(b), `"users"."age" > 1 AND "users"."age" < 9`)
	testutil.AssertSQL(t, v, a.Or(b), `("users"."age" > 1 OR "users"."age" < 9)`)
	testutil.AssertSQL(t, v, a.Not(), `NOT ("users"."age" > 1)`)
}

func TestVisitInAndBetween(t *testing.T) {
	t.Parallel()
	v := NewPostgresVisitor(WithoutParams())
	col := criteria.NewTable("users").Col("id")

	testutil.AssertSQL(t, v, col.In(1, 2, 3), `"users"."id" IN (1, 2, 3)`)
	testutil.AssertSQL(t, v, col.NotIn(1, 2), `"users"."id" NOT IN (1, 2)`)
	testutil.AssertSQL(t, v, col.Between(1, 9), `"users"."id" BETWEEN 1 AND 9`)
	testutil.AssertSQL(t, v, col.NotBetween(1, 9), `"users"."id" NOT BETWEEN 1 AND 9`)
}

// --- Projections, aggregates, ordering ---

func TestVisitAggregates(t *testing.T) {
	t.Parallel()
	v := NewPostgresVisitor(WithoutParams())
	col := criteria.NewTable("orders").Col("total")

	testutil.AssertSQL(t, v, criteria.Count(col), `COUNT("orders"."total")`)
	testutil.AssertSQL(t, v, criteria.Count(nil), `COUNT(*)`)
	testutil.AssertSQL(t, v, criteria.CountDistinct(col), `COUNT(DISTINCT "orders"."total")`)
	testutil.AssertSQL(t, v, criteria.Sum(col), `SUM("orders"."total")`)
	testutil.AssertSQL(t, v, criteria.Avg(col), `AVG("orders"."total")`)
	testutil.AssertSQL(t, v, criteria.Min(col), `MIN("orders"."total")`)
	testutil.AssertSQL(t, v, criteria.Max(col), `MAX("orders"."total")`)
}

func TestVisitAliasAndOrdering(t *testing.T) {
	t.Parallel()
	v := NewPostgresVisitor(WithoutParams())
	col := criteria.NewTable("users").Col("name")

	testutil.AssertSQL(t, v, col.As("n"), `"users"."name" AS "n"`)
	testutil.AssertSQL(t, v, col.Asc(), `"users"."name" ASC`)
	testutil.AssertSQL(t, v, col.Desc(), `"users"."name" DESC`)
}

// --- Full statements ---

func TestVisitSelectDefaults(t *testing.T) {
	t.Parallel()
	q := criteria.NewSelectQuery()
	q.From(criteria.NewTable("users"))
	testutil.AssertSQL(t, NewPostgresVisitor(WithoutParams()), q, `SELECT * FROM "users"`)
}

func TestVisitSelectFullClauses(t *testing.T) {
	t.Parallel()
	q := criteria.NewSelectQuery()
	users := q.From(criteria.NewTable("users"))
	q.Select(users)
	q.SetDistinct(true)
	q.SetRestriction(users.Col("active").Eq(true))
	q.GroupBy(users.Col("city"))
	q.SetHaving(criteria.Count(nil).Gt(3))
	q.OrderBy(users.Col("city").Asc())
	q.Limit = criteria.Literal(10)
	q.Offset = criteria.Literal(20)

	want := `SELECT DISTINCT "users".* FROM "users"` +
		` WHERE "users"."active" = TRUE` +
		` GROUP BY "users"."city"` +
		` HAVING COUNT(*) > 3` +
		` ORDER BY "users"."city" ASC` +
		` LIMIT 10 OFFSET 20`
	testutil.AssertSQL(t, NewPostgresVisitor(WithoutParams()), q, want)
}

func TestVisitSelectOmitsCorrelatedRoots(t *testing.T) {
	t.Parallel()
	top := criteria.NewSelectQuery()
	users := top.From(criteria.NewTable("users"))

	sub := top.Subquery()
	corr := sub.Correlate(users)
	orders := sub.From(criteria.NewTable("orders"))
	sub.Select(orders)
	sub.SetRestriction(orders.Col("user_id").Eq(corr.Col("id")))

	got := sub.Accept(NewPostgresVisitor(WithoutParams()))
	want := `SELECT "orders".* FROM "orders" WHERE "orders"."user_id" = "users"."id"`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if strings.Contains(got, `FROM "orders", "users"`) {
		t.Error("correlated root leaked into FROM")
	}
}

func TestVisitExistsWrapsSubquery(t *testing.T) {
	t.Parallel()
	top := criteria.NewSelectQuery()
	top.From(criteria.NewTable("users"))
	sub := top.Subquery()
	sub.From(criteria.NewTable("orders"))

	v := NewPostgresVisitor(WithoutParams())
	testutil.AssertSQL(t, v, criteria.Exists(sub), `EXISTS (SELECT * FROM "orders")`)
	testutil.AssertSQL(t, v, criteria.NotExists(sub), `NOT EXISTS (SELECT * FROM "orders")`)
}

func TestVisitInQuerySubquery(t *testing.T) {
	t.Parallel()
	top := criteria.NewSelectQuery()
	users := top.From(criteria.NewTable("users"))
	sub := top.Subquery()
	admins := sub.From(criteria.NewTable("admins"))
	sub.Select(admins.Col("user_id"))

	in := users.Col("id").InQuery(sub)
	want := `"users"."id" IN (SELECT "admins"."user_id" FROM "admins")`
	testutil.AssertSQL(t, NewPostgresVisitor(WithoutParams()), in, want)
}

func TestVisitDelete(t *testing.T) {
	t.Parallel()
	q := criteria.NewDeleteQuery()
	users := q.From(criteria.NewTable("users"))
	q.SetRestriction(users.Col("id").Eq(7))

	testutil.AssertSQL(t, NewPostgresVisitor(WithoutParams()), q,
		`DELETE FROM "users" WHERE "users"."id" = 7`)
}

func TestVisitUpdate(t *testing.T) {
	t.Parallel()
	q := criteria.NewUpdateQuery()
	users := q.From(criteria.NewTable("users"))
	q.Set(users.Col("name"), "x")
	q.Set(users.Col("active"), true)
	q.SetRestriction(users.Col("id").Eq(7))

	testutil.AssertSQL(t, NewPostgresVisitor(WithoutParams()), q,
		`UPDATE "users" SET "users"."name" = 'x', "users"."active" = TRUE WHERE "users"."id" = 7`)
}
