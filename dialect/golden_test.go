package dialect

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/bawdo/streamql/criteria"
)

// reportQuery builds a representative multi-clause select used by the
// formatted-output golden tests.
func reportQuery() *criteria.SelectQuery {
	q := criteria.NewSelectQuery()
	orders := q.From(criteria.NewTable("orders"))
	q.Projections = []criteria.Node{
		orders.Col("customer_id"),
		criteria.Count(nil).As("order_count"),
		criteria.Sum(orders.Col("total")).As("revenue"),
	}
	q.SetRestriction(
		orders.Col("status").Eq("shipped").And(orders.Col("total").Gt(100)),
	)
	q.GroupBy(orders.Col("customer_id"))
	q.SetHaving(criteria.Count(nil).GtEq(3))
	q.OrderBy(criteria.Sum(orders.Col("total")).Desc(), orders.Col("customer_id").Asc())
	q.Limit = criteria.Literal(25)
	return q
}

// To regenerate golden files, run:
//
//	go test ./dialect -update
func TestFormattedGolden(t *testing.T) {
	t.Parallel()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	t.Run("select_postgres", func(t *testing.T) {
		t.Parallel()
		sql := reportQuery().Accept(fmtPG())
		g.Assert(t, "select_postgres", []byte(sql))
	})

	t.Run("select_mysql", func(t *testing.T) {
		t.Parallel()
		sql := reportQuery().Accept(fmtMySQL())
		g.Assert(t, "select_mysql", []byte(sql))
	})

	t.Run("update_postgres", func(t *testing.T) {
		t.Parallel()
		q := criteria.NewUpdateQuery()
		orders := q.From(criteria.NewTable("orders"))
		q.Set(orders.Col("status"), "archived")
		q.Set(orders.Col("archived_at"), "2024-01-01")
		q.SetRestriction(orders.Col("status").Eq("shipped"))
		g.Assert(t, "update_postgres", []byte(q.Accept(fmtPG())))
	})

	t.Run("delete_postgres", func(t *testing.T) {
		t.Parallel()
		q := criteria.NewDeleteQuery()
		orders := q.From(criteria.NewTable("orders"))
		q.SetRestriction(orders.Col("status").Eq("cancelled").And(orders.Col("total").Eq(0)))
		g.Assert(t, "delete_postgres", []byte(q.Accept(fmtPG())))
	})
}
