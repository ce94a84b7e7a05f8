package plugins

import (
	"testing"

	"github.com/bawdo/streamql/criteria"
)

func TestCollectRoots(t *testing.T) {
	q := criteria.NewSelectQuery()
	users := q.From(criteria.NewTable("users"))
	posts := q.From(criteria.NewTable("posts"))

	refs := CollectRoots(q)
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0].Name != "users" || refs[0].Relation != criteria.Node(users) {
		t.Errorf("refs[0] = %+v", refs[0])
	}
	if refs[1].Name != "posts" || refs[1].Relation != criteria.Node(posts) {
		t.Errorf("refs[1] = %+v", refs[1])
	}
}

func TestCollectRootsSkipsCorrelated(t *testing.T) {
	outer := criteria.NewSelectQuery()
	users := outer.From(criteria.NewTable("users"))

	sub := outer.Subquery()
	sub.Correlate(users)
	sub.From(criteria.NewTable("orders"))

	refs := CollectRoots(&sub.SelectQuery)
	if len(refs) != 1 {
		t.Fatalf("expected 1 ref, got %d", len(refs))
	}
	if refs[0].Name != "orders" {
		t.Errorf("refs[0].Name = %q, want orders", refs[0].Name)
	}
}

func TestCollectRootsEmpty(t *testing.T) {
	if refs := CollectRoots(criteria.NewSelectQuery()); refs != nil {
		t.Errorf("expected nil for rootless query, got %v", refs)
	}
}
