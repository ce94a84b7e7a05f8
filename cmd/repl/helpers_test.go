package main

import (
	"testing"

	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/dialect"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", 42},
		{"-7", -7},
		{"3.5", 3.5},
		{"true", true},
		{"FALSE", false},
		{"null", nil},
		{"'quoted'", "quoted"},
		{`"double"`, "double"},
		{"bare", "bare"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}

func predicateSQL(t *testing.T, args ...string) string {
	t.Helper()
	fn, err := parsePredicate(args)
	if err != nil {
		t.Fatalf("parsePredicate(%v): %v", args, err)
	}
	root := criteria.NewSelectQuery().From(criteria.NewTable("t"))
	v := dialect.NewPostgresVisitor(dialect.WithoutParams())
	return fn(root).Accept(v)
}

func TestParsePredicate(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a", "=", "1"}, `"t"."a" = 1`},
		{[]string{"a", "!=", "1"}, `"t"."a" != 1`},
		{[]string{"a", "<>", "1"}, `"t"."a" != 1`},
		{[]string{"a", ">", "1"}, `"t"."a" > 1`},
		{[]string{"a", ">=", "1"}, `"t"."a" >= 1`},
		{[]string{"a", "<", "1"}, `"t"."a" < 1`},
		{[]string{"a", "<=", "1"}, `"t"."a" <= 1`},
		{[]string{"a", "like", "x%"}, `"t"."a" LIKE 'x%'`},
		{[]string{"a", "null"}, `"t"."a" IS NULL`},
		{[]string{"a", "notnull"}, `"t"."a" IS NOT NULL`},
		{[]string{"name", "=", "'jo", "ann'"}, `"t"."name" = 'jo ann'`},
	}
	for _, tt := range tests {
		if got := predicateSQL(t, tt.args...); got != tt.want {
			t.Errorf("predicate %v = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestParsePredicateErrors(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"a"},
		{"a", "="},
		{"a", "bogus", "1"},
		{"a", "like", "1"},
	} {
		if _, err := parsePredicate(args); err == nil {
			t.Errorf("parsePredicate(%v): expected error", args)
		}
	}
}

func TestParseCount(t *testing.T) {
	n, err := parseCount([]string{"12"}, "limit")
	if err != nil || n != 12 {
		t.Errorf("parseCount = %d, %v", n, err)
	}
	if _, err := parseCount(nil, "limit"); err == nil {
		t.Error("expected error for missing argument")
	}
	if _, err := parseCount([]string{"x"}, "skip"); err == nil {
		t.Error("expected error for non-numeric argument")
	}
}
