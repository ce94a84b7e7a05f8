package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/streamql/criteria"
)

// parseValue interprets a REPL token as a Go value: integers, floats,
// booleans, NULL, and quoted or bare strings.
func parseValue(tok string) any {
	if n, err := strconv.Atoi(tok); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f
	}
	switch strings.ToLower(tok) {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if len(tok) >= 2 {
		if (tok[0] == '\'' && tok[len(tok)-1] == '\'') || (tok[0] == '"' && tok[len(tok)-1] == '"') {
			return tok[1 : len(tok)-1]
		}
	}
	return tok
}

// parsePredicate turns "col op value" (or "col null" / "col notnull")
// into a selector the stream's Filter can apply to its query root.
func parsePredicate(args []string) (func(*criteria.Root) criteria.Node, error) {
	if len(args) == 2 {
		column := args[0]
		switch strings.ToLower(args[1]) {
		case "null":
			return func(root *criteria.Root) criteria.Node {
				return root.Col(column).IsNull()
			}, nil
		case "notnull":
			return func(root *criteria.Root) criteria.Node {
				return root.Col(column).IsNotNull()
			}, nil
		}
		return nil, fmt.Errorf("usage: filter <col> <op> <value> | filter <col> null|notnull")
	}
	if len(args) < 3 {
		return nil, fmt.Errorf("usage: filter <col> <op> <value>")
	}

	column := args[0]
	op := strings.ToLower(args[1])
	val := parseValue(strings.Join(args[2:], " "))

	switch op {
	case "=", "==":
		return func(root *criteria.Root) criteria.Node { return root.Col(column).Eq(val) }, nil
	case "!=", "<>":
		return func(root *criteria.Root) criteria.Node { return root.Col(column).NotEq(val) }, nil
	case ">":
		return func(root *criteria.Root) criteria.Node { return root.Col(column).Gt(val) }, nil
	case ">=":
		return func(root *criteria.Root) criteria.Node { return root.Col(column).GtEq(val) }, nil
	case "<":
		return func(root *criteria.Root) criteria.Node { return root.Col(column).Lt(val) }, nil
	case "<=":
		return func(root *criteria.Root) criteria.Node { return root.Col(column).LtEq(val) }, nil
	case "like":
		pattern, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("'like' needs a string pattern")
		}
		return func(root *criteria.Root) criteria.Node { return root.Col(column).Like(pattern) }, nil
	default:
		return nil, fmt.Errorf("unknown operator %q (=, !=, >, >=, <, <=, like)", args[1])
	}
}

// parseCount parses the single integer argument of limit/skip.
func parseCount(args []string, cmd string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s <n>", cmd)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", cmd, args[0])
	}
	return n, nil
}
