package main

import (
	"sort"
	"strings"
)

// completionContext describes what kind of completion is appropriate.
type completionContext int

const (
	contextCommand   completionContext = iota // start of line or partial command
	contextTableName                          // after from/delete/update/columns
	contextColumn                             // after filter/filterby/order/group/set
	contextOrderDir                           // after the column of an order command
	contextOperator                           // after the column of a filter command
	contextPlugin                             // after plugin
	contextPluginOff                          // after plugin off
	contextNone                               // nothing sensible to complete
)

var commandNames = []string{
	"columns", "connect", "delete", "distinct", "exit", "filter", "filterby",
	"from", "group", "help", "limit", "order", "plugin", "plugins", "pretty",
	"reset", "run", "set", "skip", "sql", "tables", "update",
}

var orderDirs = []string{"asc", "desc"}
var operators = []string{"!=", "<", "<=", "=", ">", ">=", "like", "notnull", "null"}

// replCompleter implements readline's AutoCompleter interface.
type replCompleter struct {
	sess *Session
}

// Do returns completion candidates for the current line/cursor position.
// length is the number of chars from end of line[:pos] that form the prefix
// being completed; newLine contains the suffixes to append per candidate.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	ctx, prefix := c.parseContext(string(line[:pos]))

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = filterPrefix(commandNames, prefix)
	case contextTableName:
		candidates = c.completeTableNames(prefix)
	case contextColumn:
		candidates = c.completeColumnNames(prefix)
	case contextOrderDir:
		candidates = filterPrefix(orderDirs, prefix)
	case contextOperator:
		candidates = filterPrefix(operators, prefix)
	case contextPlugin:
		candidates = filterPrefix(append([]string{"off", "softdelete"}, c.sess.pluginNames()...), prefix)
	case contextPluginOff:
		candidates = filterPrefix(c.sess.pluginNames(), prefix)
	}
	candidates = dedup(candidates)

	for _, cand := range candidates {
		suffix := cand[len(prefix):]
		// Trailing space for convenience.
		newLine = append(newLine, []rune(suffix+" "))
	}
	length = len([]rune(prefix))
	return
}

// parseContext examines the line up to the cursor and determines what kind
// of completion is needed and the prefix being typed.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	fields := strings.Fields(line)
	trailing := strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t")

	if len(fields) == 0 || (len(fields) == 1 && !trailing) {
		return contextCommand, strings.TrimSpace(line)
	}

	cmd := strings.ToLower(fields[0])
	// argPos is the index of the argument currently being typed.
	argPos := len(fields) - 1
	prefix := fields[len(fields)-1]
	if trailing {
		argPos = len(fields)
		prefix = ""
	}

	switch cmd {
	case "from", "delete", "update", "columns":
		if argPos == 1 {
			return contextTableName, prefix
		}
	case "filterby", "group":
		if argPos == 1 {
			return contextColumn, prefix
		}
	case "filter":
		switch argPos {
		case 1:
			return contextColumn, prefix
		case 2:
			return contextOperator, prefix
		}
	case "order":
		switch argPos {
		case 1:
			return contextColumn, prefix
		case 2:
			return contextOrderDir, prefix
		}
	case "set":
		if argPos == 1 {
			return contextColumn, prefix
		}
	case "plugin":
		if argPos == 1 {
			return contextPlugin, prefix
		}
		if argPos == 2 && strings.ToLower(fields[1]) == "off" {
			return contextPluginOff, prefix
		}
	}
	return contextNone, prefix
}

// completeTableNames returns connected-schema table names matching prefix.
func (c *replCompleter) completeTableNames(prefix string) []string {
	if c.sess.conn == nil {
		return nil
	}
	names := append([]string(nil), c.sess.conn.schemaTables()...)
	sort.Strings(names)
	return filterPrefix(names, prefix)
}

// completeColumnNames returns the current chain's table columns matching
// prefix. Falls back to all known columns when no chain is active.
func (c *replCompleter) completeColumnNames(prefix string) []string {
	if c.sess.conn == nil {
		return nil
	}
	var cols []string
	if c.sess.table != "" {
		cols = c.sess.conn.schemaColumns(c.sess.table)
	} else {
		for _, t := range c.sess.conn.schemaTables() {
			cols = append(cols, c.sess.conn.schemaColumns(t)...)
		}
	}
	cols = dedup(cols)
	sort.Strings(cols)
	return filterPrefix(cols, prefix)
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		result := make([]string, len(items))
		copy(result, items)
		return result
	}
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

// dedup removes duplicate strings, preserving order.
func dedup(items []string) []string {
	seen := make(map[string]bool, len(items))
	var result []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
