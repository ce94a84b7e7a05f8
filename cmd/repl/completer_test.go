package main

import (
	"reflect"
	"testing"
)

func TestParseContext(t *testing.T) {
	c := &replCompleter{sess: NewSession("postgres")}

	tests := []struct {
		line   string
		ctx    completionContext
		prefix string
	}{
		{"", contextCommand, ""},
		{"fr", contextCommand, "fr"},
		{"from ", contextTableName, ""},
		{"from us", contextTableName, "us"},
		{"delete ", contextTableName, ""},
		{"update or", contextTableName, "or"},
		{"columns us", contextTableName, "us"},
		{"filter ", contextColumn, ""},
		{"filter act", contextColumn, "act"},
		{"filter active ", contextOperator, ""},
		{"filter active =", contextOperator, "="},
		{"filterby ac", contextColumn, "ac"},
		{"order na", contextColumn, "na"},
		{"order name ", contextOrderDir, ""},
		{"order name de", contextOrderDir, "de"},
		{"group st", contextColumn, "st"},
		{"set na", contextColumn, "na"},
		{"plugin ", contextPlugin, ""},
		{"plugin off ", contextPluginOff, ""},
		{"plugin off soft", contextPluginOff, "soft"},
		{"filter active = tr", contextNone, "tr"},
	}
	for _, tt := range tests {
		ctx, prefix := c.parseContext(tt.line)
		if ctx != tt.ctx || prefix != tt.prefix {
			t.Errorf("parseContext(%q) = (%v, %q), want (%v, %q)",
				tt.line, ctx, prefix, tt.ctx, tt.prefix)
		}
	}
}

func TestDoCompletesCommands(t *testing.T) {
	c := &replCompleter{sess: NewSession("postgres")}

	line := []rune("fi")
	newLine, length := c.Do(line, len(line))
	if length != 2 {
		t.Errorf("length = %d, want 2", length)
	}
	var got []string
	for _, s := range newLine {
		got = append(got, "fi"+string(s))
	}
	want := []string{"filter ", "filterby "}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("candidates = %v, want %v", got, want)
	}
}

func TestDoOrderDirections(t *testing.T) {
	c := &replCompleter{sess: NewSession("postgres")}

	line := []rune("order name d")
	newLine, _ := c.Do(line, len(line))
	if len(newLine) != 1 || string(newLine[0]) != "esc " {
		t.Errorf("candidates = %q, want [esc ]", newLine)
	}
}

func TestTableCompletionNeedsConnection(t *testing.T) {
	c := &replCompleter{sess: NewSession("postgres")}
	if got := c.completeTableNames(""); got != nil {
		t.Errorf("completeTableNames = %v, want nil without a connection", got)
	}
	if got := c.completeColumnNames(""); got != nil {
		t.Errorf("completeColumnNames = %v, want nil without a connection", got)
	}
}

func TestFilterPrefix(t *testing.T) {
	items := []string{"alpha", "Beta", "beacon"}
	if got := filterPrefix(items, "be"); !reflect.DeepEqual(got, []string{"Beta", "beacon"}) {
		t.Errorf("filterPrefix = %v", got)
	}
	if got := filterPrefix(items, ""); !reflect.DeepEqual(got, items) {
		t.Errorf("filterPrefix empty = %v", got)
	}
}

func TestDedup(t *testing.T) {
	got := dedup([]string{"a", "b", "a", "c", "b"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("dedup = %v", got)
	}
}
