package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/dialect"
	"github.com/bawdo/streamql/plugins"
	"github.com/bawdo/streamql/plugins/softdelete"
	"github.com/bawdo/streamql/streams"
)

// streamKind tracks which kind of chain the session currently holds.
type streamKind int

const (
	kindNone streamKind = iota
	kindSelect
	kindDelete
	kindUpdate
)

// Session holds the REPL state: the engine, the optional database
// connection, registered plugins, and the chain under construction.
// Streams are immutable, so every command that extends the chain simply
// replaces the session's stream pointer with the returned value.
type Session struct {
	engine  string
	conn    *dbConn
	plugins map[string]plugins.Transformer

	kind   streamKind
	table  string
	sel    *streams.RootStream
	del    *streams.DeleteStream
	upd    *streams.UpdateStream
	pretty bool
}

// NewSession creates a REPL session for the given engine.
func NewSession(engine string) *Session {
	return &Session{
		engine:  engine,
		plugins: make(map[string]plugins.Transformer),
	}
}

// newVisitor returns a dialect visitor factory for the session's engine.
func (s *Session) newVisitor() func() criteria.Visitor {
	inner := func() criteria.Visitor {
		switch s.engine {
		case "mysql":
			return dialect.NewMySQLVisitor()
		case "sqlite":
			return dialect.NewSQLiteVisitor()
		default:
			return dialect.NewPostgresVisitor()
		}
	}
	if !s.pretty {
		return inner
	}
	return func() criteria.Visitor {
		return dialect.NewFormattingVisitor(inner())
	}
}

// session returns a streams session backed by the current connection,
// or a SQL-only session when not connected.
func (s *Session) session() *streams.Session {
	if s.conn != nil {
		return streams.NewSession(s.conn.db, s.newVisitor())
	}
	return streams.NewSession(nil, s.newVisitor())
}

// Execute parses and runs a single REPL command line.
func (s *Session) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "help":
		s.printHelp()
		return nil
	case "connect":
		return s.cmdConnect(args)
	case "tables":
		return s.cmdTables()
	case "columns":
		return s.cmdColumns(args)
	case "from":
		return s.cmdFrom(args)
	case "delete":
		return s.cmdDelete(args)
	case "update":
		return s.cmdUpdate(args)
	case "set":
		return s.cmdSet(args)
	case "filter":
		return s.cmdFilter(args)
	case "filterby":
		return s.cmdFilterBy(args)
	case "order":
		return s.cmdOrder(args)
	case "group":
		return s.cmdGroup(args)
	case "distinct":
		return s.cmdDistinct()
	case "limit":
		return s.cmdLimit(args)
	case "skip":
		return s.cmdSkip(args)
	case "sql":
		return s.cmdSQL()
	case "pretty":
		s.pretty = !s.pretty
		fmt.Printf("  pretty printing %s\n", onOff(s.pretty))
		return nil
	case "run":
		return s.cmdRun()
	case "reset":
		s.resetStream()
		fmt.Println("  chain cleared")
		return nil
	case "plugin":
		return s.cmdPlugin(args)
	case "plugins":
		return s.cmdPlugins()
	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

func (s *Session) printHelp() {
	fmt.Print(`Commands:
  from <table>                 start a select chain
  delete <table>               start a bulk delete chain
  update <table>               start a bulk update chain
  set <col> <value>            add an assignment (update chains)
  filter <col> <op> <value>    add a restriction (=, !=, >, >=, <, <=, like)
  filter <col> null|notnull    add an IS [NOT] NULL restriction
  filterby <col>               restrict to rows where <col> is true
  order <col> [asc|desc]       order by a column (select chains)
  group <col>                  group by a column (select chains)
  distinct                     eliminate duplicate rows
  limit <n> / skip <n>         cap or offset the result rows
  sql                          show the SQL for the current chain
  pretty                       toggle multi-line SQL formatting
  run                          execute the chain against the database
  reset                        discard the current chain
  plugin softdelete [col] [on <tables...>]
  plugin off <name>            unregister a plugin
  plugins                      list registered plugins
  connect <dsn>                connect to a database
  tables / columns <table>     inspect the connected schema
  exit                         quit
`)
}

func (s *Session) resetStream() {
	s.kind = kindNone
	s.table = ""
	s.sel = nil
	s.del = nil
	s.upd = nil
}

func (s *Session) cmdConnect(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: connect <dsn>")
	}
	conn, err := connect(s.engine, args[0])
	if err != nil {
		return err
	}
	if s.conn != nil {
		_ = s.conn.close()
	}
	s.conn = conn
	fmt.Printf("  connected (%s)\n", s.engine)
	return nil
}

func (s *Session) cmdTables() error {
	if s.conn == nil {
		return errNotConnected()
	}
	for _, t := range s.conn.schemaTables() {
		fmt.Println("  " + t)
	}
	return nil
}

func (s *Session) cmdColumns(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: columns <table>")
	}
	if s.conn == nil {
		return errNotConnected()
	}
	cols := s.conn.schemaColumns(args[0])
	if len(cols) == 0 {
		return fmt.Errorf("no columns found for %q", args[0])
	}
	for _, c := range cols {
		fmt.Println("  " + c)
	}
	return nil
}

func (s *Session) cmdFrom(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: from <table>")
	}
	s.resetStream()
	s.kind = kindSelect
	s.table = args[0]
	s.sel = s.applySelectPlugins(streams.From(s.session(), criteria.NewTable(args[0])))
	return s.checkChain()
}

func (s *Session) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <table>")
	}
	s.resetStream()
	s.kind = kindDelete
	s.table = args[0]
	del := streams.DeleteFrom(s.session(), criteria.NewTable(args[0]))
	for _, name := range s.pluginNames() {
		del = del.Use(s.plugins[name])
	}
	s.del = del
	return s.checkChain()
}

func (s *Session) cmdUpdate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: update <table>")
	}
	s.resetStream()
	s.kind = kindUpdate
	s.table = args[0]
	upd := streams.Update(s.session(), criteria.NewTable(args[0]))
	for _, name := range s.pluginNames() {
		upd = upd.Use(s.plugins[name])
	}
	s.upd = upd
	return s.checkChain()
}

func (s *Session) cmdSet(args []string) error {
	if s.kind != kindUpdate {
		return fmt.Errorf("'set' needs an update chain (use 'update <table>')")
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: set <col> <value>")
	}
	s.upd = s.upd.Set(args[0], parseValue(strings.Join(args[1:], " ")))
	return s.checkChain()
}

func (s *Session) cmdFilter(args []string) error {
	pred, err := parsePredicate(args)
	if err != nil {
		return err
	}
	switch s.kind {
	case kindSelect:
		s.sel = s.sel.Filter(pred)
	case kindDelete:
		s.del = s.del.Filter(pred)
	case kindUpdate:
		s.upd = s.upd.Filter(pred)
	default:
		return errNoChain()
	}
	return s.checkChain()
}

func (s *Session) cmdFilterBy(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: filterby <col>")
	}
	switch s.kind {
	case kindSelect:
		s.sel = s.sel.FilterBy(args[0])
	case kindDelete:
		s.del = s.del.FilterBy(args[0])
	case kindUpdate:
		s.upd = s.upd.FilterBy(args[0])
	default:
		return errNoChain()
	}
	return s.checkChain()
}

func (s *Session) cmdOrder(args []string) error {
	if s.kind != kindSelect {
		return errSelectOnly("order")
	}
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: order <col> [asc|desc]")
	}
	asc := true
	if len(args) == 2 {
		switch strings.ToLower(args[1]) {
		case "asc":
		case "desc":
			asc = false
		default:
			return fmt.Errorf("usage: order <col> [asc|desc]")
		}
	}
	column := args[0]
	s.sel = s.sel.ThenOrderBy(func(root *criteria.Root) criteria.Node {
		return root.Col(column)
	}, asc)
	return s.checkChain()
}

func (s *Session) cmdGroup(args []string) error {
	if s.kind != kindSelect {
		return errSelectOnly("group")
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: group <col>")
	}
	s.sel = s.sel.GroupByAttr(args[0])
	return s.checkChain()
}

func (s *Session) cmdDistinct() error {
	if s.kind != kindSelect {
		return errSelectOnly("distinct")
	}
	s.sel = s.sel.Distinct()
	return s.checkChain()
}

func (s *Session) cmdLimit(args []string) error {
	if s.kind != kindSelect {
		return errSelectOnly("limit")
	}
	n, err := parseCount(args, "limit")
	if err != nil {
		return err
	}
	s.sel = s.sel.Limit(n)
	return s.checkChain()
}

func (s *Session) cmdSkip(args []string) error {
	if s.kind != kindSelect {
		return errSelectOnly("skip")
	}
	n, err := parseCount(args, "skip")
	if err != nil {
		return err
	}
	s.sel = s.sel.Skip(n)
	return s.checkChain()
}

// checkChain surfaces a sticky chain error immediately and clears the
// chain so the next command starts clean.
func (s *Session) checkChain() error {
	var err error
	switch s.kind {
	case kindSelect:
		err = s.sel.Err()
	case kindDelete:
		err = s.del.Err()
	case kindUpdate:
		err = s.upd.Err()
	}
	if err != nil {
		s.resetStream()
	}
	return err
}

func (s *Session) cmdSQL() error {
	text, params, err := s.chainSQL()
	if err != nil {
		return err
	}
	fmt.Println("  " + strings.ReplaceAll(text, "\n", "\n  "))
	if len(params) > 0 {
		fmt.Printf("  params: %v\n", params)
	}
	return nil
}

func (s *Session) chainSQL() (string, []any, error) {
	switch s.kind {
	case kindSelect:
		return s.sel.SQL()
	case kindDelete:
		return s.del.SQL()
	case kindUpdate:
		return s.upd.SQL()
	default:
		return "", nil, errNoChain()
	}
}

func (s *Session) cmdRun() error {
	if s.conn == nil {
		return errNotConnected()
	}
	ctx := context.Background()
	switch s.kind {
	case kindSelect:
		e, err := s.sel.ToExec()
		if err != nil {
			return err
		}
		text, params, err := e.SQL()
		if err != nil {
			return err
		}
		out, err := s.conn.execQuery(text, params)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	case kindDelete:
		n, err := s.del.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("  %d row(s) deleted\n", n)
		return nil
	case kindUpdate:
		n, err := s.upd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("  %d row(s) updated\n", n)
		return nil
	default:
		return errNoChain()
	}
}

// cmdPlugin handles plugin registration:
//
//	plugin softdelete
//	plugin softdelete removed_at
//	plugin softdelete removed_at on users posts
//	plugin softdelete users.deleted_at, posts.removed_at
//	plugin off <name>
func (s *Session) cmdPlugin(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: plugin <name> [options] | plugin off <name>")
	}
	if strings.ToLower(args[0]) == "off" {
		if len(args) != 2 {
			return fmt.Errorf("usage: plugin off <name>")
		}
		name := strings.ToLower(args[1])
		if _, ok := s.plugins[name]; !ok {
			return fmt.Errorf("plugin %q is not registered", name)
		}
		delete(s.plugins, name)
		fmt.Printf("  plugin %s unregistered\n", name)
		return nil
	}

	name := strings.ToLower(args[0])
	if name != "softdelete" {
		return fmt.Errorf("unknown plugin %q (only 'softdelete' is REPL-configurable)", name)
	}
	sd, err := parseSoftDelete(args[1:])
	if err != nil {
		return err
	}
	s.plugins[name] = sd
	fmt.Printf("  plugin %s registered (applies to new chains)\n", name)
	return nil
}

func (s *Session) cmdPlugins() error {
	if len(s.plugins) == 0 {
		fmt.Println("  no plugins registered")
		return nil
	}
	for _, name := range s.pluginNames() {
		fmt.Println("  " + name)
	}
	return nil
}

func (s *Session) pluginNames() []string {
	names := make([]string, 0, len(s.plugins))
	for name := range s.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Session) applySelectPlugins(stream *streams.RootStream) *streams.RootStream {
	for _, name := range s.pluginNames() {
		stream = stream.Use(s.plugins[name])
	}
	return stream
}

// parseSoftDelete builds a softdelete transformer from REPL arguments.
func parseSoftDelete(args []string) (*softdelete.SoftDelete, error) {
	if len(args) == 0 {
		return softdelete.New(), nil
	}

	// Per-table syntax: "users.deleted_at, posts.removed_at"
	if strings.Contains(args[0], ".") {
		var opts []softdelete.Option
		for _, part := range strings.Split(strings.Join(args, " "), ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			table, column, ok := strings.Cut(part, ".")
			if !ok || table == "" || column == "" {
				return nil, fmt.Errorf("bad table.column spec %q", part)
			}
			opts = append(opts, softdelete.WithTableColumn(table, column))
		}
		return softdelete.New(opts...), nil
	}

	// Column syntax with optional table list: "removed_at [on users posts]"
	opts := []softdelete.Option{softdelete.WithColumn(args[0])}
	if len(args) > 1 {
		if strings.ToLower(args[1]) != "on" || len(args) < 3 {
			return nil, fmt.Errorf("usage: plugin softdelete [col] [on <tables...>]")
		}
		opts = append(opts, softdelete.WithTables(args[2:]...))
	}
	return softdelete.New(opts...), nil
}

func errNoChain() error {
	return fmt.Errorf("no chain started (use 'from', 'delete', or 'update')")
}

func errNotConnected() error {
	return fmt.Errorf("not connected (use 'connect <dsn>')")
}

func errSelectOnly(cmd string) error {
	return fmt.Errorf("'%s' needs a select chain (use 'from <table>')", cmd)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
