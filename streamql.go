// Package streamql provides a fluent, immutable query stream builder for Go.
//
// This package re-exports commonly used types and functions from subpackages
// for convenience. Advanced users can import subpackages directly:
//   - github.com/bawdo/streamql/streams (query streams)
//   - github.com/bawdo/streamql/criteria (criteria model and builder toolkit)
//   - github.com/bawdo/streamql/dialect (SQL generation)
//   - github.com/bawdo/streamql/plugins (query transformers)
package streamql

import (
	"database/sql"

	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/dialect"
	"github.com/bawdo/streamql/streams"
)

// --- Stream Types ---

// RootStream is a select stream whose selection is a query root.
type RootStream = streams.RootStream

// AttrStream is a select stream whose selection is a single column.
type AttrStream = streams.AttrStream

// ExprStream is a select stream over an arbitrary expression.
type ExprStream = streams.ExprStream

// DeleteStream builds bulk DELETE queries.
type DeleteStream = streams.DeleteStream

// UpdateStream builds bulk UPDATE queries.
type UpdateStream = streams.UpdateStream

// Session pairs a database handle with a dialect visitor factory.
type Session = streams.Session

// Exec is an executable compiled query.
type Exec = streams.Exec

// --- Stream Constructors ---

// NewSession creates a Session. db may be nil for SQL-only use.
func NewSession(db *sql.DB, newVisitor func() criteria.Visitor) *streams.Session {
	return streams.NewSession(db, newVisitor)
}

// From starts a select stream over the given table.
func From(sess *streams.Session, table *criteria.Table) *streams.RootStream {
	return streams.From(sess, table)
}

// CorrelatedFrom starts a select stream usable only in subquery position.
func CorrelatedFrom(sess *streams.Session, outer *criteria.Root) *streams.RootStream {
	return streams.CorrelatedFrom(sess, outer)
}

// DeleteFrom starts a bulk delete stream over the given table.
func DeleteFrom(sess *streams.Session, table *criteria.Table) *streams.DeleteStream {
	return streams.DeleteFrom(sess, table)
}

// Update starts a bulk update stream over the given table.
func Update(sess *streams.Session, table *criteria.Table) *streams.UpdateStream {
	return streams.Update(sess, table)
}

// NewRootRef creates an unbound Ref for a query root.
func NewRootRef() *streams.Ref[*criteria.Root] {
	return streams.NewRef[*criteria.Root]()
}

// NewAttrRef creates an unbound Ref for a column reference.
func NewAttrRef() *streams.Ref[*criteria.Attribute] {
	return streams.NewRef[*criteria.Attribute]()
}

// BindAsAttr captures a column derived from the stream's selection in ref
// at build time, leaving the selection unchanged.
func BindAsAttr(s *streams.RootStream, ref *streams.Ref[*criteria.Attribute], fn func(*criteria.Root) *criteria.Attribute) *streams.RootStream {
	return streams.BindAs(s, ref, fn)
}

// SelectAttr narrows a root stream to project a single column.
func SelectAttr(s *streams.RootStream, fn func(*criteria.Root) *criteria.Attribute) *streams.AttrStream {
	return streams.Map(s, fn)
}

// --- Core Criteria Types ---

// Table represents a SQL table reference.
type Table = criteria.Table

// Root is a table brought into a query's FROM clause.
type Root = criteria.Root

// Attribute represents a column reference (e.g., table.column).
type Attribute = criteria.Attribute

// Node is the base interface all criteria nodes implement.
type Node = criteria.Node

// Visitor renders criteria nodes to SQL.
type Visitor = criteria.Visitor

// Builder is the construction toolkit handed to configurers.
type Builder = criteria.Builder

// --- Common Criteria Constructors ---

// NewTable creates a new table reference.
func NewTable(name string) *criteria.Table {
	return criteria.NewTable(name)
}

// Literal creates a literal node (e.g., numbers, strings).
func Literal(value any) criteria.Node {
	return criteria.Literal(value)
}

// BindParam creates a parameterised placeholder (e.g., $1, ?).
func BindParam(value any) *criteria.BindParamNode {
	return criteria.NewBindParam(value)
}

// Star creates an unqualified star (*) projection.
func Star() *criteria.StarNode {
	return criteria.Star()
}

// --- Aggregate Functions ---

// Count creates a COUNT(expr) aggregate. Pass nil for COUNT(*).
func Count(expr criteria.Node) *criteria.AggregateNode {
	return criteria.Count(expr)
}

// Sum creates a SUM(expr) aggregate.
func Sum(expr criteria.Node) *criteria.AggregateNode {
	return criteria.Sum(expr)
}

// Avg creates an AVG(expr) aggregate.
func Avg(expr criteria.Node) *criteria.AggregateNode {
	return criteria.Avg(expr)
}

// Min creates a MIN(expr) aggregate.
func Min(expr criteria.Node) *criteria.AggregateNode {
	return criteria.Min(expr)
}

// Max creates a MAX(expr) aggregate.
func Max(expr criteria.Node) *criteria.AggregateNode {
	return criteria.Max(expr)
}

// CountDistinct creates a COUNT(DISTINCT expr) aggregate.
func CountDistinct(expr criteria.Node) *criteria.AggregateNode {
	return criteria.CountDistinct(expr)
}

// --- Visitor Types ---

// SQLiteVisitor generates SQLite-compatible SQL.
type SQLiteVisitor = dialect.SQLiteVisitor

// PostgresVisitor generates PostgreSQL-compatible SQL.
type PostgresVisitor = dialect.PostgresVisitor

// MySQLVisitor generates MySQL-compatible SQL.
type MySQLVisitor = dialect.MySQLVisitor

// --- Visitor Constructors ---

// NewSQLiteVisitor creates a new SQLite visitor.
func NewSQLiteVisitor(opts ...dialect.Option) *dialect.SQLiteVisitor {
	return dialect.NewSQLiteVisitor(opts...)
}

// NewPostgresVisitor creates a new PostgreSQL visitor.
func NewPostgresVisitor(opts ...dialect.Option) *dialect.PostgresVisitor {
	return dialect.NewPostgresVisitor(opts...)
}

// NewMySQLVisitor creates a new MySQL visitor.
func NewMySQLVisitor(opts ...dialect.Option) *dialect.MySQLVisitor {
	return dialect.NewMySQLVisitor(opts...)
}

// WithoutParams disables parameterised query mode.
//
// ⚠️ WARNING: Disables SQL injection protection. Only use for debugging or when
// you're certain all values are trusted. Production code should NEVER use this option.
func WithoutParams() dialect.Option {
	return dialect.WithoutParams()
}
