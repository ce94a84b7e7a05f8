package streams

import (
	"database/sql"

	"github.com/bawdo/streamql/criteria"
)

// Session pairs a database handle with a dialect visitor factory. It is
// the execution collaborator streams hand their compiled queries to; the
// streams themselves never touch the handle except to pass it through.
//
// The visitor factory is called once per SQL generation so each compiled
// query collects its own bind parameters. A Session with a nil database
// handle can still generate SQL; only Query and Exec need a live handle.
type Session struct {
	db         *sql.DB
	newVisitor func() criteria.Visitor
}

// NewSession creates a Session. db may be nil for SQL-only use.
func NewSession(db *sql.DB, newVisitor func() criteria.Visitor) *Session {
	if newVisitor == nil {
		panic("streamql: NewSession requires a visitor factory")
	}
	return &Session{db: db, newVisitor: newVisitor}
}

// DB returns the underlying database handle, which may be nil.
func (s *Session) DB() *sql.DB {
	return s.db
}

// Visitor returns a fresh dialect visitor.
func (s *Session) Visitor() criteria.Visitor {
	return s.newVisitor()
}
