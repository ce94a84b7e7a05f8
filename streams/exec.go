package streams

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bawdo/streamql/criteria"
)

// Exec is an executable query: a fully configured, transformed query
// context with offset and limit applied, ready to run against the
// session's database. It is produced by a stream's terminal build and is
// independent of the stream that built it.
type Exec struct {
	sess  *Session
	query criteria.Query
}

func newExec(sess *Session, q criteria.Query) *Exec {
	return &Exec{sess: sess, query: q}
}

// Query returns the compiled query context backing this executable.
func (e *Exec) Query() criteria.Query {
	return e.query
}

// SQL renders the query with a fresh dialect visitor and returns the SQL
// text along with any collected bind parameters.
func (e *Exec) SQL() (string, []any, error) {
	v := e.sess.Visitor()
	text := e.query.Accept(v)
	if p, ok := v.(criteria.Parameterizer); ok {
		return text, p.Params(), nil
	}
	return text, nil, nil
}

// QueryRows runs the query and returns the result rows.
func (e *Exec) QueryRows(ctx context.Context) (*sql.Rows, error) {
	text, params, err := e.SQL()
	if err != nil {
		return nil, err
	}
	db, err := e.db()
	if err != nil {
		return nil, err
	}
	return db.QueryContext(ctx, text, params...)
}

// QueryRow runs the query expecting at most one row.
func (e *Exec) QueryRow(ctx context.Context) (*sql.Row, error) {
	text, params, err := e.SQL()
	if err != nil {
		return nil, err
	}
	db, err := e.db()
	if err != nil {
		return nil, err
	}
	return db.QueryRowContext(ctx, text, params...), nil
}

// Exec runs the query as a statement, for bulk deletes and updates.
func (e *Exec) Exec(ctx context.Context) (sql.Result, error) {
	text, params, err := e.SQL()
	if err != nil {
		return nil, err
	}
	db, err := e.db()
	if err != nil {
		return nil, err
	}
	return db.ExecContext(ctx, text, params...)
}

func (e *Exec) db() (*sql.DB, error) {
	if e.sess.db == nil {
		return nil, fmt.Errorf("%w: session has no database handle", ErrInvalidArgument)
	}
	return e.sess.db, nil
}
