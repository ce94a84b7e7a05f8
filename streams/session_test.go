package streams

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/dialect"
	"github.com/bawdo/streamql/internal/testutil"
)

func TestNewSessionRequiresVisitorFactory(t *testing.T) {
	t.Parallel()
	require.Panics(t, func() { NewSession(nil, nil) })
}

func TestSessionFreshVisitorPerCall(t *testing.T) {
	t.Parallel()
	sess := pgSession()
	require.NotSame(t, sess.Visitor(), sess.Visitor())
	require.Nil(t, sess.DB())
}

func TestExecSQLCollectsParamsPerBuild(t *testing.T) {
	t.Parallel()
	s := From(pgSession(), usersTable()).
		Filter(func(u *criteria.Root) criteria.Node { return u.Col("id").Eq(9) })

	e, err := s.ToExec()
	require.NoError(t, err)

	// Each SQL call renders with a fresh visitor, so parameters do not
	// accumulate across renders.
	for i := 0; i < 2; i++ {
		sql, params, err := e.SQL()
		require.NoError(t, err)
		require.Equal(t, `SELECT "users".* FROM "users" WHERE "users"."id" = $1`, sql)
		require.Equal(t, []any{9}, params)
	}
}

func TestExecQueryNeedsDB(t *testing.T) {
	t.Parallel()
	e, err := From(pgSession(), usersTable()).ToExec()
	require.NoError(t, err)

	_, err = e.QueryRows(t.Context())
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = e.QueryRow(t.Context())
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = e.Exec(t.Context())
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestExecQueryAccessor(t *testing.T) {
	t.Parallel()
	e, err := From(pgSession(), usersTable()).ToExec()
	require.NoError(t, err)
	require.IsType(t, &criteria.SelectQuery{}, e.Query())
}

func TestToExecNeedsSession(t *testing.T) {
	t.Parallel()
	s := From(nil, usersTable())
	_, err := s.ToExec()
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStreamKindAccessors(t *testing.T) {
	t.Parallel()
	require.Equal(t, "select", From(pgSession(), usersTable()).QueryKind().Name())
	require.Equal(t, "delete", DeleteFrom(pgSession(), usersTable()).QueryKind().Name())
	require.Equal(t, "update", Update(pgSession(), usersTable()).QueryKind().Name())

	s := From(pgSession(), usersTable())
	require.Equal(t, -1, s.FirstResult())
	require.Equal(t, -1, s.MaxResults())
}

func TestExecRecognizesParameterizer(t *testing.T) {
	t.Parallel()
	// Dialect-independent check of the param plumbing: a stub visitor that
	// implements Parameterizer is queried for params, one that does not is
	// skipped.
	sess := NewSession(nil, func() criteria.Visitor { return &testutil.StubParamVisitor{} })
	sql, params, err := From(sess, usersTable()).SQL()
	require.NoError(t, err)
	require.Equal(t, "select", sql)
	require.Empty(t, params)

	sess = NewSession(nil, func() criteria.Visitor { return testutil.StubVisitor{} })
	sql, params, err = From(sess, usersTable()).SQL()
	require.NoError(t, err)
	require.Equal(t, "select", sql)
	require.Nil(t, params)
}

func TestNonParameterizingVisitorYieldsNoParams(t *testing.T) {
	t.Parallel()
	sess := NewSession(nil, func() criteria.Visitor {
		return dialect.NewPostgresVisitor(dialect.WithoutParams())
	})
	sql, params, err := From(sess, usersTable()).
		Filter(func(u *criteria.Root) criteria.Node { return u.Col("id").Eq(9) }).
		SQL()
	require.NoError(t, err)
	require.Equal(t, `SELECT "users".* FROM "users" WHERE "users"."id" = 9`, sql)
	require.Empty(t, params)
}
