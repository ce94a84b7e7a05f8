package streams

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/plugins"
)

type deleteRestricter struct {
	plugins.BaseTransformer
	pred criteria.Node
}

func (d deleteRestricter) TransformDelete(q *criteria.DeleteQuery) (*criteria.DeleteQuery, error) {
	q.SetRestriction(criteria.And(q.Restriction(), d.pred))
	return q, nil
}

func TestDeleteFromSQL(t *testing.T) {
	t.Parallel()
	sql, params, err := DeleteFrom(pgSession(), usersTable()).
		Filter(func(u *criteria.Root) criteria.Node { return u.Col("id").Eq(7) }).
		SQL()
	require.NoError(t, err)
	require.Equal(t, `DELETE FROM "users" WHERE "users"."id" = $1`, sql)
	require.Equal(t, []any{7}, params)
}

func TestDeleteFromNilTable(t *testing.T) {
	t.Parallel()
	s := DeleteFrom(pgSession(), nil)
	require.ErrorIs(t, s.Err(), ErrInvalidArgument)
}

func TestDeleteFiltersAccumulate(t *testing.T) {
	t.Parallel()
	sql, params, err := DeleteFrom(pgSession(), usersTable()).
		FilterBy("banned").
		Filter(func(u *criteria.Root) criteria.Node { return u.Col("age").Lt(18) }).
		SQL()
	require.NoError(t, err)
	require.Equal(t,
		`DELETE FROM "users" WHERE "users"."banned" = $1 AND "users"."age" < $2`,
		sql)
	require.Equal(t, []any{true, 18}, params)
}

func TestDeleteRejectsBounds(t *testing.T) {
	t.Parallel()
	// Limit comes from the embedded stream; the delete kind refuses it at
	// materialization.
	s := DeleteFrom(pgSession(), usersTable()).Stream.Limit(1)
	_, err := s.ToExec()
	require.ErrorIs(t, err, ErrUnsupportedCombination)

	s = DeleteFrom(pgSession(), usersTable()).Stream.Skip(1)
	_, err = s.ToExec()
	require.ErrorIs(t, err, ErrUnsupportedCombination)
}

func TestDeleteTransformer(t *testing.T) {
	t.Parallel()
	users := usersTable()
	tr := deleteRestricter{pred: users.Col("tenant_id").Eq(3)}

	sql, params, err := DeleteFrom(pgSession(), users).Use(tr).SQL()
	require.NoError(t, err)
	require.Equal(t, `DELETE FROM "users" WHERE "users"."tenant_id" = $1`, sql)
	require.Equal(t, []any{3}, params)
}

func TestDeleteBind(t *testing.T) {
	t.Parallel()
	ref := NewRef[*criteria.Root]()
	_, err := DeleteFrom(pgSession(), usersTable()).Bind(ref).ToQuery()
	require.NoError(t, err)

	root, err := ref.Get()
	require.NoError(t, err)
	require.Equal(t, "users", root.Table.Name)
}

func TestDeleteExecuteNeedsDB(t *testing.T) {
	t.Parallel()
	_, err := DeleteFrom(pgSession(), usersTable()).Execute(t.Context())
	require.ErrorIs(t, err, ErrInvalidArgument)
}
