// Package softdelete provides a Transformer that automatically injects
// "column IS NULL" conditions into select, update, and delete queries,
// filtering out soft-deleted rows.
//
// By default it conjoins "deleted_at" IS NULL for every root the query
// draws from. Both the column name and the set of tables can be
// customised via options.
//
// # Basic usage
//
//	sd := softdelete.New()
//	stream := streams.From(sess, users).Use(sd)
//	// SELECT "users".* FROM "users" WHERE "users"."deleted_at" IS NULL
//
// # Custom column
//
//	sd := softdelete.New(softdelete.WithColumn("removed_at"))
//	// ... WHERE "users"."removed_at" IS NULL
//
// # Restrict to specific tables
//
// When a query draws from multiple tables but only some use soft-delete:
//
//	sd := softdelete.New(softdelete.WithTables("users"))
//	// Only "users" gets the IS NULL condition; other roots are unchanged.
//
// # Per-table columns
//
// Different tables may use different column names for soft-delete:
//
//	sd := softdelete.New(
//	    softdelete.WithTableColumn("users", "deleted_at"),
//	    softdelete.WithTableColumn("posts", "removed_at"),
//	)
//	// users gets "deleted_at" IS NULL; posts gets "removed_at" IS NULL
//
// # REPL usage
//
//	streamql> plugin softdelete
//	streamql> plugin softdelete removed_at
//	streamql> plugin softdelete removed_at on users posts
//	streamql> plugin softdelete users.deleted_at, posts.removed_at
//	streamql> plugin off softdelete
//	streamql> plugins
package softdelete

import (
	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/plugins"
)

// SoftDelete is a Transformer that conjoins IS NULL conditions for a
// soft-delete column on every referenced table (or a configured subset).
type SoftDelete struct {
	plugins.BaseTransformer
	Column  string
	Columns map[string]string // per-table column overrides (table name → column name)
	tables  map[string]bool   // nil means apply to all tables
}

// Option configures a SoftDelete transformer.
type Option func(*SoftDelete)

// WithColumn sets the soft-delete column name. Default is "deleted_at".
func WithColumn(name string) Option {
	return func(sd *SoftDelete) { sd.Column = name }
}

// WithTables restricts the plugin to only the named tables.
// By default, the plugin applies to every table in the query.
func WithTables(names ...string) Option {
	return func(sd *SoftDelete) {
		sd.tables = make(map[string]bool, len(names))
		for _, n := range names {
			sd.tables[n] = true
		}
	}
}

// WithTableColumn sets a per-table column override. The table is
// automatically added to the whitelist, restricting the plugin's scope.
func WithTableColumn(table, column string) Option {
	return func(sd *SoftDelete) {
		if sd.Columns == nil {
			sd.Columns = make(map[string]string)
		}
		sd.Columns[table] = column
		if sd.tables == nil {
			sd.tables = make(map[string]bool)
		}
		sd.tables[table] = true
	}
}

// New creates a SoftDelete transformer with the given options.
func New(opts ...Option) *SoftDelete {
	sd := &SoftDelete{Column: "deleted_at"}
	for _, o := range opts {
		o(sd)
	}
	return sd
}

// TransformSelect conjoins "column IS NULL" with the restriction for each
// matching root the query draws from.
func (sd *SoftDelete) TransformSelect(q *criteria.SelectQuery) (*criteria.SelectQuery, error) {
	for _, ref := range plugins.CollectRoots(q) {
		if sd.appliesTo(ref.Name) {
			attr := criteria.NewAttribute(ref.Relation, sd.columnFor(ref.Name))
			q.Where = criteria.And(q.Where, attr.IsNull())
		}
	}
	return q, nil
}

// TransformUpdate conjoins the IS NULL condition on the update target, so
// bulk updates skip soft-deleted rows.
func (sd *SoftDelete) TransformUpdate(q *criteria.UpdateQuery) (*criteria.UpdateQuery, error) {
	if q.Target != nil && sd.appliesTo(q.Target.Table.Name) {
		attr := q.Target.Col(sd.columnFor(q.Target.Table.Name))
		q.Where = criteria.And(q.Where, attr.IsNull())
	}
	return q, nil
}

// TransformDelete conjoins the IS NULL condition on the delete target, so
// bulk deletes leave already soft-deleted rows alone.
func (sd *SoftDelete) TransformDelete(q *criteria.DeleteQuery) (*criteria.DeleteQuery, error) {
	if q.Target != nil && sd.appliesTo(q.Target.Table.Name) {
		attr := q.Target.Col(sd.columnFor(q.Target.Table.Name))
		q.Where = criteria.And(q.Where, attr.IsNull())
	}
	return q, nil
}

func (sd *SoftDelete) appliesTo(tableName string) bool {
	if sd.tables == nil {
		return true
	}
	return sd.tables[tableName]
}

// columnFor returns the column name to use for the given table.
// It checks Columns for a per-table override, falling back to Column.
func (sd *SoftDelete) columnFor(tableName string) string {
	if sd.Columns != nil {
		if col, ok := sd.Columns[tableName]; ok {
			return col
		}
	}
	return sd.Column
}
