// Package plugins defines the Transformer interface for query middleware.
package plugins

import "github.com/bawdo/streamql/criteria"

// Transformer is the interface that query transformation plugins implement.
// Transformers run at materialization time against a private clone of the
// query context, after the stream's configurers and before SQL generation.
// Plugins embed BaseTransformer and override only the methods they need.
type Transformer interface {
	TransformSelect(q *criteria.SelectQuery) (*criteria.SelectQuery, error)
	TransformUpdate(q *criteria.UpdateQuery) (*criteria.UpdateQuery, error)
	TransformDelete(q *criteria.DeleteQuery) (*criteria.DeleteQuery, error)
}

// BaseTransformer provides no-op defaults for all Transformer methods.
// Plugins embed this and override only the methods they care about.
type BaseTransformer struct{}

func (BaseTransformer) TransformSelect(q *criteria.SelectQuery) (*criteria.SelectQuery, error) {
	return q, nil
}
func (BaseTransformer) TransformUpdate(q *criteria.UpdateQuery) (*criteria.UpdateQuery, error) {
	return q, nil
}
func (BaseTransformer) TransformDelete(q *criteria.DeleteQuery) (*criteria.DeleteQuery, error) {
	return q, nil
}
