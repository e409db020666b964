package dictfilter

import "github.com/icedict/rowfilter"

type options struct {
	caseSensitive  bool
	legacyNotEqual bool
}

// FilterOption configures a Filter's binding and evaluation behavior.
type FilterOption func(*options)

// WithCaseSensitive controls whether reference names are matched exactly
// (the default) or case-insensitively against the logical schema.
func WithCaseSensitive(caseSensitive bool) FilterOption {
	return func(o *options) { o.caseSensitive = caseSensitive }
}

// WithLegacyNotEqual switches notEq evaluation to the unresolved reading
// in the design notes — skip only when every candidate value equals the
// literal and nulls cannot occur (the field is required, or the row
// group's chunk reports no nulls) — instead of the default resolved
// behavior (skip whenever every candidate value equals the literal,
// regardless of nullability).
func WithLegacyNotEqual(legacy bool) FilterOption {
	return func(o *options) { o.legacyNotEqual = legacy }
}

// Filter is the public entry point for dictionary-based row-group
// pruning. A single instance is built once per (schema, predicate) pair
// and reused across row groups and physical files; each ShouldRead call
// rebinds the predicate against the physical schema it is given and
// evaluates it against that row group's own materializer, so no state is
// shared across calls.
type Filter struct {
	schema *rowfilter.LogicalSchema
	expr   rowfilter.BooleanExpression
	opts   options
}

// NewFilter captures a logical schema and an unbound predicate tree.
// Binding is deferred to the first ShouldRead call and repeated on every
// call after that, since a physical schema is supplied per call.
func NewFilter(schema *rowfilter.LogicalSchema, expr rowfilter.BooleanExpression, opts ...FilterOption) *Filter {
	o := options{caseSensitive: true}
	for _, apply := range opts {
		apply(&o)
	}

	return &Filter{schema: schema, expr: expr, opts: o}
}

// ShouldRead binds the filter's predicate against physical, evaluates it
// against one row group's metadata and dictionary store, and reports
// whether the group could possibly contain a matching row. A false
// result is authoritative: the group provably has none. A true result is
// conservative: it may have none, but the filter could not prove it.
func (f *Filter) ShouldRead(physical rowfilter.PhysicalSchema, rgMeta RowGroupMetadata, store DictionaryStore) (bool, error) {
	bound, err := rowfilter.BindExpr(f.schema, physical, f.expr, f.opts.caseSensitive)
	if err != nil {
		return false, err
	}

	bound, err = rowfilter.RewriteNotExpr(bound)
	if err != nil {
		return false, err
	}

	result, err := evaluate(bound, NewMaterializer(rgMeta, store), f.opts.legacyNotEqual)
	if err != nil {
		return false, err
	}

	return result != False, nil
}
