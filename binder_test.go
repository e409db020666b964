package rowfilter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icedict/rowfilter"
)

type fakePhysicalSchema map[string]rowfilter.ColumnDescriptor

func (s fakePhysicalSchema) ResolveColumn(field rowfilter.LogicalField) (rowfilter.ColumnDescriptor, bool) {
	d, ok := s[field.Name]

	return d, ok
}

func testSchema() *rowfilter.LogicalSchema {
	return rowfilter.NewLogicalSchema(
		rowfilter.LogicalField{ID: 1, Name: "id", Required: true, Type: rowfilter.PrimitiveTypes.Int64},
		rowfilter.LogicalField{ID: 2, Name: "name", Required: false, Type: rowfilter.PrimitiveTypes.String},
	)
}

func TestBindExprMissingFieldErrors(t *testing.T) {
	schema := testSchema()
	physical := fakePhysicalSchema{
		"id": {Path: rowfilter.ColumnPath{"id"}, PhysicalType: rowfilter.PhysicalInt64},
	}

	expr := rowfilter.EqualTo(rowfilter.Ref("nonexistent"), int64(1))
	_, err := rowfilter.BindExpr(schema, physical, expr, true)
	assert.ErrorIs(t, err, rowfilter.ErrMissingField)
}

func TestBindExprTypeMismatchErrors(t *testing.T) {
	schema := testSchema()
	physical := fakePhysicalSchema{
		"name": {Path: rowfilter.ColumnPath{"name"}, PhysicalType: rowfilter.PhysicalByteArray},
	}

	// "name" is a string field; comparing it against an int64 literal
	// cannot be coerced.
	expr := rowfilter.EqualTo(rowfilter.Ref("name"), int64(1))
	_, err := rowfilter.BindExpr(schema, physical, expr, true)
	assert.ErrorIs(t, err, rowfilter.ErrTypeMismatch)
}

func TestBindExprResolvesPresentColumn(t *testing.T) {
	schema := testSchema()
	physical := fakePhysicalSchema{
		"id": {Path: rowfilter.ColumnPath{"id"}, PhysicalType: rowfilter.PhysicalInt64},
	}

	expr := rowfilter.EqualTo(rowfilter.Ref("id"), int64(42))
	bound, err := rowfilter.BindExpr(schema, physical, expr, true)
	require.NoError(t, err)

	pred, ok := bound.(rowfilter.BoundPredicate)
	require.True(t, ok)
	ref := pred.Term().Ref()
	assert.True(t, ref.Present())
	assert.Equal(t, rowfilter.ColumnPath{"id"}, ref.Path())
}

func TestBindExprAbsentColumnStillBinds(t *testing.T) {
	schema := testSchema()
	physical := fakePhysicalSchema{} // neither column present in the file

	expr := rowfilter.IsNull(rowfilter.Ref("name"))
	bound, err := rowfilter.BindExpr(schema, physical, expr, true)
	require.NoError(t, err)

	pred := bound.(rowfilter.BoundPredicate)
	ref := pred.Term().Ref()
	assert.False(t, ref.Present())
}

func TestBindExprCaseInsensitiveLookup(t *testing.T) {
	schema := testSchema()
	physical := fakePhysicalSchema{
		"id": {Path: rowfilter.ColumnPath{"id"}, PhysicalType: rowfilter.PhysicalInt64},
	}

	expr := rowfilter.EqualTo(rowfilter.Ref("ID"), int64(1))

	_, err := rowfilter.BindExpr(schema, physical, expr, true)
	assert.ErrorIs(t, err, rowfilter.ErrMissingField)

	_, err = rowfilter.BindExpr(schema, physical, expr, false)
	assert.NoError(t, err)
}

func TestBindExprOnAlreadyBoundTreeErrors(t *testing.T) {
	schema := testSchema()
	physical := fakePhysicalSchema{
		"id": {Path: rowfilter.ColumnPath{"id"}, PhysicalType: rowfilter.PhysicalInt64},
	}

	expr := rowfilter.EqualTo(rowfilter.Ref("id"), int64(1))
	bound, err := rowfilter.BindExpr(schema, physical, expr, true)
	require.NoError(t, err)

	_, err = rowfilter.BindExpr(schema, physical, bound, true)
	assert.ErrorIs(t, err, rowfilter.ErrInvalidArgument)
}
