package rowfilter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icedict/rowfilter"
)

func TestLogicalSchemaLookups(t *testing.T) {
	schema := rowfilter.NewLogicalSchema(
		rowfilter.LogicalField{ID: 1, Name: "id", Required: true, Type: rowfilter.PrimitiveTypes.Int64},
		rowfilter.LogicalField{ID: 2, Name: "Name", Required: false, Type: rowfilter.PrimitiveTypes.String},
	)

	f, ok := schema.FindFieldByName("id")
	assert.True(t, ok)
	assert.Equal(t, 1, f.ID)

	_, ok = schema.FindFieldByName("name")
	assert.False(t, ok, "exact lookup must be case sensitive")

	f, ok = schema.FindFieldByNameCaseInsensitive("name")
	assert.True(t, ok)
	assert.Equal(t, 2, f.ID)

	f, ok = schema.FindFieldByID(1)
	assert.True(t, ok)
	assert.Equal(t, "id", f.Name)

	_, ok = schema.FindFieldByID(99)
	assert.False(t, ok)
}

func TestLogicalSchemaPanicsOnDuplicateName(t *testing.T) {
	assert.Panics(t, func() {
		rowfilter.NewLogicalSchema(
			rowfilter.LogicalField{ID: 1, Name: "id", Type: rowfilter.PrimitiveTypes.Int64},
			rowfilter.LogicalField{ID: 2, Name: "id", Type: rowfilter.PrimitiveTypes.String},
		)
	})
}

func TestLogicalSchemaPanicsOnDuplicateID(t *testing.T) {
	assert.Panics(t, func() {
		rowfilter.NewLogicalSchema(
			rowfilter.LogicalField{ID: 1, Name: "a", Type: rowfilter.PrimitiveTypes.Int64},
			rowfilter.LogicalField{ID: 1, Name: "b", Type: rowfilter.PrimitiveTypes.String},
		)
	})
}

func TestColumnPathEquals(t *testing.T) {
	assert.True(t, rowfilter.ColumnPath{"a", "b"}.Equals(rowfilter.ColumnPath{"a", "b"}))
	assert.False(t, rowfilter.ColumnPath{"a"}.Equals(rowfilter.ColumnPath{"a", "b"}))
	assert.Equal(t, "a.b", rowfilter.ColumnPath{"a", "b"}.String())
}
