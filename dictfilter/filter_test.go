package dictfilter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icedict/rowfilter"
	"github.com/icedict/rowfilter/dictfilter"
)

// fakeChunk is an in-memory ColumnChunkMetadata that also carries the raw
// physical-type dictionary values it would decode to, sidestepping the
// need for a separate keyed DictionaryStore lookup.
type fakeChunk struct {
	physical  rowfilter.PhysicalType
	encodings []rowfilter.Encoding
	values    []any
	hasNulls  bool
}

func (c fakeChunk) Encodings() []rowfilter.Encoding      { return c.encodings }
func (c fakeChunk) PhysicalType() rowfilter.PhysicalType { return c.physical }
func (c fakeChunk) HasNulls() bool                       { return c.hasNulls }

type fakeRowGroup map[string]fakeChunk

func (rg fakeRowGroup) ColumnChunk(path rowfilter.ColumnPath) (dictfilter.ColumnChunkMetadata, bool) {
	c, ok := rg[path.String()]

	return c, ok
}

type fakeDictStore struct{}

func (fakeDictStore) ReadDictionary(chunk dictfilter.ColumnChunkMetadata) (dictfilter.DictionaryPage, error) {
	return fakeDictPage{values: chunk.(fakeChunk).values}, nil
}

type fakeDictPage struct{ values []any }

func (p fakeDictPage) Len() int { return len(p.values) }
func (p fakeDictPage) Decode(dst []any) error {
	copy(dst, p.values)

	return nil
}

type fakePhysicalSchema map[string]rowfilter.ColumnDescriptor

func (s fakePhysicalSchema) ResolveColumn(field rowfilter.LogicalField) (rowfilter.ColumnDescriptor, bool) {
	d, ok := s[field.Name]

	return d, ok
}

func bytesOf(s string) []byte { return []byte(s) }

// fixtureSchema builds the logical schema for spec §8's end-to-end
// fixture: a row group with an int id column spanning [30,79], a
// required string column, an all-null optional column, a some-nulls
// optional column, a no-nulls optional column, a dictionary-backed
// column whose values happen to exceed a stats budget elsewhere in the
// pipeline (irrelevant here; only the dictionary itself matters), a
// non-dictionary-encoded column, and a column entirely absent from the
// physical file.
func fixtureSchema() *rowfilter.LogicalSchema {
	return rowfilter.NewLogicalSchema(
		rowfilter.LogicalField{ID: 1, Name: "id", Required: true, Type: rowfilter.PrimitiveTypes.Int64},
		rowfilter.LogicalField{ID: 2, Name: "required", Required: true, Type: rowfilter.PrimitiveTypes.String},
		rowfilter.LogicalField{ID: 3, Name: "all_nulls", Required: false, Type: rowfilter.PrimitiveTypes.Int64},
		rowfilter.LogicalField{ID: 4, Name: "some_nulls", Required: false, Type: rowfilter.PrimitiveTypes.String},
		rowfilter.LogicalField{ID: 5, Name: "no_nulls", Required: false, Type: rowfilter.PrimitiveTypes.String},
		rowfilter.LogicalField{ID: 6, Name: "no_stats", Required: false, Type: rowfilter.PrimitiveTypes.String},
		rowfilter.LogicalField{ID: 7, Name: "non_dict", Required: false, Type: rowfilter.PrimitiveTypes.String},
		rowfilter.LogicalField{ID: 8, Name: "not_in_file", Required: false, Type: rowfilter.PrimitiveTypes.Float64},
	)
}

func fixturePhysical() fakePhysicalSchema {
	return fakePhysicalSchema{
		"id":         {Path: rowfilter.ColumnPath{"id"}, PhysicalType: rowfilter.PhysicalInt64},
		"required":   {Path: rowfilter.ColumnPath{"required"}, PhysicalType: rowfilter.PhysicalByteArray},
		"all_nulls":  {Path: rowfilter.ColumnPath{"all_nulls"}, PhysicalType: rowfilter.PhysicalInt64},
		"some_nulls": {Path: rowfilter.ColumnPath{"some_nulls"}, PhysicalType: rowfilter.PhysicalByteArray},
		"no_nulls":   {Path: rowfilter.ColumnPath{"no_nulls"}, PhysicalType: rowfilter.PhysicalByteArray},
		"no_stats":   {Path: rowfilter.ColumnPath{"no_stats"}, PhysicalType: rowfilter.PhysicalByteArray},
		"non_dict":   {Path: rowfilter.ColumnPath{"non_dict"}, PhysicalType: rowfilter.PhysicalByteArray},
		// not_in_file deliberately has no entry: the column is absent
		// from the physical file entirely.
	}
}

func fixtureRowGroup() fakeRowGroup {
	ids := make([]any, 0, 50)
	for v := int64(30); v <= 79; v++ {
		ids = append(ids, v)
	}

	dict := []rowfilter.Encoding{rowfilter.EncodingRLEDictionary}

	return fakeRowGroup{
		"id":         {physical: rowfilter.PhysicalInt64, encodings: dict, values: ids, hasNulls: false},
		"required":   {physical: rowfilter.PhysicalByteArray, encodings: dict, values: []any{bytesOf("req")}, hasNulls: false},
		"all_nulls":  {physical: rowfilter.PhysicalInt64, encodings: dict, values: []any{}, hasNulls: true},
		"some_nulls": {physical: rowfilter.PhysicalByteArray, encodings: dict, values: []any{bytesOf("some")}, hasNulls: true},
		"no_nulls":   {physical: rowfilter.PhysicalByteArray, encodings: dict, values: []any{bytesOf("")}, hasNulls: false},
		"no_stats":   {physical: rowfilter.PhysicalByteArray, encodings: dict, values: []any{bytesOf("b"), bytesOf("c")}, hasNulls: true},
		"non_dict":   {physical: rowfilter.PhysicalByteArray, encodings: []rowfilter.Encoding{rowfilter.EncodingPlain}},
	}
}

func TestFixtureEndToEndScenarios(t *testing.T) {
	schema := fixtureSchema()
	physical := fixturePhysical()
	rg := fixtureRowGroup()
	store := fakeDictStore{}

	cases := []struct {
		name string
		expr rowfilter.BooleanExpression
		want bool
	}{
		{"1_lt_id_30", rowfilter.LessThan(rowfilter.Ref("id"), int64(30)), false},
		{"2_lt_id_31", rowfilter.LessThan(rowfilter.Ref("id"), int64(31)), true},
		{"3_ltEq_id_29", rowfilter.LessThanEqual(rowfilter.Ref("id"), int64(29)), false},
		{"4_ltEq_id_30", rowfilter.LessThanEqual(rowfilter.Ref("id"), int64(30)), true},
		{"5_gt_id_79", rowfilter.GreaterThan(rowfilter.Ref("id"), int64(79)), false},
		{"6_gtEq_id_80", rowfilter.GreaterThanEqual(rowfilter.Ref("id"), int64(80)), false},
		{"7_eq_id_29", rowfilter.EqualTo(rowfilter.Ref("id"), int64(29)), false},
		{"8_eq_id_30", rowfilter.EqualTo(rowfilter.Ref("id"), int64(30)), true},
		{"9_eq_id_79", rowfilter.EqualTo(rowfilter.Ref("id"), int64(79)), true},
		{"10_eq_id_80", rowfilter.EqualTo(rowfilter.Ref("id"), int64(80)), false},
		{"11_notEq_id_5", rowfilter.NotEqualTo(rowfilter.Ref("id"), int64(5)), true},
		{"12_isNull_required", rowfilter.IsNull(rowfilter.Ref("required")), false},
		{"13_notNull_required", rowfilter.NotNull(rowfilter.Ref("required")), true},
		{"14_eq_no_stats_a", rowfilter.EqualTo(rowfilter.Ref("no_stats"), "a"), false},
		{"15_eq_non_dict_a", rowfilter.EqualTo(rowfilter.Ref("non_dict"), "a"), true},
		{"16_eq_not_in_file", rowfilter.EqualTo(rowfilter.Ref("not_in_file"), float64(1.0)), true},
		{
			"17_and_lt5_gtEq0",
			rowfilter.And(
				rowfilter.LessThan(rowfilter.Ref("id"), int64(5)),
				rowfilter.GreaterThanEqual(rowfilter.Ref("id"), int64(0)),
			),
			false,
		},
		{
			"18_or_lt5_gtEq60",
			rowfilter.Or(
				rowfilter.LessThan(rowfilter.Ref("id"), int64(5)),
				rowfilter.GreaterThanEqual(rowfilter.Ref("id"), int64(60)),
			),
			true,
		},
		{"19_notEq_no_nulls_empty", rowfilter.NotEqualTo(rowfilter.Ref("no_nulls"), ""), false},
		// Row 20 reads "true" in the historical fixture this scenario is
		// grounded on (see TestLegacyNotEqualOptInMatchesHistoricalFixture),
		// but the resolved default semantics documented alongside notEq
		// skip unconditionally once S \ {v} is empty, independent of
		// nullability — a null can never satisfy c != v.
		{"20_notEq_some_nulls_some", rowfilter.NotEqualTo(rowfilter.Ref("some_nulls"), "some"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			filter := dictfilter.NewFilter(schema, tc.expr)
			got, err := filter.ShouldRead(physical, rg, store)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got, "shouldRead mismatch for %s", tc.name)
		})
	}
}

func TestFixtureMissingFieldFails(t *testing.T) {
	schema := fixtureSchema()
	physical := fixturePhysical()
	rg := fixtureRowGroup()
	store := fakeDictStore{}

	filter := dictfilter.NewFilter(schema, rowfilter.LessThan(rowfilter.Ref("missing"), int64(5)))
	_, err := filter.ShouldRead(physical, rg, store)
	assert.ErrorIs(t, err, rowfilter.ErrMissingField)
}

// TestNotNegationDoesNotChangeResult exercises property 5 from the design
// notes (De Morgan normalization): not(not(p)) must evaluate the same as
// p for every row group in the fixture.
func TestNotNegationDoesNotChangeResult(t *testing.T) {
	schema := fixtureSchema()
	physical := fixturePhysical()
	rg := fixtureRowGroup()
	store := fakeDictStore{}

	p := rowfilter.EqualTo(rowfilter.Ref("id"), int64(30))

	direct, err := dictfilter.NewFilter(schema, p).ShouldRead(physical, rg, store)
	require.NoError(t, err)

	doubleNegated, err := dictfilter.NewFilter(schema, rowfilter.Not(rowfilter.Not(p))).ShouldRead(physical, rg, store)
	require.NoError(t, err)

	assert.Equal(t, direct, doubleNegated)
}

// TestRequiredFieldNullPredicatesAreDecisive covers property 4: a
// required field with a dictionary always resolves isNull to false and
// notNull to true, regardless of the candidate values themselves.
func TestRequiredFieldNullPredicatesAreDecisive(t *testing.T) {
	schema := fixtureSchema()
	physical := fixturePhysical()
	rg := fixtureRowGroup()
	store := fakeDictStore{}

	isNull, err := dictfilter.NewFilter(schema, rowfilter.IsNull(rowfilter.Ref("id"))).ShouldRead(physical, rg, store)
	require.NoError(t, err)
	assert.False(t, isNull)

	notNull, err := dictfilter.NewFilter(schema, rowfilter.NotNull(rowfilter.Ref("id"))).ShouldRead(physical, rg, store)
	require.NoError(t, err)
	assert.True(t, notNull)
}

// TestLegacyNotEqualOptInMatchesHistoricalFixture reproduces the
// original test matrix's notEq expectations for both some_nulls and
// no_nulls: both columns are schema-optional with a singleton dictionary
// matching the comparison literal, but only some_nulls's chunk actually
// contains nulls in this row group. The legacy reading reads only
// when nulls genuinely cannot be ruled out; the resolved default skips
// both regardless.
func TestLegacyNotEqualOptInMatchesHistoricalFixture(t *testing.T) {
	schema := fixtureSchema()
	physical := fixturePhysical()
	rg := fixtureRowGroup()
	store := fakeDictStore{}

	someNulls := rowfilter.NotEqualTo(rowfilter.Ref("some_nulls"), "some")
	noNulls := rowfilter.NotEqualTo(rowfilter.Ref("no_nulls"), "")

	resolvedSome, err := dictfilter.NewFilter(schema, someNulls).ShouldRead(physical, rg, store)
	require.NoError(t, err)
	assert.False(t, resolvedSome)

	legacySome, err := dictfilter.NewFilter(schema, someNulls, dictfilter.WithLegacyNotEqual(true)).ShouldRead(physical, rg, store)
	require.NoError(t, err)
	assert.True(t, legacySome)

	legacyNoNulls, err := dictfilter.NewFilter(schema, noNulls, dictfilter.WithLegacyNotEqual(true)).ShouldRead(physical, rg, store)
	require.NoError(t, err)
	assert.False(t, legacyNoNulls)
}
