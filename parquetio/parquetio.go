// Package parquetio adapts github.com/apache/arrow-go/v18/parquet row
// group metadata and column data to the dictfilter package's
// RowGroupMetadata and DictionaryStore collaborator interfaces, the way
// table/internal's parquetFormat adapts the same library to iceberg's
// own statistics-based evaluators.
package parquetio

import (
	"fmt"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/metadata"
	"github.com/apache/arrow-go/v18/parquet/schema"

	"github.com/icedict/rowfilter"
	"github.com/icedict/rowfilter/dictfilter"
)

// OpenRowGroup builds the dictfilter collaborators for one row group of
// an already-open parquet file.
func OpenRowGroup(rdr *file.Reader, rowGroupIdx int) (dictfilter.RowGroupMetadata, dictfilter.DictionaryStore, error) {
	if rowGroupIdx < 0 || rowGroupIdx >= rdr.NumRowGroups() {
		return nil, nil, fmt.Errorf("parquetio: row group index %d out of range (have %d)", rowGroupIdx, rdr.NumRowGroups())
	}

	index := pathIndex(rdr.MetaData().Schema)
	rgMeta := rdr.MetaData().RowGroup(rowGroupIdx)

	rg := &rowGroup{meta: rgMeta, pathIndex: index}
	store := &dictionaryStore{rdr: rdr, rowGroupIdx: rowGroupIdx}

	return rg, store, nil
}

// PathToLogicalMapping matches logical fields to the parquet schema's leaf
// columns by name and returns, for every logical field whose name matches
// a leaf column, the single-element column path the schema binder's
// physical-schema adapter should resolve it to. The result is keyed by
// field id (id -> path) to match how ColumnDescriptor resolution is
// phrased in this module. Nested paths are not produced: a field matches
// on the leaf column's own name only.
func PathToLogicalMapping(logical *rowfilter.LogicalSchema, physical *schema.Schema) (map[int]rowfilter.ColumnPath, error) {
	byPath := make(map[string]int, physical.NumColumns())
	for i := 0; i < physical.NumColumns(); i++ {
		col := physical.Column(i)
		byPath[col.Name()] = i
	}

	result := make(map[int]rowfilter.ColumnPath, len(logical.Fields()))
	for _, field := range logical.Fields() {
		if _, ok := byPath[field.Name]; !ok {
			continue
		}

		result[field.ID] = rowfilter.ColumnPath{field.Name}
	}

	return result, nil
}

func pathIndex(sc *schema.Schema) map[string]int {
	index := make(map[string]int, sc.NumColumns())
	for i := 0; i < sc.NumColumns(); i++ {
		index[sc.Column(i).Name()] = i
	}

	return index
}

type rowGroup struct {
	meta      *metadata.RowGroupMetaData
	pathIndex map[string]int
}

func (r *rowGroup) ColumnChunk(path rowfilter.ColumnPath) (dictfilter.ColumnChunkMetadata, bool) {
	idx, ok := r.pathIndex[path.String()]
	if !ok {
		return nil, false
	}

	chunk, err := r.meta.ColumnChunk(idx)
	if err != nil {
		return nil, false
	}

	return &columnChunk{chunk: chunk, colIndex: idx}, true
}

type columnChunk struct {
	chunk    *metadata.ColumnChunkMetaData
	colIndex int
}

func (c *columnChunk) Encodings() []rowfilter.Encoding {
	raw := c.chunk.Encodings()
	out := make([]rowfilter.Encoding, 0, len(raw))
	for _, e := range raw {
		out = append(out, mapEncoding(e))
	}

	return out
}

func (c *columnChunk) PhysicalType() rowfilter.PhysicalType {
	return MapPhysicalType(c.chunk.Type())
}

// HasNulls reports whether the chunk's null-count statistic (if present)
// is nonzero. A column chunk with no statistics, or whose null count is
// itself not set, is conservatively reported as possibly containing
// nulls: this module never claims "no nulls" without positive proof.
func (c *columnChunk) HasNulls() bool {
	stats, err := c.chunk.Statistics()
	if err != nil || stats == nil || !stats.HasNullCount() {
		return true
	}

	return stats.NullCount() > 0
}

func mapEncoding(e parquet.Encoding) rowfilter.Encoding {
	switch e {
	case parquet.Encodings.PlainDict, parquet.Encodings.RLEDict:
		return rowfilter.EncodingRLEDictionary
	case parquet.Encodings.DeltaBinaryPacked:
		return rowfilter.EncodingDeltaBinaryPacked
	case parquet.Encodings.DeltaByteArray:
		return rowfilter.EncodingDeltaByteArray
	case parquet.Encodings.ByteStreamSplit:
		return rowfilter.EncodingByteStreamSplit
	default:
		// RLE, BitPacked, Plain and anything this module doesn't
		// recognize are all fallback encodings in the sense that
		// matters here: none of them reference a dictionary.
		return rowfilter.EncodingPlain
	}
}

// MapPhysicalType translates an arrow-go parquet physical type to this
// module's own PhysicalType, the same mapping a command-line caller needs
// when it builds a physical schema adapter directly from a file's schema
// rather than going through OpenRowGroup.
func MapPhysicalType(t parquet.Type) rowfilter.PhysicalType {
	switch t {
	case parquet.Types.Boolean:
		return rowfilter.PhysicalBoolean
	case parquet.Types.Int32:
		return rowfilter.PhysicalInt32
	case parquet.Types.Int64, parquet.Types.Int96:
		return rowfilter.PhysicalInt64
	case parquet.Types.Float:
		return rowfilter.PhysicalFloat32
	case parquet.Types.Double:
		return rowfilter.PhysicalFloat64
	case parquet.Types.FixedLenByteArray:
		return rowfilter.PhysicalFixedLenByteArray
	default:
		return rowfilter.PhysicalByteArray
	}
}

// dictionaryStore reads a column chunk's entire decoded value stream for
// one row group and deduplicates it into a candidate set. arrow-go does
// not expose a public "read the dictionary page only" call the way some
// other parquet libraries do; since ReadDictionary is only ever invoked
// by the materializer after it has confirmed every page in the chunk is
// dictionary-encoded (see dictfilter.fullyDictionaryEncoded), decoding
// the (small, single-row-group) chunk and deduplicating is behaviorally
// equivalent to reading the dictionary page directly.
type dictionaryStore struct {
	rdr         *file.Reader
	rowGroupIdx int
}

// dictionaryPage is a fully materialized, in-memory set of a column
// chunk's distinct values.
type dictionaryPage struct {
	values []any
}

func (d *dictionaryPage) Len() int { return len(d.values) }

func (d *dictionaryPage) Decode(dst []any) error {
	copy(dst, d.values)

	return nil
}

func (d *dictionaryStore) ReadDictionary(chunk dictfilter.ColumnChunkMetadata) (dictfilter.DictionaryPage, error) {
	cc, ok := chunk.(*columnChunk)
	if !ok {
		return nil, fmt.Errorf("parquetio: unexpected column chunk type %T", chunk)
	}

	colReader, err := d.rdr.RowGroup(d.rowGroupIdx).Column(cc.colIndex)
	if err != nil {
		return nil, fmt.Errorf("parquetio: opening column %d: %w", cc.colIndex, err)
	}

	values, err := readDistinctValues(colReader, cc.chunk.NumValues())
	if err != nil {
		return nil, fmt.Errorf("parquetio: reading column %d: %w", cc.colIndex, err)
	}

	return &dictionaryPage{values: values}, nil
}

func readDistinctValues(colReader file.ColumnChunkReader, numValues int64) ([]any, error) {
	seen := make(map[any]struct{})
	out := make([]any, 0)

	addComparable := func(v any) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	addBytes := func(v []byte) {
		key := string(v)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, append([]byte(nil), v...))
	}

	const batchSize = 4096
	defLvls := make([]int16, batchSize)
	repLvls := make([]int16, batchSize)

	var err error
	switch r := colReader.(type) {
	case *file.BooleanColumnChunkReader:
		err = drain(r, make([]bool, batchSize), defLvls, repLvls, numValues, addComparable)
	case *file.Int32ColumnChunkReader:
		err = drain(r, make([]int32, batchSize), defLvls, repLvls, numValues, addComparable)
	case *file.Int64ColumnChunkReader:
		err = drain(r, make([]int64, batchSize), defLvls, repLvls, numValues, addComparable)
	case *file.Float32ColumnChunkReader:
		err = drain(r, make([]float32, batchSize), defLvls, repLvls, numValues, addComparable)
	case *file.Float64ColumnChunkReader:
		err = drain(r, make([]float64, batchSize), defLvls, repLvls, numValues, addComparable)
	case *file.ByteArrayColumnChunkReader:
		err = drainByteArray(r, make([]parquet.ByteArray, batchSize), defLvls, repLvls, numValues, addBytes)
	case *file.FixedLenByteArrayColumnChunkReader:
		err = drainFixedLenByteArray(r, make([]parquet.FixedLenByteArray, batchSize), defLvls, repLvls, numValues, addBytes)
	default:
		return nil, fmt.Errorf("parquetio: unsupported column chunk reader %T", colReader)
	}

	return out, err
}

type typedColumnChunkReader[T any] interface {
	HasNext() bool
	ReadBatch(batchSize int64, values []T, defLvls, repLvls []int16) (total int64, valuesRead int, err error)
}

func drain[T comparable](r typedColumnChunkReader[T], buf []T, defLvls, repLvls []int16, numValues int64, add func(any)) error {
	var read int64
	for r.HasNext() && read < numValues {
		_, n, err := r.ReadBatch(int64(len(buf)), buf, defLvls, repLvls)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		for _, v := range buf[:n] {
			add(v)
		}
		read += int64(n)
	}

	return nil
}

func drainByteArray(r *file.ByteArrayColumnChunkReader, buf []parquet.ByteArray, defLvls, repLvls []int16, numValues int64, add func([]byte)) error {
	var read int64
	for r.HasNext() && read < numValues {
		_, n, err := r.ReadBatch(int64(len(buf)), buf, defLvls, repLvls)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		for _, v := range buf[:n] {
			add(v)
		}
		read += int64(n)
	}

	return nil
}

func drainFixedLenByteArray(r *file.FixedLenByteArrayColumnChunkReader, buf []parquet.FixedLenByteArray, defLvls, repLvls []int16, numValues int64, add func([]byte)) error {
	var read int64
	for r.HasNext() && read < numValues {
		_, n, err := r.ReadBatch(int64(len(buf)), buf, defLvls, repLvls)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		for _, v := range buf[:n] {
			add(v)
		}
		read += int64(n)
	}

	return nil
}
