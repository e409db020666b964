// Package dictfilter implements row-group pruning by materializing and
// querying per-column dictionary pages against a bound predicate tree.
package dictfilter

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/icedict/rowfilter"
)

// ColumnChunkMetadata is what the materializer needs from a file reader
// about one column's chunk within a row group, to decide whether the
// column is eligible for dictionary-based pruning in this group.
type ColumnChunkMetadata interface {
	Encodings() []rowfilter.Encoding
	PhysicalType() rowfilter.PhysicalType
	// HasNulls reports whether this row group's chunk may contain null
	// values for the column, independent of the schema's own required/
	// optional declaration. A chunk whose null-count statistic is
	// unavailable must report true: the notEq leaf treats "don't know"
	// the same as "nulls possible", never the other way around.
	HasNulls() bool
}

// RowGroupMetadata is the row-group-level external collaborator: it maps
// a physical column path to its chunk metadata, or reports that the
// column has no chunk in this group (the physical schema carries the
// column overall, but a particular row group might not, in principle —
// in practice this is equivalent to Absent for this module's purposes).
type RowGroupMetadata interface {
	ColumnChunk(path rowfilter.ColumnPath) (ColumnChunkMetadata, bool)
}

// DictionaryPage is a decoded or lazily-decodable dictionary page. Decode
// fills dst (sized by the caller to Len()) with the page's entries in
// their physical Go representation (bool, int32, int64, float32, float64,
// or []byte), left for the materializer to promote to a logical literal.
type DictionaryPage interface {
	Len() int
	Decode(dst []any) error
}

// DictionaryStore reads the dictionary page for a column chunk that has
// already been established as fully dictionary-encoded.
type DictionaryStore interface {
	ReadDictionary(chunk ColumnChunkMetadata) (DictionaryPage, error)
}

// Status is the outcome of materializing one column's dictionary within
// one row group.
type Status int

const (
	// StatusAbsent means the column is not present in the physical
	// schema, or has no chunk in this row group.
	StatusAbsent Status = iota
	// StatusNotDict means the column is present but has no dictionary
	// page, or mixes in a fallback encoding somewhere in the group.
	StatusNotDict
	// StatusDict means the column is fully dictionary-encoded in this
	// group; Values holds every distinct non-null value it contains.
	StatusDict
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "Absent"
	case StatusNotDict:
		return "NotDict"
	case StatusDict:
		return "Dict"
	default:
		return "Unknown"
	}
}

// ColumnResult is the per-column outcome of materialization.
type ColumnResult struct {
	Status Status
	Values []rowfilter.Literal
	// HasNulls is only meaningful when Status is StatusDict: it reports
	// whether this particular row group's chunk may contain nulls,
	// which for an optional column is a stronger (and different) fact
	// than the schema's required/optional declaration — a column can be
	// declared optional yet happen to contain no nulls in one group.
	HasNulls bool
}

// Materializer resolves and caches column dictionary status for a single
// row group. It is not safe for concurrent use; callers construct one per
// shouldRead call and discard it afterward.
type Materializer struct {
	rgMeta RowGroupMetadata
	store  DictionaryStore
	cache  map[string]ColumnResult
}

// NewMaterializer builds a materializer over one row group's metadata and
// dictionary store.
func NewMaterializer(rgMeta RowGroupMetadata, store DictionaryStore) *Materializer {
	return &Materializer{rgMeta: rgMeta, store: store, cache: make(map[string]ColumnResult)}
}

// Status returns the dictionary status for the column a bound reference
// points at, reading and decoding the dictionary page at most once per
// column path for the lifetime of the materializer.
func (m *Materializer) Status(ref rowfilter.BoundReference) (ColumnResult, error) {
	if !ref.Present() {
		return ColumnResult{Status: StatusAbsent}, nil
	}

	key := ref.Path().String()
	if cached, ok := m.cache[key]; ok {
		return cached, nil
	}

	result, err := m.materialize(ref)
	if err != nil {
		return ColumnResult{}, err
	}

	m.cache[key] = result

	return result, nil
}

func (m *Materializer) materialize(ref rowfilter.BoundReference) (ColumnResult, error) {
	chunk, ok := m.rgMeta.ColumnChunk(ref.Path())
	if !ok {
		return ColumnResult{Status: StatusAbsent}, nil
	}

	if !fullyDictionaryEncoded(chunk.Encodings()) {
		return ColumnResult{Status: StatusNotDict}, nil
	}

	page, err := m.store.ReadDictionary(chunk)
	if err != nil {
		return ColumnResult{}, fmt.Errorf("dictfilter: reading dictionary for %s: %w", ref.Path(), err)
	}

	raw := make([]any, page.Len())
	if err := page.Decode(raw); err != nil {
		return ColumnResult{}, fmt.Errorf("dictfilter: decoding dictionary for %s: %w", ref.Path(), err)
	}

	values, err := promote(raw, chunk.PhysicalType(), ref.Type())
	if err != nil {
		return ColumnResult{}, fmt.Errorf("dictfilter: promoting dictionary for %s: %w", ref.Path(), err)
	}

	return ColumnResult{Status: StatusDict, Values: values, HasNulls: chunk.HasNulls()}, nil
}

// fullyDictionaryEncoded reports whether every encoding a column chunk
// declares references the dictionary. A chunk with no encodings at all
// is treated as not dictionary-encoded (there is nothing to read).
func fullyDictionaryEncoded(encodings []rowfilter.Encoding) bool {
	if len(encodings) == 0 {
		return false
	}
	for _, e := range encodings {
		if e.IsFallback() {
			return false
		}
	}

	return true
}

// promote converts a dictionary page's raw physical-type values into
// literals of the column's logical type, applying the same widening
// rules the schema binder applies to predicate literals (int32 -> int64,
// float32 -> float64, and so on) via Literal.To.
func promote(raw []any, physical rowfilter.PhysicalType, logical rowfilter.LogicalType) ([]rowfilter.Literal, error) {
	out := make([]rowfilter.Literal, 0, len(raw))
	for _, v := range raw {
		lit, err := literalFromPhysical(v, physical, logical)
		if err != nil {
			return nil, err
		}

		coerced, err := lit.To(logical)
		if err != nil {
			return nil, err
		}

		out = append(out, coerced)
	}

	return out, nil
}

func literalFromPhysical(v any, physical rowfilter.PhysicalType, logical rowfilter.LogicalType) (rowfilter.Literal, error) {
	switch physical {
	case rowfilter.PhysicalBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: expected bool dictionary entry, got %T", rowfilter.ErrTypeMismatch, v)
		}

		return rowfilter.NewLiteral(b), nil
	case rowfilter.PhysicalInt32:
		i, ok := v.(int32)
		if !ok {
			return nil, fmt.Errorf("%w: expected int32 dictionary entry, got %T", rowfilter.ErrTypeMismatch, v)
		}

		return rowfilter.NewLiteral(i), nil
	case rowfilter.PhysicalInt64:
		i, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("%w: expected int64 dictionary entry, got %T", rowfilter.ErrTypeMismatch, v)
		}

		return rowfilter.NewLiteral(i), nil
	case rowfilter.PhysicalFloat32:
		f, ok := v.(float32)
		if !ok {
			return nil, fmt.Errorf("%w: expected float32 dictionary entry, got %T", rowfilter.ErrTypeMismatch, v)
		}

		return rowfilter.NewLiteral(f), nil
	case rowfilter.PhysicalFloat64:
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: expected float64 dictionary entry, got %T", rowfilter.ErrTypeMismatch, v)
		}

		return rowfilter.NewLiteral(f), nil
	case rowfilter.PhysicalByteArray, rowfilter.PhysicalFixedLenByteArray:
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: expected []byte dictionary entry, got %T", rowfilter.ErrTypeMismatch, v)
		}
		if _, isUUID := logical.(rowfilter.UUIDType); isUUID {
			id, err := uuid.FromBytes(b)
			if err != nil {
				return nil, fmt.Errorf("%w: dictionary entry is not a valid uuid: %v", rowfilter.ErrTypeMismatch, err)
			}

			return rowfilter.NewLiteral(id), nil
		}

		return rowfilter.NewBinaryLiteral(b), nil
	default:
		return nil, fmt.Errorf("%w: unsupported physical type %s", rowfilter.ErrTypeMismatch, physical)
	}
}
