package rowfilter

import "fmt"

// LogicalType is the tagged variant of logical column types a schema field
// can carry. It intentionally mirrors only the primitive shapes this
// module's predicates need to compare: there is no nested/list/map type
// here, since row-group dictionary pruning only ever looks at leaf columns.
type LogicalType interface {
	fmt.Stringer

	// Type returns the canonical lowercase name of the type, e.g. "int64".
	Type() string
	Equals(LogicalType) bool
}

type primitiveType struct{ name string }

func (p primitiveType) Type() string             { return p.name }
func (p primitiveType) String() string           { return p.name }
func (p primitiveType) Equals(o LogicalType) bool { return p.name == o.Type() }

// concrete singleton types for the fixed-arity primitives, following the
// convention that each logical type is comparable and has a single
// canonical value.
type (
	Int32Type     struct{ primitiveType }
	Int64Type     struct{ primitiveType }
	Float32Type   struct{ primitiveType }
	Float64Type   struct{ primitiveType }
	StringType    struct{ primitiveType }
	BinaryType    struct{ primitiveType }
	DateType      struct{ primitiveType }
	TimestampType struct{ primitiveType }
	UUIDType      struct{ primitiveType }
	BooleanType   struct{ primitiveType }
)

// DecimalType is parameterized by precision and scale, so it cannot be a
// package-level singleton the way the other primitives are.
type DecimalType struct {
	primitiveType
	Precision int
	Scale     int
}

func (d DecimalType) Equals(o LogicalType) bool {
	rhs, ok := o.(DecimalType)

	return ok && d.Precision == rhs.Precision && d.Scale == rhs.Scale
}

func (d DecimalType) String() string {
	return fmt.Sprintf("decimal(%d,%d)", d.Precision, d.Scale)
}

// NewDecimalType constructs a decimal(p,s) logical type.
func NewDecimalType(precision, scale int) DecimalType {
	return DecimalType{primitiveType: primitiveType{name: "decimal"}, Precision: precision, Scale: scale}
}

// PrimitiveTypes holds the shared singleton instances for the fixed-arity
// logical types, the same "table of singletons" shape as the teacher's
// iceberg.PrimitiveTypes.
var PrimitiveTypes = struct {
	Int32     LogicalType
	Int64     LogicalType
	Float32   LogicalType
	Float64   LogicalType
	String    LogicalType
	Binary    LogicalType
	Date      LogicalType
	Timestamp LogicalType
	UUID      LogicalType
	Boolean   LogicalType
}{
	Int32:     Int32Type{primitiveType{"int32"}},
	Int64:     Int64Type{primitiveType{"int64"}},
	Float32:   Float32Type{primitiveType{"float32"}},
	Float64:   Float64Type{primitiveType{"float64"}},
	String:    StringType{primitiveType{"string"}},
	Binary:    BinaryType{primitiveType{"binary"}},
	Date:      DateType{primitiveType{"date"}},
	Timestamp: TimestampType{primitiveType{"timestamp"}},
	UUID:      UUIDType{primitiveType{"uuid"}},
	Boolean:   BooleanType{primitiveType{"boolean"}},
}

// PhysicalType is the tagged variant of storage types a physical column
// descriptor may report, matching the Parquet physical-type vocabulary
// (mirrored, not imported, so this package has no format dependency).
type PhysicalType int

const (
	PhysicalBoolean PhysicalType = iota
	PhysicalInt32
	PhysicalInt64
	PhysicalFloat32
	PhysicalFloat64
	PhysicalByteArray
	PhysicalFixedLenByteArray
)

func (p PhysicalType) String() string {
	switch p {
	case PhysicalBoolean:
		return "BOOLEAN"
	case PhysicalInt32:
		return "INT32"
	case PhysicalInt64:
		return "INT64"
	case PhysicalFloat32:
		return "FLOAT"
	case PhysicalFloat64:
		return "DOUBLE"
	case PhysicalByteArray:
		return "BYTE_ARRAY"
	case PhysicalFixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// Encoding is the tagged variant of per-page encodings a column chunk may
// use. Only the distinction between "references the dictionary" and
// "does not" matters to this module.
type Encoding int

const (
	EncodingPlain Encoding = iota
	EncodingDictionary
	EncodingRLEDictionary
	EncodingDeltaBinaryPacked
	EncodingDeltaByteArray
	EncodingByteStreamSplit
)

// IsFallback reports whether this encoding does not reference a
// dictionary page, i.e. it is a "fallback" encoding in Parquet's sense.
func (e Encoding) IsFallback() bool {
	switch e {
	case EncodingDictionary, EncodingRLEDictionary:
		return false
	default:
		return true
	}
}
