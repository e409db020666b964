package rowfilter

import (
	"bytes"
	"cmp"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Decimal is a fixed-point value carried as an int64 unscaled integer
// and a scale, matching the shape used for parquet FIXED_LEN_BYTE_ARRAY
// decimal columns.
type Decimal struct {
	Unscaled int64
	Scale    int
}

func (d Decimal) String() string { return fmt.Sprintf("%d/10^%d", d.Unscaled, d.Scale) }

// LiteralType enumerates the Go types that can back a typed Literal. It is
// the type-set analogue of the teacher's LiteralType constraint, narrowed
// to the primitives this module's predicates operate over.
type LiteralType interface {
	bool | int32 | int64 | float32 | float64 | string | Decimal | uuid.UUID
}

// BinaryLiteral is handled separately from the LiteralType-constrained
// generics below because []byte is not a valid comparable type argument
// for a constraint that must also support map keys used elsewhere.

// Comparator orders two values of the same literal type. It returns a
// negative number, zero, or a positive number the way cmp.Compare does.
// For floating point types, NaN is never equal to and never ordered
// relative to any value including itself; comparisons involving NaN
// should be treated as "unknown" by callers, not as a definite ordering.
type Comparator[T LiteralType] func(a, b T) int

// Literal is a type-erased typed value used as the right-hand side of a
// comparison predicate.
type Literal interface {
	fmt.Stringer
	Type() LogicalType
	Any() any
	Equals(Literal) bool
	// To coerces this literal to another logical type, following the
	// "standard promotion" rules in the data model (e.g. int32 -> int64
	// widening). Returns ErrTypeMismatch if the coercion is not safe.
	To(LogicalType) (Literal, error)
}

// TypedLiteral exposes the underlying Go value and a type-specific
// comparator for a Literal whose type parameter is known.
type TypedLiteral[T LiteralType] interface {
	Literal
	Value() T
	Comparator() Comparator[T]
}

// NewLiteral builds a Literal from a concrete Go value.
func NewLiteral[T LiteralType](v T) Literal {
	switch val := any(v).(type) {
	case bool:
		return BoolLiteral(val)
	case int32:
		return Int32Literal(val)
	case int64:
		return Int64Literal(val)
	case float32:
		return Float32Literal(val)
	case float64:
		return Float64Literal(val)
	case string:
		return StringLiteral(val)
	case Decimal:
		return DecimalLiteral(val)
	case uuid.UUID:
		return UUIDLiteral(val)
	default:
		panic(fmt.Errorf("%w: unsupported literal type %T", ErrInvalidArgument, v))
	}
}

// NewBinaryLiteral builds a Literal over a raw byte slice, used for both
// fixed-length and variable-length byte-array columns.
func NewBinaryLiteral(v []byte) Literal { return BinaryLiteral(append([]byte(nil), v...)) }

func floatCmp[T ~float32 | ~float64](a, b T) int {
	// A plain float comparison: any comparison involving NaN falls through
	// to the default case and returns 0, which is not a real ordering.
	// Callers must guard NaN before trusting the result, as the
	// dictionary evaluator's compareOrdered does.
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func isNaNValue(v any) bool {
	switch t := v.(type) {
	case float32:
		return math.IsNaN(float64(t))
	case float64:
		return math.IsNaN(t)
	default:
		return false
	}
}

type BoolLiteral bool

func (b BoolLiteral) Type() LogicalType   { return PrimitiveTypes.Boolean }
func (b BoolLiteral) Value() bool         { return bool(b) }
func (b BoolLiteral) Any() any            { return b.Value() }
func (b BoolLiteral) String() string      { return fmt.Sprintf("%t", bool(b)) }
func (BoolLiteral) Comparator() Comparator[bool] {
	return func(a, bb bool) int {
		switch {
		case a == bb:
			return 0
		case !a:
			return -1
		default:
			return 1
		}
	}
}
func (b BoolLiteral) Equals(o Literal) bool {
	rhs, ok := o.(BoolLiteral)

	return ok && b == rhs
}
func (b BoolLiteral) To(t LogicalType) (Literal, error) {
	if _, ok := t.(BooleanType); ok {
		return b, nil
	}

	return nil, fmt.Errorf("%w: cannot coerce bool literal to %s", ErrTypeMismatch, t)
}

type Int32Literal int32

func (i Int32Literal) Type() LogicalType         { return PrimitiveTypes.Int32 }
func (i Int32Literal) Value() int32              { return int32(i) }
func (i Int32Literal) Any() any                  { return i.Value() }
func (i Int32Literal) String() string            { return fmt.Sprintf("%d", int32(i)) }
func (Int32Literal) Comparator() Comparator[int32] { return cmp.Compare[int32] }
func (i Int32Literal) Equals(o Literal) bool {
	rhs, ok := o.(Int32Literal)

	return ok && i == rhs
}
func (i Int32Literal) To(t LogicalType) (Literal, error) {
	switch t.(type) {
	case Int32Type:
		return i, nil
	case Int64Type:
		return Int64Literal(int64(i)), nil
	case DecimalType:
		return DecimalLiteral{Unscaled: int64(i), Scale: 0}.To(t)
	}

	return nil, fmt.Errorf("%w: cannot coerce int32 literal to %s", ErrTypeMismatch, t)
}

type Int64Literal int64

func (i Int64Literal) Type() LogicalType         { return PrimitiveTypes.Int64 }
func (i Int64Literal) Value() int64              { return int64(i) }
func (i Int64Literal) Any() any                  { return i.Value() }
func (i Int64Literal) String() string            { return fmt.Sprintf("%d", int64(i)) }
func (Int64Literal) Comparator() Comparator[int64] { return cmp.Compare[int64] }
func (i Int64Literal) Equals(o Literal) bool {
	rhs, ok := o.(Int64Literal)

	return ok && i == rhs
}
func (i Int64Literal) To(t LogicalType) (Literal, error) {
	switch t.(type) {
	case Int64Type:
		return i, nil
	case Int32Type:
		if int64(int32(i)) != int64(i) {
			return nil, fmt.Errorf("%w: int64 literal %d overflows int32", ErrTypeMismatch, i)
		}

		return Int32Literal(int32(i)), nil
	case DecimalType:
		return DecimalLiteral{Unscaled: int64(i), Scale: 0}.To(t)
	}

	return nil, fmt.Errorf("%w: cannot coerce int64 literal to %s", ErrTypeMismatch, t)
}

type Float32Literal float32

func (f Float32Literal) Type() LogicalType { return PrimitiveTypes.Float32 }
func (f Float32Literal) Value() float32    { return float32(f) }
func (f Float32Literal) Any() any          { return f.Value() }
func (f Float32Literal) String() string    { return fmt.Sprintf("%g", float32(f)) }
func (Float32Literal) Comparator() Comparator[float32] { return floatCmp[float32] }
func (f Float32Literal) Equals(o Literal) bool {
	rhs, ok := o.(Float32Literal)
	if !ok {
		return false
	}
	// NaN is never equal to anything, including another NaN, per spec.
	if math.IsNaN(float64(f)) || math.IsNaN(float64(rhs)) {
		return false
	}

	return f == rhs
}
func (f Float32Literal) To(t LogicalType) (Literal, error) {
	switch t.(type) {
	case Float32Type:
		return f, nil
	case Float64Type:
		return Float64Literal(float64(f)), nil
	}

	return nil, fmt.Errorf("%w: cannot coerce float32 literal to %s", ErrTypeMismatch, t)
}

type Float64Literal float64

func (f Float64Literal) Type() LogicalType { return PrimitiveTypes.Float64 }
func (f Float64Literal) Value() float64    { return float64(f) }
func (f Float64Literal) Any() any          { return f.Value() }
func (f Float64Literal) String() string    { return fmt.Sprintf("%g", float64(f)) }
func (Float64Literal) Comparator() Comparator[float64] { return floatCmp[float64] }
func (f Float64Literal) Equals(o Literal) bool {
	rhs, ok := o.(Float64Literal)
	if !ok {
		return false
	}
	if math.IsNaN(float64(f)) || math.IsNaN(float64(rhs)) {
		return false
	}

	return f == rhs
}
func (f Float64Literal) To(t LogicalType) (Literal, error) {
	switch t.(type) {
	case Float64Type:
		return f, nil
	case Float32Type:
		return Float32Literal(float32(f)), nil
	}

	return nil, fmt.Errorf("%w: cannot coerce float64 literal to %s", ErrTypeMismatch, t)
}

type StringLiteral string

func (s StringLiteral) Type() LogicalType { return PrimitiveTypes.String }
func (s StringLiteral) Value() string     { return string(s) }
func (s StringLiteral) Any() any          { return s.Value() }
func (s StringLiteral) String() string    { return string(s) }
func (StringLiteral) Comparator() Comparator[string] {
	// byte-lexicographic order of the UTF-8 encoding, which is exactly
	// what Go's native string comparison already does.
	return cmp.Compare[string]
}
func (s StringLiteral) Equals(o Literal) bool {
	rhs, ok := o.(StringLiteral)

	return ok && s == rhs
}
func (s StringLiteral) To(t LogicalType) (Literal, error) {
	switch t.(type) {
	case StringType:
		return s, nil
	case BinaryType:
		return NewBinaryLiteral([]byte(s)), nil
	}

	return nil, fmt.Errorf("%w: cannot coerce string literal to %s", ErrTypeMismatch, t)
}

// BinaryLiteral backs both fixed-length and variable-length byte-array
// values (logical type BinaryType). It is kept
// outside the LiteralType-constrained generic family because []byte
// cannot participate in a comparable type set; its comparator and
// equality are hand-rolled with bytes.Compare instead of cmp.Compare.
type BinaryLiteral []byte

func (b BinaryLiteral) Type() LogicalType { return PrimitiveTypes.Binary }
func (b BinaryLiteral) Value() []byte     { return b }
func (b BinaryLiteral) Any() any          { return b.Value() }
func (b BinaryLiteral) String() string    { return fmt.Sprintf("%x", []byte(b)) }
func (BinaryLiteral) Comparator() Comparator[string] {
	panic("BinaryLiteral does not use the generic comparator; use CompareBytes")
}

// CompareBytes orders two byte slices lexicographically by unsigned byte
// value, matching bytes.Compare.
func CompareBytes(a, b []byte) int { return bytes.Compare(a, b) }

func (b BinaryLiteral) Equals(o Literal) bool {
	rhs, ok := o.(BinaryLiteral)

	return ok && bytes.Equal(b, rhs)
}
func (b BinaryLiteral) To(t LogicalType) (Literal, error) {
	switch t.(type) {
	case BinaryType:
		return b, nil
	case StringType:
		return StringLiteral(b), nil
	}

	return nil, fmt.Errorf("%w: cannot coerce binary literal to %s", ErrTypeMismatch, t)
}

type DecimalLiteral Decimal

func (d DecimalLiteral) Type() LogicalType { return NewDecimalType(38, d.Scale) }
func (d DecimalLiteral) Value() Decimal    { return Decimal(d) }
func (d DecimalLiteral) Any() any          { return d.Value() }
func (d DecimalLiteral) String() string    { return Decimal(d).String() }
func (DecimalLiteral) Comparator() Comparator[Decimal] {
	return func(a, b Decimal) int {
		// both operands are assumed to already share a scale by the time
		// they reach comparison (binding rescales the literal to the
		// column's decimal type).
		return cmp.Compare(a.Unscaled, b.Unscaled)
	}
}
func (d DecimalLiteral) Equals(o Literal) bool {
	rhs, ok := o.(DecimalLiteral)

	return ok && d == rhs
}
func (d DecimalLiteral) To(t LogicalType) (Literal, error) {
	dt, ok := t.(DecimalType)
	if !ok {
		return nil, fmt.Errorf("%w: cannot coerce decimal literal to %s", ErrTypeMismatch, t)
	}
	if dt.Scale == d.Scale {
		return d, nil
	}
	if dt.Scale < d.Scale {
		return nil, fmt.Errorf("%w: cannot narrow decimal scale %d to %d", ErrTypeMismatch, d.Scale, dt.Scale)
	}
	scaled := d.Unscaled
	for i := 0; i < dt.Scale-d.Scale; i++ {
		scaled *= 10
	}

	return DecimalLiteral{Unscaled: scaled, Scale: dt.Scale}, nil
}

type UUIDLiteral uuid.UUID

func (u UUIDLiteral) Type() LogicalType { return PrimitiveTypes.UUID }
func (u UUIDLiteral) Value() uuid.UUID  { return uuid.UUID(u) }
func (u UUIDLiteral) Any() any          { return u.Value() }
func (u UUIDLiteral) String() string    { return uuid.UUID(u).String() }
func (UUIDLiteral) Comparator() Comparator[uuid.UUID] {
	return func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) }
}
func (u UUIDLiteral) Equals(o Literal) bool {
	rhs, ok := o.(UUIDLiteral)

	return ok && u == rhs
}
func (u UUIDLiteral) To(t LogicalType) (Literal, error) {
	if _, ok := t.(UUIDType); ok {
		return u, nil
	}

	return nil, fmt.Errorf("%w: cannot coerce uuid literal to %s", ErrTypeMismatch, t)
}
