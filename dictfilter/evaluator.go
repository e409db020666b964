package dictfilter

import (
	"fmt"
	"math"

	"github.com/icedict/rowfilter"
)

// Tri is a three-valued (Kleene) truth value: a leaf or composite result
// is either definitely True, definitely False, or Unknown because the
// available dictionary information doesn't decide it.
type Tri int

const (
	Unknown Tri = iota
	True
	False
)

func (t Tri) String() string {
	switch t {
	case True:
		return "True"
	case False:
		return "False"
	default:
		return "Unknown"
	}
}

func kleeneAnd(a, b Tri) Tri {
	if a == False || b == False {
		return False
	}
	if a == Unknown || b == Unknown {
		return Unknown
	}

	return True
}

func kleeneOr(a, b Tri) Tri {
	if a == True || b == True {
		return True
	}
	if a == Unknown || b == Unknown {
		return Unknown
	}

	return False
}

// evaluator implements rowfilter.BoundBooleanExprVisitor[Tri] over a
// single row group's materializer, following the leaf table in the
// dictionary-based pruning design: Absent/NotDict columns are always
// Unknown, and Dict(S) columns are decided by membership or ordering
// against the candidate set.
type evaluator struct {
	materializer   *Materializer
	legacyNotEqual bool
}

func evaluate(expr rowfilter.BooleanExpression, m *Materializer, legacyNotEqual bool) (Tri, error) {
	return rowfilter.VisitExpr[Tri](expr, &evaluator{materializer: m, legacyNotEqual: legacyNotEqual})
}

func (*evaluator) VisitTrue() Tri  { return True }
func (*evaluator) VisitFalse() Tri { return False }
func (*evaluator) VisitNot(Tri) Tri {
	panic(fmt.Errorf("%w: evaluator requires a Not-free tree; call rowfilter.RewriteNotExpr first", rowfilter.ErrInvalidArgument))
}
func (*evaluator) VisitAnd(left, right Tri) Tri { return kleeneAnd(left, right) }
func (*evaluator) VisitOr(left, right Tri) Tri  { return kleeneOr(left, right) }
func (*evaluator) VisitUnbound(rowfilter.UnboundPredicate) Tri {
	panic(fmt.Errorf("%w: evaluator requires a bound expression", rowfilter.ErrInvalidArgument))
}
func (*evaluator) VisitBound(pred rowfilter.BoundPredicate) Tri {
	panic(fmt.Errorf("%w: unrecognized bound predicate %T", rowfilter.ErrNotImplemented, pred))
}

// leaf resolves the column status for term and, when it is fully
// dictionary-encoded, hands the candidate set and the column's result
// (required-ness, per-chunk null presence) to compute. Absent/NotDict
// columns never reach compute: they are always Unknown, per the
// materializer's "tells us nothing" contract.
func (e *evaluator) leaf(term rowfilter.BoundTerm, compute func(values []rowfilter.Literal, required, hasNulls bool) Tri) Tri {
	result, err := e.materializer.Status(term.Ref())
	if err != nil {
		panic(err)
	}
	if result.Status != StatusDict {
		return Unknown
	}

	return compute(result.Values, term.Ref().Field().Required, result.HasNulls)
}

func (e *evaluator) VisitIsNull(term rowfilter.BoundTerm) Tri {
	return e.leaf(term, func(_ []rowfilter.Literal, required, _ bool) Tri {
		if required {
			return False
		}

		return Unknown
	})
}

func (e *evaluator) VisitNotNull(term rowfilter.BoundTerm) Tri {
	return e.leaf(term, func(_ []rowfilter.Literal, required, _ bool) Tri {
		if required {
			return True
		}

		return Unknown
	})
}

func (e *evaluator) VisitEqual(term rowfilter.BoundTerm, lit rowfilter.Literal) Tri {
	return e.leaf(term, func(values []rowfilter.Literal, _, _ bool) Tri {
		for _, s := range values {
			if s.Equals(lit) {
				return True
			}
		}

		return False
	})
}

// VisitNotEqual implements the resolved `notEq` semantics by default: the
// group is skippable whenever every candidate value equals the literal
// (S \ {v} is empty), full stop — a null can never satisfy c != v under
// SQL three-valued semantics, so its presence doesn't change the answer.
// WithLegacyNotEqual restores the unresolved reading from the design
// notes, which only skips when nulls cannot occur: either the field is
// required, or this row group's chunk happens to contain none despite
// being optional.
func (e *evaluator) VisitNotEqual(term rowfilter.BoundTerm, lit rowfilter.Literal) Tri {
	return e.leaf(term, func(values []rowfilter.Literal, required, hasNulls bool) Tri {
		for _, s := range values {
			if !s.Equals(lit) {
				return True
			}
		}
		if e.legacyNotEqual && !required && hasNulls {
			return True
		}

		return False
	})
}

func (e *evaluator) VisitLess(term rowfilter.BoundTerm, lit rowfilter.Literal) Tri {
	return e.leaf(term, existsOrdered(lit, func(c int) bool { return c < 0 }))
}

func (e *evaluator) VisitLessEqual(term rowfilter.BoundTerm, lit rowfilter.Literal) Tri {
	return e.leaf(term, existsOrdered(lit, func(c int) bool { return c <= 0 }))
}

func (e *evaluator) VisitGreater(term rowfilter.BoundTerm, lit rowfilter.Literal) Tri {
	return e.leaf(term, existsOrdered(lit, func(c int) bool { return c > 0 }))
}

func (e *evaluator) VisitGreaterEqual(term rowfilter.BoundTerm, lit rowfilter.Literal) Tri {
	return e.leaf(term, existsOrdered(lit, func(c int) bool { return c >= 0 }))
}

func existsOrdered(lit rowfilter.Literal, match func(cmp int) bool) func([]rowfilter.Literal, bool, bool) Tri {
	return func(values []rowfilter.Literal, _, _ bool) Tri {
		for _, s := range values {
			c, comparable := compareOrdered(s, lit)
			if comparable && match(c) {
				return True
			}
		}

		return False
	}
}

// compareOrdered orders two literals of the same concrete type (as
// guaranteed by binder/materializer coercion to a shared logical type).
// The second return value is false when the values are not orderable —
// currently only the NaN case, which per the logical-type rules in §3 is
// never less than, greater than, or equal to anything.
func compareOrdered(a, b rowfilter.Literal) (int, bool) {
	switch av := a.(type) {
	case rowfilter.Int32Literal:
		return av.Comparator()(av.Value(), b.(rowfilter.Int32Literal).Value()), true
	case rowfilter.Int64Literal:
		return av.Comparator()(av.Value(), b.(rowfilter.Int64Literal).Value()), true
	case rowfilter.Float32Literal:
		bv := b.(rowfilter.Float32Literal)
		if math.IsNaN(float64(av)) || math.IsNaN(float64(bv)) {
			return 0, false
		}

		return av.Comparator()(av.Value(), bv.Value()), true
	case rowfilter.Float64Literal:
		bv := b.(rowfilter.Float64Literal)
		if math.IsNaN(float64(av)) || math.IsNaN(float64(bv)) {
			return 0, false
		}

		return av.Comparator()(av.Value(), bv.Value()), true
	case rowfilter.StringLiteral:
		return av.Comparator()(av.Value(), b.(rowfilter.StringLiteral).Value()), true
	case rowfilter.BinaryLiteral:
		return rowfilter.CompareBytes(av, b.(rowfilter.BinaryLiteral)), true
	case rowfilter.DecimalLiteral:
		return av.Comparator()(av.Value(), b.(rowfilter.DecimalLiteral).Value()), true
	case rowfilter.UUIDLiteral:
		return av.Comparator()(av.Value(), b.(rowfilter.UUIDLiteral).Value()), true
	case rowfilter.BoolLiteral:
		return av.Comparator()(av.Value(), b.(rowfilter.BoolLiteral).Value()), true
	default:
		return 0, false
	}
}
