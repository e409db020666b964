package rowfilter

import "fmt"

// BooleanExprVisitor folds a BooleanExpression tree into a value of type
// T. VisitUnbound/VisitBound are the "don't care about predicate kind"
// hooks; a visitor that does care about individual comparison operators
// implements BoundBooleanExprVisitor instead and VisitExpr dispatches to
// it automatically for bound predicates.
type BooleanExprVisitor[T any] interface {
	VisitTrue() T
	VisitFalse() T
	VisitNot(child T) T
	VisitAnd(left, right T) T
	VisitOr(left, right T) T
	VisitUnbound(pred UnboundPredicate) T
	VisitBound(pred BoundPredicate) T
}

// BoundBooleanExprVisitor additionally breaks bound predicates down by
// operator, which is what the dictionary evaluator needs: it has
// different logic per comparison kind, not just "some predicate".
type BoundBooleanExprVisitor[T any] interface {
	BooleanExprVisitor[T]
	VisitIsNull(term BoundTerm) T
	VisitNotNull(term BoundTerm) T
	VisitEqual(term BoundTerm, lit Literal) T
	VisitNotEqual(term BoundTerm, lit Literal) T
	VisitLess(term BoundTerm, lit Literal) T
	VisitLessEqual(term BoundTerm, lit Literal) T
	VisitGreater(term BoundTerm, lit Literal) T
	VisitGreaterEqual(term BoundTerm, lit Literal) T
}

// VisitExpr walks expr post-order, folding it into a T via visitor.
// Internal dispatch panics on malformed trees (an expression type this
// package doesn't recognize); VisitExpr recovers those panics and
// reports them as an error instead, so callers never need to worry
// about a bad tree crashing the process.
func VisitExpr[T any](expr BooleanExpression, visitor BooleanExprVisitor[T]) (result T, err error) {
	defer func() {
		if r := recover(); r == nil {
			return
		} else if e, ok := r.(error); ok {
			err = e
		} else {
			err = fmt.Errorf("rowfilter: panic during expression visit: %v", r)
		}
	}()

	return visitBoolExpr(expr, visitor), nil
}

func visitBoolExpr[T any](expr BooleanExpression, visitor BooleanExprVisitor[T]) T {
	switch e := expr.(type) {
	case AlwaysTrue:
		return visitor.VisitTrue()
	case AlwaysFalse:
		return visitor.VisitFalse()
	case NotExpr:
		return visitor.VisitNot(visitBoolExpr(e.child, visitor))
	case AndExpr:
		left := visitBoolExpr(e.left, visitor)
		right := visitBoolExpr(e.right, visitor)

		return visitor.VisitAnd(left, right)
	case OrExpr:
		left := visitBoolExpr(e.left, visitor)
		right := visitBoolExpr(e.right, visitor)

		return visitor.VisitOr(left, right)
	case BoundPredicate:
		if bv, ok := visitor.(BoundBooleanExprVisitor[T]); ok {
			return visitBoundPredicate(e, bv)
		}

		return visitor.VisitBound(e)
	case UnboundPredicate:
		return visitor.VisitUnbound(e)
	default:
		panic(fmt.Errorf("%w: unrecognized boolean expression %T", ErrNotImplemented, expr))
	}
}

func visitBoundPredicate[T any](pred BoundPredicate, visitor BoundBooleanExprVisitor[T]) T {
	term := pred.Term()

	switch p := pred.(type) {
	case boundUnaryPredicate:
		switch p.op {
		case OpIsNull:
			return visitor.VisitIsNull(term)
		case OpNotNull:
			return visitor.VisitNotNull(term)
		}
	case boundLiteralPredicate:
		switch p.op {
		case OpEQ:
			return visitor.VisitEqual(term, p.lit)
		case OpNEQ:
			return visitor.VisitNotEqual(term, p.lit)
		case OpLT:
			return visitor.VisitLess(term, p.lit)
		case OpLTEQ:
			return visitor.VisitLessEqual(term, p.lit)
		case OpGT:
			return visitor.VisitGreater(term, p.lit)
		case OpGTEQ:
			return visitor.VisitGreaterEqual(term, p.lit)
		}
	}

	panic(fmt.Errorf("%w: unrecognized bound predicate %T", ErrNotImplemented, pred))
}

// bindVisitor implements the schema-binding pass: unbound predicates are
// resolved against a schema, everything else is rebuilt structurally.
type bindVisitor struct {
	schema        *LogicalSchema
	physical      PhysicalSchema
	caseSensitive bool
}

func (*bindVisitor) VisitTrue() BooleanExpression  { return AlwaysTrue{} }
func (*bindVisitor) VisitFalse() BooleanExpression { return AlwaysFalse{} }
func (*bindVisitor) VisitNot(child BooleanExpression) BooleanExpression {
	return NewNot(child)
}
func (*bindVisitor) VisitAnd(left, right BooleanExpression) BooleanExpression {
	return NewAnd(left, right)
}
func (*bindVisitor) VisitOr(left, right BooleanExpression) BooleanExpression {
	return NewOr(left, right)
}
func (*bindVisitor) VisitBound(pred BoundPredicate) BooleanExpression {
	panic(fmt.Errorf("%w: expression is already bound", ErrInvalidArgument))
}
func (b *bindVisitor) VisitUnbound(pred UnboundPredicate) BooleanExpression {
	bound, err := pred.Bind(b.schema, b.physical, b.caseSensitive)
	if err != nil {
		panic(err)
	}

	return bound
}

// BindExpr resolves every reference in expr against schema and physical,
// producing a tree of bound predicates (or AlwaysTrue/AlwaysFalse, if
// binding could fold a branch away). caseSensitive controls whether
// reference names are matched exactly or case-insensitively.
func BindExpr(schema *LogicalSchema, physical PhysicalSchema, expr BooleanExpression, caseSensitive bool) (BooleanExpression, error) {
	return VisitExpr[BooleanExpression](expr, &bindVisitor{
		schema:        schema,
		physical:      physical,
		caseSensitive: caseSensitive,
	})
}

// notRewriteVisitor eliminates Not nodes by replacing them with the
// negation of their (already rewritten) child, using each node's own
// Negate method. Because AndExpr/OrExpr's Negate recurses into their
// children, a single VisitNot call pushes the negation all the way down
// to the leaves in one step.
type notRewriteVisitor struct{}

func (notRewriteVisitor) VisitTrue() BooleanExpression  { return AlwaysTrue{} }
func (notRewriteVisitor) VisitFalse() BooleanExpression { return AlwaysFalse{} }
func (notRewriteVisitor) VisitNot(child BooleanExpression) BooleanExpression {
	return child.Negate()
}
func (notRewriteVisitor) VisitAnd(left, right BooleanExpression) BooleanExpression {
	return NewAnd(left, right)
}
func (notRewriteVisitor) VisitOr(left, right BooleanExpression) BooleanExpression {
	return NewOr(left, right)
}
func (notRewriteVisitor) VisitUnbound(pred UnboundPredicate) BooleanExpression { return pred }
func (notRewriteVisitor) VisitBound(pred BoundPredicate) BooleanExpression     { return pred }

// RewriteNotExpr removes every Not node from expr by pushing negation
// down to the leaves, so that downstream evaluators never need to handle
// a Not over a composite expression (or over anything at all: the result
// contains no NotExpr nodes whatsoever).
func RewriteNotExpr(expr BooleanExpression) (BooleanExpression, error) {
	return VisitExpr[BooleanExpression](expr, notRewriteVisitor{})
}
