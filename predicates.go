package rowfilter

// Ref is shorthand for constructing an unbound by-name column reference,
// the usual left-hand side of every predicate constructor in this package.
func Ref(name string) UnboundTerm { return Reference(name) }

// And, Or, and Not are the boolean-combinator entry points; they simply
// forward to the underlying constructors so callers building trees by
// hand don't need to know NewAnd/NewOr/NewNot fold constants away.
func And(left, right BooleanExpression, rest ...BooleanExpression) BooleanExpression {
	return NewAnd(left, right, rest...)
}

func Or(left, right BooleanExpression, rest ...BooleanExpression) BooleanExpression {
	return NewOr(left, right, rest...)
}

func Not(expr BooleanExpression) BooleanExpression { return NewNot(expr) }
