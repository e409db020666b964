package rowfilter

import "fmt"

// Operation identifies what a BooleanExpression node computes. The
// grouping (boolean combinators, unary predicates, literal predicates)
// mirrors the operator groups in the predicate IR described in the data
// model: {and, or, not, eq, notEq, lt, ltEq, gt, gtEq, isNull, notNull}.
type Operation int

const (
	OpTrue Operation = iota
	OpFalse
	OpNot
	OpAnd
	OpOr
	OpIsNull
	OpNotNull
	OpEQ
	OpNEQ
	OpLT
	OpLTEQ
	OpGT
	OpGTEQ
)

func (op Operation) String() string {
	switch op {
	case OpTrue:
		return "True"
	case OpFalse:
		return "False"
	case OpNot:
		return "Not"
	case OpAnd:
		return "And"
	case OpOr:
		return "Or"
	case OpIsNull:
		return "IsNull"
	case OpNotNull:
		return "NotNull"
	case OpEQ:
		return "Equal"
	case OpNEQ:
		return "NotEqual"
	case OpLT:
		return "LessThan"
	case OpLTEQ:
		return "LessThanEqual"
	case OpGT:
		return "GreaterThan"
	case OpGTEQ:
		return "GreaterThanEqual"
	default:
		return "Unknown"
	}
}

// Negate returns the operator's logical complement, used by the schema
// binder's De Morgan normalization pass. Only leaf operators (unary and
// literal predicates) need a complement here; And/Or/Not negate by
// restructuring rather than by flipping their own tag.
func (op Operation) Negate() Operation {
	switch op {
	case OpIsNull:
		return OpNotNull
	case OpNotNull:
		return OpIsNull
	case OpEQ:
		return OpNEQ
	case OpNEQ:
		return OpEQ
	case OpLT:
		return OpGTEQ
	case OpLTEQ:
		return OpGT
	case OpGT:
		return OpLTEQ
	case OpGTEQ:
		return OpLT
	default:
		panic(fmt.Errorf("%w: no negation for operation %s", ErrInvalidArgument, op))
	}
}

// BooleanExpression is a node in the predicate tree. It is a tagged
// variant, not a class hierarchy: the evaluator and binder both dispatch
// on the concrete type (or Op()) rather than via polymorphic virtual
// calls, so adding a rewrite pass never requires touching every node
// type's own method set beyond Negate.
type BooleanExpression interface {
	fmt.Stringer
	Op() Operation
	// Negate returns the logical complement of this expression. For
	// composites this recurses into De Morgan's law; for leaves it flips
	// the operator. It never introduces a Not node.
	Negate() BooleanExpression
}

// AlwaysTrue is the boolean expression "True".
type AlwaysTrue struct{}

func (AlwaysTrue) String() string            { return "AlwaysTrue()" }
func (AlwaysTrue) Op() Operation             { return OpTrue }
func (AlwaysTrue) Negate() BooleanExpression { return AlwaysFalse{} }

// AlwaysFalse is the boolean expression "False".
type AlwaysFalse struct{}

func (AlwaysFalse) String() string            { return "AlwaysFalse()" }
func (AlwaysFalse) Op() Operation             { return OpFalse }
func (AlwaysFalse) Negate() BooleanExpression { return AlwaysTrue{} }

// NotExpr wraps a child expression in logical negation. NewNot folds
// double negation and negation of the always-true/false constants away
// immediately, so a NotExpr value, once constructed, always wraps
// something that isn't itself trivially reducible.
type NotExpr struct{ child BooleanExpression }

func NewNot(child BooleanExpression) BooleanExpression {
	if child == nil {
		panic(fmt.Errorf("%w: cannot negate a nil expression", ErrInvalidArgument))
	}
	switch c := child.(type) {
	case NotExpr:
		return c.child
	case AlwaysTrue:
		return AlwaysFalse{}
	case AlwaysFalse:
		return AlwaysTrue{}
	}

	return NotExpr{child: child}
}

func (n NotExpr) String() string            { return fmt.Sprintf("Not(%s)", n.child) }
func (NotExpr) Op() Operation               { return OpNot }
func (n NotExpr) Negate() BooleanExpression { return n.child }

// AndExpr is the conjunction of two expressions.
type AndExpr struct{ left, right BooleanExpression }

func newAnd(left, right BooleanExpression) BooleanExpression {
	switch {
	case left.Op() == OpFalse || right.Op() == OpFalse:
		return AlwaysFalse{}
	case left.Op() == OpTrue:
		return right
	case right.Op() == OpTrue:
		return left
	default:
		return AndExpr{left: left, right: right}
	}
}

// NewAnd builds a conjunction, folding away AlwaysTrue/AlwaysFalse
// operands and additional arguments left-associatively, e.g.
// NewAnd(a, b, c) == And(And(a, b), c).
func NewAnd(left, right BooleanExpression, rest ...BooleanExpression) BooleanExpression {
	if left == nil || right == nil {
		panic(fmt.Errorf("%w: cannot build And with a nil operand", ErrInvalidArgument))
	}

	out := newAnd(left, right)
	for _, e := range rest {
		out = newAnd(out, e)
	}

	return out
}

func (a AndExpr) String() string { return fmt.Sprintf("And(%s, %s)", a.left, a.right) }
func (AndExpr) Op() Operation    { return OpAnd }
func (a AndExpr) Negate() BooleanExpression {
	return NewOr(a.left.Negate(), a.right.Negate())
}

// OrExpr is the disjunction of two expressions.
type OrExpr struct{ left, right BooleanExpression }

func newOr(left, right BooleanExpression) BooleanExpression {
	switch {
	case left.Op() == OpTrue || right.Op() == OpTrue:
		return AlwaysTrue{}
	case left.Op() == OpFalse:
		return right
	case right.Op() == OpFalse:
		return left
	default:
		return OrExpr{left: left, right: right}
	}
}

// NewOr builds a disjunction with the same folding/associativity rules
// as NewAnd.
func NewOr(left, right BooleanExpression, rest ...BooleanExpression) BooleanExpression {
	if left == nil || right == nil {
		panic(fmt.Errorf("%w: cannot build Or with a nil operand", ErrInvalidArgument))
	}

	out := newOr(left, right)
	for _, e := range rest {
		out = newOr(out, e)
	}

	return out
}

func (o OrExpr) String() string { return fmt.Sprintf("Or(%s, %s)", o.left, o.right) }
func (OrExpr) Op() Operation    { return OpOr }
func (o OrExpr) Negate() BooleanExpression {
	return NewAnd(o.left.Negate(), o.right.Negate())
}

// Term is a reference-like expression that names a column, either
// unbound (by name) or bound (to a field id, logical type, and physical
// column path or absence thereof).
type Term interface {
	fmt.Stringer
	isTerm()
}

// UnboundTerm has not yet been resolved against a schema.
type UnboundTerm interface {
	Term
	Bind(schema *LogicalSchema, physical PhysicalSchema, caseSensitive bool) (BoundTerm, error)
}

// BoundTerm has been resolved: it carries a logical type and a reference
// back to the schema/physical binding that produced it.
type BoundTerm interface {
	Term
	Ref() BoundReference
	Type() LogicalType
}

// Reference is an unbound, by-name column reference.
type Reference string

func (Reference) isTerm() {}
func (r Reference) String() string { return fmt.Sprintf("Reference(%q)", string(r)) }

func (r Reference) Bind(schema *LogicalSchema, physical PhysicalSchema, caseSensitive bool) (BoundTerm, error) {
	var (
		field LogicalField
		found bool
	)
	if caseSensitive {
		field, found = schema.FindFieldByName(string(r))
	} else {
		field, found = schema.FindFieldByNameCaseInsensitive(string(r))
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrMissingField, string(r))
	}

	path, present := physical.ResolveColumn(field)
	ref := &boundReference{field: field}
	if present {
		ref.path = path.Path
		ref.present = true
	}

	return ref, nil
}

// BoundReference is a column reference resolved to a logical field and,
// when the column exists in the physical file, its column path. When
// Present is false the column is Absent from the physical schema and
// every leaf predicate over it evaluates to UNKNOWN.
type BoundReference interface {
	BoundTerm
	Field() LogicalField
	Path() ColumnPath
	Present() bool
}

type boundReference struct {
	field   LogicalField
	path    ColumnPath
	present bool
}

func (*boundReference) isTerm() {}
func (b *boundReference) String() string {
	if !b.present {
		return fmt.Sprintf("BoundReference(field=%s, absent)", b.field)
	}

	return fmt.Sprintf("BoundReference(field=%s, path=%s)", b.field, b.path)
}
func (b *boundReference) Ref() BoundReference    { return b }
func (b *boundReference) Type() LogicalType      { return b.field.Type }
func (b *boundReference) Field() LogicalField    { return b.field }
func (b *boundReference) Path() ColumnPath       { return b.path }
func (b *boundReference) Present() bool          { return b.present }

// UnboundPredicate is a boolean predicate over an UnboundTerm. Binding it
// resolves the term and coerces any literal, producing a bound predicate;
// binding never folds a predicate to AlwaysTrue/AlwaysFalse, and a literal
// that cannot be coerced to the field's type (e.g. one outside the type's
// range) fails with ErrTypeMismatch.
type UnboundPredicate interface {
	BooleanExpression
	Term() UnboundTerm
	Bind(schema *LogicalSchema, physical PhysicalSchema, caseSensitive bool) (BooleanExpression, error)
}

// BoundPredicate is a boolean predicate over a BoundTerm.
type BoundPredicate interface {
	BooleanExpression
	Term() BoundTerm
}

// UnaryPredicate builds an unbound isNull/notNull predicate. Panics if op
// is not one of those two operators or if t is nil.
func UnaryPredicate(op Operation, t UnboundTerm) UnboundPredicate {
	if op != OpIsNull && op != OpNotNull {
		panic(fmt.Errorf("%w: %s is not a unary predicate operation", ErrInvalidArgument, op))
	}
	if t == nil {
		panic(fmt.Errorf("%w: cannot build a unary predicate over a nil term", ErrInvalidArgument))
	}

	return unboundUnaryPredicate{op: op, term: t}
}

// IsNull builds an unbound isNull(t) predicate.
func IsNull(t UnboundTerm) UnboundPredicate { return UnaryPredicate(OpIsNull, t) }

// NotNull builds an unbound notNull(t) predicate.
func NotNull(t UnboundTerm) UnboundPredicate { return UnaryPredicate(OpNotNull, t) }

type unboundUnaryPredicate struct {
	op   Operation
	term UnboundTerm
}

func (p unboundUnaryPredicate) String() string          { return fmt.Sprintf("%s(%s)", p.op, p.term) }
func (p unboundUnaryPredicate) Op() Operation           { return p.op }
func (p unboundUnaryPredicate) Term() UnboundTerm       { return p.term }
func (p unboundUnaryPredicate) Negate() BooleanExpression {
	return unboundUnaryPredicate{op: p.op.Negate(), term: p.term}
}

func (p unboundUnaryPredicate) Bind(schema *LogicalSchema, physical PhysicalSchema, caseSensitive bool) (BooleanExpression, error) {
	bound, err := p.term.Bind(schema, physical, caseSensitive)
	if err != nil {
		return nil, err
	}

	return boundUnaryPredicate{op: p.op, term: bound}, nil
}

type boundUnaryPredicate struct {
	op   Operation
	term BoundTerm
}

func (p boundUnaryPredicate) String() string { return fmt.Sprintf("Bound%s(%s)", p.op, p.term) }
func (p boundUnaryPredicate) Op() Operation  { return p.op }
func (p boundUnaryPredicate) Term() BoundTerm { return p.term }
func (p boundUnaryPredicate) Negate() BooleanExpression {
	return boundUnaryPredicate{op: p.op.Negate(), term: p.term}
}

// LiteralPredicate builds an unbound comparison predicate (eq, notEq, lt,
// ltEq, gt, gtEq) over a term and a literal. Panics if op is not one of
// those operators, if t is nil, or if lit is nil — a nil literal is a
// caller contract violation reported as ErrInvalidLiteral, checked here
// at construction time rather than deferred to binding.
func LiteralPredicate(op Operation, t UnboundTerm, lit Literal) UnboundPredicate {
	switch op {
	case OpEQ, OpNEQ, OpLT, OpLTEQ, OpGT, OpGTEQ:
	default:
		panic(fmt.Errorf("%w: %s is not a literal predicate operation", ErrInvalidArgument, op))
	}
	if t == nil {
		panic(fmt.Errorf("%w: cannot build a literal predicate over a nil term", ErrInvalidArgument))
	}
	if lit == nil {
		panic(fmt.Errorf("%w: comparison predicates cannot use a null literal", ErrInvalidLiteral))
	}

	return unboundLiteralPredicate{op: op, term: t, lit: lit}
}

// EqualTo, NotEqualTo, LessThan, LessThanEqual, GreaterThan, and
// GreaterThanEqual are typed convenience wrappers around LiteralPredicate.
func EqualTo[T LiteralType](t UnboundTerm, v T) UnboundPredicate {
	return LiteralPredicate(OpEQ, t, NewLiteral(v))
}
func NotEqualTo[T LiteralType](t UnboundTerm, v T) UnboundPredicate {
	return LiteralPredicate(OpNEQ, t, NewLiteral(v))
}
func LessThan[T LiteralType](t UnboundTerm, v T) UnboundPredicate {
	return LiteralPredicate(OpLT, t, NewLiteral(v))
}
func LessThanEqual[T LiteralType](t UnboundTerm, v T) UnboundPredicate {
	return LiteralPredicate(OpLTEQ, t, NewLiteral(v))
}
func GreaterThan[T LiteralType](t UnboundTerm, v T) UnboundPredicate {
	return LiteralPredicate(OpGT, t, NewLiteral(v))
}
func GreaterThanEqual[T LiteralType](t UnboundTerm, v T) UnboundPredicate {
	return LiteralPredicate(OpGTEQ, t, NewLiteral(v))
}

type unboundLiteralPredicate struct {
	op   Operation
	term UnboundTerm
	lit  Literal
}

func (p unboundLiteralPredicate) String() string { return fmt.Sprintf("%s(%s, %s)", p.op, p.term, p.lit) }
func (p unboundLiteralPredicate) Op() Operation     { return p.op }
func (p unboundLiteralPredicate) Term() UnboundTerm { return p.term }
func (p unboundLiteralPredicate) Negate() BooleanExpression {
	return unboundLiteralPredicate{op: p.op.Negate(), term: p.term, lit: p.lit}
}

func (p unboundLiteralPredicate) Bind(schema *LogicalSchema, physical PhysicalSchema, caseSensitive bool) (BooleanExpression, error) {
	bound, err := p.term.Bind(schema, physical, caseSensitive)
	if err != nil {
		return nil, err
	}

	lit, err := p.lit.To(bound.Type())
	if err != nil {
		return nil, err
	}

	return boundLiteralPredicate{op: p.op, term: bound, lit: lit}, nil
}

type boundLiteralPredicate struct {
	op   Operation
	term BoundTerm
	lit  Literal
}

func (p boundLiteralPredicate) String() string {
	return fmt.Sprintf("Bound%s(%s, %s)", p.op, p.term, p.lit)
}
func (p boundLiteralPredicate) Op() Operation   { return p.op }
func (p boundLiteralPredicate) Term() BoundTerm { return p.term }
func (p boundLiteralPredicate) Literal() Literal { return p.lit }
func (p boundLiteralPredicate) Negate() BooleanExpression {
	return boundLiteralPredicate{op: p.op.Negate(), term: p.term, lit: p.lit}
}
