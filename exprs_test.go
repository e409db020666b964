package rowfilter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/icedict/rowfilter"
)

func TestNewAndFoldsConstants(t *testing.T) {
	leaf := rowfilter.IsNull(rowfilter.Ref("a"))

	assert.Equal(t, rowfilter.AlwaysFalse{}, rowfilter.NewAnd(leaf, rowfilter.AlwaysFalse{}))
	assert.Equal(t, leaf, rowfilter.NewAnd(leaf, rowfilter.AlwaysTrue{}))
	assert.Equal(t, leaf, rowfilter.NewAnd(rowfilter.AlwaysTrue{}, leaf))
}

func TestNewOrFoldsConstants(t *testing.T) {
	leaf := rowfilter.IsNull(rowfilter.Ref("a"))

	assert.Equal(t, rowfilter.AlwaysTrue{}, rowfilter.NewOr(leaf, rowfilter.AlwaysTrue{}))
	assert.Equal(t, leaf, rowfilter.NewOr(leaf, rowfilter.AlwaysFalse{}))
	assert.Equal(t, leaf, rowfilter.NewOr(rowfilter.AlwaysFalse{}, leaf))
}

func TestNewNotFoldsDoubleNegation(t *testing.T) {
	leaf := rowfilter.IsNull(rowfilter.Ref("a"))

	once := rowfilter.NewNot(leaf)
	assert.Equal(t, rowfilter.OpNot, once.Op())

	twice := rowfilter.NewNot(once)
	assert.Equal(t, leaf, twice)
}

func TestLeafNegateFlipsOperator(t *testing.T) {
	eq := rowfilter.EqualTo(rowfilter.Ref("a"), int64(5))
	assert.Equal(t, rowfilter.OpNEQ, eq.Negate().Op())

	isNull := rowfilter.IsNull(rowfilter.Ref("a"))
	assert.Equal(t, rowfilter.OpNotNull, isNull.Negate().Op())

	lt := rowfilter.LessThan(rowfilter.Ref("a"), int64(5))
	assert.Equal(t, rowfilter.OpGTEQ, lt.Negate().Op())
}

func TestAndOrNegateApplyDeMorgan(t *testing.T) {
	a := rowfilter.EqualTo(rowfilter.Ref("a"), int64(1))
	b := rowfilter.EqualTo(rowfilter.Ref("b"), int64(2))

	and := rowfilter.NewAnd(a, b)
	negated := and.Negate()
	assert.Equal(t, rowfilter.OpOr, negated.Op())

	or := rowfilter.NewOr(a, b)
	negated = or.Negate()
	assert.Equal(t, rowfilter.OpAnd, negated.Op())
}

func TestRewriteNotExprEliminatesEveryNotNode(t *testing.T) {
	a := rowfilter.EqualTo(rowfilter.Ref("a"), int64(1))
	b := rowfilter.EqualTo(rowfilter.Ref("b"), int64(2))

	expr := rowfilter.Not(rowfilter.And(a, b))
	rewritten, err := rowfilter.RewriteNotExpr(expr)
	assert.NoError(t, err)
	assert.Equal(t, rowfilter.OpOr, rewritten.Op())

	assert.Zero(t, countNotNodes(rewritten))
}

func TestNotOverLeafBecomesLeafDirectly(t *testing.T) {
	eq := rowfilter.EqualTo(rowfilter.Ref("a"), int64(1))
	expr := rowfilter.Not(eq)

	rewritten, err := rowfilter.RewriteNotExpr(expr)
	assert.NoError(t, err)
	assert.Equal(t, rowfilter.OpNEQ, rewritten.Op())
}

func TestLiteralPredicatePanicsWithInvalidLiteralSentinel(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected panic value to be an error, got %T", r)
		}
		assert.ErrorIs(t, err, rowfilter.ErrInvalidLiteral)
	}()

	rowfilter.LiteralPredicate(rowfilter.OpEQ, rowfilter.Ref("a"), nil)
}

// notCounter is a BooleanExprVisitor that counts how many NotExpr nodes
// survive in a tree, used to assert RewriteNotExpr's "no Not anywhere"
// guarantee without relying on unexported node types.
type notCounter struct{}

func (notCounter) VisitTrue() int  { return 0 }
func (notCounter) VisitFalse() int { return 0 }
func (notCounter) VisitNot(child int) int {
	return child + 1
}
func (notCounter) VisitAnd(left, right int) int                     { return left + right }
func (notCounter) VisitOr(left, right int) int                      { return left + right }
func (notCounter) VisitUnbound(rowfilter.UnboundPredicate) int       { return 0 }
func (notCounter) VisitBound(rowfilter.BoundPredicate) int           { return 0 }

func countNotNodes(expr rowfilter.BooleanExpression) int {
	count, err := rowfilter.VisitExpr[int](expr, notCounter{})
	if err != nil {
		panic(err)
	}

	return count
}
