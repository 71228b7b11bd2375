package lbexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hucsmn/lineblock"
)

func TestExprMatchesBooleanExpression(t *testing.T) {
	m := Expr(`len(Line) > 5 && GLN > 1`)

	ok, _ := m.Eval(1, 1, "short")
	assert.False(t, ok, "gLN 1 should fail the GLN > 1 condition")

	ok, _ = m.Eval(2, 1, "short")
	assert.False(t, ok, "a 5-character line should fail len(Line) > 5")

	ok, capture := m.Eval(3, 1, "long enough line")
	assert.True(t, ok)
	assert.Equal(t, true, capture)
}

func TestExprPanicsOnCompileError(t *testing.T) {
	assert.Panics(t, func() {
		Expr(`Line +++ )`)
	})
}

func TestExprCompileReturnsError(t *testing.T) {
	_, err := ExprCompile(`Line +++ )`)
	assert.Error(t, err)
}

func TestExprMemoizesLikeAnyOtherMatcher(t *testing.T) {
	m := Expr(`GLN == 5 && Line == "x"`)
	ok1, _ := m.Eval(5, 1, "x")
	// Same gLN: the memoized result is returned without re-evaluating, so
	// the different line text is never looked at.
	ok2, _ := m.Eval(5, 1, "y")
	assert.True(t, ok1)
	assert.True(t, ok2)
}

func TestExprWiredIntoBlockDef(t *testing.T) {
	var captured []string
	def, err := lineblock.NewBlockDef(
		lineblock.Name("long_lines"),
		lineblock.Body(Expr(`len(Line) > 3`)),
		lineblock.WithAction(func(lines []lineblock.Line, occ int) lineblock.Commit {
			return func() error {
				for _, l := range lines {
					captured = append(captured, l.Text)
				}
				return nil
			}
		}),
	)
	require.NoError(t, err)

	res, err := lineblock.ParseStream(lineblock.NewSliceStream([]string{
		"hi",
		"a long line",
		"no",
	}), lineblock.One(def))
	require.NoError(t, err)

	assert.Equal(t, 1, res.LinesConsumed)
	assert.Equal(t, []string{"a long line"}, captured)
}
