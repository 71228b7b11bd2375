// Package lbexpr adds an expr-lang-backed Matcher variant on top of the
// core lineblock package, following the same compile-once/evaluate-many
// shape as titpetric/lessgo's evaluator.Eval: an expression is compiled
// once at construction and run against a small Env value per line.
package lbexpr

import (
	"github.com/expr-lang/expr"

	"github.com/hucsmn/lineblock"
)

// Env is the variable set an Expr matcher's expression is evaluated
// against: the raw line plus its position. Expressions see these as bare
// identifiers, e.g. `len(Line) > 80 && GLN > 10`.
type Env struct {
	Line string
	GLN  int
	LLN  int
}

// Expr compiles source as a boolean expr-lang expression evaluated with an
// Env built from the current line. It panics if source fails to compile,
// matching lineblock.Pattern's MustCompile-style convention; use
// ExprCompile for a checked variant. The matcher's capture, when it
// fires, is the expression's own boolean result.
func Expr(source string, opts ...lineblock.MatcherOption) lineblock.Matcher {
	m, err := ExprCompile(source, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// ExprCompile compiles source, returning an error instead of panicking.
func ExprCompile(source string, opts ...lineblock.MatcherOption) (lineblock.Matcher, error) {
	prog, err := expr.Compile(source, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, err
	}
	eval := func(gLN, lLN int, line string) (bool, interface{}) {
		out, err := expr.Run(prog, Env{Line: line, GLN: gLN, LLN: lLN})
		if err != nil {
			return false, nil
		}
		ok, _ := out.(bool)
		return ok, ok
	}
	return lineblock.NewFuncMatcher("Expr("+source+")", eval, opts...), nil
}
