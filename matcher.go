package lineblock

import (
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
)

// OnMatchHook is invoked once a Matcher has actually matched a line, with
// the owning block's name, the line's position and the matcher's capture.
type OnMatchHook func(block string, gLN, lLN int, line string, capture interface{})

// Matcher tests one line against one rule. Implementations remember their
// last result, keyed on gLN, so that several sibling matchers evaluating
// the same line during backtracking never re-run an expensive test twice.
//
// Matcher is deliberately a narrow, exported interface: the regex engine
// behind Pattern is a stdlib detail, and the lbexpr subpackage plugs in an
// additional variant (an expr-lang predicate) without this package
// depending on it.
type Matcher interface {
	// Name is a human label, used in DefinitionError messages and hook
	// callbacks. It is not required to be unique.
	Name() string

	// Eval tests the matcher against one line, using and updating the
	// per-matcher memo. It returns whether the line matched and, if so,
	// whatever capture the variant produces (nil for variants with no
	// useful capture).
	Eval(gLN, lLN int, line string) (ok bool, capture interface{})

	// probe re-tests the matcher without touching its memo. It backs the
	// ancestor-tail lookahead that AllOthers uses to avoid swallowing a
	// line that an enclosing block's tail is waiting for.
	probe(gLN, lLN int, line string) bool

	// bindOwner records the name of the BlockDef this matcher was placed
	// on, done once at NewBlockDef time, per §4.1: "matchers carry a
	// back-pointer to their owning block... so hooks can report the
	// owning block name."
	bindOwner(block string)

	// fireOnMatch invokes the matcher's on-match hook, if any, using the
	// gLN's memoed result. It is a no-op if the line wasn't matched or no
	// hook was configured.
	fireOnMatch(gLN, lLN int, line string)
}

// MatcherOption configures optional matcher behavior, currently only the
// on-match hook.
type MatcherOption func(*hookable)

// OnMatch attaches a hook invoked whenever the matcher actually matches a
// line, receiving the owning block's name alongside the match position and
// capture.
func OnMatch(hook OnMatchHook) MatcherOption {
	return func(h *hookable) { h.hook = hook }
}

// hookable is embedded by every Matcher implementation to share the
// owner/hook bookkeeping.
type hookable struct {
	owner string
	hook  OnMatchHook
}

func (h *hookable) bindOwner(block string) { h.owner = block }

func (h *hookable) fire(gLN, lLN int, line string, ok bool, capture interface{}) {
	if ok && h.hook != nil {
		h.hook(h.owner, gLN, lLN, line, capture)
	}
}

func applyMatcherOptions(h *hookable, opts []MatcherOption) {
	for _, opt := range opts {
		opt(h)
	}
}

// memo caches a matcher's last result, keyed on global line number, per
// §4.1: "the memo is keyed on gLN".
type memo struct {
	gLN     int
	hit     bool
	ok      bool
	capture interface{}
}

func (m *memo) get(gLN int) (ok bool, capture interface{}, hit bool) {
	if m.hit && m.gLN == gLN {
		return m.ok, m.capture, true
	}
	return false, nil, false
}

func (m *memo) set(gLN int, ok bool, capture interface{}) {
	m.gLN = gLN
	m.ok = ok
	m.capture = capture
	m.hit = true
}

// --- Pattern -----------------------------------------------------------

type patternMatcher struct {
	hookable
	name string
	re   *regexp.Regexp
	memo memo
}

// Pattern compiles a regular expression matcher. The capture passed to the
// owning block's on-match hook, when the matcher fires, is the result of
// FindStringSubmatch: the whole match followed by one entry per
// parenthesized subexpression.
//
// Compilation errors surface immediately as a panic, matching the
// teacher's own MustCompile-style convention for package-level pattern
// tables; use PatternCompile for a checked variant.
func Pattern(pattern string, opts ...MatcherOption) Matcher {
	m, err := PatternCompile(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// PatternCompile compiles pattern, returning a DefinitionError instead of
// panicking if the expression is invalid.
func PatternCompile(pattern string, opts ...MatcherOption) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, newDefinitionError("", "invalid regexp %q: %s", pattern, err)
	}
	m := &patternMatcher{name: "Pattern(" + pattern + ")", re: re}
	applyMatcherOptions(&m.hookable, opts)
	return m, nil
}

func (m *patternMatcher) Name() string { return m.name }

func (m *patternMatcher) Eval(gLN, lLN int, line string) (bool, interface{}) {
	if ok, cap, hit := m.memo.get(gLN); hit {
		return ok, cap
	}
	ok, cap := m.match(line)
	m.memo.set(gLN, ok, cap)
	return ok, cap
}

func (m *patternMatcher) probe(_, _ int, line string) bool {
	ok, _ := m.match(line)
	return ok
}

func (m *patternMatcher) fireOnMatch(gLN, lLN int, line string) {
	ok, cap, hit := m.memo.get(gLN)
	if !hit {
		return
	}
	m.fire(gLN, lLN, line, ok, cap)
}

func (m *patternMatcher) match(line string) (bool, interface{}) {
	sub := m.re.FindStringSubmatch(line)
	if sub == nil {
		return false, nil
	}
	return true, sub
}

// --- Literal -------------------------------------------------------------

type literalMatcher struct {
	hookable
	name   string
	substr string
	memo   memo
}

// Literal matches if line contains substr. Its capture is true when
// matched, nil otherwise.
func Literal(substr string, opts ...MatcherOption) Matcher {
	m := &literalMatcher{name: "Literal(" + substr + ")", substr: substr}
	applyMatcherOptions(&m.hookable, opts)
	return m
}

func (m *literalMatcher) Name() string { return m.name }

func (m *literalMatcher) Eval(gLN, lLN int, line string) (bool, interface{}) {
	if ok, cap, hit := m.memo.get(gLN); hit {
		return ok, cap
	}
	ok, cap := m.match(line)
	m.memo.set(gLN, ok, cap)
	return ok, cap
}

func (m *literalMatcher) probe(_, _ int, line string) bool {
	ok, _ := m.match(line)
	return ok
}

func (m *literalMatcher) fireOnMatch(gLN, lLN int, line string) {
	ok, cap, hit := m.memo.get(gLN)
	if !hit {
		return
	}
	m.fire(gLN, lLN, line, ok, cap)
}

func (m *literalMatcher) match(line string) (bool, interface{}) {
	if strings.Contains(line, m.substr) {
		return true, true
	}
	return false, nil
}

// --- AllOthers (catch-all) ------------------------------------------------

type allOthersMatcher struct {
	hookable
	name string
	memo memo
}

// AllOthers is a catch-all body matcher: it matches any line that reaches
// it, capturing the raw line text. It may be used at most once, as the
// final entry of a body list, and only on a block whose head is non-empty
// (§3 invariants) — BlockDef construction rejects any other placement.
//
// Before claiming a line, AllOthers probes the tail matchers of every
// enclosing (ancestor) block attempt, without touching their memo, so that
// a line meant to close an ancestor is never swallowed by this catch-all
// (§9 Open Questions: "ancestors only, no memo pollution").
func AllOthers(opts ...MatcherOption) Matcher {
	m := &allOthersMatcher{name: "AllOthers"}
	applyMatcherOptions(&m.hookable, opts)
	return m
}

func isCatchAll(m Matcher) bool {
	_, ok := m.(*allOthersMatcher)
	return ok
}

func (m *allOthersMatcher) Name() string { return m.name }

func (m *allOthersMatcher) Eval(gLN, lLN int, line string) (bool, interface{}) {
	if ok, cap, hit := m.memo.get(gLN); hit {
		return ok, cap
	}
	m.memo.set(gLN, true, line)
	return true, line
}

func (m *allOthersMatcher) probe(_, _ int, line string) bool {
	return true
}

func (m *allOthersMatcher) fireOnMatch(gLN, lLN int, line string) {
	ok, cap, hit := m.memo.get(gLN)
	if !hit {
		return
	}
	m.fire(gLN, lLN, line, ok, cap)
}

// --- FuncMatcher -----------------------------------------------------------

// EvalFunc is the variant-specific half of a Matcher: test one line,
// returning whether it matched and, if so, an optional capture.
type EvalFunc func(gLN, lLN int, line string) (ok bool, capture interface{})

type funcMatcher struct {
	hookable
	name string
	eval EvalFunc
	memo memo
}

// NewFuncMatcher builds a Matcher from a plain EvalFunc, with the memo and
// on-match hook bookkeeping every built-in variant gets. It is the
// extension point a subpackage like lbexpr uses to add a new Matcher kind
// without this package depending on it: Matcher's own
// Eval/probe/bindOwner/fireOnMatch methods are otherwise unexported and
// cannot be implemented outside this package.
func NewFuncMatcher(name string, eval EvalFunc, opts ...MatcherOption) Matcher {
	m := &funcMatcher{name: name, eval: eval}
	applyMatcherOptions(&m.hookable, opts)
	return m
}

func (m *funcMatcher) Name() string { return m.name }

func (m *funcMatcher) Eval(gLN, lLN int, line string) (bool, interface{}) {
	if ok, cap, hit := m.memo.get(gLN); hit {
		return ok, cap
	}
	ok, cap := m.eval(gLN, lLN, line)
	m.memo.set(gLN, ok, cap)
	return ok, cap
}

func (m *funcMatcher) probe(gLN, lLN int, line string) bool {
	ok, _ := m.eval(gLN, lLN, line)
	return ok
}

func (m *funcMatcher) fireOnMatch(gLN, lLN int, line string) {
	ok, cap, hit := m.memo.get(gLN)
	if !hit {
		return
	}
	m.fire(gLN, lLN, line, ok, cap)
}

// naming: a process-wide monotonic counter per auto-name prefix, used only
// at BlockDef construction time, per §5.
var blockNameCounter int64

func nextAutoName() string {
	n := atomic.AddInt64(&blockNameCounter, 1)
	return "Block" + strconv.FormatInt(n, 10)
}
