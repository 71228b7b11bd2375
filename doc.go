// Package lineblock implements a streaming, nested, backtracking
// line-block parser.
//
// A block is a contiguous or loosely contiguous group of lines recognized by
// head/body/tail line patterns, an optional fixed length and an optional
// tree of nested sub-blocks. Lines are pulled lazily from a caller-supplied
// LineStream; on successful recognition of a block the caller's Action runs
// and may return a Commit, a thunk invoked once the recognition is final so
// that a failed ancestor never leaves a visible side effect behind.
//
// Overlook of the data model
//
// The package exposes four kinds of declarative piece:
//     Matcher   tests one line, optionally capturing something from it
//     BlockDef  a named recipe: head/body/tail matchers, nesting, limits
//     Nesting   how a block's children compose: One, ChoiceSet, Sequence
//     Action    runs once a BlockDef's lines are recognized
// and two kinds of running state, both unexported:
//     lineSource the buffered, rewindable view over the external stream
//     recognizer the recursive head/body/tail state machine
//
// Overlook of entry points
//
//     ParseStream(stream, top, opts...) (*Result, error)
//     ParseFile(path, top, opts...) (*Result, error)
//
// Matcher variants bundled with the core package are Pattern (regexp),
// Literal (substring) and LineNo (line-number set, global or local). The
// catch-all AllOthers matcher may be used once, last, inside a body list.
// NewFuncMatcher is the extension point: the lbexpr subpackage builds an
// expr-lang predicate Matcher on top of it without this package depending
// on expr-lang, and the lbyaml subpackage loads a whole BlockDef/Nesting
// tree from a YAML document.
package lineblock // import "github.com/hucsmn/lineblock"
