package lineblock

import "fmt"

// Error kinds surfaced to the caller, per the engine's propagation policy:
// internal match failures are absorbed by design and never escape.
type (
	// DefinitionError reports an illegal BlockDef or Matcher at construction
	// time: a contradictory option combination, a misplaced catch-all
	// matcher, or a malformed nesting tree.
	DefinitionError struct {
		block string
		msg   string
	}

	// ActionError wraps a fault raised from inside a user Action or the
	// Commit thunk it returned. The engine does not attempt to continue
	// after an action fault; it propagates to the caller of ParseStream.
	ActionError struct {
		block string
		err   error
	}
)

func (e *DefinitionError) Error() string {
	if e.block == "" {
		return "lineblock: definition error: " + e.msg
	}
	return fmt.Sprintf("lineblock: definition error in block %q: %s", e.block, e.msg)
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("lineblock: action error in block %q: %s", e.block, e.err)
}

func (e *ActionError) Unwrap() error {
	return e.err
}

func newDefinitionError(block, format string, v ...interface{}) error {
	return &DefinitionError{block: block, msg: fmt.Sprintf(format, v...)}
}

func newActionError(block string, err error) error {
	return &ActionError{block: block, err: err}
}

const (
	errTailAndLineCount    = "tail and line_count are mutually exclusive"
	errCatchAllPlacement   = "AllOthers may appear only in body, once, in final position, and only when head is non-empty"
	errNilMatcherInList    = "matcher list contains a nil entry"
	errEmptySequenceChoice = "sequence/choice-set nesting requires at least one child BlockDef"
	errNilNestedChild      = "nested BlockDef must not be nil"
)
