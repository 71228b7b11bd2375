package lineblock

// Action runs once a BlockDef's lines are fully recognized. It receives a
// snapshot of the captured lines (an ordered copy, excluding any lines
// skipped in loose mode) and the 1-based occurrence index of this block
// within its enclosing scope. It may return a Commit: the deferred
// thunk that carries the block's actual user-visible side effect. Action
// itself is assumed side-effect-free — it is called as soon as the block's
// own recognition succeeds, to build the Commit, not to run it; only the
// returned Commit is deferred until the surrounding recognition can no
// longer be undone.
type Action func(capturedLines []Line, occurrenceIndex int) Commit

// Commit is the deferred, user-visible effect of a successfully recognized
// block. It is invoked only once the recognition that produced it can no
// longer be discarded by a failing ancestor.
type Commit func() error

// BlockDef is an immutable, declarative recipe for recognizing one kind of
// block. Construct one with NewBlockDef and a list of BlockDefOptions.
type BlockDef struct {
	name       string
	head       []Matcher
	body       []Matcher
	tail       []Matcher
	lineCount  int
	usageLimit int
	strict     bool
	priority   int
	action     Action
	nested     Nesting

	usageCount  int // mutated only by a commit closure, see commit.go
	provisional int // claimed-but-not-yet-committed occurrences, see commit.go
}

// BlockDefOption configures a BlockDef under construction.
type BlockDefOption func(*blockDefConfig)

type blockDefConfig struct {
	name       string
	head       []Matcher
	body       []Matcher
	tail       []Matcher
	lineCount  int
	usageLimit int
	strict     bool
	priority   int
	action     Action
	nested     Nesting
	nestedSet  bool
}

// Name sets the block's label. If omitted, an auto-generated name such as
// "Block7" is assigned.
func Name(name string) BlockDefOption {
	return func(c *blockDefConfig) { c.name = name }
}

// Head sets the head matcher list: ordered, tried in order, first match
// wins, anchoring the start of the block.
func Head(ms ...Matcher) BlockDefOption {
	return func(c *blockDefConfig) { c.head = ms }
}

// Body sets the body matcher list.
func Body(ms ...Matcher) BlockDefOption {
	return func(c *blockDefConfig) { c.body = ms }
}

// Tail sets the tail matcher list. A non-empty tail is mutually exclusive
// with LineCount.
func Tail(ms ...Matcher) BlockDefOption {
	return func(c *blockDefConfig) { c.tail = ms }
}

// LineCount sets an exact block length counted from the head match. Mutually
// exclusive with a non-empty Tail.
func LineCount(n int) BlockDefOption {
	return func(c *blockDefConfig) { c.lineCount = n }
}

// UsageLimit caps the number of successful commits of this definition
// within its enclosing scope. Zero (the default) defers to the nesting
// context's own default: unlimited for One/Sequence, 1 for ChoiceSet.
// Inside a Sequence the limit is not consulted at all, whatever its value.
func UsageLimit(n int) BlockDefOption {
	return func(c *blockDefConfig) { c.usageLimit = n }
}

// Strict, when true, aborts the block on any interleaved non-matching line.
// When false (the default), such lines are silently skipped while the
// block waits for its tail or line_count.
func Strict(strict bool) BlockDefOption {
	return func(c *blockDefConfig) { c.strict = strict }
}

// Priority orders sibling alternatives in a ChoiceSet; smaller runs first.
// Default is 1.
func Priority(p int) BlockDefOption {
	return func(c *blockDefConfig) { c.priority = p }
}

// WithAction attaches the block's Action.
func WithAction(a Action) BlockDefOption {
	return func(c *blockDefConfig) { c.action = a }
}

// Nested attaches a child Nesting (One, ChoiceSet or Sequence).
func Nested(n Nesting) BlockDefOption {
	return func(c *blockDefConfig) { c.nested = n; c.nestedSet = true }
}

// NewBlockDef builds an immutable BlockDef, validating it against the
// invariants in §3. A contradictory or malformed definition returns a
// *DefinitionError and no BlockDef.
func NewBlockDef(opts ...BlockDefOption) (*BlockDef, error) {
	cfg := blockDefConfig{priority: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	name := cfg.name
	if name == "" {
		name = nextAutoName()
	}

	if len(cfg.tail) > 0 && cfg.lineCount > 0 {
		return nil, newDefinitionError(name, errTailAndLineCount)
	}
	for _, ms := range [][]Matcher{cfg.head, cfg.body, cfg.tail} {
		for _, m := range ms {
			if m == nil {
				return nil, newDefinitionError(name, errNilMatcherInList)
			}
		}
	}
	if err := validateCatchAllPlacement(name, cfg.head, cfg.body); err != nil {
		return nil, err
	}
	if cfg.nestedSet {
		if err := cfg.nested.validate(name); err != nil {
			return nil, err
		}
	} else {
		cfg.nested = NoNesting()
	}

	for _, ms := range [][]Matcher{cfg.head, cfg.body, cfg.tail} {
		for _, m := range ms {
			m.bindOwner(name)
		}
	}

	return &BlockDef{
		name:       name,
		head:       cfg.head,
		body:       cfg.body,
		tail:       cfg.tail,
		lineCount:  cfg.lineCount,
		usageLimit: cfg.usageLimit,
		strict:     cfg.strict,
		priority:   cfg.priority,
		action:     cfg.action,
		nested:     cfg.nested,
	}, nil
}

// validateCatchAllPlacement enforces: AllOthers may appear only in body,
// exactly once, in final position, and only when head is non-empty.
func validateCatchAllPlacement(name string, head, body []Matcher) error {
	count := 0
	lastIdx := -1
	for i, m := range body {
		if isCatchAll(m) {
			count++
			lastIdx = i
		}
	}
	if count == 0 {
		return nil
	}
	if count > 1 || lastIdx != len(body)-1 || len(head) == 0 {
		return newDefinitionError(name, errCatchAllPlacement)
	}
	return nil
}

// Name returns the block's label.
func (d *BlockDef) Name() string { return d.name }

// hasEnding reports whether the block has an explicit termination
// condition (non-empty tail or a line_count), per §4.2.
func (d *BlockDef) hasEnding() bool {
	return len(d.tail) > 0 || d.lineCount > 0
}
