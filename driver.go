package lineblock

// Result reports lightweight, introspectable statistics about a completed
// parse. The engine's real output is whatever side effects the caller's
// actions and commits performed; Result exists so callers and tests can
// sanity-check coverage without threading their own counters through
// every Action.
type Result struct {
	// LinesConsumed is the number of lines claimed by some block (root or
	// nested) across the whole stream.
	LinesConsumed int
	// LinesSkipped is the number of lines no block claimed at root scope.
	LinesSkipped int
}

// RootSkipHook is invoked once per line that no block, at any depth,
// claims at root scope — useful for surfacing "nothing matched this
// line" during development without making every BlockDef carry an
// AllOthers.
type RootSkipHook func(gLN int, line string)

// DriverOption configures a ParseStream/ParseFile run.
type DriverOption func(*driverConfig)

type driverConfig struct {
	onRootSkip RootSkipHook
}

// WithRootSkipHook registers a hook fired for every root-scope line that
// no block claims.
func WithRootSkipHook(hook RootSkipHook) DriverOption {
	return func(c *driverConfig) { c.onRootSkip = hook }
}

// ParseStream runs the engine over stream, recognizing blocks per top
// (the caller's top-level Nesting) until the stream is exhausted. It
// returns a *DefinitionError if the implicit root definition cannot be
// built (this only happens for a malformed top), or an *ActionError if a
// user action/commit fault propagates out of a successful block.
func ParseStream(stream LineStream, top Nesting, opts ...DriverOption) (*Result, error) {
	cfg := driverConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	root, err := NewBlockDef(Name("root"), Nested(top))
	if err != nil {
		return nil, err
	}

	p := &recognizer{ls: newLineSource(stream)}
	result := &Result{}
	rootState := &attemptState{}

	for {
		before := p.ls.gLNAtCursor()
		c, claimed, err := p.tryNested(root, rootState)
		if err != nil {
			return result, err
		}
		if claimed {
			if err := c.commit(); err != nil {
				return result, err
			}
			result.LinesConsumed += p.ls.gLNAtCursor() - before
			p.ls.dropConsumedPrefix(p.live.min(p.ls.gLNAtCursor()))
			continue
		}

		line, hasLine, err := p.ls.peek()
		if err != nil {
			return result, err
		}
		if !hasLine {
			return result, nil
		}
		if cfg.onRootSkip != nil {
			cfg.onRootSkip(line.GLN, line.Text)
		}
		result.LinesSkipped++
		p.ls.advance()
		p.ls.dropConsumedPrefix(p.live.min(p.ls.gLNAtCursor()))
	}
}

// ParseFile is a convenience wrapper that opens path, feeds it through a
// line-splitting LineStream, and calls ParseStream. The file is closed
// once parsing completes, regardless of outcome.
func ParseFile(path string, top Nesting, opts ...DriverOption) (*Result, error) {
	stream, closer, err := openFileStream(path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return ParseStream(stream, top, opts...)
}
