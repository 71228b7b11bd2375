package lineblock

// recognizer runs the recursive head/body/tail state machine described in
// §4.2. One recognizer drives exactly one ParseStream/ParseFile call; its
// ancestorTails stack backs the AllOthers ancestor-tail probe.
type recognizer struct {
	ls            *lineSource
	live          liveStack
	ancestorTails [][]Matcher
}

// attemptBlock tries to recognize one occurrence of def starting at the
// source's current cursor. On success it returns a claim and true, with
// the cursor left just past the recognized lines. On failure it returns
// (claim{}, false, nil) with the cursor rewound exactly to where the
// attempt started (§8 invariant 2), and every usage provisionally claimed
// by this attempt's own nested children rolled back. A non-nil error
// aborts parsing entirely (a propagated ActionError, or a LineStream
// fault).
func (p *recognizer) attemptBlock(def *BlockDef, occurrenceIndex int) (claim, bool, error) {
	start := p.ls.gLNAtCursor()
	p.live.push(start)
	if len(def.tail) > 0 {
		p.ancestorTails = append(p.ancestorTails, def.tail)
		defer func() { p.ancestorTails = p.ancestorTails[:len(p.ancestorTails)-1] }()
	}
	defer p.live.pop()

	state := &attemptState{}
	var captured []Line
	var pending []claim
	lLN := 0
	hasEnding := def.hasEnding()

	fail := func() (claim, bool, error) {
		p.ls.rewindTo(start)
		rollback(pending)
		return claim{}, false, nil
	}

	for {
		childClaim, claimed, err := p.tryNested(def, state)
		if err != nil {
			return claim{}, false, err
		}
		if claimed {
			pending = append(pending, childClaim)
			continue
		}

		line, hasLine, err := p.ls.peek()
		if err != nil {
			return claim{}, false, err
		}
		if !hasLine {
			if hasEnding || lLN == 0 {
				// StreamTruncation: EOF while an ending-conditioned block
				// (or a block that never even opened) is in progress.
				return fail()
			}
			return p.succeed(def, captured, pending, occurrenceIndex)
		}

		if lLN == 0 {
			matchers := def.body
			if len(def.head) > 0 {
				matchers = def.head
			}
			m, _, matched := p.matchAny(matchers, line.GLN, 1, line.Text)
			if !matched {
				return fail()
			}
			fireHook(m, line, 1)
			captured = append(captured, line)
			p.ls.advance()
			lLN = 1
		} else {
			nextLLN := lLN + 1
			if len(def.tail) > 0 {
				if m, _, matched := p.matchAny(def.tail, line.GLN, nextLLN, line.Text); matched {
					fireHook(m, line, nextLLN)
					captured = append(captured, line)
					p.ls.advance()
					return p.succeed(def, captured, pending, occurrenceIndex)
				}
			}
			if m, _, matched := p.matchAny(def.body, line.GLN, nextLLN, line.Text); matched {
				fireHook(m, line, nextLLN)
				captured = append(captured, line)
				p.ls.advance()
				lLN = nextLLN
			} else if hasEnding {
				if def.strict {
					return fail()
				}
				p.ls.advance() // loose: tolerate and skip, don't count towards lLN
			} else {
				// open-ended: this line doesn't belong, leave it unconsumed.
				return p.succeed(def, captured, pending, occurrenceIndex)
			}
		}

		if def.lineCount > 0 && lLN == def.lineCount {
			return p.succeed(def, captured, pending, occurrenceIndex)
		}
	}
}

// succeed finalizes a structurally successful attempt: it builds this
// block's own Commit and claims one provisional occurrence of def,
// flattening in every occurrence pending's own children already claimed
// so a failing ancestor can roll the whole subtree back in one pass
// (commit.go's rollback).
func (p *recognizer) succeed(def *BlockDef, captured []Line, pending []claim, occurrenceIndex int) (claim, bool, error) {
	var myCommit Commit
	if def.action != nil {
		myCommit = def.action(captured, occurrenceIndex)
	}
	children := make([]Commit, len(pending))
	claimed := make([]*BlockDef, 0, len(pending)+1)
	for i, c := range pending {
		children[i] = c.commit
		claimed = append(claimed, c.claimed...)
	}
	def.provisional++
	claimed = append(claimed, def)
	commit := buildCommit(def, children, myCommit)
	return claim{commit: commit, claimed: claimed}, true, nil
}

// attemptState holds the per-attempt runtime state that does not belong on
// the immutable BlockDef: currently just the Sequence cursor, which
// advances across the lifetime of a single parent attempt (§4.2 "Nested
// resolution").
type attemptState struct {
	seqIndex int
}

// tryNested consults def's Nesting before def consumes its own next line,
// per §4.2 "Nested resolution". It returns (claim, true, nil) if a child
// claimed the current line, (claim{}, false, nil) if no child is usable
// or none matched, or a non-nil error to abort parsing.
//
// occurrenceIndex for a child is usageCount+provisional+1: usageCount
// alone would renumber (and, were usable() to read usageCount alone as
// well, re-admit) a child whose prior occurrence structurally
// succeeded but is still pending its own ancestor chain's commit.
func (p *recognizer) tryNested(def *BlockDef, state *attemptState) (claim, bool, error) {
	switch def.nested.kind {
	case nestingNone:
		return claim{}, false, nil

	case nestingOne:
		child := def.nested.defs[0]
		if !usable(child, usageContextSingle) {
			return claim{}, false, nil
		}
		return p.attemptBlock(child, child.usageCount+child.provisional+1)

	case nestingChoice:
		for _, child := range def.nested.defs {
			if !usable(child, usageContextChoice) {
				continue
			}
			c, ok, err := p.attemptBlock(child, child.usageCount+child.provisional+1)
			if err != nil {
				return claim{}, false, err
			}
			if ok {
				return c, true, nil
			}
		}
		return claim{}, false, nil

	case nestingSequence:
		if state.seqIndex >= len(def.nested.defs) {
			return claim{}, false, nil
		}
		child := def.nested.defs[state.seqIndex]
		c, ok, err := p.attemptBlock(child, child.usageCount+child.provisional+1)
		if err != nil {
			return claim{}, false, err
		}
		if !ok {
			return claim{}, false, nil
		}
		state.seqIndex++
		return c, true, nil
	}
	return claim{}, false, nil
}

// matchAny returns the first matcher in ms that matches, in list order. A
// catch-all entry first probes every ancestor's tail matchers (without
// touching their memo) and yields to them, per the AllOthers placement
// rule in matcher.go.
func (p *recognizer) matchAny(ms []Matcher, gLN, lLN int, line string) (Matcher, interface{}, bool) {
	for _, m := range ms {
		if isCatchAll(m) && p.ancestorTailClaims(gLN, lLN, line) {
			continue
		}
		if ok, cap := m.Eval(gLN, lLN, line); ok {
			return m, cap, true
		}
	}
	return nil, nil, false
}

func (p *recognizer) ancestorTailClaims(gLN, lLN int, line string) bool {
	for _, tails := range p.ancestorTails {
		for _, m := range tails {
			if m.probe(gLN, lLN, line) {
				return true
			}
		}
	}
	return false
}

func fireHook(m Matcher, line Line, lLN int) {
	m.fireOnMatch(line.GLN, lLN, line.Text)
}
