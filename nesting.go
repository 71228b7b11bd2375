package lineblock

// nestingKind tags the compositional shape of a BlockDef's children, per
// the "Dynamic-typed nesting spec → tagged variant" design note: the
// source's dynamically-typed single/list/set argument becomes a small
// closed sum type here instead.
type nestingKind int

const (
	nestingNone nestingKind = iota
	nestingOne
	nestingChoice
	nestingSequence
)

// Nesting describes how a BlockDef's children compose. The zero value is
// NoNesting: a leaf block with no children.
type Nesting struct {
	kind nestingKind
	defs []*BlockDef // One: len 1. Choice/Sequence: priority order resp. declaration order.
}

// NoNesting is the nesting of a leaf BlockDef.
func NoNesting() Nesting {
	return Nesting{kind: nestingNone}
}

// One nests a single child block, retried on every line until its own
// usage_limit (default unlimited) is exhausted.
func One(def *BlockDef) Nesting {
	return Nesting{kind: nestingOne, defs: []*BlockDef{def}}
}

// ChoiceSet nests priority-ordered alternatives: on each line the parser
// tries each usable alternative in ascending priority order and accepts
// the first that succeeds. Each alternative's default usage_limit is 1.
func ChoiceSet(alts ...*BlockDef) Nesting {
	sorted := make([]*BlockDef, len(alts))
	copy(sorted, alts)
	stableSortByPriority(sorted)
	return Nesting{kind: nestingChoice, defs: sorted}
}

// Sequence nests an ordered list of children: the parser attempts only the
// current index, advancing to the next child once the current one closes.
// Each child's usage_limit is treated as unlimited.
func Sequence(seq ...*BlockDef) Nesting {
	defs := make([]*BlockDef, len(seq))
	copy(defs, seq)
	return Nesting{kind: nestingSequence, defs: defs}
}

func stableSortByPriority(defs []*BlockDef) {
	// insertion sort: nesting lists are small and this keeps equal
	// priorities in declaration order, matching sort.Stable without
	// pulling in the extra import for a handful of elements.
	for i := 1; i < len(defs); i++ {
		for j := i; j > 0 && defs[j].priority < defs[j-1].priority; j-- {
			defs[j], defs[j-1] = defs[j-1], defs[j]
		}
	}
}

func (n Nesting) validate(owner string) error {
	switch n.kind {
	case nestingNone:
		return nil
	case nestingOne:
		if n.defs[0] == nil {
			return newDefinitionError(owner, errNilNestedChild)
		}
		return nil
	case nestingChoice, nestingSequence:
		if len(n.defs) == 0 {
			return newDefinitionError(owner, errEmptySequenceChoice)
		}
		for _, d := range n.defs {
			if d == nil {
				return newDefinitionError(owner, errNilNestedChild)
			}
		}
		return nil
	}
	return nil
}

// usageContext tells usable() which default usage_limit applies to a
// BlockDef left unspecified by its author, per §3: "in a sequence nesting,
// each child's usage_limit is treated as unlimited... in a choice-set, the
// default usage_limit for each alternative is 1."
type usageContext int

const (
	usageContextSingle usageContext = iota
	usageContextChoice
)

// usable reports whether def may still be attempted under ctx. It counts
// both settled occurrences (usageCount, bumped only once a Commit actually
// runs) and occurrences already claimed by a structurally successful
// attempt still pending its enclosing ancestor's own success
// (provisional, see commit.go) — otherwise an ancestor that stays open
// across several lines (e.g. a loose block waiting on its tail) would let
// a usage_limit=1 alternative match again before its first occurrence
// ever commits.
func usable(def *BlockDef, ctx usageContext) bool {
	limit := def.usageLimit
	if limit == 0 {
		if ctx == usageContextChoice {
			limit = 1
		} else {
			return true
		}
	}
	return def.usageCount+def.provisional < limit
}
