package lineblock

// claim is what a structurally successful attemptBlock call hands back to
// its caller before the enclosing recognition is known to be final: the
// deferred Commit itself, plus every BlockDef (this one and everything
// claimed by its own pending children, flattened) whose usage was counted
// provisionally for this attempt. A failing ancestor rolls claimed back
// without ever invoking a Commit; a succeeding one lets buildCommit settle
// claimed into usageCount once the Commit actually runs.
type claim struct {
	commit  Commit
	claimed []*BlockDef
}

// rollback undoes every provisional usage count a discarded claim list
// reserved, for an ancestor attempt that failed before any of these
// Commits could run (§8 invariant 5: usage_limit must not see phantom
// occurrences from a subtree that never actually committed).
func rollback(pending []claim) {
	for _, c := range pending {
		for _, d := range c.claimed {
			d.provisional--
		}
	}
}

// buildCommit composes a block's own commit with its children's, per §4.2
// "Commit": children run first, in recorded (capture) order, then the
// block's own action-produced commit, then usage_count is bumped. Nothing
// here runs until the returned Commit is actually invoked, which is what
// makes a failed ancestor's discarded subtree side-effect free: a Commit
// that is never invoked never runs.
func buildCommit(def *BlockDef, children []Commit, own Commit) Commit {
	return func() error {
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child(); err != nil {
				return err
			}
		}
		if own != nil {
			if err := own(); err != nil {
				return newActionError(def.name, err)
			}
		}
		def.usageCount++
		def.provisional--
		return nil
	}
}
