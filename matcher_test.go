package lineblock

import "testing"

type matcherTestData struct {
	matcher func() Matcher
	gLN     int
	lLN     int
	line    string
	ok      bool
}

func runMatcherTestData(t *testing.T, data matcherTestData) {
	m := data.matcher()
	ok, _ := m.Eval(data.gLN, data.lLN, data.line)
	if ok != data.ok {
		t.Errorf("Eval(%d, %d, %q) => %v, want %v", data.gLN, data.lLN, data.line, ok, data.ok)
	}
}

func TestPatternMatcher(t *testing.T) {
	data := []matcherTestData{
		{func() Matcher { return Pattern(`^<< head\d+`) }, 1, 1, "<< head1", true},
		{func() Matcher { return Pattern(`^<< head\d+`) }, 1, 1, "   body1", false},
		{func() Matcher { return Pattern(`^\s+body\d+`) }, 2, 2, "   body1", true},
	}
	for _, d := range data {
		runMatcherTestData(t, d)
	}
}

func TestPatternCompileError(t *testing.T) {
	_, err := PatternCompile(`(unterminated`)
	if err == nil {
		t.Fatal("expected a DefinitionError for an invalid regexp")
	}
	if _, ok := err.(*DefinitionError); !ok {
		t.Errorf("got %T, want *DefinitionError", err)
	}
}

func TestLiteralMatcher(t *testing.T) {
	data := []matcherTestData{
		{func() Matcher { return Literal("ERROR") }, 1, 1, "2024 ERROR disk full", true},
		{func() Matcher { return Literal("ERROR") }, 1, 1, "2024 INFO started", false},
	}
	for _, d := range data {
		runMatcherTestData(t, d)
	}
}

func TestMatcherMemo(t *testing.T) {
	calls := 0
	m := NewFuncMatcher("counting", func(gLN, lLN int, line string) (bool, interface{}) {
		calls++
		return line == "x", nil
	})

	if ok, _ := m.Eval(5, 1, "x"); !ok {
		t.Fatal("expected first Eval to match")
	}
	if ok, _ := m.Eval(5, 1, "x"); !ok {
		t.Fatal("expected memoized Eval to still report a match")
	}
	if calls != 1 {
		t.Errorf("memoized Eval ran the underlying test %d times, want 1", calls)
	}

	if ok, _ := m.Eval(6, 1, "y"); ok {
		t.Error("a new gLN must bypass the memo")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 after a new gLN", calls)
	}
}

func TestMatcherProbeBypassesMemo(t *testing.T) {
	calls := 0
	m := NewFuncMatcher("probed", func(gLN, lLN int, line string) (bool, interface{}) {
		calls++
		return true, nil
	})

	if ok := m.probe(1, 1, "anything"); !ok {
		t.Fatal("expected probe to report a match")
	}
	if ok, _ := m.Eval(1, 1, "anything"); !ok {
		t.Fatal("expected Eval after probe to still match")
	}
	if calls != 2 {
		t.Errorf("probe must not populate the memo: calls = %d, want 2", calls)
	}
}

func TestOnMatchHookFiresOnlyOnMatch(t *testing.T) {
	var fired []string
	hook := func(block string, gLN, lLN int, line string, capture interface{}) {
		fired = append(fired, block)
	}
	m := Literal("ERROR", OnMatch(hook))
	m.bindOwner("MyBlock")

	m.Eval(1, 1, "no match here")
	m.fireOnMatch(1, 1, "no match here")
	if len(fired) != 0 {
		t.Fatalf("hook fired on a non-match: %v", fired)
	}

	m.Eval(2, 1, "ERROR disk full")
	m.fireOnMatch(2, 1, "ERROR disk full")
	if len(fired) != 1 || fired[0] != "MyBlock" {
		t.Fatalf("fired = %v, want one call naming MyBlock", fired)
	}
}

func TestAllOthersAlwaysMatches(t *testing.T) {
	m := AllOthers()
	for i, line := range []string{"", "anything", "<< head1"} {
		if ok, cap := m.Eval(i+1, 1, line); !ok || cap != line {
			t.Errorf("AllOthers.Eval(_, _, %q) => (%v, %v), want (true, %q)", line, ok, cap, line)
		}
	}
	if !isCatchAll(m) {
		t.Error("isCatchAll(AllOthers()) = false")
	}
	if isCatchAll(Literal("x")) {
		t.Error("isCatchAll(Literal(...)) = true")
	}
}

func TestNextAutoNameIsUnique(t *testing.T) {
	a := nextAutoName()
	b := nextAutoName()
	if a == b {
		t.Errorf("nextAutoName produced %q twice", a)
	}
}
