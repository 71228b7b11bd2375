package lineblock

import "testing"

func TestLineSourcePeekAdvance(t *testing.T) {
	ls := newLineSource(NewSliceStream([]string{"a", "b", "c"}))

	for i, want := range []string{"a", "b", "c"} {
		line, ok, err := ls.peek()
		if err != nil || !ok {
			t.Fatalf("peek %d: ok=%v err=%v", i, ok, err)
		}
		if line.Text != want || line.GLN != i+1 {
			t.Fatalf("peek %d = %+v, want {%d %q}", i, line, i+1, want)
		}
		ls.advance()
	}

	if _, ok, err := ls.peek(); ok || err != nil {
		t.Fatalf("expected EOF, got ok=%v err=%v", ok, err)
	}
}

func TestLineSourceRewind(t *testing.T) {
	ls := newLineSource(NewSliceStream([]string{"a", "b", "c"}))
	ls.advance()
	ls.advance()
	if got := ls.gLNAtCursor(); got != 3 {
		t.Fatalf("gLNAtCursor = %d, want 3", got)
	}

	ls.rewindTo(1)
	if got := ls.gLNAtCursor(); got != 1 {
		t.Fatalf("gLNAtCursor after rewind = %d, want 1", got)
	}
	line, ok, err := ls.peek()
	if err != nil || !ok || line.Text != "a" {
		t.Fatalf("peek after rewind = %+v, %v, %v", line, ok, err)
	}
}

func TestLineSourceDropConsumedPrefix(t *testing.T) {
	ls := newLineSource(NewSliceStream([]string{"a", "b", "c", "d"}))
	ls.advance()
	ls.advance()
	ls.advance()

	ls.dropConsumedPrefix(ls.gLNAtCursor())
	if got := ls.bufferedLines(); got != 0 {
		t.Fatalf("bufferedLines = %d, want 0 (every consumed line dropped; d is not read yet)", got)
	}
	if got := ls.gLNAtCursor(); got != 4 {
		t.Fatalf("gLNAtCursor after drop = %d, want 4", got)
	}

	line, ok, err := ls.peek()
	if err != nil || !ok || line.Text != "d" || line.GLN != 4 {
		t.Fatalf("peek after drop = %+v, %v, %v", line, ok, err)
	}
}

func TestLineSourceDropPinnedByLiveAttempt(t *testing.T) {
	ls := newLineSource(NewSliceStream([]string{"a", "b", "c", "d"}))
	ls.advance()
	ls.advance()
	ls.advance()

	var live liveStack
	live.push(2) // an in-progress attempt that started at gLN 2

	ls.dropConsumedPrefix(live.min(ls.gLNAtCursor()))
	if got := ls.bufferedLines(); got != 2 {
		t.Fatalf("bufferedLines = %d, want 2 (gLN 2..3 retained for the live attempt)", got)
	}
}

func TestLiveStackMin(t *testing.T) {
	var live liveStack
	if got := live.min(42); got != 42 {
		t.Fatalf("min with no live attempts = %d, want fallback 42", got)
	}
	live.push(10)
	live.push(3)
	live.push(7)
	if got := live.min(42); got != 3 {
		t.Fatalf("min = %d, want 3", got)
	}
	live.pop()
	if got := live.min(42); got != 3 {
		t.Fatalf("min after popping 7 = %d, want 3", got)
	}
}
