package lineblock

// lineSource is the unified lazy view over the input stream: an
// append-only buffered window with a movable cursor. It pulls from the
// external LineStream only when the cursor catches up with the end of the
// buffer, which is how "suspend until more input or EOF" (§5) is realized
// in a language with ordinary synchronous calls: pulling more input is
// just another (possibly blocking) function call, not a distinct
// coroutine state.
type lineSource struct {
	stream  LineStream
	buf     []Line
	base    int // gLN of buf[0], or of the next line to arrive if buf is empty
	cursor  int // index into buf; gLN at cursor == base + cursor
	nextGLN int
	eof     bool
}

func newLineSource(stream LineStream) *lineSource {
	return &lineSource{stream: stream, base: 1, nextGLN: 1}
}

// fill pulls from the stream until the cursor has a line to look at, or
// EOF is reached.
func (ls *lineSource) fill() error {
	for ls.cursor >= len(ls.buf) && !ls.eof {
		text, ok, err := ls.stream.Next()
		if err != nil {
			return err
		}
		if !ok {
			ls.eof = true
			break
		}
		ls.buf = append(ls.buf, Line{GLN: ls.nextGLN, Text: text})
		ls.nextGLN++
	}
	return nil
}

// peek returns the line at the cursor without consuming it, or ok=false at
// EOF.
func (ls *lineSource) peek() (Line, bool, error) {
	if err := ls.fill(); err != nil {
		return Line{}, false, err
	}
	if ls.cursor >= len(ls.buf) {
		return Line{}, false, nil
	}
	return ls.buf[ls.cursor], true, nil
}

// advance moves the cursor one line forward. If the line at the cursor has
// not been read yet it is pulled from the stream first, so the cursor never
// passes the end of the buffer; at EOF, or on a stream error, the cursor
// stays where it is.
func (ls *lineSource) advance() {
	if ls.cursor >= len(ls.buf) {
		if err := ls.fill(); err != nil || ls.cursor >= len(ls.buf) {
			return
		}
	}
	ls.cursor++
}

// gLNAtCursor tells the gLN the cursor currently points at (one past the
// last consumed line if at the buffer's end), per the cursor invariant
// gLN_of_cursor == 1 + lines_dropped + cursor_index.
func (ls *lineSource) gLNAtCursor() int {
	return ls.base + ls.cursor
}

// rewindTo resets the cursor to point at gLN, used when a block attempt
// fails and must leave the cursor exactly where it started (§4.2, §8
// invariant 2).
func (ls *lineSource) rewindTo(gLN int) {
	ls.cursor = gLN - ls.base
}

// dropConsumedPrefix discards buffered lines no longer needed for rewind:
// everything strictly before the earliest gLN any live (in-progress)
// attempt might still need to rewind to. Passing the source's own cursor
// gLN as minLiveGLN (i.e. no attempts pending) drops everything already
// consumed.
func (ls *lineSource) dropConsumedPrefix(minLiveGLN int) {
	dropTo := minLiveGLN - ls.base
	if dropTo > ls.cursor {
		dropTo = ls.cursor
	}
	if dropTo <= 0 {
		return
	}
	ls.buf = ls.buf[dropTo:]
	ls.base += dropTo
	ls.cursor -= dropTo
}

// bufferedLines is the number of lines currently retained in memory,
// exposed for the "root memory bound" testable property.
func (ls *lineSource) bufferedLines() int {
	return len(ls.buf)
}

// liveStack tracks the start gLN of every block attempt currently on the
// call stack, so dropConsumedPrefix never discards a line an ancestor
// attempt might still need to rewind to (§9: "In-progress attempts keep
// the buffer pinned at min(start_gLN across live attempts)").
type liveStack struct {
	starts []int
}

func (s *liveStack) push(gLN int) {
	s.starts = append(s.starts, gLN)
}

func (s *liveStack) pop() {
	s.starts = s.starts[:len(s.starts)-1]
}

// min returns the smallest live start gLN, or fallback if none are live.
func (s *liveStack) min(fallback int) int {
	if len(s.starts) == 0 {
		return fallback
	}
	m := s.starts[0]
	for _, g := range s.starts[1:] {
		if g < m {
			m = g
		}
	}
	return m
}
