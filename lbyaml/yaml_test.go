package lbyaml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hucsmn/lineblock"
)

func TestLoadSimpleBlockAndParse(t *testing.T) {
	doc := []byte(`
kind: one
defs:
  - name: error_block
    head:
      - kind: pattern
        pattern: "^ERROR"
    body:
      - kind: literal
        literal: "at "
    line_count: 2
`)
	var captured []string
	actions := ActionRegistry{
		"error_block": func(lines []lineblock.Line, occ int) lineblock.Commit {
			return func() error {
				for _, l := range lines {
					captured = append(captured, l.Text)
				}
				return nil
			}
		},
	}

	top, err := Load(doc, actions)
	require.NoError(t, err)

	res, err := lineblock.ParseStream(lineblock.NewSliceStream([]string{
		"ERROR disk full",
		"  at somewhere",
	}), top)
	require.NoError(t, err)

	assert.Equal(t, 2, res.LinesConsumed)
	want := []string{"ERROR disk full", "  at somewhere"}
	if diff := cmp.Diff(want, captured); diff != "" {
		t.Errorf("captured lines mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadChoicePriorityOrder(t *testing.T) {
	doc := []byte(`
kind: choice
defs:
  - name: high
    priority: 1
    body:
      - kind: literal
        literal: "X"
    line_count: 1
  - name: low
    priority: 2
    body:
      - kind: literal
        literal: "X"
    line_count: 1
`)
	var fired []string
	actions := ActionRegistry{
		"high": func(lines []lineblock.Line, occ int) lineblock.Commit {
			return func() error { fired = append(fired, "high"); return nil }
		},
		"low": func(lines []lineblock.Line, occ int) lineblock.Commit {
			return func() error { fired = append(fired, "low"); return nil }
		},
	}

	top, err := Load(doc, actions)
	require.NoError(t, err)

	_, err = lineblock.ParseStream(lineblock.NewSliceStream([]string{"X"}), top)
	require.NoError(t, err)
	assert.Equal(t, []string{"high"}, fired)
}

func TestLoadUnknownMatcherKind(t *testing.T) {
	doc := []byte(`
kind: one
defs:
  - name: bad
    body:
      - kind: regex
        pattern: "x"
`)
	_, err := Load(doc, nil)
	assert.Error(t, err)
}

func TestLoadUnknownNestingKind(t *testing.T) {
	doc := []byte(`
kind: parallel
defs: []
`)
	_, err := Load(doc, nil)
	assert.Error(t, err)
}

func TestLoadOneRequiresExactlyOneDef(t *testing.T) {
	doc := []byte(`
kind: one
defs:
  - name: a
    body:
      - kind: literal
        literal: "a"
  - name: b
    body:
      - kind: literal
        literal: "b"
`)
	_, err := Load(doc, nil)
	assert.Error(t, err)
}

func TestLoadNestedBlock(t *testing.T) {
	doc := []byte(`
kind: one
defs:
  - name: outer
    head:
      - kind: literal
        literal: "<<"
    body:
      - kind: literal
        literal: "body"
    tail:
      - kind: literal
        literal: "tail"
    nested:
      kind: one
      defs:
        - name: inner
          body:
            - kind: lineno
              line_no: "2"
              global: true
`)
	top, err := Load(doc, nil)
	require.NoError(t, err)

	res, err := lineblock.ParseStream(lineblock.NewSliceStream([]string{
		"<< head",
		"body line",
		"tail line",
	}), top)
	require.NoError(t, err)
	assert.Equal(t, 3, res.LinesConsumed)
}
