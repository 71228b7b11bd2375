// Package lbyaml loads a lineblock.Nesting tree from a YAML document,
// the way a caller with more than a couple of BlockDefs eventually wants
// to describe them as data instead of Go literals. Actions are Go code
// and cannot live in YAML, so a loaded tree is wired up to caller-supplied
// Actions through a name-keyed ActionRegistry after the declarative shape
// is built.
package lbyaml

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hucsmn/lineblock"
)

// MatcherSpec describes one Matcher as data. Kind selects the variant
// ("pattern", "literal", "lineno" or "allothers"); only the fields that
// variant reads (Pattern, Literal, or LineNo with LineNoAll) are used.
type MatcherSpec struct {
	Kind      string      `yaml:"kind"`
	Pattern   string      `yaml:"pattern,omitempty"`
	Literal   string      `yaml:"literal,omitempty"`
	LineNo    interface{} `yaml:"line_no,omitempty"`
	LineNoAll bool        `yaml:"global,omitempty"`
}

// NestingSpec describes a lineblock.Nesting: a single child ("one"), a
// priority-ordered choice-set ("choice"), or an ordered sequence
// ("sequence").
type NestingSpec struct {
	Kind string      `yaml:"kind"`
	Defs []BlockSpec `yaml:"defs"`
}

// BlockSpec describes a lineblock.BlockDef as data.
type BlockSpec struct {
	Name       string        `yaml:"name,omitempty"`
	Head       []MatcherSpec `yaml:"head,omitempty"`
	Body       []MatcherSpec `yaml:"body,omitempty"`
	Tail       []MatcherSpec `yaml:"tail,omitempty"`
	LineCount  int           `yaml:"line_count,omitempty"`
	UsageLimit int           `yaml:"usage_limit,omitempty"`
	Strict     bool          `yaml:"strict,omitempty"`
	Priority   int           `yaml:"priority,omitempty"`
	Nested     *NestingSpec  `yaml:"nested,omitempty"`
}

// ActionRegistry maps a BlockSpec's Name to the Action it should run on
// recognition. A BlockSpec with no matching entry gets no action (pure
// structural recognition, useful for wrapper/grouping blocks).
type ActionRegistry map[string]lineblock.Action

// Load parses doc as a top-level NestingSpec and builds the corresponding
// lineblock.Nesting tree, suitable as the `top` argument to ParseStream or
// ParseFile. Any malformed matcher kind, unknown nesting kind, or
// BlockDef construction failure surfaces as an error (wrapping a
// *lineblock.DefinitionError where the failure is the engine's own).
func Load(doc []byte, actions ActionRegistry) (lineblock.Nesting, error) {
	var spec NestingSpec
	if err := yaml.Unmarshal(doc, &spec); err != nil {
		return lineblock.Nesting{}, fmt.Errorf("lbyaml: parsing document: %w", err)
	}
	return buildNesting(spec, actions)
}

func buildNesting(spec NestingSpec, actions ActionRegistry) (lineblock.Nesting, error) {
	defs := make([]*lineblock.BlockDef, 0, len(spec.Defs))
	for i := range spec.Defs {
		def, err := buildBlockDef(spec.Defs[i], actions)
		if err != nil {
			return lineblock.Nesting{}, err
		}
		defs = append(defs, def)
	}

	switch spec.Kind {
	case "one":
		if len(defs) != 1 {
			return lineblock.Nesting{}, fmt.Errorf("lbyaml: nesting kind %q requires exactly one def, got %d", spec.Kind, len(defs))
		}
		return lineblock.One(defs[0]), nil
	case "choice":
		return lineblock.ChoiceSet(defs...), nil
	case "sequence":
		return lineblock.Sequence(defs...), nil
	default:
		return lineblock.Nesting{}, fmt.Errorf("lbyaml: unknown nesting kind %q", spec.Kind)
	}
}

func buildBlockDef(spec BlockSpec, actions ActionRegistry) (*lineblock.BlockDef, error) {
	head, err := buildMatchers(spec.Head)
	if err != nil {
		return nil, err
	}
	body, err := buildMatchers(spec.Body)
	if err != nil {
		return nil, err
	}
	tail, err := buildMatchers(spec.Tail)
	if err != nil {
		return nil, err
	}

	opts := []lineblock.BlockDefOption{
		lineblock.Head(head...),
		lineblock.Body(body...),
		lineblock.Tail(tail...),
		lineblock.LineCount(spec.LineCount),
		lineblock.UsageLimit(spec.UsageLimit),
		lineblock.Strict(spec.Strict),
		lineblock.Priority(defaultPriority(spec.Priority)),
	}
	if spec.Name != "" {
		opts = append(opts, lineblock.Name(spec.Name))
	}
	if action, ok := actions[spec.Name]; ok {
		opts = append(opts, lineblock.WithAction(action))
	}
	if spec.Nested != nil {
		nested, err := buildNesting(*spec.Nested, actions)
		if err != nil {
			return nil, err
		}
		opts = append(opts, lineblock.Nested(nested))
	}

	def, err := lineblock.NewBlockDef(opts...)
	if err != nil {
		return nil, fmt.Errorf("lbyaml: building block %q: %w", spec.Name, err)
	}
	return def, nil
}

func defaultPriority(p int) int {
	if p == 0 {
		return 1
	}
	return p
}

func buildMatchers(specs []MatcherSpec) ([]lineblock.Matcher, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	ms := make([]lineblock.Matcher, 0, len(specs))
	for _, spec := range specs {
		m, err := buildMatcher(spec)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, nil
}

func buildMatcher(spec MatcherSpec) (lineblock.Matcher, error) {
	switch spec.Kind {
	case "pattern":
		return lineblock.PatternCompile(spec.Pattern)
	case "literal":
		return lineblock.Literal(spec.Literal), nil
	case "lineno":
		return lineblock.LineNo(spec.LineNo, spec.LineNoAll), nil
	case "allothers":
		return lineblock.AllOthers(), nil
	default:
		return nil, fmt.Errorf("lbyaml: unknown matcher kind %q", spec.Kind)
	}
}
