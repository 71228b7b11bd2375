// Command lineblock is a small demo/operational front-end over the
// lineblock engine, in the spirit of the teacher's example/sexp and
// example/rpn mains: read lines, recognize blocks, report what happened.
// Unlike those single-file examples, this is a multi-subcommand tool
// built with cobra, matching how opal-lang-opal's CLI is structured.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hucsmn/lineblock"
	"github.com/hucsmn/lineblock/lbyaml"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lineblock",
		Short: "Recognize nested line-blocks in a text stream",
	}
	root.AddCommand(newValidateCmd(), newParseCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <defs.yaml>",
		Short: "Load a YAML block definition and report any definition errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if _, err := lbyaml.Load(doc, nil); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <defs.yaml> <input>",
		Short: "Parse input against a YAML block definition, logging every match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defsPath, inputPath := args[0], args[1]

			doc, err := os.ReadFile(defsPath)
			if err != nil {
				return err
			}
			top, err := lbyaml.Load(doc, loggingActions(doc))
			if err != nil {
				return err
			}

			result, err := lineblock.ParseFile(inputPath, top,
				lineblock.WithRootSkipHook(func(gLN int, line string) {
					log.Printf("skip %d: %s", gLN, line)
				}))
			if err != nil {
				return err
			}
			log.Printf("done: %d lines consumed, %d lines skipped", result.LinesConsumed, result.LinesSkipped)
			return nil
		},
	}
}

// loggingActions builds an ActionRegistry that logs every occurrence of
// every named block in doc, since a declaratively-loaded definition has
// no Go-side actions of its own to wire up.
func loggingActions(doc []byte) lbyaml.ActionRegistry {
	actions := make(lbyaml.ActionRegistry)
	var spec lbyaml.NestingSpec
	if err := yaml.Unmarshal(doc, &spec); err != nil {
		return actions
	}
	collectNames(spec, actions)
	return actions
}

func collectNames(spec lbyaml.NestingSpec, actions lbyaml.ActionRegistry) {
	for _, def := range spec.Defs {
		name := def.Name
		actions[name] = func(lines []lineblock.Line, occurrence int) lineblock.Commit {
			return func() error {
				log.Printf("matched %q (occurrence %d, %d lines)", name, occurrence, len(lines))
				return nil
			}
		}
		if def.Nested != nil {
			collectNames(*def.Nested, actions)
		}
	}
}
