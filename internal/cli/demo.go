package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tavalabs/tava/pkg/roster"
)

// demoCommand creates the demo command, which writes a sample roster file.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		generate int
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "demo [file]",
		Short: "Write a sample roster file",
		Long: `Write a sample roster file to start from.

Without flags this is the built-in demo: you plus ten builders, three of whom
you like. --generate writes a synthetic campus of the given size instead; the
same seed always produces the same roster. The format follows the file
extension (.yaml, .json or .toml).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "roster.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			return c.runDemo(path, generate, seed)
		},
	}

	cmd.Flags().IntVar(&generate, "generate", 0, "generate a synthetic roster of this many builders")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed for --generate")

	return cmd
}

func (c *CLI) runDemo(path string, generate int, seed uint64) error {
	f := &roster.File{Focal: roster.LocalUserID, Roster: roster.Demo()}
	if generate > 0 {
		r := roster.Generate(generate, seed)
		f = &roster.File{Roster: r}
		if ids := r.Roster(); len(ids) > 0 {
			f.Focal = ids[0]
		}
	}
	if err := roster.WriteFile(path, f); err != nil {
		return fmt.Errorf("write roster: %w", err)
	}

	printSuccess("Wrote %d profiles", f.Roster.Len())
	printFile(path)
	printNewline()
	printNextStep("Explore", fmt.Sprintf("tava explore --roster %s", path))
	return nil
}
