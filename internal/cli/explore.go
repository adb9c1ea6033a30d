package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tavalabs/tava/pkg/pipeline"
)

// exploreCommand creates the explore command, an interactive terminal view
// of the rings.
func (c *CLI) exploreCommand() *cobra.Command {
	var src sourceFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "explore [focal]",
		Short: "Explore the rings interactively in the terminal",
		Long: `Explore the rings interactively in the terminal.

tab / shift+tab  move between nodes
enter            tap: select, or deselect when already selected
d                pick the node up; arrows move it, enter drops, esc cancels
x                deselect and send every pinned node home
q                quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), src, args, opts)
		},
	}

	src.register(cmd)
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "viewport width in points")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "viewport height in points")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, src sourceFlags, args []string, opts pipeline.Options) error {
	r, focal, err := c.loadRoster(ctx, src, args)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	opts.Focal = focal
	c.setCLIDefaults(&opts)

	_, engine, err := pipeline.ComputeLayout(r, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	c.Logger.Debug("explore", "focal", focal, "nodes", len(engine.Nodes))

	p := tea.NewProgram(newExploreModel(engine, r), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("explore: %w", err)
	}
	return nil
}
