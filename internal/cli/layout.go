package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tavalabs/tava/pkg/graph"
	"github.com/tavalabs/tava/pkg/pipeline"
)

// layoutCommand creates the layout command for computing ring layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		src     sourceFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [focal]",
		Short: "Compute the ring layout around a focal entity",
		Long: `Compute the ring layout around a focal entity.

The output is a layout.json file (same format as 'render -f json') holding
node positions, ring radii and edge geometry. Render it with 'tava render'
or feed it to another frontend.

Results are cached; --refresh recomputes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), src, args, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <focal>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	src.register(cmd)
	c.layoutFlags(cmd, &opts)

	return cmd
}

// runLayout loads the roster, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, src sourceFlags, args []string, opts pipeline.Options, output string, noCache bool) error {
	r, focal, err := c.loadRoster(ctx, src, args)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	opts.Focal = focal
	c.setCLIDefaults(&opts)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, r, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = focal + ".layout.json"
	}
	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(layout.Nodes), len(layout.Edges), cacheHit)
	printRings(layout.Stats)
	printNewline()
	printNextStep("Render", "tava render "+focal)

	return nil
}
