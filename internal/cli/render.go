package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tavalabs/tava/pkg/graph"
	"github.com/tavalabs/tava/pkg/pipeline"
)

// renderCommand creates the render command for generating images.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
		noLabels   bool
		noLines    bool
		src        sourceFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [focal]",
		Short: "Render the ring layout to SVG, PNG, DOT or JSON",
		Long: `Render the ring layout around a focal entity.

Several formats may be requested at once (-f svg,png); each is written next
to the output base path with its own extension. PNG output goes through
Graphviz, the SVG renderer is native.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Labels = !noLabels
			opts.Connectors = !noLines
			return c.runRender(cmd.Context(), src, args, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "omit the letter badges inside nodes")
	cmd.Flags().BoolVar(&noLines, "no-connectors", false, "omit the lines from the focal node to the first ring")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title drawn above the rings")
	src.register(cmd)
	c.layoutFlags(cmd, &opts)

	return cmd
}

// runRender computes the layout and writes one file per format.
func (c *CLI) runRender(ctx context.Context, src sourceFlags, args []string, opts pipeline.Options, output string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, "Rendering "+strings.Join(opts.Formats, ", ")+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, r, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(output, focal, opts.Formats)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}

	printSuccess("Rendered %d file(s)", len(opts.Formats))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	printRings(result.Layout.Stats)
	return nil
}

// outputPaths maps each format to its output file. A single format with an
// explicit output uses it verbatim; otherwise a base path (the output with
// any known format extension stripped, or the focal id) gets the format as
// its extension.
func outputPaths(output, focal string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, focal)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath strips a known format extension from output, falling back to def.
func basePath(output, def string) string {
	if output == "" {
		return def
	}
	ext := filepath.Ext(output)
	if slices.Contains(graph.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
