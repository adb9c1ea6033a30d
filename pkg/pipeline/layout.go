package pipeline

import (
	"github.com/tavalabs/tava/pkg/errors"
	"github.com/tavalabs/tava/pkg/graph"
	"github.com/tavalabs/tava/pkg/ringgraph"
	"github.com/tavalabs/tava/pkg/roster"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout runs the ring engine for opts.Focal over r and resolves the
// result into the wire format, with opts.Selected applied.
//
// The focal entity need not be in the roster: the layout then holds only
// the focal node. A selection that names a node outside the layout is an
// ENTITY_NOT_FOUND error.
func ComputeLayout(r *roster.Roster, opts Options) (graph.Layout, *ringgraph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, nil, err
	}

	var src ringgraph.Source
	var dir ringgraph.Directory
	if r != nil {
		src, dir = r, r
	}
	engine := ringgraph.Compute(opts.Focal, src, opts.Viewport(), opts.Params)

	ix := ringgraph.NewInteraction(engine)
	if opts.Selected != "" {
		if !engine.Has(opts.Selected) {
			return graph.Layout{}, nil, errors.New(errors.ErrCodeEntityNotFound,
				"selected entity %q is not in the layout of %q", opts.Selected, opts.Focal)
		}
		ix.Select(opts.Selected)
	}

	opts.Logger.Debug("computed ring layout",
		"focal", opts.Focal,
		"direct", engine.Stats.Direct,
		"extended", engine.Stats.Extended,
		"overflow", engine.Stats.Overflow,
		"size", engine.Geometry.Size)

	return graph.FromLayout(engine, ix, dir), engine, nil
}
