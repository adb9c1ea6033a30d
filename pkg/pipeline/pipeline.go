// Package pipeline provides the load → layout → render pipeline used by both
// the CLI and the HTTP server.
//
// # Overview
//
// A pipeline run takes a roster snapshot and a focal entity, computes the
// ring layout for a viewport, and renders it into one or more artifact
// formats:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, snapshot, pipeline.Options{
//	    Focal:   "local-current-user",
//	    Formats: []string{"svg", "json"},
//	})
//
// Layouts and artifacts are cached independently. A layout key covers the
// roster hash, focal, viewport, tuning and selection; an artifact key covers
// the layout hash and the render flags. Changing only the render flags reuses
// the cached layout.
//
// [LoadRoster] and [Subscribe] resolve the configured roster source (demo
// data, a watched file or a MongoDB collection) so callers never switch on
// the source kind themselves.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tavalabs/tava/pkg/cache"
	"github.com/tavalabs/tava/pkg/errors"
	"github.com/tavalabs/tava/pkg/graph"
	"github.com/tavalabs/tava/pkg/ringgraph"
	"github.com/tavalabs/tava/pkg/roster"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Default values for pipeline options.
const (
	DefaultWidth  = 390.0 // phone-sized viewport
	DefaultHeight = 844.0
	DefaultFocal  = roster.LocalUserID
)

// Output formats, re-exported so callers need only this package.
const (
	FormatJSON = graph.FormatJSON
	FormatSVG  = graph.FormatSVG
	FormatDOT  = graph.FormatDOT
	FormatPNG  = graph.FormatPNG
)

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. Zero values take the defaults above;
// a zero Params takes [ringgraph.DefaultParams].
type Options struct {
	Focal    string           `json:"focal,omitempty"`
	Width    float64          `json:"width,omitempty"`
	Height   float64          `json:"height,omitempty"`
	Params   ringgraph.Params `json:"params"`
	Selected string           `json:"selected,omitempty"`

	Formats    []string `json:"formats,omitempty"`
	Labels     bool     `json:"labels"`
	Connectors bool     `json:"connectors"`
	Title      string   `json:"title,omitempty"`

	// Refresh bypasses cache reads; fresh results are still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// =============================================================================
// Result Types
// =============================================================================

// Result holds the outputs of a full pipeline run.
type Result struct {
	Layout     graph.Layout      // wire layout as rendered
	Engine     *ringgraph.Layout // engine layout; nil when the layout came from cache
	RosterHash string
	Artifacts  map[string][]byte
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats holds timing and size statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are known.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, graph.Formats...); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateEntityID(o.Focal); err != nil {
		return err
	}
	if o.Selected != "" {
		if err := errors.ValidateEntityID(o.Selected); err != nil {
			return err
		}
	}
	if err := errors.ValidateViewport(o.Width, o.Height); err != nil {
		return err
	}
	if err := o.Params.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParams, err, "layout params")
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Focal == "" {
		o.Focal = DefaultFocal
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Params == (ringgraph.Params{}) {
		o.Params = ringgraph.DefaultParams()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Viewport returns the requested canvas space.
func (o *Options) Viewport() ringgraph.Viewport {
	return ringgraph.Viewport{Width: o.Width, Height: o.Height}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Focal:      o.Focal,
		Width:      o.Width,
		Height:     o.Height,
		ParamsHash: paramsHash(o.Params),
		Selected:   o.Selected,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Selected:   o.Selected,
		Labels:     o.Labels,
		Connectors: o.Connectors,
		Title:      o.Title,
	}
}

func paramsHash(p ringgraph.Params) string {
	return cache.Hash([]byte(fmt.Sprintf("%+v", p)))
}
