package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level entries
// to a logger.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger. A nil logger uses the
// charmbracelet default logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, focal string, rosterSize int) {
	h.logger.Debug("layout start", "focal", focal, "roster", rosterSize)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, focal string, nodeCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "focal", focal, "duration", d, "error", err)
		return
	}
	h.logger.Debug("layout complete", "focal", focal, "nodes", nodeCount, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render complete", "formats", formats, "duration", d, "error", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnSessionOpen(_ context.Context, id, focal string) {
	h.logger.Debug("session open", "session", id, "focal", focal)
}

func (h *LogHooks) OnSessionEvent(_ context.Context, id, kind string) {
	h.logger.Debug("session event", "session", id, "kind", kind)
}

func (h *LogHooks) OnSessionClose(_ context.Context, id string, lifetime time.Duration) {
	h.logger.Debug("session close", "session", id, "lifetime", lifetime)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ SessionHooks  = (*LogHooks)(nil)
)
