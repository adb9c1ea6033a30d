package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tavalabs/tava/internal/server"
	"github.com/tavalabs/tava/pkg/cache"
	"github.com/tavalabs/tava/pkg/pipeline"
	"github.com/tavalabs/tava/pkg/session"
)

// Session store kinds for --sessions.
const (
	sessionsMemory = "memory"
	sessionsFile   = "file"
	sessionsCache  = "cache"
)

// serveCommand creates the serve command for the HTTP and WebSocket API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		sessions string
		noCache  bool
		src      sourceFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and live interaction sessions over HTTP",
		Long: `Serve layouts and live interaction sessions over HTTP.

Endpoints:
  GET    /healthz                    liveness and build info
  GET    /api/layout                 layout JSON (?focal, width, height, selected)
  GET    /api/render.{svg,png,dot,json}
  GET    /api/entities/{id}          detail card for a node
  POST   /api/sessions               open an interaction session
  GET    /api/sessions/{id}          current frame
  POST   /api/sessions/{id}/events   apply pointer events, returns the frame
  GET    /api/sessions/{id}/ws       stream events in and frames out
  DELETE /api/sessions/{id}          close the session

A roster file source is watched and every open session is re-laid out when
it changes. Sessions are kept in memory, on disk (--sessions file) or in the
configured cache (--sessions cache, shared across replicas with Redis).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.config.Server.Addr
			}
			return c.runServe(cmd.Context(), src, addr, sessions, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&sessions, "sessions", sessionsFile, "session store: memory, file, cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	src.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, src sourceFlags, addr, sessions string, noCache bool) error {
	srcCfg := c.source(src, nil)
	source, err := pipeline.OpenSource(ctx, srcCfg, c.Logger)
	if err != nil {
		return fmt.Errorf("open roster source: %w", err)
	}
	defer source.Close()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store, err := newSessionStore(sessions, runner.Cache)
	if err != nil {
		return err
	}

	srv, err := server.New(ctx, server.Config{
		Runner:        runner,
		Source:        source,
		Store:         store,
		Params:        c.config.Layout,
		Viewport:      c.config.Viewport.Viewport(),
		FrameInterval: c.config.Server.FrameInterval,
		SessionTTL:    c.config.Server.SessionTTL,
		Logger:        c.Logger,
	})
	if err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	printInfo("Serving on %s", StyleHighlight.Render(addr))
	printKeyValue("Roster", srcCfg.Kind)
	printKeyValue("Sessions", sessions)
	printKeyValue("Cache", c.config.Cache.Kind)
	printNewline()

	if err := srv.Run(ctx, addr); err != nil {
		return err
	}
	return ctx.Err()
}

func newSessionStore(kind string, c cache.Cache) (session.Store, error) {
	switch kind {
	case sessionsMemory:
		return session.NewMemoryStore(), nil
	case sessionsFile:
		fs, err := session.NewFileStore("")
		if err != nil {
			return nil, fmt.Errorf("open session dir: %w", err)
		}
		return fs, nil
	case sessionsCache:
		return session.NewCacheStore(c), nil
	default:
		return nil, fmt.Errorf("unknown session store %q (want %s, %s or %s)", kind, sessionsMemory, sessionsFile, sessionsCache)
	}
}
