package pipeline

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tavalabs/tava/pkg/config"
	"github.com/tavalabs/tava/pkg/errors"
	"github.com/tavalabs/tava/pkg/roster"
	"github.com/tavalabs/tava/pkg/roster/mongostore"
)

// =============================================================================
// Roster Sources
// =============================================================================

// Source yields roster snapshots from wherever the configuration says they
// live.
type Source interface {
	// Snapshot returns the current roster.
	Snapshot(ctx context.Context) (*roster.Roster, error)

	// Subscribe delivers a snapshot immediately and again on every change
	// until ctx is cancelled. Sources that never change deliver once and
	// block until ctx is done.
	Subscribe(ctx context.Context, fn func(*roster.Roster)) error

	// Focal is the entity to center on when a request names none.
	Focal() string

	Close() error
}

// OpenSource resolves cfg into a Source. logger may be nil.
func OpenSource(ctx context.Context, cfg config.Source, logger *log.Logger) (Source, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	switch cfg.Kind {
	case config.SourceDemo, "":
		return &staticSource{r: roster.Demo(), focal: focalOr(cfg.Focal, roster.LocalUserID)}, nil

	case config.SourceFile:
		f, err := roster.ReadFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded roster file", "path", cfg.Path, "profiles", f.Roster.Len())
		return &fileSource{
			path:   cfg.Path,
			logger: logger,
			r:      f.Roster,
			focal:  focalOr(cfg.Focal, focalOr(f.Focal, roster.LocalUserID)),
		}, nil

	case config.SourceMongo:
		store, err := mongostore.Open(ctx, mongostore.Config{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		}, logger)
		if err != nil {
			return nil, err
		}
		return &mongoSource{store: store, focal: focalOr(cfg.Focal, roster.LocalUserID)}, nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown roster source %q", cfg.Kind)
	}
}

// LoadRoster opens cfg, takes one snapshot and closes the source again.
func LoadRoster(ctx context.Context, cfg config.Source, logger *log.Logger) (*roster.Roster, string, error) {
	src, err := OpenSource(ctx, cfg, logger)
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	r, err := src.Snapshot(ctx)
	if err != nil {
		return nil, "", err
	}
	return r, src.Focal(), nil
}

func focalOr(id, def string) string {
	if id != "" {
		return id
	}
	return def
}

// staticSource serves a fixed snapshot.
type staticSource struct {
	r     *roster.Roster
	focal string
}

// NewStaticSource serves r unchanged for its whole lifetime.
func NewStaticSource(r *roster.Roster, focal string) Source {
	return &staticSource{r: r, focal: focalOr(focal, roster.LocalUserID)}
}

func (s *staticSource) Snapshot(context.Context) (*roster.Roster, error) { return s.r, nil }
func (s *staticSource) Focal() string                                   { return s.focal }
func (s *staticSource) Close() error                                    { return nil }

func (s *staticSource) Subscribe(ctx context.Context, fn func(*roster.Roster)) error {
	fn(s.r)
	<-ctx.Done()
	return ctx.Err()
}

// fileSource reads a roster file and follows it with a filesystem watcher.
type fileSource struct {
	path   string
	logger *log.Logger
	focal  string

	mu sync.RWMutex
	r  *roster.Roster
}

func (s *fileSource) Snapshot(context.Context) (*roster.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r, nil
}

func (s *fileSource) Focal() string { return s.focal }
func (s *fileSource) Close() error  { return nil }

func (s *fileSource) Subscribe(ctx context.Context, fn func(*roster.Roster)) error {
	w, err := roster.NewWatcher(s.path, s.logger)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "watch roster file")
	}
	defer w.Close()

	w.OnReload(func(f *roster.File) {
		s.mu.Lock()
		s.r = f.Roster
		s.mu.Unlock()
		fn(f.Roster)
	})

	current, _ := s.Snapshot(ctx)
	fn(current)
	return w.Run(ctx)
}

// mongoSource reads the users collection and follows its change stream.
type mongoSource struct {
	store *mongostore.Store
	focal string
}

func (s *mongoSource) Snapshot(ctx context.Context) (*roster.Roster, error) {
	return s.store.Snapshot(ctx)
}

func (s *mongoSource) Subscribe(ctx context.Context, fn func(*roster.Roster)) error {
	return s.store.Subscribe(ctx, fn)
}

func (s *mongoSource) Focal() string { return s.focal }

func (s *mongoSource) Close() error {
	return s.store.Close(context.Background())
}
