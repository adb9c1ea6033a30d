// Package config loads Tava's TOML configuration file.
//
// The file is optional. Lookup order is an explicit path, then
// $XDG_CONFIG_HOME/tava/config.toml, then ~/.config/tava/config.toml.
// Every field has a default, so a file only needs the values it changes:
//
//	[layout]
//	ring_padding = 90
//	release_duration = "200ms"
//
//	[source]
//	kind = "file"
//	path = "roster.yaml"
//	focal = "alice_johnson"
//
//	[cache]
//	kind = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tavalabs/tava/pkg/errors"
	"github.com/tavalabs/tava/pkg/ringgraph"
	"github.com/tavalabs/tava/pkg/roster"
)

const appName = "tava"

// Source kinds.
const (
	SourceDemo  = "demo"
	SourceFile  = "file"
	SourceMongo = "mongo"
)

// Cache kinds.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the whole configuration file.
type Config struct {
	Layout   ringgraph.Params `toml:"layout"`
	Viewport Viewport         `toml:"viewport"`
	Source   Source           `toml:"source"`
	Cache    Cache            `toml:"cache"`
	Server   Server           `toml:"server"`
}

// Viewport is the default space offered to the canvas when a request does
// not name one.
type Viewport struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Source says where the roster comes from.
type Source struct {
	Kind       string `toml:"kind"`
	Path       string `toml:"path"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Focal      string `toml:"focal"`
}

// Cache selects the cache backend.
type Cache struct {
	Kind      string        `toml:"kind"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	Prefix    string        `toml:"prefix"`
	TTL       time.Duration `toml:"ttl"`
}

// Server configures `tava serve`.
type Server struct {
	Addr          string        `toml:"addr"`
	FrameInterval time.Duration `toml:"frame_interval"`
	SessionTTL    time.Duration `toml:"session_ttl"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Layout:   ringgraph.DefaultParams(),
		Viewport: Viewport{Width: 390, Height: 844},
		Source: Source{
			Kind:  SourceDemo,
			Focal: roster.LocalUserID,
		},
		Cache: Cache{
			Kind: CacheFile,
			TTL:  24 * time.Hour,
		},
		Server: Server{
			Addr:          ":8080",
			FrameInterval: 16 * time.Millisecond,
			SessionTTL:    30 * time.Minute,
		},
	}
}

// Load reads path over the defaults. An empty path searches the XDG
// locations; a missing file there is not an error, but a missing explicit
// path is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown key %s", path, undecoded[0])
	}
	return cfg, cfg.Validate()
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParams, err, "[layout]")
	}
	if err := errors.ValidateViewport(c.Viewport.Width, c.Viewport.Height); err != nil {
		return err
	}

	switch c.Source.Kind {
	case SourceDemo:
	case SourceFile:
		if c.Source.Path == "" {
			return errors.New(errors.ErrCodeInvalidInput, "[source] kind = \"file\" requires path")
		}
	case SourceMongo:
		if err := errors.ValidateMongoURI(c.Source.MongoURI); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "[source] unknown kind %q", c.Source.Kind)
	}
	if c.Source.Focal != "" {
		if err := errors.ValidateEntityID(c.Source.Focal); err != nil {
			return err
		}
	}

	switch c.Cache.Kind {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "[cache] kind = \"redis\" requires redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "[cache] unknown kind %q", c.Cache.Kind)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "[cache] ttl must not be negative")
	}

	if c.Server.FrameInterval <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "[server] frame_interval must be positive")
	}
	return nil
}

// Viewport returns the default viewport as the layout engine type.
func (v Viewport) Viewport() ringgraph.Viewport {
	return ringgraph.Viewport{Width: v.Width, Height: v.Height}
}

// String formats the config as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
