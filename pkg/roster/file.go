package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/tavalabs/tava/pkg/errors"
)

// =============================================================================
// Roster File API
// =============================================================================

// Format is a roster file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// document is the on-disk shape shared by every format.
type document struct {
	Focal    string    `json:"focal,omitempty" yaml:"focal,omitempty" toml:"focal,omitempty"`
	Profiles []Profile `json:"profiles" yaml:"profiles" toml:"profiles"`
}

// File is a decoded roster file: the snapshot plus the optional default
// focal entity recorded alongside it.
type File struct {
	Focal  string
	Roster *Roster
}

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported roster file extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// ReadFile reads a roster file, choosing the decoder by extension.
func ReadFile(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// Read decodes a roster from r.
func Read(r io.Reader, format Format) (*File, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported roster format %q", format)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	return &File{Focal: doc.Focal, Roster: New(doc.Profiles)}, nil
}

// WriteFile writes f to path, choosing the encoder by extension.
// The file is created with 0644 permissions.
func WriteFile(path string, f *File) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Write(&buf, format, f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Write encodes f to w.
func Write(w io.Writer, format Format, f *File) error {
	doc := document{Focal: f.Focal, Profiles: f.Roster.Profiles()}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported roster format %q", format)
	}
	return nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func validate(doc document) error {
	seen := make(map[string]bool, len(doc.Profiles))
	for i, p := range doc.Profiles {
		if p.ID == "" {
			return errors.New(errors.ErrCodeInvalidEntity, "profile %d has no id", i)
		}
		if err := errors.ValidateEntityID(p.ID); err != nil {
			return err
		}
		if seen[p.ID] {
			return errors.New(errors.ErrCodeInvalidEntity, "duplicate profile id %q", p.ID)
		}
		seen[p.ID] = true
	}
	if doc.Focal != "" && !seen[doc.Focal] {
		return errors.New(errors.ErrCodeEntityNotFound, "focal %q is not on the roster", doc.Focal)
	}
	return nil
}
