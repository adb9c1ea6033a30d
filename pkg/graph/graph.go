package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tavalabs/tava/pkg/errors"
	"github.com/tavalabs/tava/pkg/roster"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a roster to node-link JSON bytes.
// Nodes keep roster order; edges follow each member's like order.
func MarshalGraph(r *roster.Roster) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a roster to a node-link JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(r *roster.Roster, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(r, f)
}

// WriteGraph writes a roster as node-link JSON to an io.Writer.
func WriteGraph(r *roster.Roster, w io.Writer) error {
	return writeGraphTo(r, w)
}

// ReadGraphFile reads a node-link JSON file into a roster.
func ReadGraphFile(path string) (*roster.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes node-link JSON from an io.Reader into a roster.
// Edges whose source is not a node are rejected; edges to unknown targets
// are kept, since likes may point outside the roster.
func ReadGraph(r io.Reader) (*roster.Roster, error) {
	return readGraphFrom(r)
}

// FromRoster builds the node-link form of r.
func FromRoster(r *roster.Roster) Graph {
	g := Graph{Nodes: []Node{}, Edges: []Edge{}}
	if r == nil {
		return g
	}
	for _, p := range r.Profiles() {
		g.Nodes = append(g.Nodes, Node{
			ID:        p.ID,
			Label:     p.DisplayName,
			Email:     p.Email,
			Title:     p.IdeaTitle,
			Interests: p.Interests,
		})
		for _, to := range p.Liked {
			g.Edges = append(g.Edges, Edge{From: p.ID, To: to})
		}
	}
	return g
}

// ToRoster converts a node-link graph back into a roster.
func ToRoster(g Graph) (*roster.Roster, error) {
	profiles := make([]roster.Profile, 0, len(g.Nodes))
	index := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		if err := errors.ValidateEntityID(n.ID); err != nil {
			return nil, err
		}
		if _, dup := index[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidEntity, "duplicate node %q", n.ID)
		}
		index[n.ID] = len(profiles)
		profiles = append(profiles, roster.Profile{
			ID:          n.ID,
			DisplayName: n.Label,
			Email:       n.Email,
			IdeaTitle:   n.Title,
			Interests:   n.Interests,
		})
	}
	for _, e := range g.Edges {
		i, ok := index[e.From]
		if !ok {
			return nil, errors.New(errors.ErrCodeEntityNotFound, "edge from unknown node %q", e.From)
		}
		profiles[i].Liked = append(profiles[i].Liked, e.To)
	}
	return roster.New(profiles), nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(r *roster.Roster, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromRoster(r)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*roster.Roster, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToRoster(data)
}
