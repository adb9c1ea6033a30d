package ringgraph

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxDetailInterests caps the interests shown in a detail panel.
const MaxDetailInterests = 8

// Detail panel fallbacks for missing metadata.
const (
	UnknownName        = "Unknown"
	UnknownEmail       = "Unknown email"
	NoIdeaTitle        = "No project title"
	NoIdeaDescription  = "No project description"
	NoInterests        = "No interests listed"
	DetailsNotFound    = "Node details not found"
	fallbackLabel      = "?"
	fallbackFocalLabel = "U"
)

// Detail is the display text for a selected node.
type Detail struct {
	ID          string `json:"id"`
	Ring        string `json:"ring"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Interests   string `json:"interests"`
	Label       string `json:"label"`
}

// Label returns the one-letter badge drawn inside a node: the first letter
// of the email, otherwise of the display name, upper-cased.
func Label(e Entity, r Ring) string {
	for _, s := range []string{e.Email, e.DisplayName} {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		c, _ := utf8.DecodeRuneInString(s)
		if c != utf8.RuneError {
			return string(unicode.ToUpper(c))
		}
	}
	if r == RingCenter {
		return fallbackFocalLabel
	}
	return fallbackLabel
}

// Describe builds the detail panel for id. It reports false when id is not
// part of the layout. Entities missing from dir get every fallback.
func Describe(dir Directory, l *Layout, id string) (Detail, bool) {
	n, ok := l.Node(id)
	if !ok {
		return Detail{}, false
	}
	var e Entity
	if dir != nil {
		e, _ = dir.Entity(id)
	}
	d := Detail{
		ID:          id,
		Ring:        n.Ring.String(),
		Name:        orDefault(e.DisplayName, UnknownName),
		Email:       orDefault(e.Email, UnknownEmail),
		Title:       orDefault(e.IdeaTitle, NoIdeaTitle),
		Description: orDefault(e.IdeaDescription, NoIdeaDescription),
		Interests:   NoInterests,
		Label:       Label(e, n.Ring),
	}
	var interests []string
	for _, s := range e.Interests {
		if s = strings.TrimSpace(s); s != "" {
			interests = append(interests, s)
		}
		if len(interests) == MaxDetailInterests {
			break
		}
	}
	if len(interests) > 0 {
		d.Interests = strings.Join(interests, ", ")
	}
	return d, true
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
