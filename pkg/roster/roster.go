package roster

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/tavalabs/tava/pkg/ringgraph"
)

// Profile is one roster member as stored in profile files and the users
// collection.
type Profile struct {
	ID              string   `json:"id" yaml:"id" toml:"id" bson:"_id"`
	DisplayName     string   `json:"displayName,omitempty" yaml:"display_name,omitempty" toml:"display_name,omitempty" bson:"displayName,omitempty"`
	Email           string   `json:"email,omitempty" yaml:"email,omitempty" toml:"email,omitempty" bson:"email,omitempty"`
	IdeaTitle       string   `json:"ideaTitle,omitempty" yaml:"idea_title,omitempty" toml:"idea_title,omitempty" bson:"ideaTitle,omitempty"`
	IdeaDescription string   `json:"ideaDescription,omitempty" yaml:"idea_description,omitempty" toml:"idea_description,omitempty" bson:"ideaDescription,omitempty"`
	Liked           []string `json:"liked,omitempty" yaml:"liked,omitempty" toml:"liked,omitempty" bson:"liked,omitempty"`
	LikedPosts      []string `json:"likedPosts,omitempty" yaml:"liked_posts,omitempty" toml:"liked_posts,omitempty" bson:"likedPosts,omitempty"`
	PassedPosts     []string `json:"passedPosts,omitempty" yaml:"passed_posts,omitempty" toml:"passed_posts,omitempty" bson:"passedPosts,omitempty"`
	Interests       []string `json:"interests,omitempty" yaml:"interests,omitempty" toml:"interests,omitempty" bson:"interests,omitempty"`
	University      string   `json:"university,omitempty" yaml:"university,omitempty" toml:"university,omitempty" bson:"university,omitempty"`
}

// Entity returns the display metadata the layout engine needs.
func (p Profile) Entity() ringgraph.Entity {
	return ringgraph.Entity{
		ID:              p.ID,
		DisplayName:     p.DisplayName,
		Email:           p.Email,
		IdeaTitle:       p.IdeaTitle,
		IdeaDescription: p.IdeaDescription,
		Interests:       slices.Clone(p.Interests),
	}
}

func (p Profile) clone() Profile {
	p.Liked = slices.Clone(p.Liked)
	p.LikedPosts = slices.Clone(p.LikedPosts)
	p.PassedPosts = slices.Clone(p.PassedPosts)
	p.Interests = slices.Clone(p.Interests)
	return p
}

// Roster is an immutable, ordered snapshot of profiles. It implements
// [ringgraph.Source] and [ringgraph.Directory].
//
// Profiles with an empty id are dropped; for duplicate ids the first
// occurrence wins.
type Roster struct {
	profiles []Profile
	index    map[string]int
}

// New builds a snapshot from profiles. The input is copied.
func New(profiles []Profile) *Roster {
	r := &Roster{index: make(map[string]int, len(profiles))}
	for _, p := range profiles {
		if p.ID == "" {
			continue
		}
		if _, dup := r.index[p.ID]; dup {
			continue
		}
		r.index[p.ID] = len(r.profiles)
		r.profiles = append(r.profiles, p.clone())
	}
	return r
}

// Len returns the number of profiles.
func (r *Roster) Len() int { return len(r.profiles) }

// Profiles returns a copy of every profile in roster order.
func (r *Roster) Profiles() []Profile {
	out := make([]Profile, len(r.profiles))
	for i, p := range r.profiles {
		out[i] = p.clone()
	}
	return out
}

// Profile returns a copy of the profile for id.
func (r *Roster) Profile(id string) (Profile, bool) {
	i, ok := r.index[id]
	if !ok {
		return Profile{}, false
	}
	return r.profiles[i].clone(), true
}

// Has reports whether id is on the roster.
func (r *Roster) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Roster returns every id in roster order.
func (r *Roster) Roster() []string {
	ids := make([]string, len(r.profiles))
	for i, p := range r.profiles {
		ids[i] = p.ID
	}
	return ids
}

// LikedIDs returns the ids id liked. Unknown ids yield nil.
func (r *Roster) LikedIDs(id string) []string {
	i, ok := r.index[id]
	if !ok {
		return nil
	}
	return slices.Clone(r.profiles[i].Liked)
}

// Entity returns display metadata for id.
func (r *Roster) Entity(id string) (ringgraph.Entity, bool) {
	i, ok := r.index[id]
	if !ok {
		return ringgraph.Entity{}, false
	}
	return r.profiles[i].Entity(), true
}

// Like returns a snapshot in which from likes to. The receiver is left
// untouched. Liking yourself, an unknown id, or someone already liked
// returns the receiver.
func (r *Roster) Like(from, to string) *Roster {
	i, ok := r.index[from]
	if !ok || from == to || !r.Has(to) || slices.Contains(r.profiles[i].Liked, to) {
		return r
	}
	next := r.Profiles()
	next[i].Liked = append(next[i].Liked, to)
	return New(next)
}

// Unlike returns a snapshot in which from no longer likes to.
func (r *Roster) Unlike(from, to string) *Roster {
	i, ok := r.index[from]
	if !ok || !slices.Contains(r.profiles[i].Liked, to) {
		return r
	}
	next := r.Profiles()
	next[i].Liked = slices.DeleteFunc(next[i].Liked, func(id string) bool { return id == to })
	return New(next)
}

// Upsert returns a snapshot with p replacing the profile of the same id,
// or appended when the id is new.
func (r *Roster) Upsert(p Profile) *Roster {
	if p.ID == "" {
		return r
	}
	next := r.Profiles()
	if i, ok := r.index[p.ID]; ok {
		next[i] = p
	} else {
		next = append(next, p)
	}
	return New(next)
}

// Hash returns a content hash of the snapshot, stable across runs, used to
// key cached layouts.
func (r *Roster) Hash() string {
	data, _ := json.Marshal(r.profiles)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
