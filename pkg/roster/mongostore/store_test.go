package mongostore

import (
	"context"
	"slices"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tavalabs/tava/pkg/errors"
	"github.com/tavalabs/tava/pkg/roster"
)

func marshal(t *testing.T, doc any) bson.Raw {
	t.Helper()
	data, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bson.Raw(data)
}

func TestDecodeProfile(t *testing.T) {
	tests := []struct {
		name    string
		doc     bson.M
		want    roster.Profile
		wantErr bool
	}{
		{
			name: "GeneratorDocument",
			doc: bson.M{
				"_id":             "alice_johnson",
				"displayName":     "Alice Johnson",
				"email":           "Alice Johnson@purdue.edu",
				"ideaTitle":       "AI-Powered Medical Diagnosis System",
				"liked":           bson.A{"bob_smith", "carol_williams"},
				"likedPosts":      bson.A{"p1"},
				"passedPosts":     bson.A{},
				"likedUsers":      bson.A{"bob_smith"},
				"interests":       bson.A{"AI", "IoT"},
				"numPeopleNeeded": 3,
			},
			want: roster.Profile{
				ID:          "alice_johnson",
				DisplayName: "Alice Johnson",
				Email:       "Alice Johnson@purdue.edu",
				IdeaTitle:   "AI-Powered Medical Diagnosis System",
				Liked:       []string{"bob_smith", "carol_williams"},
				LikedPosts:  []string{"p1"},
				Interests:   []string{"AI", "IoT"},
			},
		},
		{
			name: "MissingArraysAndNullEmail",
			doc:  bson.M{"_id": "bob", "email": nil},
			want: roster.Profile{ID: "bob"},
		},
		{
			name: "MistypedArrays",
			doc:  bson.M{"_id": "carol", "liked": "dave", "interests": bson.A{"Go", 7, "Rust"}},
			want: roster.Profile{ID: "carol", Interests: []string{"Go", "Rust"}},
		},
		{
			name:    "ObjectID",
			doc:     bson.M{"_id": primitive.NewObjectID()},
			wantErr: true,
		},
		{
			name:    "NoID",
			doc:     bson.M{"displayName": "ghost"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeProfile(marshal(t, tt.doc))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.ID != tt.want.ID || got.DisplayName != tt.want.DisplayName || got.Email != tt.want.Email || got.IdeaTitle != tt.want.IdeaTitle {
				t.Errorf("scalars = %+v, want %+v", got, tt.want)
			}
			for _, f := range []struct {
				name      string
				got, want []string
			}{
				{"Liked", got.Liked, tt.want.Liked},
				{"LikedPosts", got.LikedPosts, tt.want.LikedPosts},
				{"PassedPosts", got.PassedPosts, tt.want.PassedPosts},
				{"Interests", got.Interests, tt.want.Interests},
			} {
				if !slices.Equal(f.got, f.want) {
					t.Errorf("%s = %v, want %v", f.name, f.got, f.want)
				}
			}
		})
	}
}

func TestProfileDocumentShape(t *testing.T) {
	raw := marshal(t, roster.Profile{ID: "a", DisplayName: "A", Liked: []string{"b"}})
	if v, err := raw.LookupErr("_id"); err != nil || v.StringValue() != "a" {
		t.Errorf("_id = %v, %v", v, err)
	}
	if _, err := raw.LookupErr("email"); err == nil {
		t.Error("empty email should be omitted")
	}
	p, err := DecodeProfile(raw)
	if err != nil || !slices.Equal(p.Liked, []string{"b"}) {
		t.Errorf("DecodeProfile = %+v, %v", p, err)
	}
}

func TestOpenRejectsBadURI(t *testing.T) {
	_, err := Open(context.Background(), Config{URI: "http://localhost"}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Open error = %v, want INVALID_INPUT", err)
	}
}
