// Package mongostore reads and updates the roster held in a MongoDB users
// collection, and follows it live through a change stream.
package mongostore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tavalabs/tava/pkg/errors"
	"github.com/tavalabs/tava/pkg/roster"
)

// Defaults for Config fields left empty.
const (
	DefaultDatabase   = "tava"
	DefaultCollection = "users"
	connectTimeout    = 10 * time.Second
)

// Config locates the users collection.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Store is a roster backed by a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *log.Logger
}

// Open connects and verifies the server is reachable. logger may be nil.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Store, error) {
	if err := errors.ValidateMongoURI(cfg.URI); err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "ping mongo")
	}
	logger.Debug("connected to mongo", "database", cfg.Database, "collection", cfg.Collection)

	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		logger: logger,
	}, nil
}

// Close disconnects from the server.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Snapshot reads the whole collection, ordered by document id.
// Documents that fail to decode are skipped and logged.
func (s *Store) Snapshot(ctx context.Context) (*roster.Roster, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "query %s", s.coll.Name())
	}
	defer cur.Close(ctx)

	var profiles []roster.Profile
	for cur.Next(ctx) {
		p, err := DecodeProfile(cur.Current)
		if err != nil {
			s.logger.Warn("skipping user document", "error", err)
			continue
		}
		profiles = append(profiles, p)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "read %s", s.coll.Name())
	}
	return roster.New(profiles), nil
}

// Subscribe delivers a snapshot immediately and again after every change
// to the collection, until ctx is cancelled or the stream fails. Change
// streams require a replica set.
func (s *Store) Subscribe(ctx context.Context, fn func(*roster.Roster)) error {
	r, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	fn(r)

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := s.coll.Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "watch %s", s.coll.Name())
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var event struct {
			OperationType string `bson:"operationType"`
		}
		if err := stream.Decode(&event); err == nil {
			s.logger.Debug("users collection changed", "op", event.OperationType)
		}
		r, err := s.Snapshot(ctx)
		if err != nil {
			s.logger.Warn("re-snapshot failed", "error", err)
			continue
		}
		fn(r)
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "change stream")
	}
	return ctx.Err()
}

// Put inserts or replaces a profile.
func (s *Store) Put(ctx context.Context, p roster.Profile) error {
	if err := errors.ValidateEntityID(p.ID); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "put %s", p.ID)
	}
	return nil
}

// Like records that from liked to. Liking twice is a no-op.
func (s *Store) Like(ctx context.Context, from, to string) error {
	if from == to {
		return errors.New(errors.ErrCodeInvalidEntity, "cannot like yourself")
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": from}, bson.M{"$addToSet": bson.M{"liked": to}})
	if err != nil {
		return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "like %s -> %s", from, to)
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeEntityNotFound, "no user %q", from)
	}
	return nil
}

// DecodeProfile converts a users document. Missing or mistyped array
// fields decode as empty; the document id becomes the profile id.
func DecodeProfile(raw bson.Raw) (roster.Profile, error) {
	var doc struct {
		ID              any    `bson:"_id"`
		DisplayName     string `bson:"displayName"`
		Email           any    `bson:"email"`
		IdeaTitle       string `bson:"ideaTitle"`
		IdeaDescription string `bson:"ideaDescription"`
		University      string `bson:"university"`
	}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return roster.Profile{}, fmt.Errorf("decode user: %w", err)
	}
	id, ok := doc.ID.(string)
	if !ok || id == "" {
		return roster.Profile{}, fmt.Errorf("user document has non-string id %v", doc.ID)
	}
	email, _ := doc.Email.(string)
	return roster.Profile{
		ID:              id,
		DisplayName:     doc.DisplayName,
		Email:           email,
		IdeaTitle:       doc.IdeaTitle,
		IdeaDescription: doc.IdeaDescription,
		Liked:           stringArray(raw, "liked"),
		LikedPosts:      stringArray(raw, "likedPosts"),
		PassedPosts:     stringArray(raw, "passedPosts"),
		Interests:       stringArray(raw, "interests"),
		University:      doc.University,
	}, nil
}

// stringArray returns the string elements of the array at key, skipping
// anything that is not a string.
func stringArray(raw bson.Raw, key string) []string {
	v, err := raw.LookupErr(key)
	if err != nil {
		return nil
	}
	arr, ok := v.ArrayOK()
	if !ok {
		return nil
	}
	vals, err := arr.Values()
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range vals {
		if s, ok := e.StringValueOK(); ok {
			out = append(out, s)
		}
	}
	return out
}
