// Package mongo implements the document store contract on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/fuelgrid-cloud/pumproom/internal/store"
)

// Config holds MongoDB connection settings.
type Config struct {
	URI      string
	Database string
}

// Store is a MongoDB-backed document store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// List reads up to opts.Limit documents from a collection.
func (s *Store) List(ctx context.Context, collection string, opts store.ListOptions) ([]store.Document, error) {
	findOpts := options.Find()
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if opts.OrderBy != "" {
		dir := 1
		if opts.Descending {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.OrderBy, Value: dir}})
	}

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []store.Document
	for cursor.Next(ctx) {
		var m bson.M
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		docs = append(docs, fromBSON(m))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor %s: %w", collection, err)
	}
	return docs, nil
}

// Get reads one document by id.
func (s *Store) Get(ctx context.Context, collection, id string) (store.Document, error) {
	filter := idFilter(id)
	var m bson.M
	if err := s.db.Collection(collection).FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Document{}, store.ErrNotFound
		}
		return store.Document{}, fmt.Errorf("find one %s/%s: %w", collection, id, err)
	}
	return fromBSON(m), nil
}

// Insert creates a document and returns the assigned ObjectID hex.
func (s *Store) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, bson.M(fields))
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprintf("%v", res.InsertedID), nil
	}
	return oid.Hex(), nil
}

// Update applies a partial field update to one document.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	filter := idFilter(id)
	res, err := s.db.Collection(collection).UpdateOne(ctx, filter, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes one document.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	filter := idFilter(id)
	res, err := s.db.Collection(collection).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

// WaitForReady polls Ping until the store responds or the timeout elapses.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := s.Ping(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("store not ready after %s: %w", timeout, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func idFilter(id string) bson.M {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Imported legacy records keep their original string ids.
		return bson.M{"_id": id}
	}
	return bson.M{"_id": oid}
}

// fromBSON converts a decoded document into the store shape, lifting the _id
// out of the field map and flattening BSON-specific value types so consumers
// only see plain Go values.
func fromBSON(m bson.M) store.Document {
	doc := store.Document{Fields: make(map[string]any, len(m))}
	for k, v := range m {
		if k == "_id" {
			doc.ID = idString(v)
			continue
		}
		doc.Fields[k] = plainValue(v)
	}
	return doc
}

func idString(v any) string {
	if oid, ok := v.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprintf("%v", v)
}

func plainValue(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time()
	case primitive.ObjectID:
		return t.Hex()
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plainValue(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	default:
		return v
	}
}
