// Package snapshotstore gives the backup layer schema-free access to a
// collection. Export needs every field of every document regardless of what
// the Go models know about, and import must write unknown fields through
// untouched, so this store works in raw documents instead of typed models.
package snapshotstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is a raw-document view of one Mongo collection.
type Collection struct {
	c *mongo.Collection
}

// New returns a raw view of the named collection.
func New(db *mongo.Database, name string) *Collection {
	return &Collection{c: db.Collection(name)}
}

// List returns every document as a plain JSON-ready map: ObjectIDs become
// hex strings, timestamps become RFC 3339 strings, and the _id field is
// renamed to id. Documents come back in insertion order.
func (col *Collection) List(ctx context.Context) ([]map[string]any, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := col.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []map[string]any
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		rec := make(map[string]any, len(doc))
		for k, v := range doc {
			if k == "_id" {
				rec["id"] = plain(v)
				continue
			}
			rec[k] = plain(v)
		}
		records = append(records, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Create inserts a record, assigning a fresh id, timestamps, and creator.
// Every other field is written verbatim, including reference fields that
// point at ids from another database.
func (col *Collection) Create(ctx context.Context, rec map[string]any, createdBy string) error {
	now := time.Now().UTC()
	doc := make(bson.M, len(rec)+4)
	for k, v := range rec {
		doc[k] = v
	}
	doc["_id"] = primitive.NewObjectID()
	doc["created_date"] = now
	doc["updated_date"] = now
	doc["created_by"] = createdBy

	_, err := col.c.InsertOne(ctx, doc)
	return err
}

// plain converts a decoded BSON value into its JSON-ready form.
func plain(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case bson.M:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = plain(val)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case primitive.A:
		a := make([]any, len(t))
		for i, val := range t {
			a[i] = plain(val)
		}
		return a
	default:
		return v
	}
}
