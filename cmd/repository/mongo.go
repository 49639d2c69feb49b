package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCollection[T any] struct {
	coll *mongo.Collection
}

// NewMongoCollection wraps the named collection of db.
func NewMongoCollection[T any](db *mongo.Database, name string) Collection[T] {
	return &mongoCollection[T]{coll: db.Collection(name)}
}

// EnsureMongoIndexes creates the unique indexes every collection relies on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for name, fields := range uniqueFields {
		for _, field := range fields {
			model := mongo.IndexModel{
				Keys:    bson.D{{Key: field, Value: 1}},
				Options: options.Index().SetUnique(true),
			}
			if _, err := db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
				return fmt.Errorf("create index %s.%s: %w", name, field, err)
			}
		}
	}
	return nil
}

func mongoFilter(f Filter) bson.M {
	m := bson.M{}
	for field, v := range f.Equal {
		m[field] = v
	}
	for field, pattern := range f.Match {
		m[field] = primitive.Regex{Pattern: pattern, Options: "i"}
	}
	return m
}

func mongoErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}

func (c *mongoCollection[T]) Find(ctx context.Context, f Filter) ([]T, error) {
	cur, err := c.coll.Find(ctx, mongoFilter(f))
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mongoCollection[T]) FindOne(ctx context.Context, f Filter) (*T, error) {
	var v T
	if err := c.coll.FindOne(ctx, mongoFilter(f)).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return &v, nil
}

func (c *mongoCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return c.FindOne(ctx, Eq("_id", id))
}

// Insert relies on the document carrying its own _id.
func (c *mongoCollection[T]) Insert(ctx context.Context, id string, doc *T) error {
	_, err := c.coll.InsertOne(ctx, doc)
	return mongoErr(err)
}

func (c *mongoCollection[T]) UpdateByID(ctx context.Context, id string, set Fields) (bool, error) {
	return c.UpdateWhere(ctx, id, All(), set)
}

func (c *mongoCollection[T]) UpdateWhere(ctx context.Context, id string, where Filter, set Fields) (bool, error) {
	update := bson.M{}
	for k, v := range set {
		update[k] = v
	}
	update["updatedAt"] = time.Now().UTC()

	filter := mongoFilter(where)
	filter["_id"] = id
	res, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": update})
	if err != nil {
		return false, mongoErr(err)
	}
	return res.MatchedCount > 0, nil
}

func (c *mongoCollection[T]) Append(ctx context.Context, id, field string, value any) (*T, error) {
	update := bson.M{
		"$push": bson.M{field: value},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var v T
	if err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	return &v, nil
}

func (c *mongoCollection[T]) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
