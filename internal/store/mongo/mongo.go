// Package mongo stores catalogue collections in MongoDB.
//
// Each record is wrapped in an envelope {_id, key, doc} so that the primary
// and secondary keys are indexed independently of the record layout.
package mongo

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/store"
)

// DefaultURI targets a local server.
const DefaultURI = "mongodb://localhost:27017"

type envelope[R store.Record] struct {
	ID  string `bson:"_id"`
	Key string `bson:"key"`
	Doc R      `bson:"doc"`
}

// Connect opens a client and checks the server is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		uri = DefaultURI
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// Collection is a store.Store backed by a MongoDB collection.
type Collection[R store.Record] struct {
	coll     *mongo.Collection
	resource string
}

// NewCollection returns the collection name of db, creating its key index.
func NewCollection[R store.Record](ctx context.Context, db *mongo.Database, name, resource string) (*Collection[R], error) {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_key"),
	})
	if err != nil {
		return nil, fmt.Errorf("create %s key index: %w", name, err)
	}
	return &Collection[R]{coll: coll, resource: resource}, nil
}

// GetByID implements store.Store.
func (c *Collection[R]) GetByID(ctx context.Context, id string) (R, bool, error) {
	return c.findOne(ctx, bson.M{"_id": id})
}

// GetByKey implements store.Store.
func (c *Collection[R]) GetByKey(ctx context.Context, key string) (R, bool, error) {
	return c.findOne(ctx, bson.M{"key": key})
}

// GetByKeys implements store.Store.
func (c *Collection[R]) GetByKeys(ctx context.Context, keys []string) ([]R, error) {
	if len(keys) == 0 {
		return []R{}, nil
	}
	found, err := c.find(ctx, bson.M{"key": bson.M{"$in": keys}})
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]R, len(found))
	for _, r := range found {
		byKey[r.RecordKey()] = r
	}
	result := make([]R, 0, len(found))
	for _, key := range keys {
		if r, ok := byKey[key]; ok {
			result = append(result, r)
		}
	}
	return result, nil
}

// Insert implements store.Store.
func (c *Collection[R]) Insert(ctx context.Context, r R) error {
	_, err := c.coll.InsertOne(ctx, envelope[R]{ID: r.RecordID(), Key: r.RecordKey(), Doc: r})
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		// both indexes are unique, tell them apart
		if _, found, getErr := c.GetByID(ctx, r.RecordID()); getErr == nil && found {
			return errors.NewDuplicateIDError(c.resource, r.RecordID())
		}
		return errors.NewDuplicateKeyError(c.resource, r.RecordKey())
	}
	return errors.WrapStore("insert", c.resource, err)
}

// Update implements store.Store.
func (c *Collection[R]) Update(ctx context.Context, id string, r R) error {
	if err := store.CheckUpdate(c.resource, id, r); err != nil {
		return err
	}
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, envelope[R]{ID: id, Key: r.RecordKey(), Doc: r})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.NewDuplicateKeyError(c.resource, r.RecordKey())
		}
		return errors.WrapStore("update", c.resource, err)
	}
	if res.MatchedCount == 0 {
		return errors.NewNotFoundError(c.resource, id)
	}
	return nil
}

// ListAll implements store.Store.
func (c *Collection[R]) ListAll(ctx context.Context) ([]R, error) {
	return c.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "key", Value: 1}}))
}

// DeleteByID implements store.Store.
func (c *Collection[R]) DeleteByID(ctx context.Context, id string) (R, bool, error) {
	var env envelope[R]
	err := c.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&env)
	switch {
	case stderrors.Is(err, mongo.ErrNoDocuments):
		return env.Doc, false, nil
	case err != nil:
		return env.Doc, false, errors.WrapStore("delete", c.resource, err)
	default:
		return env.Doc, true, nil
	}
}

func (c *Collection[R]) findOne(ctx context.Context, filter bson.M) (R, bool, error) {
	var env envelope[R]
	err := c.coll.FindOne(ctx, filter).Decode(&env)
	switch {
	case stderrors.Is(err, mongo.ErrNoDocuments):
		return env.Doc, false, nil
	case err != nil:
		return env.Doc, false, errors.WrapStore("get", c.resource, err)
	default:
		return env.Doc, true, nil
	}
}

func (c *Collection[R]) find(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOptions]) ([]R, error) {
	cur, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, errors.WrapStore("list", c.resource, err)
	}
	var envs []envelope[R]
	if err := cur.All(ctx, &envs); err != nil {
		return nil, errors.WrapStore("list", c.resource, err)
	}
	result := make([]R, len(envs))
	for i, env := range envs {
		result[i] = env.Doc
	}
	return result, nil
}
