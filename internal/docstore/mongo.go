package docstore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient adapts a MongoDB database to the Client interface. Document ids
// live in _id as plain strings so keys stay interchangeable across backends.
type MongoClient struct {
	db *mongo.Database
}

// NewMongoClient wraps a connected MongoDB database.
func NewMongoClient(db *mongo.Database) *MongoClient {
	return &MongoClient{db: db}
}

func (m *MongoClient) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo get %s/%s: %w", collection, id, err)
	}
	return fromBSON(raw), nil
}

func (m *MongoClient) Set(ctx context.Context, collection, id string, doc Document) error {
	replacement := toBSON(doc)
	replacement["_id"] = id
	opts := options.Replace().SetUpsert(true)
	_, err := m.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, replacement, opts)
	if err != nil {
		return fmt.Errorf("mongo set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (m *MongoClient) Merge(ctx context.Context, collection, id string, fields Document) error {
	opts := options.Update().SetUpsert(true)
	_, err := m.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": toBSON(fields)}, opts)
	if err != nil {
		return fmt.Errorf("mongo merge %s/%s: %w", collection, id, err)
	}
	return nil
}

func (m *MongoClient) Update(ctx context.Context, collection, id string, fields Document) error {
	res, err := m.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": toBSON(fields)})
	if err != nil {
		return fmt.Errorf("mongo update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoClient) ArrayUnion(ctx context.Context, collection, id, field string, values ...string) error {
	opts := options.Update().SetUpsert(true)
	update := bson.M{"$addToSet": bson.M{field: bson.M{"$each": values}}}
	_, err := m.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, update, opts)
	if err != nil {
		return fmt.Errorf("mongo array union %s/%s.%s: %w", collection, id, field, err)
	}
	return nil
}

func (m *MongoClient) ArrayRemove(ctx context.Context, collection, id, field string, values ...string) error {
	update := bson.M{"$pullAll": bson.M{field: values}}
	_, err := m.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("mongo array remove %s/%s.%s: %w", collection, id, field, err)
	}
	return nil
}

func (m *MongoClient) Add(ctx context.Context, collection string, doc Document) (string, error) {
	id := primitive.NewObjectID().Hex()
	if err := m.Set(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (m *MongoClient) Delete(ctx context.Context, collection, id string) error {
	_, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (m *MongoClient) Query(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	filter := bson.M{}
	for _, f := range q.Filters {
		filter[f.Field] = f.Value
	}
	findOptions := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		findOptions.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}

	cursor, err := m.db.Collection(collection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err = cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("mongo query %s: %w", collection, err)
	}

	out := make([]Snapshot, 0, len(raw))
	for _, doc := range raw {
		id, _ := doc["_id"].(string)
		out = append(out, Snapshot{ID: id, Data: fromBSON(doc)})
	}
	return out, nil
}

type mongoTx struct {
	client *MongoClient
	ctx    mongo.SessionContext
}

func (t *mongoTx) Get(collection, id string) (Document, error) {
	return t.client.Get(t.ctx, collection, id)
}

func (t *mongoTx) Set(collection, id string, doc Document) error {
	return t.client.Set(t.ctx, collection, id, doc)
}

func (t *mongoTx) Delete(collection, id string) error {
	return t.client.Delete(t.ctx, collection, id)
}

// RunTransaction wraps fn in a MongoDB multi-document transaction. Requires a
// replica set deployment, same as the driver itself.
func (m *MongoClient) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	session, err := m.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("mongo start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(&mongoTx{client: m, ctx: sc})
	})
	return err
}

// Watch re-runs the query after every change event on the collection. Coarser
// than Firestore's native snapshots but delivers the same full-result contract.
func (m *MongoClient) Watch(ctx context.Context, collection string, q Query, fn func([]Snapshot)) (func(), error) {
	watchCtx, cancel := context.WithCancel(ctx)
	stream, err := m.db.Collection(collection).Watch(watchCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("mongo watch %s: %w", collection, err)
	}

	deliver := func() {
		snaps, err := m.Query(watchCtx, collection, q)
		if err != nil {
			return
		}
		fn(snaps)
	}

	go func() {
		defer stream.Close(watchCtx)
		deliver()
		for stream.Next(watchCtx) {
			deliver()
		}
	}()
	return cancel, nil
}

func (m *MongoClient) Close() error {
	return m.db.Client().Disconnect(context.Background())
}

func toBSON(doc Document) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// fromBSON normalizes driver-decoded values back into the Document vocabulary.
func fromBSON(raw bson.M) Document {
	out := make(Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		out[k] = normalizeBSON(v)
	}
	return out
}

func normalizeBSON(v any) any {
	switch tv := v.(type) {
	case primitive.DateTime:
		return tv.Time()
	case primitive.A:
		arr := make([]any, len(tv))
		for i, e := range tv {
			arr[i] = normalizeBSON(e)
		}
		return arr
	case bson.M:
		m := make(map[string]any, len(tv))
		for k, e := range tv {
			m[k] = normalizeBSON(e)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(tv))
		for _, e := range tv {
			m[e.Key] = normalizeBSON(e.Value)
		}
		return m
	default:
		return v
	}
}
