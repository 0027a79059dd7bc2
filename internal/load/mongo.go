package load

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clima-etl/internal/weather"
)

// Loader inserts one validated record into the target store and returns the
// assigned document id.
type Loader interface {
	Load(ctx context.Context, rec weather.WeatherRecord) (string, error)
}

// MongoLoader writes records into a MongoDB collection. Each run opens its
// own short-lived client; there is no dedup or upsert, duplicate runs produce
// duplicate documents.
type MongoLoader struct {
	uri        string
	database   string
	collection string
}

func NewMongoLoader(uri, database, collection string) *MongoLoader {
	return &MongoLoader{
		uri:        uri,
		database:   database,
		collection: collection,
	}
}

func (l *MongoLoader) Load(ctx context.Context, rec weather.WeatherRecord) (string, error) {
	opts := options.Client().
		ApplyURI(l.uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", weather.ErrConnection, err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := client.Ping(ctx, nil); err != nil {
		return "", fmt.Errorf("%w: %v", weather.ErrConnection, err)
	}

	coll := client.Database(l.database).Collection(l.collection)
	res, err := coll.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
			return "", fmt.Errorf("%w: %v", weather.ErrConnection, err)
		}
		return "", fmt.Errorf("%w: %v", weather.ErrInsert, err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}
