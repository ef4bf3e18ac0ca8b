package store

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/newsloom/newsloom/internal/types"
)

// MongoStore keeps the table in a MongoDB collection, one document per row,
// keyed by the url field. Useful when several harvesters share one dataset.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoStore connects to MongoDB and pings it.
func NewMongoStore(uri, database, collection string, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &types.StorageError{Backend: "mongo", Op: "connect", Err: err}
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, &types.StorageError{Backend: "mongo", Op: "ping", Err: err}
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_store"),
	}, nil
}

func (s *MongoStore) Name() string { return "mongo" }

// Load reads every row document. An empty collection is an empty store.
func (s *MongoStore) Load(ctx context.Context) ([]Row, error) {
	cur, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, &types.StorageError{Backend: "mongo", Op: "load", Err: err}
	}
	defer cur.Close(ctx)

	var rows []Row
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, &types.StorageError{Backend: "mongo", Op: "load", Err: err}
		}

		row := make(Row, len(doc))
		for k, v := range doc {
			if k == "_id" {
				continue
			}
			if str, ok := v.(string); ok {
				row[k] = str
			}
		}
		rows = append(rows, row)
	}
	if err := cur.Err(); err != nil {
		return nil, &types.StorageError{Backend: "mongo", Op: "load", Err: err}
	}

	s.logger.Info("prior store loaded", "rows", len(rows))
	return rows, nil
}

// Persist upserts every row by url. Upserting keyed documents preserves the
// merge semantics without rewriting the whole collection.
func (s *MongoStore) Persist(ctx context.Context, rows []Row) error {
	models := make([]mongo.WriteModel, 0, len(rows))
	for _, row := range rows {
		u := row[ColURL]
		if u == "" {
			continue
		}

		doc := make(bson.M, len(row))
		for k, v := range row {
			doc[k] = v
		}

		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{ColURL: u}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	if len(models) == 0 {
		return nil
	}

	if _, err := s.collection.BulkWrite(ctx, models); err != nil {
		return &types.StorageError{Backend: "mongo", Op: "persist", Err: err}
	}

	s.logger.Info("store written", "rows", len(models))
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
