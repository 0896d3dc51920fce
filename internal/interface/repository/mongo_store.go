package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// kvDocument is one named blob in the kv_store collection
type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore implements the Store interface on a MongoDB collection
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a new MongoDB backed store
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		collection: db.Collection("kv_store"),
	}
}

// Get returns the blob stored under key
func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc kvDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrKeyNotFound
	} else if err != nil {
		return nil, err
	}
	return []byte(doc.Value), nil
}

// Set upserts the blob stored under key
func (s *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	update := bson.M{
		"$set": bson.M{
			"value":     string(value),
			"updatedAt": time.Now(),
		},
	}
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	return err
}

// Delete removes key
func (s *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// Keys lists the keys starting with prefix
func (s *MongoStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	cursor, err := s.collection.Find(ctx, filter, options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []kvDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(docs))
	for _, doc := range docs {
		keys = append(keys, doc.Key)
	}
	return keys, nil
}

// MongoAuditLogRepository implements the AuditLogRepository interface
type MongoAuditLogRepository struct {
	collection *mongo.Collection
}

// NewMongoAuditLogRepository creates a new MongoDB audit log repository
func NewMongoAuditLogRepository(ctx context.Context, db *mongo.Database, log logger.Logger) repository.AuditLogRepository {
	collection := db.Collection("audit_logs")

	// Index on timestamp for newest-first listing and date ranges
	timestampIndex := mongo.IndexModel{
		Keys: bson.M{"timestamp": -1},
	}

	// Index on PNR and username for search
	pnrIndex := mongo.IndexModel{
		Keys: bson.M{"entityPnr": 1},
	}
	usernameIndex := mongo.IndexModel{
		Keys: bson.M{"username": 1},
	}

	// Listing still works without the indexes, only slower
	if _, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		timestampIndex,
		pnrIndex,
		usernameIndex,
	}); err != nil {
		log.Warn("Failed to create audit log indexes", "collection", collection.Name(), "error", err)
	}

	return &MongoAuditLogRepository{
		collection: collection,
	}
}

// Append inserts an entry
func (r *MongoAuditLogRepository) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// Find returns matching entries, newest first
func (r *MongoAuditLogRepository) Find(ctx context.Context, filter entity.AuditLogFilter) ([]*entity.AuditLogEntry, error) {
	query := bson.M{}

	if filter.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
		query["$or"] = []bson.M{
			{"username": pattern},
			{"entityPnr": pattern},
		}
	}

	timeRange := bson.M{}
	if !filter.From.IsZero() {
		timeRange["$gte"] = filter.From
	}
	if !filter.To.IsZero() {
		timeRange["$lte"] = filter.To
	}
	if len(timeRange) > 0 {
		query["timestamp"] = timeRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]*entity.AuditLogEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
