package repositories

import (
	"context"
	"log"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/luckychip/casino_backend/config"
)

// Store is the opaque query executor the surrounding account/order logic
// talks to. Execute returns nil on any connection or query failure; callers
// must treat nil as "store unavailable", which is distinct from an empty
// result set.
type Store interface {
	Execute(ctx context.Context, collection string, filter map[string]interface{}) []map[string]interface{}
}

// NewStore selects the store backend from the configuration resolved at
// startup. Core logic never branches on the environment itself.
func NewStore(cfg config.StoreConfig, client *mongo.Client) Store {
	if cfg.UseFixtures {
		return NewFixtureStore()
	}
	return &MongoStore{db: client.Database(cfg.Database)}
}

// MongoStore executes queries against the live MongoDB connection.
type MongoStore struct {
	db *mongo.Database
}

func (s *MongoStore) Execute(ctx context.Context, collection string, filter map[string]interface{}) []map[string]interface{} {
	query := bson.M{}
	for key, value := range filter {
		query[key] = value
	}

	cursor, err := s.db.Collection(collection).Find(ctx, query)
	if err != nil {
		log.Printf("Database query error on %s: %v", collection, err)
		return nil
	}
	defer cursor.Close(ctx)

	var rows []map[string]interface{}
	if err := cursor.All(ctx, &rows); err != nil {
		log.Printf("Database decode error on %s: %v", collection, err)
		return nil
	}

	if rows == nil {
		rows = []map[string]interface{}{}
	}
	return rows
}

// FixtureStore serves seeded in-memory rows for local development and
// integration tests without a database.
type FixtureStore struct {
	collections map[string][]map[string]interface{}
}

// NewFixtureStore creates a fixture store pre-seeded with a test player
// account, mirroring what a fresh live database would hold.
func NewFixtureStore() *FixtureStore {
	store := &FixtureStore{
		collections: make(map[string][]map[string]interface{}),
	}
	store.Seed("users", map[string]interface{}{
		"user":         "testuser",
		"email":        "test@example.com",
		"account_type": 1,
		"money":        1000,
	})
	return store
}

// Seed adds a row to a fixture collection, assigning an id when missing.
func (s *FixtureStore) Seed(collection string, row map[string]interface{}) {
	if _, ok := row["_id"]; !ok {
		row["_id"] = uuid.NewString()
	}
	s.collections[collection] = append(s.collections[collection], row)
}

func (s *FixtureStore) Execute(_ context.Context, collection string, filter map[string]interface{}) []map[string]interface{} {
	rows := []map[string]interface{}{}
	for _, row := range s.collections[collection] {
		if matches(row, filter) {
			rows = append(rows, row)
		}
	}
	return rows
}

func matches(row, filter map[string]interface{}) bool {
	for key, want := range filter {
		if row[key] != want {
			return false
		}
	}
	return true
}
