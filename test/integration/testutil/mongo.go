package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "lockwatch"
	ConnectionTimeout   = 10 * time.Second

	LockSnapshotsCollection    = "Lock_snapshots"
	SessionSummariesCollection = "Session_summaries"
	DeadlockEventsCollection   = "Deadlock_events"
	AnalysisWindowsCollection  = "Analysis_windows"
)

// FindingCollections lists every collection the monitor writes, in the
// order retention sweeps them.
var FindingCollections = []string{
	LockSnapshotsCollection,
	SessionSummariesCollection,
	DeadlockEventsCollection,
	AnalysisWindowsCollection,
}

// MongoHelper provides MongoDB test utilities
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

// NewMongoHelper creates a new MongoDB test helper
func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	if mongoURI == "" {
		mongoURI = DefaultMongoURI
	}
	if dbName == "" {
		dbName = DefaultDatabaseName
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
		DBName:   dbName,
	}
}

// Close closes MongoDB connection
func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// CleanFindings removes all documents from the monitor's collections.
// Collections themselves survive so migration-created validators and
// indexes stay in place between tests.
func (m *MongoHelper) CleanFindings(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, collName := range FindingCollections {
		if _, err := m.Database.Collection(collName).DeleteMany(ctx, map[string]interface{}{}); err != nil {
			t.Fatalf("failed to clean collection %s: %v", collName, err)
		}
	}
}

// CountDocuments returns the number of documents in a collection
func (m *MongoHelper) CountDocuments(t *testing.T, collectionName string) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.Database.Collection(collectionName).CountDocuments(ctx, map[string]interface{}{})
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collectionName, err)
	}
	return count
}

// GetCollection returns a collection for direct access
func (m *MongoHelper) GetCollection(collectionName string) *mongo.Collection {
	return m.Database.Collection(collectionName)
}
