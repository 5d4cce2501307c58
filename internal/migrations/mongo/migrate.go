package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lockwatch/internal/migrations/mongo/validators"
)

var (
	LockSnapshotsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "pass_id", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "captured_at", Value: -1}}},
		{Keys: bson.D{
			{Key: "tenant_id", Value: 1},
			{Key: "resource_id", Value: 1},
			{Key: "granted", Value: 1},
		}},
		{Keys: bson.D{{Key: "closed_at", Value: 1}, {Key: "captured_at", Value: 1}}},
	}

	SessionSummariesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "pass_id", Value: 1}, {Key: "session_id", Value: 1}}},
		{Keys: bson.D{
			{Key: "tenant_id", Value: 1},
			{Key: "severity", Value: -1},
			{Key: "captured_at", Value: -1},
		}},
		{Keys: bson.D{{Key: "closed_at", Value: 1}, {Key: "captured_at", Value: 1}}},
	}

	DeadlockEventsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}, {Key: "cycle_key", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "detected_at", Value: -1}}},
		{Keys: bson.D{{Key: "closed_at", Value: 1}, {Key: "detected_at", Value: 1}}},
	}

	AnalysisWindowsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "period_end", Value: -1}}},
		{Keys: bson.D{{Key: "closed_at", Value: 1}, {Key: "period_end", Value: 1}}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running Lockwatch Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Lock_snapshots": {
			Indexes:   LockSnapshotsIndexes,
			Validator: validators.LockSnapshotValidator,
		},
		"Session_summaries": {
			Indexes:   SessionSummariesIndexes,
			Validator: validators.SessionSummaryValidator,
		},
		"Deadlock_events": {
			Indexes:   DeadlockEventsIndexes,
			Validator: validators.DeadlockEventValidator,
		},
		"Analysis_windows": {
			Indexes:   AnalysisWindowsIndexes,
			Validator: validators.AnalysisWindowValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
