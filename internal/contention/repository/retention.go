package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// CloseRecordsBefore stamps closed_at on every open record whose capture
// time falls before the cutoff. Already-closed records are never touched,
// so the sweep is idempotent.
func (r *mongoContentionRepository) CloseRecordsBefore(ctx context.Context, cutoff, at time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	targets := []struct {
		coll  string
		field string
	}{
		{LockSnapshotsCollection, "captured_at"},
		{SessionSummariesCollection, "captured_at"},
		{DeadlockEventsCollection, "detected_at"},
		{AnalysisWindowsCollection, "period_end"},
	}

	var closed int64
	for _, t := range targets {
		filter := bson.M{
			t.field:     bson.M{"$lt": cutoff},
			"closed_at": bson.M{"$exists": false},
		}
		update := bson.M{"$set": bson.M{"closed_at": at}}

		result, err := r.db.Collection(t.coll).UpdateMany(ctx, filter, update)
		if err != nil {
			return closed, fmt.Errorf("failed to close stale records in %s: %w", t.coll, err)
		}
		closed += result.ModifiedCount
	}
	return closed, nil
}
