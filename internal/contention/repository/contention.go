package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	contentionerrors "lockwatch/internal/contention/errors"
	"lockwatch/pkg/config"
	mongotx "lockwatch/pkg/db/mongo"
	"lockwatch/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	LockSnapshotsCollection   = "Lock_snapshots"
	SessionSummariesCollection = "Session_summaries"
	DeadlockEventsCollection  = "Deadlock_events"
	AnalysisWindowsCollection = "Analysis_windows"
)

type mongoContentionRepository struct {
	cfg       *config.Config
	db        *mongo.Database
	locks     *mongo.Collection
	summaries *mongo.Collection
	deadlocks *mongo.Collection
	windows   *mongo.Collection
	txManager mongotx.TransactionManager
}

type ContentionRepository interface {
	InsertLockRecords(ctx context.Context, records []*model.LockRecord) error
	InsertSessionSummaries(ctx context.Context, summaries []*model.SessionSummary) error
	InsertDeadlockEvents(ctx context.Context, events []*model.DeadlockEvent) error
	InsertAnalysisWindow(ctx context.Context, window *model.AnalysisWindow) error

	FindLatestWindow(ctx context.Context, tenantID string) (*model.AnalysisWindow, error)
	FindOpenDeadlocks(ctx context.Context, tenantID string) ([]*model.DeadlockEvent, error)
	FindDeadlockByID(ctx context.Context, id string) (*model.DeadlockEvent, error)
	ResolveDeadlock(ctx context.Context, id, resolution string, at time.Time) (*model.DeadlockEvent, error)

	FindSessionSummaries(ctx context.Context, tenantID string, minSeverity *model.Severity, limit int, offset int64) ([]*model.SessionSummary, int64, error)
	FindAnalysisWindows(ctx context.Context, tenantID string, limit int, offset int64) ([]*model.AnalysisWindow, int64, error)
	FindDeadlockEvents(ctx context.Context, tenantID, status string, limit int, offset int64) ([]*model.DeadlockEvent, int64, error)

	CloseRecordsBefore(ctx context.Context, cutoff, at time.Time) (int64, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoContentionRepository(cfg *config.Config) ContentionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoContentionRepository{
		cfg:       cfg,
		db:        db,
		locks:     db.Collection(LockSnapshotsCollection),
		summaries: db.Collection(SessionSummariesCollection),
		deadlocks: db.Collection(DeadlockEventsCollection),
		windows:   db.Collection(AnalysisWindowsCollection),
		txManager: mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction; SessionContext cannot be wrapped without breaking
// transaction semantics.
func (r *mongoContentionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoContentionRepository) InsertLockRecords(ctx context.Context, records []*model.LockRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	docs := make([]any, 0, len(records))
	for _, rec := range records {
		docs = append(docs, rec)
	}
	if _, err := r.locks.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert lock records: %w", err)
	}
	return nil
}

func (r *mongoContentionRepository) InsertSessionSummaries(ctx context.Context, summaries []*model.SessionSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	docs := make([]any, 0, len(summaries))
	for _, s := range summaries {
		docs = append(docs, s)
	}
	if _, err := r.summaries.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert session summaries: %w", err)
	}
	return nil
}

func (r *mongoContentionRepository) InsertDeadlockEvents(ctx context.Context, events []*model.DeadlockEvent) error {
	if len(events) == 0 {
		return nil
	}
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	docs := make([]any, 0, len(events))
	for _, e := range events {
		docs = append(docs, e)
	}
	if _, err := r.deadlocks.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert deadlock events: %w", err)
	}
	return nil
}

func (r *mongoContentionRepository) InsertAnalysisWindow(ctx context.Context, window *model.AnalysisWindow) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.windows.InsertOne(ctx, window); err != nil {
		return fmt.Errorf("failed to insert analysis window: %w", err)
	}
	return nil
}

func (r *mongoContentionRepository) FindLatestWindow(ctx context.Context, tenantID string) (*model.AnalysisWindow, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID}
	opts := options.FindOne().SetSort(bson.D{{Key: "period_end", Value: -1}})

	var w model.AnalysisWindow
	err := r.windows.FindOne(ctx, filter, opts).Decode(&w)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: no window for tenant %s", contentionerrors.ErrNotFound, tenantID)
		}
		return nil, fmt.Errorf("failed to find latest window: %w", err)
	}
	return &w, nil
}

func (r *mongoContentionRepository) FindOpenDeadlocks(ctx context.Context, tenantID string) ([]*model.DeadlockEvent, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"tenant_id": tenantID,
		"status":    model.DeadlockDetected,
		"closed_at": bson.M{"$exists": false},
	}
	cursor, err := r.deadlocks.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query open deadlocks: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*model.DeadlockEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode open deadlocks: %w", err)
	}
	return events, nil
}

func (r *mongoContentionRepository) FindDeadlockByID(ctx context.Context, id string) (*model.DeadlockEvent, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var event model.DeadlockEvent
	err := r.deadlocks.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", contentionerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find deadlock event: %w", err)
	}
	return &event, nil
}

func (r *mongoContentionRepository) ResolveDeadlock(ctx context.Context, id, resolution string, at time.Time) (*model.DeadlockEvent, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": model.DeadlockDetected}

	update := bson.M{"$set": bson.M{
		"status":      model.DeadlockResolved,
		"resolution":  resolution,
		"resolved_at": at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var event model.DeadlockEvent
	if err := r.deadlocks.FindOneAndUpdate(ctx, filter, update, opts).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", contentionerrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to resolve deadlock: %w", err)
	}
	return &event, nil
}

func (r *mongoContentionRepository) FindSessionSummaries(ctx context.Context, tenantID string, minSeverity *model.Severity, limit int, offset int64) ([]*model.SessionSummary, int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID}
	if minSeverity != nil {
		filter["severity"] = bson.M{"$gte": int(*minSeverity)}
	}

	total, err := r.summaries.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count session summaries: %w", err)
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "captured_at", Value: -1}, {Key: "session_id", Value: 1}})

	cursor, err := r.summaries.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query session summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []*model.SessionSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, 0, fmt.Errorf("failed to decode session summaries: %w", err)
	}
	return summaries, total, nil
}

func (r *mongoContentionRepository) FindAnalysisWindows(ctx context.Context, tenantID string, limit int, offset int64) ([]*model.AnalysisWindow, int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID}

	total, err := r.windows.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count analysis windows: %w", err)
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "period_end", Value: -1}})

	cursor, err := r.windows.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query analysis windows: %w", err)
	}
	defer cursor.Close(ctx)

	var windows []*model.AnalysisWindow
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, 0, fmt.Errorf("failed to decode analysis windows: %w", err)
	}
	return windows, total, nil
}

func (r *mongoContentionRepository) FindDeadlockEvents(ctx context.Context, tenantID, status string, limit int, offset int64) ([]*model.DeadlockEvent, int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.deadlocks.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count deadlock events: %w", err)
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "detected_at", Value: -1}})

	cursor, err := r.deadlocks.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query deadlock events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*model.DeadlockEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, 0, fmt.Errorf("failed to decode deadlock events: %w", err)
	}
	return events, total, nil
}

func (r *mongoContentionRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
