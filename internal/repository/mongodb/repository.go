package mongodb

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/amcjunkshop/scrapledger/internal/domain/models"
)

const (
	recordsCollection   = "records"
	summariesCollection = "daily_summaries"
)

// Repository persists expense records and daily summaries, and fans live
// record snapshots out to subscribers through a change stream watcher.
type Repository struct {
	client *mongo.Client
	dbName string
	logger *zap.Logger

	mu          sync.Mutex
	subscribers map[string]func([]models.ExpenseRecord)
	cancelWatch context.CancelFunc
	watchDone   chan struct{}
}

// New connects to MongoDB and verifies the connection.
func New(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{
		client:      client,
		dbName:      dbName,
		logger:      logger,
		subscribers: make(map[string]func([]models.ExpenseRecord)),
	}, nil
}

func (r *Repository) records() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(recordsCollection)
}

// AddRecord upserts a record keyed by its id, so retrying a save that
// already landed is harmless.
func (r *Repository) AddRecord(ctx context.Context, rec models.ExpenseRecord) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.records().ReplaceOne(ctx, bson.M{"id": rec.ID}, rec, opts); err != nil {
		return fmt.Errorf("failed to upsert record %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteRecord removes a whole record by id.
func (r *Repository) DeleteRecord(ctx context.Context, id string) error {
	if _, err := r.records().DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	return nil
}

// ListRecords returns the full record collection. Ordering is unspecified;
// the report aggregator sorts.
func (r *Repository) ListRecords(ctx context.Context) ([]models.ExpenseRecord, error) {
	cursor, err := r.records().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	var recs []models.ExpenseRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return recs, nil
}

// SaveDailySummary stores one day's aggregated figures.
func (r *Repository) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	collection := r.client.Database(r.dbName).Collection(summariesCollection)
	if _, err := collection.InsertOne(ctx, summary); err != nil {
		return fmt.Errorf("failed to insert daily summary: %w", err)
	}
	return nil
}

// Subscribe registers a snapshot consumer. The consumer immediately receives
// the current collection, then a fresh full snapshot after every change.
// The returned unsubscribe func may be called any number of times but takes
// effect exactly once.
func (r *Repository) Subscribe(fn func(records []models.ExpenseRecord)) (func(), error) {
	initial, err := r.ListRecords(context.Background())
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if len(r.subscribers) == 0 {
		if err := r.startWatcher(); err != nil {
			r.mu.Unlock()
			return nil, err
		}
	}
	id := uuid.NewString()
	r.subscribers[id] = fn
	r.mu.Unlock()

	fn(initial)

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subscribers, id)
			if len(r.subscribers) == 0 && r.cancelWatch != nil {
				r.cancelWatch()
				r.cancelWatch = nil
			}
			r.mu.Unlock()
		})
	}, nil
}

// startWatcher opens the change stream. Caller holds r.mu.
func (r *Repository) startWatcher() error {
	ctx, cancel := context.WithCancel(context.Background())

	stream, err := r.records().Watch(ctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to open change stream: %w", err)
	}

	r.cancelWatch = cancel
	done := make(chan struct{})
	r.watchDone = done

	go func() {
		defer close(done)
		defer func() { _ = stream.Close(context.Background()) }()

		for stream.Next(ctx) {
			r.broadcast(ctx)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			r.logger.Error("change stream terminated", zap.Error(err))
		}
	}()

	return nil
}

// broadcast re-lists the collection and delivers the snapshot to every
// subscriber. Each delivery gets the same immutable slice; consumers must
// treat it as read-only.
func (r *Repository) broadcast(ctx context.Context) {
	recs, err := r.ListRecords(ctx)
	if err != nil {
		r.logger.Error("failed to load snapshot for broadcast", zap.Error(err))
		return
	}

	r.mu.Lock()
	fns := make([]func([]models.ExpenseRecord), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(recs)
	}
}

// Close stops the watcher and closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.cancelWatch != nil {
		r.cancelWatch()
		r.cancelWatch = nil
	}
	done := r.watchDone
	r.mu.Unlock()

	if done != nil {
		<-done
	}
	return r.client.Disconnect(ctx)
}
