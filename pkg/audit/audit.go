package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/example/craftora/pkg/config"
)

// Entry records one consultant or admin action on an entity.
type Entry struct {
	ID        string    `bson:"_id,omitempty"`
	Actor     string    `bson:"actor"`
	Action    string    `bson:"action"`
	EntityID  string    `bson:"entity_id"`
	Data      bson.M    `bson:"data"`
	CreatedAt time.Time `bson:"created_at"`
}

// Recorder writes audit entries to MongoDB. A nil Recorder is valid and
// drops everything, so the workflows run without Mongo configured.
type Recorder struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
	logger   *zap.Logger
}

func NewRecorder(cfg *config.MongoDBConfig, logger *zap.Logger) (*Recorder, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &Recorder{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
		logger:   logger,
	}, nil
}

// Record inserts an entry off the caller's path. Failures are logged and
// swallowed: the audit trail never blocks or fails a workflow mutation.
func (r *Recorder) Record(actor, action, entityID string, data bson.M) {
	if r == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		entry := Entry{
			Actor:     actor,
			Action:    action,
			EntityID:  entityID,
			Data:      data,
			CreatedAt: time.Now(),
		}
		if _, err := r.database.Collection(r.config.Collection).InsertOne(ctx, entry); err != nil {
			r.logger.Warn("audit write failed",
				zap.String("action", action),
				zap.String("entity_id", entityID),
				zap.Error(err))
		}
	}()
}

// Entries returns the most recent audit entries for one entity.
func (r *Recorder) Entries(ctx context.Context, entityID string, limit int64) ([]*Entry, error) {
	collection := r.database.Collection(r.config.Collection)

	filter := bson.M{"entity_id": entityID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*Entry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Recorder) Close(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
