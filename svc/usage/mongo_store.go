package usage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/farescope/quotakit/pkg/logger"
)

// DefaultCollection is the collection holding user usage records.
const DefaultCollection = "user_usage"

// recordDoc is the stored shape. Extra attributes persisted by older versions
// are ignored on decode.
type recordDoc struct {
	UserID              string    `bson:"userId"`
	MonthYear           string    `bson:"monthYear"`
	BookmarksCreated    int       `bson:"bookmarksCreated"`
	SeatmapRequestsUsed int       `bson:"seatmapRequestsUsed"`
	UpdatedAt           time.Time `bson:"updatedAt,omitempty"`
}

// MongoStore implements the Store interface on a MongoDB collection keyed by
// (userId, monthYear). Requires the unique index created by EnsureIndexes:
// the conditional increments rely on duplicate-key collisions to detect a
// record the guarded filter refused to match.
type MongoStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// updateOner is the slice of *mongo.Collection the conditional writes go
// through. Tests substitute it to exercise write-collision handling.
type updateOner interface {
	UpdateOne(ctx context.Context, filter, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
}

// MongoStoreOption configures a MongoStore.
type MongoStoreOption func(*MongoStore)

// WithLogger configures the logger for the store.
func WithLogger(l *slog.Logger) MongoStoreOption {
	return func(s *MongoStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewMongoStore creates a Mongo-backed usage record store.
func NewMongoStore(db *mongo.Database, opts ...MongoStoreOption) *MongoStore {
	s := &MongoStore{
		coll:   db.Collection(DefaultCollection),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MongoStore) GetOrCreate(ctx context.Context, userID uuid.UUID) Record {
	rec := NewRecord(userID)

	var doc recordDoc
	err := s.coll.FindOne(ctx, bson.M{
		"userId":    userID.String(),
		"monthYear": rec.MonthYear,
	}).Decode(&doc)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			// A zeroed record is the safe answer either way; the caller's
			// limit checks stay conservative about what has been consumed.
			s.logger.WarnContext(ctx, "usage record read failed, assuming zero usage",
				logger.UserID(userID), logger.Month(rec.MonthYear), logger.Error(err))
		}
		return rec
	}

	rec.BookmarksCreated = doc.BookmarksCreated
	rec.SeatmapRequestsUsed = doc.SeatmapRequestsUsed
	return rec
}

func (s *MongoStore) Save(ctx context.Context, rec Record) error {
	doc := recordDoc{
		UserID:              rec.UserID.String(),
		MonthYear:           rec.MonthYear,
		BookmarksCreated:    rec.BookmarksCreated,
		SeatmapRequestsUsed: rec.SeatmapRequestsUsed,
		UpdatedAt:           time.Now().UTC(),
	}

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"userId": doc.UserID, "monthYear": doc.MonthYear},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) IncrementBookmarks(ctx context.Context, userID uuid.UUID, limit int) error {
	return s.increment(ctx, userID, "bookmarksCreated", limit)
}

func (s *MongoStore) IncrementSeatmapRequests(ctx context.Context, userID uuid.UUID, limit int) error {
	return s.increment(ctx, userID, "seatmapRequestsUsed", limit)
}

// increment advances one counter by a guarded conditional write. The filter
// only matches while the counter is below limit, so an at-cap record makes
// the upsert collide with the unique (userId, monthYear) index. No
// read-then-write window exists for concurrent callers to race through.
func (s *MongoStore) increment(ctx context.Context, userID uuid.UUID, field string, limit int) error {
	if limit == 0 {
		return ErrLimitReached
	}

	filter := bson.M{
		"userId":    userID.String(),
		"monthYear": CurrentMonth(),
	}
	if limit > 0 {
		filter[field] = bson.M{"$lt": limit}
	}

	update := bson.M{
		"$inc":         bson.M{field: 1},
		"$currentDate": bson.M{"updatedAt": true},
	}

	return runConditionalIncrement(ctx, s.coll, filter, update)
}

// runConditionalIncrement issues the guarded upsert and disambiguates a
// duplicate-key collision, which has two causes: an existing record missed
// the counter guard, or two first increments for a missing record raced the
// insert and one lost. A single retry settles it — the retry runs against
// the record the winner created, so a repeat collision can only mean the
// counter is at its cap.
func runConditionalIncrement(ctx context.Context, coll updateOner, filter, update bson.M) error {
	for attempt := 0; attempt < 2; attempt++ {
		_, err := coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return errors.Join(ErrStoreFailure, err)
		}
	}
	return ErrLimitReached
}

func (s *MongoStore) RemainingBookmarks(ctx context.Context, userID uuid.UUID, limit int) int {
	rec := s.GetOrCreate(ctx, userID)
	return Remaining(limit, rec.BookmarksCreated)
}

// EnsureIndexes creates the unique (userId, monthYear) key the conditional
// increments depend on. When retention is positive, a TTL index ages out
// records that have not been touched for that long. Idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database, retention time.Duration) error {
	coll := db.Collection(DefaultCollection)

	models := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "monthYear", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("userId_monthYear"),
		},
	}

	if retention > 0 {
		models = append(models, mongo.IndexModel{
			Keys:    bson.D{{Key: "updatedAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(retention.Seconds())).SetName("updatedAt_ttl"),
		})
	}

	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}
