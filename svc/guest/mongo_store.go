package guest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/farescope/quotakit/pkg/logger"
)

// DefaultCollection is the collection holding guest access records.
const DefaultCollection = "guest_access"

// recordDoc is the stored shape, keyed by IP address. Timestamps are BSON
// dates truncated to second precision; lastSeatmapRequest is omitted until
// the first recorded request so absence has exactly one representation.
// Extra attributes persisted by older versions are ignored on decode.
type recordDoc struct {
	IPAddress           string     `bson:"_id"`
	SeatmapRequestsUsed int        `bson:"seatmapRequestsUsed"`
	FirstAccess         time.Time  `bson:"firstAccess"`
	LastSeatmapRequest  *time.Time `bson:"lastSeatmapRequest,omitempty"`
	ExpiresAt           time.Time  `bson:"expiresAt"`
}

func (d recordDoc) toRecord() Record {
	return Record{
		IPAddress:           d.IPAddress,
		SeatmapRequestsUsed: d.SeatmapRequestsUsed,
		FirstAccess:         d.FirstAccess,
		LastSeatmapRequest:  d.LastSeatmapRequest,
		ExpiresAt:           d.ExpiresAt,
	}
}

// MongoStore implements the Store interface on a MongoDB collection with the
// IP address as the document key and a TTL index on expiresAt for background
// reclamation.
type MongoStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
	now    func() time.Time
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

// NewMongoStore creates a Mongo-backed guest access store.
func NewMongoStore(db *mongo.Database, opts ...MongoStoreOption) *MongoStore {
	s := &MongoStore{
		coll:   db.Collection(DefaultCollection),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MongoStore) Get(ctx context.Context, ip string) (Record, bool, error) {
	var doc recordDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": ip}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, false, nil
		}
		return Record{}, false, errors.Join(ErrStoreFailure, err)
	}

	rec := doc.toRecord()
	if rec.Expired(s.now()) {
		return Record{}, false, nil
	}
	return rec, true, nil
}

func (s *MongoStore) CanMakeSeatmapRequest(ctx context.Context, ip string) bool {
	return s.Remaining(ctx, ip) > 0
}

func (s *MongoStore) Remaining(ctx context.Context, ip string) int {
	rec, found, err := s.Get(ctx, ip)
	if err != nil {
		// Fail-safe deny: an unreadable record answers "nothing left".
		s.logger.WarnContext(ctx, "guest record read failed, denying",
			logger.ClientIP(ip), logger.Error(err))
		return 0
	}
	if !found {
		return LifetimeSeatmapCap
	}
	return rec.Remaining()
}

// RecordSeatmapRequest advances the counter with a guarded conditional
// write. The upsert filter matches only a live record below the cap;
// otherwise it collides with the existing document and a second guarded
// write restarts expired records as a fresh cycle.
func (s *MongoStore) RecordSeatmapRequest(ctx context.Context, ip string) error {
	return recordSeatmapRequest(ctx, s.coll, ip, s.now())
}

// updateOner is the slice of *mongo.Collection the conditional writes go
// through. Tests substitute it to exercise write-collision handling.
type updateOner interface {
	UpdateOne(ctx context.Context, filter, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
}

func recordSeatmapRequest(ctx context.Context, coll updateOner, ip string, now time.Time) error {
	expiry := expiryFrom(now)

	live := bson.M{
		"_id":                 ip,
		"seatmapRequestsUsed": bson.M{"$lt": LifetimeSeatmapCap},
		"expiresAt":           bson.M{"$gt": now},
	}
	update := bson.M{
		"$inc":         bson.M{"seatmapRequestsUsed": 1},
		"$set":         bson.M{"lastSeatmapRequest": now},
		"$setOnInsert": bson.M{"firstAccess": now, "expiresAt": expiry},
	}
	takeover := bson.M{"$set": bson.M{
		"seatmapRequestsUsed": 1,
		"firstAccess":         now,
		"lastSeatmapRequest":  now,
		"expiresAt":           expiry,
	}}

	// Two passes settle the write races: a first request can lose the
	// upsert-insert race against a concurrent first request from the same
	// IP, and the expired-record takeover can miss a document the TTL
	// monitor reclaimed between the two writes. The retry runs against
	// whatever state won, so a repeat miss on both writes can only mean a
	// live record at the cap.
	for attempt := 0; attempt < 2; attempt++ {
		_, err := coll.UpdateOne(ctx, live, update, options.UpdateOne().SetUpsert(true))
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return errors.Join(ErrStoreFailure, err)
		}

		// The document exists but missed the live filter: expired, at cap,
		// or freshly inserted by a racing first request.
		res, err := coll.UpdateOne(ctx,
			bson.M{"_id": ip, "expiresAt": bson.M{"$lte": now}},
			takeover,
		)
		if err != nil {
			return errors.Join(ErrStoreFailure, err)
		}
		if res.ModifiedCount > 0 {
			return nil
		}
	}
	return ErrLimitReached
}

// EnsureIndexes creates the TTL index that lets the store reclaim expired
// guest records in the background. Expiry is still checked explicitly on
// every read; the index only bounds storage growth. Idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(DefaultCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expiresAt_ttl"),
	})
	return err
}
