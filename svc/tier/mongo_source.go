package tier

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultCollection is the collection holding tier definitions.
const DefaultCollection = "tiers"

// DefaultRegion is assumed when no region is configured.
const DefaultRegion = "global"

// mongoSource loads active tier definitions for one region from MongoDB.
type mongoSource struct {
	coll   *mongo.Collection
	region string
}

// NewMongoSource returns a Source scanning the tiers collection. The store is
// regional: only active rows matching region are loaded. An empty region
// falls back to DefaultRegion.
func NewMongoSource(db *mongo.Database, region string) Source {
	if region == "" {
		region = DefaultRegion
	}
	return &mongoSource{
		coll:   db.Collection(DefaultCollection),
		region: region,
	}
}

func (s *mongoSource) Load(ctx context.Context) ([]Definition, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"active": true, "region": s.region})
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	var defs []Definition
	if err := cursor.All(ctx, &defs); err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	return defs, nil
}

// EnsureIndexes creates the name+region index used by administrative lookups.
// Idempotent; call once at deploy time.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(DefaultCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "tierName", Value: 1},
			{Key: "region", Value: 1},
		},
		Options: options.Index().SetName("tierName_region"),
	})
	return err
}
