// Package mongo provides MongoDB connection management for the quota stores.
//
// All three quota collections (tier definitions, user usage, guest access)
// live in one database; components receive a *mongo.Database produced here
// through their constructors.
//
// Configuration is environment-driven (see pkg/config), connection attempts
// retry to absorb transient startup races against the database, and a
// Healthcheck probe is provided for orchestration.
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
package mongo
