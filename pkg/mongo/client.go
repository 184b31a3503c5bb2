package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// New creates a connected and pinged mongo client. Attempts are spaced by
// cfg.RetryInterval and stop early when ctx is done; the last dial error
// rides along with ErrFailedToConnect.
func New(ctx context.Context, cfg Config) (*mongo.Client, error) {
	var lastErr error
	for attempt := 0; attempt < cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Join(ErrFailedToConnect, ctx.Err(), lastErr)
			case <-time.After(cfg.RetryInterval):
			}
		}

		client, err := dial(ctx, cfg)
		if err == nil {
			return client, nil
		}
		lastErr = err
	}
	return nil, errors.Join(ErrFailedToConnect, lastErr)
}

// dial performs one connect-and-verify attempt. A client whose ping fails is
// disconnected so retries do not accumulate connection pools.
func dial(ctx context.Context, cfg Config) (*mongo.Client, error) {
	client, err := mongo.Connect(
		options.Client().
			ApplyURI(cfg.ConnectionURL).
			SetConnectTimeout(cfg.ConnectTimeout).
			SetMaxPoolSize(cfg.MaxPoolSize).
			SetMinPoolSize(cfg.MinPoolSize).
			SetMaxConnIdleTime(cfg.MaxConnIdleTime).
			SetRetryWrites(cfg.RetryWrites).
			SetRetryReads(cfg.RetryReads),
	)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}
	return client, nil
}

// NewWithDatabase creates a connected client and returns a handle to the
// configured database. The quota collections all live in one database, so
// this is the usual entry point.
func NewWithDatabase(ctx context.Context, cfg Config) (*mongo.Database, error) {
	client, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Database(cfg.Database), nil
}
