package feed

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"math/rand"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/AxelMcKenna/Liquorfy-sub000/logger"
)

// RedisFeed implements Publisher on Redis streams
type RedisFeed struct {
	client          *redis.Client
	ctx             context.Context
	streamPrefix    string
	streamCount     int
	streamMaxLength int
	log             *logger.Logger
}

// NewRedisFeed creates a Redis-backed change feed
func NewRedisFeed(ctx context.Context, addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisFeed {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisFeed{
		client:          client,
		ctx:             ctx,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
		log:             logger.ForFeed(),
	}
}

// PublishChange publishes one price change event to a Redis stream.
// The JSON payload is base64 encoded and keyed by chain; events spread
// over streamCount sharded streams (prefix:0 .. prefix:N-1) so
// consumers can partition the feed.
func (f *RedisFeed) PublishChange(change PriceChange) error {
	if change.ID == "" {
		change.ID = uuid.NewString()
	}

	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(payload)

	stream := f.streamPrefix + ":" + strconv.Itoa(rand.Intn(f.streamCount))

	return f.client.XAdd(f.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			change.Chain: encoded,
		},
	}).Err()
}

// TrimStreams trims all streams to the configured maximum length
func (f *RedisFeed) TrimStreams() error {
	// Get all streams with the prefix
	pattern := f.streamPrefix + ":*"
	streams, err := f.client.Keys(f.ctx, pattern).Result()
	if err != nil {
		return err
	}

	// Trim each stream
	for _, stream := range streams {
		err := f.client.XTrimMaxLen(f.ctx, stream, int64(f.streamMaxLength)).Err()
		if err != nil {
			return err
		}
	}

	f.log.Debug().Int("streams", len(streams)).Msg("Trimmed change feed streams")
	return nil
}

// Close closes the Redis connection
func (f *RedisFeed) Close() error {
	return f.client.Close()
}
