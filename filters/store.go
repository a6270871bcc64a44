package filters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists one filter state per project.  This is the server-side
// replacement for the browser localStorage key the dashboard used to keep.
type Store interface {
	Get(ctx context.Context, projectID string) (*State, error)
	Put(ctx context.Context, projectID string, s State) error
	Ping(ctx context.Context) error
}

var store Store

// UseStore installs the store used by handlers.  Called once at startup, or
// by the test harness.
func UseStore(s Store) {
	store = s
}

func GetStore() Store {
	return store
}

const redisConnectTimeout = 10 * time.Second

// The key keeps the exact shape of the old localStorage key so a future
// migration of saved browser state stays mechanical.
func filterKey(projectID string) string {
	return "juspay-dashboard-filters-" + projectID
}

// RedisStore keeps filter states in Redis.  States are tiny and rarely
// written, so there is no expiry.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Get returns the stored state for the project, or nil if none was saved.
func (r *RedisStore) Get(ctx context.Context, projectID string) (*State, error) {
	data, err := r.client.Get(ctx, filterKey(projectID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read filters: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt value behaves like no value.
		return nil, nil
	}

	return &s, nil
}

func (r *RedisStore) Put(ctx context.Context, projectID string, s State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal filters: %w", err)
	}

	if err := r.client.Set(ctx, filterKey(projectID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save filters: %w", err)
	}

	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
