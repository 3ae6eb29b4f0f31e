package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"notevault/model"

	"github.com/redis/go-redis/v9"
)

// NoteCache holds the per-user note listing in Redis. Every mutation of
// a user's notes invalidates their entry, so a hit is never stale
// beyond the last write. A nil *NoteCache is a no-op, used when no
// Redis URL is configured.
type NoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewNoteCache(redisURL string, ttl time.Duration) (*NoteCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &NoteCache{client: client, ttl: ttl}, nil
}

func noteListKey(username string) string {
	return "notes:list:" + username
}

// GetNoteList returns the cached listing for a user, or (nil, false) on
// a miss or decode failure.
func (nc *NoteCache) GetNoteList(ctx context.Context, username string) ([]*model.Note, bool) {
	if nc == nil {
		return nil, false
	}

	data, err := nc.client.Get(ctx, noteListKey(username)).Bytes()
	if err != nil {
		return nil, false
	}

	var notes []*model.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, false
	}
	return notes, true
}

// SetNoteList caches the listing for a user. Failures are swallowed,
// the cache is best effort.
func (nc *NoteCache) SetNoteList(ctx context.Context, username string, notes []*model.Note) {
	if nc == nil {
		return
	}

	data, err := json.Marshal(notes)
	if err != nil {
		return
	}
	nc.client.Set(ctx, noteListKey(username), data, nc.ttl)
}

// Invalidate drops a user's cached listing after any note mutation.
func (nc *NoteCache) Invalidate(ctx context.Context, username string) {
	if nc == nil {
		return
	}
	nc.client.Del(ctx, noteListKey(username))
}
