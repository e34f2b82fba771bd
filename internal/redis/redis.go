package redis

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	redisClient "github.com/go-redis/redis/v8"
)

const doneKey = "openlp-chords:done"

// Tracker remembers which songs a batch run already injected, keyed by song
// ID with the fingerprint of the lyrics that were written.
type Tracker struct {
	client *redisClient.Client
}

// NewTracker connects to a TLS redis at addr ("host:port").
func NewTracker(addr, password string) (*Tracker, error) {
	opt, err := trackerOptions(addr, password)
	if err != nil {
		return nil, err
	}
	return &Tracker{client: redisClient.NewClient(opt)}, nil
}

func trackerOptions(addr, password string) (*redisClient.Options, error) {
	u := url.URL{Scheme: "rediss", User: url.UserPassword("default", password), Host: addr}
	opt, err := redisClient.ParseURL(u.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return opt, nil
}

// NewTrackerWithClient wraps an existing client.
func NewTrackerWithClient(client *redisClient.Client) *Tracker {
	return &Tracker{client: client}
}

// Done reports whether songID was recorded with fingerprint.
func (t *Tracker) Done(ctx context.Context, songID int64, fingerprint string) (bool, error) {
	got, err := t.client.HGet(ctx, doneKey, strconv.FormatInt(songID, 10)).Result()
	if err != nil {
		if err == redisClient.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to read progress for song %d: %w", songID, err)
	}
	return got == fingerprint, nil
}

// MarkDone records fingerprint for songID.
func (t *Tracker) MarkDone(ctx context.Context, songID int64, fingerprint string) error {
	err := t.client.HSet(ctx, doneKey, strconv.FormatInt(songID, 10), fingerprint).Err()
	if err != nil {
		return fmt.Errorf("failed to record progress for song %d: %w", songID, err)
	}
	return nil
}

// Progress returns every recorded song ID with its fingerprint.
func (t *Tracker) Progress(ctx context.Context) (map[int64]string, error) {
	result := make(map[int64]string)
	raw, err := t.client.HGetAll(ctx, doneKey).Result()
	if err != nil {
		if err == redisClient.Nil {
			return result, nil
		}
		return nil, err
	}
	for id, fp := range raw {
		songID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue // skip foreign fields
		}
		result[songID] = fp
	}
	return result, nil
}

// Reset forgets all recorded progress.
func (t *Tracker) Reset(ctx context.Context) error {
	return t.client.Del(ctx, doneKey).Err()
}

// Close closes the underlying client.
func (t *Tracker) Close() error {
	return t.client.Close()
}
