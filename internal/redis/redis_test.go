package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redisClient "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) (*Tracker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	tracker := NewTrackerWithClient(redisClient.NewClient(&redisClient.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { tracker.Close() })
	return tracker, mr
}

func TestTrackerDone(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	done, err := tracker.Done(ctx, 7, "abc")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, tracker.MarkDone(ctx, 7, "abc"))

	done, err = tracker.Done(ctx, 7, "abc")
	require.NoError(t, err)
	assert.True(t, done)

	done, err = tracker.Done(ctx, 7, "changed")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestTrackerProgressAndReset(t *testing.T) {
	tracker, mr := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.MarkDone(ctx, 1, "a"))
	require.NoError(t, tracker.MarkDone(ctx, 2, "b"))
	mr.HSet(doneKey, "junk", "x")

	progress, err := tracker.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{1: "a", 2: "b"}, progress)

	require.NoError(t, tracker.Reset(ctx))
	progress, err = tracker.Progress(ctx)
	require.NoError(t, err)
	assert.Empty(t, progress)
}

func TestNewTrackerBadURL(t *testing.T) {
	_, err := NewTracker("host:notaport", "pw")
	assert.Error(t, err)
}

func TestTrackerOptionsEscapesPassword(t *testing.T) {
	opt, err := trackerOptions("cache.example.com:6380", "p@ss:w/rd?#")
	require.NoError(t, err)

	assert.Equal(t, "cache.example.com:6380", opt.Addr)
	assert.Equal(t, "default", opt.Username)
	assert.Equal(t, "p@ss:w/rd?#", opt.Password)
	assert.NotNil(t, opt.TLSConfig)
}
