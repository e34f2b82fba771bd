package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestConfigureWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "debug", FormatJSON)
	t.Cleanup(func() { Configure(os.Stderr, "info", FormatText) })

	Debug("parsed verses", "count", 3)
	LogWithErr("update failed", errors.New("locked"))

	out := buf.String()
	assert.Contains(t, out, `"msg":"parsed verses"`)
	assert.Contains(t, out, `"count":3`)
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"error":"locked"`)
}

func TestConfigureFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "warn", FormatText)
	t.Cleanup(func() { Configure(os.Stderr, "info", FormatText) })

	Info("hidden")
	Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFormatArgs(t *testing.T) {
	assert.Equal(t, "\ntag: c1\nlines: 4", formatArgs([]any{"tag", "c1", "lines", 4}))
	assert.Equal(t, "", formatArgs([]any{"dangling"}))
}

type chatClient struct {
	mu       sync.Mutex
	delay    time.Duration
	release  chan struct{}
	messages []string
}

func (c *chatClient) SendMessage(chatID int64, text string) error {
	if c.release != nil {
		<-c.release
	}
	time.Sleep(c.delay)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, text)
	return nil
}

func useChatClient(t *testing.T, c *chatClient) {
	t.Helper()
	Configure(&bytes.Buffer{}, "info", FormatText)
	botClient = c
	t.Cleanup(func() {
		botClient = nil
		Configure(os.Stderr, "info", FormatText)
	})
}

func TestFlushWaitsForChatMessages(t *testing.T) {
	client := &chatClient{delay: 50 * time.Millisecond}
	useChatClient(t, client)

	Success("injected chords", "title", "Holy")
	Info("batch finished", "updated", 1)
	Debug("not sent")

	assert.True(t, Flush(5*time.Second))

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Len(t, client.messages, 2)
	assert.True(t, containsAny(client.messages, "injected chords"))
	assert.True(t, containsAny(client.messages, "batch finished"))
}

func TestFlushTimesOut(t *testing.T) {
	client := &chatClient{release: make(chan struct{})}
	useChatClient(t, client)

	Error("stuck")
	assert.False(t, Flush(20*time.Millisecond))

	close(client.release)
	assert.True(t, Flush(5*time.Second))
}

func TestFlushWithoutPendingMessages(t *testing.T) {
	assert.True(t, Flush(time.Millisecond))
}

func containsAny(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
