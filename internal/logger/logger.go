package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sukalov/openlp-chords/internal/utils"
)

var (
	ChannelID int64
	once      sync.Once
	botClient BotClient
	pending   sync.WaitGroup

	mu   sync.RWMutex
	base = newSlog(os.Stderr, slog.LevelInfo, FormatText)
)

// BotClient delivers log lines to a chat channel.
type BotClient interface {
	SendMessage(chatID int64, text string) error
}

// Format selects the local log encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Init attaches a chat sink. The channel comes from LOG_CHANNEL_ID.
func Init(client BotClient) error {
	var initErr error
	once.Do(func() {
		env, err := utils.LoadEnv([]string{"LOG_CHANNEL_ID"})
		if err != nil {
			initErr = fmt.Errorf("failed to load LOG_CHANNEL_ID: %w", err)
			return
		}

		ChannelID, err = strconv.ParseInt(env["LOG_CHANNEL_ID"], 10, 64)
		if err != nil {
			initErr = fmt.Errorf("failed to parse LOG_CHANNEL_ID: %w", err)
			return
		}

		botClient = client
	})

	return initErr
}

// Configure replaces the local slog output.
func Configure(w io.Writer, level string, format Format) {
	mu.Lock()
	defer mu.Unlock()
	base = newSlog(w, ParseLevel(level), format)
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels,
// defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newSlog(w io.Writer, level slog.Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func Info(message string, args ...any) {
	get().Info(message, args...)
	sendLog("ℹ️ INFO", message, args)
}

func Warn(message string, args ...any) {
	get().Warn(message, args...)
	sendLog("⚠️ WARN", message, args)
}

func Error(message string, args ...any) {
	get().Error(message, args...)
	sendLog("❌ ERROR", message, args)
}

// Debug is kept local; chat channels only get info and above.
func Debug(message string, args ...any) {
	get().Debug(message, args...)
}

func Success(message string, args ...any) {
	get().Info(message, append(args, "status", "success")...)
	sendLog("✅ SUCCESS", message, args)
}

func sendLog(prefix, message string, args []any) {
	if botClient == nil {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("[%s] %s\n%s%s", timestamp, prefix, message, formatArgs(args))

	pending.Add(1)
	go func() {
		defer pending.Done()
		if err := botClient.SendMessage(ChannelID, logMessage); err != nil {
			fmt.Printf("Failed to send log to channel: %v\nLog was: %s\n", err, logMessage)
		}
	}()
}

// Flush waits up to timeout for chat messages still being sent and reports
// whether all of them finished.
func Flush(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// formatArgs renders slog-style key/value pairs one per line.
func formatArgs(args []any) string {
	var b strings.Builder
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, "\n%v: %v", args[i], args[i+1])
	}
	return b.String()
}

// LogWithErr logs message at info level, or at error level with err attached.
func LogWithErr(message string, err error) {
	if err == nil {
		Info(message)
		return
	}

	Error(message, "error", err)
}
