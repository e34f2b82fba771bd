// db.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	// registers the "sqlite" driver that libsql uses for file: URLs
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is the sentinel behind NotFoundError.
	ErrNotFound = errors.New("not found")
)

// NotFoundError reports a song lookup without matches.
type NotFoundError struct {
	Title  string
	Author string
}

func (e *NotFoundError) Error() string {
	if e.Author != "" {
		return fmt.Sprintf("song not found: %q by %q", e.Title, e.Author)
	}
	return fmt.Sprintf("song not found: %q", e.Title)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Store reads and updates OpenLP songs.
type Store struct {
	db  *sql.DB
	dsn string
}

// DSN turns a plain file path into a libsql file: URL and attaches the auth
// token to remote URLs.
func DSN(location, authToken string) string {
	if !strings.Contains(location, "://") && !strings.HasPrefix(location, "file:") {
		return "file:" + location
	}
	if authToken != "" && !strings.HasPrefix(location, "file:") {
		sep := "?"
		if strings.Contains(location, "?") {
			sep = "&"
		}
		return location + sep + "authToken=" + url.QueryEscape(authToken)
	}
	return location
}

// LocalPath returns the file path behind a file: DSN.
func LocalPath(dsn string) (string, bool) {
	if !strings.HasPrefix(dsn, "file:") {
		return "", false
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	return path, path != ""
}

// Open connects to the song database and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	database, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	database.SetMaxOpenConns(4)
	database.SetMaxIdleConns(4)
	database.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: database, dsn: dsn}, nil
}

// DSN returns the connection string the store was opened with.
func (s *Store) DSN() string {
	return s.dsn
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
