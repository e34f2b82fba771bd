package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sukalov/openlp-chords/internal/logger"
)

// Song is the part of an OpenLP song row the injector needs.
type Song struct {
	ID        int64
	Title     string
	Copyright sql.NullString
	Lyrics    string
}

// SongRef identifies a song for batch processing.
type SongRef struct {
	ID     int64
	Title  string
	Author string
}

// FindBestMatch looks songs up by title (SQL LIKE). With several matches
// the first one whose copyright mentions author wins, else the first row.
func (s *Store) FindBestMatch(ctx context.Context, title, author string) (Song, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT id, title, copyright, lyrics FROM songs WHERE title LIKE ? ORDER BY id", title)
	if err != nil {
		return Song{}, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var matches []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Copyright, &song.Lyrics); err != nil {
			return Song{}, fmt.Errorf("error scanning row: %w", err)
		}
		matches = append(matches, song)
	}
	if err := rows.Err(); err != nil {
		return Song{}, fmt.Errorf("error during rows iteration: %w", err)
	}

	logger.Debug("song lookup", "title", title, "author", author, "matches", len(matches))

	switch {
	case len(matches) == 0:
		return Song{}, &NotFoundError{Title: title, Author: author}
	case len(matches) == 1 || author == "":
		return matches[0], nil
	}

	needle := strings.ToLower(author)
	for _, song := range matches {
		if strings.Contains(strings.ToLower(song.Copyright.String), needle) {
			return song, nil
		}
	}
	return matches[0], nil
}

// UpdateLyrics stores new lyrics XML for a song.
func (s *Store) UpdateLyrics(ctx context.Context, songID int64, lyrics string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `UPDATE songs SET lyrics = ? WHERE id = ?`, lyrics, songID)
	if err != nil {
		return fmt.Errorf("failed to update lyrics: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("no song found with id: %d", songID)
	}

	return nil
}

// ListSongs returns every song with its first author, falling back to the
// copyright line when no author is linked.
func (s *Store) ListSongs(ctx context.Context) ([]SongRef, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `
		SELECT s.id, s.title, COALESCE((
			SELECT a.display_name
			FROM authors a
			JOIN authors_songs x ON x.author_id = a.id
			WHERE x.song_id = s.id
			ORDER BY a.id
			LIMIT 1
		), s.copyright, '')
		FROM songs s
		ORDER BY s.id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	defer rows.Close()

	var songs []SongRef
	for rows.Next() {
		var ref SongRef
		if err := rows.Scan(&ref.ID, &ref.Title, &ref.Author); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		songs = append(songs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}

	return songs, nil
}
