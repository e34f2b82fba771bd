package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sukalov/openlp-chords/internal/logger"
)

// DefaultExts are the extensions SongSelect and other tools use for
// ChordPro downloads.
var DefaultExts = []string{".txt", ".chordpro", ".cho"}

var (
	// ErrNoFiles means the download directory holds no ChordPro file.
	ErrNoFiles = errors.New("no chordpro files found")
	// ErrEmpty means the source produced no text.
	ErrEmpty = errors.New("empty chordpro text")
)

// Query identifies the song whose ChordPro text is wanted.
type Query struct {
	Title  string
	Artist string
	// Path is an explicit ChordPro file.
	Path string
	// URL is a page serving ChordPro text.
	URL string
}

// Source supplies raw ChordPro text.
type Source interface {
	Fetch(ctx context.Context, q Query) (string, error)
}

// FileSource reads ChordPro files from disk. Without an explicit path it
// looks for "<title>-chordpro-<artist>" files in Dir, or picks the newest
// file when no title is given.
type FileSource struct {
	Dir  string
	Exts []string
}

func (s *FileSource) Fetch(ctx context.Context, q Query) (string, error) {
	path := q.Path
	var err error
	switch {
	case path != "":
	case q.Title != "":
		path, err = FindFile(s.Dir, q.Title, q.Artist, s.Exts...)
	default:
		path, err = LatestFile(s.Dir, s.Exts...)
	}
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read chordpro file: %w", err)
	}
	logger.Debug("read chordpro file", "path", path, "bytes", len(data))
	return string(data), nil
}

// DefaultDir is where browsers save SongSelect downloads.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

// LatestFile returns the most recently modified file in dir with one of
// exts, or DefaultExts when none are given.
func LatestFile(dir string, exts ...string) (string, error) {
	latest, err := newestFile(dir, exts, func(string) bool { return true })
	if err != nil {
		return "", err
	}
	if latest == "" {
		return "", fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}
	return latest, nil
}

// FindFile returns the newest file in dir whose name carries title and,
// when given, artist. Names are compared case-insensitively.
func FindFile(dir, title, artist string, exts ...string) (string, error) {
	found, err := newestFile(dir, exts, func(name string) bool {
		t, a := TitleArtistFromFilename(name)
		return strings.EqualFold(t, title) && (artist == "" || strings.EqualFold(a, artist))
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("%w for %q in %s", ErrNoFiles, title, dir)
	}
	return found, nil
}

func newestFile(dir string, exts []string, match func(name string) bool) (string, error) {
	if len(exts) == 0 {
		exts = DefaultExts
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !hasExt(entry.Name(), exts) || !match(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(dir, entry.Name())
			newestMod = info.ModTime()
		}
	}
	return newest, nil
}

func hasExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, want := range exts {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// TitleArtistFromFilename splits "<title>-chordpro-<artist>.<ext>". Names
// without the marker give the whole base name as title.
func TitleArtistFromFilename(path string) (title, artist string) {
	base := filepath.Base(path)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if t, a, ok := strings.Cut(base, "-chordpro-"); ok {
		return strings.TrimSpace(t), strings.TrimSpace(a)
	}
	return strings.TrimSpace(base), ""
}

// URLSource downloads ChordPro text over HTTP. HTML pages are reduced to the
// text of their first <pre> block.
type URLSource struct {
	client *Client
}

func NewURLSource(client *Client) *URLSource {
	if client == nil {
		client = NewClient()
	}
	return &URLSource{client: client}
}

func (s *URLSource) Fetch(ctx context.Context, q Query) (string, error) {
	if q.URL == "" {
		return "", fmt.Errorf("no URL given for %q", q.Title)
	}

	page, err := s.client.FetchPage(ctx, q.URL)
	if err != nil {
		return "", err
	}

	if !isHTML(page) {
		return page.Body, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find("pre").First()
	if selection.Length() == 0 {
		logger.Error("chordpro block not found", "url", q.URL)
		return "", fmt.Errorf("target element not found")
	}

	logger.Debug("extracted chordpro block", "url", q.URL)
	return selection.Text(), nil
}

func isHTML(page *Page) bool {
	if strings.Contains(page.ContentType, "html") {
		return true
	}
	return strings.HasPrefix(strings.TrimSpace(page.Body), "<")
}
