package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestLatestFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeFile(t, dir, "old.cho", "old", now.Add(-2*time.Hour))
	newest := writeFile(t, dir, "new.CHO", "new", now.Add(-time.Hour))
	writeFile(t, dir, "notes.md", "md", now)

	got, err := LatestFile(dir, ".cho")
	require.NoError(t, err)
	assert.Equal(t, newest, got)
}

func TestLatestFileDefaultExts(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeFile(t, dir, "a.cho", "cho", now.Add(-3*time.Hour))
	writeFile(t, dir, "b.chordpro", "chordpro", now.Add(-2*time.Hour))
	txt := writeFile(t, dir, "Holy-chordpro-Jane Writer.txt", "txt", now.Add(-time.Hour))
	writeFile(t, dir, "song.pdf", "pdf", now)

	got, err := LatestFile(dir)
	require.NoError(t, err)
	assert.Equal(t, txt, got)

	got, err = LatestFile(dir, ".cho", ".chordpro")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.chordpro"), got)

	got, err = FindFile(dir, "holy", "jane writer")
	require.NoError(t, err)
	assert.Equal(t, txt, got)
}

func TestDefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, "Downloads"), DefaultDir())
}

func TestLatestFileEmptyDir(t *testing.T) {
	_, err := LatestFile(t.TempDir())
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestFileSourceFetch(t *testing.T) {
	dir := t.TempDir()
	explicit := writeFile(t, dir, "explicit.cho", "explicit", time.Now().Add(-time.Hour))
	writeFile(t, dir, "latest.cho", "latest", time.Now())

	src := &FileSource{Dir: dir}

	text, err := src.Fetch(context.Background(), Query{Path: explicit})
	require.NoError(t, err)
	assert.Equal(t, "explicit", text)

	text, err = src.Fetch(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, "latest", text)
}

func TestFileSourceFetchByTitle(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeFile(t, dir, "Holy-chordpro-Jane Writer.cho", "jane", now.Add(-time.Hour))
	writeFile(t, dir, "Holy-chordpro-John Composer.cho", "john", now.Add(-2*time.Hour))
	writeFile(t, dir, "Other.cho", "other", now)

	src := &FileSource{Dir: dir}
	ctx := context.Background()

	text, err := src.Fetch(ctx, Query{Title: "holy", Artist: "john composer"})
	require.NoError(t, err)
	assert.Equal(t, "john", text)

	text, err = src.Fetch(ctx, Query{Title: "Holy"})
	require.NoError(t, err)
	assert.Equal(t, "jane", text)

	_, err = src.Fetch(ctx, Query{Title: "Holy", Artist: "Nobody"})
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestTitleArtistFromFilename(t *testing.T) {
	tests := []struct {
		path   string
		title  string
		artist string
	}{
		{"/tmp/Amazing Grace-chordpro-Chris Tomlin.cho", "Amazing Grace", "Chris Tomlin"},
		{"How Great Thou Art.cho", "How Great Thou Art", ""},
		{"Blessed-Be.cho", "Blessed-Be", ""},
		{"noext", "noext", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			title, artist := TitleArtistFromFilename(tt.path)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.artist, artist)
		})
	}
}

func TestURLSourcePlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("{comment: Verse 1}\n[G]Hello"))
	}))
	defer srv.Close()

	text, err := NewURLSource(nil).Fetch(context.Background(), Query{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "{comment: Verse 1}\n[G]Hello", text)
}

func TestURLSourceHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><h1>Song</h1><pre>{comment: Chorus}\n[D]Sing &amp; shout</pre><pre>other</pre></body></html>"))
	}))
	defer srv.Close()

	text, err := NewURLSource(nil).Fetch(context.Background(), Query{URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "{comment: Chorus}\n[D]Sing & shout", text)
}

func TestURLSourceHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewURLSource(nil).Fetch(context.Background(), Query{URL: srv.URL})
	assert.ErrorContains(t, err, "403")
}

type staticSource string

func (s staticSource) Fetch(ctx context.Context, q Query) (string, error) {
	return string(s), nil
}

func TestServiceDispatch(t *testing.T) {
	svc := NewServiceWith(staticSource("from file"), staticSource("from web"))

	res, err := svc.Fetch(context.Background(), Query{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, "from file", res.Text)
	assert.Equal(t, "file", res.Source)

	res, err = svc.Fetch(context.Background(), Query{URL: "http://example.invalid"})
	require.NoError(t, err)
	assert.Equal(t, "url", res.Source)

	_, err = NewServiceWith(staticSource("  \n"), nil).Fetch(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrEmpty)
}
