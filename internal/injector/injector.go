package injector

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sukalov/openlp-chords/internal/chordpro"
	"github.com/sukalov/openlp-chords/internal/db"
	"github.com/sukalov/openlp-chords/internal/logger"
	"github.com/sukalov/openlp-chords/internal/lyrics"
	"github.com/sukalov/openlp-chords/internal/source"
	"github.com/sukalov/openlp-chords/internal/utils/e"
	"github.com/zeebo/blake3"
)

// SongStore looks songs up and persists rewritten lyrics.
type SongStore interface {
	FindBestMatch(ctx context.Context, title, author string) (db.Song, error)
	UpdateLyrics(ctx context.Context, songID int64, lyrics string) error
	ListSongs(ctx context.Context) ([]db.SongRef, error)
}

// Fetcher supplies ChordPro text.
type Fetcher interface {
	Fetch(ctx context.Context, q source.Query) (*source.Result, error)
}

// Progress remembers which ChordPro text was already injected into a song.
type Progress interface {
	Done(ctx context.Context, songID int64, fingerprint string) (bool, error)
	MarkDone(ctx context.Context, songID int64, fingerprint string) error
}

type Options struct {
	DryRun bool
	Strict bool
	// DBPath is the local database file to back up before a batch run.
	// Remote databases leave it empty and are not backed up.
	DBPath    string
	BackupDir string
	// Preview receives the rewritten lyrics in dry-run mode.
	Preview io.Writer
	Now     func() time.Time
}

// Injector merges ChordPro chords into stored OpenLP songs.
type Injector struct {
	store    SongStore
	fetcher  Fetcher
	progress Progress
	opts     Options
}

// SongRequest names one song. Text skips fetching when set.
type SongRequest struct {
	Title  string
	Author string
	Path   string
	URL    string
	Text   string
}

// Outcome describes what happened to one song.
type Outcome struct {
	SongID  int64
	Title   string
	Merge   *lyrics.MergeResult
	Lyrics  string
	Updated bool
	// Skipped is set when the same ChordPro text was injected before.
	Skipped bool
}

// Summary totals a batch run.
type Summary struct {
	RunID     string
	Processed int
	Updated   int
	Skipped   int
	Failed    int
	Backup    string
}

// New creates an injector. progress may be nil.
func New(store SongStore, fetcher Fetcher, progress Progress, opts Options) *Injector {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Preview == nil {
		opts.Preview = io.Discard
	}
	return &Injector{store: store, fetcher: fetcher, progress: progress, opts: opts}
}

// Fingerprint identifies ChordPro text in the progress store.
func Fingerprint(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ProcessSong fetches (unless given) and parses ChordPro text, finds the
// song and rewrites its verses. In dry-run mode the result is written to
// the preview writer instead of the database.
func (in *Injector) ProcessSong(ctx context.Context, req SongRequest) (*Outcome, error) {
	text := req.Text
	if text == "" {
		res, err := in.fetcher.Fetch(ctx, source.Query{Title: req.Title, Artist: req.Author, Path: req.Path, URL: req.URL})
		if err != nil {
			return nil, e.Wrap(fmt.Sprintf("failed to get chordpro for %q", req.Title), err)
		}
		text = res.Text
	}

	verses, err := chordpro.ParseVersesWithOptions(text, chordpro.Options{Strict: in.opts.Strict})
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed chordpro", "title", req.Title, "sections", len(verses))

	song, err := in.store.FindBestMatch(ctx, req.Title, req.Author)
	if err != nil {
		return nil, err
	}

	out := &Outcome{SongID: song.ID, Title: song.Title}
	fingerprint := Fingerprint(text)

	if in.progress != nil && !in.opts.DryRun {
		done, err := in.progress.Done(ctx, song.ID, fingerprint)
		if err != nil {
			logger.Warn("progress lookup failed", "song_id", song.ID, "error", err)
		} else if done {
			logger.Info("chords already injected, skipping", "title", song.Title, "song_id", song.ID)
			out.Skipped = true
			return out, nil
		}
	}

	updated, merge, err := lyrics.InjectChords(song.Lyrics, verses)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("failed to merge chords into %q", song.Title), err)
	}
	out.Merge = merge
	out.Lyrics = updated

	for _, tag := range merge.Skipped {
		logger.Info("no matching chordpro section", "title", song.Title, "tag", tag)
	}

	if in.opts.DryRun {
		logger.Info("dry run", "title", song.Title, "author", req.Author)
		fmt.Fprintf(in.opts.Preview, "\n--- Injected Lyrics ---\n\n%s\n\n------------------------\n\n", updated)
		return out, nil
	}

	if updated != song.Lyrics {
		if err := in.store.UpdateLyrics(ctx, song.ID, updated); err != nil {
			return nil, err
		}
		out.Updated = true
		logger.Success("injected chords", "title", song.Title, "song_id", song.ID)
	} else {
		logger.Info("lyrics unchanged", "title", song.Title, "song_id", song.ID)
	}

	if in.progress != nil {
		if err := in.progress.MarkDone(ctx, song.ID, fingerprint); err != nil {
			logger.Warn("failed to record progress", "song_id", song.ID, "error", err)
		}
	}

	return out, nil
}

// ProcessAll runs ProcessSong for every stored song. The database is backed
// up first unless this is a dry run. A fetch that fails with an author is
// retried with the title alone; songs that still fail are counted and
// skipped.
func (in *Injector) ProcessAll(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}

	if !in.opts.DryRun && in.opts.DBPath != "" {
		backup, err := db.Backup(in.opts.DBPath, in.opts.BackupDir, in.opts.Now())
		if err != nil {
			return nil, err
		}
		summary.Backup = backup
	}

	songs, err := in.store.ListSongs(ctx)
	if err != nil {
		return nil, err
	}

	for _, ref := range songs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		logger.Info("processing song", "run_id", summary.RunID, "title", ref.Title, "author", ref.Author)
		summary.Processed++

		res, err := in.fetch(ctx, ref)
		if err != nil {
			logger.Info("skipping song, no chordpro found", "title", ref.Title, "error", err)
			summary.Failed++
			continue
		}

		out, err := in.ProcessSong(ctx, SongRequest{Title: ref.Title, Author: ref.Author, Text: res.Text})
		if err != nil {
			logger.Error("failed to inject chords", "title", ref.Title, "error", err)
			summary.Failed++
			continue
		}

		switch {
		case out.Skipped:
			summary.Skipped++
		case out.Updated:
			summary.Updated++
		}
	}

	logger.Info("batch finished", "run_id", summary.RunID, "processed", summary.Processed,
		"updated", summary.Updated, "skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

func (in *Injector) fetch(ctx context.Context, ref db.SongRef) (*source.Result, error) {
	res, err := in.fetcher.Fetch(ctx, source.Query{Title: ref.Title, Artist: ref.Author})
	if err == nil || ref.Author == "" || errors.Is(err, context.Canceled) {
		return res, err
	}

	logger.Debug("retrying fetch without artist", "title", ref.Title)
	return in.fetcher.Fetch(ctx, source.Query{Title: ref.Title})
}
