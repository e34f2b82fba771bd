// Command inject-chords merges ChordPro chords into songs stored in an
// OpenLP database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sukalov/openlp-chords/internal/bot"
	"github.com/sukalov/openlp-chords/internal/config"
	"github.com/sukalov/openlp-chords/internal/db"
	"github.com/sukalov/openlp-chords/internal/injector"
	"github.com/sukalov/openlp-chords/internal/logger"
	"github.com/sukalov/openlp-chords/internal/redis"
	"github.com/sukalov/openlp-chords/internal/source"
)

var CLI struct {
	Config string `help:"YAML config file" type:"existingfile"`
	DB     string `name:"db" help:"OpenLP songs database (file path or libsql:// URL)"`

	File   string `help:"ChordPro file to inject (default: newest file in the chordpro dir)" type:"existingfile" xor:"input"`
	URL    string `name:"url" help:"URL serving ChordPro text" xor:"input"`
	Batch  bool   `help:"Process every song in the database" xor:"input"`
	Title  string `help:"Song title (default: taken from the file name)"`
	Artist string `help:"Song artist"`

	DryRun bool `help:"Print the rewritten lyrics instead of saving them"`
	Strict bool `help:"Fail on duplicate or malformed section headers"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("inject-chords"),
		kong.Description("Inject ChordPro chords into OpenLP song lyrics."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	// FatalIfErrorf exits without running defers.
	logger.Flush(5 * time.Second)
	kctx.FatalIfErrorf(err)
}

func run(ctx context.Context) error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if CLI.DB != "" {
		cfg.Database.URL = CLI.DB
	}
	if CLI.Strict {
		cfg.ChordPro.Strict = true
	}

	logger.Configure(os.Stderr, cfg.Log.Level, logger.Format(cfg.Log.Format))
	if cfg.Log.BotToken != "" {
		logBot, err := bot.New("openlp-chords", cfg.Log.BotToken)
		if err != nil {
			return fmt.Errorf("failed to create log bot: %w", err)
		}
		if err := logger.Init(logBot); err != nil {
			return err
		}
	}

	store, err := db.Open(ctx, db.DSN(cfg.Database.URL, cfg.Database.AuthToken))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := injector.Options{
		DryRun:    CLI.DryRun,
		Strict:    cfg.ChordPro.Strict,
		BackupDir: cfg.Backup.Dir,
		Preview:   os.Stdout,
	}
	if path, ok := db.LocalPath(store.DSN()); ok {
		opts.DBPath = path
	}

	var progress injector.Progress
	if cfg.Redis.Addr != "" {
		tracker, err := redis.NewTracker(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			return err
		}
		defer tracker.Close()
		progress = tracker
	}

	in := injector.New(store, source.NewService(cfg.ChordPro.Dir), progress, opts)

	if CLI.Batch {
		summary, err := in.ProcessAll(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("processed %d songs: %d updated, %d skipped, %d failed\n",
			summary.Processed, summary.Updated, summary.Skipped, summary.Failed)
		return nil
	}

	req, err := songRequest(cfg.ChordPro.Dir)
	if err != nil {
		return err
	}

	out, err := in.ProcessSong(ctx, req)
	if err != nil {
		return err
	}

	switch {
	case out.Skipped:
		fmt.Printf("%q already has these chords\n", out.Title)
	case out.Updated:
		fmt.Printf("updated %q (id %d)\n", out.Title, out.SongID)
	case !CLI.DryRun:
		fmt.Printf("%q unchanged\n", out.Title)
	}
	return nil
}

// songRequest resolves the title and artist for a single-song run. Without
// --file or --url the newest ChordPro file in dir is used.
func songRequest(dir string) (injector.SongRequest, error) {
	req := injector.SongRequest{Title: CLI.Title, Author: CLI.Artist, URL: CLI.URL}
	if req.URL != "" {
		if req.Title == "" {
			return req, errors.New("--title is required with --url")
		}
		return req, nil
	}

	req.Path = CLI.File
	if req.Path == "" {
		latest, err := source.LatestFile(dir)
		if err != nil {
			return req, err
		}
		req.Path = latest
	}

	title, artist := source.TitleArtistFromFilename(req.Path)
	if req.Title == "" {
		req.Title = title
	}
	if req.Author == "" {
		req.Author = artist
	}
	return req, nil
}
