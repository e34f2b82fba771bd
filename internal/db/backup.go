package db

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sukalov/openlp-chords/internal/logger"
	"github.com/ulikunitz/xz"
)

// BackupName is the file name of a backup taken at t.
func BackupName(t time.Time) string {
	return fmt.Sprintf("openlp_backup_%s.db.xz", t.Format("2006-01-02T15-04-05"))
}

// Backup writes an xz-compressed copy of the database file at src into dir
// and returns the backup path.
func Backup(src, dir string, now time.Time) (path string, err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open database for backup: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	dst := filepath.Join(dir, BackupName(now))
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	// drop partial archives
	defer func() {
		if err != nil {
			os.Remove(dst)
		}
	}()
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			path, err = "", fmt.Errorf("failed to close backup: %w", cerr)
		}
	}()

	w, err := xz.NewWriter(out)
	if err != nil {
		return "", fmt.Errorf("failed to create xz writer: %w", err)
	}
	size, err := io.Copy(w, in)
	if err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish backup: %w", err)
	}

	logger.Info("backup created", "path", dst, "size", humanize.Bytes(uint64(size)))
	return dst, nil
}

// Restore decompresses a backup made by Backup into dst.
func Restore(backup, dst string) error {
	in, err := os.Open(backup)
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer in.Close()

	r, err := xz.NewReader(in)
	if err != nil {
		return fmt.Errorf("failed to read xz stream: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	return out.Close()
}
