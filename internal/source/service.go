package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sukalov/openlp-chords/internal/logger"
)

// Result is ChordPro text together with where it came from
type Result struct {
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Service picks a source for each query
type Service struct {
	files Source
	web   Source
}

// NewService creates a service reading files from dir and URLs over HTTP
func NewService(dir string) *Service {
	return &Service{
		files: &FileSource{Dir: dir},
		web:   NewURLSource(nil),
	}
}

// NewServiceWith creates a service with explicit sources
func NewServiceWith(files, web Source) *Service {
	return &Service{files: files, web: web}
}

// Fetch returns the ChordPro text for q. Queries with a URL go to the web
// source, everything else to the file source.
func (s *Service) Fetch(ctx context.Context, q Query) (*Result, error) {
	name, src := "file", s.files
	if q.URL != "" {
		name, src = "url", s.web
	}
	if src == nil {
		return nil, fmt.Errorf("no %s source configured", name)
	}

	logger.Debug("fetching chordpro", "source", name, "title", q.Title, "artist", q.Artist)

	text, err := src.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}

	return &Result{Text: text, Source: name, FetchedAt: time.Now()}, nil
}
