// Command chordpro-parser parses a ChordPro file and prints its sections as
// JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sukalov/openlp-chords/internal/chordpro"
	"github.com/sukalov/openlp-chords/internal/logger"
)

var CLI struct {
	File   string `arg:"" help:"ChordPro file" type:"existingfile"`
	Mode   string `help:"Parse mode: sections (display labels) or verses (OpenLP tags)" enum:"sections,verses" default:"verses"`
	Output string `short:"o" help:"Write JSON here instead of stdout" type:"path"`
	Strict bool   `help:"Fail on duplicate or malformed section headers"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("chordpro-parser"),
		kong.Description("Parse a ChordPro file into sections."),
		kong.UsageOnError(),
	)
	err := run()
	logger.Flush(5 * time.Second)
	kctx.FatalIfErrorf(err)
}

func run() error {
	text, err := os.ReadFile(CLI.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", CLI.File, err)
	}

	var result any
	switch CLI.Mode {
	case "sections":
		sections := chordpro.ParseSections(string(text))
		logger.Info("parsed sections", "file", CLI.File, "sections", len(sections.Order), "lines", sections.LineCount())
		result = sections
	default:
		verses, err := chordpro.ParseVersesWithOptions(string(text), chordpro.Options{Strict: CLI.Strict})
		if err != nil {
			return err
		}
		logger.Info("parsed verses", "file", CLI.File, "tags", len(verses))
		result = verses
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if CLI.Output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(CLI.Output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", CLI.Output, err)
	}
	logger.Success("saved", "output", CLI.Output)
	return nil
}
