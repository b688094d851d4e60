// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

// Package convert runs one KML/KMZ to color-coded KML conversion.
package convert

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/radiakml/radiakml/kml"
	"github.com/radiakml/radiakml/survey"
	"github.com/schollz/progressbar/v3"
)

const processedSuffix = "_processed"

// Options describes a conversion run.
type Options struct {
	Input    string
	Output   string // derived from Input when empty
	Survey   survey.Options
	Progress bool // show a progress bar when stderr is a terminal
}

// Result describes a completed run.
type Result struct {
	Output     string
	Placemarks int
}

// OutputPath resolves where a run writes. An explicit output without an
// extension gets ".kml"; no output means <dir>/<stem>_processed.kml next to
// the input.
func OutputPath(input, output string) string {
	if output != "" {
		if filepath.Ext(output) == "" {
			return output + kml.ExtKML
		}

		return output
	}

	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	return filepath.Join(filepath.Dir(input), stem+processedSuffix+kml.ExtKML)
}

// Run validates the options, reads the input, colors every placemark and
// writes the result. Nothing is written unless every step succeeds.
func Run(opts Options) (*Result, error) {
	colorizer, err := survey.NewColorizer(opts.Survey)
	if err != nil {
		return nil, err
	}

	if !kml.IsSupported(opts.Input) {
		return nil, survey.ConfigError(nil, "file must be .kml or .kmz format")
	}

	src, err := kml.ReadFile(opts.Input)
	if err != nil {
		return nil, err
	}

	meta, err := src.Metadata()
	if err != nil {
		return nil, err
	}

	records, err := src.Placemarks()
	if err != nil {
		return nil, err
	}

	log.Printf("Read %d placemarks from %s", len(records), opts.Input)

	var bar *progressbar.ProgressBar
	if opts.Progress && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(records),
			progressbar.OptionSetDescription("Coloring "+filepath.Base(opts.Input)),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	for i, r := range records {
		if err := colorizer.Apply(i, r); err != nil {
			return nil, err
		}

		if bar != nil {
			if err := bar.Add(1); err != nil {
				return nil, fmt.Errorf("updating progress bar: %w", err)
			}
		}
	}

	data, err := kml.Marshal(records, meta)
	if err != nil {
		return nil, err
	}

	out := OutputPath(opts.Input, opts.Output)
	if err := writeFile(out, data); err != nil {
		return nil, err
	}

	log.Printf("Wrote %d placemarks to %s", len(records), out)

	return &Result{Output: out, Placemarks: len(records)}, nil
}

// writeFile writes data to a temporary file next to path and renames it into
// place, so readers never observe a partial document.
func writeFile(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".radiakml-*.kml")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, removeIfExists(tmp.Name()))
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Join(fmt.Errorf("writing output file: %w", err), tmp.Close())
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting output permissions: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing temporary file: %w", err)
	}

	return nil
}
