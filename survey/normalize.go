// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

package survey

import (
	"errors"
	"math"

	"github.com/radiakml/radiakml/colormap"
)

// Defaults applied by the command line.
const (
	DefaultMin   = 0.05
	DefaultMax   = 0.5
	DefaultAlpha = 0.8
)

// ErrMissingReading marks a record whose description could not be parsed.
var ErrMissingReading = errors.New("missing reading")

// Range is the dose rate interval, in µSv/h, mapped onto [0,1].
type Range struct {
	Min float64
	Max float64
}

// Validate rejects ranges that cannot be normalized against.
func (r Range) Validate() error {
	for _, v := range []float64{r.Min, r.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ConfigError(nil, "range bounds must be finite (min %v, max %v)", r.Min, r.Max)
		}
	}

	if r.Min == r.Max {
		return ConfigError(nil, "min and max must differ (both are %v)", r.Min)
	}

	if r.Min > r.Max {
		return ConfigError(nil, "min %v is greater than max %v", r.Min, r.Max)
	}

	return nil
}

// Normalize maps v onto [0,1]. Values outside the range are clamped.
func (r Range) Normalize(v float64) float64 {
	return min(max((v-r.Min)/(r.Max-r.Min), 0), 1)
}

// Options controls normalization and coloring.
type Options struct {
	Range    Range
	Gradient string
	Alpha    float64
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Range:    Range{Min: DefaultMin, Max: DefaultMax},
		Gradient: colormap.DefaultGradient,
		Alpha:    DefaultAlpha,
	}
}

// Validate checks every option without touching any record.
func (o Options) Validate() error {
	_, err := NewColorizer(o)

	return err
}

// Colorizer normalizes and colors records under a fixed set of options.
type Colorizer struct {
	rng      Range
	gradient colormap.Gradient
	alpha    float64
}

// NewColorizer validates opts and resolves the gradient.
func NewColorizer(opts Options) (*Colorizer, error) {
	if err := opts.Range.Validate(); err != nil {
		return nil, err
	}

	if math.IsNaN(opts.Alpha) || opts.Alpha < 0 || opts.Alpha > 1 {
		return nil, ConfigError(nil, "alpha must be between 0 and 1 (got %v)", opts.Alpha)
	}

	g, err := colormap.Lookup(opts.Gradient)
	if err != nil {
		return nil, ConfigError(err, "invalid gradient")
	}

	return &Colorizer{rng: opts.Range, gradient: g, alpha: opts.Alpha}, nil
}

// Apply extracts the reading of r and fills in its normalized value and
// color. index is the position of r in the document, used in errors.
func (c *Colorizer) Apply(index int, r *Record) error {
	if r.Reading == nil {
		r.Reading = ParseDescription(r.Description)
	}

	if r.Reading == nil {
		return DataError(ErrMissingReading, "placemark %d (id %q): description has no dose rate", index, r.ID)
	}

	r.Normalized = c.rng.Normalize(r.Reading.DoseRate)
	r.Color = colormap.Hex(c.gradient, r.Normalized, c.alpha)

	return nil
}

// Process applies opts to every record. The first record without a reading
// aborts the whole batch.
func Process(records []*Record, opts Options) error {
	c, err := NewColorizer(opts)
	if err != nil {
		return err
	}

	for i, r := range records {
		if err := c.Apply(i, r); err != nil {
			return err
		}
	}

	return nil
}
