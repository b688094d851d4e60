// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

// Package colormap maps normalized values in [0,1] onto named color gradients
// and renders them in the icon color notation used by KML consumers.
package colormap

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// DefaultGradient is the gradient used when none is requested.
const DefaultGradient = "rainbow"

// reversedSuffix selects the mirror image of a registered gradient.
const reversedSuffix = "_r"

// ErrUnknownGradient is returned by Lookup for names outside the registry.
var ErrUnknownGradient = errors.New("unknown gradient")

// Gradient is a continuous mapping from [0,1] to RGB fractions in [0,1].
type Gradient func(x float64) (r, g, b float64)

// stop is a control point of a piecewise linear channel.
type stop struct {
	x, y float64
}

// channel interpolates linearly between stops, which must be sorted by x and
// cover [0,1].
func channel(stops ...stop) func(float64) float64 {
	return func(x float64) float64 {
		if x <= stops[0].x {
			return stops[0].y
		}

		for i := 1; i < len(stops); i++ {
			a, b := stops[i-1], stops[i]
			if x <= b.x {
				if b.x == a.x {
					return b.y
				}

				return a.y + (b.y-a.y)*(x-a.x)/(b.x-a.x)
			}
		}

		return stops[len(stops)-1].y
	}
}

func segmented(r, g, b func(float64) float64) Gradient {
	return func(x float64) (float64, float64, float64) {
		return r(x), g(x), b(x)
	}
}

func constant(v float64) func(float64) float64 {
	return func(float64) float64 { return v }
}

// rgbStops interpolates between RGB anchor colors placed at xs.
func rgbStops(xs []float64, colors [][3]float64) Gradient {
	r := make([]stop, len(xs))
	g := make([]stop, len(xs))
	b := make([]stop, len(xs))

	for i, x := range xs {
		r[i] = stop{x, colors[i][0]}
		g[i] = stop{x, colors[i][1]}
		b[i] = stop{x, colors[i][2]}
	}

	return segmented(channel(r...), channel(g...), channel(b...))
}

var registry = func() map[string]Gradient {
	base := map[string]Gradient{
		"rainbow": func(x float64) (float64, float64, float64) {
			return math.Abs(2*x - 0.5), math.Sin(math.Pi * x), math.Cos(math.Pi * x / 2)
		},
		"jet": segmented(
			channel(stop{0, 0}, stop{0.35, 0}, stop{0.66, 1}, stop{0.89, 1}, stop{1, 0.5}),
			channel(stop{0, 0}, stop{0.125, 0}, stop{0.375, 1}, stop{0.64, 1}, stop{0.91, 0}, stop{1, 0}),
			channel(stop{0, 0.5}, stop{0.11, 1}, stop{0.34, 1}, stop{0.65, 0}, stop{1, 0}),
		),
		// Five-anchor approximation of the perceptually uniform viridis map.
		"viridis": rgbStops(
			[]float64{0, 0.25, 0.5, 0.75, 1},
			[][3]float64{
				{0.267004, 0.004874, 0.329415},
				{0.229739, 0.322361, 0.545706},
				{0.127568, 0.566949, 0.550556},
				{0.369214, 0.788888, 0.382914},
				{0.993248, 0.906157, 0.143936},
			},
		),
		"hot": segmented(
			channel(stop{0, 0.0416}, stop{0.365079, 1}, stop{1, 1}),
			channel(stop{0, 0}, stop{0.365079, 0}, stop{0.746032, 1}, stop{1, 1}),
			channel(stop{0, 0}, stop{0.746032, 0}, stop{1, 1}),
		),
		"cool": segmented(
			channel(stop{0, 0}, stop{1, 1}),
			channel(stop{0, 1}, stop{1, 0}),
			constant(1),
		),
		"gray": segmented(
			channel(stop{0, 0}, stop{1, 1}),
			channel(stop{0, 0}, stop{1, 1}),
			channel(stop{0, 0}, stop{1, 1}),
		),
		"spring": segmented(
			constant(1),
			channel(stop{0, 0}, stop{1, 1}),
			channel(stop{0, 1}, stop{1, 0}),
		),
		"summer": segmented(
			channel(stop{0, 0}, stop{1, 1}),
			channel(stop{0, 0.5}, stop{1, 1}),
			constant(0.4),
		),
		"autumn": segmented(
			constant(1),
			channel(stop{0, 0}, stop{1, 1}),
			constant(0),
		),
		"winter": segmented(
			constant(0),
			channel(stop{0, 0}, stop{1, 1}),
			channel(stop{0, 1}, stop{1, 0.5}),
		),
		"bwr": rgbStops(
			[]float64{0, 0.5, 1},
			[][3]float64{{0, 0, 1}, {1, 1, 1}, {1, 0, 0}},
		),
	}
	base["grey"] = base["gray"]

	ret := make(map[string]Gradient, 2*len(base))
	for name, g := range base {
		ret[name] = g
		ret[name+reversedSuffix] = reverse(g)
	}

	return ret
}()

func reverse(g Gradient) Gradient {
	return func(x float64) (float64, float64, float64) {
		return g(1 - x)
	}
}

// Lookup returns the gradient registered under name.
func Lookup(name string) (Gradient, error) {
	g, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownGradient, name, strings.Join(baseNames(), ", "))
	}

	return g, nil
}

// Names returns every registered gradient name, reversed variants included.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}

func baseNames() []string {
	var ret []string

	for _, name := range Names() {
		if !strings.HasSuffix(name, reversedSuffix) {
			ret = append(ret, name)
		}
	}

	return ret
}

// Hex renders the color of x under g as eight uppercase hex digits in
// alpha, blue, green, red order, the icon color notation KML consumers expect.
func Hex(g Gradient, x, alpha float64) string {
	r, gr, b := g(clamp01(x))

	return fmt.Sprintf("%02X%02X%02X%02X", toByte(alpha), toByte(b), toByte(gr), toByte(r))
}

func toByte(f float64) uint8 {
	return uint8(math.Round(clamp01(f) * 255))
}

func clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
