// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

package colormap

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexColor = regexp.MustCompile(`^[0-9A-F]{8}$`)

func TestHex(t *testing.T) {
	rainbow, err := Lookup("rainbow")
	require.NoError(t, err)

	tests := []struct {
		name  string
		x     float64
		alpha float64
		want  string
	}{
		{"bottom of the range", 0, 0.8, "CCFF0080"},
		{"middle of the range", 0.5, 0.8, "CCB4FF80"},
		{"top of the range", 1, 0.8, "CC0000FF"},
		{"dose 0.15 between 0.05 and 0.5", (0.15 - 0.05) / (0.5 - 0.05), 0.8, "CCF0A40E"},
		{"opaque", 0, 1, "FFFF0080"},
		{"transparent", 0, 0, "00FF0080"},
		{"below range clamps", -3, 0.8, "CCFF0080"},
		{"above range clamps", 7, 0.8, "CC0000FF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hex(rainbow, tt.x, tt.alpha)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, hexColor, got)
		})
	}
}

func TestHexIsDeterministic(t *testing.T) {
	for _, name := range Names() {
		g, err := Lookup(name)
		require.NoError(t, err)

		for i := 0; i <= 20; i++ {
			x := float64(i) / 20
			first := Hex(g, x, 0.8)
			assert.Equal(t, first, Hex(g, x, 0.8), "%s(%v)", name, x)
			assert.Regexp(t, hexColor, first, "%s(%v)", name, x)
		}
	}
}

func TestReversedGradients(t *testing.T) {
	for _, name := range []string{"rainbow", "jet", "viridis", "hot", "bwr"} {
		t.Run(name, func(t *testing.T) {
			g, err := Lookup(name)
			require.NoError(t, err)

			r, err := Lookup(name + "_r")
			require.NoError(t, err)

			for _, x := range []float64{0, 0.1, 0.25, 0.5, 0.9, 1} {
				assert.Equal(t, Hex(g, x, 1), Hex(r, 1-x, 1), "x=%v", x)
			}
		})
	}
}

func TestGradientsStayInUnitCube(t *testing.T) {
	for _, name := range Names() {
		// rainbow's red channel exceeds 1 near the top; Hex clamps it.
		if name == "rainbow" || name == "rainbow_r" {
			continue
		}

		g, err := Lookup(name)
		require.NoError(t, err)

		for i := 0; i <= 100; i++ {
			r, gr, b := g(float64(i) / 100)
			for _, c := range []float64{r, gr, b} {
				assert.GreaterOrEqual(t, c, 0.0, name)
				assert.LessOrEqual(t, c, 1.0, name)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	_, err := Lookup(DefaultGradient)
	require.NoError(t, err)

	_, err = Lookup("grey")
	require.NoError(t, err)

	_, err = Lookup("no-such-gradient")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownGradient))
	assert.Contains(t, err.Error(), "no-such-gradient")
}

func TestNames(t *testing.T) {
	names := Names()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "rainbow")
	assert.Contains(t, names, "rainbow_r")
	assert.Contains(t, names, "viridis")
}
