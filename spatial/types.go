// Copyright 2025 The RadiaKML Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/uber/h3-go/v4"
)

const earthRadius = 6371e3 // meters

// ErrInvalidCoordinates is returned when a coordinate tuple cannot be parsed.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ParseCoordinates reads a KML `lon,lat[,alt]` tuple. Blanks around the
// fields are allowed. Altitude and any further fields are ignored, as are
// tuples after the first one.
func ParseCoordinates(s string) (Point, error) {
	if strings.TrimSpace(s) == "" {
		return Point{}, fmt.Errorf("%w: empty", ErrInvalidCoordinates)
	}

	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return Point{}, fmt.Errorf("%w: %q has no latitude", ErrInvalidCoordinates, s)
	}

	lng, err := parseDegrees(parts[0])
	if err != nil {
		return Point{}, fmt.Errorf("%w: longitude %q: %w", ErrInvalidCoordinates, parts[0], err)
	}

	// Without an altitude the latitude field runs into the next tuple.
	latField := parts[1]
	if fields := strings.Fields(latField); len(fields) > 0 {
		latField = fields[0]
	}

	lat, err := parseDegrees(latField)
	if err != nil {
		return Point{}, fmt.Errorf("%w: latitude %q: %w", ErrInvalidCoordinates, parts[1], err)
	}

	return Point{Lat: lat, Lng: lng}, nil
}

func parseDegrees(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not finite")
	}

	return v, nil
}

// KML renders the point as a ground level `lon,lat,0` tuple.
func (p Point) KML() string {
	return formatDegrees(p.Lng) + "," + formatDegrees(p.Lat) + ",0"
}

// formatDegrees uses the shortest representation that round trips, keeping a
// trailing ".0" on integral values (45 is written 45.0).
func formatDegrees(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// HaversineDistance calculates the distance between two points on Earth in meters.
func (p *Point) HaversineDistance(other *Point) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - p.Lat) * math.Pi / 180
	dLng := (other.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Cell returns the H3 cell containing the point at the given resolution.
func (p Point) Cell(res int) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
	if err != nil {
		return 0, fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
	}

	return cell, nil
}
