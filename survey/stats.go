// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

package survey

import (
	"cmp"
	"slices"

	"github.com/radiakml/radiakml/spatial"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const maxH3Resolution = 15

// SummaryOptions controls hot spot aggregation.
type SummaryOptions struct {
	Resolution int // H3 resolution, 0..15
	Top        int // number of hot spots kept, all when <= 0
}

// HotSpot aggregates the readings falling into one H3 cell.
type HotSpot struct {
	Cell     string  `json:"cell"`
	Points   int     `json:"points"`
	MeanDose float64 `json:"mean_dose"`
	MaxDose  float64 `json:"max_dose"`
}

// Summary describes a survey track.
type Summary struct {
	Points        int       `json:"points"`
	Parsed        int       `json:"parsed"`
	DoseMin       float64   `json:"dose_min"`
	DoseMax       float64   `json:"dose_max"`
	DoseMean      float64   `json:"dose_mean"`
	DoseStdDev    float64   `json:"dose_stddev"`
	DoseMedian    float64   `json:"dose_median"`
	DoseP95       float64   `json:"dose_p95"`
	CountRateMean float64   `json:"count_rate_mean"`
	TrackLength   float64   `json:"track_length_m"`
	HotSpots      []HotSpot `json:"hot_spots"`
}

// Unparsed is the number of points whose description had no reading.
func (s *Summary) Unparsed() int {
	return s.Points - s.Parsed
}

type cellAccumulator struct {
	points int
	sum    float64
	max    float64
}

// Summarize computes dose statistics, the track length and the hottest H3
// cells of records. Unlike Process it tolerates records without a reading.
func Summarize(records []*Record, opts SummaryOptions) (*Summary, error) {
	if opts.Resolution < 0 || opts.Resolution > maxH3Resolution {
		return nil, ConfigError(nil, "h3 resolution must be between 0 and %d (got %d)", maxH3Resolution, opts.Resolution)
	}

	ret := &Summary{Points: len(records)}

	var (
		doses, counts []float64
		prev          *spatial.Point
	)

	cells := make(map[string]*cellAccumulator)

	for i, r := range records {
		p, err := spatial.ParseCoordinates(r.Coordinates)
		if err != nil {
			return nil, StructureError(err, "placemark %d (id %q)", i, r.ID)
		}

		if prev != nil {
			ret.TrackLength += prev.HaversineDistance(&p)
		}

		prev = &p

		reading := r.Reading
		if reading == nil {
			reading = ParseDescription(r.Description)
		}

		if reading == nil {
			continue
		}

		doses = append(doses, reading.DoseRate)
		counts = append(counts, reading.CountRate)

		cell, err := p.Cell(opts.Resolution)
		if err != nil {
			return nil, StructureError(err, "placemark %d (id %q)", i, r.ID)
		}

		acc, ok := cells[cell.String()]
		if !ok {
			acc = &cellAccumulator{max: reading.DoseRate}
			cells[cell.String()] = acc
		}

		acc.points++
		acc.sum += reading.DoseRate
		acc.max = max(acc.max, reading.DoseRate)
	}

	ret.Parsed = len(doses)
	if ret.Parsed == 0 {
		return ret, nil
	}

	ret.DoseMin = floats.Min(doses)
	ret.DoseMax = floats.Max(doses)
	ret.DoseMean = stat.Mean(doses, nil)
	ret.CountRateMean = stat.Mean(counts, nil)

	if len(doses) > 1 {
		ret.DoseStdDev = stat.StdDev(doses, nil)
	}

	sorted := slices.Clone(doses)
	slices.Sort(sorted)
	ret.DoseMedian = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	ret.DoseP95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)

	for cell, acc := range cells {
		ret.HotSpots = append(ret.HotSpots, HotSpot{
			Cell:     cell,
			Points:   acc.points,
			MeanDose: acc.sum / float64(acc.points),
			MaxDose:  acc.max,
		})
	}

	slices.SortFunc(ret.HotSpots, func(a, b HotSpot) int {
		if c := cmp.Compare(b.MeanDose, a.MeanDose); c != 0 {
			return c
		}

		return cmp.Compare(a.Cell, b.Cell)
	})

	if opts.Top > 0 && len(ret.HotSpots) > opts.Top {
		ret.HotSpots = ret.HotSpots[:opts.Top]
	}

	return ret, nil
}
