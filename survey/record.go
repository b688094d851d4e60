// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

// Package survey models the readings of a radiation survey track and turns
// them into normalized, color-coded records.
package survey

// Reading is the measurement embedded in a placemark description.
type Reading struct {
	Timestamp string  `json:"timestamp"`
	DoseRate  float64 `json:"dose_rate"`  // µSv/h
	CountRate float64 `json:"count_rate"` // counts per second
	Accuracy  int     `json:"accuracy"`   // meters
}

// Record is one survey point as read from the source document.
type Record struct {
	ID          string `json:"id,omitempty"` // empty when the placemark has no id
	StyleURL    string `json:"style_url,omitempty"`
	Coordinates string `json:"coordinates"` // lon,lat[,alt] as found in the source
	Description string `json:"-"`

	// Derived by Process.
	Reading    *Reading `json:"reading,omitempty"` // nil when Description does not match
	Normalized float64  `json:"normalized"`
	Color      string   `json:"color,omitempty"` // AABBGGRR
}

// Metadata is the document level title and description.
type Metadata struct {
	Name        string
	Description string
}
