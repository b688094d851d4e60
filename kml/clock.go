// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

package kml

import "github.com/jonboulle/clockwork"

// clock names documents built without metadata. Tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()

		return
	}

	clock = c
}
