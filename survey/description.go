// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

package survey

import (
	"regexp"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// lineBreak accepts the exporter's `</br>` as well as the `<br>` spellings.
const lineBreak = `\s*<\s*/?\s*(?i:br)\s*/?\s*>\s*`

// The exporter writes descriptions such as
//
//	<b>2024-01-01 12:00:00</b></br>0.15 µSv/h</br>25.3 cps</br>Accuracy: ±5 m</br>
//
// which is not well formed markup, so it is matched as text. Input is NFKC
// normalized first, which folds the micro sign (U+00B5) into Greek mu (U+03BC).
var descriptionRegex = regexp.MustCompile(
	`(?i:<b>)(.*?)(?i:</b>)` + lineBreak +
		`([\d.]+) \x{03BC}Sv/h` + lineBreak +
		`([\d.]+) cps` + lineBreak +
		`Accuracy: \x{00B1}(\d+) m` + lineBreak,
)

// ParseDescription extracts the reading embedded in a placemark description.
// It returns nil when the text does not have the expected structure.
func ParseDescription(text string) *Reading {
	m := descriptionRegex.FindStringSubmatch(norm.NFKC.String(text))
	if m == nil {
		return nil
	}

	dose, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}

	cps, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return nil
	}

	accuracy, err := strconv.Atoi(m[4])
	if err != nil {
		return nil
	}

	return &Reading{
		Timestamp: m[1],
		DoseRate:  dose,
		CountRate: cps,
		Accuracy:  accuracy,
	}
}
