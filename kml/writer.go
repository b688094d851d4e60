// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

package kml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/radiakml/radiakml/spatial"
	"github.com/radiakml/radiakml/survey"
)

const (
	// Namespace is the KML 2.2 namespace of the generated document.
	Namespace = "http://www.opengis.net/kml/2.2"
	// IconHref is the icon every placemark is drawn with.
	IconHref = "https://maps.google.com/mapfiles/kml/pal2/icon18.png"
	// IconScale is the icon scale of every placemark.
	IconScale = "0.8"

	defaultNameLayout = "2006-01-02 15-04-05"
)

// Names of the ExtendedData entries, in output order.
const (
	DataTime     = "Time"
	DataDoseRate = "µSv/h"
	DataCPS      = "cps"
	DataAccuracy = "Accuracy (m)"
)

type dataField struct {
	name  string
	value string
}

// extendedData always yields the four fields; records without a reading get
// zero values.
func extendedData(r *survey.Record) []dataField {
	var reading survey.Reading
	if r.Reading != nil {
		reading = *r.Reading
	}

	return []dataField{
		{DataTime, reading.Timestamp},
		{DataDoseRate, strconv.FormatFloat(reading.DoseRate, 'f', 2, 64)},
		{DataCPS, strconv.FormatFloat(reading.CountRate, 'f', 1, 64)},
		{DataAccuracy, strconv.Itoa(reading.Accuracy)},
	}
}

// defaults fills in a blank name with the current time and a blank
// description with the point count.
func defaults(meta survey.Metadata, n int) survey.Metadata {
	if strings.TrimSpace(meta.Name) == "" {
		meta.Name = clock.Now().Format(defaultNameLayout)
	}

	if strings.TrimSpace(meta.Description) == "" {
		meta.Description = fmt.Sprintf("Points: %d/%d", n, n)
	}

	return meta
}

// Build creates the color-coded document: one styled placemark per record,
// in order.
func Build(records []*survey.Record, meta survey.Metadata) (*etree.Document, error) {
	meta = defaults(meta, len(records))

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("kml")
	root.CreateAttr("xmlns", Namespace)

	d := root.CreateElement("Document")
	d.CreateElement("name").SetText(meta.Name)
	d.CreateElement("description").SetText(meta.Description)

	for i, r := range records {
		p, err := spatial.ParseCoordinates(r.Coordinates)
		if err != nil {
			return nil, survey.StructureError(err, "placemark %d (id %q)", i, r.ID)
		}

		pm := d.CreateElement("Placemark")
		if r.ID != "" {
			pm.CreateAttr("id", r.ID)
		}

		icon := pm.CreateElement("Style").CreateElement("IconStyle")
		icon.CreateElement("color").SetText(r.Color)
		icon.CreateElement("scale").SetText(IconScale)
		icon.CreateElement("Icon").CreateElement("href").SetText(IconHref)

		ext := pm.CreateElement("ExtendedData")
		for _, f := range extendedData(r) {
			data := ext.CreateElement("Data")
			data.CreateAttr("name", f.name)
			data.CreateElement("value").SetText(f.value)
		}

		pm.CreateElement("Point").CreateElement("coordinates").SetText(p.KML())
	}

	doc.Indent(2)

	return doc, nil
}

// Marshal builds the document and serializes it.
func Marshal(records []*survey.Record, meta survey.Metadata) ([]byte, error) {
	doc, err := Build(records, meta)
	if err != nil {
		return nil, err
	}

	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing kml: %w", err)
	}

	return data, nil
}
