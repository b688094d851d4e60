// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

// Package kml reads survey placemarks out of KML/KMZ exports and writes the
// color-coded KML document.
package kml

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/radiakml/radiakml/survey"
	"golang.org/x/net/html/charset"
)

// Supported container extensions.
const (
	ExtKML = ".kml"
	ExtKMZ = ".kmz"
)

var (
	// ErrNoKMLEntry is returned for KMZ archives without a .kml entry.
	ErrNoKMLEntry = errors.New("no KML file found in KMZ archive")
	// ErrEmptyDocument is returned when the input has no root element.
	ErrEmptyDocument = errors.New("no root element")
	// ErrNoDocument is returned when the root has no Document child.
	ErrNoDocument = errors.New("no Document element")
	// ErrNoCoordinates is returned for placemarks without Point/coordinates.
	ErrNoCoordinates = errors.New("placemark has no Point/coordinates")
)

// Source is a parsed KML document.
type Source struct {
	doc *etree.Document
}

// IsSupported reports whether path has a .kml or .kmz extension.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtKML, ExtKMZ:
		return true
	default:
		return false
	}
}

// ReadFile opens a .kml file, or the first .kml entry of a .kmz archive, and
// parses it.
func ReadFile(path string) (*Source, error) {
	var (
		data []byte
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtKML:
		data, err = os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("reading kml file: %w", err)
		}
	case ExtKMZ:
		data, err = readKMZ(path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, survey.ConfigError(nil, "file must be .kml or .kmz format (got %q)", ext)
	}

	return Read(data)
}

func readKMZ(path string) (data []byte, err error) {
	zr, err := zip.OpenReader(filepath.Clean(path))
	if err != nil {
		return nil, survey.FormatError(err, "opening kmz archive %s", path)
	}

	defer func() {
		if cerr := zr.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing kmz archive: %w", cerr))
		}
	}()

	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, ExtKML) {
			return readEntry(f)
		}
	}

	return nil, survey.FormatError(ErrNoKMLEntry, "%s", path)
}

func readEntry(f *zip.File) (data []byte, err error) {
	rc, err := f.Open()
	if err != nil {
		return nil, survey.FormatError(err, "opening %s", f.Name)
	}

	defer func() {
		if cerr := rc.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing %s: %w", f.Name, cerr))
		}
	}()

	data, err = io.ReadAll(rc)
	if err != nil {
		return nil, survey.FormatError(err, "reading %s", f.Name)
	}

	return data, nil
}

// Read parses KML bytes. Encodings other than UTF-8 declared in the XML
// prolog are decoded.
func Read(data []byte) (*Source, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel

	if err := doc.ReadFromBytes(data); err != nil {
		return nil, survey.FormatError(err, "parsing kml")
	}

	if doc.Root() == nil {
		return nil, survey.FormatError(ErrEmptyDocument, "parsing kml")
	}

	return &Source{doc: doc}, nil
}

// Tree returns the parsed document tree.
func (s *Source) Tree() *etree.Document {
	return s.doc
}

// Document returns the Document element under the kml root.
func (s *Source) Document() (*etree.Element, error) {
	d := s.doc.Root().SelectElement("Document")
	if d == nil {
		return nil, survey.StructureError(ErrNoDocument, "root <%s>", s.doc.Root().Tag)
	}

	return d, nil
}

// Metadata returns the document name and description, empty when absent.
func (s *Source) Metadata() (survey.Metadata, error) {
	d, err := s.Document()
	if err != nil {
		return survey.Metadata{}, err
	}

	return survey.Metadata{
		Name:        childText(d, "name"),
		Description: childText(d, "description"),
	}, nil
}

// Placemarks returns every placemark under Document, at any depth, in
// document order.
func (s *Source) Placemarks() ([]*survey.Record, error) {
	d, err := s.Document()
	if err != nil {
		return nil, err
	}

	elements := collectPlacemarks(d, nil)
	ret := make([]*survey.Record, 0, len(elements))

	for i, pm := range elements {
		id := pm.SelectAttrValue("id", "")

		coords := pm.FindElement("Point/coordinates")
		if coords == nil {
			return nil, survey.StructureError(ErrNoCoordinates, "placemark %d (id %q)", i, id)
		}

		ret = append(ret, &survey.Record{
			ID:          id,
			StyleURL:    strings.TrimSpace(childText(pm, "styleUrl")),
			Coordinates: strings.TrimSpace(coords.Text()),
			Description: childText(pm, "description"),
		})
	}

	return ret, nil
}

// collectPlacemarks walks the tree depth first so results follow document
// order.
func collectPlacemarks(e *etree.Element, acc []*etree.Element) []*etree.Element {
	for _, c := range e.ChildElements() {
		if c.Tag == "Placemark" {
			acc = append(acc, c)
		}

		acc = collectPlacemarks(c, acc)
	}

	return acc
}

func childText(e *etree.Element, tag string) string {
	if c := e.SelectElement(tag); c != nil {
		return c.Text()
	}

	return ""
}
