// Copyright 2025 The RadiaKML Authors
// SPDX-License-Identifier: Apache-2.0

package kml

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/radiakml/radiakml/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <name>Track 2024-01-01</name>
    <description>RadiaCode export</description>
    <Placemark id="p1">
      <styleUrl>#style1</styleUrl>
      <description><![CDATA[<b>2024-01-01 12:00:00</b></br>0.15 µSv/h</br>25.3 cps</br>Accuracy: ±5 m</br>]]></description>
      <Point><coordinates>12.5,45.6,100</coordinates></Point>
    </Placemark>
    <Folder>
      <Placemark id="p2">
        <styleUrl>#style2</styleUrl>
        <description>&lt;b&gt;2024-01-01 12:00:05&lt;/b&gt;&lt;/br&gt;0.30 µSv/h&lt;/br&gt;40.1 cps&lt;/br&gt;Accuracy: ±6 m&lt;/br&gt;</description>
        <Point><coordinates>
          12.6,45.7,101
        </coordinates></Point>
      </Placemark>
    </Folder>
    <Placemark>
      <Point><coordinates>12.7,45.8</coordinates></Point>
    </Placemark>
  </Document>
</kml>
`

var sampleRecords = []*survey.Record{
	{
		ID:          "p1",
		StyleURL:    "#style1",
		Coordinates: "12.5,45.6,100",
		Description: "<b>2024-01-01 12:00:00</b></br>0.15 µSv/h</br>25.3 cps</br>Accuracy: ±5 m</br>",
	},
	{
		ID:          "p2",
		StyleURL:    "#style2",
		Coordinates: "12.6,45.7,101",
		Description: "<b>2024-01-01 12:00:05</b></br>0.30 µSv/h</br>40.1 cps</br>Accuracy: ±6 m</br>",
	},
	{
		Coordinates: "12.7,45.8",
	},
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func writeKMZ(t *testing.T, name string, entries map[string]string, order ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for _, entry := range order {
		w, err := zw.Create(entry)
		require.NoError(t, err)
		_, err = w.Write([]byte(entries[entry]))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	return path
}

func TestReadFileKML(t *testing.T) {
	path := writeFile(t, "track.KML", []byte(sampleKML))

	src, err := ReadFile(path)
	require.NoError(t, err)

	meta, err := src.Metadata()
	require.NoError(t, err)
	assert.Equal(t, survey.Metadata{Name: "Track 2024-01-01", Description: "RadiaCode export"}, meta)

	records, err := src.Placemarks()
	require.NoError(t, err)

	if diff := cmp.Diff(sampleRecords, records); diff != "" {
		t.Errorf("Placemarks() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFileKMZ(t *testing.T) {
	path := writeKMZ(t, "track.kmz", map[string]string{
		"files/icon.png": "not really a png",
		"doc.kml":        sampleKML,
		"other.kml":      "<kml/>",
	}, "files/icon.png", "doc.kml", "other.kml")

	src, err := ReadFile(path)
	require.NoError(t, err)

	records, err := src.Placemarks()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "p1", records[0].ID)
}

func TestReadFileKMZWithoutKML(t *testing.T) {
	path := writeKMZ(t, "track.kmz", map[string]string{
		"readme.txt": "hello",
	}, "readme.txt")

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.True(t, survey.IsFormatError(err))
	assert.True(t, errors.Is(err, ErrNoKMLEntry))
}

func TestReadFileNotAZip(t *testing.T) {
	path := writeFile(t, "track.kmz", []byte(sampleKML))

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.True(t, survey.IsFormatError(err))
}

func TestReadFileUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "track.gpx", []byte(sampleKML))

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.True(t, survey.IsConfigError(err))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.kml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.kml"))
	assert.True(t, IsSupported("/tmp/b.KMZ"))
	assert.False(t, IsSupported("c.gpx"))
	assert.False(t, IsSupported("kml"))
}

func TestReadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"plain text", "this is not xml"},
		{"unclosed element", "<kml><Document>"},
		{"mismatched element", "<kml><Document></kml>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, survey.IsFormatError(err), "got %v", err)
		})
	}
}

func TestReadStructureErrors(t *testing.T) {
	t.Run("no document", func(t *testing.T) {
		src, err := Read([]byte(`<kml><Folder/></kml>`))
		require.NoError(t, err)

		_, err = src.Placemarks()
		require.Error(t, err)
		assert.True(t, survey.IsStructureError(err))
		assert.True(t, errors.Is(err, ErrNoDocument))
	})

	t.Run("placemark without coordinates", func(t *testing.T) {
		src, err := Read([]byte(`<kml><Document>
			<Placemark id="a"><Point><coordinates>1,2</coordinates></Point></Placemark>
			<Placemark id="b"><Point/></Placemark>
		</Document></kml>`))
		require.NoError(t, err)

		_, err = src.Placemarks()
		require.Error(t, err)
		assert.True(t, survey.IsStructureError(err))
		assert.True(t, errors.Is(err, ErrNoCoordinates))
		assert.Contains(t, err.Error(), `"b"`)
	})
}

func TestReadDocumentOrder(t *testing.T) {
	src, err := Read([]byte(`<kml><Document>
		<Folder>
			<Folder>
				<Placemark id="1"><Point><coordinates>0,0</coordinates></Point></Placemark>
			</Folder>
			<Placemark id="2"><Point><coordinates>0,0</coordinates></Point></Placemark>
		</Folder>
		<Placemark id="3"><Point><coordinates>0,0</coordinates></Point></Placemark>
		<Placemark id="3"><Point><coordinates>0,0</coordinates></Point></Placemark>
	</Document></kml>`))
	require.NoError(t, err)

	records, err := src.Placemarks()
	require.NoError(t, err)

	var ids []string
	for _, r := range records {
		ids = append(ids, r.ID)
	}

	assert.Equal(t, []string{"1", "2", "3", "3"}, ids)
}

func TestReadDeclaredCharset(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<kml><Document><name>Caf\xe9</name></Document></kml>")

	src, err := Read(data)
	require.NoError(t, err)

	meta, err := src.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "Café", meta.Name)
	assert.Empty(t, meta.Description)
}
