package decode

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entsogo/internal/models"
)

func zipPayload(t *testing.T, entries map[string]string) *models.RawPayload {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, body := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &models.RawPayload{Body: buf.Bytes(), ContentType: "application/zip"}
}

func priceDocument(day string, prices ...string) string {
	var points bytes.Buffer
	for i, p := range prices {
		points.WriteString("<Point><position>")
		points.WriteString(string(rune('1' + i)))
		points.WriteString("</position><price.amount>")
		points.WriteString(p)
		points.WriteString("</price.amount></Point>")
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<Publication_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-3:publicationdocument:7:0">
  <TimeSeries>
    <currency_Unit.name>EUR</currency_Unit.name>
    <price_Measure_Unit.name>MWH</price_Measure_Unit.name>
    <Period>
      <timeInterval><start>` + day + `T00:00Z</start></timeInterval>
      <resolution>PT60M</resolution>
      ` + points.String() + `
    </Period>
  </TimeSeries>
</Publication_MarketDocument>`
}

func TestDocumentsPassesThroughPlainXML(t *testing.T) {
	payload := &models.RawPayload{
		Body: []byte(priceDocument("2024-01-01", "50.0")),
		// The header lies; only magic bytes decide.
		ContentType: "application/zip",
	}
	docs, err := Documents(payload)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, payload.Body, docs[0])
}

func TestDocumentsEnumeratesArchiveEntries(t *testing.T) {
	payload := zipPayload(t, map[string]string{
		"001.xml": priceDocument("2024-01-01", "50.0"),
		"002.xml": priceDocument("2024-01-02", "60.0"),
	})
	docs, err := Documents(payload)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentsEmptyArchiveFails(t *testing.T) {
	payload := zipPayload(t, nil)
	_, err := Documents(payload)

	var apiErr *models.APIResponseError
	require.True(t, errors.As(err, &apiErr))
}

func TestDocumentsCorruptArchiveFails(t *testing.T) {
	payload := &models.RawPayload{Body: []byte("PK\x03\x04 this is not a zip")}
	_, err := Documents(payload)

	var apiErr *models.APIResponseError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Snippet, "PK")
}

func TestParseMergesArchiveDocuments(t *testing.T) {
	payload := zipPayload(t, map[string]string{
		"jan1.xml": priceDocument("2024-01-01", "50.0", "51.5"),
		"jan2.xml": priceDocument("2024-01-02", "60.0"),
	})
	obs, err := Parse(payload)
	require.NoError(t, err)
	require.Len(t, obs, 3)

	// Observations are attributable to their source documents by day.
	days := map[int]int{}
	for _, o := range obs {
		days[o.Timestamp.Day()]++
	}
	assert.Equal(t, map[int]int{1: 2, 2: 1}, days)
}

func TestParseArchiveWithNoParseableEntriesFails(t *testing.T) {
	payload := zipPayload(t, map[string]string{
		"a.xml": "<broken",
		"b.xml": "also broken",
	})
	_, err := Parse(payload)

	var apiErr *models.APIResponseError
	require.True(t, errors.As(err, &apiErr))
}

func TestParseToleratesPartiallyBrokenArchive(t *testing.T) {
	payload := zipPayload(t, map[string]string{
		"bad.xml":  "<broken",
		"good.xml": priceDocument("2024-01-01", "42.0"),
	})
	obs, err := Parse(payload)
	require.NoError(t, err)
	assert.Len(t, obs, 1)
}
