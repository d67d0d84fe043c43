package decode

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"entsogo/internal/models"
)

// Market documents all share the TimeSeries > Period > Point shape, but
// the element carrying a point's numeric value differs by family. The
// list below is tried in order; the first present wins.
//
// Namespaces vary per document type, so matching is on local names only.

type xmlPoint struct {
	Position       string `xml:"position"`
	Quantity       string `xml:"quantity"`
	PriceAmount    string `xml:"price.amount"`
	ImbalancePrice string `xml:"imbalance_Price.amount"`
	Category       string `xml:"imbalance_Price.category"`
}

type xmlPeriod struct {
	Start      string     `xml:"timeInterval>start"`
	Resolution string     `xml:"resolution"`
	Points     []xmlPoint `xml:"Point"`
}

type xmlPSR struct {
	PsrType  string `xml:"psrType"`
	UnitEIC  string `xml:"PowerSystemResources>mRID"`
	UnitName string `xml:"PowerSystemResources>name"`
}

type xmlSeries struct {
	MktPSRType   xmlPSR      `xml:"MktPSRType"`
	Currency     string      `xml:"currency_Unit.name"`
	PriceUnit    string      `xml:"price_Measure_Unit.name"`
	QuantityUnit string      `xml:"quantity_Measure_Unit.name"`
	Periods      []xmlPeriod `xml:"Period"`
}

type xmlReason struct {
	Text string `xml:"text"`
}

type xmlDocument struct {
	XMLName xml.Name
	Series  []xmlSeries `xml:"TimeSeries"`
	Reason  *xmlReason  `xml:"Reason"`
}

// ParseDocument parses one market document into observations.
//
// Positions are 1-indexed in the source format: position N maps to
// period start + (N-1) x resolution. A point whose value cannot be
// parsed yields a nil-valued observation; a document where no point
// yields any value at all fails with *models.APIResponseError. A
// document with no TimeSeries wraps models.ErrNoData.
func ParseDocument(body []byte) ([]models.Observation, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, &models.APIResponseError{
			Msg:     "payload is not a parseable market document",
			Snippet: models.Snippet(body),
		}
	}

	if len(doc.Series) == 0 {
		if doc.Reason != nil && doc.Reason.Text != "" {
			return nil, fmt.Errorf("%w: %s", models.ErrNoData, strings.TrimSpace(doc.Reason.Text))
		}
		return nil, models.ErrNoData
	}

	var observations []models.Observation
	valued := 0

	for _, series := range doc.Series {
		unit := series.QuantityUnit
		if unit == "" {
			unit = series.PriceUnit
		}

		for _, period := range series.Periods {
			start, err := parsePeriodStart(period.Start)
			if err != nil {
				return nil, &models.APIResponseError{
					Msg: fmt.Sprintf("bad period start %q", period.Start),
				}
			}
			resolution, err := parseResolution(period.Resolution)
			if err != nil {
				return nil, &models.APIResponseError{
					Msg: fmt.Sprintf("bad period resolution %q", period.Resolution),
				}
			}

			for _, point := range period.Points {
				position, err := strconv.Atoi(strings.TrimSpace(point.Position))
				if err != nil || position < 1 {
					continue
				}

				value := pointValue(point)
				if value != nil {
					valued++
				}

				observations = append(observations, models.Observation{
					Timestamp:   start.Add(time.Duration(position-1) * resolution).UTC(),
					Value:       value,
					Category:    point.Category,
					PSRType:     series.MktPSRType.PsrType,
					UnitEIC:     series.MktPSRType.UnitEIC,
					UnitName:    series.MktPSRType.UnitName,
					Currency:    series.Currency,
					MeasureUnit: unit,
				})
			}
		}
	}

	if valued == 0 {
		return nil, &models.APIResponseError{
			Msg:     "document contains no extractable values",
			Snippet: models.Snippet(body),
		}
	}
	return observations, nil
}

// pointValue extracts the numeric value, trying the family-specific
// element names in order. Unparseable numbers become nil, tolerating
// sparse or placeholder points.
func pointValue(p xmlPoint) *float64 {
	for _, raw := range []string{p.Quantity, p.PriceAmount, p.ImbalancePrice} {
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil
		}
		return models.Float(v)
	}
	return nil
}

// The API formats period starts as minute-resolution instants with an
// offset, e.g. "2024-01-01T23:00Z".
var periodStartLayouts = []string{
	"2006-01-02T15:04Z07:00",
	time.RFC3339,
}

func parsePeriodStart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range periodStartLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

var resolutionPattern = regexp.MustCompile(`^P(T?)(\d+)([MHDY])$`)

// parseResolution parses the ISO 8601 durations the API actually emits:
// PT15M, PT30M, PT60M, P1D, P7D, P1Y. "M" means minutes only inside the
// time part; the calendar-month form P1M has no fixed length and is
// rejected rather than misread as a minute.
func parseResolution(s string) (time.Duration, error) {
	m := resolutionPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("cannot parse resolution %q", s)
	}
	n, _ := strconv.Atoi(m[2])
	switch m[3] {
	case "M":
		if m[1] == "" {
			return 0, fmt.Errorf("monthly resolution %q is not supported", s)
		}
		return time.Duration(n) * time.Minute, nil
	case "H":
		return time.Duration(n) * time.Hour, nil
	case "D":
		return time.Duration(n) * 24 * time.Hour, nil
	case "Y":
		return time.Duration(n) * 365 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("unknown resolution unit in %q", s)
}
