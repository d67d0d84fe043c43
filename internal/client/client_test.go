package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entsogo/internal/models"
	"entsogo/internal/transport"
)

const (
	eicFR   = "10YFR-RTE------C"
	eicNL   = "10YNL----------L"
	eicDELU = "10Y1001A1001A82H"
)

const requestStamp = "200601021504"

const noDataBody = `<?xml version="1.0" encoding="UTF-8"?>
<Acknowledgement_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-1:acknowledgementdocument:8:1">
  <Reason>
    <code>999</code>
    <text>No matching data found for the query</text>
  </Reason>
</Acknowledgement_MarketDocument>`

// loadDocumentAt builds a one-series document whose period starts at the
// given instant, with one hourly point per value.
func loadDocumentAt(start time.Time, values ...float64) string {
	points := ""
	for i, v := range values {
		points += fmt.Sprintf("<Point><position>%d</position><quantity>%g</quantity></Point>", i+1, v)
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<GL_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-6:generationloaddocument:3:0">
  <TimeSeries>
    <quantity_Measure_Unit.name>MAW</quantity_Measure_Unit.name>
    <Period>
      <timeInterval><start>` + start.UTC().Format("2006-01-02T15:04Z") + `</start></timeInterval>
      <resolution>PT60M</resolution>
      ` + points + `
    </Period>
  </TimeSeries>
</GL_MarketDocument>`
}

type recordedRequest struct {
	start, end time.Time
	area       string
}

// fakeAPI serves canned responses and records the windows it was asked
// for. handler may be swapped per test.
type fakeAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(w http.ResponseWriter, r *http.Request)
	server   *httptest.Server
}

func newFakeAPI(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *fakeAPI {
	t.Helper()
	f := &fakeAPI{handler: handler}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		start, _ := time.Parse(requestStamp, q.Get("periodStart"))
		end, _ := time.Parse(requestStamp, q.Get("periodEnd"))
		area := q.Get("outBiddingZone_Domain")
		if area == "" {
			area = q.Get("in_Domain")
		}
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{start: start, end: end, area: area})
		f.mu.Unlock()
		f.handler(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c, err := New(Options{
		Transport: transport.Config{
			BaseURL:      baseURL,
			Token:        "test-token",
			MaxRetries:   1,
			BaseDelay:    time.Millisecond,
			NetworkDelay: time.Millisecond,
		},
		MaxConcurrency: 2,
		Logger:         logger,
	})
	require.NoError(t, err)
	return c
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(Options{})
	var invalid *models.InvalidParameterError
	require.True(t, errors.As(err, &invalid))
}

func TestActualLoadEndToEnd(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "test-token", q.Get("securityToken"))
		assert.Equal(t, "A65", q.Get("documentType"))
		assert.Equal(t, "A16", q.Get("processType"))
		assert.Equal(t, eicFR, q.Get("outBiddingZone_Domain"))
		fmt.Fprint(w, loadDocumentAt(start, 45123, 44810))
	})

	c := newTestClient(t, api.server.URL)
	table, err := c.ActualLoad(context.Background(), start, start.Add(2*time.Hour), "FR")
	require.NoError(t, err)
	require.Len(t, table.Observations, 2)
	assert.True(t, table.Observations[0].Timestamp.Equal(start))
	assert.Equal(t, 45123.0, *table.Observations[0].Value)
	assert.Empty(t, table.Missing)
}

func TestFetchSplitsLongRangeAndDeduplicatesBoundary(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(400 * 24 * time.Hour)
	anchor := start.Add(12 * time.Hour)

	// Every window reports a point at its own start plus one at a shared
	// anchor instant, so adjacent windows overlap on the anchor.
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		ws, _ := time.Parse(requestStamp, r.URL.Query().Get("periodStart"))
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<GL_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-6:generationloaddocument:3:0">
  <TimeSeries>
    <Period>
      <timeInterval><start>`+ws.UTC().Format("2006-01-02T15:04Z")+`</start></timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><quantity>`+fmt.Sprintf("%d", ws.Year())+`</quantity></Point>
    </Period>
  </TimeSeries>
  <TimeSeries>
    <Period>
      <timeInterval><start>`+anchor.UTC().Format("2006-01-02T15:04Z")+`</start></timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><quantity>`+fmt.Sprintf("%d", ws.Year())+`</quantity></Point>
    </Period>
  </TimeSeries>
</GL_MarketDocument>`)
	})

	c := newTestClient(t, api.server.URL)
	table, err := c.ActualLoad(context.Background(), start, end, "FR")
	require.NoError(t, err)

	reqs := api.recorded()
	require.Len(t, reqs, 2)
	// Sub-requests are dispatched concurrently, so arrival order at the
	// fake server is a race; sort by window start before asserting.
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].start.Before(reqs[j].start) })

	// Windows are contiguous, aligned to the query start, and capped at
	// the maximum request range.
	assert.True(t, reqs[0].start.Equal(start))
	assert.True(t, reqs[0].end.Equal(start.Add(models.MaxRequestRange)))
	assert.True(t, reqs[1].start.Equal(reqs[0].end))
	assert.True(t, reqs[1].end.Equal(end))

	// One point per window start plus a single surviving anchor point.
	require.Len(t, table.Observations, 3)
	var anchorValues []float64
	for _, o := range table.Observations {
		if o.Timestamp.Equal(anchor) {
			anchorValues = append(anchorValues, *o.Value)
		}
	}
	require.Len(t, anchorValues, 1)
	// The first window's copy wins.
	assert.Equal(t, float64(start.Year()), anchorValues[0])
}

func TestFetchPartialNoData(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("outBiddingZone_Domain") == eicNL {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, noDataBody)
			return
		}
		fmt.Fprint(w, loadDocumentAt(start, 45123))
	})

	c := newTestClient(t, api.server.URL)
	table, err := c.ActualLoad(context.Background(), start, start.Add(time.Hour), "FR", "NL")
	require.NoError(t, err)
	require.Len(t, table.Observations, 1)
	assert.Equal(t, "France", table.Observations[0].Dimension)
	assert.Equal(t, []string{"Netherlands"}, table.Missing)
}

func TestFetchAllNoData(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, noDataBody)
	})

	c := newTestClient(t, api.server.URL)
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	_, err := c.ActualLoad(context.Background(), start, start.Add(time.Hour), "FR", "NL")

	var noData *models.NoDataError
	require.True(t, errors.As(err, &noData))
}

func TestFetchIsDeterministic(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		ws, _ := time.Parse(requestStamp, r.URL.Query().Get("periodStart"))
		fmt.Fprint(w, loadDocumentAt(ws, 1, 2, 3))
	})

	c := newTestClient(t, api.server.URL)
	first, err := c.ActualLoad(context.Background(), start, start.Add(3*time.Hour), "FR", "NL", "BE")
	require.NoError(t, err)
	second, err := c.ActualLoad(context.Background(), start, start.Add(3*time.Hour), "FR", "NL", "BE")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFetchCancelledContextReturnsNoTable(t *testing.T) {
	release := make(chan struct{})
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	t.Cleanup(func() { close(release) })

	c := newTestClient(t, api.server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	table, err := c.ActualLoad(ctx, start, start.Add(time.Hour), "FR")
	assert.Nil(t, table)
	require.Error(t, err)
}

func TestFetchFailingSubRequestFailsQuery(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("outBiddingZone_Domain") == eicNL {
			w.WriteHeader(http.StatusTeapot)
			fmt.Fprint(w, "nope")
			return
		}
		fmt.Fprint(w, loadDocumentAt(start, 45123))
	})

	c := newTestClient(t, api.server.URL)
	table, err := c.ActualLoad(context.Background(), start, start.Add(time.Hour), "FR", "NL")
	assert.Nil(t, table)

	var apiErr *models.APIResponseError
	require.True(t, errors.As(err, &apiErr))
}

func TestCrossborderFlowsSendsOrderedPair(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "A11", q.Get("documentType"))
		// Flow FR -> DE_LU: destination in in_Domain, origin in out_Domain.
		assert.Equal(t, eicDELU, q.Get("in_Domain"))
		assert.Equal(t, eicFR, q.Get("out_Domain"))
		fmt.Fprint(w, loadDocumentAt(start, 1200))
	})

	c := newTestClient(t, api.server.URL)
	table, err := c.CrossborderFlows(context.Background(), start, start.Add(time.Hour), Pair("FR", "DE_LU"))
	require.NoError(t, err)
	require.Len(t, table.Observations, 1)
}

func TestActualGenerationResolvesPSRName(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "A75", q.Get("documentType"))
		assert.Equal(t, "B16", q.Get("psrType"))
		fmt.Fprint(w, loadDocumentAt(start, 800))
	})

	c := newTestClient(t, api.server.URL)
	_, err := c.ActualGeneration(context.Background(), start, start.Add(time.Hour), "Solar", "FR")
	require.NoError(t, err)
}

func TestImbalancePricesUsesControlAreaParam(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "A85", q.Get("documentType"))
		assert.Equal(t, eicFR, q.Get("controlArea_Domain"))
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<Balancing_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-6:balancingdocument:4:1">
  <TimeSeries>
    <currency_Unit.name>EUR</currency_Unit.name>
    <Period>
      <timeInterval><start>`+start.UTC().Format("2006-01-02T15:04Z")+`</start></timeInterval>
      <resolution>PT30M</resolution>
      <Point>
        <position>1</position>
        <imbalance_Price.amount>85.25</imbalance_Price.amount>
        <imbalance_Price.category>A04</imbalance_Price.category>
      </Point>
    </Period>
  </TimeSeries>
</Balancing_MarketDocument>`)
	})

	c := newTestClient(t, api.server.URL)
	table, err := c.ImbalancePrices(context.Background(), start, start.Add(time.Hour), "FR")
	require.NoError(t, err)
	require.Len(t, table.Observations, 1)
	assert.Equal(t, "Excess balance", table.Observations[0].CategoryName)
	assert.Equal(t, "EUR", table.Observations[0].Currency)
}

func TestFetchInvalidAreaFailsWithoutRequests(t *testing.T) {
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "should never be called")
	})

	c := newTestClient(t, api.server.URL)
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	_, err := c.ActualLoad(context.Background(), start, start.Add(time.Hour), "ATLANTIS")

	var invalid *models.InvalidParameterError
	require.True(t, errors.As(err, &invalid))
	assert.Empty(t, api.recorded())
}
