package models

import (
	"fmt"
	"time"
)

// MaxRequestRange is the longest span the transparency API accepts in a
// single call. Longer queries are split by the planner.
const MaxRequestRange = 365 * 24 * time.Hour

// AreaParam selects which query parameter carries the area code for a
// document family. The API is not consistent about this.
type AreaParam int

const (
	// AreaParamBiddingZone sets outBiddingZone_Domain (load documents).
	AreaParamBiddingZone AreaParam = iota
	// AreaParamInDomain sets in_Domain (generation documents).
	AreaParamInDomain
	// AreaParamInOutSame sets in_Domain and out_Domain to the same area
	// (day-ahead prices).
	AreaParamInOutSame
	// AreaParamControlArea sets controlArea_Domain (balancing documents).
	AreaParamControlArea
	// AreaParamBorder sets in_Domain to the destination area and
	// out_Domain to the origin area (transmission documents).
	AreaParamBorder
)

// Family identifies one class of remote query: a document type code plus
// the process type and parameter conventions that go with it.
type Family struct {
	Name         string
	DocumentType string
	ProcessType  string
	AreaParam    AreaParam
	Extra        map[string]string
}

// IsBorder reports whether the family targets an ordered area pair
// rather than a single area.
func (f Family) IsBorder() bool {
	return f.AreaParam == AreaParamBorder
}

// Document families supported by the client. Codes follow the
// transparency platform reference tables.
var (
	FamilyActualLoad         = Family{Name: "actual_load", DocumentType: "A65", ProcessType: "A16", AreaParam: AreaParamBiddingZone}
	FamilyLoadForecast       = Family{Name: "load_forecast", DocumentType: "A65", ProcessType: "A01", AreaParam: AreaParamBiddingZone}
	FamilyDayAheadPrices     = Family{Name: "day_ahead_prices", DocumentType: "A44", AreaParam: AreaParamInOutSame}
	FamilyActualGeneration   = Family{Name: "actual_generation", DocumentType: "A75", ProcessType: "A16", AreaParam: AreaParamInDomain}
	FamilyGenerationForecast = Family{Name: "generation_forecast", DocumentType: "A69", ProcessType: "A01", AreaParam: AreaParamInDomain}
	FamilyInstalledCapacity  = Family{Name: "installed_capacity", DocumentType: "A68", ProcessType: "A33", AreaParam: AreaParamInDomain}
	FamilyGenerationPerUnit  = Family{Name: "generation_per_unit", DocumentType: "A73", ProcessType: "A16", AreaParam: AreaParamInDomain}
	FamilyCrossborderFlows   = Family{Name: "crossborder_flows", DocumentType: "A11", AreaParam: AreaParamBorder}
	FamilyScheduledExchanges = Family{Name: "scheduled_exchanges", DocumentType: "A09", AreaParam: AreaParamBorder}
	FamilyTransferCapacity   = Family{Name: "net_transfer_capacity", DocumentType: "A61", AreaParam: AreaParamBorder, Extra: map[string]string{"contract_MarketAgreement.Type": "A01"}}
	FamilyImbalancePrices    = Family{Name: "imbalance_prices", DocumentType: "A85", AreaParam: AreaParamControlArea}
	FamilyImbalanceVolumes   = Family{Name: "imbalance_volumes", DocumentType: "A86", AreaParam: AreaParamControlArea}
)

// Dimension is the area a sub-request targets: a single code, or an
// ordered (From, To) pair for border queries. Codes are whatever the
// caller passed (ISO, EIC, or display name); the planner resolves them.
type Dimension struct {
	Area string
	To   string
}

// Key returns a stable identity for deduplication and labeling. The
// ordered pair FR>DE is distinct from DE>FR.
func (d Dimension) Key() string {
	if d.To == "" {
		return d.Area
	}
	return d.Area + ">" + d.To
}

// Query describes one logical fetch before planning.
type Query struct {
	Family     Family
	Start      time.Time
	End        time.Time
	Dimensions []Dimension
	PSRType    string // optional fuel-type sub-filter, e.g. "B16"
}

// SubRequest is one bounded (window, dimension) unit of work. Spans never
// exceed MaxRequestRange. Seq preserves submission order so that merges
// stay deterministic under concurrent execution.
type SubRequest struct {
	Seq       int
	Family    Family
	Start     time.Time
	End       time.Time
	Dimension Dimension
	AreaEIC   string // resolved origin (or single) area
	ToEIC     string // resolved destination area for border families
	PSRType   string
}

// RawPayload is the body of one successful HTTP call, before container
// detection.
type RawPayload struct {
	Body        []byte
	ContentType string
}

// Point is one position-indexed record inside a document period.
type Point struct {
	Position int
	Value    *float64
	Category string // imbalance price category code, verbatim
}

// Document is one decoded XML payload reduced to observations plus the
// series-level metadata needed downstream.
type Document struct {
	Observations []Observation
}

// Observation is the normalized output unit. Value is nil when the source
// point carried no parseable number.
type Observation struct {
	Timestamp time.Time
	Value     *float64

	// Dimension labeling, filled by the assembler.
	Dimension string

	// Enrichment fields. Raw codes come from the parser; display names
	// are resolved by the assembler.
	Category     string
	CategoryName string
	PSRType      string
	PSRName      string

	// Per-unit generation identifiers (A73 documents).
	UnitEIC  string
	UnitName string

	// Measure metadata.
	Currency    string
	MeasureUnit string
}

// Table is the final artifact of one fetch: observations sorted by
// timestamp then dimension, with per-dimension absence recorded rather
// than silently dropped.
type Table struct {
	Observations []Observation
	// Missing lists dimension keys for which the API explicitly reported
	// no data while other dimensions produced observations.
	Missing []string
}

// Float returns a pointer to v, for building nullable observation values.
func Float(v float64) *float64 { return &v }

func (s SubRequest) String() string {
	return fmt.Sprintf("%s %s [%s, %s)", s.Family.Name, s.Dimension.Key(),
		s.Start.UTC().Format(time.RFC3339), s.End.UTC().Format(time.RFC3339))
}
