// Package assemble merges the partial results of a query's sub-requests
// into the final observation table: deduplicated, UTC-ordered, and
// enriched with display names from the registry.
package assemble

import (
	"sort"

	"entsogo/internal/models"
	"entsogo/internal/registry"
)

// Partial is the outcome of one sub-request. NoData marks an explicit
// "no matching data" acknowledgement, which is not a failure by itself.
type Partial struct {
	Sub          models.SubRequest
	Observations []models.Observation
	NoData       bool
}

// Merge combines partials into one table.
//
// Duplicates are dropped keeping the first occurrence in submission
// order; adjacent windows can both report a point sitting exactly on
// their shared boundary. The identity of an observation includes its
// fuel type and generation unit: generation documents carry one series
// per fuel (or per unit) with points at identical timestamps, and those
// are distinct rows, not duplicates. Dimension labels are
// attached when the query fanned out over more than one dimension.
// Dimensions that reported no data while others produced observations are
// recorded in Table.Missing; if every dimension came back empty the whole
// query fails with *models.NoDataError.
func Merge(q models.Query, partials []Partial) (*models.Table, error) {
	// Concurrent execution hands partials back in completion order;
	// restore submission order so "first occurrence" is deterministic.
	sorted := make([]Partial, len(partials))
	copy(sorted, partials)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sub.Seq < sorted[j].Sub.Seq
	})

	multi := len(q.Dimensions) > 1

	type dedupeKey struct {
		ts       int64
		dim      string
		category string
		psrType  string
		unitEIC  string
	}
	seen := make(map[dedupeKey]bool)
	contributed := make(map[string]bool)

	var observations []models.Observation
	for _, p := range sorted {
		dimKey := p.Sub.Dimension.Key()
		for _, o := range p.Observations {
			o.Timestamp = o.Timestamp.UTC()
			key := dedupeKey{
				ts:       o.Timestamp.UnixNano(),
				dim:      dimKey,
				category: o.Category,
				psrType:  o.PSRType,
				unitEIC:  o.UnitEIC,
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			contributed[dimKey] = true

			if multi {
				o.Dimension = dimensionLabel(p.Sub.Dimension)
			}
			o.CategoryName = categoryName(o.Category)
			o.PSRName = psrName(o.PSRType)
			observations = append(observations, o)
		}
	}

	if len(observations) == 0 {
		return nil, &models.NoDataError{}
	}

	var missing []string
	for _, dim := range q.Dimensions {
		if !contributed[dim.Key()] {
			missing = append(missing, dimensionLabel(dim))
		}
	}

	sort.SliceStable(observations, func(i, j int) bool {
		if !observations[i].Timestamp.Equal(observations[j].Timestamp) {
			return observations[i].Timestamp.Before(observations[j].Timestamp)
		}
		return observations[i].Dimension < observations[j].Dimension
	})

	return &models.Table{Observations: observations, Missing: missing}, nil
}

func dimensionLabel(d models.Dimension) string {
	if d.To == "" {
		return registry.AreaName(d.Area)
	}
	return registry.AreaName(d.Area) + " > " + registry.AreaName(d.To)
}

func categoryName(code string) string {
	if code == "" {
		return ""
	}
	return registry.CategoryName(code)
}

func psrName(code string) string {
	if code == "" {
		return ""
	}
	return registry.PSRName(code)
}
