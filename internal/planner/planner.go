// Package planner turns a logical query into the bounded sub-requests the
// transparency API will actually accept.
package planner

import (
	"fmt"
	"time"

	"entsogo/internal/models"
	"entsogo/internal/registry"
)

// Plan validates q and expands it into an ordered sequence of
// sub-requests: the cross product of the query's dimensions with
// consecutive time windows of at most models.MaxRequestRange, aligned to
// the query start (the last window may be shorter). Plan is pure; it
// performs no I/O.
func Plan(q models.Query) ([]models.SubRequest, error) {
	if err := validate(q); err != nil {
		return nil, err
	}

	psr := q.PSRType
	if psr != "" {
		code, err := registry.ResolvePSR(psr)
		if err != nil {
			return nil, err
		}
		psr = code
	}

	windows := splitWindows(q.Start, q.End)

	subs := make([]models.SubRequest, 0, len(q.Dimensions)*len(windows))
	seq := 0
	for _, dim := range q.Dimensions {
		areaEIC, toEIC, err := resolveDimension(q.Family, dim)
		if err != nil {
			return nil, err
		}
		for _, w := range windows {
			subs = append(subs, models.SubRequest{
				Seq:       seq,
				Family:    q.Family,
				Start:     w.start,
				End:       w.end,
				Dimension: dim,
				AreaEIC:   areaEIC,
				ToEIC:     toEIC,
				PSRType:   psr,
			})
			seq++
		}
	}
	return subs, nil
}

type window struct {
	start, end time.Time
}

// splitWindows chops [start, end) into consecutive windows no longer than
// the API's maximum span. Windows align to start, not to calendar years.
func splitWindows(start, end time.Time) []window {
	var windows []window
	for cur := start; cur.Before(end); {
		next := cur.Add(models.MaxRequestRange)
		if next.After(end) {
			next = end
		}
		windows = append(windows, window{start: cur, end: next})
		cur = next
	}
	return windows
}

func validate(q models.Query) error {
	if q.Start.IsZero() || q.End.IsZero() {
		return &models.InvalidParameterError{Msg: "start and end timestamps are required"}
	}
	if !q.Start.Before(q.End) {
		return &models.InvalidParameterError{Msg: "start must be before end"}
	}
	if len(q.Dimensions) == 0 {
		return &models.InvalidParameterError{Msg: "at least one area is required"}
	}
	for _, dim := range q.Dimensions {
		if q.Family.IsBorder() && dim.To == "" {
			return &models.InvalidParameterError{
				Msg: fmt.Sprintf("%s requires an ordered from/to area pair", q.Family.Name),
			}
		}
		if !q.Family.IsBorder() && dim.To != "" {
			return &models.InvalidParameterError{
				Msg: fmt.Sprintf("%s takes single areas, not pairs", q.Family.Name),
			}
		}
	}
	return nil
}

func resolveDimension(f models.Family, dim models.Dimension) (areaEIC, toEIC string, err error) {
	from, err := registry.ResolveArea(dim.Area)
	if err != nil {
		return "", "", err
	}
	if !f.IsBorder() {
		return from.EIC, "", nil
	}
	to, err := registry.ResolveArea(dim.To)
	if err != nil {
		return "", "", err
	}
	return from.EIC, to.EIC, nil
}
