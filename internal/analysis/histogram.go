package analysis

import (
	"math"
	"sort"

	"churnboard/domain/customer"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin is one histogram bucket covering [Lower, Upper). The last bin also
// includes its upper edge.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram is an equal-width binning of EstimatedCLV.
type Histogram struct {
	Column string  `json:"column"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Width  float64 `json:"width"`
	Total  int     `json:"total"`
	Bins   []Bin   `json:"bins"`
}

// CLVHistogram bins EstimatedCLV into equal-width bins spanning the observed
// range. When every value is equal the range is widened by 0.5 on each side.
// An empty table yields no bins.
func (q *Queries) CLVHistogram() Histogram {
	values := q.clvValues()
	return buildHistogram(customer.ColumnEstimatedCLV, values, q.bins)
}

func (q *Queries) clvValues() []float64 {
	values := make([]float64, 0, q.table.Len())
	q.table.Each(func(_ int, rec customer.Record) bool {
		values = append(values, rec.EstimatedCLV)
		return true
	})
	return values
}

// buildHistogram ignores NaN and infinite values; Total counts the rest.
func buildHistogram(column string, values []float64, bins int) Histogram {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}

	h := Histogram{Column: column, Total: len(sorted), Bins: []Bin{}}
	if len(sorted) == 0 || bins <= 0 {
		return h
	}
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	h.Min, h.Max = lo, hi
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)

	// stat.Histogram counts dividers[i] <= x < dividers[i+1]; nudge the last
	// divider so the maximum lands in the final bin.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	h.Width = (hi - lo) / float64(bins)
	h.Bins = make([]Bin, bins)
	for i := range h.Bins {
		h.Bins[i] = Bin{
			Lower: edges[i],
			Upper: edges[i+1],
			Count: int(counts[i]),
		}
	}
	return h
}
