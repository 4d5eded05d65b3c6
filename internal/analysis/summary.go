package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Summary describes the EstimatedCLV column.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// CLVSummary returns descriptive statistics of EstimatedCLV. StdDev is the
// sample standard deviation and is 0 with fewer than two rows. Q1 and Q3
// interpolate linearly between closest ranks. An empty table yields a zero
// Summary.
func (q *Queries) CLVSummary() (Summary, error) {
	data := stats.Float64Data(q.clvValues())
	s := Summary{Count: data.Len()}
	if s.Count == 0 {
		return s, nil
	}

	var err error
	if s.Min, err = data.Min(); err != nil {
		return Summary{}, err
	}
	if s.Max, err = data.Max(); err != nil {
		return Summary{}, err
	}
	if s.Mean, err = data.Mean(); err != nil {
		return Summary{}, err
	}
	if s.Median, err = data.Median(); err != nil {
		return Summary{}, err
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	s.Q1 = quantile(sorted, 0.25)
	s.Q3 = quantile(sorted, 0.75)
	if s.Count > 1 {
		if s.StdDev, err = stats.StandardDeviationSample(data); err != nil {
			return Summary{}, err
		}
	}
	return s, nil
}

// quantile interpolates linearly at rank (n-1)p of sorted, numpy's default
// method. sorted must be non-empty and ascending.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	i := int(math.Floor(h))
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-float64(i))*(sorted[i+1]-sorted[i])
}
