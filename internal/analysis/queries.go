package analysis

import (
	"sort"

	"churnboard/domain/customer"

	"github.com/montanaflynn/stats"
)

const (
	// DisplayLimit caps the rows returned by FilterBySegment.
	DisplayLimit = 50
	// HistogramBins is the number of equal-width CLV bins.
	HistogramBins = 30
)

// Option configures Queries.
type Option func(*Queries)

// WithDisplayLimit overrides DisplayLimit. Non-positive values are ignored.
func WithDisplayLimit(n int) Option {
	return func(q *Queries) {
		if n > 0 {
			q.displayLimit = n
		}
	}
}

// WithHistogramBins overrides HistogramBins. Non-positive values are ignored.
func WithHistogramBins(n int) Option {
	return func(q *Queries) {
		if n > 0 {
			q.bins = n
		}
	}
}

// Queries answers the dashboard's read-only questions about one table.
// It never mutates the table, so one value may serve concurrent requests.
type Queries struct {
	table        *customer.Table
	displayLimit int
	bins         int
}

// New wraps table with the default limits.
func New(table *customer.Table, opts ...Option) *Queries {
	q := &Queries{
		table:        table,
		displayLimit: DisplayLimit,
		bins:         HistogramBins,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Table returns the underlying table.
func (q *Queries) Table() *customer.Table {
	return q.table
}

// TotalCustomers counts distinct CustomerID values.
func (q *Queries) TotalCustomers() int {
	seen := make(map[string]struct{}, q.table.Len())
	q.table.Each(func(_ int, rec customer.Record) bool {
		seen[rec.CustomerID] = struct{}{}
		return true
	})
	return len(seen)
}

// ChurnFraction is the mean of Churn over all rows. An empty table yields 0.
func (q *Queries) ChurnFraction() float64 {
	churn := make([]float64, 0, q.table.Len())
	q.table.Each(func(_ int, rec customer.Record) bool {
		churn = append(churn, float64(rec.Churn))
		return true
	})
	mean, err := stats.Mean(churn)
	if err != nil {
		return 0
	}
	return mean
}

// ChurnRate is ChurnFraction as a percentage rounded to two decimals.
func (q *Queries) ChurnRate() float64 {
	rate, err := stats.Round(q.ChurnFraction()*100, 2)
	if err != nil {
		return 0
	}
	return rate
}

// HighValueChurnerCount counts rows labelled "High Value - Churn".
func (q *Queries) HighValueChurnerCount() int {
	return q.CountInGroup(customer.GroupHighValueChurn)
}

// CountInGroup counts rows whose CustomerGroup equals group exactly.
func (q *Queries) CountInGroup(group string) int {
	count := 0
	q.table.Each(func(_ int, rec customer.Record) bool {
		if rec.CustomerGroup == group {
			count++
		}
		return true
	})
	return count
}

// Projection is the subset of columns shown in the segment table.
type Projection struct {
	CustomerID    string  `json:"CustomerID"`
	EstimatedCLV  float64 `json:"EstimatedCLV"`
	CLVSegment    string  `json:"CLVSegment"`
	Churn         int     `json:"Churn"`
	CustomerGroup string  `json:"CustomerGroup"`
}

// SegmentView is the result of FilterBySegment.
type SegmentView struct {
	Segment string       `json:"segment"`
	Matched int          `json:"matched"`
	Limit   int          `json:"limit"`
	Rows    []Projection `json:"rows"`
}

// FilterBySegment returns the rows whose CustomerGroup equals segment, in
// table order, truncated to the display limit. Matched counts every match.
// A segment that does not occur yields no rows.
func (q *Queries) FilterBySegment(segment string) SegmentView {
	view := SegmentView{
		Segment: segment,
		Limit:   q.displayLimit,
		Rows:    []Projection{},
	}
	q.table.Each(func(_ int, rec customer.Record) bool {
		if rec.CustomerGroup != segment {
			return true
		}
		view.Matched++
		if len(view.Rows) < q.displayLimit {
			view.Rows = append(view.Rows, Projection{
				CustomerID:    rec.CustomerID,
				EstimatedCLV:  rec.EstimatedCLV,
				CLVSegment:    rec.CLVSegment,
				Churn:         rec.Churn,
				CustomerGroup: rec.CustomerGroup,
			})
		}
		return true
	})
	return view
}

// Segments returns the distinct CustomerGroup values in first-appearance order.
func (q *Queries) Segments() []string {
	segments := []string{}
	seen := make(map[string]struct{})
	q.table.Each(func(_ int, rec customer.Record) bool {
		if _, ok := seen[rec.CustomerGroup]; !ok {
			seen[rec.CustomerGroup] = struct{}{}
			segments = append(segments, rec.CustomerGroup)
		}
		return true
	})
	return segments
}

// GroupCount is one entry of the CustomerGroup frequency distribution.
type GroupCount struct {
	Group string  `json:"group"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// GroupDistribution counts rows per CustomerGroup, largest first. Groups
// with equal counts keep first-appearance order.
func (q *Queries) GroupDistribution() []GroupCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	q.table.Each(func(_ int, rec customer.Record) bool {
		if _, exists := counts[rec.CustomerGroup]; !exists {
			order = append(order, rec.CustomerGroup)
		}
		counts[rec.CustomerGroup]++
		return true
	})

	total := float64(q.table.Len())
	groups := make([]GroupCount, 0, len(order))
	for _, key := range order {
		groups = append(groups, GroupCount{
			Group: key,
			Count: counts[key],
			Share: float64(counts[key]) / total,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups
}

// Overview bundles the three headline KPIs.
type Overview struct {
	TotalCustomers        int     `json:"total_customers"`
	ChurnRate             float64 `json:"churn_rate"`
	HighValueChurners     int     `json:"high_value_churners"`
	TotalCustomersDisplay string  `json:"total_customers_display"`
	ChurnRateDisplay      string  `json:"churn_rate_display"`
	HighValueDisplay      string  `json:"high_value_churners_display"`
	Rows                  int     `json:"rows"`
}

// Overview computes the headline KPIs.
func (q *Queries) Overview() Overview {
	total := q.TotalCustomers()
	rate := q.ChurnRate()
	hv := q.HighValueChurnerCount()
	return Overview{
		TotalCustomers:        total,
		ChurnRate:             rate,
		HighValueChurners:     hv,
		TotalCustomersDisplay: FormatCount(total),
		ChurnRateDisplay:      FormatPercent(rate),
		HighValueDisplay:      FormatCount(hv),
		Rows:                  q.table.Len(),
	}
}
