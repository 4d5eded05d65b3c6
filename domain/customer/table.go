package customer

import (
	"fmt"
	"math"
	"time"
)

// Table is an immutable, in-memory customer dataset. It is safe to share
// between goroutines: nothing mutates it after NewTable returns.
type Table struct {
	records  []Record
	source   string
	loadedAt time.Time
}

// NewTable copies records into a new Table. Churn must be 0 or 1 and
// EstimatedCLV must be finite on every row.
func NewTable(source string, records []Record) (*Table, error) {
	owned := make([]Record, len(records))
	for i, rec := range records {
		if rec.Churn != 0 && rec.Churn != 1 {
			return nil, fmt.Errorf("row %d: churn must be 0 or 1, got %d", i+1, rec.Churn)
		}
		if math.IsNaN(rec.EstimatedCLV) || math.IsInf(rec.EstimatedCLV, 0) {
			return nil, fmt.Errorf("row %d: EstimatedCLV must be finite, got %v", i+1, rec.EstimatedCLV)
		}
		owned[i] = rec
	}
	return &Table{
		records:  owned,
		source:   source,
		loadedAt: time.Now(),
	}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// At returns a copy of row i.
func (t *Table) At(i int) Record {
	return t.records[i]
}

// Each calls fn for every row in table order until fn returns false.
func (t *Table) Each(fn func(i int, rec Record) bool) {
	if t == nil {
		return
	}
	for i, rec := range t.records {
		if !fn(i, rec) {
			return
		}
	}
}

// Records returns a copy of all rows.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Slice returns a copy of rows [offset, offset+limit), clamped to the table.
func (t *Table) Slice(offset, limit int) []Record {
	n := t.Len()
	if offset < 0 {
		offset = 0
	}
	if offset >= n || limit <= 0 {
		return []Record{}
	}
	end := offset + limit
	if end > n {
		end = n
	}
	out := make([]Record, end-offset)
	copy(out, t.records[offset:end])
	return out
}

// Source returns the location the table was loaded from.
func (t *Table) Source() string {
	return t.source
}

// LoadedAt returns when the table was built.
func (t *Table) LoadedAt() time.Time {
	return t.loadedAt
}
