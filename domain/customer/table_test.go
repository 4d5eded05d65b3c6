package customer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	return []Record{
		{CustomerID: "1", Churn: 1, CustomerGroup: GroupHighValueChurn, EstimatedCLV: 1200, CLVSegment: "High"},
		{CustomerID: "2", Churn: 0, CustomerGroup: "Low Value - Retain", EstimatedCLV: 150, CLVSegment: "Low"},
		{CustomerID: "3", Churn: 1, CustomerGroup: "Low Value - Churn", EstimatedCLV: 90, CLVSegment: "Low"},
	}
}

func TestNewTableCopiesInput(t *testing.T) {
	records := sampleRecords()
	table, err := NewTable("memory", records)
	require.NoError(t, err)

	records[0].CustomerID = "mutated"

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "1", table.At(0).CustomerID)
	assert.Equal(t, "memory", table.Source())
	assert.False(t, table.LoadedAt().IsZero())
}

func TestNewTableRejectsInvalidChurn(t *testing.T) {
	records := sampleRecords()
	records[1].Churn = 2

	_, err := NewTable("memory", records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestNewTableRejectsNonFiniteCLV(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		records := sampleRecords()
		records[2].EstimatedCLV = v

		_, err := NewTable("memory", records)
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "row 3: EstimatedCLV must be finite")
	}
}

func TestRecordsReturnsCopy(t *testing.T) {
	table, err := NewTable("memory", sampleRecords())
	require.NoError(t, err)

	out := table.Records()
	out[0].Churn = 0

	assert.Equal(t, 1, table.At(0).Churn)
}

func TestSlice(t *testing.T) {
	table, err := NewTable("memory", sampleRecords())
	require.NoError(t, err)

	tests := []struct {
		name          string
		offset, limit int
		wantIDs       []string
	}{
		{"first two", 0, 2, []string{"1", "2"}},
		{"past end clamps", 1, 10, []string{"2", "3"}},
		{"offset beyond table", 5, 2, []string{}},
		{"negative offset", -1, 1, []string{"1"}},
		{"zero limit", 0, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := []string{}
			for _, rec := range table.Slice(tt.offset, tt.limit) {
				ids = append(ids, rec.CustomerID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestEachStopsEarly(t *testing.T) {
	table, err := NewTable("memory", sampleRecords())
	require.NoError(t, err)

	visited := 0
	table.Each(func(i int, rec Record) bool {
		visited++
		return i < 1
	})
	assert.Equal(t, 2, visited)
}

func TestNilTable(t *testing.T) {
	var table *Table
	assert.Equal(t, 0, table.Len())
	assert.Nil(t, table.Records())
	assert.Empty(t, table.Slice(0, 10))
}
