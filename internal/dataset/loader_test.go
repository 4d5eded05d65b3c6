package dataset

import (
	"testing"

	"churnboard/adapters/excel"
	"churnboard/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tabular(headers []string, rows ...[]string) *excel.TabularData {
	return &excel.TabularData{Headers: headers, Rows: rows}
}

var fullHeader = []string{"CustomerID", "Age", "Churn", "CustomerGroup", "EstimatedCLV", "CLVSegment"}

func TestBuildTable(t *testing.T) {
	data := tabular(fullHeader,
		[]string{"15634602", "42", "1", "High Value - Churn", "1530.25", "High CLV"},
		[]string{"15647311", "41", "0", "Low Value - Retain", "88", "Low CLV"},
		[]string{"15619304", "42", "true", "Low Value - Churn", "1e2", "Low CLV"},
	)

	table, err := BuildTable("customers.csv", data)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	first := table.At(0)
	assert.Equal(t, "15634602", first.CustomerID)
	assert.Equal(t, 1, first.Churn)
	assert.Equal(t, "High Value - Churn", first.CustomerGroup)
	assert.Equal(t, 1530.25, first.EstimatedCLV)
	assert.Equal(t, "High CLV", first.CLVSegment)

	assert.Equal(t, 1, table.At(2).Churn)
	assert.Equal(t, 100.0, table.At(2).EstimatedCLV)
	assert.Equal(t, "customers.csv", table.Source())
}

func TestBuildTableColumnOrderIndependent(t *testing.T) {
	data := tabular(
		[]string{"CLVSegment", "EstimatedCLV", "CustomerGroup", "Churn", "CustomerID"},
		[]string{"Mid", "500", "High Value - Retain", "0", "7"},
	)

	table, err := BuildTable("x.csv", data)
	require.NoError(t, err)
	assert.Equal(t, "7", table.At(0).CustomerID)
	assert.Equal(t, "Mid", table.At(0).CLVSegment)
}

func TestBuildTableHeaderOnly(t *testing.T) {
	table, err := BuildTable("empty.csv", tabular(fullHeader))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestBuildTableMissingColumns(t *testing.T) {
	data := tabular([]string{"CustomerID", "Churn", "CustomerGroup"})

	_, err := BuildTable("x.csv", data)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaMismatch, errors.GetCode(err))
	assert.Contains(t, err.Error(), "EstimatedCLV, CLVSegment")
}

func TestBuildTableParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		row     []string
		wantMsg string
	}{
		{"churn out of range", []string{"1", "30", "2", "g", "10", "s"}, "row 1: Churn"},
		{"churn text", []string{"1", "30", "yes", "g", "10", "s"}, "row 1: Churn"},
		{"clv not numeric", []string{"1", "30", "0", "g", "n/a", "s"}, "row 1: EstimatedCLV"},
		{"clv empty", []string{"1", "30", "0", "g", "", "s"}, "row 1: EstimatedCLV"},
		{"clv NaN", []string{"1", "30", "0", "g", "NaN", "s"}, "row 1: EstimatedCLV"},
		{"clv infinite", []string{"1", "30", "0", "g", "Inf", "s"}, "row 1: EstimatedCLV"},
		{"clv negative infinite", []string{"1", "30", "0", "g", "-Inf", "s"}, "row 1: EstimatedCLV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTable("x.csv", tabular(fullHeader, tt.row))
			require.Error(t, err)
			assert.Equal(t, errors.CodeParseError, errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
