package dataset

import (
	"fmt"
	"math"
	"strconv"

	"churnboard/adapters/excel"
	"churnboard/domain/customer"
	"churnboard/internal/errors"
)

// BuildTable converts raw cells into a customer table. Missing required
// columns are a schema mismatch; unparseable Churn or EstimatedCLV cells are
// parse errors naming the offending row (1-based, header excluded).
func BuildTable(location string, data *excel.TabularData) (*customer.Table, error) {
	idx := make(map[string]int, len(customer.RequiredColumns))
	var missing []string
	for _, col := range customer.RequiredColumns {
		i := data.ColumnIndex(col)
		if i < 0 {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	if len(missing) > 0 {
		return nil, errors.SchemaMismatch(missing)
	}

	records := make([]customer.Record, len(data.Rows))
	for row := range data.Rows {
		churn, err := parseChurn(data.Cell(row, idx[customer.ColumnChurn]))
		if err != nil {
			return nil, errors.ParseErrorf("row %d: %s: %v", row+1, customer.ColumnChurn, err)
		}
		clv, err := parseCLV(data.Cell(row, idx[customer.ColumnEstimatedCLV]))
		if err != nil {
			return nil, errors.ParseErrorf("row %d: %s: %v", row+1, customer.ColumnEstimatedCLV, err)
		}
		records[row] = customer.Record{
			CustomerID:    data.Cell(row, idx[customer.ColumnCustomerID]),
			Churn:         churn,
			CustomerGroup: data.Cell(row, idx[customer.ColumnCustomerGroup]),
			EstimatedCLV:  clv,
			CLVSegment:    data.Cell(row, idx[customer.ColumnCLVSegment]),
		}
	}

	table, err := customer.NewTable(location, records)
	if err != nil {
		return nil, errors.Wrap(errors.ParseError(err.Error()), "invalid customer table")
	}
	return table, nil
}

// parseCLV rejects NaN and infinities, which ParseFloat accepts.
func parseCLV(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", raw)
	}
	return v, nil
}

// parseChurn accepts 0/1 in integer, float or boolean spelling.
func parseChurn(raw string) (int, error) {
	switch raw {
	case "0", "0.0", "false", "False", "FALSE":
		return 0, nil
	case "1", "1.0", "true", "True", "TRUE":
		return 1, nil
	}
	return 0, strconv.ErrSyntax
}
