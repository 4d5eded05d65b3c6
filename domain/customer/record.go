package customer

// Column names of the customer dataset.
const (
	ColumnCustomerID    = "CustomerID"
	ColumnChurn         = "Churn"
	ColumnCustomerGroup = "CustomerGroup"
	ColumnEstimatedCLV  = "EstimatedCLV"
	ColumnCLVSegment    = "CLVSegment"
)

// RequiredColumns lists the columns every source must provide.
var RequiredColumns = []string{
	ColumnCustomerID,
	ColumnChurn,
	ColumnCustomerGroup,
	ColumnEstimatedCLV,
	ColumnCLVSegment,
}

// GroupHighValueChurn is the CustomerGroup label of high value customers who churned.
const GroupHighValueChurn = "High Value - Churn"

// Record is one customer row. Churn is 0 or 1.
type Record struct {
	CustomerID    string  `json:"customer_id" db:"CustomerID"`
	Churn         int     `json:"churn" db:"Churn"`
	CustomerGroup string  `json:"customer_group" db:"CustomerGroup"`
	EstimatedCLV  float64 `json:"estimated_clv" db:"EstimatedCLV"`
	CLVSegment    string  `json:"clv_segment" db:"CLVSegment"`
}

// Churned reports whether the customer left.
func (r Record) Churned() bool {
	return r.Churn == 1
}
