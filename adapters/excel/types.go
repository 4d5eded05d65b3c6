package excel

// TabularData is a header row plus string cells, in file order.
type TabularData struct {
	Headers []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named header, or -1.
func (d *TabularData) ColumnIndex(name string) int {
	for i, h := range d.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns row[col], or "" when the row is shorter than the header.
func (d *TabularData) Cell(row, col int) string {
	r := d.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}
