package engine

// TableData holds one table's generated values in column-major form.
// Columns are the only mutable state in a generation run, and only the
// constraint engine and the integrity resolver write to them.
type TableData struct {
	Name     string
	Columns  map[string][]interface{}
	RowCount int
}

// NewTableData allocates an empty table of the given row count.
func NewTableData(name string, rowCount int) *TableData {
	return &TableData{
		Name:     name,
		Columns:  make(map[string][]interface{}),
		RowCount: rowCount,
	}
}

// Rows materializes the table row-major in the given field order, for
// serialization.
func (t *TableData) Rows(fieldOrder []string) [][]interface{} {
	rows := make([][]interface{}, t.RowCount)
	for i := 0; i < t.RowCount; i++ {
		row := make([]interface{}, len(fieldOrder))
		for j, name := range fieldOrder {
			col := t.Columns[name]
			if i < len(col) {
				row[j] = col[i]
			}
		}
		rows[i] = row
	}
	return rows
}
