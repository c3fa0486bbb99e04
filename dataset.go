package tablesnap

import "strings"

// Row maps column names to cell values.
type Row map[string]string

// Dataset is an extracted table. Columns are fixed across all rows.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Validate returns an error if the dataset has no columns, repeats a
// column name, or holds a CRLF line break. CSV readers fold CRLF inside a
// quoted field to LF, so such a value could not be read back unchanged.
func (d *Dataset) Validate() error {
	if d == nil || len(d.Columns) == 0 {
		return Errorf(EINVALID, "dataset columns required")
	}
	seen := make(map[string]struct{}, len(d.Columns))
	for _, c := range d.Columns {
		if _, ok := seen[c]; ok {
			return Errorf(EINVALID, "duplicate dataset column %q", c)
		}
		seen[c] = struct{}{}
		if strings.Contains(c, "\r\n") {
			return Errorf(EINVALID, "dataset column %q contains a CRLF line break", c)
		}
	}
	for i, row := range d.Rows {
		for _, c := range d.Columns {
			if strings.Contains(row[c], "\r\n") {
				return Errorf(EINVALID, "dataset row %d column %q contains a CRLF line break", i, c)
			}
		}
	}
	return nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Values returns the cells of row i ordered by Columns.
// Missing cells are returned as empty strings.
func (d *Dataset) Values(i int) []string {
	out := make([]string, len(d.Columns))
	row := d.Rows[i]
	for j, c := range d.Columns {
		out[j] = row[c]
	}
	return out
}

// NewDataset builds a dataset from positional records, padding short
// records with empty values and dropping cells beyond the column count.
func NewDataset(columns []string, records [][]string) *Dataset {
	d := &Dataset{
		Columns: columns,
		Rows:    make([]Row, 0, len(records)),
	}
	for _, rec := range records {
		row := make(Row, len(columns))
		for j, c := range columns {
			if j < len(rec) {
				row[c] = rec[j]
			} else {
				row[c] = ""
			}
		}
		d.Rows = append(d.Rows, row)
	}
	return d
}
