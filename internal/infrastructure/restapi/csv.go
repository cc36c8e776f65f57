package restapi

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
)

// Table is a parsed CSV report. The first record is the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// ParseCSV reads a report payload. Quoted fields may contain commas and
// newlines; rows may have a different number of fields than the header.
func ParseCSV(body []byte) (Table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var t Table
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, malformed("parse report", body, err)
		}
		if t.Header == nil {
			t.Header = rec
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}
