package grid

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/roach88/jqgrid/internal/ir"
	"github.com/roach88/jqgrid/internal/record"
)

// TotalPages returns the page count for totalRecords rows shown perPage
// at a time. There is always at least one page.
func TotalPages(totalRecords, perPage int) int {
	if perPage <= 0 || totalRecords <= 0 {
		return 1
	}
	return (totalRecords + perPage - 1) / perPage
}

// JSON serializes one page of records.
//
// The output is byte-exact for the grid widget:
//
//	{"page": 1, "total": 1, "records": 0}
//	{"page": 1, "total": 1, "records": 1, "rows": [ {"id": "10", "cell": ["aa","bb","cc"]}]}
//
// total is the page count derived from totalRecords and perPage; records
// echoes totalRecords. rows is present only when records is non-empty.
// Each row id is the record's "id" field, or its position in records.
func JSON(records []record.Record, columns []string, page, perPage, totalRecords int, cfg Config) string {
	var sb strings.Builder
	sb.WriteString(`{"page": `)
	sb.WriteString(strconv.Itoa(page))
	sb.WriteString(`, "total": `)
	sb.WriteString(strconv.Itoa(TotalPages(totalRecords, perPage)))
	sb.WriteString(`, "records": `)
	sb.WriteString(strconv.Itoa(totalRecords))

	if len(records) > 0 {
		res := cfg.resolver()
		paths := record.ParsePaths(columns)
		dateFormat := cfg.dateFormat()
		enc := newStringEncoder()

		sb.WriteString(`, "rows": [ `)
		for i, rec := range records {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(`{"id": `)
			enc.write(&sb, record.Identity(rec, i))
			sb.WriteString(`, "cell": [`)
			for j, p := range paths {
				if j > 0 {
					sb.WriteByte(',')
				}
				enc.write(&sb, ir.Text(res.Resolve(rec, p), dateFormat))
			}
			sb.WriteString(`]}`)
		}
		sb.WriteByte(']')
	}

	sb.WriteByte('}')
	return sb.String()
}

// stringEncoder writes JSON string literals without HTML escaping.
type stringEncoder struct {
	buf bytes.Buffer
	enc *json.Encoder
}

func newStringEncoder() *stringEncoder {
	e := &stringEncoder{}
	e.enc = json.NewEncoder(&e.buf)
	e.enc.SetEscapeHTML(false)
	return e
}

func (e *stringEncoder) write(sb *strings.Builder, s string) {
	e.buf.Reset()
	// Encoding a string cannot fail.
	_ = e.enc.Encode(s)
	sb.Write(bytes.TrimSuffix(e.buf.Bytes(), []byte{'\n'}))
}
