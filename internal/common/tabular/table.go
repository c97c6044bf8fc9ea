// internal/common/tabular/table.go
package tabular

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"recruit-analytics/internal/common/errors"
)

// ParseWarning is a non-fatal issue found while reading the upload.
type ParseWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Table is a decoded upload. Every row has exactly len(Headers) cells.
// Row numbers count the header as row 1, matching what a spreadsheet shows.
type Table struct {
	Headers  []string
	Rows     [][]string
	Warnings []ParseWarning
	Encoding string

	index      map[string]int
	rowNumbers []int
}

// New builds a table from rows already in memory. Short rows are padded.
func New(headers []string, rows [][]string) *Table {
	t := &Table{Headers: headers, index: make(map[string]int, len(headers))}
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if _, dup := t.index[h]; h != "" && !dup {
			t.index[h] = i
		}
	}
	for i, row := range rows {
		if len(row) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, row)
			row = padded
		}
		t.Rows = append(t.Rows, row[:len(headers)])
		t.rowNumbers = append(t.rowNumbers, i+2)
	}
	return t
}

// Column returns the position of header, or -1 when the upload lacks it.
func (t *Table) Column(header string) int {
	if i, ok := t.index[strings.TrimSpace(header)]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether header is present.
func (t *Table) HasColumn(header string) bool {
	return t.Column(header) >= 0
}

// RowNumber returns the spreadsheet row number of Rows[i].
func (t *Table) RowNumber(i int) int {
	return t.rowNumbers[i]
}

// Parse decodes data and reads it as comma separated values with a header row.
// Any failure, including an unterminated or stray quote, is a MALFORMED_ROSTER
// error; no partial table is returned.
func Parse(data []byte) (*Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewMalformedRosterError(stderrors.New("empty file"))
	}

	decoded, enc, err := Decode(data)
	if err != nil {
		return nil, errors.NewMalformedRosterError(err)
	}

	table, err := read(decoded)
	if err != nil {
		return nil, errors.NewMalformedRosterError(err)
	}
	table.Encoding = enc
	return table, nil
}

// ParseString is Parse for text already held as a string, such as a job variable.
func ParseString(s string) (*Table, error) {
	return Parse([]byte(s))
}

// ParseBase64 reads an upload passed as base64, which keeps Shift_JIS and
// UTF-16 exports intact inside JSON variables.
func ParseBase64(s string) (*Table, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.NewMalformedRosterError(fmt.Errorf("invalid base64 upload: %w", err))
	}
	return Parse(data)
}

func read(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no header row found")
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	t := &Table{index: make(map[string]int, len(headers))}
	blank := true
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		headers[i] = h
		if h == "" {
			continue
		}
		blank = false
		if _, dup := t.index[h]; dup {
			t.Warnings = append(t.Warnings, ParseWarning{
				Row:     1,
				Message: fmt.Sprintf("duplicate header %q; using the first occurrence", h),
			})
			continue
		}
		t.index[h] = i
	}
	if blank {
		return nil, fmt.Errorf("header row is blank")
	}
	t.Headers = headers

	width := len(headers)
	for {
		row, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		switch {
		case len(row) < width:
			t.Warnings = append(t.Warnings, ParseWarning{
				Row:     line,
				Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(row), width),
			})
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		case len(row) > width:
			t.Warnings = append(t.Warnings, ParseWarning{
				Row:     line,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), width),
			})
			row = row[:width]
		}

		t.Rows = append(t.Rows, row)
		t.rowNumbers = append(t.rowNumbers, line)
	}

	return t, nil
}
