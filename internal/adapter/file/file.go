// Package file reads header-driven NWSS exports into raw rows.
package file

import (
	"path/filepath"
	"strings"

	"github.com/couchcryptid/nwss-report/internal/domain"
)

// Reader yields raw rows in file order. Read returns io.EOF after the last row.
type Reader interface {
	Read() (domain.RawRecord, error)
	Close() error
}

// Open picks a reader by extension: .xlsx files are read from their first
// sheet, anything else is treated as CSV.
func Open(path string) (Reader, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return OpenXLSX(path, "")
	}
	return OpenCSV(path)
}

// rowFields zips a header with one row. Columns past the end of a short row
// are left out so that reading them reports a missing field.
func rowFields(header, row []string) map[string]string {
	fields := make(map[string]string, len(header))
	for j, h := range header {
		if j < len(row) {
			fields[h] = row[j]
		}
	}
	return fields
}

// normalizeHeader strips a UTF-8 byte order mark and surrounding spaces.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
