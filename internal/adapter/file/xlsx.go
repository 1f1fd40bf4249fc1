package file

import (
	"errors"
	"fmt"
	"io"

	"github.com/couchcryptid/nwss-report/internal/domain"
	"github.com/xuri/excelize/v2"
)

// XLSXReader streams rows from one worksheet whose first row is the header.
type XLSXReader struct {
	file   *excelize.File
	rows   *excelize.Rows
	header []string
	line   int
}

// OpenXLSX opens a workbook and reads the header of sheet, or of the first
// sheet when sheet is empty.
func OpenXLSX(path, sheet string) (*XLSXReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}

	r, err := newXLSXReader(f, sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func newXLSXReader(f *excelize.File, sheet string) (*XLSXReader, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if !rows.Next() {
		rows.Close()
		if err := rows.Error(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, errors.New("no header row")
	}
	header, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("read header: %w", err)
	}

	return &XLSXReader{file: f, rows: rows, header: normalizeHeader(header), line: 1}, nil
}

// Read returns the next non-blank row. Worksheets drop trailing empty cells,
// so every header column is present and short rows are padded with "".
func (x *XLSXReader) Read() (domain.RawRecord, error) {
	for x.rows.Next() {
		x.line++
		cols, err := x.rows.Columns()
		if err != nil {
			return domain.RawRecord{}, fmt.Errorf("line %d: read xlsx: %w", x.line, err)
		}
		if len(cols) == 0 {
			continue
		}
		fields := make(map[string]string, len(x.header))
		for j, h := range x.header {
			if j < len(cols) {
				fields[h] = cols[j]
			} else {
				fields[h] = ""
			}
		}
		return domain.RawRecord{Line: x.line, Fields: fields}, nil
	}
	if err := x.rows.Error(); err != nil {
		return domain.RawRecord{}, fmt.Errorf("read xlsx: %w", err)
	}
	return domain.RawRecord{}, io.EOF
}

func (x *XLSXReader) Close() error {
	rowsErr := x.rows.Close()
	if err := x.file.Close(); err != nil {
		return err
	}
	return rowsErr
}
