package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/nwss-report/internal/domain"
)

// CSVReader streams rows from a CSV file whose first record is the header.
type CSVReader struct {
	r      *csv.Reader
	closer io.Closer
	header []string
}

// OpenCSV opens path and reads its header.
func OpenCSV(path string) (*CSVReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewCSVReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.closer = f
	return r, nil
}

// NewCSVReader reads the header from src. Close does not close src.
func NewCSVReader(src io.Reader) (*CSVReader, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	return &CSVReader{r: r, header: normalizeHeader(header)}, nil
}

func (c *CSVReader) Read() (domain.RawRecord, error) {
	row, err := c.r.Read()
	if errors.Is(err, io.EOF) {
		return domain.RawRecord{}, io.EOF
	}
	if err != nil {
		return domain.RawRecord{}, fmt.Errorf("read csv: %w", err)
	}
	line, _ := c.r.FieldPos(0)
	return domain.RawRecord{Line: line, Fields: rowFields(c.header, row)}, nil
}

func (c *CSVReader) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
