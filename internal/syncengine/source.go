package syncengine

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
)

// CSVSource fetches published spreadsheet CSV exports over HTTP and turns
// them into rows for the engine.
type CSVSource struct {
	client *http.Client
}

// NewCSVSource builds a source with a bounded request timeout.
func NewCSVSource(timeout time.Duration) *CSVSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CSVSource{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads the CSV at url and parses it into rows.
func (s *CSVSource) Fetch(ctx context.Context, url string) ([]Row, error) {
	if strings.TrimSpace(url) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source url is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "build source request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch source")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("source returned status %d", resp.StatusCode))
	}

	return ParseCSV(resp.Body)
}

// ParseCSV reads header-first CSV data into rows keyed by header name.
// Short records are tolerated; missing trailing cells read as empty.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read csv header")
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read csv row")
		}

		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
