// Package dataset parses reference dataset files (CSV or XLSX) into the
// untyped table the matching engine's column detector works on.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

// Load reads a dataset file from disk. Unsupported extensions are input
// errors, reported immediately and never retried.
func (l *Loader) Load(ctx context.Context, path string) (domain.DatasetTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.DatasetTable{}, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()
	return l.LoadReader(ctx, path, f)
}

func (l *Loader) LoadReader(_ context.Context, filename string, r io.Reader) (domain.DatasetTable, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return loadCSV(r)
	case ".xlsx":
		return loadXLSX(r)
	case ".xls":
		// excelize reads only OOXML workbooks; the legacy binary format
		// would fail deep inside the parser with a misleading error.
		return domain.DatasetTable{}, domain.WrapError(
			domain.ErrInvalidInput,
			"load dataset",
			fmt.Errorf("legacy .xls workbooks are not supported, convert to .xlsx"),
		)
	}
	return domain.DatasetTable{}, domain.WrapError(
		domain.ErrInvalidInput,
		"load dataset",
		fmt.Errorf("unsupported dataset file type %q, want .csv or .xlsx", filepath.Ext(filename)),
	)
}

func loadCSV(r io.Reader) (domain.DatasetTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return domain.DatasetTable{}, fmt.Errorf("read csv: %w", err)
	}
	return tableFromRows(rows)
}

func loadXLSX(r io.Reader) (domain.DatasetTable, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return domain.DatasetTable{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return domain.DatasetTable{}, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return domain.DatasetTable{}, fmt.Errorf("read xlsx rows: %w", err)
	}
	return tableFromRows(rows)
}

func tableFromRows(rows [][]string) (domain.DatasetTable, error) {
	if len(rows) == 0 {
		return domain.DatasetTable{}, domain.WrapError(
			domain.ErrInvalidInput, "load dataset", fmt.Errorf("missing header row"))
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := domain.DatasetTable{Headers: headers}
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		m := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				m[header] = strings.TrimSpace(row[i])
			}
		}
		table.Rows = append(table.Rows, m)
	}
	return table, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
