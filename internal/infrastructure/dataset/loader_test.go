package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

const sampleCSV = `Client Name,Date of Accident,Birth Date
John Smith,2023-05-10,1980-01-01
 ,  ,
Jane Doe,,1975-03-20
`

func TestLoadReaderCSV(t *testing.T) {
	loader := NewLoader()

	table, err := loader.LoadReader(context.Background(), "reference.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}
	if len(table.Headers) != 3 || table.Headers[0] != "Client Name" {
		t.Fatalf("unexpected headers: %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("blank rows must be skipped, got %d rows", len(table.Rows))
	}
	if table.Rows[0]["Client Name"] != "John Smith" {
		t.Fatalf("unexpected first row: %v", table.Rows[0])
	}
	if table.Rows[1]["Date of Accident"] != "" {
		t.Fatalf("missing cell must stay empty, got %q", table.Rows[1]["Date of Accident"])
	}
}

func TestLoadReaderUnsupportedExtension(t *testing.T) {
	loader := NewLoader()

	_, err := loader.LoadReader(context.Background(), "reference.json", strings.NewReader("{}"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid-input kind, got %v", err)
	}
	if !domain.IsTerminal(err) {
		t.Fatalf("unsupported file type must be terminal")
	}
}

func TestLoadReaderRejectsLegacyXLS(t *testing.T) {
	loader := NewLoader()

	_, err := loader.LoadReader(context.Background(), "reference.xls", strings.NewReader("\xd0\xcf\x11\xe0"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid-input kind, got %v", err)
	}
	if !strings.Contains(err.Error(), ".xlsx") {
		t.Fatalf("error must point at the supported format, got %v", err)
	}
}

func TestLoadReaderEmptyFile(t *testing.T) {
	loader := NewLoader()

	_, err := loader.LoadReader(context.Background(), "reference.csv", strings.NewReader(""))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid-input kind for missing header row, got %v", err)
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write sample file: %v", err)
	}

	loader := NewLoader()
	table, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
}
