package match

import (
	"testing"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

func TestDetectColumnsExactHeaders(t *testing.T) {
	headers := []string{"Client Name", "Date of Accident", "Birth Date", "Reason for Visit"}

	detection := DetectColumns(headers, DefaultSynonyms())

	want := map[domain.Field]string{
		domain.FieldName:     "Client Name",
		domain.FieldDOA:      "Date of Accident",
		domain.FieldDOB:      "Birth Date",
		domain.FieldReferral: "Reason for Visit",
	}
	for field, header := range want {
		if detection[field] != header {
			t.Fatalf("field %s detected as %q, want %q", field, detection[field], header)
		}
	}
}

func TestDetectColumnsIsCaseInsensitive(t *testing.T) {
	detection := DetectColumns([]string{"DATE OF BIRTH"}, DefaultSynonyms())
	if detection[domain.FieldDOB] != "DATE OF BIRTH" {
		t.Fatalf("expected uppercase header to be detected, got %q", detection[domain.FieldDOB])
	}
}

func TestDetectColumnsLeavesUnrelatedHeadersUndetected(t *testing.T) {
	detection := DetectColumns([]string{"Invoice Total", "Account Number"}, DefaultSynonyms())
	if len(detection) != 0 {
		t.Fatalf("expected no detected fields, got %v", detection)
	}
}

func TestDetectColumnsToleratesNearMisses(t *testing.T) {
	// A minor header variation must still clear the detection threshold.
	detection := DetectColumns([]string{"Patient  Name"}, DefaultSynonyms())
	if detection[domain.FieldName] != "Patient  Name" {
		t.Fatalf("expected fuzzy header to be detected, got %q", detection[domain.FieldName])
	}
}
