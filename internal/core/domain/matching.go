package domain

import "time"

// Field identifies one of the four canonical attributes matched between an
// extracted document and dataset records.
type Field string

const (
	FieldName     Field = "name"
	FieldDOA      Field = "doa"
	FieldDOB      Field = "dob"
	FieldReferral Field = "referral"
)

var AllFields = []Field{FieldName, FieldDOA, FieldDOB, FieldReferral}

// DatasetRecord is one reference row, immutable for the duration of a
// matching run. A zero DOA/DOB means the date was absent or unparseable.
type DatasetRecord struct {
	Index    int       `json:"index"`
	Name     string    `json:"name"`
	DOA      time.Time `json:"doa,omitzero"`
	DOB      time.Time `json:"dob,omitzero"`
	Referral string    `json:"referral"`

	// Raw keeps the original column values for persistence and reporting.
	Raw map[string]string `json:"-"`
}

// ExtractedRecord is the merged field set produced from all chunks of one
// document. Repeated occurrences of a field are joined with "; ".
type ExtractedRecord struct {
	Name     string `json:"name"`
	DOA      string `json:"doa"`
	DOB      string `json:"dob"`
	Referral string `json:"referral"`
}

func (r *ExtractedRecord) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldDOA:
		return r.DOA
	case FieldDOB:
		return r.DOB
	case FieldReferral:
		return r.Referral
	}
	return ""
}

// Append merges another occurrence of a field, never overwriting an earlier one.
func (r *ExtractedRecord) Append(f Field, value string) {
	set := func(dst *string) {
		if *dst == "" {
			*dst = value
			return
		}
		*dst += "; " + value
	}
	switch f {
	case FieldName:
		set(&r.Name)
	case FieldDOA:
		set(&r.DOA)
	case FieldDOB:
		set(&r.DOB)
	case FieldReferral:
		set(&r.Referral)
	}
}

func (r *ExtractedRecord) IsEmpty() bool {
	return r.Name == "" && r.DOA == "" && r.DOB == "" && r.Referral == ""
}

// Fields returns the non-empty fields for persistence, in canonical order.
func (r *ExtractedRecord) Fields(documentID string) []ExtractedField {
	var out []ExtractedField
	for _, f := range AllFields {
		if v := r.Get(f); v != "" {
			out = append(out, ExtractedField{DocumentID: documentID, FieldName: string(f), FieldValue: v})
		}
	}
	return out
}

// DatasetTable is a raw parsed dataset file: a header row plus ordered rows
// keyed by header. Column meaning is decided later by the detector.
type DatasetTable struct {
	Headers []string
	Rows    []map[string]string
}

// FieldDetection maps each canonical field to the dataset column chosen for
// it. A missing key means the field was not detected in this dataset.
type FieldDetection map[Field]string

// FieldComparison holds the per-field scores and booleans for one
// (extracted, dataset-row) pair.
type FieldComparison struct {
	NameScore     int  `json:"name_score"`
	NameMatch     bool `json:"name_match"`
	DOAMatch      bool `json:"doa_match"`
	DOBMatch      bool `json:"dob_match"`
	ReferralScore int  `json:"referral_score"`
	ReferralMatch bool `json:"referral_match"`
}

// MatchResult is the verdict for one (document, dataset-row) pair.
// Append-only: one row per dataset record per processed document.
type MatchResult struct {
	DocumentID   string `json:"document_id"`
	DatasetIndex int    `json:"dataset_index"`

	DatasetName     string `json:"dataset_name"`
	DatasetDOA      string `json:"dataset_doa"`
	DatasetDOB      string `json:"dataset_dob"`
	DatasetReferral string `json:"dataset_referral"`

	ExtractedName     string `json:"extracted_name"`
	ExtractedDOA      string `json:"extracted_doa"`
	ExtractedDOB      string `json:"extracted_dob"`
	ExtractedReferral string `json:"extracted_referral"`

	FieldComparison

	Status    string    `json:"match_status"`
	CreatedAt time.Time `json:"created_at"`
}
