// Package match implements the record-linkage engine: column detection on
// heterogeneous datasets, field normalization, per-field similarity scoring
// and tiered verdict classification.
package match

import (
	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

// Synonyms lists the known header/label phrases for each canonical field.
// Fixed at build time; the detector fuzzy-matches dataset headers against
// these, the label mapper matches extraction labels exactly.
type Synonyms map[domain.Field][]string

func DefaultSynonyms() Synonyms {
	return Synonyms{
		domain.FieldName:     {"Name", "Client Name", "Patient Name", "Full Name"},
		domain.FieldDOA:      {"DOA", "Date of Accident", "Date of Injury", "Service Date"},
		domain.FieldDOB:      {"DOB", "Date of Birth", "Birth Date", "Birth"},
		domain.FieldReferral: {"Referral", "Reason for Visit", "Referral Notes", "Referral Details", "Referral Note", "Instructions"},
	}
}

// CanonicalField maps a free-text extraction label onto a canonical field.
// Matching is case-insensitive and exact; unknown labels are discarded.
func (s Synonyms) CanonicalField(label string) (domain.Field, bool) {
	needle := NormalizeString(label)
	if needle == "" {
		return "", false
	}
	for _, field := range domain.AllFields {
		for _, phrase := range s[field] {
			if NormalizeString(phrase) == needle {
				return field, true
			}
		}
	}
	return "", false
}
