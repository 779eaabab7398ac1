package match

import (
	"time"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

// Engine wires the detector, scorer and policy into one matching run.
type Engine struct {
	synonyms Synonyms
	scorer   Scorer
	policy   Policy
}

func NewEngine(synonyms Synonyms, scorer Scorer, policy Policy) *Engine {
	if scorer.ReferralMatchThreshold <= 0 {
		scorer.ReferralMatchThreshold = policy.ReferralThreshold()
	}
	return &Engine{synonyms: synonyms, scorer: scorer, policy: policy}
}

func (e *Engine) Synonyms() Synonyms { return e.synonyms }

// BuildRecords runs column detection once over the table headers, then
// converts every row into a typed DatasetRecord. Undetected fields yield
// empty values on every record.
func (e *Engine) BuildRecords(table domain.DatasetTable) ([]domain.DatasetRecord, domain.FieldDetection) {
	detection := DetectColumns(table.Headers, e.synonyms)

	records := make([]domain.DatasetRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		records = append(records, BuildRecord(i, row, detection))
	}
	return records, detection
}

// BuildRecord types one raw row according to an existing detection map.
func BuildRecord(index int, row map[string]string, detection domain.FieldDetection) domain.DatasetRecord {
	value := func(f domain.Field) string {
		header, ok := detection[f]
		if !ok {
			return ""
		}
		return row[header]
	}
	return domain.DatasetRecord{
		Index:    index,
		Name:     value(domain.FieldName),
		DOA:      ParseDate(value(domain.FieldDOA)),
		DOB:      ParseDate(value(domain.FieldDOB)),
		Referral: value(domain.FieldReferral),
		Raw:      row,
	}
}

// Match scores the extracted record against every dataset record and returns
// one verdict per record, in dataset order. Deterministic for identical
// inputs.
func (e *Engine) Match(documentID string, ex *domain.ExtractedRecord, records []domain.DatasetRecord) []domain.MatchResult {
	now := time.Now().UTC()
	results := make([]domain.MatchResult, 0, len(records))
	for _, rec := range records {
		cmp := e.scorer.Compare(ex, rec)
		results = append(results, domain.MatchResult{
			DocumentID:   documentID,
			DatasetIndex: rec.Index,

			DatasetName:     rec.Name,
			DatasetDOA:      formatDate(rec.DOA),
			DatasetDOB:      formatDate(rec.DOB),
			DatasetReferral: rec.Referral,

			ExtractedName:     NormalizeString(ex.Name),
			ExtractedDOA:      formatDate(ParseDate(ex.DOA)),
			ExtractedDOB:      formatDate(ParseDate(ex.DOB)),
			ExtractedReferral: NormalizeString(ex.Referral),

			FieldComparison: cmp,
			Status:          e.policy.Classify(cmp),
			CreatedAt:       now,
		})
	}
	return results
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
