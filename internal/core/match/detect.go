package match

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

// DetectThreshold is the minimum fuzzy score for a header to be accepted as
// a canonical field's source column.
const DetectThreshold = 80

// DetectColumns maps dataset headers to canonical fields. It runs once per
// dataset load, costing O(columns x synonyms), and never per row. Fields
// whose best header score falls below the threshold stay undetected.
func DetectColumns(headers []string, syn Synonyms) domain.FieldDetection {
	detection := domain.FieldDetection{}
	for _, field := range domain.AllFields {
		if header, score := bestHeader(headers, syn[field]); score >= DetectThreshold {
			detection[field] = header
		}
	}
	return detection
}

func bestHeader(headers, phrases []string) (string, int) {
	bestHeader, bestScore := "", 0
	for _, header := range headers {
		for _, phrase := range phrases {
			score := fuzzy.Ratio(NormalizeString(header), NormalizeString(phrase))
			if score > bestScore {
				bestScore = score
				bestHeader = header
			}
		}
	}
	return bestHeader, bestScore
}
