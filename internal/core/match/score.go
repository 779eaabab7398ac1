package match

import (
	"time"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

const (
	nameMatchThreshold            = 90
	defaultReferralMatchThreshold = 70

	// DefaultDateToleranceDays is the date-of-accident tolerance window.
	DefaultDateToleranceDays = 3
)

// Scorer computes per-field similarity between an extracted record and a
// dataset record. All comparisons are pure functions of their inputs, so
// scoring is safe to run in parallel across dataset rows.
//
// ReferralMatchThreshold is owned by the classification policy; the engine
// fills it in from the policy when left unset.
type Scorer struct {
	DateToleranceDays      int
	ReferralMatchThreshold int
}

func NewScorer(dateToleranceDays int) Scorer {
	if dateToleranceDays <= 0 {
		dateToleranceDays = DefaultDateToleranceDays
	}
	return Scorer{DateToleranceDays: dateToleranceDays}
}

// Compare scores one (extracted, dataset-row) pair.
func (s Scorer) Compare(ex *domain.ExtractedRecord, row domain.DatasetRecord) domain.FieldComparison {
	exDOA := ParseDate(ex.DOA)
	exDOB := ParseDate(ex.DOB)

	nameScore := NameScore(ex.Name, row.Name)
	referralScore := ReferralScore(ex.Referral, row.Referral)

	referralThreshold := s.ReferralMatchThreshold
	if referralThreshold <= 0 {
		referralThreshold = defaultReferralMatchThreshold
	}

	return domain.FieldComparison{
		NameScore:     nameScore,
		NameMatch:     nameScore > nameMatchThreshold,
		DOAMatch:      s.DatesWithinTolerance(exDOA, row.DOA),
		DOBMatch:      DatesEqual(exDOB, row.DOB),
		ReferralScore: referralScore,
		ReferralMatch: referralScore > referralThreshold,
	}
}

// NameScore is a token-order-insensitive fuzzy ratio in [0,100].
func NameScore(a, b string) int {
	return fuzzy.TokenSortRatio(NormalizeString(a), NormalizeString(b))
}

// ReferralScore is a substring-tolerant fuzzy ratio in [0,100]; an empty
// side scores zero.
func ReferralScore(a, b string) int {
	na, nb := NormalizeString(a), NormalizeString(b)
	if na == "" || nb == "" {
		return 0
	}
	return fuzzy.PartialRatio(na, nb)
}

// DatesWithinTolerance requires both sides to carry a parsed date and their
// absolute day difference to stay within the tolerance window.
func (s Scorer) DatesWithinTolerance(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	days := int(DateOnly(a).Sub(DateOnly(b)).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days <= s.DateToleranceDays
}

// DatesEqual requires both sides to carry a parsed date and be the same
// calendar day.
func DatesEqual(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return DateOnly(a).Equal(DateOnly(b))
}
