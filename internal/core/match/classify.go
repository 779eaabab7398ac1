package match

import (
	"fmt"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

const (
	VerdictStrong   = "Strong Match"
	VerdictProbable = "Probable Match"
	VerdictNameOnly = "Name Match Only"
	VerdictExact    = "Exact Match"
	VerdictPartial  = "Partial Match"
	VerdictMismatch = "Mismatch"
)

// Policy turns per-field comparison results into a single verdict label.
// Two historical schemes exist and are deliberately kept separate; which
// one is authoritative is a product decision, so both stay selectable.
type Policy interface {
	Name() string
	Classify(c domain.FieldComparison) string
	// ReferralThreshold is the minimum referral partial ratio this scheme
	// counts as a match; the two schemes historically disagreed on it.
	ReferralThreshold() int
}

const (
	PolicyTiered  = "tiered"
	PolicyTwoTier = "two-tier"
)

func PolicyByName(name string) (Policy, error) {
	switch name {
	case PolicyTiered, "":
		return tieredPolicy{}, nil
	case PolicyTwoTier:
		return twoTierPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown match policy %q", name)
}

// tieredPolicy is the four-level scheme: rules are evaluated in fixed
// priority order, first match wins.
type tieredPolicy struct{}

func (tieredPolicy) Name() string { return PolicyTiered }

func (tieredPolicy) ReferralThreshold() int { return 70 }

func (tieredPolicy) Classify(c domain.FieldComparison) string {
	switch {
	case c.NameMatch && c.DOAMatch && c.DOBMatch:
		return VerdictStrong
	case c.NameMatch && (c.DOAMatch || c.DOBMatch):
		return VerdictProbable
	case c.NameMatch:
		return VerdictNameOnly
	default:
		return VerdictMismatch
	}
}

// twoTierPolicy is the batch scheme with looser name thresholds.
type twoTierPolicy struct{}

func (twoTierPolicy) Name() string { return PolicyTwoTier }

func (twoTierPolicy) ReferralThreshold() int { return 80 }

func (twoTierPolicy) Classify(c domain.FieldComparison) string {
	switch {
	case c.NameScore > 80 && c.DOAMatch && c.DOBMatch:
		return VerdictExact
	case c.NameScore > 70 || c.DOAMatch || c.DOBMatch:
		return VerdictPartial
	default:
		return VerdictMismatch
	}
}
