package match

import (
	"testing"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
)

func TestTieredPolicyPriorityOrder(t *testing.T) {
	policy := tieredPolicy{}

	cases := []struct {
		name string
		cmp  domain.FieldComparison
		want string
	}{
		{"all fields", domain.FieldComparison{NameMatch: true, DOAMatch: true, DOBMatch: true}, VerdictStrong},
		{"name and doa", domain.FieldComparison{NameMatch: true, DOAMatch: true}, VerdictProbable},
		{"name and dob", domain.FieldComparison{NameMatch: true, DOBMatch: true}, VerdictProbable},
		{"name only", domain.FieldComparison{NameMatch: true}, VerdictNameOnly},
		{"dates without name", domain.FieldComparison{DOAMatch: true, DOBMatch: true}, VerdictMismatch},
		{"nothing", domain.FieldComparison{}, VerdictMismatch},
	}
	for _, tc := range cases {
		if got := policy.Classify(tc.cmp); got != tc.want {
			t.Fatalf("%s: Classify() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestTwoTierPolicyUsesLooserNameThresholds(t *testing.T) {
	policy := twoTierPolicy{}

	cases := []struct {
		name string
		cmp  domain.FieldComparison
		want string
	}{
		{"exact", domain.FieldComparison{NameScore: 85, DOAMatch: true, DOBMatch: true}, VerdictExact},
		{"name 80 is not exact", domain.FieldComparison{NameScore: 80, DOAMatch: true, DOBMatch: true}, VerdictPartial},
		{"name alone above 70", domain.FieldComparison{NameScore: 75}, VerdictPartial},
		{"doa alone", domain.FieldComparison{DOAMatch: true}, VerdictPartial},
		{"dob alone", domain.FieldComparison{DOBMatch: true}, VerdictPartial},
		{"nothing", domain.FieldComparison{NameScore: 50}, VerdictMismatch},
	}
	for _, tc := range cases {
		if got := policy.Classify(tc.cmp); got != tc.want {
			t.Fatalf("%s: Classify() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestPolicyReferralThresholds(t *testing.T) {
	if got := (tieredPolicy{}).ReferralThreshold(); got != 70 {
		t.Fatalf("tiered referral threshold = %d, want 70", got)
	}
	if got := (twoTierPolicy{}).ReferralThreshold(); got != 80 {
		t.Fatalf("two-tier referral threshold = %d, want 80", got)
	}
}

func TestPolicyByName(t *testing.T) {
	if p, err := PolicyByName(""); err != nil || p.Name() != PolicyTiered {
		t.Fatalf("empty name must default to tiered, got %v, %v", p, err)
	}
	if p, err := PolicyByName(PolicyTwoTier); err != nil || p.Name() != PolicyTwoTier {
		t.Fatalf("expected two-tier policy, got %v, %v", p, err)
	}
	if _, err := PolicyByName("strictest"); err == nil {
		t.Fatalf("unknown policy name must error")
	}
}
