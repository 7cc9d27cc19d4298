// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package judge

import (
	"math"
	"strings"
	"testing"

	"github.com/medcheck-kr/medcheck/internal/matcher"
	"github.com/medcheck-kr/medcheck/internal/rules"
)

func newMatch(patternID string, category rules.Category, severity rules.PatternSeverity, confidence float64) matcher.Match {
	return matcher.Match{
		PatternID:  patternID,
		Category:   category,
		Severity:   severity,
		Text:       "표본 문구",
		Confidence: confidence,
	}
}

func TestJudge_SeverityMapping(t *testing.T) {
	matches := []matcher.Match{
		newMatch("MED-GU-001", rules.CategoryGuarantee, rules.PatternCritical, 0.9),
		newMatch("MED-GU-003", rules.CategoryGuarantee, rules.PatternMajor, 0.8),
		newMatch("MED-FC-004", rules.CategoryFalseClaim, rules.PatternMinor, 0.72),
	}

	violations, _ := New(rules.Builtin()).Judge(matches, rules.SectionGeneral)
	if len(violations) != 3 {
		t.Fatalf("expected 3 violations, got %d", len(violations))
	}
	if violations[0].Severity != rules.SeverityCritical {
		t.Errorf("critical should map to critical, got %s", violations[0].Severity)
	}
	if violations[1].Severity != rules.SeverityHigh {
		t.Errorf("major should map to high, got %s", violations[1].Severity)
	}
	if violations[2].Severity != rules.SeverityMedium {
		t.Errorf("minor should map to medium, got %s", violations[2].Severity)
	}
}

func TestJudge_StatusThresholds(t *testing.T) {
	cases := []struct {
		confidence float64
		status     rules.Status
	}{
		{0.90, rules.StatusViolation},
		{0.85, rules.StatusViolation},
		{0.80, rules.StatusLikely},
		{0.70, rules.StatusLikely},
		{0.60, rules.StatusPossible},
	}
	engine := New(rules.Builtin())
	for _, tc := range cases {
		violations, _ := engine.Judge([]matcher.Match{
			newMatch("MED-GU-003", rules.CategoryGuarantee, rules.PatternMajor, tc.confidence),
		}, rules.SectionGeneral)
		if violations[0].Status != tc.status {
			t.Errorf("confidence %.2f: expected %s, got %s", tc.confidence, tc.status, violations[0].Status)
		}
	}
}

func TestJudge_DisclaimerDowngrade(t *testing.T) {
	m := newMatch("MED-GU-002", rules.CategoryGuarantee, rules.PatternCritical, 0.85)
	m.DisclaimerDetected = true

	violations, _ := New(rules.Builtin()).Judge([]matcher.Match{m}, rules.SectionGeneral)
	v := violations[0]
	if v.Severity != rules.SeverityHigh {
		t.Errorf("disclaimer should downgrade critical to high, got %s", v.Severity)
	}
	if !v.Downgraded {
		t.Error("downgrade flag should be set")
	}
}

func TestJudge_AbsoluteViolationNeverDowngrades(t *testing.T) {
	for _, id := range []string{"MED-GU-001", "MED-FC-002", "MED-TS-001"} {
		m := newMatch(id, rules.CategoryGuarantee, rules.PatternCritical, 0.9)
		m.DisclaimerDetected = true

		violations, _ := New(rules.Builtin()).Judge([]matcher.Match{m}, rules.SectionGeneral)
		if violations[0].Severity != rules.SeverityCritical {
			t.Errorf("%s must stay critical despite a disclaimer, got %s", id, violations[0].Severity)
		}
		if violations[0].Downgraded {
			t.Errorf("%s must not carry the downgrade flag", id)
		}
	}
}

func TestJudge_DowngradeFloorsAtLow(t *testing.T) {
	m := newMatch("MED-PI-003", rules.CategoryPriceInducement, rules.PatternMinor, 0.72)
	m.DisclaimerDetected = true

	violations, _ := New(rules.Builtin()).Judge([]matcher.Match{m}, rules.SectionGeneral)
	if violations[0].Severity != rules.SeverityLow {
		t.Errorf("minor with disclaimer should land on low, got %s", violations[0].Severity)
	}
}

func TestJudge_DeductionFormula(t *testing.T) {
	// critical guarantee at 0.9 in the general section:
	// 25 * 1.3 * 1.0 * 0.9 = 29.25
	_, score := New(rules.Builtin()).Judge([]matcher.Match{
		newMatch("MED-GU-001", rules.CategoryGuarantee, rules.PatternCritical, 0.9),
	}, rules.SectionGeneral)

	if math.Abs(score.TotalDeduction-29.25) > 1e-9 {
		t.Errorf("expected deduction 29.25, got %v", score.TotalDeduction)
	}
	if math.Abs(score.CleanScore-70.75) > 1e-9 {
		t.Errorf("expected clean score 70.75, got %v", score.CleanScore)
	}
	if score.SeverityCounts[rules.SeverityCritical] != 1 {
		t.Errorf("expected 1 critical, got %v", score.SeverityCounts)
	}
}

func TestJudge_SectionWeighting(t *testing.T) {
	match := newMatch("MED-GU-001", rules.CategoryGuarantee, rules.PatternCritical, 0.9)
	engine := New(rules.Builtin())

	_, treatment := engine.Judge([]matcher.Match{match}, rules.SectionTreatment)
	_, faq := engine.Judge([]matcher.Match{match}, rules.SectionFAQ)
	if treatment.TotalDeduction <= faq.TotalDeduction {
		t.Errorf("treatment pages must be judged harder than FAQs: %.2f vs %.2f",
			treatment.TotalDeduction, faq.TotalDeduction)
	}

	_, blank := engine.Judge([]matcher.Match{match}, "")
	if blank.Section != rules.SectionGeneral {
		t.Errorf("empty section should default to general, got %s", blank.Section)
	}
}

func TestJudge_DeductionCap(t *testing.T) {
	var matches []matcher.Match
	for i := 0; i < 10; i++ {
		matches = append(matches, newMatch("MED-GU-001", rules.CategoryGuarantee, rules.PatternCritical, 0.95))
	}

	_, score := New(rules.Builtin()).Judge(matches, rules.SectionTreatment)
	if score.TotalDeduction != 100 {
		t.Errorf("deduction must cap at 100, got %v", score.TotalDeduction)
	}
	if score.CleanScore != 0 {
		t.Errorf("clean score floor is 0, got %v", score.CleanScore)
	}
}

func TestJudge_GradeTable(t *testing.T) {
	cases := []struct {
		name     string
		counts   map[rules.Severity]int
		expected rules.Grade
	}{
		{"no violations", map[rules.Severity]int{}, rules.GradeS},
		{"two mediums", map[rules.Severity]int{rules.SeverityMedium: 2}, rules.GradeA},
		{"three mediums", map[rules.Severity]int{rules.SeverityMedium: 3}, rules.GradeB},
		{"one high", map[rules.Severity]int{rules.SeverityHigh: 1}, rules.GradeB},
		{"two highs", map[rules.Severity]int{rules.SeverityHigh: 2}, rules.GradeC},
		{"one critical", map[rules.Severity]int{rules.SeverityCritical: 1}, rules.GradeD},
		{"three criticals", map[rules.Severity]int{rules.SeverityCritical: 3}, rules.GradeF},
	}
	for _, tc := range cases {
		if got := gradeFromCounts(tc.counts); got != tc.expected {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.expected, got)
		}
	}
}

func TestJudge_EmptyMatches(t *testing.T) {
	violations, score := New(rules.Builtin()).Judge(nil, rules.SectionGeneral)
	if len(violations) != 0 {
		t.Errorf("expected no violations, got %d", len(violations))
	}
	if score.CleanScore != 100 || score.Grade != rules.GradeS {
		t.Errorf("clean text scores 100/S, got %.1f/%s", score.CleanScore, score.Grade)
	}
	if score.GradeLabel != "위반 없음" {
		t.Errorf("unexpected grade label %q", score.GradeLabel)
	}
}

func TestJudge_EnrichesFromDictionary(t *testing.T) {
	violations, _ := New(rules.Builtin()).Judge([]matcher.Match{
		newMatch("MED-GU-001", rules.CategoryGuarantee, rules.PatternCritical, 0.9),
	}, rules.SectionGeneral)

	v := violations[0]
	if v.Description == "" || v.LegalBasis == "" || v.Suggestion == "" {
		t.Errorf("violation should carry dictionary metadata: %+v", v)
	}
	if !strings.Contains(v.LegalBasis, "의료법") {
		t.Errorf("legal basis should cite the statute, got %q", v.LegalBasis)
	}
	if v.Label != "치료효과 보장" {
		t.Errorf("unexpected label %q", v.Label)
	}
}

func TestJudge_Recommendations(t *testing.T) {
	_, score := New(rules.Builtin()).Judge([]matcher.Match{
		newMatch("MED-GU-001", rules.CategoryGuarantee, rules.PatternCritical, 0.9),
		newMatch("MED-TS-001", rules.CategoryTestimonial, rules.PatternMajor, 0.8),
	}, rules.SectionGeneral)

	joined := strings.Join(score.Recommendations, "\n")
	if !strings.Contains(joined, "중대 위반") {
		t.Errorf("expected a critical-severity recommendation, got %v", score.Recommendations)
	}
	if !strings.Contains(joined, "치료경험담") {
		t.Errorf("expected a testimonial recommendation, got %v", score.Recommendations)
	}
}
