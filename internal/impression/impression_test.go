// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package impression

import (
	"strings"
	"testing"

	"github.com/medcheck-kr/medcheck/internal/compound"
	"github.com/medcheck-kr/medcheck/internal/department"
	"github.com/medcheck-kr/medcheck/internal/mandatory"
	"github.com/medcheck-kr/medcheck/internal/matcher"
	"github.com/medcheck-kr/medcheck/internal/rules"
)

func TestAnalyzeTone_Promotional(t *testing.T) {
	tone := analyzeTone("봄맞이 할인 이벤트! 특가 혜택을 놓치지 마세요. 선착순 마감!")

	if tone.Primary != TonePromotional && tone.Primary != ToneUrgent {
		t.Errorf("expected a pressuring primary tone, got %s", tone.Primary)
	}
	if tone.Score >= 0 {
		t.Errorf("pure pressure text should score negative, got %.2f", tone.Score)
	}
	if tone.Aggressiveness != 1.0 {
		t.Errorf("all-pressuring text should have aggressiveness 1.0, got %.2f", tone.Aggressiveness)
	}
}

func TestAnalyzeTone_Professional(t *testing.T) {
	tone := analyzeTone("전문의가 의학적 근거와 임상 연구를 바탕으로 정밀 진단 후 안내해 드립니다. 주의사항을 설명합니다.")

	if tone.Primary != ToneProfessional {
		t.Errorf("expected professional tone, got %s", tone.Primary)
	}
	if tone.Score <= 0 {
		t.Errorf("credible text should score positive, got %.2f", tone.Score)
	}
	if tone.Aggressiveness != 0 {
		t.Errorf("credible text should have zero aggressiveness, got %.2f", tone.Aggressiveness)
	}
}

func TestAnalyzeTone_Neutral(t *testing.T) {
	tone := analyzeTone("진료 시간은 평일 오전 9시부터입니다.")

	if tone.Primary != ToneNeutral {
		t.Errorf("expected neutral for signal-free text, got %s", tone.Primary)
	}
	if tone.Score != 0 || tone.Aggressiveness != 0 {
		t.Errorf("neutral text should have zero scores, got %.2f / %.2f", tone.Score, tone.Aggressiveness)
	}
}

func TestAnalyzeCredibility_Bounds(t *testing.T) {
	pileOn := "100% 보장! 부작용 전혀 없고 재발 없는 유일한 최고의 영구적 시술. " +
		"타 병원보다 낫고 당일 완치됩니다."
	c := analyzeCredibility(pileOn)
	if c.Score < 0 || c.Score > 100 {
		t.Fatalf("score %d out of [0,100]", c.Score)
	}
	if c.Score != 0 {
		t.Errorf("every negative factor should floor the score at 0, got %d", c.Score)
	}
	if c.Impression != "suspicious" {
		t.Errorf("expected suspicious impression, got %q", c.Impression)
	}
	if len(c.NegativeFactors) < 5 {
		t.Errorf("expected many negative factors, got %v", c.NegativeFactors)
	}
}

func TestAnalyzeCredibility_PositiveFactors(t *testing.T) {
	text := "식약처 허가 장비 사용. 개인에 따라 차이가 있을 수 있으며 부작용이 발생할 수 있습니다. 전문의와 상담하세요."
	c := analyzeCredibility(text)

	if c.Score <= 50 {
		t.Errorf("disclosure-heavy text should score above the 50 baseline, got %d", c.Score)
	}
	if c.Impression != "high" {
		t.Errorf("expected high impression, got %q", c.Impression)
	}
	if len(c.NegativeFactors) != 0 {
		t.Errorf("expected no negative factors, got %v", c.NegativeFactors)
	}
}

func TestViolationScore(t *testing.T) {
	matches := []matcher.Match{
		{Severity: rules.PatternCritical}, // 25
		{Severity: rules.PatternMinor},    // 5
	}
	compounds := []compound.Violation{{Severity: rules.PatternMajor}} // 20
	dept := []department.Violation{{Severity: rules.PatternCritical}} // 20

	if got := violationScore(matches, compounds, dept); got != 70 {
		t.Errorf("expected 70, got %v", got)
	}

	var many []matcher.Match
	for i := 0; i < 10; i++ {
		many = append(many, matcher.Match{Severity: rules.PatternCritical})
	}
	if got := violationScore(many, nil, nil); got != 100 {
		t.Errorf("expected the 100 cap, got %v", got)
	}
}

func TestRiskLevels(t *testing.T) {
	cases := []struct {
		score float64
		level rules.RiskLevel
	}{
		{90, rules.RiskCritical},
		{80, rules.RiskCritical},
		{60, rules.RiskHigh},
		{40, rules.RiskMedium},
		{20, rules.RiskLow},
		{10, rules.RiskSafe},
	}
	for _, tc := range cases {
		if got := riskLevel(tc.score); got != tc.level {
			t.Errorf("score %.0f: expected %s, got %s", tc.score, tc.level, got)
		}
	}
}

func TestAnalyze_HighRiskPage(t *testing.T) {
	text := "100% 완치 보장! 부작용 전혀 없는 유일한 시술. 오늘만 특가 할인, 지금 바로 예약하세요!"
	matches := []matcher.Match{
		{Severity: rules.PatternCritical, Text: "100% 완치 보장"},
		{Severity: rules.PatternCritical, Text: "부작용 전혀 없는"},
		{Severity: rules.PatternMajor, Text: "유일한 시술"},
	}
	mand := &mandatory.Result{Score: 0, MissingRequired: []string{"institution_name"}}

	a := New().Analyze(text, matches, nil, nil, mand)

	if a.RiskLevel != rules.RiskCritical && a.RiskLevel != rules.RiskHigh {
		t.Errorf("expected high or critical risk, got %s (score %.1f)", a.RiskLevel, a.RiskScore)
	}
	if a.RiskScore < 0 || a.RiskScore > 100 {
		t.Errorf("risk score %.1f out of range", a.RiskScore)
	}
	if a.ComplianceScore != 100-a.RiskScore {
		t.Errorf("compliance must mirror risk, got %.1f vs %.1f", a.ComplianceScore, a.RiskScore)
	}
	if len(a.KeyIssues) == 0 {
		t.Error("critical matches should surface as key issues")
	}
	if len(a.Recommendations) == 0 {
		t.Error("a risky page should carry recommendations")
	}

	joined := strings.Join(a.KeyIssues, "\n")
	if !strings.Contains(joined, "필수 표기 누락") {
		t.Errorf("missing disclosures should be a key issue, got %v", a.KeyIssues)
	}
}

func TestAnalyze_CleanPage(t *testing.T) {
	text := "진료 안내입니다. 전문의가 정밀 진단 후 치료 방법과 주의사항을 설명해 드립니다. " +
		"효과는 개인에 따라 차이가 있을 수 있으며 부작용이 발생할 수 있습니다."
	mand := &mandatory.Result{Score: 100}

	a := New().Analyze(text, nil, nil, nil, mand)

	if a.RiskLevel != rules.RiskSafe && a.RiskLevel != rules.RiskLow {
		t.Errorf("expected safe or low risk, got %s (score %.1f)", a.RiskLevel, a.RiskScore)
	}
	if a.Credibility.Score <= 50 {
		t.Errorf("expected credibility above baseline, got %d", a.Credibility.Score)
	}
	if len(a.KeyIssues) != 0 {
		t.Errorf("clean page should have no key issues, got %v", a.KeyIssues)
	}
}

func TestAnalyze_ConfidenceBounds(t *testing.T) {
	short := New().Analyze("짧은 글", nil, nil, nil, nil)
	if short.Confidence < 0.5 || short.Confidence > 0.95 {
		t.Errorf("confidence %.2f out of [0.5,0.95]", short.Confidence)
	}
	if short.Confidence != 0.55 {
		t.Errorf("short text without violations should sit at 0.55, got %.2f", short.Confidence)
	}

	long := New().Analyze(strings.Repeat("진료 안내 문구. ", 100),
		[]matcher.Match{{Severity: rules.PatternMajor}}, nil, nil, nil)
	if long.Confidence != 0.85 {
		t.Errorf("long text with one violation should score 0.85, got %.2f", long.Confidence)
	}
}

func TestAnalyze_MissingMandatoryRaisesRisk(t *testing.T) {
	text := "진료 안내 문구입니다."
	withMand := New().Analyze(text, nil, nil, nil, &mandatory.Result{Score: 100})
	withoutMand := New().Analyze(text, nil, nil, nil, &mandatory.Result{Score: 0})

	if withoutMand.RiskScore <= withMand.RiskScore {
		t.Errorf("missing disclosures must raise risk: %.1f vs %.1f",
			withoutMand.RiskScore, withMand.RiskScore)
	}
}
