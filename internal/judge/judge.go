// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package judge normalizes raw pattern matches into the violation taxonomy
// and computes the weighted clean score and letter grade.
package judge

import (
	"fmt"

	"github.com/medcheck-kr/medcheck/internal/matcher"
	"github.com/medcheck-kr/medcheck/internal/rules"
)

// Violation is one normalized violation.
type Violation struct {
	Type        rules.Category `json:"type"`
	Status      rules.Status   `json:"status"`
	Severity    rules.Severity `json:"severity"`
	Text        string         `json:"text"`
	Start       int            `json:"start"`
	End         int            `json:"end"`
	Description string         `json:"description"`
	LegalBasis  string         `json:"legal_basis"`
	Confidence  float64        `json:"confidence"`
	PatternID   string         `json:"pattern_id"`
	Label       string         `json:"label"`
	Suggestion  string         `json:"suggestion"`
	// Downgraded is set when a disclaimer reduced the severity one step.
	Downgraded bool `json:"downgraded,omitempty"`
}

// Score is the weighted compliance score and grade.
type Score struct {
	CleanScore         float64                    `json:"clean_score"`
	TotalDeduction     float64                    `json:"total_deduction"`
	SeverityDeductions map[rules.Severity]float64 `json:"severity_deductions"`
	SeverityCounts     map[rules.Severity]int     `json:"severity_counts"`
	CategoryDeductions map[rules.Category]float64 `json:"category_deductions"`
	Grade              rules.Grade                `json:"grade"`
	GradeLabel         string                     `json:"grade_label"`
	Section            rules.SectionType          `json:"section"`
	Recommendations    []string                   `json:"recommendations"`
}

// Engine converts matches into violations and scores. Safe for concurrent
// use.
type Engine struct {
	dict *rules.Dictionary
}

// New creates an Engine over the given dictionary.
func New(dict *rules.Dictionary) *Engine {
	return &Engine{dict: dict}
}

// Base deductions per output severity.
var baseDeductions = map[rules.Severity]float64{
	rules.SeverityCritical: 25,
	rules.SeverityHigh:     15,
	rules.SeverityMedium:   8,
	rules.SeverityLow:      3,
}

// Category multipliers. Guarantee and false claims carry the heaviest legal
// exposure.
var categoryWeights = map[rules.Category]float64{
	rules.CategoryGuarantee:            1.3,
	rules.CategoryFalseClaim:           1.25,
	rules.CategoryProhibitedExpression: 1.2,
	rules.CategoryPriceInducement:      1.15,
	rules.CategoryExaggeration:         1.1,
	rules.CategoryComparison:           1.1,
	rules.CategoryBeforeAfter:          1.1,
	rules.CategoryTestimonial:          1.05,
	rules.CategoryOther:                1.0,
}

var categoryLabels = map[rules.Category]string{
	rules.CategoryGuarantee:            "치료효과 보장",
	rules.CategoryFalseClaim:           "거짓·단정 표현",
	rules.CategoryExaggeration:         "과장 광고",
	rules.CategoryComparison:           "비교 광고",
	rules.CategoryPriceInducement:      "가격 유인",
	rules.CategoryBeforeAfter:          "전후 사진",
	rules.CategoryTestimonial:          "치료경험담",
	rules.CategoryProhibitedExpression: "금지 표현",
	rules.CategoryOther:                "기타",
}

// Judge converts matches into normalized violations and computes the score
// for the given section. An empty section defaults to general weighting.
func (e *Engine) Judge(matches []matcher.Match, section rules.SectionType) ([]Violation, Score) {
	if section == "" {
		section = rules.SectionGeneral
	}

	violations := make([]Violation, 0, len(matches))
	for _, m := range matches {
		violations = append(violations, e.normalize(m))
	}

	return violations, e.score(violations, section)
}

// normalize maps a match into the output taxonomy, applying the
// disclaimer-aware severity downgrade.
func (e *Engine) normalize(m matcher.Match) Violation {
	severity := mapSeverity(m.Severity)
	downgraded := false
	if m.DisclaimerDetected && !rules.AbsoluteViolation(m.PatternID) {
		severity = severity.Downgrade()
		downgraded = true
	}

	description := ""
	legalBasis := ""
	suggestion := ""
	if def, ok := e.dict.PatternByID(m.PatternID); ok {
		description = def.Description
		legalBasis = def.LegalBasis
		suggestion = def.Suggestion
	}

	return Violation{
		Type:        m.Category,
		Status:      statusFor(m.Confidence),
		Severity:    severity,
		Text:        m.Text,
		Start:       m.Start,
		End:         m.End,
		Description: description,
		LegalBasis:  legalBasis,
		Confidence:  m.Confidence,
		PatternID:   m.PatternID,
		Label:       categoryLabels[m.Category],
		Suggestion:  suggestion,
		Downgraded:  downgraded,
	}
}

// mapSeverity maps the three-level pattern severity onto the four-level
// output scale.
func mapSeverity(s rules.PatternSeverity) rules.Severity {
	switch s {
	case rules.PatternCritical:
		return rules.SeverityCritical
	case rules.PatternMajor:
		return rules.SeverityHigh
	}
	return rules.SeverityMedium
}

func statusFor(confidence float64) rules.Status {
	switch {
	case confidence >= 0.85:
		return rules.StatusViolation
	case confidence >= 0.70:
		return rules.StatusLikely
	}
	return rules.StatusPossible
}

// score computes deductions and derives the count-based grade.
func (e *Engine) score(violations []Violation, section rules.SectionType) Score {
	score := Score{
		CleanScore:         100,
		SeverityDeductions: make(map[rules.Severity]float64),
		SeverityCounts:     make(map[rules.Severity]int),
		CategoryDeductions: make(map[rules.Category]float64),
		Section:            section,
	}

	sectionWeight := section.Weight()
	for _, v := range violations {
		deduction := baseDeductions[v.Severity] * categoryWeight(v.Type) * sectionWeight * v.Confidence
		score.TotalDeduction += deduction
		score.SeverityDeductions[v.Severity] += deduction
		score.SeverityCounts[v.Severity]++
		score.CategoryDeductions[v.Type] += deduction
	}

	if score.TotalDeduction > 100 {
		score.TotalDeduction = 100
	}
	score.CleanScore = 100 - score.TotalDeduction

	score.Grade = gradeFromCounts(score.SeverityCounts)
	score.GradeLabel = gradeLabels[score.Grade]
	score.Recommendations = e.recommend(violations)
	return score
}

func categoryWeight(c rules.Category) float64 {
	if w, ok := categoryWeights[c]; ok {
		return w
	}
	return 1.0
}

var gradeLabels = map[rules.Grade]string{
	rules.GradeS: "위반 없음",
	rules.GradeA: "경미한 주의",
	rules.GradeB: "개선 권고",
	rules.GradeC: "개선 필요",
	rules.GradeD: "중대 위반 포함",
	rules.GradeF: "광고 게재 불가 수준",
}

// gradeFromCounts derives the letter grade from severity counts, not the
// raw score: a single critical violation can never grade above C.
func gradeFromCounts(counts map[rules.Severity]int) rules.Grade {
	critical := counts[rules.SeverityCritical]
	high := counts[rules.SeverityHigh]
	medium := counts[rules.SeverityMedium]
	low := counts[rules.SeverityLow]

	switch {
	case critical == 0 && high == 0 && medium == 0 && low == 0:
		return rules.GradeS
	case critical == 0 && high == 0 && medium <= 2:
		return rules.GradeA
	case critical == 0 && high <= 1:
		return rules.GradeB
	case critical == 0:
		return rules.GradeC
	case critical <= 2:
		return rules.GradeD
	}
	return rules.GradeF
}

// recommend builds the advisory text: one line per severity bucket present
// plus category-specific boilerplate.
func (e *Engine) recommend(violations []Violation) []string {
	bySeverity := make(map[rules.Severity]int)
	byCategory := make(map[rules.Category]int)
	for _, v := range violations {
		bySeverity[v.Severity]++
		byCategory[v.Type]++
	}

	var recs []string
	if n := bySeverity[rules.SeverityCritical]; n > 0 {
		recs = append(recs, fmt.Sprintf("즉시 수정이 필요한 중대 위반이 %d건 있습니다. 게재 중단을 검토하세요.", n))
	}
	if n := bySeverity[rules.SeverityHigh]; n > 0 {
		recs = append(recs, fmt.Sprintf("높은 위험의 위반이 %d건 있습니다. 문구 수정을 권고합니다.", n))
	}
	if n := bySeverity[rules.SeverityMedium]; n > 0 {
		recs = append(recs, fmt.Sprintf("중간 위험의 표현이 %d건 있습니다. 표현 완화를 검토하세요.", n))
	}
	if n := bySeverity[rules.SeverityLow]; n > 0 {
		recs = append(recs, fmt.Sprintf("경미한 주의 표현이 %d건 있습니다.", n))
	}

	if byCategory[rules.CategoryGuarantee] > 0 {
		recs = append(recs, "효과 보장 문구에는 \"개인에 따라 차이가 있을 수 있습니다\" 고지를 추가하세요.")
	}
	if byCategory[rules.CategoryTestimonial] > 0 {
		recs = append(recs, "치료경험담은 의료광고에 사용할 수 없습니다. 해당 콘텐츠를 삭제하세요.")
	}
	if byCategory[rules.CategoryBeforeAfter] > 0 {
		recs = append(recs, "전후 사진에는 시술 정보와 부작용 고지를 병기하세요.")
	}
	if byCategory[rules.CategoryPriceInducement] > 0 {
		recs = append(recs, "할인·무료 제공 중심의 구성은 환자 유인으로 판단될 수 있습니다.")
	}
	if byCategory[rules.CategoryComparison] > 0 {
		recs = append(recs, "타 의료기관과의 비교 문구를 삭제하세요.")
	}
	return recs
}
