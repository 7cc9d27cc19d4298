// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package impression aggregates tone, credibility, violation and disclosure
// signals into an overall risk judgment for a page.
package impression

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/medcheck-kr/medcheck/internal/compound"
	"github.com/medcheck-kr/medcheck/internal/department"
	"github.com/medcheck-kr/medcheck/internal/mandatory"
	"github.com/medcheck-kr/medcheck/internal/matcher"
	"github.com/medcheck-kr/medcheck/internal/rules"
)

// Tone names one tone bucket.
type Tone string

const (
	ToneAggressive   Tone = "aggressive"
	TonePromotional  Tone = "promotional"
	ToneEmotional    Tone = "emotional"
	ToneReassuring   Tone = "reassuring"
	ToneUrgent       Tone = "urgent"
	ToneProfessional Tone = "professional"
	ToneInformative  Tone = "informative"
	ToneNeutral      Tone = "neutral"
)

// ToneAnalysis is the weighted tone assessment.
type ToneAnalysis struct {
	Primary        Tone    `json:"primary"`
	Secondary      []Tone  `json:"secondary,omitempty"`
	Score          float64 `json:"score"`          // [-1,1], credible vs pressuring
	Aggressiveness float64 `json:"aggressiveness"` // [0,1]
}

// CredibilityAnalysis is the factor-weighted credibility assessment.
type CredibilityAnalysis struct {
	Score           int      `json:"score"` // [0,100]
	Impression      string   `json:"impression"`
	PositiveFactors []string `json:"positive_factors,omitempty"`
	NegativeFactors []string `json:"negative_factors,omitempty"`
}

// Analysis is the overall impression of a page.
type Analysis struct {
	RiskLevel       rules.RiskLevel     `json:"risk_level"`
	RiskScore       float64             `json:"risk_score"` // [0,100]
	Tone            ToneAnalysis        `json:"tone"`
	Credibility     CredibilityAnalysis `json:"credibility"`
	ComplianceScore float64             `json:"compliance_score"`
	Assessment      string              `json:"assessment"`
	KeyIssues       []string            `json:"key_issues,omitempty"`
	Recommendations []string            `json:"recommendations,omitempty"`
	Confidence      float64             `json:"confidence"` // [0.5,0.95]
}

// Analyzer computes impressions. Safe for concurrent use; all tables are
// package-level and immutable.
type Analyzer struct{}

// New creates an Analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// toneBucket pairs weighted probes with a tone.
type toneBucket struct {
	tone   Tone
	probes []toneProbe
}

type toneProbe struct {
	re     *regexp.Regexp
	weight int
}

var toneBuckets = []toneBucket{
	{ToneAggressive, []toneProbe{
		{regexp.MustCompile(`지금\s*(당장|바로)`), 3},
		{regexp.MustCompile(`놓치지\s*마세요`), 2},
		{regexp.MustCompile(`서두르세요|필수`), 2},
	}},
	{TonePromotional, []toneProbe{
		{regexp.MustCompile(`할인|특가|세일`), 3},
		{regexp.MustCompile(`이벤트|프로모션|혜택`), 2},
		{regexp.MustCompile(`무료|증정`), 2},
	}},
	{ToneEmotional, []toneProbe{
		{regexp.MustCompile(`고민|콤플렉스|스트레스`), 2},
		{regexp.MustCompile(`자신감|당당하게|새로운\s*(나|인생)`), 2},
	}},
	{ToneReassuring, []toneProbe{
		{regexp.MustCompile(`안심|안전하게`), 2},
		{regexp.MustCompile(`걱정\s*(마세요|없이)`), 2},
		{regexp.MustCompile(`꼼꼼한?\s*(관리|케어)`), 1},
	}},
	{ToneUrgent, []toneProbe{
		{regexp.MustCompile(`선착순|한정|마감`), 3},
		{regexp.MustCompile(`오늘\s*(만|까지)|기간\s*한정`), 2},
	}},
	{ToneProfessional, []toneProbe{
		{regexp.MustCompile(`전문의|의학적|임상`), 3},
		{regexp.MustCompile(`논문|학회|연구`), 2},
		{regexp.MustCompile(`정밀\s*(진단|검사)`), 2},
	}},
	{ToneInformative, []toneProbe{
		{regexp.MustCompile(`안내|설명|정보`), 2},
		{regexp.MustCompile(`방법|과정|절차`), 1},
		{regexp.MustCompile(`주의사항|유의사항`), 2},
	}},
}

var credibleTones = map[Tone]bool{
	ToneProfessional: true,
	ToneInformative:  true,
	ToneReassuring:   true,
}

var pressuringTones = map[Tone]bool{
	ToneAggressive:  true,
	ToneUrgent:      true,
	TonePromotional: true,
	ToneEmotional:   true,
}

// credibilityFactor is one weighted positive or negative credibility probe.
type credibilityFactor struct {
	re     *regexp.Regexp
	label  string
	weight int
}

var positiveFactors = []credibilityFactor{
	{regexp.MustCompile(`의료법|의료광고\s*심의`), "법령·심의 근거 인용", 5},
	{regexp.MustCompile(`식약처|FDA|보건복지부`), "공인 기관 언급", 8},
	{regexp.MustCompile(`논문|학회지?|임상\s*(시험|연구)`), "연구 결과 인용", 8},
	{regexp.MustCompile(`개인(마다|에\s*따라)\s*(차이|다를)`), "개인차 고지", 10},
	{regexp.MustCompile(`부작용[이은]?\s*(있을|발생할)\s*수\s*있`), "부작용 고지", 7},
	{regexp.MustCompile(`전문의와?\s*상담`), "전문의 상담 안내", 6},
	{regexp.MustCompile(`사전\s*검사|정밀\s*진단`), "사전 검사 안내", 5},
}

var negativeFactors = []credibilityFactor{
	{regexp.MustCompile(`100\s*%\s*(보장|만족|완치)`), "100% 보장 표현", 15},
	{regexp.MustCompile(`부작용[이은]?\s*(전혀|절대)?\s*없`), "부작용 부정", 15},
	{regexp.MustCompile(`최고|최초|유일`), "최상급 표현", 10},
	{regexp.MustCompile(`타\s*(병원|의원)(보다|에\s*비해)`), "타 기관 비교", 12},
	{regexp.MustCompile(`당일\s*완치|하루\s*만에`), "즉시 완치 주장", 12},
	{regexp.MustCompile(`영구적|반영구`), "영구 효과 주장", 10},
	{regexp.MustCompile(`재발\s*(전혀)?\s*없`), "재발 없음 주장", 10},
}

// Analyze aggregates every signal. Any of the slice/pointer inputs may be
// nil when the corresponding stage was disabled.
func (a *Analyzer) Analyze(text string, matches []matcher.Match, compounds []compound.Violation, deptViolations []department.Violation, mand *mandatory.Result) Analysis {
	tone := analyzeTone(text)
	credibility := analyzeCredibility(text)
	violationScore := violationScore(matches, compounds, deptViolations)

	mandatoryScore := 100.0
	if mand != nil {
		mandatoryScore = float64(mand.Score)
	}

	toneRisk := (tone.Aggressiveness + (1 - (tone.Score+1)/2)) * 50

	riskScore := violationScore*0.4 +
		(100-float64(credibility.Score))*0.25 +
		toneRisk*0.2 +
		(100-mandatoryScore)*0.15
	if riskScore > 100 {
		riskScore = 100
	}
	if riskScore < 0 {
		riskScore = 0
	}

	analysis := Analysis{
		RiskLevel:       riskLevel(riskScore),
		RiskScore:       riskScore,
		Tone:            tone,
		Credibility:     credibility,
		ComplianceScore: 100 - riskScore,
		Confidence:      analysisConfidence(text, matches, compounds, deptViolations),
	}
	analysis.KeyIssues = keyIssues(matches, compounds, deptViolations, mand)
	analysis.Assessment = assessment(analysis.RiskLevel, tone.Primary, credibility.Impression)
	analysis.Recommendations = recommendations(analysis, mand)
	return analysis
}

// analyzeTone scores the eight buckets and derives the tone and
// aggressiveness scores from the credible/pressuring weight split.
func analyzeTone(text string) ToneAnalysis {
	scores := make(map[Tone]int)
	for _, bucket := range toneBuckets {
		for _, probe := range bucket.probes {
			scores[bucket.tone] += probe.weight * len(probe.re.FindAllString(text, -1))
		}
	}

	primary := ToneNeutral
	best := 0
	var secondary []Tone
	for _, bucket := range toneBuckets {
		if scores[bucket.tone] > best {
			best = scores[bucket.tone]
			primary = bucket.tone
		}
	}
	for _, bucket := range toneBuckets {
		if bucket.tone != primary && scores[bucket.tone] > 0 {
			secondary = append(secondary, bucket.tone)
		}
	}

	credible := 0
	pressuring := 0
	for tone, score := range scores {
		if credibleTones[tone] {
			credible += score
		}
		if pressuringTones[tone] {
			pressuring += score
		}
	}

	toneScore := 0.0
	if credible+pressuring > 0 {
		toneScore = float64(credible-pressuring) / float64(credible+pressuring)
	}
	aggressiveness := 0.0
	if total := credible + pressuring; total > 0 {
		aggressiveness = float64(pressuring) / float64(total)
	}

	return ToneAnalysis{
		Primary:        primary,
		Secondary:      secondary,
		Score:          toneScore,
		Aggressiveness: aggressiveness,
	}
}

// analyzeCredibility starts at 50 and applies the factor weights, clamped to
// [0,100].
func analyzeCredibility(text string) CredibilityAnalysis {
	score := 50
	var positives, negatives []string

	for _, f := range positiveFactors {
		if f.re.MatchString(text) {
			score += f.weight
			positives = append(positives, f.label)
		}
	}
	for _, f := range negativeFactors {
		if f.re.MatchString(text) {
			score -= f.weight
			negatives = append(negatives, f.label)
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return CredibilityAnalysis{
		Score:           score,
		Impression:      credibilityImpression(score),
		PositiveFactors: positives,
		NegativeFactors: negatives,
	}
}

func credibilityImpression(score int) string {
	switch {
	case score >= 70:
		return "high"
	case score >= 50:
		return "medium"
	case score >= 30:
		return "low"
	}
	return "suspicious"
}

// violationScore sums fixed point values per severity across the three
// violation sources, capped at 100.
func violationScore(matches []matcher.Match, compounds []compound.Violation, deptViolations []department.Violation) float64 {
	score := 0.0
	for _, m := range matches {
		switch m.Severity {
		case rules.PatternCritical:
			score += 25
		case rules.PatternMajor:
			score += 15
		default:
			score += 5
		}
	}
	for _, v := range compounds {
		switch v.Severity {
		case rules.PatternCritical:
			score += 30
		case rules.PatternMajor:
			score += 20
		default:
			score += 10
		}
	}
	for _, v := range deptViolations {
		switch v.Severity {
		case rules.PatternCritical:
			score += 20
		case rules.PatternMajor:
			score += 12
		default:
			score += 5
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

func riskLevel(score float64) rules.RiskLevel {
	switch {
	case score >= 80:
		return rules.RiskCritical
	case score >= 60:
		return rules.RiskHigh
	case score >= 40:
		return rules.RiskMedium
	case score >= 20:
		return rules.RiskLow
	}
	return rules.RiskSafe
}

// analysisConfidence scales with text length and violation count: longer
// text and clearer signals make the aggregate judgment more reliable.
func analysisConfidence(text string, matches []matcher.Match, compounds []compound.Violation, deptViolations []department.Violation) float64 {
	confidence := 0.7

	length := utf8.RuneCountInString(text)
	switch {
	case length >= 500:
		confidence += 0.10
	case length >= 200:
		confidence += 0.05
	case length < 50:
		confidence -= 0.15
	}

	violations := len(matches) + len(compounds) + len(deptViolations)
	switch {
	case violations >= 5:
		confidence += 0.10
	case violations >= 1:
		confidence += 0.05
	}

	if confidence > 0.95 {
		confidence = 0.95
	}
	if confidence < 0.5 {
		confidence = 0.5
	}
	return confidence
}

func keyIssues(matches []matcher.Match, compounds []compound.Violation, deptViolations []department.Violation, mand *mandatory.Result) []string {
	var issues []string
	for _, m := range matches {
		if m.Severity == rules.PatternCritical {
			issues = append(issues, "중대 위반: "+strings.TrimSpace(m.Text))
		}
	}
	for _, v := range compounds {
		issues = append(issues, "복합 위반: "+v.Name)
	}
	for _, v := range deptViolations {
		if v.Severity == rules.PatternCritical {
			issues = append(issues, "진료과목 위반: "+v.Description)
		}
	}
	if mand != nil {
		for _, missing := range mand.MissingRequired {
			issues = append(issues, "필수 표기 누락: "+missing)
		}
		issues = append(issues, mand.Warnings...)
	}
	return issues
}

func assessment(level rules.RiskLevel, primary Tone, credibility string) string {
	switch level {
	case rules.RiskCritical:
		return "광고 게재가 어려운 수준의 위험이 확인되었습니다. 전면 재작성이 필요합니다."
	case rules.RiskHigh:
		return "다수의 위반 신호가 확인되었습니다. 게재 전 수정이 필요합니다."
	case rules.RiskMedium:
		return "주의가 필요한 표현이 확인되었습니다. 부분 수정을 권고합니다."
	case rules.RiskLow:
		if credibility == "high" {
			return "전반적으로 양호하나 일부 표현의 완화를 권고합니다."
		}
		return "경미한 주의 사항이 있습니다."
	}
	if primary == ToneProfessional || primary == ToneInformative {
		return "정보 전달 중심의 안정적인 광고입니다."
	}
	return "특이 위험이 확인되지 않았습니다."
}

func recommendations(a Analysis, mand *mandatory.Result) []string {
	var recs []string
	if a.Tone.Aggressiveness > 0.6 {
		recs = append(recs, "압박·유인형 어조를 정보 제공형으로 완화하세요.")
	}
	if a.Credibility.Score < 50 {
		recs = append(recs, "근거 없는 단정 표현을 줄이고 임상·연구 근거를 제시하세요.")
	}
	if len(a.Credibility.NegativeFactors) > 0 && len(a.Credibility.PositiveFactors) == 0 {
		recs = append(recs, "개인차·부작용 고지를 추가해 신뢰도를 보완하세요.")
	}
	if mand != nil && len(mand.MissingRequired) > 0 {
		recs = append(recs, "의료기관 명칭·소재지·전화번호 등 필수 표기를 보완하세요.")
	}
	if a.RiskLevel == rules.RiskCritical || a.RiskLevel == rules.RiskHigh {
		recs = append(recs, "수정 후 의료광고 자율심의를 다시 받는 것을 권고합니다.")
	}
	return recs
}
