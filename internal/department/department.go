// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package department detects which medical specialty a page advertises and
// applies that specialty's rule overlay.
package department

import (
	"strings"
	"unicode/utf8"

	"github.com/medcheck-kr/medcheck/internal/rules"
)

// Detection is the outcome of specialty detection.
type Detection struct {
	Department rules.Department `json:"department"`
	Confidence float64          `json:"confidence"`
	Score      int              `json:"score"`
	Evidence   []string         `json:"evidence,omitempty"`
}

// Violation is one specialty rule hit.
type Violation struct {
	RuleID      string                `json:"rule_id"`
	Department  rules.Department      `json:"department"`
	Category    rules.Category        `json:"category"`
	Text        string                `json:"text"`
	Start       int                   `json:"start"` // rune offset
	End         int                   `json:"end"`   // rune offset, exclusive
	Context     string                `json:"context"`
	Severity    rules.PatternSeverity `json:"severity"`
	LegalBasis  string                `json:"legal_basis"`
	Description string                `json:"description"`
	Suggestion  string                `json:"suggestion"`
	Confidence  float64               `json:"confidence"`
}

// Engine scores specialty signals and evaluates overlay rules. Safe for
// concurrent use.
type Engine struct {
	dict *rules.Dictionary
}

// New creates an Engine over the given dictionary.
func New(dict *rules.Dictionary) *Engine {
	return &Engine{dict: dict}
}

const maxEvidence = 3

// Detect returns the top-scoring specialty. Regex hits score 2 points, bare
// keywords 1; confidence is min(0.95, score*0.1). No signal means general.
func (e *Engine) Detect(text string) Detection {
	best := Detection{Department: rules.DeptGeneral}
	if strings.TrimSpace(text) == "" {
		return best
	}

	for _, profile := range e.dict.Profiles {
		score := 0
		var evidence []string
		for _, re := range profile.Patterns {
			if hit := re.FindString(text); hit != "" {
				score += 2
				if len(evidence) < maxEvidence {
					evidence = append(evidence, hit)
				}
			}
		}
		for _, kw := range profile.Keywords {
			if strings.Contains(text, kw) {
				score++
				if len(evidence) < maxEvidence {
					evidence = append(evidence, kw)
				}
			}
		}
		if score > best.Score {
			best = Detection{
				Department: profile.Department,
				Score:      score,
				Evidence:   evidence,
			}
		}
	}

	if best.Score > 0 {
		best.Confidence = float64(best.Score) * 0.1
		if best.Confidence > 0.95 {
			best.Confidence = 0.95
		}
	}
	return best
}

// Check runs the full automatic analysis: detect the specialty, apply its
// rule set, and overlay the general rules whenever a specific specialty was
// detected.
func (e *Engine) Check(text string) (Detection, []Violation) {
	detection := e.Detect(text)
	violations := e.CheckWithDepartment(text, detection.Department)
	if detection.Department != rules.DeptGeneral {
		violations = append(violations, e.CheckWithDepartment(text, rules.DeptGeneral)...)
	}
	return detection, violations
}

// CheckWithDepartment applies only the given specialty's rule set.
func (e *Engine) CheckWithDepartment(text string, dept rules.Department) []Violation {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []Violation
	for _, rule := range e.dict.PatternsForDepartment(dept) {
		if v, ok := evalRule(rule, text); ok {
			out = append(out, v)
		}
	}
	return out
}

// evalRule tries each pattern in order; the first match wins and the rule
// emits at most one violation. A rule-level exception near the hit voids it.
func evalRule(rule rules.DepartmentRule, text string) (Violation, bool) {
	for _, re := range rule.Patterns {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if rule.Exception != nil && rule.Exception.MatchString(windowAround(text, loc[0], loc[1], 50)) {
			return Violation{}, false
		}

		matched := text[loc[0]:loc[1]]
		confidence := 0.7
		switch rule.Severity {
		case rules.PatternCritical:
			confidence += 0.15
		case rules.PatternMajor:
			confidence += 0.10
		}
		if utf8.RuneCountInString(matched) >= 10 {
			confidence += 0.05
		}
		if confidence > 0.95 {
			confidence = 0.95
		}

		return Violation{
			RuleID:      rule.ID,
			Department:  rule.Department,
			Category:    rule.Category,
			Text:        matched,
			Start:       utf8.RuneCountInString(text[:loc[0]]),
			End:         utf8.RuneCountInString(text[:loc[1]]),
			Context:     windowAround(text, loc[0], loc[1], 50),
			Severity:    rule.Severity,
			LegalBasis:  rule.LegalBasis,
			Description: rule.Description,
			Suggestion:  rule.Suggestion,
			Confidence:  confidence,
		}, true
	}
	return Violation{}, false
}

// windowAround returns ±radius runes around the byte range.
func windowAround(text string, byteStart, byteEnd, radius int) string {
	start := byteStart
	for i := 0; i < radius && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	end := byteEnd
	for i := 0; i < radius && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	return text[start:end]
}
