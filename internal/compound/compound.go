// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package compound evaluates higher-order rules that only fire when a
// logical combination of atomic conditions holds in one text.
package compound

import (
	"strings"
	"unicode/utf8"

	"github.com/medcheck-kr/medcheck/internal/rules"
)

// Violation is one compound rule that fired.
type Violation struct {
	RuleID       string                `json:"rule_id"`
	Name         string                `json:"name"`
	Logic        rules.LogicOp         `json:"logic"`
	MatchedIDs   []string              `json:"matched_conditions"`
	UnmatchedIDs []string              `json:"unmatched_conditions,omitempty"`
	Evidence     string                `json:"evidence"`
	Start        int                   `json:"start"` // rune offset
	End          int                   `json:"end"`   // rune offset, exclusive
	Context      string                `json:"context"`
	Category     rules.Category        `json:"category"`
	Severity     rules.PatternSeverity `json:"severity"`
	LegalBasis   string                `json:"legal_basis"`
	Description  string                `json:"description"`
	Suggestion   string                `json:"suggestion"`
	Confidence   float64               `json:"confidence"`
}

// Detector evaluates the compound rule table. Safe for concurrent use.
type Detector struct {
	dict *rules.Dictionary
}

// New creates a Detector over the given dictionary.
func New(dict *rules.Dictionary) *Detector {
	return &Detector{dict: dict}
}

// conditionHit records where one condition matched.
type conditionHit struct {
	id        string
	text      string
	byteStart int
	byteEnd   int
}

// Detect evaluates every compound rule against the text.
func (d *Detector) Detect(text string) []Violation {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []Violation
	for _, rule := range d.dict.Compounds {
		if v, ok := d.evaluate(rule, text); ok {
			out = append(out, v)
		}
	}
	return out
}

func (d *Detector) evaluate(rule rules.CompoundRule, text string) (Violation, bool) {
	var hits []conditionHit
	var unmatched []string
	ok := false

	switch rule.Logic {
	case rules.LogicAnd:
		hits, unmatched, ok = evalAnd(rule, text)
	case rules.LogicOr:
		hits, unmatched, ok = evalOr(rule, text)
	case rules.LogicAndNot:
		hits, unmatched, ok = evalAndNot(rule, text)
	case rules.LogicSequence:
		hits, unmatched, ok = evalSequence(rule, text)
	}
	if !ok || len(hits) == 0 {
		return Violation{}, false
	}
	return assemble(rule, text, hits, unmatched), true
}

// evalAnd requires every non-exclusion required condition to match.
func evalAnd(rule rules.CompoundRule, text string) ([]conditionHit, []string, bool) {
	var hits []conditionHit
	for _, cond := range rule.Conditions {
		if cond.Exclusion {
			continue
		}
		hit, found := firstHit(cond, text, 0)
		if !found {
			if cond.Required {
				return nil, nil, false
			}
			continue
		}
		hits = append(hits, hit)
	}
	return hits, nil, len(hits) > 0
}

// evalOr requires at least MinConditionsMet conditions to match.
func evalOr(rule rules.CompoundRule, text string) ([]conditionHit, []string, bool) {
	min := rule.MinConditionsMet
	if min <= 0 {
		min = 1
	}
	var hits []conditionHit
	var unmatched []string
	for _, cond := range rule.Conditions {
		if hit, found := firstHit(cond, text, 0); found {
			hits = append(hits, hit)
		} else {
			unmatched = append(unmatched, cond.ID)
		}
	}
	return hits, unmatched, len(hits) >= min
}

// evalAndNot requires a required condition to match and voids the rule when
// any exclusion condition matches anywhere.
func evalAndNot(rule rules.CompoundRule, text string) ([]conditionHit, []string, bool) {
	for _, cond := range rule.Conditions {
		if !cond.Exclusion {
			continue
		}
		if _, found := firstHit(cond, text, 0); found {
			return nil, nil, false
		}
	}

	var hits []conditionHit
	matchedRequired := false
	for _, cond := range rule.Conditions {
		if cond.Exclusion {
			continue
		}
		hit, found := firstHit(cond, text, 0)
		if !found {
			if cond.Required {
				return nil, nil, false
			}
			continue
		}
		if cond.Required {
			matchedRequired = true
		}
		hits = append(hits, hit)
	}
	return hits, nil, matchedRequired
}

// evalSequence matches conditions in order against the remainder of the
// text. Each condition searches only text after the previous match, and its
// MaxDistance bounds the rune gap from the previous match's end.
func evalSequence(rule rules.CompoundRule, text string) ([]conditionHit, []string, bool) {
	var hits []conditionHit
	searchFrom := 0
	prevEnd := 0

	for i, cond := range rule.Conditions {
		hit, found := firstHit(cond, text, searchFrom)
		if !found {
			if cond.Required {
				return nil, nil, false
			}
			continue
		}
		if i > 0 && cond.MaxDistance > 0 {
			gap := utf8.RuneCountInString(text[prevEnd:hit.byteStart])
			if gap > cond.MaxDistance {
				return nil, nil, false
			}
		}
		hits = append(hits, hit)
		searchFrom = hit.byteEnd
		prevEnd = hit.byteEnd
	}
	return hits, nil, len(hits) > 0
}

// firstHit returns the first pattern match for the condition at or after the
// byte offset from.
func firstHit(cond rules.Condition, text string, from int) (conditionHit, bool) {
	if from > len(text) {
		return conditionHit{}, false
	}
	remainder := text[from:]
	for _, re := range cond.Patterns {
		if loc := re.FindStringIndex(remainder); loc != nil {
			return conditionHit{
				id:        cond.ID,
				text:      remainder[loc[0]:loc[1]],
				byteStart: from + loc[0],
				byteEnd:   from + loc[1],
			}, true
		}
	}
	return conditionHit{}, false
}

// assemble builds the violation: evidence joined with " + ", span from the
// minimum start to the maximum end, sentence-safe ±50-rune context, and the
// combined confidence.
func assemble(rule rules.CompoundRule, text string, hits []conditionHit, unmatched []string) Violation {
	minStart, maxEnd := hits[0].byteStart, hits[0].byteEnd
	parts := make([]string, 0, len(hits))
	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		parts = append(parts, hit.text)
		ids = append(ids, hit.id)
		if hit.byteStart < minStart {
			minStart = hit.byteStart
		}
		if hit.byteEnd > maxEnd {
			maxEnd = hit.byteEnd
		}
	}

	return Violation{
		RuleID:       rule.ID,
		Name:         rule.Name,
		Logic:        rule.Logic,
		MatchedIDs:   ids,
		UnmatchedIDs: unmatched,
		Evidence:     strings.Join(parts, " + "),
		Start:        utf8.RuneCountInString(text[:minStart]),
		End:          utf8.RuneCountInString(text[:maxEnd]),
		Context:      contextAround(text, minStart, maxEnd, 50),
		Category:     rule.Category,
		Severity:     rule.Severity,
		LegalBasis:   rule.LegalBasis,
		Description:  rule.Description,
		Suggestion:   rule.Suggestion,
		Confidence:   confidence(rule, len(hits)),
	}
}

// confidence is 0.7 plus the severity bonus plus a proportional bonus for
// the fraction of non-exclusion conditions satisfied, clamped at 0.95.
func confidence(rule rules.CompoundRule, matched int) float64 {
	c := 0.7
	switch rule.Severity {
	case rules.PatternCritical:
		c += 0.15
	case rules.PatternMajor:
		c += 0.10
	}

	total := 0
	for _, cond := range rule.Conditions {
		if !cond.Exclusion {
			total++
		}
	}
	if total > 0 {
		c += 0.10 * float64(matched) / float64(total)
	}

	if c > 0.95 {
		c = 0.95
	}
	return c
}

// contextAround extracts a ±radius rune window that does not cut across
// sentence boundaries.
func contextAround(text string, byteStart, byteEnd, radius int) string {
	start := byteStart
	for i := 0; i < radius && start > 0; i++ {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			break
		}
		start -= size
	}
	end := byteEnd
	for i := 0; i < radius && end < len(text); i++ {
		r, size := utf8.DecodeRuneInString(text[end:])
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			end += size
			break
		}
		end += size
	}
	return strings.TrimSpace(text[start:end])
}
