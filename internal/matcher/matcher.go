// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package matcher scans normalized ad text against the atomic pattern
// dictionary and emits confidence-scored matches. All exception filtering
// documented in the 심의기준 happens here; severity judgment happens in the
// judge package.
package matcher

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/medcheck-kr/medcheck/internal/rules"
)

// Match is one pattern hit that survived filtering.
type Match struct {
	PatternID   string                `json:"pattern_id"`
	Category    rules.Category        `json:"category"`
	Subcategory string                `json:"subcategory,omitempty"`
	Text        string                `json:"text"`
	Start       int                   `json:"start"` // rune offset
	End         int                   `json:"end"`   // rune offset, exclusive
	Context     string                `json:"context"`
	Severity    rules.PatternSeverity `json:"severity"`
	Confidence  float64               `json:"confidence"`
	Sentence    int                   `json:"sentence"`
	// DisclaimerDetected is set when a disclaimer or legal notice appears in
	// the match context or anywhere on the page. The judge downgrades
	// severity one step for non-absolute violations when it is set.
	DisclaimerDetected bool `json:"disclaimer_detected"`
}

// Options controls a scan. Use DefaultOptions and override fields; the zero
// value of ContextWindow, MaxMatches and MinConfidence falls back to the
// defaults inside Scan.
type Options struct {
	// Categories filters patterns; empty means all.
	Categories []rules.Category
	// MinSeverity drops patterns below this severity. Empty means all.
	MinSeverity rules.PatternSeverity
	// ContextWindow is the rune radius captured around a match. Default 50.
	ContextWindow int
	// MaxMatches caps the result count. Zero means unlimited.
	MaxMatches int
	// MinConfidence drops matches scoring below it. Zero means 0.5.
	MinConfidence float64
	// ExceptionFilter applies contextual-exception filtering.
	ExceptionFilter bool
	// Dedup keeps only the best match per (sentence, category).
	Dedup bool
}

// DefaultOptions returns the standard scan options.
func DefaultOptions() Options {
	return Options{
		ContextWindow:   50,
		MinConfidence:   0.5,
		ExceptionFilter: true,
		Dedup:           true,
	}
}

// Matcher scans text against an immutable dictionary. Safe for concurrent
// use; it holds no per-scan state.
type Matcher struct {
	dict *rules.Dictionary
}

// New creates a Matcher over the given dictionary.
func New(dict *rules.Dictionary) *Matcher {
	return &Matcher{dict: dict}
}

const (
	confidenceBase = 0.7
	confidenceMin  = 0.10
	confidenceMax  = 0.95

	// Rune window used when checking a pattern's own literal exceptions.
	literalExceptionWindow = 30
)

// Scan returns every surviving match, ordered by position.
func (m *Matcher) Scan(text string, opts Options) []Match {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if opts.ContextWindow <= 0 {
		opts.ContextWindow = 50
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = 0.5
	}

	doc := newDocument(text)
	pageDisclaimer := hasPageDisclaimer(text)

	var matches []Match
	for _, def := range m.dict.Patterns {
		if !categoryEnabled(def.Category, opts.Categories) {
			continue
		}
		if !severityEnabled(def.Severity, opts.MinSeverity) {
			continue
		}

		for _, loc := range def.Pattern.FindAllStringIndex(text, -1) {
			candidate, ok := m.buildMatch(doc, def, loc[0], loc[1], opts)
			if !ok {
				continue
			}
			candidate.DisclaimerDetected = candidate.DisclaimerDetected || pageDisclaimer
			if candidate.Confidence < opts.MinConfidence {
				continue
			}
			matches = append(matches, candidate)
		}
	}

	if opts.Dedup {
		matches = dedupBySentenceCategory(matches)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Start != matches[j].Start {
			return matches[i].Start < matches[j].Start
		}
		return matches[i].PatternID < matches[j].PatternID
	})

	if opts.MaxMatches > 0 && len(matches) > opts.MaxMatches {
		matches = matches[:opts.MaxMatches]
	}
	return matches
}

// buildMatch filters one raw regex hit and scores it. Returns false when the
// hit is discarded.
func (m *Matcher) buildMatch(doc *document, def rules.PatternDefinition, byteStart, byteEnd int, opts Options) (Match, bool) {
	matched := doc.text[byteStart:byteEnd]

	// (a) pattern-level literal exceptions within a small window
	window := doc.runeWindow(byteStart, byteEnd, literalExceptionWindow)
	for _, exc := range def.Exceptions {
		if strings.Contains(window, exc) {
			return Match{}, false
		}
	}

	// (b) negative list: device/drug/term names are never violations
	if m.onNegativeList(matched) {
		return Match{}, false
	}

	sentence := doc.sentenceAt(byteStart)
	disclaimer := false

	// (c) contextual exceptions
	if opts.ExceptionFilter {
		verdict := m.applyContextExceptions(doc, def, byteStart, byteEnd, opts.ContextWindow)
		if verdict.discard {
			return Match{}, false
		}
		disclaimer = verdict.disclaimer
	}

	context := doc.runeWindow(byteStart, byteEnd, opts.ContextWindow)
	confidence := m.scoreConfidence(def, matched, context)

	return Match{
		PatternID:          def.ID,
		Category:           def.Category,
		Subcategory:        def.Subcategory,
		Text:               matched,
		Start:              doc.runeOffset(byteStart),
		End:                doc.runeOffset(byteEnd),
		Context:            context,
		Severity:           def.Severity,
		Confidence:         confidence,
		Sentence:           sentence,
		DisclaimerDetected: disclaimer,
	}, true
}

// onNegativeList reports whether the matched text is just a device, drug or
// medical term. Containment the other way around needs the term to cover
// most of the match, so "나보타 100% 완치" still flags.
func (m *Matcher) onNegativeList(matched string) bool {
	trimmed := strings.TrimSpace(matched)
	if trimmed == "" {
		return false
	}
	matchLen := utf8.RuneCountInString(trimmed)
	for _, term := range m.dict.NegativeSet {
		if strings.Contains(term, trimmed) {
			return true
		}
		if strings.Contains(trimmed, term) {
			termLen := utf8.RuneCountInString(term)
			if float64(termLen) >= 0.6*float64(matchLen) {
				return true
			}
		}
	}
	return false
}

// scoreConfidence implements the confidence model: 0.7 base, severity and
// length bonuses, boost/hedge keyword adjustment, navigation-text penalty,
// clamped to [0.10, 0.95].
func (m *Matcher) scoreConfidence(def rules.PatternDefinition, matched, context string) float64 {
	confidence := confidenceBase

	switch def.Severity {
	case rules.PatternCritical:
		confidence += 0.15
	case rules.PatternMajor:
		confidence += 0.10
	}

	// Longer matches are less likely to be incidental.
	lengthBonus := float64(utf8.RuneCountInString(matched)) * 0.005
	if lengthBonus > 0.10 {
		lengthBonus = 0.10
	}
	confidence += lengthBonus

	for _, kw := range rules.BoostKeywords() {
		if strings.Contains(context, kw) {
			confidence += 0.05
			break
		}
	}
	for _, kw := range rules.HedgeKeywords() {
		if strings.Contains(context, kw) {
			confidence -= 0.10
			break
		}
	}

	// Menu and breadcrumb text produces dense separator runs; suppress it.
	if seps := countNavSeparators(context); seps >= 2 {
		penalty := 0.2 + 0.1*float64(seps)
		if penalty > 0.5 {
			penalty = 0.5
		}
		confidence -= penalty
	}

	if confidence > confidenceMax {
		confidence = confidenceMax
	}
	if confidence < confidenceMin {
		confidence = confidenceMin
	}
	return confidence
}

func countNavSeparators(s string) int {
	count := 0
	for _, sep := range []string{"|", ">", "»", "·"} {
		count += strings.Count(s, sep)
	}
	return count
}

// dedupBySentenceCategory keeps the highest-confidence match per
// (sentence, category) pair.
func dedupBySentenceCategory(matches []Match) []Match {
	type key struct {
		sentence int
		category rules.Category
	}
	best := make(map[key]Match, len(matches))
	for _, match := range matches {
		k := key{match.Sentence, match.Category}
		if existing, ok := best[k]; !ok || match.Confidence > existing.Confidence {
			best[k] = match
		}
	}
	out := make([]Match, 0, len(best))
	for _, match := range best {
		out = append(out, match)
	}
	return out
}

func categoryEnabled(cat rules.Category, filter []rules.Category) bool {
	if len(filter) == 0 {
		return true
	}
	for _, c := range filter {
		if c == cat {
			return true
		}
	}
	return false
}

func severityEnabled(sev rules.PatternSeverity, min rules.PatternSeverity) bool {
	if min == "" {
		return true
	}
	return severityRank(sev) >= severityRank(min)
}

func severityRank(s rules.PatternSeverity) int {
	switch s {
	case rules.PatternCritical:
		return 3
	case rules.PatternMajor:
		return 2
	case rules.PatternMinor:
		return 1
	}
	return 0
}

func hasPageDisclaimer(text string) bool {
	for _, re := range rules.PageDisclaimerPatterns() {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
