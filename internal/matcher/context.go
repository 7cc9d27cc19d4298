// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package matcher

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/medcheck-kr/medcheck/internal/rules"
)

// document caches sentence boundaries for one scan so every pattern hit can
// resolve its enclosing sentence without rescanning the text.
type document struct {
	text      string
	sentences []span // byte ranges, ordered
}

type span struct {
	start int
	end   int
}

func newDocument(text string) *document {
	return &document{text: text, sentences: splitSentences(text)}
}

// splitSentences returns byte ranges of sentences. Boundaries are sentence-
// final punctuation and newlines; Korean body text online leans heavily on
// newlines over periods.
func splitSentences(text string) []span {
	var spans []span
	start := 0
	for i, r := range text {
		switch r {
		case '.', '!', '?', '\n', '。', '…':
			end := i + utf8.RuneLen(r)
			if strings.TrimSpace(text[start:end]) != "" {
				spans = append(spans, span{start, end})
			}
			start = end
		}
	}
	if start < len(text) && strings.TrimSpace(text[start:]) != "" {
		spans = append(spans, span{start, len(text)})
	}
	return spans
}

// sentenceAt returns the index of the sentence containing the byte offset.
func (d *document) sentenceAt(byteOffset int) int {
	for i, s := range d.sentences {
		if byteOffset >= s.start && byteOffset < s.end {
			return i
		}
	}
	return len(d.sentences) - 1
}

// sentenceSpan returns the byte range of sentence i.
func (d *document) sentenceSpan(i int) span {
	if i < 0 || i >= len(d.sentences) {
		return span{0, len(d.text)}
	}
	return d.sentences[i]
}

// runeOffset converts a byte offset into a rune offset.
func (d *document) runeOffset(byteOffset int) int {
	return utf8.RuneCountInString(d.text[:byteOffset])
}

// runeWindow returns the text within radius runes around [byteStart,byteEnd).
func (d *document) runeWindow(byteStart, byteEnd, radius int) string {
	start := byteStart
	for i := 0; i < radius && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(d.text[:start])
		start -= size
	}
	end := byteEnd
	for i := 0; i < radius && end < len(d.text); i++ {
		_, size := utf8.DecodeRuneInString(d.text[end:])
		end += size
	}
	return d.text[start:end]
}

// exceptionVerdict is the outcome of contextual-exception resolution.
type exceptionVerdict struct {
	discard    bool
	disclaimer bool
}

// applyContextExceptions resolves the contextual exceptions for one hit in
// dictionary order. Negation is tested against same-sentence text before the
// match and windowed text after it; disclaimer and legal-notice only mark
// the match, everything else discards it. Side-effect denial patterns are
// exempt from negation: a negated denial of side effects is itself the
// violation.
func (m *Matcher) applyContextExceptions(doc *document, def rules.PatternDefinition, byteStart, byteEnd, radius int) exceptionVerdict {
	sent := doc.sentenceSpan(doc.sentenceAt(byteStart))
	sentenceText := doc.text[sent.start:sent.end]
	beforeInSentence := doc.text[sent.start:byteStart]
	afterWindow := trailingWindow(doc.text, byteEnd, radius)
	contextWindow := doc.runeWindow(byteStart, byteEnd, radius)

	negationExempt := def.Subcategory == rules.SubcategorySideEffectDenial

	verdict := exceptionVerdict{}
	for _, exc := range m.dict.Exceptions {
		switch exc.Type {
		case rules.ExceptionNegationBefore:
			if negationExempt {
				continue
			}
			if anyMatch(exc.Patterns, beforeInSentence) {
				verdict.discard = true
				return verdict
			}
		case rules.ExceptionNegationAfter:
			if negationExempt {
				continue
			}
			if anyMatch(exc.Patterns, afterWindow) {
				verdict.discard = true
				return verdict
			}
		case rules.ExceptionDisclaimer, rules.ExceptionLegalNotice:
			if anyMatch(exc.Patterns, contextWindow) {
				verdict.disclaimer = true
			}
		case rules.ExceptionNegativeExample:
			if anyMatch(exc.Patterns, contextWindow) {
				verdict.discard = true
				return verdict
			}
		case rules.ExceptionQuestion:
			if anyMatch(exc.Patterns, strings.TrimSpace(sentenceText)) {
				verdict.discard = true
				return verdict
			}
		case rules.ExceptionQuotation:
			if insideQuotes(sentenceText, byteStart-sent.start, byteEnd-sent.start) {
				verdict.discard = true
				return verdict
			}
		case rules.ExceptionConditional:
			if anyMatch(exc.Patterns, sentenceText) {
				verdict.discard = true
				return verdict
			}
		}
	}
	return verdict
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func trailingWindow(text string, byteEnd, radius int) string {
	end := byteEnd
	for i := 0; i < radius && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	return text[byteEnd:end]
}

// quotePairs lists the opening/closing pairs the balanced-quote heuristic
// understands. Straight quotes pair with themselves.
var quotePairs = [][2]rune{
	{'"', '"'},
	{'\'', '\''},
	{'“', '”'},
	{'‘', '’'},
	{'「', '」'},
	{'『', '』'},
}

// insideQuotes reports whether [start,end) sits inside a balanced quote pair
// within the sentence. For self-pairing quotes an odd count before the match
// plus a closer after it counts as enclosed.
func insideQuotes(sentence string, start, end int) bool {
	if start < 0 || end > len(sentence) || start > end {
		return false
	}
	before := sentence[:start]
	after := sentence[end:]
	for _, pair := range quotePairs {
		opener, closer := pair[0], pair[1]
		if opener == closer {
			if strings.Count(before, string(opener))%2 == 1 && strings.Contains(after, string(closer)) {
				return true
			}
			continue
		}
		open := strings.Count(before, string(opener)) - strings.Count(before, string(closer))
		if open > 0 && strings.Contains(after, string(closer)) {
			return true
		}
	}
	return false
}
