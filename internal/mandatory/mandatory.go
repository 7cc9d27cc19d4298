// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package mandatory verifies the legally required disclosure fields of a
// medical ad: institution name, address, phone, and the recommended
// specialty and representative fields.
package mandatory

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/medcheck-kr/medcheck/internal/rules"
)

// FieldResult records one disclosure field check.
type FieldResult struct {
	Field    string `json:"field"`
	Korean   string `json:"korean"`
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Valid    bool   `json:"valid"`
	Value    string `json:"value,omitempty"`
	Issue    string `json:"issue,omitempty"`
}

// Result is the complete mandatory-disclosure check.
type Result struct {
	Fields          []FieldResult `json:"fields"`
	MissingRequired []string      `json:"missing_required,omitempty"`
	Warnings        []string      `json:"warnings,omitempty"`
	Score           int           `json:"score"`
}

// Checker validates disclosure fields. Safe for concurrent use.
type Checker struct {
	dict *rules.Dictionary
}

// New creates a Checker over the given dictionary.
func New(dict *rules.Dictionary) *Checker {
	return &Checker{dict: dict}
}

const (
	requiredWeight = 30
	optionalWeight = 10
)

// Check tests every disclosure field in order and scores completion.
// Required fields weigh 30 points, recommended ones 10; a found-but-invalid
// field earns half its weight.
func (c *Checker) Check(text string) Result {
	result := Result{}

	// A specialty name inside a "~과 전문의" credential is the credential,
	// not a 진료과목 statement. Mask credential spans so the specialty field
	// only counts standalone statements.
	specialtyText := rules.SpecialistPattern().ReplaceAllString(text, " ")

	earned := 0.0
	total := 0.0
	for _, item := range c.dict.Mandatory {
		fieldText := text
		if item.Field == rules.FieldSpecialty {
			fieldText = specialtyText
		}
		field := c.checkField(item, fieldText)
		result.Fields = append(result.Fields, field)

		weight := optionalWeight
		if item.Required {
			weight = requiredWeight
		}
		total += float64(weight)

		switch {
		case field.Found && field.Valid:
			earned += float64(weight)
		case field.Found:
			earned += float64(weight) / 2
		case item.Required:
			result.MissingRequired = append(result.MissingRequired, item.Field)
		}
	}

	if total > 0 {
		result.Score = int(math.Round(earned / total * 100))
	}

	result.Warnings = c.specialistWarnings(text, result.Fields)
	return result
}

// checkField tries the field's patterns in turn and validates the first hit.
func (c *Checker) checkField(item rules.MandatoryItem, text string) FieldResult {
	field := FieldResult{
		Field:    item.Field,
		Korean:   item.Korean,
		Required: item.Required,
	}

	for _, re := range item.Patterns {
		value := re.FindString(text)
		if value == "" {
			continue
		}
		field.Found = true
		field.Value = strings.TrimSpace(value)
		field.Valid, field.Issue = validateField(item.Field, field.Value)
		break
	}

	if !field.Found && item.Required {
		field.Issue = item.Korean + " 표기를 찾을 수 없습니다"
	}
	return field
}

// validateField applies the field-specific shape checks.
func validateField(field, value string) (bool, string) {
	switch field {
	case rules.FieldInstitutionName:
		n := utf8.RuneCountInString(value)
		if n < 3 || n > 40 {
			return false, "의료기관 명칭 길이가 비정상적입니다"
		}
		return true, ""
	case rules.FieldLocation:
		if utf8.RuneCountInString(value) < 5 {
			return false, "주소가 불완전합니다"
		}
		return true, ""
	case rules.FieldPhone:
		digits := countDigits(value)
		if digits < 8 || digits > 11 {
			return false, "전화번호 자릿수가 올바르지 않습니다"
		}
		return true, ""
	case rules.FieldRepresentative:
		name := lastHangulRun(value)
		n := utf8.RuneCountInString(name)
		if n < 2 || n > 5 {
			return false, "대표자 성명 형식이 올바르지 않습니다"
		}
		return true, ""
	}
	// Specialty and specialist fields are valid as found.
	return true, ""
}

// specialistWarnings cross-checks specialist claims against the stated
// specialty: a credential without any specialty statement, or a credential
// whose specialty cannot plausibly accompany the stated one.
func (c *Checker) specialistWarnings(text string, fields []FieldResult) []string {
	credential := rules.SpecialistPattern().FindStringSubmatch(text)
	if credential == nil {
		return nil
	}
	claimed := credential[1]

	specialtyStated := false
	var statedValue string
	for _, f := range fields {
		if f.Field == rules.FieldSpecialty && f.Found {
			specialtyStated = true
			statedValue = f.Value
		}
	}

	var warnings []string
	if !specialtyStated {
		warnings = append(warnings,
			claimed+" 전문의 표기가 있으나 진료과목 표기가 없습니다")
		return warnings
	}

	for _, incompatible := range rules.IncompatibleSpecialties(claimed) {
		if strings.Contains(statedValue, incompatible) && !strings.Contains(statedValue, claimed) {
			warnings = append(warnings,
				claimed+" 전문의 표기가 명시된 진료과목("+statedValue+")과 일치하지 않습니다")
			break
		}
	}
	return warnings
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// lastHangulRun returns the trailing run of Hangul characters, which is
// where the representative's name sits in "대표원장: 김철수" style text.
func lastHangulRun(s string) string {
	runes := []rune(s)
	end := len(runes)
	for end > 0 && !isHangul(runes[end-1]) {
		end--
	}
	start := end
	for start > 0 && isHangul(runes[start-1]) {
		start--
	}
	return string(runes[start:end])
}

func isHangul(r rune) bool {
	return r >= 0xAC00 && r <= 0xD7A3
}
