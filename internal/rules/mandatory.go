// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import "regexp"

// Mandatory disclosure field names, in check order.
const (
	FieldInstitutionName = "institution_name"
	FieldLocation        = "location"
	FieldPhone           = "phone"
	FieldSpecialty       = "specialty"
	FieldSpecialist      = "specialist"
	FieldRepresentative  = "representative"
)

// builtinMandatoryItems returns the disclosure checklist in check order.
// Required fields weigh 30 points, recommended ones 10.
func builtinMandatoryItems() []MandatoryItem {
	return []MandatoryItem{
		{
			Field:       FieldInstitutionName,
			Korean:      "의료기관 명칭",
			Required:    true,
			Description: "의료기관의 정식 명칭 표기",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`[가-힣A-Za-z0-9]{2,20}\s*(의원|병원|치과의원|치과병원|한의원|한방병원|클리닉|메디컬\s*센터)`),
			},
		},
		{
			Field:       FieldLocation,
			Korean:      "소재지",
			Required:    true,
			Description: "의료기관 주소 표기",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`[가-힣]+(특별시|광역시|시|도)\s*[가-힣]+(구|군|시)[\s가-힣0-9]*(로|길|동)\s*[0-9-]*`),
				regexp.MustCompile(`(주소|소재지|오시는\s*길)\s*[:：]\s*\S+`),
			},
		},
		{
			Field:       FieldPhone,
			Korean:      "전화번호",
			Required:    true,
			Description: "대표 전화번호 표기",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`0\d{1,2}[-.)\s]?\d{3,4}[-.\s]?\d{4}`),
				regexp.MustCompile(`1\d{3}[-.\s]?\d{4}`),
			},
		},
		{
			Field:       FieldSpecialty,
			Korean:      "진료과목",
			Required:    false,
			Description: "진료과목 표기",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`진료\s*과목\s*[:：]?\s*[가-힣,·\s]+과`),
				regexp.MustCompile(`(피부과|성형외과|치과|한의원|정신건강의학과|안과|정형외과|내과)`),
			},
		},
		{
			Field:       FieldSpecialist,
			Korean:      "전문의 자격",
			Required:    false,
			Description: "전문의 자격 표기",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`[가-힣]+과\s*전문의`),
			},
		},
		{
			Field:       FieldRepresentative,
			Korean:      "대표자 성명",
			Required:    false,
			Description: "대표원장 성명 표기",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(대표\s*원장|원장)\s*[:：]?\s*[가-힣]{2,5}`),
			},
		},
	}
}

// specialistPattern extracts the specialty name out of a "~과 전문의" claim.
var specialistPattern = regexp.MustCompile(`([가-힣]+과)\s*전문의`)

// SpecialistPattern returns the specialist-credential extractor.
func SpecialistPattern() *regexp.Regexp { return specialistPattern }

// incompatibleSpecialties maps a claimed credential specialty to stated
// specialties it cannot plausibly accompany. Limited to pairings the
// 심의 사례집 actually flags.
var incompatibleSpecialties = map[string][]string{
	"피부과":  {"정형외과", "내과"},
	"성형외과": {"내과", "정신건강의학과"},
	"정형외과": {"피부과", "안과"},
	"안과":   {"치과", "정형외과"},
}

// IncompatibleSpecialties returns stated specialties incompatible with the
// given credential specialty.
func IncompatibleSpecialties(credential string) []string {
	return incompatibleSpecialties[credential]
}
