// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import "regexp"

// builtinDepartmentProfiles returns the specialty detection signals.
// Regex hits score 2 points, bare keywords 1 point.
func builtinDepartmentProfiles() []DepartmentProfile {
	return []DepartmentProfile{
		{
			Department: DeptDermatology,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`피부과|피부\s*클리닉`),
				regexp.MustCompile(`(여드름|기미|흉터)\s*(치료|시술)`),
			},
			Keywords: []string{"여드름", "미백", "모공", "색소", "탄력", "레이저", "피부"},
		},
		{
			Department: DeptPlasticSurgery,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`성형외과`),
				regexp.MustCompile(`(쌍꺼풀|코|가슴)\s*성형`),
			},
			Keywords: []string{"쌍꺼풀", "코성형", "리프팅", "지방흡입", "윤곽", "성형"},
		},
		{
			Department: DeptDental,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`치과`),
				regexp.MustCompile(`임플란트\s*(시술|식립)`),
			},
			Keywords: []string{"임플란트", "교정", "충치", "스케일링", "치아", "잇몸"},
		},
		{
			Department: DeptOriental,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`한의원|한방\s*병원`),
				regexp.MustCompile(`(추나|침)\s*치료`),
			},
			Keywords: []string{"한약", "침", "추나", "경혈", "보약", "체질"},
		},
		{
			Department: DeptPsychiatry,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`정신건강의학과|정신과`),
			},
			Keywords: []string{"우울증", "불안", "공황", "수면", "상담치료", "스트레스"},
		},
		{
			Department: DeptOphthalmology,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`안과`),
				regexp.MustCompile(`(라식|라섹|스마일라식)\s*(수술|시술)?`),
			},
			Keywords: []string{"라식", "라섹", "백내장", "녹내장", "시력교정", "노안"},
		},
		{
			Department: DeptOrthopedics,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`정형외과`),
				regexp.MustCompile(`(허리|목)\s*디스크`),
			},
			Keywords: []string{"관절", "척추", "디스크", "도수치료", "재활", "통증"},
		},
		{
			Department: DeptInternal,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`내과`),
				regexp.MustCompile(`(위|대장)\s*내시경`),
			},
			Keywords: []string{"내시경", "건강검진", "당뇨", "고혈압", "소화기", "갑상선"},
		},
	}
}

// builtinDepartmentRules returns the specialty rule overlays. General rules
// apply to every detected specialty on top of its own set.
func builtinDepartmentRules() []DepartmentRule {
	return []DepartmentRule{
		{
			ID:         "DEP-DERM-001",
			Department: DeptDermatology,
			Category:   CategoryGuarantee,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`흉터\s*(완벽|100\s*%)\s*(제거|개선)`),
				regexp.MustCompile(`피부\s*재생\s*100\s*%`),
			},
			Severity:    PatternCritical,
			LegalBasis:  basisGuarantee,
			Description: "흉터·재생의 완전한 개선을 보장하는 표현",
			Suggestion:  "개선 정도의 개인차를 함께 안내하세요",
		},
		{
			ID:         "DEP-DERM-002",
			Department: DeptDermatology,
			Category:   CategoryExaggeration,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(하루|일주일)\s*만에\s*(미백|백옥|물광)\s*피부`),
			},
			Severity:    PatternMajor,
			LegalBasis:  basisFalse,
			Description: "단기간 미백 효과를 단정하는 표현",
			Suggestion:  "평균 시술 횟수 기준으로 서술하세요",
		},
		{
			ID:         "DEP-PS-001",
			Department: DeptPlasticSurgery,
			Category:   CategoryFalseClaim,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`부작용\s*없는\s*성형`),
				regexp.MustCompile(`(흉터|멍|붓기)\s*없는\s*수술`),
			},
			Severity:    PatternCritical,
			LegalBasis:  basisFalse,
			Description: "수술 부작용이 없다고 단정하는 표현",
			Suggestion:  "수술 위험과 회복 기간을 사실대로 고지하세요",
		},
		{
			ID:         "DEP-PS-002",
			Department: DeptPlasticSurgery,
			Category:   CategoryExaggeration,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(연예인|아이돌)\s*(코|눈|얼굴)\s*(보장|완성)`),
			},
			Severity:    PatternMajor,
			LegalBasis:  basisFalse,
			Description: "특정 외모 결과를 보장하는 표현",
			Suggestion:  "결과 보장형 문구를 삭제하세요",
		},
		{
			ID:         "DEP-DEN-001",
			Department: DeptDental,
			Category:   CategoryGuarantee,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`임플란트\s*(평생|영구)\s*보증`),
			},
			Severity:    PatternMajor,
			LegalBasis:  basisGuarantee,
			Description: "임플란트 평생 보증을 약속하는 표현",
			Suggestion:  "보증 조건과 기간을 구체적으로 명시하세요",
		},
		{
			ID:         "DEP-ORI-001",
			Department: DeptOriental,
			Category:   CategoryFalseClaim,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`한약[은이]?\s*.{0,10}부작용[이은]?\s*없`),
			},
			Severity:    PatternCritical,
			LegalBasis:  basisFalse,
			Description: "한약에 부작용이 없다고 단정하는 표현",
			Suggestion:  "복용 시 주의사항을 함께 안내하세요",
		},
		{
			ID:         "DEP-PSY-001",
			Department: DeptPsychiatry,
			Category:   CategoryGuarantee,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(우울증|공황장애|불면증)\s*(완치|완전\s*회복)`),
			},
			Severity:    PatternCritical,
			LegalBasis:  basisGuarantee,
			Description: "정신질환의 완치를 단정하는 표현",
			Suggestion:  "치료 경과는 증상 호전 중심으로 서술하세요",
		},
		{
			ID:         "DEP-OPH-001",
			Department: DeptOphthalmology,
			Category:   CategoryGuarantee,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`시력\s*(1\.0|회복)\s*(보장|약속)`),
			},
			Severity:    PatternCritical,
			LegalBasis:  basisGuarantee,
			Description: "시력 회복 수치를 보장하는 표현",
			Suggestion:  "수술 후 시력은 개인차가 있음을 고지하세요",
		},
		{
			ID:         "DEP-ORT-001",
			Department: DeptOrthopedics,
			Category:   CategoryFalseClaim,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`수술\s*없이\s*(디스크|관절)\s*(완치|완전\s*치료)`),
			},
			Severity:    PatternCritical,
			LegalBasis:  basisFalse,
			Description: "비수술 완치를 단정하는 표현",
			Suggestion:  "비수술 치료의 적응증과 한계를 안내하세요",
		},
		{
			ID:         "DEP-INT-001",
			Department: DeptInternal,
			Category:   CategoryFalseClaim,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(당뇨|고혈압)\s*(약\s*없이)?\s*완치`),
			},
			Severity:    PatternCritical,
			LegalBasis:  basisFalse,
			Description: "만성질환 완치를 단정하는 표현",
			Suggestion:  "관리 가능한 질환임을 전제로 서술하세요",
		},
		{
			ID:         "DEP-GEN-001",
			Department: DeptGeneral,
			Category:   CategoryExaggeration,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(명의|신의\s*손|장인)\s*(이라\s*불리|로\s*유명)`),
			},
			Severity:    PatternMinor,
			LegalBasis:  basisFalse,
			Description: "의료진을 과장 수식하는 표현",
			Suggestion:  "경력과 자격은 객관적 사실로만 기재하세요",
		},
		{
			ID:         "DEP-GEN-002",
			Department: DeptGeneral,
			Category:   CategoryProhibitedExpression,
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`전문의[가는]?\s*아니어도`),
			},
			Exception:   regexp.MustCompile(`전문의\s*상담`),
			Severity:    PatternMinor,
			LegalBasis:  basisFalse,
			Description: "비전문의 시술을 가볍게 표현",
			Suggestion:  "시술 주체와 자격을 명확히 기재하세요",
		},
	}
}
