// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import "regexp"

// builtinCompoundRules returns the built-in higher-order rule set. Each rule
// fires only when its logical combination of conditions holds; single
// conditions here are deliberately weaker than the atomic dictionary so the
// combination carries the judgment.
func builtinCompoundRules() []CompoundRule {
	return []CompoundRule{
		{
			ID:    "CMP-001",
			Name:  "가격 유인 + 효과 보장",
			Logic: LogicAnd,
			Conditions: []Condition{
				{
					ID:       "discount",
					Required: true,
					Patterns: []*regexp.Regexp{
						regexp.MustCompile(`([5-9][0-9]|100)\s*%\s*(할인|세일|이벤트)`),
						regexp.MustCompile(`(반값|파격가|초특가)`),
					},
				},
				{
					ID:       "effect_guarantee",
					Required: true,
					Patterns: []*regexp.Regexp{
						regexp.MustCompile(`(100\s*%|완전)\s*(효과|완치|만족).{0,6}(보장|약속)`),
						regexp.MustCompile(`효과[를을]?\s*보장`),
					},
				},
			},
			Category:    CategoryPriceInducement,
			Severity:    PatternCritical,
			LegalBasis:  basisInducement,
			Description: "할인으로 유인하면서 효과까지 보장하는 조합",
			Suggestion:  "할인 고지와 효과 서술을 분리하고 보장 문구를 삭제하세요",
		},
		{
			ID:               "CMP-002",
			Name:             "최상급 표현 반복",
			Logic:            LogicOr,
			MinConditionsMet: 2,
			Conditions: []Condition{
				{
					ID:       "best",
					Patterns: []*regexp.Regexp{regexp.MustCompile(`최고[의급]?`)},
				},
				{
					ID:       "first",
					Patterns: []*regexp.Regexp{regexp.MustCompile(`최초[의로]?`)},
				},
				{
					ID:       "only",
					Patterns: []*regexp.Regexp{regexp.MustCompile(`유일[한하게]?`)},
				},
				{
					ID:       "largest",
					Patterns: []*regexp.Regexp{regexp.MustCompile(`최다|최대\s*규모`)},
				},
			},
			Category:    CategoryExaggeration,
			Severity:    PatternMajor,
			LegalBasis:  basisFalse,
			Description: "최상급 표현이 둘 이상 누적된 조합",
			Suggestion:  "입증 불가능한 최상급 수식어를 정리하세요",
		},
		{
			ID:    "CMP-003",
			Name:  "전후 사진 + 부작용 고지 누락",
			Logic: LogicAndNot,
			Conditions: []Condition{
				{
					ID:       "before_after",
					Required: true,
					Patterns: []*regexp.Regexp{
						regexp.MustCompile(`(전후|비포\s*애프터)\s*(사진|이미지|비교)`),
					},
				},
				{
					ID:        "side_effect_notice",
					Exclusion: true,
					Patterns: []*regexp.Regexp{
						regexp.MustCompile(`부작용[이은]?\s*(있을|발생할)\s*수\s*있`),
						regexp.MustCompile(`개인(마다|에\s*따라)\s*(차이|다를)`),
					},
				},
			},
			Category:    CategoryBeforeAfter,
			Severity:    PatternMajor,
			LegalBasis:  basisExperience,
			Description: "부작용·개인차 고지 없이 전후 사진만 내세우는 조합",
			Suggestion:  "전후 사진에 부작용 발생 가능성과 개인차 고지를 병기하세요",
		},
		{
			ID:    "CMP-004",
			Name:  "고민 자극 + 즉시 해결 약속",
			Logic: LogicSequence,
			Conditions: []Condition{
				{
					ID:       "pain_point",
					Required: true,
					Patterns: []*regexp.Regexp{
						regexp.MustCompile(`(고민|콤플렉스|스트레스)[이를은]?`),
					},
				},
				{
					ID:          "instant_fix",
					Required:    true,
					MaxDistance: 80,
					Patterns: []*regexp.Regexp{
						regexp.MustCompile(`(한\s*번에|단번에|즉시|바로)\s*(해결|개선|교정)`),
					},
				},
			},
			Category:    CategoryExaggeration,
			Severity:    PatternMajor,
			LegalBasis:  basisFalse,
			Description: "고민을 자극한 직후 즉시 해결을 약속하는 서사",
			Suggestion:  "치료 기간과 한계를 사실대로 안내하세요",
		},
		{
			ID:    "CMP-005",
			Name:  "이벤트 + 기한 압박 + 선착순",
			Logic: LogicOr,
			// 셋 중 둘이면 유인 조합으로 본다.
			MinConditionsMet: 2,
			Conditions: []Condition{
				{
					ID:       "event",
					Patterns: []*regexp.Regexp{regexp.MustCompile(`이벤트|프로모션`)},
				},
				{
					ID:       "deadline",
					Patterns: []*regexp.Regexp{regexp.MustCompile(`(오늘|금일|이번\s*주)\s*(만|까지)`)},
				},
				{
					ID:       "first_come",
					Patterns: []*regexp.Regexp{regexp.MustCompile(`선착순|한정\s*인원|마감\s*임박`)},
				},
			},
			Category:    CategoryPriceInducement,
			Severity:    PatternMinor,
			LegalBasis:  basisInducement,
			Description: "기한·인원 압박을 겹쳐 쓰는 유인 조합",
			Suggestion:  "압박형 문구를 줄이고 진료 정보 중심으로 구성하세요",
		},
	}
}
