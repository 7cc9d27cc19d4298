// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import "regexp"

// SubcategorySideEffectDenial marks "no side effects" claims. Matches in this
// subcategory are never voided by negation exceptions: a negated denial of
// side effects is itself suspicious.
const SubcategorySideEffectDenial = "side_effect_denial"

// 의료법 제56조 (의료광고의 금지 등) citations used across the dictionary.
const (
	basisGuarantee  = "의료법 제56조 제2항 제1호 (치료효과 보장)"
	basisFalse      = "의료법 제56조 제3항 (거짓·과장 광고)"
	basisComparison = "의료법 제56조 제2항 제3호 (비교 광고)"
	basisInducement = "의료법 제27조 제3항 (환자 유인 행위)"
	basisExperience = "의료법 제56조 제2항 제2호 (치료경험담 광고)"
	basisAssessment = "의료법 제56조 제2항 제14호 (심의받지 않은 광고)"
)

// builtinPatterns returns the built-in atomic rule set. Patterns are written
// against normalized text: single spaces, no HTML.
func builtinPatterns() []PatternDefinition {
	return []PatternDefinition{
		{
			ID:          "MED-GU-001",
			Category:    CategoryGuarantee,
			Subcategory: "cure_guarantee",
			Pattern:     regexp.MustCompile(`(100\s*%|백\s*퍼센트|완전)\s*(완치|완쾌|치료|회복)[를을]?\s*(보장|약속|확신)`),
			Severity:    PatternCritical,
			LegalBasis:  basisGuarantee,
			Description: "완치·치료효과를 보장하는 표현",
			Example:     "이 시술은 100% 완치를 보장합니다",
			Suggestion:  "치료 결과를 보장하는 표현을 삭제하고 개인차 안내 문구를 추가하세요",
		},
		{
			ID:          "MED-GU-002",
			Category:    CategoryGuarantee,
			Subcategory: "effect_guarantee",
			Pattern:     regexp.MustCompile(`(100\s*%|백\s*퍼센트)\s*(효과|만족)[를을]?\s*(보장|약속)`),
			Severity:    PatternCritical,
			LegalBasis:  basisGuarantee,
			Description: "효과를 100% 보장하는 표현",
			Example:     "100% 효과를 보장합니다",
			Suggestion:  "효과 보장 문구를 삭제하고 시술 정보 중심으로 서술하세요",
		},
		{
			ID:          "MED-GU-003",
			Category:    CategoryGuarantee,
			Subcategory: "effect_guarantee",
			Pattern:     regexp.MustCompile(`(효과|결과)[를을]?\s*(보장|책임지)`),
			Severity:    PatternMajor,
			LegalBasis:  basisGuarantee,
			Description: "치료 효과·결과를 보장하는 표현",
			Example:     "확실한 효과를 보장해 드립니다",
			Suggestion:  "\"효과는 개인에 따라 차이가 있을 수 있습니다\" 문구로 대체하세요",
			Exceptions:  []string{"보장하지 않", "보장할 수 없"},
		},
		{
			ID:          "MED-GU-004",
			Category:    CategoryGuarantee,
			Subcategory: "permanence",
			Pattern:     regexp.MustCompile(`(영구적|반영구)[으로인]*\s*(효과|유지|지속)`),
			Severity:    PatternMajor,
			LegalBasis:  basisFalse,
			Description: "영구적 효과를 단정하는 표현",
			Example:     "영구적 효과가 지속됩니다",
			Suggestion:  "유지 기간은 평균적인 범위로 표기하세요",
		},
		{
			ID:          "MED-FC-001",
			Category:    CategoryFalseClaim,
			Subcategory: SubcategorySideEffectDenial,
			Pattern:     regexp.MustCompile(`부작용[이은]?\s*(전혀|절대|일절)?\s*없`),
			Severity:    PatternCritical,
			LegalBasis:  basisFalse,
			Description: "부작용이 없다고 단정하는 표현",
			Example:     "부작용이 전혀 없는 안전한 시술",
			Suggestion:  "발생 가능한 부작용과 주의사항을 함께 고지하세요",
		},
		{
			ID:          "MED-FC-002",
			Category:    CategoryFalseClaim,
			Subcategory: "instant_cure",
			Pattern:     regexp.MustCompile(`(당일|하루\s*만에|단\s*한\s*번[에의]?)\s*(완치|완쾌|완성|해결)`),
			Severity:    PatternCritical,
			LegalBasis:  basisFalse,
			Description: "즉시·당일 완치를 주장하는 표현",
			Example:     "단 한 번에 완치되는 시술",
			Suggestion:  "평균 치료 횟수와 기간을 사실대로 안내하세요",
		},
		{
			ID:          "MED-FC-003",
			Category:    CategoryFalseClaim,
			Subcategory: "no_relapse",
			Pattern:     regexp.MustCompile(`재발[이은]?\s*(전혀|절대)?\s*(없|않)`),
			Severity:    PatternMajor,
			LegalBasis:  basisFalse,
			Description: "재발이 없다고 단정하는 표현",
			Example:     "재발 없는 완벽한 치료",
			Suggestion:  "재발 가능성과 관리 방법을 함께 안내하세요",
		},
		{
			ID:          "MED-FC-004",
			Category:    CategoryFalseClaim,
			Subcategory: "painless",
			Pattern:     regexp.MustCompile(`(통증|아픔)[이은]?\s*(전혀|하나도)\s*없`),
			Severity:    PatternMinor,
			LegalBasis:  basisFalse,
			Description: "통증이 전혀 없다고 단정하는 표현",
			Example:     "통증이 전혀 없는 시술",
			Suggestion:  "\"통증이 적은 편입니다\" 수준의 표현으로 완화하세요",
		},
		{
			ID:          "MED-EX-001",
			Category:    CategoryExaggeration,
			Subcategory: "superlative",
			Pattern:     regexp.MustCompile(`(국내|세계|업계)?\s*(최고|최초|최상|최대|유일)[의급]?\s*(의료진|병원|의원|기술|장비|시술)`),
			Severity:    PatternMajor,
			LegalBasis:  basisFalse,
			Description: "최고·최초·유일 등 최상급 표현",
			Example:     "국내 최고의 의료진",
			Suggestion:  "객관적으로 입증 가능한 사실만 기재하세요",
		},
		{
			ID:          "MED-EX-002",
			Category:    CategoryExaggeration,
			Subcategory: "absolute",
			Pattern:     regexp.MustCompile(`(무조건|절대적|확실)[히한]?\s*(효과|개선|성공)`),
			Severity:    PatternMajor,
			LegalBasis:  basisFalse,
			Description: "무조건·확실한 효과를 단정하는 표현",
			Example:     "무조건 효과를 보실 수 있습니다",
			Suggestion:  "단정적 표현을 제거하고 임상 근거를 제시하세요",
		},
		{
			ID:          "MED-EX-003",
			Category:    CategoryExaggeration,
			Subcategory: "miracle",
			Pattern:     regexp.MustCompile(`(기적|마법|혁명적?)\s*(의|같은|처럼)?\s*(효과|변화|치료)`),
			Severity:    PatternMinor,
			LegalBasis:  basisFalse,
			Description: "기적·마법 등 비과학적 수식어",
			Example:     "기적 같은 변화를 경험하세요",
			Suggestion:  "과장 수식어를 삭제하세요",
		},
		{
			ID:          "MED-CP-001",
			Category:    CategoryComparison,
			Subcategory: "clinic_comparison",
			Pattern:     regexp.MustCompile(`타\s*(병원|의원|클리닉)(보다|과\s*달리|에\s*비해)`),
			Severity:    PatternMajor,
			LegalBasis:  basisComparison,
			Description: "다른 의료기관과 비교하는 표현",
			Example:     "타 병원보다 뛰어난 기술력",
			Suggestion:  "타 기관 비교 문구를 삭제하고 자체 정보만 기재하세요",
		},
		{
			ID:          "MED-CP-002",
			Category:    CategoryComparison,
			Subcategory: "rank_claim",
			Pattern:     regexp.MustCompile(`(시술|수술|치료)\s*(건수|횟수)\s*(1\s*위|최다)`),
			Severity:    PatternMinor,
			LegalBasis:  basisComparison,
			Description: "시술 건수 1위 등 순위 주장",
			Example:     "시술 건수 1위 병원",
			Suggestion:  "공인 기관의 검증 자료 없이는 순위를 표기하지 마세요",
		},
		{
			ID:          "MED-PI-001",
			Category:    CategoryPriceInducement,
			Subcategory: "discount",
			Pattern:     regexp.MustCompile(`([5-9][0-9]|100)\s*%\s*(할인|세일|DC)`),
			Severity:    PatternMajor,
			LegalBasis:  basisInducement,
			Description: "과도한 할인율로 환자를 유인하는 표현",
			Example:     "전 시술 50% 할인 이벤트",
			Suggestion:  "비급여 진료비는 할인 경쟁이 아닌 고지 형태로 안내하세요",
		},
		{
			ID:          "MED-PI-002",
			Category:    CategoryPriceInducement,
			Subcategory: "free_offer",
			Pattern:     regexp.MustCompile(`(무료\s*(시술|수술|시술권|체험)|공짜)`),
			Severity:    PatternMajor,
			LegalBasis:  basisInducement,
			Description: "무료 시술 제공 등 유인 행위",
			Example:     "선착순 무료 시술 이벤트",
			Suggestion:  "무료 제공·경품 형태의 환자 유인 문구를 삭제하세요",
			Exceptions:  []string{"무료 주차", "무료주차", "상담은 무료"},
		},
		{
			ID:          "MED-PI-003",
			Category:    CategoryPriceInducement,
			Subcategory: "urgency",
			Pattern:     regexp.MustCompile(`(오늘|금일|이번\s*주)\s*(만|까지만)\s*(특가|할인|이벤트)`),
			Severity:    PatternMinor,
			LegalBasis:  basisInducement,
			Description: "기간 한정 특가로 조급함을 유발하는 표현",
			Example:     "오늘만 특가 진행",
			Suggestion:  "기한 압박형 문구를 삭제하세요",
		},
		{
			ID:          "MED-BA-001",
			Category:    CategoryBeforeAfter,
			Subcategory: "before_after_photo",
			Pattern:     regexp.MustCompile(`(전후|비포\s*애프터|Before\s*&?\s*After)\s*(사진|이미지|비교)`),
			Severity:    PatternMajor,
			LegalBasis:  basisExperience,
			Description: "시술 전후 사진을 내세우는 표현",
			Example:     "전후 사진으로 확인하세요",
			Suggestion:  "전후 사진에는 시술 정보·부작용·개인차 고지를 병기하세요",
		},
		{
			ID:          "MED-TS-001",
			Category:    CategoryTestimonial,
			Subcategory: "patient_story",
			Pattern:     regexp.MustCompile(`(치료|시술)\s*(후기|경험담|체험기)`),
			Severity:    PatternMajor,
			LegalBasis:  basisExperience,
			Description: "치료경험담을 광고에 활용하는 표현",
			Example:     "실제 환자의 치료 후기",
			Suggestion:  "환자 치료경험담은 의료광고에 사용할 수 없습니다",
		},
		{
			ID:          "MED-TS-002",
			Category:    CategoryTestimonial,
			Subcategory: "celebrity",
			Pattern:     regexp.MustCompile(`(연예인|유명인|셀럽)[이가]?\s*(다녀간|선택한|받은)`),
			Severity:    PatternMinor,
			LegalBasis:  basisExperience,
			Description: "유명인 방문·시술 사실을 내세우는 표현",
			Example:     "연예인이 선택한 클리닉",
			Suggestion:  "유명인 관련 문구는 본인 동의와 무관하게 유인 소지가 있어 삭제를 권합니다",
		},
		{
			ID:          "MED-PR-001",
			Category:    CategoryProhibitedExpression,
			Subcategory: "fear_appeal",
			Pattern:     regexp.MustCompile(`(방치하면|놔두면|지금\s*치료하지\s*않으면)\s*.{0,12}(위험|악화|큰일)`),
			Severity:    PatternMajor,
			LegalBasis:  basisFalse,
			Description: "공포심을 조장해 치료를 유도하는 표현",
			Example:     "방치하면 더 큰 질환으로 악화됩니다",
			Suggestion:  "의학적 정보 제공 수준으로 완화하세요",
		},
		{
			ID:          "MED-PR-002",
			Category:    CategoryProhibitedExpression,
			Subcategory: "unreviewed",
			Pattern:     regexp.MustCompile(`심의\s*(면제|없이|받지\s*않)`),
			Severity:    PatternMinor,
			LegalBasis:  basisAssessment,
			Description: "의료광고 심의를 받지 않았음을 드러내는 표현",
			Example:     "심의 없이 게재된 광고",
			Suggestion:  "의료광고 자율심의를 거친 뒤 게재하세요",
		},
	}
}

// absoluteViolationIDs lists pattern ids whose severity is never downgraded
// by a disclaimer. These are the claims the 심의기준 treats as per-se
// violations regardless of accompanying caveats.
var absoluteViolationIDs = map[string]bool{
	"MED-GU-001": true,
	"MED-FC-002": true,
	"MED-TS-001": true,
}

// AbsoluteViolation reports whether the pattern id is exempt from
// disclaimer-based severity downgrade.
func AbsoluteViolation(patternID string) bool {
	return absoluteViolationIDs[patternID]
}

// negativeList holds device, drug, skincare and plain medical terms that are
// never violations by themselves. Brand names of toxins and fillers show up
// inside price tables constantly.
var negativeList = []string{
	"보톡스", "나보타", "보툴렉스", "제오민", "디스포트",
	"필러", "쥬비덤", "레스틸렌", "벨로테로",
	"울쎄라", "써마지", "슈링크", "인모드", "튠페이스",
	"리쥬란", "스킨부스터", "엑소좀", "물광주사",
	"레이저토닝", "피코토닝", "프락셀", "IPL", "MTS",
	"비타민", "콜라겐", "히알루론산", "보습제", "선크림",
	"임플란트", "라미네이트", "인비절라인",
	"라식", "라섹", "스마일라식",
	"도수치료", "체외충격파", "프롤로주사",
	"내시경", "초음파", "MRI", "CT",
}

// NegativeList returns the built-in non-violation term list.
func NegativeList() []string { return negativeList }

// Confidence adjustment keyword sets for the matcher (spec: absolute-
// certainty words boost, individual-variation hedges reduce).
var (
	boostKeywords = []string{"무조건", "절대", "반드시", "확실히", "유일한", "100%"}
	hedgeKeywords = []string{"개인차", "차이가 있을 수", "다를 수 있", "상담 후 결정"}
)

// BoostKeywords returns context keywords that raise match confidence.
func BoostKeywords() []string { return boostKeywords }

// HedgeKeywords returns context keywords that lower match confidence.
func HedgeKeywords() []string { return hedgeKeywords }

// builtinExceptions returns the contextual-exception table in evaluation
// order. Order matters: negation first, disclaimer before the discarding
// types that follow it.
func builtinExceptions() []ContextException {
	return []ContextException{
		{
			Type:        ExceptionNegationBefore,
			Description: "매치 앞에서 해당 표현을 부정하는 문맥",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(않|안\s|없|아닌|아니)`),
				regexp.MustCompile(`(금지|불가|삼가|지양)`),
			},
		},
		{
			Type:        ExceptionNegationAfter,
			Description: "매치 뒤에서 해당 표현을 부정하는 문맥",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`^[는은을를이가]?\s*(하지\s*않|되지\s*않|않습니다|않아요|없습니다|아닙니다)`),
				regexp.MustCompile(`^[는은을를이가]?\s*(할\s*수\s*없|금지)`),
			},
		},
		{
			Type:        ExceptionDisclaimer,
			Description: "개인차 등 면책 고지가 함께 있는 문맥",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`개인(마다|에\s*따라|별로?)\s*(차이|다를|결과)`),
				regexp.MustCompile(`(효과|결과)[는은]?\s*.{0,10}차이가\s*있`),
				regexp.MustCompile(`부작용이\s*(있을|발생할)\s*수\s*있`),
			},
		},
		{
			Type:        ExceptionLegalNotice,
			Description: "의료법·심의 관련 법적 고지 문맥",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`의료법\s*제?\s*\d*조?`),
				regexp.MustCompile(`(의료광고\s*)?심의(필|번호)`),
				regexp.MustCompile(`법적\s*고지`),
			},
		},
		{
			Type:        ExceptionNegativeExample,
			Description: "금지 사례를 소개하는 문맥",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(이런|다음과?\s*같은|아래)\s*(광고|표현|문구)[는은]?\s*.{0,10}(금지|위반|불가)`),
				regexp.MustCompile(`(잘못된|위반)\s*(광고|표현)\s*(예시|사례)`),
			},
		},
		{
			Type:        ExceptionQuestion,
			Description: "질문 형태의 문장",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(\?|까요|나요|ㄹ까)\s*$`),
			},
		},
		{
			Type:        ExceptionQuotation,
			Description: "인용 부호로 둘러싸인 문맥",
			// Quotation is resolved by the balanced-quote heuristic in the
			// matcher; patterns list the quote characters it scans for.
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`["“”'‘’「」『』]`),
			},
		},
		{
			Type:        ExceptionConditional,
			Description: "조건부 서술 문맥",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(만약|경우에\s*따라|경우에는|따라서는)`),
				regexp.MustCompile(`(한다면|하시면|받으시면)`),
			},
		},
	}
}

// Page-level disclaimer probe: any of these anywhere in the text sets the
// disclaimer flag on every match.
var pageDisclaimerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`개인(마다|에\s*따라|별로?)\s*(차이|다를)`),
	regexp.MustCompile(`부작용이\s*(있을|발생할)\s*수\s*있`),
	regexp.MustCompile(`의료광고\s*심의필`),
}

// PageDisclaimerPatterns returns the page-level disclaimer probes.
func PageDisclaimerPatterns() []*regexp.Regexp { return pageDisclaimerPatterns }
