// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import "regexp"

// Category classifies what kind of advertising violation a pattern detects.
type Category string

const (
	CategoryGuarantee            Category = "guarantee"
	CategoryFalseClaim           Category = "false_claim"
	CategoryExaggeration         Category = "exaggeration"
	CategoryComparison           Category = "comparison"
	CategoryPriceInducement      Category = "price_inducement"
	CategoryBeforeAfter          Category = "before_after"
	CategoryTestimonial          Category = "testimonial"
	CategoryProhibitedExpression Category = "prohibited_expression"
	CategoryOther                Category = "other"
)

// AllCategories lists every violation category in display order.
var AllCategories = []Category{
	CategoryGuarantee,
	CategoryFalseClaim,
	CategoryExaggeration,
	CategoryComparison,
	CategoryPriceInducement,
	CategoryBeforeAfter,
	CategoryTestimonial,
	CategoryProhibitedExpression,
	CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// PatternSeverity is the three-level severity attached to dictionary rules.
// The judge package maps it to the four-level output severity.
type PatternSeverity string

const (
	PatternCritical PatternSeverity = "critical"
	PatternMajor    PatternSeverity = "major"
	PatternMinor    PatternSeverity = "minor"
)

// Valid reports whether s is a known pattern severity.
func (s PatternSeverity) Valid() bool {
	switch s {
	case PatternCritical, PatternMajor, PatternMinor:
		return true
	}
	return false
}

// Severity is the four-level severity of a normalized violation.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank orders severities: critical > high > medium > low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Downgrade returns the severity one step below s. Low stays low.
func (s Severity) Downgrade() Severity {
	switch s {
	case SeverityCritical:
		return SeverityHigh
	case SeverityHigh:
		return SeverityMedium
	case SeverityMedium:
		return SeverityLow
	}
	return SeverityLow
}

// Status grades how certain a normalized violation is.
type Status string

const (
	StatusViolation Status = "violation" // confidence >= 0.85
	StatusLikely    Status = "likely"    // confidence >= 0.70
	StatusPossible  Status = "possible"
)

// Grade is the overall letter grade for a page.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// SectionType identifies the page region the analyzed text came from.
// It weights deductions: promotional pages are judged harder than FAQs.
type SectionType string

const (
	SectionEvent     SectionType = "event"
	SectionTreatment SectionType = "treatment"
	SectionFAQ       SectionType = "faq"
	SectionReview    SectionType = "review"
	SectionDoctor    SectionType = "doctor"
	SectionGeneral   SectionType = "general"
)

// Valid reports whether s is a known section type.
func (s SectionType) Valid() bool {
	switch s {
	case SectionEvent, SectionTreatment, SectionFAQ, SectionReview,
		SectionDoctor, SectionGeneral:
		return true
	}
	return false
}

// Weight returns the deduction multiplier for the section.
func (s SectionType) Weight() float64 {
	switch s {
	case SectionEvent:
		return 0.8
	case SectionTreatment:
		return 1.2
	case SectionFAQ:
		return 0.6
	case SectionReview:
		return 0.7
	}
	return 1.0
}

// Department tags a medical specialty.
type Department string

const (
	DeptDermatology    Department = "dermatology"
	DeptPlasticSurgery Department = "plastic_surgery"
	DeptDental         Department = "dental"
	DeptOriental       Department = "oriental_medicine"
	DeptPsychiatry     Department = "psychiatry"
	DeptOphthalmology  Department = "ophthalmology"
	DeptOrthopedics    Department = "orthopedics"
	DeptInternal       Department = "internal_medicine"
	DeptGeneral        Department = "general"
)

// AllDepartments lists every specialty, general last.
var AllDepartments = []Department{
	DeptDermatology,
	DeptPlasticSurgery,
	DeptDental,
	DeptOriental,
	DeptPsychiatry,
	DeptOphthalmology,
	DeptOrthopedics,
	DeptInternal,
	DeptGeneral,
}

// Valid reports whether d is a known department.
func (d Department) Valid() bool {
	for _, known := range AllDepartments {
		if d == known {
			return true
		}
	}
	return false
}

// KoreanName returns the specialty name as it appears in ad copy.
func (d Department) KoreanName() string {
	switch d {
	case DeptDermatology:
		return "피부과"
	case DeptPlasticSurgery:
		return "성형외과"
	case DeptDental:
		return "치과"
	case DeptOriental:
		return "한의원"
	case DeptPsychiatry:
		return "정신건강의학과"
	case DeptOphthalmology:
		return "안과"
	case DeptOrthopedics:
		return "정형외과"
	case DeptInternal:
		return "내과"
	}
	return "일반"
}

// ExceptionType classifies a contextual exception around a match.
type ExceptionType string

const (
	ExceptionNegationBefore  ExceptionType = "negation_before"
	ExceptionNegationAfter   ExceptionType = "negation_after"
	ExceptionDisclaimer      ExceptionType = "disclaimer"
	ExceptionQuestion        ExceptionType = "question"
	ExceptionQuotation       ExceptionType = "quotation"
	ExceptionLegalNotice     ExceptionType = "legal_notice"
	ExceptionNegativeExample ExceptionType = "negative_example"
	ExceptionConditional     ExceptionType = "conditional"
)

// LogicOp is the combining operator of a compound rule.
type LogicOp string

const (
	LogicAnd      LogicOp = "AND"
	LogicOr       LogicOp = "OR"
	LogicAndNot   LogicOp = "AND_NOT"
	LogicSequence LogicOp = "SEQUENCE"
)

// RiskLevel buckets the overall risk score of the impression analysis.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// PatternDefinition is one atomic detection rule. Definitions are compiled
// once at load time and never mutated afterwards.
type PatternDefinition struct {
	ID          string
	Category    Category
	Subcategory string
	Pattern     *regexp.Regexp
	Severity    PatternSeverity
	LegalBasis  string
	Description string
	Example     string
	Suggestion  string
	// Exceptions are literal strings that void a match when found within a
	// small window around it.
	Exceptions []string
}

// ContextException is a contextual pattern that suppresses or downgrades an
// otherwise-matching violation.
type ContextException struct {
	Type        ExceptionType
	Patterns    []*regexp.Regexp
	Description string
}

// Condition is one leg of a compound rule.
type Condition struct {
	ID       string
	Patterns []*regexp.Regexp
	Required bool
	// Exclusion conditions void AND_NOT rules when they match.
	Exclusion bool
	// MaxDistance bounds the rune gap from the previous condition's match in
	// SEQUENCE rules. Zero means unbounded.
	MaxDistance int
}

// CompoundRule fires only when a logical combination of conditions holds.
type CompoundRule struct {
	ID         string
	Name       string
	Logic      LogicOp
	Conditions []Condition
	// MinConditionsMet applies to OR rules; zero defaults to 1.
	MinConditionsMet int
	Category         Category
	Severity         PatternSeverity
	LegalBasis       string
	Description      string
	Suggestion       string
}

// DepartmentRule is a specialty-scoped pattern rule. Shape mirrors
// PatternDefinition but evaluation is first-pattern-wins per rule.
type DepartmentRule struct {
	ID          string
	Department  Department
	Category    Category
	Patterns    []*regexp.Regexp
	Severity    PatternSeverity
	LegalBasis  string
	Description string
	Suggestion  string
	// Exception voids the rule when it matches near the hit.
	Exception *regexp.Regexp
}

// DepartmentProfile holds the detection signals for one specialty.
type DepartmentProfile struct {
	Department Department
	// Patterns score 2 points each, Keywords 1 point each.
	Patterns []*regexp.Regexp
	Keywords []string
}

// MandatoryItem describes one legally required or recommended disclosure.
type MandatoryItem struct {
	Field       string
	Korean      string
	Required    bool
	Patterns    []*regexp.Regexp
	Description string
}
