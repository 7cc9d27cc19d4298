// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"strings"
	"testing"

	"github.com/medcheck-kr/medcheck/internal/rules"
)

func newAnalyzer() *Analyzer {
	return New(rules.Builtin(), nil)
}

func TestAnalyze_CureGuarantee(t *testing.T) {
	report := newAnalyzer().Analyze(context.Background(), "이 시술은 100% 완치를 보장합니다.", DefaultOptions())

	if report.ID == "" {
		t.Error("report needs an analysis id")
	}
	if report.RuleSet == "" {
		t.Error("report needs the rule set version")
	}
	if len(report.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(report.Violations))
	}
	v := report.Violations[0]
	if v.PatternID != "MED-GU-001" {
		t.Errorf("expected MED-GU-001, got %s", v.PatternID)
	}
	if v.Severity != rules.SeverityCritical {
		t.Errorf("expected critical, got %s", v.Severity)
	}
	if v.Status != rules.StatusViolation {
		t.Errorf("expected violation status, got %s", v.Status)
	}
	if report.Score.Grade != rules.GradeD {
		t.Errorf("one critical violation grades D, got %s", report.Score.Grade)
	}
	if report.Section != rules.SectionTreatment {
		t.Errorf("procedure text should detect as treatment, got %s", report.Section)
	}
	if report.Impression == nil {
		t.Error("impression stage should run by default")
	}
}

func TestAnalyze_DisclaimerDowngrade(t *testing.T) {
	report := newAnalyzer().Analyze(context.Background(),
		"100% 효과를 보장합니다. 단, 개인에 따라 차이가 있을 수 있습니다.", DefaultOptions())

	if len(report.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(report.Violations))
	}
	v := report.Violations[0]
	if v.Severity != rules.SeverityHigh {
		t.Errorf("disclaimer should downgrade to high, got %s", v.Severity)
	}
	if !v.Downgraded {
		t.Error("downgrade flag should be set")
	}
	if report.Score.Grade != rules.GradeB {
		t.Errorf("one high violation grades B, got %s", report.Score.Grade)
	}
}

func TestAnalyze_CleanText(t *testing.T) {
	report := newAnalyzer().Analyze(context.Background(),
		"저희 의원은 개인별 맞춤 상담을 제공합니다.", DefaultOptions())

	if len(report.Violations) != 0 {
		t.Fatalf("expected no violations, got %+v", report.Violations)
	}
	if report.Score.CleanScore != 100 {
		t.Errorf("expected clean score 100, got %.1f", report.Score.CleanScore)
	}
	if report.Score.Grade != rules.GradeS {
		t.Errorf("expected grade S, got %s", report.Score.Grade)
	}
	if report.NoInput {
		t.Error("real text must not set the no-input marker")
	}
}

func TestAnalyze_CompoundCombination(t *testing.T) {
	report := newAnalyzer().Analyze(context.Background(),
		"전 시술 50% 할인 이벤트! 지금 예약하시면 100% 효과를 보장합니다.", DefaultOptions())

	found := false
	for _, c := range report.Compounds {
		if c.RuleID == "CMP-001" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CMP-001 among compounds, got %+v", report.Compounds)
	}
}

func TestAnalyze_DepartmentAndSpecialistWarning(t *testing.T) {
	report := newAnalyzer().Analyze(context.Background(),
		"내과 진료 안내. 피부과 전문의가 함께합니다.", DefaultOptions())

	if report.DeptDetection == nil {
		t.Fatal("department stage should run by default")
	}
	if report.Mandatory == nil {
		t.Fatal("mandatory stage should run by default")
	}

	warned := false
	for _, w := range report.Mandatory.Warnings {
		if strings.Contains(w, "일치하지 않습니다") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected a specialty-mismatch warning, got %v", report.Mandatory.Warnings)
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	report := newAnalyzer().Analyze(context.Background(), "   \n ", DefaultOptions())

	if !report.NoInput {
		t.Error("expected the no-input marker")
	}
	if report.Score.CleanScore != 100 || report.Score.Grade != rules.GradeS {
		t.Errorf("empty input scores 100/S, got %.1f/%s", report.Score.CleanScore, report.Score.Grade)
	}
	if len(report.Matches) != 0 || len(report.Violations) != 0 {
		t.Error("empty input yields no matches or violations")
	}
	if report.Compounds != nil || report.DeptDetection != nil || report.Mandatory != nil || report.Impression != nil {
		t.Error("optional stages must not run on empty input")
	}
	if report.ID == "" {
		t.Error("even an empty report carries an analysis id")
	}
}

func TestAnalyze_StageToggles(t *testing.T) {
	opts := DefaultOptions()
	opts.EnableCompound = false
	opts.EnableDepartment = false
	opts.EnableMandatory = false
	opts.EnableImpression = false

	report := newAnalyzer().Analyze(context.Background(),
		"이 시술은 100% 완치를 보장합니다.", opts)

	if report.Compounds != nil {
		t.Error("compound stage was disabled")
	}
	if report.DeptDetection != nil || report.DeptViolations != nil {
		t.Error("department stage was disabled")
	}
	if report.Mandatory != nil {
		t.Error("mandatory stage was disabled")
	}
	if report.Impression != nil {
		t.Error("impression stage was disabled")
	}
	if len(report.Violations) == 0 {
		t.Error("matching and judgment always run")
	}
}

func TestAnalyze_DepartmentPin(t *testing.T) {
	opts := DefaultOptions()
	opts.Department = rules.DeptDental

	report := newAnalyzer().Analyze(context.Background(),
		"임플란트 평생 보증을 약속합니다.", opts)

	if report.DeptDetection == nil {
		t.Fatal("expected a detection for the pinned department")
	}
	if report.DeptDetection.Department != rules.DeptDental {
		t.Errorf("expected pinned dental, got %s", report.DeptDetection.Department)
	}
	if report.DeptDetection.Confidence != 1 {
		t.Errorf("pinned department has confidence 1, got %.2f", report.DeptDetection.Confidence)
	}

	found := false
	for _, v := range report.DeptViolations {
		if v.RuleID == "DEP-DEN-001" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected DEP-DEN-001, got %+v", report.DeptViolations)
	}
}

func TestAnalyze_SectionPin(t *testing.T) {
	opts := DefaultOptions()
	opts.Section = rules.SectionFAQ

	report := newAnalyzer().Analyze(context.Background(), "시술 안내입니다.", opts)
	if report.Section != rules.SectionFAQ {
		t.Errorf("expected pinned faq section, got %s", report.Section)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := newAnalyzer()
	text := "이 시술은 100% 완치를 보장합니다. 국내 최고의 의료진."

	first := a.Analyze(context.Background(), text, DefaultOptions())
	second := a.Analyze(context.Background(), text, DefaultOptions())

	if len(first.Violations) != len(second.Violations) {
		t.Errorf("violation counts differ: %d vs %d", len(first.Violations), len(second.Violations))
	}
	if first.Score.Grade != second.Score.Grade {
		t.Errorf("grades differ: %s vs %s", first.Score.Grade, second.Score.Grade)
	}
	if first.ID == second.ID {
		t.Error("each analysis gets its own id")
	}
}

func TestDetectSection(t *testing.T) {
	cases := []struct {
		url      string
		text     string
		expected rules.SectionType
	}{
		{"https://clinic.example/event/summer", "", rules.SectionEvent},
		{"https://clinic.example/faq", "", rules.SectionFAQ},
		{"https://clinic.example/review/123", "", rules.SectionReview},
		{"https://clinic.example/doctor", "", rules.SectionDoctor},
		{"https://clinic.example/treatment/acne", "", rules.SectionTreatment},
		{"", "자주 묻는 질문 모음", rules.SectionFAQ},
		{"", "여름 이벤트 할인 안내", rules.SectionEvent},
		{"", "실제 방문 후기입니다", rules.SectionReview},
		{"", "시술 과정을 안내합니다", rules.SectionTreatment},
		{"", "오시는 길 안내", rules.SectionGeneral},
	}
	for _, tc := range cases {
		if got := DetectSection(tc.url, tc.text); got != tc.expected {
			t.Errorf("DetectSection(%q, %q) = %s, want %s", tc.url, tc.text, got, tc.expected)
		}
	}
}
