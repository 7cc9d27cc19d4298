// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/medcheck-kr/medcheck/internal/core"
	"github.com/medcheck-kr/medcheck/internal/formatters"
	"github.com/medcheck-kr/medcheck/internal/rules"
)

// Formatter implements human-readable text output.
type Formatter struct {
	severityColors map[rules.Severity]*color.Color
	gradeColors    map[rules.Grade]*color.Color
}

// NewFormatter creates a new text formatter.
func NewFormatter() *Formatter {
	return &Formatter{
		severityColors: map[rules.Severity]*color.Color{
			rules.SeverityCritical: color.New(color.FgRed, color.Bold),
			rules.SeverityHigh:     color.New(color.FgRed),
			rules.SeverityMedium:   color.New(color.FgYellow),
			rules.SeverityLow:      color.New(color.FgCyan),
		},
		gradeColors: map[rules.Grade]*color.Color{
			rules.GradeS: color.New(color.FgGreen, color.Bold),
			rules.GradeA: color.New(color.FgGreen),
			rules.GradeB: color.New(color.FgCyan),
			rules.GradeC: color.New(color.FgYellow),
			rules.GradeD: color.New(color.FgRed),
			rules.GradeF: color.New(color.FgRed, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable report with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(report *core.Report, options formatters.Options) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var sb strings.Builder

	sb.WriteString("=== 의료광고 분석 결과 ===\n")
	fmt.Fprintf(&sb, "분석 ID: %s\n", report.ID)
	if report.URL != "" {
		fmt.Fprintf(&sb, "URL: %s\n", report.URL)
	}
	if report.NoInput {
		sb.WriteString("입력된 텍스트가 없습니다.\n")
	}
	fmt.Fprintf(&sb, "섹션: %s  규칙셋: %s\n", report.Section, report.RuleSet)

	grade := f.gradeColors[report.Score.Grade]
	if grade == nil {
		grade = color.New(color.FgWhite)
	}
	fmt.Fprintf(&sb, "클린 점수: %.1f / 100   등급: %s (%s)\n\n",
		report.Score.CleanScore,
		grade.Sprint(string(report.Score.Grade)),
		report.Score.GradeLabel)

	if len(report.Violations) == 0 {
		sb.WriteString("위반 사항이 발견되지 않았습니다.\n")
	} else {
		fmt.Fprintf(&sb, "위반 사항 %d건:\n", len(report.Violations))
		for i, v := range report.Violations {
			sev := f.severityColors[v.Severity]
			if sev == nil {
				sev = color.New(color.FgWhite)
			}
			fmt.Fprintf(&sb, "%2d. [%s] %s — %q (신뢰도 %.0f%%, %s)\n",
				i+1, sev.Sprint(string(v.Severity)), v.Label, v.Text, v.Confidence*100, v.Status)
			if options.Verbose {
				if v.Description != "" {
					fmt.Fprintf(&sb, "     설명: %s\n", v.Description)
				}
				if v.LegalBasis != "" {
					fmt.Fprintf(&sb, "     근거: %s\n", v.LegalBasis)
				}
				if v.Suggestion != "" {
					fmt.Fprintf(&sb, "     제안: %s\n", v.Suggestion)
				}
			}
		}
	}

	if len(report.Compounds) > 0 {
		fmt.Fprintf(&sb, "\n복합 위반 %d건:\n", len(report.Compounds))
		for _, cv := range report.Compounds {
			fmt.Fprintf(&sb, "  - %s [%s]: %s\n", cv.Name, cv.Logic, cv.Evidence)
		}
	}

	if report.DeptDetection != nil {
		fmt.Fprintf(&sb, "\n진료과목: %s (신뢰도 %.0f%%)\n",
			report.DeptDetection.Department.KoreanName(), report.DeptDetection.Confidence*100)
		for _, dv := range report.DeptViolations {
			fmt.Fprintf(&sb, "  - [%s] %s: %q\n", dv.Severity, dv.Description, dv.Text)
		}
	}

	if report.Mandatory != nil {
		fmt.Fprintf(&sb, "\n필수 표기 점수: %d / 100\n", report.Mandatory.Score)
		for _, missing := range report.Mandatory.MissingRequired {
			fmt.Fprintf(&sb, "  - 누락: %s\n", missing)
		}
		for _, warning := range report.Mandatory.Warnings {
			fmt.Fprintf(&sb, "  - 주의: %s\n", warning)
		}
	}

	if report.Impression != nil {
		imp := report.Impression
		fmt.Fprintf(&sb, "\n종합 위험도: %s (%.1f)  준수 점수: %.1f\n",
			imp.RiskLevel, imp.RiskScore, imp.ComplianceScore)
		fmt.Fprintf(&sb, "총평: %s\n", imp.Assessment)
	}

	if len(report.Score.Recommendations) > 0 {
		sb.WriteString("\n권고 사항:\n")
		for _, rec := range report.Score.Recommendations {
			fmt.Fprintf(&sb, "  * %s\n", rec)
		}
	}

	return sb.String(), nil
}

func init() {
	formatters.Register(NewFormatter())
}
