// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core orchestrates the violation-detection pipeline: pattern
// matching and judgment always run; compound, department and mandatory
// checks are independently toggleable and run concurrently; impression
// analysis runs last because it consumes everything.
package core

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/medcheck-kr/medcheck/internal/compound"
	"github.com/medcheck-kr/medcheck/internal/department"
	"github.com/medcheck-kr/medcheck/internal/impression"
	"github.com/medcheck-kr/medcheck/internal/judge"
	"github.com/medcheck-kr/medcheck/internal/mandatory"
	"github.com/medcheck-kr/medcheck/internal/matcher"
	"github.com/medcheck-kr/medcheck/internal/rules"
)

// Options controls one analysis request.
type Options struct {
	// URL is used only for section-type heuristics.
	URL string
	// Section pins the section type; empty means auto-detect.
	Section rules.SectionType
	// Department pins the specialty; empty means auto-detect.
	Department rules.Department

	Matcher matcher.Options

	// Stage toggles. Disabled stages leave their Report field nil.
	EnableCompound   bool
	EnableDepartment bool
	EnableMandatory  bool
	EnableImpression bool
}

// DefaultOptions enables every stage with the standard matcher settings.
func DefaultOptions() Options {
	return Options{
		Matcher:          matcher.DefaultOptions(),
		EnableCompound:   true,
		EnableDepartment: true,
		EnableMandatory:  true,
		EnableImpression: true,
	}
}

// Report is the consolidated result of one analysis.
type Report struct {
	ID         string            `json:"id"`
	URL        string            `json:"url,omitempty"`
	Section    rules.SectionType `json:"section"`
	NoInput    bool              `json:"no_input,omitempty"`
	RuleSet    string            `json:"rule_set"`
	AnalyzedAt time.Time         `json:"analyzed_at"`
	Duration   time.Duration     `json:"duration"`

	Matches    []matcher.Match   `json:"matches"`
	Violations []judge.Violation `json:"violations"`
	Score      judge.Score       `json:"score"`

	Compounds      []compound.Violation   `json:"compound_violations,omitempty"`
	DeptDetection  *department.Detection  `json:"department,omitempty"`
	DeptViolations []department.Violation `json:"department_violations,omitempty"`
	Mandatory      *mandatory.Result      `json:"mandatory,omitempty"`
	Impression     *impression.Analysis   `json:"impression,omitempty"`
}

// Analyzer wires the pipeline stages over one shared dictionary. Safe for
// concurrent use: the dictionary is read-only and per-request state lives on
// the request's stack.
type Analyzer struct {
	dict       *rules.Dictionary
	matcher    *matcher.Matcher
	judge      *judge.Engine
	compound   *compound.Detector
	department *department.Engine
	mandatory  *mandatory.Checker
	impression *impression.Analyzer
	logger     *zap.Logger
}

// New builds an Analyzer over the dictionary.
func New(dict *rules.Dictionary, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		dict:       dict,
		matcher:    matcher.New(dict),
		judge:      judge.New(dict),
		compound:   compound.New(dict),
		department: department.New(dict),
		mandatory:  mandatory.New(dict),
		impression: impression.New(),
		logger:     logger,
	}
}

// Dictionary exposes the analyzer's rule set to read-only consumers.
func (a *Analyzer) Dictionary() *rules.Dictionary { return a.dict }

// Analyze runs the pipeline over one normalized text. It always returns a
// structured report: empty input yields zero violations, clean score 100 and
// grade S with the NoInput marker set.
func (a *Analyzer) Analyze(ctx context.Context, text string, opts Options) *Report {
	started := time.Now()
	report := &Report{
		ID:         uuid.NewString(),
		URL:        opts.URL,
		RuleSet:    a.dict.Version,
		AnalyzedAt: started.UTC(),
	}

	if strings.TrimSpace(text) == "" {
		report.NoInput = true
		report.Section = rules.SectionGeneral
		report.Violations = []judge.Violation{}
		_, report.Score = a.judge.Judge(nil, rules.SectionGeneral)
		report.Duration = time.Since(started)
		return report
	}

	section := opts.Section
	if section == "" {
		section = DetectSection(opts.URL, text)
	}
	report.Section = section

	report.Matches = a.matcher.Scan(text, opts.Matcher)
	report.Violations, report.Score = a.judge.Judge(report.Matches, section)

	// The three optional stages are independent pure functions; run them
	// together and join before the impression stage.
	g, _ := errgroup.WithContext(ctx)
	if opts.EnableCompound {
		g.Go(func() error {
			report.Compounds = a.compound.Detect(text)
			return nil
		})
	}
	if opts.EnableDepartment {
		g.Go(func() error {
			if opts.Department != "" {
				detection := department.Detection{Department: opts.Department, Confidence: 1}
				report.DeptDetection = &detection
				report.DeptViolations = a.department.CheckWithDepartment(text, opts.Department)
				return nil
			}
			detection, violations := a.department.Check(text)
			report.DeptDetection = &detection
			report.DeptViolations = violations
			return nil
		})
	}
	if opts.EnableMandatory {
		g.Go(func() error {
			result := a.mandatory.Check(text)
			report.Mandatory = &result
			return nil
		})
	}
	_ = g.Wait()

	if opts.EnableImpression {
		analysis := a.impression.Analyze(text, report.Matches, report.Compounds, report.DeptViolations, report.Mandatory)
		report.Impression = &analysis
	}

	report.Duration = time.Since(started)
	a.logger.Debug("analysis complete",
		zap.String("analysis_id", report.ID),
		zap.String("grade", string(report.Score.Grade)),
		zap.Int("matches", len(report.Matches)),
		zap.Duration("duration", report.Duration))
	return report
}

// DetectSection infers the page region from the URL first, then from text
// markers. Unknown pages weigh as general.
func DetectSection(url, text string) rules.SectionType {
	lowered := strings.ToLower(url)
	switch {
	case strings.Contains(lowered, "event") || strings.Contains(lowered, "promotion"):
		return rules.SectionEvent
	case strings.Contains(lowered, "faq"):
		return rules.SectionFAQ
	case strings.Contains(lowered, "review"):
		return rules.SectionReview
	case strings.Contains(lowered, "doctor") || strings.Contains(lowered, "about") || strings.Contains(lowered, "staff"):
		return rules.SectionDoctor
	case strings.Contains(lowered, "treatment") || strings.Contains(lowered, "procedure") || strings.Contains(lowered, "clinic"):
		return rules.SectionTreatment
	}

	switch {
	case strings.Contains(text, "자주 묻는 질문") || strings.Contains(text, "Q."):
		return rules.SectionFAQ
	case strings.Contains(text, "이벤트") && strings.Contains(text, "할인"):
		return rules.SectionEvent
	case strings.Contains(text, "후기"):
		return rules.SectionReview
	case strings.Contains(text, "의료진 소개") || strings.Contains(text, "원장 인사말"):
		return rules.SectionDoctor
	case strings.Contains(text, "시술") || strings.Contains(text, "치료"):
		return rules.SectionTreatment
	}
	return rules.SectionGeneral
}
