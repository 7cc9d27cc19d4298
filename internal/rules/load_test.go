// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestBuiltinDictionary(t *testing.T) {
	dict := Builtin()

	if dict.Version != "2024.2" {
		t.Errorf("expected version 2024.2, got %q", dict.Version)
	}
	if len(dict.Patterns) == 0 {
		t.Fatal("expected built-in patterns")
	}
	if len(dict.Compounds) == 0 {
		t.Fatal("expected built-in compound rules")
	}
	if len(dict.Mandatory) == 0 {
		t.Fatal("expected built-in mandatory items")
	}

	seen := make(map[string]bool)
	for _, p := range dict.Patterns {
		if p.ID == "" {
			t.Error("pattern with empty id")
		}
		if seen[p.ID] {
			t.Errorf("duplicate pattern id %s", p.ID)
		}
		seen[p.ID] = true
		if p.Pattern == nil {
			t.Errorf("pattern %s has nil regexp", p.ID)
		}
		if !p.Severity.Valid() {
			t.Errorf("pattern %s has invalid severity %q", p.ID, p.Severity)
		}
		if !p.Category.Valid() {
			t.Errorf("pattern %s has invalid category %q", p.ID, p.Category)
		}
	}
}

func TestBuiltinPatternsMatchTheirExamples(t *testing.T) {
	for _, p := range Builtin().Patterns {
		if p.Example == "" {
			continue
		}
		if !p.Pattern.MatchString(p.Example) {
			t.Errorf("pattern %s does not match its own example %q", p.ID, p.Example)
		}
	}
}

func TestPatternByID(t *testing.T) {
	dict := Builtin()

	p, ok := dict.PatternByID("MED-GU-001")
	if !ok {
		t.Fatal("MED-GU-001 not found")
	}
	if p.Category != CategoryGuarantee {
		t.Errorf("expected category %s, got %s", CategoryGuarantee, p.Category)
	}
	if p.Severity != PatternCritical {
		t.Errorf("expected critical severity, got %s", p.Severity)
	}

	if _, ok := dict.PatternByID("MED-XX-999"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestSectionAndDepartmentValidity(t *testing.T) {
	for _, s := range []SectionType{SectionEvent, SectionTreatment, SectionFAQ,
		SectionReview, SectionDoctor, SectionGeneral} {
		if !s.Valid() {
			t.Errorf("section %s should be valid", s)
		}
	}
	if SectionType("sidebar").Valid() {
		t.Error("unknown section must not be valid")
	}

	for _, d := range AllDepartments {
		if !d.Valid() {
			t.Errorf("department %s should be valid", d)
		}
	}
	if Department("veterinary").Valid() {
		t.Error("unknown department must not be valid")
	}
}

func TestPatternsForDepartment(t *testing.T) {
	dict := Builtin()

	derm := dict.PatternsForDepartment(DeptDermatology)
	if len(derm) == 0 {
		t.Fatal("expected dermatology rules")
	}
	for _, r := range derm {
		if r.Department != DeptDermatology {
			t.Errorf("rule %s scoped to %s", r.ID, r.Department)
		}
	}
}

func TestLoadOverlay_AddAndReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")

	overlay := `version: "2025.1"
patterns:
  - id: MED-GU-001
    category: guarantee
    pattern: "완전히\\s*새로운"
    severity: critical
    description: replaced rule
  - id: CUSTOM-001
    category: exaggeration
    pattern: "기적의"
    severity: major
    description: custom rule
negative_terms:
  - 커스텀시술
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	base := Builtin()
	merged, err := LoadOverlay(path, base, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadOverlay failed: %v", err)
	}

	if merged.Version != "2025.1" {
		t.Errorf("expected overlay version, got %q", merged.Version)
	}
	if len(merged.Patterns) != len(base.Patterns)+1 {
		t.Errorf("expected %d patterns, got %d", len(base.Patterns)+1, len(merged.Patterns))
	}

	replaced, ok := merged.PatternByID("MED-GU-001")
	if !ok {
		t.Fatal("MED-GU-001 missing after overlay")
	}
	if replaced.Description != "replaced rule" {
		t.Errorf("MED-GU-001 was not replaced, description %q", replaced.Description)
	}

	if _, ok := merged.PatternByID("CUSTOM-001"); !ok {
		t.Error("CUSTOM-001 missing after overlay")
	}

	found := false
	for _, term := range merged.NegativeSet {
		if term == "커스텀시술" {
			found = true
		}
	}
	if !found {
		t.Error("overlay negative term missing")
	}

	// The base dictionary must be untouched.
	orig, _ := base.PatternByID("MED-GU-001")
	if orig.Description == "replaced rule" {
		t.Error("overlay mutated the base dictionary")
	}
}

func TestLoadOverlay_MalformedRuleIsSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")

	overlay := `patterns:
  - id: BAD-REGEX
    category: guarantee
    pattern: "([unclosed"
    severity: critical
  - id: BAD-CATEGORY
    category: nonsense
    pattern: "ok"
    severity: major
  - id: BAD-SEVERITY
    category: guarantee
    pattern: "ok"
    severity: fatal
  - category: guarantee
    pattern: "ok"
    severity: minor
  - id: GOOD-001
    category: guarantee
    pattern: "확실한\\s*효과"
    severity: major
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	base := Builtin()
	merged, err := LoadOverlay(path, base, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadOverlay failed: %v", err)
	}

	if len(merged.Patterns) != len(base.Patterns)+1 {
		t.Errorf("expected only the good rule added, got %d extra",
			len(merged.Patterns)-len(base.Patterns))
	}
	if _, ok := merged.PatternByID("GOOD-001"); !ok {
		t.Error("GOOD-001 missing; valid rule must survive malformed neighbors")
	}
	for _, id := range []string{"BAD-REGEX", "BAD-CATEGORY", "BAD-SEVERITY"} {
		if _, ok := merged.PatternByID(id); ok {
			t.Errorf("%s should have been skipped", id)
		}
	}
}

func TestLoadOverlay_MissingFile(t *testing.T) {
	if _, err := LoadOverlay("/nonexistent/overlay.yaml", Builtin(), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadOverlay_UnparseableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	if err := os.WriteFile(path, []byte("patterns: [not: closed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOverlay(path, Builtin(), zap.NewNop()); err == nil {
		t.Error("expected parse error")
	}
}
