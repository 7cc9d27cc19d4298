// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"os"
	"regexp"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Dictionary is the immutable, versioned rule set shared by every analysis.
// Built once at startup; concurrent analyses read it without locking.
type Dictionary struct {
	Version     string
	Patterns    []PatternDefinition
	Exceptions  []ContextException
	Compounds   []CompoundRule
	DeptRules   []DepartmentRule
	Profiles    []DepartmentProfile
	Mandatory   []MandatoryItem
	NegativeSet []string
}

// Builtin returns the built-in dictionary.
func Builtin() *Dictionary {
	return &Dictionary{
		Version:     "2024.2",
		Patterns:    builtinPatterns(),
		Exceptions:  builtinExceptions(),
		Compounds:   builtinCompoundRules(),
		DeptRules:   builtinDepartmentRules(),
		Profiles:    builtinDepartmentProfiles(),
		Mandatory:   builtinMandatoryItems(),
		NegativeSet: negativeList,
	}
}

// PatternsForDepartment returns the overlay rules scoped to dept.
func (d *Dictionary) PatternsForDepartment(dept Department) []DepartmentRule {
	var out []DepartmentRule
	for _, r := range d.DeptRules {
		if r.Department == dept {
			out = append(out, r)
		}
	}
	return out
}

// PatternByID looks up an atomic pattern definition.
func (d *Dictionary) PatternByID(id string) (PatternDefinition, bool) {
	for _, p := range d.Patterns {
		if p.ID == id {
			return p, true
		}
	}
	return PatternDefinition{}, false
}

// overlayFile is the yaml shape of an external rule dictionary.
type overlayFile struct {
	Version  string `yaml:"version"`
	Patterns []struct {
		ID          string   `yaml:"id"`
		Category    string   `yaml:"category"`
		Subcategory string   `yaml:"subcategory"`
		Pattern     string   `yaml:"pattern"`
		Severity    string   `yaml:"severity"`
		LegalBasis  string   `yaml:"legal_basis"`
		Description string   `yaml:"description"`
		Example     string   `yaml:"example"`
		Suggestion  string   `yaml:"suggestion"`
		Exceptions  []string `yaml:"exceptions"`
	} `yaml:"patterns"`
	NegativeTerms []string `yaml:"negative_terms"`
}

// LoadOverlay reads a yaml dictionary file and merges it over the built-in
// set. A malformed rule is skipped with a logged warning; one bad rule never
// disables the engine. Returns an error only when the file itself cannot be
// read or parsed.
func LoadOverlay(path string, base *Dictionary, logger *zap.Logger) (*Dictionary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule overlay: %w", err)
	}

	var file overlayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rule overlay %s: %w", path, err)
	}

	merged := *base
	merged.Patterns = append([]PatternDefinition(nil), base.Patterns...)
	merged.NegativeSet = append([]string(nil), base.NegativeSet...)
	if file.Version != "" {
		merged.Version = file.Version
	}

	for _, raw := range file.Patterns {
		def, err := compileOverlayPattern(raw.ID, raw.Category, raw.Subcategory, raw.Pattern,
			raw.Severity, raw.LegalBasis, raw.Description, raw.Example, raw.Suggestion, raw.Exceptions)
		if err != nil {
			logger.Warn("skipping malformed rule",
				zap.String("rule_id", raw.ID),
				zap.Error(err))
			continue
		}

		// Same id replaces the built-in definition.
		replaced := false
		for i := range merged.Patterns {
			if merged.Patterns[i].ID == def.ID {
				merged.Patterns[i] = def
				replaced = true
				break
			}
		}
		if !replaced {
			merged.Patterns = append(merged.Patterns, def)
		}
	}

	merged.NegativeSet = append(merged.NegativeSet, file.NegativeTerms...)
	return &merged, nil
}

func compileOverlayPattern(id, category, subcategory, pattern, severity, legalBasis, description, example, suggestion string, exceptions []string) (PatternDefinition, error) {
	if id == "" {
		return PatternDefinition{}, fmt.Errorf("missing rule id")
	}
	cat := Category(category)
	if !cat.Valid() {
		return PatternDefinition{}, fmt.Errorf("unknown category %q", category)
	}
	sev := PatternSeverity(severity)
	if !sev.Valid() {
		return PatternDefinition{}, fmt.Errorf("unknown severity %q", severity)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return PatternDefinition{}, fmt.Errorf("compile pattern: %w", err)
	}
	return PatternDefinition{
		ID:          id,
		Category:    cat,
		Subcategory: subcategory,
		Pattern:     re,
		Severity:    sev,
		LegalBasis:  legalBasis,
		Description: description,
		Example:     example,
		Suggestion:  suggestion,
		Exceptions:  exceptions,
	}, nil
}
