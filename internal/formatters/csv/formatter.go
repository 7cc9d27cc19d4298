// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/medcheck-kr/medcheck/internal/core"
	"github.com/medcheck-kr/medcheck/internal/formatters"
)

// Formatter implements CSV output: one row per normalized violation.
type Formatter struct{}

// NewFormatter creates a new CSV formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "CSV output, one row per violation"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(report *core.Report, options formatters.Options) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"analysis_id", "type", "severity", "status", "text", "start", "end", "confidence", "pattern_id", "legal_basis"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	for _, v := range report.Violations {
		row := []string{
			report.ID,
			string(v.Type),
			string(v.Severity),
			string(v.Status),
			v.Text,
			fmt.Sprintf("%d", v.Start),
			fmt.Sprintf("%d", v.End),
			fmt.Sprintf("%.2f", v.Confidence),
			v.PatternID,
			v.LegalBasis,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return sb.String(), nil
}

func init() {
	formatters.Register(NewFormatter())
}
