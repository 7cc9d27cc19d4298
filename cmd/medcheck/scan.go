// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/medcheck-kr/medcheck/internal/config"
	"github.com/medcheck-kr/medcheck/internal/core"
	"github.com/medcheck-kr/medcheck/internal/fetch"
	"github.com/medcheck-kr/medcheck/internal/formatters"
	_ "github.com/medcheck-kr/medcheck/internal/formatters/csv"
	_ "github.com/medcheck-kr/medcheck/internal/formatters/json"
	_ "github.com/medcheck-kr/medcheck/internal/formatters/text"
	"github.com/medcheck-kr/medcheck/internal/matcher"
	"github.com/medcheck-kr/medcheck/internal/rules"
)

type scanFlags struct {
	file          string
	url           string
	format        string
	output        string
	verbose       bool
	noColor       bool
	categories    []string
	minSeverity   string
	minConfidence float64
	maxMatches    int
	section       string
	department    string
	skipCompound  bool
	skipDept      bool
	skipMandatory bool
	skipTone      bool
	noExceptions  bool
	noDedup       bool
	failOn        string
	force         bool
}

func newScanCmd(root *rootFlags) *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan [text]",
		Short: "Analyze advertisement copy for rule violations",
		Long: "Scan analyzes advertisement text passed as an argument, read from a\n" +
			"file (--file), fetched from a URL (--url), or piped on stdin.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, root, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "read advertisement text from a file")
	cmd.Flags().StringVarP(&flags.url, "url", "u", "", "fetch and analyze a page URL")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format (text, json, csv)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "include full match contexts in the report")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	cmd.Flags().StringSliceVar(&flags.categories, "categories", nil, "restrict matching to these categories")
	cmd.Flags().StringVar(&flags.minSeverity, "min-severity", "", "drop patterns below this severity (minor, major, critical)")
	cmd.Flags().Float64Var(&flags.minConfidence, "min-confidence", 0, "drop matches below this confidence (default 0.5)")
	cmd.Flags().IntVar(&flags.maxMatches, "max-matches", 0, "cap the number of reported matches")
	cmd.Flags().StringVar(&flags.section, "section", "", "pin the page section type (event, treatment, faq, review, doctor, general)")
	cmd.Flags().StringVar(&flags.department, "department", "", "pin the medical specialty instead of auto-detecting it")
	cmd.Flags().BoolVar(&flags.skipCompound, "skip-compound", false, "skip compound rule detection")
	cmd.Flags().BoolVar(&flags.skipDept, "skip-department", false, "skip department-specific checks")
	cmd.Flags().BoolVar(&flags.skipMandatory, "skip-mandatory", false, "skip mandatory disclosure checks")
	cmd.Flags().BoolVar(&flags.skipTone, "skip-impression", false, "skip tone and credibility analysis")
	cmd.Flags().BoolVar(&flags.noExceptions, "no-exceptions", false, "disable contextual exception filtering")
	cmd.Flags().BoolVar(&flags.noDedup, "no-dedup", false, "report every match instead of the best per sentence")
	cmd.Flags().StringVar(&flags.failOn, "fail-on", "", "exit non-zero when a violation at or above this severity is found (low, medium, high, critical)")
	cmd.Flags().BoolVar(&flags.force, "force", false, "analyze a URL even when its content is unchanged since the last scan")

	return cmd
}

func runScan(cmd *cobra.Command, args []string, root *rootFlags, flags *scanFlags) error {
	cfg, logger, dict, err := setup(root)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	text, err := readInput(cmd, args, flags, cfg, logger)
	if err != nil {
		return err
	}

	// With a Redis cache configured, URL scans skip pages whose content
	// hash is unchanged since the previous scan.
	if flags.url != "" && cfg.Cache.Addr != "" && !flags.force {
		cache := fetch.NewChangeCache(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, cfg.Cache.TTL)
		defer cache.Close() //nolint:errcheck
		changed, err := cache.Changed(cmd.Context(), flags.url, text)
		if err != nil {
			logger.Warn("change cache unavailable", zap.Error(err))
		} else if !changed {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is unchanged since the last scan; use --force to re-analyze\n", flags.url)
			return nil
		}
	}

	opts, err := buildOptions(flags)
	if err != nil {
		return err
	}

	analyzer := core.New(dict, logger)
	report := analyzer.Analyze(cmd.Context(), text, opts)

	out, err := formatters.Format(flags.format, report, formatters.Options{
		Verbose: flags.verbose,
		NoColor: flags.noColor || flags.output != "",
	})
	if err != nil {
		return err
	}

	if flags.output != "" {
		if err := os.WriteFile(flags.output, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		printSummary(cmd.ErrOrStderr(), report, flags.noColor)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	}

	return checkFailOn(report, flags.failOn)
}

// readInput resolves the advertisement text from, in order of precedence,
// the --url flag, the --file flag, the positional argument, or stdin.
func readInput(cmd *cobra.Command, args []string, flags *scanFlags, cfg config.Config, logger *zap.Logger) (string, error) {
	switch {
	case flags.url != "":
		fetcher := fetch.New(cfg.Fetch.Timeout, cfg.Fetch.RatePerSecond, cfg.Fetch.UserAgent)
		logger.Info("fetching page", zap.String("url", flags.url))
		text, err := fetcher.Text(cmd.Context(), flags.url)
		if err != nil {
			return "", fmt.Errorf("fetching %s: %w", flags.url, err)
		}
		return text, nil
	case flags.file != "":
		data, err := os.ReadFile(flags.file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", flags.file, err)
		}
		return string(data), nil
	case len(args) == 1:
		return args[0], nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
}

func buildOptions(flags *scanFlags) (core.Options, error) {
	opts := core.DefaultOptions()
	opts.URL = flags.url
	opts.EnableCompound = !flags.skipCompound
	opts.EnableDepartment = !flags.skipDept
	opts.EnableMandatory = !flags.skipMandatory
	opts.EnableImpression = !flags.skipTone

	if flags.section != "" {
		section := rules.SectionType(flags.section)
		if !section.Valid() {
			return core.Options{}, fmt.Errorf("unknown section %q", flags.section)
		}
		opts.Section = section
	}
	if flags.department != "" {
		dept := rules.Department(flags.department)
		if !dept.Valid() {
			return core.Options{}, fmt.Errorf("unknown department %q", flags.department)
		}
		opts.Department = dept
	}

	m := matcher.DefaultOptions()
	for _, c := range flags.categories {
		cat := rules.Category(strings.TrimSpace(c))
		if !cat.Valid() {
			return core.Options{}, fmt.Errorf("unknown category %q", c)
		}
		m.Categories = append(m.Categories, cat)
	}
	if flags.minSeverity != "" {
		sev := rules.PatternSeverity(flags.minSeverity)
		if !sev.Valid() {
			return core.Options{}, fmt.Errorf("unknown severity %q", flags.minSeverity)
		}
		m.MinSeverity = sev
	}
	if flags.minConfidence > 0 {
		m.MinConfidence = flags.minConfidence
	}
	if flags.maxMatches > 0 {
		m.MaxMatches = flags.maxMatches
	}
	m.ExceptionFilter = !flags.noExceptions
	m.Dedup = !flags.noDedup
	opts.Matcher = m

	return opts, nil
}

// printSummary writes a one-screen result summary to stderr; used when the
// full report goes to a file.
func printSummary(w io.Writer, report *core.Report, noColor bool) {
	grade := color.New(gradeColor(report.Score.Grade)).SprintFunc()
	if noColor {
		grade = fmt.Sprint
	}
	fmt.Fprintf(w, "Analysis %s: %d violation(s), score %.1f, grade %s\n",
		report.ID, len(report.Violations), report.Score.CleanScore, grade(string(report.Score.Grade)))
}

func gradeColor(grade rules.Grade) color.Attribute {
	switch grade {
	case rules.GradeS, rules.GradeA:
		return color.FgGreen
	case rules.GradeB, rules.GradeC:
		return color.FgYellow
	default:
		return color.FgRed
	}
}

// checkFailOn maps --fail-on to an error so CI pipelines can gate on the
// scan result.
func checkFailOn(report *core.Report, threshold string) error {
	if threshold == "" {
		return nil
	}
	sev := rules.Severity(threshold)
	if sev.Rank() == 0 {
		return fmt.Errorf("unknown severity %q", threshold)
	}
	count := 0
	for _, v := range report.Violations {
		if v.Severity.Rank() >= sev.Rank() {
			count++
		}
	}
	if count > 0 {
		return fmt.Errorf("%d violation(s) at or above %s severity", count, threshold)
	}
	return nil
}
