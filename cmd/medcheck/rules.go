// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/medcheck-kr/medcheck/internal/rules"
)

func newRulesCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate the rule dictionary",
	}

	cmd.AddCommand(newRulesListCmd(root))
	cmd.AddCommand(newRulesValidateCmd(root))

	return cmd
}

func newRulesListCmd(root *rootFlags) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the loaded rule dictionary",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, dict, err := setup(root)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rule dictionary %s\n\n", dict.Version)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tSEVERITY\tDESCRIPTION")
			for _, p := range dict.Patterns {
				if category != "" && string(p.Category) != category {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Category, p.Severity, p.Description)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if category != "" {
				return nil
			}

			fmt.Fprintf(out, "\nCompound rules: %d\n", len(dict.Compounds))
			for _, c := range dict.Compounds {
				fmt.Fprintf(out, "  %s (%s, %s): %s\n", c.ID, c.Logic, c.Severity, c.Name)
			}

			fmt.Fprintf(out, "\nDepartment rules: %d across %d profiled specialties\n",
				len(dict.DeptRules), len(dict.Profiles))

			fmt.Fprintf(out, "\nMandatory disclosures: %d\n", len(dict.Mandatory))
			for _, m := range dict.Mandatory {
				kind := "recommended"
				if m.Required {
					kind = "required"
				}
				fmt.Fprintf(out, "  %s (%s, %s)\n", m.Field, m.Korean, kind)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "show only patterns in this category")

	return cmd
}

func newRulesValidateCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <overlay.yaml>",
		Short: "Validate a rule overlay file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, _, err := setup(root)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			base := rules.Builtin()
			merged, err := rules.LoadOverlay(args[0], base, logger)
			if err != nil {
				return fmt.Errorf("overlay is invalid: %w", err)
			}

			added := len(merged.Patterns) - len(base.Patterns)
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d pattern(s) added, %d total\n",
				args[0], added, len(merged.Patterns))
			return nil
		},
	}
}
