// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/medcheck-kr/medcheck/internal/config"
	"github.com/medcheck-kr/medcheck/internal/log"
	"github.com/medcheck-kr/medcheck/internal/rules"
	"github.com/medcheck-kr/medcheck/internal/version"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	rulesPath  string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "medcheck",
		Short: "Korean medical advertisement compliance checker",
		Long: "medcheck scans hospital and clinic advertisement copy for violations\n" +
			"of the medical advertising rules (의료법 제56조) and produces a graded\n" +
			"compliance report.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().StringVar(&flags.rulesPath, "rules", "", "path to a yaml rule overlay merged over the built-in dictionary")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format (json, console)")

	cmd.AddCommand(newScanCmd(flags))
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newRulesCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// setup loads configuration, builds the logger and the rule dictionary.
// Flag values override the corresponding config file entries.
func setup(flags *rootFlags) (config.Config, *zap.Logger, *rules.Dictionary, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if flags.rulesPath != "" {
		cfg.RuleOverlay = flags.rulesPath
	}

	logger, err := log.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("building logger: %w", err)
	}

	dict := rules.Builtin()
	if cfg.RuleOverlay != "" {
		dict, err = rules.LoadOverlay(cfg.RuleOverlay, dict, logger)
		if err != nil {
			return config.Config{}, nil, nil, fmt.Errorf("loading rule overlay %s: %w", cfg.RuleOverlay, err)
		}
		logger.Info("rule overlay applied",
			zap.String("path", cfg.RuleOverlay),
			zap.Int("patterns", len(dict.Patterns)))
	}

	return cfg, logger, dict, nil
}
