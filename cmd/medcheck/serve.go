// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/medcheck-kr/medcheck/internal/core"
	"github.com/medcheck-kr/medcheck/internal/store"
	"github.com/medcheck-kr/medcheck/internal/version"
	"github.com/medcheck-kr/medcheck/internal/web"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP API",
		Long: "Serve starts the HTTP API. Report persistence (PostgreSQL) is\n" +
			"enabled when db.dsn is configured; without it analyses are\n" +
			"returned but not stored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, dict, err := setup(root)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var reports store.ReportStore
			if cfg.DB.DSN != "" {
				pg, err := store.NewPostgresStore(ctx, cfg.DB.DSN, cfg.DB.MaxConns)
				if err != nil {
					return fmt.Errorf("connecting to report store: %w", err)
				}
				defer pg.Close()
				reports = pg
				logger.Info("report persistence enabled")
			}

			logger.Info("starting medcheck server",
				zap.String("version", version.String()),
				zap.String("addr", cfg.Server.Addr),
				zap.Int("patterns", len(dict.Patterns)))

			server := web.NewServer(core.New(dict, logger), reports, cfg.Server, logger)
			return server.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
