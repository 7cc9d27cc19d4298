// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package store persists analysis reports. The pipeline never reads them
// back; persistence exists for the dashboard and audit layers downstream.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medcheck-kr/medcheck/internal/core"
)

// ErrNotFound is returned when no report exists for the requested id.
var ErrNotFound = errors.New("report not found")

// ReportStore stores and retrieves analysis reports keyed by analysis id.
type ReportStore interface {
	Save(ctx context.Context, report *core.Report) error
	Get(ctx context.Context, id string) (*core.Report, error)
	Recent(ctx context.Context, limit int) ([]*core.Report, error)
	Close()
}

// PostgresStore implements ReportStore over a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and bootstraps the reports
// table.
func NewPostgresStore(ctx context.Context, dsn string, maxConns int) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.bootstrap(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) bootstrap(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_reports (
			id          UUID PRIMARY KEY,
			url         TEXT,
			section     TEXT NOT NULL,
			grade       TEXT NOT NULL,
			clean_score DOUBLE PRECISION NOT NULL,
			report      JSONB NOT NULL,
			analyzed_at TIMESTAMPTZ NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("bootstrap reports table: %w", err)
	}
	return nil
}

// Save inserts one report. Duplicate ids are rejected by the primary key.
func (s *PostgresStore) Save(ctx context.Context, report *core.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO analysis_reports (id, url, section, grade, clean_score, report, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		report.ID, report.URL, string(report.Section), string(report.Score.Grade),
		report.Score.CleanScore, payload, report.AnalyzedAt)
	if err != nil {
		return fmt.Errorf("insert report %s: %w", report.ID, err)
	}
	return nil
}

// Get retrieves one report by analysis id.
func (s *PostgresStore) Get(ctx context.Context, id string) (*core.Report, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT report FROM analysis_reports WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query report %s: %w", id, err)
	}

	var report core.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report %s: %w", id, err)
	}
	return &report, nil
}

// Recent returns the most recent reports, newest first.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]*core.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT report FROM analysis_reports
		ORDER BY analyzed_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent reports: %w", err)
	}
	defer rows.Close()

	var reports []*core.Report
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		var report core.Report
		if err := json.Unmarshal(payload, &report); err != nil {
			return nil, fmt.Errorf("unmarshal report: %w", err)
		}
		reports = append(reports, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

var _ ReportStore = (*PostgresStore)(nil)
