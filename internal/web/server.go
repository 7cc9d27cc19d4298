// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package web exposes the analysis pipeline over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/medcheck-kr/medcheck/internal/config"
	"github.com/medcheck-kr/medcheck/internal/core"
	"github.com/medcheck-kr/medcheck/internal/matcher"
	"github.com/medcheck-kr/medcheck/internal/rules"
	"github.com/medcheck-kr/medcheck/internal/store"
	"github.com/medcheck-kr/medcheck/internal/version"
)

// Server wraps the analyzer behind the HTTP API.
type Server struct {
	analyzer *core.Analyzer
	store    store.ReportStore // may be nil
	cfg      config.ServerConfig
	logger   *zap.Logger
	http     *http.Server
}

// NewServer creates a Server. The store is optional; pass nil to disable
// report persistence and lookup.
func NewServer(analyzer *core.Analyzer, reports store.ReportStore, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		analyzer: analyzer,
		store:    reports,
		cfg:      cfg,
		logger:   logger,
	}
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/analyses/{id}", s.handleGetAnalysis)
		r.Get("/rules", s.handleRules)
	})
	return r
}

// Start runs the server until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// analyzeRequest is the POST /api/v1/analyze payload.
type analyzeRequest struct {
	Text    string `json:"text"`
	URL     string `json:"url,omitempty"`
	Options struct {
		Categories     []string `json:"categories,omitempty"`
		MinSeverity    string   `json:"min_severity,omitempty"`
		ContextWindow  int      `json:"context_window,omitempty"`
		MaxMatches     int      `json:"max_matches,omitempty"`
		MinConfidence  float64  `json:"min_confidence,omitempty"`
		NoExceptions   bool     `json:"no_exceptions,omitempty"`
		NoDedup        bool     `json:"no_dedup,omitempty"`
		SkipCompound   bool     `json:"skip_compound,omitempty"`
		SkipDepartment bool     `json:"skip_department,omitempty"`
		SkipMandatory  bool     `json:"skip_mandatory,omitempty"`
		SkipImpression bool     `json:"skip_impression,omitempty"`
		Department     string   `json:"department,omitempty"`
		Section        string   `json:"section,omitempty"`
	} `json:"options"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	opts := core.DefaultOptions()
	opts.URL = req.URL
	if req.Options.Section != "" {
		section := rules.SectionType(req.Options.Section)
		if !section.Valid() {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown section %q", req.Options.Section))
			return
		}
		opts.Section = section
	}
	if req.Options.Department != "" {
		dept := rules.Department(req.Options.Department)
		if !dept.Valid() {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown department %q", req.Options.Department))
			return
		}
		opts.Department = dept
	}
	opts.EnableCompound = !req.Options.SkipCompound
	opts.EnableDepartment = !req.Options.SkipDepartment
	opts.EnableMandatory = !req.Options.SkipMandatory
	opts.EnableImpression = !req.Options.SkipImpression

	m := matcher.DefaultOptions()
	for _, c := range req.Options.Categories {
		cat := rules.Category(c)
		if !cat.Valid() {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown category %q", c))
			return
		}
		m.Categories = append(m.Categories, cat)
	}
	if req.Options.MinSeverity != "" {
		sev := rules.PatternSeverity(req.Options.MinSeverity)
		if !sev.Valid() {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown severity %q", req.Options.MinSeverity))
			return
		}
		m.MinSeverity = sev
	}
	if req.Options.ContextWindow > 0 {
		m.ContextWindow = req.Options.ContextWindow
	}
	if req.Options.MaxMatches > 0 {
		m.MaxMatches = req.Options.MaxMatches
	}
	if req.Options.MinConfidence > 0 {
		m.MinConfidence = req.Options.MinConfidence
	}
	m.ExceptionFilter = !req.Options.NoExceptions
	m.Dedup = !req.Options.NoDedup
	opts.Matcher = m

	report := s.analyzer.Analyze(r.Context(), req.Text, opts)

	analysesTotal.WithLabelValues(string(report.Score.Grade)).Inc()
	analysisDuration.Observe(report.Duration.Seconds())
	for severity, count := range report.Score.SeverityCounts {
		violationsDetected.WithLabelValues(string(severity)).Add(float64(count))
	}

	if s.store != nil {
		if err := s.store.Save(r.Context(), report); err != nil {
			// Persistence is best-effort; the analysis result still returns.
			s.logger.Warn("failed to persist report",
				zap.String("analysis_id", report.ID), zap.Error(err))
		}
	}

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotImplemented, "report persistence is not configured")
		return
	}
	id := chi.URLParam(r, "id")
	report, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		s.logger.Error("report lookup failed", zap.String("analysis_id", id), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// rulesResponse summarizes the loaded dictionary without exposing compiled
// regexps.
type rulesResponse struct {
	Version  string        `json:"version"`
	Patterns []ruleSummary `json:"patterns"`
	Server   string        `json:"server_version"`
}

type ruleSummary struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	LegalBasis  string `json:"legal_basis"`
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	dict := s.analyzer.Dictionary()
	resp := rulesResponse{
		Version: dict.Version,
		Server:  version.String(),
	}
	for _, p := range dict.Patterns {
		resp.Patterns = append(resp.Patterns, ruleSummary{
			ID:          p.ID,
			Category:    string(p.Category),
			Severity:    string(p.Severity),
			Description: p.Description,
			LegalBasis:  p.LegalBasis,
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.String(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// accessLog records one structured line per request and feeds the request
// counter.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(ww.Status())).Inc()
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(started)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
