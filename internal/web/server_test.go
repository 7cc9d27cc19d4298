// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medcheck-kr/medcheck/internal/config"
	"github.com/medcheck-kr/medcheck/internal/core"
	"github.com/medcheck-kr/medcheck/internal/rules"
	"github.com/medcheck-kr/medcheck/internal/store"
)

// memStore is an in-memory ReportStore for handler tests.
type memStore struct {
	reports map[string]*core.Report
}

func newMemStore() *memStore {
	return &memStore{reports: map[string]*core.Report{}}
}

func (m *memStore) Save(_ context.Context, report *core.Report) error {
	m.reports[report.ID] = report
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*core.Report, error) {
	report, ok := m.reports[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return report, nil
}

func (m *memStore) Recent(_ context.Context, limit int) ([]*core.Report, error) {
	var out []*core.Report
	for _, r := range m.reports {
		if len(out) == limit {
			break
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) Close() {}

func newTestServer(reports store.ReportStore) *Server {
	analyzer := core.New(rules.Builtin(), nil)
	return NewServer(analyzer, reports, config.Default().Server, nil)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := doRequest(t, newTestServer(nil), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
	if body["version"] == "" {
		t.Error("health response needs a version")
	}
}

func TestHandleAnalyze(t *testing.T) {
	payload := `{"text": "이 시술은 100% 완치를 보장합니다."}`
	rec := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/analyze", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var report core.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.ID == "" {
		t.Error("report needs an analysis id")
	}
	if len(report.Violations) != 1 || report.Violations[0].PatternID != "MED-GU-001" {
		t.Errorf("violations = %+v", report.Violations)
	}
	if report.Score.Grade != rules.GradeD {
		t.Errorf("grade = %s", report.Score.Grade)
	}
}

func TestHandleAnalyze_SkipOptions(t *testing.T) {
	payload := `{
		"text": "이 시술은 100% 완치를 보장합니다.",
		"options": {"skip_compound": true, "skip_department": true,
			"skip_mandatory": true, "skip_impression": true}
	}`
	rec := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/analyze", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var report core.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Impression != nil || report.Mandatory != nil || report.DeptDetection != nil {
		t.Error("skipped stages must be absent from the report")
	}
}

func TestHandleAnalyze_InvalidJSON(t *testing.T) {
	rec := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/analyze", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleAnalyze_UnknownCategory(t *testing.T) {
	payload := `{"text": "테스트", "options": {"categories": ["nonsense"]}}`
	rec := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/analyze", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body.Error, "nonsense") {
		t.Errorf("error message should name the category, got %q", body.Error)
	}
}

func TestHandleAnalyze_UnknownSection(t *testing.T) {
	payload := `{"text": "테스트", "options": {"section": "sidebar"}}`
	rec := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/analyze", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body.Error, "sidebar") {
		t.Errorf("error message should name the section, got %q", body.Error)
	}
}

func TestHandleAnalyze_UnknownDepartment(t *testing.T) {
	payload := `{"text": "테스트", "options": {"department": "veterinary"}}`
	rec := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/analyze", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleAnalyze_UnknownSeverity(t *testing.T) {
	payload := `{"text": "테스트", "options": {"min_severity": "extreme"}}`
	rec := doRequest(t, newTestServer(nil), http.MethodPost, "/api/v1/analyze", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleAnalyze_PersistsToStore(t *testing.T) {
	reports := newMemStore()
	payload := `{"text": "저희 의원은 맞춤 상담을 제공합니다."}`
	rec := doRequest(t, newTestServer(reports), http.MethodPost, "/api/v1/analyze", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var report core.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := reports.reports[report.ID]; !ok {
		t.Error("report should be saved under its analysis id")
	}
}

func TestHandleGetAnalysis(t *testing.T) {
	reports := newMemStore()
	s := newTestServer(reports)

	saved := &core.Report{ID: "abc-123", RuleSet: "2024.2"}
	if err := reports.Save(context.Background(), saved); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, s, http.MethodGet, "/api/v1/analyses/abc-123", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var report core.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.ID != "abc-123" {
		t.Errorf("id = %s", report.ID)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/analyses/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d", rec.Code)
	}
}

func TestHandleGetAnalysis_NoStore(t *testing.T) {
	rec := doRequest(t, newTestServer(nil), http.MethodGet, "/api/v1/analyses/any", "")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleRules(t *testing.T) {
	rec := doRequest(t, newTestServer(nil), http.MethodGet, "/api/v1/rules", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body rulesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Version != rules.Builtin().Version {
		t.Errorf("version = %s", body.Version)
	}
	if len(body.Patterns) == 0 {
		t.Fatal("expected the built-in patterns")
	}
	for _, p := range body.Patterns {
		if p.ID == "" || p.Category == "" || p.Severity == "" {
			t.Errorf("incomplete rule summary %+v", p)
		}
	}
}
