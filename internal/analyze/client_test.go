package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lmedrano/pulso/internal/report"
)

func TestAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/smart-report" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Method != "POST" {
			t.Errorf("unexpected method %q", r.Method)
		}
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Politician.Name != "Juan Pérez" || req.Politician.Office != "Alcalde" {
			t.Errorf("unexpected politician %+v", req.Politician)
		}
		if len(req.URLs) != 2 {
			t.Errorf("expected 2 URLs, got %d", len(req.URLs))
		}

		json.NewEncoder(w).Encode(report.AnalysisResponse{
			Politician: report.Subject{Name: "Juan Pérez"},
			Results: []report.AnalysisRecord{
				{AI: report.RecordAI{Sentiment: "positive", Topic: "economía"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "PULSO_TEST_KEY", 0, nil)
	subject := report.Subject{Name: "Juan Pérez", Office: "Alcalde"}
	resp, err := c.Analyze(context.Background(), subject, []string{"https://a.com", "https://b.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Politician.Name != "Juan Pérez" {
		t.Errorf("unexpected politician %q", resp.Politician.Name)
	}
	if len(resp.Results) != 1 {
		t.Errorf("expected 1 result, got %d", len(resp.Results))
	}
}

func TestAnalyzeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "batch too large", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "PULSO_TEST_KEY", 0, nil)
	_, err := c.Analyze(context.Background(), report.Subject{Name: "Juan Pérez"}, []string{"https://a.com"})
	if err == nil {
		t.Fatal("expected error on 400 response")
	}
}

func TestAnalyzeSendsAPIKey(t *testing.T) {
	t.Setenv("PULSO_TEST_KEY", "secret")

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(report.AnalysisResponse{Politician: report.Subject{Name: "X"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "PULSO_TEST_KEY", 0, nil)
	if _, err := c.Analyze(context.Background(), report.Subject{Name: "X"}, []string{"https://a.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}
}

func TestDailySummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/daily-summary" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("name"); got != "Juan Pérez" {
			t.Errorf("unexpected name query %q", got)
		}
		json.NewEncoder(w).Encode(report.DailySummary{ShortText: "Día tranquilo."})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "PULSO_TEST_KEY", 0, nil)
	summary, err := c.DailySummary(context.Background(), "Juan Pérez")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ShortText != "Día tranquilo." {
		t.Errorf("unexpected summary %q", summary.ShortText)
	}
}

func TestHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "PULSO_TEST_KEY", 0, nil)
	if !c.Healthy(context.Background()) {
		t.Error("expected healthy service")
	}

	srv.Close()
	if c.Healthy(context.Background()) {
		t.Error("expected unhealthy after shutdown")
	}
}
