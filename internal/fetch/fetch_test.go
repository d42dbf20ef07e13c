package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lmedrano/pulso/internal/report"
)

func TestPlatformFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.tiktok.com/@user/video/1", "tiktok"},
		{"https://m.facebook.com/story", "facebook"},
		{"https://fb.com/post", "facebook"},
		{"https://twitter.com/user/status/1", "x"},
		{"https://x.com/user/status/1", "x"},
		{"https://www.instagram.com/p/abc", "instagram"},
		{"https://youtu.be/abc123", "youtube"},
		{"https://www.youtube.com/watch?v=abc", "youtube"},
		{"https://www.threads.net/@user/post/1", "threads"},
		{"https://elpais.com/politica/nota", "web"},
		{"https://news.example.org/a", "web"},
		{"", "web"},
		{"not a url", "web"},
	}
	for _, c := range cases {
		if got := PlatformFromURL(c.url); got != c.want {
			t.Errorf("PlatformFromURL(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	got := NormalizeDate("2026-08-15T10:00:00Z")
	if got != "2026-08-15T10:00:00Z" {
		t.Errorf("expected RFC 3339 passthrough, got %q", got)
	}

	got = NormalizeDate("Aug 15, 2026")
	if got != "2026-08-15T00:00:00Z" {
		t.Errorf("expected parsed date, got %q", got)
	}

	if got := NormalizeDate("no date here at all???"); got != "no date here at all???" {
		t.Errorf("expected unparseable input returned unchanged, got %q", got)
	}
	if got := NormalizeDate(""); got != "" {
		t.Errorf("expected empty passthrough, got %q", got)
	}
}

func TestEnrichRecordsFillsPlatformAndTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Nota de prueba</title></head>
			<body><article><p>` + longParagraph() + `</p></article></body></html>`))
	}))
	defer srv.Close()

	records := []report.AnalysisRecord{
		{Meta: report.RecordMeta{URL: srv.URL + "/nota"}},
		{Meta: report.RecordMeta{URL: "https://x.com/u/status/1", Title: "Ya tiene título"}},
	}

	f := NewMetadataFetcher(0, nil)
	result := f.EnrichRecords(context.Background(), records)

	if result.Enriched != 1 {
		t.Errorf("expected 1 enriched, got %d", result.Enriched)
	}
	if result.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", result.Skipped)
	}
	if records[0].Meta.Title != "Nota de prueba" {
		t.Errorf("expected extracted title, got %q", records[0].Meta.Title)
	}
	if records[0].Meta.Platform != "web" {
		t.Errorf("expected platform 'web', got %q", records[0].Meta.Platform)
	}
	if records[1].Meta.Platform != "x" {
		t.Errorf("expected platform 'x', got %q", records[1].Meta.Platform)
	}
	if records[1].Meta.Title != "Ya tiene título" {
		t.Error("expected existing title untouched")
	}
}

func TestEnrichRecordsSkipsFailedDomain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	records := []report.AnalysisRecord{
		{Meta: report.RecordMeta{URL: srv.URL + "/a"}},
		{Meta: report.RecordMeta{URL: srv.URL + "/b"}},
	}

	f := NewMetadataFetcher(0, nil)
	result := f.EnrichRecords(context.Background(), records)
	if result.Failed != 2 {
		t.Errorf("expected 2 failed, got %d", result.Failed)
	}
}

func longParagraph() string {
	s := "La nota cubre la gira del alcalde por los mercados del centro. "
	out := ""
	for i := 0; i < 10; i++ {
		out += s
	}
	return out
}
