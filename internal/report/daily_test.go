package report

import (
	"strings"
	"testing"
)

func TestBuildDailyReportNilSummary(t *testing.T) {
	if got := BuildDailyReportAt(nil, "Ana Ríos", testNow); got != nil {
		t.Errorf("expected nil report for nil summary, got %+v", got)
	}
}

func TestDailyExpressUsesServiceText(t *testing.T) {
	summary := &DailySummary{Total: 3, ShortText: "Texto del servicio."}
	rep := BuildDailyReportAt(summary, "Ana Ríos", testNow)
	if rep.Express != "Texto del servicio." {
		t.Errorf("express = %q, want the service text verbatim", rep.Express)
	}
}

func TestDailyExpressGenerated(t *testing.T) {
	summary := &DailySummary{
		Total:       12,
		Sentiments:  SentimentCounts{Positive: 7, Neutral: 3, Negative: 2},
		Predominant: "positive",
		TopEntities: []string{"Congreso (4)", "Carlos Vega (2)"},
	}
	rep := BuildDailyReportAt(summary, "Ana Ríos", testNow)

	for _, want := range []string{"Ana Ríos", "12 publicaciones", "positiva", "7 menciones positivas", "Congreso (4)"} {
		if !strings.Contains(rep.Express, want) {
			t.Errorf("express summary missing %q: %q", want, rep.Express)
		}
	}
}

func TestDailyEvidenceFromResults(t *testing.T) {
	summary := &DailySummary{
		Total: 2,
		Results: []AnalysisRecord{
			{
				Meta: RecordMeta{Title: "Nota principal", URL: "https://a.com", Platform: "web", PublishedAt: "2026-08-10"},
				AI:   RecordAI{Summary: "Resumen corto", Sentiment: "positive", Topic: "economía"},
			},
			{
				Meta: RecordMeta{},
				AI:   RecordAI{},
			},
		},
	}

	rep := BuildDailyReportAt(summary, "Ana Ríos", testNow)
	if len(rep.Evidence) != 2 {
		t.Fatalf("expected 2 evidence entries, got %d", len(rep.Evidence))
	}

	first := rep.Evidence[0]
	if first.Title != "Nota principal" || first.Text != "Resumen corto" || first.Date != "2026-08-10" {
		t.Errorf("first entry = %+v", first)
	}

	second := rep.Evidence[1]
	if second.Title != "Mención 2" || second.Text != "Sin resumen disponible" || second.Link != "#" {
		t.Errorf("second entry fallbacks = %+v", second)
	}
}

func TestDailyEvidenceFromCounts(t *testing.T) {
	summary := &DailySummary{
		Total:      5,
		Sentiments: SentimentCounts{Positive: 3, Negative: 2},
	}

	rep := BuildDailyReportAt(summary, "Ana Ríos", testNow)
	if len(rep.Evidence) != 2 {
		t.Fatalf("expected one entry per non-zero class, got %d", len(rep.Evidence))
	}
	if !strings.Contains(rep.Evidence[0].Text, "3 menciones") {
		t.Errorf("first count entry = %q", rep.Evidence[0].Text)
	}
}

func TestDailyEvidenceFromEntities(t *testing.T) {
	summary := &DailySummary{TopEntities: []string{"Congreso (4)", "Carlos Vega (2)"}}

	rep := BuildDailyReportAt(summary, "Ana Ríos", testNow)
	if len(rep.Evidence) != 2 {
		t.Fatalf("expected 2 entity entries, got %d", len(rep.Evidence))
	}
	if !strings.Contains(rep.Evidence[0].Text, "Congreso") {
		t.Errorf("entity entry = %q", rep.Evidence[0].Text)
	}
}

func TestDailyEvidenceDefaultEntry(t *testing.T) {
	rep := BuildDailyReportAt(&DailySummary{Total: 0}, "Ana Ríos", testNow)
	if len(rep.Evidence) != 1 {
		t.Fatalf("expected the single default entry, got %d", len(rep.Evidence))
	}
	if !strings.Contains(rep.Evidence[0].Text, "Ana Ríos") {
		t.Errorf("default entry = %q", rep.Evidence[0].Text)
	}
}
