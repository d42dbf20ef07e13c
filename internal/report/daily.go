package report

import (
	"fmt"
	"strings"
	"time"
)

var sentimentWords = map[string]string{
	"positive": "positiva",
	"neutral":  "equilibrada",
	"negative": "negativa",
}

// BuildDailyReport transforms a daily summary using the current time as the
// evaluation clock.
func BuildDailyReport(summary *DailySummary, actorName string) *DailyReport {
	return BuildDailyReportAt(summary, actorName, time.Now())
}

// BuildDailyReportAt derives the express summary paragraph and the evidence
// log from one daily summary. A nil summary yields a nil report; the
// evidence log is otherwise never empty.
func BuildDailyReportAt(summary *DailySummary, actorName string, now time.Time) *DailyReport {
	if summary == nil {
		return nil
	}

	actor := strings.TrimSpace(actorName)
	if actor == "" {
		actor = "Actor político"
	}

	return &DailyReport{
		Express:  expressSummary(summary, actor),
		Evidence: evidenceLog(summary, actor, now),
	}
}

// expressSummary prefers the service's own narrative; otherwise it builds a
// sentence from the counts and top entities.
func expressSummary(summary *DailySummary, actor string) string {
	if text := strings.TrimSpace(summary.ShortText); text != "" {
		return text
	}

	word, ok := sentimentWords[strings.ToLower(summary.Predominant)]
	if !ok {
		word = "equilibrada"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Durante el día de hoy, %s ha sido mencionado en %d publicaciones digitales. ", actor, summary.Total)
	fmt.Fprintf(&b, "El análisis de sentimiento muestra una percepción %s con %d menciones positivas, %d neutrales y %d negativas. ",
		word, summary.Sentiments.Positive, summary.Sentiments.Neutral, summary.Sentiments.Negative)
	if len(summary.TopEntities) > 0 {
		top := summary.TopEntities
		if len(top) > 3 {
			top = top[:3]
		}
		fmt.Fprintf(&b, "Las entidades más mencionadas en relación con %s incluyen: %s. ", actor, strings.Join(top, ", "))
	}
	b.WriteString("Este análisis proporciona una visión general de la percepción pública actual.")
	return b.String()
}

// evidenceLog builds the evidence entries, cascading through fallbacks so
// the log always has at least one entry: per-record entries, then per-class
// count entries, then per-entity entries, then a single generic line.
func evidenceLog(summary *DailySummary, actor string, now time.Time) []EvidenceEntry {
	if len(summary.Results) > 0 {
		entries := make([]EvidenceEntry, 0, len(summary.Results))
		for i, r := range summary.Results {
			title := strings.TrimSpace(r.Meta.Title)
			if title == "" {
				title = fmt.Sprintf("Mención %d", i+1)
			}
			text := strings.TrimSpace(r.AI.Summary)
			if text == "" {
				text = "Sin resumen disponible"
			}
			link := strings.TrimSpace(r.Meta.URL)
			if link == "" {
				link = "#"
			}
			entries = append(entries, EvidenceEntry{
				Title:     title,
				Text:      text,
				Date:      parseWhen(r.Meta.PublishedAt, now).Format("2006-01-02"),
				Link:      link,
				Sentiment: normalizeSentiment(r.AI.Sentiment),
				Stance:    normalizeStance(r.AI.Stance),
				Topic:     strings.TrimSpace(r.AI.Topic),
				Platform:  normalizePlatform(r.Meta.Platform),
			})
		}
		return entries
	}

	today := now.Format("2006-01-02")
	var entries []EvidenceEntry

	type classCount struct {
		count int
		label string
	}
	for _, c := range []classCount{
		{summary.Sentiments.Positive, "con sentimiento positivo"},
		{summary.Sentiments.Neutral, "neutrales"},
		{summary.Sentiments.Negative, "con sentimiento negativo"},
	} {
		if c.count > 0 {
			entries = append(entries, EvidenceEntry{
				Text: fmt.Sprintf("%d menciones %s sobre %s", c.count, c.label, actor),
				Date: today,
				Link: "#",
			})
		}
	}
	if len(entries) > 0 {
		return entries
	}

	top := summary.TopEntities
	if len(top) > 5 {
		top = top[:5]
	}
	for _, entity := range top {
		entries = append(entries, EvidenceEntry{
			Text: "Mención relacionada con: " + entity,
			Date: today,
			Link: "#",
		})
	}
	if len(entries) > 0 {
		return entries
	}

	return []EvidenceEntry{{
		Text: fmt.Sprintf("Análisis de %d menciones sobre %s", summary.Total, actor),
		Date: today,
		Link: "#",
	}}
}
