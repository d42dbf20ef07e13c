// Package export renders dashboard models as markdown and HTML documents.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/lmedrano/pulso/internal/report"
)

var md = goldmark.New()

// Markdown renders a dashboard as a markdown document.
func Markdown(dash *report.DashboardModel) string {
	if dash == nil {
		return ""
	}

	var sections []string
	sections = append(sections, header(dash))
	sections = append(sections, kpis(dash))
	sections = append(sections, statusMetrics(dash))
	sections = append(sections, distributions(dash))
	sections = append(sections, weeklyTrend(dash))
	if len(dash.Campaigns) > 0 {
		sections = append(sections, campaigns(dash))
	}
	sections = append(sections, swot(dash))
	if len(dash.KeyActors) > 0 {
		sections = append(sections, keyActors(dash))
	}
	if len(dash.Articles) > 0 {
		sections = append(sections, articles(dash))
	}

	return strings.Join(sections, "\n\n---\n\n") + "\n"
}

// HTML renders a dashboard as a standalone HTML page.
func HTML(dash *report.DashboardModel) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(dash)), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	var page bytes.Buffer
	err := pageTemplate.Execute(&page, map[string]any{
		"Title": dash.Actor,
		"Body":  template.HTML(buf.String()), //nolint: gosec
	})
	if err != nil {
		return "", fmt.Errorf("rendering page: %w", err)
	}
	return page.String(), nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} | pulso</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 54rem; margin: 2rem auto; padding: 0 1rem; color: #1f2937; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #e5e7eb; padding: 0.4rem 0.6rem; text-align: left; }
h1, h2 { color: #111827; }
hr { border: none; border-top: 1px solid #e5e7eb; margin: 2rem 0; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

func header(dash *report.DashboardModel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Reporte de percepción: %s\n\n", dash.Actor)
	fmt.Fprintf(&b, "**Periodo:** %s\n\n", dash.Period)
	fmt.Fprintf(&b, "%s", dash.Diagnosis)
	return b.String()
}

func kpis(dash *report.DashboardModel) string {
	var b strings.Builder
	b.WriteString("## Indicadores\n\n")
	b.WriteString("| Indicador | Valor |\n|---|---|\n")
	fmt.Fprintf(&b, "| Menciones totales | %d |\n", dash.TotalMentions)
	fmt.Fprintf(&b, "| Sentimiento promedio | %d%% |\n", dash.AverageSentiment)
	fmt.Fprintf(&b, "| Campañas activas | %d |\n", dash.ActiveCampaigns)
	fmt.Fprintf(&b, "| Alcance estimado | %d |\n", dash.EstimatedReach)
	return b.String()
}

func statusMetrics(dash *report.DashboardModel) string {
	var b strings.Builder
	b.WriteString("## Métricas de estado\n\n")
	b.WriteString("| Métrica | Valor | Estado | Tendencia |\n|---|---|---|---|\n")
	writeMetric(&b, "Visibilidad pública", dash.PublicVisibility)
	writeMetric(&b, "Interacciones digitales", dash.DigitalInteractions)
	writeMetric(&b, "Menciones en medios", dash.MediaPresence)
	writeMetric(&b, "Riesgo reputacional", dash.ReputationalRisk)
	return b.String()
}

func writeMetric(b *strings.Builder, label string, m report.StatusMetric) {
	fmt.Fprintf(b, "| %s | %s | %s | %s |\n", label, m.Value, m.Status, m.Trend)
}

func distributions(dash *report.DashboardModel) string {
	var b strings.Builder
	b.WriteString("## Distribuciones\n\n")

	b.WriteString("**Sentimiento:**\n\n")
	for _, d := range dash.SentimentDistribution {
		fmt.Fprintf(&b, "- %s: %d (%d%%)\n", d.Name, d.Count, d.Percentage)
	}

	b.WriteString("\n**Narrativa:**\n\n")
	for _, d := range dash.StanceDistribution {
		fmt.Fprintf(&b, "- %s: %d (%d%%)\n", d.Name, d.Count, d.Percentage)
	}

	if len(dash.PlatformDistribution) > 0 {
		b.WriteString("\n**Plataformas:**\n\n")
		for _, p := range dash.PlatformDistribution {
			fmt.Fprintf(&b, "- %s: %d\n", p.Name, p.Value)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func weeklyTrend(dash *report.DashboardModel) string {
	var b strings.Builder
	b.WriteString("## Tendencia semanal\n\n")
	b.WriteString("| Día | Menciones | Sentimiento |\n|---|---|---|\n")
	for _, p := range dash.WeeklyTrend {
		fmt.Fprintf(&b, "| %s | %d | %d |\n", p.Day, p.Mentions, p.Sentiment)
	}
	return b.String()
}

func campaigns(dash *report.DashboardModel) string {
	var b strings.Builder
	b.WriteString("## Campañas detectadas\n\n")
	for _, c := range dash.Campaigns {
		fmt.Fprintf(&b, "- **%s**: %d menciones, sentimiento %.2f, tendencia %s\n",
			c.Name, c.Mentions, c.Sentiment, c.Trend)
	}
	return strings.TrimRight(b.String(), "\n")
}

func swot(dash *report.DashboardModel) string {
	var b strings.Builder
	b.WriteString("## Análisis FODA\n")
	writeSWOTList(&b, "Fortalezas", dash.Analysis.Strengths)
	writeSWOTList(&b, "Oportunidades", dash.Analysis.Opportunities)
	writeSWOTList(&b, "Debilidades", dash.Analysis.Weaknesses)
	writeSWOTList(&b, "Amenazas", dash.Analysis.Threats)
	return strings.TrimRight(b.String(), "\n")
}

func writeSWOTList(b *strings.Builder, label string, items []string) {
	fmt.Fprintf(b, "\n### %s\n\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func keyActors(dash *report.DashboardModel) string {
	var b strings.Builder
	b.WriteString("## Actores clave\n\n")
	b.WriteString("| Actor | Tipo | Menciones | Impacto | Sentimiento |\n|---|---|---|---|---|\n")
	for _, a := range dash.KeyActors {
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n",
			a.Name, a.Role, a.Mentions, a.Impact, a.Sentiment)
	}
	return b.String()
}

func articles(dash *report.DashboardModel) string {
	var b strings.Builder
	b.WriteString("## Registro de evidencia\n\n")
	for _, a := range dash.Articles {
		fmt.Fprintf(&b, "- [%s](%s)", a.Title, a.Link)
		var tags []string
		if a.Platform != "" {
			tags = append(tags, a.Platform)
		}
		if a.Sentiment != "" {
			tags = append(tags, a.Sentiment)
		}
		if a.Topic != "" {
			tags = append(tags, a.Topic)
		}
		if len(tags) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(tags, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// DailyMarkdown renders a daily report as a short markdown document.
func DailyMarkdown(daily *report.DailyReport, subjectName string) string {
	if daily == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Resumen diario: %s\n\n", subjectName)
	fmt.Fprintf(&b, "%s\n\n## Registro de evidencia\n\n", daily.Express)
	for _, e := range daily.Evidence {
		label := e.Title
		if label == "" {
			label = e.Text
		}
		line := "- " + label
		if e.Link != "" && e.Link != "#" {
			line = fmt.Sprintf("- [%s](%s)", label, e.Link)
		}
		if e.Sentiment != "" {
			line += " (" + e.Sentiment + ")"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
