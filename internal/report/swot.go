package report

import "fmt"

// swotRule is one condition of a SWOT list. Rules are evaluated in order;
// every line whose condition holds is appended.
type swotRule struct {
	when func(runStats) bool
	line func(runStats) string
}

var strengthRules = []swotRule{
	{
		when: func(s runStats) bool { return s.sentiments.Positive > s.sentiments.Negative },
		line: func(s runStats) string {
			return fmt.Sprintf("Percepción mayormente positiva en %s (%d menciones favorables)",
				positivePlatform(s), s.sentiments.Positive)
		},
	},
	{
		when: func(s runStats) bool { return len(s.topics) > 0 && s.topics[0].mentions > 2 },
		line: func(s runStats) string {
			return fmt.Sprintf("Narrativa consolidada en torno a \"%s\" (%d menciones)",
				s.topics[0].name, s.topics[0].mentions)
		},
	},
	{
		when: func(s runStats) bool { return s.average >= 60 },
		line: func(s runStats) string {
			return fmt.Sprintf("Sentimiento promedio favorable (%d/100)", s.average)
		},
	},
}

var weaknessRules = []swotRule{
	{
		when: func(s runStats) bool { return s.sentiments.Negative > s.sentiments.Positive },
		line: func(s runStats) string {
			return fmt.Sprintf("Predominio de menciones negativas (%d frente a %d positivas)",
				s.sentiments.Negative, s.sentiments.Positive)
		},
	},
	{
		when: func(s runStats) bool { return s.total > 0 && s.total < 5 },
		line: func(s runStats) string {
			return fmt.Sprintf("Volumen de menciones bajo (%d); visibilidad limitada", s.total)
		},
	},
	{
		when: func(s runStats) bool { return s.stances.Against > s.stances.Favor },
		line: func(s runStats) string {
			return "La narrativa en contra supera a la favorable"
		},
	},
}

var opportunityRules = []swotRule{
	{
		when: func(s runStats) bool {
			return s.sentiments.Neutral >= s.sentiments.Positive && s.sentiments.Neutral >= s.sentiments.Negative && s.total > 0
		},
		line: func(s runStats) string {
			return fmt.Sprintf("Alto volumen de menciones neutrales (%d) convertibles en favorables", s.sentiments.Neutral)
		},
	},
	{
		when: func(s runStats) bool { return len(s.platforms) > 0 && len(s.platforms) < 3 },
		line: func(s runStats) string {
			return "Presencia concentrada en pocas plataformas; espacio para diversificar canales"
		},
	},
}

var threatRules = []swotRule{
	{
		when: func(s runStats) bool { return s.sentiments.Negative > 2 },
		line: func(s runStats) string {
			return fmt.Sprintf("Narrativa negativa en crecimiento (%d menciones)", s.sentiments.Negative)
		},
	},
	{
		when: func(s runStats) bool { return s.stances.Against > 0 },
		line: func(s runStats) string {
			return fmt.Sprintf("Posicionamientos en contra articulados (%d registros)", s.stances.Against)
		},
	},
}

// Entries present in every report regardless of the counts.
var (
	opportunityBoilerplate = []string{
		"Expansión hacia nuevas plataformas digitales",
		"Colaboraciones estratégicas con actores afines",
	}
	threatBoilerplate = []string{
		"Competencia activa en el espacio digital",
		"Riesgo de desinformación y cuentas no verificadas",
	}
)

const (
	strengthFallback = "Oportunidad de construcción de marca digital"
	weaknessFallback = "Alcance limitado en algunos segmentos digitales"
)

// buildSWOT produces the four analysis lists. Each list is guaranteed
// non-empty: conditional rules first, then boilerplate or a fallback line.
func buildSWOT(stats runStats) SWOT {
	return SWOT{
		Strengths:     applyRules(strengthRules, stats, nil, strengthFallback),
		Weaknesses:    applyRules(weaknessRules, stats, nil, weaknessFallback),
		Opportunities: applyRules(opportunityRules, stats, opportunityBoilerplate, ""),
		Threats:       applyRules(threatRules, stats, threatBoilerplate, ""),
	}
}

func applyRules(rules []swotRule, stats runStats, always []string, fallback string) []string {
	var out []string
	for _, r := range rules {
		if r.when(stats) {
			out = append(out, r.line(stats))
		}
	}
	out = append(out, always...)
	if len(out) == 0 {
		out = append(out, fallback)
	}
	return out
}

// positivePlatform names the platform carrying the most positive records,
// falling back to a generic label when none exists.
func positivePlatform(stats runStats) string {
	if stats.positivePlatform == "" {
		return "medios digitales"
	}
	return stats.positivePlatform
}
