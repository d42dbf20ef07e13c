package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	reachPerMention        = 2500
	interactionsPerMention = 150
	maxCampaigns           = 3
	maxActiveCampaigns     = 5
	maxKeyActors           = 5
	titleBudget            = 80
)

// Fixed color tokens the dashboard charts expect per bucket.
const (
	colorPositive = "#10b981"
	colorNeutral  = "#f59e0b"
	colorNegative = "#ef4444"
)

// sentimentScore maps a sentiment class to the 0-100 scale.
var sentimentScore = map[string]int{
	"positive": 100,
	"neutral":  50,
	"negative": 0,
}

// weekdayNames indexes time.Weekday (Sunday = 0).
var weekdayNames = [7]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

// campaignTrends is a rank-indexed lookup, not a measured trend.
var campaignTrends = [maxCampaigns]string{"up", "stable", "down"}

var spanishMonths = [12]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

// shortFormPlatforms have no headline; their articles get a synthesized title.
var shortFormPlatforms = map[string]bool{
	"tiktok":    true,
	"instagram": true,
	"x":         true,
	"twitter":   true,
	"facebook":  true,
	"threads":   true,
	"youtube":   true,
}

// runStats are the counts every derivation shares. All of them come from the
// record list itself; RunSummary counts are never used here so the dashboard
// stays consistent with the articles shown next to it.
type runStats struct {
	total      int
	sentiments SentimentCounts
	stances    StanceCounts
	average    int
	platforms  []PlatformCount
	topics     []topicStat

	// platform with the most positive records, first-seen on ties
	positivePlatform string
}

type topicStat struct {
	name       string
	mentions   int
	scoreTotal int
}

func (t topicStat) meanScore() int {
	if t.mentions == 0 {
		return 50
	}
	return int(math.Round(float64(t.scoreTotal) / float64(t.mentions)))
}

// Transform derives a complete dashboard from one analysis response using
// the current time as the evaluation clock.
func Transform(resp *AnalysisResponse) *DashboardModel {
	return TransformAt(resp, time.Now())
}

// TransformAt is the pure form of Transform: given the same response and
// clock it always produces the same model. A nil response yields a nil
// model; every other degenerate input degrades to documented defaults.
func TransformAt(resp *AnalysisResponse, now time.Time) *DashboardModel {
	if resp == nil {
		return nil
	}

	records := resp.Results
	stats := computeStats(records)

	actor := strings.TrimSpace(resp.Politician.Name)
	if actor == "" {
		actor = "Actor político"
	}

	return &DashboardModel{
		Actor:     actor,
		Period:    periodRange(records, now),
		Diagnosis: diagnosis(actor, stats),

		TotalMentions:    stats.total,
		MentionsChange:   0,
		AverageSentiment: stats.average,
		SentimentChange:  0,
		ActiveCampaigns:  min(len(stats.topics), maxActiveCampaigns),
		EstimatedReach:   stats.total * reachPerMention,
		ReachChange:      0,

		PublicVisibility:    visibilityMetric(stats),
		DigitalInteractions: interactionsMetric(stats),
		MediaPresence:       mediaPresenceMetric(stats),
		ReputationalRisk:    riskMetric(stats),

		WeeklyTrend:           weeklyTrend(records, stats.average, now),
		SentimentDistribution: sentimentDistribution(stats),
		StanceDistribution:    stanceDistribution(stats),
		PlatformDistribution:  stats.platforms,

		Campaigns: campaigns(stats),
		Analysis:  buildSWOT(stats),
		KeyActors: keyActors(resp.Summary, stats),
		Articles:  projectArticles(records, now),
		Alerts:    []Alert{},
		Keywords:  keywords(resp.Summary),
	}
}

// computeStats runs the shared counting pass over the record list.
func computeStats(records []AnalysisRecord) runStats {
	stats := runStats{total: len(records)}

	scoreSum := 0
	platformIdx := map[string]int{}
	topicIdx := map[string]int{}
	positiveByPlatform := map[string]int{}
	bestPositive := 0

	for _, r := range records {
		sentiment := normalizeSentiment(r.AI.Sentiment)
		switch sentiment {
		case "positive":
			stats.sentiments.Positive++
		case "negative":
			stats.sentiments.Negative++
		default:
			stats.sentiments.Neutral++
		}
		scoreSum += sentimentScore[sentiment]

		switch normalizeStance(r.AI.Stance) {
		case "favor":
			stats.stances.Favor++
		case "against":
			stats.stances.Against++
		default:
			stats.stances.Neutral++
		}

		platform := normalizePlatform(r.Meta.Platform)
		if i, ok := platformIdx[platform]; ok {
			stats.platforms[i].Value++
		} else {
			platformIdx[platform] = len(stats.platforms)
			stats.platforms = append(stats.platforms, PlatformCount{Name: platform, Value: 1})
		}
		if sentiment == "positive" {
			positiveByPlatform[platform]++
			if positiveByPlatform[platform] > bestPositive {
				bestPositive = positiveByPlatform[platform]
				stats.positivePlatform = platform
			}
		}

		topic := strings.TrimSpace(r.AI.Topic)
		if topic != "" {
			if i, ok := topicIdx[topic]; ok {
				stats.topics[i].mentions++
				stats.topics[i].scoreTotal += sentimentScore[sentiment]
			} else {
				topicIdx[topic] = len(stats.topics)
				stats.topics = append(stats.topics, topicStat{
					name:       topic,
					mentions:   1,
					scoreTotal: sentimentScore[sentiment],
				})
			}
		}
	}

	if stats.total > 0 {
		stats.average = int(math.Round(float64(scoreSum) / float64(stats.total)))
	} else {
		stats.average = 50
	}

	// Rank by count descending; ties keep first-seen input order.
	sort.SliceStable(stats.topics, func(i, j int) bool {
		return stats.topics[i].mentions > stats.topics[j].mentions
	})
	sort.SliceStable(stats.platforms, func(i, j int) bool {
		return stats.platforms[i].Value > stats.platforms[j].Value
	})

	if stats.platforms == nil {
		stats.platforms = []PlatformCount{}
	}
	return stats
}

func normalizeSentiment(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return "positive"
	case "negative":
		return "negative"
	default:
		return "neutral"
	}
}

func normalizeStance(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "favor":
		return "favor"
	case "against":
		return "against"
	default:
		return "neutral"
	}
}

func normalizePlatform(s string) string {
	p := strings.ToLower(strings.TrimSpace(s))
	if p == "" {
		return "web"
	}
	return p
}

// parseWhen parses a loosely formatted timestamp, falling back to the
// evaluation clock when absent or unparseable.
func parseWhen(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return now
	}
	return t
}

// periodRange formats the span of the records' publish dates. Records carry
// no dates at all -> the last 7 days ending at the evaluation clock.
func periodRange(records []AnalysisRecord, now time.Time) string {
	var minT, maxT time.Time
	for _, r := range records {
		s := strings.TrimSpace(r.Meta.PublishedAt)
		if s == "" {
			continue
		}
		t, err := dateparse.ParseAny(s)
		if err != nil {
			continue
		}
		if minT.IsZero() || t.Before(minT) {
			minT = t
		}
		if maxT.IsZero() || t.After(maxT) {
			maxT = t
		}
	}

	if minT.IsZero() {
		minT = now.AddDate(0, 0, -7)
		maxT = now
	}
	return formatPeriod(minT, maxT)
}

func formatPeriod(from, to time.Time) string {
	if from.Year() == to.Year() {
		return fmt.Sprintf("%d %s – %d %s %d",
			from.Day(), spanishMonths[from.Month()-1],
			to.Day(), spanishMonths[to.Month()-1], to.Year())
	}
	return fmt.Sprintf("%d %s %d – %d %s %d",
		from.Day(), spanishMonths[from.Month()-1], from.Year(),
		to.Day(), spanishMonths[to.Month()-1], to.Year())
}

// weeklyTrend buckets records into the 7 fixed weekday slots (Sun..Sat).
// This is a day-of-week histogram: records from different calendar weeks
// landing on the same weekday share a slot. Empty slots take the overall
// average so the chart stays continuous.
func weeklyTrend(records []AnalysisRecord, overallAverage int, now time.Time) []TrendPoint {
	var counts [7]int
	var scores [7]int

	for _, r := range records {
		day := int(parseWhen(r.Meta.PublishedAt, now).Weekday())
		counts[day]++
		scores[day] += sentimentScore[normalizeSentiment(r.AI.Sentiment)]
	}

	trend := make([]TrendPoint, 7)
	for day := 0; day < 7; day++ {
		point := TrendPoint{Day: weekdayNames[day], Mentions: counts[day], Sentiment: overallAverage}
		if counts[day] > 0 {
			point.Sentiment = int(math.Round(float64(scores[day]) / float64(counts[day])))
		}
		trend[day] = point
	}
	return trend
}

func sentimentDistribution(stats runStats) []Distribution {
	return []Distribution{
		{Name: "Positivo", Count: stats.sentiments.Positive, Percentage: percent(stats.sentiments.Positive, stats.total), Color: colorPositive},
		{Name: "Neutral", Count: stats.sentiments.Neutral, Percentage: percent(stats.sentiments.Neutral, stats.total), Color: colorNeutral},
		{Name: "Negativo", Count: stats.sentiments.Negative, Percentage: percent(stats.sentiments.Negative, stats.total), Color: colorNegative},
	}
}

func stanceDistribution(stats runStats) []Distribution {
	return []Distribution{
		{Name: "A Favor", Count: stats.stances.Favor, Percentage: percent(stats.stances.Favor, stats.total), Color: colorPositive},
		{Name: "Neutral", Count: stats.stances.Neutral, Percentage: percent(stats.stances.Neutral, stats.total), Color: colorNeutral},
		{Name: "En Contra", Count: stats.stances.Against, Percentage: percent(stats.stances.Against, stats.total), Color: colorNegative},
	}
}

func percent(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) * 100 / float64(total)))
}

// campaigns ranks the top topics for display. The trend label is assigned by
// rank position only.
func campaigns(stats runStats) []Campaign {
	n := min(len(stats.topics), maxCampaigns)
	out := make([]Campaign, 0, n)
	for i := 0; i < n; i++ {
		t := stats.topics[i]
		out = append(out, Campaign{
			Name:      t.name,
			Mentions:  t.mentions,
			Sentiment: float64(t.meanScore()) / 100,
			Trend:     campaignTrends[i],
		})
	}
	return out
}

func diagnosis(actor string, stats runStats) string {
	switch predominant(stats.sentiments) {
	case "positive":
		return fmt.Sprintf("%s mantiene una percepción predominantemente positiva en medios digitales. Se recomienda mantener la estrategia actual y capitalizar el momentum.", actor)
	case "negative":
		return fmt.Sprintf("%s enfrenta desafíos de percepción en medios digitales. Se recomienda una estrategia de comunicación proactiva y gestión de crisis.", actor)
	default:
		return fmt.Sprintf("%s presenta una percepción equilibrada en medios digitales. Oportunidad para reforzar mensajes clave y aumentar el engagement.", actor)
	}
}

func predominant(c SentimentCounts) string {
	if c.Positive > c.Negative && c.Positive > c.Neutral {
		return "positive"
	}
	if c.Negative > c.Positive && c.Negative > c.Neutral {
		return "negative"
	}
	return "neutral"
}

// projectArticles maps every record into its display form, guaranteeing a
// non-empty title.
func projectArticles(records []AnalysisRecord, now time.Time) []ArticleView {
	views := make([]ArticleView, 0, len(records))
	for _, r := range records {
		date := parseWhen(r.Meta.PublishedAt, now).Format("2006-01-02")
		platform := normalizePlatform(r.Meta.Platform)

		link := strings.TrimSpace(r.Meta.URL)
		if link == "" {
			link = "#"
		}

		views = append(views, ArticleView{
			Title:     articleTitle(r, platform, date),
			Summary:   strings.TrimSpace(r.AI.Summary),
			Date:      date,
			Link:      link,
			Sentiment: normalizeSentiment(r.AI.Sentiment),
			Stance:    normalizeStance(r.AI.Stance),
			Topic:     strings.TrimSpace(r.AI.Topic),
			Platform:  platform,
		})
	}
	return views
}

// articleTitle applies the fallback chain: supplied title, truncated AI
// summary, synthesized short-form title, literal sentinel.
func articleTitle(r AnalysisRecord, platform, date string) string {
	if title := strings.TrimSpace(r.Meta.Title); title != "" {
		return title
	}
	if summary := strings.TrimSpace(r.AI.Summary); summary != "" {
		return truncate(summary, titleBudget)
	}
	if shortFormPlatforms[platform] {
		return fmt.Sprintf("Post de %s - %s", platform, date)
	}
	return "Sin título"
}

func truncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return strings.TrimSpace(string(runes[:budget])) + "…"
}

// keywords parses the "Name (count)" entity strings; entries that don't
// match the pattern are skipped.
func keywords(summary *RunSummary) []Keyword {
	out := []Keyword{}
	if summary == nil {
		return out
	}
	for _, entity := range summary.TopEntities {
		name, count, ok := parseEntity(entity)
		if ok {
			out = append(out, Keyword{Word: name, Frequency: count})
		}
	}
	return out
}

// parseEntity splits a ranked-entity string of the form "Name (count)".
// ok is false when the string carries no trailing count.
func parseEntity(s string) (name string, count int, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, ")") {
		return s, 1, false
	}
	open := strings.LastIndex(s, "(")
	if open <= 0 {
		return s, 1, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s[open+1 : len(s)-1]))
	if err != nil || n < 0 {
		return s, 1, false
	}
	return strings.TrimSpace(s[:open]), n, true
}

// --- secondary status metrics ---
//
// Threshold tables copied from the product as-is; consumers depend on the
// exact boundaries.

const (
	visibilityHigh      = 20
	visibilityMedium    = 10
	visibilityThreshold = 15
	sentimentThreshold  = 60
	platformThreshold   = 3
	riskMediumNegatives = 2
)

// statusFor classifies a scalar against a threshold: above it is positive,
// below 70% of it is negative, otherwise neutral.
func statusFor(value, threshold float64) (status, trend string) {
	if value > threshold {
		return "positive", "up"
	}
	if value < threshold*0.7 {
		return "negative", "down"
	}
	return "neutral", "stable"
}

func visibilityMetric(stats runStats) StatusMetric {
	value := "Baja"
	if stats.total > visibilityHigh {
		value = "Alta"
	} else if stats.total > visibilityMedium {
		value = "Media"
	}
	status, trend := statusFor(float64(stats.total), visibilityThreshold)
	return StatusMetric{Value: value, Status: status, Trend: trend}
}

func interactionsMetric(stats runStats) StatusMetric {
	status, trend := statusFor(float64(stats.average), sentimentThreshold)
	return StatusMetric{
		Value:  groupThousands(stats.total * interactionsPerMention),
		Status: status,
		Trend:  trend,
	}
}

func mediaPresenceMetric(stats runStats) StatusMetric {
	n := len(stats.platforms)
	status, trend := statusFor(float64(n), platformThreshold)
	return StatusMetric{Value: strconv.Itoa(n), Status: status, Trend: trend}
}

func riskMetric(stats runStats) StatusMetric {
	neg, pos := stats.sentiments.Negative, stats.sentiments.Positive
	switch {
	case neg > pos:
		return StatusMetric{Value: "Alto", Status: "negative", Trend: "up"}
	case neg > riskMediumNegatives:
		return StatusMetric{Value: "Medio", Status: "neutral", Trend: "down"}
	default:
		return StatusMetric{Value: "Bajo", Status: "positive", Trend: "down"}
	}
}

// groupThousands renders n with comma separators, e.g. 3750 -> "3,750".
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
