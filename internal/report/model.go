package report

// Subject identifies whose perception is being measured.
type Subject struct {
	Name   string `json:"name"`
	Office string `json:"office,omitempty"`
}

// RecordMeta holds the page-level metadata for one analyzed URL.
type RecordMeta struct {
	Platform    string `json:"platform"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author_name,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// RecordAI holds the AI annotations for one analyzed URL. Absent sentiment
// or stance counts as neutral everywhere downstream.
type RecordAI struct {
	Sentiment string   `json:"sentiment,omitempty"`
	Stance    string   `json:"stance,omitempty"`
	Topic     string   `json:"topic,omitempty"`
	Summary   string   `json:"summary,omitempty"`
	Entities  []string `json:"entities,omitempty"`
}

// AnalysisRecord is one analyzed URL: metadata plus annotations.
type AnalysisRecord struct {
	Meta RecordMeta `json:"meta"`
	AI   RecordAI   `json:"ai"`
}

// SentimentCounts holds raw counts per sentiment class.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// StanceCounts holds raw counts per stance class.
type StanceCounts struct {
	Favor   int `json:"favor"`
	Neutral int `json:"neutral"`
	Against int `json:"against"`
}

// RunSummary is the aggregate the analysis service sends alongside the
// records. It may be partially or fully absent; the engine recomputes every
// count it needs from the records themselves.
type RunSummary struct {
	Total       int             `json:"total"`
	Sentiments  SentimentCounts `json:"sentiments"`
	Stances     StanceCounts    `json:"stances"`
	Predominant string          `json:"predominant,omitempty"`
	TopEntities []string        `json:"top_entities,omitempty"`
	ShortText   string          `json:"short_text,omitempty"`
}

// RunMetadata carries run bookkeeping from the analysis service.
type RunMetadata struct {
	IsCached     bool   `json:"is_cached,omitempty"`
	AnalysisDate string `json:"analysis_date,omitempty"`
}

// AnalysisResponse is the full payload returned by the analysis service for
// one batch of URLs.
type AnalysisResponse struct {
	Politician Subject          `json:"politician"`
	Results    []AnalysisRecord `json:"results"`
	Summary    *RunSummary      `json:"summary,omitempty"`
	Metadata   *RunMetadata     `json:"metadata,omitempty"`
}

// Distribution is one bucket of a percentage distribution chart.
type Distribution struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
}

// TrendPoint is one weekday slot of the mention trend chart.
type TrendPoint struct {
	Day       string `json:"dia"`
	Mentions  int    `json:"menciones"`
	Sentiment int    `json:"sentimiento"`
}

// Campaign is a ranked topic presented as an active campaign.
type Campaign struct {
	Name      string  `json:"nombre"`
	Mentions  int     `json:"menciones"`
	Sentiment float64 `json:"sentimiento"`
	Trend     string  `json:"tendencia"`
}

// KeyActor is a named entity (or fallback topic) ranked by narrative weight.
type KeyActor struct {
	Name      string `json:"nombre"`
	Role      string `json:"tipo"`
	Mentions  int    `json:"interacciones"`
	Impact    string `json:"impacto"`
	Sentiment string `json:"sentimiento"`
}

// SWOT holds the four heuristic analysis lists. Every list is non-empty.
type SWOT struct {
	Strengths     []string `json:"fortalezas"`
	Opportunities []string `json:"oportunidades"`
	Weaknesses    []string `json:"debilidades"`
	Threats       []string `json:"amenazas"`
}

// StatusMetric is a secondary KPI with a threshold-derived status and trend.
type StatusMetric struct {
	Value  string `json:"value"`
	Status string `json:"status"`
	Trend  string `json:"trend"`
}

// ArticleView is the display projection of one analyzed record. Title is
// always non-empty.
type ArticleView struct {
	Title     string `json:"titulo"`
	Summary   string `json:"descripcion,omitempty"`
	Date      string `json:"fecha"`
	Link      string `json:"link"`
	Sentiment string `json:"sentiment"`
	Stance    string `json:"stance"`
	Topic     string `json:"topic,omitempty"`
	Platform  string `json:"platform"`
}

// PlatformCount is a per-platform mention count.
type PlatformCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Keyword is a frequent term parsed from the ranked entity strings.
type Keyword struct {
	Word      string `json:"palabra"`
	Frequency int    `json:"frecuencia"`
}

// Alert is a reserved activity-feed entry. The engine always emits an empty
// list; real alerting would require history this layer does not have.
type Alert struct {
	Kind    string `json:"tipo"`
	Message string `json:"mensaje"`
	Date    string `json:"fecha"`
}

// DashboardModel is the complete dashboard derived from one analysis run.
// Every field is always populated; consumers never need nil checks.
type DashboardModel struct {
	Actor     string `json:"actor"`
	Period    string `json:"periodo"`
	Diagnosis string `json:"diagnostico"`

	TotalMentions    int `json:"totalMenciones"`
	MentionsChange   int `json:"mencionesChange"`
	AverageSentiment int `json:"sentimientoPromedio"`
	SentimentChange  int `json:"sentimientoChange"`
	ActiveCampaigns  int `json:"campanasActivas"`
	EstimatedReach   int `json:"alcanceEstimado"`
	ReachChange      int `json:"alcanceChange"`

	PublicVisibility    StatusMetric `json:"visibilidadPublica"`
	DigitalInteractions StatusMetric `json:"interaccionesDigitales"`
	MediaPresence       StatusMetric `json:"mencionesEnMedios"`
	ReputationalRisk    StatusMetric `json:"riesgoReputacional"`

	WeeklyTrend           []TrendPoint    `json:"tendenciaSemanal"`
	SentimentDistribution []Distribution  `json:"sentimentDistribution"`
	StanceDistribution    []Distribution  `json:"narrativaDistribution"`
	PlatformDistribution  []PlatformCount `json:"distribucionPlataforma"`

	Campaigns []Campaign    `json:"campaigns"`
	Analysis  SWOT          `json:"foda"`
	KeyActors []KeyActor    `json:"actoresClave"`
	Articles  []ArticleView `json:"articulos"`
	Alerts    []Alert       `json:"alertas"`
	Keywords  []Keyword     `json:"keywords"`
}

// DailySummary is the payload of the analysis service's daily endpoint.
type DailySummary struct {
	Total       int              `json:"total"`
	Sentiments  SentimentCounts  `json:"sentiments"`
	Predominant string           `json:"predominant,omitempty"`
	Stances     StanceCounts     `json:"stances"`
	TopEntities []string         `json:"top_entities,omitempty"`
	ShortText   string           `json:"short_text,omitempty"`
	Results     []AnalysisRecord `json:"results,omitempty"`
}

// EvidenceEntry is one line of the daily report's evidence log.
type EvidenceEntry struct {
	Title     string `json:"titulo,omitempty"`
	Text      string `json:"descripcion"`
	Date      string `json:"fecha"`
	Link      string `json:"link"`
	Sentiment string `json:"sentiment,omitempty"`
	Stance    string `json:"stance,omitempty"`
	Topic     string `json:"topic,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

// DailyReport is the transformed daily summary.
type DailyReport struct {
	Express  string          `json:"resumen_diario_express"`
	Evidence []EvidenceEntry `json:"registro_de_evidencia"`
}
