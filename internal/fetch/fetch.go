package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	readability "github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"

	"github.com/lmedrano/pulso/internal/report"
)

// Result holds the results of a metadata enrichment run.
type Result struct {
	Enriched int
	Skipped  int
	Failed   int
}

// MetadataFetcher fills in missing page metadata via HTTP + readability
// extraction. The analysis service returns what it could scrape; this covers
// the gaps for records that came back with bare URLs.
type MetadataFetcher struct {
	client *http.Client
	log    *logrus.Logger
}

// NewMetadataFetcher creates a new metadata fetcher.
func NewMetadataFetcher(timeout time.Duration, log *logrus.Logger) *MetadataFetcher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MetadataFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		log: log,
	}
}

// EnrichRecords fetches metadata for web records missing a title. Social
// platform pages are skipped: their markup rarely yields anything useful.
// Records are modified in place; failures leave the record as-is.
func (f *MetadataFetcher) EnrichRecords(ctx context.Context, records []report.AnalysisRecord) *Result {
	result := &Result{}
	failedDomains := make(map[string]struct{})

	for i := range records {
		meta := &records[i].Meta
		if meta.Platform == "" {
			meta.Platform = PlatformFromURL(meta.URL)
		}
		if meta.PublishedAt != "" {
			meta.PublishedAt = NormalizeDate(meta.PublishedAt)
		}
		if meta.Title != "" || meta.URL == "" || meta.Platform != "web" {
			result.Skipped++
			continue
		}

		domain := hostOf(meta.URL)
		if _, failed := failedDomains[domain]; failed {
			result.Failed++
			continue
		}

		page, err := f.fetchPage(ctx, meta.URL)
		if err != nil {
			result.Failed++
			if domain != "" {
				failedDomains[domain] = struct{}{}
			}
			f.log.WithField("url", meta.URL).Debug("metadata fetch failed, skipping domain")
			continue
		}

		if page.Title != "" {
			meta.Title = page.Title
		}
		if meta.Description == "" {
			meta.Description = page.Excerpt
		}
		if meta.Author == "" {
			meta.Author = page.Byline
		}
		if meta.PublishedAt == "" && page.PublishedAt != "" {
			meta.PublishedAt = page.PublishedAt
		}
		result.Enriched++
	}

	f.log.WithFields(logrus.Fields{
		"enriched": result.Enriched,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
	}).Info("metadata enrichment complete")
	return result
}

// Page is extracted metadata for a single URL.
type Page struct {
	Title       string
	Excerpt     string
	Byline      string
	PublishedAt string // RFC 3339 when a date was found
}

func (f *MetadataFetcher) fetchPage(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "pulso/1.0 (perception monitor)")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &httpError{code: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	parsedURL, _ := url.Parse(pageURL)
	article, err := readability.FromReader(strings.NewReader(string(bodyBytes)), parsedURL)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Title:   strings.TrimSpace(article.Title),
		Excerpt: strings.TrimSpace(article.Excerpt),
		Byline:  strings.TrimSpace(article.Byline),
	}
	if article.PublishedTime != nil {
		page.PublishedAt = article.PublishedTime.Format(time.RFC3339)
	} else if article.ModifiedTime != nil {
		// Some sites only expose a modified-time tag.
		page.PublishedAt = article.ModifiedTime.Format(time.RFC3339)
	}
	return page, nil
}

// NormalizeDate best-effort parses a scraped date string into RFC 3339.
// Returns the input unchanged when it cannot be parsed.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}
	return t.Format(time.RFC3339)
}

var platformHosts = map[string]string{
	"tiktok.com":    "tiktok",
	"instagram.com": "instagram",
	"twitter.com":   "x",
	"x.com":         "x",
	"facebook.com":  "facebook",
	"fb.com":        "facebook",
	"youtube.com":   "youtube",
	"youtu.be":      "youtube",
	"threads.net":   "threads",
}

// PlatformFromURL classifies a URL's host into a known platform, falling
// back to "web" for anything unrecognized.
func PlatformFromURL(rawURL string) string {
	host := hostOf(rawURL)
	if host == "" {
		return "web"
	}
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")
	for suffix, platform := range platformHosts {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return platform
		}
	}
	return "web"
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u == nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

type httpError struct {
	code int
}

func (e *httpError) Error() string {
	return http.StatusText(e.code)
}
