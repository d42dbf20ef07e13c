package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lmedrano/pulso/internal/report"
)

// Client talks to the analysis service that scores batches of URLs.
type Client struct {
	BaseURL string
	apiKey  string
	client  *http.Client
	log     *logrus.Logger
}

// NewClient creates a client for the analysis service. The API key is read
// from the environment variable named by apiKeyEnv; an empty key is allowed
// for services that do not require auth.
func NewClient(baseURL, apiKeyEnv string, timeout time.Duration, log *logrus.Logger) *Client {
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		BaseURL: baseURL,
		apiKey:  os.Getenv(apiKeyEnv),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type analyzeRequest struct {
	Politician report.Subject `json:"politician"`
	URLs       []string       `json:"urls"`
}

// Analyze submits a URL batch for a subject and returns the raw analysis
// response. The caller turns it into a dashboard with report.Transform.
func (c *Client) Analyze(ctx context.Context, subject report.Subject, urls []string) (*report.AnalysisResponse, error) {
	c.log.WithFields(logrus.Fields{
		"politician": subject.Name,
		"urls":       len(urls),
	}).Info("submitting batch to analysis service")

	var resp report.AnalysisResponse
	if err := c.post(ctx, "/smart-report", analyzeRequest{Politician: subject, URLs: urls}, &resp); err != nil {
		return nil, err
	}

	c.log.WithField("results", len(resp.Results)).Info("analysis complete")
	return &resp, nil
}

// DailySummary fetches the service's condensed daily summary for a subject.
func (c *Client) DailySummary(ctx context.Context, name string) (*report.DailySummary, error) {
	q := url.Values{"name": {name}}
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/daily-summary?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis service error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("analysis service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var summary report.DailySummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decoding daily summary: %w", err)
	}
	return &summary, nil
}

// Healthy reports whether the analysis service answers on its health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analysis service error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("analysis service returned %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "pulso/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
