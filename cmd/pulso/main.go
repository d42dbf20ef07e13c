package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lmedrano/pulso/internal/analyze"
	"github.com/lmedrano/pulso/internal/collect"
	"github.com/lmedrano/pulso/internal/config"
	"github.com/lmedrano/pulso/internal/database"
	"github.com/lmedrano/pulso/internal/export"
	"github.com/lmedrano/pulso/internal/fetch"
	"github.com/lmedrano/pulso/internal/report"
	"github.com/lmedrano/pulso/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     = logrus.New()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "pulso",
	Short:   "Digital perception monitoring for public figures",
	Long:    "pulso turns batches of analyzed mentions into perception dashboards: KPIs, sentiment and narrative distributions, detected campaigns, and a FODA reading.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level, err := logrus.ParseLevel(cfg.Logging.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		if verbose {
			level = logrus.DebugLevel
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pulso", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/pulso/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure the analysis service, feeds, and output.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and service status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Database:")
		fmt.Printf("  Subjects tracked: %d\n", stats.Subjects)
		fmt.Printf("  Reports saved: %d (%d weekly, %d daily)\n", stats.Reports, stats.WeeklyReports, stats.DailyReports)

		client := newClient()
		fmt.Println("\nAnalysis service:")
		fmt.Printf("  URL: %s\n", cfg.Service.BaseURL)
		if client.Healthy(cmd.Context()) {
			fmt.Println("  Status: reachable")
		} else {
			fmt.Println("  Status: unreachable")
		}
		return nil
	},
}

// --- analyze command ---

var (
	analyzeName   string
	analyzeOffice string
	analyzeFile   string
	analyzeJSON   bool
	analyzeSave   bool
	analyzeForce  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a batch of URLs and build a perception dashboard",
	Long:  "Reads URLs (one per line, or comma/semicolon separated) from --file or stdin, submits them to the analysis service, and prints the resulting dashboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeName == "" {
			return fmt.Errorf("--name is required")
		}

		raw, err := readURLInput(analyzeFile)
		if err != nil {
			return err
		}
		urls := analyze.ParseURLBatch(raw)
		if analyzeForce {
			if len(urls) == 0 {
				return fmt.Errorf("no URLs provided")
			}
		} else if err := analyze.ValidateBatch(urls, cfg.Analysis.MinURLs); err != nil {
			return fmt.Errorf("%w (use --force to analyze anyway)", err)
		}

		ctx := cmd.Context()
		client := newClient()
		subject := report.Subject{Name: analyzeName, Office: analyzeOffice}
		resp, err := client.Analyze(ctx, subject, urls)
		if err != nil {
			return err
		}
		if resp.Politician.Name == "" {
			resp.Politician.Name = subject.Name
		}
		if resp.Politician.Office == "" {
			resp.Politician.Office = subject.Office
		}

		if cfg.Analysis.EnrichMetadata {
			fetcher := fetch.NewMetadataFetcher(0, logger)
			fetcher.EnrichRecords(ctx, resp.Results)
		}

		dash := report.Transform(resp)

		if analyzeSave {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := saveDashboard(db, resp, dash)
			if err != nil {
				return fmt.Errorf("saving report: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Saved report [%d]\n", id)
		}

		if analyzeJSON {
			return printJSON(dash)
		}
		fmt.Print(export.Markdown(dash))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeName, "name", "n", "", "Subject name (required)")
	analyzeCmd.Flags().StringVar(&analyzeOffice, "office", "", "Subject office or role")
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "File with URLs (default: stdin)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the dashboard as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Save the report to the database")
	analyzeCmd.Flags().BoolVar(&analyzeForce, "force", false, "Skip the minimum batch size check")
}

func readURLInput(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading URL file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// --- discover command ---

var (
	discoverName     string
	discoverDaysBack int
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan configured feeds for mentions of a subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		if discoverName == "" {
			return fmt.Errorf("--name is required")
		}

		d := collect.NewDiscoverer(cfg, discoverDaysBack, logger)
		result, entries := d.Discover(discoverName)

		fmt.Printf("Scanned %d entries, %d mentioning %s.\n", result.TotalScanned, result.Matches, discoverName)
		if len(result.Sources) > 0 {
			fmt.Println("\nMatches by source:")
			type kv struct {
				key string
				val int
			}
			var sorted []kv
			for k, v := range result.Sources {
				sorted = append(sorted, kv{k, v})
			}
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].val > sorted[j].val })
			for _, s := range sorted {
				fmt.Printf("  %s: %d\n", s.key, s.val)
			}
		}

		if len(entries) > 0 {
			fmt.Println("\nCandidate URLs:")
			for _, e := range entries {
				fmt.Println(e.URL)
			}
			fmt.Fprintln(os.Stderr, "\nPipe these into 'pulso analyze' to build a dashboard.")
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringVarP(&discoverName, "name", "n", "", "Subject name (required)")
	discoverCmd.Flags().IntVar(&discoverDaysBack, "days-back", 7, "Lookback window (days)")
}

// --- daily command ---

var dailyName string

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Fetch and print the daily express summary for a subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		if dailyName == "" {
			return fmt.Errorf("--name is required")
		}

		client := newClient()
		summary, err := client.DailySummary(cmd.Context(), dailyName)
		if err != nil {
			return err
		}

		daily := report.BuildDailyReport(summary, dailyName)
		fmt.Print(export.DailyMarkdown(daily, dailyName))
		return nil
	},
}

func init() {
	dailyCmd.Flags().StringVarP(&dailyName, "name", "n", "", "Subject name (required)")
}

// --- reports command ---

var reportsSubject string

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List saved reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		var reports []database.Report
		if reportsSubject != "" {
			reports, err = db.GetReportsForSubject(reportsSubject)
		} else {
			reports, err = db.GetAllReports()
		}
		if err != nil {
			return err
		}

		if len(reports) == 0 {
			fmt.Println("No saved reports. Run 'pulso analyze --save' to create one.")
			return nil
		}

		for _, r := range reports {
			created := ""
			if r.CreatedAt != nil {
				created = *r.CreatedAt
			}
			fmt.Printf("  [%d] %s (%s) %s  %s\n", r.ID, r.SubjectName, r.Kind, r.Period, created)
		}
		return nil
	},
}

func init() {
	reportsCmd.Flags().StringVarP(&reportsSubject, "subject", "s", "", "Filter by subject slug")
}

// --- show command ---

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, saved, err := loadReport(args[0])
		if err != nil {
			return err
		}
		defer db.Close()

		if showJSON {
			fmt.Println(saved.DashboardJSON)
			return nil
		}

		var dash report.DashboardModel
		if err := json.Unmarshal([]byte(saved.DashboardJSON), &dash); err != nil {
			return fmt.Errorf("stored dashboard is corrupt: %w", err)
		}
		fmt.Print(export.Markdown(&dash))
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the raw dashboard JSON")
}

// --- delete command ---

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, saved, err := loadReport(args[0])
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteReport(saved.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted report [%d] for %s\n", saved.ID, saved.SubjectName)
		return nil
	},
}

// --- export command ---

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a saved report as markdown or HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, saved, err := loadReport(args[0])
		if err != nil {
			return err
		}
		defer db.Close()

		var dash report.DashboardModel
		if err := json.Unmarshal([]byte(saved.DashboardJSON), &dash); err != nil {
			return fmt.Errorf("stored dashboard is corrupt: %w", err)
		}

		var out string
		switch exportFormat {
		case "md", "markdown":
			out = export.Markdown(&dash)
		case "html":
			out, err = export.HTML(&dash)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q (use md or html)", exportFormat)
		}

		if exportOut == "" {
			fmt.Print(out)
			return nil
		}
		if err := os.WriteFile(exportOut, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Printf("Wrote %s\n", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md or html")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Output file (default: stdout)")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local report server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, newClient(), port, logger)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default: from config)")
}

// --- helpers ---

func newClient() *analyze.Client {
	timeout := time.Duration(cfg.Service.TimeoutSeconds) * time.Second
	return analyze.NewClient(cfg.Service.BaseURL, cfg.Service.APIKeyEnv, timeout, logger)
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "pulso.db")
	return database.Open(dbPath)
}

func loadReport(arg string) (*database.DB, *database.Report, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid report ID: %s", arg)
	}

	db, err := openDB()
	if err != nil {
		return nil, nil, err
	}

	saved, err := db.GetReport(id)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	if saved == nil {
		db.Close()
		return nil, nil, fmt.Errorf("report %d not found", id)
	}
	return db, saved, nil
}

func saveDashboard(db *database.DB, resp *report.AnalysisResponse, dash *report.DashboardModel) (int64, error) {
	var office *string
	if resp.Politician.Office != "" {
		office = &resp.Politician.Office
	}
	subjectID, err := db.UpsertSubject(resp.Politician.Name, office)
	if err != nil {
		return 0, err
	}

	dashJSON, err := json.Marshal(dash)
	if err != nil {
		return 0, err
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		return 0, err
	}
	raw := string(respJSON)

	return db.InsertReport(subjectID, "weekly", dash.Period, string(dashJSON), &raw)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
