package collect

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lmedrano/pulso/internal/config"
	"github.com/lmedrano/pulso/internal/database"
)

// Result holds the results of a discovery run.
type Result struct {
	TotalScanned int
	Matches      int
	Sources      map[string]int
}

// Discoverer scans configured RSS feeds for entries that mention a subject.
// The matched URLs feed the analysis batch for subjects without a hand-picked
// URL list.
type Discoverer struct {
	feedParser *FeedParser
	daysBack   int
	log        *logrus.Logger
}

// NewDiscoverer creates a discoverer from the configured feed list.
func NewDiscoverer(cfg *config.Config, daysBack int, log *logrus.Logger) *Discoverer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	d := &Discoverer{daysBack: daysBack, log: log}

	if len(cfg.Feeds) > 0 {
		feeds := make([]FeedConfig, len(cfg.Feeds))
		for i, f := range cfg.Feeds {
			feeds[i] = FeedConfig{URL: f.URL, Name: f.Name}
		}
		d.feedParser = NewFeedParser(feeds, log)
	}
	return d
}

// Discover returns feed entries mentioning the subject, most recent feeds
// first. Matching ignores case and accents.
func (d *Discoverer) Discover(subjectName string) (*Result, []FeedEntry) {
	r := &Result{Sources: make(map[string]int)}
	if d.feedParser == nil {
		d.log.Warn("no feeds configured, nothing to discover")
		return r, nil
	}

	needle := database.Slugify(subjectName)
	if needle == "" {
		return r, nil
	}

	entries := d.feedParser.ParseAll(d.daysBack)
	r.TotalScanned = len(entries)

	var matches []FeedEntry
	for _, entry := range entries {
		if !mentionsSubject(entry, needle) {
			continue
		}
		matches = append(matches, entry)
		r.Matches++
		r.Sources[entry.Source]++
	}

	d.log.WithFields(logrus.Fields{
		"subject": subjectName,
		"scanned": r.TotalScanned,
		"matches": r.Matches,
	}).Info("discovery complete")
	return r, matches
}

// mentionsSubject checks entry title and summary for the subject. Both sides
// are slugified so "Juan Pérez" matches "juan perez" and "JUAN PÉREZ" alike.
func mentionsSubject(entry FeedEntry, needle string) bool {
	if strings.Contains(database.Slugify(entry.Title), needle) {
		return true
	}
	return strings.Contains(database.Slugify(entry.Summary), needle)
}
