package analyze

import (
	"fmt"
	"strings"
)

// ParseURLBatch splits raw user input into individual URLs. Input may be
// separated by newlines, commas, or semicolons; scheme-less entries get
// https:// prepended.
func ParseURLBatch(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ',' || r == ';'
	})

	seen := make(map[string]struct{})
	var urls []string
	for _, f := range fields {
		u := strings.TrimSpace(f)
		if u == "" {
			continue
		}
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			u = "https://" + u
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

// ValidateBatch checks a parsed batch against the configured minimum size.
func ValidateBatch(urls []string, minURLs int) error {
	if len(urls) == 0 {
		return fmt.Errorf("no URLs provided")
	}
	if len(urls) < minURLs {
		return fmt.Errorf("got %d URLs, need at least %d for a representative sample", len(urls), minURLs)
	}
	return nil
}
