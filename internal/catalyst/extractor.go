// Package catalyst turns a ticker's recent news into a headline summary
// and a set of heuristic catalyst tags.
package catalyst

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vinchivii/detonation-scanner/internal/models"
)

// NoNewsSummary is the fixed summary used when a ticker has no news.
const NoNewsSummary = "No recent news detected"

// Extraction is the extractor output for one ticker.
type Extraction struct {
	CatalystSummary string
	Primary         *models.RawNewsItem
	Tags            []string
}

// keywordTags maps case-insensitive headline substrings to catalyst tags.
// Order fixes tag output order; multiple keywords may map to one tag.
var keywordTags = []struct {
	keywords []string
	tag      string
}{
	{[]string{"earnings", "q1", "q2", "q3", "q4", "quarterly"}, "Earnings"},
	{[]string{"guidance"}, "Guidance"},
	{[]string{"upgrade", "downgrade"}, "Analyst Action"},
	{[]string{"merger", "acquisition"}, "M&A"},
	{[]string{"contract", "deal"}, "Contract"},
	{[]string{"fda", "trial", "phase"}, "Biotech Catalyst"},
}

// Extract summarizes and tags a ticker's news. The most recent item by
// datetime becomes the primary; ISO-8601 strings compare lexicographically
// so no parsing is needed for ordering. Empty input yields the fixed
// no-news extraction.
func Extract(items []models.RawNewsItem) Extraction {
	if len(items) == 0 {
		return Extraction{CatalystSummary: NoNewsSummary, Tags: []string{}}
	}

	sorted := make([]models.RawNewsItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Datetime > sorted[j].Datetime
	})

	primary := sorted[0]
	return Extraction{
		CatalystSummary: fmt.Sprintf("Latest news: %s (%s)", primary.Headline, formatDatetime(primary.Datetime)),
		Primary:         &primary,
		Tags:            TagsForHeadline(primary.Headline),
	}
}

// TagsForHeadline matches a headline against the keyword table and returns
// the deduplicated tag set in table order.
func TagsForHeadline(headline string) []string {
	lower := strings.ToLower(headline)

	tags := make([]string, 0, 2)
	seen := make(map[string]bool, 2)
	for _, entry := range keywordTags {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) && !seen[entry.tag] {
				seen[entry.tag] = true
				tags = append(tags, entry.tag)
				break
			}
		}
	}
	return tags
}

// formatDatetime renders an ISO datetime for the summary line, falling
// back to the raw string when it does not parse.
func formatDatetime(iso string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, iso); err == nil {
			return ts.Format("Jan 2, 2006 15:04")
		}
	}
	return iso
}
